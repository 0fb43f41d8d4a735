// Package ai wraps the Gemini API behind a minimal text-in/text-out client.
// Everything the rest of the system knows about the model lives behind this
// boundary; prompt construction and response validation belong to the
// pipeline package.
package ai

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// Client sends prompts to Gemini and returns the raw response text.
type Client struct {
	client *genai.Client
	model  string
}

// NewClient creates a Gemini client with the given credential and model name.
func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("ai: create genai client: %w", err)
	}
	return &Client{client: c, model: model}, nil
}

// GenerateText submits a single-turn prompt and returns the model's text.
// One call is one blocking round trip; no retries are performed here.
func (c *Client) GenerateText(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: prompt},
			},
		},
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("ai: generate content: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("ai: empty response from model")
	}
	return text, nil
}
