package pipeline

import (
	"strings"
)

// buildDetectPrompt builds the subscription detection request around the
// serialized statement table. The model must answer with a strict JSON array
// of {description, amount, last_paid, next_estimated_payment} objects.
func buildDetectPrompt(csvData string) string {
	var b strings.Builder

	b.WriteString("Analyze the following CSV data from a bank statement and identify recurring subscriptions.\n")
	b.WriteString("For each recurring subscription, return the following in JSON format:\n")
	b.WriteString("- description\n")
	b.WriteString("- amount\n")
	b.WriteString("- last_paid (most recent transaction date, ISO format \"YYYY-MM-DD\")\n")
	b.WriteString("- next_estimated_payment (assume monthly recurrence, ISO format \"YYYY-MM-DD\")\n\n")

	b.WriteString("Respond ONLY with a JSON array like:\n")
	b.WriteString("[\n")
	b.WriteString("  {\n")
	b.WriteString("    \"description\": \"Netflix\",\n")
	b.WriteString("    \"amount\": \"1500\",\n")
	b.WriteString("    \"last_paid\": \"2025-03-10\",\n")
	b.WriteString("    \"next_estimated_payment\": \"2025-04-10\"\n")
	b.WriteString("  }\n")
	b.WriteString("]\n\n")

	b.WriteString("Return ONLY valid raw JSON.\n")
	b.WriteString("Do NOT wrap the response in code fences.\n\n")

	b.WriteString("CSV Data:\n")
	b.WriteString(csvData)

	return b.String()
}

// buildAlternativesPrompt asks for a cheaper or free alternative per
// subscription, with a one-line rationale.
func buildAlternativesPrompt(subscriptionsJSON string) string {
	var b strings.Builder

	b.WriteString("You are a smart assistant suggesting cheaper or free alternatives to paid subscription services.\n\n")
	b.WriteString("For each subscription below, suggest a cheaper or free alternative with a short explanation.\n")
	b.WriteString("Respond in the following JSON format:\n")
	b.WriteString("[\n")
	b.WriteString("  {\n")
	b.WriteString("    \"description\": \"Spotify\",\n")
	b.WriteString("    \"amount\": \"1500\",\n")
	b.WriteString("    \"suggestion\": \"Use YouTube Music Free with ads.\"\n")
	b.WriteString("  }\n")
	b.WriteString("]\n\n")

	b.WriteString("Return ONLY valid raw JSON, without code fences.\n\n")

	b.WriteString("Subscriptions:\n")
	b.WriteString(subscriptionsJSON)

	return b.String()
}

// buildRemindersPrompt asks for a reminder message per subscription, with an
// optional cheaper-alternative suggestion.
func buildRemindersPrompt(subscriptionsJSON string) string {
	var b strings.Builder

	b.WriteString("You are a financial assistant. Given the user's subscriptions, generate reminder messages ")
	b.WriteString("with expected payment dates and include a suggestion for a cheaper or free alternative if applicable.\n\n")
	b.WriteString("Output a JSON list in the format:\n")
	b.WriteString("[\n")
	b.WriteString("  {\n")
	b.WriteString("    \"description\": \"Spotify\",\n")
	b.WriteString("    \"amount\": \"1500\",\n")
	b.WriteString("    \"next_estimated_payment\": \"2025-04-07\",\n")
	b.WriteString("    \"reminder\": \"Reminder: Your Spotify subscription (1500) is expected around 2025-04-07.\",\n")
	b.WriteString("    \"suggestion\": \"Use YouTube Music Free with ads.\"\n")
	b.WriteString("  }\n")
	b.WriteString("]\n\n")

	b.WriteString("The \"suggestion\" field is optional.\n")
	b.WriteString("Return ONLY valid raw JSON, without code fences.\n\n")

	b.WriteString("Data:\n")
	b.WriteString(subscriptionsJSON)

	return b.String()
}

// buildChatPrompt builds the conversational Q&A request. The model is told
// to resolve future payment dates by monthly projection from last_paid, the
// same rule the calendar package implements.
func buildChatPrompt(subscriptionsJSON, question string) string {
	var b strings.Builder

	b.WriteString("You are a smart financial assistant helping users analyze their subscription payments from a bank statement.\n\n")
	b.WriteString("Below is a list of subscriptions, each with:\n")
	b.WriteString("- description\n")
	b.WriteString("- amount\n")
	b.WriteString("- last_paid (most recent payment date)\n")
	b.WriteString("- next_estimated_payment (automatically assumed to recur monthly)\n\n")

	b.WriteString("When the user asks about future payment dates (like \"when is Spotify due in May 2025\"), ")
	b.WriteString("calculate it based on the last_paid date by adding 1 month for each cycle.\n\n")
	b.WriteString("Respond conversationally and provide helpful answers.\n\n")

	b.WriteString("Subscription data:\n")
	b.WriteString(subscriptionsJSON)
	b.WriteString("\n\nUser question:\n")
	b.WriteString(question)
	b.WriteString("\n\nAnswer:\n")

	return b.String()
}
