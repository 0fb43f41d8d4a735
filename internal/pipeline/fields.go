package pipeline

import (
	"encoding/json"
	"fmt"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// Field accessors for model output elements. Every accessor treats a
// missing, null, empty or mistyped value as a hard error; a single bad
// element invalidates the whole response.

func getStringField(m map[string]interface{}, key string) (string, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return "", fmt.Errorf("missing required field %q", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("field %q has type %T, want string", key, v)
	}
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("required field %q is empty", key)
	}
	return s, nil
}

func getOptionalStringField(m map[string]interface{}, key string) (string, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("field %q has type %T, want string or null", key, v)
	}
	return strings.TrimSpace(s), nil
}

// getDecimalField accepts both string amounts ("1500") and bare JSON
// numbers; models flip between the two even when the schema pins one.
func getDecimalField(m map[string]interface{}, key string) (decimal.Decimal, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return decimal.Decimal{}, fmt.Errorf("missing required field %q", key)
	}
	switch val := v.(type) {
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(val))
		if err != nil {
			return decimal.Decimal{}, fmt.Errorf("field %q: invalid amount %q: %w", key, val, err)
		}
		return d, nil
	case json.Number:
		d, err := decimal.NewFromString(val.String())
		if err != nil {
			return decimal.Decimal{}, fmt.Errorf("field %q: invalid amount %q: %w", key, val, err)
		}
		return d, nil
	default:
		return decimal.Decimal{}, fmt.Errorf("field %q has type %T, want string or number", key, v)
	}
}

func getDateField(m map[string]interface{}, key string) (civil.Date, error) {
	s, err := getStringField(m, key)
	if err != nil {
		return civil.Date{}, err
	}
	d, err := civil.ParseDate(strings.TrimSpace(s))
	if err != nil {
		return civil.Date{}, fmt.Errorf("field %q: invalid date %q: %w", key, s, err)
	}
	return d, nil
}
