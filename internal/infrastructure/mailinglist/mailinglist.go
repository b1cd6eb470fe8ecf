// Package mailinglist subscribes leads to Mailchimp or Brevo audiences.
package mailinglist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNotConfigured is returned when the provider has no credentials.
var ErrNotConfigured = errors.New("mailing list provider not configured")

// Contact is a lead to add to a list.
type Contact struct {
	Email        string
	Name         string
	BusinessType string
	Message      string
}

// Result describes what the provider did with a contact. It is returned
// alongside errors so callers can report per-channel outcomes.
type Result struct {
	Provider string          `json:"provider"`
	Success  bool            `json:"success"`
	Message  string          `json:"message,omitempty"`
	Payload  json.RawMessage `json:"payload,omitempty"`
}

// Subscriber adds or updates a contact on a list.
type Subscriber interface {
	Subscribe(ctx context.Context, c Contact) (Result, error)
	Provider() string
	Configured() bool
}

// ProviderError is a rejection reported by the list provider.
type ProviderError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s rejected subscription (status %d): %s", e.Provider, e.StatusCode, e.Message)
}

func normalize(c Contact) Contact {
	return Contact{
		Email:        strings.TrimSpace(c.Email),
		Name:         strings.TrimSpace(c.Name),
		BusinessType: strings.TrimSpace(c.BusinessType),
		Message:      strings.TrimSpace(c.Message),
	}
}

// errorMessage pulls a human message out of a provider error body.
func errorMessage(body []byte, fallback string) string {
	var payload struct {
		Detail  string `json:"detail"`
		Title   string `json:"title"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		for _, m := range []string{payload.Detail, payload.Title, payload.Message} {
			if m != "" {
				return m
			}
		}
	}
	return fallback
}

func rawPayload(body []byte) json.RawMessage {
	if json.Valid(body) {
		return json.RawMessage(body)
	}
	return nil
}
