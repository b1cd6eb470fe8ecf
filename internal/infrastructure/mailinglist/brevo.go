package mailinglist

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Brevo creates or updates contacts through the Brevo v3 API.
type Brevo struct {
	http    *resty.Client
	apiKey  string
	baseURL string
	listIDs []int
}

type brevoContact struct {
	Email         string            `json:"email"`
	Attributes    map[string]string `json:"attributes,omitempty"`
	ListIDs       []int             `json:"listIds,omitempty"`
	UpdateEnabled bool              `json:"updateEnabled"`
}

// NewBrevo creates a client. Non-numeric list ids are ignored.
func NewBrevo(apiKey, baseURL string, listIDs []string, timeout time.Duration) *Brevo {
	if baseURL == "" {
		baseURL = "https://api.brevo.com/v3"
	}
	b := &Brevo{
		http:    resty.New().SetTimeout(timeout),
		apiKey:  strings.TrimSpace(apiKey),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
	for _, id := range listIDs {
		if n, err := strconv.Atoi(strings.TrimSpace(id)); err == nil {
			b.listIDs = append(b.listIDs, n)
		}
	}
	return b
}

func (b *Brevo) Provider() string { return "brevo" }

func (b *Brevo) Configured() bool { return b.apiKey != "" }

// Subscribe posts the contact with updateEnabled so existing contacts are
// updated in place.
func (b *Brevo) Subscribe(ctx context.Context, c Contact) (Result, error) {
	if !b.Configured() {
		return Result{Provider: b.Provider(), Message: "Missing BREVO_API_KEY"}, ErrNotConfigured
	}

	c = normalize(c)
	attrs := map[string]string{}
	if c.Name != "" {
		attrs["FIRSTNAME"] = c.Name
	}
	if c.BusinessType != "" {
		attrs["BUSINESSTYPE"] = c.BusinessType
	}
	if c.Message != "" {
		attrs["MESSAGE"] = c.Message
	}

	resp, err := b.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetHeader("api-key", b.apiKey).
		SetBody(brevoContact{
			Email:         c.Email,
			Attributes:    attrs,
			ListIDs:       b.listIDs,
			UpdateEnabled: true,
		}).
		Post(b.baseURL + "/contacts")
	if err != nil {
		return Result{Provider: b.Provider(), Message: err.Error()}, fmt.Errorf("failed to reach Brevo: %w", err)
	}

	if !resp.IsSuccess() {
		msg := errorMessage(resp.Body(), fmt.Sprintf("Brevo API error: %d", resp.StatusCode()))
		return Result{Provider: b.Provider(), Message: msg, Payload: rawPayload(resp.Body())},
			&ProviderError{Provider: b.Provider(), StatusCode: resp.StatusCode(), Message: msg}
	}
	return Result{Provider: b.Provider(), Success: true, Message: "Subscribed (Brevo)", Payload: rawPayload(resp.Body())}, nil
}
