package mailinglist

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Mailchimp upserts members of one audience.
type Mailchimp struct {
	http    *resty.Client
	apiKey  string
	listID  string
	baseURL string
}

type mailchimpMember struct {
	EmailAddress string            `json:"email_address"`
	Status       string            `json:"status"`
	MergeFields  map[string]string `json:"merge_fields"`
}

// NewMailchimp creates a client. The datacenter is read from the key suffix.
func NewMailchimp(apiKey, listID string, timeout time.Duration) *Mailchimp {
	m := &Mailchimp{
		http:   resty.New().SetTimeout(timeout),
		apiKey: strings.TrimSpace(apiKey),
		listID: strings.TrimSpace(listID),
	}
	if dc := datacenter(m.apiKey); dc != "" {
		m.baseURL = fmt.Sprintf("https://%s.api.mailchimp.com/3.0", dc)
	}
	return m
}

// WithBaseURL points the client at another API root.
func (m *Mailchimp) WithBaseURL(base string) *Mailchimp {
	m.baseURL = strings.TrimRight(base, "/")
	return m
}

func (m *Mailchimp) Provider() string { return "mailchimp" }

func (m *Mailchimp) Configured() bool { return m.apiKey != "" && m.listID != "" }

// Subscribe creates the member, or replaces it when it already exists.
func (m *Mailchimp) Subscribe(ctx context.Context, c Contact) (Result, error) {
	if !m.Configured() {
		return Result{Provider: m.Provider(), Message: "Mailchimp not configured"}, ErrNotConfigured
	}
	if m.baseURL == "" {
		return Result{Provider: m.Provider(), Message: "Invalid Mailchimp API key format"},
			fmt.Errorf("invalid Mailchimp API key format")
	}

	c = normalize(c)
	member := mailchimpMember{
		EmailAddress: c.Email,
		Status:       "subscribed",
		MergeFields:  map[string]string{"FNAME": c.Name},
	}

	resp, err := m.request(ctx).SetBody(member).
		Post(fmt.Sprintf("%s/lists/%s/members", m.baseURL, m.listID))
	if err != nil {
		return Result{Provider: m.Provider(), Message: err.Error()}, fmt.Errorf("failed to reach Mailchimp: %w", err)
	}

	if !resp.IsSuccess() && alreadyMember(resp.Body()) {
		resp, err = m.request(ctx).SetBody(member).
			Put(fmt.Sprintf("%s/lists/%s/members/%s", m.baseURL, m.listID, SubscriberHash(c.Email)))
		if err != nil {
			return Result{Provider: m.Provider(), Message: err.Error()}, fmt.Errorf("failed to reach Mailchimp: %w", err)
		}
	}

	if !resp.IsSuccess() {
		msg := errorMessage(resp.Body(), "Mailchimp error")
		return Result{Provider: m.Provider(), Message: msg, Payload: rawPayload(resp.Body())},
			&ProviderError{Provider: m.Provider(), StatusCode: resp.StatusCode(), Message: msg}
	}
	return Result{Provider: m.Provider(), Success: true, Message: "Subscribed (Mailchimp)", Payload: rawPayload(resp.Body())}, nil
}

func (m *Mailchimp) request(ctx context.Context) *resty.Request {
	return m.http.R().
		SetContext(ctx).
		SetBasicAuth("any", m.apiKey).
		SetHeader("Content-Type", "application/json")
}

// SubscriberHash is Mailchimp's member id: md5 of the lower-cased email.
func SubscriberHash(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return hex.EncodeToString(sum[:])
}

func datacenter(apiKey string) string {
	parts := strings.Split(apiKey, "-")
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}

func alreadyMember(body []byte) bool {
	msg := errorMessage(body, "")
	return strings.Contains(strings.ToLower(msg), "already a list member")
}
