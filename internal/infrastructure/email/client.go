// Package email sends transactional email through Resend or Mailgun.
package email

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/magnetomarketing/magneto-web/internal/infrastructure/email/templates"
	"github.com/magnetomarketing/magneto-web/pkg/config"
)

// ErrNotConfigured is returned when no provider credentials are present.
var ErrNotConfigured = errors.New("email provider not configured")

// Message is one outgoing email.
type Message struct {
	To      []string
	ReplyTo string
	Subject string
	Text    string
	HTML    string
}

// Sender delivers a message and returns the provider's message id.
type Sender interface {
	Send(ctx context.Context, msg Message) (string, error)
	Provider() string
}

// ContactNotification is a submitted contact form.
type ContactNotification struct {
	Name         string
	Email        string
	BusinessType string
	Message      string
}

// Service defines the interface for sending emails, allowing for mock implementations in tests.
type Service interface {
	SendContactNotification(ctx context.Context, n ContactNotification) (string, error)
}

// Mailer renders site emails and hands them to a Sender.
type Mailer struct {
	sender    Sender
	recipient string
	siteName  string
	siteURL   string
}

// NewMailer creates a Mailer delivering contact notifications to recipient.
func NewMailer(sender Sender, recipient, siteName, siteURL string) *Mailer {
	return &Mailer{
		sender:    sender,
		recipient: strings.TrimSpace(recipient),
		siteName:  siteName,
		siteURL:   siteURL,
	}
}

// NewService creates the configured email service. A missing provider is
// not fatal; every send then fails with ErrNotConfigured.
func NewService() (Service, error) {
	sender, err := NewSender(config.EmailProvider)
	if err != nil && !errors.Is(err, ErrNotConfigured) {
		return nil, err
	}
	return NewMailer(sender, config.ContactRecipient, config.SiteName, config.SiteURL), nil
}

// NewSender builds the sender for provider ("resend" or "mailgun").
func NewSender(provider string) (Sender, error) {
	from := config.EmailFrom
	if config.EmailFromName != "" {
		from = fmt.Sprintf("%s <%s>", config.EmailFromName, config.EmailFrom)
	}

	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "", "resend":
		if config.ResendAPIKey == "" {
			return nil, fmt.Errorf("%w: RESEND_API_KEY is required", ErrNotConfigured)
		}
		return NewResendClient(config.ResendAPIKey, from), nil
	case "mailgun":
		if config.MailgunDomain == "" || config.MailgunAPIKey == "" {
			return nil, fmt.Errorf("%w: MAILGUN_DOMAIN and MAILGUN_API_KEY are required", ErrNotConfigured)
		}
		return NewMailgunClient(config.MailgunDomain, config.MailgunAPIKey, from), nil
	default:
		return nil, fmt.Errorf("unknown email provider %q", provider)
	}
}

// SendContactNotification composes and sends the contact notification.
func (m *Mailer) SendContactNotification(ctx context.Context, n ContactNotification) (string, error) {
	if m.sender == nil {
		return "", ErrNotConfigured
	}
	if m.recipient == "" {
		return "", fmt.Errorf("%w: CONTACT_RECIPIENT is required", ErrNotConfigured)
	}

	props := templates.ContactNotificationProps{
		Name:         n.Name,
		Email:        n.Email,
		BusinessType: n.BusinessType,
		Message:      n.Message,
		SiteName:     m.siteName,
		SiteURL:      m.siteURL,
	}

	id, err := m.sender.Send(ctx, Message{
		To:      []string{m.recipient},
		ReplyTo: n.Email,
		Subject: templates.ContactSubject(n.Name, n.Email),
		Text:    templates.GetContactText(props),
		HTML:    templates.GetContactNotification(props),
	})
	if err != nil {
		return "", fmt.Errorf("failed to send contact notification via %s: %w", m.sender.Provider(), err)
	}
	return id, nil
}
