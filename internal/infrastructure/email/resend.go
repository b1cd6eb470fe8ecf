package email

import (
	"context"

	"github.com/resendlabs/resend-go"
)

// ResendClient is the Sender backed by the Resend API.
type ResendClient struct {
	client *resend.Client
	from   string
}

// NewResendClient creates a Resend sender.
func NewResendClient(apiKey, from string) *ResendClient {
	return &ResendClient{
		client: resend.NewClient(apiKey),
		from:   from,
	}
}

func (c *ResendClient) Provider() string { return "resend" }

// Send delivers msg. The Resend SDK does not take a context; cancellation
// is checked before the call only.
func (c *ResendClient) Send(ctx context.Context, msg Message) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	params := &resend.SendEmailRequest{
		From:    c.from,
		To:      msg.To,
		Subject: msg.Subject,
		Html:    msg.HTML,
		Text:    msg.Text,
		ReplyTo: msg.ReplyTo,
	}

	sent, err := c.client.Emails.Send(params)
	if err != nil {
		return "", err
	}
	return sent.Id, nil
}
