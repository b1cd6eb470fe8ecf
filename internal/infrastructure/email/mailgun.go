package email

import (
	"context"
	"time"

	"github.com/mailgun/mailgun-go/v4"
)

const mailgunSendTimeout = 30 * time.Second

// MailgunClient is the Sender backed by the Mailgun API.
type MailgunClient struct {
	client *mailgun.MailgunImpl
	from   string
}

// NewMailgunClient creates a Mailgun sender for domain.
func NewMailgunClient(domain, apiKey, from string) *MailgunClient {
	return &MailgunClient{
		client: mailgun.NewMailgun(domain, apiKey),
		from:   from,
	}
}

func (c *MailgunClient) Provider() string { return "mailgun" }

func (c *MailgunClient) Send(ctx context.Context, msg Message) (string, error) {
	message := c.client.NewMessage(c.from, msg.Subject, msg.Text, msg.To...)
	if msg.HTML != "" {
		message.SetHtml(msg.HTML)
	}
	if msg.ReplyTo != "" {
		message.SetReplyTo(msg.ReplyTo)
	}

	sendCtx, cancel := context.WithTimeout(ctx, mailgunSendTimeout)
	defer cancel()

	_, id, err := c.client.Send(sendCtx, message)
	if err != nil {
		return "", err
	}
	return id, nil
}
