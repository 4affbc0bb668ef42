package email

import (
	"context"
	"net/url"

	"github.com/resend/resend-go/v2"

	"github.com/deppfellow/newsletter-signup/internal/lib/mailgun"
)

// MailgunProvider sends through the Mailgun messages API.
type MailgunProvider struct {
	client *mailgun.Client
	domain string
}

func NewMailgunProvider(client *mailgun.Client, domain string) *MailgunProvider {
	return &MailgunProvider{client: client, domain: domain}
}

func (p *MailgunProvider) Name() string { return "mailgun" }

func (p *MailgunProvider) Send(ctx context.Context, msg *Message) error {
	fields := url.Values{}
	fields.Set("from", msg.From)
	fields.Set("to", msg.To)
	fields.Set("subject", msg.Subject)
	if msg.HostedTemplate != "" {
		fields.Set("template", msg.HostedTemplate)
	} else {
		fields.Set("html", msg.HTML)
	}

	_, err := p.client.SendMessage(ctx, p.domain, fields)
	return err
}

// ResendProvider sends through the Resend API. Hosted templates are not
// supported, so it always sends the rendered HTML.
type ResendProvider struct {
	client *resend.Client
}

func NewResendProvider(client *resend.Client) *ResendProvider {
	return &ResendProvider{client: client}
}

func (p *ResendProvider) Name() string { return "resend" }

func (p *ResendProvider) Send(ctx context.Context, msg *Message) error {
	params := &resend.SendEmailRequest{
		From:    msg.From,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
	}

	_, err := p.client.Emails.SendWithContext(ctx, params)
	return err
}
