// Package email renders and delivers the welcome message sent to new
// subscribers.
//
// Delivery goes through a Provider. Two are available: Mailgun (which can
// also use a template hosted on Mailgun) and Resend.
package email

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/deppfellow/newsletter-signup/internal/config"
)

// Message is a single outgoing email.
type Message struct {
	From    string
	To      string
	Subject string

	// HTML is the rendered body. Ignored by providers that send HostedTemplate.
	HTML string

	// HostedTemplate names a template stored at the provider.
	HostedTemplate string
}

// Provider delivers one message.
type Provider interface {
	Name() string
	Send(ctx context.Context, msg *Message) error
}

// Client builds welcome messages from config and hands them to a Provider.
type Client struct {
	provider       Provider
	from           string
	subject        string
	hostedTemplate string
	siteURL        string
	logger         *zerolog.Logger
}

// NewClient creates an email Client that sends through provider.
//
// A hosted template is only used with Mailgun; other providers always get
// the embedded template rendered.
func NewClient(cfg *config.Config, provider Provider, logger *zerolog.Logger) *Client {
	c := &Client{
		provider: provider,
		from:     cfg.Mail.Welcome.From,
		subject:  cfg.Mail.Welcome.Subject,
		siteURL:  cfg.Site.URL,
		logger:   logger,
	}
	if cfg.Mail.Provider == config.MailProviderMailgun {
		c.hostedTemplate = cfg.Mail.Welcome.Template
	}
	return c
}
