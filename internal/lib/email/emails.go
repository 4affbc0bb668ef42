package email

import (
	"context"

	"github.com/pkg/errors"
)

// SendWelcomeEmail sends the welcome message to a new subscriber.
func (c *Client) SendWelcomeEmail(ctx context.Context, to string) error {
	msg := &Message{
		From:           c.from,
		To:             to,
		Subject:        c.subject,
		HostedTemplate: c.hostedTemplate,
	}

	if msg.HostedTemplate == "" {
		html, err := Render(TemplateWelcome, WelcomeData{Email: to, SiteURL: c.siteURL})
		if err != nil {
			return err
		}
		msg.HTML = html
	}

	if err := c.provider.Send(ctx, msg); err != nil {
		return errors.Wrapf(err, "failed to send welcome email via %s", c.provider.Name())
	}

	c.logger.Debug().
		Str("provider", c.provider.Name()).
		Str("template", string(TemplateWelcome)).
		Msg("welcome email sent")

	return nil
}
