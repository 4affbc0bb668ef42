package service

import (
	"github.com/resend/resend-go/v2"

	"github.com/deppfellow/newsletter-signup/internal/config"
	"github.com/deppfellow/newsletter-signup/internal/lib/email"
	"github.com/deppfellow/newsletter-signup/internal/lib/mailgun"
	"github.com/deppfellow/newsletter-signup/internal/lib/recaptcha"
	"github.com/deppfellow/newsletter-signup/internal/server"
)

type Services struct {
	Subscribe *SubscribeService
}

// NewServices builds the provider clients from s.Config and wires them into
// the services.
func NewServices(s *server.Server) (*Services, error) {
	cfg := s.Config

	siteURL, err := cfg.SiteURL()
	if err != nil {
		return nil, err
	}
	successURL, err := cfg.SubscribeRedirectURL()
	if err != nil {
		return nil, err
	}

	verifier := recaptcha.NewClient(s.HTTPClient, cfg.Recaptcha.Secret, cfg.Recaptcha.VerifyURL)
	mailgunClient := mailgun.NewClient(s.HTTPClient, cfg.Mailgun.APIKey, cfg.Mailgun.BaseURL)

	var provider email.Provider
	switch cfg.Mail.Provider {
	case config.MailProviderResend:
		provider = email.NewResendProvider(resend.NewCustomClient(s.HTTPClient, cfg.Resend.APIKey))
	default:
		provider = email.NewMailgunProvider(mailgunClient, cfg.Mailgun.Domain)
	}

	subscribe := NewSubscribeService(
		verifier,
		email.NewClient(cfg, provider, s.Logger),
		NewMailgunList(mailgunClient, cfg.List.Address),
		NewRedirector(siteURL, successURL),
		cfg.Providers.Timeout,
		s.Logger,
	)

	return &Services{
		Subscribe: subscribe,
	}, nil
}
