// Package config manages environment variables.
//
// It reads variables from the `.env` file and the process environment,
// loads them into structured Go types (struct), and
// validates that required values are present so they
// can be reused across the application runtime.
//
// Responsibilities:
//   - Load environment variables (optionally from a `.env` file).
//   - Map env vars into a structured Go config (structs).
//   - Validate required values so the app fails fast on bad/missing config.
//   - Provide sane defaults for optional config blocks (e.g. observability).
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	// Side-effect import: triggers godotenv's autoload feature.
	// If a `.env` file exists, it gets loaded into process env
	// before any env var is read.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"

	"github.com/deppfellow/newsletter-signup/internal/validation"
)

/*
	Env vars are read using the prefix SIGNUP_.
	The prefix is removed, keys are lowercased, and a double underscore
	marks a nesting level, so

	  SIGNUP_SERVER__PORT          -> server.port
	  SIGNUP_SITE__SUBSCRIBE_REDIRECT -> site.subscribe_redirect

	Single underscores stay part of the key name.
*/

const (
	// EnvPrefix is the prefix every recognised env var must carry.
	EnvPrefix = "SIGNUP_"

	// ServiceName tags logs, traces and APM data.
	ServiceName = "newsletter-signup"
)

// Mail providers that can deliver the welcome message.
const (
	MailProviderMailgun = "mailgun"
	MailProviderResend  = "resend"
)

// Config is the root configuration object for the application.
//
// The `koanf:"..."` tags specify where koanf should map values from.
// The `validate:"..."` tags are enforced by go-playground/validator.
//
// Observability is a pointer because it is optional. If not provided,
// defaults are injected.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Site          SiteConfig           `koanf:"site" validate:"required"`
	Recaptcha     RecaptchaConfig      `koanf:"recaptcha" validate:"required"`
	Mail          MailConfig           `koanf:"mail" validate:"required"`
	Mailgun       MailgunConfig        `koanf:"mailgun" validate:"required"`
	Resend        ResendConfig         `koanf:"resend"`
	List          ListConfig           `koanf:"list" validate:"required"`
	Providers     ProvidersConfig      `koanf:"providers" validate:"required"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
// Timeouts are whole seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required,min=1"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required,min=1"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required,min=1"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins"`
}

// SiteConfig holds the two redirect destinations the intake handler knows about.
type SiteConfig struct {
	// URL is the public site root. Failed submissions whose href cannot be
	// parsed are sent back here.
	URL string `koanf:"url" validate:"required,http_url"`

	// SubscribeRedirect is where successful submissions land.
	SubscribeRedirect string `koanf:"subscribe_redirect" validate:"required,http_url"`
}

// RecaptchaConfig holds the shared secret for the challenge provider.
//
// VerifyURL defaults to Google's siteverify endpoint; hCaptcha and Turnstile
// speak the same protocol and can be swapped in here.
type RecaptchaConfig struct {
	Secret    string `koanf:"secret" validate:"required"`
	VerifyURL string `koanf:"verify_url" validate:"required,http_url"`
}

// MailConfig selects the welcome-message provider and its content.
type MailConfig struct {
	Provider string        `koanf:"provider" validate:"required,oneof=mailgun resend"`
	Welcome  WelcomeConfig `koanf:"welcome" validate:"required"`
}

// WelcomeConfig describes the welcome message.
//
// Template is a Mailgun-hosted template name. When empty (or when the
// provider is resend) the embedded HTML template is rendered instead.
type WelcomeConfig struct {
	From     string `koanf:"from" validate:"required"`
	Subject  string `koanf:"subject" validate:"required"`
	Template string `koanf:"template"`
}

// MailgunConfig holds Mailgun credentials. The list upsert always goes
// through Mailgun, so the key is required regardless of Mail.Provider.
type MailgunConfig struct {
	APIKey  string `koanf:"api_key" validate:"required"`
	Domain  string `koanf:"domain"`
	BaseURL string `koanf:"base_url" validate:"required,http_url"`
}

// ResendConfig holds Resend credentials, used when Mail.Provider is resend.
type ResendConfig struct {
	APIKey string `koanf:"api_key"`
}

// ListConfig identifies the mailing list new contacts are upserted into.
type ListConfig struct {
	Address string `koanf:"address" validate:"required"`
}

// ProvidersConfig bounds every outbound provider call.
type ProvidersConfig struct {
	Timeout time.Duration `koanf:"timeout" validate:"min=1s"`
}

// DefaultConfig returns a Config populated with every optional default.
// Values present in the environment are layered on top of it.
func DefaultConfig() *Config {
	return &Config{
		Primary: Primary{Env: "development"},
		Server: ServerConfig{
			Port:         "8080",
			ReadTimeout:  30,
			WriteTimeout: 30,
			IdleTimeout:  60,
		},
		Recaptcha: RecaptchaConfig{
			VerifyURL: "https://www.google.com/recaptcha/api/siteverify",
		},
		Mail: MailConfig{
			Provider: MailProviderMailgun,
			Welcome: WelcomeConfig{
				Subject: "Welcome!",
			},
		},
		Mailgun: MailgunConfig{
			BaseURL: "https://api.mailgun.net/v3",
		},
		Providers: ProvidersConfig{
			Timeout: 10 * time.Second,
		},
		Observability: DefaultObservabilityConfig(),
	}
}

// LoadConfig loads configuration from environment variables, unmarshals it into
// Config structs, validates it, applies defaults, and returns the resulting config.
//
// Behavior summary:
//   - Starts from DefaultConfig
//   - Loads env vars with prefix SIGNUP_
//   - Validates struct tags, then cross-field rules (Validate)
//   - Sets default observability if missing and pins its service name/environment
func LoadConfig() (*Config, error) {
	// The "." is the key-path delimiter koanf uses to represent nesting.
	k := koanf.New(".")

	err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	mainConfig := DefaultConfig()

	// Unmarshal only overwrites keys that are present, so defaults survive.
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal config: %w", err)
	}

	if mainConfig.Observability == nil {
		mainConfig.Observability = DefaultObservabilityConfig()
	}

	// Service name and environment are not user-tunable.
	mainConfig.Observability.ServiceName = ServiceName
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	validate := validation.NewValidator()
	if err := validate.Struct(mainConfig); err != nil {
		return nil, fmt.Errorf("config validation failed: %s", validation.Describe(err))
	}

	if err := mainConfig.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if err := mainConfig.Observability.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}

	return mainConfig, nil
}

// envKey maps SIGNUP_MAIL__WELCOME__FROM to mail.welcome.from.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

// Validate applies the rules that struct tags cannot express.
func (c *Config) Validate() error {
	switch c.Mail.Provider {
	case MailProviderMailgun:
		if c.Mailgun.Domain == "" {
			return fmt.Errorf("mailgun.domain is required when mail.provider is %s", MailProviderMailgun)
		}
	case MailProviderResend:
		if c.Resend.APIKey == "" {
			return fmt.Errorf("resend.api_key is required when mail.provider is %s", MailProviderResend)
		}
	}

	if _, err := c.SiteURL(); err != nil {
		return err
	}
	if _, err := c.SubscribeRedirectURL(); err != nil {
		return err
	}

	return nil
}

// SiteURL returns the parsed default site URL.
func (c *Config) SiteURL() (*url.URL, error) {
	return parseAbsolute("site.url", c.Site.URL)
}

// SubscribeRedirectURL returns the parsed success destination.
func (c *Config) SubscribeRedirectURL() (*url.URL, error) {
	return parseAbsolute("site.subscribe_redirect", c.Site.SubscribeRedirect)
}

func parseAbsolute(key, raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	if !u.IsAbs() || u.Host == "" {
		return nil, fmt.Errorf("%s must be an absolute URL, got %q", key, raw)
	}
	return u, nil
}
