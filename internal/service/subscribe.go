package service

import (
	"context"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/newrelic/go-agent/v3/integrations/nrpkgerrors"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/deppfellow/newsletter-signup/internal/errs"
	"github.com/deppfellow/newsletter-signup/internal/lib/recaptcha"
)

// ChallengeVerifier checks an anti-automation token.
type ChallengeVerifier interface {
	Verify(ctx context.Context, token, remoteIP string) (*recaptcha.Result, error)
}

// WelcomeSender delivers the welcome message.
type WelcomeSender interface {
	SendWelcomeEmail(ctx context.Context, to string) error
}

// ListRegistrar upserts a contact into the mailing list.
type ListRegistrar interface {
	UpsertContact(ctx context.Context, address string, vars ContactVars) error
}

// Submission is one decoded signup form. Every field is untrusted.
type Submission struct {
	Email    string
	Token    string
	Href     string
	Referrer string

	// RemoteIP is forwarded to the challenge provider when known.
	RemoteIP string
}

// Result is the outcome of one submission.
type Result struct {
	Location *url.URL

	// Err is nil on success.
	Err *errs.SignupError
}

// SubscribeService runs the signup pipeline:
// challenge check, address check, welcome message, list upsert.
// The first failing step ends the pipeline.
type SubscribeService struct {
	verifier   ChallengeVerifier
	welcome    WelcomeSender
	list       ListRegistrar
	redirector *Redirector
	timeout    time.Duration
	logger     *zerolog.Logger

	now func() time.Time
}

func NewSubscribeService(
	verifier ChallengeVerifier,
	welcome WelcomeSender,
	list ListRegistrar,
	redirector *Redirector,
	timeout time.Duration,
	logger *zerolog.Logger,
) *SubscribeService {
	return &SubscribeService{
		verifier:   verifier,
		welcome:    welcome,
		list:       list,
		redirector: redirector,
		timeout:    timeout,
		logger:     logger,
		now:        time.Now,
	}
}

// NormalizeEmail lower-cases and trims an address.
func NormalizeEmail(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// Subscribe processes sub and returns where to redirect the browser.
// It never fails: every error becomes Result.Err.
//
// Cancellation of ctx is ignored once the submission starts, so a client
// that disconnects mid-pipeline still gets both registration calls. Each
// provider call remains bounded by the per-call timeout.
func (s *SubscribeService) Subscribe(ctx context.Context, sub *Submission) *Result {
	ctx = context.WithoutCancel(ctx)
	address := NormalizeEmail(sub.Email)

	outcome := s.process(ctx, sub, address)
	s.record(ctx, address, outcome)

	return &Result{
		Location: s.redirector.Build(sub.Email, sub.Href, outcome),
		Err:      outcome,
	}
}

func (s *SubscribeService) process(ctx context.Context, sub *Submission, address string) *errs.SignupError {
	if outcome := s.verifyChallenge(ctx, sub); outcome != nil {
		return outcome
	}

	if !strings.Contains(address, "@") {
		return errs.NewInvalidEmailError()
	}

	err := s.call(ctx, func(ctx context.Context) error {
		return s.welcome.SendWelcomeEmail(ctx, address)
	})
	if err != nil {
		return errs.NewUnknownError(errors.Wrap(err, "welcome message"))
	}

	vars := ContactVars{
		Href:     sub.Href,
		Referrer: sub.Referrer,
		JoinedAt: s.now(),
	}
	err = s.call(ctx, func(ctx context.Context) error {
		return s.list.UpsertContact(ctx, address, vars)
	})
	if err != nil {
		return errs.NewUnknownError(errors.Wrap(err, "list upsert"))
	}

	return nil
}

// verifyChallenge fails closed. A timeout is reported as unknown like every
// other timeout; anything else is recaptcha-failed.
func (s *SubscribeService) verifyChallenge(ctx context.Context, sub *Submission) *errs.SignupError {
	var result *recaptcha.Result
	err := s.call(ctx, func(ctx context.Context) error {
		var err error
		result, err = s.verifier.Verify(ctx, sub.Token, sub.RemoteIP)
		return err
	})

	switch {
	case err != nil && isTimeout(err):
		return errs.NewUnknownError(errors.Wrap(err, "challenge verification timed out"))
	case err != nil:
		return errs.NewRecaptchaFailedError(err)
	case result == nil || !result.Success:
		var codes []string
		if result != nil {
			codes = result.ErrorCodes
		}
		return errs.NewRecaptchaFailedError(errors.Errorf("challenge rejected %v", codes))
	}

	return nil
}

// call runs fn with the per-call timeout applied.
func (s *SubscribeService) call(ctx context.Context, fn func(context.Context) error) error {
	if s.timeout <= 0 {
		return fn(ctx)
	}
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return fn(callCtx)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func (s *SubscribeService) record(ctx context.Context, address string, outcome *errs.SignupError) {
	logger := s.loggerFrom(ctx)
	txn := newrelic.FromContext(ctx)

	if outcome == nil {
		if txn != nil {
			txn.AddAttribute("signup.outcome", "subscribed")
		}
		logger.Info().Str("email", address).Msg("subscribed")
		return
	}

	if txn != nil {
		txn.AddAttribute("signup.outcome", string(outcome.Code))
	}

	switch outcome.Code {
	case errs.CodeUnknown:
		if txn != nil {
			txn.NoticeError(nrpkgerrors.Wrap(outcome))
		}
		logger.Error().Stack().
			Err(outcome.Unwrap()).
			Str("email", address).
			Str("outcome", string(outcome.Code)).
			Msg("subscription failed")
	default:
		event := logger.Warn().Str("email", address).Str("outcome", string(outcome.Code))
		if cause := outcome.Unwrap(); cause != nil {
			event = event.Err(cause)
		}
		event.Msg("subscription rejected")
	}
}

// loggerFrom prefers the request-scoped logger carried by ctx.
func (s *SubscribeService) loggerFrom(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return s.logger
}
