package logger

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/deppfellow/newsletter-signup/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"debug": zerolog.DebugLevel,
		"info":  zerolog.InfoLevel,
		"warn":  zerolog.WarnLevel,
		"error": zerolog.ErrorLevel,
		"":      zerolog.InfoLevel,
		"bogus": zerolog.InfoLevel,
	}

	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q)=%v, want %v", in, got, want)
		}
	}
}

func TestNewLoggerServiceWithoutLicenseIsDisabled(t *testing.T) {
	ls := NewLoggerService(config.DefaultObservabilityConfig())
	if ls.GetApplication() != nil {
		t.Fatalf("expected no New Relic application without a license key")
	}
	ls.Shutdown()

	var nilService *LoggerService
	if nilService.GetApplication() != nil {
		t.Fatalf("nil service must report no application")
	}
}

func TestNewLogger_DevelopmentDefaultsToDebug(t *testing.T) {
	cfg := config.DefaultObservabilityConfig()
	cfg.Logging.Level = ""

	l := NewLogger(cfg)
	if l.GetLevel() != zerolog.DebugLevel {
		t.Fatalf("level=%v, want debug", l.GetLevel())
	}
}

func TestWithTraceContext_NilTransaction(t *testing.T) {
	l := zerolog.Nop()
	got := WithTraceContext(l, nil)
	if got.GetLevel() != l.GetLevel() {
		t.Fatalf("expected logger to be returned unchanged")
	}
}
