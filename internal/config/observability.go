package config

import "errors"

// EnvProduction is the primary.env value that switches logging to JSON and
// drops per-error stack traces.
const EnvProduction = "production"

// ObservabilityConfig controls logging and the optional New Relic agent.
//
// ServiceName and Environment are pinned by LoadConfig and cannot be set
// from the environment.
type ObservabilityConfig struct {
	ServiceName string         `koanf:"service_name" validate:"required"`
	Environment string         `koanf:"environment" validate:"required"`
	Logging     LoggingConfig  `koanf:"logging"`
	NewRelic    NewRelicConfig `koanf:"new_relic"`
}

// LoggingConfig selects verbosity and, in production, the output format.
// An empty Level means "debug" outside production and "info" in it.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"omitempty,oneof=debug info warn error"`
	Format string `koanf:"format" validate:"omitempty,oneof=json console"`
}

// NewRelicConfig configures the APM agent. No license key, no agent.
type NewRelicConfig struct {
	LicenseKey                string `koanf:"license_key"`
	AppLogForwardingEnabled   bool   `koanf:"app_log_forwarding_enabled"`
	DistributedTracingEnabled bool   `koanf:"distributed_tracing_enabled"`

	// DebugLogging prints the agent's own logs to stdout.
	DebugLogging bool `koanf:"debug_logging"`
}

func DefaultObservabilityConfig() *ObservabilityConfig {
	return &ObservabilityConfig{
		ServiceName: ServiceName,
		Environment: "development",
		Logging: LoggingConfig{
			Format: "json",
		},
		NewRelic: NewRelicConfig{
			AppLogForwardingEnabled:   true,
			DistributedTracingEnabled: true,
		},
	}
}

// Validate checks what LoadConfig pins, for configs built in code.
func (c *ObservabilityConfig) Validate() error {
	if c.ServiceName == "" {
		return errors.New("observability service name is empty")
	}
	if c.Environment == "" {
		return errors.New("observability environment is empty")
	}
	return nil
}

// GetLogLevel returns Logging.Level, or the environment's default when unset.
func (c *ObservabilityConfig) GetLogLevel() string {
	if c.Logging.Level != "" {
		return c.Logging.Level
	}
	if c.IsProduction() {
		return "info"
	}
	return "debug"
}

func (c *ObservabilityConfig) IsProduction() bool {
	return c.Environment == EnvProduction
}
