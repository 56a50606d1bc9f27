package config

import (
	"fmt"

	"github.com/rs/zerolog"
)

type ObservabilityConfig struct {
	ServiceName string         `koanf:"service_name"`
	Environment string         `koanf:"environment"`
	Logging     LoggingConfig  `koanf:"logging"`
	NewRelic    NewRelicConfig `koanf:"new_relic"`
}

type LoggingConfig struct {
	Level string `koanf:"level"`
}

// NewRelicConfig configures the APM agent. The agent stays off without a license key.
type NewRelicConfig struct {
	LicenseKey                string `koanf:"license_key"`
	AppLogForwardingEnabled   bool   `koanf:"app_log_forwarding_enabled"`
	DistributedTracingEnabled bool   `koanf:"distributed_tracing_enabled"`
}

func DefaultObservabilityConfig() *ObservabilityConfig {
	return &ObservabilityConfig{
		Logging: LoggingConfig{Level: "info"},
		NewRelic: NewRelicConfig{
			DistributedTracingEnabled: true,
		},
	}
}

// Validate fills an empty log level and rejects unknown ones.
func (o *ObservabilityConfig) Validate() error {
	if o.ServiceName == "" {
		return fmt.Errorf("service_name is required")
	}
	if o.Logging.Level == "" {
		o.Logging.Level = "info"
	}
	if _, err := zerolog.ParseLevel(o.Logging.Level); err != nil {
		return fmt.Errorf("logging.level %q: %w", o.Logging.Level, err)
	}
	return nil
}

// NewRelicEnabled reports whether the APM agent should be started.
func (o *ObservabilityConfig) NewRelicEnabled() bool {
	return o.NewRelic.LicenseKey != ""
}

// LogLevel returns the parsed zerolog level, defaulting to info.
func (o *ObservabilityConfig) LogLevel() zerolog.Level {
	lvl, err := zerolog.ParseLevel(o.Logging.Level)
	if err != nil || o.Logging.Level == "" {
		return zerolog.InfoLevel
	}
	return lvl
}
