package observability

import (
	"fmt"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"

	"github.com/workcal/workcal/internal/config"
)

// NewApplication starts the New Relic agent. It returns nil, nil when no
// license key is configured so callers can pass the result along unchecked.
func NewApplication(cfg *config.ObservabilityConfig, log zerolog.Logger) (*newrelic.Application, error) {
	if cfg == nil || !cfg.NewRelicEnabled() {
		log.Info().Msg("new relic disabled")
		return nil, nil
	}
	app, err := newrelic.NewApplication(
		newrelic.ConfigAppName(cfg.ServiceName),
		newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
		newrelic.ConfigDistributedTracerEnabled(cfg.NewRelic.DistributedTracingEnabled),
		newrelic.ConfigAppLogForwardingEnabled(cfg.NewRelic.AppLogForwardingEnabled),
		func(c *newrelic.Config) {
			c.Labels = map[string]string{"env": cfg.Environment}
		},
	)
	if err != nil {
		return nil, fmt.Errorf("new relic: %w", err)
	}
	log.Info().Str("app", cfg.ServiceName).Msg("new relic enabled")
	return app, nil
}
