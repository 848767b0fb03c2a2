package observability

import (
	"github.com/slotbook/slotbook/internal/config"
	"github.com/slotbook/slotbook/internal/observability/metrics"
	"go.uber.org/fx"
)

var Module = fx.Module("observability",
	fx.Provide(
		provideMetricsConfig,
		metrics.NewProvider,
		metrics.New,
	),
)

func provideMetricsConfig(cfg config.Config) metrics.Config {
	return metrics.Config{
		Enabled:          cfg.MetricsEnabled,
		ExporterEndpoint: cfg.OTLPEndpoint,
		ExporterProtocol: cfg.MetricsExporter,
		ServiceName:      cfg.AppName,
		Environment:      cfg.Environment,
	}
}
