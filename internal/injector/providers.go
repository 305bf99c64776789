// Package injector wires the process-wide services shared by the simulation.
package injector

import (
	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/zeusync/arena/internal/config"
	"github.com/zeusync/arena/internal/core/events/bus"
	"github.com/zeusync/arena/internal/core/observability/log"
	"github.com/zeusync/arena/internal/core/observability/metrics"
)

// Services are built once per process and handed to the world and the debug
// server.
type Services struct {
	Log        *log.Logger
	Prometheus *prometheus.Registry
	Metrics    *metrics.Metrics
	Bus        bus.EventBus
}

var ProviderSet = wire.NewSet(
	ProvideLogger,
	ProvideRegistry,
	ProvideMetrics,
	bus.New,
	wire.Struct(new(Services), "*"),
)

func ProvideLogger(cfg *config.Config) (*log.Logger, error) {
	return cfg.NewLogger()
}

// ProvideRegistry returns a private registry carrying the Go runtime and
// process collectors.
func ProvideRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func ProvideMetrics(reg *prometheus.Registry) *metrics.Metrics {
	return metrics.New(reg)
}
