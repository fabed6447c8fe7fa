package cmd

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"

	"github.com/rankline/live-poll-service/config"
	"github.com/rankline/live-poll-service/internal/adapter/pubsub"
	"github.com/rankline/live-poll-service/internal/domain/registry"
	httphandler "github.com/rankline/live-poll-service/internal/handler/http"
	"github.com/rankline/live-poll-service/internal/service"
)

func NewApp(cfg *config.Config) *fx.App {
	return fx.New(
		fx.Provide(
			func() *config.Config { return cfg },
			ProvideLogger,
			ProvideMetricsRegistry,
			func(r *prometheus.Registry) prometheus.Gatherer { return r },
			ProvideMetrics,
			ProvideRegistry,
			ProvidePollService,
		),
		pubsub.Module,
		service.Module,
		registry.Module,
		httphandler.Module,
	)
}
