package cmd

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/rankline/live-poll-service/config"
	"github.com/rankline/live-poll-service/internal/adapter/pubsub"
	"github.com/rankline/live-poll-service/internal/domain/poll"
	"github.com/rankline/live-poll-service/internal/domain/registry"
	"github.com/rankline/live-poll-service/internal/metrics"
	"github.com/rankline/live-poll-service/internal/service"
)

func ProvideLogger(cfg *config.Config) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.Level(),
	}))
	slog.SetDefault(logger)
	return logger
}

func ProvideMetricsRegistry() *prometheus.Registry {
	return prometheus.NewRegistry()
}

func ProvideMetrics(reg *prometheus.Registry) (*metrics.Metrics, error) {
	return metrics.New("live_poll", reg)
}

func ProvideRegistry(cfg *config.Config, logger *slog.Logger, m *metrics.Metrics, dispatcher pubsub.EventDispatcher) *registry.Registry {
	return registry.New(logger,
		registry.WithActorConfig(poll.Config{
			TickInterval: cfg.TickInterval,
			IdleTimeout:  cfg.IdleTimeout,
			MailboxSize:  cfg.MailboxSize,
			OnBroadcast: func(pollID string, delivered int) {
				m.Broadcasts.Inc()
				m.SnapshotsDelivered.Add(float64(delivered))
			},
		}),
		registry.WithOnPollClosed(func(pollID string) {
			ev := pubsub.PollClosed{PollID: pollID, OccurredAt: time.Now()}
			if err := dispatcher.Publish(context.Background(), ev); err != nil {
				logger.Warn("failed to publish poll closed event", "poll_id", pollID, "err", err)
			}
		}),
	)
}

func ProvidePollService(cfg *config.Config, reg *registry.Registry, dispatcher pubsub.EventDispatcher, logger *slog.Logger) *service.PollService {
	return service.NewPollService(reg, dispatcher, logger, cfg.ViewerBuffer)
}
