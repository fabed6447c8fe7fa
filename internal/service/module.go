package service

import (
	"log/slog"

	"go.uber.org/fx"
)

var Module = fx.Module(
	"service",

	fx.Provide(
		func(s *PollService) Poller { return s },
	),

	// Intercept the Poller to add cross-cutting logging.
	fx.Decorate(func(orig Poller, logger *slog.Logger) Poller {
		return newPollerMiddleware(orig, logger)
	}),
)
