package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"go.uber.org/fx"

	"github.com/rankline/live-poll-service/config"
	"github.com/rankline/live-poll-service/internal/handler/ws"
)

var Module = fx.Module("http-handler",
	fx.Provide(
		ws.NewHandler,
		newIdentifier,
		NewHandler,
		NewServer,
	),
	fx.Invoke(RegisterServer),
)

func newIdentifier(cfg *config.Config) *Identifier {
	return NewIdentifier(cfg.SessionCookie, cfg.TrustForwardedFor)
}

func NewServer(cfg *config.Config, handler *Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func RegisterServer(lc fx.Lifecycle, logger *slog.Logger, srv *http.Server) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				logger.Info("http server listening", "addr", srv.Addr)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("http server stopped", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}
