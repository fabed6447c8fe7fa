package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/rankline/live-poll-service/internal/domain/model"
)

// pollerMiddleware decorates a Poller with outcome logging so the core
// service stays free of observability concerns.
type pollerMiddleware struct {
	next   Poller
	logger *slog.Logger
}

func newPollerMiddleware(next Poller, logger *slog.Logger) Poller {
	return &pollerMiddleware{next: next, logger: logger}
}

func (m *pollerMiddleware) Create(ctx context.Context, req model.Requester, settings model.Settings) (string, error) {
	start := time.Now()
	pollID, err := m.next.Create(ctx, req, settings)
	if err != nil {
		m.logger.Warn("create poll failed", "err", err, "duration_ms", time.Since(start).Milliseconds())
	}
	return pollID, err
}

func (m *pollerMiddleware) Join(ctx context.Context, pollID string, req model.Requester) (*Session, error) {
	sess, err := m.next.Join(ctx, pollID, req)
	if err != nil {
		m.logger.Debug("join poll failed", "poll_id", pollID, "err", err)
		return nil, err
	}
	m.logger.Debug("viewer joined poll", "poll_id", pollID, "identity", sess.Identity)
	return sess, nil
}

func (m *pollerMiddleware) AddItem(ctx context.Context, pollID string, author uuid.UUID, text string) (int, error) {
	itemID, err := m.next.AddItem(ctx, pollID, author, text)
	if err != nil {
		m.logger.Debug("add item rejected", "poll_id", pollID, "err", err)
	}
	return itemID, err
}

func (m *pollerMiddleware) VoteItem(ctx context.Context, pollID string, voter uuid.UUID, itemID, value int) error {
	err := m.next.VoteItem(ctx, pollID, voter, itemID, value)
	if err != nil {
		m.logger.Debug("vote rejected", "poll_id", pollID, "item_id", itemID, "err", err)
	}
	return err
}

func (m *pollerMiddleware) Stats(ctx context.Context) model.RegistryStats {
	return m.next.Stats(ctx)
}
