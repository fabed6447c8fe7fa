package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rankline/live-poll-service/internal/adapter/pubsub"
	"github.com/rankline/live-poll-service/internal/domain/model"
	"github.com/rankline/live-poll-service/internal/domain/poll"
	"github.com/rankline/live-poll-service/internal/domain/registry"
)

// Poller is the primary interface for transport handlers. It mediates
// between the HTTP/WebSocket layer and the poll actors and publishes
// lifecycle events as a side effect of successful mutations.
type Poller interface {
	Create(ctx context.Context, req model.Requester, settings model.Settings) (string, error)
	Join(ctx context.Context, pollID string, req model.Requester) (*Session, error)
	AddItem(ctx context.Context, pollID string, author uuid.UUID, text string) (int, error)
	VoteItem(ctx context.Context, pollID string, voter uuid.UUID, itemID, value int) error
	Stats(ctx context.Context) model.RegistryStats
}

type PollService struct {
	registry     *registry.Registry
	dispatcher   pubsub.EventDispatcher
	logger       *slog.Logger
	viewerBuffer int
}

func NewPollService(reg *registry.Registry, dispatcher pubsub.EventDispatcher, logger *slog.Logger, viewerBuffer int) *PollService {
	return &PollService{
		registry:     reg,
		dispatcher:   dispatcher,
		logger:       logger,
		viewerBuffer: viewerBuffer,
	}
}

func (s *PollService) Create(ctx context.Context, req model.Requester, settings model.Settings) (string, error) {
	pollID, _, err := s.registry.Create(req, settings)
	if err != nil {
		return "", err
	}
	s.publish(ctx, pubsub.PollCreated{PollID: pollID, Title: settings.Title, OccurredAt: time.Now()})
	return pollID, nil
}

func (s *PollService) Join(ctx context.Context, pollID string, req model.Requester) (*Session, error) {
	actor, ok := s.registry.Lookup(pollID)
	if !ok {
		return nil, registry.ErrPollNotFound
	}

	ch := make(chan *model.Snapshot, s.viewerBuffer)
	identity, err := actor.Join(ctx, req, ch)
	if err != nil {
		// The actor may have torn itself down between lookup and join.
		if errors.Is(err, poll.ErrPollClosed) {
			err = registry.ErrPollNotFound
		}
		return nil, err
	}

	return &Session{
		PollID:   pollID,
		Identity: identity,
		actor:    actor,
		ch:       ch,
		done:     make(chan struct{}),
	}, nil
}

func (s *PollService) AddItem(ctx context.Context, pollID string, author uuid.UUID, text string) (int, error) {
	actor, ok := s.registry.Lookup(pollID)
	if !ok {
		return 0, registry.ErrPollNotFound
	}
	itemID, err := actor.AddItem(ctx, author, text)
	if err != nil {
		return 0, err
	}
	s.publish(ctx, pubsub.ItemAdded{PollID: pollID, ItemID: itemID, OccurredAt: time.Now()})
	return itemID, nil
}

func (s *PollService) VoteItem(ctx context.Context, pollID string, voter uuid.UUID, itemID, value int) error {
	actor, ok := s.registry.Lookup(pollID)
	if !ok {
		return registry.ErrPollNotFound
	}
	if err := actor.VoteItem(ctx, voter, itemID, value); err != nil {
		return err
	}
	s.publish(ctx, pubsub.VoteCast{PollID: pollID, ItemID: itemID, Value: value, OccurredAt: time.Now()})
	return nil
}

func (s *PollService) Stats(ctx context.Context) model.RegistryStats {
	return s.registry.Stats(ctx)
}

// publish is best effort: a full bus never fails the mutation that
// triggered the event.
func (s *PollService) publish(ctx context.Context, ev pubsub.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, ev); err != nil {
		s.logger.Warn("failed to publish lifecycle event", "topic", ev.RoutingKey(), "err", err)
	}
}

// Session is one viewer connection to one poll: the registered snapshot
// channel plus the identity it resolved to.
type Session struct {
	PollID   string
	Identity uuid.UUID

	actor     *poll.Actor
	ch        chan *model.Snapshot
	done      chan struct{}
	closeOnce sync.Once
}

// Recv yields personalized snapshots as the poll broadcasts them.
func (s *Session) Recv() <-chan *model.Snapshot { return s.ch }

// Done is closed when the session itself is closed.
func (s *Session) Done() <-chan struct{} { return s.done }

// Ended is closed when the poll actor terminates.
func (s *Session) Ended() <-chan struct{} { return s.actor.Done() }

// Close deregisters the snapshot channel. Idempotent.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.actor.Leave(s.Identity, s.ch)
		close(s.done)
	})
}
