// Package registry supervises poll actors: it creates polls under
// collision-free identifiers, resolves lookups, and forgets polls once
// their actor reports itself idle. The map is the only thing it guards;
// poll actors run fully independently of the registry and of each other
// once spawned.
package registry

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rankline/live-poll-service/internal/domain/model"
	"github.com/rankline/live-poll-service/internal/domain/poll"
)

// ErrPollNotFound covers unknown ids as well as polls that already tore
// themselves down.
var ErrPollNotFound = errors.New("no poll exists with this id")

const pollIDAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

type Registry struct {
	mu    sync.Mutex
	polls map[string]*poll.Actor

	cfg       config
	logger    *slog.Logger
	startedAt time.Time
}

func New(logger *slog.Logger, opts ...Option) *Registry {
	r := &Registry{
		polls:     make(map[string]*poll.Actor),
		cfg:       defaultConfig(),
		logger:    logger,
		startedAt: time.Now(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create spawns a new poll actor seeded with the requester as owner and
// registers it under a fresh id. The returned identity is the owner's
// identity within the poll.
func (r *Registry) Create(req model.Requester, settings model.Settings) (string, uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.generateID()
	actor, owner, err := poll.NewActor(id, settings, req, r.cfg.actor, r.logger, r.onIdle)
	if err != nil {
		return "", uuid.Nil, err
	}
	r.polls[id] = actor
	r.logger.Info("poll created", "poll_id", id, "title", settings.Title)
	return id, owner, nil
}

// Lookup resolves a poll id to its actor handle.
func (r *Registry) Lookup(pollID string) (*poll.Actor, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.polls[pollID]
	return a, ok
}

// onIdle is invoked by a poll's own actor when it terminates. Idempotent:
// a second delivery for the same id is a no-op.
func (r *Registry) onIdle(pollID string) {
	r.mu.Lock()
	_, known := r.polls[pollID]
	delete(r.polls, pollID)
	r.mu.Unlock()

	if known {
		r.logger.Info("poll closed", "poll_id", pollID)
		if r.cfg.onPollClosed != nil {
			r.cfg.onPollClosed(pollID)
		}
	}
}

// Stats reports the registry-wide view. Polls that terminate while the
// report is being assembled are skipped.
func (r *Registry) Stats(ctx context.Context) model.RegistryStats {
	r.mu.Lock()
	actors := make([]*poll.Actor, 0, len(r.polls))
	for _, a := range r.polls {
		actors = append(actors, a)
	}
	r.mu.Unlock()

	stats := model.RegistryStats{
		ActivePolls: len(actors),
		Uptime:      time.Since(r.startedAt),
	}
	for _, a := range actors {
		ps, err := a.Stats(ctx)
		if err != nil {
			continue
		}
		stats.Polls = append(stats.Polls, ps)
	}
	return stats
}

// Shutdown stops every poll actor and waits for them to finish.
func (r *Registry) Shutdown() {
	r.mu.Lock()
	actors := make([]*poll.Actor, 0, len(r.polls))
	for _, a := range r.polls {
		actors = append(actors, a)
	}
	r.mu.Unlock()

	for _, a := range actors {
		a.Stop()
	}
	for _, a := range actors {
		<-a.Done()
	}
}

// generateID returns a short random alphanumeric id, re-rolling on the
// rare collision with a live poll. Caller must hold r.mu.
func (r *Registry) generateID() string {
	buf := make([]byte, r.cfg.idLength)
	for {
		for i := range buf {
			buf[i] = pollIDAlphabet[rand.IntN(len(pollIDAlphabet))]
		}
		id := string(buf)
		if _, taken := r.polls[id]; !taken {
			return id
		}
	}
}
