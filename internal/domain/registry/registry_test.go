package registry

import (
	"context"
	"log/slog"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rankline/live-poll-service/internal/domain/model"
	"github.com/rankline/live-poll-service/internal/domain/poll"
)

var pollIDPattern = regexp.MustCompile(`^[a-zA-Z0-9]{8}$`)

func newTestRegistry(t *testing.T, opts ...Option) *Registry {
	t.Helper()
	r := New(slog.New(slog.DiscardHandler), opts...)
	t.Cleanup(r.Shutdown)
	return r
}

func TestCreateRegistersLookupablePoll(t *testing.T) {
	r := newTestRegistry(t)

	id, owner, err := r.Create(model.Requester{SessionToken: "creator"}, model.Settings{Title: "lunch"})
	require.NoError(t, err)
	assert.Regexp(t, pollIDPattern, id)
	assert.NotEqual(t, uuid.Nil, owner)

	actor, ok := r.Lookup(id)
	require.True(t, ok)
	assert.Equal(t, id, actor.ID())
	assert.Equal(t, "lunch", actor.Title())
}

func TestCreateGeneratesUniqueIDs(t *testing.T) {
	r := newTestRegistry(t)

	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		id, _, err := r.Create(model.Requester{SessionToken: "creator"}, model.Settings{Title: "p"})
		require.NoError(t, err)
		_, dup := seen[id]
		require.False(t, dup, "duplicate poll id %s", id)
		seen[id] = struct{}{}
	}
}

func TestLookupUnknownPoll(t *testing.T) {
	r := newTestRegistry(t)

	_, ok := r.Lookup("nope1234")
	assert.False(t, ok)
}

func TestIdlePollIsForgotten(t *testing.T) {
	r := newTestRegistry(t, WithActorConfig(poll.Config{
		TickInterval: 5 * time.Millisecond,
		IdleTimeout:  20 * time.Millisecond,
	}))

	id, _, err := r.Create(model.Requester{SessionToken: "creator"}, model.Settings{Title: "short lived"})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		_, ok := r.Lookup(id)
		return !ok
	}, time.Second, 5*time.Millisecond)

	assert.Zero(t, r.Stats(context.Background()).ActivePolls)
}

func TestOnPollClosedHook(t *testing.T) {
	closed := make(chan string, 1)
	r := newTestRegistry(t,
		WithActorConfig(poll.Config{
			TickInterval: 5 * time.Millisecond,
			IdleTimeout:  20 * time.Millisecond,
		}),
		WithOnPollClosed(func(pollID string) { closed <- pollID }),
	)

	id, _, err := r.Create(model.Requester{SessionToken: "creator"}, model.Settings{Title: "short lived"})
	require.NoError(t, err)

	select {
	case got := <-closed:
		assert.Equal(t, id, got)
	case <-time.After(time.Second):
		t.Fatal("poll closed hook never fired")
	}
}

func TestStatsListsActivePolls(t *testing.T) {
	r := newTestRegistry(t)

	_, _, err := r.Create(model.Requester{SessionToken: "a"}, model.Settings{Title: "one"})
	require.NoError(t, err)
	_, _, err = r.Create(model.Requester{SessionToken: "b"}, model.Settings{Title: "two"})
	require.NoError(t, err)

	stats := r.Stats(context.Background())
	assert.Equal(t, 2, stats.ActivePolls)
	assert.Len(t, stats.Polls, 2)
	assert.Greater(t, stats.Uptime, time.Duration(0))
}

func TestShutdownStopsAllActors(t *testing.T) {
	r := New(slog.New(slog.DiscardHandler))

	var actors []*poll.Actor
	for i := 0; i < 3; i++ {
		id, _, err := r.Create(model.Requester{SessionToken: "creator"}, model.Settings{Title: "p"})
		require.NoError(t, err)
		a, ok := r.Lookup(id)
		require.True(t, ok)
		actors = append(actors, a)
	}

	r.Shutdown()

	for _, a := range actors {
		select {
		case <-a.Done():
		default:
			t.Fatal("actor still running after shutdown")
		}
	}
}

func TestCustomIDLength(t *testing.T) {
	r := newTestRegistry(t, WithIDLength(16))

	id, _, err := r.Create(model.Requester{SessionToken: "creator"}, model.Settings{Title: "p"})
	require.NoError(t, err)
	assert.Len(t, id, 16)
}
