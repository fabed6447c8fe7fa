package pubsub

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rankline/live-poll-service/internal/metrics"
)

func newTestBusAndRecorder(t *testing.T) (EventDispatcher, *metrics.Metrics) {
	t.Helper()
	logger := slog.New(slog.DiscardHandler)

	bus := NewBus(logger)
	t.Cleanup(func() { _ = bus.Close() })

	m, err := metrics.New("test", prometheus.NewRegistry())
	require.NoError(t, err)

	rec := NewRecorder(logger, m, bus)
	require.NoError(t, rec.Run(context.Background()))

	return NewEventDispatcher(bus), m
}

func TestRecorderCountsLifecycleEvents(t *testing.T) {
	dispatcher, m := newTestBusAndRecorder(t)
	ctx := context.Background()

	require.NoError(t, dispatcher.Publish(ctx, PollCreated{PollID: "abcd1234", Title: "lunch", OccurredAt: time.Now()}))
	require.NoError(t, dispatcher.Publish(ctx, ItemAdded{PollID: "abcd1234", ItemID: 0, OccurredAt: time.Now()}))
	require.NoError(t, dispatcher.Publish(ctx, VoteCast{PollID: "abcd1234", ItemID: 0, Value: -1, OccurredAt: time.Now()}))
	require.NoError(t, dispatcher.Publish(ctx, PollClosed{PollID: "abcd1234", OccurredAt: time.Now()}))

	// Topics are consumed on independent subscriptions; wait for all of
	// them rather than assuming publish order survives.
	require.Eventually(t, func() bool {
		return testutil.ToFloat64(m.PollsCreated) == 1 &&
			testutil.ToFloat64(m.PollsClosed) == 1 &&
			testutil.ToFloat64(m.ItemsAdded) == 1 &&
			testutil.ToFloat64(m.VotesCast) == 1
	}, time.Second, 5*time.Millisecond)

	require.Eventually(t, func() bool {
		return testutil.ToFloat64(m.PollsActive) == 0
	}, time.Second, 5*time.Millisecond)
}

func TestDispatcherRejectsNilEvent(t *testing.T) {
	dispatcher, _ := newTestBusAndRecorder(t)

	assert.Error(t, dispatcher.Publish(context.Background(), nil))
}

func TestEventRoutingKeys(t *testing.T) {
	assert.Equal(t, TopicPollCreated, PollCreated{}.RoutingKey())
	assert.Equal(t, TopicPollClosed, PollClosed{}.RoutingKey())
	assert.Equal(t, TopicItemAdded, ItemAdded{}.RoutingKey())
	assert.Equal(t, TopicVoteCast, VoteCast{}.RoutingKey())
}
