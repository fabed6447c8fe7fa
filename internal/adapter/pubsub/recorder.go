package pubsub

import (
	"context"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/rankline/live-poll-service/internal/metrics"
)

// Recorder consumes poll lifecycle events off the bus and turns them into
// structured log lines and Prometheus counters. It is the only metrics
// writer for lifecycle counts, so producers never touch collectors
// directly.
type Recorder struct {
	logger  *slog.Logger
	metrics *metrics.Metrics
	sub     message.Subscriber
}

func NewRecorder(logger *slog.Logger, m *metrics.Metrics, sub message.Subscriber) *Recorder {
	return &Recorder{
		logger:  logger,
		metrics: m,
		sub:     sub,
	}
}

// Run subscribes to every lifecycle topic and consumes until the bus
// closes or ctx is cancelled.
func (r *Recorder) Run(ctx context.Context) error {
	topics := []string{TopicPollCreated, TopicPollClosed, TopicItemAdded, TopicVoteCast}
	for _, topic := range topics {
		msgs, err := r.sub.Subscribe(ctx, topic)
		if err != nil {
			return err
		}
		go r.consume(topic, msgs)
	}
	return nil
}

func (r *Recorder) consume(topic string, msgs <-chan *message.Message) {
	for msg := range msgs {
		switch topic {
		case TopicPollCreated:
			r.metrics.PollsCreated.Inc()
			r.metrics.PollsActive.Inc()
			r.logger.Info("event consumed", "topic", topic, "payload", string(msg.Payload))
		case TopicPollClosed:
			r.metrics.PollsClosed.Inc()
			r.metrics.PollsActive.Dec()
			r.logger.Info("event consumed", "topic", topic, "payload", string(msg.Payload))
		case TopicItemAdded:
			r.metrics.ItemsAdded.Inc()
			r.logger.Debug("event consumed", "topic", topic, "payload", string(msg.Payload))
		case TopicVoteCast:
			r.metrics.VotesCast.Inc()
			r.logger.Debug("event consumed", "topic", topic, "payload", string(msg.Payload))
		}
		msg.Ack()
	}
}
