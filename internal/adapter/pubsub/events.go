package pubsub

import "time"

// Topics for poll lifecycle events on the in-process bus.
const (
	TopicPollCreated = "poll.created"
	TopicPollClosed  = "poll.closed"
	TopicItemAdded   = "poll.item_added"
	TopicVoteCast    = "poll.vote_cast"
)

// Event is an outgoing lifecycle event bound to a bus topic.
type Event interface {
	RoutingKey() string
}

type PollCreated struct {
	PollID     string    `json:"poll_id"`
	Title      string    `json:"title"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (PollCreated) RoutingKey() string { return TopicPollCreated }

type PollClosed struct {
	PollID     string    `json:"poll_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (PollClosed) RoutingKey() string { return TopicPollClosed }

type ItemAdded struct {
	PollID     string    `json:"poll_id"`
	ItemID     int       `json:"item_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (ItemAdded) RoutingKey() string { return TopicItemAdded }

type VoteCast struct {
	PollID     string    `json:"poll_id"`
	ItemID     int       `json:"item_id"`
	Value      int       `json:"value"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (VoteCast) RoutingKey() string { return TopicVoteCast }
