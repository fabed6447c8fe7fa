/*
Package poll implements the per-poll aggregation actor.

Every poll is owned by exactly one goroutine. All operations (joins,
item submissions, votes, stat queries) are requests placed into the
actor's mailbox and applied one at a time, so a mutation is either fully
visible or fully invisible to any broadcast. The same goroutine runs a
fixed-interval tick that either fans a fresh personalized snapshot out to
every registered viewer channel (when a mutation marked the poll dirty)
or, after a long quiet period, tears the poll down and notifies its
registry. Polls share no state with each other.
*/
package poll

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rankline/live-poll-service/internal/domain/model"
)

// Config carries the actor knobs; zero values fall back to defaults.
type Config struct {
	// TickInterval is the broadcast/eviction cadence. Ticks missed while
	// the actor is busy are dropped, not replayed.
	TickInterval time.Duration

	// IdleTimeout is how long a poll may stay clean before the actor
	// stops itself and asks the registry to forget it.
	IdleTimeout time.Duration

	// MailboxSize bounds how many requests may be in flight at once.
	MailboxSize int

	// OnBroadcast, if set, observes every broadcast with the number of
	// channels that accepted the snapshot.
	OnBroadcast func(pollID string, delivered int)
}

const (
	defaultTickInterval = 500 * time.Millisecond
	defaultIdleTimeout  = 15 * time.Minute
	defaultMailboxSize  = 256
)

func (c Config) withDefaults() Config {
	if c.TickInterval <= 0 {
		c.TickInterval = defaultTickInterval
	}
	if c.IdleTimeout <= 0 {
		c.IdleTimeout = defaultIdleTimeout
	}
	if c.MailboxSize <= 0 {
		c.MailboxSize = defaultMailboxSize
	}
	return c
}

// Actor is the handle to one running poll. All methods are safe for
// concurrent use; they serialize through the actor's mailbox.
type Actor struct {
	id     string
	title  string
	cfg    Config
	logger *slog.Logger

	mailbox chan any
	stop    chan struct{}
	done    chan struct{}

	stopOnce sync.Once

	// onIdle tells the registry this poll is gone. Invoked exactly once,
	// from the actor goroutine, on every termination path.
	onIdle func(pollID string)
}

// mailbox message set. Every request that produces a result carries its
// own reply channel with capacity 1.

type joinReq struct {
	req   model.Requester
	ch    chan<- *model.Snapshot
	reply chan joinReply
}

type joinReply struct {
	identity uuid.UUID
	err      error
}

type leaveReq struct {
	identity uuid.UUID
	ch       chan<- *model.Snapshot
}

type addItemReq struct {
	author uuid.UUID
	text   string
	reply  chan addItemReply
}

type addItemReply struct {
	itemID int
	err    error
}

type voteItemReq struct {
	voter  uuid.UUID
	itemID int
	value  int
	reply  chan error
}

type snapshotReq struct {
	viewer uuid.UUID
	reply  chan *model.Snapshot
}

type statsReq struct {
	reply chan model.PollStats
}

// NewActor seeds a poll with its creator as owner and starts the actor
// goroutine. The returned identity is the owner's identity within this
// poll.
func NewActor(id string, settings model.Settings, creator model.Requester, cfg Config, logger *slog.Logger, onIdle func(pollID string)) (*Actor, uuid.UUID, error) {
	settings = settings.Normalize()
	st := newState(id, settings)

	owner, err := st.identities.mint(creator)
	if err != nil {
		return nil, uuid.Nil, err
	}
	st.owner = owner

	cfg = cfg.withDefaults()
	a := &Actor{
		id:      id,
		title:   settings.Title,
		cfg:     cfg,
		logger:  logger,
		mailbox: make(chan any, cfg.MailboxSize),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
		onIdle:  onIdle,
	}
	go a.loop(st)
	return a, owner, nil
}

func (a *Actor) ID() string { return a.id }

func (a *Actor) Title() string { return a.title }

// Done is closed once the actor has terminated and no further operations
// will be accepted.
func (a *Actor) Done() <-chan struct{} { return a.done }

// Stop asks the actor to terminate. Used by the registry on shutdown; the
// usual exit path is the actor's own idle decision.
func (a *Actor) Stop() {
	a.stopOnce.Do(func() { close(a.stop) })
}

// Join resolves the requester to an identity and registers the snapshot
// channel under it. When the poll has nothing pending broadcast the first
// snapshot is delivered on ch before Join returns.
func (a *Actor) Join(ctx context.Context, req model.Requester, ch chan<- *model.Snapshot) (uuid.UUID, error) {
	r := joinReq{req: req, ch: ch, reply: make(chan joinReply, 1)}
	if err := a.send(ctx, r); err != nil {
		return uuid.Nil, err
	}
	select {
	case rep := <-r.reply:
		return rep.identity, rep.err
	case <-a.done:
		return uuid.Nil, ErrPollClosed
	case <-ctx.Done():
		return uuid.Nil, ctx.Err()
	}
}

// Leave deregisters one channel previously registered by Join. Safe to
// call after the actor terminated.
func (a *Actor) Leave(identity uuid.UUID, ch chan<- *model.Snapshot) {
	select {
	case a.mailbox <- leaveReq{identity: identity, ch: ch}:
	case <-a.done:
	}
}

// AddItem submits a new item authored by identity and returns its id.
func (a *Actor) AddItem(ctx context.Context, author uuid.UUID, text string) (int, error) {
	r := addItemReq{author: author, text: text, reply: make(chan addItemReply, 1)}
	if err := a.send(ctx, r); err != nil {
		return 0, err
	}
	select {
	case rep := <-r.reply:
		return rep.itemID, rep.err
	case <-a.done:
		return 0, ErrPollClosed
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

// VoteItem records identity's current vote on an item, replacing any
// previous vote by the same identity.
func (a *Actor) VoteItem(ctx context.Context, voter uuid.UUID, itemID, value int) error {
	r := voteItemReq{voter: voter, itemID: itemID, value: value, reply: make(chan error, 1)}
	if err := a.send(ctx, r); err != nil {
		return err
	}
	select {
	case err := <-r.reply:
		return err
	case <-a.done:
		return ErrPollClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SnapshotFor computes the personalized projection for one identity.
func (a *Actor) SnapshotFor(ctx context.Context, viewer uuid.UUID) (*model.Snapshot, error) {
	r := snapshotReq{viewer: viewer, reply: make(chan *model.Snapshot, 1)}
	if err := a.send(ctx, r); err != nil {
		return nil, err
	}
	select {
	case snap := <-r.reply:
		return snap, nil
	case <-a.done:
		return nil, ErrPollClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (a *Actor) Stats(ctx context.Context) (model.PollStats, error) {
	r := statsReq{reply: make(chan model.PollStats, 1)}
	if err := a.send(ctx, r); err != nil {
		return model.PollStats{}, err
	}
	select {
	case st := <-r.reply:
		return st, nil
	case <-a.done:
		return model.PollStats{}, ErrPollClosed
	case <-ctx.Done():
		return model.PollStats{}, ctx.Err()
	}
}

func (a *Actor) send(ctx context.Context, msg any) error {
	select {
	case a.mailbox <- msg:
		return nil
	case <-a.done:
		return ErrPollClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (a *Actor) loop(st *state) {
	defer close(a.done)
	defer func() {
		// A panic here means the poll's own invariants broke (ranking
		// index out of sync). The poll cannot be trusted anymore, so the
		// actor aborts and unregisters; other polls are unaffected.
		if r := recover(); r != nil {
			a.logger.Error("poll state corrupted, aborting actor",
				"poll_id", a.id, "panic", r)
		}
		st.dropViewers()
		a.onIdle(a.id)
	}()

	ticker := time.NewTicker(a.cfg.TickInterval)
	defer ticker.Stop()

	a.logger.Debug("poll actor started", "poll_id", a.id)
	for {
		select {
		case <-a.stop:
			a.logger.Debug("poll actor stopped", "poll_id", a.id)
			return
		case <-ticker.C:
			if st.dirty {
				delivered := st.broadcast()
				a.logger.Debug("broadcasted poll snapshots",
					"poll_id", a.id, "delivered", delivered)
				if a.cfg.OnBroadcast != nil {
					a.cfg.OnBroadcast(a.id, delivered)
				}
			} else if st.idleFor() > a.cfg.IdleTimeout {
				a.logger.Debug("poll inactive, stopping actor", "poll_id", a.id)
				return
			}
		case msg := <-a.mailbox:
			a.process(st, msg)
		}
	}
}

func (a *Actor) process(st *state, msg any) {
	switch m := msg.(type) {
	case joinReq:
		identity, err := st.join(m.req, m.ch)
		m.reply <- joinReply{identity: identity, err: err}
	case leaveReq:
		st.leave(m.identity, m.ch)
	case addItemReq:
		itemID, err := st.addItem(m.author, m.text)
		m.reply <- addItemReply{itemID: itemID, err: err}
	case voteItemReq:
		m.reply <- st.voteItem(m.voter, m.itemID, m.value)
	case snapshotReq:
		m.reply <- st.snapshotFor(m.viewer)
	case statsReq:
		m.reply <- st.stats()
	}
}
