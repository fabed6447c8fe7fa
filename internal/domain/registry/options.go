package registry

import (
	"github.com/rankline/live-poll-service/internal/domain/poll"
)

type config struct {
	idLength     int
	actor        poll.Config
	onPollClosed func(pollID string)
}

func defaultConfig() config {
	return config{idLength: 8}
}

// Option is a functional configuration type for the Registry.
type Option func(*Registry)

// WithIDLength sets how many alphanumeric characters poll ids carry.
func WithIDLength(n int) Option {
	return func(r *Registry) {
		r.cfg.idLength = n
	}
}

// WithActorConfig passes the per-poll actor knobs (tick interval, idle
// timeout, mailbox size, broadcast hook) through to every spawned poll.
func WithActorConfig(cfg poll.Config) Option {
	return func(r *Registry) {
		r.cfg.actor = cfg
	}
}

// WithOnPollClosed observes every poll teardown, after the mapping has
// been removed.
func WithOnPollClosed(fn func(pollID string)) Option {
	return func(r *Registry) {
		r.cfg.onPollClosed = fn
	}
}
