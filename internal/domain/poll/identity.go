package poll

import (
	"net/netip"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/rankline/live-poll-service/internal/domain/model"
)

// maxSessionIdentities bounds how many distinct session tokens a single
// poll remembers. A client that keeps minting fresh tokens displaces the
// least recently seen bindings instead of growing the roster without limit.
const maxSessionIdentities = 16384

// roster resolves a connecting requester to a stable per-poll identity.
// The variant is chosen once at poll creation and never changes. Rosters
// are only ever touched by the owning actor goroutine.
type roster interface {
	// resolve returns the identity already bound to the requester, if any.
	resolve(req model.Requester) (uuid.UUID, bool)
	// mint creates and binds a fresh identity for the requester.
	mint(req model.Requester) (uuid.UUID, error)
	size() int
	clear()
}

func newRoster(mode model.IdentityMode) roster {
	if mode == model.IdentityByAddress {
		return newAddressRoster()
	}
	return newSessionRoster(maxSessionIdentities)
}

// sessionRoster binds opaque session tokens to identities. Requesters
// without a token are never remembered and get a throwaway identity on
// every mint.
type sessionRoster struct {
	byToken *lru.Cache[string, uuid.UUID]
}

func newSessionRoster(limit int) *sessionRoster {
	cache, err := lru.New[string, uuid.UUID](limit)
	if err != nil {
		panic(err) // only fails for a non-positive limit
	}
	return &sessionRoster{byToken: cache}
}

func (r *sessionRoster) resolve(req model.Requester) (uuid.UUID, bool) {
	if req.SessionToken == "" {
		return uuid.Nil, false
	}
	return r.byToken.Get(req.SessionToken)
}

func (r *sessionRoster) mint(req model.Requester) (uuid.UUID, error) {
	id := uuid.New()
	if req.SessionToken != "" {
		r.byToken.Add(req.SessionToken, id)
	}
	return id, nil
}

func (r *sessionRoster) size() int {
	return r.byToken.Len()
}

func (r *sessionRoster) clear() {
	r.byToken.Purge()
}

// addressRoster binds at most one identity per network address. Minting a
// second identity for a bound address fails; joins resolve to the bound
// identity instead and never hit that path. Requesters whose address
// could not be determined are never remembered and get a throwaway
// identity on every mint, so they cannot collapse onto a shared binding.
type addressRoster struct {
	byAddr map[netip.Addr]uuid.UUID
}

func newAddressRoster() *addressRoster {
	return &addressRoster{byAddr: make(map[netip.Addr]uuid.UUID)}
}

func (r *addressRoster) resolve(req model.Requester) (uuid.UUID, bool) {
	if !req.Addr.IsValid() {
		return uuid.Nil, false
	}
	id, ok := r.byAddr[req.Addr]
	return id, ok
}

func (r *addressRoster) mint(req model.Requester) (uuid.UUID, error) {
	if !req.Addr.IsValid() {
		return uuid.New(), nil
	}
	if _, ok := r.byAddr[req.Addr]; ok {
		return uuid.Nil, ErrIdentityAlreadyBound
	}
	id := uuid.New()
	r.byAddr[req.Addr] = id
	return id, nil
}

func (r *addressRoster) size() int {
	return len(r.byAddr)
}

func (r *addressRoster) clear() {
	clear(r.byAddr)
}
