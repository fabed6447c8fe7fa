package model

import (
	"net/netip"
)

// Requester carries everything the transport layer knows about a caller
// before a poll has resolved it to an identity: the opaque session token
// from the cookie (may be empty) and the client network address.
type Requester struct {
	SessionToken string
	Addr         netip.Addr
}

//go:generate stringer -type=IdentityMode
type IdentityMode int16

const (
	// IdentityBySession resolves callers by their opaque session token and
	// mints a fresh identity for unknown or missing tokens.
	IdentityBySession IdentityMode = iota + 1

	// IdentityByAddress binds at most one identity per network address.
	IdentityByAddress
)

//go:generate stringer -type=ItemPolicy
type ItemPolicy int16

const (
	// ItemsByAnyone lets every joined identity submit items.
	ItemsByAnyone ItemPolicy = iota + 1

	// ItemsByOwnerOnly restricts item submission to the poll owner.
	ItemsByOwnerOnly
)
