package poll

import "errors"

// Recoverable operation errors. Each is reported to the originating caller
// and never mutates poll state.
var (
	ErrInvalidVoteValue     = errors.New("vote value is outside the allowed range for this poll")
	ErrItemNotFound         = errors.New("no item exists with this id")
	ErrPermissionDenied     = errors.New("only the poll owner may add items to this poll")
	ErrEmptyItemText        = errors.New("item text must not be empty")
	ErrIdentityAlreadyBound = errors.New("this address is already bound to an identity")

	// ErrPollClosed is returned for any operation against an actor that has
	// already terminated (idle eviction, shutdown or a fatal state breach).
	ErrPollClosed = errors.New("poll is closed")
)
