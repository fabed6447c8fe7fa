package model

// VoteRange is the closed interval of accepted vote values.
type VoteRange struct {
	Min int
	Max int
}

func (r VoteRange) Contains(v int) bool {
	return v >= r.Min && v <= r.Max
}

// DefaultVoteRange allows downvote, neutral and upvote.
var DefaultVoteRange = VoteRange{Min: -1, Max: 1}

// Settings is fixed at poll creation and never changes for the poll's
// lifetime.
type Settings struct {
	Title        string
	IdentityMode IdentityMode
	ItemPolicy   ItemPolicy
	VoteRange    VoteRange
}

// Normalize fills unset fields with their defaults.
func (s Settings) Normalize() Settings {
	if s.IdentityMode == 0 {
		s.IdentityMode = IdentityBySession
	}
	if s.ItemPolicy == 0 {
		s.ItemPolicy = ItemsByAnyone
	}
	if s.VoteRange == (VoteRange{}) {
		s.VoteRange = DefaultVoteRange
	}
	return s
}
