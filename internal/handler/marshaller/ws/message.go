package wsmarshaller

import (
	"encoding/json"
	"errors"
)

// MutationKind discriminates inbound client messages.
type MutationKind int16

const (
	MutationAddItem MutationKind = iota + 1
	MutationVoteItem
)

// Mutation is one decoded client action.
type Mutation struct {
	Kind   MutationKind
	Text   string
	ItemID int
	Vote   int
}

// ErrUnknownMessage marks frames that match neither mutation shape.
// Handlers drop such frames without failing the connection.
var ErrUnknownMessage = errors.New("message is neither an add-item nor a vote")

// inbound mirrors the wire format: the two mutations are distinguished by
// which fields are present, not by a type tag.
type inbound struct {
	Text   *string `json:"text"`
	ItemID *int    `json:"item_id"`
	Vote   *int    `json:"vote"`
}

// ParseMutation decodes one client frame.
func ParseMutation(data []byte) (Mutation, error) {
	var in inbound
	if err := json.Unmarshal(data, &in); err != nil {
		return Mutation{}, err
	}
	switch {
	case in.ItemID != nil && in.Vote != nil:
		return Mutation{Kind: MutationVoteItem, ItemID: *in.ItemID, Vote: *in.Vote}, nil
	case in.Text != nil:
		return Mutation{Kind: MutationAddItem, Text: *in.Text}, nil
	default:
		return Mutation{}, ErrUnknownMessage
	}
}
