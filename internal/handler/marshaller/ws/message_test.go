package wsmarshaller

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rankline/live-poll-service/internal/domain/model"
)

func TestParseMutationAddItem(t *testing.T) {
	mut, err := ParseMutation([]byte(`{"text":"pizza"}`))
	require.NoError(t, err)
	assert.Equal(t, MutationAddItem, mut.Kind)
	assert.Equal(t, "pizza", mut.Text)
}

func TestParseMutationVote(t *testing.T) {
	mut, err := ParseMutation([]byte(`{"item_id":2,"vote":-1}`))
	require.NoError(t, err)
	assert.Equal(t, MutationVoteItem, mut.Kind)
	assert.Equal(t, 2, mut.ItemID)
	assert.Equal(t, -1, mut.Vote)
}

func TestParseMutationNeutralVote(t *testing.T) {
	// Zero is a legitimate vote value, not an absent field.
	mut, err := ParseMutation([]byte(`{"item_id":0,"vote":0}`))
	require.NoError(t, err)
	assert.Equal(t, MutationVoteItem, mut.Kind)
	assert.Zero(t, mut.ItemID)
	assert.Zero(t, mut.Vote)
}

func TestParseMutationUnknownShape(t *testing.T) {
	_, err := ParseMutation([]byte(`{"item_id":2}`))
	assert.ErrorIs(t, err, ErrUnknownMessage)

	_, err = ParseMutation([]byte(`{}`))
	assert.ErrorIs(t, err, ErrUnknownMessage)
}

func TestParseMutationInvalidJSON(t *testing.T) {
	_, err := ParseMutation([]byte(`not json`))
	assert.Error(t, err)
}

func TestMarshalSnapshotWireShape(t *testing.T) {
	snap := &model.Snapshot{
		PollTitle: "lunch",
		TopItems: []model.ItemView{
			{ID: 0, Text: "pizza", Score: 1, CallerVote: 1},
		},
		LatestItems: []model.ItemView{
			{ID: 0, Text: "pizza", Score: 1, CallerVote: 1},
		},
		UserItems: []model.ItemView{},
	}

	data, err := MarshalSnapshot(snap)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"poll_title": "lunch",
		"top_items": [{"id":0,"text":"pizza","score":1,"user_vote":1}],
		"latest_items": [{"id":0,"text":"pizza","score":1,"user_vote":1}],
		"user_items": []
	}`, string(data))
}
