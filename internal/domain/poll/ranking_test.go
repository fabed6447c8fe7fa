package poll

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankingIndexTopKOrdersByScoreDescending(t *testing.T) {
	ri := newRankingIndex()
	ri.insert(1, 0)
	ri.insert(3, 1)
	ri.insert(2, 2)

	assert.Equal(t, []int{1, 2, 0}, ri.topK(10))
}

func TestRankingIndexTieBreaksOnHigherItemID(t *testing.T) {
	ri := newRankingIndex()
	ri.insert(1, 0)
	ri.insert(1, 1)
	ri.insert(1, 2)

	// Equal scores rank the younger item first.
	assert.Equal(t, []int{2, 1, 0}, ri.topK(10))
}

func TestRankingIndexTopKHonorsLimit(t *testing.T) {
	ri := newRankingIndex()
	for i := 0; i < 25; i++ {
		ri.insert(i, i)
	}

	top := ri.topK(10)
	require.Len(t, top, 10)
	assert.Equal(t, 24, top[0])
	assert.Equal(t, 15, top[9])
}

func TestRankingIndexUpdateMovesTuple(t *testing.T) {
	ri := newRankingIndex()
	ri.insert(1, 0)
	ri.insert(2, 1)

	ri.update(1, 5, 0)

	assert.Equal(t, []int{0, 1}, ri.topK(10))
	assert.Equal(t, 2, ri.size())
}

func TestRankingIndexUpdatePanicsOnMissingTuple(t *testing.T) {
	ri := newRankingIndex()
	ri.insert(1, 0)

	assert.Panics(t, func() {
		ri.update(7, 8, 0)
	})
}
