package poll

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecencyBufferListsNewestFirst(t *testing.T) {
	rb := newRecencyBuffer(5)
	rb.push(0)
	rb.push(1)
	rb.push(2)

	assert.Equal(t, []int{2, 1, 0}, rb.list())
	assert.Equal(t, 3, rb.len())
}

func TestRecencyBufferEvictsOldestWhenFull(t *testing.T) {
	rb := newRecencyBuffer(3)
	for id := 0; id < 5; id++ {
		rb.push(id)
	}

	assert.Equal(t, []int{4, 3, 2}, rb.list())
	assert.Equal(t, 3, rb.len())
}

func TestRecencyBufferEmpty(t *testing.T) {
	rb := newRecencyBuffer(3)

	assert.Empty(t, rb.list())
	assert.Zero(t, rb.len())
}
