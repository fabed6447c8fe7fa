package poll

import (
	"fmt"

	"github.com/google/btree"
)

// rankEntry is one (score, item id) tuple of the ranking index.
type rankEntry struct {
	score  int
	itemID int
}

func rankEntryLess(a, b rankEntry) bool {
	if a.score != b.score {
		return a.score < b.score
	}
	return a.itemID < b.itemID
}

// rankingIndex is an ordered set over (score, item id) tuples. It holds
// exactly one tuple per item and is kept in sync with every score change;
// descending iteration yields items by score, ties going to the higher
// (more recently created) item id.
type rankingIndex struct {
	tree *btree.BTreeG[rankEntry]
}

func newRankingIndex() *rankingIndex {
	return &rankingIndex{tree: btree.NewG(2, rankEntryLess)}
}

func (ri *rankingIndex) insert(score, itemID int) {
	ri.tree.ReplaceOrInsert(rankEntry{score: score, itemID: itemID})
}

// update moves itemID from oldScore to newScore. The old tuple must be
// present: its absence means the index no longer mirrors the item map, and
// continuing would serve corrupted rankings.
func (ri *rankingIndex) update(oldScore, newScore, itemID int) {
	if _, ok := ri.tree.Delete(rankEntry{score: oldScore, itemID: itemID}); !ok {
		panic(fmt.Sprintf("ranking index out of sync: missing tuple (score=%d, item=%d)", oldScore, itemID))
	}
	ri.tree.ReplaceOrInsert(rankEntry{score: newScore, itemID: itemID})
}

// topK returns up to k item ids, best first.
func (ri *rankingIndex) topK(k int) []int {
	ids := make([]int, 0, k)
	ri.tree.Descend(func(e rankEntry) bool {
		ids = append(ids, e.itemID)
		return len(ids) < k
	})
	return ids
}

func (ri *rankingIndex) size() int {
	return ri.tree.Len()
}
