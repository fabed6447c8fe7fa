package poll

import (
	"time"

	"github.com/google/uuid"

	"github.com/rankline/live-poll-service/internal/domain/model"
)

const (
	topItemsLimit     = 10
	latestItemsLimit  = 10
	authorInitialVote = 1
)

// item is one submitted candidate. Items are created once, never deleted;
// only score and votes change afterwards.
type item struct {
	id     int
	author uuid.UUID
	text   string
	score  int
	votes  map[uuid.UUID]int // voter identity -> that voter's current vote
}

func (it *item) view(viewer uuid.UUID) model.ItemView {
	return model.ItemView{
		ID:         it.id,
		Text:       it.text,
		Score:      it.score,
		CallerVote: it.votes[viewer],
	}
}

// state is the exclusively owned heart of one poll. It is only ever touched
// by the owning actor goroutine, so none of it is locked.
type state struct {
	id       string
	owner    uuid.UUID
	settings model.Settings

	// dirty records that a mutation happened since the last broadcast;
	// touchedAt moves on every flip of the flag, so when the poll is clean
	// it measures how long it has been idle.
	dirty     bool
	touchedAt time.Time

	items    map[int]*item
	byScore  *rankingIndex
	byAuthor map[uuid.UUID][]int
	latest   *recencyBuffer

	identities roster
	viewers    map[uuid.UUID][]chan<- *model.Snapshot
}

func newState(id string, settings model.Settings) *state {
	return &state{
		id:         id,
		settings:   settings,
		touchedAt:  time.Now(),
		items:      make(map[int]*item),
		byScore:    newRankingIndex(),
		byAuthor:   make(map[uuid.UUID][]int),
		latest:     newRecencyBuffer(latestItemsLimit),
		identities: newRoster(settings.IdentityMode),
	}
}

func (s *state) touch(dirty bool) {
	s.dirty = dirty
	s.touchedAt = time.Now()
}

func (s *state) idleFor() time.Duration {
	return time.Since(s.touchedAt)
}

// join resolves or mints the requester's identity, delivers an immediate
// snapshot when nothing is pending broadcast, and registers the channel.
// A dirty poll skips the immediate send: the joiner is picked up by the
// next broadcast instead of being handed stale data.
func (s *state) join(req model.Requester, ch chan<- *model.Snapshot) (uuid.UUID, error) {
	id, ok := s.identities.resolve(req)
	if !ok {
		var err error
		if id, err = s.identities.mint(req); err != nil {
			return uuid.Nil, err
		}
	}
	if !s.dirty {
		trySend(ch, s.snapshotFor(id))
	}
	if s.viewers == nil {
		s.viewers = make(map[uuid.UUID][]chan<- *model.Snapshot)
	}
	s.viewers[id] = append(s.viewers[id], ch)
	return id, nil
}

// leave removes one registered channel. Called when a transport closes;
// failed broadcast sends remain the backstop for channels that vanish
// without saying goodbye.
func (s *state) leave(identity uuid.UUID, ch chan<- *model.Snapshot) {
	chans := s.viewers[identity]
	for i, c := range chans {
		if c == ch {
			chans = append(chans[:i], chans[i+1:]...)
			break
		}
	}
	if len(chans) == 0 {
		delete(s.viewers, identity)
	} else {
		s.viewers[identity] = chans
	}
}

func (s *state) addItem(author uuid.UUID, text string) (int, error) {
	if text == "" {
		return 0, ErrEmptyItemText
	}
	if s.settings.ItemPolicy == model.ItemsByOwnerOnly && author != s.owner {
		return 0, ErrPermissionDenied
	}

	id := len(s.items)
	s.items[id] = &item{
		id:     id,
		author: author,
		text:   text,
		votes:  make(map[uuid.UUID]int),
	}
	s.byScore.insert(0, id)
	s.byAuthor[author] = append(s.byAuthor[author], id)
	s.latest.push(id)

	// Creating an item implicitly upvotes it on the author's behalf. The
	// vote goes through the regular path so the delta is computed against
	// the (nonexistent) prior vote. A poll whose vote range excludes the
	// upvote skips it and keeps the item at score zero.
	if s.settings.VoteRange.Contains(authorInitialVote) {
		if err := s.voteItem(author, id, authorInitialVote); err != nil {
			panic("self-vote on a just created item cannot fail: " + err.Error())
		}
	}
	s.touch(true)
	return id, nil
}

func (s *state) voteItem(voter uuid.UUID, itemID, value int) error {
	if !s.settings.VoteRange.Contains(value) {
		return ErrInvalidVoteValue
	}
	it, ok := s.items[itemID]
	if !ok {
		return ErrItemNotFound
	}

	// Overwrite, never accumulate: the score delta is against the voter's
	// previous vote, 0 if they never voted on this item.
	oldScore := it.score
	prev := it.votes[voter]
	it.votes[voter] = value
	it.score += value - prev

	if it.score != oldScore {
		s.byScore.update(oldScore, it.score, itemID)
		s.touch(true)
	}
	return nil
}

// snapshotFor is a pure projection; it never mutates state.
func (s *state) snapshotFor(viewer uuid.UUID) *model.Snapshot {
	top := s.byScore.topK(topItemsLimit)
	topViews := make([]model.ItemView, 0, len(top))
	for _, id := range top {
		topViews = append(topViews, s.items[id].view(viewer))
	}

	latest := s.latest.list()
	latestViews := make([]model.ItemView, 0, len(latest))
	for _, id := range latest {
		latestViews = append(latestViews, s.items[id].view(viewer))
	}

	authored := s.byAuthor[viewer]
	userViews := make([]model.ItemView, 0, len(authored))
	for i := len(authored) - 1; i >= 0; i-- {
		userViews = append(userViews, s.items[authored[i]].view(viewer))
	}

	return &model.Snapshot{
		PollTitle:   s.settings.Title,
		TopItems:    topViews,
		LatestItems: latestViews,
		UserItems:   userViews,
	}
}

// broadcast sends every registered identity its personalized snapshot and
// clears the dirty flag. Channels that refuse the send are dropped; a full
// buffer means the consumer stopped draining. Returns how many channels
// received the snapshot.
func (s *state) broadcast() int {
	delivered := 0
	for viewer, chans := range s.viewers {
		snap := s.snapshotFor(viewer)
		kept := chans[:0]
		for _, ch := range chans {
			if trySend(ch, snap) {
				kept = append(kept, ch)
				delivered++
			}
		}
		if len(kept) == 0 {
			delete(s.viewers, viewer)
		} else {
			s.viewers[viewer] = kept
		}
	}
	s.touch(false)
	return delivered
}

func (s *state) dropViewers() {
	s.viewers = nil
	s.identities.clear()
}

func (s *state) connections() int {
	n := 0
	for _, chans := range s.viewers {
		n += len(chans)
	}
	return n
}

func (s *state) stats() model.PollStats {
	return model.PollStats{
		ID:          s.id,
		Title:       s.settings.Title,
		Items:       len(s.items),
		Identities:  s.identities.size(),
		Connections: s.connections(),
		Dirty:       s.dirty,
	}
}

// trySend is a non-blocking send. A slow or dead viewer must never stall
// the actor; delivery to a full channel simply fails.
func trySend(ch chan<- *model.Snapshot, snap *model.Snapshot) bool {
	select {
	case ch <- snap:
		return true
	default:
		return false
	}
}
