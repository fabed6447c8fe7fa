package model

// ItemView is one item as seen by one viewer. CallerVote is the viewer's
// own current vote on the item, 0 if they never voted.
type ItemView struct {
	ID         int    `json:"id"`
	Text       string `json:"text"`
	Score      int    `json:"score"`
	CallerVote int    `json:"user_vote"`
}

// Snapshot is a personalized, point-in-time projection of a poll for one
// identity. Ordering contracts:
//   - TopItems: score descending, ties broken by higher item id, at most 10.
//   - LatestItems: most recently added first, at most 10.
//   - UserItems: items authored by the viewer, most recently authored first.
type Snapshot struct {
	PollTitle   string     `json:"poll_title"`
	TopItems    []ItemView `json:"top_items"`
	LatestItems []ItemView `json:"latest_items"`
	UserItems   []ItemView `json:"user_items"`
}
