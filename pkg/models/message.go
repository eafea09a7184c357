package models

// Message is a single chat entry. Reactions maps an emoji from the fixed
// vocabulary to the ordered list of voter identities that currently hold a
// vote for it (at most one vote per voter per emoji). FlagVoters is the set
// of distinct identities that flagged the message; it is never sent to
// clients, only FlagCount is.
type Message struct {
	ID     string `json:"id"`
	Author string `json:"author"`
	Text   string `json:"text"`
	Region string `json:"region,omitempty"`
	// TS is the creation timestamp (ns); entries are ordered by insertion.
	TS int64 `json:"ts"`
	// System marks synthetic notices (e.g. moderation removals).
	System    bool                `json:"system,omitempty"`
	Reactions map[string][]string `json:"reactions,omitempty"`

	FlagVoters []string `json:"-"`
	FlagCount  int      `json:"flags"`
}
