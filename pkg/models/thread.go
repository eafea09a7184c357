package models

// Thread is a Q&A question plus its ordered replies. Unlike chat, threads
// are not capacity-bounded; only moderation removes them.
type Thread struct {
	ID     string `json:"id"`
	Author string `json:"author"`
	Text   string `json:"text"`
	Region string `json:"region,omitempty"`
	TS     int64  `json:"ts"`
	// Automated marks prompts injected by the facilitator.
	Automated bool                `json:"automated,omitempty"`
	Replies   []*Reply            `json:"replies"`
	Reactions map[string][]string `json:"reactions,omitempty"`

	FlagVoters []string `json:"-"`
	FlagCount  int      `json:"flags"`
}

// Reply is one answer inside a thread. Reply IDs are unique within their
// thread; replies are always addressed as (thread id, reply id).
type Reply struct {
	ID        string              `json:"id"`
	Author    string              `json:"author"`
	Text      string              `json:"text"`
	TS        int64               `json:"ts"`
	Reactions map[string][]string `json:"reactions,omitempty"`

	FlagVoters []string `json:"-"`
	FlagCount  int      `json:"flags"`
}

// Snapshot is the full state a newly-connected participant receives before
// any incremental event.
type Snapshot struct {
	Chat    []*Message     `json:"chat"`
	QA      []*Thread      `json:"qa"`
	Total   int            `json:"total"`
	Regions map[string]int `json:"regions"`
	Viewing bool           `json:"viewing"`
	Killed  bool           `json:"killed"`
}
