package session

import (
	"html"
	"sync"
	"time"

	"github.com/google/uuid"

	"sessionhub/pkg/auth"
	"sessionhub/pkg/models"
	"sessionhub/pkg/telemetry"
)

// ParticipantID is the opaque key for one live connection. It is unique per
// connection and not stable across reconnects; presence, region and shield
// state must never be keyed by a transport object.
type ParticipantID string

// NewParticipantID allocates a fresh connection identity.
func NewParticipantID() ParticipantID {
	return ParticipantID(uuid.NewString())
}

// Broadcaster is the outbound side of the engine. Implementations must
// serialize the payload synchronously (the engine may mutate it after the
// call returns) and must never call back into the engine from inside a
// method. Delivery is best-effort, fire-and-forget.
type Broadcaster interface {
	BroadcastAll(event string, payload any)
	SendTo(id ParticipantID, event string, payload any)
	// CloseConnection forcibly terminates the participant's transport.
	CloseConnection(id ParticipantID)
}

// Options configures an Engine. Zero values fall back to the documented
// defaults so tests can construct engines tersely.
type Options struct {
	HistoryLimit  int
	FlagThreshold int
	StrikeLimit   int
	RateWindow    time.Duration
	// SystemNotice appends a synthetic chat notice after moderation removals.
	SystemNotice bool
	// Sanitize is the opaque text-sanitization collaborator. Defaults to
	// HTML escaping.
	Sanitize func(string) string
	// Authorize is the opaque credential check guarding Kill. Defaults to
	// rejecting everything.
	Authorize auth.Authorizer
	// Clock drives the spam shield; tests inject a fake.
	Clock func() time.Time
}

type participant struct {
	region     string
	viewing    bool
	lastSubmit time.Time
	strikes    int
}

// Engine owns every piece of shared session state: the presence registry,
// region tally, live/kill state, both discussion histories and the shield
// counters. All mutation happens under one mutex; handlers call exactly one
// method per inbound action and every successful mutation emits its
// broadcasts before the lock is released, which gives a total broadcast
// order per structure.
type Engine struct {
	mu   sync.Mutex
	opts Options
	b    Broadcaster

	participants map[ParticipantID]*participant
	regions      map[string]int
	total        int
	killed       bool

	chat    []*models.Message
	threads []*models.Thread
}

// New builds an Engine wired to the given broadcaster.
func New(b Broadcaster, opts Options) *Engine {
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = 60
	}
	if opts.FlagThreshold <= 0 {
		opts.FlagThreshold = 3
	}
	if opts.StrikeLimit <= 0 {
		opts.StrikeLimit = 5
	}
	if opts.RateWindow <= 0 {
		opts.RateWindow = 800 * time.Millisecond
	}
	if opts.Sanitize == nil {
		opts.Sanitize = html.EscapeString
	}
	if opts.Authorize == nil {
		opts.Authorize = func(string) bool { return false }
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &Engine{
		opts:         opts,
		b:            b,
		participants: make(map[ParticipantID]*participant),
		regions:      make(map[string]int),
	}
}

// Snapshot returns a deep copy of the full session state, safe to marshal
// without holding the engine lock.
func (e *Engine) Snapshot() models.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked("")
}

func (e *Engine) snapshotLocked(id ParticipantID) models.Snapshot {
	s := models.Snapshot{
		Chat:    make([]*models.Message, 0, len(e.chat)),
		QA:      make([]*models.Thread, 0, len(e.threads)),
		Total:   e.total,
		Regions: make(map[string]int, len(e.regions)),
		Killed:  e.killed,
	}
	for _, m := range e.chat {
		s.Chat = append(s.Chat, cloneMessage(m))
	}
	for _, t := range e.threads {
		s.QA = append(s.QA, cloneThread(t))
	}
	for r, n := range e.regions {
		s.Regions[r] = n
	}
	if p, ok := e.participants[id]; ok {
		s.Viewing = p.viewing
	}
	return s
}

// RegionTally returns a copy of the current region tally.
func (e *Engine) RegionTally() map[string]int {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make(map[string]int, len(e.regions))
	for r, n := range e.regions {
		out[r] = n
	}
	return out
}

// Total returns the connected participant count.
func (e *Engine) Total() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.total
}

// Killed reports whether the session has been irreversibly killed.
func (e *Engine) Killed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.killed
}

func cloneMessage(m *models.Message) *models.Message {
	c := *m
	c.Reactions = cloneReactions(m.Reactions)
	c.FlagVoters = append([]string{}, m.FlagVoters...)
	return &c
}

func cloneThread(t *models.Thread) *models.Thread {
	c := *t
	c.Reactions = cloneReactions(t.Reactions)
	c.FlagVoters = append([]string{}, t.FlagVoters...)
	c.Replies = make([]*models.Reply, 0, len(t.Replies))
	for _, r := range t.Replies {
		rc := *r
		rc.Reactions = cloneReactions(r.Reactions)
		rc.FlagVoters = append([]string{}, r.FlagVoters...)
		c.Replies = append(c.Replies, &rc)
	}
	return &c
}

func cloneReactions(m map[string][]string) map[string][]string {
	if m == nil {
		return nil
	}
	out := make(map[string][]string, len(m))
	for k, v := range m {
		out[k] = append([]string{}, v...)
	}
	return out
}

// reject records a rejected submission and returns its outcome. Rejections
// are silent toward the offender: no broadcast, no error frame.
func (e *Engine) reject(reason RejectReason) Outcome {
	telemetry.RejectedSubmissions.WithLabelValues(string(reason)).Inc()
	return Outcome{Reason: reason}
}
