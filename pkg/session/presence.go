package session

import (
	"sessionhub/pkg/logger"
	"sessionhub/pkg/telemetry"
)

// Connect registers a fresh connection under id. The new participant
// receives the full state snapshot before anyone observes the updated
// totals, so no incremental event can precede its baseline.
func (e *Engine) Connect(id ParticipantID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.participants[id]; ok {
		return
	}
	e.participants[id] = &participant{}
	e.total++
	telemetry.ConnectedParticipants.Set(float64(e.total))
	logger.Debug("participant_connected", "id", string(id), "total", e.total)

	e.b.SendTo(id, EventInit, e.snapshotLocked(id))
	e.b.BroadcastAll(EventPresence, PresencePayload{Total: e.total})
	e.b.BroadcastAll(EventRegions, e.regionsLocked())
}

// Disconnect purges the participant and rebroadcasts totals. Unknown ids
// are tolerated silently; disconnect races are expected.
func (e *Engine) Disconnect(id ParticipantID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.purgeLocked(id)
}

// purgeLocked removes the participant record, fixes the tally and emits the
// presence broadcasts. No-op for unknown ids.
func (e *Engine) purgeLocked(id ParticipantID) {
	p, ok := e.participants[id]
	if !ok {
		return
	}
	delete(e.participants, id)
	if e.total > 0 {
		e.total--
	}
	if p.region != "" && e.regions[p.region] > 0 {
		e.regions[p.region]--
	}
	telemetry.ConnectedParticipants.Set(float64(e.total))
	logger.Debug("participant_disconnected", "id", string(id), "total", e.total)

	e.b.BroadcastAll(EventPresence, PresencePayload{Total: e.total})
	e.b.BroadcastAll(EventRegions, e.regionsLocked())
}

// ReportRegion records the participant's declared region, last write wins.
// Re-reporting the same region leaves the tally untouched. Unknown ids are
// dropped silently.
func (e *Engine) ReportRegion(id ParticipantID, region string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	p, ok := e.participants[id]
	if !ok {
		return
	}
	region = e.opts.Sanitize(region)
	if region == "" {
		return
	}
	if p.region != region {
		if p.region != "" && e.regions[p.region] > 0 {
			e.regions[p.region]--
		}
		e.regions[region]++
		p.region = region
	}
	e.b.BroadcastAll(EventRegions, e.regionsLocked())
}

// ToggleViewing flips the participant's viewing flag and reports the new
// state to that participant only. The flag may still flip after a kill; the
// payload always carries the kill state so clients derive visibility as
// viewing AND NOT killed.
func (e *Engine) ToggleViewing(id ParticipantID) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	p, ok := e.participants[id]
	if !ok {
		return false
	}
	p.viewing = !p.viewing
	e.b.SendTo(id, EventViewing, ViewingPayload{Viewing: p.viewing, Killed: e.killed})
	return p.viewing
}

func (e *Engine) regionsLocked() map[string]int {
	out := make(map[string]int, len(e.regions))
	for r, n := range e.regions {
		out[r] = n
	}
	return out
}
