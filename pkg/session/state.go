package session

import "sessionhub/pkg/logger"

// Kill validates the credential and, on success, transitions the session to
// its terminal killed state: every participant's viewing flag is forced
// off, the kill is broadcast and a teardown signal tells clients to drop
// embedded media. The transition is irreversible for the process lifetime;
// repeated kills and bad credentials change nothing and broadcast nothing,
// so callers cannot probe which credentials are valid.
func (e *Engine) Kill(credential string) Outcome {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.opts.Authorize(credential) {
		logger.Warn("kill_rejected")
		return e.reject(ReasonUnauthorized)
	}
	if e.killed {
		return e.reject(ReasonAlreadyKilled)
	}
	e.killed = true
	for _, p := range e.participants {
		p.viewing = false
	}
	logger.Info("session_killed", "participants", e.total)
	e.b.BroadcastAll(EventViewing, ViewingPayload{Viewing: false, Killed: true})
	e.b.BroadcastAll(EventTeardown, struct{}{})
	return accepted()
}
