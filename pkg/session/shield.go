package session

import (
	"sessionhub/pkg/logger"
	"sessionhub/pkg/telemetry"
)

type admitResult int

const (
	admitOK admitResult = iota
	admitRateLimited
	admitBanned
)

// admit applies the submission shield to a chat or thread post. Submitting
// inside the rate window earns a strike; crossing the strike limit bans the
// connection. An accepted submission decays one strike, so isolated slow
// violations self-heal while sustained rapid fire accumulates toward a ban.
// Reactions and flags never pass through here.
func (e *Engine) admit(p *participant) admitResult {
	now := e.opts.Clock()
	if !p.lastSubmit.IsZero() && now.Sub(p.lastSubmit) < e.opts.RateWindow {
		p.strikes++
		if p.strikes > e.opts.StrikeLimit {
			return admitBanned
		}
		return admitRateLimited
	}
	p.lastSubmit = now
	if p.strikes > 0 {
		p.strikes--
	}
	return admitOK
}

// banLocked forcibly terminates the participant: presence bookkeeping is
// done here so the engine stays consistent even if the transport never
// reports the close, and the transport connection is torn down through the
// broadcaster. The later Disconnect from the dying reader loop finds no
// record and is a no-op.
func (e *Engine) banLocked(id ParticipantID) {
	logger.Warn("participant_banned", "id", string(id))
	telemetry.ForcedDisconnects.Inc()
	e.purgeLocked(id)
	e.b.CloseConnection(id)
}
