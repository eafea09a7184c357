package session

// RejectReason names why a submission was silently dropped. The set is
// closed; nothing here is ever surfaced to the offending participant.
type RejectReason string

const (
	ReasonEmptyText          RejectReason = "empty_text"
	ReasonOversized          RejectReason = "oversized"
	ReasonRateLimited        RejectReason = "rate_limited"
	ReasonBanned             RejectReason = "banned"
	ReasonUnknownParticipant RejectReason = "unknown_participant"
	ReasonUnknownTarget      RejectReason = "unknown_target"
	ReasonUnknownEmoji       RejectReason = "unknown_emoji"
	ReasonKilled             RejectReason = "killed"
	ReasonUnauthorized       RejectReason = "unauthorized"
	ReasonAlreadyKilled      RejectReason = "already_killed"
)

// Outcome is the internal result of one inbound action. Callers only need
// it for tests and metrics; participants never see rejections.
type Outcome struct {
	Accepted bool
	Reason   RejectReason
}

func accepted() Outcome { return Outcome{Accepted: true} }
