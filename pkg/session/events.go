package session

import "sessionhub/pkg/models"

// Outbound event names. One name per broadcast kind in the protocol; the
// transport forwards them verbatim as frame types.
const (
	EventInit           = "init"
	EventPresence       = "presence"
	EventRegions        = "regions"
	EventViewing        = "viewing_state"
	EventTeardown       = "teardown"
	EventChatMessage    = "chat_message"
	EventChatReaction   = "chat_reaction"
	EventChatDeleted    = "chat_deleted"
	EventThread         = "qa_thread"
	EventThreadReaction = "qa_reaction"
	EventThreadDeleted  = "qa_deleted"
	EventReply          = "qa_reply"
	EventReplyReaction  = "reply_reaction"
	EventReplyDeleted   = "reply_deleted"
)

// PresencePayload carries the total connected count.
type PresencePayload struct {
	Total int `json:"total"`
}

// ViewingPayload reports a participant's viewing flag together with the
// global kill state. Once killed, every ViewingPayload has Killed=true and
// the derived "actually visible" signal is Viewing && !Killed.
type ViewingPayload struct {
	Viewing bool `json:"viewing"`
	Killed  bool `json:"killed"`
}

// ReactionPayload carries a chat message's full reaction map after a toggle.
type ReactionPayload struct {
	ID        string              `json:"id"`
	Reactions map[string][]string `json:"reactions"`
}

// ThreadReactionPayload carries a thread's full reaction map after a toggle.
type ThreadReactionPayload struct {
	ThreadID  string              `json:"threadId"`
	Reactions map[string][]string `json:"reactions"`
}

// ReplyReactionPayload carries a reply's full reaction map after a toggle.
type ReplyReactionPayload struct {
	ThreadID  string              `json:"threadId"`
	ReplyID   string              `json:"replyId"`
	Reactions map[string][]string `json:"reactions"`
}

// ReplyPayload announces a new reply. ThreadID may reference a thread that
// was concurrently deleted; clients ignore replies to threads they no
// longer hold.
type ReplyPayload struct {
	ThreadID string        `json:"threadId"`
	Reply    *models.Reply `json:"reply"`
}

// DeletedPayload announces a moderation removal by target id only.
type DeletedPayload struct {
	ID string `json:"id"`
}

// ReplyDeletedPayload announces a reply removal.
type ReplyDeletedPayload struct {
	ThreadID string `json:"threadId"`
	ReplyID  string `json:"replyId"`
}
