package session

import (
	"errors"

	"sessionhub/pkg/logger"
	"sessionhub/pkg/models"
	"sessionhub/pkg/telemetry"
	"sessionhub/pkg/utils"
	"sessionhub/pkg/validation"
)

const noticeAuthor = "📢 Moderation"

// PostChat validates, sanitizes and appends a chat message, evicting the
// oldest entry when the history window is full. Oversized text is rejected
// before the shield runs so it never earns a strike.
func (e *Engine) PostChat(id ParticipantID, author, text, region string) Outcome {
	e.mu.Lock()
	defer e.mu.Unlock()
	p, ok := e.participants[id]
	if !ok {
		return e.reject(ReasonUnknownParticipant)
	}
	if err := validation.CheckText(text); err != nil {
		if errors.Is(err, validation.ErrEmptyText) {
			return e.reject(ReasonEmptyText)
		}
		return e.reject(ReasonOversized)
	}
	switch e.admit(p) {
	case admitRateLimited:
		return e.reject(ReasonRateLimited)
	case admitBanned:
		e.banLocked(id)
		return e.reject(ReasonBanned)
	}
	msg := &models.Message{
		ID:        utils.GenID(),
		Author:    e.opts.Sanitize(author),
		Text:      e.opts.Sanitize(text),
		Region:    e.opts.Sanitize(region),
		TS:        e.opts.Clock().UTC().UnixNano(),
		Reactions: newReactionMap(),
	}
	e.appendChatLocked(msg)
	logger.Debug("chat_message", "id", msg.ID, "author", msg.Author)
	return accepted()
}

// appendChatLocked appends, evicts FIFO past the history limit and
// broadcasts the new message. Eviction is independent of moderation.
func (e *Engine) appendChatLocked(msg *models.Message) {
	e.chat = append(e.chat, msg)
	if len(e.chat) > e.opts.HistoryLimit {
		e.chat = e.chat[len(e.chat)-e.opts.HistoryLimit:]
	}
	telemetry.ChatMessagesTotal.Inc()
	e.b.BroadcastAll(EventChatMessage, cloneMessage(msg))
}

// ReactChat toggles the voter's emoji vote on a chat message. Emojis
// outside the vocabulary and stale message ids are dropped silently.
func (e *Engine) ReactChat(msgID, emoji, voter string) Outcome {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !validation.AllowedEmoji(emoji) {
		return e.reject(ReasonUnknownEmoji)
	}
	msg := e.findChatLocked(msgID)
	if msg == nil {
		return e.reject(ReasonUnknownTarget)
	}
	toggleReaction(msg.Reactions, emoji, e.opts.Sanitize(voter))
	e.b.BroadcastAll(EventChatReaction, ReactionPayload{ID: msg.ID, Reactions: cloneReactions(msg.Reactions)})
	return accepted()
}

// FlagChat records a monotonic moderation vote against a chat message. The
// message is removed once the distinct-voter threshold is reached, or
// immediately when the flagging voter is the author.
func (e *Engine) FlagChat(msgID, voter string) Outcome {
	e.mu.Lock()
	defer e.mu.Unlock()
	msg := e.findChatLocked(msgID)
	if msg == nil {
		return e.reject(ReasonUnknownTarget)
	}
	voter = e.opts.Sanitize(voter)
	if voter == "" {
		return e.reject(ReasonUnknownParticipant)
	}
	msg.FlagVoters, _ = addFlagVote(msg.FlagVoters, voter)
	msg.FlagCount = len(msg.FlagVoters)
	if voter == msg.Author || msg.FlagCount >= e.opts.FlagThreshold {
		e.deleteChatLocked(msg.ID)
	}
	return accepted()
}

func (e *Engine) findChatLocked(id string) *models.Message {
	for _, m := range e.chat {
		if m.ID == id {
			return m
		}
	}
	return nil
}

func (e *Engine) deleteChatLocked(id string) {
	for i, m := range e.chat {
		if m.ID == id {
			e.chat = append(e.chat[:i], e.chat[i+1:]...)
			break
		}
	}
	telemetry.ModerationRemovals.WithLabelValues("message").Inc()
	logger.Info("chat_message_removed", "id", id)
	e.b.BroadcastAll(EventChatDeleted, DeletedPayload{ID: id})
	e.noticeLocked("A chat message was removed by community moderation.")
}

// noticeLocked appends a synthetic system message explaining a removal.
// Notices bypass the shield but respect the history window like any entry.
func (e *Engine) noticeLocked(text string) {
	if !e.opts.SystemNotice {
		return
	}
	e.appendChatLocked(&models.Message{
		ID:        utils.GenID(),
		Author:    noticeAuthor,
		Text:      text,
		TS:        e.opts.Clock().UTC().UnixNano(),
		System:    true,
		Reactions: newReactionMap(),
	})
}
