package session

import (
	"errors"

	"sessionhub/pkg/logger"
	"sessionhub/pkg/models"
	"sessionhub/pkg/telemetry"
	"sessionhub/pkg/utils"
	"sessionhub/pkg/validation"
)

// PostThread opens a new Q&A thread. The shield applies exactly as for
// chat; unlike chat, threads are never evicted. Only moderation removes
// them.
func (e *Engine) PostThread(id ParticipantID, author, text, region string) Outcome {
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
	t := &models.Thread{
		ID:        utils.GenThreadID(),
		Author:    e.opts.Sanitize(author),
		Text:      e.opts.Sanitize(text),
		Region:    e.opts.Sanitize(region),
		TS:        e.opts.Clock().UTC().UnixNano(),
		Replies:   []*models.Reply{},
		Reactions: newReactionMap(),
	}
	e.appendThreadLocked(t)
	return accepted()
}

// PostAutomatedThread injects a facilitator prompt. It bypasses presence
// and the shield but is suppressed for good once the session is killed.
func (e *Engine) PostAutomatedThread(author, text string) Outcome {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.killed {
		return e.reject(ReasonKilled)
	}
	t := &models.Thread{
		ID:        utils.GenThreadID(),
		Author:    author,
		Text:      text,
		Region:    "System",
		TS:        e.opts.Clock().UTC().UnixNano(),
		Automated: true,
		Replies:   []*models.Reply{},
		Reactions: newReactionMap(),
	}
	e.appendThreadLocked(t)
	return accepted()
}

func (e *Engine) appendThreadLocked(t *models.Thread) {
	e.threads = append(e.threads, t)
	telemetry.ThreadsTotal.Inc()
	logger.Debug("qa_thread", "id", t.ID, "author", t.Author, "automated", t.Automated)
	e.b.BroadcastAll(EventThread, cloneThread(t))
}

// PostReply appends a reply to the named thread. If the thread was deleted
// in a race the reply is still broadcast carrying the stale thread id;
// clients drop replies for threads they no longer hold, so the event is
// idempotent-safe.
func (e *Engine) PostReply(threadID, author, text string) Outcome {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := validation.CheckText(text); err != nil {
		if errors.Is(err, validation.ErrEmptyText) {
			return e.reject(ReasonEmptyText)
		}
		return e.reject(ReasonOversized)
	}
	r := &models.Reply{
		ID:        utils.GenReplyID(),
		Author:    e.opts.Sanitize(author),
		Text:      e.opts.Sanitize(text),
		TS:        e.opts.Clock().UTC().UnixNano(),
		Reactions: newReactionMap(),
	}
	if t := e.findThreadLocked(threadID); t != nil {
		t.Replies = append(t.Replies, r)
	}
	telemetry.RepliesTotal.Inc()
	rc := *r
	rc.Reactions = cloneReactions(r.Reactions)
	e.b.BroadcastAll(EventReply, ReplyPayload{ThreadID: threadID, Reply: &rc})
	return accepted()
}

// ReactThread toggles the voter's emoji vote on a thread.
func (e *Engine) ReactThread(threadID, emoji, voter string) Outcome {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !validation.AllowedEmoji(emoji) {
		return e.reject(ReasonUnknownEmoji)
	}
	t := e.findThreadLocked(threadID)
	if t == nil {
		return e.reject(ReasonUnknownTarget)
	}
	toggleReaction(t.Reactions, emoji, e.opts.Sanitize(voter))
	e.b.BroadcastAll(EventThreadReaction, ThreadReactionPayload{ThreadID: t.ID, Reactions: cloneReactions(t.Reactions)})
	return accepted()
}

// ReactReply toggles the voter's emoji vote on a reply.
func (e *Engine) ReactReply(threadID, replyID, emoji, voter string) Outcome {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !validation.AllowedEmoji(emoji) {
		return e.reject(ReasonUnknownEmoji)
	}
	t := e.findThreadLocked(threadID)
	if t == nil {
		return e.reject(ReasonUnknownTarget)
	}
	r := findReply(t, replyID)
	if r == nil {
		return e.reject(ReasonUnknownTarget)
	}
	toggleReaction(r.Reactions, emoji, e.opts.Sanitize(voter))
	e.b.BroadcastAll(EventReplyReaction, ReplyReactionPayload{
		ThreadID:  t.ID,
		ReplyID:   r.ID,
		Reactions: cloneReactions(r.Reactions),
	})
	return accepted()
}

// FlagThread records a moderation vote against a thread; threshold or
// author self-flag removes the thread with all its replies.
func (e *Engine) FlagThread(threadID, voter string) Outcome {
	e.mu.Lock()
	defer e.mu.Unlock()
	t := e.findThreadLocked(threadID)
	if t == nil {
		return e.reject(ReasonUnknownTarget)
	}
	voter = e.opts.Sanitize(voter)
	if voter == "" {
		return e.reject(ReasonUnknownParticipant)
	}
	t.FlagVoters, _ = addFlagVote(t.FlagVoters, voter)
	t.FlagCount = len(t.FlagVoters)
	if voter == t.Author || t.FlagCount >= e.opts.FlagThreshold {
		e.deleteThreadLocked(t.ID)
	}
	return accepted()
}

// FlagReply records a moderation vote against a single reply.
func (e *Engine) FlagReply(threadID, replyID, voter string) Outcome {
	e.mu.Lock()
	defer e.mu.Unlock()
	t := e.findThreadLocked(threadID)
	if t == nil {
		return e.reject(ReasonUnknownTarget)
	}
	r := findReply(t, replyID)
	if r == nil {
		return e.reject(ReasonUnknownTarget)
	}
	voter = e.opts.Sanitize(voter)
	if voter == "" {
		return e.reject(ReasonUnknownParticipant)
	}
	r.FlagVoters, _ = addFlagVote(r.FlagVoters, voter)
	r.FlagCount = len(r.FlagVoters)
	if voter == r.Author || r.FlagCount >= e.opts.FlagThreshold {
		e.deleteReplyLocked(t, r.ID)
	}
	return accepted()
}

func (e *Engine) findThreadLocked(id string) *models.Thread {
	for _, t := range e.threads {
		if t.ID == id {
			return t
		}
	}
	return nil
}

func findReply(t *models.Thread, replyID string) *models.Reply {
	for _, r := range t.Replies {
		if r.ID == replyID {
			return r
		}
	}
	return nil
}

func (e *Engine) deleteThreadLocked(id string) {
	for i, t := range e.threads {
		if t.ID == id {
			e.threads = append(e.threads[:i], e.threads[i+1:]...)
			break
		}
	}
	telemetry.ModerationRemovals.WithLabelValues("thread").Inc()
	logger.Info("qa_thread_removed", "id", id)
	e.b.BroadcastAll(EventThreadDeleted, DeletedPayload{ID: id})
	e.noticeLocked("A Q&A thread was removed by community moderation.")
}

func (e *Engine) deleteReplyLocked(t *models.Thread, replyID string) {
	for i, r := range t.Replies {
		if r.ID == replyID {
			t.Replies = append(t.Replies[:i], t.Replies[i+1:]...)
			break
		}
	}
	telemetry.ModerationRemovals.WithLabelValues("reply").Inc()
	logger.Info("qa_reply_removed", "thread", t.ID, "id", replyID)
	e.b.BroadcastAll(EventReplyDeleted, ReplyDeletedPayload{ThreadID: t.ID, ReplyID: replyID})
	e.noticeLocked("A reply was removed by community moderation.")
}
