package session

import "sessionhub/pkg/validation"

// One reaction-map representation shared by chat messages, Q&A threads and
// replies: emoji -> ordered voter list. The vocabulary is fixed by the
// validation rules; every entity gets the full map up front so clients can
// render all slots.

func newReactionMap() map[string][]string {
	vocab := validation.Emojis()
	m := make(map[string][]string, len(vocab))
	for _, e := range vocab {
		m[e] = []string{}
	}
	return m
}

// toggleReaction adds the voter to the emoji's set, or removes them if they
// already hold that vote. A voter holds at most one vote per emoji per
// target but may vote on several emojis of the same target at once.
func toggleReaction(reactions map[string][]string, emoji, voter string) {
	list := reactions[emoji]
	for i, v := range list {
		if v == voter {
			reactions[emoji] = append(list[:i], list[i+1:]...)
			return
		}
	}
	reactions[emoji] = append(list, voter)
}

// addFlagVote records a monotonic flag vote; duplicate voters count once.
// Returns the updated set and whether the voter was new.
func addFlagVote(voters []string, voter string) ([]string, bool) {
	for _, v := range voters {
		if v == voter {
			return voters, false
		}
	}
	return append(voters, voter), true
}
