package validation

import (
	"errors"
	"unicode/utf8"
)

// Rules holds the input policy applied to every participant submission.
// Installed once at startup via SetRules; readers treat it as immutable.
type Rules struct {
	// MaxTextLen bounds message, thread and reply bodies (runes).
	MaxTextLen int
	// Emojis is the fixed reaction vocabulary.
	Emojis []string
}

var (
	rules    Rules
	emojiSet map[string]struct{}
)

var ErrTextTooLong = errors.New("text exceeds maximum length")
var ErrEmptyText = errors.New("text is empty")

// SetRules installs the global validation rules.
func SetRules(r Rules) {
	rules = r
	emojiSet = make(map[string]struct{}, len(r.Emojis))
	for _, e := range r.Emojis {
		emojiSet[e] = struct{}{}
	}
}

// CheckText validates a submission body against the installed rules.
func CheckText(s string) error {
	if s == "" {
		return ErrEmptyText
	}
	if rules.MaxTextLen > 0 && utf8.RuneCountInString(s) > rules.MaxTextLen {
		return ErrTextTooLong
	}
	return nil
}

// AllowedEmoji reports whether the emoji belongs to the fixed vocabulary.
// Anything outside the vocabulary is rejected without broadcasting.
func AllowedEmoji(emoji string) bool {
	_, ok := emojiSet[emoji]
	return ok
}

// Emojis returns the installed vocabulary in its configured order.
func Emojis() []string {
	return append([]string{}, rules.Emojis...)
}
