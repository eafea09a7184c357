package validation

import (
	"errors"
	"strings"
	"testing"
)

func TestCheckText(t *testing.T) {
	SetRules(Rules{MaxTextLen: 10, Emojis: []string{"💡"}})

	if err := CheckText("hello"); err != nil {
		t.Fatalf("valid text rejected: %v", err)
	}
	if err := CheckText(""); !errors.Is(err, ErrEmptyText) {
		t.Fatalf("expected ErrEmptyText, got %v", err)
	}
	if err := CheckText(strings.Repeat("x", 11)); !errors.Is(err, ErrTextTooLong) {
		t.Fatalf("expected ErrTextTooLong, got %v", err)
	}
	// The limit counts runes, not bytes.
	if err := CheckText(strings.Repeat("é", 10)); err != nil {
		t.Fatalf("10 multibyte runes rejected: %v", err)
	}
}

func TestAllowedEmoji(t *testing.T) {
	SetRules(Rules{MaxTextLen: 500, Emojis: []string{"🎓", "💡"}})

	if !AllowedEmoji("🎓") || !AllowedEmoji("💡") {
		t.Fatal("vocabulary emoji rejected")
	}
	if AllowedEmoji("🔥") || AllowedEmoji("") {
		t.Fatal("out-of-vocabulary emoji accepted")
	}
}

func TestEmojisReturnsCopy(t *testing.T) {
	SetRules(Rules{MaxTextLen: 500, Emojis: []string{"🎓", "💡"}})
	got := Emojis()
	got[0] = "hacked"
	if Emojis()[0] != "🎓" {
		t.Fatal("Emojis leaked internal slice")
	}
}
