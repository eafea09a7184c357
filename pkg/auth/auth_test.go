package auth

import "testing"

func TestCredentialCheck(t *testing.T) {
	check := CredentialCheck("sekrit")
	if !check("sekrit") {
		t.Fatal("matching credential rejected")
	}
	if check("wrong") || check("sekri") || check("sekrit ") || check("") {
		t.Fatal("non-matching credential accepted")
	}

	disabled := CredentialCheck("")
	if disabled("") || disabled("anything") {
		t.Fatal("empty secret must authorize nothing")
	}
}

func TestLimiterPool(t *testing.T) {
	p := NewLimiterPool(1, 2)

	// Burst drains, then the key is throttled; other keys are unaffected.
	if !p.Allow("a") || !p.Allow("a") {
		t.Fatal("burst allowance rejected")
	}
	if p.Allow("a") {
		t.Fatal("exhausted key allowed")
	}
	if !p.Allow("b") {
		t.Fatal("independent key throttled")
	}

	// Forget resets the key's budget.
	p.Forget("a")
	if !p.Allow("a") {
		t.Fatal("forgotten key still throttled")
	}
}
