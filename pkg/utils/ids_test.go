package utils

import (
	"strings"
	"testing"
)

func TestIDsAreUniqueAndPrefixed(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		id := GenID()
		if !strings.HasPrefix(id, "msg-") {
			t.Fatalf("bad prefix: %s", id)
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id: %s", id)
		}
		seen[id] = struct{}{}
	}
	if !strings.HasPrefix(GenThreadID(), "thread-") {
		t.Fatal("bad thread prefix")
	}
	if !strings.HasPrefix(GenReplyID(), "reply-") {
		t.Fatal("bad reply prefix")
	}
}
