package facilitator

import (
	"context"
	"testing"
	"time"

	"sessionhub/pkg/auth"
	"sessionhub/pkg/session"
	"sessionhub/pkg/validation"
)

type nopBroadcaster struct{}

func (nopBroadcaster) BroadcastAll(string, any)                  {}
func (nopBroadcaster) SendTo(session.ParticipantID, string, any) {}
func (nopBroadcaster) CloseConnection(session.ParticipantID)     {}

func newTestScheduler(t *testing.T, script []string, cooldown time.Duration) (*Scheduler, *session.Engine) {
	t.Helper()
	validation.SetRules(validation.Rules{MaxTextLen: 500, Emojis: []string{"💡"}})
	eng := session.New(nopBroadcaster{}, session.Options{
		Authorize: auth.CredentialCheck("sekrit"),
	})
	return New(eng, "🤖 Session Facilitator", script, cooldown, 5*time.Second, ""), eng
}

func TestFirstPromptWaitsFullCooldown(t *testing.T) {
	s, eng := newTestScheduler(t, []string{"first?"}, 30*time.Second)

	// Over 35s of 5s ticks with a 30s cooldown, exactly one prompt lands.
	t0 := time.Unix(1000, 0)
	posts := 0
	for d := time.Duration(0); d <= 35*time.Second; d += 5 * time.Second {
		if s.tickOnce(t0.Add(d)) {
			posts++
		}
	}
	if posts != 1 {
		t.Fatalf("expected exactly 1 prompt over 35s, got %d", posts)
	}
	if got := len(eng.Snapshot().QA); got != 1 {
		t.Fatalf("expected 1 stored prompt, got %d", got)
	}
}

func TestCooldownSetsCadence(t *testing.T) {
	s, eng := newTestScheduler(t, []string{"first?", "second?", "third?"}, 30*time.Second)

	t0 := time.Unix(1000, 0)
	if s.tickOnce(t0) {
		t.Fatal("first tick must not post before the cooldown")
	}
	// Ticks inside the first cooldown do nothing.
	for d := 5 * time.Second; d < 30*time.Second; d += 5 * time.Second {
		if s.tickOnce(t0.Add(d)) {
			t.Fatalf("tick at +%s posted inside the cooldown", d)
		}
	}
	if !s.tickOnce(t0.Add(30 * time.Second)) {
		t.Fatal("tick at the cooldown boundary should post")
	}
	if s.tickOnce(t0.Add(35 * time.Second)) {
		t.Fatal("tick inside the second cooldown posted")
	}
	if !s.tickOnce(t0.Add(60 * time.Second)) {
		t.Fatal("tick at the second boundary should post")
	}

	snap := eng.Snapshot()
	if len(snap.QA) != 2 {
		t.Fatalf("expected 2 prompts, got %d", len(snap.QA))
	}
	if snap.QA[0].Text != "first?" || snap.QA[1].Text != "second?" {
		t.Fatalf("script order broken: %q, %q", snap.QA[0].Text, snap.QA[1].Text)
	}
	for _, th := range snap.QA {
		if !th.Automated || th.Region != "System" || th.Author != "🤖 Session Facilitator" {
			t.Fatalf("unexpected prompt thread: %+v", th)
		}
	}
}

func TestScriptWrapsAround(t *testing.T) {
	s, eng := newTestScheduler(t, []string{"a?", "b?"}, time.Second)

	t0 := time.Unix(1000, 0)
	if s.tickOnce(t0) {
		t.Fatal("first tick must not post before the cooldown")
	}
	for i := 1; i <= 5; i++ {
		if !s.tickOnce(t0.Add(time.Duration(i) * time.Second)) {
			t.Fatalf("tick %d did not post", i)
		}
	}
	snap := eng.Snapshot()
	if len(snap.QA) != 5 {
		t.Fatalf("expected 5 prompts, got %d", len(snap.QA))
	}
	if snap.QA[2].Text != "a?" || snap.QA[3].Text != "b?" {
		t.Fatalf("script did not cycle: %q, %q", snap.QA[2].Text, snap.QA[3].Text)
	}
}

func TestNoPostsAfterKill(t *testing.T) {
	s, eng := newTestScheduler(t, []string{"a?"}, time.Second)

	t0 := time.Unix(1000, 0)
	s.tickOnce(t0)
	if !s.tickOnce(t0.Add(time.Second)) {
		t.Fatal("pre-kill tick should post")
	}
	if out := eng.Kill("sekrit"); !out.Accepted {
		t.Fatalf("kill rejected: %s", out.Reason)
	}
	for i := 2; i < 10; i++ {
		if s.tickOnce(t0.Add(time.Duration(i) * time.Second)) {
			t.Fatal("prompt posted after kill")
		}
	}
	if got := len(eng.Snapshot().QA); got != 1 {
		t.Fatalf("expected 1 prompt, got %d", got)
	}
}

func TestStartRejectsInvalidCron(t *testing.T) {
	s, _ := newTestScheduler(t, []string{"a?"}, time.Second)
	s.cron = "not a cron"
	if _, err := s.Start(context.Background()); err == nil {
		t.Fatal("expected invalid cron error")
	}
}

func TestStartWithEmptyScriptIsNoop(t *testing.T) {
	s, _ := newTestScheduler(t, nil, time.Second)
	cancel, err := s.Start(context.Background())
	if err != nil {
		t.Fatalf("empty script start: %v", err)
	}
	cancel()
}
