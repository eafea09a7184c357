package facilitator

import (
	"context"
	"fmt"
	"time"

	"github.com/adhocore/gronx"

	"sessionhub/pkg/logger"
	"sessionhub/pkg/session"
	"sessionhub/pkg/telemetry"
)

// Scheduler injects scripted prompts into the Q&A store as the automated
// facilitator. It is driven by a periodic tick finer than the cooldown, so
// the cooldown, not the tick rate, sets the effective posting cadence and
// can be retuned without resynchronizing a timer. An optional cron
// expression replaces the interval cadence entirely.
type Scheduler struct {
	eng      *session.Engine
	name     string
	script   []string
	cooldown time.Duration
	tick     time.Duration
	cron     string
	clock    func() time.Time

	cursor       int
	nextEligible time.Time
}

// New builds a Scheduler. The script cycles forever; the cursor advances
// modulo its length on every successful post.
func New(eng *session.Engine, name string, script []string, cooldown, tick time.Duration, cron string) *Scheduler {
	return &Scheduler{
		eng:      eng,
		name:     name,
		script:   script,
		cooldown: cooldown,
		tick:     tick,
		cron:     cron,
		clock:    time.Now,
	}
}

// Start launches the scheduler goroutine and returns a cancel func.
func (s *Scheduler) Start(ctx context.Context) (context.CancelFunc, error) {
	if len(s.script) == 0 {
		logger.Info("facilitator_disabled", "reason", "empty script")
		return func() {}, nil
	}
	ctx2, cancel := context.WithCancel(ctx)
	if s.cron != "" {
		if !gronx.IsValid(s.cron) {
			cancel()
			return nil, fmt.Errorf("invalid facilitator cron expression: %s", s.cron)
		}
		logger.Info("facilitator_started", "cron", s.cron, "prompts", len(s.script))
		go s.runCron(ctx2)
		return cancel, nil
	}
	logger.Info("facilitator_started", "cooldown", s.cooldown, "tick", s.tick, "prompts", len(s.script))
	s.nextEligible = s.clock().Add(s.cooldown)
	go s.runTicker(ctx2)
	return cancel, nil
}

// runTicker wakes every tick and posts when the cooldown has elapsed.
func (s *Scheduler) runTicker(ctx context.Context) {
	t := time.NewTicker(s.tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			logger.Info("facilitator_stopping")
			return
		case now := <-t.C:
			s.tickOnce(now)
		}
	}
}

// runCron computes the next cron tick and sleeps until then, mirroring full
// cron syntax rather than a coarse minute matcher.
func (s *Scheduler) runCron(ctx context.Context) {
	for {
		now := s.clock().UTC()
		next, err := gronx.NextTickAfter(s.cron, now, false)
		if err != nil {
			logger.Error("facilitator_nexttick_failed", "cron", s.cron, "error", err)
			select {
			case <-time.After(30 * time.Second):
			case <-ctx.Done():
				logger.Info("facilitator_stopping")
				return
			}
			continue
		}
		select {
		case <-time.After(time.Until(next)):
			s.post()
		case <-ctx.Done():
			logger.Info("facilitator_stopping")
			return
		}
	}
}

// tickOnce posts the next prompt if the cooldown has elapsed. The first
// prompt lands a full cooldown after the scheduler starts, never on the
// first tick. Reported separately from the ticker loop so tests can drive
// simulated time.
func (s *Scheduler) tickOnce(now time.Time) bool {
	if s.nextEligible.IsZero() {
		s.nextEligible = now.Add(s.cooldown)
		return false
	}
	if now.Before(s.nextEligible) {
		return false
	}
	if !s.post() {
		return false
	}
	s.nextEligible = now.Add(s.cooldown)
	return true
}

// post injects the prompt under the cursor. The post is refused while the
// session is killed; the cursor only advances on success, so the script
// resumes where it left off if a kill never happens.
func (s *Scheduler) post() bool {
	out := s.eng.PostAutomatedThread(s.name, s.script[s.cursor])
	if !out.Accepted {
		return false
	}
	s.cursor = (s.cursor + 1) % len(s.script)
	telemetry.FacilitatorPrompts.Inc()
	return true
}
