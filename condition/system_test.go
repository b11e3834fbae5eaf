package condition

import (
	"errors"
	"math"
	"testing"

	"github.com/milk9111/parkour/schedule"
)

type recordingObserver struct {
	health  []float64
	stamina []float64
	damaged []float64
	deaths  int
}

func (r *recordingObserver) OnHealthChanged(f float64)  { r.health = append(r.health, f) }
func (r *recordingObserver) OnStaminaChanged(f float64) { r.stamina = append(r.stamina, f) }
func (r *recordingObserver) OnDamaged(a float64)        { r.damaged = append(r.damaged, a) }
func (r *recordingObserver) OnDeath()                   { r.deaths++ }

func newTestSystem(t *testing.T) (*System, *schedule.Scheduler) {
	t.Helper()
	sched := schedule.NewScheduler()
	sys, err := New(DefaultConfig(), sched)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return sys, sched
}

func TestNewRequiresScheduler(t *testing.T) {
	if _, err := New(DefaultConfig(), nil); !errors.Is(err, ErrNilScheduler) {
		t.Fatalf("expected ErrNilScheduler, got %v", err)
	}
}

func TestDamageAndDeathScenario(t *testing.T) {
	sys, _ := newTestSystem(t)
	obs := &recordingObserver{}
	sys.Subscribe(obs)

	sys.ApplyDamage(50)
	if got := sys.Health().Current; got != 100 {
		t.Fatalf("expected health 100, got %v", got)
	}
	if sys.IsDead() {
		t.Fatalf("should not be dead at 100")
	}

	sys.ApplyDamage(100)
	if got := sys.Health().Current; got != 0 {
		t.Fatalf("expected health 0, got %v", got)
	}
	if !sys.IsDead() {
		t.Fatalf("expected dead")
	}

	sys.ApplyDamage(10)
	sys.ApplyDamage(10)
	if obs.deaths != 1 {
		t.Fatalf("expected death notification exactly once, got %d", obs.deaths)
	}
	if len(obs.damaged) != 2 {
		t.Fatalf("expected 2 damage notifications, got %d", len(obs.damaged))
	}

	sys.RecoverHealth(50)
	if got := sys.Health().Current; got != 0 {
		t.Fatalf("healing after death should be ignored, got %v", got)
	}
}

func TestGaugesStayClamped(t *testing.T) {
	ops := []struct {
		name string
		do   func(s *System)
	}{
		{"damage_small", func(s *System) { s.ApplyDamage(20) }},
		{"heal_over", func(s *System) { s.RecoverHealth(500) }},
		{"spend", func(s *System) { s.TryConsumeStamina(40) }},
		{"spend_too_much", func(s *System) { s.TryConsumeStamina(1000) }},
		{"recover_over", func(s *System) { s.RecoverStamina(1000) }},
		{"negative_damage", func(s *System) { s.ApplyDamage(-30) }},
		{"negative_heal", func(s *System) { s.RecoverHealth(-30) }},
		{"regen", func(s *System) { s.Update(100) }},
		{"nan_damage", func(s *System) { s.ApplyDamage(math.NaN()) }},
		{"nan_heal", func(s *System) { s.RecoverHealth(math.NaN()) }},
		{"nan_spend", func(s *System) { s.TryConsumeStamina(math.NaN()) }},
		{"nan_recover", func(s *System) { s.RecoverStamina(math.NaN()) }},
		{"nan_regen", func(s *System) { s.Update(math.NaN()) }},
		{"damage_huge", func(s *System) { s.ApplyDamage(1e9) }},
		{"heal_dead", func(s *System) { s.RecoverHealth(10) }},
	}

	sys, _ := newTestSystem(t)
	for _, op := range ops {
		t.Run(op.name, func(t *testing.T) {
			op.do(sys)
			h, st := sys.Health(), sys.Stamina()
			if !(h.Current >= 0 && h.Current <= h.Max) {
				t.Fatalf("health out of range: %v/%v", h.Current, h.Max)
			}
			if !(st.Current >= 0 && st.Current <= st.Max) {
				t.Fatalf("stamina out of range: %v/%v", st.Current, st.Max)
			}
		})
	}
}

func TestGaugeIgnoresNaN(t *testing.T) {
	g := NewGauge(100, 5)
	g.Subtract(30)
	g.Subtract(math.NaN())
	g.Add(math.NaN())
	if g.Current != 70 {
		t.Fatalf("current = %v, want 70", g.Current)
	}

	sys, _ := newTestSystem(t)
	obs := &recordingObserver{}
	sys.Subscribe(obs)
	sys.ApplyDamage(math.NaN())
	if len(obs.damaged) != 0 || sys.Health().Current != sys.Health().Max {
		t.Fatalf("NaN damage applied: health=%v damaged=%v", sys.Health().Current, obs.damaged)
	}
}

func TestStaminaGating(t *testing.T) {
	cases := []struct {
		name     string
		start    float64
		cost     float64
		wantOK   bool
		wantLeft float64
	}{
		{"insufficient", 5, 10, false, 5},
		{"exact", 10, 10, true, 0},
		{"plenty", 40, 10, true, 30},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			sys, _ := newTestSystem(t)
			sys.stamina.Current = c.start
			sys.sinceStaminaUse = 3
			ok := sys.TryConsumeStamina(c.cost)
			if ok != c.wantOK {
				t.Fatalf("expected ok=%v, got %v", c.wantOK, ok)
			}
			if sys.Stamina().Current != c.wantLeft {
				t.Fatalf("expected stamina %v, got %v", c.wantLeft, sys.Stamina().Current)
			}
			if ok && sys.State().SinceStaminaUse != 0 {
				t.Fatalf("successful spend should reset regen clock")
			}
			if !ok && sys.State().SinceStaminaUse != 3 {
				t.Fatalf("failed spend should not touch regen clock")
			}
		})
	}
}

func TestInvincibilityWindow(t *testing.T) {
	sys, sched := newTestSystem(t)
	if err := sys.ApplyConsumable([]Effect{{Kind: EffectInvincible, Duration: 2}}); err != nil {
		t.Fatalf("ApplyConsumable: %v", err)
	}
	sys.ApplyDamage(40)
	if sys.Health().Current != 150 {
		t.Fatalf("damage during invincibility should be ignored, got %v", sys.Health().Current)
	}

	sched.Advance(2)
	if sys.IsInvincible() {
		t.Fatalf("invincibility should have expired")
	}
	sys.ApplyDamage(40)
	if sys.Health().Current != 110 {
		t.Fatalf("expected 110 after window, got %v", sys.Health().Current)
	}
}

func TestTimedEffectRestartReplaces(t *testing.T) {
	sys, sched := newTestSystem(t)
	_ = sys.ApplyConsumable([]Effect{{Kind: EffectDoubleJump, Duration: 10}})
	sched.Advance(8)
	_ = sys.ApplyConsumable([]Effect{{Kind: EffectDoubleJump, Duration: 5}})

	rem, ok := sys.EffectRemaining(EffectDoubleJump)
	if !ok || rem != 5 {
		t.Fatalf("expected restarted timer with 5s, got %v ok=%v", rem, ok)
	}

	// the first timer would have ended here; the replacement must keep the flag
	sched.Advance(3)
	if !sys.IsDoubleJumpEnabled() {
		t.Fatalf("replaced timer must not fire")
	}
	sched.Advance(2)
	if sys.IsDoubleJumpEnabled() {
		t.Fatalf("expected double jump to expire after replacement duration")
	}
}

func TestApplyConsumableRejectsUnknownKind(t *testing.T) {
	sys, sched := newTestSystem(t)
	sys.ApplyDamage(50)

	err := sys.ApplyConsumable([]Effect{
		{Kind: EffectHealth, Value: 30},
		{Kind: EffectKind(99)},
	})
	if !errors.Is(err, ErrUnknownEffect) {
		t.Fatalf("expected ErrUnknownEffect, got %v", err)
	}
	if sys.Health().Current != 100 {
		t.Fatalf("rejected list must not be partially applied, got %v", sys.Health().Current)
	}
	if sched.Len() != 0 {
		t.Fatalf("no timers expected, got %d", sched.Len())
	}
}

func TestApplyConsumableHealsAndStartsTimers(t *testing.T) {
	sys, _ := newTestSystem(t)
	sys.ApplyDamage(100)
	err := sys.ApplyConsumable([]Effect{
		{Kind: EffectHealth, Value: 30},
		{Kind: EffectInfiniteStamina, Duration: 4},
	})
	if err != nil {
		t.Fatalf("ApplyConsumable: %v", err)
	}
	if sys.Health().Current != 80 {
		t.Fatalf("expected 80 health, got %v", sys.Health().Current)
	}
	before := sys.Stamina().Current
	if !sys.TryConsumeStamina(1000) {
		t.Fatalf("infinite stamina should always succeed")
	}
	if sys.Stamina().Current != before {
		t.Fatalf("infinite stamina must not deduct")
	}
}

func TestStaminaRegenAfterDelay(t *testing.T) {
	sys, _ := newTestSystem(t)
	if !sys.TryConsumeStamina(50) {
		t.Fatalf("spend should succeed")
	}

	for i := 0; i < 4; i++ {
		sys.Update(1)
	}
	if sys.Stamina().Current != 100 {
		t.Fatalf("no regen expected before delay, got %v", sys.Stamina().Current)
	}

	sys.Update(1.5) // clock passes the delay
	sys.Update(2)
	if got := sys.Stamina().Current; got != 110 {
		t.Fatalf("expected 2s of regen at 5/s, got %v", got)
	}

	sys.Update(1000)
	if !sys.Stamina().Full() {
		t.Fatalf("regen should cap at max")
	}
}

func TestUnsubscribe(t *testing.T) {
	sys, _ := newTestSystem(t)
	obs := &recordingObserver{}
	unsubscribe := sys.Subscribe(obs)
	sys.ApplyDamage(10)
	unsubscribe()
	sys.ApplyDamage(10)
	if len(obs.damaged) != 1 {
		t.Fatalf("expected one notification before unsubscribe, got %d", len(obs.damaged))
	}
}

func TestParseEffectKind(t *testing.T) {
	cases := map[string]EffectKind{
		"health":           EffectHealth,
		"Invincible":       EffectInvincible,
		"infinite_stamina": EffectInfiniteStamina,
		"DoubleJump":       EffectDoubleJump,
	}
	for name, want := range cases {
		got, err := ParseEffectKind(name)
		if err != nil || got != want {
			t.Fatalf("%s: expected %v, got %v err=%v", name, want, got, err)
		}
	}
	if _, err := ParseEffectKind("flight"); !errors.Is(err, ErrUnknownEffect) {
		t.Fatalf("expected ErrUnknownEffect, got %v", err)
	}
}
