package condition

import (
	"errors"
	"fmt"
	"log"

	"github.com/milk9111/parkour/schedule"
)

var ErrNilScheduler = errors.New("condition: scheduler is nil")

const (
	defaultMaxHealth    = 150.0
	defaultMaxStamina   = 150.0
	defaultStaminaRegen = 5.0
	defaultRegenDelay   = 5.0
)

// Config holds condition tuning.
type Config struct {
	MaxHealth    float64
	MaxStamina   float64
	StaminaRegen float64 // stamina per second once regen is active
	RegenDelay   float64 // seconds of no stamina use before regen starts
}

func DefaultConfig() Config {
	return Config{
		MaxHealth:    defaultMaxHealth,
		MaxStamina:   defaultMaxStamina,
		StaminaRegen: defaultStaminaRegen,
		RegenDelay:   defaultRegenDelay,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.MaxHealth <= 0 {
		c.MaxHealth = d.MaxHealth
	}
	if c.MaxStamina <= 0 {
		c.MaxStamina = d.MaxStamina
	}
	if c.StaminaRegen < 0 {
		c.StaminaRegen = 0
	}
	if c.RegenDelay < 0 {
		c.RegenDelay = 0
	}
	return c
}

// State is a read-only snapshot of the player's condition.
type State struct {
	Health          Gauge
	Stamina         Gauge
	SinceStaminaUse float64
	Dead            bool
	Invincible      bool
	InfiniteStamina bool
	DoubleJump      bool
}

// System owns health, stamina, and the timed status effects granted by
// consumables. It is driven from the simulation thread only.
type System struct {
	health          Gauge
	stamina         Gauge
	regenDelay      float64
	sinceStaminaUse float64

	dead            bool
	invincible      bool
	infiniteStamina bool
	doubleJump      bool

	sched     *schedule.Scheduler
	observers []observerEntry
	nextObsID int
}

type observerEntry struct {
	id  int
	obs Observer
}

// New creates a System with full gauges. Stamina regen is active from the
// start.
func New(cfg Config, sched *schedule.Scheduler) (*System, error) {
	if sched == nil {
		return nil, ErrNilScheduler
	}
	cfg = cfg.withDefaults()
	return &System{
		health:          NewGauge(cfg.MaxHealth, 0),
		stamina:         NewGauge(cfg.MaxStamina, cfg.StaminaRegen),
		regenDelay:      cfg.RegenDelay,
		sinceStaminaUse: cfg.RegenDelay,
		sched:           sched,
	}, nil
}

// Reconfigure applies new tuning, keeping current values clamped to the new
// maxima.
func (s *System) Reconfigure(cfg Config) {
	if s == nil {
		return
	}
	cfg = cfg.withDefaults()
	s.health.Max = cfg.MaxHealth
	s.stamina.Max = cfg.MaxStamina
	s.stamina.Passive = cfg.StaminaRegen
	s.regenDelay = cfg.RegenDelay
	if s.health.Current > s.health.Max {
		s.health.Current = s.health.Max
	}
	if s.stamina.Current > s.stamina.Max {
		s.stamina.Current = s.stamina.Max
	}
	s.notifyHealth()
	s.notifyStamina()
}

// Subscribe registers o and returns a function that removes it.
func (s *System) Subscribe(o Observer) (unsubscribe func()) {
	if s == nil || o == nil {
		return func() {}
	}
	s.nextObsID++
	id := s.nextObsID
	s.observers = append(s.observers, observerEntry{id: id, obs: o})
	return func() {
		for i, e := range s.observers {
			if e.id == id {
				s.observers = append(s.observers[:i:i], s.observers[i+1:]...)
				return
			}
		}
	}
}

func (s *System) State() State {
	if s == nil {
		return State{}
	}
	return State{
		Health:          s.health,
		Stamina:         s.stamina,
		SinceStaminaUse: s.sinceStaminaUse,
		Dead:            s.dead,
		Invincible:      s.invincible,
		InfiniteStamina: s.infiniteStamina,
		DoubleJump:      s.doubleJump,
	}
}

func (s *System) Health() Gauge             { return s.health }
func (s *System) Stamina() Gauge            { return s.stamina }
func (s *System) IsDead() bool              { return s.dead }
func (s *System) IsInvincible() bool        { return s.invincible }
func (s *System) IsInfiniteStamina() bool   { return s.infiniteStamina }
func (s *System) IsDoubleJumpEnabled() bool { return s.doubleJump }

// ApplyDamage lowers health unless the player is dead or invincible. Death
// is terminal and announced once.
func (s *System) ApplyDamage(amount float64) {
	if s == nil || s.dead || s.invincible || !(amount > 0) {
		return
	}
	s.health.Subtract(amount)
	s.notifyHealth()
	for _, e := range s.snapshotObservers() {
		e.obs.OnDamaged(amount)
	}
	if s.health.Empty() {
		s.dead = true
		log.Printf("condition: player is dead")
		for _, e := range s.snapshotObservers() {
			e.obs.OnDeath()
		}
	}
}

// TryConsumeStamina spends amount if available. With infinite stamina it
// always succeeds and spends nothing. On failure nothing changes.
func (s *System) TryConsumeStamina(amount float64) bool {
	if s == nil {
		return false
	}
	if s.infiniteStamina {
		return true
	}
	if !(amount >= 0) {
		amount = 0
	}
	if s.stamina.Current < amount {
		return false
	}
	s.stamina.Subtract(amount)
	s.sinceStaminaUse = 0
	s.notifyStamina()
	return true
}

// RecoverHealth adds to health, capped at max. No effect once dead.
func (s *System) RecoverHealth(amount float64) {
	if s == nil || s.dead || !(amount > 0) {
		return
	}
	s.health.Add(amount)
	s.notifyHealth()
}

// RecoverStamina adds to stamina, capped at max.
func (s *System) RecoverStamina(amount float64) {
	if s == nil || !(amount > 0) {
		return
	}
	s.stamina.Add(amount)
	s.notifyStamina()
}

// Update advances the stamina regen clock. Regen accrues only after the
// configured delay since the last stamina use.
func (s *System) Update(dt float64) {
	if s == nil || !(dt > 0) {
		return
	}
	if s.sinceStaminaUse <= s.regenDelay {
		s.sinceStaminaUse += dt
		return
	}
	if !s.stamina.Full() {
		s.RecoverStamina(s.stamina.Passive * dt)
	}
}

// ApplyConsumable applies every effect in the list. The list is validated
// first; an unknown kind rejects the whole list with ErrUnknownEffect.
// Timed effects restart their timer, replacing any running one of the same
// kind.
func (s *System) ApplyConsumable(effects []Effect) error {
	if s == nil {
		return nil
	}
	for i, e := range effects {
		if !e.Kind.valid() {
			return fmt.Errorf("condition: effect %d: %w: %s", i, ErrUnknownEffect, e.Kind)
		}
	}
	if s.dead {
		return nil
	}
	for _, e := range effects {
		if e.Kind == EffectHealth {
			s.RecoverHealth(e.Value)
			continue
		}
		s.startTimed(e.Kind, e.Duration)
	}
	return nil
}

func (s *System) startTimed(kind EffectKind, duration float64) {
	s.setFlag(kind, true)
	log.Printf("condition: %s active for %.2fs", kind, duration)
	s.sched.Schedule(kind.key(), duration, func() {
		s.setFlag(kind, false)
	})
}

// CancelEffect ends a timed effect early.
func (s *System) CancelEffect(kind EffectKind) {
	if s == nil || !kind.timed() {
		return
	}
	s.sched.Cancel(kind.key())
	s.setFlag(kind, false)
}

// EffectRemaining returns the seconds left on a timed effect.
func (s *System) EffectRemaining(kind EffectKind) (float64, bool) {
	if s == nil || !kind.timed() {
		return 0, false
	}
	return s.sched.Remaining(kind.key())
}

func (s *System) setFlag(kind EffectKind, on bool) {
	switch kind {
	case EffectInvincible:
		s.invincible = on
	case EffectInfiniteStamina:
		s.infiniteStamina = on
	case EffectDoubleJump:
		s.doubleJump = on
	}
}

func (s *System) notifyHealth() {
	f := s.health.Fraction()
	for _, e := range s.snapshotObservers() {
		e.obs.OnHealthChanged(f)
	}
}

func (s *System) notifyStamina() {
	f := s.stamina.Fraction()
	for _, e := range s.snapshotObservers() {
		e.obs.OnStaminaChanged(f)
	}
}

func (s *System) snapshotObservers() []observerEntry {
	if len(s.observers) == 0 {
		return nil
	}
	return append([]observerEntry(nil), s.observers...)
}
