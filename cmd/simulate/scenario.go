package main

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"sort"

	"github.com/milk9111/parkour/common"
	"github.com/milk9111/parkour/levels"
	"github.com/milk9111/parkour/physics"
	"github.com/milk9111/parkour/player"
	"github.com/milk9111/parkour/prefabs"
	"gopkg.in/yaml.v3"
)

var (
	errNoScenario  = errors.New("simulate: scenario path is required")
	errExpectation = errors.New("simulate: expectation failed")
)

// Scenario is a scripted run: inputs keyed by tick, then checks on the
// final snapshot.
type Scenario struct {
	Name         string  `yaml:"name"`
	Level        string  `yaml:"level"`
	Ticks        int     `yaml:"ticks"`
	TPS          int     `yaml:"tps"`
	TraceEvery   int     `yaml:"trace_every"`
	AllAbilities bool    `yaml:"all_abilities"`
	Seed         int64   `yaml:"seed"`
	Steps        []Step  `yaml:"steps"`
	Expect       *Expect `yaml:"expect"`
}

// Step fires its inputs at tick At.
type Step struct {
	At          int         `yaml:"at"`
	Move        *[2]float64 `yaml:"move"`
	Look        *[2]float64 `yaml:"look"`
	Jump        bool        `yaml:"jump"`
	Sprint      bool        `yaml:"sprint"`
	Crouch      bool        `yaml:"crouch"`
	Climb       bool        `yaml:"climb"`
	Perspective bool        `yaml:"perspective"`
	Interact    bool        `yaml:"interact"`
	Damage      float64     `yaml:"damage"`
}

// Expect bounds the final state. Nil fields are not checked.
type Expect struct {
	Mode       string   `yaml:"mode"`
	MinX       *float64 `yaml:"min_x"`
	MaxX       *float64 `yaml:"max_x"`
	MinY       *float64 `yaml:"min_y"`
	MaxY       *float64 `yaml:"max_y"`
	MinZ       *float64 `yaml:"min_z"`
	MaxZ       *float64 `yaml:"max_z"`
	MinHealth  *float64 `yaml:"min_health"`
	MaxStamina *float64 `yaml:"max_stamina"`
	Dead       *bool    `yaml:"dead"`
	Interacted *int     `yaml:"interacted"`
}

func LoadScenario(path string) (*Scenario, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("simulate: read %s: %w", path, err)
	}
	return ParseScenario(b)
}

func ParseScenario(b []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(b, &sc); err != nil {
		return nil, fmt.Errorf("simulate: unmarshal: %w", err)
	}
	if sc.Level == "" {
		sc.Level = "yard"
	}
	if sc.TPS <= 0 {
		sc.TPS = 60
	}
	if sc.Ticks <= 0 {
		sc.Ticks = sc.TPS
	}
	for i, s := range sc.Steps {
		if s.At < 0 || s.At >= sc.Ticks {
			return nil, fmt.Errorf("simulate: step %d at tick %d is outside 0..%d", i, s.At, sc.Ticks-1)
		}
	}
	sort.SliceStable(sc.Steps, func(i, j int) bool { return sc.Steps[i].At < sc.Steps[j].At })
	return &sc, nil
}

// Result summarises a finished run.
type Result struct {
	Final      player.Snapshot
	Interacted int
	Died       bool
}

// Simulate plays sc headlessly, writing a trace line every TraceEvery ticks
// (and on every step tick) to out.
func Simulate(sc *Scenario, out io.Writer) (Result, error) {
	if out == nil {
		out = io.Discard
	}
	lvl, err := levels.LoadLevelFromFS(sc.Level)
	if err != nil {
		return Result{}, err
	}
	items, err := prefabs.LoadItemTable()
	if err != nil {
		return Result{}, err
	}
	spec, err := prefabs.LoadPlayerSpec()
	if err != nil {
		return Result{}, err
	}
	cfg, err := player.ConfigFromSpec(spec)
	if err != nil {
		return Result{}, err
	}

	world := physics.NewWorld()
	if _, err := world.BuildLevel(lvl); err != nil {
		return Result{}, err
	}

	var res Result
	p, err := player.New(cfg, player.Env{
		World: world,
		Spawn: common.Vec3{X: lvl.Spawn.X, Y: lvl.Spawn.Y, Z: lvl.Spawn.Z},
		Level: lvl,
		Items: items,
		Rand:  newRand(sc.Seed),
	}, player.Collaborators{})
	if err != nil {
		return Result{}, err
	}
	if sc.AllAbilities {
		if err := p.GrantAllAbilities(float64(sc.Ticks)); err != nil {
			return Result{}, err
		}
	}

	dt := 1 / float64(sc.TPS)
	fmt.Fprintf(out, "# %s level=%s ticks=%d dt=%.4f\n", sc.Name, sc.Level, sc.Ticks, dt)
	next := 0
	for tick := 0; tick < sc.Ticks; tick++ {
		fired := false
		for next < len(sc.Steps) && sc.Steps[next].At == tick {
			if apply(p, sc.Steps[next]) {
				res.Interacted++
			}
			next++
			fired = true
		}
		p.Tick(dt)

		snap := p.Snapshot()
		if snap.Condition.Dead {
			res.Died = true
		}
		if fired || (sc.TraceEvery > 0 && tick%sc.TraceEvery == 0) || tick == sc.Ticks-1 {
			writeTrace(out, tick, float64(tick+1)*dt, snap)
		}
	}
	res.Final = p.Snapshot()
	return res, nil
}

// newRand keeps item box rolls reproducible per scenario.
func newRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

func apply(p *player.Player, s Step) bool {
	if s.Move != nil {
		p.Move(common.Vec2{X: s.Move[0], Y: s.Move[1]})
	}
	if s.Look != nil {
		p.Look(common.Vec2{X: s.Look[0], Y: s.Look[1]})
	}
	if s.Sprint {
		p.ToggleSprint()
	}
	if s.Crouch {
		p.ToggleCrouch()
	}
	if s.Climb {
		p.ToggleClimbEngage()
	}
	if s.Jump {
		p.Jump()
	}
	if s.Perspective {
		p.TogglePerspective()
	}
	if s.Damage > 0 {
		p.Condition().ApplyDamage(s.Damage)
	}
	if s.Interact {
		return p.Interact()
	}
	return false
}

func writeTrace(out io.Writer, tick int, t float64, s player.Snapshot) {
	l := s.Locomotion
	c := s.Condition
	fmt.Fprintf(out, "%5d %7.3fs pos=(%6.2f %6.2f %6.2f) yaw=%6.1f %-9s %-8s v=(%6.2f %6.2f %6.2f) speed=%5.2f hp=%5.1f st=%5.1f",
		tick, t, s.Position.X, s.Position.Y, s.Position.Z, s.Yaw,
		l.Mode, l.Cosmetic, l.Velocity.X, l.Velocity.Y, l.Velocity.Z, l.CurrentSpeed,
		c.Health.Current, c.Stamina.Current)
	if s.Prompt != "" {
		fmt.Fprintf(out, " prompt=%q", s.Prompt)
	}
	fmt.Fprintln(out)
}

// Check compares res against e and lists every mismatch.
func (e *Expect) Check(res Result) error {
	if e == nil {
		return nil
	}
	s := res.Final
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{errExpectation}, args...)...))
	}
	if e.Mode != "" && s.Locomotion.Mode.String() != e.Mode {
		fail("mode = %s, want %s", s.Locomotion.Mode, e.Mode)
	}
	bound := func(name string, v float64, min, max *float64) {
		if min != nil && v < *min {
			fail("%s = %.3f, want >= %.3f", name, v, *min)
		}
		if max != nil && v > *max {
			fail("%s = %.3f, want <= %.3f", name, v, *max)
		}
	}
	bound("x", s.Position.X, e.MinX, e.MaxX)
	bound("y", s.Position.Y, e.MinY, e.MaxY)
	bound("z", s.Position.Z, e.MinZ, e.MaxZ)
	bound("health", s.Condition.Health.Current, e.MinHealth, nil)
	bound("stamina", s.Condition.Stamina.Current, nil, e.MaxStamina)
	if e.Dead != nil && res.Died != *e.Dead {
		fail("dead = %v, want %v", res.Died, *e.Dead)
	}
	if e.Interacted != nil && res.Interacted != *e.Interacted {
		fail("interactions = %d, want %d", res.Interacted, *e.Interacted)
	}
	return errors.Join(errs...)
}
