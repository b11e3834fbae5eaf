package props

import (
	"errors"
	"fmt"
	"log"
	"math/rand"

	"github.com/milk9111/parkour/common"
	"github.com/milk9111/parkour/condition"
	"github.com/milk9111/parkour/levels"
	"github.com/milk9111/parkour/physics"
	"github.com/milk9111/parkour/prefabs"
	"github.com/milk9111/parkour/schedule"
)

var (
	ErrNilWorld     = errors.New("props: world is nil")
	ErrNilCondition = errors.New("props: condition is nil")
	ErrNilRider     = errors.New("props: rider is nil")
	ErrNilPlayer    = errors.New("props: player is nil")
	ErrNilScheduler = errors.New("props: scheduler is nil")
	ErrUnknownType  = errors.New("props: unknown entity type")
)

// Condition is the slice of the condition system props act on.
type Condition interface {
	ApplyConsumable(effects []condition.Effect) error
	ApplyDamage(amount float64)
}

// Rider is the locomotion surface environment props call into.
type Rider interface {
	EnterJumpPad(force float64)
	ExitJumpPad()
	EnterLaunch(impulse common.Vec3, baseSpeed float64)
	ApplyPlatformDelta(delta common.Vec3)
}

// Player locates the player's body.
type Player interface {
	Position() common.Vec3
	Bounds() (min, max common.Vec3)
}

type Deps struct {
	World     *physics.World
	Condition Condition
	Rider     Rider
	Player    Player
	Scheduler *schedule.Scheduler
	Items     *prefabs.ItemTable
	// Rand picks item box contents. Nil seeds a new source.
	Rand  *rand.Rand
	Debug bool
}

type buildFn func(s *Set, e levels.Entity) error

var registry = map[string]buildFn{
	"pickup":          addPickup,
	"item_box":        addItemBox,
	"cannon":          addCannon,
	"jump_pad":        addJumpPad,
	"moving_platform": addMovingPlatform,
	"laser_trap":      addLaserTrap,
	"scripted_prop":   addScriptedProp,
}

// Set owns every prop in a level and drives the ones that tick.
type Set struct {
	deps Deps

	pickups   []*Pickup
	boxes     []*ItemBox
	cannons   []*Cannon
	pads      []*JumpPad
	platforms []*MovingPlatform
	lasers    []*LaserTrap
	scripted  []*ScriptedProp
}

func NewSet(deps Deps) (*Set, error) {
	switch {
	case deps.World == nil:
		return nil, ErrNilWorld
	case deps.Condition == nil:
		return nil, ErrNilCondition
	case deps.Rider == nil:
		return nil, ErrNilRider
	case deps.Player == nil:
		return nil, ErrNilPlayer
	case deps.Scheduler == nil:
		return nil, ErrNilScheduler
	}
	if deps.Rand == nil {
		deps.Rand = rand.New(rand.NewSource(rand.Int63()))
	}
	return &Set{deps: deps}, nil
}

// Build creates a Set holding every entity in lvl.
func Build(lvl *levels.Level, deps Deps) (*Set, error) {
	s, err := NewSet(deps)
	if err != nil {
		return nil, err
	}
	if lvl == nil {
		return s, nil
	}
	for i, e := range lvl.Entities {
		if err := s.Add(e); err != nil {
			return nil, fmt.Errorf("props: entity %d (%s): %w", i, e.Name, err)
		}
	}
	return s, nil
}

// Add builds one level entity.
func (s *Set) Add(e levels.Entity) error {
	fn, ok := registry[e.Type]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownType, e.Type)
	}
	if err := fn(s, e); err != nil {
		return err
	}
	if s.deps.Debug {
		log.Printf("props: added %s %q at %v", e.Type, e.Name, e.Position())
	}
	return nil
}

// FixedUpdate runs before the physics step: platforms, laser trap
// platforms included, pick their velocity and jump pads test for the
// player.
func (s *Set) FixedUpdate(dt float64) {
	if s == nil || dt <= 0 {
		return
	}
	for _, p := range s.platforms {
		p.fixedUpdate(dt)
	}
	for _, l := range s.lasers {
		l.fixedUpdate(dt)
	}
	for _, p := range s.pads {
		p.update()
	}
}

// LateUpdate runs after the physics step: platforms carry their rider and
// lasers poll their beams.
func (s *Set) LateUpdate(dt float64) {
	if s == nil || dt <= 0 {
		return
	}
	for _, p := range s.platforms {
		p.lateUpdate()
	}
	for _, l := range s.lasers {
		l.lateUpdate(dt)
	}
}

// Reload re-reads every scripted prop's source.
func (s *Set) Reload() error {
	if s == nil {
		return nil
	}
	var errs []error
	for _, p := range s.scripted {
		if err := p.Reload(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.pickups) + len(s.boxes) + len(s.cannons) + len(s.pads) +
		len(s.platforms) + len(s.lasers) + len(s.scripted)
}

func (s *Set) Pickups() []*Pickup           { return s.pickups }
func (s *Set) ItemBoxes() []*ItemBox        { return s.boxes }
func (s *Set) Cannons() []*Cannon           { return s.cannons }
func (s *Set) JumpPads() []*JumpPad         { return s.pads }
func (s *Set) Platforms() []*MovingPlatform { return s.platforms }
func (s *Set) Lasers() []*LaserTrap         { return s.lasers }
func (s *Set) Scripted() []*ScriptedProp    { return s.scripted }

func vec(p levels.Point) common.Vec3 {
	return common.Vec3{X: p.X, Y: p.Y, Z: p.Z}
}

// footprint returns the box of an entity whose position is its bottom
// center.
func footprint(e levels.Entity, def common.Vec3) (common.Vec3, common.Vec3) {
	size := def
	if p, ok := e.Vec("size"); ok {
		size = vec(p)
	}
	pos := vec(e.Position())
	half := common.Vec3{X: size.X / 2, Z: size.Z / 2}
	return pos.Sub(half), pos.Add(half).Add(common.Vec3{Y: size.Y})
}

// effectsFromSpec converts prefab effect entries to condition effects.
func effectsFromSpec(specs []prefabs.EffectSpec) ([]condition.Effect, error) {
	out := make([]condition.Effect, 0, len(specs))
	for _, es := range specs {
		kind, err := condition.ParseEffectKind(es.Kind)
		if err != nil {
			return nil, err
		}
		out = append(out, condition.Effect{Kind: kind, Value: es.Value, Duration: es.Duration})
	}
	return out, nil
}
