package props

import (
	"fmt"
	"log"

	"github.com/milk9111/parkour/common"
	"github.com/milk9111/parkour/levels"
	"github.com/milk9111/parkour/physics"
)

const laserPollInterval = 0.05

// LaserTrap watches its beam for the player. A detection swings the left
// and right platforms out by Distance over Duration seconds, holds them
// open for Reset seconds and brings them back. The beam is not watched
// while the platforms are away, or for Reset seconds when the trap has
// none. Damage, when set, is dealt on each detection.
type LaserTrap struct {
	Name      string
	Origin    common.Vec3
	Direction common.Vec3
	Length    float64
	Damage    float64
	Reset     float64
	Left      *MovingPlatform
	Right     *MovingPlatform

	s        *Set
	since    float64
	cooldown float64
}

func addLaserTrap(s *Set, e levels.Entity) error {
	dir := common.Forward
	if p, ok := e.Vec("direction"); ok {
		dir = vec(p)
	}
	dir = dir.Normalize()
	if dir.IsZero() {
		return fmt.Errorf("laser trap %q: zero direction", e.Name)
	}
	l := &LaserTrap{
		Name:      e.Name,
		Origin:    vec(e.Position()),
		Direction: dir,
		Length:    e.Float("length", 7),
		Damage:    e.Float("damage", 0),
		Reset:     e.Float("reset", 3),
		s:         s,
	}
	l.Left = l.platform(e, "left", common.Vec3{X: -1})
	l.Right = l.platform(e, "right", common.Vec3{X: 1})
	s.lasers = append(s.lasers, l)
	return nil
}

// platform builds the side named by key when the entity places it. Each
// side opens along <key>_dir, defaulting to away from the beam on X.
func (l *LaserTrap) platform(e levels.Entity, key string, open common.Vec3) *MovingPlatform {
	at, ok := e.Vec(key)
	if !ok {
		return nil
	}
	if d, ok := e.Vec(key + "_dir"); ok {
		open = vec(d)
	}
	open = open.Normalize()

	size := common.Vec3{X: 2, Y: 0.3, Z: 2}
	if p, ok := e.Vec("platform_size"); ok {
		size = vec(p)
	}
	start := vec(at)
	half := common.Vec3{X: size.X / 2, Z: size.Z / 2}
	min, max := start.Sub(half), start.Add(half).Add(common.Vec3{Y: size.Y})

	end := start.Add(open.Scale(e.Float("distance", 2)))
	p := l.s.newPlatform(e.Name+"/"+key, start, end, min, max, e.Float("platform_duration", 0.2))
	p.Hold = l.Reset
	p.triggered = true
	return p
}

// Armed reports whether the beam is being watched.
func (l *LaserTrap) Armed() bool { return l.cooldown <= 0 && !l.cycling() }

func (l *LaserTrap) cycling() bool {
	for _, p := range l.platforms() {
		if p.Cycling() {
			return true
		}
	}
	return false
}

func (l *LaserTrap) platforms() []*MovingPlatform {
	out := make([]*MovingPlatform, 0, 2)
	if l.Left != nil {
		out = append(out, l.Left)
	}
	if l.Right != nil {
		out = append(out, l.Right)
	}
	return out
}

func (l *LaserTrap) fixedUpdate(dt float64) {
	for _, p := range l.platforms() {
		p.fixedUpdate(dt)
	}
}

func (l *LaserTrap) lateUpdate(dt float64) {
	for _, p := range l.platforms() {
		p.lateUpdate()
	}
	if l.cooldown > 0 {
		l.cooldown -= dt
		return
	}
	if l.cycling() {
		return
	}
	if l.since <= laserPollInterval {
		l.since += dt
		return
	}
	l.since = 0
	if !l.detect() {
		return
	}
	log.Printf("props: laser %s tripped", l.Name)
	ps := l.platforms()
	for _, p := range ps {
		p.Trigger()
	}
	if len(ps) == 0 {
		l.cooldown = l.Reset
	}
	if l.Damage > 0 {
		l.s.deps.Condition.ApplyDamage(l.Damage)
	}
}

// detect casts the beam. Solid ground blocks it.
func (l *LaserTrap) detect() bool {
	hit, ok := l.s.deps.World.Raycast(l.Origin, l.Direction, l.Length, common.LayerPlayer|common.LayerGround)
	if !ok {
		return false
	}
	_, isPlayer := hit.Collider.(*physics.PlayerBody)
	return isPlayer
}
