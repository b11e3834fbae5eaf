package props

import (
	"github.com/milk9111/parkour/common"
	"github.com/milk9111/parkour/levels"
	"github.com/milk9111/parkour/physics"
)

// standProbe is how far below the feet a platform still counts as stood on.
const standProbe = 0.25

type cyclePhase int

const (
	cycleIdle cyclePhase = iota
	cycleOut
	cycleHold
	cycleBack
)

// MovingPlatform shuttles between Start and End. It waits Delay seconds at
// each end and eases across in Duration seconds.
//
// A triggered platform rests at Start instead. Trigger sends it out to End,
// where it holds for Hold seconds before easing back.
type MovingPlatform struct {
	Name     string
	Start    common.Vec3
	End      common.Vec3
	Delay    float64
	Duration float64
	Hold     float64

	s         *Set
	collider  *physics.Collider
	offset    common.Vec3
	triggered bool

	wait     float64
	elapsed  float64
	moving   bool
	reversed bool
	phase    cyclePhase
	prev     common.Vec3
}

func addMovingPlatform(s *Set, e levels.Entity) error {
	start := vec(e.Position())
	end := start
	if p, ok := e.Vec("end"); ok {
		end = vec(p)
	}
	min, max := footprint(e, common.Vec3{X: 2, Y: 0.3, Z: 2})
	p := s.newPlatform(e.Name, start, end, min, max, e.Float("duration", 2))
	p.Delay = e.Float("delay", 1)
	p.wait = p.Delay
	s.platforms = append(s.platforms, p)
	return nil
}

// newPlatform adds the kinematic body. min and max bound the platform at
// start. The caller keeps the platform so it gets ticked.
func (s *Set) newPlatform(name string, start, end, min, max common.Vec3, duration float64) *MovingPlatform {
	if duration <= 0 {
		duration = 2
	}
	p := &MovingPlatform{
		Name:     name,
		Start:    start,
		End:      end,
		Duration: duration,
		s:        s,
	}
	p.collider = s.deps.World.AddBox(name, min, max, common.LayerGround, physics.Kinematic)
	p.collider.Owner = p
	p.offset = p.collider.Center().Sub(start)
	p.prev = p.collider.Center()
	return p
}

// Position returns the platform's bottom center.
func (p *MovingPlatform) Position() common.Vec3 {
	return p.collider.Center().Sub(p.offset)
}

func (p *MovingPlatform) Moving() bool { return p.moving }

// Cycling reports whether a triggered platform is away from Start.
func (p *MovingPlatform) Cycling() bool { return p.phase != cycleIdle }

// Trigger starts a trip out and back. It reports false for shuttling
// platforms and for a trip already under way.
func (p *MovingPlatform) Trigger() bool {
	if !p.triggered || p.phase != cycleIdle {
		return false
	}
	p.phase = cycleOut
	p.elapsed = 0
	p.moving = true
	return true
}

func (p *MovingPlatform) fixedUpdate(dt float64) {
	target := p.advance(dt).Add(p.offset)
	p.collider.SetVelocity(target.Sub(p.collider.Center()).Scale(1 / dt))
}

// advance moves the platform clock by dt and returns where the platform
// should be afterwards.
func (p *MovingPlatform) advance(dt float64) common.Vec3 {
	if p.triggered {
		return p.advanceTrip(dt)
	}
	from, to := p.Start, p.End
	if p.reversed {
		from, to = to, from
	}
	if !p.moving {
		p.wait -= dt
		if p.wait > 0 {
			return from
		}
		p.moving = true
		p.elapsed = -p.wait
		dt = 0
	}
	p.elapsed += dt
	if p.elapsed >= p.Duration {
		p.moving = false
		p.reversed = !p.reversed
		p.wait = p.Delay
		return to
	}
	return ease(from, to, p.elapsed/p.Duration)
}

func (p *MovingPlatform) advanceTrip(dt float64) common.Vec3 {
	switch p.phase {
	case cycleIdle:
		return p.Start
	case cycleHold:
		p.wait -= dt
		if p.wait > 0 {
			return p.End
		}
		p.phase = cycleBack
		p.moving = true
		p.elapsed = -p.wait
		dt = 0
	}
	from, to := p.Start, p.End
	if p.phase == cycleBack {
		from, to = to, from
	}
	p.elapsed += dt
	if p.elapsed < p.Duration {
		return ease(from, to, p.elapsed/p.Duration)
	}
	p.moving = false
	if p.phase == cycleOut {
		p.phase = cycleHold
		p.wait = p.Hold
	} else {
		p.phase = cycleIdle
	}
	return to
}

func ease(from, to common.Vec3, t float64) common.Vec3 {
	t = common.SmoothStep(t)
	return common.Vec3{
		X: common.Lerp(from.X, to.X, t),
		Y: common.Lerp(from.Y, to.Y, t),
		Z: common.Lerp(from.Z, to.Z, t),
	}
}

func (p *MovingPlatform) lateUpdate() {
	center := p.collider.Center()
	delta := center.Sub(p.prev)
	p.prev = center
	if delta.IsZero() || !p.carrying() {
		return
	}
	p.s.deps.Rider.ApplyPlatformDelta(delta)
}

// carrying reports whether the player stands on the platform. The check
// runs after the step, so the probe starts above the feet to allow for the
// platform having risen into them.
func (p *MovingPlatform) carrying() bool {
	feet := p.s.deps.Player.Position()
	origin := feet.Add(common.Vec3{Y: standProbe / 2})
	hit, ok := p.s.deps.World.Raycast(origin, common.Down, standProbe, common.LayerGround)
	return ok && hit.Collider == p
}
