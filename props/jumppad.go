package props

import (
	"github.com/milk9111/parkour/common"
	"github.com/milk9111/parkour/levels"
	"github.com/milk9111/parkour/physics"
)

// JumpPad hands the player its force while they overlap it.
type JumpPad struct {
	Name  string
	Force float64

	s        *Set
	collider *physics.Collider
	inside   bool
}

func addJumpPad(s *Set, e levels.Entity) error {
	p := &JumpPad{Name: e.Name, Force: e.Float("force", 10), s: s}
	min, max := footprint(e, common.Vec3{X: 1.5, Y: 0.2, Z: 1.5})
	p.collider = s.deps.World.AddBox(e.Name, min, max, common.LayerTrigger, physics.Sensor)
	p.collider.Owner = p
	s.pads = append(s.pads, p)
	return nil
}

// Occupied reports whether the player was on the pad last tick.
func (p *JumpPad) Occupied() bool { return p.inside }

func (p *JumpPad) update() {
	min, max := p.collider.Bounds()
	inside := len(p.s.deps.World.OverlapBox(min, max, common.LayerPlayer)) > 0

	switch {
	case inside:
		// the controller ignores repeats until the player leaves
		p.s.deps.Rider.EnterJumpPad(p.Force)
	case p.inside:
		p.s.deps.Rider.ExitJumpPad()
	}
	p.inside = inside
}
