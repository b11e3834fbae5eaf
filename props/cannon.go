package props

import (
	"github.com/milk9111/parkour/common"
	"github.com/milk9111/parkour/levels"
	"github.com/milk9111/parkour/physics"
)

// Cannon launches the player along Direction. It is never used up.
type Cannon struct {
	Name      string
	Direction common.Vec3
	Force     float64
	// BaseSpeed is the steering speed during the flight.
	BaseSpeed float64

	rider    Rider
	collider *physics.Collider
}

func addCannon(s *Set, e levels.Entity) error {
	dir := common.Vec3{X: 0, Y: 1, Z: 1}
	if p, ok := e.Vec("direction"); ok {
		dir = vec(p)
	}
	c := &Cannon{
		Name:      e.Name,
		Direction: dir.Normalize(),
		Force:     e.Float("force", 50),
		BaseSpeed: e.Float("base_speed", 0),
		rider:     s.deps.Rider,
	}
	min, max := footprint(e, common.Vec3{X: 1, Y: 1, Z: 1})
	c.collider = s.deps.World.AddBox(e.Name, min, max, common.LayerInteractable, physics.Sensor)
	c.collider.Owner = c
	s.cannons = append(s.cannons, c)
	return nil
}

func (c *Cannon) Prompt() string { return "Press 'E' to use the cannon!" }

func (c *Cannon) Interact() {
	c.rider.EnterLaunch(c.Direction.Scale(c.Force), c.BaseSpeed)
}

func (c *Cannon) Consumed() bool { return false }
