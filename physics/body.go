package physics

import (
	"errors"
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/parkour/common"
)

var ErrPlayerExists = errors.New("physics: world already has a player body")

// depthSkin shrinks the player's footprint when checking depth blocking,
// so resting contact with the floor does not count as a wall.
const depthSkin = 0.12

// settleDepth is the deepest floor penetration settle removes. Chipmunk
// allows some overlap at rest, which would otherwise leave the feet below
// the floor top.
const settleDepth = 0.15

// PlayerBody is the player's dynamic capsule-ish box. Chipmunk resolves
// contacts in XY; motion along Z is integrated here and stopped at the faces
// of solid colliders.
type PlayerBody struct {
	world    *World
	collider *Collider
	body     *cp.Body
	mass     float64
	z        float64
	vz       float64
}

// NewPlayerBody adds the player at feet position with the given footprint.
func (w *World) NewPlayerBody(feet common.Vec3, width, height, mass float64) (*PlayerBody, error) {
	if w.player != nil {
		return nil, ErrPlayerExists
	}
	if mass <= 0 {
		mass = 1
	}
	half := common.Vec3{X: width / 2, Y: height / 2, Z: width / 2}

	body := cp.NewBody(mass, math.Inf(1))
	body.SetPosition(cp.Vector{X: feet.X, Y: feet.Y + half.Y})
	w.space.AddBody(body)

	shape := cp.NewBox(body, width, height, 0)
	shape.SetFriction(0)
	shape.SetCollisionType(collisionTypePlayer)
	shape.SetFilter(cp.NewShapeFilter(0, uint(common.LayerPlayer), allCategories))

	c := &Collider{
		Name:   "player",
		Layer:  common.LayerPlayer,
		kind:   Dynamic,
		center: feet.Add(common.Vec3{Y: half.Y}),
		half:   half,
		body:   body,
		shape:  shape,
		world:  w,
	}
	shape.UserData = c
	w.space.AddShape(shape)
	w.colliders[shape] = c

	p := &PlayerBody{world: w, collider: c, body: body, mass: mass, z: feet.Z}
	c.Owner = p
	w.player = p
	return p, nil
}

// Position returns the feet position.
func (p *PlayerBody) Position() common.Vec3 {
	v := p.body.Position()
	return common.Vec3{X: v.X, Y: v.Y - p.collider.half.Y, Z: p.z}
}

func (p *PlayerBody) SetPosition(feet common.Vec3) {
	p.body.SetPosition(cp.Vector{X: feet.X, Y: feet.Y + p.collider.half.Y})
	p.z = feet.Z
	p.reinsert()
	p.sync()
}

// reinsert puts the shape back into the broadphase at its new position.
// The tree only refreshes moved leaves inside Space.Step, so a teleport
// would otherwise be invisible to queries until the next step.
func (p *PlayerBody) reinsert() {
	space := p.world.space
	space.RemoveShape(p.collider.shape)
	space.AddShape(p.collider.shape)
}

func (p *PlayerBody) Velocity() common.Vec3 {
	v := p.body.Velocity()
	return common.Vec3{X: v.X, Y: v.Y, Z: p.vz}
}

func (p *PlayerBody) SetVelocity(v common.Vec3) {
	p.body.SetVelocity(v.X, v.Y)
	p.vz = v.Z
}

func (p *PlayerBody) Mass() float64 { return p.mass }

// Bounds returns the player's box.
func (p *PlayerBody) Bounds() (common.Vec3, common.Vec3) {
	return p.collider.Bounds()
}

func (p *PlayerBody) sync() {
	v := p.body.Position()
	p.collider.center = common.Vec3{X: v.X, Y: v.Y, Z: p.z}
}

func (p *PlayerBody) afterStep(dt float64) {
	p.sync()
	p.settle()
	if p.vz == 0 {
		return
	}

	next := p.z + p.vz*dt
	min, max := p.collider.Bounds()
	skin := common.Vec3{X: depthSkin, Y: depthSkin}
	qmin := min.Add(skin)
	qmax := max.Sub(skin)
	half := p.collider.half.Z

	p.world.queryBB(qmin, qmax, common.LayerAll, func(c *Collider) {
		if c == p.collider || c.kind == Sensor {
			return
		}
		cmin, cmax := c.Bounds()
		if p.z+half > cmin.Z && p.z-half < cmax.Z {
			// already overlapping in depth; let it walk out
			return
		}
		switch {
		case p.vz > 0 && next+half > cmin.Z && p.z+half <= cmin.Z:
			next = math.Min(next, cmin.Z-half)
		case p.vz < 0 && next-half < cmax.Z && p.z-half >= cmax.Z:
			next = math.Max(next, cmax.Z+half)
		}
	})

	if next != p.z+p.vz*dt {
		p.vz = 0
	}
	p.z = next
	p.sync()
}

// settle lifts the feet onto the top of a static floor they sank into.
func (p *PlayerBody) settle() {
	min, max := p.collider.Bounds()
	qmin := common.Vec3{X: min.X + depthSkin, Y: min.Y, Z: min.Z}
	qmax := common.Vec3{X: max.X - depthSkin, Y: min.Y + settleDepth, Z: max.Z}

	lift := 0.0
	p.world.queryBB(qmin, qmax, common.LayerAll, func(c *Collider) {
		if c == p.collider || c.kind != Static {
			return
		}
		cmin, cmax := c.Bounds()
		if cmax.Z <= min.Z || cmin.Z >= max.Z {
			return
		}
		if cmax.X <= qmin.X || cmin.X >= qmax.X {
			return
		}
		if cmin.Y >= min.Y || cmax.Y <= min.Y || cmax.Y-min.Y > settleDepth {
			return
		}
		lift = math.Max(lift, cmax.Y-min.Y)
	})
	if lift == 0 {
		return
	}

	pos := p.body.Position()
	p.body.SetPosition(cp.Vector{X: pos.X, Y: pos.Y + lift})
	// the lift stays inside the leaf's padding; the shape bb is what
	// BBQuery tests
	p.collider.shape.CacheBB()
	if v := p.body.Velocity(); v.Y < 0 {
		p.body.SetVelocity(v.X, 0)
	}
	p.sync()
}
