package physics

import (
	"log"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/parkour/common"
)

// Kind selects how a collider moves and whether it pushes back.
type Kind int

const (
	// Static geometry never moves.
	Static Kind = iota
	// Kinematic colliders move by velocity and carry infinite mass.
	Kinematic
	// Sensor colliders are found by queries but never collide.
	Sensor
	// Dynamic is the player body.
	Dynamic
)

const allCategories = ^uint(0)

const (
	collisionTypeSolid cp.CollisionType = iota + 1
	collisionTypePlayer
)

// Collider is an axis-aligned box. The chipmunk shape covers its XY
// footprint; depth along Z is tracked here and checked by queries.
type Collider struct {
	Name  string
	Layer common.Layer
	// Owner is reported as RayHit.Collider. Nil reports the collider itself.
	Owner any

	kind      Kind
	center    common.Vec3
	half      common.Vec3
	velocityZ float64

	body  *cp.Body
	shape *cp.Shape
	world *World
}

func (c *Collider) Kind() Kind { return c.kind }

func (c *Collider) Center() common.Vec3 { return c.center }

func (c *Collider) Bounds() (common.Vec3, common.Vec3) {
	return c.center.Sub(c.half), c.center.Add(c.half)
}

func (c *Collider) hitTarget() any {
	if c.Owner != nil {
		return c.Owner
	}
	return c
}

// SetVelocity moves a kinematic collider on the next Step.
func (c *Collider) SetVelocity(v common.Vec3) {
	if c.kind != Kinematic {
		return
	}
	c.body.SetVelocity(v.X, v.Y)
	c.velocityZ = v.Z
}

// World owns the chipmunk space and every collider in the scene. Gravity in
// the space is zero; bodies integrate their own gravity.
type World struct {
	space     *cp.Space
	colliders map[*cp.Shape]*Collider
	kinematic []*Collider
	player    *PlayerBody
	debug     bool
}

func NewWorld() *World {
	space := cp.NewSpace()
	space.Iterations = 20
	space.SetGravity(cp.Vector{})
	w := &World{
		space:     space,
		colliders: make(map[*cp.Shape]*Collider),
	}
	w.setupHandlers()
	return w
}

// setupHandlers drops contacts between boxes that overlap in XY but not in
// depth.
func (w *World) setupHandlers() {
	handler := w.space.NewCollisionHandler(collisionTypePlayer, collisionTypeSolid)
	handler.UserData = w
	handler.PreSolveFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		world, ok := userData.(*World)
		if !ok || world == nil {
			return true
		}
		shapeA, shapeB := arb.Shapes()
		a, okA := world.colliders[shapeA]
		b, okB := world.colliders[shapeB]
		if !okA || !okB {
			return true
		}
		return depthOverlap(a, b)
	}
}

func depthOverlap(a, b *Collider) bool {
	amin, amax := a.Bounds()
	bmin, bmax := b.Bounds()
	return amax.Z > bmin.Z && amin.Z < bmax.Z
}

// SetDebug enables collider logging.
func (w *World) SetDebug(on bool) { w.debug = on }

// Space returns the underlying chipmunk space.
func (w *World) Space() *cp.Space {
	if w == nil {
		return nil
	}
	return w.space
}

// AddBox adds a collider spanning min..max.
func (w *World) AddBox(name string, min, max common.Vec3, layer common.Layer, kind Kind) *Collider {
	center := min.Add(max).Scale(0.5)
	half := max.Sub(min).Scale(0.5)
	c := &Collider{
		Name:   name,
		Layer:  layer,
		kind:   kind,
		center: center,
		half:   half,
		world:  w,
	}

	switch kind {
	case Kinematic:
		c.body = cp.NewKinematicBody()
		c.body.SetPosition(cp.Vector{X: center.X, Y: center.Y})
		w.space.AddBody(c.body)
		c.shape = cp.NewBox(c.body, half.X*2, half.Y*2, 0)
		w.kinematic = append(w.kinematic, c)
	default:
		c.body = w.space.StaticBody
		bb := cp.BB{L: min.X, B: min.Y, R: max.X, T: max.Y}
		c.shape = cp.NewBox2(c.body, bb, 0)
	}
	c.shape.SetFriction(0)
	c.shape.SetCollisionType(collisionTypeSolid)
	c.shape.SetSensor(kind == Sensor)
	c.shape.SetFilter(cp.NewShapeFilter(0, uint(layer), allCategories))
	c.shape.UserData = c
	w.space.AddShape(c.shape)
	w.colliders[c.shape] = c

	if w.debug {
		log.Printf("physics: add %s layer=%d kind=%d min=%v max=%v", name, layer, kind, min, max)
	}
	return c
}

// Remove detaches c from the world.
func (w *World) Remove(c *Collider) {
	if c == nil || c.world != w {
		return
	}
	w.space.RemoveShape(c.shape)
	delete(w.colliders, c.shape)
	if c.kind == Dynamic {
		w.space.RemoveBody(c.body)
		w.player = nil
	}
	if c.kind == Kinematic {
		w.space.RemoveBody(c.body)
		for i, k := range w.kinematic {
			if k == c {
				w.kinematic = append(w.kinematic[:i], w.kinematic[i+1:]...)
				break
			}
		}
	}
	c.world = nil
}

// Len reports how many colliders are registered, the player included.
func (w *World) Len() int { return len(w.colliders) }

// Step advances kinematic colliders and the player body by dt.
func (w *World) Step(dt float64) {
	if w == nil || dt <= 0 {
		return
	}
	w.space.Step(dt)

	for _, c := range w.kinematic {
		p := c.body.Position()
		c.center = common.Vec3{X: p.X, Y: p.Y, Z: c.center.Z + c.velocityZ*dt}
	}
	if w.player != nil {
		w.player.afterStep(dt)
	}
}

func (w *World) queryBB(min, max common.Vec3, mask common.Layer, fn func(c *Collider)) {
	bb := cp.BB{L: min.X, B: min.Y, R: max.X, T: max.Y}
	filter := cp.NewShapeFilter(0, allCategories, uint(mask))
	w.space.BBQuery(bb, filter, func(shape *cp.Shape, data interface{}) {
		c, ok := w.colliders[shape]
		if !ok {
			return
		}
		fn(c)
	}, nil)
}
