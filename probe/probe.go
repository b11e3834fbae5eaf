package probe

import "github.com/milk9111/parkour/common"

// WorldQuery is the spatial query surface the probes need from the physics
// world.
type WorldQuery interface {
	Raycast(origin, dir common.Vec3, maxDist float64, mask common.Layer) (common.RayHit, bool)
	OverlapSphere(center common.Vec3, radius float64, mask common.Layer) bool
}

// GroundStrategy decides whether a pose is standing on ground.
type GroundStrategy interface {
	Grounded(q WorldQuery, t common.Transform) bool
}

// WallStrategy looks for a climbable wall in front of a pose.
type WallStrategy interface {
	Wall(q WorldQuery, t common.Transform) (common.RayHit, bool)
}

// Probe answers ground and wall contact questions. It holds no per-tick
// state.
type Probe struct {
	world  WorldQuery
	ground GroundStrategy
	wall   WallStrategy
}

// New creates a probe with the given strategies. Nil strategies fall back to
// FourRays and MultiHeightRays with default dimensions.
func New(world WorldQuery, ground GroundStrategy, wall WallStrategy) *Probe {
	if ground == nil {
		ground = DefaultFourRays()
	}
	if wall == nil {
		wall = DefaultMultiHeightRays()
	}
	return &Probe{world: world, ground: ground, wall: wall}
}

// IsGrounded reports ground contact under t. A probe without a world is
// never grounded.
func (p *Probe) IsGrounded(t common.Transform) bool {
	if p == nil || p.world == nil {
		return false
	}
	return p.ground.Grounded(p.world, t)
}

// FindClimbableWall returns the normal of the first climbable surface in
// front of t.
func (p *Probe) FindClimbableWall(t common.Transform) (common.Vec3, bool) {
	if p == nil || p.world == nil {
		return common.Vec3{}, false
	}
	hit, ok := p.wall.Wall(p.world, t)
	if !ok {
		return common.Vec3{}, false
	}
	return hit.Normal, true
}

// SetStrategies swaps the probe shapes, keeping the current one for nil args.
func (p *Probe) SetStrategies(ground GroundStrategy, wall WallStrategy) {
	if p == nil {
		return
	}
	if ground != nil {
		p.ground = ground
	}
	if wall != nil {
		p.wall = wall
	}
}
