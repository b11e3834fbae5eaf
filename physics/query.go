package physics

import (
	"math"

	"github.com/milk9111/parkour/common"
)

// Raycast returns the nearest collider on mask hit by the ray. A ray that
// starts inside a box hits it at distance zero.
func (w *World) Raycast(origin, dir common.Vec3, maxDist float64, mask common.Layer) (common.RayHit, bool) {
	if w == nil || maxDist <= 0 || mask == common.LayerNone {
		return common.RayHit{}, false
	}
	dir = dir.Normalize()
	if dir.IsZero() {
		return common.RayHit{}, false
	}
	end := origin.Add(dir.Scale(maxDist))
	lo := common.Vec3{X: math.Min(origin.X, end.X), Y: math.Min(origin.Y, end.Y)}
	hi := common.Vec3{X: math.Max(origin.X, end.X), Y: math.Max(origin.Y, end.Y)}

	best := common.RayHit{Distance: math.Inf(1)}
	found := false
	w.queryBB(lo, hi, mask, func(c *Collider) {
		min, max := c.Bounds()
		t, n, ok := rayAABBHit(origin, dir, maxDist, min, max)
		if !ok || t >= best.Distance {
			return
		}
		best = common.RayHit{
			Point:    origin.Add(dir.Scale(t)),
			Normal:   n,
			Distance: t,
			Collider: c.hitTarget(),
		}
		found = true
	})
	if !found {
		return common.RayHit{}, false
	}
	return best, true
}

// OverlapSphere reports whether any collider on mask intersects the sphere.
func (w *World) OverlapSphere(center common.Vec3, radius float64, mask common.Layer) bool {
	if w == nil || radius <= 0 || mask == common.LayerNone {
		return false
	}
	r := common.Vec3{X: radius, Y: radius, Z: radius}
	hit := false
	w.queryBB(center.Sub(r), center.Add(r), mask, func(c *Collider) {
		if hit {
			return
		}
		min, max := c.Bounds()
		if sqDistToAABB(center, min, max) <= radius*radius {
			hit = true
		}
	})
	return hit
}

// OverlapBox returns the owners of colliders on mask intersecting min..max.
func (w *World) OverlapBox(min, max common.Vec3, mask common.Layer) []any {
	if w == nil || mask == common.LayerNone {
		return nil
	}
	var out []any
	w.queryBB(min, max, mask, func(c *Collider) {
		cmin, cmax := c.Bounds()
		if !aabbOverlap(min, max, cmin, cmax) {
			return
		}
		out = append(out, c.hitTarget())
	})
	return out
}

// rayAABBHit is the slab test in three dimensions. It returns the entry
// distance and the face normal at entry.
func rayAABBHit(origin, dir common.Vec3, maxDist float64, min, max common.Vec3) (float64, common.Vec3, bool) {
	o := [3]float64{origin.X, origin.Y, origin.Z}
	d := [3]float64{dir.X, dir.Y, dir.Z}
	lo := [3]float64{min.X, min.Y, min.Z}
	hi := [3]float64{max.X, max.Y, max.Z}

	tmin := 0.0
	tmax := maxDist
	axis := -1
	sign := 0.0

	for i := 0; i < 3; i++ {
		if d[i] == 0 {
			if o[i] < lo[i] || o[i] > hi[i] {
				return 0, common.Vec3{}, false
			}
			continue
		}
		inv := 1.0 / d[i]
		t1 := (lo[i] - o[i]) * inv
		t2 := (hi[i] - o[i]) * inv
		s := -1.0
		if t1 > t2 {
			t1, t2 = t2, t1
			s = 1.0
		}
		if t1 > tmin {
			tmin = t1
			axis = i
			sign = s
		}
		tmax = math.Min(tmax, t2)
		if tmax < tmin {
			return 0, common.Vec3{}, false
		}
	}

	var n common.Vec3
	switch axis {
	case 0:
		n.X = sign
	case 1:
		n.Y = sign
	case 2:
		n.Z = sign
	default:
		// started inside
		n = dir.Neg()
	}
	return tmin, n, true
}

func sqDistToAABB(p, min, max common.Vec3) float64 {
	dx := math.Max(math.Max(min.X-p.X, 0), p.X-max.X)
	dy := math.Max(math.Max(min.Y-p.Y, 0), p.Y-max.Y)
	dz := math.Max(math.Max(min.Z-p.Z, 0), p.Z-max.Z)
	return dx*dx + dy*dy + dz*dz
}

func aabbOverlap(amin, amax, bmin, bmax common.Vec3) bool {
	return amin.X <= bmax.X && amax.X >= bmin.X &&
		amin.Y <= bmax.Y && amax.Y >= bmin.Y &&
		amin.Z <= bmax.Z && amax.Z >= bmin.Z
}
