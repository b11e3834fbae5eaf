package probe

import "github.com/milk9111/parkour/common"

// FourRays casts short downward rays from four points around the feet.
type FourRays struct {
	Offset float64 // horizontal distance of each ray from the center
	Lift   float64 // ray origin height above the feet
	Length float64
	Mask   common.Layer
}

func DefaultFourRays() FourRays {
	return FourRays{Offset: 0.2, Lift: 0.05, Length: 0.1, Mask: common.LayerGround}
}

func (f FourRays) Grounded(q WorldQuery, t common.Transform) bool {
	base := t.Position.Add(common.Up.Scale(f.Lift))
	fwd := t.Forward().Scale(f.Offset)
	right := t.Right().Scale(f.Offset)
	origins := [4]common.Vec3{
		base.Add(fwd),
		base.Sub(fwd),
		base.Add(right),
		base.Sub(right),
	}
	for _, o := range origins {
		if _, ok := q.Raycast(o, common.Down, f.Length, f.Mask); ok {
			return true
		}
	}
	return false
}

// ContactSphere tests a small sphere centered just above the feet.
type ContactSphere struct {
	Lift   float64
	Radius float64
	Mask   common.Layer
}

func DefaultContactSphere() ContactSphere {
	return ContactSphere{Lift: 0.05, Radius: 0.1, Mask: common.LayerGround}
}

func (c ContactSphere) Grounded(q WorldQuery, t common.Transform) bool {
	center := t.Position.Add(common.Up.Scale(c.Lift))
	return q.OverlapSphere(center, c.Radius, c.Mask)
}

// MultiHeightRays casts forward rays at several heights above the feet. The
// first hit wins, lowest height first.
type MultiHeightRays struct {
	Heights []float64
	Range   float64
	Mask    common.Layer
}

func DefaultMultiHeightRays() MultiHeightRays {
	return MultiHeightRays{
		Heights: []float64{0.2, 0.9, 1.6},
		Range:   0.8,
		Mask:    common.LayerClimbable,
	}
}

func (m MultiHeightRays) Wall(q WorldQuery, t common.Transform) (common.RayHit, bool) {
	fwd := t.Forward()
	for _, h := range m.Heights {
		origin := t.Position.Add(common.Up.Scale(h))
		if hit, ok := q.Raycast(origin, fwd, m.Range, m.Mask); ok {
			return hit, true
		}
	}
	return common.RayHit{}, false
}
