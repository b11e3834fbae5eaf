package common

// Layer is a collision category bitmask used by world queries.
type Layer uint

const (
	LayerGround Layer = 1 << iota
	LayerClimbable
	LayerInteractable
	LayerPlayer
	LayerHazard
	// LayerTrigger holds sensors that only props query for.
	LayerTrigger

	LayerNone Layer = 0
	LayerAll  Layer = ^Layer(0)
)

func (l Layer) Has(o Layer) bool {
	return l&o != 0
}

// RayHit describes the first thing a world query touched. Collider is the
// object registered with the hit shape, if any.
type RayHit struct {
	Point    Vec3
	Normal   Vec3
	Distance float64
	Collider any
}
