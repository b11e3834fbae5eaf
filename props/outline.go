package props

import "github.com/milk9111/parkour/common"

// Outline is a prop's extent for debug drawing. Lasers report the beam as
// Min (origin) to Max (end), followed by their platforms.
type Outline struct {
	Kind   string
	Name   string
	Min    common.Vec3
	Max    common.Vec3
	Active bool
}

func (s *Set) Outlines() []Outline {
	out := make([]Outline, 0, s.Len())
	for _, p := range s.pickups {
		if p.consumed {
			continue
		}
		min, max := p.collider.Bounds()
		out = append(out, Outline{Kind: "pickup", Name: p.Name, Min: min, Max: max, Active: true})
	}
	for _, b := range s.boxes {
		min, max := b.collider.Bounds()
		out = append(out, Outline{Kind: "item_box", Name: b.Name, Min: min, Max: max, Active: !b.opened})
	}
	for _, c := range s.cannons {
		min, max := c.collider.Bounds()
		out = append(out, Outline{Kind: "cannon", Name: c.Name, Min: min, Max: max, Active: true})
	}
	for _, p := range s.pads {
		min, max := p.collider.Bounds()
		out = append(out, Outline{Kind: "jump_pad", Name: p.Name, Min: min, Max: max, Active: p.inside})
	}
	for _, p := range s.platforms {
		min, max := p.collider.Bounds()
		out = append(out, Outline{Kind: "moving_platform", Name: p.Name, Min: min, Max: max, Active: p.moving})
	}
	for _, l := range s.lasers {
		end := l.Origin.Add(l.Direction.Scale(l.Length))
		out = append(out, Outline{Kind: "laser_trap", Name: l.Name, Min: l.Origin, Max: end, Active: l.Armed()})
		for _, p := range l.platforms() {
			min, max := p.collider.Bounds()
			out = append(out, Outline{Kind: "moving_platform", Name: p.Name, Min: min, Max: max, Active: p.moving})
		}
	}
	for _, p := range s.scripted {
		min, max := p.collider.Bounds()
		out = append(out, Outline{Kind: "scripted_prop", Name: p.Name, Min: min, Max: max, Active: !p.consumed})
	}
	return out
}
