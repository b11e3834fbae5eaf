package condition

// Gauge is a clamped resource value such as health or stamina.
type Gauge struct {
	Current float64
	Max     float64
	Passive float64
}

// NewGauge creates a full gauge.
func NewGauge(max, passive float64) Gauge {
	if max <= 0 {
		max = 1
	}
	if passive < 0 {
		passive = 0
	}
	return Gauge{Current: max, Max: max, Passive: passive}
}

// Fraction returns Current/Max in [0,1].
func (g Gauge) Fraction() float64 {
	if g.Max <= 0 {
		return 0
	}
	return g.Current / g.Max
}

// Add raises the value, capped at Max. Amounts that are not positive,
// NaN included, are ignored.
func (g *Gauge) Add(amount float64) {
	if g == nil || !(amount > 0) {
		return
	}
	g.Current += amount
	if g.Current > g.Max {
		g.Current = g.Max
	}
}

// Subtract lowers the value, floored at zero. Amounts that are not
// positive are ignored.
func (g *Gauge) Subtract(amount float64) {
	if g == nil || !(amount > 0) {
		return
	}
	g.Current -= amount
	if g.Current < 0 {
		g.Current = 0
	}
}

func (g Gauge) Full() bool {
	return g.Current >= g.Max
}

func (g Gauge) Empty() bool {
	return g.Current <= 0
}
