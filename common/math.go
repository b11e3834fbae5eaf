package common

import "math"

// Gravity is the default downward acceleration in units/s^2.
const Gravity = -9.81

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func Clamp01(v float64) float64 {
	return Clamp(v, 0, 1)
}

// SmoothStep eases t in [0,1] with zero slope at both ends.
func SmoothStep(t float64) float64 {
	t = Clamp01(t)
	return t * t * (3 - 2*t)
}

// Approach moves cur toward target by an exponential step of the given rate.
// The step factor 1-exp(-rate*dt) stays in [0,1) for any non-negative rate and
// dt, so the result never overshoots. Values within epsilon snap to target.
func Approach(cur, target, rate, dt, epsilon float64) float64 {
	if rate <= 0 || dt <= 0 {
		return cur
	}
	next := cur + (target-cur)*(1-math.Exp(-rate*dt))
	if math.Abs(target-next) <= epsilon {
		return target
	}
	return next
}

// NearlyEqual reports whether a and b differ by at most eps.
func NearlyEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func DegToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

func RadToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}
