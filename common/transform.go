package common

import "math"

// Transform is the player body's pose. Yaw is in degrees around +Y, with
// yaw 0 facing +Z and positive yaw turning toward +X.
type Transform struct {
	Position Vec3
	Yaw      float64
	ScaleY   float64
}

func NewTransform(pos Vec3) *Transform {
	return &Transform{Position: pos, ScaleY: 1}
}

func (t Transform) Forward() Vec3 {
	r := DegToRad(t.Yaw)
	return Vec3{X: math.Sin(r), Z: math.Cos(r)}
}

func (t Transform) Right() Vec3 {
	r := DegToRad(t.Yaw)
	return Vec3{X: math.Cos(r), Z: -math.Sin(r)}
}

// YawFacing returns the yaw (degrees) that faces along dir on the
// horizontal plane.
func YawFacing(dir Vec3) float64 {
	return RadToDeg(math.Atan2(dir.X, dir.Z))
}

// NormalizeAngle wraps deg into (-180, 180].
func NormalizeAngle(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg > 180 {
		deg -= 360
	} else if deg <= -180 {
		deg += 360
	}
	return deg
}
