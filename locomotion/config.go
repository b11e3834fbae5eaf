package locomotion

import "github.com/milk9111/parkour/common"

// Config holds movement tuning. Speeds are units/s, times are seconds.
type Config struct {
	Speed             float64
	SprintSpeed       float64
	CrouchSpeed       float64
	SpeedApproachRate float64
	SpeedEpsilon      float64

	JumpForce       float64
	JumpStaminaCost float64
	Gravity         float64
	GroundedBias    float64

	SprintDrainAmount   float64
	SprintDrainInterval float64

	ClimbSpeed float64
	WallPush   float64

	WalkThreshold float64
	RunThreshold  float64

	CrouchScale       float64
	ScaleApproachRate float64

	FootstepMinSpeed       float64
	FootstepWalkInterval   float64
	FootstepRunInterval    float64
	FootstepCrouchInterval float64

	Debug bool
}

func DefaultConfig() Config {
	return Config{
		Speed:             5,
		SprintSpeed:       8,
		CrouchSpeed:       2.5,
		SpeedApproachRate: 6,
		SpeedEpsilon:      0.01,

		JumpForce:       7,
		JumpStaminaCost: 10,
		Gravity:         common.Gravity,
		GroundedBias:    -0.5,

		SprintDrainAmount:   2,
		SprintDrainInterval: 0.5,

		ClimbSpeed: 2.5,
		WallPush:   0.5,

		WalkThreshold: 0.1,
		RunThreshold:  6,

		CrouchScale:       0.6,
		ScaleApproachRate: 10,

		FootstepMinSpeed:       0.5,
		FootstepWalkInterval:   0.5,
		FootstepRunInterval:    0.3,
		FootstepCrouchInterval: 0.7,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Speed <= 0 {
		c.Speed = d.Speed
	}
	if c.SprintSpeed <= 0 {
		c.SprintSpeed = d.SprintSpeed
	}
	if c.CrouchSpeed <= 0 {
		c.CrouchSpeed = d.CrouchSpeed
	}
	if c.SpeedApproachRate <= 0 {
		c.SpeedApproachRate = d.SpeedApproachRate
	}
	if c.SpeedEpsilon <= 0 {
		c.SpeedEpsilon = d.SpeedEpsilon
	}
	if c.Gravity == 0 {
		c.Gravity = d.Gravity
	}
	if c.SprintDrainInterval <= 0 {
		c.SprintDrainInterval = d.SprintDrainInterval
	}
	if c.ClimbSpeed <= 0 {
		c.ClimbSpeed = d.ClimbSpeed
	}
	if c.RunThreshold <= 0 {
		c.RunThreshold = d.RunThreshold
	}
	if c.CrouchScale <= 0 || c.CrouchScale > 1 {
		c.CrouchScale = d.CrouchScale
	}
	if c.ScaleApproachRate <= 0 {
		c.ScaleApproachRate = d.ScaleApproachRate
	}
	if c.FootstepWalkInterval <= 0 {
		c.FootstepWalkInterval = d.FootstepWalkInterval
	}
	if c.FootstepRunInterval <= 0 {
		c.FootstepRunInterval = d.FootstepRunInterval
	}
	if c.FootstepCrouchInterval <= 0 {
		c.FootstepCrouchInterval = d.FootstepCrouchInterval
	}
	return c
}
