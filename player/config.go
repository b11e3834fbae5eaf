package player

import (
	"errors"
	"fmt"

	"github.com/milk9111/parkour/camera"
	"github.com/milk9111/parkour/common"
	"github.com/milk9111/parkour/condition"
	"github.com/milk9111/parkour/interaction"
	"github.com/milk9111/parkour/locomotion"
	"github.com/milk9111/parkour/prefabs"
	"github.com/milk9111/parkour/probe"
)

var ErrUnknownGroundProbe = errors.New("player: unknown ground probe")

type BodyConfig struct {
	Width  float64
	Height float64
	Mass   float64
}

// Config gathers the tuning of every player component.
type Config struct {
	Body        BodyConfig
	Locomotion  locomotion.Config
	Condition   condition.Config
	Camera      camera.Config
	Interaction interaction.Config
	Ground      probe.GroundStrategy
	Wall        probe.WallStrategy
	Debug       bool
}

func DefaultConfig() Config {
	return Config{
		Body:        BodyConfig{Width: 0.5, Height: 1.8, Mass: 1},
		Locomotion:  locomotion.DefaultConfig(),
		Condition:   condition.DefaultConfig(),
		Camera:      camera.DefaultConfig(),
		Interaction: interaction.DefaultConfig(),
		Ground:      probe.DefaultFourRays(),
		Wall:        probe.DefaultMultiHeightRays(),
	}
}

// ConfigFromSpec maps the player prefab onto component configs. Zero
// fields keep their defaults.
func ConfigFromSpec(spec *prefabs.PlayerSpec) (Config, error) {
	cfg := DefaultConfig()
	if spec == nil {
		return cfg, nil
	}

	if spec.Body.Width > 0 {
		cfg.Body.Width = spec.Body.Width
	}
	if spec.Body.Height > 0 {
		cfg.Body.Height = spec.Body.Height
	}
	if spec.Body.Mass > 0 {
		cfg.Body.Mass = spec.Body.Mass
	}

	m := spec.Movement
	l := &cfg.Locomotion
	setPositive(&l.Speed, m.Speed)
	setPositive(&l.SprintSpeed, m.SprintSpeed)
	setPositive(&l.CrouchSpeed, m.CrouchSpeed)
	setPositive(&l.SpeedApproachRate, m.SpeedApproachRate)
	setPositive(&l.JumpForce, m.JumpForce)
	setPositive(&l.JumpStaminaCost, m.JumpStaminaCost)
	if m.Gravity != 0 {
		l.Gravity = m.Gravity
	}
	if m.GroundedBias != 0 {
		l.GroundedBias = m.GroundedBias
	}
	setPositive(&l.SprintDrainAmount, m.SprintDrain)
	setPositive(&l.SprintDrainInterval, m.SprintInterval)
	setPositive(&l.ClimbSpeed, m.ClimbSpeed)
	setPositive(&l.WallPush, m.WallPush)
	setPositive(&l.WalkThreshold, m.WalkThreshold)
	setPositive(&l.RunThreshold, m.RunThreshold)
	setPositive(&l.CrouchScale, m.CrouchScale)
	setPositive(&l.ScaleApproachRate, m.ScaleApproachRate)

	f := spec.Footsteps
	setPositive(&l.FootstepMinSpeed, f.MinSpeed)
	setPositive(&l.FootstepWalkInterval, f.WalkInterval)
	setPositive(&l.FootstepRunInterval, f.RunInterval)
	setPositive(&l.FootstepCrouchInterval, f.CrouchInterval)

	c := spec.Condition
	setPositive(&cfg.Condition.MaxHealth, c.MaxHealth)
	setPositive(&cfg.Condition.MaxStamina, c.MaxStamina)
	setPositive(&cfg.Condition.StaminaRegen, c.StaminaRegen)
	setPositive(&cfg.Condition.RegenDelay, c.RegenDelay)

	cam := spec.Camera
	setPositive(&cfg.Camera.Sensitivity, cam.Sensitivity)
	if cam.MinPitch != 0 || cam.MaxPitch != 0 {
		cfg.Camera.MinPitch = cam.MinPitch
		cfg.Camera.MaxPitch = cam.MaxPitch
	}
	setPositive(&cfg.Camera.SettleDelay, cam.SettleDelay)
	if cam.ActivePriority != 0 || cam.InactivePriority != 0 {
		cfg.Camera.ActivePriority = cam.ActivePriority
		cfg.Camera.InactivePriority = cam.InactivePriority
	}
	start, err := camera.ParsePerspective(cam.Start)
	if err != nil {
		return cfg, err
	}
	cfg.Camera.Start = start
	setPositive(&cfg.Camera.EyeHeight, cam.EyeHeight)
	setPositive(&cfg.Camera.FollowDistance, cam.FollowDistance)

	setPositive(&cfg.Interaction.CheckInterval, spec.Interaction.CheckInterval)
	setPositive(&cfg.Interaction.MaxDistance, spec.Interaction.MaxDistance)

	ground, err := groundStrategy(spec.Probe)
	if err != nil {
		return cfg, err
	}
	cfg.Ground = ground

	wall := probe.DefaultMultiHeightRays()
	if len(spec.Probe.WallHeights) > 0 {
		wall.Heights = append([]float64(nil), spec.Probe.WallHeights...)
	}
	setPositive(&wall.Range, spec.Probe.WallRange)
	cfg.Wall = wall

	return cfg, nil
}

func groundStrategy(p prefabs.ProbeSpec) (probe.GroundStrategy, error) {
	switch p.Ground {
	case "", "four_rays":
		g := probe.DefaultFourRays()
		setPositive(&g.Offset, p.RayOffset)
		setPositive(&g.Lift, p.RayLift)
		setPositive(&g.Length, p.RayLength)
		return g, nil
	case "contact_sphere":
		g := probe.DefaultContactSphere()
		setPositive(&g.Lift, p.RayLift)
		setPositive(&g.Radius, p.SphereRadius)
		return g, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownGroundProbe, p.Ground)
}

func setPositive(dst *float64, v float64) {
	if v > 0 {
		*dst = v
	}
}

// eyeHeight keeps the camera pivot inside the body.
func (c Config) eyeHeight() float64 {
	return common.Clamp(c.Camera.EyeHeight, 0, c.Body.Height)
}
