package locomotion

import "github.com/milk9111/parkour/common"

// Body is the physics body the controller drives.
type Body interface {
	Position() common.Vec3
	SetPosition(p common.Vec3)
	Velocity() common.Vec3
	SetVelocity(v common.Vec3)
	Mass() float64
}

// Prober answers ground and climbable-wall contact for a pose.
type Prober interface {
	IsGrounded(t common.Transform) bool
	FindClimbableWall(t common.Transform) (common.Vec3, bool)
}

// Stamina is the slice of the condition system that gates movement.
type Stamina interface {
	TryConsumeStamina(amount float64) bool
	IsDoubleJumpEnabled() bool
}

// Animator receives animation commands.
type Animator interface {
	SetSpeed(normalized float64)
	SetGrounded(grounded bool)
	SetClimbing(climbing bool)
	SetCrouch(crouch bool)
	TriggerJump()
}

// FootstepPlayer plays one footstep sound.
type FootstepPlayer interface {
	PlayFootstep()
}

// ClimbPrompter shows or hides the "climb available" hint.
type ClimbPrompter interface {
	SetClimbablePrompt(visible bool)
}

type nopAnimator struct{}

func (nopAnimator) SetSpeed(float64) {}
func (nopAnimator) SetGrounded(bool) {}
func (nopAnimator) SetClimbing(bool) {}
func (nopAnimator) SetCrouch(bool)   {}
func (nopAnimator) TriggerJump()     {}

type nopFootsteps struct{}

func (nopFootsteps) PlayFootstep() {}

type nopPrompter struct{}

func (nopPrompter) SetClimbablePrompt(bool) {}
