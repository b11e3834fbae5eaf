package locomotion

import "github.com/milk9111/parkour/common"

func (c *Controller) updateOnFoot(dt float64) {
	c.grounded = c.probe.IsGrounded(*c.transform)
	if c.grounded {
		c.changeState(stateGrounded)
	} else {
		c.changeState(stateAirborne)
		if c.crouchHeld {
			c.setCrouch(false)
		}
	}

	_, wall := c.probe.FindClimbableWall(*c.transform)
	c.setClimbPrompt(wall)

	planar := c.planarVelocity(dt)
	c.velocity.X, c.velocity.Z = planar.X, planar.Z

	switch {
	case !c.grounded:
		c.velocity.Y += c.cfg.Gravity * c.body.Mass() * dt
	case !c.onJumpPad:
		c.velocity.Y = c.cfg.GroundedBias
		c.jumpCount = 0
	}

	c.resolveJump()
	c.updateCosmetic()
	c.updateFootsteps()
}

// resolveJump gates on eligibility, then stamina, and only then commits
// the impulse.
func (c *Controller) resolveJump() {
	if !c.jumpRequested {
		return
	}
	c.jumpRequested = false

	eligible := c.grounded || (c.stamina.IsDoubleJumpEnabled() && c.jumpCount < 2)
	if !eligible {
		return
	}
	if !c.stamina.TryConsumeStamina(c.cfg.JumpStaminaCost) {
		return
	}

	if c.grounded && c.velocity.Y < 0 {
		c.velocity.Y = 0
	}
	c.velocity.Y += c.cfg.JumpForce
	c.jumpCount++
	c.anim.TriggerJump()
}

func (c *Controller) targetSpeed() float64 {
	switch {
	case c.sprintHeld:
		return c.cfg.SprintSpeed
	case c.crouchHeld:
		return c.cfg.CrouchSpeed
	default:
		return c.baseSpeed
	}
}

func (c *Controller) planarVelocity(dt float64) common.Vec3 {
	if c.moveInput.IsZero() {
		c.currentSpeed = c.baseSpeed
		return common.Vec3{}
	}
	c.currentSpeed = common.Approach(c.currentSpeed, c.targetSpeed(), c.cfg.SpeedApproachRate, dt, c.cfg.SpeedEpsilon)
	return c.inputDirection().Scale(c.currentSpeed)
}

func (c *Controller) inputDirection() common.Vec3 {
	fwd := c.transform.Forward().Scale(c.moveInput.Y)
	right := c.transform.Right().Scale(c.moveInput.X)
	return fwd.Add(right).Normalize()
}

func (c *Controller) updateCosmetic() {
	h := c.velocity.Horizontal().Len()
	switch {
	case c.crouchHeld:
		c.cosmetic = CosmeticCrouch
	case h < c.cfg.WalkThreshold:
		c.cosmetic = CosmeticIdle
	case h < c.cfg.RunThreshold:
		c.cosmetic = CosmeticWalk
	default:
		c.cosmetic = CosmeticRun
	}
}

func (c *Controller) updateFootsteps() {
	if !c.grounded || c.sched.Pending(keyFootstep) {
		return
	}
	if c.velocity.Horizontal().Len() <= c.cfg.FootstepMinSpeed {
		return
	}
	c.footsteps.PlayFootstep()
	c.sched.Schedule(keyFootstep, c.footstepInterval(), func() {})
}

func (c *Controller) footstepInterval() float64 {
	switch c.cosmetic {
	case CosmeticRun:
		return c.cfg.FootstepRunInterval
	case CosmeticCrouch:
		return c.cfg.FootstepCrouchInterval
	default:
		return c.cfg.FootstepWalkInterval
	}
}

// wallFacing is the horizontal direction into the current wall.
func (c *Controller) wallFacing() common.Vec3 {
	f := c.wallNormal.Neg().Horizontal().Normalize()
	if f.IsZero() {
		return c.transform.Forward()
	}
	return f
}

func (c *Controller) lockFacingToWall() {
	c.transform.Yaw = common.YawFacing(c.wallFacing())
}

func (c *Controller) updateClimbing(dt float64) {
	n, ok := c.probe.FindClimbableWall(*c.transform)
	if !ok {
		c.leaveClimb()
		c.updateOnFoot(dt)
		return
	}
	c.wallNormal = n
	c.lockFacingToWall()
	c.jumpRequested = false

	facing := c.wallFacing()
	right := common.Up.Cross(facing)
	climb := right.Scale(c.moveInput.X).Add(common.Up.Scale(c.moveInput.Y)).Normalize().Scale(c.cfg.ClimbSpeed)
	c.velocity = climb.Add(facing.Scale(c.cfg.WallPush))

	c.cosmetic = CosmeticIdle
	if !climb.IsZero() {
		c.cosmetic = CosmeticWalk
	}
}

// leaveClimb drops back to on-foot movement without carrying climb
// velocity into the fall.
func (c *Controller) leaveClimb() {
	c.velocity = common.Vec3{}
	if c.probe.IsGrounded(*c.transform) {
		c.grounded = true
		c.changeState(stateGrounded)
		return
	}
	c.grounded = false
	c.changeState(stateAirborne)
}

func (c *Controller) updateLaunching(dt float64) {
	c.velocity.Y += c.cfg.Gravity * c.body.Mass() * dt

	c.grounded = false
	if c.velocity.Y <= 0 && c.probe.IsGrounded(*c.transform) {
		c.grounded = true
		c.changeState(stateGrounded)
		c.updateOnFoot(dt)
		return
	}

	steer := common.Vec3{}
	if !c.moveInput.IsZero() {
		steer = c.inputDirection().Scale(c.baseSpeed)
	}
	c.velocity.X = c.launchPlanar.X + steer.X
	c.velocity.Z = c.launchPlanar.Z + steer.Z

	h := c.velocity.Horizontal().Len()
	c.cosmetic = CosmeticRun
	if h < c.cfg.WalkThreshold {
		c.cosmetic = CosmeticIdle
	}
}

func (c *Controller) restoreLaunchSpeed() {
	c.baseSpeed = c.preLaunchSpeed
	if c.baseSpeed <= 0 {
		c.baseSpeed = c.cfg.Speed
	}
	c.currentSpeed = c.baseSpeed
	c.launchPlanar = common.Vec3{}
	c.jumpCount = 0
}
