package locomotion

import "github.com/milk9111/parkour/common"

// state is one node of the locomotion state machine. Each state owns its
// enter/exit side effects, intent handling, and per-tick update.
type state interface {
	Mode() Mode
	Enter(c *Controller)
	Exit(c *Controller)
	HandleInput(c *Controller)
	Update(c *Controller, dt float64)
}

// State singletons (avoid allocations on transitions).
var (
	stateGrounded  state = &groundedState{}
	stateAirborne  state = &airborneState{}
	stateClimbing  state = &climbingState{}
	stateLaunching state = &launchingState{}
)

type groundedState struct{}

type airborneState struct{}

type climbingState struct{}

type launchingState struct{}

func (groundedState) Mode() Mode { return ModeGrounded }
func (groundedState) Enter(c *Controller) {
	c.setGroundedAnim(true)
}
func (groundedState) Exit(c *Controller) {}
func (groundedState) HandleInput(c *Controller) {
	c.tryEngageClimb()
}
func (groundedState) Update(c *Controller, dt float64) {
	c.updateOnFoot(dt)
}

func (airborneState) Mode() Mode { return ModeAirborne }
func (airborneState) Enter(c *Controller) {
	c.setGroundedAnim(false)
}
func (airborneState) Exit(c *Controller) {}
func (airborneState) HandleInput(c *Controller) {
	c.tryEngageClimb()
}
func (airborneState) Update(c *Controller, dt float64) {
	c.updateOnFoot(dt)
}

func (climbingState) Mode() Mode { return ModeClimbing }
func (climbingState) Enter(c *Controller) {
	c.velocity = common.Vec3{}
	c.lockFacingToWall()
	if c.crouchHeld {
		c.setCrouch(false)
	}
	c.setGroundedAnim(false)
	c.anim.SetClimbing(true)
	c.setClimbPrompt(false)
}
func (climbingState) Exit(c *Controller) {
	c.anim.SetClimbing(false)
}
func (climbingState) HandleInput(c *Controller) {
	if c.takeClimbRequest() == climbDisengage {
		c.leaveClimb()
	}
}
func (climbingState) Update(c *Controller, dt float64) {
	c.updateClimbing(dt)
}

func (launchingState) Mode() Mode { return ModeLaunching }
func (launchingState) Enter(c *Controller) {
	c.setGroundedAnim(false)
	c.setClimbPrompt(false)
}
func (launchingState) Exit(c *Controller) {
	c.restoreLaunchSpeed()
}
func (launchingState) HandleInput(c *Controller) {
	// climbing and jumping are unavailable mid-flight
	c.takeClimbRequest()
	c.jumpRequested = false
}
func (launchingState) Update(c *Controller, dt float64) {
	c.updateLaunching(dt)
}
