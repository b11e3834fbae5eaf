package locomotion

import (
	"errors"
	"log"

	"github.com/milk9111/parkour/common"
	"github.com/milk9111/parkour/schedule"
)

var (
	ErrNilBody      = errors.New("locomotion: body is required")
	ErrNilTransform = errors.New("locomotion: transform is required")
	ErrNilProbe     = errors.New("locomotion: probe is required")
	ErrNilStamina   = errors.New("locomotion: stamina source is required")
	ErrNilScheduler = errors.New("locomotion: scheduler is required")
)

const (
	keySprintDrain schedule.Key = "locomotion/sprint_drain"
	keyFootstep    schedule.Key = "locomotion/footstep"
)

type climbRequest int

const (
	climbNone climbRequest = iota
	climbEngage
	climbDisengage
)

// Deps are the collaborators a Controller drives or reads. Body, Transform,
// Probe, Stamina and Scheduler are required.
type Deps struct {
	Body      Body
	Transform *common.Transform
	Probe     Prober
	Stamina   Stamina
	Scheduler *schedule.Scheduler

	Animator  Animator
	Footsteps FootstepPlayer
	Prompter  ClimbPrompter
}

// State is a read-only snapshot of the controller.
type State struct {
	Mode         Mode
	Cosmetic     Cosmetic
	Velocity     common.Vec3
	CurrentSpeed float64
	BaseSpeed    float64
	JumpCount    int
	SprintHeld   bool
	CrouchHeld   bool
	Grounded     bool
	OnJumpPad    bool
	WallNormal   common.Vec3
}

// Controller is the player's movement state machine.
type Controller struct {
	cfg Config

	body      Body
	transform *common.Transform
	probe     Prober
	stamina   Stamina
	sched     *schedule.Scheduler
	anim      Animator
	footsteps FootstepPlayer
	prompter  ClimbPrompter

	state state

	velocity       common.Vec3
	launchPlanar   common.Vec3
	currentSpeed   float64
	baseSpeed      float64
	preLaunchSpeed float64
	jumpCount      int

	moveInput     common.Vec2
	jumpRequested bool
	climbReq      climbRequest

	sprintHeld bool
	crouchHeld bool
	onJumpPad  bool

	grounded     bool
	groundedAnim bool
	climbPrompt  bool
	wallNormal   common.Vec3
	cosmetic     Cosmetic
}

func New(cfg Config, deps Deps) (*Controller, error) {
	switch {
	case deps.Body == nil:
		return nil, ErrNilBody
	case deps.Transform == nil:
		return nil, ErrNilTransform
	case deps.Probe == nil:
		return nil, ErrNilProbe
	case deps.Stamina == nil:
		return nil, ErrNilStamina
	case deps.Scheduler == nil:
		return nil, ErrNilScheduler
	}

	c := &Controller{
		cfg:       cfg.withDefaults(),
		body:      deps.Body,
		transform: deps.Transform,
		probe:     deps.Probe,
		stamina:   deps.Stamina,
		sched:     deps.Scheduler,
		anim:      deps.Animator,
		footsteps: deps.Footsteps,
		prompter:  deps.Prompter,
	}
	if c.anim == nil {
		c.anim = nopAnimator{}
	}
	if c.footsteps == nil {
		c.footsteps = nopFootsteps{}
	}
	if c.prompter == nil {
		c.prompter = nopPrompter{}
	}
	c.baseSpeed = c.cfg.Speed
	c.currentSpeed = c.baseSpeed
	c.transform.Position = c.body.Position()
	if c.transform.ScaleY == 0 {
		c.transform.ScaleY = 1
	}

	c.state = stateAirborne
	if c.probe.IsGrounded(*c.transform) {
		c.grounded = true
		c.state = stateGrounded
	}
	c.state.Enter(c)
	return c, nil
}

// Reconfigure swaps tuning in place. A launch in flight keeps its base
// speed and restores the new one on landing.
func (c *Controller) Reconfigure(cfg Config) {
	c.cfg = cfg.withDefaults()
	if c.state == stateLaunching {
		c.preLaunchSpeed = c.cfg.Speed
		return
	}
	c.baseSpeed = c.cfg.Speed
}

func (c *Controller) Config() Config { return c.cfg }

func (c *Controller) Mode() Mode { return c.state.Mode() }

func (c *Controller) IsClimbing() bool { return c.state == stateClimbing }

func (c *Controller) Cosmetic() Cosmetic { return c.cosmetic }

func (c *Controller) State() State {
	return State{
		Mode:         c.state.Mode(),
		Cosmetic:     c.cosmetic,
		Velocity:     c.velocity,
		CurrentSpeed: c.currentSpeed,
		BaseSpeed:    c.baseSpeed,
		JumpCount:    c.jumpCount,
		SprintHeld:   c.sprintHeld,
		CrouchHeld:   c.crouchHeld,
		Grounded:     c.grounded,
		OnJumpPad:    c.onJumpPad,
		WallNormal:   c.wallNormal,
	}
}

// Move sets the planar movement input. Releasing movement while sprinting
// disengages sprint.
func (c *Controller) Move(dir common.Vec2) {
	if dir.Len() > 1 {
		l := dir.Len()
		dir = common.Vec2{X: dir.X / l, Y: dir.Y / l}
	}
	c.moveInput = dir
	if dir.IsZero() && c.sprintHeld {
		c.setSprint(false)
	}
}

// Jump requests a jump on the next fixed tick. Requests are not buffered
// past that tick.
func (c *Controller) Jump() {
	c.jumpRequested = true
	if c.crouchHeld {
		c.setCrouch(false)
	}
}

func (c *Controller) ToggleSprint() {
	if !c.sprintHeld && c.crouchHeld {
		c.setCrouch(false)
	}
	c.setSprint(!c.sprintHeld)
}

// ToggleCrouch is ignored while not grounded.
func (c *Controller) ToggleCrouch() {
	if !c.grounded || c.state != stateGrounded {
		return
	}
	if !c.crouchHeld && c.sprintHeld {
		c.setSprint(false)
	}
	c.setCrouch(!c.crouchHeld)
}

// ToggleClimbEngage requests engaging a climbable wall, or letting go of
// the current one.
func (c *Controller) ToggleClimbEngage() {
	if c.state == stateClimbing {
		c.climbReq = climbDisengage
		return
	}
	c.climbReq = climbEngage
}

// EnterJumpPad hands vertical velocity to the pad once per entry.
func (c *Controller) EnterJumpPad(force float64) {
	if c.onJumpPad {
		return
	}
	c.onJumpPad = true
	c.velocity.Y = force
}

func (c *Controller) ExitJumpPad() {
	c.onJumpPad = false
}

// EnterLaunch starts a ballistic flight with the given impulse. baseSpeed
// replaces the steering speed until the next landing.
func (c *Controller) EnterLaunch(impulse common.Vec3, baseSpeed float64) {
	if c.state != stateLaunching {
		c.preLaunchSpeed = c.baseSpeed
	}
	c.baseSpeed = baseSpeed
	c.currentSpeed = baseSpeed
	c.velocity = impulse
	c.launchPlanar = impulse.Horizontal()
	c.jumpRequested = false
	c.onJumpPad = false
	c.changeState(stateLaunching)
	c.body.SetVelocity(c.velocity)
}

// ApplyPlatformDelta carries the player along with a moving platform.
func (c *Controller) ApplyPlatformDelta(delta common.Vec3) {
	if delta.IsZero() {
		return
	}
	p := c.body.Position().Add(delta)
	c.body.SetPosition(p)
	c.transform.Position = p
}

// FixedUpdate runs one physics-phase tick.
func (c *Controller) FixedUpdate(dt float64) {
	if dt <= 0 {
		return
	}
	c.transform.Position = c.body.Position()

	c.state.HandleInput(c)
	c.state.Update(c, dt)
	c.jumpRequested = false

	c.body.SetVelocity(c.velocity)
	c.publishAnimation()
}

// LateUpdate eases the crouch body scale.
func (c *Controller) LateUpdate(dt float64) {
	if dt <= 0 {
		return
	}
	target := 1.0
	if c.crouchHeld {
		target = c.cfg.CrouchScale
	}
	c.transform.ScaleY = common.Approach(c.transform.ScaleY, target, c.cfg.ScaleApproachRate, dt, 1e-3)
}

func (c *Controller) changeState(next state) {
	if next == c.state {
		return
	}
	prev := c.state
	prev.Exit(c)
	c.state = next
	next.Enter(c)
	if c.cfg.Debug {
		log.Printf("locomotion: %s -> %s", prev.Mode(), next.Mode())
	}
}

func (c *Controller) takeClimbRequest() climbRequest {
	r := c.climbReq
	c.climbReq = climbNone
	return r
}

func (c *Controller) tryEngageClimb() {
	if c.takeClimbRequest() != climbEngage {
		return
	}
	n, ok := c.probe.FindClimbableWall(*c.transform)
	if !ok {
		return
	}
	c.wallNormal = n
	c.changeState(stateClimbing)
}

func (c *Controller) setSprint(on bool) {
	if on == c.sprintHeld {
		return
	}
	c.sprintHeld = on
	if !on {
		c.sched.Cancel(keySprintDrain)
		return
	}
	c.drainSprint()
}

// drainSprint consumes one drain step and reschedules itself. The first
// failed step turns sprint off.
func (c *Controller) drainSprint() {
	if !c.sprintHeld {
		return
	}
	if !c.stamina.TryConsumeStamina(c.cfg.SprintDrainAmount) {
		if c.cfg.Debug {
			log.Printf("locomotion: sprint cancelled, out of stamina")
		}
		c.setSprint(false)
		return
	}
	c.sched.Schedule(keySprintDrain, c.cfg.SprintDrainInterval, c.drainSprint)
}

func (c *Controller) setCrouch(on bool) {
	if on == c.crouchHeld {
		return
	}
	c.crouchHeld = on
	c.anim.SetCrouch(on)
}

func (c *Controller) setGroundedAnim(grounded bool) {
	if grounded == c.groundedAnim {
		return
	}
	c.groundedAnim = grounded
	c.anim.SetGrounded(grounded)
}

func (c *Controller) setClimbPrompt(visible bool) {
	if visible == c.climbPrompt {
		return
	}
	c.climbPrompt = visible
	c.prompter.SetClimbablePrompt(visible)
}

func (c *Controller) publishAnimation() {
	h := c.velocity.Horizontal().Len()
	c.anim.SetSpeed(common.Clamp01(h / c.cfg.SprintSpeed))
}
