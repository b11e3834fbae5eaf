package player

import (
	"errors"
	"fmt"
	"log"
	"math/rand"

	"github.com/milk9111/parkour/camera"
	"github.com/milk9111/parkour/common"
	"github.com/milk9111/parkour/condition"
	"github.com/milk9111/parkour/interaction"
	"github.com/milk9111/parkour/levels"
	"github.com/milk9111/parkour/locomotion"
	"github.com/milk9111/parkour/physics"
	"github.com/milk9111/parkour/prefabs"
	"github.com/milk9111/parkour/probe"
	"github.com/milk9111/parkour/props"
	"github.com/milk9111/parkour/schedule"
)

var ErrNilWorld = errors.New("player: world is required")

// Env is the scene the player is spawned into.
type Env struct {
	World *physics.World
	Spawn common.Vec3
	// Level, when set, supplies the props to build.
	Level *levels.Level
	Items *prefabs.ItemTable
	Rand  *rand.Rand
}

// Collaborators are the presentation hooks. All are optional.
type Collaborators struct {
	Animator  locomotion.Animator
	Footsteps locomotion.FootstepPlayer
	Prompter  locomotion.ClimbPrompter
	Renderer  camera.Renderer
	Prompts   interaction.PromptSink
	Observers []condition.Observer
}

// Player owns every component of the controllable character and drives
// them in a fixed physics phase and a late phase.
type Player struct {
	cfg       Config
	world     *physics.World
	sched     *schedule.Scheduler
	body      *physics.PlayerBody
	transform *common.Transform
	condition *condition.System
	probe     *probe.Probe
	motor     *locomotion.Controller
	camera    *camera.Rig
	scanner   *interaction.Scanner
	props     *props.Set
}

// Snapshot is a read-only view of one tick, for tracing and HUDs.
type Snapshot struct {
	Position    common.Vec3
	Yaw         float64
	ScaleY      float64
	Locomotion  locomotion.State
	Condition   condition.State
	Camera      camera.State
	Prompt      string
	Interacting bool
}

func New(cfg Config, env Env, c Collaborators) (*Player, error) {
	if env.World == nil {
		return nil, ErrNilWorld
	}
	cfg.Camera.EyeHeight = cfg.eyeHeight()

	p := &Player{
		cfg:   cfg,
		world: env.World,
		sched: schedule.NewScheduler(),
	}

	var err error
	p.condition, err = condition.New(cfg.Condition, p.sched)
	if err != nil {
		return nil, err
	}
	for _, o := range c.Observers {
		p.condition.Subscribe(o)
	}

	p.body, err = env.World.NewPlayerBody(env.Spawn, cfg.Body.Width, cfg.Body.Height, cfg.Body.Mass)
	if err != nil {
		return nil, err
	}
	p.transform = common.NewTransform(env.Spawn)
	p.probe = probe.New(env.World, cfg.Ground, cfg.Wall)

	cfg.Locomotion.Debug = cfg.Locomotion.Debug || cfg.Debug
	p.motor, err = locomotion.New(cfg.Locomotion, locomotion.Deps{
		Body:      p.body,
		Transform: p.transform,
		Probe:     p.probe,
		Stamina:   p.condition,
		Scheduler: p.sched,
		Animator:  c.Animator,
		Footsteps: c.Footsteps,
		Prompter:  c.Prompter,
	})
	if err != nil {
		return nil, err
	}

	p.camera, err = camera.New(cfg.Camera, p.transform, p.motor, c.Renderer, p.sched)
	if err != nil {
		return nil, err
	}
	p.scanner, err = interaction.New(cfg.Interaction, env.World, p.camera, c.Prompts)
	if err != nil {
		return nil, err
	}

	p.props, err = props.Build(env.Level, props.Deps{
		World:     env.World,
		Condition: p.condition,
		Rider:     p.motor,
		Player:    p.body,
		Scheduler: p.sched,
		Items:     env.Items,
		Rand:      env.Rand,
		Debug:     cfg.Debug,
	})
	if err != nil {
		return nil, fmt.Errorf("player: %w", err)
	}
	return p, nil
}

// Reconfigure applies new tuning to every component.
func (p *Player) Reconfigure(cfg Config) {
	cfg.Camera.EyeHeight = cfg.eyeHeight()
	cfg.Locomotion.Debug = cfg.Locomotion.Debug || cfg.Debug
	p.cfg = cfg
	p.condition.Reconfigure(cfg.Condition)
	p.probe.SetStrategies(cfg.Ground, cfg.Wall)
	p.motor.Reconfigure(cfg.Locomotion)
	p.camera.Reconfigure(cfg.Camera)
	p.scanner.Reconfigure(cfg.Interaction)
	log.Printf("player: tuning reloaded")
}

// GrantAllAbilities turns on every timed ability for duration seconds.
func (p *Player) GrantAllAbilities(duration float64) error {
	return p.condition.ApplyConsumable([]condition.Effect{
		{Kind: condition.EffectInvincible, Duration: duration},
		{Kind: condition.EffectDoubleJump, Duration: duration},
		{Kind: condition.EffectInfiniteStamina, Duration: duration},
	})
}

func (p *Player) Move(dir common.Vec2)   { p.motor.Move(dir) }
func (p *Player) Look(delta common.Vec2) { p.camera.Look(delta) }
func (p *Player) Jump()                  { p.motor.Jump() }
func (p *Player) ToggleSprint()          { p.motor.ToggleSprint() }
func (p *Player) ToggleCrouch()          { p.motor.ToggleCrouch() }
func (p *Player) ToggleClimbEngage()     { p.motor.ToggleClimbEngage() }
func (p *Player) TogglePerspective()     { p.camera.TogglePerspective() }

// Interact uses whatever is under the crosshair.
func (p *Player) Interact() bool { return p.scanner.Interact() }

// FixedUpdate is the physics phase.
func (p *Player) FixedUpdate(dt float64) {
	if dt <= 0 {
		return
	}
	p.props.FixedUpdate(dt)
	p.motor.FixedUpdate(dt)
	p.world.Step(dt)
	p.transform.Position = p.body.Position()
}

// LateUpdate runs timers, regen, platform carry, body scale, camera and
// the interaction scan, in that order.
func (p *Player) LateUpdate(dt float64) {
	if dt <= 0 {
		return
	}
	p.sched.Advance(dt)
	p.condition.Update(dt)
	p.props.LateUpdate(dt)
	p.motor.LateUpdate(dt)
	p.camera.LateUpdate(dt)
	p.scanner.Update(dt)
}

// Tick runs one fixed and one late phase.
func (p *Player) Tick(dt float64) {
	p.FixedUpdate(dt)
	p.LateUpdate(dt)
}

func (p *Player) Snapshot() Snapshot {
	return Snapshot{
		Position:    p.transform.Position,
		Yaw:         p.transform.Yaw,
		ScaleY:      p.transform.ScaleY,
		Locomotion:  p.motor.State(),
		Condition:   p.condition.State(),
		Camera:      p.camera.State(),
		Prompt:      p.scanner.Prompt(),
		Interacting: p.scanner.Target() != nil,
	}
}

func (p *Player) Config() Config                     { return p.cfg }
func (p *Player) Transform() *common.Transform       { return p.transform }
func (p *Player) Body() *physics.PlayerBody          { return p.body }
func (p *Player) Condition() *condition.System       { return p.condition }
func (p *Player) Locomotion() *locomotion.Controller { return p.motor }
func (p *Player) Camera() *camera.Rig                { return p.camera }
func (p *Player) Scanner() *interaction.Scanner      { return p.scanner }
func (p *Player) Props() *props.Set                  { return p.props }
func (p *Player) Scheduler() *schedule.Scheduler     { return p.sched }
