package camera

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/milk9111/parkour/common"
	"github.com/milk9111/parkour/schedule"
)

var (
	ErrNilTransform  = errors.New("camera: transform is required")
	ErrNilClimbState = errors.New("camera: climb state is required")
	ErrNilScheduler  = errors.New("camera: scheduler is required")
)

const keySettle schedule.Key = "camera/settle"

type Perspective int

const (
	FirstPerson Perspective = iota
	ThirdPerson
)

func (p Perspective) String() string {
	if p == ThirdPerson {
		return "third_person"
	}
	return "first_person"
}

// ParsePerspective reads a perspective name. Empty means first person.
func ParsePerspective(name string) (Perspective, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "first_person", "first":
		return FirstPerson, nil
	case "third_person", "third":
		return ThirdPerson, nil
	}
	return FirstPerson, fmt.Errorf("camera: unknown perspective %q", name)
}

func (p Perspective) other() Perspective {
	if p == FirstPerson {
		return ThirdPerson
	}
	return FirstPerson
}

// Renderer owns the two virtual cameras and the body mesh visibility.
type Renderer interface {
	SetCameraPriority(p Perspective, priority int)
	SetBodyVisible(visible bool)
}

// ClimbState reports whether the body is currently on a wall.
type ClimbState interface {
	IsClimbing() bool
}

type Config struct {
	Sensitivity      float64 // degrees per unit of look delta
	MinPitch         float64
	MaxPitch         float64
	SettleDelay      float64
	ActivePriority   int
	InactivePriority int
	Start            Perspective
	EyeHeight        float64
	FollowDistance   float64
}

func DefaultConfig() Config {
	return Config{
		Sensitivity:      0.15,
		MinPitch:         -80,
		MaxPitch:         80,
		SettleDelay:      0.5,
		ActivePriority:   10,
		InactivePriority: 0,
		Start:            FirstPerson,
		EyeHeight:        1.6,
		FollowDistance:   3,
	}
}

type State struct {
	Pitch       float64
	Yaw         float64
	ClimbYaw    float64
	Perspective Perspective
	Pending     bool
	BodyVisible bool
}

// Rig turns look input into pitch/yaw and drives perspective switches.
// Outside climbing, yaw turns the body; while climbing the body is locked to
// the wall and yaw accumulates on the pivot instead.
type Rig struct {
	cfg       Config
	transform *common.Transform
	climb     ClimbState
	renderer  Renderer
	sched     *schedule.Scheduler

	look        common.Vec2
	pitch       float64
	climbYaw    float64
	wasClimbing bool

	perspective Perspective
	bodyVisible bool
}

func New(cfg Config, transform *common.Transform, climb ClimbState, renderer Renderer, sched *schedule.Scheduler) (*Rig, error) {
	switch {
	case transform == nil:
		return nil, ErrNilTransform
	case climb == nil:
		return nil, ErrNilClimbState
	case sched == nil:
		return nil, ErrNilScheduler
	}
	if renderer == nil {
		renderer = nopRenderer{}
	}
	if cfg.MinPitch > cfg.MaxPitch {
		cfg.MinPitch, cfg.MaxPitch = cfg.MaxPitch, cfg.MinPitch
	}

	r := &Rig{
		cfg:         cfg,
		transform:   transform,
		climb:       climb,
		renderer:    renderer,
		sched:       sched,
		perspective: cfg.Start,
		bodyVisible: cfg.Start == ThirdPerson,
	}
	r.applyPriorities()
	r.renderer.SetBodyVisible(r.bodyVisible)
	return r, nil
}

// Reconfigure swaps tuning; perspective and angles are kept.
func (r *Rig) Reconfigure(cfg Config) {
	if cfg.MinPitch > cfg.MaxPitch {
		cfg.MinPitch, cfg.MaxPitch = cfg.MaxPitch, cfg.MinPitch
	}
	r.cfg = cfg
	r.pitch = common.Clamp(r.pitch, cfg.MinPitch, cfg.MaxPitch)
}

// Look accumulates a look delta until the next LateUpdate.
func (r *Rig) Look(delta common.Vec2) {
	r.look.X += delta.X
	r.look.Y += delta.Y
}

func (r *Rig) LateUpdate(dt float64) {
	climbing := r.climb.IsClimbing()
	if climbing != r.wasClimbing {
		r.climbYaw = 0
		r.wasClimbing = climbing
	}

	dx := r.look.X * r.cfg.Sensitivity
	dy := r.look.Y * r.cfg.Sensitivity
	r.look = common.Vec2{}

	r.pitch = common.Clamp(r.pitch-dy, r.cfg.MinPitch, r.cfg.MaxPitch)
	if climbing {
		r.climbYaw = common.NormalizeAngle(r.climbYaw + dx)
		return
	}
	r.climbYaw = 0
	r.transform.Yaw = common.NormalizeAngle(r.transform.Yaw + dx)
}

// TogglePerspective swaps camera priorities now and flips body visibility
// after the settle delay. A toggle during the delay replaces the pending
// flip.
func (r *Rig) TogglePerspective() {
	r.sched.Cancel(keySettle)
	r.perspective = r.perspective.other()
	r.applyPriorities()

	visible := r.perspective == ThirdPerson
	r.sched.Schedule(keySettle, r.cfg.SettleDelay, func() {
		r.setBodyVisible(visible)
	})
}

func (r *Rig) applyPriorities() {
	r.renderer.SetCameraPriority(r.perspective, r.cfg.ActivePriority)
	r.renderer.SetCameraPriority(r.perspective.other(), r.cfg.InactivePriority)
}

func (r *Rig) setBodyVisible(v bool) {
	if v == r.bodyVisible {
		return
	}
	r.bodyVisible = v
	r.renderer.SetBodyVisible(v)
}

func (r *Rig) Perspective() Perspective { return r.perspective }

func (r *Rig) ClimbYaw() float64 { return r.climbYaw }

func (r *Rig) Pitch() float64 { return r.pitch }

func (r *Rig) State() State {
	return State{
		Pitch:       r.pitch,
		Yaw:         r.transform.Yaw,
		ClimbYaw:    r.climbYaw,
		Perspective: r.perspective,
		Pending:     r.sched.Pending(keySettle),
		BodyVisible: r.bodyVisible,
	}
}

// ViewDirection is the unit vector the active camera looks along.
func (r *Rig) ViewDirection() common.Vec3 {
	yaw := common.DegToRad(r.transform.Yaw + r.climbYaw)
	pitch := common.DegToRad(r.pitch)
	return common.Vec3{
		X: math.Cos(pitch) * math.Sin(yaw),
		Y: math.Sin(pitch),
		Z: math.Cos(pitch) * math.Cos(yaw),
	}
}

// Eye is the pivot position, scaled with the body so crouching lowers it.
func (r *Rig) Eye() common.Vec3 {
	scale := r.transform.ScaleY
	if scale == 0 {
		scale = 1
	}
	return r.transform.Position.Add(common.Up.Scale(r.cfg.EyeHeight * scale))
}

// ViewRay returns the origin and direction through the screen center.
func (r *Rig) ViewRay() (common.Vec3, common.Vec3) {
	dir := r.ViewDirection()
	origin := r.Eye()
	if r.perspective == ThirdPerson {
		origin = origin.Sub(dir.Scale(r.cfg.FollowDistance))
	}
	return origin, dir
}

type nopRenderer struct{}

func (nopRenderer) SetCameraPriority(Perspective, int) {}
func (nopRenderer) SetBodyVisible(bool)                {}
