package interaction

import (
	"errors"
	"reflect"

	"github.com/milk9111/parkour/common"
)

var (
	ErrNilWorld     = errors.New("interaction: world is required")
	ErrNilViewpoint = errors.New("interaction: viewpoint is required")
)

// Interactable is anything the player can use from a distance.
type Interactable interface {
	Prompt() string
	Interact()
	// Consumed reports a terminal used-up state; consumed objects are
	// never targeted again.
	Consumed() bool
}

type Raycaster interface {
	Raycast(origin, dir common.Vec3, maxDist float64, mask common.Layer) (common.RayHit, bool)
}

// Viewpoint supplies the ray through the center of the view.
type Viewpoint interface {
	ViewRay() (origin, dir common.Vec3)
}

// PromptSink displays the current target's prompt.
type PromptSink interface {
	SetPrompt(text string)
	ClearPrompt()
}

type Config struct {
	CheckInterval float64
	MaxDistance   float64
	Mask          common.Layer
}

func DefaultConfig() Config {
	return Config{
		CheckInterval: 0.05,
		MaxDistance:   8,
		Mask:          common.LayerInteractable,
	}
}

// Scanner polls the view ray at a fixed interval and tracks the
// interactable under the crosshair. It only does work when the hit
// collider changes.
type Scanner struct {
	cfg   Config
	world Raycaster
	view  Viewpoint
	sink  PromptSink

	elapsed  float64
	collider any
	target   Interactable
	prompt   string
}

func New(cfg Config, world Raycaster, view Viewpoint, sink PromptSink) (*Scanner, error) {
	if world == nil {
		return nil, ErrNilWorld
	}
	if view == nil {
		return nil, ErrNilViewpoint
	}
	if sink == nil {
		sink = nopSink{}
	}
	if cfg.Mask == common.LayerNone {
		cfg.Mask = common.LayerInteractable
	}
	return &Scanner{cfg: cfg, world: world, view: view, sink: sink}, nil
}

func (s *Scanner) Reconfigure(cfg Config) {
	if cfg.Mask == common.LayerNone {
		cfg.Mask = common.LayerInteractable
	}
	s.cfg = cfg
}

// Update polls once CheckInterval has elapsed since the last poll.
func (s *Scanner) Update(dt float64) {
	s.elapsed += dt
	if s.elapsed < s.cfg.CheckInterval {
		return
	}
	s.elapsed = 0
	s.Scan()
}

// Scan polls immediately.
func (s *Scanner) Scan() {
	origin, dir := s.view.ViewRay()
	hit, ok := s.world.Raycast(origin, dir, s.cfg.MaxDistance, s.cfg.Mask)
	if !ok || hit.Collider == nil {
		s.collider = nil
		s.clearTarget()
		return
	}

	if sameCollider(hit.Collider, s.collider) {
		if s.target != nil && s.target.Consumed() {
			s.clearTarget()
		}
		return
	}

	// remember the collider even when it cannot be used, so the next
	// poll of the same hit is a no-op
	s.collider = hit.Collider
	it, ok := hit.Collider.(Interactable)
	if !ok || it.Consumed() {
		s.clearTarget()
		return
	}
	s.target = it
	s.publish(it.Prompt())
}

// Interact uses the current target and forgets it so the next poll
// re-acquires whatever is under the crosshair. It reports whether there
// was a target.
func (s *Scanner) Interact() bool {
	if s.target == nil {
		return false
	}
	t := s.target
	t.Interact()
	s.collider = nil
	s.clearTarget()
	return true
}

func (s *Scanner) Target() Interactable { return s.target }

func (s *Scanner) Prompt() string { return s.prompt }

func (s *Scanner) publish(text string) {
	if text == s.prompt {
		return
	}
	s.prompt = text
	s.sink.SetPrompt(text)
}

func (s *Scanner) clearTarget() {
	s.target = nil
	if s.prompt == "" {
		return
	}
	s.prompt = ""
	s.sink.ClearPrompt()
}

func sameCollider(a, b any) bool {
	if a == nil || b == nil {
		return a == b
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}

type nopSink struct{}

func (nopSink) SetPrompt(string) {}
func (nopSink) ClearPrompt()     {}
