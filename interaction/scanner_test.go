package interaction

import (
	"testing"

	"github.com/milk9111/parkour/common"
)

type fakeWorld struct {
	hit   *common.RayHit
	casts int
	mask  common.Layer
	dist  float64
}

func (w *fakeWorld) Raycast(origin, dir common.Vec3, maxDist float64, mask common.Layer) (common.RayHit, bool) {
	w.casts++
	w.mask = mask
	w.dist = maxDist
	if w.hit == nil {
		return common.RayHit{}, false
	}
	return *w.hit, true
}

func (w *fakeWorld) aim(collider any) {
	if collider == nil {
		w.hit = nil
		return
	}
	w.hit = &common.RayHit{Collider: collider, Distance: 2}
}

type fixedView struct{}

func (fixedView) ViewRay() (common.Vec3, common.Vec3) {
	return common.Vec3{Y: 1.6}, common.Vec3{Z: 1}
}

type recordingSink struct {
	prompts []string
	clears  int
}

func (r *recordingSink) SetPrompt(text string) { r.prompts = append(r.prompts, text) }
func (r *recordingSink) ClearPrompt()          { r.clears++ }

type fakeBox struct {
	prompt   string
	used     int
	checks   int
	consumed bool
	once     bool
}

func (b *fakeBox) Prompt() string { return b.prompt }
func (b *fakeBox) Consumed() bool {
	b.checks++
	return b.consumed
}

func (b *fakeBox) Interact() {
	b.used++
	if b.once {
		b.consumed = true
	}
}

type wall struct{ name string }

func newTestScanner(t *testing.T) (*Scanner, *fakeWorld, *recordingSink) {
	t.Helper()
	w := &fakeWorld{}
	sink := &recordingSink{}
	s, err := New(DefaultConfig(), w, fixedView{}, sink)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s, w, sink
}

func TestNewValidates(t *testing.T) {
	if _, err := New(DefaultConfig(), nil, fixedView{}, nil); err != ErrNilWorld {
		t.Fatalf("err = %v, want ErrNilWorld", err)
	}
	if _, err := New(DefaultConfig(), &fakeWorld{}, nil, nil); err != ErrNilViewpoint {
		t.Fatalf("err = %v, want ErrNilViewpoint", err)
	}
}

func TestUpdatePollsAtInterval(t *testing.T) {
	s, w, _ := newTestScanner(t)
	for i := 0; i < 10; i++ {
		s.Update(0.02)
	}
	if w.casts != 3 {
		t.Fatalf("casts = %d, want 3", w.casts)
	}
	if w.mask != common.LayerInteractable || w.dist != 8 {
		t.Fatalf("cast mask=%v dist=%v", w.mask, w.dist)
	}
}

func TestScanPublishesOnlyOnChange(t *testing.T) {
	s, w, sink := newTestScanner(t)
	box := &fakeBox{prompt: "Press 'E' to open!"}

	w.aim(box)
	s.Scan()
	s.Scan()
	s.Scan()
	if len(sink.prompts) != 1 || sink.prompts[0] != box.prompt {
		t.Fatalf("prompts = %q", sink.prompts)
	}
	if s.Target() != box {
		t.Fatalf("target not cached")
	}

	w.aim(nil)
	s.Scan()
	s.Scan()
	if sink.clears != 1 {
		t.Fatalf("clears = %d, want 1", sink.clears)
	}
	if s.Target() != nil || s.Prompt() != "" {
		t.Fatalf("target survived losing the hit")
	}
}

func TestScanIgnoresNonInteractables(t *testing.T) {
	tests := []struct {
		name     string
		collider any
	}{
		{"plain_collider", &wall{name: "crate"}},
		{"consumed_box", &fakeBox{prompt: "open", consumed: true}},
		{"value_collider", wall{name: "post"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, w, sink := newTestScanner(t)
			box := &fakeBox{prompt: "open"}
			w.aim(box)
			s.Scan()

			w.aim(tt.collider)
			s.Scan()
			if s.Target() != nil {
				t.Fatalf("target = %v, want none", s.Target())
			}
			if sink.clears != 1 {
				t.Fatalf("clears = %d, want 1", sink.clears)
			}
		})
	}
}

func TestUnusableHitIsRememberedAcrossPolls(t *testing.T) {
	s, w, sink := newTestScanner(t)

	crate := &wall{name: "crate"}
	w.aim(crate)
	s.Scan()
	s.Scan()
	if s.collider != crate || s.Target() != nil {
		t.Fatalf("collider=%v target=%v, want the crate kept with no target", s.collider, s.Target())
	}

	spent := &fakeBox{prompt: "open", consumed: true}
	w.aim(spent)
	for i := 0; i < 5; i++ {
		s.Scan()
	}
	if spent.checks != 1 {
		t.Fatalf("consumed checks = %d, want 1 for an unchanged hit", spent.checks)
	}
	if len(sink.prompts) != 0 {
		t.Fatalf("prompts = %q, want none", sink.prompts)
	}

	// moving onto a usable collider still acquires it
	box := &fakeBox{prompt: "open"}
	w.aim(box)
	s.Scan()
	if s.Target() != box {
		t.Fatalf("target = %v, want the box", s.Target())
	}
}

func TestInteractClearsAndReacquires(t *testing.T) {
	s, w, sink := newTestScanner(t)
	cannon := &fakeBox{prompt: "Press 'E' to use the cannon!"}
	w.aim(cannon)
	s.Scan()

	if !s.Interact() {
		t.Fatalf("Interact reported no target")
	}
	if cannon.used != 1 {
		t.Fatalf("used = %d", cannon.used)
	}
	if s.Target() != nil {
		t.Fatalf("target kept after interact")
	}

	s.Scan()
	if s.Target() != cannon {
		t.Fatalf("reusable target not re-acquired")
	}
	if len(sink.prompts) != 2 {
		t.Fatalf("prompts = %q, want republished", sink.prompts)
	}
}

func TestInteractConsumesOneShotTarget(t *testing.T) {
	s, w, _ := newTestScanner(t)
	box := &fakeBox{prompt: "open", once: true}
	w.aim(box)
	s.Scan()
	s.Interact()

	s.Scan()
	if s.Target() != nil {
		t.Fatalf("consumed box re-targeted")
	}
	if s.Interact() {
		t.Fatalf("Interact with no target reported success")
	}
	if box.used != 1 {
		t.Fatalf("used = %d, want 1", box.used)
	}
}

func TestCachedTargetDropsWhenConsumedElsewhere(t *testing.T) {
	s, w, sink := newTestScanner(t)
	box := &fakeBox{prompt: "open"}
	w.aim(box)
	s.Scan()

	box.consumed = true
	s.Scan()
	if s.Target() != nil || sink.clears != 1 {
		t.Fatalf("consumed target kept: target=%v clears=%d", s.Target(), sink.clears)
	}
}
