package props

import (
	"errors"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/milk9111/parkour/common"
	"github.com/milk9111/parkour/condition"
	"github.com/milk9111/parkour/levels"
	"github.com/milk9111/parkour/physics"
	"github.com/milk9111/parkour/prefabs"
	"github.com/milk9111/parkour/schedule"
)

type fakeCondition struct {
	applied [][]condition.Effect
	damage  []float64
}

func (f *fakeCondition) ApplyConsumable(effects []condition.Effect) error {
	f.applied = append(f.applied, effects)
	return nil
}

func (f *fakeCondition) ApplyDamage(amount float64) { f.damage = append(f.damage, amount) }

type launch struct {
	impulse   common.Vec3
	baseSpeed float64
}

type fakeRider struct {
	padEnters []float64
	padExits  int
	launches  []launch
	deltas    []common.Vec3
}

func (f *fakeRider) EnterJumpPad(force float64) { f.padEnters = append(f.padEnters, force) }
func (f *fakeRider) ExitJumpPad()               { f.padExits++ }
func (f *fakeRider) EnterLaunch(impulse common.Vec3, baseSpeed float64) {
	f.launches = append(f.launches, launch{impulse, baseSpeed})
}
func (f *fakeRider) ApplyPlatformDelta(d common.Vec3) { f.deltas = append(f.deltas, d) }

type rig struct {
	world *physics.World
	body  *physics.PlayerBody
	cond  *fakeCondition
	rider *fakeRider
	sched *schedule.Scheduler
	set   *Set
	items *prefabs.ItemTable
}

func testItems() *prefabs.ItemTable {
	return &prefabs.ItemTable{Items: []prefabs.ItemSpec{
		{
			ID: "apple", Name: "Apple", Description: "Restores 30 health.",
			Effects: []prefabs.EffectSpec{{Kind: "health", Value: 30}},
		},
		{
			ID: "feather", Name: "Feather", Description: "Double jump.",
			Effects: []prefabs.EffectSpec{{Kind: "double_jump", Duration: 20}},
		},
	}}
}

func newRig(t *testing.T, feet common.Vec3) *rig {
	t.Helper()
	w := physics.NewWorld()
	body, err := w.NewPlayerBody(feet, 0.5, 1.8, 1)
	if err != nil {
		t.Fatalf("NewPlayerBody: %v", err)
	}
	r := &rig{
		world: w,
		body:  body,
		cond:  &fakeCondition{},
		rider: &fakeRider{},
		sched: schedule.NewScheduler(),
		items: testItems(),
	}
	r.set, err = NewSet(Deps{
		World:     w,
		Condition: r.cond,
		Rider:     r.rider,
		Player:    body,
		Scheduler: r.sched,
		Items:     r.items,
		Rand:      rand.New(rand.NewSource(1)),
	})
	if err != nil {
		t.Fatalf("NewSet: %v", err)
	}
	return r
}

func entity(typ, name string, pos common.Vec3, props map[string]any) levels.Entity {
	return levels.Entity{Type: typ, Name: name, X: pos.X, Y: pos.Y, Z: pos.Z, Props: props}
}

func arr(x, y, z float64) []interface{} { return []interface{}{x, y, z} }

func TestNewSetValidates(t *testing.T) {
	w := physics.NewWorld()
	full := Deps{
		World:     w,
		Condition: &fakeCondition{},
		Rider:     &fakeRider{},
		Player:    &physics.PlayerBody{},
		Scheduler: schedule.NewScheduler(),
	}
	tests := []struct {
		name string
		edit func(d *Deps)
		want error
	}{
		{"world", func(d *Deps) { d.World = nil }, ErrNilWorld},
		{"condition", func(d *Deps) { d.Condition = nil }, ErrNilCondition},
		{"rider", func(d *Deps) { d.Rider = nil }, ErrNilRider},
		{"player", func(d *Deps) { d.Player = nil }, ErrNilPlayer},
		{"scheduler", func(d *Deps) { d.Scheduler = nil }, ErrNilScheduler},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := full
			tt.edit(&d)
			if _, err := NewSet(d); !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestBuildEmbeddedLevel(t *testing.T) {
	lvl, err := levels.LoadLevelFromFS("yard")
	if err != nil {
		t.Fatalf("LoadLevelFromFS: %v", err)
	}
	items, err := prefabs.LoadItemTable()
	if err != nil {
		t.Fatalf("LoadItemTable: %v", err)
	}
	w := physics.NewWorld()
	body, err := w.NewPlayerBody(common.V3(3, 1, 0), 0.5, 1.8, 1)
	if err != nil {
		t.Fatalf("NewPlayerBody: %v", err)
	}
	set, err := Build(lvl, Deps{
		World:     w,
		Condition: &fakeCondition{},
		Rider:     &fakeRider{},
		Player:    body,
		Scheduler: schedule.NewScheduler(),
		Items:     items,
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if set.Len() != len(lvl.Entities) {
		t.Fatalf("props = %d, want %d", set.Len(), len(lvl.Entities))
	}

	outlines := set.Outlines()
	extra := 0
	for _, l := range set.Lasers() {
		extra += len(l.platforms())
	}
	if extra == 0 {
		t.Fatalf("yard laser has no platforms")
	}
	if len(outlines) != len(lvl.Entities)+extra {
		t.Fatalf("outlines = %d, want %d", len(outlines), len(lvl.Entities)+extra)
	}
	kinds := make(map[string]bool)
	for _, o := range outlines {
		kinds[o.Kind] = true
		if o.Kind != "laser_trap" && (o.Max.X <= o.Min.X || o.Max.Y <= o.Min.Y) {
			t.Fatalf("%s %q has an empty box: %+v", o.Kind, o.Name, o)
		}
	}
	for _, e := range lvl.Entities {
		if !kinds[e.Type] {
			t.Fatalf("no outline for %s", e.Type)
		}
	}
}

func TestAddRejectsUnknownType(t *testing.T) {
	r := newRig(t, common.V3(0, 0, 0))
	err := r.set.Add(entity("dragon", "smaug", common.Vec3{}, nil))
	if !errors.Is(err, ErrUnknownType) {
		t.Fatalf("err = %v, want ErrUnknownType", err)
	}
	if err := r.set.Add(entity("pickup", "x", common.Vec3{}, map[string]any{"item": "nope"})); err == nil {
		t.Fatalf("pickup with an unknown item accepted")
	}
}

func TestPickup(t *testing.T) {
	r := newRig(t, common.V3(0, 0, -5))
	if err := r.set.Add(entity("pickup", "apple", common.V3(0, 0, 2), map[string]any{"item": "apple"})); err != nil {
		t.Fatalf("Add: %v", err)
	}
	hit, ok := r.world.Raycast(common.V3(0, 0.25, 0), common.Forward, 5, common.LayerInteractable)
	if !ok {
		t.Fatalf("pickup not on the interactable layer")
	}
	p, ok := hit.Collider.(*Pickup)
	if !ok {
		t.Fatalf("hit = %T, want *Pickup", hit.Collider)
	}
	if got, want := p.Prompt(), "Apple\nRestores 30 health."; got != want {
		t.Fatalf("prompt = %q, want %q", got, want)
	}

	p.Interact()
	p.Interact()
	if len(r.cond.applied) != 1 || r.cond.applied[0][0].Kind != condition.EffectHealth {
		t.Fatalf("applied = %+v, want one health effect", r.cond.applied)
	}
	if !p.Consumed() {
		t.Fatalf("pickup not consumed")
	}
	if _, ok := r.world.Raycast(common.V3(0, 0.25, 0), common.Forward, 5, common.LayerInteractable); ok {
		t.Fatalf("consumed pickup still in the world")
	}
}

func TestItemBoxOpensOnce(t *testing.T) {
	r := newRig(t, common.V3(0, 0, -5))
	if err := r.set.Add(entity("item_box", "box", common.V3(0, 0, 2), map[string]any{"max_items": 4.0})); err != nil {
		t.Fatalf("Add: %v", err)
	}
	b := r.set.ItemBoxes()[0]
	if b.Prompt() != "Press 'E' to open!" {
		t.Fatalf("prompt = %q", b.Prompt())
	}
	b.Interact()
	want := b.Pending()
	b.Interact()
	if !b.Consumed() {
		t.Fatalf("box not opened")
	}
	if want < 1 || want > 3 || b.Pending() != want {
		t.Fatalf("pending = %d after a second open, rolled %d", b.Pending(), want)
	}
	if len(r.cond.applied) != 0 {
		t.Fatalf("opening applied effects directly: %+v", r.cond.applied)
	}

	// the lid takes half a second before anything drops
	r.sched.Advance(0.5)
	if len(b.Spawned()) != 0 {
		t.Fatalf("dropped %d items while opening", len(b.Spawned()))
	}
	for i := 0; i < want; i++ {
		r.sched.Advance(0.11)
		if len(b.Spawned()) != i+1 {
			t.Fatalf("after drop %d: spawned = %d", i, len(b.Spawned()))
		}
	}
	r.sched.Advance(1)
	if len(b.Spawned()) != want || b.Pending() != 0 {
		t.Fatalf("spawned = %d pending = %d, want %d and 0", len(b.Spawned()), b.Pending(), want)
	}
	if got := len(r.set.Pickups()); got != want {
		t.Fatalf("set holds %d pickups, want %d", got, want)
	}

	for _, p := range b.Spawned() {
		if _, ok := r.items.Lookup(p.Item.ID); !ok {
			t.Fatalf("dropped %q, not from the table", p.Item.ID)
		}
	}
	hit, ok := r.world.Raycast(common.V3(1, 0.25, -3), common.Forward, 10, common.LayerInteractable)
	if !ok {
		t.Fatalf("dropped items are not interactable")
	}
	first, ok := hit.Collider.(*Pickup)
	if !ok || first != b.Spawned()[0] {
		t.Fatalf("hit = %T, want the first drop", hit.Collider)
	}
	first.Interact()
	if !first.Consumed() || len(r.cond.applied) != 1 {
		t.Fatalf("picking up a drop: consumed = %v applied = %d", first.Consumed(), len(r.cond.applied))
	}
}

func TestItemBoxDropCount(t *testing.T) {
	tests := []struct {
		name     string
		max      float64
		min, top int
	}{
		{"none_configured", 0, 1, 1},
		{"one", 1, 1, 1},
		{"two", 2, 1, 1},
		{"four", 4, 1, 3},
		{"six", 6, 1, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRig(t, common.V3(0, 0, -5))
			if err := r.set.Add(entity("item_box", "box", common.Vec3{}, map[string]any{"max_items": tt.max})); err != nil {
				t.Fatalf("Add: %v", err)
			}
			b := r.set.ItemBoxes()[0]
			seen := make(map[int]bool)
			for i := 0; i < 200; i++ {
				n := b.rollCount()
				if n < tt.min || n > tt.top {
					t.Fatalf("rolled %d, want [%d, %d]", n, tt.min, tt.top)
				}
				seen[n] = true
			}
			if !seen[tt.min] || !seen[tt.top] {
				t.Fatalf("rolls %v never reached both ends of [%d, %d]", seen, tt.min, tt.top)
			}
		})
	}
}

func TestCannonLaunches(t *testing.T) {
	r := newRig(t, common.V3(0, 0, -5))
	e := entity("cannon", "c", common.Vec3{}, map[string]any{
		"direction":  arr(3, 4, 0),
		"force":      10.0,
		"base_speed": 2.0,
	})
	if err := r.set.Add(e); err != nil {
		t.Fatalf("Add: %v", err)
	}
	c := r.set.Cannons()[0]
	c.Interact()
	c.Interact()
	if c.Consumed() {
		t.Fatalf("cannon reported consumed")
	}
	if len(r.rider.launches) != 2 {
		t.Fatalf("launches = %d, want 2", len(r.rider.launches))
	}
	got := r.rider.launches[0]
	if math.Abs(got.impulse.X-6) > 1e-9 || math.Abs(got.impulse.Y-8) > 1e-9 || got.baseSpeed != 2 {
		t.Fatalf("launch = %+v", got)
	}
}

func TestJumpPadEnterExit(t *testing.T) {
	r := newRig(t, common.V3(0, 0, 0))
	if err := r.set.Add(entity("jump_pad", "pad", common.Vec3{}, map[string]any{"force": 12.0})); err != nil {
		t.Fatalf("Add: %v", err)
	}

	r.set.FixedUpdate(1.0 / 60)
	r.set.FixedUpdate(1.0 / 60)
	if len(r.rider.padEnters) == 0 || r.rider.padEnters[0] != 12 {
		t.Fatalf("enters = %v", r.rider.padEnters)
	}
	if !r.set.JumpPads()[0].Occupied() {
		t.Fatalf("pad not occupied")
	}

	r.body.SetPosition(common.V3(0, 5, 0))
	r.set.FixedUpdate(1.0 / 60)
	r.set.FixedUpdate(1.0 / 60)
	if r.rider.padExits != 1 {
		t.Fatalf("exits = %d, want 1", r.rider.padExits)
	}
}

func TestMovingPlatformSchedule(t *testing.T) {
	r := newRig(t, common.V3(10, 0, 10))
	e := entity("moving_platform", "lift", common.Vec3{}, map[string]any{
		"end":      arr(0, 4, 0),
		"delay":    1.0,
		"duration": 2.0,
	})
	if err := r.set.Add(e); err != nil {
		t.Fatalf("Add: %v", err)
	}
	p := r.set.Platforms()[0]

	steps := []struct {
		dt     float64
		wantY  float64
		moving bool
	}{
		{0.5, 0, false},
		{0.5, 0, true},
		{1.0, 2, true},
		{1.0, 4, false},
		{1.0, 4, true},
		{1.0, 2, true},
		{1.0, 0, false},
	}
	for i, s := range steps {
		got := p.advance(s.dt)
		if math.Abs(got.Y-s.wantY) > 1e-9 {
			t.Fatalf("step %d: y = %v, want %v", i, got.Y, s.wantY)
		}
		if p.Moving() != s.moving {
			t.Fatalf("step %d: moving = %v, want %v", i, p.Moving(), s.moving)
		}
	}
}

func TestMovingPlatformCarriesRider(t *testing.T) {
	r := newRig(t, common.V3(0, 0.3, 0))
	e := entity("moving_platform", "lift", common.Vec3{}, map[string]any{
		"end":      arr(0, 2, 0),
		"delay":    0.0,
		"duration": 1.0,
		"size":     arr(2, 0.3, 2),
	})
	if err := r.set.Add(e); err != nil {
		t.Fatalf("Add: %v", err)
	}
	p := r.set.Platforms()[0]

	const dt = 0.1
	r.set.FixedUpdate(dt)
	r.world.Step(dt)
	r.set.LateUpdate(dt)

	if p.Position().Y <= 0 {
		t.Fatalf("platform did not rise: %+v", p.Position())
	}
	if len(r.rider.deltas) != 1 || r.rider.deltas[0].Y <= 0 {
		t.Fatalf("deltas = %+v, want one upward delta", r.rider.deltas)
	}

	r.body.SetPosition(common.V3(8, 0.3, 0))
	r.set.FixedUpdate(dt)
	r.world.Step(dt)
	r.set.LateUpdate(dt)
	if len(r.rider.deltas) != 1 {
		t.Fatalf("carried a player who stepped off")
	}
}

func TestTriggeredPlatformTrip(t *testing.T) {
	r := newRig(t, common.V3(10, 0, 10))
	e := entity("laser_trap", "beam", common.V3(0, 1, -5), map[string]any{
		"left":              arr(0, 0, 0),
		"distance":          2.0,
		"platform_duration": 1.0,
		"reset":             2.0,
	})
	if err := r.set.Add(e); err != nil {
		t.Fatalf("Add: %v", err)
	}
	l := r.set.Lasers()[0]
	if l.Right != nil {
		t.Fatalf("right platform built without a position")
	}
	p := l.Left

	if got := p.advance(0.5); got != p.Start || p.Cycling() {
		t.Fatalf("idle platform moved to %+v", got)
	}
	if !p.Trigger() {
		t.Fatalf("Trigger refused an idle platform")
	}
	if p.Trigger() {
		t.Fatalf("Trigger restarted a trip under way")
	}

	steps := []struct {
		dt      float64
		wantX   float64
		moving  bool
		cycling bool
	}{
		{0.5, -1, true, true},
		{0.5, -2, false, true},
		{1.0, -2, false, true},
		{1.0, -2, true, true},
		{0.5, -1, true, true},
		{0.5, 0, false, false},
		{1.0, 0, false, false},
	}
	for i, s := range steps {
		got := p.advance(s.dt)
		if math.Abs(got.X-s.wantX) > 1e-9 || got.Y != 0 || got.Z != 0 {
			t.Fatalf("step %d: at %+v, want x = %v", i, got, s.wantX)
		}
		if p.Moving() != s.moving || p.Cycling() != s.cycling {
			t.Fatalf("step %d: moving = %v cycling = %v, want %v %v", i, p.Moving(), p.Cycling(), s.moving, s.cycling)
		}
	}
	if !p.Trigger() {
		t.Fatalf("platform did not accept a second trip")
	}

	shuttle := entity("moving_platform", "lift", common.V3(5, 0, 0), map[string]any{"end": arr(5, 4, 0)})
	if err := r.set.Add(shuttle); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if r.set.Platforms()[0].Trigger() {
		t.Fatalf("a shuttling platform accepted Trigger")
	}
}

func TestLaserTrapOpensPlatforms(t *testing.T) {
	r := newRig(t, common.V3(0, 0, 3))
	r.world.AddBox("floor", common.V3(-10, -1, -10), common.V3(10, 0, 10), common.LayerGround, physics.Static)
	e := entity("laser_trap", "beam", common.V3(0, 1, 0), map[string]any{
		"direction":         arr(0, 0, 1),
		"length":            10.0,
		"reset":             1.0,
		"left":              arr(-2, 2, 3),
		"right":             arr(2, 2, 3),
		"distance":          1.5,
		"platform_duration": 0.2,
	})
	if err := r.set.Add(e); err != nil {
		t.Fatalf("Add: %v", err)
	}
	l := r.set.Lasers()[0]

	const dt = 0.02
	tick := func(n int) {
		for i := 0; i < n; i++ {
			r.set.FixedUpdate(dt)
			r.world.Step(dt)
			r.set.LateUpdate(dt)
		}
	}

	for i := 0; i < 20 && l.Armed(); i++ {
		tick(1)
	}
	if l.Armed() || !l.Left.Cycling() || !l.Right.Cycling() {
		t.Fatalf("beam crossed but the platforms stayed put")
	}
	if len(r.cond.damage) != 0 {
		t.Fatalf("damage = %v from a trap without damage", r.cond.damage)
	}

	tick(15)
	if x := l.Left.Position().X; math.Abs(x+3.5) > 1e-3 {
		t.Fatalf("left platform at x = %v, want -3.5", x)
	}
	if x := l.Right.Position().X; math.Abs(x-3.5) > 1e-3 {
		t.Fatalf("right platform at x = %v, want 3.5", x)
	}

	// off the beam while the platforms are held open
	r.body.SetPosition(common.V3(0, 0, -5))
	tick(60)
	if !l.Armed() || l.Left.Cycling() || l.Right.Cycling() {
		t.Fatalf("trap did not come back: armed = %v", l.Armed())
	}
	if x := l.Left.Position().X; math.Abs(x+2) > 1e-3 {
		t.Fatalf("left platform back at x = %v, want -2", x)
	}

	outlines := r.set.Outlines()
	if len(outlines) != 3 || outlines[0].Kind != "laser_trap" || outlines[1].Kind != "moving_platform" {
		t.Fatalf("outlines = %+v, want the beam and both platforms", outlines)
	}

	r.body.SetPosition(common.V3(0, 0, 3))
	for i := 0; i < 20 && l.Armed(); i++ {
		tick(1)
	}
	if l.Armed() {
		t.Fatalf("trap did not trip a second time")
	}
}

func TestLaserTrapDamage(t *testing.T) {
	r := newRig(t, common.V3(0, 0, 3))
	e := entity("laser_trap", "beam", common.V3(0, 1, 0), map[string]any{
		"direction": arr(0, 0, 1),
		"length":    10.0,
		"damage":    25.0,
		"reset":     1.0,
	})
	if err := r.set.Add(e); err != nil {
		t.Fatalf("Add: %v", err)
	}
	l := r.set.Lasers()[0]

	for i := 0; i < 10; i++ {
		r.set.LateUpdate(0.02)
	}
	if len(r.cond.damage) != 1 || r.cond.damage[0] != 25 {
		t.Fatalf("damage = %v, want one hit of 25", r.cond.damage)
	}
	if l.Armed() {
		t.Fatalf("laser still armed after tripping")
	}
	for i := 0; i < 52; i++ {
		r.set.LateUpdate(0.02)
	}
	if !l.Armed() || len(r.cond.damage) != 1 {
		t.Fatalf("armed = %v damage = %v after the reset", l.Armed(), r.cond.damage)
	}

	r.world.AddBox("wall", common.V3(-2, 0, 1), common.V3(2, 3, 1.5), common.LayerGround, physics.Static)
	for i := 0; i < 10; i++ {
		r.set.LateUpdate(0.02)
	}
	if len(r.cond.damage) != 1 {
		t.Fatalf("beam passed through a wall")
	}
}

func TestScriptedShrine(t *testing.T) {
	r := newRig(t, common.V3(0, 0, -5))
	if err := r.set.Add(entity("scripted_prop", "shrine", common.Vec3{}, map[string]any{"script": "shrine"})); err != nil {
		t.Fatalf("Add: %v", err)
	}
	p := r.set.Scripted()[0]
	if p.Prompt() != "Press 'E' to pray at the shrine" {
		t.Fatalf("prompt = %q", p.Prompt())
	}
	for i := 0; i < 4; i++ {
		p.Interact()
	}
	if !p.Consumed() {
		t.Fatalf("shrine not spent after three uses")
	}
	if len(r.cond.applied) != 3 {
		t.Fatalf("blessings = %d, want 3", len(r.cond.applied))
	}
	first := r.cond.applied[0]
	if len(first) != 2 || first[0].Kind != condition.EffectHealth || first[1].Kind != condition.EffectInvincible {
		t.Fatalf("effects = %+v", first)
	}

	if err := r.set.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if p.Consumed() {
		t.Fatalf("reload kept the spent state")
	}
}

func TestScriptedPropFromDisk(t *testing.T) {
	dir := t.TempDir()
	prev := prefabs.DiskDir()
	prefabs.SetDiskDir(dir)
	t.Cleanup(func() { prefabs.SetDiskDir(prev) })

	if err := os.MkdirAll(filepath.Join(dir, "scripts"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	src := `
prompt := "Touch"
onInit := func(engine, state) {
	engine.set_prompt("Touch the stone")
}
onInteract := func(engine, state) {
	engine.apply("double_jump", 0, 5)
	engine.apply("no_such_effect", 1, 1)
}
`
	if err := os.WriteFile(filepath.Join(dir, "scripts", "stone.tengo"), []byte(src), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	r := newRig(t, common.V3(0, 0, -5))
	if err := r.set.Add(entity("scripted_prop", "stone", common.Vec3{}, map[string]any{"script": "stone"})); err != nil {
		t.Fatalf("Add: %v", err)
	}
	p := r.set.Scripted()[0]
	if p.Prompt() != "Touch the stone" {
		t.Fatalf("prompt = %q", p.Prompt())
	}
	p.Interact()
	if len(r.cond.applied) != 1 || len(r.cond.applied[0]) != 1 || r.cond.applied[0][0].Kind != condition.EffectDoubleJump {
		t.Fatalf("applied = %+v", r.cond.applied)
	}
	if p.Consumed() {
		t.Fatalf("stone consumed without calling consume")
	}

	if err := os.WriteFile(filepath.Join(dir, "scripts", "broken.tengo"), []byte("prompt := ("), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := r.set.Add(entity("scripted_prop", "broken", common.Vec3{}, map[string]any{"script": "broken"})); err == nil {
		t.Fatalf("broken script accepted")
	}
}
