package props

import (
	"fmt"
	"log"

	"github.com/milk9111/parkour/common"
	"github.com/milk9111/parkour/condition"
	"github.com/milk9111/parkour/levels"
	"github.com/milk9111/parkour/physics"
	"github.com/milk9111/parkour/prefabs"
	"github.com/milk9111/parkour/schedule"
)

const (
	boxOpenDuration  = 0.5
	boxSpawnDelay    = 0.1
	boxSpawnSpacing  = 0.75
	defaultBoxSpawns = 4
)

var pickupSize = common.Vec3{X: 0.5, Y: 0.5, Z: 0.5}

// Pickup is a loose item. Interacting consumes it and applies its effects.
type Pickup struct {
	Name string
	Item prefabs.ItemSpec

	effects  []condition.Effect
	target   Condition
	world    *physics.World
	collider *physics.Collider
	consumed bool
}

func addPickup(s *Set, e levels.Entity) error {
	id := e.Text("item", e.Name)
	item, ok := s.deps.Items.Lookup(id)
	if !ok {
		return fmt.Errorf("pickup: unknown item %q", id)
	}
	min, max := footprint(e, pickupSize)
	_, err := s.newPickup(e.Name, item, min, max)
	return err
}

// newPickup places an item as an interactable sensor box.
func (s *Set) newPickup(name string, item prefabs.ItemSpec, min, max common.Vec3) (*Pickup, error) {
	effects, err := effectsFromSpec(item.Effects)
	if err != nil {
		return nil, fmt.Errorf("pickup %q: %w", item.ID, err)
	}
	p := &Pickup{
		Name:    name,
		Item:    item,
		effects: effects,
		target:  s.deps.Condition,
		world:   s.deps.World,
	}
	p.collider = s.deps.World.AddBox(name, min, max, common.LayerInteractable, physics.Sensor)
	p.collider.Owner = p
	s.pickups = append(s.pickups, p)
	return p, nil
}

func (p *Pickup) Prompt() string {
	return p.Item.Name + "\n" + p.Item.Description
}

func (p *Pickup) Interact() {
	if p.consumed {
		return
	}
	if err := p.target.ApplyConsumable(p.effects); err != nil {
		log.Printf("props: pickup %s: %v", p.Item.ID, err)
		return
	}
	p.consumed = true
	p.world.Remove(p.collider)
}

func (p *Pickup) Consumed() bool { return p.consumed }

// ItemBox opens once. After the lid has opened it drops between one and
// MaxItems-1 pickups, one every boxSpawnDelay seconds, in a row along Z
// centred on SpawnPoint.
type ItemBox struct {
	Name       string
	SpawnPoint common.Vec3
	MaxItems   int

	s        *Set
	key      schedule.Key
	collider *physics.Collider
	opened   bool
	pending  int
	spawned  []*Pickup
}

func addItemBox(s *Set, e levels.Entity) error {
	if s.deps.Items == nil || len(s.deps.Items.Items) == 0 {
		return fmt.Errorf("item box %q: item table is empty", e.Name)
	}
	min, max := footprint(e, common.Vec3{X: 1, Y: 1, Z: 1})
	// beside the box on the +X side, resting on the same floor
	spawn := vec(e.Position()).Add(common.Vec3{X: (max.X-min.X)/2 + pickupSize.X})
	if p, ok := e.Vec("spawn"); ok {
		spawn = vec(p)
	}
	b := &ItemBox{
		Name:       e.Name,
		SpawnPoint: spawn,
		MaxItems:   int(e.Float("max_items", defaultBoxSpawns)),
		s:          s,
		key:        schedule.Key(fmt.Sprintf("props/box/%d", len(s.boxes))),
	}
	b.collider = s.deps.World.AddBox(e.Name, min, max, common.LayerGround|common.LayerInteractable, physics.Static)
	b.collider.Owner = b
	s.boxes = append(s.boxes, b)
	return nil
}

func (b *ItemBox) Prompt() string { return "Press 'E' to open!" }

func (b *ItemBox) Interact() {
	if b.opened {
		return
	}
	b.opened = true
	b.pending = b.rollCount()
	log.Printf("props: item box %s opened, dropping %d", b.Name, b.pending)
	b.s.deps.Scheduler.Schedule(b.key, boxOpenDuration+boxSpawnDelay, b.spawnNext)
}

func (b *ItemBox) Consumed() bool { return b.opened }

// Spawned lists the pickups the box has dropped so far.
func (b *ItemBox) Spawned() []*Pickup { return b.spawned }

// Pending is how many drops are still to come.
func (b *ItemBox) Pending() int { return b.pending }

// rollCount draws from [1, MaxItems), falling back to one drop.
func (b *ItemBox) rollCount() int {
	if b.MaxItems <= 2 {
		return 1
	}
	return 1 + b.s.deps.Rand.Intn(b.MaxItems-1)
}

func (b *ItemBox) spawnNext() {
	if b.pending <= 0 {
		return
	}
	total := len(b.spawned) + b.pending
	i := len(b.spawned)
	b.pending--

	item, ok := b.s.deps.Items.Pick(b.s.deps.Rand.Float64())
	if !ok {
		b.pending = 0
		return
	}
	at := b.SpawnPoint.Add(common.Vec3{Z: (float64(i) - float64(total-1)/2) * boxSpawnSpacing})
	half := common.Vec3{X: pickupSize.X / 2, Z: pickupSize.Z / 2}
	name := fmt.Sprintf("%s/%s/%d", b.Name, item.ID, i)
	p, err := b.s.newPickup(name, item, at.Sub(half), at.Add(half).Add(common.Vec3{Y: pickupSize.Y}))
	if err != nil {
		log.Printf("props: item box %s: %v", b.Name, err)
		b.pending = 0
		return
	}
	b.spawned = append(b.spawned, p)
	if b.pending > 0 {
		b.s.deps.Scheduler.Schedule(b.key, boxSpawnDelay, b.spawnNext)
	}
}
