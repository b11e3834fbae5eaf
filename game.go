package main

import (
	"fmt"
	"log"
	"math/rand"
	"path/filepath"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/milk9111/parkour/assets"
	"github.com/milk9111/parkour/common"
	"github.com/milk9111/parkour/condition"
	"github.com/milk9111/parkour/levels"
	"github.com/milk9111/parkour/locomotion"
	"github.com/milk9111/parkour/physics"
	"github.com/milk9111/parkour/player"
	"github.com/milk9111/parkour/prefabs"
)

const (
	baseWidth  = 1280
	baseHeight = 720
	// allAbilitiesDuration stands in for "forever" when -ab is set.
	allAbilitiesDuration = 24 * 60 * 60
)

type flowState int

const (
	flowIntro flowState = iota
	flowActive
	flowPaused
	flowGameOver
)

func (f flowState) String() string {
	switch f {
	case flowIntro:
		return "intro"
	case flowActive:
		return "active"
	case flowPaused:
		return "paused"
	case flowGameOver:
		return "game over"
	}
	return fmt.Sprintf("flow(%d)", int(f))
}

// Game gates input by flow state before it reaches the player.
type Game struct {
	cfg    appConfig
	dt     float64
	frames int
	flow   flowState
	quit   bool

	level   *levels.Level
	items   *prefabs.ItemTable
	tiles   []tileRect
	world   *physics.World
	player  *player.Player
	input   *Input
	hud     *HUD
	steps   locomotion.FootstepPlayer
	menus   map[flowState]*ebitenui.UI
	watcher *prefabs.Watcher
	rng     *rand.Rand
}

// NewGame loads the level and prefabs, spawns the player, and sets up
// audio, menus, and the prefab watcher.
func NewGame(cfg appConfig) (*Game, error) {
	var steps locomotion.FootstepPlayer
	if f, err := assets.NewFootsteps(3, 1); err != nil {
		log.Printf("game: footsteps disabled: %v", err)
	} else {
		steps = f
	}

	g, err := newGame(cfg, steps)
	if err != nil {
		return nil, err
	}

	g.menus = map[flowState]*ebitenui.UI{
		flowIntro: newMenuUI("Parkour", "WASD move, mouse look, Space jump, E interact",
			menuButton{"Start", g.start},
			menuButton{"Quit", g.exit},
		),
		flowPaused: newMenuUI("Paused", "",
			menuButton{"Resume", g.resume},
			menuButton{"Restart", g.restart},
			menuButton{"Quit", g.exit},
		),
		flowGameOver: newMenuUI("You died", "",
			menuButton{"Restart", g.restart},
			menuButton{"Quit", g.exit},
		),
	}

	if cfg.Watch {
		dirs := []string{cfg.PrefabDir, filepath.Join(cfg.PrefabDir, "scripts")}
		if w, err := prefabs.NewWatcher(dirs...); err != nil {
			log.Printf("game: prefab watcher disabled: %v", err)
		} else {
			g.watcher = w
		}
	}
	return g, nil
}

// newGame builds the simulation without touching devices.
func newGame(cfg appConfig, steps locomotion.FootstepPlayer) (*Game, error) {
	if cfg.TPS <= 0 {
		cfg.TPS = 60
	}
	prefabs.SetDiskDir(cfg.PrefabDir)

	lvl, err := levels.LoadLevelFromFS(cfg.Level)
	if err != nil {
		return nil, err
	}
	items, err := prefabs.LoadItemTable()
	if err != nil {
		return nil, err
	}
	hudSpec, err := prefabs.LoadHUDSpec()
	if err != nil {
		return nil, err
	}

	g := &Game{
		cfg:   cfg,
		dt:    1 / float64(cfg.TPS),
		level: lvl,
		items: items,
		tiles: levelTiles(lvl),
		input: NewInput(),
		hud:   NewHUD(hudSpec),
		steps: steps,
		rng:   rand.New(rand.NewSource(rand.Int63())),
	}
	if err := g.spawn(); err != nil {
		return nil, err
	}
	return g, nil
}

// spawn builds a fresh world and player from the current prefabs.
func (g *Game) spawn() error {
	spec, err := prefabs.LoadPlayerSpec()
	if err != nil {
		return err
	}
	pcfg, err := player.ConfigFromSpec(spec)
	if err != nil {
		return err
	}
	pcfg.Debug = g.cfg.Debug

	world := physics.NewWorld()
	world.SetDebug(g.cfg.Debug)
	if _, err := world.BuildLevel(g.level); err != nil {
		return err
	}

	g.hud.Reset()
	if g.cfg.Debug {
		g.hud.SetDebugSpace(world.Space())
	}
	death := condition.ObserverFuncs{Death: g.died}
	p, err := player.New(pcfg, player.Env{
		World: world,
		Spawn: common.Vec3{X: g.level.Spawn.X, Y: g.level.Spawn.Y, Z: g.level.Spawn.Z},
		Level: g.level,
		Items: g.items,
		Rand:  g.rng,
	}, player.Collaborators{
		Animator:  g.hud,
		Footsteps: g.steps,
		Prompter:  g.hud,
		Renderer:  g.hud,
		Prompts:   g.hud,
		Observers: []condition.Observer{g.hud, death},
	})
	if err != nil {
		return err
	}
	if g.cfg.AllAbilities {
		if err := p.GrantAllAbilities(allAbilitiesDuration); err != nil {
			return err
		}
	}

	g.world = world
	g.player = p
	g.input = NewInput()
	return nil
}

func (g *Game) start() {
	if g.flow == flowIntro {
		g.setFlow(flowActive)
	}
}

func (g *Game) resume() {
	if g.flow == flowPaused {
		g.setFlow(flowActive)
	}
}

func (g *Game) pause() {
	if g.flow == flowActive {
		g.input.Release(g.player)
		g.setFlow(flowPaused)
	}
}

func (g *Game) restart() {
	if err := g.spawn(); err != nil {
		log.Printf("game: restart: %v", err)
		return
	}
	g.setFlow(flowActive)
}

func (g *Game) died() {
	log.Printf("game: player died at %v", g.player.Transform().Position)
	g.setFlow(flowGameOver)
}

func (g *Game) exit() { g.quit = true }

func (g *Game) setFlow(f flowState) {
	if g.cfg.Debug {
		log.Printf("game: %s -> %s", g.flow, f)
	}
	g.flow = f
}

func (g *Game) Update() error {
	if g.quit {
		if g.watcher != nil {
			_ = g.watcher.Close()
		}
		return ebiten.Termination
	}
	g.frames++
	g.pollReload()

	if g.flow == flowActive {
		ebiten.SetCursorMode(ebiten.CursorModeCaptured)
	} else {
		ebiten.SetCursorMode(ebiten.CursorModeVisible)
	}
	if ui := g.menus[g.flow]; ui != nil {
		ui.Update()
	}
	g.step(g.input.Read())
	return nil
}

// step advances one tick of the flow gate.
func (g *Game) step(in frameInput) {
	switch g.flow {
	case flowIntro:
		if in.Confirm || in.Jump {
			g.start()
		}
	case flowActive:
		if in.Pause {
			g.pause()
			return
		}
		g.input.Apply(in, g.player)
		g.player.Tick(g.dt)
		g.hud.Update()
	case flowPaused:
		if in.Pause {
			g.resume()
		}
	case flowGameOver:
		if in.Confirm {
			g.restart()
		}
	}
}

func (g *Game) pollReload() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case change, ok := <-g.watcher.Changes:
			if !ok {
				g.watcher = nil
				return
			}
			g.reload(change)
		case err, ok := <-g.watcher.Errors:
			if !ok {
				g.watcher = nil
				return
			}
			log.Printf("game: prefab watcher: %v", err)
		default:
			return
		}
	}
}

// reload re-applies the prefab behind an edited file.
func (g *Game) reload(change prefabs.Change) {
	name := change.Name()
	switch {
	case change.Kind == prefabs.ChangeScript:
		if err := g.player.Props().Reload(); err != nil {
			log.Printf("game: reload %s: %v", name, err)
		}
	case name == "player.yaml":
		spec, err := prefabs.LoadPlayerSpec()
		if err != nil {
			log.Printf("game: reload %s: %v", name, err)
			return
		}
		cfg, err := player.ConfigFromSpec(spec)
		if err != nil {
			log.Printf("game: reload %s: %v", name, err)
			return
		}
		cfg.Debug = g.cfg.Debug
		g.player.Reconfigure(cfg)
	case name == "hud.yaml":
		spec, err := prefabs.LoadHUDSpec()
		if err != nil {
			log.Printf("game: reload %s: %v", name, err)
			return
		}
		g.hud.SetSpec(spec)
	case name == "items.yaml":
		items, err := prefabs.LoadItemTable()
		if err != nil {
			log.Printf("game: reload %s: %v", name, err)
			return
		}
		// props hold their items; the table is used from the next spawn
		g.items = items
	default:
		return
	}
	log.Printf("game: reloaded %s", name)
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.hud.Draw(screen, g.player.Snapshot(), g.tiles, g.player.Props().Outlines())
	if g.cfg.Debug {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Frames: %d    FPS: %.2f    %s", g.frames, ebiten.ActualFPS(), g.flow), 16, baseHeight-24)
	}
	if ui := g.menus[g.flow]; ui != nil {
		ui.Draw(screen)
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
