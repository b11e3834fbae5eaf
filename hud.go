package main

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/parkour/camera"
	"github.com/milk9111/parkour/common"
	"github.com/milk9111/parkour/levels"
	"github.com/milk9111/parkour/player"
	"github.com/milk9111/parkour/prefabs"
	"github.com/milk9111/parkour/props"
	"golang.org/x/image/colornames"
)

const (
	pixelsPerUnit     = 32.0
	minimapScale      = 4.0
	damageFlashFrames = 12
)

// HUD is every presentation collaborator of the player: prompt sink, climb
// prompter, camera renderer, animator, and condition observer. It keeps the
// last value it was told and draws it.
type HUD struct {
	spec *prefabs.HUDSpec

	health      float64
	stamina     float64
	damage      int
	dead        bool
	prompt      string
	climbHint   bool
	bodyVisible bool
	priorities  map[camera.Perspective]int
	anim        animState
	// debugSpace, when set, is outlined over the side view.
	debugSpace *cp.Space
}

type animState struct {
	speed    float64
	grounded bool
	climbing bool
	crouch   bool
	jumps    int
}

func NewHUD(spec *prefabs.HUDSpec) *HUD {
	if spec == nil {
		spec = &prefabs.HUDSpec{}
	}
	h := &HUD{spec: spec}
	h.Reset()
	return h
}

// Reset clears per-life state for a respawn.
func (h *HUD) Reset() {
	h.health = 1
	h.stamina = 1
	h.damage = 0
	h.dead = false
	h.prompt = ""
	h.climbHint = false
	h.bodyVisible = false
	h.priorities = make(map[camera.Perspective]int)
	h.anim = animState{}
}

func (h *HUD) SetSpec(spec *prefabs.HUDSpec) {
	if spec != nil {
		h.spec = spec
	}
}

func (h *HUD) SetDebugSpace(space *cp.Space) { h.debugSpace = space }

func (h *HUD) SetPrompt(text string) { h.prompt = text }
func (h *HUD) ClearPrompt()          { h.prompt = "" }

func (h *HUD) SetClimbablePrompt(visible bool) { h.climbHint = visible }

func (h *HUD) SetCameraPriority(p camera.Perspective, priority int) {
	h.priorities[p] = priority
}

func (h *HUD) SetBodyVisible(visible bool) { h.bodyVisible = visible }

// LiveCamera is the perspective holding the highest priority.
func (h *HUD) LiveCamera() camera.Perspective {
	if h.priorities[camera.ThirdPerson] > h.priorities[camera.FirstPerson] {
		return camera.ThirdPerson
	}
	return camera.FirstPerson
}

func (h *HUD) SetSpeed(normalized float64) { h.anim.speed = normalized }
func (h *HUD) SetGrounded(grounded bool)   { h.anim.grounded = grounded }
func (h *HUD) SetClimbing(climbing bool)   { h.anim.climbing = climbing }
func (h *HUD) SetCrouch(crouch bool)       { h.anim.crouch = crouch }
func (h *HUD) TriggerJump()                { h.anim.jumps++ }

func (h *HUD) OnHealthChanged(fraction float64)  { h.health = fraction }
func (h *HUD) OnStaminaChanged(fraction float64) { h.stamina = fraction }
func (h *HUD) OnDamaged(amount float64)          { h.damage = damageFlashFrames }
func (h *HUD) OnDeath()                          { h.dead = true }

// Update ages the damage flash by one frame.
func (h *HUD) Update() {
	if h.damage > 0 {
		h.damage--
	}
}

// Draw renders the side view, the minimap, and the overlay.
func (h *HUD) Draw(screen *ebiten.Image, snap player.Snapshot, tiles []tileRect, outlines []props.Outline) {
	v := view{
		centerX: snap.Position.X,
		centerY: snap.Position.Y + 1,
		zoom:    pixelsPerUnit,
		width:   baseWidth,
		height:  baseHeight,
	}
	screen.Fill(colornames.Midnightblue)

	for _, t := range tiles {
		x, y, w, hh := v.rect(t.minX, t.minY, t.maxX, t.maxY)
		vector.FillRect(screen, x, y, w, hh, t.color, false)
	}
	for _, o := range outlines {
		drawOutline(screen, v, o)
	}
	h.drawPlayer(screen, v, snap)
	if h.debugSpace != nil {
		drawPhysicsDebug(screen, h.debugSpace, v)
	}
	h.drawMinimap(screen, snap, tiles, outlines)
	h.drawOverlay(screen, snap)
}

func drawOutline(screen *ebiten.Image, v view, o props.Outline) {
	clr := outlineColor(o.Kind)
	if !o.Active {
		clr = colornames.Gray
	}
	if o.Kind == "laser_trap" {
		x0, y0 := v.toScreen(o.Min.X, o.Min.Y)
		x1, y1 := v.toScreen(o.Max.X, o.Max.Y)
		vector.StrokeLine(screen, x0, y0, x1, y1, 2, clr, true)
		return
	}
	x, y, w, hh := v.rect(o.Min.X, o.Min.Y, o.Max.X, o.Max.Y)
	vector.FillRect(screen, x, y, w, hh, withAlpha(clr, 96), false)
	vector.StrokeRect(screen, x, y, w, hh, 1, clr, false)
}

func (h *HUD) drawPlayer(screen *ebiten.Image, v view, snap player.Snapshot) {
	const width, height = 0.5, 1.8
	top := snap.Position.Y + height*snap.ScaleY
	x, y, w, hh := v.rect(snap.Position.X-width/2, snap.Position.Y, snap.Position.X+width/2, top)

	clr := color.Color(colornames.Crimson)
	if snap.Condition.Invincible {
		clr = colornames.Gold
	}
	// first person only shows the collision box
	if h.bodyVisible {
		vector.FillRect(screen, x, y, w, hh, clr, false)
	}
	vector.StrokeRect(screen, x, y, w, hh, 1, clr, false)

	// facing arrow: yaw 0 looks down +Z, so only the X part shows here
	fx, _ := v.toScreen(snap.Position.X, 0)
	ex, _ := v.toScreen(snap.Position.X+facingX(snap.Yaw), 0)
	eye := y + hh*0.1
	vector.StrokeLine(screen, fx, eye, ex, eye, 2, colornames.White, true)
}

func (h *HUD) drawMinimap(screen *ebiten.Image, snap player.Snapshot, tiles []tileRect, outlines []props.Outline) {
	const size = 160
	left := float32(baseWidth - size - 16)
	top := float32(baseHeight - size - 16)
	vector.FillRect(screen, left, top, size, size, color.NRGBA{A: 160}, false)

	m := view{
		centerX: snap.Position.X,
		centerY: snap.Position.Z,
		zoom:    minimapScale,
		width:   size,
		height:  size,
	}
	clip := screen.SubImage(rectInt(left, top, size, size)).(*ebiten.Image)
	for _, t := range tiles {
		x, y, w, hh := m.rect(t.minX, t.minZ, t.maxX, t.maxZ)
		vector.FillRect(clip, left+x, top+y, w, hh, withAlpha(t.color, 128), false)
	}
	for _, o := range outlines {
		x, y, w, hh := m.rect(o.Min.X, o.Min.Z, o.Max.X, o.Max.Z)
		vector.StrokeRect(clip, left+x, top+y, w, hh, 1, outlineColor(o.Kind), false)
	}
	px, py := m.toScreen(snap.Position.X, snap.Position.Z)
	vector.DrawFilledCircle(clip, left+px, top+py, 3, colornames.Crimson, true)
}

func (h *HUD) drawOverlay(screen *ebiten.Image, snap player.Snapshot) {
	if h.damage > 0 {
		vector.FillRect(screen, 0, 0, baseWidth, baseHeight, h.spec.DamageColor.Or(color.NRGBA{R: 0xff, A: 0x60}), false)
	}

	bw := float32(h.spec.BarWidth)
	if bw <= 0 {
		bw = 160
	}
	bh := float32(h.spec.BarHeight)
	if bh <= 0 {
		bh = 10
	}
	drawBar(screen, 16, 16, bw, bh, h.health, h.spec.HealthColor.Or(colornames.Crimson))
	drawBar(screen, 16, 20+bh, bw, bh, h.stamina, h.spec.StaminaColor.Or(colornames.Gold))
	ebitenutil.DebugPrintAt(screen, statusLine(snap, h.LiveCamera()), 16, int(28+2*bh))
	ebitenutil.DebugPrintAt(screen, h.animLine(), 16, int(44+2*bh))
	ebitenutil.DebugPrintAt(screen, effectsLine(snap), 16, int(60+2*bh))

	var lines []string
	if h.prompt != "" {
		lines = append(lines, strings.Split(h.prompt, "\n")...)
	}
	if h.climbHint {
		lines = append(lines, "Press 'F' to climb")
	}
	for i, line := range lines {
		x := baseWidth/2 - len(line)*3
		ebitenutil.DebugPrintAt(screen, line, x, baseHeight-120+i*16)
	}
}

func drawBar(screen *ebiten.Image, x, y, w, h float32, fraction float64, clr color.Color) {
	vector.FillRect(screen, x, y, w, h, color.NRGBA{A: 160}, false)
	vector.FillRect(screen, x, y, barWidth(w, fraction), h, clr, false)
	vector.StrokeRect(screen, x, y, w, h, 1, colornames.White, false)
}

func barWidth(full float32, fraction float64) float32 {
	switch {
	case fraction <= 0:
		return 0
	case fraction >= 1:
		return full
	}
	return full * float32(fraction)
}

func statusLine(snap player.Snapshot, live camera.Perspective) string {
	loco := snap.Locomotion
	return fmt.Sprintf("%s/%s  speed %.1f/%.1f  jumps %d  grounded %v  cam %s  hp %.0f  st %.0f",
		loco.Mode, loco.Cosmetic, loco.CurrentSpeed, loco.BaseSpeed, loco.JumpCount, loco.Grounded,
		live, snap.Condition.Health.Current, snap.Condition.Stamina.Current)
}

func (h *HUD) animLine() string {
	a := h.anim
	return fmt.Sprintf("anim speed %.2f  grounded %v  climbing %v  crouch %v  jumps %d",
		a.speed, a.grounded, a.climbing, a.crouch, a.jumps)
}

func effectsLine(snap player.Snapshot) string {
	var active []string
	if snap.Condition.Invincible {
		active = append(active, "invincible")
	}
	if snap.Condition.InfiniteStamina {
		active = append(active, "infinite stamina")
	}
	if snap.Condition.DoubleJump {
		active = append(active, "double jump")
	}
	if len(active) == 0 {
		return ""
	}
	return "effects: " + strings.Join(active, ", ")
}

func outlineColor(kind string) color.Color {
	switch kind {
	case "pickup":
		return colornames.Limegreen
	case "item_box":
		return colornames.Orange
	case "cannon":
		return colornames.Slategray
	case "jump_pad":
		return colornames.Deepskyblue
	case "moving_platform":
		return colornames.Tan
	case "laser_trap":
		return colornames.Red
	case "scripted_prop":
		return colornames.Violet
	}
	return colornames.White
}

func withAlpha(c color.Color, a uint8) color.Color {
	r, g, b, _ := c.RGBA()
	return color.NRGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: a}
}

// view maps world units to screen pixels around a center point. Screen Y
// grows downward.
type view struct {
	centerX float64
	centerY float64
	zoom    float64
	width   float64
	height  float64
}

func (v view) toScreen(x, y float64) (float32, float32) {
	return float32((x-v.centerX)*v.zoom + v.width/2), float32(v.height/2 - (y-v.centerY)*v.zoom)
}

func (v view) rect(minX, minY, maxX, maxY float64) (x, y, w, h float32) {
	x, y = v.toScreen(minX, maxY)
	return x, y, float32((maxX - minX) * v.zoom), float32((maxY - minY) * v.zoom)
}

// tileRect is one solid level cell with its depth span.
type tileRect struct {
	minX, minY, maxX, maxY float64
	minZ, maxZ             float64
	color                  color.Color
}

func levelTiles(lvl *levels.Level) []tileRect {
	if lvl == nil {
		return nil
	}
	var out []tileRect
	for i, layer := range lvl.Layers {
		meta := lvl.Meta(i)
		if !meta.Physics {
			continue
		}
		clr := color.Color(colornames.Dimgray)
		if meta.Kind == "climbable" {
			clr = colornames.Olivedrab
		}
		for idx, v := range layer {
			if v == 0 {
				continue
			}
			minX, minY, maxX, maxY := lvl.CellBounds(idx%lvl.Width, idx/lvl.Width, 1, 1)
			out = append(out, tileRect{
				minX: minX, minY: minY, maxX: maxX, maxY: maxY,
				minZ: meta.ZMin, maxZ: meta.ZMax,
				color: clr,
			})
		}
	}
	return out
}

func facingX(yaw float64) float64 {
	return common.Transform{Yaw: yaw}.Forward().X
}

func rectInt(x, y, w, h float32) image.Rectangle {
	return image.Rect(int(x), int(y), int(x+w), int(y+h))
}
