package main

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/parkour/common"
)

const (
	stickDeadzone = 0.2
	// stickLook is the look delta of a fully deflected right stick per tick.
	stickLook = 6.0
)

// controls is what the input collaborator drives.
type controls interface {
	Move(dir common.Vec2)
	Look(delta common.Vec2)
	Jump()
	ToggleSprint()
	ToggleCrouch()
	ToggleClimbEngage()
	TogglePerspective()
	Interact() bool
}

// frameInput is one frame of sampled devices.
type frameInput struct {
	Move        common.Vec2
	Look        common.Vec2
	Jump        bool
	Sprint      bool
	Crouch      bool
	Climb       bool
	Perspective bool
	Interact    bool
	Pause       bool
	Confirm     bool
}

// Input turns device state into player intents. Move is only forwarded
// when it changes, so releasing the stick reads as a single release.
type Input struct {
	lastMove    common.Vec2
	cursorX     int
	cursorY     int
	cursorValid bool
}

func NewInput() *Input {
	return &Input{}
}

// Read samples keyboard, mouse, and the first gamepad.
func (i *Input) Read() frameInput {
	var in frameInput

	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		in.Move.X -= 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		in.Move.X += 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		in.Move.Y += 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		in.Move.Y -= 1
	}

	in.Jump = inpututil.IsKeyJustPressed(ebiten.KeySpace)
	in.Sprint = inpututil.IsKeyJustPressed(ebiten.KeyShiftLeft)
	in.Crouch = inpututil.IsKeyJustPressed(ebiten.KeyC) || inpututil.IsKeyJustPressed(ebiten.KeyControlLeft)
	in.Climb = inpututil.IsKeyJustPressed(ebiten.KeyF)
	in.Perspective = inpututil.IsKeyJustPressed(ebiten.KeyV)
	in.Interact = inpututil.IsKeyJustPressed(ebiten.KeyE)
	in.Pause = inpututil.IsKeyJustPressed(ebiten.KeyEscape)
	in.Confirm = inpututil.IsKeyJustPressed(ebiten.KeyEnter)

	if ebiten.CursorMode() == ebiten.CursorModeCaptured {
		x, y := ebiten.CursorPosition()
		if i.cursorValid {
			in.Look = common.Vec2{X: float64(x - i.cursorX), Y: float64(i.cursorY - y)}
		}
		i.cursorX, i.cursorY, i.cursorValid = x, y, true
	} else {
		i.cursorValid = false
	}

	if gamepads := ebiten.AppendGamepadIDs(nil); len(gamepads) > 0 {
		id := gamepads[0]
		lx := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal)
		ly := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickVertical)
		if math.Hypot(lx, ly) > stickDeadzone {
			in.Move = common.Vec2{X: lx, Y: -ly}
		}

		rx := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisRightStickHorizontal)
		ry := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisRightStickVertical)
		if math.Hypot(rx, ry) > stickDeadzone {
			in.Look = in.Look.Add(common.Vec2{X: rx * stickLook, Y: -ry * stickLook})
		}

		in.Jump = in.Jump || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightBottom)
		in.Interact = in.Interact || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightLeft)
		in.Crouch = in.Crouch || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightRight)
		in.Climb = in.Climb || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonFrontBottomRight)
		in.Sprint = in.Sprint || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonLeftStick)
		in.Perspective = in.Perspective || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightTop)
		in.Pause = in.Pause || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonCenterRight)
		in.Confirm = in.Confirm || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightBottom)
	}

	// keyboard diagonals
	if l := in.Move.Len(); l > 1 {
		in.Move = common.Vec2{X: in.Move.X / l, Y: in.Move.Y / l}
	}
	return in
}

// Apply forwards in to c and reports whether an interaction happened.
func (i *Input) Apply(in frameInput, c controls) bool {
	if in.Move != i.lastMove {
		c.Move(in.Move)
		i.lastMove = in.Move
	}
	if !in.Look.IsZero() {
		c.Look(in.Look)
	}
	if in.Sprint {
		c.ToggleSprint()
	}
	if in.Crouch {
		c.ToggleCrouch()
	}
	if in.Climb {
		c.ToggleClimbEngage()
	}
	if in.Jump {
		c.Jump()
	}
	if in.Perspective {
		c.TogglePerspective()
	}
	if in.Interact {
		return c.Interact()
	}
	return false
}

// Release drops any held move so the player stops while gated.
func (i *Input) Release(c controls) {
	if i.lastMove.IsZero() {
		return
	}
	c.Move(common.Vec2{})
	i.lastMove = common.Vec2{}
}
