package locomotion

// Mode is the physical movement mode.
type Mode int

const (
	ModeGrounded Mode = iota
	ModeAirborne
	ModeClimbing
	ModeLaunching
)

func (m Mode) String() string {
	switch m {
	case ModeGrounded:
		return "grounded"
	case ModeAirborne:
		return "airborne"
	case ModeClimbing:
		return "climbing"
	case ModeLaunching:
		return "launching"
	default:
		return "unknown"
	}
}

// Cosmetic is the presentation-only label derived from horizontal speed.
// Physics never reads it back.
type Cosmetic int

const (
	CosmeticIdle Cosmetic = iota
	CosmeticWalk
	CosmeticRun
	CosmeticCrouch
)

func (c Cosmetic) String() string {
	switch c {
	case CosmeticIdle:
		return "idle"
	case CosmeticWalk:
		return "walk"
	case CosmeticRun:
		return "run"
	case CosmeticCrouch:
		return "crouch"
	default:
		return "unknown"
	}
}
