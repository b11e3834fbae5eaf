package condition

import (
	"errors"
	"fmt"
	"strings"

	"github.com/milk9111/parkour/schedule"
)

// ErrUnknownEffect is returned for a consumable effect kind the system does
// not know how to apply.
var ErrUnknownEffect = errors.New("condition: unknown effect kind")

// EffectKind names what a consumable effect grants.
type EffectKind int

const (
	EffectHealth EffectKind = iota + 1
	EffectInvincible
	EffectInfiniteStamina
	EffectDoubleJump
)

func (k EffectKind) String() string {
	switch k {
	case EffectHealth:
		return "health"
	case EffectInvincible:
		return "invincible"
	case EffectInfiniteStamina:
		return "infinite_stamina"
	case EffectDoubleJump:
		return "double_jump"
	default:
		return fmt.Sprintf("effect(%d)", int(k))
	}
}

// ParseEffectKind maps a prefab/script name to an EffectKind.
func ParseEffectKind(name string) (EffectKind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "health", "heal":
		return EffectHealth, nil
	case "invincible", "invincibility":
		return EffectInvincible, nil
	case "infinite_stamina", "infinitestamina":
		return EffectInfiniteStamina, nil
	case "double_jump", "doublejump":
		return EffectDoubleJump, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownEffect, name)
	}
}

// Effect is one descriptor of a consumable. Value is used by instant
// effects, Duration (seconds) by timed ones.
type Effect struct {
	Kind     EffectKind
	Value    float64
	Duration float64
}

func (k EffectKind) timed() bool {
	switch k {
	case EffectInvincible, EffectInfiniteStamina, EffectDoubleJump:
		return true
	}
	return false
}

func (k EffectKind) valid() bool {
	return k == EffectHealth || k.timed()
}

// timer keys, one per timed effect kind
const (
	KeyInvincible      schedule.Key = "condition/invincible"
	KeyInfiniteStamina schedule.Key = "condition/infinite_stamina"
	KeyDoubleJump      schedule.Key = "condition/double_jump"
)

func (k EffectKind) key() schedule.Key {
	switch k {
	case EffectInvincible:
		return KeyInvincible
	case EffectInfiniteStamina:
		return KeyInfiniteStamina
	case EffectDoubleJump:
		return KeyDoubleJump
	}
	return ""
}
