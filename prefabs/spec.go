package prefabs

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// DecodeSpec re-decodes loosely typed data, such as level entity props,
// into a spec struct using its yaml tags.
func DecodeSpec[T any](raw any) (T, error) {
	var zero T
	if raw == nil {
		return zero, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return zero, err
	}
	var out T
	if err := yaml.Unmarshal(b, &out); err != nil {
		return zero, err
	}
	return out, nil
}

type PlayerSpec struct {
	Name        string          `yaml:"name"`
	Body        BodySpec        `yaml:"body"`
	Movement    MovementSpec    `yaml:"movement"`
	Footsteps   FootstepSpec    `yaml:"footsteps"`
	Condition   ConditionSpec   `yaml:"condition"`
	Camera      CameraSpec      `yaml:"camera"`
	Interaction InteractionSpec `yaml:"interaction"`
	Probe       ProbeSpec       `yaml:"probe"`
}

func LoadPlayerSpec() (*PlayerSpec, error) {
	spec, err := LoadSpec[PlayerSpec]("player.yaml")
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

type BodySpec struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Mass   float64 `yaml:"mass"`
}

type MovementSpec struct {
	Speed             float64 `yaml:"speed"`
	SprintSpeed       float64 `yaml:"sprint_speed"`
	CrouchSpeed       float64 `yaml:"crouch_speed"`
	SpeedApproachRate float64 `yaml:"speed_approach_rate"`
	JumpForce         float64 `yaml:"jump_force"`
	JumpStaminaCost   float64 `yaml:"jump_stamina_cost"`
	Gravity           float64 `yaml:"gravity"`
	GroundedBias      float64 `yaml:"grounded_bias"`
	SprintDrain       float64 `yaml:"sprint_drain"`
	SprintInterval    float64 `yaml:"sprint_interval"`
	ClimbSpeed        float64 `yaml:"climb_speed"`
	WallPush          float64 `yaml:"wall_push"`
	WalkThreshold     float64 `yaml:"walk_threshold"`
	RunThreshold      float64 `yaml:"run_threshold"`
	CrouchScale       float64 `yaml:"crouch_scale"`
	ScaleApproachRate float64 `yaml:"scale_approach_rate"`
}

type FootstepSpec struct {
	MinSpeed       float64 `yaml:"min_speed"`
	WalkInterval   float64 `yaml:"walk_interval"`
	RunInterval    float64 `yaml:"run_interval"`
	CrouchInterval float64 `yaml:"crouch_interval"`
}

type ConditionSpec struct {
	MaxHealth    float64 `yaml:"max_health"`
	MaxStamina   float64 `yaml:"max_stamina"`
	StaminaRegen float64 `yaml:"stamina_regen"`
	RegenDelay   float64 `yaml:"regen_delay"`
}

type CameraSpec struct {
	Sensitivity      float64 `yaml:"sensitivity"`
	MinPitch         float64 `yaml:"min_pitch"`
	MaxPitch         float64 `yaml:"max_pitch"`
	SettleDelay      float64 `yaml:"settle_delay"`
	ActivePriority   int     `yaml:"active_priority"`
	InactivePriority int     `yaml:"inactive_priority"`
	Start            string  `yaml:"start"`
	EyeHeight        float64 `yaml:"eye_height"`
	FollowDistance   float64 `yaml:"follow_distance"`
}

type InteractionSpec struct {
	CheckInterval float64 `yaml:"check_interval"`
	MaxDistance   float64 `yaml:"max_distance"`
}

type ProbeSpec struct {
	Ground       string    `yaml:"ground"`
	RayOffset    float64   `yaml:"ray_offset"`
	RayLift      float64   `yaml:"ray_lift"`
	RayLength    float64   `yaml:"ray_length"`
	SphereRadius float64   `yaml:"sphere_radius"`
	WallHeights  []float64 `yaml:"wall_heights"`
	WallRange    float64   `yaml:"wall_range"`
}

// EffectSpec is one consumable effect. Kind is one of health,
// invincible, infinite_stamina or double_jump.
type EffectSpec struct {
	Kind     string  `yaml:"kind"`
	Value    float64 `yaml:"value"`
	Duration float64 `yaml:"duration"`
}

type ItemSpec struct {
	ID          string       `yaml:"id"`
	Name        string       `yaml:"name"`
	Description string       `yaml:"description"`
	Weight      int          `yaml:"weight"`
	Effects     []EffectSpec `yaml:"effects"`
}

type ItemTable struct {
	Items []ItemSpec `yaml:"items"`
}

func LoadItemTable() (*ItemTable, error) {
	table, err := LoadSpec[ItemTable]("items.yaml")
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(table.Items))
	for _, it := range table.Items {
		if it.ID == "" {
			return nil, fmt.Errorf("prefabs: items.yaml: item %q has no id", it.Name)
		}
		if seen[it.ID] {
			return nil, fmt.Errorf("prefabs: items.yaml: duplicate id %q", it.ID)
		}
		seen[it.ID] = true
	}
	return &table, nil
}

func (t *ItemTable) Lookup(id string) (ItemSpec, bool) {
	if t == nil {
		return ItemSpec{}, false
	}
	for _, it := range t.Items {
		if it.ID == id {
			return it, true
		}
	}
	return ItemSpec{}, false
}

// Pick chooses an item by weight. roll must be in [0,1).
func (t *ItemTable) Pick(roll float64) (ItemSpec, bool) {
	if t == nil || len(t.Items) == 0 {
		return ItemSpec{}, false
	}
	total := 0
	for _, it := range t.Items {
		total += weight(it)
	}
	target := int(roll * float64(total))
	for _, it := range t.Items {
		target -= weight(it)
		if target < 0 {
			return it, true
		}
	}
	return t.Items[len(t.Items)-1], true
}

func weight(it ItemSpec) int {
	if it.Weight <= 0 {
		return 1
	}
	return it.Weight
}

type HUDSpec struct {
	BarWidth     float64    `yaml:"bar_width"`
	BarHeight    float64    `yaml:"bar_height"`
	HealthColor  *YAMLColor `yaml:"health_color"`
	StaminaColor *YAMLColor `yaml:"stamina_color"`
	DamageColor  *YAMLColor `yaml:"damage_color"`
	PromptColor  *YAMLColor `yaml:"prompt_color"`
}

func LoadHUDSpec() (*HUDSpec, error) {
	spec, err := LoadSpec[HUDSpec]("hud.yaml")
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

// YAMLColor decodes "#rrggbb", "#rrggbbaa" or an SVG colour name such as
// "tomato".
type YAMLColor struct {
	color.Color
}

var errColorFormat = errors.New("prefabs: colour must be #rrggbb, #rrggbbaa or a colour name")

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("%w: got a %v node", errColorFormat, value.Tag)
	}
	parsed, err := parseColor(value.Value)
	if err != nil {
		return err
	}
	c.Color = parsed
	return nil
}

func parseColor(text string) (color.Color, error) {
	text = strings.TrimSpace(text)
	if named, ok := colornames.Map[strings.ToLower(text)]; ok {
		return named, nil
	}

	digits, ok := strings.CutPrefix(text, "#")
	if !ok || (len(digits) != 6 && len(digits) != 8) {
		return nil, fmt.Errorf("%w: %q", errColorFormat, text)
	}
	if len(digits) == 6 {
		digits += "ff"
	}
	v, err := strconv.ParseUint(digits, 16, 32)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", errColorFormat, text)
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// Or returns the color, or def when unset.
func (c *YAMLColor) Or(def color.Color) color.Color {
	if c == nil || c.Color == nil {
		return def
	}
	return c.Color
}
