package props

import (
	"fmt"
	"log"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/parkour/common"
	"github.com/milk9111/parkour/condition"
	"github.com/milk9111/parkour/levels"
	"github.com/milk9111/parkour/physics"
	"github.com/milk9111/parkour/prefabs"
)

// Scripts define a global `prompt` plus onInit(engine, state) and
// onInteract(engine, state). state persists between calls.
const propDispatchScript = `
if __phase == "init" {
	onInit(__engine, __state)
} else if __phase == "interact" {
	onInteract(__engine, __state)
}
`

// ScriptedProp is an interactable whose behaviour lives in a tengo script.
type ScriptedProp struct {
	Name   string
	Script string

	s        *Set
	collider *physics.Collider
	compiled *tengo.Compiled
	state    *tengo.Map
	prompt   string
	consumed bool
}

func addScriptedProp(s *Set, e levels.Entity) error {
	p := &ScriptedProp{
		Name:   e.Name,
		Script: e.Text("script", e.Name),
		s:      s,
	}
	if err := p.Reload(); err != nil {
		return err
	}
	min, max := footprint(e, common.Vec3{X: 1, Y: 1, Z: 1})
	p.collider = s.deps.World.AddBox(e.Name, min, max, common.LayerInteractable, physics.Sensor)
	p.collider.Owner = p
	s.scripted = append(s.scripted, p)
	return nil
}

// Reload recompiles the script and runs onInit with fresh state.
func (p *ScriptedProp) Reload() error {
	src, err := prefabs.LoadScript(p.Script)
	if err != nil {
		return fmt.Errorf("props: script %q: %w", p.Script, err)
	}
	script := tengo.NewScript([]byte(string(src) + "\n" + propDispatchScript))
	_ = script.Add("__phase", "")
	_ = script.Add("__engine", map[string]any{})
	_ = script.Add("__state", map[string]any{})
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return fmt.Errorf("props: compile %q: %w", p.Script, err)
	}
	p.compiled = compiled
	p.state = &tengo.Map{Value: map[string]tengo.Object{}}
	p.consumed = false
	p.prompt = ""

	var effects []condition.Effect
	if err := p.run("init", &effects); err != nil {
		return err
	}
	if compiled.IsDefined("prompt") && p.prompt == "" {
		p.prompt = strings.TrimSpace(compiled.Get("prompt").String())
	}
	return nil
}

func (p *ScriptedProp) Prompt() string { return p.prompt }

func (p *ScriptedProp) Interact() {
	if p.consumed || p.compiled == nil {
		return
	}
	var effects []condition.Effect
	if err := p.run("interact", &effects); err != nil {
		log.Printf("props: script %s: %v", p.Script, err)
		return
	}
	if len(effects) == 0 {
		return
	}
	if err := p.s.deps.Condition.ApplyConsumable(effects); err != nil {
		log.Printf("props: script %s: %v", p.Script, err)
	}
}

func (p *ScriptedProp) Consumed() bool { return p.consumed }

func (p *ScriptedProp) run(phase string, effects *[]condition.Effect) error {
	if err := p.compiled.Set("__phase", phase); err != nil {
		return err
	}
	if err := p.compiled.Set("__engine", p.engine(effects)); err != nil {
		return err
	}
	if err := p.compiled.Set("__state", p.state); err != nil {
		return err
	}
	if err := p.compiled.Run(); err != nil {
		return fmt.Errorf("props: run %q %s: %w", p.Script, phase, err)
	}
	return nil
}

func (p *ScriptedProp) engine(effects *[]condition.Effect) *tengo.ImmutableMap {
	values := map[string]tengo.Object{}

	values["apply"] = &tengo.UserFunction{Name: "apply", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return tengo.FalseValue, nil
		}
		name, _ := tengo.ToString(args[0])
		kind, err := condition.ParseEffectKind(name)
		if err != nil {
			return tengo.FalseValue, nil
		}
		e := condition.Effect{Kind: kind}
		if len(args) > 1 {
			e.Value, _ = tengo.ToFloat64(args[1])
		}
		if len(args) > 2 {
			e.Duration, _ = tengo.ToFloat64(args[2])
		}
		*effects = append(*effects, e)
		return tengo.TrueValue, nil
	}}

	values["consume"] = &tengo.UserFunction{Name: "consume", Value: func(args ...tengo.Object) (tengo.Object, error) {
		p.consumed = true
		return tengo.TrueValue, nil
	}}

	values["set_prompt"] = &tengo.UserFunction{Name: "set_prompt", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return tengo.FalseValue, nil
		}
		s, _ := tengo.ToString(args[0])
		p.prompt = s
		return tengo.TrueValue, nil
	}}

	values["log"] = &tengo.UserFunction{Name: "log", Value: func(args ...tengo.Object) (tengo.Object, error) {
		parts := make([]string, 0, len(args))
		for _, a := range args {
			s, _ := tengo.ToString(a)
			parts = append(parts, s)
		}
		log.Printf("props: %s: %s", p.Name, strings.Join(parts, " "))
		return tengo.UndefinedValue, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}
