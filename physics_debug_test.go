package main

import (
	"image/color"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/parkour/common"
	"github.com/milk9111/parkour/physics"
)

func TestToNRGBAClamps(t *testing.T) {
	got := toNRGBA(cp.FColor{R: -1, G: 0.5, B: 2, A: 1})
	want := color.NRGBA{R: 0, G: 127, B: 255, A: 255}
	if got != want {
		t.Fatalf("toNRGBA = %+v, want %+v", got, want)
	}
}

func TestShapeColorFollowsLayer(t *testing.T) {
	w := physics.NewWorld()
	ground := w.AddBox("floor", common.V3(0, 0, 0), common.V3(1, 1, 1), common.LayerGround, physics.Static)
	pad := w.AddBox("pad", common.V3(2, 0, 0), common.V3(3, 1, 1), common.LayerTrigger, physics.Sensor)

	d := &physicsDebugDrawer{}
	colors := make(map[string]cp.FColor)
	w.Space().EachShape(func(shape *cp.Shape) {
		c, ok := shape.UserData.(*physics.Collider)
		if !ok {
			t.Fatalf("shape without a collider")
		}
		colors[c.Name] = d.ShapeColor(shape, nil)
	})
	if colors[ground.Name] != layerColor(common.LayerGround) || colors[pad.Name] != layerColor(common.LayerTrigger) {
		t.Fatalf("colors = %+v", colors)
	}
	if colors[ground.Name] == colors[pad.Name] {
		t.Fatalf("ground and trigger share a color")
	}
}
