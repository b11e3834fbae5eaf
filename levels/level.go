package levels

import (
	"errors"
	"fmt"
)

var ErrBadLevel = errors.New("levels: invalid level")

// Level is a side-on tile grid. Each layer is a flat row-major array of
// Width*Height cells with row 0 at the top, extruded along Z between the
// layer's ZMin and ZMax.
type Level struct {
	Name      string      `json:"name"`
	Width     int         `json:"width"`
	Height    int         `json:"height"`
	TileSize  float64     `json:"tile_size"`
	Layers    [][]int     `json:"layers"`
	LayerMeta []LayerMeta `json:"layer_meta,omitempty"`
	Spawn     Point       `json:"spawn"`
	Entities  []Entity    `json:"entities,omitempty"`
}

// LayerMeta describes how a tile layer collides.
type LayerMeta struct {
	Physics bool    `json:"physics"`
	Kind    string  `json:"kind"`
	ZMin    float64 `json:"z_min"`
	ZMax    float64 `json:"z_max"`
}

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Entity places a prop. Props carries type-specific settings.
type Entity struct {
	Type  string                 `json:"type"`
	Name  string                 `json:"name,omitempty"`
	X     float64                `json:"x"`
	Y     float64                `json:"y"`
	Z     float64                `json:"z"`
	Props map[string]interface{} `json:"props,omitempty"`
}

func (l *Level) Validate() error {
	if l.Width <= 0 || l.Height <= 0 {
		return fmt.Errorf("%w: size %dx%d", ErrBadLevel, l.Width, l.Height)
	}
	if l.TileSize <= 0 {
		l.TileSize = 1
	}
	for i, layer := range l.Layers {
		if len(layer) != l.Width*l.Height {
			return fmt.Errorf("%w: layer %d has %d cells, want %d", ErrBadLevel, i, len(layer), l.Width*l.Height)
		}
	}
	for i, m := range l.LayerMeta {
		if m.ZMax < m.ZMin {
			return fmt.Errorf("%w: layer %d depth %v..%v", ErrBadLevel, i, m.ZMin, m.ZMax)
		}
	}
	return nil
}

// Meta returns the metadata for layer i, or a non-physical default.
func (l *Level) Meta(i int) LayerMeta {
	if i < 0 || i >= len(l.LayerMeta) {
		return LayerMeta{}
	}
	return l.LayerMeta[i]
}

// CellBounds returns the world X/Y span of a w*h block of cells whose
// top-left cell is (col,row).
func (l *Level) CellBounds(col, row, w, h int) (minX, minY, maxX, maxY float64) {
	ts := l.TileSize
	minX = float64(col) * ts
	maxX = float64(col+w) * ts
	maxY = float64(l.Height-row) * ts
	minY = float64(l.Height-row-h) * ts
	return
}

func (e Entity) Float(key string, def float64) float64 {
	v, ok := e.Props[key]
	if !ok {
		return def
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	}
	return def
}

func (e Entity) Text(key, def string) string {
	if s, ok := e.Props[key].(string); ok {
		return s
	}
	return def
}

func (e Entity) Bool(key string, def bool) bool {
	if b, ok := e.Props[key].(bool); ok {
		return b
	}
	return def
}

// Vec reads a three-element array prop.
func (e Entity) Vec(key string) (Point, bool) {
	arr, ok := e.Props[key].([]interface{})
	if !ok || len(arr) != 3 {
		return Point{}, false
	}
	var out [3]float64
	for i, v := range arr {
		f, ok := v.(float64)
		if !ok {
			return Point{}, false
		}
		out[i] = f
	}
	return Point{X: out[0], Y: out[1], Z: out[2]}, true
}

func (e Entity) Position() Point {
	return Point{X: e.X, Y: e.Y, Z: e.Z}
}
