package physics

import (
	"fmt"
	"log"

	"github.com/milk9111/parkour/common"
	"github.com/milk9111/parkour/levels"
)

// LayerForKind maps a level layer kind to query layers. Climbable tiles
// also count as ground so the player can stand on top of them.
func LayerForKind(kind string) (common.Layer, error) {
	switch kind {
	case "", "ground":
		return common.LayerGround, nil
	case "climbable":
		return common.LayerGround | common.LayerClimbable, nil
	case "hazard":
		return common.LayerHazard, nil
	default:
		return common.LayerNone, fmt.Errorf("physics: unknown layer kind %q", kind)
	}
}

// BuildLevel adds static boxes for every physical tile layer. Runs of
// solid cells are merged greedily into as few boxes as possible.
func (w *World) BuildLevel(lvl *levels.Level) (int, error) {
	if lvl == nil {
		return 0, nil
	}
	total := 0
	for i, layer := range lvl.Layers {
		meta := lvl.Meta(i)
		if !meta.Physics {
			continue
		}
		mask, err := LayerForKind(meta.Kind)
		if err != nil {
			return total, fmt.Errorf("layer %d: %w", i, err)
		}
		n := w.processLayerTiles(lvl, layer, meta, mask, fmt.Sprintf("%s/layer%d", lvl.Name, i))
		total += n
	}
	log.Printf("physics: built level %q boxes=%d", lvl.Name, total)
	return total, nil
}

func (w *World) processLayerTiles(lvl *levels.Level, layer []int, meta levels.LayerMeta, mask common.Layer, name string) int {
	width, height := lvl.Width, lvl.Height
	processed := make([]bool, width*height)
	kind := Static
	if mask == common.LayerHazard {
		kind = Sensor
	}
	count := 0

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			idx := y*width + x
			if processed[idx] {
				continue
			}
			if layer[idx] == 0 {
				processed[idx] = true
				continue
			}

			wCells := 1
			for x+wCells < width {
				idx2 := y*width + (x + wCells)
				if processed[idx2] || layer[idx2] == 0 {
					break
				}
				wCells++
			}

			hCells := 1
		heightLoop:
			for y+hCells < height {
				for xi := x; xi < x+wCells; xi++ {
					idx2 := (y+hCells)*width + xi
					if processed[idx2] || layer[idx2] == 0 {
						break heightLoop
					}
				}
				hCells++
			}

			minX, minY, maxX, maxY := lvl.CellBounds(x, y, wCells, hCells)
			w.AddBox(name,
				common.Vec3{X: minX, Y: minY, Z: meta.ZMin},
				common.Vec3{X: maxX, Y: maxY, Z: meta.ZMax},
				mask, kind)
			count++

			for yy := y; yy < y+hCells; yy++ {
				for xx := x; xx < x+wCells; xx++ {
					processed[yy*width+xx] = true
				}
			}
		}
	}
	return count
}
