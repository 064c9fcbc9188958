package format

import (
	"fmt"
	"sort"

	"github.com/hexforge/hexed/pkg/hex"
)

// Hex layout orientations.
const (
	OrientationPointy = "pointy"
	OrientationFlat   = "flat"
)

// Layout describes how hex coordinates map to world space. It is stored
// with the map so a file is self-describing.
type Layout struct {
	Orientation string  `json:"orientation"`
	Size        float64 `json:"size"`
}

// DefaultLayout is the layout assumed by files that predate the layout
// field (map schema v1).
func DefaultLayout() Layout {
	return Layout{Orientation: OrientationPointy, Size: 1.0}
}

// Placement is one tile instance on the grid. Tile references a
// TileDefinition by its stable ID, never by a runtime handle.
type Placement struct {
	Q    int          `json:"q"`
	R    int          `json:"r"`
	Tile string       `json:"tile"`
	Rot  hex.Rotation `json:"rot"`
}

// At returns the placement's grid coordinate.
func (p Placement) At() hex.Hex {
	return hex.Hex{Q: p.Q, R: p.R}
}

// Map is the persistence value for one hex map. TilesetRef names the
// tileset file the map depends on; the tileset is never inlined.
type Map struct {
	TilesetRef string
	Layout     Layout
	Placements []Placement
}

// SortPlacements orders placements row-major (R, then Q). Encoding
// always emits this order regardless of how the editor iterated.
func SortPlacements(ps []Placement) {
	sort.Slice(ps, func(i, j int) bool {
		return ps[i].At().Less(ps[j].At())
	})
}

// Validate checks the map's local invariants and returns every
// violation found. Dangling tileset references are a cross-file concern
// and are checked by the adapter, not here.
func (m *Map) Validate() []Violation {
	var out []Violation
	if m.TilesetRef == "" {
		out = append(out, Violation{Field: "tileset", Msg: "map has no tileset reference"})
	}
	switch m.Layout.Orientation {
	case OrientationPointy, OrientationFlat:
	default:
		out = append(out, Violation{Field: "layout.orientation", Msg: fmt.Sprintf("unknown orientation %q", m.Layout.Orientation)})
	}
	if m.Layout.Size <= 0 {
		out = append(out, Violation{Field: "layout.size", Msg: "layout size must be positive"})
	}
	seen := make(map[hex.Hex]struct{}, len(m.Placements))
	for i, p := range m.Placements {
		field := fmt.Sprintf("placements[%d]", i)
		if p.Tile == "" {
			out = append(out, Violation{Field: field + ".tile", Msg: "placement has no tile id"})
		}
		if !p.Rot.Valid() {
			out = append(out, Violation{Field: field + ".rot", Msg: fmt.Sprintf("rotation %d out of range", p.Rot)})
		}
		if _, dup := seen[p.At()]; dup {
			out = append(out, Violation{Field: field, Msg: fmt.Sprintf("duplicate placement at (%d,%d)", p.Q, p.R)})
		}
		seen[p.At()] = struct{}{}
	}
	return out
}
