// Package adapter converts between format values and the live session
// model. It is the only bridge between stable textual tile IDs and
// session runtime handles; that translation is never persisted.
package adapter

import (
	"fmt"
	"strings"

	"github.com/hexforge/hexed/internal/format"
	"github.com/hexforge/hexed/internal/session"
	"github.com/hexforge/hexed/pkg/hex"
)

// DanglingPolicy decides what happens to a placement whose tile ID is
// absent from the tileset. Either way the condition is reported; a
// dangling reference is never a silent drop and never a hard failure.
type DanglingPolicy int

const (
	// DropDangling discards the placement with a warning.
	DropDangling DanglingPolicy = iota
	// KeepDangling keeps the placement as an unresolved sentinel: no
	// live tile, but the stable ID survives the next save.
	KeepDangling
)

// ParseDanglingPolicy maps a config string to a policy.
func ParseDanglingPolicy(s string) (DanglingPolicy, error) {
	switch strings.ToLower(s) {
	case "drop":
		return DropDangling, nil
	case "sentinel", "keep":
		return KeepDangling, nil
	default:
		return DropDangling, fmt.Errorf("unknown dangling reference policy %q", s)
	}
}

// Warning reports a recoverable condition met while materializing a
// session from format values.
type Warning struct {
	At     hex.Hex
	TileID string
	Msg    string
}

func (w Warning) String() string {
	return fmt.Sprintf("(%d,%d) %q: %s", w.At.Q, w.At.R, w.TileID, w.Msg)
}

// FromTileset materializes a catalog from a tileset value, minting a
// runtime handle per definition.
func FromTileset(ts format.Tileset) (*session.Catalog, error) {
	catalog := session.NewCatalog(ts.Name)
	for _, def := range ts.Tiles {
		if _, err := catalog.Add(def); err != nil {
			return nil, fmt.Errorf("tileset %q: %w", ts.Name, err)
		}
	}
	return catalog, nil
}

// FromFormat materializes a session from a map and the tileset it
// references. Dangling tile references are handled per policy and
// returned as warnings; the session is always usable on a nil error.
func FromFormat(m format.Map, ts format.Tileset, policy DanglingPolicy) (*session.Session, []Warning, error) {
	catalog, err := FromTileset(ts)
	if err != nil {
		return nil, nil, err
	}

	sess := session.New(catalog, m.TilesetRef)
	if m.Layout != (format.Layout{}) {
		sess.Layout = m.Layout
	}

	var warnings []Warning
	for _, p := range m.Placements {
		if _, ok := catalog.Get(p.Tile); !ok {
			w := Warning{At: p.At(), TileID: p.Tile}
			switch policy {
			case KeepDangling:
				w.Msg = "tile not in tileset; kept as unresolved placement"
				sess.PlaceUnresolved(p.At(), p.Tile, p.Rot)
			default:
				w.Msg = "tile not in tileset; placement dropped"
			}
			warnings = append(warnings, w)
			continue
		}
		if err := sess.Place(p.At(), p.Tile, p.Rot); err != nil {
			return nil, nil, fmt.Errorf("placement at (%d,%d): %w", p.Q, p.R, err)
		}
	}
	return sess, warnings, nil
}
