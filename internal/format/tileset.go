// Package format defines the persistence-only value types for hex tile
// maps and tilesets, plus the versioned wire shapes for each supported
// schema version. Values here are pure data: they own no engine-side
// resources and never contain runtime handles.
package format

import "fmt"

// TileDefinition is one entry in a tileset catalog. Identity is the
// textual ID, unique within its tileset. Path references the visual
// asset by name only; asset bytes are never embedded.
type TileDefinition struct {
	ID    string            `json:"id"`
	Path  string            `json:"path"`
	Attrs map[string]string `json:"attrs,omitempty"`
}

// Tileset is an ordered catalog of tile definitions. Slice order is
// display order and is preserved across save/load; identity never
// depends on position.
type Tileset struct {
	Name  string
	Tiles []TileDefinition
}

// HasTile reports whether the catalog contains a definition with the
// given ID.
func (ts *Tileset) HasTile(id string) bool {
	for _, t := range ts.Tiles {
		if t.ID == id {
			return true
		}
	}
	return false
}

// Validate checks the tileset's local invariants and returns every
// violation found. An empty result means the value is well-formed.
func (ts *Tileset) Validate() []Violation {
	var out []Violation
	if ts.Name == "" {
		out = append(out, Violation{Field: "name", Msg: "tileset name is empty"})
	}
	seen := make(map[string]struct{}, len(ts.Tiles))
	for i, t := range ts.Tiles {
		field := fmt.Sprintf("tiles[%d]", i)
		if t.ID == "" {
			out = append(out, Violation{Field: field + ".id", Msg: "tile id is empty"})
			continue
		}
		if _, dup := seen[t.ID]; dup {
			out = append(out, Violation{Field: field + ".id", Msg: fmt.Sprintf("duplicate tile id %q", t.ID)})
		}
		seen[t.ID] = struct{}{}
		if t.Path == "" {
			out = append(out, Violation{Field: field + ".path", Msg: fmt.Sprintf("tile %q has no asset path", t.ID)})
		}
	}
	return out
}
