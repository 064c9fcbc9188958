// Package session holds the live editable model: the tile catalog and
// the placements on the grid. A session is owned by the interactive
// loop; background work never mutates it. Runtime handles minted here
// exist only for the life of the session and are never persisted.
package session

import (
	"fmt"

	"github.com/hexforge/hexed/internal/format"
)

// Handle identifies a catalog tile within a live session. Handle values
// are unstable across runs; save files always reference tiles by their
// textual ID. HandleNone marks a placement whose definition could not
// be resolved.
type Handle int

const HandleNone Handle = 0

// Tile pairs a runtime handle with its definition.
type Tile struct {
	Handle Handle
	Def    format.TileDefinition
}

// Catalog is the session's tile library: definitions keyed by stable ID
// plus a display order the UI may rearrange. Reordering is reflected on
// save but never changes tile identity.
type Catalog struct {
	Name  string
	tiles map[string]Tile
	order []string
	next  Handle
}

// NewCatalog creates an empty catalog.
func NewCatalog(name string) *Catalog {
	return &Catalog{
		Name:  name,
		tiles: make(map[string]Tile),
	}
}

// Add appends a definition to the catalog, minting a fresh handle.
// Tile IDs are unique within a catalog.
func (c *Catalog) Add(def format.TileDefinition) (Handle, error) {
	if def.ID == "" {
		return HandleNone, fmt.Errorf("tile id is empty")
	}
	if _, exists := c.tiles[def.ID]; exists {
		return HandleNone, fmt.Errorf("duplicate tile id %q", def.ID)
	}
	c.next++
	t := Tile{Handle: c.next, Def: def}
	c.tiles[def.ID] = t
	c.order = append(c.order, def.ID)
	return t.Handle, nil
}

// Get returns the tile for a stable ID.
func (c *Catalog) Get(id string) (Tile, bool) {
	t, ok := c.tiles[id]
	return t, ok
}

// ByHandle returns the tile for a runtime handle.
func (c *Catalog) ByHandle(h Handle) (Tile, bool) {
	for _, t := range c.tiles {
		if t.Handle == h {
			return t, true
		}
	}
	return Tile{}, false
}

// Len returns the number of tiles in the catalog.
func (c *Catalog) Len() int {
	return len(c.tiles)
}

// Order returns the display order as a copy.
func (c *Catalog) Order() []string {
	return append([]string(nil), c.order...)
}

// Reorder replaces the display order. The new order must be a
// permutation of the current tile IDs.
func (c *Catalog) Reorder(ids []string) error {
	if len(ids) != len(c.order) {
		return fmt.Errorf("reorder: got %d ids, catalog has %d", len(ids), len(c.order))
	}
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := c.tiles[id]; !ok {
			return fmt.Errorf("reorder: unknown tile id %q", id)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("reorder: duplicate tile id %q", id)
		}
		seen[id] = struct{}{}
	}
	c.order = append(c.order[:0], ids...)
	return nil
}
