package session

import (
	"fmt"

	"github.com/hexforge/hexed/internal/format"
	"github.com/hexforge/hexed/pkg/hex"
)

// Placement is one tile instance in the live model. TileID is the
// stable reference that gets persisted; Handle is the session-local
// resolution of that ID, HandleNone when the definition is missing
// (sentinel placements survive a round-trip without data loss).
type Placement struct {
	Handle Handle
	TileID string
	Rot    hex.Rotation
}

// Session is the live editable model for one open map: a catalog, the
// tileset reference the map was loaded against, and placements keyed by
// coordinate. At most one placement exists per coordinate; placing over
// an occupied hex replaces it.
type Session struct {
	Catalog    *Catalog
	TilesetRef string
	Layout     format.Layout

	placements map[hex.Hex]Placement
}

// New creates an empty session around a catalog.
func New(catalog *Catalog, tilesetRef string) *Session {
	return &Session{
		Catalog:    catalog,
		TilesetRef: tilesetRef,
		Layout:     format.DefaultLayout(),
		placements: make(map[hex.Hex]Placement),
	}
}

// Place puts a tile at a coordinate, resolving the ID through the
// catalog. Last write wins on an occupied hex.
func (s *Session) Place(at hex.Hex, tileID string, rot hex.Rotation) error {
	tile, ok := s.Catalog.Get(tileID)
	if !ok {
		return fmt.Errorf("unknown tile id %q", tileID)
	}
	if !rot.Valid() {
		return fmt.Errorf("rotation %d out of range", rot)
	}
	s.placements[at] = Placement{Handle: tile.Handle, TileID: tileID, Rot: rot}
	return nil
}

// PlaceUnresolved records a placement whose tile ID has no catalog
// definition. Used by the adapter's sentinel policy; the stable ID is
// kept so the placement re-saves unchanged.
func (s *Session) PlaceUnresolved(at hex.Hex, tileID string, rot hex.Rotation) {
	s.placements[at] = Placement{Handle: HandleNone, TileID: tileID, Rot: rot}
}

// Remove clears a coordinate. Removing an empty hex is a no-op.
func (s *Session) Remove(at hex.Hex) {
	delete(s.placements, at)
}

// At returns the placement at a coordinate.
func (s *Session) At(at hex.Hex) (Placement, bool) {
	p, ok := s.placements[at]
	return p, ok
}

// Len returns the number of placements.
func (s *Session) Len() int {
	return len(s.placements)
}

// Placements returns a copy of the placement table. Iteration order is
// unspecified; persistence sorts before emission.
func (s *Session) Placements() map[hex.Hex]Placement {
	out := make(map[hex.Hex]Placement, len(s.placements))
	for at, p := range s.placements {
		out[at] = p
	}
	return out
}
