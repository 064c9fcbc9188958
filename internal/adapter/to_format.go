package adapter

import (
	"github.com/hexforge/hexed/internal/format"
	"github.com/hexforge/hexed/internal/session"
)

// ToFormat snapshots a session as a map value. Placements are emitted
// sorted row-major, so two sessions holding the same content produce
// identical values regardless of internal iteration order.
func ToFormat(s *session.Session) format.Map {
	placements := make([]format.Placement, 0, s.Len())
	for at, p := range s.Placements() {
		placements = append(placements, format.Placement{
			Q:    at.Q,
			R:    at.R,
			Tile: p.TileID,
			Rot:  p.Rot,
		})
	}
	format.SortPlacements(placements)

	return format.Map{
		TilesetRef: s.TilesetRef,
		Layout:     s.Layout,
		Placements: placements,
	}
}

// CatalogToFormat snapshots a catalog as a tileset value in display
// order. Runtime handles never leave the session.
func CatalogToFormat(c *session.Catalog) format.Tileset {
	tiles := make([]format.TileDefinition, 0, c.Len())
	for _, id := range c.Order() {
		if t, ok := c.Get(id); ok {
			tiles = append(tiles, t.Def)
		}
	}
	return format.Tileset{Name: c.Name, Tiles: tiles}
}
