package version

import "github.com/hexforge/hexed/internal/format"

// Upgrade steps are pure value transforms from one schema version to the
// next. Adding a schema version means adding one wire shape in format
// and one step here; resolution composes the steps in order.

// UpgradeTilesetV1 lifts a v1 tileset to v2. v1 had no per-tile
// attributes; the upgrade leaves them unset.
func UpgradeTilesetV1(ts format.TilesetV1) format.TilesetV2 {
	tiles := make([]format.TileDefinition, 0, len(ts.Tiles))
	for _, t := range ts.Tiles {
		tiles = append(tiles, format.TileDefinition{ID: t.ID, Path: t.Path})
	}
	return format.TilesetV2{
		Version: 2,
		Name:    ts.Name,
		Tiles:   tiles,
	}
}

// UpgradeMapV1 lifts a v1 map to v2. v1 files predate the layout field
// and were always pointy-top with unit hex size.
func UpgradeMapV1(m format.MapV1) format.MapV2 {
	return format.MapV2{
		Version:    2,
		Tileset:    m.Tileset,
		Layout:     format.DefaultLayout(),
		Placements: m.Placements,
	}
}
