package format

// Current schema versions stamped at encode time. Decoders read the
// version tag before trusting any other field; older supported versions
// are upgraded step by step, and saving always emits the current one.
const (
	TilesetVersion = 2
	MapVersion     = 2
)

// TileDefV1 is the v1 tile entry: no declared attributes yet.
type TileDefV1 struct {
	ID   string `json:"id"`
	Path string `json:"path"`
}

// TilesetV1 is the v1 tileset file shape.
type TilesetV1 struct {
	Version int         `json:"version"`
	Name    string      `json:"name"`
	Tiles   []TileDefV1 `json:"tiles"`
}

// TilesetV2 is the current tileset file shape. v2 added per-tile attrs.
type TilesetV2 struct {
	Version int              `json:"version"`
	Name    string           `json:"name"`
	Tiles   []TileDefinition `json:"tiles"`
}

// MapV1 is the v1 map file shape: no layout field, placements assumed
// pointy-top with unit size.
type MapV1 struct {
	Version    int         `json:"version"`
	Tileset    string      `json:"tileset"`
	Placements []Placement `json:"placements"`
}

// MapV2 is the current map file shape. v2 added the hex layout so a
// file is self-describing.
type MapV2 struct {
	Version    int         `json:"version"`
	Tileset    string      `json:"tileset"`
	Layout     Layout      `json:"layout"`
	Placements []Placement `json:"placements"`
}
