// Package codec converts format values to and from their on-disk byte
// form. The format is textual JSON, indented for human diffing, and
// encoding is deterministic: a given value always produces byte-for-byte
// identical output (fixed struct field order, sorted placements, sorted
// attribute keys).
//
// Decoding is staged. Only the version tag is parsed from the raw bytes
// first; the remaining fields are handed to the version resolver, which
// either parses them under a supported schema or fails with a typed
// incompatibility. The full current schema is never assumed up front.
package codec

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hexforge/hexed/internal/format"
	"github.com/hexforge/hexed/internal/version"
)

// ErrMalformed reports bytes that are not a recognized hexed file at
// all: invalid JSON, or JSON with no version tag. Errors from decode
// wrap it, so callers match with errors.Is.
var ErrMalformed = errors.New("malformed file")

// EncodeTileset serializes a tileset at the current schema version.
// Tiles are emitted in catalog display order.
func EncodeTileset(ts format.Tileset) ([]byte, error) {
	wire := format.TilesetV2{
		Version: format.TilesetVersion,
		Name:    ts.Name,
		Tiles:   ts.Tiles,
	}
	if wire.Tiles == nil {
		wire.Tiles = []format.TileDefinition{}
	}
	return marshal(wire)
}

// DecodeTileset parses tileset bytes of any supported schema version
// and returns the value upgraded to the current schema.
func DecodeTileset(data []byte) (format.Tileset, error) {
	v, err := Probe(data)
	if err != nil {
		return format.Tileset{}, err
	}
	return version.ResolveTileset(v, data)
}

// EncodeMap serializes a map at the current schema version. Placements
// are re-sorted row-major so output never depends on editor iteration
// order; the caller's slice is left untouched.
func EncodeMap(m format.Map) ([]byte, error) {
	placements := append([]format.Placement(nil), m.Placements...)
	format.SortPlacements(placements)
	if placements == nil {
		placements = []format.Placement{}
	}

	layout := m.Layout
	if layout == (format.Layout{}) {
		layout = format.DefaultLayout()
	}

	wire := format.MapV2{
		Version:    format.MapVersion,
		Tileset:    m.TilesetRef,
		Layout:     layout,
		Placements: placements,
	}
	return marshal(wire)
}

// DecodeMap parses map bytes of any supported schema version and
// returns the value upgraded to the current schema.
func DecodeMap(data []byte) (format.Map, error) {
	v, err := Probe(data)
	if err != nil {
		return format.Map{}, err
	}
	return version.ResolveMap(v, data)
}

// Probe reads only the version tag from file bytes. It distinguishes
// "not our format" (ErrMalformed) from everything that comes later in
// the pipeline.
func Probe(data []byte) (int, error) {
	var head struct {
		Version *int `json:"version"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if head.Version == nil {
		return 0, fmt.Errorf("%w: no version tag", ErrMalformed)
	}
	return *head.Version, nil
}

func marshal(v any) ([]byte, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding: %w", err)
	}
	return append(b, '\n'), nil
}
