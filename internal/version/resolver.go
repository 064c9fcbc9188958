// Package version resolves a detected schema version to the current
// format model. Each older supported version has an explicit, pure
// upgrade step; versions outside the registered set fail with a typed,
// user-legible incompatibility instead of a generic parse error.
package version

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hexforge/hexed/internal/format"
)

// UnsupportedError reports a file whose version tag has no registered
// decode or upgrade path. This is an expected condition for a long-lived
// editor ("file from a newer tool"), so it is distinct from decode
// failures and carries the offending version.
type UnsupportedError struct {
	Kind    string // "tileset" or "map"
	Version int
	Current int
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("%s file version %d is not supported (current version is %d)", e.Kind, e.Version, e.Current)
}

// FieldError reports a recognized version whose payload is missing a
// required field or has one of the wrong shape.
type FieldError struct {
	Kind    string
	Version int
	Field   string
	Err     error
}

func (e *FieldError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s v%d: field %q: %v", e.Kind, e.Version, e.Field, e.Err)
	}
	return fmt.Sprintf("%s v%d: required field %q missing or malformed", e.Kind, e.Version, e.Field)
}

func (e *FieldError) Unwrap() error { return e.Err }

// ResolveTileset parses raw fields under the declared version and
// upgrades the result to the current schema.
func ResolveTileset(v int, raw []byte) (format.Tileset, error) {
	switch v {
	case 1:
		var ts format.TilesetV1
		if err := strictUnmarshal(raw, &ts); err != nil {
			return format.Tileset{}, wrapFieldError("tileset", v, err)
		}
		if ts.Tiles == nil {
			return format.Tileset{}, &FieldError{Kind: "tileset", Version: v, Field: "tiles"}
		}
		return tilesetFromV2(UpgradeTilesetV1(ts)), nil
	case 2:
		var ts format.TilesetV2
		if err := strictUnmarshal(raw, &ts); err != nil {
			return format.Tileset{}, wrapFieldError("tileset", v, err)
		}
		if ts.Tiles == nil {
			return format.Tileset{}, &FieldError{Kind: "tileset", Version: v, Field: "tiles"}
		}
		return tilesetFromV2(ts), nil
	default:
		return format.Tileset{}, &UnsupportedError{Kind: "tileset", Version: v, Current: format.TilesetVersion}
	}
}

// ResolveMap parses raw fields under the declared version and upgrades
// the result to the current schema.
func ResolveMap(v int, raw []byte) (format.Map, error) {
	switch v {
	case 1:
		var m format.MapV1
		if err := strictUnmarshal(raw, &m); err != nil {
			return format.Map{}, wrapFieldError("map", v, err)
		}
		if m.Tileset == "" {
			return format.Map{}, &FieldError{Kind: "map", Version: v, Field: "tileset"}
		}
		if m.Placements == nil {
			return format.Map{}, &FieldError{Kind: "map", Version: v, Field: "placements"}
		}
		return mapFromV2(UpgradeMapV1(m)), nil
	case 2:
		var m format.MapV2
		if err := strictUnmarshal(raw, &m); err != nil {
			return format.Map{}, wrapFieldError("map", v, err)
		}
		if m.Tileset == "" {
			return format.Map{}, &FieldError{Kind: "map", Version: v, Field: "tileset"}
		}
		if m.Placements == nil {
			return format.Map{}, &FieldError{Kind: "map", Version: v, Field: "placements"}
		}
		return mapFromV2(m), nil
	default:
		return format.Map{}, &UnsupportedError{Kind: "map", Version: v, Current: format.MapVersion}
	}
}

// strictUnmarshal decodes raw into dst rejecting unknown keys, so a
// well-formed file of some future schema never half-parses as an old one.
func strictUnmarshal(raw []byte, dst any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func wrapFieldError(kind string, v int, err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return &FieldError{Kind: kind, Version: v, Field: typeErr.Field, Err: err}
	}
	return &FieldError{Kind: kind, Version: v, Field: "", Err: err}
}

func tilesetFromV2(ts format.TilesetV2) format.Tileset {
	return format.Tileset{Name: ts.Name, Tiles: ts.Tiles}
}

func mapFromV2(m format.MapV2) format.Map {
	return format.Map{TilesetRef: m.Tileset, Layout: m.Layout, Placements: m.Placements}
}
