package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/hexforge/hexed/internal/codec"
	"github.com/hexforge/hexed/internal/format"
	"github.com/hexforge/hexed/internal/util"
)

type fileKind int

const (
	kindUnknown fileKind = iota
	kindMap
	kindTileset
)

// sniffKind tells maps from tilesets by their distinguishing keys. Map
// files carry a tileset reference, tileset files carry a tile list.
func sniffKind(data []byte) fileKind {
	var probe struct {
		Tileset *string          `json:"tileset"`
		Tiles   *json.RawMessage `json:"tiles"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return kindUnknown
	}
	switch {
	case probe.Tileset != nil:
		return kindMap
	case probe.Tiles != nil:
		return kindTileset
	default:
		return kindUnknown
	}
}

func cmdValidate(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("validate: no files given")
	}
	bad := 0
	for _, path := range args {
		violations, err := validateFile(path)
		if err != nil {
			fmt.Printf("%s: %v\n", path, err)
			bad++
			continue
		}
		if len(violations) == 0 {
			fmt.Printf("%s: ok\n", path)
			continue
		}
		bad++
		for _, v := range violations {
			fmt.Printf("%s: %s\n", path, v)
		}
	}
	if bad > 0 {
		return fmt.Errorf("%d of %d files failed validation", bad, len(args))
	}
	return nil
}

func validateFile(path string) ([]format.Violation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch sniffKind(data) {
	case kindMap:
		m, err := codec.DecodeMap(data)
		if err != nil {
			return nil, err
		}
		return m.Validate(), nil
	case kindTileset:
		ts, err := codec.DecodeTileset(data)
		if err != nil {
			return nil, err
		}
		return ts.Validate(), nil
	default:
		return nil, fmt.Errorf("not a map or tileset file")
	}
}

func cmdUpgrade(args []string) error {
	fs := flag.NewFlagSet("upgrade", flag.ContinueOnError)
	out := fs.String("o", "", "output path (default: rewrite in place)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("upgrade: exactly one file expected")
	}
	path := fs.Arg(0)
	target := *out
	if target == "" {
		target = path
	}

	encoded, version, err := rewriteCanonical(path)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := util.WriteFileAtomic(target, encoded); err != nil {
		return fmt.Errorf("%s: %w", target, err)
	}
	fmt.Printf("%s: version %d -> %s\n", path, version, target)
	return nil
}

func cmdFmt(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("fmt: no files given")
	}
	for _, path := range args {
		encoded, _, err := rewriteCanonical(path)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if err := util.WriteFileAtomic(path, encoded); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	return nil
}

// rewriteCanonical decodes a file, which lifts it to the current
// schema version, and re-encodes it in canonical form. Returns the
// encoded bytes and the version the file was read at.
func rewriteCanonical(path string) ([]byte, int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, err
	}
	version, err := codec.Probe(data)
	if err != nil {
		return nil, 0, err
	}
	switch sniffKind(data) {
	case kindMap:
		m, err := codec.DecodeMap(data)
		if err != nil {
			return nil, 0, err
		}
		encoded, err := codec.EncodeMap(m)
		return encoded, version, err
	case kindTileset:
		ts, err := codec.DecodeTileset(data)
		if err != nil {
			return nil, 0, err
		}
		encoded, err := codec.EncodeTileset(ts)
		return encoded, version, err
	default:
		return nil, 0, fmt.Errorf("not a map or tileset file")
	}
}

func cmdInfo(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("info: no files given")
	}
	for _, path := range args {
		if err := printInfo(path); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	return nil
}

func printInfo(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	version, err := codec.Probe(data)
	if err != nil {
		return err
	}
	switch sniffKind(data) {
	case kindMap:
		m, err := codec.DecodeMap(data)
		if err != nil {
			return err
		}
		fmt.Printf("%s: map, version %d, tileset %q, %s layout, %d placements\n",
			path, version, m.TilesetRef, m.Layout.Orientation, len(m.Placements))
	case kindTileset:
		ts, err := codec.DecodeTileset(data)
		if err != nil {
			return err
		}
		fmt.Printf("%s: tileset, version %d, name %q, %d tiles\n",
			path, version, ts.Name, len(ts.Tiles))
	default:
		return fmt.Errorf("not a map or tileset file")
	}
	return nil
}
