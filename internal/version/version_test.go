package version

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/hexforge/hexed/internal/format"
)

func TestUpgradeTilesetV1(t *testing.T) {
	v1 := format.TilesetV1{
		Version: 1,
		Name:    "terrain",
		Tiles: []format.TileDefV1{
			{ID: "grass", Path: "grass.png"},
			{ID: "water", Path: "water.png"},
		},
	}
	got := UpgradeTilesetV1(v1)

	if got.Version != format.TilesetVersion {
		t.Errorf("upgraded version = %d, want %d", got.Version, format.TilesetVersion)
	}
	want := []format.TileDefinition{
		{ID: "grass", Path: "grass.png"},
		{ID: "water", Path: "water.png"},
	}
	if diff := cmp.Diff(want, got.Tiles); diff != "" {
		t.Errorf("upgraded tiles mismatch (-want +got):\n%s", diff)
	}
}

func TestUpgradeMapV1(t *testing.T) {
	v1 := format.MapV1{
		Version: 1,
		Tileset: "terrain.tileset.json",
		Placements: []format.Placement{
			{Q: 0, R: 0, Tile: "grass"},
		},
	}
	got := UpgradeMapV1(v1)

	if got.Version != format.MapVersion {
		t.Errorf("upgraded version = %d, want %d", got.Version, format.MapVersion)
	}
	if got.Layout != format.DefaultLayout() {
		t.Errorf("upgraded layout = %+v, want default", got.Layout)
	}
	if diff := cmp.Diff(v1.Placements, got.Placements); diff != "" {
		t.Errorf("placements changed by upgrade (-want +got):\n%s", diff)
	}
}

// A v1 file and its hand-upgraded v2 equivalent must resolve to the
// same value.
func TestResolveComposesUpgrades(t *testing.T) {
	rawV1 := []byte(`{"version": 1, "name": "terrain", "tiles": [{"id": "grass", "path": "grass.png"}]}`)
	rawV2 := []byte(`{"version": 2, "name": "terrain", "tiles": [{"id": "grass", "path": "grass.png"}]}`)

	fromV1, err := ResolveTileset(1, rawV1)
	if err != nil {
		t.Fatalf("ResolveTileset(v1): %v", err)
	}
	fromV2, err := ResolveTileset(2, rawV2)
	if err != nil {
		t.Fatalf("ResolveTileset(v2): %v", err)
	}
	if diff := cmp.Diff(fromV2, fromV1); diff != "" {
		t.Errorf("v1 resolution differs from equivalent v2 (-v2 +v1):\n%s", diff)
	}
}

func TestResolveUnsupported(t *testing.T) {
	_, err := ResolveTileset(7, []byte(`{"version": 7}`))
	var unsupported *UnsupportedError
	if !errors.As(err, &unsupported) {
		t.Fatalf("error = %v, want UnsupportedError", err)
	}
	if unsupported.Current != format.TilesetVersion {
		t.Errorf("Current = %d, want %d", unsupported.Current, format.TilesetVersion)
	}

	_, err = ResolveMap(0, []byte(`{"version": 0}`))
	if !errors.As(err, &unsupported) {
		t.Errorf("version 0 map error = %v, want UnsupportedError", err)
	}
}

func TestResolveRequiredFields(t *testing.T) {
	cases := []struct {
		name      string
		resolve   func() error
		wantField string
	}{
		{
			name: "tileset v1 missing tiles",
			resolve: func() error {
				_, err := ResolveTileset(1, []byte(`{"version": 1, "name": "terrain"}`))
				return err
			},
			wantField: "tiles",
		},
		{
			name: "map v2 missing tileset",
			resolve: func() error {
				_, err := ResolveMap(2, []byte(`{"version": 2, "layout": {"orientation": "pointy", "size": 1}, "placements": []}`))
				return err
			},
			wantField: "tileset",
		},
		{
			name: "map v1 missing placements",
			resolve: func() error {
				_, err := ResolveMap(1, []byte(`{"version": 1, "tileset": "t.json"}`))
				return err
			},
			wantField: "placements",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.resolve()
			var fieldErr *FieldError
			if !errors.As(err, &fieldErr) {
				t.Fatalf("error = %v, want FieldError", err)
			}
			if fieldErr.Field != tc.wantField {
				t.Errorf("FieldError.Field = %q, want %q", fieldErr.Field, tc.wantField)
			}
		})
	}
}
