package session

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/hexforge/hexed/internal/format"
	"github.com/hexforge/hexed/pkg/hex"
)

func testCatalog(t *testing.T) *Catalog {
	t.Helper()
	c := NewCatalog("terrain")
	for _, def := range []format.TileDefinition{
		{ID: "grass", Path: "grass.png"},
		{ID: "water", Path: "water.png"},
		{ID: "rock", Path: "rock.png"},
	} {
		if _, err := c.Add(def); err != nil {
			t.Fatalf("Add(%q): %v", def.ID, err)
		}
	}
	return c
}

func TestCatalogAdd(t *testing.T) {
	c := testCatalog(t)

	if c.Len() != 3 {
		t.Errorf("Len = %d, want 3", c.Len())
	}

	grass, ok := c.Get("grass")
	if !ok {
		t.Fatal("Get(grass) not found")
	}
	if grass.Handle == HandleNone {
		t.Error("minted handle is HandleNone")
	}

	byHandle, ok := c.ByHandle(grass.Handle)
	if !ok || byHandle.Def.ID != "grass" {
		t.Errorf("ByHandle(%d) = %+v, %v", grass.Handle, byHandle, ok)
	}

	if _, err := c.Add(format.TileDefinition{ID: "grass", Path: "other.png"}); err == nil {
		t.Error("adding a duplicate id should fail")
	}
	if _, err := c.Add(format.TileDefinition{Path: "anon.png"}); err == nil {
		t.Error("adding an empty id should fail")
	}
}

func TestCatalogHandlesAreDistinct(t *testing.T) {
	c := testCatalog(t)
	seen := make(map[Handle]string)
	for _, id := range c.Order() {
		tile, _ := c.Get(id)
		if prev, dup := seen[tile.Handle]; dup {
			t.Errorf("handle %d shared by %q and %q", tile.Handle, prev, id)
		}
		seen[tile.Handle] = id
	}
}

func TestCatalogReorder(t *testing.T) {
	c := testCatalog(t)

	if err := c.Reorder([]string{"rock", "grass", "water"}); err != nil {
		t.Fatalf("Reorder: %v", err)
	}
	if diff := cmp.Diff([]string{"rock", "grass", "water"}, c.Order()); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}

	// Identity is untouched by reordering.
	grass, ok := c.Get("grass")
	if !ok || grass.Def.Path != "grass.png" {
		t.Errorf("Get(grass) after reorder = %+v, %v", grass, ok)
	}

	if err := c.Reorder([]string{"rock", "grass"}); err == nil {
		t.Error("short reorder should fail")
	}
	if err := c.Reorder([]string{"rock", "grass", "lava"}); err == nil {
		t.Error("reorder with unknown id should fail")
	}
	if err := c.Reorder([]string{"rock", "rock", "grass"}); err == nil {
		t.Error("reorder with duplicate id should fail")
	}
}

func TestMergeRejectIsAtomic(t *testing.T) {
	c := testCatalog(t)
	incoming := format.Tileset{Name: "extra", Tiles: []format.TileDefinition{
		{ID: "sand", Path: "sand.png"},
		{ID: "grass", Path: "other-grass.png"},
	}}

	_, err := c.Merge(incoming, MergeReject)
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("Merge error = %v, want ConflictError", err)
	}
	if diff := cmp.Diff([]string{"grass"}, conflict.IDs); diff != "" {
		t.Errorf("conflict ids mismatch (-want +got):\n%s", diff)
	}

	// Nothing was imported, not even the non-conflicting tile.
	if c.Len() != 3 {
		t.Errorf("Len after rejected merge = %d, want 3", c.Len())
	}
	if _, ok := c.Get("sand"); ok {
		t.Error("rejected merge partially imported tiles")
	}
}

// A duplicate id inside the incoming tileset is a collision like any
// other: the import fails whole, it is never half-applied.
func TestMergeRejectsDuplicateWithinImport(t *testing.T) {
	c := testCatalog(t)
	incoming := format.Tileset{Name: "extra", Tiles: []format.TileDefinition{
		{ID: "sand", Path: "sand.png"},
		{ID: "sand", Path: "other-sand.png"},
	}}

	_, err := c.Merge(incoming, MergeReject)
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("Merge error = %v, want ConflictError", err)
	}
	if diff := cmp.Diff([]string{"sand"}, conflict.IDs); diff != "" {
		t.Errorf("conflict ids mismatch (-want +got):\n%s", diff)
	}
	if _, ok := c.Get("sand"); ok {
		t.Error("rejected merge imported the first copy of the duplicate")
	}
	if c.Len() != 3 {
		t.Errorf("Len after rejected merge = %d, want 3", c.Len())
	}
}

func TestMergeRename(t *testing.T) {
	c := testCatalog(t)
	incoming := format.Tileset{Name: "extra", Tiles: []format.TileDefinition{
		{ID: "grass", Path: "other-grass.png"},
		{ID: "sand", Path: "sand.png"},
	}}

	summary, err := c.Merge(incoming, MergeRename)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if diff := cmp.Diff(map[string]string{"grass": "grass-2"}, summary.Renamed); diff != "" {
		t.Errorf("renamed mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"sand"}, summary.Added); diff != "" {
		t.Errorf("added mismatch (-want +got):\n%s", diff)
	}

	renamed, ok := c.Get("grass-2")
	if !ok || renamed.Def.Path != "other-grass.png" {
		t.Errorf("Get(grass-2) = %+v, %v", renamed, ok)
	}
	original, _ := c.Get("grass")
	if original.Def.Path != "grass.png" {
		t.Errorf("original grass overwritten by rename merge: %+v", original)
	}

	// A second colliding import picks the next free suffix.
	if _, err := c.Merge(incoming, MergeRename); err != nil {
		t.Fatalf("second Merge: %v", err)
	}
	if _, ok := c.Get("grass-3"); !ok {
		t.Error("second rename merge should import grass-3")
	}
}

func TestMergeOverwrite(t *testing.T) {
	c := testCatalog(t)
	before, _ := c.Get("grass")

	summary, err := c.Merge(format.Tileset{Name: "extra", Tiles: []format.TileDefinition{
		{ID: "grass", Path: "new-grass.png"},
	}}, MergeOverwrite)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if diff := cmp.Diff([]string{"grass"}, summary.Overwritten); diff != "" {
		t.Errorf("overwritten mismatch (-want +got):\n%s", diff)
	}

	after, _ := c.Get("grass")
	if after.Def.Path != "new-grass.png" {
		t.Errorf("definition not overwritten: %+v", after.Def)
	}
	if after.Handle != before.Handle {
		t.Errorf("overwrite changed handle %d to %d", before.Handle, after.Handle)
	}
	if diff := cmp.Diff([]string{"grass", "water", "rock"}, c.Order()); diff != "" {
		t.Errorf("overwrite changed display order (-want +got):\n%s", diff)
	}
}

func TestParseMergePolicy(t *testing.T) {
	cases := []struct {
		in   string
		want MergePolicy
		ok   bool
	}{
		{"reject", MergeReject, true},
		{"Rename", MergeRename, true},
		{"OVERWRITE", MergeOverwrite, true},
		{"merge", MergeReject, false},
	}
	for _, tc := range cases {
		got, err := ParseMergePolicy(tc.in)
		if (err == nil) != tc.ok {
			t.Errorf("ParseMergePolicy(%q) error = %v, want ok=%v", tc.in, err, tc.ok)
			continue
		}
		if tc.ok && got != tc.want {
			t.Errorf("ParseMergePolicy(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestPlaceLastWriteWins(t *testing.T) {
	s := New(testCatalog(t), "terrain.tileset.json")
	at := hex.Hex{Q: 2, R: -1}

	if err := s.Place(at, "grass", hex.RotationNone); err != nil {
		t.Fatalf("Place: %v", err)
	}
	if err := s.Place(at, "water", hex.RotationClockwise120); err != nil {
		t.Fatalf("Place: %v", err)
	}

	p, ok := s.At(at)
	if !ok {
		t.Fatal("placement missing after Place")
	}
	if p.TileID != "water" || p.Rot != hex.RotationClockwise120 {
		t.Errorf("placement = %+v, want water rotated 120", p)
	}
	if s.Len() != 1 {
		t.Errorf("Len = %d, want 1", s.Len())
	}
}

func TestPlaceRejectsUnknownAndInvalid(t *testing.T) {
	s := New(testCatalog(t), "terrain.tileset.json")
	if err := s.Place(hex.Hex{}, "lava", hex.RotationNone); err == nil {
		t.Error("Place with unknown tile should fail")
	}
	if err := s.Place(hex.Hex{}, "grass", 6); err == nil {
		t.Error("Place with out-of-range rotation should fail")
	}
	if s.Len() != 0 {
		t.Errorf("failed placements mutated the session: Len = %d", s.Len())
	}
}

func TestRemove(t *testing.T) {
	s := New(testCatalog(t), "terrain.tileset.json")
	at := hex.Hex{Q: 0, R: 0}
	if err := s.Place(at, "grass", hex.RotationNone); err != nil {
		t.Fatalf("Place: %v", err)
	}

	s.Remove(at)
	if _, ok := s.At(at); ok {
		t.Error("placement still present after Remove")
	}

	// Removing an empty hex is a no-op.
	s.Remove(hex.Hex{Q: 9, R: 9})
	if s.Len() != 0 {
		t.Errorf("Len = %d, want 0", s.Len())
	}
}

func TestPlaceUnresolvedKeepsID(t *testing.T) {
	s := New(testCatalog(t), "terrain.tileset.json")
	at := hex.Hex{Q: 1, R: 1}
	s.PlaceUnresolved(at, "lava", hex.RotationClockwise60)

	p, ok := s.At(at)
	if !ok {
		t.Fatal("unresolved placement missing")
	}
	if p.Handle != HandleNone {
		t.Errorf("unresolved placement handle = %d, want HandleNone", p.Handle)
	}
	if p.TileID != "lava" {
		t.Errorf("unresolved placement id = %q, want lava", p.TileID)
	}
}
