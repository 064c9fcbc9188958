package session

import (
	"fmt"
	"strings"

	"github.com/hexforge/hexed/internal/format"
)

// MergePolicy decides what happens when an imported tileset contains a
// tile ID already present in the catalog.
type MergePolicy int

const (
	// MergeReject refuses the whole import on any collision. Default.
	MergeReject MergePolicy = iota
	// MergeRename imports colliding tiles under a suffixed ID.
	MergeRename
	// MergeOverwrite replaces the existing definition in place, keeping
	// its handle and display position.
	MergeOverwrite
)

// ParseMergePolicy maps a config string to a policy.
func ParseMergePolicy(s string) (MergePolicy, error) {
	switch strings.ToLower(s) {
	case "reject":
		return MergeReject, nil
	case "rename":
		return MergeRename, nil
	case "overwrite":
		return MergeOverwrite, nil
	default:
		return MergeReject, fmt.Errorf("unknown import conflict policy %q", s)
	}
}

// ConflictError reports an import rejected because of ID collisions.
type ConflictError struct {
	IDs []string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("tileset import conflicts with existing tile ids: %s", strings.Join(e.IDs, ", "))
}

// MergeSummary reports what an import did to the catalog.
type MergeSummary struct {
	Added       []string
	Overwritten []string
	// Renamed maps incoming ID to the ID it was imported under.
	Renamed map[string]string
}

// Merge folds an imported tileset into the catalog under the given
// policy. With MergeReject, any collision, against the catalog or
// between two incoming definitions, fails the whole import and the
// catalog is left untouched.
func (c *Catalog) Merge(incoming format.Tileset, policy MergePolicy) (MergeSummary, error) {
	summary := MergeSummary{Renamed: make(map[string]string)}

	if policy == MergeReject {
		var conflicts []string
		incomingSeen := make(map[string]struct{}, len(incoming.Tiles))
		for _, def := range incoming.Tiles {
			_, inCatalog := c.tiles[def.ID]
			_, inImport := incomingSeen[def.ID]
			if inCatalog || inImport {
				conflicts = append(conflicts, def.ID)
				continue
			}
			incomingSeen[def.ID] = struct{}{}
		}
		if len(conflicts) > 0 {
			return MergeSummary{}, &ConflictError{IDs: conflicts}
		}
	}

	for _, def := range incoming.Tiles {
		existing, exists := c.tiles[def.ID]
		switch {
		case !exists:
			if _, err := c.Add(def); err != nil {
				return summary, err
			}
			summary.Added = append(summary.Added, def.ID)
		case policy == MergeOverwrite:
			existing.Def = def
			c.tiles[def.ID] = existing
			summary.Overwritten = append(summary.Overwritten, def.ID)
		case policy == MergeRename:
			renamed := def
			renamed.ID = c.freeID(def.ID)
			if _, err := c.Add(renamed); err != nil {
				return summary, err
			}
			summary.Renamed[def.ID] = renamed.ID
		}
	}
	return summary, nil
}

// freeID finds the first unused "id-N" variant.
func (c *Catalog) freeID(id string) string {
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s-%d", id, n)
		if _, exists := c.tiles[candidate]; !exists {
			return candidate
		}
	}
}
