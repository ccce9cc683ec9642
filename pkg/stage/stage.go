// Package stage defines metadata helpers for board stages (columns).
package stage

import (
	"fmt"
	"sort"
	"strings"
)

// MaxNameLength bounds stage names so column headers stay renderable.
const MaxNameLength = 40

// ValidateName checks a stage name is usable as an identifier and header.
func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fmt.Errorf("stage: name cannot be empty")
	}
	if trimmed != name {
		return fmt.Errorf("stage: name %q has surrounding whitespace", name)
	}
	if len(name) > MaxNameLength {
		return fmt.Errorf("stage: name %q exceeds %d characters", name, MaxNameLength)
	}
	if strings.ContainsAny(name, "\n\t") {
		return fmt.Errorf("stage: name %q contains control characters", name)
	}
	return nil
}

// DefaultMetas is the board seeded on first run when no config overrides it.
func DefaultMetas() []Meta {
	return []Meta{
		{Name: "Todo", Order: 0},
		{Name: "Doing", Order: 1},
		{Name: "Done", Order: 2},
	}
}

// SortMetas orders metas by Order, keeping insertion order for ties.
func SortMetas(metas []Meta) {
	sort.SliceStable(metas, func(a, b int) bool {
		return metas[a].Order < metas[b].Order
	})
}

// NormalizeOrders rewrites Order values to be dense (0..n-1) in the current
// sorted order.
func NormalizeOrders(metas []Meta) {
	SortMetas(metas)
	for i := range metas {
		metas[i].Order = i
	}
}

// IndexOf returns the position of the named stage in metas, or -1.
func IndexOf(metas []Meta, name string) int {
	for i, m := range metas {
		if m.Name == name {
			return i
		}
	}
	return -1
}

// MetaFor returns the meta for the named stage, or a bare Meta carrying just
// the name when the stage is not in the catalog.
func MetaFor(metas []Meta, name string) Meta {
	if i := IndexOf(metas, name); i >= 0 {
		return metas[i]
	}
	return Meta{Name: name}
}

// Names projects the meta list to stage names in order.
func Names(metas []Meta) []string {
	names := make([]string, 0, len(metas))
	for _, m := range metas {
		names = append(names, m.Name)
	}
	return names
}
