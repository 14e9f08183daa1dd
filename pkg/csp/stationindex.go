// Package csp builds the finite-domain constraint problem the solver driver
// runs: one fdcsp variable per (resident, month), domain = the set of
// station indices available to that resident in that month (spec.md §4.1).
package csp

import (
	"sort"

	"github.com/obgyn-residency/resiplan/pkg/rulebook"
)

// StationIndex assigns a stable 1-based integer to every station key across
// both models' catalogs. fdcsp domains are integer bitsets, so every station
// key needs a numeric handle; the same handle is used for a given key
// regardless of which resident's model catalog it came from, so a
// department/model-shared key (e.g. delivery_room) means the same thing to
// every variable that can hold it.
type StationIndex struct {
	keys    []string
	indexOf map[string]int
}

// NewStationIndex builds the index from the union of both model catalogs.
func NewStationIndex(book *rulebook.Rulebook) *StationIndex {
	seen := make(map[string]bool)
	var keys []string
	for _, catalog := range []map[string]rulebook.Station{book.CatalogA, book.CatalogB} {
		for k := range catalog {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	sort.Strings(keys)

	indexOf := make(map[string]int, len(keys))
	for i, k := range keys {
		indexOf[k] = i + 1
	}
	return &StationIndex{keys: keys, indexOf: indexOf}
}

// Index returns the 1-based index for a station key.
func (s *StationIndex) Index(key string) (int, bool) {
	v, ok := s.indexOf[key]
	return v, ok
}

// Key returns the station key for a 1-based index, or "" if out of range.
func (s *StationIndex) Key(index int) string {
	if index < 1 || index > len(s.keys) {
		return ""
	}
	return s.keys[index-1]
}

// Max returns the number of distinct station keys indexed.
func (s *StationIndex) Max() int {
	return len(s.keys)
}
