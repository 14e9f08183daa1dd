package rulebook

import (
	"fmt"
	"time"
)

// Model names the two supported program variants (spec.md §3).
type Model int

const (
	ModelA Model = iota
	ModelB
)

func (m Model) String() string {
	if m == ModelA {
		return "A"
	}
	return "B"
}

// Department names the two eligibility tracks a resident belongs to.
type Department int

const (
	DeptA Department = iota
	DeptB
)

// Rulebook is an immutable snapshot of every rule the constraint builder,
// validator, and capacity analyzer are parameterized by. It is produced by
// ProgramConfiguration.Snapshot and never mutated afterward (spec.md §4.5,
// §9 "global mutable rulebook -> snapshotted immutable view").
type Rulebook struct {
	CatalogA map[string]Station
	CatalogB map[string]Station

	PrecedencePairs   []PrecedencePair
	BeforeStageA      map[string]bool
	AfterStageA       map[string]bool
	PreferAfterStageA map[string]bool
	NoSplitAllowed    map[string]bool

	StageAMonths     map[time.Month]bool // allowed calendar months
	StageBMonths     map[time.Month]bool
	StageAMinElapsed int // stage_a_min_months
	StageAMaxElapsed int // stage_a_max_months
	StageBMinFromEnd int
	StageBMaxFromEnd int

	BaseMonths map[Model]int

	MaternityLeaveDeductionLimit int
	DepartmentBaseMonths         int
}

// Catalog returns the station catalog for the given model.
func (r *Rulebook) Catalog(m Model) map[string]Station {
	if m == ModelA {
		return r.CatalogA
	}
	return r.CatalogB
}

// Station looks up a station by key within a model's catalog.
func (r *Rulebook) Station(m Model, key string) (Station, bool) {
	s, ok := r.Catalog(m)[key]
	return s, ok
}

// PrecedencePairsFor returns only the precedence pairs whose both stations
// exist in the given model's catalog (the basic_sciences pair is silently
// absent from Model B, which has no basic_sciences station).
func (r *Rulebook) PrecedencePairsFor(m Model) []PrecedencePair {
	catalog := r.Catalog(m)
	var out []PrecedencePair
	for _, p := range r.PrecedencePairs {
		if _, ok := catalog[p.Before]; !ok {
			continue
		}
		if _, ok := catalog[p.After]; !ok {
			continue
		}
		out = append(out, p)
	}
	return out
}

// ExcludedStationsFor returns, within catalog, the set of station keys
// barred to a resident of department dept per each Station's DepartmentOnly
// filter.
func ExcludedStationsFor(catalog map[string]Station, dept Department) map[string]bool {
	excluded := make(map[string]bool)
	for key, s := range catalog {
		if s.ExcludedFor(dept) {
			excluded[key] = true
		}
	}
	return excluded
}

// Validate checks the rulebook's invariants (spec.md §3 Rulebook).
func (r *Rulebook) Validate() error {
	for _, catalog := range []map[string]Station{r.CatalogA, r.CatalogB} {
		for key, s := range catalog {
			if s.Key != key {
				return fmt.Errorf("rulebook: catalog entry key %q does not match station.Key %q", key, s.Key)
			}
			if err := s.Validate(); err != nil {
				return err
			}
		}
	}
	for _, p := range r.PrecedencePairs {
		found := false
		for _, catalog := range []map[string]Station{r.CatalogA, r.CatalogB} {
			_, okBefore := catalog[p.Before]
			_, okAfter := catalog[p.After]
			found = found || (okBefore && okAfter)
		}
		if !found {
			return fmt.Errorf("rulebook: precedence pair (%q, %q) names a station absent from every model", p.Before, p.After)
		}
	}
	if len(r.StageAMonths) == 0 {
		return fmt.Errorf("rulebook: stage A allowed months must be non-empty")
	}
	if len(r.StageBMonths) == 0 {
		return fmt.Errorf("rulebook: stage B allowed months must be non-empty")
	}
	if r.StageAMinElapsed > r.StageAMaxElapsed {
		return fmt.Errorf("rulebook: stage A elapsed window [%d,%d] is empty", r.StageAMinElapsed, r.StageAMaxElapsed)
	}
	if r.StageBMinFromEnd > r.StageBMaxFromEnd {
		return fmt.Errorf("rulebook: stage B from-end window [%d,%d] is empty", r.StageBMinFromEnd, r.StageBMaxFromEnd)
	}
	return nil
}

// defaultRulebook builds the rulebook described in spec.md §3 defaults and
// SPEC_FULL.md §12.1, grounded on original_source/src/config.py's constants.
func defaultRulebook() *Rulebook {
	return &Rulebook{
		CatalogA:            ModelACatalog(),
		CatalogB:            ModelBCatalog(),
		PrecedencePairs:     defaultPrecedencePairs(),
		BeforeStageA:        toSet(defaultBeforeStageA()),
		AfterStageA:         toSet(defaultAfterStageA()),
		PreferAfterStageA:   toSet(defaultPreferAfterStageA()),
		NoSplitAllowed:      toSet(defaultNoSplitAllowed()),
		StageAMonths:        map[time.Month]bool{time.June: true},
		StageBMonths:        map[time.Month]bool{time.March: true, time.November: true},
		StageAMinElapsed:    36,
		StageAMaxElapsed:    54,
		StageBMinFromEnd:    1,
		StageBMaxFromEnd:    12,
		BaseMonths:          map[Model]int{ModelA: 72, ModelB: 66},

		MaternityLeaveDeductionLimit: 6,
		DepartmentBaseMonths:         14,
	}
}

func toSet(keys []string) map[string]bool {
	out := make(map[string]bool, len(keys))
	for _, k := range keys {
		out[k] = true
	}
	return out
}
