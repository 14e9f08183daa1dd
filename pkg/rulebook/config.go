package rulebook

import (
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-yaml"
	"go.uber.org/multierr"
)

// StationPatch carries the subset of Station attributes UpdateStation
// accepts for editing; zero-value fields are left unchanged except where a
// pointer makes "unset" distinguishable from "set to zero".
type StationPatch struct {
	DurationMonths *int
	MinInterns     *int
	MaxInterns     *int
	Splittable     *bool
	SplitConfig    *Split // nil means "leave unchanged"; use ClearSplitConfig to remove
	ClearSplitConfig bool
	NoSplitAllowed *bool
}

// GlobalPatch carries the program-wide attributes UpdateGlobal accepts.
type GlobalPatch struct {
	StageAMonths     []time.Month
	StageBMonths     []time.Month
	StageAMinElapsed *int
	StageAMaxElapsed *int
	StageBMinFromEnd *int
	StageBMaxFromEnd *int
	MaternityLeaveDeductionLimit *int
	DepartmentBaseMonths         *int
}

// ProgramConfiguration is the mutable, process-wide rule store the dashboard
// collaborator edits. Snapshot() hands callers an immutable Rulebook so a
// solve or validation pass in flight can never observe a concurrent edit
// (spec.md §4.5, §5).
type ProgramConfiguration struct {
	mu   sync.RWMutex
	book *Rulebook
}

// NewProgramConfiguration returns a configuration seeded with the default
// rulebook (SPEC_FULL.md §12.1).
func NewProgramConfiguration() *ProgramConfiguration {
	return &ProgramConfiguration{book: defaultRulebook()}
}

// Snapshot returns the current rulebook. The returned value is never
// mutated in place by subsequent UpdateStation/UpdateGlobal calls: each
// mutation builds a new Rulebook and swaps it in.
func (c *ProgramConfiguration) Snapshot() *Rulebook {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.book
}

// ResetToDefaults restores the factory rulebook (config.py's
// reset_to_defaults).
func (c *ProgramConfiguration) ResetToDefaults() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.book = defaultRulebook()
}

// UpdateStation applies patch to the named station in both model catalogs
// (a station absent from one catalog, e.g. basic_sciences in Model B, is
// skipped there without error). Returns a configuration error if the patch
// would violate a Station invariant.
func (c *ProgramConfiguration) UpdateStation(key string, patch StationPatch) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := cloneRulebook(c.book)
	if err := applyStationPatch(next, key, patch); err != nil {
		return err
	}
	if err := next.Validate(); err != nil {
		return err
	}
	c.book = next
	return nil
}

// UpdateStations applies several station patches as one batch, accumulating
// every failing key's error via multierr rather than stopping at the first
// bad key (SPEC_FULL.md §12.3), and only swaps in the new rulebook if every
// patch in the batch succeeded.
func (c *ProgramConfiguration) UpdateStations(patches map[string]StationPatch) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := cloneRulebook(c.book)
	var errs error
	for key, patch := range patches {
		if err := applyStationPatch(next, key, patch); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	if errs != nil {
		return errs
	}
	if err := next.Validate(); err != nil {
		return err
	}
	c.book = next
	return nil
}

// UpdateGlobal applies program-wide attribute edits.
func (c *ProgramConfiguration) UpdateGlobal(patch GlobalPatch) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := cloneRulebook(c.book)
	if patch.StageAMonths != nil {
		next.StageAMonths = monthSet(patch.StageAMonths)
	}
	if patch.StageBMonths != nil {
		next.StageBMonths = monthSet(patch.StageBMonths)
	}
	if patch.StageAMinElapsed != nil {
		next.StageAMinElapsed = *patch.StageAMinElapsed
	}
	if patch.StageAMaxElapsed != nil {
		next.StageAMaxElapsed = *patch.StageAMaxElapsed
	}
	if patch.StageBMinFromEnd != nil {
		next.StageBMinFromEnd = *patch.StageBMinFromEnd
	}
	if patch.StageBMaxFromEnd != nil {
		next.StageBMaxFromEnd = *patch.StageBMaxFromEnd
	}
	if patch.MaternityLeaveDeductionLimit != nil {
		next.MaternityLeaveDeductionLimit = *patch.MaternityLeaveDeductionLimit
	}
	if patch.DepartmentBaseMonths != nil {
		next.DepartmentBaseMonths = *patch.DepartmentBaseMonths
	}
	if err := next.Validate(); err != nil {
		return err
	}
	c.book = next
	return nil
}

func applyStationPatch(book *Rulebook, key string, patch StationPatch) error {
	found := false
	for _, catalog := range []map[string]Station{book.CatalogA, book.CatalogB} {
		s, ok := catalog[key]
		if !ok {
			continue
		}
		found = true
		if patch.DurationMonths != nil {
			s.DurationMonths = *patch.DurationMonths
		}
		if patch.MinInterns != nil {
			s.MinInterns = *patch.MinInterns
		}
		if patch.MaxInterns != nil {
			s.MaxInterns = *patch.MaxInterns
		}
		if patch.Splittable != nil {
			s.Splittable = *patch.Splittable
		}
		if patch.ClearSplitConfig {
			s.SplitConfig = nil
		} else if patch.SplitConfig != nil {
			s.SplitConfig = patch.SplitConfig
		}
		if patch.NoSplitAllowed != nil {
			s.NoSplitAllowed = *patch.NoSplitAllowed
		}
		if err := s.Validate(); err != nil {
			return err
		}
		catalog[key] = s
	}
	if !found {
		return fmt.Errorf("rulebook: unknown station key %q", key)
	}
	return nil
}

func monthSet(months []time.Month) map[time.Month]bool {
	out := make(map[time.Month]bool, len(months))
	for _, m := range months {
		out[m] = true
	}
	return out
}

// cloneRulebook deep-copies the parts of a Rulebook that UpdateStation/
// UpdateGlobal can mutate, so concurrent Snapshot() holders never observe a
// partial edit.
func cloneRulebook(b *Rulebook) *Rulebook {
	clone := *b
	clone.CatalogA = cloneCatalog(b.CatalogA)
	clone.CatalogB = cloneCatalog(b.CatalogB)
	clone.StageAMonths = cloneMonthSet(b.StageAMonths)
	clone.StageBMonths = cloneMonthSet(b.StageBMonths)
	clone.BaseMonths = map[Model]int{ModelA: b.BaseMonths[ModelA], ModelB: b.BaseMonths[ModelB]}
	return &clone
}

func cloneCatalog(catalog map[string]Station) map[string]Station {
	out := make(map[string]Station, len(catalog))
	for k, s := range catalog {
		if s.SplitConfig != nil {
			sc := *s.SplitConfig
			s.SplitConfig = &sc
		}
		out[k] = s
	}
	return out
}

func cloneMonthSet(set map[time.Month]bool) map[time.Month]bool {
	out := make(map[time.Month]bool, len(set))
	for k, v := range set {
		out[k] = v
	}
	return out
}

// overrideDocument is the YAML shape LoadOverride accepts: a sparse set of
// station and global edits layered on top of the factory rulebook, mirroring
// guitarbeat-gantt's Config-from-YAML pattern.
type overrideDocument struct {
	Stations map[string]struct {
		DurationMonths *int  `yaml:"duration_months"`
		MinInterns     *int  `yaml:"min_interns"`
		MaxInterns     *int  `yaml:"max_interns"`
		Splittable     *bool `yaml:"splittable"`
	} `yaml:"stations"`
	Global struct {
		StageAMinElapsed *int `yaml:"stage_a_min_months"`
		StageAMaxElapsed *int `yaml:"stage_a_max_months"`
		StageBMinFromEnd *int `yaml:"stage_b_min_from_end"`
		StageBMaxFromEnd *int `yaml:"stage_b_max_from_end"`
	} `yaml:"global"`
}

// LoadOverride applies a YAML override document to the configuration,
// batching all station edits through UpdateStations and the global edits
// through UpdateGlobal.
func (c *ProgramConfiguration) LoadOverride(data []byte) error {
	var doc overrideDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("rulebook: parsing override document: %w", err)
	}

	if len(doc.Stations) > 0 {
		patches := make(map[string]StationPatch, len(doc.Stations))
		for key, edit := range doc.Stations {
			patches[key] = StationPatch{
				DurationMonths: edit.DurationMonths,
				MinInterns:     edit.MinInterns,
				MaxInterns:     edit.MaxInterns,
				Splittable:     edit.Splittable,
			}
		}
		if err := c.UpdateStations(patches); err != nil {
			return err
		}
	}

	g := doc.Global
	if g.StageAMinElapsed != nil || g.StageAMaxElapsed != nil || g.StageBMinFromEnd != nil || g.StageBMaxFromEnd != nil {
		return c.UpdateGlobal(GlobalPatch{
			StageAMinElapsed: g.StageAMinElapsed,
			StageAMaxElapsed: g.StageAMaxElapsed,
			StageBMinFromEnd: g.StageBMinFromEnd,
			StageBMaxFromEnd: g.StageBMaxFromEnd,
		})
	}
	return nil
}
