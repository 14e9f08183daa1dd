package csp

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/obgyn-residency/resiplan/pkg/fdcsp"
	"github.com/obgyn-residency/resiplan/pkg/resident"
	"github.com/obgyn-residency/resiplan/pkg/rulebook"
)

// ContinuityWeight is the per-occurrence penalty for a non-consecutive
// station run (spec.md §4.1's soft continuity preference).
const ContinuityWeight = 10

// RelaxationProfile names a constraint-relaxation fallback (spec.md §4.2).
type RelaxationProfile int

const (
	// ProfileFull enforces every hard constraint, including C4 capacity.
	ProfileFull RelaxationProfile = iota
	// ProfileR1 drops C4 capacity bounds, keeping everything else.
	ProfileR1
)

// Problem is a fully-built CSP, ready for pkg/solver to run.
type Problem struct {
	Model     *fdcsp.Model
	Index     *StationIndex
	MonthVars map[string][]*fdcsp.FDVariable // resident name -> month-indexed vars
	Objective *fdcsp.FDVariable
	Residents []*resident.Resident
	Rulebook  *rulebook.Rulebook
	Profile   RelaxationProfile
}

// Build constructs the CSP for residents under book, at the given relaxation
// profile. log may be nil (a no-op logger is substituted).
func Build(residents []*resident.Resident, book *rulebook.Rulebook, profile RelaxationProfile, log *zap.Logger) (*Problem, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := book.Validate(); err != nil {
		return nil, fmt.Errorf("csp: invalid rulebook: %w", err)
	}

	index := NewStationIndex(book)
	model := fdcsp.NewModel()

	monthVars := make(map[string][]*fdcsp.FDVariable, len(residents))
	calendarOccupants := make(map[time.Time]map[int][]*fdcsp.FDVariable)

	for _, r := range residents {
		h := r.ExpectedTotalMonths(book)
		catalog := book.Catalog(r.Model)
		excluded := rulebook.ExcludedStationsFor(catalog, r.Department)

		vars := make([]*fdcsp.FDVariable, h)
		for m := 0; m < h; m++ {
			allowed := allowedStationIndices(book, catalog, index, r, m, h, excluded)
			if len(allowed) == 0 {
				return nil, fmt.Errorf("csp: resident %q month %d has no eligible station", r.Name, m)
			}
			v := model.NewVariableWithName(fdcsp.DomainValues(allowed...), fmt.Sprintf("%s_m%d", r.Name, m))
			vars[m] = v

			calMonth := truncateToMonth(r.MonthDate(m))
			for _, idx := range allowed {
				byStation := calendarOccupants[calMonth]
				if byStation == nil {
					byStation = make(map[int][]*fdcsp.FDVariable)
					calendarOccupants[calMonth] = byStation
				}
				byStation[idx] = append(byStation[idx], v)
			}
		}
		monthVars[r.Name] = vars

		if err := postDurationConstraints(model, index, catalog, r, vars, excluded); err != nil {
			return nil, err
		}
		if err := postPrecedenceConstraints(model, index, book, r, vars); err != nil {
			return nil, err
		}
		if err := postStageOrderingConstraints(model, index, book, r, vars); err != nil {
			return nil, err
		}
	}

	if profile == ProfileFull {
		if err := postCapacityConstraints(model, index, book, calendarOccupants); err != nil {
			return nil, err
		}
	}

	objective, err := postContinuityObjective(model, index, book, residents, monthVars)
	if err != nil {
		return nil, err
	}

	log.Info("constraint model built",
		zap.Int("residents", len(residents)),
		zap.Int("variables", model.VariableCount()),
		zap.Int("constraints", model.ConstraintCount()),
		zap.String("profile", profile.String()),
	)

	return &Problem{
		Model:     model,
		Index:     index,
		MonthVars: monthVars,
		Objective: objective,
		Residents: residents,
		Rulebook:  book,
		Profile:   profile,
	}, nil
}

func (p RelaxationProfile) String() string {
	if p == ProfileR1 {
		return "R1"
	}
	return "full"
}

// allowedStationIndices computes the domain for one (resident, month)
// variable: C2 history lock, department exclusion, C6/C7/C8 stage
// calendar/window restrictions.
func allowedStationIndices(book *rulebook.Rulebook, catalog map[string]rulebook.Station, index *StationIndex, r *resident.Resident, m, h int, excluded map[string]bool) []int {
	if r.IsLocked(m) {
		if key, ok := r.Assignments[m]; ok {
			if idx, ok2 := index.Index(key); ok2 {
				return []int{idx}
			}
		}
	}

	calMonth := r.MonthDate(m).Month()
	var allowed []int
	for key, s := range catalog {
		if excluded[key] {
			continue
		}
		idx, ok := index.Index(key)
		if !ok {
			continue
		}
		if s.Kind() == rulebook.KindStage {
			switch key {
			case rulebook.StageAKey:
				if !book.StageAMonths[calMonth] {
					continue
				}
				if m < book.StageAMinElapsed || m > book.StageAMaxElapsed {
					continue
				}
			case rulebook.StageBKey:
				if !book.StageBMonths[calMonth] {
					continue
				}
				remaining := h - m
				if remaining < book.StageBMinFromEnd || remaining > book.StageBMaxFromEnd {
					continue
				}
			}
		}
		allowed = append(allowed, idx)
	}
	return allowed
}

// postDurationConstraints posts C3: Σ_m x[i][s][m] = duration_months for
// every non-elastic, department-applicable station.
func postDurationConstraints(model *fdcsp.Model, index *StationIndex, catalog map[string]rulebook.Station, r *resident.Resident, vars []*fdcsp.FDVariable, excluded map[string]bool) error {
	for key, s := range catalog {
		if excluded[key] || s.Kind() == rulebook.KindElastic {
			continue
		}
		idx, ok := index.Index(key)
		if !ok {
			continue
		}
		if err := model.AmongExactly(vars, []int{idx}, s.DurationMonths); err != nil {
			return fmt.Errorf("csp: resident %q station %q duration: %w", r.Name, key, err)
		}
	}
	return nil
}

// postPrecedenceConstraints posts C5 for every precedence pair applicable to
// the resident's model.
func postPrecedenceConstraints(model *fdcsp.Model, index *StationIndex, book *rulebook.Rulebook, r *resident.Resident, vars []*fdcsp.FDVariable) error {
	for _, pair := range book.PrecedencePairsFor(r.Model) {
		beforeIdx, ok1 := index.Index(pair.Before)
		afterIdx, ok2 := index.Index(pair.After)
		if !ok1 || !ok2 {
			continue
		}
		c, err := fdcsp.NewPrecedence(vars, beforeIdx, afterIdx)
		if err != nil {
			return fmt.Errorf("csp: resident %q precedence %s->%s: %w", r.Name, pair.Before, pair.After, err)
		}
		model.AddConstraint(c)
	}
	return nil
}

// postStageOrderingConstraints hard-enforces book.BeforeStageA/AfterStageA
// (the prerequisites the validator's check 7 also tests) during solving,
// rather than leaving them only as a post-hoc validator check: a station in
// BeforeStageA must finish strictly before Stage A, one in AfterStageA must
// start strictly after it.
func postStageOrderingConstraints(model *fdcsp.Model, index *StationIndex, book *rulebook.Rulebook, r *resident.Resident, vars []*fdcsp.FDVariable) error {
	stageIdx, ok := index.Index(rulebook.StageAKey)
	if !ok {
		return nil
	}
	for key := range book.BeforeStageA {
		otherIdx, ok := index.Index(key)
		if !ok {
			continue
		}
		c, err := fdcsp.NewBeforeStage(vars, otherIdx, stageIdx)
		if err != nil {
			return fmt.Errorf("csp: resident %q stage ordering %s before stage_a: %w", r.Name, key, err)
		}
		model.AddConstraint(c)
	}
	for key := range book.AfterStageA {
		otherIdx, ok := index.Index(key)
		if !ok {
			continue
		}
		c, err := fdcsp.NewAfterStage(vars, otherIdx, stageIdx)
		if err != nil {
			return fmt.Errorf("csp: resident %q stage ordering %s after stage_a: %w", r.Name, key, err)
		}
		model.AddConstraint(c)
	}
	return nil
}

// postCapacityConstraints posts C4 over real calendar months, since
// residents with different start dates share the same physical station
// capacity concurrently.
func postCapacityConstraints(model *fdcsp.Model, index *StationIndex, book *rulebook.Rulebook, occupants map[time.Time]map[int][]*fdcsp.FDVariable) error {
	for _, byStation := range occupants {
		for idx, vars := range byStation {
			key := index.Key(idx)
			station, ok := lookupStation(book, key)
			if !ok {
				continue
			}
			if station.MinInterns <= 0 && station.MaxInterns == rulebook.Unbounded {
				continue
			}
			maxInterns := station.MaxInterns
			if maxInterns == rulebook.Unbounded {
				maxInterns = len(vars)
			}
			if err := model.AmongRange(vars, []int{idx}, station.MinInterns, maxInterns); err != nil {
				return fmt.Errorf("csp: capacity for station %q: %w", key, err)
			}
		}
	}
	return nil
}

func lookupStation(book *rulebook.Rulebook, key string) (rulebook.Station, bool) {
	if s, ok := book.CatalogA[key]; ok {
		return s, true
	}
	if s, ok := book.CatalogB[key]; ok {
		return s, true
	}
	return rulebook.Station{}, false
}

// postContinuityObjective builds the soft-objective from spec.md §4.1: one
// ContinuityPenalty per resident, summed into a single total via LinearSum
// so SolveOptimal's admissible-bound computation (optimize.go) recognizes
// the total as a LinearSum and prunes on it directly.
func postContinuityObjective(model *fdcsp.Model, index *StationIndex, book *rulebook.Rulebook, residents []*resident.Resident, monthVars map[string][]*fdcsp.FDVariable) (*fdcsp.FDVariable, error) {
	penalizable := durationPositiveIndices(book, index)

	penaltyVars := make([]*fdcsp.FDVariable, 0, len(residents))
	coeffs := make([]int, 0, len(residents))
	totalMax := 0

	for _, r := range residents {
		vars := monthVars[r.Name]
		maxPenalty := len(vars) * ContinuityWeight
		penaltyVar := model.IntVar(0, maxPenalty, fmt.Sprintf("%s_penalty", r.Name))
		c, err := fdcsp.NewContinuityPenalty(vars, penalizable, ContinuityWeight, penaltyVar)
		if err != nil {
			return nil, fmt.Errorf("csp: continuity penalty for resident %q: %w", r.Name, err)
		}
		model.AddConstraint(c)
		penaltyVars = append(penaltyVars, penaltyVar)
		coeffs = append(coeffs, 1)
		totalMax += maxPenalty
	}

	total := model.IntVar(0, totalMax, "total_continuity_penalty")
	if err := model.LinearSum(penaltyVars, coeffs, total); err != nil {
		return nil, fmt.Errorf("csp: total continuity objective: %w", err)
	}
	return total, nil
}

func durationPositiveIndices(book *rulebook.Rulebook, index *StationIndex) map[int]bool {
	out := make(map[int]bool)
	for _, catalog := range []map[string]rulebook.Station{book.CatalogA, book.CatalogB} {
		for key, s := range catalog {
			if s.Kind() != rulebook.KindElastic {
				if idx, ok := index.Index(key); ok {
					out[idx] = true
				}
			}
		}
	}
	return out
}

func truncateToMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}
