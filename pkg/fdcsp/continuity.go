package fdcsp

// continuity.go implements the soft continuity-penalty global constraint used
// by the rotation scheduler's objective (spec.md §4.1): for every month a
// resident leaves a station and every later month still assigned back to
// that same station, ContinuityPenalty charges its weight once. A station
// left and resumed for several months therefore costs weight times the
// number of months spent back at it, not a flat per-extra-run charge. Only
// stations in penalizable are scored; elastic/leave stations (duration 0)
// are never penalized for being split across the calendar.
//
// Like Precedence, this constraint only tightens its output variable once
// every month variable it watches is bound — branch-and-bound still prunes
// correctly (optimize.go's computeObjectiveBound sums the penalty variables'
// current minimums when they feed a LinearSum objective, and otherwise reads
// the objective's own domain) even though the bound is not tight mid-search.

import "fmt"

// ContinuityPenalty binds penaltyOut to weight times the number of
// (leave-boundary, later-occupied-month) pairs across every station in
// penalizable, computed from months' final assignment.
type ContinuityPenalty struct {
	months      []*FDVariable
	penalizable map[int]bool
	weight      int
	penaltyOut  *FDVariable
}

// NewContinuityPenalty builds a ContinuityPenalty over one resident's
// ordered month variables.
func NewContinuityPenalty(months []*FDVariable, penalizable map[int]bool, weight int, penaltyOut *FDVariable) (*ContinuityPenalty, error) {
	if len(months) == 0 {
		return nil, fmt.Errorf("ContinuityPenalty: need at least 1 month")
	}
	if penaltyOut == nil {
		return nil, fmt.Errorf("ContinuityPenalty: penaltyOut is nil")
	}
	if weight < 0 {
		return nil, fmt.Errorf("ContinuityPenalty: weight must be non-negative, got %d", weight)
	}
	return &ContinuityPenalty{months: months, penalizable: penalizable, weight: weight, penaltyOut: penaltyOut}, nil
}

// Variables implements ModelConstraint.
func (c *ContinuityPenalty) Variables() []*FDVariable {
	vars := make([]*FDVariable, 0, len(c.months)+1)
	vars = append(vars, c.months...)
	vars = append(vars, c.penaltyOut)
	return vars
}

// Type implements ModelConstraint.
func (c *ContinuityPenalty) Type() string { return "ContinuityPenalty" }

// String implements ModelConstraint.
func (c *ContinuityPenalty) String() string {
	return fmt.Sprintf("ContinuityPenalty(len=%d, weight=%d)", len(c.months), c.weight)
}

// Propagate computes the penalty once every watched month is singleton; it
// is a no-op (returns state unchanged) while any month remains unassigned.
func (c *ContinuityPenalty) Propagate(solver *Solver, state *SolverState) (*SolverState, error) {
	values := make([]int, len(c.months))
	for i, v := range c.months {
		d := solver.GetDomain(state, v.ID())
		if d == nil {
			return nil, fmt.Errorf("ContinuityPenalty: month %d has nil domain", i)
		}
		if !d.IsSingleton() {
			return state, nil
		}
		values[i] = d.SingletonValue()
	}

	// For every month i where the resident is at a penalizable station and
	// leaves it the following month, charge weight once per later month
	// still assigned back to that station (mirrors the original's
	// left/returned double loop over (month_idx, future_month) pairs).
	penalty := 0
	for i := 0; i < len(values)-1; i++ {
		stationValue := values[i]
		if !c.penalizable[stationValue] || values[i+1] == stationValue {
			continue
		}
		for future := i + 2; future < len(values); future++ {
			if values[future] == stationValue {
				penalty += c.weight
			}
		}
	}

	outDomain := solver.GetDomain(state, c.penaltyOut.ID())
	if outDomain == nil {
		return nil, fmt.Errorf("ContinuityPenalty: penaltyOut has nil domain")
	}
	if outDomain.IsSingleton() && outDomain.SingletonValue() == penalty {
		return state, nil
	}
	if !outDomain.Has(penalty) {
		return nil, fmt.Errorf("ContinuityPenalty: computed penalty %d outside domain %s", penalty, outDomain.String())
	}
	forced := NewBitSetDomainFromValues(outDomain.MaxValue(), []int{penalty})
	newState, _ := solver.SetDomain(state, c.penaltyOut.ID(), forced)
	return newState, nil
}
