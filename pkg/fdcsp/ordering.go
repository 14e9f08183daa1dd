package fdcsp

// ordering.go implements the stage-relative ordering global constraint used
// by the rotation scheduler: a station can be required to finish strictly
// before Stage A, or to start strictly after it, mirroring Precedence's
// style of reading forced/excluded values directly off the month-indexed
// station variables rather than introducing auxiliary boolean variables.

import "fmt"

// StageOrdering enforces that every month assigned to station otherIdx falls
// strictly before (after=false) or strictly after (after=true) the month
// assigned to stationIdx within one resident's ordered month sequence.
type StageOrdering struct {
	months     []*FDVariable
	otherIdx   int
	stationIdx int
	after      bool
}

// NewBeforeStage builds a StageOrdering requiring every occurrence of
// otherIdx to land at a month index strictly less than stationIdx's.
func NewBeforeStage(months []*FDVariable, otherIdx, stationIdx int) (*StageOrdering, error) {
	return newStageOrdering(months, otherIdx, stationIdx, false)
}

// NewAfterStage builds a StageOrdering requiring every occurrence of
// otherIdx to land at a month index strictly greater than stationIdx's.
func NewAfterStage(months []*FDVariable, otherIdx, stationIdx int) (*StageOrdering, error) {
	return newStageOrdering(months, otherIdx, stationIdx, true)
}

func newStageOrdering(months []*FDVariable, otherIdx, stationIdx int, after bool) (*StageOrdering, error) {
	if len(months) < 2 {
		return nil, fmt.Errorf("StageOrdering: need at least 2 months, got %d", len(months))
	}
	if otherIdx <= 0 || stationIdx <= 0 {
		return nil, fmt.Errorf("StageOrdering: station indices must be positive (otherIdx=%d stationIdx=%d)", otherIdx, stationIdx)
	}
	if otherIdx == stationIdx {
		return nil, fmt.Errorf("StageOrdering: otherIdx and stationIdx must differ")
	}
	for i, v := range months {
		if v == nil {
			return nil, fmt.Errorf("StageOrdering: months[%d] is nil", i)
		}
	}
	return &StageOrdering{months: months, otherIdx: otherIdx, stationIdx: stationIdx, after: after}, nil
}

// Variables implements ModelConstraint.
func (c *StageOrdering) Variables() []*FDVariable { return c.months }

// Type implements ModelConstraint.
func (c *StageOrdering) Type() string { return "StageOrdering" }

// String implements ModelConstraint.
func (c *StageOrdering) String() string {
	if c.after {
		return fmt.Sprintf("StageOrdering(len=%d, %d after %d)", len(c.months), c.otherIdx, c.stationIdx)
	}
	return fmt.Sprintf("StageOrdering(len=%d, %d before %d)", len(c.months), c.otherIdx, c.stationIdx)
}

// Propagate removes otherIdx from the months on the wrong side of any month
// already confirmed to hold stationIdx. A month confirmed at otherIdx does
// not prune stationIdx from other months.
func (c *StageOrdering) Propagate(solver *Solver, state *SolverState) (*SolverState, error) {
	newState := state
	for j, vj := range c.months {
		dj := solver.GetDomain(newState, vj.ID())
		if dj == nil {
			return nil, fmt.Errorf("StageOrdering: month %d has nil domain", j)
		}
		if !dj.IsSingleton() || dj.SingletonValue() != c.stationIdx {
			continue
		}
		for i, vi := range c.months {
			forbidden := (!c.after && i >= j) || (c.after && i <= j)
			if !forbidden {
				continue
			}
			di := solver.GetDomain(newState, vi.ID())
			if di == nil {
				return nil, fmt.Errorf("StageOrdering: month %d has nil domain", i)
			}
			if !di.Has(c.otherIdx) {
				continue
			}
			if di.IsSingleton() {
				return nil, fmt.Errorf("StageOrdering: month %d is fixed to %d on the wrong side of month %d's stage assignment", i, c.otherIdx, j)
			}
			reduced := di.Remove(c.otherIdx)
			ns, changed := solver.SetDomain(newState, vi.ID(), reduced)
			if changed {
				newState = ns
			}
		}
	}
	return newState, nil
}
