package fdcsp

// precedence.go implements the immediate-precedence global constraint used by
// the rotation scheduler: for a resident's month-indexed sequence of station
// variables, once the resident leaves station idxA it must enter idxB on the
// very next month.
//
// This mirrors the reified-implication formulation: an indicator
// last_a[m] = x[a][m] ∧ ¬x[a][m+1] forces x[b][m+1] = 1 whenever it fires.
// Here each month is a single FD variable whose domain is the set of station
// indices, so the indicator becomes directly observable on bound/excluded
// domains without an auxiliary boolean variable.

import "fmt"

// Precedence enforces that, within one resident's month sequence, leaving
// station idxA always lands on station idxB the following month.
type Precedence struct {
	months []*FDVariable // vars[m] is the station assigned in month m, in order
	idxA   int
	idxB   int
}

// NewPrecedence builds a Precedence constraint over a resident's ordered
// month variables for the pair (idxA -> idxB). months must be ordered by
// month index and contain at least two entries for the constraint to have
// any effect.
func NewPrecedence(months []*FDVariable, idxA, idxB int) (*Precedence, error) {
	if len(months) < 2 {
		return nil, fmt.Errorf("Precedence: need at least 2 months, got %d", len(months))
	}
	if idxA <= 0 || idxB <= 0 {
		return nil, fmt.Errorf("Precedence: station indices must be positive (idxA=%d idxB=%d)", idxA, idxB)
	}
	if idxA == idxB {
		return nil, fmt.Errorf("Precedence: idxA and idxB must differ")
	}
	for i, v := range months {
		if v == nil {
			return nil, fmt.Errorf("Precedence: months[%d] is nil", i)
		}
	}
	return &Precedence{months: months, idxA: idxA, idxB: idxB}, nil
}

// Variables implements ModelConstraint.
func (c *Precedence) Variables() []*FDVariable { return c.months }

// Type implements ModelConstraint.
func (c *Precedence) Type() string { return "Precedence" }

// String implements ModelConstraint.
func (c *Precedence) String() string {
	return fmt.Sprintf("Precedence(len=%d, %d->%d)", len(c.months), c.idxA, c.idxB)
}

// Propagate scans consecutive month pairs and forces the transition from
// idxA to idxB wherever the predecessor is bound to idxA and the successor
// can no longer hold idxA.
func (c *Precedence) Propagate(solver *Solver, state *SolverState) (*SolverState, error) {
	newState := state
	for m := 0; m < len(c.months)-1; m++ {
		dA := solver.GetDomain(newState, c.months[m].ID())
		dB := solver.GetDomain(newState, c.months[m+1].ID())
		if dA == nil || dB == nil {
			return nil, fmt.Errorf("Precedence: variable at month %d has nil domain", m)
		}
		if !dA.IsSingleton() || dA.SingletonValue() != c.idxA {
			continue // predecessor not confirmed at idxA yet
		}
		if dB.Has(c.idxA) {
			continue // successor could still continue at idxA, no transition forced yet
		}
		if !dB.Has(c.idxB) {
			return nil, fmt.Errorf("Precedence: month %d must be station %d after leaving station %d, but it is excluded", m+1, c.idxB, c.idxA)
		}
		if dB.IsSingleton() && dB.SingletonValue() == c.idxB {
			continue // already forced
		}
		forced := NewBitSetDomainFromValues(dB.MaxValue(), []int{c.idxB})
		ns, changed := solver.SetDomain(newState, c.months[m+1].ID(), forced)
		if changed {
			newState = ns
		}
	}
	return newState, nil
}
