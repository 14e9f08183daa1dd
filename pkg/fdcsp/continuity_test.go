package fdcsp

import "testing"

func TestContinuityPenaltyNoSplit(t *testing.T) {
	m := NewModel()
	months := m.IntVars(3, 1, 2, "m")
	penalty := m.IntVar(0, 30, "penalty")
	c, err := NewContinuityPenalty(months, map[int]bool{1: true, 2: true}, 10, penalty)
	if err != nil {
		t.Fatalf("NewContinuityPenalty: %v", err)
	}
	m.AddConstraint(c)

	solver := NewSolver(m)
	state, err := solver.propagate(nil)
	if err != nil {
		t.Fatalf("propagate: %v", err)
	}

	// force 1,1,1 (single run, no penalty)
	for _, v := range months {
		forced := NewBitSetDomainFromValues(2, []int{1})
		state, _ = solver.SetDomain(state, v.ID(), forced)
	}
	state, err = solver.propagate(state)
	if err != nil {
		t.Fatalf("propagate after assignment: %v", err)
	}
	d := solver.GetDomain(state, penalty.ID())
	if !d.IsSingleton() || d.SingletonValue() != 0 {
		t.Fatalf("penalty = %s, want singleton 0", d.String())
	}
}

func TestContinuityPenaltySplitRun(t *testing.T) {
	m := NewModel()
	months := m.IntVars(3, 1, 2, "m")
	penalty := m.IntVar(0, 30, "penalty")
	c, err := NewContinuityPenalty(months, map[int]bool{1: true, 2: true}, 10, penalty)
	if err != nil {
		t.Fatalf("NewContinuityPenalty: %v", err)
	}
	m.AddConstraint(c)

	solver := NewSolver(m)
	state, err := solver.propagate(nil)
	if err != nil {
		t.Fatalf("propagate: %v", err)
	}

	// force 1,2,1 (two runs of station 1, one extra run -> penalty 10)
	values := []int{1, 2, 1}
	for i, v := range months {
		forced := NewBitSetDomainFromValues(2, []int{values[i]})
		state, _ = solver.SetDomain(state, v.ID(), forced)
	}
	state, err = solver.propagate(state)
	if err != nil {
		t.Fatalf("propagate after assignment: %v", err)
	}
	d := solver.GetDomain(state, penalty.ID())
	if !d.IsSingleton() || d.SingletonValue() != 10 {
		t.Fatalf("penalty = %s, want singleton 10", d.String())
	}
}

func TestContinuityPenaltyChargesPerLaterOccupiedMonth(t *testing.T) {
	m := NewModel()
	months := m.IntVars(7, 1, 2, "m")
	penalty := m.IntVar(0, 70, "penalty")
	c, err := NewContinuityPenalty(months, map[int]bool{1: true, 2: true}, 10, penalty)
	if err != nil {
		t.Fatalf("NewContinuityPenalty: %v", err)
	}
	m.AddConstraint(c)

	solver := NewSolver(m)
	state, err := solver.propagate(nil)
	if err != nil {
		t.Fatalf("propagate: %v", err)
	}

	// station 1 for 4 months, a 1-month gap at station 2, then station 1
	// again for 2 months: one leave boundary with two later occupied
	// months of station 1 back-to-back, so the cost is 2*weight, not
	// (run count - 1)*weight.
	values := []int{1, 1, 1, 1, 2, 1, 1}
	for i, v := range months {
		forced := NewBitSetDomainFromValues(2, []int{values[i]})
		state, _ = solver.SetDomain(state, v.ID(), forced)
	}
	state, err = solver.propagate(state)
	if err != nil {
		t.Fatalf("propagate after assignment: %v", err)
	}
	d := solver.GetDomain(state, penalty.ID())
	if !d.IsSingleton() || d.SingletonValue() != 20 {
		t.Fatalf("penalty = %s, want singleton 20", d.String())
	}
}
