package fdcsp

import "testing"

func TestStageOrderingBeforeForcesLaterMonthsOffOther(t *testing.T) {
	m := NewModel()
	months := m.IntVars(3, 1, 2, "m")
	c, err := NewBeforeStage(months, 1, 2)
	if err != nil {
		t.Fatalf("NewBeforeStage: %v", err)
	}
	m.AddConstraint(c)

	solver := NewSolver(m)
	state, err := solver.propagate(nil)
	if err != nil {
		t.Fatalf("propagate: %v", err)
	}

	forced := NewBitSetDomainFromValues(2, []int{2})
	state, _ = solver.SetDomain(state, months[0].ID(), forced)
	state, err = solver.propagate(state)
	if err != nil {
		t.Fatalf("propagate after forcing month 0 to stage: %v", err)
	}

	for _, idx := range []int{1, 2} {
		d := solver.GetDomain(state, months[idx].ID())
		if !d.IsSingleton() || d.SingletonValue() != 2 {
			t.Errorf("month %d = %s, want singleton 2 (before-station excluded after stage confirmed)", idx, d.String())
		}
	}
}

func TestStageOrderingBeforeRejectsOtherAfterStage(t *testing.T) {
	m := NewModel()
	months := m.IntVars(3, 1, 2, "m")
	c, err := NewBeforeStage(months, 1, 2)
	if err != nil {
		t.Fatalf("NewBeforeStage: %v", err)
	}
	m.AddConstraint(c)

	solver := NewSolver(m)
	state, err := solver.propagate(nil)
	if err != nil {
		t.Fatalf("propagate: %v", err)
	}

	forced := NewBitSetDomainFromValues(2, []int{2})
	state, _ = solver.SetDomain(state, months[0].ID(), forced)
	state, err = solver.propagate(state)
	if err != nil {
		t.Fatalf("propagate after forcing month 0 to stage: %v", err)
	}

	badFix := NewBitSetDomainFromValues(2, []int{1})
	state, _ = solver.SetDomain(state, months[2].ID(), badFix)
	if _, err := solver.propagate(state); err == nil {
		t.Fatalf("expected propagation error forcing a later month back onto the before-station")
	}
}

func TestStageOrderingAfterForcesEarlierMonthsOffOther(t *testing.T) {
	m := NewModel()
	months := m.IntVars(3, 1, 2, "m")
	c, err := NewAfterStage(months, 1, 2)
	if err != nil {
		t.Fatalf("NewAfterStage: %v", err)
	}
	m.AddConstraint(c)

	solver := NewSolver(m)
	state, err := solver.propagate(nil)
	if err != nil {
		t.Fatalf("propagate: %v", err)
	}

	forced := NewBitSetDomainFromValues(2, []int{2})
	state, _ = solver.SetDomain(state, months[2].ID(), forced)
	state, err = solver.propagate(state)
	if err != nil {
		t.Fatalf("propagate after forcing month 2 to stage: %v", err)
	}

	for _, idx := range []int{0, 1} {
		d := solver.GetDomain(state, months[idx].ID())
		if !d.IsSingleton() || d.SingletonValue() != 2 {
			t.Errorf("month %d = %s, want singleton 2 (after-station excluded before stage confirmed)", idx, d.String())
		}
	}
}

func TestNewStageOrderingRejectsEqualIndices(t *testing.T) {
	m := NewModel()
	months := m.IntVars(2, 1, 2, "m")
	if _, err := NewBeforeStage(months, 1, 1); err == nil {
		t.Fatalf("expected error for otherIdx == stationIdx")
	}
}
