package solver

import (
	"context"
	"testing"
	"time"

	"github.com/obgyn-residency/resiplan/pkg/resident"
	"github.com/obgyn-residency/resiplan/pkg/rulebook"
)

func TestStatusString(t *testing.T) {
	cases := map[Status]string{
		StatusOptimal:    "OPTIMAL",
		StatusFeasible:   "FEASIBLE",
		StatusInfeasible: "INFEASIBLE",
		StatusTimeout:    "TIMEOUT",
	}
	for status, want := range cases {
		if got := status.String(); got != want {
			t.Errorf("Status(%d).String() = %q, want %q", status, got, want)
		}
	}
}

// TestSolveHistoryPreservation exercises spec.md Testable Property 2: the
// solver must never alter locked months, regardless of solve outcome.
func TestSolveHistoryPreservation(t *testing.T) {
	book := rulebook.NewProgramConfiguration().Snapshot()
	r := resident.New("s5", time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), rulebook.ModelA, rulebook.DeptA)
	r.CurrentMonthIndex = 2
	r.Assignments[0] = rulebook.KeyOrientation
	r.Assignments[1] = rulebook.KeyOrientation
	r.Assignments[2] = rulebook.KeyMaternityWard
	locked := map[int]string{0: r.Assignments[0], 1: r.Assignments[1], 2: r.Assignments[2]}

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	sol, err := Solve(ctx, []*resident.Resident{r}, book, 150*time.Millisecond, 0, nil)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	t.Logf("solve status: %s, nodes explored: %d, backtracks: %d", sol.Status, sol.NodesExplored, sol.Backtracks)
	if sol.NodesExplored < 0 || sol.Backtracks < 0 {
		t.Errorf("solver monitor stats must be non-negative, got nodes=%d backtracks=%d", sol.NodesExplored, sol.Backtracks)
	}

	for m, key := range locked {
		if r.Assignments[m] != key {
			t.Fatalf("locked month %d changed from %q to %q", m, key, r.Assignments[m])
		}
	}
}
