package csp

import (
	"testing"
	"time"

	"github.com/obgyn-residency/resiplan/pkg/resident"
	"github.com/obgyn-residency/resiplan/pkg/rulebook"
)

func TestBuildS1SingleResidentEmptyHistory(t *testing.T) {
	book := rulebook.NewProgramConfiguration().Snapshot()
	r := resident.New("s1", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), rulebook.ModelA, rulebook.DeptA)

	problem, err := Build([]*resident.Resident{r}, book, ProfileFull, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	vars, ok := problem.MonthVars["s1"]
	if !ok {
		t.Fatalf("missing month vars for resident s1")
	}
	if len(vars) != 72 {
		t.Fatalf("len(vars) = %d, want 72 (Model A base months)", len(vars))
	}
	if problem.Objective == nil {
		t.Fatalf("expected a continuity objective variable")
	}
}

func TestBuildRespectsHistoryLock(t *testing.T) {
	book := rulebook.NewProgramConfiguration().Snapshot()
	r := resident.New("locked", time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), rulebook.ModelA, rulebook.DeptA)
	r.CurrentMonthIndex = 2
	r.Assignments[0] = rulebook.KeyOrientation
	r.Assignments[1] = rulebook.KeyOrientation
	r.Assignments[2] = rulebook.KeyMaternityWard

	problem, err := Build([]*resident.Resident{r}, book, ProfileFull, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	vars := problem.MonthVars["locked"]
	idx, _ := problem.Index.Index(rulebook.KeyMaternityWard)
	d := vars[2].Domain()
	if !d.IsSingleton() || d.SingletonValue() != idx {
		t.Fatalf("locked month 2 domain = %s, want singleton %d", d.String(), idx)
	}
}

func TestBuildExcludesOppositeDepartmentStations(t *testing.T) {
	book := rulebook.NewProgramConfiguration().Snapshot()
	r := resident.New("deptA", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), rulebook.ModelA, rulebook.DeptA)

	problem, err := Build([]*resident.Resident{r}, book, ProfileFull, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	bIdx, _ := problem.Index.Index(rulebook.KeyHighRiskPregnancyB)
	for m, v := range problem.MonthVars["deptA"] {
		if v.Domain().Has(bIdx) {
			t.Fatalf("month %d domain includes opposite-department station %q", m, rulebook.KeyHighRiskPregnancyB)
		}
	}
}

func TestBuildPostsStageOrderingConstraints(t *testing.T) {
	book := rulebook.NewProgramConfiguration().Snapshot()
	r := resident.New("s1", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), rulebook.ModelA, rulebook.DeptA)

	problem, err := Build([]*resident.Resident{r}, book, ProfileFull, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	found := 0
	for _, c := range problem.Model.Constraints() {
		if c.Type() == "StageOrdering" {
			found++
		}
	}
	want := len(book.BeforeStageA) + len(book.AfterStageA)
	if found != want {
		t.Fatalf("StageOrdering constraints posted = %d, want %d (len(BeforeStageA)+len(AfterStageA))", found, want)
	}
}
