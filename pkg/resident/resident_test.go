package resident

import (
	"testing"
	"time"

	"github.com/obgyn-residency/resiplan/pkg/rulebook"
)

func newTestRulebook() *rulebook.Rulebook {
	return rulebook.NewProgramConfiguration().Snapshot()
}

func TestExpectedTotalMonthsS4(t *testing.T) {
	// Scenario S4: 9 maternity + 2 unpaid -> 72 + (9-6) + 2 = 77.
	book := newTestRulebook()
	r := New("S4", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), rulebook.ModelA, rulebook.DeptA)
	r.MaternityLeaveMonths = 9
	r.UnpaidLeaveMonths = 2

	if got := r.ExpectedTotalMonths(book); got != 77 {
		t.Fatalf("ExpectedTotalMonths = %d, want 77", got)
	}
}

func TestExpectedTotalMonthsNoExtension(t *testing.T) {
	book := newTestRulebook()
	r := New("plain", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), rulebook.ModelA, rulebook.DeptA)
	if got := r.ExpectedTotalMonths(book); got != 72 {
		t.Fatalf("ExpectedTotalMonths = %d, want 72", got)
	}
}

func TestExpectedTotalMonthsModelB(t *testing.T) {
	book := newTestRulebook()
	r := New("modelB", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), rulebook.ModelB, rulebook.DeptB)
	if got := r.ExpectedTotalMonths(book); got != 66 {
		t.Fatalf("ExpectedTotalMonths = %d, want 66", got)
	}
}

func TestEffectiveDepartmentMonths(t *testing.T) {
	book := newTestRulebook()
	r := New("dept", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), rulebook.ModelA, rulebook.DeptA)
	r.MaternityLeaveMonths = 9 // capped at 6
	r.SickLeaveMonthsByYear = map[int]int{2024: 3} // capped at 1
	for m := 0; m < 14; m++ {
		r.Assignments[m] = rulebook.KeyDepartmentWard
	}

	got := r.EffectiveDepartmentMonths(book)
	want := 14 + 6 + 1
	if got != want {
		t.Fatalf("EffectiveDepartmentMonths = %d, want %d", got, want)
	}
}

func TestIsLocked(t *testing.T) {
	r := New("locked", time.Now(), rulebook.ModelA, rulebook.DeptA)
	r.CurrentMonthIndex = 5
	if !r.IsLocked(5) || !r.IsLocked(0) {
		t.Fatalf("months <= current_month_index must be locked")
	}
	if r.IsLocked(6) {
		t.Fatalf("months > current_month_index must not be locked")
	}
}
