package validator

import (
	"fmt"
	"testing"
	"time"

	"github.com/obgyn-residency/resiplan/pkg/resident"
	"github.com/obgyn-residency/resiplan/pkg/rulebook"
	"github.com/obgyn-residency/resiplan/pkg/schedule"
)

func newResident(t *testing.T, name string, model rulebook.Model, dept rulebook.Department) *resident.Resident {
	t.Helper()
	return resident.New(name, time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC), model, dept)
}

func TestCheckCompletenessFlagsShortfall(t *testing.T) {
	book := rulebook.NewProgramConfiguration().Snapshot()
	r := newResident(t, "short", rulebook.ModelA, rulebook.DeptA)
	r.Assignments[0] = rulebook.KeyOrientation

	report := &schedule.ValidationReport{}
	checkCompleteness(r, book, report)
	if len(report.Errors) != 1 {
		t.Fatalf("expected 1 completeness error, got %d: %+v", len(report.Errors), report.Errors)
	}
	if report.Errors[0].Code != "completeness_mismatch" {
		t.Errorf("unexpected code %q", report.Errors[0].Code)
	}
}

func TestCheckDurationsFlagsMismatch(t *testing.T) {
	book := rulebook.NewProgramConfiguration().Snapshot()
	r := newResident(t, "dur", rulebook.ModelA, rulebook.DeptA)
	r.Assignments[0] = rulebook.KeyOrientation // orientation duration is 1, fine
	r.Assignments[1] = rulebook.KeyDeliveryRoom
	// delivery_room duration_months is 6; only 1 assigned here.

	report := &schedule.ValidationReport{}
	checkDurations(r, book, report)
	found := false
	for _, d := range report.Errors {
		if d.Code == "duration_mismatch" && d.Station == rulebook.KeyDeliveryRoom {
			found = true
		}
	}
	if !found {
		t.Errorf("expected duration_mismatch for delivery_room, got %+v", report.Errors)
	}
}

func TestCheckDurationsFlagsWrongDepartmentStation(t *testing.T) {
	book := rulebook.NewProgramConfiguration().Snapshot()
	r := newResident(t, "wrongdept", rulebook.ModelA, rulebook.DeptA)
	r.Assignments[0] = rulebook.KeyHighRiskPregnancyB

	report := &schedule.ValidationReport{}
	checkDurations(r, book, report)
	found := false
	for _, d := range report.Errors {
		if d.Code == "wrong_department_station" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected wrong_department_station, got %+v", report.Errors)
	}
}

func TestCheckPrecedenceViolation(t *testing.T) {
	book := rulebook.NewProgramConfiguration().Snapshot()
	r := newResident(t, "prec", rulebook.ModelA, rulebook.DeptA)
	r.Assignments[0] = rulebook.KeyBasicSciences
	// leave a gap: month 1 something else, basic_sciences does not end
	// immediately before stage_a.
	r.Assignments[1] = rulebook.KeyOrientation
	r.Assignments[2] = rulebook.StageAKey

	report := &schedule.ValidationReport{}
	checkPrecedence(r, book, report)
	found := false
	for _, d := range report.Errors {
		if d.Code == "precedence_violation" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected precedence_violation, got %+v", report.Errors)
	}
}

func TestCheckStageWindowsRejectsOffCalendarMonth(t *testing.T) {
	book := rulebook.NewProgramConfiguration().Snapshot()
	r := newResident(t, "stagecal", rulebook.ModelA, rulebook.DeptA)
	// start date is January; an arbitrary far-out month index should land
	// on a non-exam calendar month for Stage A (allowed only in June).
	r.Assignments[7] = rulebook.StageAKey // January + 7 = August

	report := &schedule.ValidationReport{}
	checkStageWindows(r, book, report)
	found := false
	for _, d := range report.Errors {
		if d.Code == "stage_a_calendar" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected stage_a_calendar violation, got %+v", report.Errors)
	}
}

func TestCheckContinuitySplitNotAllowed(t *testing.T) {
	book := rulebook.NewProgramConfiguration().Snapshot()
	r := newResident(t, "nosplit", rulebook.ModelA, rulebook.DeptA)
	// ivf has NoSplitAllowed true and duration 6.
	r.Assignments[0] = rulebook.KeyIVF
	r.Assignments[1] = rulebook.KeyIVF
	r.Assignments[2] = rulebook.KeyIVF
	r.Assignments[10] = rulebook.KeyIVF
	r.Assignments[11] = rulebook.KeyIVF
	r.Assignments[12] = rulebook.KeyIVF

	report := &schedule.ValidationReport{}
	checkContinuity(r, book, report)
	found := false
	for _, d := range report.Errors {
		if d.Code == "split_not_allowed" && d.Station == rulebook.KeyIVF {
			found = true
		}
	}
	if !found {
		t.Errorf("expected split_not_allowed for ivf, got %+v", report.Errors)
	}
}

func TestCheckContinuityPreferredSplitPattern(t *testing.T) {
	book := rulebook.NewProgramConfiguration().Snapshot()
	r := newResident(t, "split", rulebook.ModelA, rulebook.DeptA)
	// delivery_room split_config is {4,2}.
	for m := 0; m < 4; m++ {
		r.Assignments[m] = rulebook.KeyDeliveryRoom
	}
	for m := 20; m < 22; m++ {
		r.Assignments[m] = rulebook.KeyDeliveryRoom
	}

	report := &schedule.ValidationReport{}
	checkContinuity(r, book, report)
	found := false
	for _, d := range report.Warnings {
		if d.Code == "split_allowed_pattern" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected split_allowed_pattern warning, got warnings=%+v errors=%+v", report.Warnings, report.Errors)
	}
}

func TestCheckPrerequisitesBeforeStageAViolation(t *testing.T) {
	book := rulebook.NewProgramConfiguration().Snapshot()
	r := newResident(t, "prereq", rulebook.ModelA, rulebook.DeptA)
	r.Assignments[5] = rulebook.StageAKey
	r.Assignments[6] = rulebook.KeyWomensER // after stage_a: violates before_stage_a

	report := &schedule.ValidationReport{}
	checkPrerequisites(r, book, report)
	found := false
	for _, d := range report.Errors {
		if d.Code == "prerequisite_before_stage_a" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected prerequisite_before_stage_a, got %+v", report.Errors)
	}
}

func TestCheckHistoryLockFlagsGap(t *testing.T) {
	book := rulebook.NewProgramConfiguration().Snapshot()
	r := newResident(t, "history", rulebook.ModelA, rulebook.DeptA)
	r.CurrentMonthIndex = 3
	r.Assignments[0] = rulebook.KeyOrientation
	r.Assignments[1] = rulebook.KeyOrientation
	// month 2 missing
	r.Assignments[3] = rulebook.KeyOrientation

	report := &schedule.ValidationReport{}
	now := time.Date(2021, time.January, 1, 0, 0, 0, 0, time.UTC)
	checkHistoryLock(r, book, now, report)
	found := false
	for _, d := range report.Errors {
		if d.Code == "missing_locked_history" && d.Month != nil && *d.Month == 2 {
			found = true
		}
	}
	if !found {
		t.Errorf("expected missing_locked_history at month 2, got %+v", report.Errors)
	}
}

func TestCheckCapacityFlagsOverstaffed(t *testing.T) {
	book := rulebook.NewProgramConfiguration().Snapshot()
	// high_risk_pregnancy_a has max_interns 2; assign four department-A
	// residents to it in the same calendar month.
	residents := make([]*resident.Resident, 4)
	for i := range residents {
		r := newResident(t, fmt.Sprintf("r%d", i), rulebook.ModelA, rulebook.DeptA)
		r.Assignments[0] = rulebook.KeyHighRiskPregnancyA
		residents[i] = r
	}

	report := &schedule.ValidationReport{}
	checkCapacity(residents, book, report)
	found := false
	for _, d := range report.Errors {
		if d.Code == "capacity_overstaffed" && d.Station == rulebook.KeyHighRiskPregnancyA {
			found = true
		}
	}
	if !found {
		t.Errorf("expected capacity_overstaffed for %q, got %+v", rulebook.KeyHighRiskPregnancyA, report.Errors)
	}
}

func TestCheckCapacityFlagsUnderstaffed(t *testing.T) {
	book := rulebook.NewProgramConfiguration().Snapshot()
	// delivery_room requires a minimum of 3 residents; a single assignment
	// anywhere in month 0 is enough to put it in scope for that calendar
	// month, and one resident falls short of the minimum.
	r := newResident(t, "solo", rulebook.ModelA, rulebook.DeptA)
	r.Assignments[0] = rulebook.KeyDeliveryRoom

	report := &schedule.ValidationReport{}
	checkCapacity([]*resident.Resident{r}, book, report)
	found := false
	for _, d := range report.Warnings {
		if d.Code == "capacity_understaffed" && d.Station == rulebook.KeyDeliveryRoom {
			found = true
		}
	}
	if !found {
		t.Errorf("expected capacity_understaffed warning for %q, got %+v", rulebook.KeyDeliveryRoom, report.Warnings)
	}
}

func TestValidateAccumulatesAcrossResidents(t *testing.T) {
	book := rulebook.NewProgramConfiguration().Snapshot()
	r1 := newResident(t, "r1", rulebook.ModelA, rulebook.DeptA)
	r2 := newResident(t, "r2", rulebook.ModelB, rulebook.DeptB)

	report, err := Validate([]*resident.Resident{r1, r2}, book, nil, NoHinter{})
	if err != nil {
		t.Fatalf("Validate returned structural error: %v", err)
	}
	if report.OK() {
		t.Errorf("expected both empty-history residents to fail completeness, got OK report")
	}
	if len(report.Errors) == 0 {
		t.Errorf("expected completeness errors for both residents")
	}
}
