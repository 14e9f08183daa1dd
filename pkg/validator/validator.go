// Package validator independently checks a fully- or partially-assigned
// resident set against a rulebook snapshot (spec.md §4.3).
package validator

import (
	"fmt"
	"sort"
	"time"

	"github.com/obgyn-residency/resiplan/internal/monthmath"
	"github.com/obgyn-residency/resiplan/pkg/resident"
	"github.com/obgyn-residency/resiplan/pkg/rulebook"
	"github.com/obgyn-residency/resiplan/pkg/schedule"
)

// Validate runs all ten checks over residents against book. now is used for
// check 10 (history lock); pass nil to skip it. hinter may be NoHinter{}.
func Validate(residents []*resident.Resident, book *rulebook.Rulebook, now *time.Time, hinter RemediationHinter) (*schedule.ValidationReport, error) {
	report := &schedule.ValidationReport{}

	for _, r := range residents {
		checkCompleteness(r, book, report)
		checkDurations(r, book, report)
		checkPrecedence(r, book, report)
		checkStageWindows(r, book, report)
		checkContinuity(r, book, report)
		checkPrerequisites(r, book, report)
		checkDepartmentAssignment(r, book, report)
		checkLeaveAccounting(r, book, report)
		if now != nil {
			checkHistoryLock(r, book, *now, report)
		}
	}
	checkCapacity(residents, book, report)

	applyHints(report, hinter)
	return report, nil
}

func addDiagnostic(report *schedule.ValidationReport, d schedule.Diagnostic) {
	switch d.Severity {
	case schedule.SeverityError, schedule.SeverityCritical:
		report.Errors = append(report.Errors, d)
	case schedule.SeverityWarning:
		report.Warnings = append(report.Warnings, d)
	default:
		report.Info = append(report.Info, d)
	}
}

func applyHints(report *schedule.ValidationReport, hinter RemediationHinter) {
	if hinter == nil {
		return
	}
	for _, bucket := range [][]schedule.Diagnostic{report.Errors, report.Warnings} {
		for i := range bucket {
			if hint, ok := hinter.Hint(bucket[i].Code, bucket[i].HumanMessage); ok {
				bucket[i].HumanMessage = bucket[i].HumanMessage + " " + hint
			}
		}
	}
}

// check 1: Completeness — |assignments| == expected_total_months.
func checkCompleteness(r *resident.Resident, book *rulebook.Rulebook, report *schedule.ValidationReport) {
	expected := r.ExpectedTotalMonths(book)
	actual := len(r.Assignments)
	if actual == expected {
		return
	}
	severity := schedule.SeverityError
	if actual > expected {
		severity = schedule.SeverityWarning
	}
	addDiagnostic(report, schedule.Diagnostic{
		Severity:     severity,
		Resident:     r.Name,
		Code:         "completeness_mismatch",
		HumanMessage: fmt.Sprintf("%s has %d assigned months, expected %d", r.Name, actual, expected),
	})
}

// check 2: Durations — assigned count per station matches duration_months.
func checkDurations(r *resident.Resident, book *rulebook.Rulebook, report *schedule.ValidationReport) {
	catalog := book.Catalog(r.Model)
	excluded := rulebook.ExcludedStationsFor(catalog, r.Department)

	counts := make(map[string]int)
	for _, key := range r.Assignments {
		counts[key]++
	}

	for key, s := range catalog {
		if s.Kind() == rulebook.KindElastic {
			continue
		}
		if excluded[key] {
			if counts[key] > 0 {
				month := 0
				addDiagnostic(report, schedule.Diagnostic{
					Severity:     schedule.SeverityError,
					Resident:     r.Name,
					Month:        &month,
					Station:      key,
					Code:         "wrong_department_station",
					HumanMessage: fmt.Sprintf("%s was assigned to %q, which belongs to the other department", r.Name, key),
				})
			}
			continue
		}
		if counts[key] != s.DurationMonths {
			addDiagnostic(report, schedule.Diagnostic{
				Severity:     schedule.SeverityError,
				Resident:     r.Name,
				Station:      key,
				Code:         "duration_mismatch",
				HumanMessage: fmt.Sprintf("%s has %d months at %q, expected %d", r.Name, counts[key], key, s.DurationMonths),
			})
		}
	}
}

// check 3: Immediate precedence — min_m(after) == max_m(before) + 1.
func checkPrecedence(r *resident.Resident, book *rulebook.Rulebook, report *schedule.ValidationReport) {
	for _, pair := range book.PrecedencePairsFor(r.Model) {
		beforeMonths := monthsAt(r, pair.Before)
		afterMonths := monthsAt(r, pair.After)
		if len(beforeMonths) == 0 || len(afterMonths) == 0 {
			continue
		}
		maxBefore := maxInt(beforeMonths)
		minAfter := minInt(afterMonths)
		if minAfter != maxBefore+1 {
			addDiagnostic(report, schedule.Diagnostic{
				Severity:     schedule.SeverityError,
				Resident:     r.Name,
				Code:         "precedence_violation",
				HumanMessage: fmt.Sprintf("%s: %q must end the month immediately before %q begins (last %s month %d, first %s month %d)", r.Name, pair.Before, pair.After, pair.Before, maxBefore, pair.After, minAfter),
			})
		}
	}
}

// check 4: Stage calendar and elapsed/remaining windows (C6/C7/C8).
func checkStageWindows(r *resident.Resident, book *rulebook.Rulebook, report *schedule.ValidationReport) {
	h := r.ExpectedTotalMonths(book)
	for _, m := range monthsAt(r, rulebook.StageAKey) {
		month := m
		calMonth := r.MonthDate(m).Month()
		if !book.StageAMonths[calMonth] {
			addDiagnostic(report, schedule.Diagnostic{Severity: schedule.SeverityError, Resident: r.Name, Month: &month, Station: rulebook.StageAKey, Code: "stage_a_calendar", HumanMessage: fmt.Sprintf("%s: Stage A in month %d falls on a non-exam calendar month", r.Name, m)})
		}
		if m < book.StageAMinElapsed || m > book.StageAMaxElapsed {
			addDiagnostic(report, schedule.Diagnostic{Severity: schedule.SeverityError, Resident: r.Name, Month: &month, Station: rulebook.StageAKey, Code: "stage_a_window", HumanMessage: fmt.Sprintf("%s: Stage A at elapsed month %d is outside [%d,%d]", r.Name, m, book.StageAMinElapsed, book.StageAMaxElapsed)})
		}
	}
	for _, m := range monthsAt(r, rulebook.StageBKey) {
		month := m
		calMonth := r.MonthDate(m).Month()
		if !book.StageBMonths[calMonth] {
			addDiagnostic(report, schedule.Diagnostic{Severity: schedule.SeverityError, Resident: r.Name, Month: &month, Station: rulebook.StageBKey, Code: "stage_b_calendar", HumanMessage: fmt.Sprintf("%s: Stage B in month %d falls on a non-exam calendar month", r.Name, m)})
		}
		remaining := h - m
		if remaining < book.StageBMinFromEnd || remaining > book.StageBMaxFromEnd {
			addDiagnostic(report, schedule.Diagnostic{Severity: schedule.SeverityError, Resident: r.Name, Month: &month, Station: rulebook.StageBKey, Code: "stage_b_window", HumanMessage: fmt.Sprintf("%s: Stage B with %d months remaining is outside [%d,%d]", r.Name, remaining, book.StageBMinFromEnd, book.StageBMaxFromEnd)})
		}
	}
}

// check 5: Capacity — for every occupied (calendar month, station) across
// the whole resident set: below min_interns -> warning, above max_interns
// -> error. This is a full-schedule check, distinct from pkg/capacity's
// forward-looking bottleneck forecast (which uses different severities and
// only scans ahead of the latest assigned month).
func checkCapacity(residents []*resident.Resident, book *rulebook.Rulebook, report *schedule.ValidationReport) {
	for _, calMonth := range assignedCalendarMonths(residents) {
		counts := countAssignmentsInCalendarMonth(residents, calMonth)
		for _, key := range capacityStationKeys(residents, book) {
			s, ok := lookupAnyModelStation(book, key)
			if !ok {
				continue
			}
			count := counts[key]
			label := calMonth.Format("2006-01")
			switch {
			case count < s.MinInterns:
				addDiagnostic(report, schedule.Diagnostic{
					Severity:     schedule.SeverityWarning,
					Station:      key,
					Code:         "capacity_understaffed",
					HumanMessage: fmt.Sprintf("%s: %d resident(s) assigned in %s, below minimum %d", key, count, label, s.MinInterns),
				})
			case s.MaxInterns != rulebook.Unbounded && count > s.MaxInterns:
				addDiagnostic(report, schedule.Diagnostic{
					Severity:     schedule.SeverityError,
					Station:      key,
					Code:         "capacity_overstaffed",
					HumanMessage: fmt.Sprintf("%s: %d resident(s) assigned in %s, exceeds maximum %d", key, count, label, s.MaxInterns),
				})
			}
		}
	}
}

// assignedCalendarMonths returns the distinct real calendar months any
// resident has an assignment in, sorted ascending.
func assignedCalendarMonths(residents []*resident.Resident) []time.Time {
	seen := map[time.Time]bool{}
	var out []time.Time
	for _, r := range residents {
		for m := range r.Assignments {
			cal := truncateToCalendarMonth(r.MonthDate(m))
			if !seen[cal] {
				seen[cal] = true
				out = append(out, cal)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

func truncateToCalendarMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// countAssignmentsInCalendarMonth counts, per station key, how many
// residents are assigned to that station at the real calendar month
// calMonth (each resident's local month index differs by start date).
func countAssignmentsInCalendarMonth(residents []*resident.Resident, calMonth time.Time) map[string]int {
	counts := map[string]int{}
	for _, r := range residents {
		localMonth := monthmath.MonthIndex(r.StartDate, calMonth)
		key, ok := r.Assignments[localMonth]
		if !ok {
			continue
		}
		counts[key]++
	}
	return counts
}

func capacityStationKeys(residents []*resident.Resident, book *rulebook.Rulebook) []string {
	seen := map[string]bool{}
	models := map[rulebook.Model]bool{}
	for _, r := range residents {
		models[r.Model] = true
	}
	if len(models) == 0 {
		models[rulebook.ModelA] = true
		models[rulebook.ModelB] = true
	}
	for m := range models {
		for key := range book.Catalog(m) {
			seen[key] = true
		}
	}
	keys := make([]string, 0, len(seen))
	for key := range seen {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func lookupAnyModelStation(book *rulebook.Rulebook, key string) (rulebook.Station, bool) {
	if s, ok := book.CatalogA[key]; ok {
		return s, true
	}
	if s, ok := book.CatalogB[key]; ok {
		return s, true
	}
	return rulebook.Station{}, false
}

// check 6: Continuity — classify runs per (resident, station).
func checkContinuity(r *resident.Resident, book *rulebook.Rulebook, report *schedule.ValidationReport) {
	catalog := book.Catalog(r.Model)
	excluded := rulebook.ExcludedStationsFor(catalog, r.Department)

	for key, s := range catalog {
		if excluded[key] || s.Kind() == rulebook.KindElastic {
			continue
		}
		runs := runsOf(r, key)
		if len(runs) <= 1 {
			continue
		}
		lengths := runLengths(runs)
		switch {
		case s.NoSplitAllowed:
			addDiagnostic(report, schedule.Diagnostic{
				Severity: schedule.SeverityError, Resident: r.Name, Station: key,
				Code: "split_not_allowed", HumanMessage: fmt.Sprintf("%s: %q is split into %d runs but splitting is not allowed", r.Name, key, len(runs)),
			})
		case s.Splittable && matchesSplitConfig(lengths, s.SplitConfig):
			addDiagnostic(report, schedule.Diagnostic{
				Severity: schedule.SeverityWarning, Resident: r.Name, Station: key,
				Code: "split_allowed_pattern", HumanMessage: fmt.Sprintf("%s: %q split into %v, matching the preferred split pattern", r.Name, key, lengths),
			})
		case s.Splittable:
			addDiagnostic(report, schedule.Diagnostic{
				Severity: schedule.SeverityWarning, Resident: r.Name, Station: key,
				Code: "split_nonpreferred_pattern", HumanMessage: fmt.Sprintf("%s: %q split into %v, not matching the preferred pattern", r.Name, key, lengths),
			})
		default:
			addDiagnostic(report, schedule.Diagnostic{
				Severity: schedule.SeverityError, Resident: r.Name, Station: key,
				Code: "continuity_violation", HumanMessage: fmt.Sprintf("%s: %q must be consecutive but is split into %v", r.Name, key, lengths),
			})
		}
	}
}

// check 7: Prerequisites — before/after/prefer-after Stage A sets.
func checkPrerequisites(r *resident.Resident, book *rulebook.Rulebook, report *schedule.ValidationReport) {
	stageAMonths := monthsAt(r, rulebook.StageAKey)
	if len(stageAMonths) == 0 {
		return
	}
	firstStageA := minInt(stageAMonths)
	lastStageA := maxInt(stageAMonths)

	for key := range book.BeforeStageA {
		months := monthsAt(r, key)
		if len(months) == 0 {
			continue
		}
		if maxInt(months) >= firstStageA {
			addDiagnostic(report, schedule.Diagnostic{Severity: schedule.SeverityError, Resident: r.Name, Station: key, Code: "prerequisite_before_stage_a", HumanMessage: fmt.Sprintf("%s: %q must end strictly before Stage A", r.Name, key)})
		}
	}
	for key := range book.AfterStageA {
		months := monthsAt(r, key)
		if len(months) == 0 {
			continue
		}
		if minInt(months) <= lastStageA {
			addDiagnostic(report, schedule.Diagnostic{Severity: schedule.SeverityError, Resident: r.Name, Station: key, Code: "prerequisite_after_stage_a", HumanMessage: fmt.Sprintf("%s: %q must begin strictly after Stage A", r.Name, key)})
		}
	}
	for key := range book.PreferAfterStageA {
		months := monthsAt(r, key)
		if len(months) == 0 {
			continue
		}
		if minInt(months) <= lastStageA {
			addDiagnostic(report, schedule.Diagnostic{Severity: schedule.SeverityWarning, Resident: r.Name, Station: key, Code: "prefer_after_stage_a", HumanMessage: fmt.Sprintf("%s: %q is preferred after Stage A", r.Name, key)})
		}
	}
}

// check 8: Department assignment — missing department station (wrong-department
// assignments are reported by check 2).
func checkDepartmentAssignment(r *resident.Resident, book *rulebook.Rulebook, report *schedule.ValidationReport) {
	deptMonths := 0
	for _, key := range r.Assignments {
		if key == rulebook.KeyDepartmentWard {
			deptMonths++
		}
	}
	if deptMonths == 0 && r.CurrentMonthIndex >= book.DepartmentBaseMonths {
		addDiagnostic(report, schedule.Diagnostic{Severity: schedule.SeverityError, Resident: r.Name, Station: rulebook.KeyDepartmentWard, Code: "missing_department_station", HumanMessage: fmt.Sprintf("%s has no department ward assignment by month %d", r.Name, r.CurrentMonthIndex)})
	}
}

// check 9: Maternity/sick/unpaid accounting.
func checkLeaveAccounting(r *resident.Resident, book *rulebook.Rulebook, report *schedule.ValidationReport) {
	expected := r.ExpectedTotalMonths(book)
	actual := len(r.Assignments)
	if actual != expected {
		addDiagnostic(report, schedule.Diagnostic{
			Severity: schedule.SeverityError, Resident: r.Name, Code: "leave_extension_mismatch",
			HumanMessage: fmt.Sprintf("%s: assigned %d months but leave accounting expects %d (maternity=%d, unpaid=%d, sick=%v)", r.Name, actual, expected, r.MaternityLeaveMonths, r.UnpaidLeaveMonths, r.SickLeaveMonthsByYear),
		})
	}

	effective := r.EffectiveDepartmentMonths(book)
	if effective < book.DepartmentBaseMonths {
		addDiagnostic(report, schedule.Diagnostic{Severity: schedule.SeverityError, Resident: r.Name, Code: "department_months_deficit", HumanMessage: fmt.Sprintf("%s: effective department months %d is below the required base %d", r.Name, effective, book.DepartmentBaseMonths)})
	} else if effective > book.DepartmentBaseMonths {
		addDiagnostic(report, schedule.Diagnostic{Severity: schedule.SeverityWarning, Resident: r.Name, Code: "department_months_surplus", HumanMessage: fmt.Sprintf("%s: effective department months %d exceeds the base %d", r.Name, effective, book.DepartmentBaseMonths)})
	}
}

// check 10: History lock — every month through current_month_index must
// carry a recorded assignment (spec.md §4.3 check 10; "now" gates this
// check since locked history is only meaningful relative to the present).
func checkHistoryLock(r *resident.Resident, book *rulebook.Rulebook, now time.Time, report *schedule.ValidationReport) {
	for m := 0; m <= r.CurrentMonthIndex; m++ {
		if _, ok := r.Assignments[m]; !ok {
			month := m
			addDiagnostic(report, schedule.Diagnostic{Severity: schedule.SeverityError, Resident: r.Name, Month: &month, Code: "missing_locked_history", HumanMessage: fmt.Sprintf("%s: locked month %d has no recorded assignment", r.Name, m)})
		}
	}
}

func monthsAt(r *resident.Resident, key string) []int {
	var months []int
	for m, k := range r.Assignments {
		if k == key {
			months = append(months, m)
		}
	}
	return months
}

func runsOf(r *resident.Resident, key string) [][]int {
	months := monthsAt(r, key)
	if len(months) == 0 {
		return nil
	}
	sortInts(months)

	var runs [][]int
	current := []int{months[0]}
	for i := 1; i < len(months); i++ {
		if months[i] == months[i-1]+1 {
			current = append(current, months[i])
		} else {
			runs = append(runs, current)
			current = []int{months[i]}
		}
	}
	runs = append(runs, current)
	return runs
}

func runLengths(runs [][]int) []int {
	lengths := make([]int, len(runs))
	for i, run := range runs {
		lengths[i] = len(run)
	}
	return lengths
}

func matchesSplitConfig(lengths []int, split *rulebook.Split) bool {
	if split == nil || len(lengths) != 2 {
		return false
	}
	return (lengths[0] == split.First && lengths[1] == split.Second) ||
		(lengths[0] == split.Second && lengths[1] == split.First)
}

func sortInts(a []int) {
	for i := 1; i < len(a); i++ {
		for j := i; j > 0 && a[j-1] > a[j]; j-- {
			a[j-1], a[j] = a[j], a[j-1]
		}
	}
}

func minInt(a []int) int {
	m := a[0]
	for _, v := range a[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func maxInt(a []int) int {
	m := a[0]
	for _, v := range a[1:] {
		if v > m {
			m = v
		}
	}
	return m
}
