// Package capacity implements the forward-scanning bottleneck analyzer
// (spec.md §4.4): given a set of (possibly partially assigned) residents, it
// projects staffing deficits and surpluses across a look-ahead window of
// calendar months and produces a deterministic schedule.CapacityReport.
package capacity

import (
	"sort"
	"time"

	"github.com/samber/lo"

	"github.com/obgyn-residency/resiplan/internal/monthmath"
	"github.com/obgyn-residency/resiplan/pkg/resident"
	"github.com/obgyn-residency/resiplan/pkg/rulebook"
	"github.com/obgyn-residency/resiplan/pkg/schedule"
)

// Analyze scans forward from the latest currently-assigned month across all
// residents through lookAheadMonths further months (or until no resident has
// that many months left, whichever comes first), flagging under/overstaffed
// and uncovered stations against the rulebook's capacity bounds.
func Analyze(residents []*resident.Resident, book *rulebook.Rulebook, lookAheadMonths int) *schedule.CapacityReport {
	mStart := maxAssignedMonthIndex(residents)
	mCap := maxExpectedTotalMonths(residents, book)
	mEnd := mStart + lookAheadMonths
	if mEnd > mCap {
		mEnd = mCap
	}

	report := &schedule.CapacityReport{}
	stationProblemCounts := map[string]int{}

	for m := mStart; m < mEnd; m++ {
		calendarMonths := calendarMonthsAt(residents, m)
		for _, calMonth := range calendarMonths {
			counts := countAssignmentsAt(residents, calMonth)
			issues := bottlenecksFor(book, residents, counts)
			if len(issues) == 0 {
				continue
			}
			report.Bottlenecks = append(report.Bottlenecks, schedule.MonthBottleneck{
				Month:  calMonth,
				Issues: issues,
			})
			for _, issue := range issues {
				stationProblemCounts[issue.Station]++
				switch issue.Severity {
				case schedule.SeverityCritical:
					report.SummaryCounts.Critical++
				case schedule.SeverityWarning:
					report.SummaryCounts.Warning++
				}
			}
		}
	}

	report.AnalyzedMonths = mEnd - mStart
	report.Recommendations = recommendations(report, stationProblemCounts)
	return report
}

func maxAssignedMonthIndex(residents []*resident.Resident) int {
	max := 0
	for _, r := range residents {
		for m := range r.Assignments {
			if m > max {
				max = m
			}
		}
	}
	return max
}

func maxExpectedTotalMonths(residents []*resident.Resident, book *rulebook.Rulebook) int {
	max := 0
	for _, r := range residents {
		h := r.ExpectedTotalMonths(book)
		if h > max {
			max = h
		}
	}
	return max
}

// calendarMonthsAt returns the distinct calendar months that correspond to
// resident-local month index m, since residents with different start dates
// reach local index m at different real dates.
func calendarMonthsAt(residents []*resident.Resident, m int) []time.Time {
	seen := map[time.Time]bool{}
	var out []time.Time
	for _, r := range residents {
		cal := truncateToMonth(monthmath.AddMonths(r.StartDate, m))
		if !seen[cal] {
			seen[cal] = true
			out = append(out, cal)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

func truncateToMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// countAssignmentsAt counts, per station key, how many residents are
// assigned to that station at the real calendar month calMonth (each
// resident's local month index may differ).
func countAssignmentsAt(residents []*resident.Resident, calMonth time.Time) map[string]int {
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

func bottlenecksFor(book *rulebook.Rulebook, residents []*resident.Resident, counts map[string]int) []schedule.BottleneckIssue {
	stations := unionStationKeys(book, residents)
	var issues []schedule.BottleneckIssue

	for _, key := range stations {
		s, ok := lookupAnyModel(book, key)
		if !ok {
			continue
		}
		count := counts[key]
		switch {
		case count == 0 && s.MinInterns > 0:
			issues = append(issues, schedule.BottleneckIssue{
				Type: "no_coverage", Severity: schedule.SeverityCritical, Station: key,
				Current: 0, Required: s.MinInterns, Deficit: s.MinInterns,
			})
		case count < s.MinInterns:
			severity := schedule.SeverityWarning
			if count == 0 {
				severity = schedule.SeverityCritical
			}
			issues = append(issues, schedule.BottleneckIssue{
				Type: "understaffed", Severity: severity, Station: key,
				Current: count, Required: s.MinInterns, Deficit: s.MinInterns - count,
			})
		case s.MaxInterns != rulebook.Unbounded && count > s.MaxInterns:
			issues = append(issues, schedule.BottleneckIssue{
				Type: "overstaffed", Severity: schedule.SeverityWarning, Station: key,
				Current: count, Maximum: s.MaxInterns, Excess: count - s.MaxInterns,
			})
		}
	}

	sort.Slice(issues, func(i, j int) bool { return issues[i].Station < issues[j].Station })
	return issues
}

func unionStationKeys(book *rulebook.Rulebook, residents []*resident.Resident) []string {
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

func lookupAnyModel(book *rulebook.Rulebook, key string) (rulebook.Station, bool) {
	if s, ok := book.CatalogA[key]; ok {
		return s, true
	}
	if s, ok := book.CatalogB[key]; ok {
		return s, true
	}
	return rulebook.Station{}, false
}

// recommendations applies the threshold rules from spec.md §4.4: any
// critical issue escalates, any understaffing suggests redistribution, the
// top-3 most-repeated problem stations are named, and a relaxation retry is
// always suggested when anything was flagged.
func recommendations(report *schedule.CapacityReport, stationProblemCounts map[string]int) []string {
	if len(report.Bottlenecks) == 0 {
		return nil
	}

	var recs []string
	if report.SummaryCounts.Critical > 0 {
		recs = append(recs, "critical staffing gap detected; escalate immediately")
	}
	if hasUnderstaffed(report) {
		recs = append(recs, "redistribute residents to cover understaffed stations")
	}

	top := topStations(stationProblemCounts, 3)
	if len(top) > 0 {
		recs = append(recs, "recurring bottleneck stations: "+joinStrings(top, ", "))
	}

	recs = append(recs, "run solver with relaxation R1 if unresolved")
	return recs
}

func hasUnderstaffed(report *schedule.CapacityReport) bool {
	for _, mb := range report.Bottlenecks {
		for _, issue := range mb.Issues {
			if issue.Type == "understaffed" || issue.Type == "no_coverage" {
				return true
			}
		}
	}
	return false
}

func topStations(counts map[string]int, n int) []string {
	type pair struct {
		key   string
		count int
	}
	pairs := lo.MapToSlice(counts, func(key string, count int) pair {
		return pair{key: key, count: count}
	})
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].count != pairs[j].count {
			return pairs[i].count > pairs[j].count
		}
		return pairs[i].key < pairs[j].key // deterministic tiebreak
	})
	if len(pairs) > n {
		pairs = pairs[:n]
	}
	return lo.Map(pairs, func(p pair, _ int) string { return p.key })
}

func joinStrings(parts []string, sep string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += sep
		}
		out += p
	}
	return out
}
