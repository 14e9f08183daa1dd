package capacity

import (
	"testing"
	"time"

	"github.com/obgyn-residency/resiplan/pkg/resident"
	"github.com/obgyn-residency/resiplan/pkg/rulebook"
)

// TestAnalyzeFlagsFutureDeficit exercises spec.md scenario S6: a cohort
// where a future month has only one resident at a station whose
// min_interns is 3 should be flagged understaffed with deficit 2.
func TestAnalyzeFlagsFutureDeficit(t *testing.T) {
	book := rulebook.NewProgramConfiguration().Snapshot()
	start := time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)

	r1 := resident.New("r1", start, rulebook.ModelA, rulebook.DeptA)
	r1.CurrentMonthIndex = 40
	r1.Assignments[40] = rulebook.KeyDeliveryRoom // min_interns 3

	report := Analyze([]*resident.Resident{r1}, book, 1)
	target := truncateToMonth(r1.MonthDate(40))

	var found bool
	for _, mb := range report.Bottlenecks {
		if mb.Month != target {
			continue
		}
		for _, issue := range mb.Issues {
			if issue.Station != rulebook.KeyDeliveryRoom {
				continue
			}
			found = true
			if issue.Type != "understaffed" {
				t.Errorf("expected understaffed, got %q", issue.Type)
			}
			if issue.Current != 1 {
				t.Errorf("expected current=1, got %d", issue.Current)
			}
			if issue.Required != 3 {
				t.Errorf("expected required=3, got %d", issue.Required)
			}
			if issue.Deficit != 2 {
				t.Errorf("expected deficit=2, got %d", issue.Deficit)
			}
			if issue.Severity != "warning" {
				t.Errorf("expected warning severity, got %q", issue.Severity)
			}
		}
	}
	if !found {
		t.Fatalf("expected an understaffed delivery_room issue, got %+v", report.Bottlenecks)
	}
}

func TestAnalyzeNoCoverageIsCritical(t *testing.T) {
	book := rulebook.NewProgramConfiguration().Snapshot()
	start := time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)

	r1 := resident.New("r1", start, rulebook.ModelA, rulebook.DeptA)
	r1.CurrentMonthIndex = 40
	r1.Assignments[40] = rulebook.KeyOrientation // nobody assigned to delivery_room at all

	report := Analyze([]*resident.Resident{r1}, book, 1)

	if report.SummaryCounts.Critical == 0 {
		t.Errorf("expected at least one critical no_coverage issue, got summary=%+v", report.SummaryCounts)
	}
}

func TestAnalyzeIsDeterministic(t *testing.T) {
	book := rulebook.NewProgramConfiguration().Snapshot()
	start := time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)

	r1 := resident.New("r1", start, rulebook.ModelA, rulebook.DeptA)
	r1.CurrentMonthIndex = 40
	r1.Assignments[40] = rulebook.KeyDeliveryRoom

	r2 := resident.New("r2", start.AddDate(0, 3, 0), rulebook.ModelB, rulebook.DeptB)
	r2.CurrentMonthIndex = 37
	r2.Assignments[37] = rulebook.KeyWomensER

	first := Analyze([]*resident.Resident{r1, r2}, book, 2)
	second := Analyze([]*resident.Resident{r1, r2}, book, 2)

	if len(first.Bottlenecks) != len(second.Bottlenecks) {
		t.Fatalf("non-deterministic bottleneck count: %d vs %d", len(first.Bottlenecks), len(second.Bottlenecks))
	}
	for i := range first.Bottlenecks {
		if first.Bottlenecks[i].Month != second.Bottlenecks[i].Month {
			t.Errorf("bottleneck %d month differs: %v vs %v", i, first.Bottlenecks[i].Month, second.Bottlenecks[i].Month)
		}
	}
}

func TestRecommendationsAlwaysSuggestRelaxationWhenFlagged(t *testing.T) {
	book := rulebook.NewProgramConfiguration().Snapshot()
	start := time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)
	r1 := resident.New("r1", start, rulebook.ModelA, rulebook.DeptA)
	r1.CurrentMonthIndex = 40
	r1.Assignments[40] = rulebook.KeyDeliveryRoom

	report := Analyze([]*resident.Resident{r1}, book, 1)
	if len(report.Recommendations) == 0 {
		t.Fatal("expected at least one recommendation")
	}
	last := report.Recommendations[len(report.Recommendations)-1]
	if last != "run solver with relaxation R1 if unresolved" {
		t.Errorf("expected trailing relaxation suggestion, got %q", last)
	}
}
