package main

import (
	"testing"
	"time"

	"github.com/obgyn-residency/resiplan/pkg/rulebook"
	"github.com/obgyn-residency/resiplan/pkg/schedule"
)

func TestLockedCutoff(t *testing.T) {
	start := time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		now  time.Time
		want int
	}{
		{"before start", time.Date(2019, time.December, 15, 0, 0, 0, 0, time.UTC), -1},
		{"exactly start", start, 0},
		{"mid month 3", time.Date(2020, time.April, 15, 0, 0, 0, 0, time.UTC), 3},
		{"exactly month boundary", time.Date(2020, time.July, 1, 0, 0, 0, 0, time.UTC), 6},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := lockedCutoff(start, c.now); got != c.want {
				t.Errorf("lockedCutoff(%v) = %d, want %d", c.now, got, c.want)
			}
		})
	}
}

func TestToResidentsRoundTrip(t *testing.T) {
	now := time.Date(2020, time.April, 15, 0, 0, 0, 0, time.UTC)
	records := []schedule.ResidentRecord{
		{
			Name: "r1", StartDate: time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC),
			Model: "A", Department: "A", Email: "r1@example.org",
			Assignments: map[int]string{0: rulebook.KeyOrientation},
		},
	}

	residents, err := toResidents(records, now)
	if err != nil {
		t.Fatalf("toResidents: %v", err)
	}
	if len(residents) != 1 {
		t.Fatalf("expected 1 resident, got %d", len(residents))
	}
	r := residents[0]
	if r.Model != rulebook.ModelA || r.Department != rulebook.DeptA {
		t.Errorf("unexpected model/department: %v/%v", r.Model, r.Department)
	}
	if r.CurrentMonthIndex != 3 {
		t.Errorf("expected CurrentMonthIndex=3, got %d", r.CurrentMonthIndex)
	}

	back := fromResidents(residents)
	if back[0].Name != "r1" || back[0].Model != "A" || back[0].Department != "A" {
		t.Errorf("round trip mismatch: %+v", back[0])
	}
}

func TestToResidentsRejectsUnknownModel(t *testing.T) {
	records := []schedule.ResidentRecord{{Name: "bad", Model: "C", Department: "A"}}
	if _, err := toResidents(records, time.Now()); err == nil {
		t.Error("expected error for unknown model")
	}
}
