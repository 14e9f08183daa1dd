package main

import (
	"fmt"
	"time"

	"github.com/obgyn-residency/resiplan/internal/monthmath"
	"github.com/obgyn-residency/resiplan/pkg/resident"
	"github.com/obgyn-residency/resiplan/pkg/rulebook"
	"github.com/obgyn-residency/resiplan/pkg/schedule"
)

// toResidents converts ingest records (spec.md §6) into domain Resident
// values. now determines which months are locked: get_month_date(m) <= now.
func toResidents(records []schedule.ResidentRecord, now time.Time) ([]*resident.Resident, error) {
	out := make([]*resident.Resident, 0, len(records))
	for _, rec := range records {
		model, err := parseModel(rec.Model)
		if err != nil {
			return nil, fmt.Errorf("resident %q: %w", rec.Name, err)
		}
		dept, err := parseDepartment(rec.Department)
		if err != nil {
			return nil, fmt.Errorf("resident %q: %w", rec.Name, err)
		}

		r := resident.New(rec.Name, rec.StartDate, model, dept)
		r.Email = rec.Email
		r.MaternityLeaveMonths = rec.MaternityLeaveMonths
		r.UnpaidLeaveMonths = rec.UnpaidLeaveMonths
		for year, months := range rec.SickLeaveMonthsByYear {
			r.SickLeaveMonthsByYear[year] = months
		}
		for m, key := range rec.Assignments {
			r.Assignments[m] = key
		}
		r.CurrentMonthIndex = lockedCutoff(rec.StartDate, now)

		out = append(out, r)
	}
	return out, nil
}

// lockedCutoff returns the highest month index m such that
// get_month_date(m) <= now, or -1 if even month 0 is in the future.
func lockedCutoff(start, now time.Time) int {
	m := monthmath.MonthIndex(start, now)
	if monthmath.AddMonths(start, m).After(now) {
		m--
	}
	return m
}

func parseModel(s string) (rulebook.Model, error) {
	switch s {
	case "A":
		return rulebook.ModelA, nil
	case "B":
		return rulebook.ModelB, nil
	default:
		return 0, fmt.Errorf("unknown model %q, want \"A\" or \"B\"", s)
	}
}

func parseDepartment(s string) (rulebook.Department, error) {
	switch s {
	case "A":
		return rulebook.DeptA, nil
	case "B":
		return rulebook.DeptB, nil
	default:
		return 0, fmt.Errorf("unknown department %q, want \"A\" or \"B\"", s)
	}
}

// fromResidents converts domain Resident values back into egress records
// (spec.md §6).
func fromResidents(residents []*resident.Resident) []schedule.ResidentRecord {
	out := make([]schedule.ResidentRecord, 0, len(residents))
	for _, r := range residents {
		out = append(out, schedule.ResidentRecord{
			Name:                  r.Name,
			StartDate:             r.StartDate,
			Model:                 r.Model.String(),
			Department:            departmentString(r.Department),
			Email:                 r.Email,
			Assignments:           r.Assignments,
			MaternityLeaveMonths:  r.MaternityLeaveMonths,
			UnpaidLeaveMonths:     r.UnpaidLeaveMonths,
			SickLeaveMonthsByYear: r.SickLeaveMonthsByYear,
		})
	}
	return out
}

func departmentString(d rulebook.Department) string {
	if d == rulebook.DeptA {
		return "A"
	}
	return "B"
}
