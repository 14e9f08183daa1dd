// Package resident holds the per-resident record and the derived quantities
// (expected total months, effective department months, progress) the
// constraint builder, validator, and capacity analyzer all read.
package resident

import (
	"time"

	"github.com/google/uuid"
	"github.com/obgyn-residency/resiplan/internal/monthmath"
	"github.com/obgyn-residency/resiplan/pkg/rulebook"
)

// Resident is a single trainee's record (spec.md §3 Resident).
type Resident struct {
	Name              string
	StartDate         time.Time
	Model             rulebook.Model
	Department        rulebook.Department
	Email             string
	CurrentMonthIndex int // -1 means no history yet
	Assignments       map[int]string // month index -> station key

	MaternityLeaveMonths int
	UnpaidLeaveMonths    int
	SickLeaveMonthsByYear map[int]int // calendar year -> sick months taken

	// SnapshotID correlates this resident's state across one solve/validate/
	// analyze invocation in logs (SPEC_FULL.md §11).
	SnapshotID uuid.UUID
}

// New creates a Resident with no history, stamping a fresh snapshot ID.
func New(name string, start time.Time, model rulebook.Model, dept rulebook.Department) *Resident {
	return &Resident{
		Name:                  name,
		StartDate:             start,
		Model:                 model,
		Department:            dept,
		CurrentMonthIndex:     -1,
		Assignments:           make(map[int]string),
		SickLeaveMonthsByYear: make(map[int]int),
		SnapshotID:            uuid.New(),
	}
}

// MonthDate returns the calendar date of month index m (spec.md §3
// get_month_date), via internal/monthmath's calendar-aware arithmetic.
func (r *Resident) MonthDate(m int) time.Time {
	return monthmath.AddMonths(r.StartDate, m)
}

// BaseMonths returns the nominal program length for this resident's model.
func (r *Resident) BaseMonths(book *rulebook.Rulebook) int {
	return book.BaseMonths[r.Model]
}

// ExpectedTotalMonths computes spec.md §3's derivation:
//
//	base + max(0, maternity-6) + Σ_year max(0, sick_year-1) + unpaid
func (r *Resident) ExpectedTotalMonths(book *rulebook.Rulebook) int {
	base := r.BaseMonths(book)
	limit := book.MaternityLeaveDeductionLimit

	extension := 0
	if r.MaternityLeaveMonths > limit {
		extension += r.MaternityLeaveMonths - limit
	}
	for _, sick := range r.SickLeaveMonthsByYear {
		if sick > 1 {
			extension += sick - 1
		}
	}
	extension += r.UnpaidLeaveMonths

	return base + extension
}

// EffectiveDepartmentMonths computes spec.md §3's derivation:
//
//	(months assigned to the department station) + min(maternity,6) + Σ_year min(sick_year,1)
func (r *Resident) EffectiveDepartmentMonths(book *rulebook.Rulebook) int {
	deptMonths := 0
	for _, key := range r.Assignments {
		if key == rulebook.KeyDepartmentWard {
			deptMonths++
		}
	}

	limit := book.MaternityLeaveDeductionLimit
	maternityCredit := r.MaternityLeaveMonths
	if maternityCredit > limit {
		maternityCredit = limit
	}

	sickCredit := 0
	for _, sick := range r.SickLeaveMonthsByYear {
		if sick > 1 {
			sickCredit++
		} else {
			sickCredit += sick
		}
	}

	return deptMonths + maternityCredit + sickCredit
}

// Progress computes spec.md §3's derivation: completed months (through
// CurrentMonthIndex, excluding unpaid leave, crediting capped maternity and
// one sick month per year) divided by the base program length.
func (r *Resident) Progress(book *rulebook.Rulebook) float64 {
	base := r.BaseMonths(book)
	if base <= 0 {
		return 0
	}

	limit := book.MaternityLeaveDeductionLimit
	maternityCredit := r.MaternityLeaveMonths
	if maternityCredit > limit {
		maternityCredit = limit
	}

	sickCredit := 0
	for _, sick := range r.SickLeaveMonthsByYear {
		if sick > 1 {
			sickCredit++
		} else {
			sickCredit += sick
		}
	}

	counted := 0
	for m, key := range r.Assignments {
		if m > r.CurrentMonthIndex {
			continue
		}
		if key == rulebook.KeyUnpaidLeave {
			continue
		}
		if key == rulebook.KeyMaternityLeave || key == rulebook.KeySickLeave {
			continue // credited separately, capped, below
		}
		counted++
	}
	counted += maternityCredit + sickCredit

	return float64(counted) / float64(base)
}

// IsLocked reports whether month index m is part of the resident's fixed
// history and must not be altered by the solver (spec.md §3, C2).
func (r *Resident) IsLocked(m int) bool {
	return m <= r.CurrentMonthIndex
}
