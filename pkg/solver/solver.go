// Package solver drives the fdcsp engine against a built CSP (spec.md
// §4.2): it runs a wall-clock-bounded optimize pass, interprets the
// resulting status, extracts the solution back into resident assignments,
// and retries with relaxation profile R1 on infeasibility.
package solver

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/obgyn-residency/resiplan/pkg/csp"
	"github.com/obgyn-residency/resiplan/pkg/fdcsp"
	"github.com/obgyn-residency/resiplan/pkg/resident"
	"github.com/obgyn-residency/resiplan/pkg/rulebook"
)

// Status is the outcome of a solve attempt (spec.md §4.2).
type Status int

const (
	StatusOptimal Status = iota
	StatusFeasible
	StatusInfeasible
	StatusTimeout
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "OPTIMAL"
	case StatusFeasible:
		return "FEASIBLE"
	case StatusInfeasible:
		return "INFEASIBLE"
	case StatusTimeout:
		return "TIMEOUT"
	default:
		return "UNKNOWN"
	}
}

// Solution is the result of one solve call.
type Solution struct {
	ID             uuid.UUID
	Status         Status
	WallTime       time.Duration
	RelaxationUsed csp.RelaxationProfile
	ObjectiveValue int
	NodesExplored  int64
	Backtracks     int64
}

// Solve runs a single solve attempt at the given relaxation profile,
// rewriting the non-locked months of residents in place on success. On
// infeasibility or timeout, residents are left untouched (spec.md §4.2
// failure semantics: all-or-nothing).
func Solve(ctx context.Context, residents []*resident.Resident, book *rulebook.Rulebook, budget time.Duration, profile csp.RelaxationProfile, log *zap.Logger) (*Solution, error) {
	if log == nil {
		log = zap.NewNop()
	}
	start := time.Now()
	id := uuid.New()

	problem, err := csp.Build(residents, book, profile, log)
	if err != nil {
		return nil, err
	}

	fdSolver := fdcsp.NewSolver(problem.Model)
	monitor := fdcsp.NewSolverMonitor()
	fdSolver.SetMonitor(monitor)

	solveCtx := ctx
	var cancel context.CancelFunc
	if budget > 0 {
		solveCtx, cancel = context.WithTimeout(ctx, budget)
		defer cancel()
	}

	log.Info("solve starting", zap.String("run_id", id.String()), zap.String("profile", profile.String()))

	values, objective, err := fdSolver.SolveOptimal(solveCtx, problem.Objective, true)
	elapsed := time.Since(start)
	stats := monitor.GetStats()

	if err != nil {
		if err == context.DeadlineExceeded {
			log.Warn("solve timed out",
				zap.String("run_id", id.String()),
				zap.Duration("budget", budget),
				zap.Int64("nodes_explored", stats.NodesExplored),
				zap.Int64("backtracks", stats.Backtracks),
			)
			return &Solution{
				ID: id, Status: StatusTimeout, WallTime: elapsed, RelaxationUsed: profile,
				NodesExplored: stats.NodesExplored, Backtracks: stats.Backtracks,
			}, nil
		}
		return nil, err
	}

	if values == nil {
		log.Info("solve infeasible",
			zap.String("run_id", id.String()),
			zap.String("profile", profile.String()),
			zap.Int64("nodes_explored", stats.NodesExplored),
		)
		return &Solution{
			ID: id, Status: StatusInfeasible, WallTime: elapsed, RelaxationUsed: profile,
			NodesExplored: stats.NodesExplored, Backtracks: stats.Backtracks,
		}, nil
	}

	extractSolution(problem, values, residents)

	status := StatusOptimal
	if solveCtx.Err() != nil {
		status = StatusFeasible
	}

	log.Info("solve succeeded",
		zap.String("run_id", id.String()),
		zap.String("status", status.String()),
		zap.Int("objective", objective),
		zap.Duration("wall_time", elapsed),
		zap.Int64("nodes_explored", stats.NodesExplored),
		zap.Int64("backtracks", stats.Backtracks),
	)
	log.Debug("solve statistics", zap.String("run_id", id.String()), zap.String("stats", stats.String()))

	return &Solution{
		ID:             id,
		Status:         status,
		WallTime:       elapsed,
		RelaxationUsed: profile,
		ObjectiveValue: objective,
		NodesExplored:  stats.NodesExplored,
		Backtracks:     stats.Backtracks,
	}, nil
}

// SolveWithRelaxation tries the full profile first; on INFEASIBLE or
// TIMEOUT, retries once with relaxation profile R1 (spec.md §4.2).
func SolveWithRelaxation(ctx context.Context, residents []*resident.Resident, book *rulebook.Rulebook, budget time.Duration, log *zap.Logger) (*Solution, error) {
	sol, err := Solve(ctx, residents, book, budget, csp.ProfileFull, log)
	if err != nil {
		return nil, err
	}
	if sol.Status == StatusOptimal || sol.Status == StatusFeasible {
		return sol, nil
	}
	return Solve(ctx, residents, book, budget, csp.ProfileR1, log)
}

// extractSolution writes the solved values back into each resident's
// non-locked months (spec.md §4.2 Extraction).
func extractSolution(problem *csp.Problem, values []int, residents []*resident.Resident) {
	for _, r := range residents {
		vars := problem.MonthVars[r.Name]
		for m, v := range vars {
			if r.IsLocked(m) {
				continue
			}
			key := problem.Index.Key(values[v.ID()])
			if key != "" {
				r.Assignments[m] = key
			}
		}
	}
}
