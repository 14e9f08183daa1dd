package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/obgyn-residency/resiplan/internal/envconfig"
	"github.com/obgyn-residency/resiplan/pkg/capacity"
	"github.com/obgyn-residency/resiplan/pkg/rulebook"
	"github.com/obgyn-residency/resiplan/pkg/schedule"
	"github.com/obgyn-residency/resiplan/pkg/solver"
	"github.com/obgyn-residency/resiplan/pkg/validator"
)

const (
	fResidents = "residents"
	fOverride  = "override"
	fBudget    = "budget-seconds"
	fLookAhead = "lookahead-months"
)

// newApp builds the resiplan CLI (SPEC_FULL.md §11), grounded on
// guitarbeat-gantt/latex-yearly-planner's urfave/cli/v2 App-with-Commands
// structure.
func newApp(log *zap.Logger) *cli.App {
	residentsFlag := &cli.PathFlag{Name: fResidents, Required: true, Usage: "path to a JSON array of resident ingest records"}
	overrideFlag := &cli.PathFlag{Name: fOverride, Required: false, Usage: "optional YAML rulebook override document"}

	return &cli.App{
		Name:  "resiplan",
		Usage: "residency rotation scheduling: solve, validate, and analyze capacity",

		Writer:    os.Stdout,
		ErrWriter: os.Stderr,

		Commands: []*cli.Command{
			{
				Name:  "solve",
				Usage: "assign non-locked months for every resident",
				Flags: []cli.Flag{
					residentsFlag,
					overrideFlag,
					&cli.IntFlag{Name: fBudget, Value: 0, Usage: "wall-clock budget in seconds (0 = env default)"},
				},
				Action: solveAction(log),
			},
			{
				Name:  "validate",
				Usage: "run the independent validator over an assigned schedule",
				Flags: []cli.Flag{residentsFlag, overrideFlag},
				Action: validateAction(log),
			},
			{
				Name:  "capacity",
				Usage: "forecast staffing bottlenecks over a look-ahead window",
				Flags: []cli.Flag{
					residentsFlag,
					overrideFlag,
					&cli.IntFlag{Name: fLookAhead, Value: 6, Usage: "look-ahead window in months"},
				},
				Action: capacityAction(log),
			},
		},
	}
}

func loadRulebook(overridePath string) (*rulebook.Rulebook, error) {
	cfg := rulebook.NewProgramConfiguration()
	if overridePath != "" {
		data, err := os.ReadFile(overridePath)
		if err != nil {
			return nil, fmt.Errorf("read override: %w", err)
		}
		if err := cfg.LoadOverride(data); err != nil {
			return nil, fmt.Errorf("load override: %w", err)
		}
	}
	return cfg.Snapshot(), nil
}

func loadResidentRecords(path string) ([]schedule.ResidentRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read residents: %w", err)
	}
	var records []schedule.ResidentRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse residents: %w", err)
	}
	return records, nil
}

func writeJSON(w *os.File, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func solveAction(log *zap.Logger) cli.ActionFunc {
	return func(c *cli.Context) error {
		envCfg, err := envconfig.Load()
		if err != nil {
			return fmt.Errorf("load env config: %w", err)
		}

		book, err := loadRulebook(c.Path(fOverride))
		if err != nil {
			return err
		}
		records, err := loadResidentRecords(c.Path(fResidents))
		if err != nil {
			return err
		}
		residents, err := toResidents(records, time.Now())
		if err != nil {
			return err
		}

		budgetSeconds := c.Int(fBudget)
		if budgetSeconds <= 0 {
			budgetSeconds = envCfg.SolveBudgetSeconds
		}

		sol, err := solver.SolveWithRelaxation(context.Background(), residents, book, time.Duration(budgetSeconds)*time.Second, log)
		if err != nil {
			return fmt.Errorf("solve: %w", err)
		}
		log.Info("solve complete", zap.String("status", sol.Status.String()), zap.String("relaxation", sol.RelaxationUsed.String()))

		return writeJSON(os.Stdout, map[string]any{
			"solution":  sol,
			"residents": fromResidents(residents),
		})
	}
}

func validateAction(log *zap.Logger) cli.ActionFunc {
	return func(c *cli.Context) error {
		envCfg, err := envconfig.Load()
		if err != nil {
			return fmt.Errorf("load env config: %w", err)
		}

		book, err := loadRulebook(c.Path(fOverride))
		if err != nil {
			return err
		}
		records, err := loadResidentRecords(c.Path(fResidents))
		if err != nil {
			return err
		}
		now := time.Now()
		residents, err := toResidents(records, now)
		if err != nil {
			return err
		}

		var hinter validator.RemediationHinter = validator.NoHinter{}
		if envCfg.HintsEnabled() {
			log.Warn("remediation hint credential configured but no hint backend is wired; falling back to rule-driven messages")
		}

		report, err := validator.Validate(residents, book, &now, hinter)
		if err != nil {
			return fmt.Errorf("validate: %w", err)
		}
		log.Info("validation complete", zap.Int("errors", len(report.Errors)), zap.Int("warnings", len(report.Warnings)))

		return writeJSON(os.Stdout, report)
	}
}

func capacityAction(log *zap.Logger) cli.ActionFunc {
	return func(c *cli.Context) error {
		book, err := loadRulebook(c.Path(fOverride))
		if err != nil {
			return err
		}
		records, err := loadResidentRecords(c.Path(fResidents))
		if err != nil {
			return err
		}
		residents, err := toResidents(records, time.Now())
		if err != nil {
			return err
		}

		report := capacity.Analyze(residents, book, c.Int(fLookAhead))
		log.Info("capacity analysis complete", zap.Int("analyzed_months", report.AnalyzedMonths), zap.Int("critical", report.SummaryCounts.Critical))

		return writeJSON(os.Stdout, report)
	}
}
