// Package envconfig loads process-level defaults from the environment
// (spec.md §6) using github.com/caarlos0/env/v6, the same struct-tag
// pattern guitarbeat-gantt's internal/config uses for its PLANNER_* vars.
package envconfig

import "github.com/caarlos0/env/v6"

// Config holds the environment-derived settings this module consults
// outside of the rulebook itself.
type Config struct {
	// SolveBudgetSeconds is the default wall-clock budget handed to the
	// solver driver when the caller does not specify one explicitly.
	SolveBudgetSeconds int `env:"RESIPLAN_SOLVE_BUDGET_SECONDS" envDefault:"30"`

	// RemediationHintAPIKey optionally enables the validator's natural-
	// language remediation hints (spec.md §6). Its absence is non-fatal;
	// the rule-driven human_message/recommendations strings are always
	// produced regardless (SPEC_FULL.md §12.2).
	RemediationHintAPIKey string `env:"RESIPLAN_REMEDIATION_API_KEY"`
}

// Load parses Config from the current environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// HintsEnabled reports whether a remediation-hint credential is configured.
func (c *Config) HintsEnabled() bool {
	return c.RemediationHintAPIKey != ""
}
