package validator

// RemediationHinter optionally enriches a diagnostic's human_message with a
// natural-language remediation suggestion (SPEC_FULL.md §12.2, grounded on
// original_source/src/validator.py's credential-gated AI suggestion path).
// The zero value (NoHinter) is always safe to use: the validator's
// rule-driven messages are complete without it.
type RemediationHinter interface {
	Hint(code, humanMessage string) (string, bool)
}

// NoHinter never supplies a remediation hint. It is the default used when
// no credential is configured (internal/envconfig.Config.HintsEnabled).
type NoHinter struct{}

// Hint always returns ("", false).
func (NoHinter) Hint(code, humanMessage string) (string, bool) { return "", false }
