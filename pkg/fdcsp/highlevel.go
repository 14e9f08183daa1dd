package fdcsp

// This file provides a thin, additive high-level API over the Model/Solver/
// propagation primitives, reducing boilerplate for the common "one variable
// per slot, domain of values" modeling style used by the rotation scheduler.
// All functions are pure wrappers with literate docs, in the spirit of the
// underlying engine's own HLAPI layer.

import (
	"context"
	"fmt"
)

// DomainRange returns a domain representing the inclusive range [min..max].
// If min <= 1, this is equivalent to NewBitSetDomain(max). For min>1, values
// outside the range are removed in one bulk operation. Empty ranges return an
// empty domain.
func DomainRange(min, max int) Domain {
	if max <= 0 || min > max {
		return NewBitSetDomain(0)
	}
	if min <= 1 {
		return NewBitSetDomain(max)
	}
	return NewBitSetDomain(max).RemoveBelow(min)
}

// DomainValues returns a domain containing only the provided values. Values
// out of range are ignored. Empty input yields an empty domain.
func DomainValues(vals ...int) Domain {
	if len(vals) == 0 {
		return NewBitSetDomain(0)
	}
	max := 0
	for _, v := range vals {
		if v > max {
			max = v
		}
	}
	if max <= 0 {
		return NewBitSetDomain(0)
	}
	return NewBitSetDomainFromValues(max, vals)
}

// IntVar creates a new FD variable with the domain DomainRange(min, max):
// [min..max] for min >= 1, and [1..max] for min <= 1, since domains never
// hold values below 1. If name is non-empty a named variable is created
// (useful in debugging and formatted output).
func (m *Model) IntVar(min, max int, name string) *FDVariable {
	d := DomainRange(min, max)
	if name != "" {
		return m.NewVariableWithName(d, name)
	}
	return m.NewVariable(d)
}

// IntVars creates count FD variables with domain [min..max]. If baseName is
// non-empty, variables are named baseName1, baseName2, ... baseNameN; otherwise
// anonymous variables are created.
func (m *Model) IntVars(count, min, max int, baseName string) []*FDVariable {
	if count <= 0 {
		return nil
	}
	d := DomainRange(min, max)
	if baseName == "" {
		return m.NewVariables(count, d)
	}
	names := make([]string, count)
	for i := 0; i < count; i++ {
		names[i] = fmt.Sprintf("%s%d", baseName, i+1)
	}
	return m.NewVariablesWithNames(names, d)
}

// LinearSum posts Σ coeffs[i]*vars[i] = total, using bounds-consistent propagation.
func (m *Model) LinearSum(vars []*FDVariable, coeffs []int, total *FDVariable) error {
	c, err := NewLinearSum(vars, coeffs, total)
	if err != nil {
		return err
	}
	m.AddConstraint(c)
	return nil
}

// AmongExactly posts Among(vars, values, k) with k pinned to an exact count,
// hiding the underlying K-encoding (K ∈ [1..n+1] represents count = K-1).
func (m *Model) AmongExactly(vars []*FDVariable, values []int, count int) error {
	return m.AmongRange(vars, values, count, count)
}

// AmongRange posts Among(vars, values, k) with k constrained to the inclusive
// count range [minCount, maxCount], hiding the underlying K-encoding.
func (m *Model) AmongRange(vars []*FDVariable, values []int, minCount, maxCount int) error {
	if minCount < 0 || maxCount < minCount {
		return fmt.Errorf("AmongRange: invalid count range [%d,%d]", minCount, maxCount)
	}
	k := m.IntVar(minCount+1, maxCount+1, "")
	c, err := NewAmong(vars, values, k)
	if err != nil {
		return err
	}
	m.AddConstraint(c)
	return nil
}

// SolveN solves the model and returns up to maxSolutions solutions using the
// default sequential solver. For advanced control, use NewSolver(m) directly.
func SolveN(ctx context.Context, m *Model, maxSolutions int) ([][]int, error) {
	solver := NewSolver(m)
	return solver.Solve(ctx, maxSolutions)
}

// Solve is SolveN with context.Background().
func Solve(m *Model, maxSolutions int) ([][]int, error) {
	return SolveN(context.Background(), m, maxSolutions)
}
