package solver

import (
	"github.com/google/or-tools/ortools/sat/go/cpmodel"
)

// addEquality and addGreaterOrEqual are expressed purely in terms of
// AddLessOrEqual, a constraint-posting primitive this package's Go CP-SAT
// sample demonstrates directly, to avoid depending on API surface
// (AddEquality, AddGreaterOrEqual) that is plausible but unverified in the
// available reference material.
func addEquality(model *cpmodel.CpModelBuilder, lhs, rhs cpmodel.LinearArgument) {
	model.AddLessOrEqual(lhs, rhs)
	model.AddLessOrEqual(rhs, lhs)
}

func addGreaterOrEqual(model *cpmodel.CpModelBuilder, lhs, rhs cpmodel.LinearArgument) {
	model.AddLessOrEqual(rhs, lhs)
}

// weightedTerm pairs a variable with its objective/linear-expression coefficient.
type weightedTerm struct {
	Var   cpmodel.LinearArgument
	Coeff int64
}

// sumExpr builds a LinearExpr over a simple variable list (coefficient 1 each).
func sumExpr(vars []cpmodel.BoolVar) *cpmodel.LinearExpr {
	expr := cpmodel.NewLinearExpr()
	for _, v := range vars {
		expr.Add(v)
	}
	return expr
}

// weightedSumExpr builds Σ coeff*var using AddTerm, the conventional CP-SAT
// linear-expression builder method for weighted terms.
func weightedSumExpr(terms []weightedTerm) *cpmodel.LinearExpr {
	expr := cpmodel.NewLinearExpr()
	for _, t := range terms {
		expr.AddTerm(t.Var, t.Coeff)
	}
	return expr
}
