package simplify

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sort"

	"github.com/netrixframework/cexsimplify/eval"
	"github.com/netrixframework/cexsimplify/explain"
	"github.com/netrixframework/cexsimplify/expr"
	"github.com/netrixframework/cexsimplify/linear"
	"github.com/netrixframework/cexsimplify/log"
	"github.com/netrixframework/cexsimplify/util"
	"github.com/netrixframework/cexsimplify/witness"
)

// Result of simplifying one witness
type Result struct {
	// Model is the simplified witness, or the input witness when the
	// simplification was not applied
	Model *witness.Model
	// Constraints is the active constraint set the optimizer was bound to
	Constraints []*expr.Expr
	System      *linear.System
	// Applied is false when the optimizer failed recoverably
	Applied bool
	// Diagnostic explains why the simplification was not applied
	Diagnostic error
	// Changed lists the overwritten names in ascending order
	Changed []string
	// Before and After are the objective values of the input and output
	Before *big.Rat
	After  *big.Rat
}

// Simplifier searches for simpler witnesses. It holds no per request state
// and can be shared between goroutines.
type Simplifier struct {
	Options Options
	Logger  *log.Logger
}

// NewSimplifier creates a Simplifier. A nil logger logs through the
// DefaultLogger.
func NewSimplifier(opts Options, logger *log.Logger) *Simplifier {
	if logger == nil {
		logger = log.DefaultLogger
	}
	return &Simplifier{
		Options: opts,
		Logger:  logger.With(log.LogParams{"component": "simplifier"}),
	}
}

// Simplify minimizes the variation across steps of the configured families
// in m while keeping formula true.
func (s *Simplifier) Simplify(ctx context.Context, m *witness.Model, formula *expr.Expr) (*Result, error) {
	return s.SimplifyWith(ctx, m, formula, FamilyObjective(m, s.Options.Families...))
}

// SimplifyWith minimizes obj over the numeric variables of m, subject to the
// active constraints of formula under m. Only real valued entries that took
// part in the optimization are overwritten; integers are held fixed.
//
// Errors are returned for malformed input (unknown variables, unsupported or
// non-linear terms, m not satisfying formula). When the optimizer fails or
// times out the Result carries the unmodified m and a Diagnostic instead.
func (s *Simplifier) SimplifyWith(ctx context.Context, m *witness.Model, formula *expr.Expr, obj Objective) (*Result, error) {
	atomics, err := explain.Extract(formula, m, true)
	if err != nil {
		return nil, err
	}
	sys, err := linear.Build(atomics)
	if err != nil {
		return nil, err
	}
	s.Logger.With(log.LogParams{
		"constraints": len(atomics),
		"variables":   len(sys.Vars),
		"terms":       len(obj.Terms),
	}).Debug("Built constraint system")

	start := make(map[string]*big.Rat)
	pinned := make(map[string]bool)
	for name, v := range m.Assignments() {
		if !v.IsNumeric() {
			continue
		}
		start[name] = v.Rat()
		if v.Sort() == witness.IntSort {
			pinned[name] = true
		}
	}

	res := &Result{
		Model:       m,
		Constraints: atomics,
		System:      sys,
		Before:      obj.Value(start),
	}
	res.After = res.Before

	if obj.Empty() {
		return s.fallback(res, errors.New("empty objective")), nil
	}

	x, err := Minimize(ctx, Problem{
		System:    sys,
		Objective: obj,
		Start:     start,
		Pinned:    pinned,
	}, s.Options)
	if err != nil {
		if errors.Is(err, ErrInfeasible) || errors.Is(err, ErrTimeout) {
			return s.fallback(res, err), nil
		}
		return nil, err
	}

	simplified, err := s.assemble(m, x, formula, atomics)
	if err != nil {
		return s.fallback(res, err), nil
	}
	values := make(map[string]*big.Rat, len(start))
	for name := range start {
		v, _ := simplified.Get(name)
		values[name] = v.Rat()
		if orig, _ := m.Get(name); !orig.Equal(v) {
			res.Changed = append(res.Changed, name)
		}
	}
	sort.Strings(res.Changed)
	res.Model = simplified
	res.Applied = true
	res.After = obj.Value(values)

	before, _ := res.Before.Float64()
	after, _ := res.After.Float64()
	s.Logger.With(log.LogParams{
		"changed": len(res.Changed),
		"before":  before,
		"after":   after,
	}).Info("Simplified witness")
	return res, nil
}

// assemble copies m with the optimized values. Values the optimizer left
// alone keep their exact original. Others are first rounded to rationals
// with small denominators and, when that breaks the formula, taken as their
// exact binary value.
func (s *Simplifier) assemble(m *witness.Model, x map[string]float64, formula *expr.Expr, atomics []*expr.Expr) (*witness.Model, error) {
	for _, maxDen := range []int64{s.Options.MaxDenominator, 0} {
		updates := make(map[string]witness.Value, len(x))
		for name, v := range x {
			if orig, ok := m.Get(name); ok && orig.Float() == v {
				updates[name] = orig
				continue
			}
			r, ok := util.RatFromFloat(v, maxDen, s.Options.FeasibilityTol)
			if !ok {
				return nil, fmt.Errorf("%w: optimizer returned %g for %s", ErrInfeasible, v, name)
			}
			updates[name] = witness.Real(r)
		}
		candidate, err := m.With(updates)
		if err != nil {
			return nil, err
		}
		if verify(candidate, formula, atomics) {
			return candidate, nil
		}
		if maxDen <= 0 {
			break
		}
	}
	return nil, fmt.Errorf("%w: optimized witness does not satisfy the formula", ErrInfeasible)
}

// verify checks the candidate exactly against every active constraint and
// the whole formula.
func verify(m *witness.Model, formula *expr.Expr, atomics []*expr.Expr) bool {
	for _, a := range atomics {
		if ok, err := eval.Bool(a, m); err != nil || !ok {
			return false
		}
	}
	ok, err := eval.Bool(formula, m)
	return err == nil && ok
}

func (s *Simplifier) fallback(res *Result, diagnostic error) *Result {
	s.Logger.With(log.LogParams{
		"diagnostic": diagnostic.Error(),
	}).Warn("Simplification not applied, keeping the original witness")
	res.Applied = false
	res.Diagnostic = diagnostic
	return res
}
