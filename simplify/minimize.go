package simplify

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/big"
	"time"

	"github.com/netrixframework/cexsimplify/config"
	"github.com/netrixframework/cexsimplify/linear"
	"github.com/netrixframework/cexsimplify/util"
	"github.com/netrixframework/cexsimplify/witness"
	"gonum.org/v1/gonum/floats"
)

var (
	// ErrInfeasible is returned when the optimizer cannot produce a point
	// satisfying the constraint system
	ErrInfeasible = errors.New("no feasible point found")
	// ErrTimeout is returned when the optimizer exceeds its time bound
	ErrTimeout = errors.New("optimizer timed out")
	// ErrUnknownMethod is returned for an unrecognized optimization method
	ErrUnknownMethod = errors.New("unknown optimization method")
)

// Method selects the numeric optimizer
type Method string

const (
	// Simplex solves the exact linear program of the L1 objective
	Simplex Method = "simplex"
	// NelderMead runs a derivative free local search from the witness
	NelderMead Method = "nelder-mead"
)

// Options parameterize the Minimizer
type Options struct {
	Method         Method
	Families       []string
	Timeout        time.Duration
	StrictMargin   float64
	FeasibilityTol float64
	MaxDenominator int64
	MaxIterations  int
	Penalty        float64
}

// NewOptions creates Options from the configuration file section
func NewOptions(c config.SimplifyConfig) Options {
	return Options{
		Method:         Method(c.Method),
		Families:       append([]string(nil), c.Families...),
		Timeout:        time.Duration(c.Timeout),
		StrictMargin:   c.StrictMargin,
		FeasibilityTol: c.FeasibilityTol,
		MaxDenominator: c.MaxDenominator,
		MaxIterations:  c.MaxIterations,
		Penalty:        c.Penalty,
	}
}

// DefaultOptions returns the options of the default configuration
func DefaultOptions() Options {
	return NewOptions(config.Default().Simplify)
}

// Problem is a minimization over the variables of a constraint system and
// an objective. Every variable must have a start value. Pinned variables are
// held at their start value.
type Problem struct {
	System    *linear.System
	Objective Objective
	Start     map[string]*big.Rat
	Pinned    map[string]bool
}

// anchorWeight keeps variables the objective does not mention at their
// start values unless moving them lets the objective decrease.
const anchorWeight = 1e-6

// program is the float rendition of a Problem over its free variables:
// minimize Σ weight[k]·|terms[k]·x + termConst[k]| subject to g·x ≤ h.
type program struct {
	vars      []string
	x0        []float64
	g         [][]float64
	h         []float64
	terms     [][]float64
	termConst []float64
	weight    []float64
}

// exactRow is a row over free variables after substituting pinned values
type exactRow struct {
	coeffs map[string]*big.Rat
	bound  *big.Rat
}

func (r exactRow) eval(values map[string]*big.Rat) *big.Rat {
	res := new(big.Rat)
	for k, c := range r.coeffs {
		res.Add(res, new(big.Rat).Mul(c, values[k]))
	}
	return res
}

// newProgram converts p to floats. Strict rows are tightened by
// min(StrictMargin, slack/2) where slack is measured at the start point, so
// the start point remains feasible.
func newProgram(p Problem, opts Options) (*program, error) {
	names := make(map[string]struct{})
	if p.System != nil {
		for _, v := range p.System.Vars {
			names[v] = struct{}{}
		}
	}
	for _, v := range p.Objective.Vars() {
		names[v] = struct{}{}
	}
	for name := range names {
		if _, ok := p.Start[name]; !ok {
			return nil, fmt.Errorf("%w: no start value for %s", witness.ErrUnknownVariable, name)
		}
	}

	split := func(coeffs map[string]*big.Rat, constant *big.Rat) exactRow {
		row := exactRow{coeffs: make(map[string]*big.Rat), bound: new(big.Rat).Set(constant)}
		for k, c := range coeffs {
			if c.Sign() == 0 {
				continue
			}
			if p.Pinned[k] {
				row.bound.Sub(row.bound, new(big.Rat).Mul(c, p.Start[k]))
			} else {
				row.coeffs[k] = c
			}
		}
		return row
	}

	var ineqs []exactRow
	var margins []float64
	if p.System != nil {
		for _, r := range p.System.Rows {
			coeffs := make(map[string]*big.Rat, len(r.Coeffs))
			for j, c := range r.Coeffs {
				coeffs[p.System.Vars[j]] = c
			}
			upper := split(coeffs, r.Upper)
			if len(upper.coeffs) == 0 {
				continue
			}
			margin := 0.0
			if r.Strict {
				slack := new(big.Rat).Sub(upper.bound, upper.eval(p.Start))
				s, _ := slack.Float64()
				margin = math.Max(0, math.Min(opts.StrictMargin, s/2))
			}
			ineqs = append(ineqs, upper)
			margins = append(margins, margin)
			if r.IsEquality() {
				neg := make(map[string]*big.Rat, len(coeffs))
				for k, c := range coeffs {
					neg[k] = new(big.Rat).Neg(c)
				}
				ineqs = append(ineqs, split(neg, new(big.Rat).Neg(r.Lower)))
				margins = append(margins, 0)
			}
		}
	}

	var terms []exactRow
	for _, t := range p.Objective.Terms {
		term := split(t.Coeffs(), t.Constant())
		if len(term.coeffs) == 0 {
			continue
		}
		terms = append(terms, term)
	}

	used := make(map[string]struct{})
	for _, r := range append(append([]exactRow(nil), ineqs...), terms...) {
		for k := range r.coeffs {
			used[k] = struct{}{}
		}
	}
	prog := &program{vars: util.SortedKeys(used)}
	index := make(map[string]int, len(prog.vars))
	prog.x0 = make([]float64, len(prog.vars))
	for j, v := range prog.vars {
		index[v] = j
		prog.x0[j], _ = p.Start[v].Float64()
	}
	dense := func(r exactRow) []float64 {
		row := make([]float64, len(prog.vars))
		for k, c := range r.coeffs {
			row[index[k]], _ = c.Float64()
		}
		return row
	}
	for i, r := range ineqs {
		bound, _ := r.bound.Float64()
		prog.g = append(prog.g, dense(r))
		prog.h = append(prog.h, bound-margins[i])
	}
	inObjective := make(map[string]bool)
	for _, t := range terms {
		// the bound of a term holds its constant
		c, _ := t.bound.Float64()
		prog.terms = append(prog.terms, dense(t))
		prog.termConst = append(prog.termConst, c)
		prog.weight = append(prog.weight, 1)
		for k := range t.coeffs {
			inObjective[k] = true
		}
	}
	if len(terms) == 0 {
		return prog, nil
	}
	for j, v := range prog.vars {
		if inObjective[v] {
			continue
		}
		row := make([]float64, len(prog.vars))
		row[j] = 1
		prog.terms = append(prog.terms, row)
		prog.termConst = append(prog.termConst, -prog.x0[j])
		prog.weight = append(prog.weight, anchorWeight)
	}
	return prog, nil
}

func (p *program) objective(x []float64) float64 {
	res := 0.0
	for k, t := range p.terms {
		res += p.weight[k] * math.Abs(floats.Dot(t, x)+p.termConst[k])
	}
	return res
}

// violation is the total amount by which x exceeds the rows
func (p *program) violation(x []float64) float64 {
	res := 0.0
	for i, g := range p.g {
		res += math.Max(0, floats.Dot(g, x)-p.h[i])
	}
	return res
}

func (p *program) maxViolation(x []float64) float64 {
	res := 0.0
	for i, g := range p.g {
		res = math.Max(res, floats.Dot(g, x)-p.h[i])
	}
	return res
}

// pullBack moves x towards the start point until every row holds. The
// feasible region is convex and contains the start point, so the segment
// between them leaves the region at most once.
func (p *program) pullBack(x []float64) []float64 {
	lambda := 1.0
	for i, g := range p.g {
		at := floats.Dot(g, x)
		if at <= p.h[i] {
			continue
		}
		from := floats.Dot(g, p.x0)
		if at-from <= 0 {
			lambda = 0
			break
		}
		lambda = math.Min(lambda, (p.h[i]-from)/(at-from))
	}
	lambda = math.Max(0, lambda)
	if lambda == 1 {
		return x
	}
	step := make([]float64, len(x))
	floats.SubTo(step, x, p.x0)
	res := make([]float64, len(x))
	copy(res, p.x0)
	floats.AddScaled(res, lambda, step)
	return res
}

// Minimize optimizes the free variables of p and returns their new values.
// Variables the rows and objective do not depend on are left out. The
// result satisfies the (tightened) rows within FeasibilityTol.
func Minimize(ctx context.Context, p Problem, opts Options) (map[string]float64, error) {
	prog, err := newProgram(p, opts)
	if err != nil {
		return nil, err
	}
	if len(prog.vars) == 0 || len(prog.terms) == 0 {
		return map[string]float64{}, nil
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrTimeout, err)
	}

	type outcome struct {
		x   []float64
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		// lp.Simplex cannot be interrupted: after a timeout this goroutine
		// runs to completion and its result is dropped.
		var out outcome
		switch opts.Method {
		case Simplex, "":
			out.x, out.err = solveSimplex(prog)
		case NelderMead:
			out.x, out.err = solveNelderMead(ctx, prog, opts)
		default:
			out.err = fmt.Errorf("%w: %q", ErrUnknownMethod, opts.Method)
		}
		done <- out
	}()

	var out outcome
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %s", ErrTimeout, ctx.Err())
	case out = <-done:
	}
	if out.err != nil {
		return nil, out.err
	}

	x := prog.pullBack(out.x)
	if v := prog.maxViolation(x); v > opts.FeasibilityTol {
		return nil, fmt.Errorf("%w: constraints violated by %g", ErrInfeasible, v)
	}
	res := make(map[string]float64, len(x))
	for j, v := range prog.vars {
		res[v] = x[j]
	}
	return res, nil
}
