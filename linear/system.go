package linear

import (
	"fmt"
	"math"
	"math/big"
	"sort"
	"strings"

	"github.com/netrixframework/cexsimplify/expr"
	"github.com/netrixframework/cexsimplify/util"
	"gonum.org/v1/gonum/mat"
)

// Row is the constraint Lower ≤ Coeffs·x ≤ Upper. Inequalities leave Lower
// nil; equalities set Lower and Upper to the same bound. Strict rows came
// from < or > and keep a closed bound here: how strictness is enforced is up
// to the consumer.
type Row struct {
	// Coeffs is dense and aligned with System.Vars
	Coeffs []*big.Rat
	Lower  *big.Rat
	Upper  *big.Rat
	Strict bool
	// Source is the atomic constraint the row was built from
	Source *expr.Expr
}

// IsEquality reports whether the row pins its value
func (r Row) IsEquality() bool {
	return r.Lower != nil
}

// Trivial reports whether all coefficients are zero, i.e. the row is a
// constant fact
func (r Row) Trivial() bool {
	for _, c := range r.Coeffs {
		if c.Sign() != 0 {
			return false
		}
	}
	return true
}

// Value computes Coeffs·x for a float point aligned with the system's Vars
func (r Row) Value(x []float64) float64 {
	res := 0.0
	for j, c := range r.Coeffs {
		if c.Sign() == 0 {
			continue
		}
		cf, _ := c.Float64()
		res += cf * x[j]
	}
	return res
}

// Violation is how far x lies outside the row's bounds, zero when satisfied
func (r Row) Violation(x []float64) float64 {
	v := r.Value(x)
	upper, _ := r.Upper.Float64()
	viol := math.Max(0, v-upper)
	if r.Lower != nil {
		lower, _ := r.Lower.Float64()
		viol = math.Max(viol, lower-v)
	}
	return viol
}

// System is an ordered list of rows over a canonical, sorted set of
// variables. Column j of every row refers to Vars[j].
type System struct {
	Vars []string
	Rows []Row
}

// Build converts atomic constraints into a constraint system. Each atomic
// "lhs R rhs" is linearized as lhs - rhs and oriented so that it reads
// row·x ≤ bound. The variable order is the sorted union of all variables
// and does not depend on the order of atomics.
func Build(atomics []*expr.Expr) (*System, error) {
	type oriented struct {
		form Form
		op   expr.CompareOp
		atom *expr.Expr
	}
	parts := make([]oriented, 0, len(atomics))
	names := make(map[string]struct{})
	for _, a := range atomics {
		if a.Kind() != expr.CompareKind {
			return nil, &TermError{Expr: a, Err: ErrUnsupportedTerm}
		}
		op := a.CompareOp()
		if op == expr.Distinct {
			return nil, &TermError{Expr: a, Err: ErrUnsupportedTerm}
		}
		lhs, err := Linearize(a.Arg(0))
		if err != nil {
			return nil, err
		}
		rhs, err := Linearize(a.Arg(1))
		if err != nil {
			return nil, err
		}
		d := lhs.Sub(rhs)
		if op == expr.Gt || op == expr.Ge {
			d = d.Neg()
		}
		for k := range d.coeffs {
			names[k] = struct{}{}
		}
		parts = append(parts, oriented{form: d, op: op, atom: a})
	}

	vars := util.SortedKeys(names)

	sys := &System{Vars: vars, Rows: make([]Row, 0, len(parts))}
	for _, p := range parts {
		coeffs := make([]*big.Rat, len(vars))
		for j, v := range vars {
			coeffs[j] = p.form.Coeff(v)
		}
		bound := p.form.Constant()
		bound.Neg(bound)
		row := Row{
			Coeffs: coeffs,
			Upper:  bound,
			Strict: p.op.Strict(),
			Source: p.atom,
		}
		if p.op == expr.Eq {
			row.Lower = new(big.Rat).Set(bound)
		}
		sys.Rows = append(sys.Rows, row)
	}
	return sys, nil
}

// Index returns the column of name or -1
func (s *System) Index(name string) int {
	i := sort.SearchStrings(s.Vars, name)
	if i < len(s.Vars) && s.Vars[i] == name {
		return i
	}
	return -1
}

// Matrix exports the system at the float boundary: A holds one row per
// constraint and lower/upper the bounds, with -Inf for missing lower bounds.
// A is nil when the system has no rows or no variables.
func (s *System) Matrix() (a *mat.Dense, lower, upper []float64) {
	lower = make([]float64, len(s.Rows))
	upper = make([]float64, len(s.Rows))
	for i, r := range s.Rows {
		upper[i], _ = r.Upper.Float64()
		if r.Lower != nil {
			lower[i], _ = r.Lower.Float64()
		} else {
			lower[i] = math.Inf(-1)
		}
	}
	if len(s.Rows) == 0 || len(s.Vars) == 0 {
		return nil, lower, upper
	}
	a = mat.NewDense(len(s.Rows), len(s.Vars), nil)
	for i, r := range s.Rows {
		for j, c := range r.Coeffs {
			f, _ := c.Float64()
			a.Set(i, j, f)
		}
	}
	return a, lower, upper
}

// Satisfied reports whether the point x, aligned with Vars, violates no row
// by more than tol
func (s *System) Satisfied(x []float64, tol float64) bool {
	for _, r := range s.Rows {
		if r.Violation(x) > tol {
			return false
		}
	}
	return true
}

// String renders one row per line followed by its source constraint, e.g.
// "1*x + -1*y < 3\t; (< x (+ y 3))"
func (s *System) String() string {
	var b strings.Builder
	for _, r := range s.Rows {
		terms := make([]string, 0, len(r.Coeffs))
		for j, c := range r.Coeffs {
			if c.Sign() == 0 {
				continue
			}
			terms = append(terms, fmt.Sprintf("%s*%s", c.RatString(), s.Vars[j]))
		}
		lhs := strings.Join(terms, " + ")
		if lhs == "" {
			lhs = "0"
		}
		rel := "<="
		switch {
		case r.IsEquality():
			rel = "="
		case r.Strict:
			rel = "<"
		}
		fmt.Fprintf(&b, "%s %s %s", lhs, rel, r.Upper.RatString())
		if r.Source != nil {
			fmt.Fprintf(&b, "\t; %s", r.Source)
		}
		b.WriteByte('\n')
	}
	return b.String()
}
