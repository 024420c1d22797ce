package linear

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/netrixframework/cexsimplify/expr"
	"github.com/netrixframework/cexsimplify/util"
)

var (
	// ErrNonLinearTerm is returned for a product of two non-constant terms or
	// a division by a non-constant term
	ErrNonLinearTerm = errors.New("non-linear term")
	// ErrUnsupportedTerm is returned for nodes that are not arithmetic terms
	ErrUnsupportedTerm = errors.New("unsupported term")
)

// TermError reports the subexpression that could not be linearized
type TermError struct {
	Expr *expr.Expr
	Err  error
}

func (e *TermError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err, e.Expr)
}

func (e *TermError) Unwrap() error {
	return e.Err
}

// Form is the linear expression Σ Coeffs[v]·v + Constant over exact
// rationals. Operations return new forms and never modify their receivers.
// Zero coefficients are never stored.
type Form struct {
	coeffs   map[string]*big.Rat
	constant *big.Rat
}

// NewForm creates a form from a coefficient map and a constant. Both are
// copied; nil means zero.
func NewForm(coeffs map[string]*big.Rat, constant *big.Rat) Form {
	f := Form{coeffs: make(map[string]*big.Rat, len(coeffs)), constant: new(big.Rat)}
	for k, c := range coeffs {
		if c != nil && c.Sign() != 0 {
			f.coeffs[k] = new(big.Rat).Set(c)
		}
	}
	if constant != nil {
		f.constant.Set(constant)
	}
	return f
}

// ConstForm creates a form without variables
func ConstForm(c *big.Rat) Form {
	return NewForm(nil, c)
}

// VarForm creates the form 1·name
func VarForm(name string) Form {
	return Form{coeffs: map[string]*big.Rat{name: big.NewRat(1, 1)}, constant: new(big.Rat)}
}

// Coeff returns a copy of the coefficient of name, zero if absent
func (f Form) Coeff(name string) *big.Rat {
	if c, ok := f.coeffs[name]; ok {
		return new(big.Rat).Set(c)
	}
	return new(big.Rat)
}

// Coeffs returns a copy of the coefficient map
func (f Form) Coeffs() map[string]*big.Rat {
	res := make(map[string]*big.Rat, len(f.coeffs))
	for k, c := range f.coeffs {
		res[k] = new(big.Rat).Set(c)
	}
	return res
}

// Constant returns a copy of the constant term
func (f Form) Constant() *big.Rat {
	if f.constant == nil {
		return new(big.Rat)
	}
	return new(big.Rat).Set(f.constant)
}

// Vars returns the sorted variables with non-zero coefficients
func (f Form) Vars() []string {
	return util.SortedKeys(f.coeffs)
}

// IsConstant reports whether the form has no variables
func (f Form) IsConstant() bool {
	return len(f.coeffs) == 0
}

// Add returns f + g
func (f Form) Add(g Form) Form {
	res := NewForm(f.coeffs, f.constant)
	for k, c := range g.coeffs {
		sum := new(big.Rat).Add(res.Coeff(k), c)
		if sum.Sign() == 0 {
			delete(res.coeffs, k)
		} else {
			res.coeffs[k] = sum
		}
	}
	if g.constant != nil {
		res.constant.Add(res.constant, g.constant)
	}
	return res
}

// Scale returns factor·f
func (f Form) Scale(factor *big.Rat) Form {
	if factor.Sign() == 0 {
		return ConstForm(nil)
	}
	res := NewForm(nil, nil)
	for k, c := range f.coeffs {
		res.coeffs[k] = new(big.Rat).Mul(c, factor)
	}
	res.constant.Mul(f.Constant(), factor)
	return res
}

// Neg returns -f
func (f Form) Neg() Form {
	return f.Scale(big.NewRat(-1, 1))
}

// Sub returns f - g
func (f Form) Sub(g Form) Form {
	return f.Add(g.Neg())
}

// Equal reports whether f and g have the same coefficients and constant
func (f Form) Equal(g Form) bool {
	if len(f.coeffs) != len(g.coeffs) || f.Constant().Cmp(g.Constant()) != 0 {
		return false
	}
	for k, c := range f.coeffs {
		o, ok := g.coeffs[k]
		if !ok || c.Cmp(o) != 0 {
			return false
		}
	}
	return true
}

// Eval computes the value of f at the point given by values. Variables
// missing from values count as zero.
func (f Form) Eval(values map[string]*big.Rat) *big.Rat {
	res := f.Constant()
	for k, c := range f.coeffs {
		if v, ok := values[k]; ok {
			res.Add(res, new(big.Rat).Mul(c, v))
		}
	}
	return res
}

// String renders the form with variables in sorted order, e.g. "2*x + y + -6"
func (f Form) String() string {
	parts := make([]string, 0, len(f.coeffs)+1)
	for _, k := range f.Vars() {
		c := f.coeffs[k]
		if c.Cmp(big.NewRat(1, 1)) == 0 {
			parts = append(parts, k)
		} else {
			parts = append(parts, fmt.Sprintf("%s*%s", c.RatString(), k))
		}
	}
	if c := f.Constant(); c.Sign() != 0 || len(parts) == 0 {
		parts = append(parts, c.RatString())
	}
	return strings.Join(parts, " + ")
}

// Linearize rewrites an arithmetic term into its linear form. Products are
// allowed as long as at most one factor is non-constant and divisors must be
// non-zero constants.
func Linearize(t *expr.Expr) (Form, error) {
	switch t.Kind() {
	case expr.ConstantKind:
		return ConstForm(t.Value()), nil
	case expr.VariableKind:
		return VarForm(t.Name()), nil
	case expr.ArithKind:
		return linearizeArith(t)
	}
	return Form{}, &TermError{Expr: t, Err: ErrUnsupportedTerm}
}

func linearizeArith(t *expr.Expr) (Form, error) {
	args := t.Args()
	forms := make([]Form, len(args))
	for i, a := range args {
		f, err := Linearize(a)
		if err != nil {
			return Form{}, err
		}
		forms[i] = f
	}

	switch t.ArithOp() {
	case expr.Add:
		res := ConstForm(nil)
		for _, f := range forms {
			res = res.Add(f)
		}
		return res, nil
	case expr.Neg:
		if len(forms) != 1 {
			return Form{}, &TermError{Expr: t, Err: ErrUnsupportedTerm}
		}
		return forms[0].Neg(), nil
	case expr.Sub:
		if len(forms) == 0 {
			return Form{}, &TermError{Expr: t, Err: ErrUnsupportedTerm}
		}
		if len(forms) == 1 {
			return forms[0].Neg(), nil
		}
		res := forms[0]
		for _, f := range forms[1:] {
			res = res.Sub(f)
		}
		return res, nil
	case expr.Mul:
		res := ConstForm(big.NewRat(1, 1))
		for _, f := range forms {
			switch {
			case f.IsConstant():
				res = res.Scale(f.constant)
			case res.IsConstant():
				res = f.Scale(res.constant)
			default:
				return Form{}, &TermError{Expr: t, Err: ErrNonLinearTerm}
			}
		}
		return res, nil
	case expr.Div:
		if len(forms) < 2 {
			return Form{}, &TermError{Expr: t, Err: ErrUnsupportedTerm}
		}
		res := forms[0]
		for _, f := range forms[1:] {
			if !f.IsConstant() {
				return Form{}, &TermError{Expr: t, Err: ErrNonLinearTerm}
			}
			if f.constant.Sign() == 0 {
				return Form{}, &TermError{Expr: t, Err: ErrUnsupportedTerm}
			}
			res = res.Scale(new(big.Rat).Inv(f.constant))
		}
		return res, nil
	}
	return Form{}, &TermError{Expr: t, Err: ErrUnsupportedTerm}
}
