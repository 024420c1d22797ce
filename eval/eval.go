package eval

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/netrixframework/cexsimplify/expr"
	"github.com/netrixframework/cexsimplify/witness"
)

var (
	// ErrUnsupportedNode is returned for nodes outside the grammar or used
	// with the wrong sort, e.g. the negation of a number
	ErrUnsupportedNode = errors.New("unsupported node")
	// ErrDivisionByZero is returned when a divisor evaluates to zero
	ErrDivisionByZero = errors.New("division by zero")
)

// Error reports the subexpression at which evaluation failed
type Error struct {
	Expr   *expr.Expr
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: %s in %s", e.Err, e.Reason, e.Expr)
	}
	return fmt.Sprintf("%s in %s", e.Err, e.Expr)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func unsupported(e *expr.Expr, reason string) error {
	return &Error{Expr: e, Reason: reason, Err: ErrUnsupportedNode}
}

// Evaluate computes the value of e under m. Arithmetic is exact.
func Evaluate(e *expr.Expr, m *witness.Model) (witness.Value, error) {
	switch e.Kind() {
	case expr.ConstantKind:
		return witness.Real(e.Value()), nil
	case expr.VariableKind:
		v, err := m.Lookup(e.Name())
		if err != nil {
			return witness.Value{}, &Error{Expr: e, Err: err}
		}
		return v, nil
	case expr.BoolKind:
		return witness.Bool(e.Truth()), nil
	case expr.NotKind:
		b, err := Bool(e.Arg(0), m)
		if err != nil {
			return witness.Value{}, err
		}
		return witness.Bool(!b), nil
	case expr.AndKind, expr.OrKind:
		and := e.Kind() == expr.AndKind
		res := and
		for _, a := range e.Args() {
			b, err := Bool(a, m)
			if err != nil {
				return witness.Value{}, err
			}
			if and {
				res = res && b
			} else {
				res = res || b
			}
		}
		return witness.Bool(res), nil
	case expr.ImpliesKind:
		p, err := Bool(e.Arg(0), m)
		if err != nil {
			return witness.Value{}, err
		}
		q, err := Bool(e.Arg(1), m)
		if err != nil {
			return witness.Value{}, err
		}
		return witness.Bool(!p || q), nil
	case expr.ConditionalKind:
		c, err := Bool(e.Arg(0), m)
		if err != nil {
			return witness.Value{}, err
		}
		if c {
			return Evaluate(e.Arg(1), m)
		}
		return Evaluate(e.Arg(2), m)
	case expr.CompareKind:
		return compare(e, m)
	case expr.ArithKind:
		r, err := arith(e, m)
		if err != nil {
			return witness.Value{}, err
		}
		return witness.Real(r), nil
	}
	return witness.Value{}, unsupported(e, "unknown node kind")
}

// Bool evaluates a formula
func Bool(e *expr.Expr, m *witness.Model) (bool, error) {
	v, err := Evaluate(e, m)
	if err != nil {
		return false, err
	}
	if !v.IsBool() {
		return false, unsupported(e, "boolean expected")
	}
	return v.Bool(), nil
}

// Rat evaluates an arithmetic term
func Rat(e *expr.Expr, m *witness.Model) (*big.Rat, error) {
	v, err := Evaluate(e, m)
	if err != nil {
		return nil, err
	}
	if !v.IsNumeric() {
		return nil, unsupported(e, "number expected")
	}
	return v.Rat(), nil
}

// Holds reports whether op relates two values whose comparison yields cmp
// (as returned by big.Rat.Cmp).
func Holds(op expr.CompareOp, cmp int) bool {
	switch op {
	case expr.Lt:
		return cmp < 0
	case expr.Le:
		return cmp <= 0
	case expr.Gt:
		return cmp > 0
	case expr.Ge:
		return cmp >= 0
	case expr.Eq:
		return cmp == 0
	default:
		return cmp != 0
	}
}

func compare(e *expr.Expr, m *witness.Model) (witness.Value, error) {
	l, err := Evaluate(e.Arg(0), m)
	if err != nil {
		return witness.Value{}, err
	}
	r, err := Evaluate(e.Arg(1), m)
	if err != nil {
		return witness.Value{}, err
	}
	op := e.CompareOp()
	if l.IsBool() || r.IsBool() {
		if !l.IsBool() || !r.IsBool() {
			return witness.Value{}, unsupported(e, "comparison of a boolean with a number")
		}
		switch op {
		case expr.Eq:
			return witness.Bool(l.Bool() == r.Bool()), nil
		case expr.Distinct:
			return witness.Bool(l.Bool() != r.Bool()), nil
		default:
			return witness.Value{}, unsupported(e, "ordering of booleans")
		}
	}
	return witness.Bool(Holds(op, l.Cmp(r))), nil
}

func arith(e *expr.Expr, m *witness.Model) (*big.Rat, error) {
	args := e.Args()
	vals := make([]*big.Rat, len(args))
	for i, a := range args {
		r, err := Rat(a, m)
		if err != nil {
			return nil, err
		}
		vals[i] = r
	}

	switch e.ArithOp() {
	case expr.Add:
		res := new(big.Rat)
		for _, v := range vals {
			res.Add(res, v)
		}
		return res, nil
	case expr.Mul:
		res := big.NewRat(1, 1)
		for _, v := range vals {
			res.Mul(res, v)
		}
		return res, nil
	case expr.Neg:
		if len(vals) != 1 {
			return nil, unsupported(e, "negation takes one operand")
		}
		return vals[0].Neg(vals[0]), nil
	case expr.Sub:
		if len(vals) == 0 {
			return nil, unsupported(e, "subtraction without operands")
		}
		if len(vals) == 1 {
			return vals[0].Neg(vals[0]), nil
		}
		res := vals[0]
		for _, v := range vals[1:] {
			res.Sub(res, v)
		}
		return res, nil
	case expr.Div:
		if len(vals) < 2 {
			return nil, unsupported(e, "division takes two operands")
		}
		res := vals[0]
		for _, v := range vals[1:] {
			if v.Sign() == 0 {
				return nil, &Error{Expr: e, Err: ErrDivisionByZero}
			}
			res.Quo(res, v)
		}
		return res, nil
	}
	return nil, unsupported(e, "unknown arithmetic operator")
}
