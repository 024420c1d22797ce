package eval

import (
	"errors"
	"math/big"
	"testing"

	"github.com/netrixframework/cexsimplify/expr"
	"github.com/netrixframework/cexsimplify/util"
	"github.com/netrixframework/cexsimplify/witness"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func model(values map[string]string) *witness.Model {
	m := make(map[string]witness.Value, len(values))
	for k, v := range values {
		switch v {
		case "true", "false":
			m[k] = witness.Bool(v == "true")
		default:
			m[k] = witness.Real(util.MustRat(v))
		}
	}
	return witness.NewModel(m)
}

func TestEvaluateArith(t *testing.T) {
	m := model(map[string]string{"x": "3", "y": "1/2"})
	x, y := expr.Var("x"), expr.Var("y")

	cases := []struct {
		e    *expr.Expr
		want string
	}{
		{x.Add(y, expr.Int(1)), "9/2"},
		{x.Sub(y), "5/2"},
		{x.Neg(), "-3"},
		{expr.Arith(expr.Sub, x), "-3"},
		{expr.Arith(expr.Sub, x, y, y), "2"},
		{x.Mul(y, expr.Int(4)), "6"},
		{x.Div(y), "6"},
		{expr.Real(1, 3).Add(expr.Real(1, 6)), "1/2"},
		{expr.If(x.Gt(y), x, y), "3"},
	}
	for _, c := range cases {
		r, err := Rat(c.e, m)
		require.NoError(t, err, c.e.String())
		assert.Equal(t, c.want, r.RatString(), c.e.String())
	}
}

func TestEvaluateBool(t *testing.T) {
	m := model(map[string]string{"x": "3", "y": "2", "p": "true", "q": "false"})
	x, y, p, q := expr.Var("x"), expr.Var("y"), expr.Var("p"), expr.Var("q")

	cases := []struct {
		e    *expr.Expr
		want bool
	}{
		{x.Lt(expr.Int(5)), true},
		{x.Le(expr.Int(3)), true},
		{x.Gt(expr.Int(3)), false},
		{x.Ge(y), true},
		{x.Eq(y.Add(expr.Int(1))), true},
		{x.Distinct(y), true},
		{expr.And(), true},
		{expr.Or(), false},
		{expr.And(p, q), false},
		{expr.Or(p, q), true},
		{expr.Not(q), true},
		{expr.Implies(q, x.Lt(y)), true},
		{expr.Implies(p, x.Lt(y)), false},
		{p.Eq(q), false},
		{p.Distinct(q), true},
		{expr.If(q, expr.False(), p), true},
	}
	for _, c := range cases {
		b, err := Bool(c.e, m)
		require.NoError(t, err, c.e.String())
		assert.Equal(t, c.want, b, c.e.String())
	}
}

// Evaluation is exact: 1/10 + 2/10 is 3/10, not its float rendition.
func TestEvaluateExact(t *testing.T) {
	m := model(map[string]string{"a": "0.1", "b": "0.2"})
	b, err := Bool(expr.Var("a").Add(expr.Var("b")).Eq(expr.Real(3, 10)), m)
	require.NoError(t, err)
	assert.True(t, b)
}

func TestEvaluateErrors(t *testing.T) {
	m := model(map[string]string{"x": "1", "p": "true"})
	x, p := expr.Var("x"), expr.Var("p")

	_, err := Evaluate(expr.Var("missing"), m)
	assert.True(t, errors.Is(err, witness.ErrUnknownVariable))

	_, err = Evaluate(x.Div(x.Sub(expr.Int(1))), m)
	assert.True(t, errors.Is(err, ErrDivisionByZero))

	for _, e := range []*expr.Expr{
		expr.Not(x),
		expr.And(x),
		x.Add(p),
		p.Lt(p),
		x.Lt(p),
		expr.If(x, x, x),
	} {
		_, err := Evaluate(e, m)
		assert.True(t, errors.Is(err, ErrUnsupportedNode), e.String())
		var evalErr *Error
		assert.True(t, errors.As(err, &evalErr), e.String())
	}

	_, err = Bool(x, m)
	assert.True(t, errors.Is(err, ErrUnsupportedNode))
	_, err = Rat(p, m)
	assert.True(t, errors.Is(err, ErrUnsupportedNode))
}

func TestEvaluateDoesNotMutate(t *testing.T) {
	c := expr.Const(big.NewRat(2, 1))
	m := model(map[string]string{"x": "3"})
	e := c.Sub(expr.Var("x"))
	_, err := Rat(e, m)
	require.NoError(t, err)
	_, err = Rat(c.Neg(), m)
	require.NoError(t, err)
	assert.Equal(t, "2", c.String())
	v, _ := m.Get("x")
	assert.Equal(t, "3", v.String())
}

func TestHolds(t *testing.T) {
	assert.True(t, Holds(expr.Lt, -1))
	assert.False(t, Holds(expr.Lt, 0))
	assert.True(t, Holds(expr.Le, 0))
	assert.True(t, Holds(expr.Gt, 1))
	assert.True(t, Holds(expr.Ge, 0))
	assert.True(t, Holds(expr.Eq, 0))
	assert.True(t, Holds(expr.Distinct, 1))
	assert.False(t, Holds(expr.Distinct, 0))
}
