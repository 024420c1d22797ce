package expr

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestASTString(t *testing.T) {
	x := Var("x")
	y := Var("y")

	cases := []struct {
		e    *Expr
		want string
	}{
		{Int(1).Add(Int(2), Int(3)), "(+ 1 2 3)"},
		{x.Sub(y), "(- x y)"},
		{x.Neg(), "(- x)"},
		{Real(3, 4).Mul(y), "(* 3/4 y)"},
		{x.Div(Int(2)), "(/ x 2)"},
		{x.Lt(Int(5)), "(< x 5)"},
		{x.Le(y), "(<= x y)"},
		{x.Gt(y), "(> x y)"},
		{x.Ge(y), "(>= x y)"},
		{x.Eq(y), "(= x y)"},
		{x.Distinct(y), "(distinct x y)"},
		{And(x.Lt(Int(5)), Not(Var("p"))), "(and (< x 5) (not p))"},
		{Or(), "(or)"},
		{Implies(Var("p"), True()), "(=> p true)"},
		{If(Var("p"), x, Int(0)), "(ite p x 0)"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.e.String())
	}
}

func TestCompareOp(t *testing.T) {
	assert.Equal(t, Ge, Lt.Negate())
	assert.Equal(t, Gt, Le.Negate())
	assert.Equal(t, Le, Gt.Negate())
	assert.Equal(t, Lt, Ge.Negate())
	assert.Equal(t, Distinct, Eq.Negate())
	assert.Equal(t, Eq, Distinct.Negate())

	assert.True(t, Lt.Strict())
	assert.True(t, Gt.Strict())
	assert.False(t, Le.Strict())
	assert.False(t, Eq.Strict())
}

func TestConstantsAreCopied(t *testing.T) {
	r := big.NewRat(1, 2)
	c := Const(r)
	r.SetInt64(7)
	assert.Equal(t, "1/2", c.String())

	v := c.Value()
	v.SetInt64(9)
	assert.Equal(t, "1/2", c.String())
}

func TestNumber(t *testing.T) {
	c, err := Number("0.25")
	require.NoError(t, err)
	assert.Equal(t, "1/4", c.String())

	c, err = Number("1.5?")
	require.NoError(t, err)
	assert.Equal(t, "3/2", c.String())

	_, err = Number("abc")
	assert.Error(t, err)
}

func TestVarsAndEqual(t *testing.T) {
	x := Var("x")
	f := And(x.Lt(Var("z")), If(Var("p"), Var("y"), x).Ge(Int(0)))
	assert.Equal(t, []string{"p", "x", "y", "z"}, Vars(f))

	g := And(Var("x").Lt(Var("z")), If(Var("p"), Var("y"), Var("x")).Ge(Int(0)))
	assert.True(t, Equal(f, g))
	assert.False(t, Equal(f, And(x.Le(Var("z")))))
	assert.False(t, Equal(Int(1), Real(1, 2)))
}
