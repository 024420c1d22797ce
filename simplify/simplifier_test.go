package simplify

import (
	"context"
	"errors"
	"testing"

	"github.com/netrixframework/cexsimplify/eval"
	"github.com/netrixframework/cexsimplify/explain"
	"github.com/netrixframework/cexsimplify/expr"
	"github.com/netrixframework/cexsimplify/linear"
	"github.com/netrixframework/cexsimplify/log"
	"github.com/netrixframework/cexsimplify/witness"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, doc string) *witness.Model {
	t.Helper()
	m, err := witness.Decode([]byte(doc))
	require.NoError(t, err)
	return m
}

func newSimplifier() *Simplifier {
	opts := DefaultOptions()
	opts.Families = []string{"tot_inp"}
	return NewSimplifier(opts, log.Discard())
}

func value(t *testing.T, m *witness.Model, name string) float64 {
	t.Helper()
	v, err := m.Lookup(name)
	require.NoError(t, err)
	return v.Float()
}

// a time-stepped trace where the input total starts at 1 and has to reach
// c - 3 by the last step
func trace(t *testing.T) (*expr.Expr, *witness.Model) {
	t0, t1, t2, t3 := expr.Var("tot_inp_0"), expr.Var("tot_inp_1"), expr.Var("tot_inp_2"), expr.Var("tot_inp_3")
	f := expr.And(
		t0.Eq(expr.Int(1)),
		t3.Ge(expr.Var("c").Sub(expr.Int(3))),
		expr.Or(expr.Var("loss_0"), t1.Lt(expr.Int(0))),
		t1.Gt(expr.Int(0)),
		t2.Ge(expr.Int(0)),
	)
	m := decode(t, `{
		"tot_inp_0": 1, "tot_inp_1": 5, "tot_inp_2": 2, "tot_inp_3": 6,
		"c": {"int": 7}, "loss_0": true
	}`)
	return f, m
}

func TestSimplifySeries(t *testing.T) {
	f, m := trace(t)
	res, err := newSimplifier().Simplify(context.Background(), m, f)
	require.NoError(t, err)
	require.True(t, res.Applied, "%v", res.Diagnostic)
	assert.Nil(t, res.Diagnostic)

	assert.Equal(t, "11", res.Before.RatString())
	after, _ := res.After.Float64()
	assert.InDelta(t, 3, after, 1e-6)

	out := res.Model
	assert.Equal(t, m.Names(), out.Names())
	ok, err := eval.Bool(f, out)
	require.NoError(t, err)
	assert.True(t, ok)

	assert.InDelta(t, 1, value(t, out, "tot_inp_0"), 1e-9)
	assert.InDelta(t, 4, value(t, out, "tot_inp_3"), 1e-6)
	for _, name := range []string{"c", "loss_0"} {
		before, _ := m.Get(name)
		now, _ := out.Get(name)
		assert.True(t, before.Equal(now), name)
	}
	assert.NotContains(t, res.Changed, "c")
	assert.Contains(t, res.Changed, "tot_inp_3")

	// the input witness is untouched
	v, _ := m.Get("tot_inp_3")
	assert.Equal(t, "6", v.String())

	assert.Len(t, res.Constraints, 4)
	assert.Len(t, res.System.Rows, 4)
}

func TestSimplifyFixedPoint(t *testing.T) {
	f, m := trace(t)
	s := newSimplifier()
	first, err := s.Simplify(context.Background(), m, f)
	require.NoError(t, err)
	require.True(t, first.Applied)

	second, err := s.Simplify(context.Background(), first.Model, f)
	require.NoError(t, err)
	a, _ := first.After.Float64()
	b, _ := second.After.Float64()
	assert.InDelta(t, a, b, 1e-6)
}

func TestSimplifyBox(t *testing.T) {
	f := expr.And(x.Le(expr.Int(5)), x.Ge(expr.Int(1)))
	m := decode(t, `{"x": 5}`)
	res, err := newSimplifier().SimplifyWith(context.Background(), m, f, AbsObjective("x"))
	require.NoError(t, err)
	require.True(t, res.Applied)
	v, _ := res.Model.Get("x")
	assert.Equal(t, "1", v.String())
	assert.Equal(t, []string{"x"}, res.Changed)
}

func TestSimplifyKeepsStrictness(t *testing.T) {
	f := x.Gt(expr.Int(1))
	m := decode(t, `{"x": 5}`)
	res, err := newSimplifier().SimplifyWith(context.Background(), m, f, AbsObjective("x"))
	require.NoError(t, err)
	require.True(t, res.Applied)
	v, _ := res.Model.Get("x")
	assert.Equal(t, 1, v.Rat().Cmp(expr.Int(1).Value()), v.String())
	assert.InDelta(t, 1, v.Float(), 1e-3)
}

func TestSimplifyTimeout(t *testing.T) {
	f, m := trace(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := newSimplifier().Simplify(ctx, m, f)
	require.NoError(t, err)
	assert.False(t, res.Applied)
	assert.True(t, errors.Is(res.Diagnostic, ErrTimeout))
	assert.Same(t, m, res.Model)
}

func TestSimplifyEmptyObjective(t *testing.T) {
	f := x.Le(expr.Int(5))
	m := decode(t, `{"x": 5}`)
	res, err := newSimplifier().Simplify(context.Background(), m, f)
	require.NoError(t, err)
	assert.False(t, res.Applied)
	assert.Error(t, res.Diagnostic)
	assert.Same(t, m, res.Model)
}

func TestSimplifyErrors(t *testing.T) {
	s := newSimplifier()
	m := decode(t, `{"x": 2, "y": 3}`)

	_, err := s.SimplifyWith(context.Background(), m, x.Mul(y).Lt(expr.Int(10)), AbsObjective("x"))
	assert.True(t, errors.Is(err, linear.ErrNonLinearTerm))

	_, err = s.SimplifyWith(context.Background(), m, x.Gt(expr.Int(10)), AbsObjective("x"))
	assert.True(t, errors.Is(err, explain.ErrPreconditionViolated))

	_, err = s.SimplifyWith(context.Background(), m, x.Lt(expr.Int(10)), AbsObjective("z"))
	assert.True(t, errors.Is(err, witness.ErrUnknownVariable))
}

func TestBatch(t *testing.T) {
	f, m := trace(t)
	box := expr.And(x.Le(expr.Int(5)), x.Ge(expr.Int(1)))
	abs := AbsObjective("x")
	reqs := []Request{
		{ID: "trace", Model: m, Formula: f},
		{ID: "broken", Model: m, Formula: expr.Var("tot_inp_0").Mul(expr.Var("c")).Gt(expr.Int(0))},
		{ID: "box", Model: decode(t, `{"x": 4}`), Formula: box, Objective: &abs},
	}
	outcomes := newSimplifier().Batch(context.Background(), reqs, 2)
	require.Len(t, outcomes, 3)

	assert.Equal(t, "trace", outcomes[0].ID)
	require.NoError(t, outcomes[0].Err)
	assert.True(t, outcomes[0].Result.Applied)

	assert.Equal(t, "broken", outcomes[1].ID)
	assert.True(t, errors.Is(outcomes[1].Err, linear.ErrNonLinearTerm))

	require.NoError(t, outcomes[2].Err)
	v, _ := outcomes[2].Result.Model.Get("x")
	assert.Equal(t, "1", v.String())
}
