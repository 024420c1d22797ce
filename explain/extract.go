package explain

import (
	"errors"
	"fmt"

	"github.com/netrixframework/cexsimplify/eval"
	"github.com/netrixframework/cexsimplify/expr"
	"github.com/netrixframework/cexsimplify/witness"
)

// ErrPreconditionViolated is returned when the formula does not evaluate to
// the truth value the caller asked to explain
var ErrPreconditionViolated = errors.New("precondition violated")

// Extract returns atomic constraints, each true under m, whose conjunction
// forces e to evaluate to truth. Children are visited in declaration order,
// so the result is deterministic. The result is sufficient, not minimal.
func Extract(e *expr.Expr, m *witness.Model, truth bool) ([]*expr.Expr, error) {
	got, err := eval.Bool(e, m)
	if err != nil {
		return nil, err
	}
	if got != truth {
		return nil, fmt.Errorf("%w: formula evaluates to %t, expected %t", ErrPreconditionViolated, got, truth)
	}
	return extract(e, m, truth)
}

// extract assumes e evaluates to truth under m.
func extract(e *expr.Expr, m *witness.Model, truth bool) ([]*expr.Expr, error) {
	switch e.Kind() {
	case expr.VariableKind, expr.BoolKind:
		// Fixed by the model already.
		return nil, nil
	case expr.NotKind:
		return extract(e.Arg(0), m, !truth)
	case expr.AndKind:
		if truth {
			return extractAll(e.Args(), m, true)
		}
		return extractFirst(e, m, false)
	case expr.OrKind:
		if !truth {
			return extractAll(e.Args(), m, false)
		}
		return extractFirst(e, m, true)
	case expr.ImpliesKind:
		p, q := e.Arg(0), e.Arg(1)
		if !truth {
			return extractAll([]*expr.Expr{p, q}, m, true, false)
		}
		holds, err := eval.Bool(p, m)
		if err != nil {
			return nil, err
		}
		if holds {
			return extract(q, m, true)
		}
		return extract(p, m, false)
	case expr.ConditionalKind:
		cond, err := eval.Bool(e.Arg(0), m)
		if err != nil {
			return nil, err
		}
		res, err := extract(e.Arg(0), m, cond)
		if err != nil {
			return nil, err
		}
		branch := e.Arg(2)
		if cond {
			branch = e.Arg(1)
		}
		rest, err := extract(branch, m, truth)
		if err != nil {
			return nil, err
		}
		return append(res, rest...), nil
	case expr.CompareKind:
		return extractCompare(e, m, truth)
	}
	return nil, &eval.Error{Expr: e, Reason: "formula expected", Err: eval.ErrUnsupportedNode}
}

// extractAll concatenates the extraction of every child. truths holds the
// expected truth of each child; a single entry applies to all of them.
func extractAll(children []*expr.Expr, m *witness.Model, truths ...bool) ([]*expr.Expr, error) {
	res := make([]*expr.Expr, 0, len(children))
	for i, c := range children {
		truth := truths[0]
		if len(truths) > 1 {
			truth = truths[i]
		}
		sub, err := extract(c, m, truth)
		if err != nil {
			return nil, err
		}
		res = append(res, sub...)
	}
	return res, nil
}

// extractFirst explains a connective by its first child evaluating to
// truth: a false conjunct for And, a true disjunct for Or.
func extractFirst(e *expr.Expr, m *witness.Model, truth bool) ([]*expr.Expr, error) {
	for _, c := range e.Args() {
		b, err := eval.Bool(c, m)
		if err != nil {
			return nil, err
		}
		if b == truth {
			return extract(c, m, truth)
		}
	}
	return nil, fmt.Errorf("%w: no child of %s evaluates to %t", ErrPreconditionViolated, e, truth)
}

func extractCompare(e *expr.Expr, m *witness.Model, truth bool) ([]*expr.Expr, error) {
	l, r := e.Arg(0), e.Arg(1)
	lv, err := eval.Evaluate(l, m)
	if err != nil {
		return nil, err
	}
	rv, err := eval.Evaluate(r, m)
	if err != nil {
		return nil, err
	}
	if lv.IsBool() && rv.IsBool() {
		// Each side must keep the truth value it has in the model.
		return extractAll([]*expr.Expr{l, r}, m, lv.Bool(), rv.Bool())
	}

	res, nl, err := resolve(l, m)
	if err != nil {
		return nil, err
	}
	pre, nr, err := resolve(r, m)
	if err != nil {
		return nil, err
	}
	res = append(res, pre...)

	op := e.CompareOp()
	if !truth {
		op = op.Negate()
	}
	switch {
	case op == expr.Distinct:
		// No single linear complement exists, pick the side of the
		// ordering the model lies on.
		if lv.Cmp(rv) < 0 {
			return append(res, nl.Lt(nr)), nil
		}
		return append(res, nr.Lt(nl)), nil
	case op == e.CompareOp() && nl == l && nr == r:
		return append(res, e), nil
	default:
		return append(res, expr.Compare(op, nl, nr)), nil
	}
}

// resolve replaces every conditional inside the arithmetic term t by the
// branch taken under m. The extraction of each condition is returned so the
// choice stays justified.
func resolve(t *expr.Expr, m *witness.Model) ([]*expr.Expr, *expr.Expr, error) {
	switch t.Kind() {
	case expr.ConditionalKind:
		cond, err := eval.Bool(t.Arg(0), m)
		if err != nil {
			return nil, nil, err
		}
		pre, err := extract(t.Arg(0), m, cond)
		if err != nil {
			return nil, nil, err
		}
		branch := t.Arg(2)
		if cond {
			branch = t.Arg(1)
		}
		rest, out, err := resolve(branch, m)
		if err != nil {
			return nil, nil, err
		}
		return append(pre, rest...), out, nil
	case expr.ArithKind:
		var pre []*expr.Expr
		args := t.Args()
		changed := false
		for i, a := range args {
			p, out, err := resolve(a, m)
			if err != nil {
				return nil, nil, err
			}
			pre = append(pre, p...)
			if out != a {
				args[i] = out
				changed = true
			}
		}
		if !changed {
			return pre, t, nil
		}
		return pre, expr.Arith(t.ArithOp(), args...), nil
	default:
		return nil, t, nil
	}
}
