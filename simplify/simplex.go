package simplify

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

const simplexTol = 1e-10

// solveSimplex writes the L1 objective as a linear program and solves it
// exactly up to floating point. With one auxiliary t[k] ≥ |d[k]| per term
// and x = xp - xn the standard form is
//
//	minimize   Σ weight·t
//	subject to [ G  -G   0  I ] [xp; xn; t; s] = h
//	           [ D  -D  -I  I ]                 = -c
//	           [-D   D  -I  I ]                 = c
//	           xp, xn, t, s ≥ 0
//
// where the slack block I makes A full row rank.
func solveSimplex(p *program) ([]float64, error) {
	n, k := len(p.vars), len(p.terms)
	rows := len(p.g) + 2*k
	cols := 2*n + k + rows

	a := mat.NewDense(rows, cols, nil)
	b := make([]float64, rows)
	c := make([]float64, cols)
	for t := 0; t < k; t++ {
		c[2*n+t] = p.weight[t]
	}
	setX := func(i, j int, v float64) {
		if v == 0 {
			return
		}
		a.Set(i, j, v)
		a.Set(i, n+j, -v)
	}

	i := 0
	for r, g := range p.g {
		for j, v := range g {
			setX(i, j, v)
		}
		b[i] = p.h[r]
		i++
	}
	for t, term := range p.terms {
		for j, v := range term {
			setX(i, j, v)
			setX(i+1, j, -v)
		}
		a.Set(i, 2*n+t, -1)
		a.Set(i+1, 2*n+t, -1)
		b[i] = -p.termConst[t]
		b[i+1] = p.termConst[t]
		i += 2
	}
	for r := 0; r < rows; r++ {
		a.Set(r, 2*n+k+r, 1)
	}

	_, opt, err := lp.Simplex(c, a, b, simplexTol, nil)
	if err != nil {
		if errors.Is(err, lp.ErrInfeasible) {
			return nil, ErrInfeasible
		}
		return nil, fmt.Errorf("%w: simplex: %s", ErrInfeasible, err)
	}
	x := make([]float64, n)
	for j := range x {
		x[j] = opt[j] - opt[n+j]
	}
	return x, nil
}
