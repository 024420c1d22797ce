package simplify

import (
	"context"
	"fmt"
	"time"

	"gonum.org/v1/gonum/optimize"
)

// solveNelderMead searches locally from the start point. Constraint
// violations enter the objective as an exact L1 penalty so that, for a large
// enough Penalty, minimizers of the penalized function are feasible.
func solveNelderMead(ctx context.Context, p *program, opts Options) ([]float64, error) {
	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			return p.objective(x) + opts.Penalty*p.violation(x)
		},
	}
	settings := &optimize.Settings{
		MajorIterations: opts.MaxIterations,
		Converger: &optimize.FunctionConverge{
			Absolute:   1e-12,
			Iterations: 200,
		},
	}
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left > 0 {
			settings.Runtime = left
		}
	}

	res, err := optimize.Minimize(problem, p.x0, settings, &optimize.NelderMead{})
	if res == nil || len(res.X) != len(p.x0) {
		return nil, fmt.Errorf("%w: nelder-mead: %v", ErrInfeasible, err)
	}
	if res.Status == optimize.RuntimeLimit {
		return nil, ErrTimeout
	}
	// Iteration limits still leave the best point found, which is checked
	// for feasibility by the caller.
	return res.X, nil
}
