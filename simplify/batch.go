package simplify

import (
	"context"
	"sync"

	"github.com/netrixframework/cexsimplify/expr"
	"github.com/netrixframework/cexsimplify/log"
	"github.com/netrixframework/cexsimplify/witness"
)

// Request is one witness to simplify in a batch
type Request struct {
	ID      string
	Model   *witness.Model
	Formula *expr.Expr
	// Objective overrides the family objective when not nil
	Objective *Objective
}

// Outcome pairs a Request with its Result or error
type Outcome struct {
	ID     string
	Result *Result
	Err    error
}

// Batch simplifies the requests using at most workers goroutines. Outcomes
// are returned in request order. A failing request does not affect the
// others.
func (s *Simplifier) Batch(ctx context.Context, reqs []Request, workers int) []Outcome {
	if workers <= 0 {
		workers = 1
	}
	if workers > len(reqs) {
		workers = len(reqs)
	}
	outcomes := make([]Outcome, len(reqs))
	jobs := make(chan int)

	wg := new(sync.WaitGroup)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				outcomes[i] = s.run(ctx, reqs[i])
			}
		}()
	}
	for i := range reqs {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return outcomes
}

func (s *Simplifier) run(ctx context.Context, req Request) (out Outcome) {
	out.ID = req.ID
	if err := ctx.Err(); err != nil {
		out.Err = err
		return
	}
	if req.Objective != nil {
		out.Result, out.Err = s.SimplifyWith(ctx, req.Model, req.Formula, *req.Objective)
	} else {
		out.Result, out.Err = s.Simplify(ctx, req.Model, req.Formula)
	}
	if out.Err != nil {
		s.Logger.With(log.LogParams{
			"request": req.ID,
			"error":   out.Err.Error(),
		}).Error("Failed to simplify witness")
	}
	return
}
