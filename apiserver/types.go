package apiserver

import (
	"github.com/netrixframework/cexsimplify/expr"
	"github.com/netrixframework/cexsimplify/simplify"
	"github.com/netrixframework/cexsimplify/witness"
)

// ExplainRequest is the body of `/explain`
type ExplainRequest struct {
	Formula *expr.Expr     `json:"formula"`
	Model   *witness.Model `json:"model"`
	// Truth the formula is observed at, true when omitted
	Truth *bool `json:"truth,omitempty"`
}

// ExplainResponse lists the active constraints
type ExplainResponse struct {
	RequestID   int          `json:"request_id"`
	Constraints []*expr.Expr `json:"constraints"`
	Rendered    []string     `json:"rendered"`
}

// SimplifyRequest is the body of `/simplify` and an item of `/batch`
type SimplifyRequest struct {
	ID      string         `json:"id,omitempty"`
	Formula *expr.Expr     `json:"formula"`
	Model   *witness.Model `json:"model"`
	// Families overrides the configured families
	Families []string `json:"families,omitempty"`
	// Series lists explicit variable sequences to smooth, taking precedence
	// over Families
	Series [][]string `json:"series,omitempty"`
}

// objective returns nil when the configured families apply
func (r *SimplifyRequest) objective() *simplify.Objective {
	var obj simplify.Objective
	switch {
	case len(r.Series) > 0:
		obj = simplify.SeriesObjective(r.Series...)
	case len(r.Families) > 0:
		obj = simplify.FamilyObjective(r.Model, r.Families...)
	default:
		return nil
	}
	return &obj
}

// SimplifyResponse reports the outcome of one simplification
type SimplifyResponse struct {
	ID          string         `json:"id,omitempty"`
	RequestID   int            `json:"request_id"`
	Applied     bool           `json:"applied"`
	Diagnostic  string         `json:"diagnostic,omitempty"`
	Error       string         `json:"error,omitempty"`
	Model       *witness.Model `json:"model,omitempty"`
	Changed     []string       `json:"changed,omitempty"`
	Before      string         `json:"objective_before,omitempty"`
	After       string         `json:"objective_after,omitempty"`
	Constraints []string       `json:"constraints,omitempty"`
}

func newSimplifyResponse(id string, requestID int, res *simplify.Result) SimplifyResponse {
	out := SimplifyResponse{
		ID:        id,
		RequestID: requestID,
		Applied:   res.Applied,
		Model:     res.Model,
		Changed:   res.Changed,
	}
	if res.Diagnostic != nil {
		out.Diagnostic = res.Diagnostic.Error()
	}
	if res.Before != nil {
		out.Before = res.Before.RatString()
	}
	if res.After != nil {
		out.After = res.After.RatString()
	}
	for _, c := range res.Constraints {
		out.Constraints = append(out.Constraints, c.String())
	}
	return out
}

// BatchRequest is the body of `/batch`
type BatchRequest struct {
	Items []SimplifyRequest `json:"items"`
}

// BatchResponse holds one SimplifyResponse per item, in order
type BatchResponse struct {
	Items []SimplifyResponse `json:"items"`
}
