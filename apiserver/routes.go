package apiserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/netrixframework/cexsimplify/explain"
	"github.com/netrixframework/cexsimplify/log"
	"github.com/netrixframework/cexsimplify/simplify"
)

var errMissingInput = errors.New("formula and model are required")

// HandleHealth is the handler for the route `/health`
func (srv *APIServer) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// HandleExplain is the handler for the route `/explain` which returns the
// active constraints of a formula under a witness
func (srv *APIServer) HandleExplain(c *gin.Context) {
	requestID := srv.gen.Next()
	var req ExplainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		srv.badRequest(c, requestID, err)
		return
	}
	if req.Formula == nil || req.Model == nil {
		srv.badRequest(c, requestID, errMissingInput)
		return
	}
	truth := true
	if req.Truth != nil {
		truth = *req.Truth
	}
	constraints, err := explain.Extract(req.Formula, req.Model, truth)
	if err != nil {
		srv.unprocessable(c, requestID, err)
		return
	}
	resp := ExplainResponse{
		RequestID:   requestID,
		Constraints: constraints,
		Rendered:    make([]string, len(constraints)),
	}
	for i, con := range constraints {
		resp.Rendered[i] = con.String()
	}
	c.JSON(http.StatusOK, resp)
}

// HandleSimplify is the handler for the route `/simplify`
func (srv *APIServer) HandleSimplify(c *gin.Context) {
	requestID := srv.gen.Next()
	var req SimplifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		srv.badRequest(c, requestID, err)
		return
	}
	if req.Formula == nil || req.Model == nil {
		srv.badRequest(c, requestID, errMissingInput)
		return
	}
	var (
		res *simplify.Result
		err error
	)
	if obj := req.objective(); obj != nil {
		res, err = srv.ctx.Simplifier.SimplifyWith(c.Request.Context(), req.Model, req.Formula, *obj)
	} else {
		res, err = srv.ctx.Simplifier.Simplify(c.Request.Context(), req.Model, req.Formula)
	}
	if err != nil {
		srv.unprocessable(c, requestID, err)
		return
	}
	resp := newSimplifyResponse(req.ID, requestID, res)
	srv.results.Add(requestID, resp)
	c.JSON(http.StatusOK, resp)
}

// HandleResults is the handler for the route `/results` which lists the
// request ids of the kept simplification responses
func (srv *APIServer) HandleResults(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"results": srv.results.Keys()})
}

// HandleResultGet is the handler for the route `/results/:id`
func (srv *APIServer) HandleResultGet(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request id"})
		return
	}
	resp, ok := srv.results.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no such result"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HandleBatch is the handler for the route `/batch` which simplifies many
// witnesses concurrently. Failing items are reported in place.
func (srv *APIServer) HandleBatch(c *gin.Context) {
	requestID := srv.gen.Next()
	var req BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		srv.badRequest(c, requestID, err)
		return
	}
	reqs := make([]simplify.Request, len(req.Items))
	for i := range req.Items {
		item := &req.Items[i]
		if item.Formula == nil || item.Model == nil {
			srv.badRequest(c, requestID, errMissingInput)
			return
		}
		reqs[i] = simplify.Request{
			ID:        item.ID,
			Model:     item.Model,
			Formula:   item.Formula,
			Objective: item.objective(),
		}
	}
	outcomes := srv.ctx.Simplifier.Batch(c.Request.Context(), reqs, srv.ctx.Config.Workers)
	resp := BatchResponse{Items: make([]SimplifyResponse, len(outcomes))}
	for i, o := range outcomes {
		if o.Err != nil {
			resp.Items[i] = SimplifyResponse{ID: o.ID, RequestID: requestID, Error: o.Err.Error()}
			continue
		}
		resp.Items[i] = newSimplifyResponse(o.ID, requestID, o.Result)
	}
	c.JSON(http.StatusOK, resp)
}

func (srv *APIServer) badRequest(c *gin.Context, requestID int, err error) {
	srv.Logger.With(log.LogParams{"error": err, "request_id": requestID}).Info("Bad request")
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "request_id": requestID})
}

func (srv *APIServer) unprocessable(c *gin.Context, requestID int, err error) {
	srv.Logger.With(log.LogParams{"error": err, "request_id": requestID}).Info("Request failed")
	c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "request_id": requestID})
}
