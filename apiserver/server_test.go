package apiserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/netrixframework/cexsimplify/config"
	"github.com/netrixframework/cexsimplify/context"
	"github.com/netrixframework/cexsimplify/log"
	"github.com/netrixframework/cexsimplify/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const boxFormula = `{"op": "and", "args": [
	{"op": "<=", "args": [{"var": "x"}, {"const": 5}]},
	{"op": ">=", "args": [{"var": "x"}, {"const": 1}]}
]}`

func newTestServer() *APIServer {
	conf := config.Default()
	conf.Simplify.Families = []string{"tot_inp"}
	return NewAPIServer(context.NewRootContext(conf, log.Discard()))
}

func post(t *testing.T, srv *APIServer, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	srv := newTestServer()
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status": "ok"}`, rec.Body.String())
}

func TestExplain(t *testing.T) {
	srv := newTestServer()
	rec := post(t, srv, "/explain", `{
		"formula": {"op": "not", "args": [{"op": "=", "args": [{"var": "x"}, {"var": "y"}]}]},
		"model": {"x": 2, "y": 5}
	}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp ExplainResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"(< x y)"}, resp.Rendered)
	require.Len(t, resp.Constraints, 1)
	assert.Equal(t, "(< x y)", resp.Constraints[0].String())
}

func TestExplainFalse(t *testing.T) {
	srv := newTestServer()
	rec := post(t, srv, "/explain", `{"formula": `+boxFormula+`, "model": {"x": 7}, "truth": false}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp ExplainResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"(> x 5)"}, resp.Rendered)
}

func TestSimplify(t *testing.T) {
	srv := newTestServer()
	rec := post(t, srv, "/simplify", `{
		"formula": `+boxFormula+`,
		"model": {"x": 5, "p": true},
		"series": [["x"]]
	}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// a single entry series has nothing to smooth
	var resp SimplifyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Applied)
	assert.NotEmpty(t, resp.Diagnostic)

	rec = post(t, srv, "/simplify", `{
		"id": "trace",
		"formula": {"op": "and", "args": [
			{"op": "=", "args": [{"var": "tot_inp_0"}, {"const": 1}]},
			{"op": ">=", "args": [{"var": "tot_inp_2"}, {"const": 3}]}
		]},
		"model": {"tot_inp_0": 1, "tot_inp_1": 9, "tot_inp_2": 3}
	}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp = SimplifyResponse{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "trace", resp.ID)
	require.True(t, resp.Applied, resp.Diagnostic)
	assert.Equal(t, "14", resp.Before)
	after, err := util.ParseRat(resp.After)
	require.NoError(t, err)
	f, _ := after.Float64()
	assert.InDelta(t, 2, f, 1e-6)
	require.NotNil(t, resp.Model)
	assert.Equal(t, []string{"tot_inp_0", "tot_inp_1", "tot_inp_2"}, resp.Model.Names())

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/results/"+strconv.Itoa(resp.RequestID), nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var kept SimplifyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &kept))
	assert.Equal(t, "trace", kept.ID)

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/results/9999", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSimplifyBadRequests(t *testing.T) {
	srv := newTestServer()

	rec := post(t, srv, "/simplify", `{"formula": `+boxFormula+`}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = post(t, srv, "/simplify", `{"formula": {"op": "??"}, "model": {}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = post(t, srv, "/simplify", `{"formula": `+boxFormula+`, "model": {"x": 9}}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestBatch(t *testing.T) {
	srv := newTestServer()
	rec := post(t, srv, "/batch", `{"items": [
		{"id": "ok", "formula": `+boxFormula+`, "model": {"x": 4, "y": 1}, "series": [["y", "x"]]},
		{"id": "bad", "formula": `+boxFormula+`, "model": {"x": 9}}
	]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp BatchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 2)
	assert.Equal(t, "ok", resp.Items[0].ID)
	assert.Empty(t, resp.Items[0].Error)
	assert.True(t, resp.Items[0].Applied, resp.Items[0].Diagnostic)
	assert.Equal(t, "bad", resp.Items[1].ID)
	assert.NotEmpty(t, resp.Items[1].Error)
}
