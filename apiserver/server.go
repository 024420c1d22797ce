package apiserver

import (
	goctx "context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/netrixframework/cexsimplify/context"
	"github.com/netrixframework/cexsimplify/log"
	"github.com/netrixframework/cexsimplify/service"
	"github.com/netrixframework/cexsimplify/util"
)

// DefaultAddr is the default address of the APIServer
const DefaultAddr = "0.0.0.0:7075"

// APIServer serves explanation and simplification requests over HTTP
type APIServer struct {
	router  *gin.Engine
	ctx     *context.RootContext
	gen     *util.Counter
	results *util.Store[int, SimplifyResponse]

	server *http.Server
	addr   string

	*service.Base
}

var _ service.Service = &APIServer{}

// NewAPIServer instantiates APIServer
func NewAPIServer(ctx *context.RootContext) *APIServer {
	addr := ctx.Config.ServerAddr
	if addr == "" {
		addr = DefaultAddr
	}
	server := &APIServer{
		gen:     ctx.Counter,
		ctx:     ctx,
		results: util.NewStore[int, SimplifyResponse](ctx.Config.Results),
		addr:    addr,
		Base:    service.NewBase("APIServer", ctx.Logger),
	}
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(server.logMiddleware, gin.Recovery())

	router.GET("/health", server.HandleHealth)
	router.POST("/explain", server.HandleExplain)
	router.POST("/simplify", server.HandleSimplify)
	router.POST("/batch", server.HandleBatch)
	router.GET("/results", server.HandleResults)
	router.GET("/results/:id", server.HandleResultGet)

	server.router = router
	server.server = &http.Server{
		Addr:    server.addr,
		Handler: router,
	}
	return server
}

// Handler returns the http.Handler serving the routes
func (a *APIServer) Handler() http.Handler {
	return a.router
}

func (a *APIServer) logMiddleware(c *gin.Context) {
	start := time.Now()
	path := c.Request.URL.Path
	raw := c.Request.URL.RawQuery

	c.Next()

	end := time.Now()
	if raw != "" {
		path = path + "?" + raw
	}
	a.Logger.With(log.LogParams{
		"latency":     end.Sub(start).String(),
		"client_ip":   c.ClientIP(),
		"method":      c.Request.Method,
		"status_code": c.Writer.Status(),
		"error":       c.Errors.ByType(gin.ErrorTypePrivate).String(),
		"body_size":   c.Writer.Size(),
		"path":        path,
	}).Debug("Handled request")
}

// Start starts the APIServer and implements Service
func (a *APIServer) Start() error {
	a.StartRunning()
	go func() {
		a.Logger.With(log.LogParams{
			"addr": a.addr,
		}).Info("API server starting!")
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.With(log.LogParams{
				"addr": a.addr,
				"err":  err,
			}).Error("API server closed!")
			a.StopRunning()
		}
	}()
	return nil
}

// Stop stops the APIServer and implements Service
func (a *APIServer) Stop() error {
	a.StopRunning()
	ctx, cancel := goctx.WithTimeout(goctx.Background(), 5*time.Second)
	defer cancel()
	if err := a.server.Shutdown(ctx); err != nil {
		a.Logger.Error("API server forcefully shutdown")
		return err
	}
	a.Logger.Info("API server stopped!")
	return nil
}
