package context

import (
	"github.com/netrixframework/cexsimplify/config"
	"github.com/netrixframework/cexsimplify/log"
	"github.com/netrixframework/cexsimplify/simplify"
	"github.com/netrixframework/cexsimplify/util"
)

// RootContext stores what the commands and the API server share
type RootContext struct {
	// Config and instance of the configuration object
	Config *config.Config
	// Simplifier configured from Config.Simplify
	Simplifier *simplify.Simplifier
	// Counter is a thread safe monotonic integer counter used for request ids
	Counter *util.Counter
	// Logger for logging purposes
	Logger *log.Logger
}

// NewRootContext creates an instance of the RootContext from the configuration
func NewRootContext(conf *config.Config, logger *log.Logger) *RootContext {
	return &RootContext{
		Config:     conf,
		Simplifier: simplify.NewSimplifier(simplify.NewOptions(conf.Simplify), logger),
		Counter:    util.NewCounter(),
		Logger:     logger,
	}
}
