package service

import (
	"sync"

	"github.com/netrixframework/cexsimplify/log"
)

// Service is a long running component started and stopped by a command
type Service interface {
	// Name of the service
	Name() string
	// Start to start the service
	Start() error
	// Running to indicate if the service is running
	Running() bool
	// Stop to stop the service
	Stop() error
	// QuitCh returns a channel which is closed once the service stops running
	QuitCh() <-chan struct{}
}

// Base holds the running state shared by every Service
type Base struct {
	running bool
	once    *sync.Once
	lock    *sync.Mutex
	name    string
	quit    chan struct{}
	Logger  *log.Logger
}

// NewBase instantiates Base
func NewBase(name string, parentLogger *log.Logger) *Base {
	return &Base{
		once:   new(sync.Once),
		lock:   new(sync.Mutex),
		name:   name,
		quit:   make(chan struct{}),
		Logger: parentLogger.With(log.LogParams{"service": name}),
	}
}

// StartRunning sets the running flag
func (b *Base) StartRunning() {
	b.Logger.Debug("Starting service")
	b.lock.Lock()
	defer b.lock.Unlock()
	b.running = true
}

// StopRunning unsets the running flag and closes the quit channel. Calling
// it more than once is allowed.
func (b *Base) StopRunning() {
	b.Logger.Debug("Stopping service")
	b.lock.Lock()
	defer b.lock.Unlock()
	b.running = false
	b.once.Do(func() {
		close(b.quit)
	})
}

// Name returns the name of the service
func (b *Base) Name() string {
	return b.name
}

// Running returns the flag
func (b *Base) Running() bool {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.running
}

// QuitCh returns the quit channel
func (b *Base) QuitCh() <-chan struct{} {
	return b.quit
}
