package util

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// Term returns a channel which receives a message when there is an interrupt
func Term() chan os.Signal {
	termCh := make(chan os.Signal, 1)
	signal.Notify(termCh, os.Interrupt, syscall.SIGTERM)
	return termCh
}

// TermContext derives a context from parent that is cancelled on an interrupt
func TermContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
