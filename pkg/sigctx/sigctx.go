// Package sigctx derives the root context for the catalog binaries.
// Cancelling it on termination signals lets the HTTP server, broker
// clients and stream processors unwind in order.
package sigctx

import (
	"context"
	"os/signal"
	"syscall"
)

// NotifyContext returns a context cancelled by SIGINT, SIGTERM or
// SIGQUIT.
func NotifyContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
}
