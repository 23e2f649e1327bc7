package sigctx

import (
	"context"
	"os/signal"
	"syscall"
	"time"
)

// NotifyContext returns a copy of parent that is done
// on SIGINT, SIGTERM or SIGQUIT.
func NotifyContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
}

// CloseContext returns a context for graceful shutdown.
// It does not inherit the signal context, which is already done.
func CloseContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}
