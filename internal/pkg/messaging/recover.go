package messaging

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/shandysiswandi/otpgate/internal/pkg/stacktrace"
)

// ErrHandlerPanic marks a delivery whose handler panicked. Drivers treat it
// like any other handler error, so the message is redelivered.
var ErrHandlerPanic = errors.New("messaging: handler panicked")

func callHandlerWithRecover(ctx context.Context, driver string, fn func() error) (err error) {
	defer func() {
		rvr := recover()
		if rvr == nil {
			return
		}

		raw := debug.Stack()
		var stack any = string(raw)
		if paths := stacktrace.InternalPaths(raw); len(paths) > 0 {
			stack = paths
		}
		slog.ErrorContext(ctx, "panic in messaging handler", "driver", driver, "panic", rvr, "stack", stack)

		err = fmt.Errorf("%w: %s: %v", ErrHandlerPanic, driver, rvr)
	}()

	return fn()
}
