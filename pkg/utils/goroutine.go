package utils

import (
	"context"
	"runtime/debug"

	"golang-stock-insight/pkg/logger"
)

// GoSafe runs fn in a goroutine and recovers panics so one bad ticker cannot
// take the whole worker pool down.
func GoSafe(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				debug.PrintStack()
			}
		}()
		fn()
	}()
}

// ShouldContinue reports whether the context is still alive, logging when it
// is not.
func ShouldContinue(ctx context.Context, log *logger.Logger) bool {
	select {
	case <-ctx.Done():
		log.Info("Context canceled, stopping work", logger.ErrorField(ctx.Err()))
		return false
	default:
		return true
	}
}
