package thttp

import (
	"context"
	"net/http"
	"runtime/debug"

	"github.com/ridge/parallel"
)

// runTask runs the task in the current goroutine, converting a panic into
// parallel.ErrPanic with the stack attached
func runTask(ctx context.Context, task parallel.Task) (err error) {
	defer func() {
		if p := recover(); p != nil {
			panicErr := parallel.ErrPanic{Value: p, Stack: debug.Stack()}
			err = panicErr
		}
	}()
	return task(ctx)
}

// Recover is a middleware that turns a handler panic into a 500 response
// and reports it to the server's panic channel, so one broken request does
// not take the process down
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		err := runTask(r.Context(), func(ctx context.Context) error {
			next.ServeHTTP(w, r)
			return nil
		})
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			select {
			case r.Context().Value(panicKey).(chan error) <- err:
			default:
			}
		}
	})
}
