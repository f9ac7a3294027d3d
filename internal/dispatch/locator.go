package dispatch

import (
	"context"
	"time"

	"github.com/Iron-Ham/gvo/internal/errors"
	"github.com/Iron-Ham/gvo/internal/logging"
)

// DefaultProbeTimeout bounds a probe when no timeout is configured.
const DefaultProbeTimeout = 500 * time.Millisecond

// Locator finds the reusable editor server, if any.
type Locator struct {
	editor  Editor
	timeout time.Duration
	logger  *logging.Logger
}

// NewLocator creates a Locator that probes editor for at most timeout.
func NewLocator(editor Editor, timeout time.Duration, logger *logging.Logger) *Locator {
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Locator{
		editor:  editor,
		timeout: timeout,
		logger:  logger.WithPhase("probe"),
	}
}

// Locate probes once for a running server. Probe failures and timeouts are
// an ordinary outcome and yield the zero Handle.
func (l *Locator) Locate(ctx context.Context) Handle {
	start := time.Now()

	h, err := boundedCall(ctx, "probe", l.timeout, errors.ErrProbeTimeout, func(ctx context.Context) (Handle, error) {
		return l.editor.Probe(ctx)
	})
	elapsed := time.Since(start)

	switch {
	case errors.Is(err, errors.ErrProbeTimeout):
		l.logger.Info("no server: probe timed out", "error", err.Error(), "elapsed", elapsed.String())
		return Handle{}
	case err != nil:
		l.logger.Info("no server: probe failed", "error", err.Error(), "elapsed", elapsed.String())
		return Handle{}
	case !h.Present():
		l.logger.Info("no server running", "elapsed", elapsed.String())
		return Handle{}
	}

	l.logger.Info("server found", "server", h.Name, "elapsed", elapsed.String())
	return h
}

type callResult[T any] struct {
	value T
	err   error
}

// boundedCall runs fn with a deadline of timeout and stops waiting once the
// deadline passes, even if fn ignores its context. Deadline expiry is
// reported as a TimeoutError for op that matches ErrTimeout and kind;
// cancellation of the parent ctx as ctx.Err().
func boundedCall[T any](ctx context.Context, op string, timeout time.Duration, kind error, fn func(context.Context) (T, error)) (T, error) {
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan callResult[T], 1)
	go func() {
		v, err := fn(callCtx)
		done <- callResult[T]{value: v, err: err}
	}()

	var zero T
	select {
	case res := <-done:
		if res.err != nil && ctx.Err() == nil && callCtx.Err() == context.DeadlineExceeded {
			return zero, errors.NewTimeoutError(op, timeout).WithKind(kind).WithCause(res.err)
		}
		return res.value, res.err
	case <-callCtx.Done():
		if err := ctx.Err(); err != nil {
			return zero, err
		}
		return zero, errors.NewTimeoutError(op, timeout).WithKind(kind)
	}
}
