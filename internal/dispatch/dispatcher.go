package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/Iron-Ham/gvo/internal/errors"
	"github.com/Iron-Ham/gvo/internal/logging"
)

// DefaultSendTimeout bounds a send when no timeout is configured.
const DefaultSendTimeout = 3 * time.Second

// Route records how targets reached an editor.
type Route int

const (
	// RouteNone means nothing was dispatched.
	RouteNone Route = iota
	// RouteExisting means the running server accepted the targets.
	RouteExisting
	// RouteLaunched means a new editor was started with the targets.
	RouteLaunched
)

// String returns a human-readable name for the route.
func (r Route) String() string {
	switch r {
	case RouteNone:
		return "none"
	case RouteExisting:
		return "existing"
	case RouteLaunched:
		return "launched"
	default:
		return "unknown"
	}
}

// Result describes a successful dispatch.
type Result struct {
	Route Route
	// Server is the server the targets were sent to, or the name the
	// launched editor registers under.
	Server string
	// FellBack is set when a send failed and a launch took over.
	FellBack bool
	// PID is the launched editor's process ID, zero for RouteExisting.
	PID int
}

// Options configures a Dispatcher.
type Options struct {
	// SendTimeout bounds the open-files request to a running server.
	SendTimeout time.Duration
	// ServerName is reported in Result.Server for launches.
	ServerName string
}

// Dispatcher delivers targets to the editor.
type Dispatcher struct {
	editor Editor
	opts   Options
	logger *logging.Logger
}

// New creates a Dispatcher for editor.
func New(editor Editor, opts Options, logger *logging.Logger) *Dispatcher {
	if opts.SendTimeout <= 0 {
		opts.SendTimeout = DefaultSendTimeout
	}
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Dispatcher{
		editor: editor,
		opts:   opts,
		logger: logger.WithPhase("dispatch"),
	}
}

// Dispatch opens targets through h when present, and launches a new editor
// otherwise. A failed send falls back to a single launch; the send failure is
// only returned when that launch fails too.
func (d *Dispatcher) Dispatch(ctx context.Context, targets []string, h Handle) (Result, error) {
	if len(targets) == 0 {
		return Result{}, errors.NewValidationError("no targets to dispatch")
	}

	if !h.Present() {
		return d.launch(ctx, targets, false)
	}

	_, sendErr := boundedCall(ctx, "send", d.opts.SendTimeout, errors.ErrDispatchSend, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, d.editor.Send(ctx, h, targets)
	})
	if sendErr == nil {
		d.logger.Info("targets sent", "server", h.Name, "count", len(targets))
		return Result{Route: RouteExisting, Server: h.Name}, nil
	}

	// An interrupted invocation stops here; the user asked to quit.
	if ctx.Err() != nil {
		return Result{}, ctx.Err()
	}

	sendErr = wrapEditorError("send", errors.ErrDispatchSend, sendErr, h.Name)
	d.logger.Warn("send failed, launching new instance", "server", h.Name, "error", sendErr.Error())

	res, launchErr := d.launch(ctx, targets, true)
	if launchErr != nil {
		return Result{}, errors.Join(sendErr, launchErr)
	}
	return res, nil
}

func (d *Dispatcher) launch(ctx context.Context, targets []string, fellBack bool) (Result, error) {
	pid, err := d.editor.Launch(ctx, targets, true)
	if err != nil {
		err = wrapEditorError("launch", errors.ErrLaunchFailed, err, d.opts.ServerName)
		d.logger.Error("launch failed", "error", err.Error(), "fallback", fellBack)
		return Result{}, err
	}

	d.logger.Info("editor launched",
		"pid", pid,
		"server", d.opts.ServerName,
		"count", len(targets),
		"fallback", fellBack,
	)
	return Result{
		Route:    RouteLaunched,
		Server:   d.opts.ServerName,
		FellBack: fellBack,
		PID:      pid,
	}, nil
}

// wrapEditorError makes sure err carries sentinel and the dispatch exit code.
// Errors that are already EditorErrors keep their context.
func wrapEditorError(op string, sentinel, err error, server string) error {
	var editorErr *errors.EditorError
	if errors.As(err, &editorErr) && errors.Is(err, sentinel) {
		return err
	}
	e := errors.NewEditorError(op, fmt.Errorf("%w: %w", sentinel, err))
	if server != "" {
		e = e.WithServerName(server)
	}
	return e
}
