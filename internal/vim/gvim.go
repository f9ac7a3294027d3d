package vim

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/Iron-Ham/gvo/internal/dispatch"
	"github.com/Iron-Ham/gvo/internal/errors"
)

// Options configures a Gvim editor.
type Options struct {
	// Binary is the executable name or path (default: gvim).
	Binary string
	// ServerName is the name the reusable instance registers under (default: GVIM).
	ServerName string
	// OpenCommand is the ex command used to open each file (default: tab drop).
	OpenCommand string
}

// Gvim drives gvim through its client-server command line.
type Gvim struct {
	opts     Options
	lookPath func(string) (string, error)
	spawn    func(*exec.Cmd) (int, error)
}

var _ dispatch.Editor = (*Gvim)(nil)

// New creates a Gvim. Empty options fall back to the package defaults.
func New(opts Options) *Gvim {
	if opts.Binary == "" {
		opts.Binary = DefaultBinary
	}
	if opts.ServerName == "" {
		opts.ServerName = DefaultServerName
	}
	if opts.OpenCommand == "" {
		opts.OpenCommand = DefaultOpenCommand
	}
	return &Gvim{
		opts:     opts,
		lookPath: exec.LookPath,
		spawn:    spawnDetached,
	}
}

// ServerName returns the name probes look for and launches register under.
func (g *Gvim) ServerName() string {
	return g.opts.ServerName
}

// Binary returns the configured editor executable.
func (g *Gvim) Binary() string {
	return g.opts.Binary
}

func (g *Gvim) resolveBinary(op string) (string, error) {
	path, err := g.lookPath(g.opts.Binary)
	if err != nil {
		cause := fmt.Errorf("%w: %w", errors.ErrEditorNotFound, err)
		if op == "launch" {
			cause = fmt.Errorf("%w: %w", errors.ErrLaunchFailed, cause)
		}
		return "", errors.NewEditorError(op, cause).WithBinary(g.opts.Binary)
	}
	return path, nil
}

// Probe runs gvim --serverlist and looks for the configured server.
func (g *Gvim) Probe(ctx context.Context) (dispatch.Handle, error) {
	binary, err := g.resolveBinary("probe")
	if err != nil {
		return dispatch.Handle{}, err
	}

	output, err := CommandContext(ctx, binary, ProbeArgs()...).Output()
	if err != nil {
		return dispatch.Handle{}, errors.NewEditorError("probe", err).WithBinary(g.opts.Binary)
	}

	name, ok := MatchServer(ParseServerList(string(output)), g.opts.ServerName)
	if !ok {
		return dispatch.Handle{}, nil
	}
	return dispatch.Handle{Name: name}, nil
}

// Send asks the server behind h to open paths. It succeeds only when the
// server evaluated the whole request and answered with the ack marker.
func (g *Gvim) Send(ctx context.Context, h dispatch.Handle, paths []string) error {
	binary, err := g.resolveBinary("send")
	if err != nil {
		return err
	}

	cmd := CommandContext(ctx, binary, SendArgs(h.Name, g.opts.OpenCommand, paths)...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	errOut := strings.TrimSpace(stderr.String())

	switch {
	case runErr != nil:
		return g.sendError(h, errOut, runErr)
	case sendFailed(errOut):
		return g.sendError(h, errOut, nil)
	case strings.TrimSpace(stdout.String()) != ackMarker:
		return g.sendError(h, "server did not acknowledge the request", nil)
	}
	return nil
}

func (g *Gvim) sendError(h dispatch.Handle, detail string, cause error) error {
	if cause == nil {
		cause = errors.ErrDispatchSend
	} else {
		cause = fmt.Errorf("%w: %w", errors.ErrDispatchSend, cause)
	}
	e := errors.NewEditorError("send", cause).
		WithBinary(g.opts.Binary).
		WithServerName(h.Name)
	if detail != "" {
		e = e.WithMessage(firstLine(detail))
	}
	return e
}

// Launch starts a detached gvim with paths as startup arguments.
func (g *Gvim) Launch(_ context.Context, paths []string, reusable bool) (int, error) {
	binary, err := g.resolveBinary("launch")
	if err != nil {
		return 0, err
	}

	// The editor must outlive this invocation, so it is not tied to ctx.
	cmd := exec.Command(binary, LaunchArgs(g.opts.ServerName, paths, reusable)...)
	pid, err := g.spawn(cmd)
	if err != nil {
		return 0, errors.NewEditorError("launch", fmt.Errorf("%w: %w", errors.ErrLaunchFailed, err)).
			WithBinary(g.opts.Binary).
			WithServerName(g.opts.ServerName)
	}
	return pid, nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}
