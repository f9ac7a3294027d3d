// Package dispatch routes resolved targets to a reusable editor instance.
//
// The editor is consumed through the [Editor] capability: probe for a running
// server, send it files, or launch a new one. The [Locator] turns a probe into
// a [Handle] and the [Dispatcher] decides between sending and launching, with
// at most one fallback from a failed send to a launch.
package dispatch

import (
	"context"
)

// Handle identifies a located editor server. The zero value means no
// server was found.
type Handle struct {
	// Name is the name the server is registered under.
	Name string
}

// Present reports whether the handle refers to a server.
func (h Handle) Present() bool {
	return h.Name != ""
}

// String returns the server name, or "none" for an absent handle.
func (h Handle) String() string {
	if !h.Present() {
		return "none"
	}
	return h.Name
}

// Editor is the capability gvo needs from the editor application.
//
// Implementations must honor ctx: Probe and Send are bounded by the caller's
// timeouts, Launch only by the time it takes to start the process.
type Editor interface {
	// Probe looks for a running reusable server. A zero Handle with a nil
	// error means none is running.
	Probe(ctx context.Context) (Handle, error)

	// Send asks the server behind h to open paths in order. It returns once
	// the server accepted the request, not when editing finishes. Send must
	// never start an editor itself.
	Send(ctx context.Context, h Handle, paths []string) error

	// Launch starts a new editor with paths as startup arguments and returns
	// its process ID without waiting for it. With reusable set, the new
	// editor registers as the server later invocations will find.
	Launch(ctx context.Context, paths []string, reusable bool) (int, error)
}
