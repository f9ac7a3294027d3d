// Package vim implements the editor capability for gvim's client-server mode.
//
// A gvim started with --servername registers itself under that name. Other
// invocations find it with --serverlist and hand it work with --remote-expr.
// All command lines are built here so the argument layout lives in one place.
package vim

import (
	"context"
	"os/exec"
	"strings"
)

// DefaultBinary is the editor executable looked up on PATH.
const DefaultBinary = "gvim"

// DefaultServerName is the name gvim registers under when none is given.
const DefaultServerName = "GVIM"

// DefaultOpenCommand is the ex command used to open each file remotely.
const DefaultOpenCommand = "tab drop"

// ackMarker is returned by the remote expression once every open command ran.
const ackMarker = "gvo-ack"

// ProbeArgs returns the arguments that list the running servers.
func ProbeArgs() []string {
	return []string{"--serverlist"}
}

// SendArgs returns the arguments that make server open paths in order.
func SendArgs(server, openCommand string, paths []string) []string {
	return []string{"--servername", server, "--remote-expr", RemoteExpr(openCommand, paths)}
}

// LaunchArgs returns the startup arguments of a new editor. With reusable
// set, the editor registers as server.
func LaunchArgs(server string, paths []string, reusable bool) []string {
	args := make([]string, 0, len(paths)+3)
	if reusable {
		args = append(args, "--servername", server)
	}
	args = append(args, "--")
	return append(args, paths...)
}

// CommandContext creates a context-aware exec.Cmd for binary.
func CommandContext(ctx context.Context, binary string, args ...string) *exec.Cmd {
	return exec.CommandContext(ctx, binary, args...)
}

// RemoteExpr builds the expression evaluated by the server. Every path is
// opened with openCommand through fnameescape(), the window is raised, and
// the expression yields ackMarker.
//
//	get([execute(['tab drop '.fnameescape('/a.txt'), 'call foreground()'], 'silent'), 'gvo-ack'], 1)
func RemoteExpr(openCommand string, paths []string) string {
	cmds := make([]string, 0, len(paths)+1)
	for _, p := range paths {
		cmds = append(cmds, Quote(openCommand+" ")+"."+"fnameescape("+Quote(p)+")")
	}
	cmds = append(cmds, Quote("call foreground()"))

	return "get([execute([" + strings.Join(cmds, ", ") + "], 'silent'), " + Quote(ackMarker) + "], 1)"
}

// Quote returns s as a single-quoted Vim string literal.
func Quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// ParseServerList splits --serverlist output into server names.
func ParseServerList(output string) []string {
	var servers []string
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		servers = append(servers, line)
	}
	return servers
}

// MatchServer returns the listed server matching name. Vim compares server
// names case-insensitively, so "gvim" matches "GVIM".
func MatchServer(servers []string, name string) (string, bool) {
	for _, s := range servers {
		if strings.EqualFold(s, name) {
			return s, true
		}
	}
	return "", false
}

// sendFailed reports whether stderr of a --remote-expr call carries one of
// Vim's client-server failures. Vim may exit 0 even when the send failed.
func sendFailed(stderr string) bool {
	for _, marker := range []string{"E247", "E241", "E449", "Send expression failed"} {
		if strings.Contains(stderr, marker) {
			return true
		}
	}
	return false
}
