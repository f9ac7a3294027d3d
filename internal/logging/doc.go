// Package logging provides the debug log for gvo.
//
// This package wraps Go's log/slog to write JSON lines. gvo is a short-lived
// process, so the log is an append-only file shared by every invocation; each
// entry carries the invoking process ID and the phase it was written in.
//
// # Basic Usage
//
//	logger, err := logging.NewLogger(logging.Options{
//	    Dir:       "/home/me/.local/state/gvo",
//	    Level:     "INFO",
//	    MaxSizeMB: 1,
//	})
//	if err != nil {
//	    return err
//	}
//	defer logger.Close()
//
//	log := logger.WithInvocation(os.Getpid()).WithPhase("probe")
//	log.Info("server found", "server", "GVIM")
//
// Output:
//
//	{"time":"...","level":"INFO","msg":"server found","invocation":4242,"phase":"probe","server":"GVIM"}
//
// # Rotation
//
// When debug.log is larger than MaxSizeMB at open time it is renamed to
// debug.log.1 (replacing an older backup) and a fresh file is started.
//
// # Testing
//
// Use [NopLogger] to discard output, or [NewWriterLogger] with a buffer to
// assert on entries.
package logging
