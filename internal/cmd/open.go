package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/gvo/internal/config"
	"github.com/Iron-Ham/gvo/internal/dispatch"
	"github.com/Iron-Ham/gvo/internal/errors"
	"github.com/Iron-Ham/gvo/internal/logging"
	"github.com/Iron-Ham/gvo/internal/target"
)

// runOpen resolves args, probes for the server and dispatches. Resolution
// finishes before the editor is touched, so a failed resolution has no
// side effects.
func runOpen(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if len(args) == 0 {
		return errors.NewValidationError("no paths given (see gvo --help)")
	}

	cfg, err := config.Load()
	if err != nil {
		return errors.NewValidationError("invalid configuration").WithCause(err)
	}

	logger := openLogger(cfg)
	defer func() { _ = logger.Close() }()
	log := logger.WithInvocation(os.Getpid())

	resolver, err := target.NewResolver(targetFs, limitsFromConfig(cfg.Expand))
	if err != nil {
		return err
	}

	resolveLog := log.WithPhase("resolve")
	targets, err := resolver.Resolve(ctx, args)
	if err != nil {
		logFailure(resolveLog.With("args", len(args)), "resolution failed", err)
		return err
	}
	resolveLog.Info("targets resolved",
		"count", len(targets.Paths),
		"expanded", targets.Expanded(),
		"bytes", targets.TotalBytes,
	)
	resolveLog.With("root", targets.Root).Debug("resolved paths", "paths", targets.Paths)

	editor := newEditor(cfg)
	handle := dispatch.NewLocator(editor, cfg.Editor.ProbeTimeout, log).Locate(ctx)

	dryRun, _ := cmd.Flags().GetBool("dry-run")
	if dryRun {
		printPlan(cmd.OutOrStdout(), cfg, targets, handle)
		return nil
	}

	d := dispatch.New(editor, dispatch.Options{
		SendTimeout: cfg.Editor.SendTimeout,
		ServerName:  cfg.Editor.ServerName,
	}, log)

	if _, err := d.Dispatch(ctx, targets.Paths, handle); err != nil {
		logFailure(log.WithPhase("dispatch"), "dispatch failed", err)
		return err
	}
	return nil
}

// logFailure logs err at the level its severity calls for. An interrupted
// run is only worth a debug entry.
func logFailure(log *logging.Logger, msg string, err error) {
	switch errors.GetSeverity(err) {
	case errors.SeverityDebug:
		log.Debug(msg, "error", err.Error())
	case errors.SeverityWarning:
		log.Warn(msg, "error", err.Error())
	default:
		log.Error(msg, "error", err.Error())
	}
}

func limitsFromConfig(c config.ExpandConfig) target.Limits {
	return target.Limits{
		MaxFiles:      c.MaxFiles,
		MaxTotalBytes: c.MaxTotalBytes,
		MaxDepth:      c.MaxDepth,
		MaxEntries:    c.MaxEntries,
		MaxArgs:       c.MaxArgs,
		Ignore:        c.Ignore,
	}
}

// openLogger returns the debug logger, or a NopLogger when logging is
// disabled or the log cannot be opened. A broken log never blocks opening
// files.
func openLogger(cfg *config.Config) *logging.Logger {
	if !cfg.Logging.Enabled {
		return logging.NopLogger()
	}
	logger, err := logging.NewLogger(logging.Options{
		Dir:       cfg.Logging.ResolveLogDir(),
		Level:     logging.ParseLevel(cfg.Logging.Level),
		MaxSizeMB: cfg.Logging.MaxSizeMB,
	})
	if err != nil {
		return logging.NopLogger()
	}
	return logger
}

// printPlan describes what a real run would do.
func printPlan(w io.Writer, cfg *config.Config, targets target.Targets, handle dispatch.Handle) {
	if handle.Present() {
		fmt.Fprintf(w, "%s send to running server %s\n", render(w, headerStyle, "route:"), handle.Name)
	} else {
		fmt.Fprintf(w, "%s launch %s as server %s\n", render(w, headerStyle, "route:"), cfg.Editor.Binary, cfg.Editor.ServerName)
	}

	source := "arguments"
	if targets.Expanded() {
		source = fmt.Sprintf("%s, %s", targets.Root, formatBytes(targets.TotalBytes))
	}
	fmt.Fprintf(w, "%s %d %s\n",
		render(w, headerStyle, "targets:"),
		len(targets.Paths),
		render(w, mutedStyle, "("+source+")"),
	)
	for _, p := range targets.Paths {
		fmt.Fprintf(w, "  %s\n", p)
	}
}
