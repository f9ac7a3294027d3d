// Package target turns command-line arguments into the list of files to open.
//
// A single directory argument is expanded recursively into the regular files
// beneath it. Any other argument list is taken literally. Either way the
// result is complete or an error is returned; there are no partial results.
package target

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gobwas/glob"
	"github.com/spf13/afero"

	"github.com/Iron-Ham/gvo/internal/errors"
)

// Targets is the outcome of a successful resolution.
type Targets struct {
	// Paths holds absolute, cleaned file paths in open order.
	Paths []string
	// Root is the expanded directory, empty for literal arguments.
	Root string
	// TotalBytes is the aggregate size of the expanded files.
	TotalBytes int64
}

// Expanded reports whether the targets came from a directory expansion.
func (t Targets) Expanded() bool {
	return t.Root != ""
}

// Resolver resolves arguments against a filesystem.
type Resolver struct {
	fs     afero.Fs
	limits Limits
	ignore []glob.Glob
}

// NewResolver creates a Resolver reading from fs. Zero bounds in limits fall
// back to DefaultLimits.
func NewResolver(fs afero.Fs, limits Limits) (*Resolver, error) {
	limits = limits.withDefaults()

	ignore := make([]glob.Glob, 0, len(limits.Ignore))
	for _, pattern := range limits.Ignore {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, errors.NewValidationError("invalid ignore pattern").
				WithField("expand.ignore").
				WithValue(pattern).
				WithCause(err)
		}
		ignore = append(ignore, g)
	}

	return &Resolver{fs: fs, limits: limits, ignore: ignore}, nil
}

// Limits returns the effective bounds.
func (r *Resolver) Limits() Limits {
	return r.limits
}

// Resolve returns the files named by args.
//
// Exactly one directory argument is expanded. Every other form is a literal
// list whose entries must be existing regular files.
func (r *Resolver) Resolve(ctx context.Context, args []string) (Targets, error) {
	if len(args) == 0 {
		return Targets{}, errors.NewValidationError("no paths given")
	}

	if len(args) == 1 && args[0] != "" {
		root, err := filepath.Abs(args[0])
		if err != nil {
			return Targets{}, fmt.Errorf("%w: %s: %w", errors.ErrUnreadable, args[0], err)
		}
		if info, err := r.fs.Stat(root); err == nil && info.IsDir() {
			return r.expand(ctx, root)
		}
	}

	return r.literal(ctx, args)
}

func (r *Resolver) literal(ctx context.Context, args []string) (Targets, error) {
	if r.limits.MaxArgs > 0 && len(args) > r.limits.MaxArgs {
		return Targets{}, errors.NewLimitError(errors.ErrTooManyTargets, "expand.max_args", int64(r.limits.MaxArgs))
	}

	paths := make([]string, 0, len(args))
	seen := make(map[string]bool, len(args))

	for _, arg := range args {
		if err := ctx.Err(); err != nil {
			return Targets{}, err
		}
		if arg == "" {
			return Targets{}, errors.NewNotFoundError(arg).WithReason("empty path")
		}

		path, err := filepath.Abs(arg)
		if err != nil {
			return Targets{}, fmt.Errorf("%w: %s: %w", errors.ErrUnreadable, arg, err)
		}

		info, err := r.fs.Stat(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return Targets{}, errors.NewNotFoundError(arg)
			}
			return Targets{}, fmt.Errorf("%w: %s: %w", errors.ErrUnreadable, arg, err)
		}
		if info.IsDir() {
			return Targets{}, errors.NewNotFoundError(arg).WithReason("is a directory")
		}
		if !info.Mode().IsRegular() {
			return Targets{}, errors.NewNotFoundError(arg).WithReason("not a regular file")
		}

		if seen[path] {
			continue
		}
		seen[path] = true
		paths = append(paths, path)
	}

	return Targets{Paths: paths}, nil
}

func (r *Resolver) expand(ctx context.Context, root string) (Targets, error) {
	w := &walker{r: r, root: root}
	if err := w.walk(ctx, root, 0); err != nil {
		return Targets{}, err
	}
	if w.exceeded != nil {
		return Targets{}, w.exceeded
	}
	if len(w.files) == 0 {
		return Targets{}, errors.NewNotFoundError(root).WithReason("directory contains no files")
	}
	return Targets{Paths: w.files, Root: root, TotalBytes: w.bytes}, nil
}

func (r *Resolver) ignored(name string) bool {
	for _, g := range r.ignore {
		if g.Match(name) {
			return true
		}
	}
	return false
}

// walker holds the running totals of one expansion.
//
// The file count is authoritative: once it passes MaxFiles the walk stops
// with TooManyTargets. The size, depth and entry bounds only record the first
// bound exceeded, after which the walk keeps counting files without
// collecting them. That bound is reported if the count stays within MaxFiles.
type walker struct {
	r        *Resolver
	root     string
	files    []string
	count    int
	bytes    int64
	entries  int
	exceeded error
}

// walk visits dir depth-first in lexical order. Directory symlinks below the
// root are not followed.
func (w *walker) walk(ctx context.Context, dir string, depth int) error {
	limits := w.r.limits
	if depth > limits.MaxDepth {
		w.exceed(errors.NewLimitError(errors.ErrExpansionTooLarge, "expand.max_depth", int64(limits.MaxDepth)).WithPath(dir))
		return nil
	}

	// afero.ReadDir returns entries sorted by name.
	infos, err := afero.ReadDir(w.r.fs, dir)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", errors.ErrUnreadable, dir, err)
	}

	for _, info := range infos {
		if err := ctx.Err(); err != nil {
			return err
		}
		if w.r.ignored(info.Name()) {
			continue
		}

		w.entries++
		if w.entries > limits.MaxEntries {
			w.exceed(errors.NewLimitError(errors.ErrExpansionTooLarge, "expand.max_entries", int64(limits.MaxEntries)).WithPath(w.root))
		}

		path := filepath.Join(dir, info.Name())
		mode := info.Mode()

		switch {
		case mode.IsDir():
			if err := w.walk(ctx, path, depth+1); err != nil {
				return err
			}
		case mode&os.ModeSymlink != 0:
			linked, err := w.r.fs.Stat(path)
			if err != nil || !linked.Mode().IsRegular() {
				// Dangling links and links to directories are skipped.
				continue
			}
			if err := w.add(path, linked.Size()); err != nil {
				return err
			}
		case mode.IsRegular():
			if err := w.add(path, info.Size()); err != nil {
				return err
			}
		}
	}
	return nil
}

func (w *walker) add(path string, size int64) error {
	limits := w.r.limits

	w.count++
	if w.count > limits.MaxFiles {
		return errors.NewLimitError(errors.ErrTooManyTargets, "expand.max_files", int64(limits.MaxFiles)).WithPath(w.root)
	}
	if w.exceeded != nil {
		return nil
	}
	if w.bytes+size > limits.MaxTotalBytes {
		w.exceed(errors.NewLimitError(errors.ErrExpansionTooLarge, "expand.max_total_bytes", limits.MaxTotalBytes).WithPath(w.root))
		return nil
	}

	w.files = append(w.files, path)
	w.bytes += size
	return nil
}

// exceed records the first secondary bound that was passed.
func (w *walker) exceed(err error) {
	if w.exceeded == nil {
		w.exceeded = err
		w.files = nil
	}
}
