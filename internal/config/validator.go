package config

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/gobwas/glob"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "expand.max_files")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// Upper bounds shared by the validator and the CLI flag checks.
const (
	MaxFilesLimit   = 100_000
	MaxDepthLimit   = 256
	MaxTimeoutLimit = time.Minute
)

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validateEditor()...)
	errors = append(errors, c.validateExpand()...)
	errors = append(errors, c.validateLogging()...)

	return errors
}

// validateEditor validates the EditorConfig
func (c *Config) validateEditor() []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(c.Editor.Binary) == "" {
		errors = append(errors, ValidationError{
			Field:   "editor.binary",
			Value:   c.Editor.Binary,
			Message: "must not be empty",
		})
	}

	// Server names end up on the editor's command line and in its
	// registry, so whitespace would split or mangle them.
	if strings.TrimSpace(c.Editor.ServerName) == "" {
		errors = append(errors, ValidationError{
			Field:   "editor.server_name",
			Value:   c.Editor.ServerName,
			Message: "must not be empty",
		})
	} else if strings.ContainsAny(c.Editor.ServerName, " \t\n") {
		errors = append(errors, ValidationError{
			Field:   "editor.server_name",
			Value:   c.Editor.ServerName,
			Message: "must not contain whitespace",
		})
	}

	if strings.TrimSpace(c.Editor.OpenCommand) == "" {
		errors = append(errors, ValidationError{
			Field:   "editor.open_command",
			Value:   c.Editor.OpenCommand,
			Message: "must not be empty",
		})
	}

	errors = append(errors, validateTimeout("editor.probe_timeout", c.Editor.ProbeTimeout)...)
	errors = append(errors, validateTimeout("editor.send_timeout", c.Editor.SendTimeout)...)

	return errors
}

func validateTimeout(field string, d time.Duration) []ValidationError {
	if d <= 0 {
		return []ValidationError{{
			Field:   field,
			Value:   d,
			Message: "must be positive",
		}}
	}
	if d > MaxTimeoutLimit {
		return []ValidationError{{
			Field:   field,
			Value:   d,
			Message: fmt.Sprintf("exceeds maximum of %s", MaxTimeoutLimit),
		}}
	}
	return nil
}

// validateExpand validates the ExpandConfig
func (c *Config) validateExpand() []ValidationError {
	var errors []ValidationError

	if c.Expand.MaxFiles < 1 {
		errors = append(errors, ValidationError{
			Field:   "expand.max_files",
			Value:   c.Expand.MaxFiles,
			Message: "must be at least 1",
		})
	}
	if c.Expand.MaxFiles > MaxFilesLimit {
		errors = append(errors, ValidationError{
			Field:   "expand.max_files",
			Value:   c.Expand.MaxFiles,
			Message: fmt.Sprintf("exceeds maximum of %d", MaxFilesLimit),
		})
	}

	if c.Expand.MaxTotalBytes < 1 {
		errors = append(errors, ValidationError{
			Field:   "expand.max_total_bytes",
			Value:   c.Expand.MaxTotalBytes,
			Message: "must be at least 1",
		})
	}

	if c.Expand.MaxDepth < 1 || c.Expand.MaxDepth > MaxDepthLimit {
		errors = append(errors, ValidationError{
			Field:   "expand.max_depth",
			Value:   c.Expand.MaxDepth,
			Message: fmt.Sprintf("must be between 1 and %d", MaxDepthLimit),
		})
	}

	if c.Expand.MaxEntries < 1 {
		errors = append(errors, ValidationError{
			Field:   "expand.max_entries",
			Value:   c.Expand.MaxEntries,
			Message: "must be at least 1",
		})
	}

	if c.Expand.MaxArgs < 0 {
		errors = append(errors, ValidationError{
			Field:   "expand.max_args",
			Value:   c.Expand.MaxArgs,
			Message: "must be non-negative (0 disables the cap)",
		})
	}

	for _, pattern := range c.Expand.Ignore {
		if pattern == "" {
			errors = append(errors, ValidationError{
				Field:   "expand.ignore",
				Value:   pattern,
				Message: "patterns must not be empty",
			})
			continue
		}
		if _, err := glob.Compile(pattern); err != nil {
			errors = append(errors, ValidationError{
				Field:   "expand.ignore",
				Value:   pattern,
				Message: fmt.Sprintf("invalid glob pattern: %v", err),
			})
		}
	}

	return errors
}

// validateLogging validates the LoggingConfig
func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	if c.Logging.Level != "" && !slices.Contains(ValidLogLevels(), strings.ToLower(c.Logging.Level)) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	if c.Logging.MaxSizeMB < 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_size_mb",
			Value:   c.Logging.MaxSizeMB,
			Message: "must be non-negative (0 disables rotation)",
		})
	}

	return errors
}
