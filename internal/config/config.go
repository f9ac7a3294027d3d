package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// Config represents the complete gvo configuration
type Config struct {
	Editor  EditorConfig  `mapstructure:"editor"`
	Expand  ExpandConfig  `mapstructure:"expand"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// EditorConfig describes the editor that owns the reusable instance
type EditorConfig struct {
	// Binary is the editor executable, looked up on PATH (default: "gvim")
	Binary string `mapstructure:"binary"`
	// ServerName is the name the reusable instance registers under (default: "GVIM")
	ServerName string `mapstructure:"server_name"`
	// OpenCommand is the ex command used to open each file in the running
	// instance (default: "tab drop")
	OpenCommand string `mapstructure:"open_command"`
	// ProbeTimeout bounds the server lookup; a timeout means "no instance"
	ProbeTimeout time.Duration `mapstructure:"probe_timeout"`
	// SendTimeout bounds the open-files command; a timeout triggers the launch fallback
	SendTimeout time.Duration `mapstructure:"send_timeout"`
}

// ExpandConfig holds the hard caps applied while resolving targets
type ExpandConfig struct {
	// MaxFiles is the maximum number of files a directory may expand to (default: 30)
	MaxFiles int `mapstructure:"max_files"`
	// MaxTotalBytes is the maximum aggregate size of an expansion (default: 300KiB)
	MaxTotalBytes int64 `mapstructure:"max_total_bytes"`
	// MaxDepth is the maximum directory depth below the expanded directory (default: 16)
	MaxDepth int `mapstructure:"max_depth"`
	// MaxEntries is the maximum number of directory entries visited (default: 1000)
	MaxEntries int `mapstructure:"max_entries"`
	// MaxArgs caps the number of literal arguments, 0 = no cap (default: 0)
	MaxArgs int `mapstructure:"max_args"`
	// Ignore holds glob patterns matched against entry names during expansion.
	// Examples: [".git", "*.swp", "node_modules"]
	Ignore []string `mapstructure:"ignore"`
}

// LoggingConfig controls the debug log
type LoggingConfig struct {
	// Enabled controls whether the debug log is written (default: false)
	Enabled bool `mapstructure:"enabled"`
	// Level is the log level: "debug", "info", "warn", "error" (default: "info")
	Level string `mapstructure:"level"`
	// Dir is where debug.log is written. Empty means StateDir().
	Dir string `mapstructure:"dir"`
	// MaxSizeMB rotates debug.log to debug.log.1 when it grows past this
	// size, 0 = never (default: 1)
	MaxSizeMB int `mapstructure:"max_size_mb"`
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Editor: EditorConfig{
			Binary:       "gvim",
			ServerName:   "GVIM",
			OpenCommand:  "tab drop",
			ProbeTimeout: 500 * time.Millisecond,
			SendTimeout:  3 * time.Second,
		},
		Expand: ExpandConfig{
			MaxFiles:      30,
			MaxTotalBytes: 300 * 1024,
			MaxDepth:      16,
			MaxEntries:    1000,
			MaxArgs:       0, // No cap on literal arguments
			Ignore:        []string{},
		},
		Logging: LoggingConfig{
			Enabled:   false,
			Level:     "info",
			Dir:       "",
			MaxSizeMB: 1,
		},
	}
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	// Editor defaults
	viper.SetDefault("editor.binary", defaults.Editor.Binary)
	viper.SetDefault("editor.server_name", defaults.Editor.ServerName)
	viper.SetDefault("editor.open_command", defaults.Editor.OpenCommand)
	viper.SetDefault("editor.probe_timeout", defaults.Editor.ProbeTimeout)
	viper.SetDefault("editor.send_timeout", defaults.Editor.SendTimeout)

	// Expansion defaults
	viper.SetDefault("expand.max_files", defaults.Expand.MaxFiles)
	viper.SetDefault("expand.max_total_bytes", defaults.Expand.MaxTotalBytes)
	viper.SetDefault("expand.max_depth", defaults.Expand.MaxDepth)
	viper.SetDefault("expand.max_entries", defaults.Expand.MaxEntries)
	viper.SetDefault("expand.max_args", defaults.Expand.MaxArgs)
	viper.SetDefault("expand.ignore", defaults.Expand.Ignore)

	// Logging defaults
	viper.SetDefault("logging.enabled", defaults.Logging.Enabled)
	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.dir", defaults.Logging.Dir)
	viper.SetDefault("logging.max_size_mb", defaults.Logging.MaxSizeMB)
}

// decodeHook converts the string forms accepted in config files and GVO_*
// environment variables: "500ms" durations and comma separated ignore lists.
func decodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg, viper.DecodeHook(decodeHook())); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// ToMap returns the configuration as nested maps keyed like the config file,
// with durations rendered in their string form.
func (c *Config) ToMap() map[string]any {
	ignore := c.Expand.Ignore
	if ignore == nil {
		ignore = []string{}
	}
	return map[string]any{
		"editor": map[string]any{
			"binary":        c.Editor.Binary,
			"server_name":   c.Editor.ServerName,
			"open_command":  c.Editor.OpenCommand,
			"probe_timeout": c.Editor.ProbeTimeout.String(),
			"send_timeout":  c.Editor.SendTimeout.String(),
		},
		"expand": map[string]any{
			"max_files":       c.Expand.MaxFiles,
			"max_total_bytes": c.Expand.MaxTotalBytes,
			"max_depth":       c.Expand.MaxDepth,
			"max_entries":     c.Expand.MaxEntries,
			"max_args":        c.Expand.MaxArgs,
			"ignore":          ignore,
		},
		"logging": map[string]any{
			"enabled":     c.Logging.Enabled,
			"level":       c.Logging.Level,
			"dir":         c.Logging.Dir,
			"max_size_mb": c.Logging.MaxSizeMB,
		},
	}
}

// ResolveLogDir returns the directory the debug log is written to.
func (l *LoggingConfig) ResolveLogDir() string {
	if l.Dir != "" {
		return l.Dir
	}
	return StateDir()
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "gvo")
	}
	// Fall back to ~/.config/gvo
	home, err := os.UserHomeDir()
	if err != nil {
		return ".gvo"
	}
	return filepath.Join(home, ".config", "gvo")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// StateDir returns the directory for runtime state such as the debug log
func StateDir() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "gvo")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".gvo"
	}
	return filepath.Join(home, ".local", "state", "gvo")
}
