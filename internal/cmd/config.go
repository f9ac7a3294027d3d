package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/Iron-Ham/gvo/internal/config"
	"github.com/Iron-Ham/gvo/internal/errors"
)

func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "View or create gvo configuration",
		Long: `View or create gvo configuration.

Without a subcommand, displays the effective configuration.`,
		Args: usageArgs(cobra.NoArgs),
		RunE: runConfigShow,
	}

	configShowCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration as YAML",
		Args:  usageArgs(cobra.NoArgs),
		RunE:  runConfigShow,
	}

	configInitCmd := &cobra.Command{
		Use:   "init",
		Short: "Create a default config file",
		Long:  `Create a default config file at ~/.config/gvo/config.yaml with all available options.`,
		Args:  usageArgs(cobra.NoArgs),
		RunE:  runConfigInit,
	}
	configInitCmd.Flags().Bool("force", false, "overwrite an existing config file")

	configPathCmd := &cobra.Command{
		Use:   "path",
		Short: "Show the config file path",
		Args:  usageArgs(cobra.NoArgs),
		RunE:  runConfigPath,
	}

	configCmd.AddCommand(configShowCmd, configInitCmd, configPathCmd)
	return configCmd
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.NewValidationError("invalid configuration").WithCause(err)
	}

	out, err := yaml.Marshal(cfg.ToMap())
	if err != nil {
		return errors.Wrap(err, "failed to render configuration")
	}

	w := cmd.OutOrStdout()
	if used := viper.ConfigFileUsed(); used != "" {
		fmt.Fprintln(w, render(w, mutedStyle, "# config file: "+used))
	} else {
		fmt.Fprintln(w, render(w, mutedStyle, "# config file: (none - using defaults)"))
	}
	_, err = w.Write(out)
	return err
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	configDir := config.ConfigDir()
	configFile := config.ConfigFile()

	force, _ := cmd.Flags().GetBool("force")
	if _, err := os.Stat(configFile); err == nil && !force {
		return errors.NewValidationError("config file already exists (use --force to overwrite)").
			WithField("config").
			WithValue(configFile)
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return errors.Wrapf(err, "failed to create config directory %s", configDir)
	}

	if err := os.WriteFile(configFile, []byte(defaultConfigFile()), 0644); err != nil {
		return errors.Wrapf(err, "failed to write config file %s", configFile)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Created config file at %s\n", configFile)
	fmt.Fprintln(w, "Edit this file to customize gvo's behavior.")
	return nil
}

// defaultConfigFile renders the commented config written by "config init".
func defaultConfigFile() string {
	d := config.Default()
	return fmt.Sprintf(`# gvo configuration
# Every key can also be set through the environment, e.g. GVO_EXPAND_MAX_FILES=50

# The editor that owns the reusable instance
editor:
  # Executable, looked up on PATH
  binary: %s
  # Name the reusable instance registers under
  server_name: %s
  # Ex command used to open each file in the running instance
  open_command: %s
  # How long to look for a running instance before starting a new one
  probe_timeout: %s
  # How long the running instance may take to accept files
  send_timeout: %s

# Limits for expanding a single directory argument.
# Exceeding any of them opens nothing.
expand:
  max_files: %d
  max_total_bytes: %d
  max_depth: %d
  max_entries: %d
  # Cap on literal arguments, 0 = no cap
  max_args: %d
  # Glob patterns matched against file and directory names
  ignore:
    - .git
    - "*.swp"

# Debug log, written to $XDG_STATE_HOME/gvo/debug.log unless dir is set
logging:
  enabled: %t
  # Options: debug, info, warn, error
  level: %s
  dir: ""
  # Rotate to debug.log.1 past this size, 0 = never
  max_size_mb: %d
`,
		d.Editor.Binary,
		d.Editor.ServerName,
		d.Editor.OpenCommand,
		d.Editor.ProbeTimeout,
		d.Editor.SendTimeout,
		d.Expand.MaxFiles,
		d.Expand.MaxTotalBytes,
		d.Expand.MaxDepth,
		d.Expand.MaxEntries,
		d.Expand.MaxArgs,
		d.Logging.Enabled,
		d.Logging.Level,
		d.Logging.MaxSizeMB,
	)
}

func runConfigPath(cmd *cobra.Command, _ []string) error {
	w := cmd.OutOrStdout()

	if used := viper.ConfigFileUsed(); used != "" {
		fmt.Fprintf(w, "Active config: %s\n", used)
	} else {
		fmt.Fprintf(w, "Default path: %s (not created)\n", config.ConfigFile())
	}

	fmt.Fprintln(w, "\nSearch paths:")
	fmt.Fprintln(w, "  1. --config / GVO_CONFIG")
	fmt.Fprintf(w, "  2. %s\n", config.ConfigFile())
	fmt.Fprintln(w, "\nEnvironment variables: GVO_* (e.g., GVO_EDITOR_SERVER_NAME)")

	return nil
}
