package cmd

import (
	"context"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Iron-Ham/gvo/internal/config"
	"github.com/Iron-Ham/gvo/internal/dispatch"
	"github.com/Iron-Ham/gvo/internal/errors"
	"github.com/Iron-Ham/gvo/internal/vim"
)

// targetFs is the filesystem targets are resolved against.
var targetFs afero.Fs = afero.NewOsFs()

// newEditor builds the editor capability from the loaded configuration.
var newEditor = func(cfg *config.Config) dispatch.Editor {
	return vim.New(vim.Options{
		Binary:      cfg.Editor.Binary,
		ServerName:  cfg.Editor.ServerName,
		OpenCommand: cfg.Editor.OpenCommand,
	})
}

// NewRootCmd creates the gvo command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gvo <path> [<path> ...]",
		Short: "Open files in a shared, reusable gvim",
		Long: `gvo opens files in one long-lived gvim instead of starting a new editor
for every invocation.

  gvo a.txt b.txt   open each file in the running gvim, or start one
  gvo src/          open every file below src/, within the expansion limits

A single directory argument is expanded recursively. If the expansion would
exceed expand.max_files, expand.max_total_bytes, expand.max_depth or
expand.max_entries, nothing is opened.

The names "config" and "help" are subcommands. Files with those names must
be given with a directory, as in ./config.

Exit codes: 0 opened, 1 resolution or usage error, 2 editor error.`,
		Args:              cobra.ArbitraryArgs,
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: func(*cobra.Command, []string) error { return initConfig() },
		RunE:              runOpen,
	}

	// Every other name is a path to open.
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return errors.NewValidationError(err.Error())
	})

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/gvo/config.yaml)")

	// Open flags
	rootCmd.Flags().String("server-name", "", "name of the reusable gvim server (default GVIM)")
	rootCmd.Flags().String("editor", "", "editor binary (default gvim)")
	rootCmd.Flags().Int("max-files", 0, "maximum files a directory may expand to (default 30)")
	rootCmd.Flags().Bool("dry-run", false, "resolve and probe, print the plan, open nothing")

	mustBind(rootCmd.PersistentFlags(), map[string]string{
		"config": "config",
	})
	mustBind(rootCmd.Flags(), map[string]string{
		"editor.server_name": "server-name",
		"editor.binary":      "editor",
		"expand.max_files":   "max-files",
	})

	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

// Execute runs the gvo command tree with args.
func Execute(ctx context.Context, args []string) error {
	rootCmd := NewRootCmd()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

func initConfig() error {
	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	viper.SetEnvPrefix("GVO")
	// Replace dots with underscores for nested keys in env vars
	// e.g., GVO_EXPAND_MAX_FILES for expand.max_files
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			return errors.NewValidationError("cannot read config file").
				WithField("config").
				WithValue(cfgFile).
				WithCause(err)
		}
		return nil
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(config.ConfigDir())

	// A missing config file is fine; a broken one is not.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return errors.NewValidationError("cannot read config file").
			WithField("config").
			WithValue(config.ConfigFile()).
			WithCause(err)
	}
	return nil
}

// usageArgs converts cobra's argument validation failures into usage errors.
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return errors.NewValidationError(err.Error())
		}
		return nil
	}
}
