package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

// resetViper gives each test a clean global viper with defaults registered.
func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	SetDefaults()
	t.Cleanup(viper.Reset)
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg == nil {
		t.Fatal("Default() returned nil")
	}

	// Editor defaults
	if cfg.Editor.Binary != "gvim" {
		t.Errorf("Editor.Binary = %q, want %q", cfg.Editor.Binary, "gvim")
	}
	if cfg.Editor.ServerName != "GVIM" {
		t.Errorf("Editor.ServerName = %q, want %q", cfg.Editor.ServerName, "GVIM")
	}
	if cfg.Editor.OpenCommand != "tab drop" {
		t.Errorf("Editor.OpenCommand = %q, want %q", cfg.Editor.OpenCommand, "tab drop")
	}
	if cfg.Editor.ProbeTimeout != 500*time.Millisecond {
		t.Errorf("Editor.ProbeTimeout = %v, want 500ms", cfg.Editor.ProbeTimeout)
	}
	if cfg.Editor.SendTimeout != 3*time.Second {
		t.Errorf("Editor.SendTimeout = %v, want 3s", cfg.Editor.SendTimeout)
	}

	// Expansion defaults
	if cfg.Expand.MaxFiles != 30 {
		t.Errorf("Expand.MaxFiles = %d, want 30", cfg.Expand.MaxFiles)
	}
	if cfg.Expand.MaxTotalBytes != 307200 {
		t.Errorf("Expand.MaxTotalBytes = %d, want 307200", cfg.Expand.MaxTotalBytes)
	}
	if cfg.Expand.MaxEntries != 1000 {
		t.Errorf("Expand.MaxEntries = %d, want 1000", cfg.Expand.MaxEntries)
	}
	if cfg.Expand.MaxArgs != 0 {
		t.Errorf("Expand.MaxArgs = %d, want 0", cfg.Expand.MaxArgs)
	}
	if len(cfg.Expand.Ignore) != 0 {
		t.Errorf("Expand.Ignore = %v, want empty", cfg.Expand.Ignore)
	}

	// Logging is opt-in
	if cfg.Logging.Enabled {
		t.Error("Logging.Enabled should be false by default")
	}

	if errs := cfg.Validate(); len(errs) != 0 {
		t.Errorf("Default().Validate() = %v, want no errors", errs)
	}
}

func TestLoad_Defaults(t *testing.T) {
	resetViper(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Expand.MaxFiles != 30 {
		t.Errorf("Expand.MaxFiles = %d, want 30", cfg.Expand.MaxFiles)
	}
	if cfg.Editor.ProbeTimeout != 500*time.Millisecond {
		t.Errorf("Editor.ProbeTimeout = %v, want 500ms", cfg.Editor.ProbeTimeout)
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	resetViper(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `editor:
  server_name: WORK
  probe_timeout: 250ms
expand:
  max_files: 12
  ignore:
    - .git
    - "*.swp"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	viper.SetConfigFile(path)
	if err := viper.ReadInConfig(); err != nil {
		t.Fatalf("ReadInConfig() error = %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Editor.ServerName != "WORK" {
		t.Errorf("Editor.ServerName = %q, want %q", cfg.Editor.ServerName, "WORK")
	}
	if cfg.Editor.ProbeTimeout != 250*time.Millisecond {
		t.Errorf("Editor.ProbeTimeout = %v, want 250ms", cfg.Editor.ProbeTimeout)
	}
	if cfg.Editor.Binary != "gvim" {
		t.Errorf("Editor.Binary = %q, want default %q", cfg.Editor.Binary, "gvim")
	}
	if cfg.Expand.MaxFiles != 12 {
		t.Errorf("Expand.MaxFiles = %d, want 12", cfg.Expand.MaxFiles)
	}
	if got := strings.Join(cfg.Expand.Ignore, ","); got != ".git,*.swp" {
		t.Errorf("Expand.Ignore = %q, want %q", got, ".git,*.swp")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	resetViper(t)
	viper.SetEnvPrefix("GVO")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	t.Setenv("GVO_EXPAND_MAX_FILES", "5")
	t.Setenv("GVO_EDITOR_SEND_TIMEOUT", "1500ms")
	t.Setenv("GVO_EXPAND_IGNORE", ".git,*.swp")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Expand.MaxFiles != 5 {
		t.Errorf("Expand.MaxFiles = %d, want 5", cfg.Expand.MaxFiles)
	}
	if cfg.Editor.SendTimeout != 1500*time.Millisecond {
		t.Errorf("Editor.SendTimeout = %v, want 1.5s", cfg.Editor.SendTimeout)
	}
	if len(cfg.Expand.Ignore) != 2 || cfg.Expand.Ignore[1] != "*.swp" {
		t.Errorf("Expand.Ignore = %v, want [.git *.swp]", cfg.Expand.Ignore)
	}
}

func TestLoad_Invalid(t *testing.T) {
	resetViper(t)
	viper.Set("expand.max_files", 0)
	viper.Set("logging.level", "verbose")

	_, err := Load()
	if err == nil {
		t.Fatal("Load() should fail for invalid values")
	}

	verrs, ok := err.(ValidationErrors)
	if !ok {
		t.Fatalf("Load() error type = %T, want ValidationErrors", err)
	}
	if len(verrs) != 2 {
		t.Errorf("len(errors) = %d, want 2: %v", len(verrs), verrs)
	}
}

func TestConfig_ToMap(t *testing.T) {
	m := Default().ToMap()

	editor, ok := m["editor"].(map[string]any)
	if !ok {
		t.Fatalf("ToMap()[editor] type = %T", m["editor"])
	}
	if editor["probe_timeout"] != "500ms" {
		t.Errorf("probe_timeout = %v, want %q", editor["probe_timeout"], "500ms")
	}

	expand, ok := m["expand"].(map[string]any)
	if !ok {
		t.Fatalf("ToMap()[expand] type = %T", m["expand"])
	}
	if expand["max_files"] != 30 {
		t.Errorf("max_files = %v, want 30", expand["max_files"])
	}
	if ignore, ok := expand["ignore"].([]string); !ok || ignore == nil {
		t.Errorf("ignore = %#v, want non-nil []string", expand["ignore"])
	}
}

func TestConfigDir(t *testing.T) {
	t.Run("with XDG_CONFIG_HOME", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/custom/config")

		if got, want := ConfigDir(), "/custom/config/gvo"; got != want {
			t.Errorf("ConfigDir() = %q, want %q", got, want)
		}
		if got, want := ConfigFile(), "/custom/config/gvo/config.yaml"; got != want {
			t.Errorf("ConfigFile() = %q, want %q", got, want)
		}
	})

	t.Run("without XDG_CONFIG_HOME", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "")

		home, _ := os.UserHomeDir()
		if got, want := ConfigDir(), filepath.Join(home, ".config", "gvo"); got != want {
			t.Errorf("ConfigDir() = %q, want %q", got, want)
		}
	})
}

func TestLoggingConfig_ResolveLogDir(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/state")

	l := LoggingConfig{}
	if got, want := l.ResolveLogDir(), "/state/gvo"; got != want {
		t.Errorf("ResolveLogDir() = %q, want %q", got, want)
	}

	l.Dir = "/var/log/gvo"
	if got := l.ResolveLogDir(); got != "/var/log/gvo" {
		t.Errorf("ResolveLogDir() = %q, want %q", got, "/var/log/gvo")
	}
}
