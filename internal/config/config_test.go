package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if len(cfg.Agents) != 3 {
		t.Errorf("Default() agents = %d, want 3", len(cfg.Agents))
	}
	if cfg.Rounds.Max != 5 {
		t.Errorf("Default() rounds.max = %d, want 5", cfg.Rounds.Max)
	}
	if cfg.Task.MinLength != 8 {
		t.Errorf("Default() task.min_length = %d, want 8", cfg.Task.MinLength)
	}
	if cfg.Invoke.TimeoutMinutes != 5 {
		t.Errorf("Default() invoke.timeout_minutes = %d, want 5", cfg.Invoke.TimeoutMinutes)
	}
	if cfg.Invoke.PreviewLength != 500 {
		t.Errorf("Default() invoke.preview_length = %d, want 500", cfg.Invoke.PreviewLength)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Default() logging.level = %q, want %q", cfg.Logging.Level, "info")
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		t.Errorf("Default() config should validate cleanly, got: %v", ValidationErrors(errs))
	}
}

func TestInvokeConfig_Timeout(t *testing.T) {
	c := InvokeConfig{TimeoutMinutes: 5}
	if got := c.Timeout(); got != 5*time.Minute {
		t.Errorf("Timeout() = %v, want %v", got, 5*time.Minute)
	}
}

func TestResolveWorkDir(t *testing.T) {
	base := "/tmp/project"

	tests := []struct {
		name    string
		workdir string
		want    string
	}{
		{"empty uses base", "", base},
		{"absolute kept", "/var/data", "/var/data"},
		{"relative resolved", "shared", filepath.Join(base, "shared")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{WorkDir: tt.workdir}
			if got := cfg.ResolveWorkDir(base); got != tt.want {
				t.Errorf("ResolveWorkDir(%q) = %q, want %q", tt.workdir, got, tt.want)
			}
		})
	}
}

func TestSetDefaults(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	SetDefaults()

	if got := viper.GetInt("rounds.max"); got != 5 {
		t.Errorf("rounds.max default = %d, want 5", got)
	}
	if got := viper.GetInt("invoke.timeout_minutes"); got != 5 {
		t.Errorf("invoke.timeout_minutes default = %d, want 5", got)
	}
	if got := viper.GetString("logging.level"); got != "info" {
		t.Errorf("logging.level default = %q, want %q", got, "info")
	}
}

func TestLoad_EmptyRoster(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	SetDefaults()

	_, err := Load()
	if err == nil {
		t.Fatal("Load() with no agents should return an error")
	}

	var verrs ValidationErrors
	if !asValidationErrors(err, &verrs) {
		t.Fatalf("Load() error = %T, want ValidationErrors", err)
	}
}

func asValidationErrors(err error, target *ValidationErrors) bool {
	verrs, ok := err.(ValidationErrors)
	if ok {
		*target = verrs
	}
	return ok
}

func TestLoad_FromViper(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	SetDefaults()
	viper.Set("agents", []map[string]any{
		{"name": "alpha", "persona": "first seat", "model": "claude-sonnet-4"},
		{"name": "beta", "persona": "second seat", "model": "gpt-5"},
	})
	viper.Set("rounds.max", 3)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(cfg.Agents) != 2 {
		t.Fatalf("Load() agents = %d, want 2", len(cfg.Agents))
	}
	if cfg.Agents[0].Name != "alpha" {
		t.Errorf("agents[0].name = %q, want %q", cfg.Agents[0].Name, "alpha")
	}
	if cfg.Rounds.Max != 3 {
		t.Errorf("rounds.max = %d, want 3", cfg.Rounds.Max)
	}
	// Unset keys fall back to defaults.
	if cfg.Invoke.TimeoutMinutes != 5 {
		t.Errorf("invoke.timeout_minutes = %d, want 5", cfg.Invoke.TimeoutMinutes)
	}
}
