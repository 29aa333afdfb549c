package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/quorum-cli/quorum/internal/config"
)

func TestCommandsRegistered(t *testing.T) {
	want := map[string]bool{
		"run":        false,
		"init":       false,
		"transcript": false,
		"sessions":   false,
	}

	for _, c := range rootCmd.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}

	for name, found := range want {
		if !found {
			t.Errorf("command %q not registered", name)
		}
	}
}

func TestToRoster(t *testing.T) {
	agents := []config.AgentConfig{
		{Name: "alpha", Glyph: "A", Persona: "first", Model: "claude-sonnet-4", Endpoint: "https://proxy"},
		{Name: "beta", Persona: "second"},
	}

	roster := toRoster(agents)
	if len(roster) != 2 {
		t.Fatalf("roster size = %d, want 2", len(roster))
	}
	if roster[0].Name != "alpha" || roster[0].Glyph != "A" || roster[0].Model != "claude-sonnet-4" {
		t.Errorf("roster[0] = %+v, want fields copied", roster[0])
	}
	if roster[0].Endpoint != "https://proxy" {
		t.Errorf("roster[0].Endpoint = %q, want override carried through", roster[0].Endpoint)
	}
	if roster[1].Name != "beta" {
		t.Errorf("roster[1].Name = %q, want beta", roster[1].Name)
	}
}

func TestRunInit_WritesConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	if err := runInit(initCmd, nil); err != nil {
		t.Fatalf("runInit() error = %v", err)
	}

	path := config.ConfigFile()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("config file not written: %v", err)
	}

	var cfg config.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("written config is not valid YAML: %v", err)
	}
	if len(cfg.Agents) != 3 {
		t.Errorf("starter roster = %d agents, want 3", len(cfg.Agents))
	}
	if cfg.Rounds.Max != 5 {
		t.Errorf("starter rounds.max = %d, want 5", cfg.Rounds.Max)
	}
}

func TestRunInit_RefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	path := config.ConfigFile()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}
	if err := os.WriteFile(path, []byte("agents: []\n"), 0644); err != nil {
		t.Fatalf("failed to seed config file: %v", err)
	}

	initForce = false
	if err := runInit(initCmd, nil); err == nil {
		t.Error("runInit() should refuse to overwrite without --force")
	}

	initForce = true
	defer func() { initForce = false }()
	if err := runInit(initCmd, nil); err != nil {
		t.Errorf("runInit() with force error = %v", err)
	}
}
