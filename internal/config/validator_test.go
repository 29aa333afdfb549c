package config

import (
	"strings"
	"testing"
)

// validConfig returns a config that passes validation, for tests to mutate.
func validConfig() *Config {
	cfg := Default()
	return cfg
}

func findError(errs []ValidationError, field string) *ValidationError {
	for i := range errs {
		if errs[i].Field == field {
			return &errs[i]
		}
	}
	return nil
}

func TestValidate_ValidConfig(t *testing.T) {
	cfg := validConfig()
	if errs := cfg.Validate(); len(errs) > 0 {
		t.Errorf("Validate() = %v, want no errors", ValidationErrors(errs))
	}
}

func TestValidate_EmptyRoster(t *testing.T) {
	cfg := validConfig()
	cfg.Agents = nil

	errs := cfg.Validate()
	if findError(errs, "agents") == nil {
		t.Errorf("Validate() missing error for empty roster, got: %v", errs)
	}
}

func TestValidate_DuplicateAgentNames(t *testing.T) {
	cfg := validConfig()
	cfg.Agents = []AgentConfig{
		{Name: "alpha", Persona: "first"},
		{Name: "alpha", Persona: "second"},
	}

	errs := cfg.Validate()
	err := findError(errs, "agents[1].name")
	if err == nil {
		t.Fatalf("Validate() missing duplicate name error, got: %v", errs)
	}
	if !strings.Contains(err.Message, "duplicate") {
		t.Errorf("error message = %q, want mention of duplicate", err.Message)
	}
}

func TestValidate_AgentNames(t *testing.T) {
	tests := []struct {
		name      string
		agentName string
		wantErr   bool
	}{
		{"simple name", "reviewer", false},
		{"with hyphen", "code-reviewer", false},
		{"with underscore", "code_reviewer", false},
		{"with digits", "agent2", false},
		{"empty", "", true},
		{"starts with digit", "2agent", true},
		{"contains space", "code reviewer", true},
		{"contains slash", "a/b", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.Agents = []AgentConfig{{Name: tt.agentName, Persona: "seat"}}

			errs := cfg.Validate()
			got := findError(errs, "agents[0].name") != nil
			if got != tt.wantErr {
				t.Errorf("Validate() name error = %v, want %v (errors: %v)", got, tt.wantErr, errs)
			}
		})
	}
}

func TestValidate_EmptyPersona(t *testing.T) {
	cfg := validConfig()
	cfg.Agents[0].Persona = "   "

	errs := cfg.Validate()
	if findError(errs, "agents[0].persona") == nil {
		t.Errorf("Validate() missing error for blank persona, got: %v", errs)
	}
}

func TestValidate_Rounds(t *testing.T) {
	tests := []struct {
		name    string
		max     int
		wantErr bool
	}{
		{"one round", 1, false},
		{"default", 5, false},
		{"upper bound", 100, false},
		{"zero", 0, true},
		{"negative", -1, true},
		{"too many", 101, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.Rounds.Max = tt.max

			errs := cfg.Validate()
			got := findError(errs, "rounds.max") != nil
			if got != tt.wantErr {
				t.Errorf("Validate() rounds.max error = %v, want %v", got, tt.wantErr)
			}
		})
	}
}

func TestValidate_Invoke(t *testing.T) {
	cfg := validConfig()
	cfg.Invoke.TimeoutMinutes = 0
	cfg.Invoke.PreviewLength = 5

	errs := cfg.Validate()
	if findError(errs, "invoke.timeout_minutes") == nil {
		t.Errorf("Validate() missing error for zero timeout, got: %v", errs)
	}
	if findError(errs, "invoke.preview_length") == nil {
		t.Errorf("Validate() missing error for tiny preview length, got: %v", errs)
	}
}

func TestValidate_LogLevel(t *testing.T) {
	cfg := validConfig()
	cfg.Logging.Level = "verbose"

	errs := cfg.Validate()
	if findError(errs, "logging.level") == nil {
		t.Errorf("Validate() missing error for bad log level, got: %v", errs)
	}

	// Empty level is allowed, defaulting happens elsewhere.
	cfg.Logging.Level = ""
	if errs := cfg.Validate(); findError(errs, "logging.level") != nil {
		t.Errorf("Validate() should accept empty log level, got: %v", errs)
	}
}

func TestValidationErrors_Error(t *testing.T) {
	errs := ValidationErrors{
		{Field: "rounds.max", Value: 0, Message: "must be at least 1"},
	}
	if got := errs.Error(); !strings.Contains(got, "rounds.max") {
		t.Errorf("Error() = %q, want mention of rounds.max", got)
	}

	errs = append(errs, ValidationError{Field: "agents", Value: nil, Message: "at least one agent is required"})
	got := errs.Error()
	if !strings.Contains(got, "2 validation errors") {
		t.Errorf("Error() = %q, want count prefix", got)
	}
	if !strings.Contains(got, "agents") {
		t.Errorf("Error() = %q, want mention of agents", got)
	}
}
