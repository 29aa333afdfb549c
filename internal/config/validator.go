package config

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "agents[0].name")
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

// agentNameRegex validates agent identifier characters.
// Names appear in prompts and transcripts so they stay simple: start with a
// letter, then alphanumeric, hyphen, or underscore.
var agentNameRegex = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]*$`)

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validateAgents()...)
	errors = append(errors, c.validateRounds()...)
	errors = append(errors, c.validateTask()...)
	errors = append(errors, c.validateInvoke()...)
	errors = append(errors, c.validateLogging()...)
	errors = append(errors, c.validateWorkDir()...)

	return errors
}

// validateAgents validates the roster
func (c *Config) validateAgents() []ValidationError {
	var errors []ValidationError

	if len(c.Agents) == 0 {
		errors = append(errors, ValidationError{
			Field:   "agents",
			Value:   c.Agents,
			Message: "at least one agent is required",
		})
		return errors
	}

	const maxAgents = 16
	if len(c.Agents) > maxAgents {
		errors = append(errors, ValidationError{
			Field:   "agents",
			Value:   len(c.Agents),
			Message: fmt.Sprintf("exceeds maximum of %d agents", maxAgents),
		})
	}

	seen := make(map[string]bool)
	for i, agent := range c.Agents {
		fieldName := fmt.Sprintf("agents[%d]", i)

		if agent.Name == "" {
			errors = append(errors, ValidationError{
				Field:   fieldName + ".name",
				Value:   agent.Name,
				Message: "cannot be empty",
			})
		} else {
			if !agentNameRegex.MatchString(agent.Name) {
				errors = append(errors, ValidationError{
					Field:   fieldName + ".name",
					Value:   agent.Name,
					Message: "must start with a letter and contain only alphanumeric characters, hyphens, or underscores",
				})
			}

			const maxNameLength = 50
			if len(agent.Name) > maxNameLength {
				errors = append(errors, ValidationError{
					Field:   fieldName + ".name",
					Value:   agent.Name,
					Message: fmt.Sprintf("exceeds maximum length of %d characters", maxNameLength),
				})
			}

			if seen[agent.Name] {
				errors = append(errors, ValidationError{
					Field:   fieldName + ".name",
					Value:   agent.Name,
					Message: "duplicate agent name",
				})
			}
			seen[agent.Name] = true
		}

		if strings.TrimSpace(agent.Persona) == "" {
			errors = append(errors, ValidationError{
				Field:   fieldName + ".persona",
				Value:   agent.Persona,
				Message: "cannot be empty",
			})
		}
	}

	return errors
}

// validateRounds validates the RoundsConfig
func (c *Config) validateRounds() []ValidationError {
	var errors []ValidationError

	const minRounds = 1
	const maxRounds = 100

	if c.Rounds.Max < minRounds {
		errors = append(errors, ValidationError{
			Field:   "rounds.max",
			Value:   c.Rounds.Max,
			Message: fmt.Sprintf("must be at least %d", minRounds),
		})
	}
	if c.Rounds.Max > maxRounds {
		errors = append(errors, ValidationError{
			Field:   "rounds.max",
			Value:   c.Rounds.Max,
			Message: fmt.Sprintf("exceeds maximum of %d", maxRounds),
		})
	}

	return errors
}

// validateTask validates the TaskConfig
func (c *Config) validateTask() []ValidationError {
	var errors []ValidationError

	if c.Task.MinLength < 1 {
		errors = append(errors, ValidationError{
			Field:   "task.min_length",
			Value:   c.Task.MinLength,
			Message: "must be at least 1",
		})
	}

	return errors
}

// validateInvoke validates the InvokeConfig
func (c *Config) validateInvoke() []ValidationError {
	var errors []ValidationError

	if c.Invoke.TimeoutMinutes <= 0 {
		errors = append(errors, ValidationError{
			Field:   "invoke.timeout_minutes",
			Value:   c.Invoke.TimeoutMinutes,
			Message: "must be positive",
		})
	}

	const maxTimeoutMinutes = 120
	if c.Invoke.TimeoutMinutes > maxTimeoutMinutes {
		errors = append(errors, ValidationError{
			Field:   "invoke.timeout_minutes",
			Value:   c.Invoke.TimeoutMinutes,
			Message: fmt.Sprintf("exceeds maximum of %d minutes", maxTimeoutMinutes),
		})
	}

	if c.Invoke.PreviewLength < 10 {
		errors = append(errors, ValidationError{
			Field:   "invoke.preview_length",
			Value:   c.Invoke.PreviewLength,
			Message: "must be at least 10",
		})
	}

	return errors
}

// validateLogging validates the LoggingConfig
func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	if c.Logging.Level != "" && !slices.Contains(ValidLogLevels(), c.Logging.Level) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	return errors
}

// validateWorkDir validates the working directory path
func (c *Config) validateWorkDir() []ValidationError {
	var errors []ValidationError

	if c.WorkDir != "" {
		if strings.ContainsRune(c.WorkDir, '\x00') {
			errors = append(errors, ValidationError{
				Field:   "workdir",
				Value:   c.WorkDir,
				Message: "path contains invalid null character",
			})
		}

		const maxPathLength = 4096
		if len(c.WorkDir) > maxPathLength {
			errors = append(errors, ValidationError{
				Field:   "workdir",
				Value:   c.WorkDir,
				Message: fmt.Sprintf("path exceeds maximum length of %d characters", maxPathLength),
			})
		}
	}

	return errors
}
