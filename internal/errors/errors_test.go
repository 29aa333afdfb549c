package errors

import (
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestAgentError(t *testing.T) {
	cause := New("exit status 1")
	err := NewAgentError("command failed", cause).
		WithAgent("scout").
		WithBackend("claude").
		WithRound(2)

	msg := err.Error()
	for _, want := range []string{"agent=scout", "backend=claude", "round=2", "command failed", "exit status 1"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Error() = %q, want to contain %q", msg, want)
		}
	}

	if !Is(err, cause) {
		t.Error("expected Is() to match the wrapped cause")
	}
	if !IsRetryable(err) {
		t.Error("agent errors should be retryable")
	}

	var agentErr *AgentError
	if !As(err, &agentErr) {
		t.Fatal("expected As() to match *AgentError")
	}
	if agentErr.Agent != "scout" {
		t.Errorf("Agent = %q, want %q", agentErr.Agent, "scout")
	}
}

func TestAgentError_NoContext(t *testing.T) {
	err := NewAgentError("spawn failed", nil)
	if got, want := err.Error(), "agent error: spawn failed"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestLoopError(t *testing.T) {
	cause := New("context canceled")
	err := NewLoopError("loop aborted", cause).WithSessionID("abc123").WithRound(3)

	msg := err.Error()
	for _, want := range []string{"session=abc123", "round=3", "loop aborted"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Error() = %q, want to contain %q", msg, want)
		}
	}
	if IsRetryable(err) {
		t.Error("loop errors should not be retryable")
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("task text is too short").WithField("task").WithValue("hi")

	msg := err.Error()
	if !strings.Contains(msg, "field=task") {
		t.Errorf("Error() = %q, want to contain field context", msg)
	}
	if !Is(err, ErrInvalidInput) {
		t.Error("validation errors should match ErrInvalidInput")
	}
	if IsRetryable(err) {
		t.Error("validation errors should not be retryable")
	}
}

func TestTimeoutError(t *testing.T) {
	err := NewTimeoutError("agent invocation", 5*time.Minute)

	if !Is(err, ErrTimeout) {
		t.Error("timeout errors should match ErrTimeout")
	}
	if !IsRetryable(err) {
		t.Error("timeout errors should be retryable")
	}
	if !strings.Contains(err.Error(), "5m0s") {
		t.Errorf("Error() = %q, want to contain duration", err.Error())
	}
}

func TestNotFoundError(t *testing.T) {
	err := NewNotFoundError("session", "deadbeef")
	if got, want := err.Error(), "session 'deadbeef' not found"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !Is(err, ErrSessionNotFound) {
		t.Error("missing sessions should match ErrSessionNotFound")
	}
	if Is(NewNotFoundError("transcript", "deadbeef"), ErrSessionNotFound) {
		t.Error("non-session resources should not match ErrSessionNotFound")
	}
}

func TestIsRetryable_WrappedTimeout(t *testing.T) {
	err := fmt.Errorf("invoking agent: %w", ErrTimeout)
	if !IsRetryable(err) {
		t.Error("errors wrapping ErrTimeout should be retryable")
	}
}

func TestIsRetryable_Nil(t *testing.T) {
	if IsRetryable(nil) {
		t.Error("nil should not be retryable")
	}
}
