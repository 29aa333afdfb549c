package backend

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/quorum-cli/quorum/internal/consensus"
	"github.com/quorum-cli/quorum/internal/errors"
	"github.com/quorum-cli/quorum/internal/logging"
)

// defaultTimeout bounds an agent call when the request carries no timeout.
const defaultTimeout = 5 * time.Minute

// stderrExcerptLen limits how much captured stderr ends up in error text.
const stderrExcerptLen = 500

// CLIInvoker satisfies consensus.Invoker by running backend CLI tools as
// subprocesses. Each invocation is a one-shot command bounded by the
// request's timeout; the agent's reply is whatever the tool wrote to stdout.
type CLIInvoker struct {
	registry *Registry
	creds    CredentialSource
	logger   *logging.Logger
}

// NewCLIInvoker creates an invoker over the configured backends. A nil
// credential source reads from the process environment; a nil logger
// disables logging.
func NewCLIInvoker(registry *Registry, creds CredentialSource, logger *logging.Logger) *CLIInvoker {
	if creds == nil {
		creds = EnvCredentials{}
	}
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &CLIInvoker{
		registry: registry,
		creds:    creds,
		logger:   logger,
	}
}

// Invoke runs one agent turn. A timeout, spawn failure, or non-zero exit
// returns an agent error; callers recover those into a losing vote.
func (i *CLIInvoker) Invoke(ctx context.Context, req consensus.Request) (*consensus.Response, error) {
	b := i.registry.ForModel(req.Model)

	timeout := req.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, b.Command(), b.Args(req)...)
	cmd.Dir = req.WorkDir
	cmd.Env = append(os.Environ(), b.Env(req, i.creds)...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	i.logger.Debug("running backend command",
		"backend", string(b.Name()),
		"command", b.Command(),
		"workdir", req.WorkDir)

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)

	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, errors.NewAgentError("agent call timed out",
				errors.NewTimeoutError("agent invocation", timeout)).
				WithBackend(string(b.Name()))
		}
		return nil, errors.NewAgentError(describeFailure(err, stderr.String()), err).
			WithBackend(string(b.Name()))
	}

	i.logger.Debug("backend command finished",
		"backend", string(b.Name()),
		"elapsed", elapsed.String(),
		"output_bytes", stdout.Len())

	return &consensus.Response{
		Text:    strings.TrimSpace(stdout.String()),
		Backend: string(b.Name()),
	}, nil
}

// describeFailure builds an error message from the process error and a
// stderr excerpt, which usually carries the CLI's actual complaint.
func describeFailure(err error, stderr string) string {
	msg := "agent call failed"
	stderr = strings.TrimSpace(stderr)
	if stderr == "" {
		return msg
	}
	if len(stderr) > stderrExcerptLen {
		stderr = stderr[:stderrExcerptLen]
	}
	return msg + ": " + stderr
}
