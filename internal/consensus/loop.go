package consensus

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/quorum-cli/quorum/internal/errors"
	"github.com/quorum-cli/quorum/internal/logging"
)

// Request carries everything an invoker needs for one agent call.
type Request struct {
	Prompt       string
	SystemPrompt string
	WorkDir      string
	Model        string
	Endpoint     string
	Timeout      time.Duration
}

// Response is the result of a successful agent call.
type Response struct {
	// Text is the agent's raw reply.
	Text string
	// Backend tags which CLI served the call, for provenance.
	Backend string
}

// Invoker turns a prompt into an agent's textual response. Implementations
// block until the agent finishes or the request's timeout elapses.
type Invoker interface {
	Invoke(ctx context.Context, req Request) (*Response, error)
}

// Loop drives a roster of agents through rounds until consensus, round
// exhaustion, or error.
type Loop struct {
	cfg     Config
	invoker Invoker
	logger  *logging.Logger
}

// NewLoop creates a consensus loop. A nil logger disables logging.
func NewLoop(cfg Config, invoker Invoker, logger *logging.Logger) *Loop {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Loop{
		cfg:     cfg,
		invoker: invoker,
		logger:  logger,
	}
}

// Run executes the loop for the given task and returns the completed
// session. The task must be non-empty after trimming and at least the
// configured minimum length; otherwise Run fails with a validation error
// before any session exists.
//
// Rounds run strictly in order and agents strictly in roster order within a
// round. A single agent's invocation failure is recorded as a no vote and
// the round continues. Context cancellation is observed between turns, never
// mid-call: the current agent's invocation runs to completion before the
// loop stops. When the loop stops on cancellation or any other failure
// outside the per-agent boundary, the session is returned in error status
// alongside the error, with every record produced so far preserved.
func (l *Loop) Run(ctx context.Context, task string) (*Session, error) {
	if len(l.cfg.Agents) == 0 {
		return nil, errors.NewValidationError("no agents configured").
			WithField("agents").
			WithCause(errors.ErrEmptyRoster)
	}

	// Length is measured in characters, not bytes, so multibyte tasks are
	// judged the same as ASCII ones.
	task = strings.TrimSpace(task)
	if utf8.RuneCountInString(task) < l.cfg.MinTaskLength {
		return nil, errors.NewValidationError(
			fmt.Sprintf("task must be at least %d characters", l.cfg.MinTaskLength)).
			WithField("task").
			WithValue(task)
	}

	session := &Session{
		ID:        generateID(),
		Task:      task,
		Config:    l.cfg,
		Status:    StatusRunning,
		StartedAt: time.Now(),
	}

	logger := l.logger.WithSession(session.ID)
	logger.Info("session started",
		"task_length", len(task),
		"agents", len(l.cfg.Agents),
		"max_rounds", l.cfg.MaxRounds)

	for round := 1; round <= l.cfg.MaxRounds; round++ {
		roundLogger := logger.WithRound(round)
		roundLogger.Debug("round started")

		votes := make([]bool, 0, len(l.cfg.Agents))
		for _, agent := range l.cfg.Agents {
			if err := ctx.Err(); err != nil {
				loopErr := errors.NewLoopError("session cancelled", err).
					WithSessionID(session.ID).
					WithRound(round)
				l.finalize(session, StatusError, round)
				roundLogger.Error("session cancelled", "error", err.Error())
				return session, loopErr
			}

			rec := l.takeTurn(ctx, roundLogger, agent, task, round, session.Records)
			session.Records = append(session.Records, rec)
			votes = append(votes, rec.Vote)
		}

		if unanimous(votes, len(l.cfg.Agents)) {
			l.finalize(session, StatusConsensus, round)
			logger.Info("consensus reached", "round", round)
			return session, nil
		}

		roundLogger.Debug("round complete without consensus", "votes", countYes(votes))
	}

	l.finalize(session, StatusMaxRounds, l.cfg.MaxRounds)
	logger.Info("round limit exhausted", "rounds", l.cfg.MaxRounds)
	return session, nil
}

// takeTurn runs one agent's turn and always returns a record. Invocation
// failures are converted to data: a no vote with the error text as the
// response, so the round completes with one record per roster member.
func (l *Loop) takeTurn(ctx context.Context, logger *logging.Logger, agent Agent, task string, round int, history []TurnRecord) TurnRecord {
	agentLogger := logger.WithAgent(agent.Name)

	req := Request{
		Prompt:       BuildAgentPrompt(agent, l.cfg.Agents, task, round, history, l.cfg.PreviewLength),
		SystemPrompt: BuildSystemPrompt(agent),
		WorkDir:      l.cfg.WorkDir,
		Model:        agent.Model,
		Endpoint:     agent.Endpoint,
		Timeout:      l.cfg.Timeout,
	}

	agentLogger.Debug("invoking agent", "model", agent.Model, "prompt_length", len(req.Prompt))

	resp, err := l.invoker.Invoke(ctx, req)
	if err != nil {
		agentLogger.Warn("agent invocation failed", "error", err.Error())
		return TurnRecord{
			Agent:     agent.Name,
			Round:     round,
			Response:  fmt.Sprintf("invocation failed: %v", err),
			Vote:      false,
			Timestamp: time.Now(),
		}
	}

	vote := ExtractVote(resp.Text)
	agentLogger.Debug("turn complete", "vote", vote, "backend", resp.Backend, "response_length", len(resp.Text))

	return TurnRecord{
		Agent:     agent.Name,
		Round:     round,
		Response:  resp.Text,
		Vote:      vote,
		Backend:   resp.Backend,
		Timestamp: time.Now(),
	}
}

// finalize stamps the session with its terminal state.
func (l *Loop) finalize(session *Session, status Status, round int) {
	now := time.Now()
	session.Status = status
	session.FinalRound = round
	session.EndedAt = &now
	session.Summary = summarize(session)
}

// summarize produces a one-line outcome description for the session record.
func summarize(s *Session) string {
	switch s.Status {
	case StatusConsensus:
		return fmt.Sprintf("all %d agents reached consensus in round %d", len(s.Config.Agents), s.FinalRound)
	case StatusMaxRounds:
		return fmt.Sprintf("no consensus after %d rounds (%d of %d yes votes in the final round)",
			s.FinalRound, countYesRecords(s.RoundRecords(s.FinalRound)), len(s.Config.Agents))
	case StatusError:
		return fmt.Sprintf("session failed in round %d with %d turns recorded", s.FinalRound, len(s.Records))
	default:
		return ""
	}
}

// unanimous reports whether a completed round's votes are all yes.
func unanimous(votes []bool, rosterSize int) bool {
	if len(votes) != rosterSize {
		return false
	}
	for _, v := range votes {
		if !v {
			return false
		}
	}
	return true
}

func countYes(votes []bool) int {
	n := 0
	for _, v := range votes {
		if v {
			n++
		}
	}
	return n
}

func countYesRecords(records []TurnRecord) int {
	n := 0
	for _, r := range records {
		if r.Vote {
			n++
		}
	}
	return n
}
