package consensus

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// Status represents the current state of a consensus session.
type Status string

const (
	// StatusRunning indicates the loop is still iterating. Never observed
	// externally; sessions returned by Run are always terminal.
	StatusRunning Status = "running"

	// StatusConsensus indicates every agent voted yes within the same round.
	StatusConsensus Status = "consensus"

	// StatusMaxRounds indicates the round limit was exhausted without
	// unanimous agreement.
	StatusMaxRounds Status = "max_rounds"

	// StatusError indicates a failure outside the per-agent boundary
	// terminated the loop early.
	StatusError Status = "error"
)

// Agent is one configured participant. Immutable for the duration of a
// session.
type Agent struct {
	// Name identifies the agent to its partners and in transcripts.
	// Unique within a roster.
	Name string `json:"name"`
	// Glyph is a short display symbol.
	Glyph string `json:"glyph,omitempty"`
	// Persona is the agent's private role description. Partners never see it.
	Persona string `json:"persona"`
	// Model selects the backend CLI via prefix matching. Optional.
	Model string `json:"model,omitempty"`
	// Endpoint overrides the backend's API base URL. Optional.
	Endpoint string `json:"endpoint,omitempty"`
}

// TurnRecord is one agent's output for one round. Immutable once created.
type TurnRecord struct {
	Agent     string    `json:"agent"`
	Round     int       `json:"round"`
	Response  string    `json:"response"`
	Vote      bool      `json:"vote"`
	Backend   string    `json:"backend,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Config is the loop's configuration snapshot, captured into the session at
// start so the session record stands alone.
type Config struct {
	Agents        []Agent       `json:"agents"`
	MaxRounds     int           `json:"max_rounds"`
	MinTaskLength int           `json:"min_task_length"`
	PreviewLength int           `json:"preview_length"`
	Timeout       time.Duration `json:"timeout"`
	WorkDir       string        `json:"workdir"`
}

// Session is the complete record of one run of the loop. The loop is the
// only writer; once Run returns the session is never mutated again.
type Session struct {
	ID         string       `json:"id"`
	Task       string       `json:"task"`
	Config     Config       `json:"config"`
	Records    []TurnRecord `json:"records"`
	Status     Status       `json:"status"`
	FinalRound int          `json:"final_round"`
	Summary    string       `json:"summary,omitempty"`
	StartedAt  time.Time    `json:"started_at"`
	EndedAt    *time.Time   `json:"ended_at,omitempty"`
}

// RoundRecords returns the records for a single round, in turn order.
func (s *Session) RoundRecords(round int) []TurnRecord {
	var records []TurnRecord
	for _, r := range s.Records {
		if r.Round == round {
			records = append(records, r)
		}
	}
	return records
}

// FinalVotes returns each agent's vote in the final round, keyed by agent
// name. Agents that never acted in the final round are absent.
func (s *Session) FinalVotes() map[string]bool {
	votes := make(map[string]bool)
	for _, r := range s.RoundRecords(s.FinalRound) {
		votes[r.Agent] = r.Vote
	}
	return votes
}

// generateID creates a short random session identifier.
func generateID() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b)
}
