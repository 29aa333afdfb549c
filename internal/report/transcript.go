package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/quorum-cli/quorum/internal/consensus"
)

// Transcript renders the full chronological record of a session as
// Markdown: every turn, grouped by round, with votes and timestamps.
// Responses appear verbatim, vote markers included.
func Transcript(session *consensus.Session) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# Session %s\n\n", session.ID))
	sb.WriteString(fmt.Sprintf("**Task:** %s\n\n", session.Task))
	sb.WriteString(fmt.Sprintf("**Status:** %s\n\n", session.Status))
	sb.WriteString(fmt.Sprintf("**Started:** %s\n\n", session.StartedAt.Format(time.RFC3339)))
	if session.EndedAt != nil {
		sb.WriteString(fmt.Sprintf("**Ended:** %s\n\n", session.EndedAt.Format(time.RFC3339)))
	}
	if session.Summary != "" {
		sb.WriteString(fmt.Sprintf("**Outcome:** %s\n\n", session.Summary))
	}

	currentRound := 0
	for _, rec := range session.Records {
		if rec.Round != currentRound {
			currentRound = rec.Round
			sb.WriteString(fmt.Sprintf("## Round %d\n\n", currentRound))
		}

		vote := "NO"
		if rec.Vote {
			vote = "YES"
		}
		sb.WriteString(fmt.Sprintf("### %s (vote: %s)\n\n", rec.Agent, vote))
		if rec.Backend != "" {
			sb.WriteString(fmt.Sprintf("*backend: %s, %s*\n\n", rec.Backend, rec.Timestamp.Format(time.RFC3339)))
		}
		sb.WriteString(rec.Response)
		sb.WriteString("\n\n")
	}

	return sb.String()
}

// WriteTranscript renders the transcript and writes it into the session's
// storage directory as transcript.md, returning the written path.
func WriteTranscript(baseDir string, session *consensus.Session) (string, error) {
	dir := consensus.SessionDir(baseDir, session.ID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create session directory: %w", err)
	}

	path := filepath.Join(dir, "transcript.md")
	if err := os.WriteFile(path, []byte(Transcript(session)), 0644); err != nil {
		return "", fmt.Errorf("failed to write transcript: %w", err)
	}
	return path, nil
}
