package report

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"

	"github.com/quorum-cli/quorum/internal/consensus"
)

func completedSession() *consensus.Session {
	started := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	ended := started.Add(8 * time.Minute)
	return &consensus.Session{
		ID:   "deadbeef",
		Task: "refactor the config loader",
		Config: consensus.Config{
			Agents: []consensus.Agent{
				{Name: "architect", Glyph: "A", Persona: "design"},
				{Name: "implementer", Glyph: "I", Persona: "build"},
			},
			MaxRounds: 5,
		},
		Records: []consensus.TurnRecord{
			{Agent: "architect", Round: 1, Response: "sketched it [CONSENSUS: NO]", Vote: false, Backend: "claude", Timestamp: started},
			{Agent: "implementer", Round: 1, Response: "built it [CONSENSUS: YES]", Vote: true, Backend: "codex", Timestamp: started},
			{Agent: "architect", Round: 2, Response: "looks right now [CONSENSUS: YES]", Vote: true, Backend: "claude", Timestamp: started},
			{Agent: "implementer", Round: 2, Response: "agreed [CONSENSUS: YES]", Vote: true, Backend: "codex", Timestamp: started},
		},
		Status:     consensus.StatusConsensus,
		FinalRound: 2,
		Summary:    "all 2 agents reached consensus in round 2",
		StartedAt:  started,
		EndedAt:    &ended,
	}
}

func TestSummary(t *testing.T) {
	plain := ansi.Strip(Summary(completedSession()))

	for _, want := range []string{
		"Session deadbeef",
		"refactor the config loader",
		"consensus",
		"2 of 5",
		"Final round (2)",
		"architect",
		"implementer",
		"looks right now",
		"agreed",
	} {
		if !strings.Contains(plain, want) {
			t.Errorf("Summary() missing %q\n%s", want, plain)
		}
	}

	// Only final-round excerpts appear.
	if strings.Contains(plain, "sketched it") {
		t.Error("Summary() should not include earlier rounds")
	}
	// Excerpts have vote markers stripped; the rendered YES/NO badges come
	// from the vote column, not the raw text.
	if strings.Contains(plain, "[CONSENSUS:") {
		t.Error("Summary() should strip vote markers from excerpts")
	}
}

func TestSummary_FinalVotes(t *testing.T) {
	s := completedSession()
	s.Status = consensus.StatusMaxRounds
	s.Records[3].Vote = false
	s.Records[3].Response = "still wrong [CONSENSUS: NO]"

	plain := ansi.Strip(Summary(s))
	if !strings.Contains(plain, "max_rounds") {
		t.Error("Summary() missing max_rounds status")
	}
	if !strings.Contains(plain, "NO") {
		t.Error("Summary() missing dissenting vote")
	}
}

func TestSummary_ExcerptFirstLineOnly(t *testing.T) {
	s := completedSession()
	s.Records[3].Response = "[CONSENSUS: YES]\n\nheadline of the reply\nsecond line stays out"

	plain := ansi.Strip(Summary(s))
	if !strings.Contains(plain, "headline of the reply") {
		t.Error("Summary() missing the first content line of the response")
	}
	if strings.Contains(plain, "second line stays out") {
		t.Error("Summary() excerpt should stop at the first line")
	}
}

func TestTranscript(t *testing.T) {
	got := Transcript(completedSession())

	for _, want := range []string{
		"# Session deadbeef",
		"**Task:** refactor the config loader",
		"**Status:** consensus",
		"## Round 1",
		"## Round 2",
		"### architect (vote: NO)",
		"### implementer (vote: YES)",
		"*backend: claude",
		"sketched it [CONSENSUS: NO]",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Transcript() missing %q", want)
		}
	}

	// Chronological grouping: round 1 header precedes round 2.
	if strings.Index(got, "## Round 1") > strings.Index(got, "## Round 2") {
		t.Error("Transcript() rounds out of order")
	}
}

func TestWriteTranscript(t *testing.T) {
	dir := t.TempDir()
	session := completedSession()

	path, err := WriteTranscript(dir, session)
	if err != nil {
		t.Fatalf("WriteTranscript() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read transcript: %v", err)
	}
	if !strings.Contains(string(data), "# Session deadbeef") {
		t.Error("written transcript missing header")
	}
	if !strings.Contains(path, "deadbeef") {
		t.Errorf("transcript path = %q, want session directory", path)
	}
}
