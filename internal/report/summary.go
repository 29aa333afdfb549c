// Package report renders completed sessions for humans: a styled terminal
// summary and a Markdown transcript. It only reads session data; the loop
// guarantees that data is complete and immutable by the time it gets here.
package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/quorum-cli/quorum/internal/consensus"
	"github.com/quorum-cli/quorum/internal/util"
)

var (
	// Colors meet WCAG AA contrast (4.5:1) on dark terminals
	primaryColor = lipgloss.Color("#A78BFA") // Purple
	greenColor   = lipgloss.Color("#10B981") // Green
	amberColor   = lipgloss.Color("#F59E0B") // Amber
	redColor     = lipgloss.Color("#F87171") // Red
	mutedColor   = lipgloss.Color("#9CA3AF") // Gray

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	labelStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	yesStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(greenColor)

	noStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(redColor)

	statusStyles = map[consensus.Status]lipgloss.Style{
		consensus.StatusConsensus: lipgloss.NewStyle().Bold(true).Foreground(greenColor),
		consensus.StatusMaxRounds: lipgloss.NewStyle().Bold(true).Foreground(amberColor),
		consensus.StatusError:     lipgloss.NewStyle().Bold(true).Foreground(redColor),
	}
)

// excerptWidth bounds each agent's final-round excerpt in the summary.
const excerptWidth = 120

// Summary renders a human-readable outcome for a completed session: task,
// final status, rounds used, and each agent's final-round vote with a short
// excerpt of its last response.
func Summary(session *consensus.Session) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render(fmt.Sprintf("Session %s", session.ID)))
	sb.WriteString("\n\n")

	sb.WriteString(labelStyle.Render("Task:    "))
	sb.WriteString(util.TruncateString(session.Task, 100))
	sb.WriteString("\n")

	sb.WriteString(labelStyle.Render("Status:  "))
	sb.WriteString(renderStatus(session.Status))
	sb.WriteString("\n")

	sb.WriteString(labelStyle.Render("Rounds:  "))
	sb.WriteString(fmt.Sprintf("%d of %d", session.FinalRound, session.Config.MaxRounds))
	sb.WriteString("\n")

	if session.Summary != "" {
		sb.WriteString(labelStyle.Render("Outcome: "))
		sb.WriteString(session.Summary)
		sb.WriteString("\n")
	}

	final := session.RoundRecords(session.FinalRound)
	if len(final) > 0 {
		sb.WriteString("\n")
		sb.WriteString(titleStyle.Render(fmt.Sprintf("Final round (%d)", session.FinalRound)))
		sb.WriteString("\n")
		for _, rec := range final {
			sb.WriteString(fmt.Sprintf("  %s %s  %s\n",
				renderVote(rec.Vote),
				agentLabel(session, rec.Agent),
				util.TruncateANSI(util.FirstLine(consensus.StripVoteMarkers(rec.Response)), excerptWidth)))
		}
	}

	return sb.String()
}

func renderStatus(status consensus.Status) string {
	if style, ok := statusStyles[status]; ok {
		return style.Render(string(status))
	}
	return string(status)
}

func renderVote(vote bool) string {
	if vote {
		return yesStyle.Render("YES")
	}
	return noStyle.Render("NO ")
}

// agentLabel renders an agent's glyph and name, falling back to the bare
// name for agents missing from the config snapshot.
func agentLabel(session *consensus.Session, name string) string {
	for _, a := range session.Config.Agents {
		if a.Name == name && a.Glyph != "" {
			return fmt.Sprintf("[%s] %-12s", a.Glyph, name)
		}
	}
	return fmt.Sprintf("    %-12s", name)
}
