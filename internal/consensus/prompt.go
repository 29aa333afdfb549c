package consensus

import (
	"fmt"
	"strings"

	"github.com/quorum-cli/quorum/internal/util"
)

// agentPromptTemplate is the per-turn prompt. Parameters: round number,
// task text, partner list, history section, vote marker instruction.
const agentPromptTemplate = `This is round %d of a collaborative working session.

## Task

%s

## Your partners

You are working with: %s. Everyone operates on the same shared directory, one at a time, and everyone can read and change everything.

%s## Your turn

1. Inspect the current state of the shared directory.
2. Do whatever work the task still needs.
3. Review your partners' most recent changes; if something is wrong, fix it directly rather than just describing the problem.
4. Briefly report what you did and why.

%s`

// historyHeader introduces the replayed transcript of prior turns.
const historyHeader = "## Discussion so far\n\n"

// voteInstruction tells the agent how to cast its vote. Shared between the
// per-turn prompt and the system prompt ground rules.
const voteInstruction = `End your reply with exactly one vote marker on its own line: [CONSENSUS: YES] if the task is complete and you agree with the current state of the work, or [CONSENSUS: NO] if more work is needed.`

// systemPromptTemplate is the per-agent system prompt. Parameters: agent
// name, persona text, vote marker instruction.
const systemPromptTemplate = `You are %s, one member of a small team of AI agents collaborating on a shared task.

%s

Ground rules:
- You have full read and write access to the shared working directory.
- You may run any commands you need to validate your work.
- When you disagree with a partner's output, edit their work directly instead of asking them to change it.
- %s`

// BuildAgentPrompt constructs the prompt for one agent's turn. The history
// window replays every prior record, grouped by round in ascending order,
// with vote markers stripped and long responses truncated. Partners are
// listed by name only; personas stay private to each agent's own system
// prompt.
func BuildAgentPrompt(agent Agent, roster []Agent, task string, round int, history []TurnRecord, previewLength int) string {
	return fmt.Sprintf(agentPromptTemplate,
		round,
		task,
		formatPartners(agent, roster),
		formatHistory(history, previewLength),
		voteInstruction,
	)
}

// BuildSystemPrompt constructs the system prompt for one agent: its own
// identity and persona plus the collaboration ground rules.
func BuildSystemPrompt(agent Agent) string {
	return fmt.Sprintf(systemPromptTemplate, agent.Name, strings.TrimSpace(agent.Persona), voteInstruction)
}

// formatPartners lists the other roster members' names in roster order.
func formatPartners(agent Agent, roster []Agent) string {
	var names []string
	for _, a := range roster {
		if a.Name == agent.Name {
			continue
		}
		names = append(names, a.Name)
	}
	if len(names) == 0 {
		return "nobody else this session"
	}
	return strings.Join(names, ", ")
}

// formatHistory renders prior records grouped by round. Returns an empty
// string when there is no history, so round 1's first agent gets no empty
// section. The trailing newlines keep the surrounding template well-formed.
func formatHistory(history []TurnRecord, previewLength int) string {
	if len(history) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(historyHeader)

	currentRound := 0
	for _, rec := range history {
		if rec.Round != currentRound {
			currentRound = rec.Round
			sb.WriteString(fmt.Sprintf("### Round %d\n\n", currentRound))
		}
		text := util.TruncateString(StripVoteMarkers(rec.Response), previewLength)
		sb.WriteString(fmt.Sprintf("**%s**:\n%s\n\n", rec.Agent, text))
	}

	return sb.String()
}
