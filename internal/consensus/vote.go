package consensus

import (
	"regexp"
	"strings"
)

// voteMarkerRegex matches the bracketed vote marker agents are instructed to
// place at the end of every reply. The YES/NO token is case-insensitive.
var voteMarkerRegex = regexp.MustCompile(`(?i)\[CONSENSUS:\s*(YES|NO)\]`)

// ExtractVote scans text for a vote marker and returns the vote it carries.
// The first marker in the text wins, even if the agent placed additional
// markers later. A reply with no marker at all counts as a no vote: malformed
// output must never accidentally count toward consensus.
func ExtractVote(text string) bool {
	m := voteMarkerRegex.FindStringSubmatch(text)
	if m == nil {
		return false
	}
	return strings.EqualFold(m[1], "YES")
}

// StripVoteMarkers removes all vote markers from text. Used when prior
// responses are replayed into history windows, so one agent's recorded vote
// cannot be misread as another agent's own marker.
func StripVoteMarkers(text string) string {
	return strings.TrimSpace(voteMarkerRegex.ReplaceAllString(text, ""))
}
