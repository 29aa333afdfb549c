// Package consensus implements the turn-taking deliberation loop at the
// heart of quorum.
//
// A session runs a fixed roster of agents through numbered rounds. Within a
// round every agent takes exactly one turn, in roster order, operating on a
// shared working directory. Each turn produces a TurnRecord holding the
// agent's raw response and the vote extracted from it. The loop terminates
// when a round ends with every agent voting yes (status consensus), when the
// configured round limit is exhausted (status max_rounds), or when a failure
// outside the per-agent boundary occurs (status error).
//
// Agents never run concurrently. Each agent must see the shared directory
// and transcript exactly as the previous agent left them, so mutual
// exclusion is achieved by strict sequencing rather than locking.
package consensus
