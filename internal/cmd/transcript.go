package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/quorum-cli/quorum/internal/config"
	"github.com/quorum-cli/quorum/internal/consensus"
	"github.com/quorum-cli/quorum/internal/report"
)

var transcriptSession string

var transcriptCmd = &cobra.Command{
	Use:   "transcript",
	Short: "Print a session's full transcript",
	Long: `Transcript prints the complete chronological record of a stored session
as Markdown: every agent's turn, grouped by round, with votes. With no
flags it shows the most recent session.`,
	Args: cobra.NoArgs,
	RunE: runTranscript,
}

func init() {
	transcriptCmd.Flags().StringVar(&transcriptSession, "session", "", "session ID (default: most recent)")
	rootCmd.AddCommand(transcriptCmd)
}

func runTranscript(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to determine working directory: %w", err)
	}
	workDir := cfg.ResolveWorkDir(cwd)

	var session *consensus.Session
	if transcriptSession != "" {
		session, err = consensus.LoadSession(workDir, transcriptSession)
	} else {
		session, err = consensus.LatestSession(workDir)
	}
	if err != nil {
		return err
	}

	fmt.Print(report.Transcript(session))
	return nil
}
