package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/quorum-cli/quorum/internal/config"
	"github.com/quorum-cli/quorum/internal/consensus"
	"github.com/quorum-cli/quorum/internal/util"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List stored sessions",
	Args:  cobra.NoArgs,
	RunE:  runSessions,
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
}

func runSessions(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to determine working directory: %w", err)
	}

	sessions, err := consensus.ListSessions(cfg.ResolveWorkDir(cwd))
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		fmt.Println("no sessions found")
		return nil
	}

	for _, s := range sessions {
		fmt.Printf("%s  %-10s  round %d/%d  %s  %s\n",
			s.ID,
			s.Status,
			s.FinalRound,
			s.Config.MaxRounds,
			s.StartedAt.Format(time.RFC3339),
			util.TruncateString(s.Task, 60))
	}
	return nil
}
