package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/quorum-cli/quorum/internal/backend"
	"github.com/quorum-cli/quorum/internal/config"
	"github.com/quorum-cli/quorum/internal/consensus"
	"github.com/quorum-cli/quorum/internal/logging"
	"github.com/quorum-cli/quorum/internal/report"
)

var (
	runRounds  int
	runTimeout int
	runWorkDir string
	runNoSave  bool
)

var runCmd = &cobra.Command{
	Use:   "run \"task description\"",
	Short: "Run a consensus session for a task",
	Long: `Run starts a consensus session: every configured agent takes a turn per
round, working in the shared directory and voting on whether the task is
complete. The session ends when a round is unanimous, the round limit is
reached, or an unrecoverable error occurs.

The session record and a Markdown transcript are written under
.quorum/sessions/<id>/ in the working directory.`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().IntVar(&runRounds, "rounds", 0, "override the maximum number of rounds")
	runCmd.Flags().IntVar(&runTimeout, "timeout", 0, "override the per-agent timeout in minutes")
	runCmd.Flags().StringVar(&runWorkDir, "workdir", "", "shared working directory (default: workdir from config, or current directory)")
	runCmd.Flags().BoolVar(&runNoSave, "no-save", false, "do not persist the session record or transcript")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if runRounds > 0 {
		cfg.Rounds.Max = runRounds
	}
	if runTimeout > 0 {
		cfg.Invoke.TimeoutMinutes = runTimeout
	}
	if runWorkDir != "" {
		cfg.WorkDir = runWorkDir
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to determine working directory: %w", err)
	}
	workDir := cfg.ResolveWorkDir(cwd)
	if info, err := os.Stat(workDir); err != nil || !info.IsDir() {
		return fmt.Errorf("working directory %s does not exist", workDir)
	}

	logger := logging.NopLogger()
	if cfg.Logging.Enabled {
		logger, err = logging.NewLogger(filepath.Join(workDir, ".quorum"), cfg.Logging.Level)
		if err != nil {
			return fmt.Errorf("failed to initialize logging: %w", err)
		}
		defer logger.Close()
	}

	invoker := backend.NewCLIInvoker(backend.NewRegistry(cfg.Backends), backend.EnvCredentials{}, logger)
	loop := consensus.NewLoop(consensus.Config{
		Agents:        toRoster(cfg.Agents),
		MaxRounds:     cfg.Rounds.Max,
		MinTaskLength: cfg.Task.MinLength,
		PreviewLength: cfg.Invoke.PreviewLength,
		Timeout:       cfg.Invoke.Timeout(),
		WorkDir:       workDir,
	}, invoker, logger)

	// Interrupts stop the loop between turns; the current agent's call
	// always runs to completion first.
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	session, runErr := loop.Run(ctx, args[0])
	if session == nil {
		return runErr
	}

	if !runNoSave {
		if err := consensus.SaveSession(workDir, session); err != nil {
			logger.Error("failed to save session", "error", err.Error())
			fmt.Fprintf(os.Stderr, "warning: failed to save session: %v\n", err)
		}
		if path, err := report.WriteTranscript(workDir, session); err != nil {
			logger.Error("failed to write transcript", "error", err.Error())
			fmt.Fprintf(os.Stderr, "warning: failed to write transcript: %v\n", err)
		} else {
			fmt.Printf("transcript: %s\n\n", path)
		}
	}

	fmt.Println(report.Summary(session))
	return runErr
}

// toRoster converts configured agents into the loop's roster type.
func toRoster(agents []config.AgentConfig) []consensus.Agent {
	roster := make([]consensus.Agent, len(agents))
	for i, a := range agents {
		roster[i] = consensus.Agent{
			Name:     a.Name,
			Glyph:    a.Glyph,
			Persona:  a.Persona,
			Model:    a.Model,
			Endpoint: a.Endpoint,
		}
	}
	return roster
}
