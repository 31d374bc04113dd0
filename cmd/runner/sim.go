package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-runner/internal/config"
	"github.com/vovakirdan/tui-runner/internal/games/runner"
	"github.com/vovakirdan/tui-runner/internal/runner/sim"
	"github.com/vovakirdan/tui-runner/internal/storage"
)

var (
	flagTicks  uint64
	flagScript string
	flagNoSave bool
)

var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "Run a level headless",
	Long: `Run a level without a terminal UI and print a summary.

The script is a comma-separated list of COMMAND@TICK entries, where
COMMAND is L (lane left), R (lane right) or J (jump). Commands are
queued before the given tick is simulated.

Examples:
  runner sim
  runner sim --ticks 1200 --script R@10,J@60,L@120
  runner sim --config ./runner.yaml --log-level debug --no-save`,
	Args: cobra.NoArgs,
	RunE: runSim,
}

func init() {
	simCmd.Flags().Uint64Var(&flagTicks, "ticks", 600, "Number of fixed ticks to simulate")
	simCmd.Flags().StringVar(&flagScript, "script", "", "Command script, e.g. R@10,J@60,L@120")
	simCmd.Flags().BoolVar(&flagNoSave, "no-save", false, "Do not record the run")
}

func runSim(cmd *cobra.Command, _ []string) error {
	logger, closeLog, err := newLogger(false)
	if err != nil {
		return err
	}
	defer closeLog()

	script, err := sim.ParseScript(flagScript)
	if err != nil {
		return err
	}

	cfg, err := config.LoadRunner(flagConfig)
	if err != nil {
		return err
	}

	s, err := sim.New(cfg, logger)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	runErr := s.Run(ctx, flagTicks, script)
	interrupted := errors.Is(runErr, context.Canceled)
	if runErr != nil && !interrupted {
		return runErr
	}

	snap := s.Snapshot()
	printSummary(cmd.OutOrStdout(), snap, script, interrupted)

	if flagNoSave || snap.Distance <= 0 {
		return nil
	}
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open runs database", "path", flagDBPath, "err", err)
		return nil
	}
	defer store.Close()

	id, err := store.SaveRun(storage.Run{
		GameID:   runner.ID,
		Source:   "sim",
		Distance: snap.Distance,
		Ticks:    snap.Tick,
		Jumps:    snap.Jumps,
		Spawned:  snap.Spawned,
		Retired:  snap.Retired,
		Script:   script.String(),
	})
	if err != nil {
		logger.Warn("run not saved", "err", err)
		return nil
	}
	logger.Info("run saved", "id", id, "distance", snap.Distance)
	return nil
}

var (
	summaryTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	summaryKeyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Width(12)
	summaryBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

func printSummary(w io.Writer, snap sim.Snapshot, script sim.Script, interrupted bool) {
	title := "Run complete"
	if interrupted {
		title = "Run interrupted"
	}

	grounded := "no"
	if snap.Grounded {
		grounded = "yes"
	}
	rows := [][2]string{
		{"ticks", fmt.Sprintf("%d", snap.Tick)},
		{"distance", fmt.Sprintf("%.2f m", snap.Distance)},
		{"lane", fmt.Sprintf("%+d (x %.2f, target %.2f)", snap.Lane, snap.PlayerPos.X(), snap.TargetX)},
		{"height", fmt.Sprintf("%.2f", snap.PlayerPos.Y())},
		{"grounded", grounded},
		{"jumps", fmt.Sprintf("%d", snap.Jumps)},
		{"chunks", fmt.Sprintf("%d active, %d spawned, %d retired", len(snap.Chunks), snap.Spawned, snap.Retired)},
		{"next spawn", fmt.Sprintf("%.1f", snap.NextSpawnZ)},
	}
	if len(script) > 0 {
		rows = append(rows, [2]string{"script", script.String()})
	}

	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, summaryTitleStyle.Render(title))
	for _, r := range rows {
		lines = append(lines, summaryKeyStyle.Render(r[0])+r[1])
	}
	fmt.Fprintln(w, summaryBoxStyle.Render(strings.Join(lines, "\n")))
}
