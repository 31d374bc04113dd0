package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-runner/internal/games/runner"
	"github.com/vovakirdan/tui-runner/internal/platform/tui"
	"github.com/vovakirdan/tui-runner/internal/registry"
	"github.com/vovakirdan/tui-runner/internal/storage"
)

var (
	flagPlain bool
	flagLimit int
	flagClear bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [game]",
	Short: "Show the longest runs",
	Long: `Display the longest recorded runs. Without --plain an interactive
scoreboard opens; Tab cycles between games.

Examples:
  runner scores
  runner scores runner --plain --limit 20
  runner scores runner --clear`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagPlain, "plain", false, "Print a plain text table")
	scoresCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of runs to show with --plain")
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete all recorded runs of the game")
}

func runScores(cmd *cobra.Command, args []string) error {
	gameID := runner.ID
	if len(args) > 0 {
		gameID = args[0]
	}
	if !registry.Exists(gameID) {
		return fmt.Errorf("unknown game %q, run 'runner list' to see available games", gameID)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("error opening runs database: %w", err)
	}
	defer store.Close()

	switch {
	case flagClear:
		if err := store.ClearRuns(gameID); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Cleared runs for %s.\n", gameID)
		return nil
	case flagPlain:
		return printScores(cmd, store, gameID)
	}

	cfg := terminalConfig()
	_, err = tui.RunScoreboard(store, cfg.ScreenW, cfg.ScreenH)
	return err
}

func printScores(cmd *cobra.Command, store *storage.Store, gameID string) error {
	out := cmd.OutOrStdout()

	runs, err := store.TopRuns(gameID, flagLimit)
	if err != nil {
		return fmt.Errorf("error retrieving runs: %w", err)
	}

	fmt.Fprintf(out, "Longest runs - %s\n\n", gameID)
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded yet.")
		fmt.Fprintln(out)
		fmt.Fprintf(out, "Play 'runner play %s' to set the first record!\n", gameID)
		return nil
	}

	fmt.Fprintf(out, "  %-4s  %-10s  %-6s  %-6s  %-6s  %s\n", "Rank", "Distance", "Jumps", "Chunks", "Source", "Date")
	fmt.Fprintf(out, "  %-4s  %-10s  %-6s  %-6s  %-6s  %s\n", "----", "--------", "-----", "------", "------", "----")
	for i, r := range runs {
		fmt.Fprintf(out, "  %-4d  %-10s  %-6d  %-6d  %-6s  %s\n",
			i+1, fmt.Sprintf("%d m", r.Meters()), r.Jumps, r.Spawned, r.Source,
			r.CreatedAt.Format("2006-01-02 15:04"))
	}

	if stats, err := store.Stats(gameID); err == nil {
		fmt.Fprintln(out)
		fmt.Fprintf(out, "Runs: %d   Best: %.1f m   Average: %.1f m   Jumps: %d\n",
			stats.Runs, stats.BestDistance, stats.AvgDistance, stats.TotalJumps)
	}
	return nil
}
