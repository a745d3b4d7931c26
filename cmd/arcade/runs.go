package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tetris-arcade/internal/registry"
	"github.com/vovakirdan/tetris-arcade/internal/storage"
)

var (
	flagRunsSort  string
	flagRunsLimit int
	flagRunsSeed  int64
	flagRunsClear bool
)

var runsCmd = &cobra.Command{
	Use:   "runs <game>",
	Short: "Show recorded runs for a game",
	Long: `Display recorded runs and summary statistics for the specified game.

Examples:
  arcade runs tetris              # most recent runs
  arcade runs tetris --sort score # highest score first
  arcade runs tetris --by-seed 42 # every run of one seed
  arcade runs tetris --clear      # delete the game's history`,
	Args: cobra.ExactArgs(1),
	Run:  runRuns,
}

func init() {
	runsCmd.Flags().StringVar(&flagRunsSort, "sort", "recent", "Sort order: recent or score")
	runsCmd.Flags().IntVar(&flagRunsLimit, "limit", 10, "Number of runs to show")
	runsCmd.Flags().Int64Var(&flagRunsSeed, "by-seed", 0, "Show only runs played with this seed")
	runsCmd.Flags().BoolVar(&flagRunsClear, "clear", false, "Delete all recorded runs for the game")
}

func runRuns(cmd *cobra.Command, args []string) {
	gameID := args[0]

	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown game %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'arcade list' to see available games.")
		os.Exit(1)
	}

	game, err := registry.Create(gameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}
	title := game.Title()

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening runs database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagRunsClear {
		if err := store.ClearRuns(gameID); err != nil {
			fmt.Fprintf(os.Stderr, "Error clearing runs: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Cleared run history for %s.\n", title)
		return
	}

	var runs []storage.RunRecord
	heading := "Recent Runs"
	switch {
	case cmd.Flags().Changed("by-seed"):
		runs, err = store.RunsBySeed(gameID, flagRunsSeed)
		heading = fmt.Sprintf("Runs with seed %d", flagRunsSeed)
	case flagRunsSort == "score":
		runs, err = store.RunsByScore(gameID, flagRunsLimit)
		heading = "Runs by Score"
	case flagRunsSort == "recent":
		runs, err = store.RecentRuns(gameID, flagRunsLimit)
	default:
		err = fmt.Errorf("unknown sort order %q (want recent or score)", flagRunsSort)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving runs: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%s - %s\n", heading, title)
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Printf("Run 'arcade simulate %s' to record the first one!\n", gameID)
		return
	}

	fmt.Printf("  %-5s  %-8s  %-6s  %-5s  %-6s  %-20s  %-10s  %-9s  %s\n",
		"ID", "Score", "Lines", "Level", "Pieces", "Seed", "Ended", "Duration", "Date")
	fmt.Printf("  %-5s  %-8s  %-6s  %-5s  %-6s  %-20s  %-10s  %-9s  %s\n",
		"--", "-----", "-----", "-----", "------", "----", "-----", "--------", "----")
	for _, r := range runs {
		fmt.Printf("  %-5d  %-8d  %-6d  %-5d  %-6d  %-20d  %-10s  %-9s  %s\n",
			r.ID, r.Score, r.Lines, r.Level, r.Pieces, r.Seed, r.EndReason,
			r.Duration.Round(time.Millisecond), r.CreatedAt.Format("2006-01-02 15:04"))
	}

	sum, err := store.Summary(gameID)
	if err != nil {
		return
	}
	fmt.Println()
	fmt.Printf("Runs: %d   Best: %d   Avg: %.1f   Most lines: %d   Total lines: %d\n",
		sum.Runs, sum.BestScore, sum.AvgScore, sum.MostLines, sum.TotalLines)
}
