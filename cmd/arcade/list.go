package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tetris-arcade/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available games",
	Long:  `Shows a list of all games registered in the arcade.`,
	Run:   runList,
}

func runList(cmd *cobra.Command, args []string) {
	games := registry.List()

	if len(games) == 0 {
		fmt.Println("No games available.")
		return
	}

	fmt.Println("Available games:")
	fmt.Println()

	maxIDLen := 2 // "ID" header
	for _, g := range games {
		if len(g.ID) > maxIDLen {
			maxIDLen = len(g.ID)
		}
	}

	fmt.Printf("  %-*s  %-8s  %-12s  %s\n", maxIDLen, "ID", "Snapshot", "Config file", "Title")
	fmt.Printf("  %-*s  %-8s  %-12s  %s\n", maxIDLen, "--", "--------", "-----------", "-----")

	for _, g := range games {
		fmt.Printf("  %-*s  %-8s  %-12s  %s\n", maxIDLen, g.ID, yesNo(g.Streamable), yesNo(g.Configurable), g.Title)
	}

	fmt.Println()
	fmt.Println("Run 'arcade simulate <id>' to watch a bot play a game.")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
