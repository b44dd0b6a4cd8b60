package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/lumina/internal/scoring"
)

var statsCmd = &cobra.Command{
	Use:   "stats <level>",
	Short: "Show statistics for a level",
	Long: `Display the stored statistics for one level and its best
completions.

Examples:
  lumina stats 1
  lumina stats 42 --db ./progress.db`,
	Args: cobra.ExactArgs(1),
	RunE: runStats,
}

func runStats(_ *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid level id %q", args[0])
	}

	e, err := newEnv(false)
	if err != nil {
		return err
	}
	defer e.Close()

	lvl, ok := e.catalog.ByID(id)
	if !ok {
		return fmt.Errorf("unknown level %d, run 'lumina levels' to list them", id)
	}
	lang := e.displayLanguage()
	st := e.progress.GetOrDefault(id)
	base := scoring.Base(lvl.GridSize)

	fmt.Printf("Level %d - %s (%dx%d)\n", lvl.ID, lvl.Name.In(lang), lvl.GridSize, lvl.GridSize)
	if desc := lvl.Description.In(lang); desc != "" {
		fmt.Println(desc)
	}
	fmt.Println()

	state := "locked"
	if e.progress.IsUnlocked(id) {
		state = "unlocked"
	}
	fmt.Printf("  %-10s %s\n", "State", state)
	fmt.Printf("  %-10s %d\n", "Plays", st.Plays)
	fmt.Printf("  %-10s %d / %d\n", "Best", st.Best, base)
	fmt.Printf("  %-10s %d\n", "Average", st.Avg)
	fmt.Printf("  %-10s %s\n", "Stars", starsText(st.Best, lvl.GridSize))

	if e.db == nil {
		return nil
	}
	top, err := e.db.TopCompletions(id, 5)
	if err != nil {
		return fmt.Errorf("error retrieving completions: %w", err)
	}
	if len(top) == 0 {
		return nil
	}

	fmt.Println()
	fmt.Printf("  %-4s  %-8s  %-6s  %-6s  %s\n", "Rank", "Score", "Moves", "Time", "Date")
	fmt.Printf("  %-4s  %-8s  %-6s  %-6s  %s\n", "----", "-----", "-----", "----", "----")
	for i, c := range top {
		fmt.Printf("  %-4d  %-8d  %-6d  %-6s  %s\n",
			i+1, c.Score, c.Moves, clock(c.Seconds), c.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

// starsText rates a best score; zero means never played.
func starsText(best, gridSize int) string {
	if best <= 0 {
		return "-"
	}
	n := scoring.Stars(best, scoring.Base(gridSize))
	return strings.Repeat("*", n) + strings.Repeat(".", 3-n)
}

func clock(seconds int) string {
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
