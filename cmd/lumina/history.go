package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var flagLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent completions",
	Long: `Display the most recently solved levels, newest first.
A * after the score marks a new best at the time.

Examples:
  lumina history
  lumina history --limit 50`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&flagLimit, "limit", 20, "Number of completions to show")
}

func runHistory(_ *cobra.Command, _ []string) error {
	e, err := newEnv(false)
	if err != nil {
		return err
	}
	defer e.Close()

	if e.db == nil {
		return errors.New("history needs the progress database")
	}

	entries, err := e.db.RecentCompletions(flagLimit)
	if err != nil {
		return fmt.Errorf("error retrieving history: %w", err)
	}

	if len(entries) == 0 {
		fmt.Println("No completions recorded yet.")
		fmt.Println()
		fmt.Println("Play 'lumina play' to solve your first picture!")
		return nil
	}

	lang := e.displayLanguage()

	// Print header
	fmt.Printf("  %-16s  %-4s  %-20s  %-8s  %-5s  %-6s  %s\n", "Date", "ID", "Level", "Score", "Stars", "Moves", "Time")
	fmt.Printf("  %-16s  %-4s  %-20s  %-8s  %-5s  %-6s  %s\n", "----", "--", "-----", "-----", "-----", "-----", "----")

	for _, c := range entries {
		name := "?"
		if lvl, ok := e.catalog.ByID(c.LevelID); ok {
			name = lvl.Name.In(lang)
		}
		score := fmt.Sprint(c.Score)
		if c.NewBest {
			score += "*"
		}
		fmt.Printf("  %-16s  %-4d  %-20s  %-8s  %-5d  %-6d  %s\n",
			c.CreatedAt.Local().Format("2006-01-02 15:04"), c.LevelID, name, score, c.Stars, c.Moves, clock(c.Seconds))
	}
	return nil
}
