// lumina is a tile-swap picture puzzle for the terminal.
//
// Usage:
//
//	lumina play              - Play, starting from the level picker
//	lumina levels            - List levels with lock state and best score
//	lumina stats <level>     - Show statistics for one level
//	lumina history           - Show recent completions
//	lumina serve             - Start SSH server for remote play
//
// Global flags:
//
//	--config <path> - Config file (default: search ~/.lumina, ./configs)
//	--db <path>     - Progress database (default: ~/.lumina/progress.db)
//	--levels <path> - Custom levels YAML instead of the built-in catalog
//	--seed <value>  - Set RNG seed for reproducible shuffles
//	--dev           - Developer mode: every level is unlocked
//	--lang <en|zh>  - Interface language
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagConfig     string
	flagDBPath     string
	flagLevelsPath string
	flagSeed       int64
	flagDev        bool
	flagLang       string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "lumina",
	Short: "Lumina - restore scrambled pictures in your terminal",
	Long: `Lumina is a tile-swap picture puzzle. Each level scrambles a picture
into an n x n grid; swap two tiles at a time until it is whole again.
Solving a level unlocks the next one.

Available commands:
  play     - Start the game
  levels   - List levels and progress
  stats    - Statistics for one level
  history  - Recent completions
  serve    - Start SSH server for remote play

Examples:
  lumina play
  lumina play --level 3
  lumina levels --chapter 2
  lumina stats 1
  lumina serve --ssh :2222`,
	SilenceUsage: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to progress database (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagLevelsPath, "levels", "", "Path to a custom levels YAML")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().BoolVar(&flagDev, "dev", false, "Developer mode: unlock every level")
	rootCmd.PersistentFlags().StringVar(&flagLang, "lang", "", "Interface language: en or zh")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(serveCmd)
}
