package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/lumina/internal/catalog"
)

var flagChapter int

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "List levels and progress",
	Long: `Shows the level catalog, one chapter at a time, with lock state,
best score and stars.

Examples:
  lumina levels
  lumina levels --chapter 3
  lumina levels --chapter 0   # every chapter`,
	Args: cobra.NoArgs,
	RunE: runLevels,
}

func init() {
	levelsCmd.Flags().IntVar(&flagChapter, "chapter", 0, "Chapter to list, starting at 1 (0 = all)")
}

func runLevels(_ *cobra.Command, _ []string) error {
	e, err := newEnv(false)
	if err != nil {
		return err
	}
	defer e.Close()

	cat := e.catalog
	lang := e.displayLanguage()

	chapters := make([]int, 0, cat.ChapterCount())
	switch {
	case flagChapter == 0:
		for ch := range cat.ChapterCount() {
			chapters = append(chapters, ch)
		}
	case flagChapter < 0 || flagChapter > cat.ChapterCount():
		return fmt.Errorf("chapter %d out of range (1-%d)", flagChapter, cat.ChapterCount())
	default:
		chapters = append(chapters, flagChapter-1)
	}

	for _, ch := range chapters {
		printChapter(e, ch, lang)
	}

	sum := e.progress.Summarize(cat.IDs())
	fmt.Printf("Solved %d of %d levels, %d unlocked, %d plays in total.\n",
		sum.Played, sum.Levels, sum.Unlocked, sum.TotalPlays)
	if e.cfg.DevMode {
		fmt.Println("Developer mode: every level is unlocked.")
	}
	return nil
}

func printChapter(e *env, ch int, lang catalog.Language) {
	levels, _ := e.catalog.Chapter(ch)

	fmt.Printf("Chapter %d - %s\n", ch+1, e.catalog.ChapterTitle(ch, lang))
	fmt.Println()

	// Print header
	fmt.Printf("  %-4s  %-5s  %-24s  %-8s  %-5s  %s\n", "ID", "Grid", "Name", "Best", "Stars", "Plays")
	fmt.Printf("  %-4s  %-5s  %-24s  %-8s  %-5s  %s\n", "--", "----", "----", "----", "-----", "-----")

	for _, lvl := range levels {
		st := e.progress.GetOrDefault(lvl.ID)
		best, stars := "-", "-"
		if !e.progress.IsUnlocked(lvl.ID) {
			best = "locked"
		} else if st.Plays > 0 {
			best = fmt.Sprint(st.Best)
			stars = starsText(st.Best, lvl.GridSize)
		}
		fmt.Printf("  %-4d  %-5s  %-24s  %-8s  %-5s  %d\n",
			lvl.ID, fmt.Sprintf("%dx%d", lvl.GridSize, lvl.GridSize), lvl.Name.In(lang), best, stars, st.Plays)
	}
	fmt.Println()
}
