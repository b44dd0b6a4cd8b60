package tui

import (
	"hash/fnv"

	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/vovakirdan/lumina/internal/progress"
)

// Theme contains the visual styles for every screen.
type Theme struct {
	Title       lipgloss.Style
	Subtitle    lipgloss.Style
	Chapter     lipgloss.Style
	ItemNormal  lipgloss.Style
	ItemActive  lipgloss.Style
	ItemLocked  lipgloss.Style
	Stars       lipgloss.Style
	HUDLabel    lipgloss.Style
	HUDValue    lipgloss.Style
	Muted       lipgloss.Style
	Warning     lipgloss.Style
	Frame       lipgloss.Style
	Overlay     lipgloss.Style
	OverlayHead lipgloss.Style
	Commentary  lipgloss.Style
	Help        lipgloss.Style

	// Tile glyph colours, drawn over the picture
	TileMark     lipgloss.Color
	TileSelected lipgloss.Color
}

// DarkTheme returns the default dark theme.
func DarkTheme() Theme {
	return Theme{
		Title:       lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Bold(true),
		Subtitle:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true),
		Chapter:     lipgloss.NewStyle().Foreground(lipgloss.Color("51")).Bold(true),
		ItemNormal:  lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		ItemActive:  lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		ItemLocked:  lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Stars:       lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		HUDLabel:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		HUDValue:    lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true),
		Muted:       lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Warning:     lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		Frame:       lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")),
		Overlay:     lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(lipgloss.Color("220")).Padding(1, 3),
		OverlayHead: lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		Commentary:  lipgloss.NewStyle().Foreground(lipgloss.Color("189")).Italic(true),
		Help:        lipgloss.NewStyle().Foreground(lipgloss.Color("241")),

		TileMark:     lipgloss.Color("255"),
		TileSelected: lipgloss.Color("226"),
	}
}

// LightTheme returns a theme for light terminal backgrounds.
func LightTheme() Theme {
	theme := DarkTheme()
	theme.Title = lipgloss.NewStyle().Foreground(lipgloss.Color("130")).Bold(true)
	theme.Subtitle = lipgloss.NewStyle().Foreground(lipgloss.Color("243")).Italic(true)
	theme.Chapter = lipgloss.NewStyle().Foreground(lipgloss.Color("25")).Bold(true)
	theme.ItemNormal = lipgloss.NewStyle().Foreground(lipgloss.Color("235"))
	theme.ItemActive = lipgloss.NewStyle().Foreground(lipgloss.Color("160")).Bold(true)
	theme.ItemLocked = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	theme.Stars = lipgloss.NewStyle().Foreground(lipgloss.Color("136"))
	theme.HUDValue = lipgloss.NewStyle().Foreground(lipgloss.Color("232")).Bold(true)
	theme.Commentary = lipgloss.NewStyle().Foreground(lipgloss.Color("60")).Italic(true)
	theme.Overlay = theme.Overlay.BorderForeground(lipgloss.Color("136"))
	theme.OverlayHead = lipgloss.NewStyle().Foreground(lipgloss.Color("130")).Bold(true)
	theme.TileMark = lipgloss.Color("232")
	theme.TileSelected = lipgloss.Color("160")
	return theme
}

// ThemeFor returns the theme matching a stored preference.
func ThemeFor(t progress.Theme) Theme {
	if t == progress.ThemeLight {
		return LightTheme()
	}
	return DarkTheme()
}

// Picture is a procedurally coloured stand-in for a level's photo. Each
// level's keyword picks a palette; every cell of the solved board gets its
// own shade, so tiles can be told apart by colour alone.
type Picture struct {
	gridSize int
	hue      float64
	spread   float64
}

// NewPicture derives the picture for keyword on an n x n board.
func NewPicture(keyword string, gridSize int) Picture {
	h := fnv.New32a()
	h.Write([]byte(keyword))
	sum := h.Sum32()
	return Picture{
		gridSize: gridSize,
		hue:      float64(sum % 360),
		spread:   60 + float64((sum>>9)%120),
	}
}

// Color returns the colour of the fragment whose home is cell.
func (p Picture) Color(cell int) lipgloss.Color {
	n := p.gridSize
	if n <= 1 {
		return lipgloss.Color(colorful.Hsl(p.hue, 0.6, 0.5).Hex())
	}
	row, col := cell/n, cell%n
	fx := float64(col) / float64(n-1)
	fy := float64(row) / float64(n-1)

	hue := p.hue + fx*p.spread
	for hue >= 360 {
		hue -= 360
	}
	sat := 0.45 + 0.35*(1-fy)
	light := 0.28 + 0.45*fy
	return lipgloss.Color(colorful.Hsl(hue, sat, light).Hex())
}
