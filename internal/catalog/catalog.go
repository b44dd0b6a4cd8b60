// Package catalog holds the ordered, read-only list of puzzle levels.
// The built-in catalog is embedded as YAML and parsed once at startup.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

//go:embed levels.yaml
var builtinYAML []byte

// DefaultChapterSize is the number of consecutive levels grouped into a chapter.
const DefaultChapterSize = 10

// Language selects which half of a Localized string is shown.
type Language string

const (
	LangEN Language = "en"
	LangZH Language = "zh"
)

// ParseLanguage maps a user-supplied string to a Language.
// Unknown values fall back to Chinese, the app's default.
func ParseLanguage(s string) Language {
	if s == string(LangEN) {
		return LangEN
	}
	return LangZH
}

// Localized is a display string in every supported language.
type Localized struct {
	EN string `yaml:"en"`
	ZH string `yaml:"zh"`
}

// In returns the string for lang, falling back to English when missing.
func (l Localized) In(lang Language) string {
	if lang == LangZH && l.ZH != "" {
		return l.ZH
	}
	return l.EN
}

// Level is an immutable level definition.
type Level struct {
	ID           int
	GridSize     int
	Name         Localized
	Description  Localized
	ImageKeyword string
}

// TileCount returns the number of tiles on the level's board.
func (l Level) TileCount() int {
	return l.GridSize * l.GridSize
}

// Catalog is an ordered list of levels. Index order is progression order.
type Catalog struct {
	levels      []Level
	byID        map[int]int
	chapterSize int
}

// yamlFile mirrors levels.yaml.
type yamlFile struct {
	Levels   []yamlLevel   `yaml:"levels"`
	Chapters []yamlChapter `yaml:"chapters"`
}

type yamlLevel struct {
	ID          int       `yaml:"id"`
	Grid        int       `yaml:"grid"`
	Name        Localized `yaml:"name"`
	Description Localized `yaml:"description"`
	Keyword     string    `yaml:"keyword"`
}

type yamlChapter struct {
	Grid        int       `yaml:"grid"`
	Description Localized `yaml:"description"`
	Levels      []struct {
		Keyword string    `yaml:"keyword"`
		Name    Localized `yaml:"name"`
	} `yaml:"levels"`
}

// Builtin returns the embedded catalog.
func Builtin() (*Catalog, error) {
	return Parse(builtinYAML, DefaultChapterSize)
}

// Load reads a catalog from a YAML file, or the embedded one when path is
// empty.
func Load(path string, chapterSize int) (*Catalog, error) {
	if path == "" {
		return Parse(builtinYAML, chapterSize)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: cannot read %s: %w", path, err)
	}
	return Parse(data, chapterSize)
}

// MustBuiltin is like Builtin but panics on error. The embedded data is
// covered by tests, so a failure here is a build defect.
func MustBuiltin() *Catalog {
	c, err := Builtin()
	if err != nil {
		panic(err)
	}
	return c
}

// Parse decodes a catalog from YAML. Explicit levels come first; chapter
// levels get sequential IDs continuing after the highest explicit ID.
func Parse(data []byte, chapterSize int) (*Catalog, error) {
	var f yamlFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("catalog: yaml unmarshal: %w", err)
	}

	levels := make([]Level, 0, len(f.Levels))
	nextID := 1
	for _, yl := range f.Levels {
		levels = append(levels, Level{
			ID:           yl.ID,
			GridSize:     yl.Grid,
			Name:         yl.Name,
			Description:  yl.Description,
			ImageKeyword: yl.Keyword,
		})
		if yl.ID >= nextID {
			nextID = yl.ID + 1
		}
	}

	for _, ch := range f.Chapters {
		for _, cl := range ch.Levels {
			levels = append(levels, Level{
				ID:           nextID,
				GridSize:     ch.Grid,
				Name:         cl.Name,
				Description:  ch.Description,
				ImageKeyword: cl.Keyword,
			})
			nextID++
		}
	}

	return New(levels, chapterSize)
}

// New validates levels and builds a catalog from them.
func New(levels []Level, chapterSize int) (*Catalog, error) {
	if len(levels) == 0 {
		return nil, fmt.Errorf("catalog: no levels")
	}
	if chapterSize <= 0 {
		chapterSize = DefaultChapterSize
	}

	c := &Catalog{
		levels:      make([]Level, len(levels)),
		byID:        make(map[int]int, len(levels)),
		chapterSize: chapterSize,
	}
	copy(c.levels, levels)

	for i, lvl := range c.levels {
		if lvl.ID < 1 {
			return nil, fmt.Errorf("catalog: level at index %d has invalid id %d", i, lvl.ID)
		}
		if lvl.GridSize < 2 {
			return nil, fmt.Errorf("catalog: level %d has invalid grid size %d", lvl.ID, lvl.GridSize)
		}
		if _, dup := c.byID[lvl.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate level id %d", lvl.ID)
		}
		c.byID[lvl.ID] = i
	}

	return c, nil
}

// Len returns the number of levels.
func (c *Catalog) Len() int {
	return len(c.levels)
}

// At returns the level at index (0-based).
func (c *Catalog) At(index int) (Level, bool) {
	if index < 0 || index >= len(c.levels) {
		return Level{}, false
	}
	return c.levels[index], true
}

// ByID returns the level with the given id.
func (c *Catalog) ByID(id int) (Level, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Level{}, false
	}
	return c.levels[i], true
}

// IndexOf returns the catalog index of a level id, or -1.
func (c *Catalog) IndexOf(id int) int {
	i, ok := c.byID[id]
	if !ok {
		return -1
	}
	return i
}

// First returns the first level in progression order.
func (c *Catalog) First() Level {
	return c.levels[0]
}

// Next returns the level after index, if any.
func (c *Catalog) Next(index int) (Level, bool) {
	return c.At(index + 1)
}

// IDs returns all level ids in order.
func (c *Catalog) IDs() []int {
	ids := make([]int, len(c.levels))
	for i, lvl := range c.levels {
		ids[i] = lvl.ID
	}
	return ids
}

// Levels returns a copy of all levels.
func (c *Catalog) Levels() []Level {
	out := make([]Level, len(c.levels))
	copy(out, c.levels)
	return out
}

// ChapterSize returns the number of levels per chapter.
func (c *Catalog) ChapterSize() int {
	return c.chapterSize
}

// ChapterCount returns the number of chapters.
func (c *Catalog) ChapterCount() int {
	return (len(c.levels) + c.chapterSize - 1) / c.chapterSize
}

// ChapterOf returns the chapter index containing the level index.
func (c *Catalog) ChapterOf(index int) int {
	if index < 0 {
		return 0
	}
	return index / c.chapterSize
}

// Chapter returns the levels of chapter ch and the catalog index of its
// first level. Out of range chapters return nil.
func (c *Catalog) Chapter(ch int) ([]Level, int) {
	start := ch * c.chapterSize
	if ch < 0 || start >= len(c.levels) {
		return nil, 0
	}
	end := min(start+c.chapterSize, len(c.levels))
	out := make([]Level, end-start)
	copy(out, c.levels[start:end])
	return out, start
}

var romanSuffix = regexp.MustCompile(`\s+[IVX]+$`)

// ChapterTitle derives a chapter title from its first level's name,
// dropping a trailing roman numeral ("Serenity II" -> "Serenity").
func (c *Catalog) ChapterTitle(ch int, lang Language) string {
	levels, _ := c.Chapter(ch)
	if len(levels) == 0 {
		return ""
	}
	return romanSuffix.ReplaceAllString(levels[0].Name.In(lang), "")
}
