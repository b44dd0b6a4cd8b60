package progress

import (
	"fmt"

	"github.com/vovakirdan/lumina/internal/catalog"
)

// Preference keys, shared with the level records' backend.
const (
	KeyLanguage = "lumina_language"
	KeyTheme    = "lumina_theme"
)

// Theme is the colour scheme preference.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == ThemeLight {
		return ThemeDark
	}
	return ThemeLight
}

// Preferences holds the player's language and theme.
type Preferences struct {
	Language catalog.Language
	Theme    Theme
}

// DefaultPreferences are used when nothing is stored.
func DefaultPreferences() Preferences {
	return Preferences{Language: catalog.LangZH, Theme: ThemeDark}
}

// LoadPreferences reads preferences from b. Missing or unknown values keep
// their defaults; read errors are ignored the same way.
func LoadPreferences(b Backend) Preferences {
	p := DefaultPreferences()
	if b == nil {
		return p
	}

	if v, ok, err := b.Get(KeyLanguage); err == nil && ok {
		switch catalog.Language(v) {
		case catalog.LangEN, catalog.LangZH:
			p.Language = catalog.Language(v)
		}
	}
	if v, ok, err := b.Get(KeyTheme); err == nil && ok && Theme(v) == ThemeLight {
		p.Theme = ThemeLight
	}
	return p
}

// SavePreferences writes both preferences in one batch.
func SavePreferences(b Backend, p Preferences) error {
	if b == nil {
		return nil
	}
	err := b.PutBatch(map[string]string{
		KeyLanguage: string(p.Language),
		KeyTheme:    string(p.Theme),
	})
	if err != nil {
		return fmt.Errorf("progress: cannot save preferences: %w", err)
	}
	return nil
}
