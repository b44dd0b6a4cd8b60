// Package config provides YAML-based configuration loading for lumina.
package config

import (
	"fmt"
	"time"

	"github.com/vovakirdan/lumina/internal/catalog"
)

// Config is the full application configuration.
type Config struct {
	DBPath      string           `yaml:"db_path"`
	LogPath     string           `yaml:"log_path"`
	DevMode     bool             `yaml:"dev_mode"`
	Language    string           `yaml:"language"`
	Theme       string           `yaml:"theme"`
	ChapterSize int              `yaml:"chapter_size"`
	Images      ImagesConfig     `yaml:"images"`
	Commentary  CommentaryConfig `yaml:"commentary"`
	SSH         SSHConfig        `yaml:"ssh"`
}

// ImagesConfig controls where level pictures are looked up.
type ImagesConfig struct {
	LocalDir       string        `yaml:"local_dir"`
	RemoteTemplate string        `yaml:"remote_template"`
	Timeout        time.Duration `yaml:"timeout"`
}

// CommentaryConfig controls the post-level commentary provider.
type CommentaryConfig struct {
	Enabled bool          `yaml:"enabled"`
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
}

// SSHConfig controls `lumina serve`.
type SSHConfig struct {
	Address     string        `yaml:"address"`
	HostKeyPath string        `yaml:"host_key_path"`
	IdleTimeout time.Duration `yaml:"idle_timeout"`
	MaxTimeout  time.Duration `yaml:"max_timeout"`
}

// Validate checks values that cannot be defaulted silently.
func (c Config) Validate() error {
	if c.ChapterSize < 0 {
		return fmt.Errorf("config: chapter_size must not be negative, got %d", c.ChapterSize)
	}
	switch c.Language {
	case "", string(catalog.LangEN), string(catalog.LangZH):
	default:
		return fmt.Errorf("config: unknown language %q", c.Language)
	}
	switch c.Theme {
	case "", "dark", "light":
	default:
		return fmt.Errorf("config: unknown theme %q", c.Theme)
	}
	if c.Images.Timeout < 0 || c.Commentary.Timeout < 0 || c.SSH.IdleTimeout < 0 || c.SSH.MaxTimeout < 0 {
		return fmt.Errorf("config: timeouts must not be negative")
	}
	return nil
}
