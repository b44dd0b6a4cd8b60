package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/lumina.yaml
var defaultYAML []byte

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		DBPath:      "~/.lumina/progress.db",
		LogPath:     "~/.lumina/lumina.log",
		DevMode:     false,
		Language:    "",
		Theme:       "",
		ChapterSize: 10,
		Images: ImagesConfig{
			LocalDir:       "assets/images",
			RemoteTemplate: "https://picsum.photos/seed/{keyword}-v2/{size}/{size}",
			Timeout:        5 * time.Second,
		},
		Commentary: CommentaryConfig{
			Enabled: true,
			Model:   "gemini-2.5-flash",
			Timeout: 15 * time.Second,
		},
		SSH: SSHConfig{
			Address:     ":23235",
			HostKeyPath: ".ssh/lumina_ed25519",
			IdleTimeout: 10 * time.Minute,
			MaxTimeout:  2 * time.Hour,
		},
	}
}
