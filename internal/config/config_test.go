package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestEmbeddedMatchesDefault(t *testing.T) {
	cfg, err := parse(defaultYAML)
	if err != nil {
		t.Fatalf("embedded defaults do not parse: %v", err)
	}
	if cfg != Default() {
		t.Errorf("embedded defaults drifted from Default():\n got %+v\nwant %+v", cfg, Default())
	}
}

func TestLoadFallsBackToEmbedded(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.ChapterSize != 10 || cfg.Commentary.Model != "gemini-2.5-flash" {
		t.Errorf("Load() = %+v", cfg)
	}
}

func TestLoadSearchOrder(t *testing.T) {
	home := t.TempDir()
	work := t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(work)

	os.MkdirAll(filepath.Join(work, "configs"), 0o755)
	os.WriteFile(filepath.Join(work, "configs", FileName), []byte("chapter_size: 5\n"), 0o600)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.ChapterSize != 5 {
		t.Errorf("local config not used, chapter_size = %d", cfg.ChapterSize)
	}

	os.MkdirAll(filepath.Join(home, ".lumina"), 0o755)
	os.WriteFile(filepath.Join(home, ".lumina", "config.yaml"), []byte("chapter_size: 7\n"), 0o600)

	cfg, _ = Load("")
	if cfg.ChapterSize != 7 {
		t.Errorf("user config should win over local, chapter_size = %d", cfg.ChapterSize)
	}

	// A broken user file is skipped
	os.WriteFile(filepath.Join(home, ".lumina", "config.yaml"), []byte("chapter_size: [\n"), 0o600)
	cfg, _ = Load("")
	if cfg.ChapterSize != 5 {
		t.Errorf("broken user config should be skipped, chapter_size = %d", cfg.ChapterSize)
	}
}

func TestLoadCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	data := `
dev_mode: true
language: en
images:
  remote_template: "-"
  timeout: 750ms
ssh:
  address: "127.0.0.1:2222"
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if !cfg.DevMode || cfg.Language != "en" {
		t.Errorf("top-level fields not applied: %+v", cfg)
	}
	if cfg.Images.RemoteTemplate != "-" || cfg.Images.Timeout != 750*time.Millisecond {
		t.Errorf("images = %+v", cfg.Images)
	}
	if cfg.Images.LocalDir != "assets/images" {
		t.Errorf("unset field lost its default: %q", cfg.Images.LocalDir)
	}
	if cfg.SSH.Address != "127.0.0.1:2222" || cfg.SSH.IdleTimeout != 10*time.Minute {
		t.Errorf("ssh = %+v", cfg.SSH)
	}
}

func TestLoadCustomPathErrors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"syntax", "language: [en\n", "failed to parse"},
		{"bad language", "language: fr\n", "unknown language"},
		{"bad theme", "theme: neon\n", "unknown theme"},
		{"negative chapter", "chapter_size: -1\n", "chapter_size"},
		{"negative timeout", "commentary:\n  timeout: -1s\n", "timeouts"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".yaml")
			os.WriteFile(path, []byte(tt.content), 0o600)

			_, err := Load(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("missing custom file should be an error")
	}
}
