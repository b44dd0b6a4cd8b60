package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/lumina/internal/catalog"
	"github.com/vovakirdan/lumina/internal/config"
	"github.com/vovakirdan/lumina/internal/progress"
	"github.com/vovakirdan/lumina/internal/storage"
)

// env is what every subcommand builds from config and flags.
type env struct {
	cfg      config.Config
	catalog  *catalog.Catalog
	db       *storage.Store // nil when the database could not be opened
	backend  progress.Backend
	progress *progress.Store
	logger   *log.Logger
	logFile  *os.File
}

// newEnv loads config, applies flag overrides and opens the progress
// store. An unavailable database degrades to in-memory progress with a
// warning. logToFile sends logs to cfg.LogPath so they stay off the TUI.
func newEnv(logToFile bool) (*env, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	if flagDBPath != "" {
		cfg.DBPath = flagDBPath
	}
	if flagDev {
		cfg.DevMode = true
	}
	if flagLang != "" {
		cfg.Language = flagLang
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &env{cfg: cfg}
	e.logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "lumina",
	})
	if logToFile {
		e.logger, e.logFile = fileLogger(cfg.LogPath)
	}

	e.catalog, err = catalog.Load(flagLevelsPath, cfg.ChapterSize)
	if err != nil {
		e.Close()
		return nil, err
	}

	e.db, err = storage.Open(cfg.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open progress database: %v\n", err)
		fmt.Fprintln(os.Stderr, "Progress will not be saved.")
		e.db = nil
		e.backend = progress.NewMemoryBackend()
	} else {
		e.backend = e.db
	}

	e.progress = progress.New(e.backend, e.catalog.First().ID,
		progress.WithDevMode(cfg.DevMode),
		progress.WithLogger(e.logger),
	)
	e.progress.Load(e.catalog.IDs())

	return e, nil
}

// fileLogger opens path for appending. Logs are discarded if it cannot be
// opened.
func fileLogger(path string) (*log.Logger, *os.File) {
	discard := log.New(io.Discard)

	path, err := storage.ExpandHome(path)
	if err != nil || path == "" {
		return discard, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return discard, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return discard, nil
	}

	return log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		Prefix:          "lumina",
		Level:           log.DebugLevel,
	}), f
}

// language returns the configured language, or "" to use the stored
// preference.
func (e *env) language() catalog.Language {
	if e.cfg.Language == "" {
		return ""
	}
	return catalog.ParseLanguage(e.cfg.Language)
}

// displayLanguage is the language for plain text output.
func (e *env) displayLanguage() catalog.Language {
	if lang := e.language(); lang != "" {
		return lang
	}
	return progress.LoadPreferences(e.backend).Language
}

// Close releases the database and log file.
func (e *env) Close() {
	if e.db != nil {
		if err := e.db.Close(); err != nil {
			e.logger.Warn("cannot close database", "error", err)
		}
	}
	if e.logFile != nil {
		e.logFile.Close()
	}
}
