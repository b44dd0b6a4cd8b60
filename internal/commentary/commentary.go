// Package commentary produces the short line of praise shown after a level
// is solved. Providers may call out to a language model; WithFallback makes
// any provider safe to use by substituting a fixed localized line.
package commentary

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/lumina/internal/catalog"
)

// ErrUnavailable is returned by providers that are not configured.
var ErrUnavailable = errors.New("commentary: provider not configured")

// Request describes the solved level.
type Request struct {
	LevelName    string
	ImageKeyword string
	Language     catalog.Language
}

// Provider returns one short line of commentary for a solved level.
type Provider interface {
	Comment(ctx context.Context, req Request) (string, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context, req Request) (string, error)

// Comment implements Provider.
func (f ProviderFunc) Comment(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

var (
	unconfiguredText = catalog.Localized{
		EN: "A beautiful image restored to its original glory. Well done!",
		ZH: "画面已修复，光影重现。",
	}
	failedText = catalog.Localized{
		EN: "Chaos has been ordered. The picture is now whole.",
		ZH: "混沌归于秩序，画面终成一体。",
	}
)

// UnconfiguredText is shown when no provider is available.
func UnconfiguredText(lang catalog.Language) string {
	return unconfiguredText.In(lang)
}

// FailedText is shown when the provider fails.
func FailedText(lang catalog.Language) string {
	return failedText.In(lang)
}

type fallback struct {
	inner  Provider
	logger *log.Logger
}

// WithFallback wraps p so that Comment never fails. A nil p, or one that
// reports ErrUnavailable, yields UnconfiguredText; any other error or an
// empty reply yields FailedText.
func WithFallback(p Provider, logger *log.Logger) Provider {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &fallback{inner: p, logger: logger}
}

func (f *fallback) Comment(ctx context.Context, req Request) (string, error) {
	if f.inner == nil {
		return UnconfiguredText(req.Language), nil
	}

	text, err := f.inner.Comment(ctx, req)
	switch {
	case errors.Is(err, ErrUnavailable):
		return UnconfiguredText(req.Language), nil
	case err != nil:
		f.logger.Warn("commentary failed", "level", req.LevelName, "error", err)
		return FailedText(req.Language), nil
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return FailedText(req.Language), nil
	}
	return text, nil
}
