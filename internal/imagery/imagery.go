// Package imagery locates the picture for a level: a local asset if one is
// installed, otherwise a deterministic network URL derived from the level's
// keyword.
package imagery

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/lumina/internal/catalog"
)

// Defaults for Options.
const (
	DefaultLocalDir       = "assets/images"
	DefaultRemoteTemplate = "https://picsum.photos/seed/{keyword}-v2/{size}/{size}"
	DefaultSize           = 800
	DefaultTimeout        = 5 * time.Second
)

// Source says where a resolved image came from.
type Source int

const (
	SourceNone Source = iota
	SourceLocal
	SourceRemote
)

// String returns a human-readable name for the source.
func (s Source) String() string {
	switch s {
	case SourceLocal:
		return "local"
	case SourceRemote:
		return "remote"
	default:
		return "none"
	}
}

// Resolution is either Resolved with a URI, or Exhausted when every step
// failed.
type Resolution struct {
	URI    string
	Source Source
}

// Resolved reports whether an image was found.
func (r Resolution) Resolved() bool {
	return r.Source != SourceNone
}

// Exhausted is the resolution returned when no step succeeds.
var Exhausted = Resolution{}

// Options configures a Resolver.
type Options struct {
	LocalDir       string
	RemoteTemplate string
	Size           int
	Timeout        time.Duration
	Client         *http.Client
	Logger         *log.Logger
}

// Resolver runs the local-then-remote lookup.
type Resolver struct {
	localDir string
	template string
	size     int
	client   *http.Client
	logger   *log.Logger
}

// New creates a resolver. Zero fields in opts take their defaults; a
// RemoteTemplate of "-" disables the network step.
func New(opts Options) *Resolver {
	r := &Resolver{
		localDir: opts.LocalDir,
		template: opts.RemoteTemplate,
		size:     opts.Size,
		client:   opts.Client,
		logger:   opts.Logger,
	}
	if r.localDir == "" {
		r.localDir = DefaultLocalDir
	}
	if r.template == "" {
		r.template = DefaultRemoteTemplate
	}
	if r.size <= 0 {
		r.size = DefaultSize
	}
	if r.client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		r.client = &http.Client{Timeout: timeout}
	}
	if r.logger == nil {
		r.logger = log.New(io.Discard)
	}
	return r
}

// LocalPath returns where a level's installed image would live.
func (r *Resolver) LocalPath(lvl catalog.Level) string {
	return filepath.Join(r.localDir, fmt.Sprintf("level_%d.jpg", lvl.ID))
}

// RemoteURL returns the network URL for a level, or "" if the network step
// is disabled.
func (r *Resolver) RemoteURL(lvl catalog.Level) string {
	return r.RemoteURLSized(lvl, r.size)
}

// RemoteURLSized is RemoteURL with an explicit pixel size, used for
// thumbnails.
func (r *Resolver) RemoteURLSized(lvl catalog.Level, size int) string {
	if r.template == "-" {
		return ""
	}
	return strings.NewReplacer(
		"{keyword}", lvl.ImageKeyword,
		"{id}", strconv.Itoa(lvl.ID),
		"{size}", strconv.Itoa(size),
	).Replace(r.template)
}

// Resolve tries the local asset, then probes the remote URL.
func (r *Resolver) Resolve(ctx context.Context, lvl catalog.Level) Resolution {
	if res, ok := r.resolveLocal(lvl); ok {
		return res
	}

	res, err := r.resolveRemote(ctx, lvl)
	if err != nil {
		r.logger.Warn("image unavailable", "level", lvl.ID, "error", err)
		return Exhausted
	}
	return res
}

func (r *Resolver) resolveLocal(lvl catalog.Level) (Resolution, bool) {
	path := r.LocalPath(lvl)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() || info.Size() == 0 {
		return Resolution{}, false
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return Resolution{URI: "file://" + filepath.ToSlash(path), Source: SourceLocal}, true
}

var errRemoteDisabled = errors.New("imagery: remote lookup disabled")

func (r *Resolver) resolveRemote(ctx context.Context, lvl catalog.Level) (Resolution, error) {
	url := r.RemoteURL(lvl)
	if url == "" {
		return Resolution{}, errRemoteDisabled
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return Resolution{}, fmt.Errorf("imagery: bad url %q: %w", url, err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return Resolution{}, fmt.Errorf("imagery: probe %s: %w", url, err)
	}
	resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Resolution{}, fmt.Errorf("imagery: probe %s: status %d", url, resp.StatusCode)
	}
	// Redirects land on the concrete image
	return Resolution{URI: resp.Request.URL.String(), Source: SourceRemote}, nil
}
