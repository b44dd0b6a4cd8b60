package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/google/uuid"
)

// shutdownGrace bounds how long open sessions get to finish on shutdown.
const shutdownGrace = 10 * time.Second

// SSHServerConfig holds the listener settings for `lumina serve`.
type SSHServerConfig struct {
	Address string
	// HostKeyPath defaults to ~/.lumina/host_key; the key is generated on
	// first start.
	HostKeyPath string
	IdleTimeout time.Duration
	// MaxTimeout caps a connection's lifetime. Zero means no cap.
	MaxTimeout time.Duration
}

// SSHServer hands every PTY connection its own Model. Players share the
// catalog, progress store, history and providers from the base options.
type SSHServer struct {
	config SSHServerConfig
	server *ssh.Server
	base   Options
	logger *log.Logger
}

// NewSSHServer builds the wish server. Per-player fields of base (size,
// seed, start level, preference backend) are ignored.
func NewSSHServer(cfg SSHServerConfig, base Options) (*SSHServer, error) {
	logger := base.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "lumina-ssh",
		})
	}

	keyPath, err := ensureHostKeyDir(cfg.HostKeyPath)
	if err != nil {
		return nil, err
	}

	srv := &SSHServer{config: cfg, base: base, logger: logger}

	opts := []ssh.Option{
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(keyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.newPlayer),
			srv.logSessions,
		),
	}
	if cfg.MaxTimeout > 0 {
		opts = append(opts, wish.WithMaxTimeout(cfg.MaxTimeout))
	}

	srv.server, err = wish.NewServer(opts...)
	if err != nil {
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}
	return srv, nil
}

// ensureHostKeyDir resolves the host key location and creates its directory.
func ensureHostKeyDir(path string) (string, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot get home directory: %w", err)
		}
		path = filepath.Join(home, ".lumina", "host_key")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", fmt.Errorf("cannot create host key directory: %w", err)
	}
	return path, nil
}

// playerOptions derives one connection's options from the shared base.
func (s *SSHServer) playerOptions(id string, width, height int) Options {
	opts := s.base
	opts.Logger = s.logger.With("session", id)
	opts.Preferences = nil // language and theme stay per connection
	opts.Seed = 0
	opts.StartLevel = -1
	opts.Width = width
	opts.Height = height
	return opts
}

// newPlayer is the bubbletea handler: one level picker per PTY.
func (s *SSHServer) newPlayer(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sess.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sess.User())
		return nil, nil
	}

	id := uuid.NewString()
	s.logger.Debug("new player", "user", sess.User(), "session", id,
		"width", pty.Window.Width, "height", pty.Window.Height)

	return NewModel(s.playerOptions(id, pty.Window.Width, pty.Window.Height)),
		[]tea.ProgramOption{tea.WithAltScreen()}
}

// logSessions records connect and disconnect of every session.
func (s *SSHServer) logSessions(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		start := time.Now()
		remote := sess.RemoteAddr().String()
		s.logger.Info("session started", "user", sess.User(), "remote", remote)
		next(sess)
		s.logger.Info("session ended", "user", sess.User(), "remote", remote,
			"duration", time.Since(start).Round(time.Second))
	}
}

// ListenAndServe serves until SIGINT or SIGTERM, then shuts down.
func (s *SSHServer) ListenAndServe() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.Serve(ctx)
}

// Serve runs the server until ctx is done or the listener fails.
func (s *SSHServer) Serve(ctx context.Context) error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	errCh := make(chan error, 1)
	go func() {
		err := s.server.ListenAndServe()
		if errors.Is(err, ssh.ErrServerClosed) {
			err = nil
		}
		errCh <- err
	}()

	select {
	case err := <-errCh:
		if err != nil {
			s.logger.Error("server error", "error", err)
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	return s.Shutdown()
}

// Shutdown stops accepting connections and waits for sessions to end.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// Addr returns the configured listen address.
func (s *SSHServer) Addr() string {
	return s.config.Address
}
