// Package app assembles a backend, the repositories, a session and the
// stores into one handle.
package app

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/taskdesk/internal/logging"
	"github.com/mesh-intelligence/taskdesk/internal/memory"
	"github.com/mesh-intelligence/taskdesk/internal/repo"
	"github.com/mesh-intelligence/taskdesk/internal/session"
	"github.com/mesh-intelligence/taskdesk/internal/sqlite"
	"github.com/mesh-intelligence/taskdesk/internal/store"
	"github.com/mesh-intelligence/taskdesk/internal/supabase"
	"github.com/mesh-intelligence/taskdesk/internal/vault"
	"github.com/mesh-intelligence/taskdesk/pkg/types"
)

// Config selects the backend and the optional access key.
type Config struct {
	Storage types.Config

	// AccessKey is a base64 secretbox key. Empty leaves access passwords
	// in plaintext.
	AccessKey string
}

// App is an opened application.
type App struct {
	Backend types.Backend
	Repos   *repo.Repos
	Session *session.Session
	Stores  *store.Stores
	Logger  *zap.Logger
}

type options struct {
	logger     *zap.Logger
	httpClient *http.Client
	backend    types.Backend
}

// Option configures Open.
type Option func(*options)

// WithLogger sets the logger shared by every component.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithHTTPClient sets the HTTP client of the supabase backend.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// WithBackend uses b instead of building one from Config.Storage.Backend.
func WithBackend(b types.Backend) Option {
	return func(o *options) { o.backend = b }
}

// NewBackend returns a detached backend for the configured name.
func NewBackend(cfg types.Config, logger *zap.Logger, httpClient *http.Client) (types.Backend, error) {
	switch cfg.Backend {
	case types.BackendSQLite:
		return sqlite.NewBackend(), nil
	case types.BackendSupabase:
		opts := []supabase.Option{supabase.WithLogger(logger)}
		if httpClient != nil {
			opts = append(opts, supabase.WithHTTPClient(httpClient))
		}
		return supabase.NewBackend(opts...), nil
	case types.BackendMemory:
		return memory.NewBackend(), nil
	case "":
		return nil, types.ErrBackendEmpty
	default:
		return nil, fmt.Errorf("%q: %w", cfg.Backend, types.ErrBackendUnknown)
	}
}

// Open attaches the backend and builds the rest of the application.
func Open(cfg Config, opts ...Option) (*App, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	logger := logging.OrNop(o.logger)

	backend := o.backend
	if backend == nil {
		b, err := NewBackend(cfg.Storage, logger, o.httpClient)
		if err != nil {
			return nil, err
		}
		backend = b
	}
	if err := backend.Attach(cfg.Storage); err != nil {
		return nil, fmt.Errorf("attaching %s backend: %w", cfg.Storage.Backend, err)
	}

	var repoOpts []repo.Option
	if cfg.AccessKey != "" {
		v, err := vault.New(cfg.AccessKey)
		if err != nil {
			backend.Detach()
			return nil, err
		}
		repoOpts = append(repoOpts, repo.WithSealer(v))
	} else {
		logger.Warn("access_key is not set, access passwords are stored in plaintext")
	}

	repos, err := repo.New(backend, repoOpts...)
	if err != nil {
		backend.Detach()
		return nil, err
	}
	sess := session.New(repos.Users, logger)
	return &App{
		Backend: backend,
		Repos:   repos,
		Session: sess,
		Stores:  store.New(repos, sess, logger),
		Logger:  logger,
	}, nil
}

// Close detaches the backend.
func (a *App) Close() error {
	return a.Backend.Detach()
}
