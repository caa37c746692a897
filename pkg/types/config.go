package types

import (
	"errors"
	"time"
)

// Config holds backend selection and parameters for Backend.Attach.
type Config struct {
	Backend  string         `json:"backend" yaml:"backend"`
	DataDir  string         `json:"data_dir" yaml:"data_dir"`
	Supabase SupabaseConfig `json:"supabase" yaml:"supabase"`
}

// SupabaseConfig configures the remote PostgREST backend.
type SupabaseConfig struct {
	URL    string `json:"url" yaml:"url"`
	APIKey string `json:"api_key" yaml:"api_key"`

	// Timeout bounds every HTTP request. Zero selects DefaultSupabaseTimeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// RateLimit caps outgoing requests per second. Zero means unlimited.
	RateLimit float64 `json:"rate_limit" yaml:"rate_limit"`
}

// Supported backend names.
const (
	BackendSQLite   = "sqlite"
	BackendSupabase = "supabase"
	BackendMemory   = "memory"
)

// DefaultSupabaseTimeout is used when SupabaseConfig.Timeout is zero.
const DefaultSupabaseTimeout = 30 * time.Second

// Config validation errors.
var (
	ErrBackendEmpty      = errors.New("backend must not be empty")
	ErrBackendUnknown    = errors.New("unknown backend")
	ErrSupabaseURLEmpty  = errors.New("supabase url must not be empty")
	ErrSupabaseKeyEmpty  = errors.New("supabase api key must not be empty")
	ErrRateLimitNegative = errors.New("supabase rate limit must not be negative")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendSQLite:   true,
	BackendSupabase: true,
	BackendMemory:   true,
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	if c.Backend == BackendSupabase {
		if c.Supabase.URL == "" {
			return ErrSupabaseURLEmpty
		}
		if c.Supabase.APIKey == "" {
			return ErrSupabaseKeyEmpty
		}
		if c.Supabase.RateLimit < 0 {
			return ErrRateLimitNegative
		}
	}
	return nil
}
