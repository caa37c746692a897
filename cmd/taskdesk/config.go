package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/mesh-intelligence/taskdesk/internal/app"
	"github.com/mesh-intelligence/taskdesk/internal/logging"
	"github.com/mesh-intelligence/taskdesk/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	envPrefix = "TASKDESK"

	cfgKeyBackend           = "backend"
	cfgKeyDataDir           = "data_dir"
	cfgKeyLogLevel          = "log_level"
	cfgKeyAccessKey         = "access_key"
	cfgKeyIdentity          = "identity"
	cfgKeySupabaseURL       = "supabase.url"
	cfgKeySupabaseAPIKey    = "supabase.api_key"
	cfgKeySupabaseTimeout   = "supabase.timeout"
	cfgKeySupabaseRateLimit = "supabase.rate_limit"

	defaultBackend = types.BackendSQLite
)

// defaultConfigYAML is written to config.yaml on first run.
const defaultConfigYAML = `# taskdesk configuration
# Every key can be overridden with TASKDESK_<KEY>, dots replaced by
# underscores (TASKDESK_SUPABASE_URL).

# Backend: sqlite, supabase or memory
backend: sqlite

# Data directory of the sqlite backend (optional; --data-dir wins)
# data_dir:

# debug, info, warn or error
log_level: warn

# base64 key sealing access passwords at rest (taskdesk init prints one)
# access_key:

# supabase:
#   url: https://project.supabase.co
#   api_key:
#   timeout: 30s
#   rate_limit: 0
`

// loadConfig reads config.yaml from configDir, creating the directory and a
// default file on first run. A missing config.yaml is not an error.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyBackend, defaultBackend)
	v.SetDefault(cfgKeyLogLevel, logging.DefaultLevel)
	v.SetDefault(cfgKeySupabaseTimeout, types.DefaultSupabaseTimeout)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o600)
}

// appConfig maps the loaded keys onto the application configuration.
func appConfig(v *viper.Viper, dataDir string) app.Config {
	return app.Config{
		Storage: types.Config{
			Backend: v.GetString(cfgKeyBackend),
			DataDir: dataDir,
			Supabase: types.SupabaseConfig{
				URL:       v.GetString(cfgKeySupabaseURL),
				APIKey:    v.GetString(cfgKeySupabaseAPIKey),
				Timeout:   v.GetDuration(cfgKeySupabaseTimeout),
				RateLimit: v.GetFloat64(cfgKeySupabaseRateLimit),
			},
		},
		AccessKey: v.GetString(cfgKeyAccessKey),
	}
}
