package config

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"

	"github.com/chenat9/mcp-server/pkg/storage"
)

var (
	configMu  sync.RWMutex
	appConfig *Config
)

// envSpec maps a process environment variable onto a config path.
type envSpec struct {
	Name string
	Path string
}

// getEnvSpecs returns the environment variable bindings. The TOS_*
// names follow the storage service conventions; MCP_* and PORT cover
// the server surface.
func getEnvSpecs() []envSpec {
	return []envSpec{
		{Name: "MCP_SERVER_HOST", Path: "server.host"},
		{Name: "PORT", Path: "server.port"},
		{Name: "MCP_SERVER_READ_TIMEOUT", Path: "server.read_timeout"},
		{Name: "MCP_SERVER_WRITE_TIMEOUT", Path: "server.write_timeout"},
		{Name: "MCP_SERVER_IDLE_TIMEOUT", Path: "server.idle_timeout"},
		{Name: "MCP_SERVER_SHUTDOWN_TIMEOUT", Path: "server.shutdown_timeout"},
		{Name: "MCP_LOG_LEVEL", Path: "logging.level"},
		{Name: "MCP_LOG_ENCODING", Path: "logging.encoding"},
		{Name: "MCP_DEPLOY_MODE", Path: "tos.deploy_mode"},
		{Name: "TOS_ENDPOINT", Path: "tos.endpoint"},
		{Name: "TOS_REGION", Path: "tos.region"},
		{Name: "TOS_ACCESS_KEY", Path: "tos.access_key"},
		{Name: "TOS_SECRET_KEY", Path: "tos.secret_key"},
		{Name: "TOS_SECURITY_TOKEN", Path: "tos.security_token"},
		{Name: "TOS_MAX_OBJECT_SIZE", Path: "tos.max_object_size"},
		{Name: "TOS_BUCKETS", Path: "tos.buckets"},
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.idle_timeout", 120*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.encoding", "json")

	v.SetDefault("tos.deploy_mode", DeployLocal)
	v.SetDefault("tos.max_object_size", storage.DefaultMaxObjectSize)
	v.SetDefault("tos.buckets", []string{})

	// Env-only keys must be registered for Unmarshal to see them.
	v.SetDefault("tos.endpoint", "")
	v.SetDefault("tos.region", "")
	v.SetDefault("tos.access_key", "")
	v.SetDefault("tos.secret_key", "")
	v.SetDefault("tos.security_token", "")
}

// Load builds the configuration from defaults, environment variables,
// and any runtime overrides (highest precedence). The loaded config is
// cached and available via GetConfig.
func Load(_ context.Context, overrides ...map[string]any) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	for _, spec := range getEnvSpecs() {
		if err := v.BindEnv(spec.Path, spec.Name); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", spec.Name, err)
		}
	}

	// Explicit Set sits above env in viper's precedence order, which is
	// what runtime overrides need.
	for _, override := range overrides {
		applyOverrides(v, "", override)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// Comma-separated bucket lists arrive from env with whitespace intact.
	cfg.TOS.Buckets = normalizeBuckets(cfg.TOS.Buckets)

	if err := validate(cfg); err != nil {
		return nil, err
	}

	configMu.Lock()
	appConfig = cfg
	configMu.Unlock()

	return cfg, nil
}

// GetConfig returns the most recently loaded configuration, or nil if
// Load has not been called.
func GetConfig() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return appConfig
}

func validate(cfg *Config) error {
	switch cfg.TOS.DeployMode {
	case DeployLocal, DeployWeb:
	default:
		return fmt.Errorf("invalid deploy mode %q: must be %q or %q", cfg.TOS.DeployMode, DeployLocal, DeployWeb)
	}
	if cfg.Server.Port < 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", cfg.Server.Port)
	}
	if cfg.TOS.MaxObjectSize <= 0 {
		return fmt.Errorf("invalid max object size %d", cfg.TOS.MaxObjectSize)
	}
	return nil
}

func applyOverrides(v *viper.Viper, prefix string, values map[string]any) {
	for key, val := range values {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		if nested, ok := val.(map[string]any); ok {
			applyOverrides(v, path, nested)
			continue
		}
		v.Set(path, val)
	}
}

func normalizeBuckets(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, entry := range raw {
		for _, p := range strings.Split(entry, ",") {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

// StorageConfig translates the TOS section into a storage service
// config. Static credentials are only meaningful in local deploy mode.
func (c *Config) StorageConfig() storage.Config {
	return storage.Config{
		Endpoint:      c.TOS.Endpoint,
		Region:        c.TOS.Region,
		AccessKey:     c.TOS.AccessKey,
		SecretKey:     c.TOS.SecretKey,
		SecurityToken: c.TOS.SecurityToken,
		MaxObjectSize: c.TOS.MaxObjectSize,
		Buckets:       c.TOS.Buckets,
	}
}
