package cmd

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chenat9/mcp-server/internal/config"
)

func TestConfigHealthChecker(t *testing.T) {
	base := func() *config.Config {
		cfg := &config.Config{}
		cfg.TOS.Endpoint = "tos-cn-beijing.volces.com"
		cfg.TOS.Region = "cn-beijing"
		cfg.TOS.AccessKey = "AKTP-test"
		cfg.TOS.SecretKey = "secret"
		cfg.TOS.DeployMode = config.DeployLocal
		return cfg
	}

	tests := []struct {
		name       string
		mutate     func(*config.Config)
		wantErr    bool
		errContain string
	}{
		{
			name:   "valid local config",
			mutate: func(cfg *config.Config) {},
		},
		{
			name:       "missing endpoint",
			mutate:     func(cfg *config.Config) { cfg.TOS.Endpoint = "" },
			wantErr:    true,
			errContain: "missing TOS endpoint",
		},
		{
			name:       "missing region",
			mutate:     func(cfg *config.Config) { cfg.TOS.Region = "" },
			wantErr:    true,
			errContain: "missing TOS region",
		},
		{
			name:       "missing keys in local mode",
			mutate:     func(cfg *config.Config) { cfg.TOS.AccessKey = "" },
			wantErr:    true,
			errContain: "missing static credentials",
		},
		{
			name: "web mode needs no static keys",
			mutate: func(cfg *config.Config) {
				cfg.TOS.DeployMode = config.DeployWeb
				cfg.TOS.AccessKey = ""
				cfg.TOS.SecretKey = ""
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)

			checker := configHealthChecker{cfg: cfg}
			err := checker.CheckHealth(context.Background())
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContain)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestServeTransportFlag(t *testing.T) {
	// Unknown transports must be rejected before any listener starts.
	orig := flagTransport
	defer func() { flagTransport = orig }()

	t.Setenv("TOS_ENDPOINT", "tos-cn-beijing.volces.com")
	t.Setenv("TOS_REGION", "cn-beijing")
	t.Setenv("TOS_ACCESS_KEY", "AKTP-test")
	t.Setenv("TOS_SECRET_KEY", "secret")

	flagTransport = "carrier-pigeon"
	err := runServe(serveCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown transport")
}

func TestServeRequiresLocalCredentials(t *testing.T) {
	orig := flagTransport
	defer func() { flagTransport = orig }()

	t.Setenv("TOS_ENDPOINT", "tos-cn-beijing.volces.com")
	t.Setenv("TOS_REGION", "cn-beijing")
	t.Setenv("TOS_ACCESS_KEY", "")
	t.Setenv("TOS_SECRET_KEY", "")
	t.Setenv("MCP_DEPLOY_MODE", "local")

	flagTransport = transportHTTP
	err := runServe(serveCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TOS_ACCESS_KEY")
}
