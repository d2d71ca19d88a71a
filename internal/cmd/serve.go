package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/fulmenhq/gofulmen/foundry"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/chenat9/mcp-server/internal/config"
	"github.com/chenat9/mcp-server/internal/mcp"
	"github.com/chenat9/mcp-server/internal/observability"
	"github.com/chenat9/mcp-server/internal/server"
	"github.com/chenat9/mcp-server/internal/server/handlers"
)

// Supported transports.
const (
	transportStdio = "stdio"
	transportSSE   = "sse"
	transportHTTP  = "http"
)

var (
	flagTransport string
	flagHost      string
	flagPort      int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the MCP server on the selected transport.

stdio serves a single client over stdin/stdout. sse and http expose the
server over the network together with health and version endpoints.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&flagTransport, "transport", "t", transportStdio, "transport: stdio, sse, or http")
	serveCmd.Flags().StringVar(&flagHost, "host", "", "listen host (overrides MCP_SERVER_HOST)")
	serveCmd.Flags().IntVar(&flagPort, "port", 0, "listen port (overrides PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	// cobra only sets the command context through Execute.
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	overrides := map[string]any{}
	serverOverrides := map[string]any{}
	if flagHost != "" {
		serverOverrides["host"] = flagHost
	}
	if flagPort != 0 {
		serverOverrides["port"] = flagPort
	}
	if len(serverOverrides) > 0 {
		overrides["server"] = serverOverrides
	}

	cfg, err := config.Load(ctx, overrides)
	if err != nil {
		return exitError(foundry.ExitInvalidArgument, "Invalid configuration", err)
	}

	logger, err := observability.NewServerLogger(cfg.Logging.Level, cfg.Logging.Encoding)
	if err != nil {
		return exitError(foundry.ExitInvalidArgument, "Invalid logging configuration", err)
	}
	defer func() { _ = logger.Sync() }()

	if !cfg.WebDeploy() {
		if cfg.TOS.AccessKey == "" || cfg.TOS.SecretKey == "" {
			return exitError(foundry.ExitInvalidArgument, "Missing credentials",
				errors.New("local deploy mode requires TOS_ACCESS_KEY and TOS_SECRET_KEY"))
		}
	}

	h := mcp.NewHandlers(cfg, logger)
	s := mcp.NewServer(versionInfo.Version, h)

	switch flagTransport {
	case transportStdio:
		logger.Info("serving on stdio",
			zap.String("deploy_mode", cfg.TOS.DeployMode),
			zap.String("version", versionInfo.Version))
		if err := mcp.ServeStdio(s); err != nil && !errors.Is(err, context.Canceled) {
			return exitError(foundry.ExitExternalServiceUnavailable, "stdio transport failed", err)
		}
		return nil

	case transportSSE, transportHTTP:
		return serveHTTP(ctx, cfg, logger, s, flagTransport)

	default:
		return exitError(foundry.ExitInvalidArgument, "Invalid --transport value",
			fmt.Errorf("unknown transport %q", flagTransport))
	}
}

func serveHTTP(ctx context.Context, cfg *config.Config, logger *zap.Logger, s *mcpserver.MCPServer, transport string) error {
	handlers.InitHealthManager(versionInfo.Version)
	handlers.SetVersionInfo(versionInfo.Version, versionInfo.Commit, versionInfo.BuildDate)
	handlers.GetHealthManager().RegisterChecker("config", configHealthChecker{cfg: cfg})

	srv := server.New(cfg.Server.Host, cfg.Server.Port)
	srv.ReadTimeout = cfg.Server.ReadTimeout
	srv.WriteTimeout = cfg.Server.WriteTimeout
	srv.IdleTimeout = cfg.Server.IdleTimeout

	switch transport {
	case transportSSE:
		srv.Mount("/sse", mcp.SSEHandler(s))
	case transportHTTP:
		srv.Mount("/mcp", mcp.HTTPHandler(s))
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("serving http",
			zap.String("addr", srv.Addr()),
			zap.String("transport", transport),
			zap.String("deploy_mode", cfg.TOS.DeployMode))
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return exitError(foundry.ExitExternalServiceUnavailable, "HTTP server failed", err)
		}
		return nil
	case <-ctx.Done():
		logger.Info("shutting down", zap.Duration("timeout", cfg.Server.ShutdownTimeout))
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return exitError(foundry.ExitSignalInt, "shutdown incomplete", err)
		}
		return nil
	}
}

// configHealthChecker verifies the storage configuration is usable.
type configHealthChecker struct {
	cfg *config.Config
}

func (c configHealthChecker) CheckHealth(ctx context.Context) error {
	if c.cfg.TOS.Endpoint == "" {
		return errors.New("missing TOS endpoint")
	}
	if c.cfg.TOS.Region == "" {
		return errors.New("missing TOS region")
	}
	if !c.cfg.WebDeploy() && (c.cfg.TOS.AccessKey == "" || c.cfg.TOS.SecretKey == "") {
		return errors.New("missing static credentials in local deploy mode")
	}
	return nil
}
