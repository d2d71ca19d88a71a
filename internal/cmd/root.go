// Package cmd implements the CLI commands.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chenat9/mcp-server/internal/observability"
)

var (
	flagLogLevel string
	flagVerbose  bool
)

// versionInfo holds build metadata injected at link time.
var versionInfo = struct {
	Version   string
	Commit    string
	BuildDate string
}{
	Version: "dev",
}

// SetVersionInfo records build metadata before Execute runs.
func SetVersionInfo(version, commit, buildDate string) {
	versionInfo.Version = version
	versionInfo.Commit = commit
	versionInfo.BuildDate = buildDate
	rootCmd.Version = version
}

var rootCmd = &cobra.Command{
	Use:   "mcp-server-tos",
	Short: "MCP server exposing VolcEngine TOS storage and media processing",
	Long: `mcp-server-tos exposes VolcEngine TOS object storage as MCP tools:
bucket and object listing, object retrieval, and server-side image and
video processing through the x-tos-process directive family.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		observability.InitCLILogger(flagLogLevel, flagVerbose)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
	rootCmd.Version = versionInfo.Version // placeholder until SetVersionInfo runs
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("mcp-server-tos %s", versionInfo.Version)
		if versionInfo.Commit != "" {
			fmt.Printf(" (%s)", versionInfo.Commit)
		}
		if versionInfo.BuildDate != "" {
			fmt.Printf(" built %s", versionInfo.BuildDate)
		}
		fmt.Println()
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the CLI and exits the process on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		observability.CLILogger.Error(err.Error())
		observability.Sync()
		os.Exit(1)
	}
	observability.Sync()
}

// exitError creates an error that carries the intended exit code in its
// message.
func exitError(code int, message string, err error) error {
	return fmt.Errorf("%s: %w (exit code %d)", message, err, code)
}
