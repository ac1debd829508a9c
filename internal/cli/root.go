package cli

import (
	"log/slog"
	"os"

	"github.com/me/narabid/internal/logging"
	"github.com/spf13/cobra"
)

var (
	flagServer    string
	flagDebug     bool
	flagLogLevel  string
	flagLogFormat string

	logger *slog.Logger
	client *Client
)

// defaultServer returns the default server URL, checking NARABID_SERVER env var first.
func defaultServer() string {
	if s := os.Getenv("NARABID_SERVER"); s != "" {
		return s
	}
	return "http://localhost:8080"
}

// NewRootCmd creates the root cobra command for the narabid CLI.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "narabid",
		Short: "narabid: search recent public procurement notices",
		Long:  "narabid queries a narabid server for recent bid notices, award results and contracts.",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if flagDebug {
				flagLogLevel = "debug"
			}
			logger = logging.NewLogger(logging.ParseLevel(flagLogLevel), flagLogFormat)
			client = NewClient(flagServer, logger)
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flagServer, "server", defaultServer(), "narabid server URL (or NARABID_SERVER env)")
	root.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&flagLogFormat, "log-format", "text", "Log format (text, json)")

	root.AddCommand(
		newSearchCmd(),
		newFetchesCmd(),
		newHealthCmd(),
	)

	return root
}
