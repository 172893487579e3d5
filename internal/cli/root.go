package cli

import (
	"log/slog"
	"os"

	"github.com/me/procviz/internal/logging"
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

// defaultServer returns the default server URL, checking PROCVIZ_SERVER env var first.
func defaultServer() string {
	if s := os.Getenv("PROCVIZ_SERVER"); s != "" {
		return s
	}
	return "http://localhost:8080"
}

// NewRootCmd creates the root cobra command for the procviz CLI.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "procviz",
		Short: "procviz: CPU scheduling simulator",
		Long: "procviz simulates FCFS, Round Robin, SJF and Priority scheduling over a set of\n" +
			"synthetic processes, locally from a workload file or through a procviz server.",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if flagDebug {
				flagLogLevel = "debug"
			}
			logger = logging.NewLoggerWithWriter(logging.ParseLevel(flagLogLevel), flagLogFormat, cmd.ErrOrStderr())
			client = NewClient(flagServer, logger)
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flagServer, "server", defaultServer(), "procviz server URL (or PROCVIZ_SERVER env)")
	root.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&flagLogFormat, "log-format", "text", "Log format (text, json)")

	root.AddCommand(
		newSimulateCmd(),
		newCompareCmd(),
		newPoliciesCmd(),
		newWorkspaceCmd(),
		newAddCmd(),
		newRemoveCmd(),
		newRunCmd(),
	)

	return root
}
