package root

import (
	"os"

	"github.com/flarebyte/fencerun/cmd/fencerun/diagnose"
	"github.com/flarebyte/fencerun/cmd/fencerun/list"
	"github.com/flarebyte/fencerun/cmd/fencerun/run"
	"github.com/flarebyte/fencerun/cmd/fencerun/version"
	"github.com/flarebyte/fencerun/cmd/fencerun/watch"
	"github.com/flarebyte/fencerun/internal/logging"
	"github.com/spf13/cobra"
)

var (
	flagLogLevel  string
	flagLogPretty bool
)

// NewRootCmd creates the root command for fencerun.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fencerun",
		Short: "Run annotated fenced code blocks of Markdown documents through an external interpreter",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Init(logging.Config{
				Level:  logging.ParseLevel(flagLogLevel),
				Output: os.Stderr,
				Pretty: flagLogPretty,
			})
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// Show help when no subcommand is provided.
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "Log level: debug|info|warn|error|off")
	cmd.PersistentFlags().BoolVar(&flagLogPretty, "log-pretty", false, "Human readable logs on stderr")

	cmd.AddCommand(version.VersionCmd)
	cmd.AddCommand(run.Cmd)
	cmd.AddCommand(list.Cmd)
	cmd.AddCommand(watch.Cmd)
	cmd.AddCommand(diagnose.Cmd)

	return cmd
}

// Execute runs the root command with provided args.
func Execute(args []string) error {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	return cmd.Execute()
}
