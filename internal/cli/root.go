package cli

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/meikuraledutech/workflow/internal/config"
)

// options holds the global flags.
type options struct {
	configPath string
	verbose    bool
}

// NewRootCommand builds the workflowctl command tree. Logs go to errOut.
func NewRootCommand(errOut io.Writer) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "workflowctl",
		Short:         "Inspect and check exported workflow documents",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := log.InfoLevel
			if opts.verbose {
				level = log.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(errOut, level)))
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", os.Getenv("WORKFLOW_CONFIG"), "path to a TOML config file")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newInspectCmd(opts))
	root.AddCommand(newCheckCmd(opts))
	root.AddCommand(newFilenameCmd())

	return root
}

// Execute runs the CLI with ctx.
func Execute(ctx context.Context) error {
	return NewRootCommand(os.Stderr).ExecuteContext(ctx)
}

func (o *options) load() (config.Config, error) {
	return config.Load(o.configPath)
}
