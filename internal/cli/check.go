package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/meikuraledutech/workflow"
)

func newCheckCmd(opts *options) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "check <file>",
		Short: "Report dangling edges, and with --strict self-loops and duplicates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			cfg, err := opts.load()
			if err != nil {
				return err
			}

			doc, err := workflow.ReadDocumentFile(args[0])
			if err != nil {
				return err
			}
			nodes, edges, name := workflow.Restore(doc, cfg.Registry())
			logger.Debug("restored", "name", name, "nodes", len(nodes), "edges", len(edges))

			checkOpts := workflow.CheckOptions{}
			if strict {
				checkOpts = workflow.Strict
			}
			violations := workflow.Check(workflow.NewSnapshot(nodes, edges), checkOpts)

			out := cmd.OutOrStdout()
			for _, v := range violations {
				fmt.Fprintf(out, "%s\t%s\t%s\n", v.Kind, v.EdgeID, v.Detail)
			}
			if len(violations) > 0 {
				return fmt.Errorf("%s: %d integrity violation(s)", args[0], len(violations))
			}
			fmt.Fprintf(out, "%s: ok\n", name)
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "also reject self-loops and duplicate edges")
	return cmd
}
