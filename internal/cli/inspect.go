package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/meikuraledutech/workflow"
)

func newInspectCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file>",
		Short: "Load a document and list its nodes with their resolution state",
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

			ed := workflow.NewEditor(cfg.Registry(), workflow.WithLogger(logger))
			res := ed.Load(doc)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %d nodes, %d edges, %d unresolved\n", res.Name, res.Nodes, res.Edges, len(res.Unresolved))

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tCOMPONENT\tPOSITION\tSTATUS")
			for _, n := range ed.Snapshot().Nodes() {
				status := "ok"
				if !n.Resolved {
					status = n.ErrorMessage
				}
				fmt.Fprintf(tw, "%s\t%s\t(%g, %g)\t%s\n", n.ID, n.ComponentKey, n.Position.X, n.Position.Y, status)
			}
			return tw.Flush()
		},
	}
}

func newFilenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "filename <name>",
		Short: "Print the export file name for a workflow name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), workflow.Filename(args[0], time.Now()))
			return err
		},
	}
}
