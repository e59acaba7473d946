package command

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/askiada/go-pipegraph/pkg/pipeline/drawer"
)

type renderOptions struct {
	graphOptions
	out string
}

func newRenderCommand() *cobra.Command {
	var opts renderOptions

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Draw a graph in DOT format",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			g, _, err := opts.load(cmd.Context())
			if err != nil {
				return err
			}

			d, err := drawer.NewDOTDrawer()
			if err != nil {
				return err
			}

			if err := drawer.FromGraph(d, g); err != nil {
				return err
			}

			if opts.out == "" {
				return d.Draw(cmd.OutOrStdout())
			}

			f, err := os.Create(opts.out)
			if err != nil {
				return errors.Wrapf(err, "unable to create %s", opts.out)
			}
			defer f.Close()

			return d.Draw(f)
		},
	}

	opts.bind(cmd.Flags())
	cmd.Flags().StringVar(&opts.out, "out", "", "Write the DOT file here instead of stdout")

	return cmd
}
