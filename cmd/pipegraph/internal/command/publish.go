package command

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/askiada/go-pipegraph/pkg/pipeline"
)

type publishOptions struct {
	graphOptions
	name        string
	description string
	version     string
}

func newPublishCommand() *cobra.Command {
	var opts publishOptions

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish a graph without running it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			g, values, err := opts.load(cmd.Context())
			if err != nil {
				return err
			}

			published, err := pipeline.NewPublisher(opts.registry()).Publish(cmd.Context(), g, pipeline.PublishOptions{
				Name:        opts.name,
				Description: opts.description,
				Version:     opts.version,
				Parameters:  values,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "published %s %s as %s\n", published.Name, published.Version, published.ID)

			return nil
		},
	}

	opts.bind(cmd.Flags())
	cmd.Flags().StringVar(&opts.name, "name", "", "Published pipeline name, defaults to the graph name")
	cmd.Flags().StringVar(&opts.description, "description", "", "Published pipeline description")
	cmd.Flags().StringVar(&opts.version, "version", "", "Published pipeline version")

	return cmd
}
