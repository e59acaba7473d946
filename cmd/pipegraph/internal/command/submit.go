package command

import (
	"fmt"
	"io"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rodaine/table"
	"github.com/spf13/cobra"

	"github.com/askiada/go-pipegraph/pkg/pipeline"
	"github.com/askiada/go-pipegraph/pkg/pipeline/measure"
	"github.com/askiada/go-pipegraph/pkg/pipeline/registry"
)

type submitOptions struct {
	graphOptions
	experiment  string
	description string
	stats       bool
}

func newSubmitCommand() *cobra.Command {
	var opts submitOptions

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a graph as a run and rebuild it from the registry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			w := cmd.OutOrStdout()

			g, values, err := opts.load(ctx)
			if err != nil {
				return err
			}

			msr, err := measure.NewPrometheusMeasure(prometheus.NewRegistry())
			if err != nil {
				return err
			}

			client := registry.WithMeasure(opts.registry(), msr)
			sub := pipeline.NewSubmitter(client)

			run, err := sub.Submit(ctx, g, opts.experiment, values, pipeline.WithDescription(opts.description))
			if err != nil {
				return err
			}

			fmt.Fprintf(w, "run %s in experiment %s is %s\n", run.ID, run.ExperimentName, run.Status)

			rebuilt, _, err := sub.Reconstruct(ctx, run.ID)
			if err != nil {
				return err
			}

			nodes := rebuilt.Nodes()
			ids := make([]string, 0, len(nodes))

			for _, n := range nodes {
				ids = append(ids, n.ID())
			}

			fmt.Fprintf(w, "rebuilt %d nodes and %d edges: %s\n", len(nodes), len(rebuilt.Edges()), strings.Join(ids, ", "))

			if opts.stats {
				fmt.Fprintln(w)
				printStats(w, msr)
			}

			return nil
		},
	}

	opts.bind(cmd.Flags())
	cmd.Flags().StringVar(&opts.experiment, "experiment", "", "Experiment the run belongs to")
	cmd.Flags().StringVar(&opts.description, "description", "", "Run description")
	cmd.Flags().BoolVar(&opts.stats, "stats", false, "Print registry call statistics")
	_ = cmd.MarkFlagRequired("experiment")

	return cmd
}

func printStats(w io.Writer, msr measure.Measure) {
	metrics := msr.AllMetrics()
	tbl := table.New("OPERATION", "CALLS", "ERRORS", "AVG", "TOTAL").WithWriter(w)

	for _, name := range measure.Names(msr) {
		mt := metrics[name]
		tbl.AddRow(name, mt.Calls(), mt.Errors(), mt.AVGDuration(), mt.GetTotalDuration())
	}

	tbl.Print()
}
