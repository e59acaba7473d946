package command

import (
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/askiada/go-pipegraph/pkg/pipeline"
	"github.com/askiada/go-pipegraph/pkg/pipeline/fingerprint"
	"github.com/askiada/go-pipegraph/pkg/pipeline/wire"
)

type serializeOptions struct {
	graphOptions
	output string
}

type serialized struct {
	Graph                wire.GraphEntity         `json:"graph"`
	Interface            wire.EntityInterface     `json:"graphInterface"`
	ParameterAssignments map[string]string        `json:"parameterAssignments,omitempty"`
	DataPathAssignments  map[string]wire.DataPath `json:"dataPathAssignments,omitempty"`
}

func newSerializeCommand() *cobra.Command {
	var opts serializeOptions

	cmd := &cobra.Command{
		Use:   "serialize",
		Short: "Print the wire form of a graph",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			g, values, err := opts.load(cmd.Context())
			if err != nil {
				return err
			}

			reg := opts.registry()
			s := pipeline.NewSerializer(fingerprint.NewResolver(reg, reg, reg))

			res, err := s.Serialize(cmd.Context(), g, values)
			if err != nil {
				return err
			}

			b, err := marshal(serialized{
				Graph:                res.Graph,
				Interface:            res.Interface,
				ParameterAssignments: res.ParameterAssignments,
				DataPathAssignments:  res.DataPathAssignments,
			}, opts.output)
			if err != nil {
				return err
			}

			_, err = cmd.OutOrStdout().Write(b)

			return err
		},
	}

	opts.bind(cmd.Flags())
	cmd.Flags().StringVarP(&opts.output, "output", "o", "yaml", "Output format: json or yaml")

	return cmd
}

func marshal(v any, format string) ([]byte, error) {
	switch format {
	case "json":
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, errors.Wrap(err, "unable to marshal json")
		}

		return append(b, '\n'), nil
	case "yaml":
		b, err := yaml.Marshal(v)
		if err != nil {
			return nil, errors.Wrap(err, "unable to marshal yaml")
		}

		return b, nil
	default:
		return nil, errors.Errorf("unsupported output format %q", format)
	}
}
