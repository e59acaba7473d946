package command

import (
	"context"

	"github.com/spf13/pflag"

	"github.com/askiada/go-pipegraph/internal/config"
	"github.com/askiada/go-pipegraph/pkg/pipeline/model"
	"github.com/askiada/go-pipegraph/pkg/pipeline/registry/memory"
)

// graphOptions are the flags shared by every command working on a graph.
type graphOptions struct {
	paths     []string
	graph     string
	sets      []string
	dataTypes []string
}

func (o *graphOptions) bind(flags *pflag.FlagSet) {
	flags.StringSliceVarP(&o.paths, "file", "f", nil, "HCL file or directory to load, repeatable")
	flags.StringVar(&o.graph, "graph", "", "Graph to use when the files define more than one")
	flags.StringArrayVar(&o.sets, "set", nil, "Pipeline parameter value as name=value, datastore:path for data paths")
	flags.StringSliceVar(&o.dataTypes, "data-type", nil, "Extra data type id known to the registry, repeatable")
}

// load returns the selected graph and the pipeline parameter values from values blocks
// overridden by --set.
func (o *graphOptions) load(ctx context.Context) (*model.Graph, map[string]any, error) {
	if len(o.paths) == 0 {
		return nil, nil, model.Validationf("file", "at least one file or directory is required")
	}

	cfg, err := config.Load(ctx, o.paths...)
	if err != nil {
		return nil, nil, err
	}

	g, err := cfg.Graph(o.graph)
	if err != nil {
		return nil, nil, err
	}

	declared, err := g.Parameters()
	if err != nil {
		return nil, nil, err
	}

	values := make(map[string]any)

	for _, p := range declared {
		if v, ok := cfg.Values[p.Name]; ok {
			values[p.Name] = v
		}
	}

	overrides, err := config.ParseAssignments(g, o.sets)
	if err != nil {
		return nil, nil, err
	}

	for name, v := range overrides {
		values[name] = v
	}

	return g, values, nil
}

func (o *graphOptions) registry() *memory.Registry {
	return memory.New(memory.WithDataTypes(o.dataTypes...))
}
