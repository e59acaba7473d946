// Package config loads module and datasource definitions, graphs and pipeline parameter
// values from HCL files.
//
//	module "train" {
//	  input "data" { types = ["AnyFile"] }
//	  output "model" { type = "AnyDirectory" }
//	  param "epochs" {
//	    type    = "int"
//	    default = 10
//	  }
//	}
//
//	datasource "raw" {
//	  type      = "AnyFile"
//	  datastore = "blob"
//	  path      = "raw.csv"
//	}
//
//	graph "training" {
//	  parameter "lr" { default = 0.1 }
//	  node "raw" { datasource = "raw" }
//	  node "train" {
//	    module = "train"
//	    params = { epochs = 3 }
//	    refs   = { lr = "lr" }
//	  }
//	  edge {
//	    from = "raw.output"
//	    to   = "train.data"
//	  }
//	  output "result" { from = "train.model" }
//	}
//
//	values {
//	  lr = 0.2
//	}
package config

import (
	"context"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-logr/logr"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/pkg/errors"
	"github.com/zclconf/go-cty/cty"

	"github.com/askiada/go-pipegraph/pkg/pipeline/model"
)

// fileRoot decodes every top-level block of a file.
type fileRoot struct {
	Modules     []*moduleBlock     `hcl:"module,block"`
	DataSources []*dataSourceBlock `hcl:"datasource,block"`
	Graphs      []*graphBlock      `hcl:"graph,block"`
	Values      []*valuesBlock     `hcl:"values,block"`
}

type moduleBlock struct {
	Name          string         `hcl:"name,label"`
	Description   string         `hcl:"description,optional"`
	Category      string         `hcl:"category,optional"`
	Version       string         `hcl:"version,optional"`
	Deterministic bool           `hcl:"deterministic,optional"`
	Fingerprint   string         `hcl:"fingerprint,optional"`
	Inputs        []*inputBlock  `hcl:"input,block"`
	Outputs       []*outputBlock `hcl:"output,block"`
	Params        []*paramBlock  `hcl:"param,block"`
}

type inputBlock struct {
	Name     string   `hcl:"name,label"`
	Label    string   `hcl:"label,optional"`
	Types    []string `hcl:"types,optional"`
	Optional bool     `hcl:"optional,optional"`
}

type outputBlock struct {
	Name        string `hcl:"name,label"`
	Label       string `hcl:"label,optional"`
	Type        string `hcl:"type,optional"`
	PassThrough string `hcl:"pass_through,optional"`
}

type paramBlock struct {
	Name        string    `hcl:"name,label"`
	Type        string    `hcl:"type"`
	Default     cty.Value `hcl:"default,optional"`
	Optional    bool      `hcl:"optional,optional"`
	Metadata    bool      `hcl:"metadata,optional"`
	Description string    `hcl:"description,optional"`
}

type dataSourceBlock struct {
	Name        string `hcl:"name,label"`
	Description string `hcl:"description,optional"`
	Type        string `hcl:"type,optional"`
	Fingerprint string `hcl:"fingerprint,optional"`
	DataStore   string `hcl:"datastore,optional"`
	Path        string `hcl:"path,optional"`
	URI         string `hcl:"uri,optional"`
}

type graphBlock struct {
	Name       string            `hcl:"name,label"`
	Parameters []*parameterBlock `hcl:"parameter,block"`
	Nodes      []*nodeBlock      `hcl:"node,block"`
	Edges      []*edgeBlock      `hcl:"edge,block"`
	Outputs    []*sinkBlock      `hcl:"output,block"`
}

type parameterBlock struct {
	Name      string    `hcl:"name,label"`
	Type      string    `hcl:"type,optional"`
	Default   cty.Value `hcl:"default,optional"`
	DataStore string    `hcl:"datastore,optional"`
	Path      string    `hcl:"path,optional"`
}

type nodeBlock struct {
	ID         string            `hcl:"id,label"`
	Module     string            `hcl:"module,optional"`
	DataSource string            `hcl:"datasource,optional"`
	Params     cty.Value         `hcl:"params,optional"`
	Refs       map[string]string `hcl:"refs,optional"`
	DataStores map[string]string `hcl:"datastores,optional"`
}

type edgeBlock struct {
	From string `hcl:"from"`
	To   string `hcl:"to"`
}

type sinkBlock struct {
	Name string `hcl:"name,label"`
	From string `hcl:"from"`
}

type valuesBlock struct {
	Body hcl.Body `hcl:",remain"`
}

// Config is everything loaded from a set of files. Definitions are shared by every graph
// built from it.
type Config struct {
	Modules     map[string]*model.ModuleDef
	DataSources map[string]*model.DataSourceDef
	// Values are pipeline parameter values from values blocks.
	Values map[string]any

	graphs map[string]*graphBlock
}

// Load parses paths, which may be files or directories searched recursively for .hcl files.
func Load(ctx context.Context, paths ...string) (*Config, error) {
	logger := logr.FromContextOrDiscard(ctx)

	files, err := findHCLFiles(paths)
	if err != nil {
		return nil, err
	}

	if len(files) == 0 {
		return nil, errors.Errorf("no .hcl files found in %v", paths)
	}

	cfg := &Config{
		Modules:     make(map[string]*model.ModuleDef),
		DataSources: make(map[string]*model.DataSourceDef),
		Values:      make(map[string]any),
		graphs:      make(map[string]*graphBlock),
	}

	parser := hclparse.NewParser()

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, errors.Wrapf(diags, "unable to parse %s", file)
		}

		var root fileRoot

		diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
		if diags.HasErrors() {
			return nil, errors.Wrapf(diags, "unable to decode %s", file)
		}

		if err := cfg.merge(&root); err != nil {
			return nil, errors.Wrapf(err, "in %s", file)
		}

		logger.V(1).Info("loaded config file", "file", file)
	}

	logger.V(1).Info("config loaded",
		"modules", len(cfg.Modules),
		"datasources", len(cfg.DataSources),
		"graphs", len(cfg.graphs),
	)

	return cfg, nil
}

func (c *Config) merge(root *fileRoot) error {
	for _, b := range root.Modules {
		if _, ok := c.Modules[b.Name]; ok {
			return model.Validationf(b.Name, "module defined twice")
		}

		def, err := moduleDef(b)
		if err != nil {
			return errors.Wrapf(err, "module %s", b.Name)
		}

		c.Modules[b.Name] = def
	}

	for _, b := range root.DataSources {
		if _, ok := c.DataSources[b.Name]; ok {
			return model.Validationf(b.Name, "datasource defined twice")
		}

		def, err := dataSourceDef(b)
		if err != nil {
			return errors.Wrapf(err, "datasource %s", b.Name)
		}

		c.DataSources[b.Name] = def
	}

	for _, b := range root.Graphs {
		if _, ok := c.graphs[b.Name]; ok {
			return model.Validationf(b.Name, "graph defined twice")
		}

		c.graphs[b.Name] = b
	}

	for _, b := range root.Values {
		attrs, diags := b.Body.JustAttributes()
		if diags.HasErrors() {
			return errors.Wrap(diags, "values")
		}

		for name, attr := range attrs {
			v, diags := attr.Expr.Value(nil)
			if diags.HasErrors() {
				return errors.Wrapf(diags, "value %s", name)
			}

			goVal, err := goValue(v)
			if err != nil {
				return errors.Wrapf(err, "value %s", name)
			}

			c.Values[name] = goVal
		}
	}

	return nil
}

// GraphNames lists the graphs defined, sorted.
func (c *Config) GraphNames() []string {
	names := make([]string, 0, len(c.graphs))
	for name := range c.graphs {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

func moduleDef(b *moduleBlock) (*model.ModuleDef, error) {
	def := &model.ModuleDef{
		Fingerprint:     b.Fingerprint,
		Name:            b.Name,
		Description:     b.Description,
		Category:        b.Category,
		Version:         b.Version,
		IsDeterministic: b.Deterministic,
	}

	for _, in := range b.Inputs {
		def.Inputs = append(def.Inputs, model.InputPortDef{Name: in.Name, Label: in.Label, DataTypes: in.Types, IsOptional: in.Optional})
	}

	for _, out := range b.Outputs {
		def.Outputs = append(def.Outputs, model.OutputPortDef{Name: out.Name, Label: out.Label, DataType: out.Type, PassThroughInputName: out.PassThrough})
	}

	for _, p := range b.Params {
		kind, err := ParseKind(p.Type)
		if err != nil {
			return nil, errors.Wrapf(err, "param %s", p.Name)
		}

		pd := model.ParamDef{Name: p.Name, Type: kind, IsOptional: p.Optional, Description: p.Description}

		if !p.Default.IsNull() {
			v, err := goValue(p.Default)
			if err != nil {
				return nil, errors.Wrapf(err, "default of param %s", p.Name)
			}

			pd.Default = coerce(kind, v)
		}

		if p.Metadata {
			def.MetadataParams = append(def.MetadataParams, pd)
		} else {
			def.Params = append(def.Params, pd)
		}
	}

	return def, nil
}

func dataSourceDef(b *dataSourceBlock) (*model.DataSourceDef, error) {
	def := &model.DataSourceDef{
		Fingerprint: b.Fingerprint,
		Name:        b.Name,
		Description: b.Description,
		DataTypeID:  b.Type,
	}

	switch {
	case b.URI != "" && b.DataStore == "":
		def.Reference = model.DataReference{Type: model.URIReference, URI: b.URI}
	case b.DataStore != "" && b.URI == "":
		def.Reference = model.DataReference{Type: model.DataStoreReference, DataStoreName: b.DataStore, PathOnDataStore: b.Path}
	default:
		return nil, model.Validationf(b.Name, "exactly one of uri or datastore must be set")
	}

	return def, nil
}

func findHCLFiles(paths []string) ([]string, error) {
	var files []string

	seen := make(map[string]struct{})
	add := func(p string) {
		if _, ok := seen[p]; ok {
			return
		}

		seen[p] = struct{}{}
		files = append(files, p)
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to access %s", path)
		}

		if !info.IsDir() {
			add(path)

			continue
		}

		err = filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if !d.IsDir() && filepath.Ext(p) == ".hcl" {
				add(p)
			}

			return nil
		})
		if err != nil {
			return nil, errors.Wrapf(err, "unable to walk %s", path)
		}
	}

	return files, nil
}
