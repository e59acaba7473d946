package model

import (
	"slices"
)

// Node is a graph node. It is implemented by *Module and *DataSource only; a type switch over
// those two cases is exhaustive.
type Node interface {
	ID() string
	Name() string
	// Outputs lists the output ports of the node in declaration order.
	Outputs() []*OutputPort

	sealed()
}

// InputPort is an input of a module node.
type InputPort struct {
	node Node
	def  InputPortDef
}

func (p *InputPort) Node() Node          { return p.node }
func (p *InputPort) Name() string        { return p.def.Name }
func (p *InputPort) Def() InputPortDef   { return p.def }
func (p *InputPort) DataTypes() []string { return p.def.DataTypes }
func (p *InputPort) String() string      { return p.node.ID() + "." + p.def.Name }

// Accepts reports whether data of dataType can be connected to the port. Ports that declare no
// data type accept anything.
func (p *InputPort) Accepts(dataType string) bool {
	if len(p.def.DataTypes) == 0 || dataType == "" {
		return true
	}

	return slices.Contains(p.def.DataTypes, dataType)
}

// OutputPort is an output of a module or datasource node.
type OutputPort struct {
	node Node
	def  OutputPortDef

	// DataStoreName is where the backend stores the output. Empty means the workspace default.
	DataStoreName string
}

func (p *OutputPort) Node() Node         { return p.node }
func (p *OutputPort) Name() string       { return p.def.Name }
func (p *OutputPort) Def() OutputPortDef { return p.def }
func (p *OutputPort) DataType() string   { return p.def.DataType }
func (p *OutputPort) IsSentinel() bool   { return p.def.IsSentinel() }
func (p *OutputPort) IsDirectory() bool  { return p.def.IsDirectory() }
func (p *OutputPort) String() string     { return p.node.ID() + "." + p.def.Name }

// ParameterValue is a module parameter together with its current value.
type ParameterValue struct {
	Def      ParamDef
	Metadata bool
	// Value is a literal or a *PipelineParameter.
	Value any
}

// Module is a node running a module definition.
type Module struct {
	id      string
	def     *ModuleDef
	inputs  []*InputPort
	outputs []*OutputPort
	values  map[string]any
}

func newModule(id string, def *ModuleDef) (*Module, error) {
	mod := &Module{
		id:     id,
		def:    def,
		values: make(map[string]any),
	}

	seen := make(map[string]struct{})

	for _, in := range def.Inputs {
		if _, ok := seen[in.Name]; ok {
			return nil, Validationf(in.Name, "duplicate port in module %q", def.Name)
		}

		seen[in.Name] = struct{}{}
		mod.inputs = append(mod.inputs, &InputPort{node: mod, def: in})
	}

	for _, out := range def.Outputs {
		if _, ok := seen[out.Name]; ok {
			return nil, Validationf(out.Name, "duplicate port in module %q", def.Name)
		}

		seen[out.Name] = struct{}{}
		mod.outputs = append(mod.outputs, &OutputPort{node: mod, def: out})
	}

	for _, p := range append(append([]ParamDef(nil), def.Params...), def.MetadataParams...) {
		if _, ok := mod.values[p.Name]; ok {
			return nil, Validationf(p.Name, "duplicate parameter in module %q", def.Name)
		}

		mod.values[p.Name] = p.Default
	}

	return mod, nil
}

func (m *Module) ID() string             { return m.id }
func (m *Module) Name() string           { return m.def.Name }
func (m *Module) Def() *ModuleDef        { return m.def }
func (m *Module) Inputs() []*InputPort   { return m.inputs }
func (m *Module) Outputs() []*OutputPort { return m.outputs }
func (*Module) sealed()                  {}

// Input returns the input port called name.
func (m *Module) Input(name string) (*InputPort, bool) {
	for _, p := range m.inputs {
		if p.Name() == name {
			return p, true
		}
	}

	return nil, false
}

// Output returns the output port called name.
func (m *Module) Output(name string) (*OutputPort, bool) {
	for _, p := range m.outputs {
		if p.Name() == name {
			return p, true
		}
	}

	return nil, false
}

// SetParameter assigns a literal or a *PipelineParameter to the parameter called name.
func (m *Module) SetParameter(name string, value any) error {
	if _, _, ok := m.def.Param(name); !ok {
		return Validationf(name, "module %q has no such parameter", m.def.Name)
	}

	m.values[name] = value

	return nil
}

// Parameter returns the current value of the parameter called name.
func (m *Module) Parameter(name string) (any, bool) {
	v, ok := m.values[name]

	return v, ok
}

// Parameters returns ordinary parameters followed by metadata parameters, in declaration order.
func (m *Module) Parameters() []ParameterValue {
	res := make([]ParameterValue, 0, len(m.values))

	for _, p := range m.def.Params {
		res = append(res, ParameterValue{Def: p, Value: m.values[p.Name]})
	}

	for _, p := range m.def.MetadataParams {
		res = append(res, ParameterValue{Def: p, Metadata: true, Value: m.values[p.Name]})
	}

	return res
}

// DataSource is a node exposing external data through a single output port.
type DataSource struct {
	id     string
	def    *DataSourceDef
	output *OutputPort
}

func newDataSource(id string, def *DataSourceDef) *DataSource {
	ds := &DataSource{id: id, def: def}
	ds.output = &OutputPort{node: ds, def: OutputPortDef{Name: DataSourceOutputName, DataType: def.DataTypeID}}

	return ds
}

func (d *DataSource) ID() string             { return d.id }
func (d *DataSource) Name() string           { return d.def.Name }
func (d *DataSource) Def() *DataSourceDef    { return d.def }
func (d *DataSource) Output() *OutputPort    { return d.output }
func (d *DataSource) Outputs() []*OutputPort { return []*OutputPort{d.output} }
func (*DataSource) sealed()                  {}

var (
	_ Node = (*Module)(nil)
	_ Node = (*DataSource)(nil)
)
