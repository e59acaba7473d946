package model

import "fmt"

// PipelineParameter is a named value supplied at submission time. Used as a module parameter
// value it is a deferred reference: the node reads the pipeline parameter instead of a literal.
type PipelineParameter struct {
	Name string
	// Default is a scalar (int, float64, bool, string) or a DataPath.
	Default any
}

// NewPipelineParameter creates a pipeline parameter with a default value.
func NewPipelineParameter(name string, def any) *PipelineParameter {
	return &PipelineParameter{Name: name, Default: def}
}

// IsDataPath reports whether the parameter carries a data path rather than a scalar.
func (p *PipelineParameter) IsDataPath() bool {
	_, ok := p.Default.(DataPath)

	return ok
}

func (p *PipelineParameter) String() string {
	return fmt.Sprintf("$%s", p.Name)
}

// DataPath is a structured location on a datastore used as a pipeline parameter value.
type DataPath struct {
	DataStoreName string
	RelativePath  string
}

func (p DataPath) String() string {
	return p.DataStoreName + ":" + p.RelativePath
}

// Unwrap resolves a deferred pipeline parameter reference to its default value. Other values
// are returned unchanged.
func Unwrap(v any) any {
	if p, ok := v.(*PipelineParameter); ok {
		return p.Default
	}

	return v
}
