package model

import "strings"

const (
	// FakeOutputPrefix marks synthetic output ports that carry no real data.
	FakeOutputPrefix = "_fake_output_"
	// DirectoryDataTypeID is the only data type treated as a directory output.
	DirectoryDataTypeID = "AnyDirectory"
	// FileDataTypeID is the generic file data type.
	FileDataTypeID = "AnyFile"
	// DataSourceOutputName is the name of the single output port of a DataSource node.
	DataSourceOutputName = "output"
)

// ParamType is the closed set of scalar parameter types understood by the backend.
// The numeric values are the wire codes.
type ParamType int

const (
	ParamInt          ParamType = 0
	ParamDouble       ParamType = 1
	ParamBool         ParamType = 2
	ParamString       ParamType = 3
	ParamUnidentified ParamType = 4
)

func (t ParamType) String() string {
	switch t {
	case ParamInt:
		return "Int"
	case ParamDouble:
		return "Double"
	case ParamBool:
		return "Bool"
	case ParamString:
		return "String"
	default:
		return "Unidentified"
	}
}

// InputPortDef declares an input port of a module.
type InputPortDef struct {
	Name       string
	Label      string
	DataTypes  []string
	IsOptional bool
}

// IsSentinel reports whether the port is a synthetic ordering-only port.
func (d InputPortDef) IsSentinel() bool {
	return strings.HasPrefix(d.Name, FakeOutputPrefix)
}

// OutputPortDef declares an output port of a module.
type OutputPortDef struct {
	Name     string
	Label    string
	DataType string
	// PassThroughInputName names an input whose data is forwarded unchanged.
	PassThroughInputName string
}

// IsSentinel reports whether the port is a synthetic "no real output" port.
func (d OutputPortDef) IsSentinel() bool {
	return strings.HasPrefix(d.Name, FakeOutputPrefix)
}

// IsDirectory reports whether the port produces a directory rather than a file.
// Only DirectoryDataTypeID qualifies.
func (d OutputPortDef) IsDirectory() bool {
	return d.DataType == DirectoryDataTypeID
}

// ParamDef declares a module parameter. Default may be a *PipelineParameter, in which case its
// own default is what the backend sees.
type ParamDef struct {
	Name        string
	Type        ParamType
	Default     any
	IsOptional  bool
	Description string
}

// ModuleDef is a reusable computation step definition.
type ModuleDef struct {
	// ID is the backend entity id, set once the definition is registered.
	ID string
	// Fingerprint is an opaque content hash used to reuse an existing entity.
	Fingerprint string

	Name            string
	Description     string
	Category        string
	Version         string
	IsDeterministic bool

	Inputs         []InputPortDef
	Outputs        []OutputPortDef
	Params         []ParamDef
	MetadataParams []ParamDef
}

// Param returns the parameter definition called name, whether it is a metadata parameter,
// and whether it exists at all.
func (d *ModuleDef) Param(name string) (def ParamDef, metadata, ok bool) {
	for _, p := range d.Params {
		if p.Name == name {
			return p, false, true
		}
	}

	for _, p := range d.MetadataParams {
		if p.Name == name {
			return p, true, true
		}
	}

	return ParamDef{}, false, false
}

// DataReferenceType tags the variant of a DataReference.
type DataReferenceType string

const (
	DataStoreReference DataReferenceType = "DataStore"
	URIReference       DataReferenceType = "Uri"
)

// DataReference locates externally stored data.
type DataReference struct {
	Type DataReferenceType

	// DataStore variant.
	DataStoreName   string
	PathOnDataStore string

	// Uri variant.
	URI string
}

// DataSourceDef is a reference to external data usable as a graph input.
type DataSourceDef struct {
	ID          string
	Fingerprint string

	Name        string
	Description string
	DataTypeID  string
	Reference   DataReference
}
