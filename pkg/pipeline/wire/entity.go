package wire

// StructuredInput is an input port in a module's structured interface.
type StructuredInput struct {
	Name           string   `json:"name"`
	Label          string   `json:"label,omitempty"`
	DataTypeIDs    []string `json:"dataTypeIdsList"`
	IsOptional     bool     `json:"isOptional"`
	SkipProcessing bool     `json:"skipProcessing"`
}

// StructuredOutput is an output port in a module's structured interface.
type StructuredOutput struct {
	Name                         string `json:"name"`
	Label                        string `json:"label,omitempty"`
	DataTypeID                   string `json:"dataTypeId"`
	PassThroughDataTypeInputName string `json:"passThroughDataTypeInputName,omitempty"`
	SkipProcessing               bool   `json:"skipProcessing"`
}

// StructuredParameter is a parameter in a module's structured interface.
type StructuredParameter struct {
	Name          string        `json:"name"`
	ParameterType ParameterType `json:"parameterType"`
	DefaultValue  string        `json:"defaultValue,omitempty"`
	IsOptional    bool          `json:"isOptional"`
	Description   string        `json:"description,omitempty"`
}

// StructuredInterface describes a module's ports and parameters.
type StructuredInterface struct {
	Inputs             []StructuredInput     `json:"inputs"`
	Outputs            []StructuredOutput    `json:"outputs"`
	Parameters         []StructuredParameter `json:"parameters"`
	MetadataParameters []StructuredParameter `json:"metadataParameters"`
}

// InterfacePort is a port of a module's abstract interface.
type InterfacePort struct {
	Name        string   `json:"name"`
	DataTypeIDs []string `json:"dataTypeIds"`
	IsOptional  bool     `json:"isOptional"`
}

// ModuleInterface is the abstract port interface the backend keeps next to the structured one.
type ModuleInterface struct {
	InputPorts  []InterfacePort `json:"inputPorts"`
	OutputPorts []InterfacePort `json:"outputPorts"`
}

// ModuleCreationInfo is sent to create a module entity.
type ModuleCreationInfo struct {
	Name                string              `json:"name"`
	Description         string              `json:"description,omitempty"`
	Category            string              `json:"category,omitempty"`
	Version             string              `json:"version,omitempty"`
	IsDeterministic     bool                `json:"isDeterministic"`
	Identifier          string              `json:"identifierHash"`
	StructuredInterface StructuredInterface `json:"structuredInterface"`
}

// ModuleEntity is a registered module.
type ModuleEntity struct {
	ID                  string              `json:"id"`
	Name                string              `json:"name"`
	Description         string              `json:"description,omitempty"`
	Category            string              `json:"category,omitempty"`
	Version             string              `json:"version,omitempty"`
	IsDeterministic     bool                `json:"isDeterministic"`
	Identifier          string              `json:"identifierHash"`
	StructuredInterface StructuredInterface `json:"structuredInterface"`
	Interface           *ModuleInterface    `json:"interface,omitempty"`
}

// DataReferenceType tags a DataReference variant.
type DataReferenceType string

const (
	DataStoreReferenceType DataReferenceType = "DataStore"
	URIReferenceType       DataReferenceType = "Uri"
)

// DataStoreReference locates data on a datastore.
type DataStoreReference struct {
	DataStoreName string `json:"dataStoreName"`
	Path          string `json:"path"`
}

// URIReference locates data by URI.
type URIReference struct {
	URI string `json:"uri"`
}

// DataReference is a tagged variant; only the member matching Type is set.
type DataReference struct {
	Type               DataReferenceType   `json:"dataReferenceType"`
	DataStoreReference *DataStoreReference `json:"dataStoreReference,omitempty"`
	URIReference       *URIReference       `json:"uriReference,omitempty"`
}

// DataSourceCreationInfo is sent to create a datasource entity.
type DataSourceCreationInfo struct {
	Name          string        `json:"name"`
	Description   string        `json:"description,omitempty"`
	DataTypeID    string        `json:"dataTypeId"`
	Identifier    string        `json:"identifierHash"`
	DataReference DataReference `json:"dataLocation"`
}

// DataSourceEntity is a registered datasource.
type DataSourceEntity struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Description   string        `json:"description,omitempty"`
	DataTypeID    string        `json:"dataTypeId"`
	Identifier    string        `json:"identifierHash"`
	DataReference DataReference `json:"dataLocation"`
}
