package wire

// ParameterType is the wire code of a scalar parameter type.
type ParameterType int

const (
	IntType          ParameterType = 0
	DoubleType       ParameterType = 1
	BoolType         ParameterType = 2
	StringType       ParameterType = 3
	UnidentifiedType ParameterType = 4
)

// EntityInterface declares the parameters a graph accepts at submission time.
type EntityInterface struct {
	Parameters         []Parameter         `json:"parameters"`
	DataPathParameters []DataPathParameter `json:"dataPathParameters"`
}

// Parameter is a typed scalar graph parameter. DefaultValue is the string form of the default.
type Parameter struct {
	Name         string        `json:"name"`
	Type         ParameterType `json:"type"`
	DefaultValue string        `json:"defaultValue"`
	IsOptional   bool          `json:"isOptional"`
}

// DataPath locates data on a datastore.
type DataPath struct {
	DataStoreName string `json:"dataStoreName"`
	RelativePath  string `json:"relativePath"`
}

// DataPathParameter is a structural graph parameter holding a data path.
type DataPathParameter struct {
	Name         string    `json:"name"`
	DefaultValue *DataPath `json:"defaultValue,omitempty"`
	IsOptional   bool      `json:"isOptional"`
}
