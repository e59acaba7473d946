package wire

// ValueType says how a ParameterAssignment value is interpreted.
type ValueType int

const (
	// LiteralValue means Value is the parameter value itself.
	LiteralValue ValueType = 0
	// GraphParameterName means Value names a graph-level pipeline parameter.
	GraphParameterName ValueType = 1
)

// GraphEntity is the backend representation of a pipeline graph.
type GraphEntity struct {
	ModuleNodes  []ModuleNode  `json:"moduleNodes"`
	DatasetNodes []DatasetNode `json:"datasetNodes"`
	Edges        []Edge        `json:"edges"`
}

// ModuleNode runs a registered module.
type ModuleNode struct {
	ID                       string                `json:"id"`
	ModuleID                 string                `json:"moduleId"`
	Comment                  string                `json:"comment,omitempty"`
	ModuleParameters         []ParameterAssignment `json:"moduleParameters"`
	ModuleMetadataParameters []ParameterAssignment `json:"moduleMetadataParameters"`
	ModuleOutputSettings     []OutputSetting       `json:"moduleOutputSettings"`
}

// DatasetNode exposes a registered datasource.
type DatasetNode struct {
	ID        string `json:"id"`
	DatasetID string `json:"datasetId"`
}

// ParameterAssignment assigns a module parameter.
type ParameterAssignment struct {
	Name      string    `json:"name"`
	Value     string    `json:"value"`
	ValueType ValueType `json:"valueType"`
}

// DataStoreMode says how the backend materialises an output.
type DataStoreMode string

const (
	MountMode  DataStoreMode = "Mount"
	UploadMode DataStoreMode = "Upload"
)

// OutputSetting configures where a module output is stored.
type OutputSetting struct {
	Name          string        `json:"name"`
	DataTypeID    string        `json:"dataTypeId,omitempty"`
	DataStoreName string        `json:"dataStoreName,omitempty"`
	DataStoreMode DataStoreMode `json:"dataStoreMode"`
	PathOnCompute string        `json:"pathOnCompute,omitempty"`
}

// PortRef references a port. On a destination at most one of NodeID and GraphPortName is set.
type PortRef struct {
	NodeID        string `json:"nodeId,omitempty"`
	PortName      string `json:"portName,omitempty"`
	GraphPortName string `json:"graphPortName,omitempty"`
}

// IsGraphSink reports whether the reference points at a pipeline-level output.
func (r PortRef) IsGraphSink() bool {
	return r.GraphPortName != "" && r.NodeID == ""
}

// Edge connects two ports.
type Edge struct {
	SourceOutputPort     PortRef `json:"sourceOutputPort"`
	DestinationInputPort PortRef `json:"destinationInputPort"`
}
