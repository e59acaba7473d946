package wire

// CreateRunRequest creates an unsubmitted pipeline run.
type CreateRunRequest struct {
	ExperimentName       string              `json:"experimentName"`
	Description          string              `json:"description,omitempty"`
	Graph                GraphEntity         `json:"graph"`
	Interface            EntityInterface     `json:"graphInterface"`
	ParameterAssignments map[string]string   `json:"parameterAssignments"`
	DataPathAssignments  map[string]DataPath `json:"dataPathAssignments"`
}

// RunStatus is the backend lifecycle state of a run.
type RunStatus string

const (
	NotStarted RunStatus = "NotStarted"
	Queued     RunStatus = "Queued"
)

// Run is a pipeline run record.
type Run struct {
	ID             string    `json:"id"`
	ExperimentName string    `json:"experimentName"`
	Status         RunStatus `json:"status"`
}

// RunGraph is what the backend returns for a previously submitted run: its graph plus the
// metadata needed to rebuild it.
type RunGraph struct {
	RunID                string              `json:"runId"`
	Graph                GraphEntity         `json:"graph"`
	Interface            EntityInterface     `json:"graphInterface"`
	ParameterAssignments map[string]string   `json:"parameterAssignments"`
	DataPathAssignments  map[string]DataPath `json:"dataPathAssignments"`
}

// PublishRequest publishes a graph without running it.
type PublishRequest struct {
	Name                 string              `json:"name"`
	Description          string              `json:"description,omitempty"`
	Version              string              `json:"version,omitempty"`
	Graph                GraphEntity         `json:"graph"`
	Interface            EntityInterface     `json:"graphInterface"`
	ParameterAssignments map[string]string   `json:"parameterAssignments"`
	DataPathAssignments  map[string]DataPath `json:"dataPathAssignments"`
}

// PublishedPipeline is a published pipeline record.
type PublishedPipeline struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
}
