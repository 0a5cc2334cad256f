// pkg/registry/schema.go
package registry

// ActivityRegistry is the machine-readable catalog of job worker
// activities this service implements. BPMN modelers and workflow tooling
// consume it to discover task types, variable contracts, and error codes.
type ActivityRegistry struct {
	Version     string     `json:"version"`
	LastUpdated string     `json:"lastUpdated"`
	Activities  []Activity `json:"activities"`
}

// Activity describes a single service task implementation.
type Activity struct {
	ID          string   `json:"id"`
	DisplayName string   `json:"displayName"`
	Description string   `json:"description"`
	TaskType    string   `json:"taskType"`
	InputVars   []string `json:"inputVariables"`
	OutputVars  []string `json:"outputVariables"`
	ErrorCodes  []string `json:"errorCodes"`
	TimeoutMs   int      `json:"timeoutMs"`
	MaxRetries  int      `json:"maxRetries"`
	Workflows   []string `json:"workflows"`
	Tags        []string `json:"tags"`
}
