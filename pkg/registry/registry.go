// pkg/registry/registry.go

// Package registry loads and validates the activity catalog that documents
// which Zeebe task types this service implements.
package registry

import (
	"encoding/json"
	"fmt"
	"os"
)

// Load reads and validates an activity registry from disk.
func Load(path string) (*ActivityRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read activity registry: %w", err)
	}

	var reg ActivityRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("failed to parse activity registry: %w", err)
	}

	if err := reg.Validate(); err != nil {
		return nil, err
	}
	return &reg, nil
}

// Validate checks the structural invariants of the catalog: required
// fields present and task types unique.
func (r *ActivityRegistry) Validate() error {
	if r.Version == "" {
		return fmt.Errorf("activity registry: version is required")
	}
	if len(r.Activities) == 0 {
		return fmt.Errorf("activity registry: at least one activity is required")
	}

	seen := make(map[string]bool, len(r.Activities))
	for i, a := range r.Activities {
		if a.ID == "" {
			return fmt.Errorf("activity registry: activity %d is missing id", i)
		}
		if a.TaskType == "" {
			return fmt.Errorf("activity registry: activity %q is missing taskType", a.ID)
		}
		if seen[a.TaskType] {
			return fmt.Errorf("activity registry: duplicate taskType %q", a.TaskType)
		}
		seen[a.TaskType] = true
	}
	return nil
}

// ByTaskType looks up an activity by its Zeebe task type.
func (r *ActivityRegistry) ByTaskType(taskType string) (*Activity, bool) {
	for i := range r.Activities {
		if r.Activities[i].TaskType == taskType {
			return &r.Activities[i], true
		}
	}
	return nil, false
}

// TaskTypes returns every task type in catalog order.
func (r *ActivityRegistry) TaskTypes() []string {
	out := make([]string, 0, len(r.Activities))
	for _, a := range r.Activities {
		out = append(out, a.TaskType)
	}
	return out
}
