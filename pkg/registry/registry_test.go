// pkg/registry/registry_test.go
package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func writeRegistry(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "activity_registry.json")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

const validRegistryJSON = `{
  "version": "1.0.0",
  "lastUpdated": "2026-08-18",
  "activities": [
    {
      "id": "discover-partners",
      "displayName": "Discover Disposition Partners",
      "taskType": "discover-partners",
      "outputVariables": ["partnerDiscovery"],
      "errorCodes": ["INVALID_SCENARIO"],
      "timeoutMs": 30000
    },
    {
      "id": "compose-outreach",
      "displayName": "Compose Partner Outreach",
      "taskType": "compose-outreach",
      "outputVariables": ["outreachPacket"],
      "timeoutMs": 10000
    }
  ]
}`

// ==========================
// Load Tests
// ==========================

func TestLoad_ValidRegistry(t *testing.T) {
	path := writeRegistry(t, validRegistryJSON)

	reg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "1.0.0", reg.Version)
	assert.Equal(t, []string{"discover-partners", "compose-outreach"}, reg.TaskTypes())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}

func TestLoad_MalformedJSON(t *testing.T) {
	path := writeRegistry(t, `{"version": "1.0.0", "activities": [`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse")
}

// ==========================
// Validation Tests
// ==========================

func TestValidate_Failures(t *testing.T) {
	tests := []struct {
		name     string
		registry ActivityRegistry
		contains string
	}{
		{
			"missing version",
			ActivityRegistry{Activities: []Activity{{ID: "a", TaskType: "a"}}},
			"version",
		},
		{
			"no activities",
			ActivityRegistry{Version: "1.0.0"},
			"at least one",
		},
		{
			"missing task type",
			ActivityRegistry{Version: "1.0.0", Activities: []Activity{{ID: "a"}}},
			"taskType",
		},
		{
			"duplicate task type",
			ActivityRegistry{Version: "1.0.0", Activities: []Activity{
				{ID: "a", TaskType: "same"},
				{ID: "b", TaskType: "same"},
			}},
			"duplicate",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.registry.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

// ==========================
// Lookup Tests
// ==========================

func TestByTaskType(t *testing.T) {
	path := writeRegistry(t, validRegistryJSON)
	reg, err := Load(path)
	require.NoError(t, err)

	activity, ok := reg.ByTaskType("compose-outreach")
	require.True(t, ok)
	assert.Equal(t, "Compose Partner Outreach", activity.DisplayName)

	_, ok = reg.ByTaskType("unknown-task")
	assert.False(t, ok)
}
