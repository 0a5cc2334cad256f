// internal/common/validation/scenario.go
package validation

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// scenarioRequestSchema is the structural contract for incoming scenario
// requests. Business policy beyond this shape is left to the matcher.
const scenarioRequestSchema = `{
  "type": "object",
  "required": ["chosenPath", "scenario", "location"],
  "properties": {
    "schemaVersion": {"type": "integer", "minimum": 1},
    "scope": {"type": "string", "enum": ["item", "set"]},
    "itemId": {"type": "string"},
    "planId": {"type": "string"},
    "chosenPath": {"type": "string", "enum": ["A", "B", "C", "DONATE"]},
    "scenario": {
      "type": "object",
      "required": ["category"],
      "properties": {
        "category": {"type": "string", "minLength": 1},
        "valueBand": {"type": "string", "enum": ["LOW", "MED", "HIGH", "UNKNOWN"]},
        "bulky": {"type": "boolean"},
        "fragile": {"type": "boolean"},
        "setMembership": {"type": "string", "enum": ["NONE", "POSSIBLE", "CONFIRMED"]},
        "goal": {"type": "string", "enum": ["maximize_value", "balanced", "min_effort"]},
        "constraints": {"type": "array", "items": {"type": "string"}},
        "brandHints": {"type": "array", "items": {"type": "string"}},
        "conditionHint": {"type": "string"},
        "quantityHint": {"type": "string"}
      }
    },
    "location": {
      "type": "object",
      "required": ["city", "region"],
      "properties": {
        "city": {"type": "string", "minLength": 1},
        "region": {"type": "string", "minLength": 1},
        "countryCode": {"type": "string"},
        "postalCode": {"type": "string"},
        "radiusMiles": {"type": "integer", "minimum": 1, "maximum": 500},
        "latitude": {"type": "number", "minimum": -90, "maximum": 90},
        "longitude": {"type": "number", "minimum": -180, "maximum": 180}
      }
    },
    "hints": {
      "type": "object",
      "properties": {
        "keywords": {"type": "array", "items": {"type": "string"}},
        "notes": {"type": "string"}
      }
    }
  }
}`

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// Describe flattens the errors into a single human-readable string.
func (r *ValidationResult) Describe() string {
	if r.Valid {
		return ""
	}
	out := ""
	for i, e := range r.Errors {
		if i > 0 {
			out += "; "
		}
		out += fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return out
}

// ValidateScenarioRequest checks raw scenario request JSON against the
// structural schema before it is decoded into models.ScenarioRequest.
func ValidateScenarioRequest(rawJSON []byte) (*ValidationResult, error) {
	schemaLoader := gojsonschema.NewStringLoader(scenarioRequestSchema)
	documentLoader := gojsonschema.NewBytesLoader(rawJSON)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return nil, fmt.Errorf("schema validation failed to run: %w", err)
	}

	if result.Valid() {
		return &ValidationResult{Valid: true}, nil
	}

	out := &ValidationResult{Valid: false}
	for _, desc := range result.Errors() {
		out.Errors = append(out.Errors, ValidationError{
			Field:   desc.Field(),
			Message: desc.Description(),
		})
	}
	return out, nil
}
