// internal/workers/disposition/discover-partners/validation.go
package discoverpartners

import (
	commonerrors "disposition-engine/internal/common/errors"
	"disposition-engine/internal/common/validation"
)

// validateInput runs the structural schema over the raw job variables
// before they are decoded. Schema violations become INVALID_SCENARIO, a
// non-retryable BPMN error.
func validateInput(rawVariables []byte) error {
	result, err := validation.ValidateScenarioRequest(rawVariables)
	if err != nil {
		return commonerrors.NewParseError(err)
	}
	if !result.Valid {
		return commonerrors.NewInvalidScenarioError(result.Describe())
	}
	return nil
}
