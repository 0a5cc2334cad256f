// internal/models/scenario.go
package models

// Value bands for the scenario's estimated worth.
const (
	ValueBandLow     = "LOW"
	ValueBandMed     = "MED"
	ValueBandHigh    = "HIGH"
	ValueBandUnknown = "UNKNOWN"
)

// Liquidation goals.
const (
	GoalMaximizeValue = "maximize_value"
	GoalBalanced      = "balanced"
	GoalMinEffort     = "min_effort"
)

// Location describes a coarse search location. Coordinates are optional;
// when absent, distance falls back to provider-reported values.
type Location struct {
	City        string   `json:"city"`
	Region      string   `json:"region"`
	CountryCode string   `json:"countryCode"`
	PostalCode  string   `json:"postalCode,omitempty"`
	RadiusMiles int      `json:"radiusMiles,omitempty"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
}

// HasCoordinates reports whether both latitude and longitude are set.
func (l Location) HasCoordinates() bool {
	return l.Latitude != nil && l.Longitude != nil
}

// Scenario describes what is being liquidated and under what constraints.
type Scenario struct {
	Category      string   `json:"category"`
	ValueBand     string   `json:"valueBand,omitempty"`
	Bulky         bool     `json:"bulky,omitempty"`
	Fragile       *bool    `json:"fragile,omitempty"`
	SetMembership string   `json:"setMembership,omitempty"` // NONE|POSSIBLE|CONFIRMED
	Goal          string   `json:"goal,omitempty"`
	Constraints   []string `json:"constraints,omitempty"`

	// Optional matching enrichers.
	BrandHints    []string `json:"brandHints,omitempty"`
	ConditionHint string   `json:"conditionHint,omitempty"` // excellent|good|fair|poor|unknown
	QuantityHint  string   `json:"quantityHint,omitempty"`  // single|multi|set|unknown
}

// Hints carries free-text enrichers from the scenario producer.
type Hints struct {
	Keywords []string `json:"keywords,omitempty"`
	Notes    string   `json:"notes,omitempty"`
}

// ScenarioRequest is the input to a disposition partner search. It is
// immutable once constructed and never persisted by the engine.
type ScenarioRequest struct {
	SchemaVersion int      `json:"schemaVersion"`
	Scope         string   `json:"scope"` // item|set
	ItemID        string   `json:"itemId,omitempty"`
	PlanID        string   `json:"planId,omitempty"`
	ChosenPath    string   `json:"chosenPath"` // A|B|C|DONATE
	Scenario      Scenario `json:"scenario"`
	Location      Location `json:"location"`
	Hints         *Hints   `json:"hints,omitempty"`
}
