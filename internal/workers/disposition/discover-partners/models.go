// internal/workers/disposition/discover-partners/models.go
package discoverpartners

import "disposition-engine/internal/models"

// Input is the scenario request carried in the job variables.
type Input struct {
	models.ScenarioRequest
}

// Output is written back into the process instance on completion.
type Output struct {
	PartnerDiscovery *models.SearchResponse `json:"partnerDiscovery"`
}
