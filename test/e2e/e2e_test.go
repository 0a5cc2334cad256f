// test/e2e/e2e_test.go

// End-to-end tests that exercise the full disposition pipeline against the
// real shipped artifacts (configs/disposition_matrix.yaml and
// configs/activity_registry.json) using an embedded Redis and the stub
// search provider. No external infrastructure is required.
package e2e

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"disposition-engine/internal/common/config"
	"disposition-engine/internal/common/logger"
	"disposition-engine/internal/engine"
	"disposition-engine/internal/engine/discovery"
	"disposition-engine/internal/engine/policy"
	"disposition-engine/internal/engine/provider"
	"disposition-engine/internal/models"
	"disposition-engine/pkg/registry"

	co "disposition-engine/internal/workers/disposition/compose-outreach"
	dp "disposition-engine/internal/workers/disposition/discover-partners"
)

// ==========================
// Test Harness
// ==========================

type harness struct {
	discover *dp.Handler
	compose  *co.Handler
	stub     *provider.StubProvider
	store    *policy.Store
	registry *registry.ActivityRegistry
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	cfg, err := config.LoadFromFile("../../configs/config.yaml")
	require.NoError(t, err, "shipped config must load")

	store, err := policy.NewStore("../../configs/disposition_matrix.yaml")
	require.NoError(t, err, "shipped disposition matrix must load")

	reg, err := registry.Load("../../configs/activity_registry.json")
	require.NoError(t, err, "shipped activity registry must load")

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	log := logger.NewTestLogger(t)
	stub := provider.NewStubProvider()
	cache := discovery.NewCandidateCache(client, 15*time.Minute, log)
	resolver := discovery.NewResolver(stub, cache, log, &cfg.Discovery)
	eng := engine.New(store, resolver, nil, log)

	return &harness{
		discover: dp.NewHandler(dp.LoadConfig(cfg), eng, log),
		compose:  co.NewHandler(co.LoadConfig(cfg), log),
		stub:     stub,
		store:    store,
		registry: reg,
	}
}

func scenarioRequest(mutate func(*models.ScenarioRequest)) models.ScenarioRequest {
	req := models.ScenarioRequest{
		SchemaVersion: 1,
		Scope:         "item",
		ItemID:        "item-e2e-1",
		ChosenPath:    "B",
		Scenario: models.Scenario{
			Category:  "furniture",
			ValueBand: models.ValueBandMed,
			Bulky:     true,
			Goal:      models.GoalBalanced,
		},
		Location: models.Location{
			City:        "Boise",
			Region:      "ID",
			CountryCode: "US",
		},
	}
	if mutate != nil {
		mutate(&req)
	}
	return req
}

// ==========================
// Registry / Artifact Consistency
// ==========================

func TestShippedRegistryCoversAllWorkers(t *testing.T) {
	h := newHarness(t)

	for _, taskType := range []string{dp.TaskType, co.TaskType} {
		_, ok := h.registry.ByTaskType(taskType)
		assert.True(t, ok, "registry should document task type %s", taskType)
	}
	assert.Len(t, h.registry.Activities, 2)
}

func TestShippedMatrixHasSearchableFallback(t *testing.T) {
	h := newHarness(t)

	// A scenario nothing targets must still resolve to a usable entry.
	entry := h.store.Match(models.Scenario{Category: "taxidermy", ValueBand: models.ValueBandUnknown})
	require.NotEmpty(t, entry.ID)
	assert.True(t, entry.IsCurated() || len(entry.QueryTemplates) > 0,
		"fallback entry must be curated or searchable")
}

// ==========================
// Discovery Pipeline
// ==========================

func TestDiscoverPartners_FullPipeline(t *testing.T) {
	h := newHarness(t)

	output, err := h.discover.Execute(context.Background(), scenarioRequest(nil))
	require.NoError(t, err)
	require.NotNil(t, output.PartnerDiscovery)

	resp := output.PartnerDiscovery
	assert.Equal(t, 1, resp.SchemaVersion)
	assert.NotEmpty(t, resp.ScenarioID)
	assert.NotEmpty(t, resp.Disclaimer)
	assert.Equal(t, 30, resp.RecommendedRefreshDays)
	require.NotEmpty(t, resp.Results)
	assert.Contains(t, resp.PartnerTypes, models.PartnerTypeConsignment)

	for _, partner := range resp.Results {
		assert.NotEmpty(t, partner.PartnerID)
		assert.NotEmpty(t, partner.WhyRecommended)
		assert.NotEmpty(t, partner.QuestionsToAsk)
		for _, gate := range partner.Trust.Gates {
			if gate.Mode == "required" {
				assert.Equal(t, models.GateStatusPassed, gate.Status)
			}
		}
	}
}

func TestDiscoverPartners_LuxuryBrandBypassesProvider(t *testing.T) {
	h := newHarness(t)

	req := scenarioRequest(func(r *models.ScenarioRequest) {
		r.Scenario.Category = "handbag"
		r.Scenario.ValueBand = models.ValueBandHigh
		r.Scenario.Bulky = false
		r.Scenario.BrandHints = []string{"Hermes"}
	})

	output, err := h.discover.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 0, h.stub.Calls(), "curated entries must not invoke the search provider")
	require.NotEmpty(t, output.PartnerDiscovery.Results)
	assert.Equal(t, "The RealReal", output.PartnerDiscovery.Results[0].Name)
	assert.Equal(t, "curated", output.PartnerDiscovery.Results[0].Trust.ClaimLevel)
}

func TestDiscoverPartners_RepeatRequestServedFromCache(t *testing.T) {
	h := newHarness(t)
	req := scenarioRequest(nil)

	first, err := h.discover.Execute(context.Background(), req)
	require.NoError(t, err)
	callsAfterFirst := h.stub.Calls()
	require.Greater(t, callsAfterFirst, 0)

	second, err := h.discover.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, callsAfterFirst, h.stub.Calls(), "repeat request must be served from cache")
	require.Equal(t, len(first.PartnerDiscovery.Results), len(second.PartnerDiscovery.Results))
	for i := range first.PartnerDiscovery.Results {
		assert.Equal(t, first.PartnerDiscovery.Results[i].PartnerID, second.PartnerDiscovery.Results[i].PartnerID)
	}
}

// ==========================
// Discovery → Outreach Handoff
// ==========================

func TestDiscoverThenComposeOutreach(t *testing.T) {
	h := newHarness(t)

	discovered, err := h.discover.Execute(context.Background(), scenarioRequest(nil))
	require.NoError(t, err)
	require.NotEmpty(t, discovered.PartnerDiscovery.Results)

	top := discovered.PartnerDiscovery.Results[0]
	outreachReq := models.OutreachComposeRequest{
		SchemaVersion: 1,
		Scope:         "item",
		ItemID:        "item-e2e-1",
		Partner: models.OutreachPartner{
			PartnerID:   top.PartnerID,
			Name:        top.Name,
			PartnerType: top.PartnerType,
			Contact:     top.Contact,
		},
		ItemSummary: models.ItemSummary{
			Title:    "Mid-century walnut dresser",
			Category: "furniture",
		},
		Location: models.Location{City: "Boise", Region: "ID"},
	}

	composed, err := h.compose.Execute(context.Background(), outreachReq)
	require.NoError(t, err)
	require.NotNil(t, composed.OutreachPacket)

	packet := composed.OutreachPacket
	assert.NotEmpty(t, packet.Subject)
	assert.Contains(t, packet.EmailBody, top.Name)
	assert.NotEmpty(t, packet.Attachments)
	assert.NotEmpty(t, packet.Instructions)
}
