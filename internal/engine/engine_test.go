// internal/engine/engine_test.go
package engine

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"disposition-engine/internal/common/config"
	commonerrors "disposition-engine/internal/common/errors"
	"disposition-engine/internal/common/logger"
	"disposition-engine/internal/common/observability"
	"disposition-engine/internal/engine/discovery"
	"disposition-engine/internal/engine/policy"
	"disposition-engine/internal/engine/provider"
	"disposition-engine/internal/models"
)

// ==========================================================================
// TEST HELPERS
// ==========================================================================

func boolPtr(v bool) *bool { return &v }

func testMatrix() *policy.Matrix {
	return &policy.Matrix{
		Version: 1,
		Entries: []models.PolicyEntry{
			{
				ID:          "bulky-furniture-consignment",
				Priority:    10,
				Match:       models.MatchPredicate{Category: "furniture", Bulky: boolPtr(true)},
				PartnerType: models.PartnerTypeConsignment,
				QueryTemplates: []string{
					"furniture consignment {city} {region}",
					"used furniture store {city}",
				},
				RequiredGates: []models.TrustGate{
					{ID: "offers-pickup", Keywords: []string{"pickup", "delivery", "we haul"}},
				},
				BoostGates: []models.TrustGate{
					{ID: "insured", Keywords: []string{"insured"}, Weight: 0.2},
				},
				Weights:    models.RankingWeights{Trust: 0.35, Relevance: 0.25, Distance: 0.25, Review: 0.15},
				MaxResults: 5,
				Questions:  []string{"What is your commission split?"},
			},
			{
				ID:          "luxury-brand-mailin",
				Priority:    5,
				Match:       models.MatchPredicate{Category: "*", Brands: []string{"gucci", "hermes", "chanel", "rolex"}},
				PartnerType: models.PartnerTypeLuxuryMailin,
				Curated: []models.CuratedPartner{
					{Name: "The RealReal", Website: "https://www.therealreal.com", TrustScore: 0.95, Notes: "Authenticated luxury consignment with insured mail-in."},
					{Name: "Fashionphile", Website: "https://www.fashionphile.com", TrustScore: 0.9},
				},
			},
		},
	}
}

type engineFixture struct {
	engine *Engine
	stub   *provider.StubProvider
}

func newTestEngine(t *testing.T) *engineFixture {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	cfg := &config.DiscoveryConfig{
		RadiusLadderMiles: []int{25, 50, 100},
		MinCandidates:     3,
		MaxConcurrency:    4,
		CacheTTL:          900,
	}
	cfg.Places.Timeout = 2000

	log := logger.NewTestLogger(t)
	stub := provider.NewStubProvider()
	cache := discovery.NewCandidateCache(client, 15*time.Minute, log)
	resolver := discovery.NewResolver(stub, cache, log, cfg)
	store := policy.NewStoreFromMatrix(testMatrix())

	return &engineFixture{
		engine: New(store, resolver, observability.New("engine-test"), log),
		stub:   stub,
	}
}

func furnitureRequest() models.ScenarioRequest {
	return models.ScenarioRequest{
		SchemaVersion: 1,
		ChosenPath:    "B",
		Scenario: models.Scenario{
			Category:  "furniture",
			ValueBand: models.ValueBandMed,
			Bulky:     true,
			Goal:      models.GoalBalanced,
		},
		Location: models.Location{City: "Boise", Region: "ID"},
	}
}

// ==========================================================================
// END-TO-END SEARCH
// ==========================================================================

func TestSearch_BulkyFurnitureRoutesToConsignment(t *testing.T) {
	fx := newTestEngine(t)

	resp, err := fx.engine.Search(context.Background(), furnitureRequest())
	require.NoError(t, err)

	assert.Equal(t, 1, resp.SchemaVersion)
	assert.Equal(t, []string{models.PartnerTypeConsignment}, resp.PartnerTypes)
	assert.NotEmpty(t, resp.ScenarioID)
	assert.NotEmpty(t, resp.Disclaimer)
	assert.Equal(t, 30, resp.RecommendedRefreshDays)

	require.NotEmpty(t, resp.Results)
	for _, r := range resp.Results {
		assert.Equal(t, models.PartnerTypeConsignment, r.PartnerType)
		assert.NotEmpty(t, r.WhyRecommended)
		assert.Equal(t, []string{"What is your commission split?"}, r.QuestionsToAsk)
		// Only candidates that cleared the pickup gate may appear.
		for _, gate := range r.Trust.Gates {
			if gate.Mode == models.GateModeRequired {
				assert.Equal(t, models.GateStatusPassed, gate.Status)
			}
		}
	}
	assert.Positive(t, fx.stub.Calls())
}

func TestSearch_BrandHintBypassesProviderEntirely(t *testing.T) {
	fx := newTestEngine(t)

	req := furnitureRequest()
	req.Scenario.Category = "handbag"
	req.Scenario.Bulky = false
	req.Scenario.BrandHints = []string{"Gucci"}

	resp, err := fx.engine.Search(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 0, fx.stub.Calls(), "curated channels must not touch the provider")
	assert.Equal(t, []string{models.PartnerTypeLuxuryMailin}, resp.PartnerTypes)
	require.Len(t, resp.Results, 2)

	first := resp.Results[0]
	assert.Equal(t, "The RealReal", first.Name)
	assert.Equal(t, "curated", first.Trust.ClaimLevel)
	assert.InDelta(t, 0.95, first.Trust.TrustScore, 0.0001)
	assert.Equal(t, "Authenticated luxury consignment with insured mail-in.", first.WhyRecommended)
	assert.NotEmpty(t, first.QuestionsToAsk)
}

func TestSearch_NovelCategoryFallsBackToDonation(t *testing.T) {
	fx := newTestEngine(t)

	req := furnitureRequest()
	req.Scenario.Category = "taxidermy"
	req.Scenario.Bulky = false

	resp, err := fx.engine.Search(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, []string{models.PartnerTypeDonation}, resp.PartnerTypes)
	assert.NotEmpty(t, resp.Results, "the fallback policy must still produce candidates")
}

func TestSearch_RepeatedRequestUsesCache(t *testing.T) {
	fx := newTestEngine(t)

	_, err := fx.engine.Search(context.Background(), furnitureRequest())
	require.NoError(t, err)
	callsAfterFirst := fx.stub.Calls()
	require.Positive(t, callsAfterFirst)

	_, err = fx.engine.Search(context.Background(), furnitureRequest())
	require.NoError(t, err)

	assert.Equal(t, callsAfterFirst, fx.stub.Calls(),
		"an identical request inside the TTL must be served from cache")
}

func TestSearch_InvalidScenarioRejected(t *testing.T) {
	fx := newTestEngine(t)

	tests := []struct {
		name   string
		mutate func(*models.ScenarioRequest)
	}{
		{"missing category", func(r *models.ScenarioRequest) { r.Scenario.Category = "" }},
		{"missing city", func(r *models.ScenarioRequest) { r.Location.City = " " }},
		{"missing region", func(r *models.ScenarioRequest) { r.Location.Region = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := furnitureRequest()
			tt.mutate(&req)

			_, err := fx.engine.Search(context.Background(), req)
			require.Error(t, err)
			assert.Equal(t, commonerrors.ErrCodeInvalidScenario, commonerrors.CodeOf(err))
		})
	}
}

func TestSearch_ResultsAreBounded(t *testing.T) {
	fx := newTestEngine(t)

	resp, err := fx.engine.Search(context.Background(), furnitureRequest())
	require.NoError(t, err)
	assert.LessOrEqual(t, len(resp.Results), 7)
}

func TestSearch_DeterministicOrdering(t *testing.T) {
	fx := newTestEngine(t)

	first, err := fx.engine.Search(context.Background(), furnitureRequest())
	require.NoError(t, err)
	second, err := fx.engine.Search(context.Background(), furnitureRequest())
	require.NoError(t, err)

	require.Equal(t, len(first.Results), len(second.Results))
	for i := range first.Results {
		assert.Equal(t, first.Results[i].PartnerID, second.Results[i].PartnerID)
		assert.Equal(t, first.Results[i].Ranking.Score, second.Results[i].Ranking.Score)
	}
}
