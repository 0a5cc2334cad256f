// internal/engine/policy/matcher_test.go
package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"disposition-engine/internal/models"
)

// ==========================================================================
// TEST HELPERS
// ==========================================================================

func boolPtr(v bool) *bool { return &v }

func storeWith(entries ...models.PolicyEntry) *Store {
	return NewStoreFromMatrix(&Matrix{Version: 1, Entries: entries})
}

// ==========================================================================
// MATCHING
// ==========================================================================

func TestMatch_LowestPriorityWins(t *testing.T) {
	store := storeWith(
		models.PolicyEntry{ID: "general", Priority: 50, Match: models.MatchPredicate{Category: "furniture"}, PartnerType: models.PartnerTypeDonation},
		models.PolicyEntry{ID: "specific", Priority: 10, Match: models.MatchPredicate{Category: "furniture"}, PartnerType: models.PartnerTypeConsignment},
	)

	entry := store.Match(models.Scenario{Category: "furniture"})
	assert.Equal(t, "specific", entry.ID)
}

func TestMatch_ExactCategoryBeatsWildcardOnTie(t *testing.T) {
	store := storeWith(
		models.PolicyEntry{ID: "anything", Priority: 10, Match: models.MatchPredicate{Category: "*"}, PartnerType: models.PartnerTypeDonation},
		models.PolicyEntry{ID: "exact", Priority: 10, Match: models.MatchPredicate{Category: "furniture"}, PartnerType: models.PartnerTypeConsignment},
	)

	entry := store.Match(models.Scenario{Category: "furniture"})
	assert.Equal(t, "exact", entry.ID)
}

func TestMatch_DeclarationOrderBreaksRemainingTies(t *testing.T) {
	store := storeWith(
		models.PolicyEntry{ID: "first", Priority: 10, Match: models.MatchPredicate{Category: "furniture"}, PartnerType: models.PartnerTypeConsignment},
		models.PolicyEntry{ID: "second", Priority: 10, Match: models.MatchPredicate{Category: "furniture"}, PartnerType: models.PartnerTypeAuction},
	)

	entry := store.Match(models.Scenario{Category: "furniture"})
	assert.Equal(t, "first", entry.ID)
}

func TestMatch_NoCompatibleEntryReturnsFallback(t *testing.T) {
	store := storeWith(
		models.PolicyEntry{ID: "jewelry-only", Priority: 10, Match: models.MatchPredicate{Category: "jewelry"}, PartnerType: models.PartnerTypeAuction},
	)

	entry := store.Match(models.Scenario{Category: "taxidermy"})
	assert.Equal(t, "fallback-generic", entry.ID)
	assert.Equal(t, models.PartnerTypeDonation, entry.PartnerType)
	assert.NotEmpty(t, entry.QueryTemplates, "the fallback must be searchable")
}

func TestMatch_CategoryIsCaseInsensitive(t *testing.T) {
	store := storeWith(
		models.PolicyEntry{ID: "furniture", Priority: 10, Match: models.MatchPredicate{Category: "Furniture"}, PartnerType: models.PartnerTypeConsignment},
	)

	entry := store.Match(models.Scenario{Category: "FURNITURE"})
	assert.Equal(t, "furniture", entry.ID)
}

func TestMatch_ValueBandPredicate(t *testing.T) {
	store := storeWith(
		models.PolicyEntry{
			ID:          "low-value",
			Priority:    10,
			Match:       models.MatchPredicate{Category: "furniture", ValueBands: []string{models.ValueBandLow, models.ValueBandUnknown}},
			PartnerType: models.PartnerTypeDonation,
		},
	)

	tests := []struct {
		name     string
		band     string
		expected string
	}{
		{"listed band matches", models.ValueBandLow, "low-value"},
		{"unlisted band falls through", models.ValueBandHigh, "fallback-generic"},
		{"empty band counts as UNKNOWN", "", "low-value"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := store.Match(models.Scenario{Category: "furniture", ValueBand: tt.band})
			assert.Equal(t, tt.expected, entry.ID)
		})
	}
}

func TestMatch_BulkyPredicate(t *testing.T) {
	store := storeWith(
		models.PolicyEntry{
			ID:          "bulky-only",
			Priority:    10,
			Match:       models.MatchPredicate{Category: "furniture", Bulky: boolPtr(true)},
			PartnerType: models.PartnerTypeConsignment,
		},
	)

	assert.Equal(t, "bulky-only", store.Match(models.Scenario{Category: "furniture", Bulky: true}).ID)
	assert.Equal(t, "fallback-generic", store.Match(models.Scenario{Category: "furniture", Bulky: false}).ID)
}

func TestMatch_BrandGatedEntryRequiresBrandHint(t *testing.T) {
	store := storeWith(
		models.PolicyEntry{
			ID:          "luxury",
			Priority:    5,
			Match:       models.MatchPredicate{Category: "*", Brands: []string{"gucci", "rolex"}},
			PartnerType: models.PartnerTypeLuxuryMailin,
			Curated:     []models.CuratedPartner{{Name: "X", Website: "https://x.example", TrustScore: 0.9}},
		},
		models.PolicyEntry{ID: "plain", Priority: 10, Match: models.MatchPredicate{Category: "handbag"}, PartnerType: models.PartnerTypeConsignment},
	)

	withBrand := store.Match(models.Scenario{Category: "handbag", BrandHints: []string{"Gucci"}})
	assert.Equal(t, "luxury", withBrand.ID)

	withoutBrand := store.Match(models.Scenario{Category: "handbag"})
	assert.Equal(t, "plain", withoutBrand.ID)

	wrongBrand := store.Match(models.Scenario{Category: "handbag", BrandHints: []string{"Ikea"}})
	assert.Equal(t, "plain", wrongBrand.ID)
}

func TestMatch_GoalPredicate(t *testing.T) {
	store := storeWith(
		models.PolicyEntry{
			ID:          "min-effort-haul",
			Priority:    10,
			Match:       models.MatchPredicate{Category: "furniture", Goals: []string{models.GoalMinEffort}},
			PartnerType: models.PartnerTypeJunkHaul,
		},
	)

	assert.Equal(t, "min-effort-haul", store.Match(models.Scenario{Category: "furniture", Goal: models.GoalMinEffort}).ID)
	assert.Equal(t, "fallback-generic", store.Match(models.Scenario{Category: "furniture", Goal: models.GoalMaximizeValue}).ID)
}

func TestMatch_NilSnapshotStillReturnsFallback(t *testing.T) {
	store := &Store{}
	entry := store.Match(models.Scenario{Category: "anything"})
	assert.Equal(t, "fallback-generic", entry.ID)
}
