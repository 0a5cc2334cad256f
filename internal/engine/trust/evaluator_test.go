// internal/engine/trust/evaluator_test.go
package trust

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"disposition-engine/internal/models"
)

// ==========================================================================
// TEST HELPERS
// ==========================================================================

func candidateWith(details string) models.Candidate {
	return models.Candidate{
		PartnerID: "stub:test",
		Name:      "Test Partner",
		Snippets:  models.Snippets{PlaceDetails: details},
	}
}

func pickupGate() models.TrustGate {
	return models.TrustGate{
		ID:               "offers-pickup",
		Keywords:         []string{"pickup", "we haul", "delivery"},
		NegativeKeywords: []string{"no pickup", "drop-off only"},
	}
}

// ==========================================================================
// REQUIRED GATES
// ==========================================================================

func TestEvaluate_RequiredGatePasses(t *testing.T) {
	entry := models.PolicyEntry{RequiredGates: []models.TrustGate{pickupGate()}}
	c := candidateWith("Free local PICKUP and delivery for large pieces.")

	eval := Evaluate(entry, c)

	assert.True(t, eval.Admitted)
	require.Len(t, eval.Trust.Gates, 1)
	gate := eval.Trust.Gates[0]
	assert.Equal(t, models.GateStatusPassed, gate.Status)
	assert.Equal(t, models.GateModeRequired, gate.Mode)
	assert.Equal(t, "pickup", gate.MatchedKeyword)
	assert.Equal(t, "place_details", gate.Source)
	assert.Positive(t, gate.Strength)
}

func TestEvaluate_RequiredGateFailureRejects(t *testing.T) {
	entry := models.PolicyEntry{RequiredGates: []models.TrustGate{pickupGate()}}
	c := candidateWith("Curated resale of furniture and decor.")

	eval := Evaluate(entry, c)

	assert.False(t, eval.Admitted)
	assert.Equal(t, models.GateStatusFailed, eval.Trust.Gates[0].Status)
}

func TestEvaluate_NegativeKeywordOverridesPositive(t *testing.T) {
	entry := models.PolicyEntry{RequiredGates: []models.TrustGate{pickupGate()}}
	// "pickup" appears, but inside the negating phrase.
	c := candidateWith("Drop-off only location, no pickup service.")

	eval := Evaluate(entry, c)

	assert.False(t, eval.Admitted)
	gate := eval.Trust.Gates[0]
	assert.Equal(t, models.GateStatusFailed, gate.Status)
	assert.True(t, gate.Negated)
	assert.Equal(t, "no pickup", gate.MatchedKeyword)
}

func TestEvaluate_NoEvidenceIsUnknownAndRejected(t *testing.T) {
	entry := models.PolicyEntry{RequiredGates: []models.TrustGate{pickupGate()}}
	c := models.Candidate{PartnerID: "stub:bare", Name: "Bare Partner"}

	eval := Evaluate(entry, c)

	assert.False(t, eval.Admitted)
	assert.Equal(t, models.GateStatusUnknown, eval.Trust.Gates[0].Status)
	assert.Equal(t, "none", eval.Trust.Gates[0].Source)
}

// ==========================================================================
// BOOST GATES AND SCORING
// ==========================================================================

func TestEvaluate_BoostGatesAreAdditive(t *testing.T) {
	entry := models.PolicyEntry{
		BoostGates: []models.TrustGate{
			{ID: "insured", Keywords: []string{"insured"}, Weight: 0.2},
			{ID: "licensed", Keywords: []string{"licensed"}, Weight: 0.1},
			{ID: "appraisal", Keywords: []string{"appraisal"}, Weight: 0.15},
		},
	}
	c := candidateWith("Licensed and insured crews, upfront pricing.")

	eval := Evaluate(entry, c)

	assert.True(t, eval.Admitted, "boost gates never reject")
	// base 0.5 + 0.2 + 0.1; the appraisal gate fails.
	assert.InDelta(t, 0.8, eval.Trust.TrustScore, 0.0001)
	assert.Equal(t, "keyword_verified", eval.Trust.ClaimLevel)
}

func TestEvaluate_TrustScoreClampedToOne(t *testing.T) {
	entry := models.PolicyEntry{
		BoostGates: []models.TrustGate{
			{ID: "a", Keywords: []string{"insured"}, Weight: 0.4},
			{ID: "b", Keywords: []string{"licensed"}, Weight: 0.4},
		},
	}
	c := candidateWith("Licensed and insured.")

	eval := Evaluate(entry, c)
	assert.Equal(t, 1.0, eval.Trust.TrustScore)
}

func TestEvaluate_NoGatesYieldsBaseScore(t *testing.T) {
	eval := Evaluate(models.PolicyEntry{}, candidateWith("Anything at all."))

	assert.True(t, eval.Admitted)
	assert.InDelta(t, 0.5, eval.Trust.TrustScore, 0.0001)
	assert.Equal(t, "heuristic", eval.Trust.ClaimLevel)
	assert.Empty(t, eval.Trust.Gates)
}

func TestEvaluate_MatchingIsCaseInsensitive(t *testing.T) {
	entry := models.PolicyEntry{
		RequiredGates: []models.TrustGate{
			{ID: "consignment", Keywords: []string{"CONSIGNMENT"}},
		},
	}
	c := candidateWith("Upscale furniture Consignment showroom.")

	eval := Evaluate(entry, c)
	assert.True(t, eval.Admitted)
}

func TestEvaluate_SourceAttributionPrefersRichest(t *testing.T) {
	entry := models.PolicyEntry{
		RequiredGates: []models.TrustGate{
			{ID: "donation", Keywords: []string{"tax receipt"}},
		},
	}
	c := models.Candidate{
		Name: "Thrift",
		Snippets: models.Snippets{
			WebsiteSnippet: "Nonprofit thrift store, tax receipt provided.",
		},
	}

	eval := Evaluate(entry, c)
	assert.True(t, eval.Admitted)
	assert.Equal(t, "website_snippet", eval.Trust.Gates[0].Source)
}
