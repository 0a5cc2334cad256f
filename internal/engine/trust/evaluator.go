// internal/engine/trust/evaluator.go

// Package trust scores candidates against a policy's keyword gates.
// Required gates are binary admission checks; boost gates add weight to an
// admitted candidate's trust score.
package trust

import (
	"strings"

	"disposition-engine/internal/models"
)

const (
	// baseTrust is the score of an admitted candidate before boosts.
	baseTrust = 0.5

	claimVerified  = "keyword_verified"
	claimHeuristic = "heuristic"
)

// Evaluation is the trust outcome for one candidate.
type Evaluation struct {
	Admitted bool
	Trust    models.Trust
}

// Evaluate runs every gate of the entry against the candidate's combined
// snippet text. A failed required gate rejects the candidate outright;
// passed boost gates raise the trust score, clamped to [0, 1].
func Evaluate(entry models.PolicyEntry, candidate models.Candidate) Evaluation {
	text := strings.ToLower(candidate.Snippets.Combined())

	gates := make([]models.GateResult, 0, len(entry.RequiredGates)+len(entry.BoostGates))
	admitted := true

	for _, gate := range entry.RequiredGates {
		result := runGate(gate, models.GateModeRequired, text, candidate)
		gates = append(gates, result)
		if result.Status != models.GateStatusPassed {
			admitted = false
		}
	}

	score := baseTrust
	for _, gate := range entry.BoostGates {
		result := runGate(gate, models.GateModeBoost, text, candidate)
		gates = append(gates, result)
		if result.Status == models.GateStatusPassed {
			score += gate.Weight
		}
	}

	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}

	claim := claimHeuristic
	if anyPassed(gates) {
		claim = claimVerified
	}

	return Evaluation{
		Admitted: admitted,
		Trust: models.Trust{
			TrustScore: score,
			ClaimLevel: claim,
			Gates:      gates,
		},
	}
}

// runGate matches one gate against the snippet text. Matching is
// case-insensitive substring containment; any negative keyword hit
// overrides a positive match.
func runGate(gate models.TrustGate, mode string, text string, candidate models.Candidate) models.GateResult {
	result := models.GateResult{
		ID:     gate.ID,
		Mode:   mode,
		Status: models.GateStatusFailed,
		Source: snippetSource(candidate),
	}

	// No evidence text at all: the gate cannot run. Required gates still
	// reject, but the status distinguishes "no data" from "contradicted".
	if strings.TrimSpace(text) == "" {
		result.Status = models.GateStatusUnknown
		return result
	}

	for _, neg := range gate.NegativeKeywords {
		if neg != "" && strings.Contains(text, strings.ToLower(neg)) {
			result.Negated = true
			result.MatchedKeyword = neg
			return result
		}
	}

	for _, kw := range gate.Keywords {
		if kw != "" && strings.Contains(text, strings.ToLower(kw)) {
			result.Status = models.GateStatusPassed
			result.MatchedKeyword = kw
			result.Strength = matchStrength(text, gate.Keywords)
			return result
		}
	}

	return result
}

// matchStrength grades how many of the gate's keywords the text contains.
func matchStrength(text string, keywords []string) float64 {
	if len(keywords) == 0 {
		return 0
	}
	hits := 0
	for _, kw := range keywords {
		if kw != "" && strings.Contains(text, strings.ToLower(kw)) {
			hits++
		}
	}
	return float64(hits) / float64(len(keywords))
}

// snippetSource names the richest snippet available for attribution.
func snippetSource(c models.Candidate) string {
	switch {
	case c.Snippets.PlaceDetails != "":
		return "place_details"
	case c.Snippets.ReviewsSnippet != "":
		return "reviews_snippet"
	case c.Snippets.WebsiteSnippet != "":
		return "website_snippet"
	default:
		return "none"
	}
}

func anyPassed(gates []models.GateResult) bool {
	for _, g := range gates {
		if g.Status == models.GateStatusPassed {
			return true
		}
	}
	return false
}
