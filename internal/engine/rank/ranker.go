// internal/engine/rank/ranker.go

// Package rank orders admitted candidates by a weighted composite of
// trust, relevance, distance, and review signals, then bounds the result
// list size.
package rank

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"disposition-engine/internal/models"
)

const (
	// Result list bounds. Policies may pick any size inside the range.
	minResults     = 3
	maxResults     = 7
	defaultResults = 5

	// reviewVolumeSaturation is the review count treated as full confidence
	// in the star rating.
	reviewVolumeSaturation = 500.0

	neutralScore = 0.5
)

// defaultWeights apply when a policy entry specifies none.
var defaultWeights = models.RankingWeights{
	Trust:     0.35,
	Relevance: 0.25,
	Distance:  0.25,
	Review:    0.15,
}

// Input pairs a candidate with its completed trust evaluation.
type Input struct {
	Candidate models.Candidate
	Trust     models.Trust
}

// Rank scores, orders, and truncates the admitted candidates. maxRadiusMiles
// is the widest tier actually searched and anchors the distance decay.
func Rank(entry models.PolicyEntry, scenario models.Scenario, inputs []Input, maxRadiusMiles int) []models.RankedPartner {
	weights := entry.Weights
	if weights.Trust == 0 && weights.Relevance == 0 && weights.Distance == 0 && weights.Review == 0 {
		weights = defaultWeights
	}

	terms := relevanceTerms(entry, scenario)

	ranked := make([]models.RankedPartner, 0, len(inputs))
	for _, in := range inputs {
		c := in.Candidate

		trustScore := in.Trust.TrustScore
		relevance := relevanceScore(c, terms)
		distance := distanceScore(c.DistanceMiles, maxRadiusMiles)
		review := reviewScore(c.Rating, c.UserRatingsTotal)

		composite := weights.Trust*trustScore +
			weights.Relevance*relevance +
			weights.Distance*distance +
			weights.Review*review

		ranked = append(ranked, models.RankedPartner{
			PartnerID:        c.PartnerID,
			Name:             c.Name,
			PartnerType:      c.PartnerType,
			Contact:          c.Contact,
			DistanceMiles:    c.DistanceMiles,
			Rating:           c.Rating,
			UserRatingsTotal: c.UserRatingsTotal,
			Trust:            in.Trust,
			Ranking: models.Ranking{
				Score: round4(composite),
				Reasons: []string{
					fmt.Sprintf("trust %.2f", trustScore),
					fmt.Sprintf("relevance %.2f", relevance),
					fmt.Sprintf("distance %.2f", distance),
					fmt.Sprintf("reviews %.2f", review),
				},
			},
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Ranking.Score != b.Ranking.Score {
			return a.Ranking.Score > b.Ranking.Score
		}
		if a.Trust.TrustScore != b.Trust.TrustScore {
			return a.Trust.TrustScore > b.Trust.TrustScore
		}
		if a.DistanceMiles != b.DistanceMiles {
			return a.DistanceMiles < b.DistanceMiles
		}
		return a.Name < b.Name
	})

	limit := resultLimit(entry.MaxResults)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// resultLimit clamps a policy's requested size into the supported range.
func resultLimit(requested int) int {
	switch {
	case requested == 0:
		return defaultResults
	case requested < minResults:
		return minResults
	case requested > maxResults:
		return maxResults
	default:
		return requested
	}
}

// relevanceTerms collects the vocabulary a well-matched candidate should
// echo: the category, brand hints, and the partner type's own words.
func relevanceTerms(entry models.PolicyEntry, scenario models.Scenario) []string {
	var terms []string
	for _, word := range strings.Fields(strings.ToLower(scenario.Category)) {
		terms = append(terms, word)
	}
	for _, brand := range scenario.BrandHints {
		if b := strings.ToLower(strings.TrimSpace(brand)); b != "" {
			terms = append(terms, b)
		}
	}
	for _, word := range strings.Split(entry.PartnerType, "_") {
		if word != "" {
			terms = append(terms, word)
		}
	}
	return terms
}

// relevanceScore is the fraction of terms the candidate's name and snippet
// text echo back.
func relevanceScore(c models.Candidate, terms []string) float64 {
	if len(terms) == 0 {
		return neutralScore
	}
	text := strings.ToLower(c.Name + " " + c.Snippets.Combined())
	hits := 0
	for _, term := range terms {
		if strings.Contains(text, term) {
			hits++
		}
	}
	return float64(hits) / float64(len(terms))
}

// distanceScore decays linearly from 1 at the center to 0 at the widest
// searched radius.
func distanceScore(distMiles float64, maxRadiusMiles int) float64 {
	if maxRadiusMiles <= 0 {
		return neutralScore
	}
	score := 1.0 - distMiles/float64(maxRadiusMiles)
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// reviewScore blends the star rating toward neutral when the review volume
// is thin. A partner with no rating data scores neutral rather than zero.
func reviewScore(rating *float64, count *int) float64 {
	if rating == nil {
		return neutralScore
	}

	stars := *rating / 5.0
	if stars < 0 {
		stars = 0
	}
	if stars > 1 {
		stars = 1
	}

	volume := 1.0
	if count != nil {
		volume = math.Log10(1.0+float64(*count)) / math.Log10(1.0+reviewVolumeSaturation)
		if volume > 1 {
			volume = 1
		}
	}

	return neutralScore + (stars-neutralScore)*volume
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
