// internal/engine/policy/matcher.go
package policy

import (
	"strings"

	"disposition-engine/internal/models"
)

// fallbackEntry matches any scenario. It keeps the matcher total: a novel
// or unmapped category routes to a conservative donation search instead of
// failing with no policy.
var fallbackEntry = models.PolicyEntry{
	ID:          "fallback-generic",
	Priority:    1000,
	Match:       models.MatchPredicate{Category: "*"},
	PartnerType: models.PartnerTypeDonation,
	QueryTemplates: []string{
		"donation center {city} {region}",
		"charity thrift store {city}",
	},
	Weights: models.RankingWeights{
		Trust:     0.3,
		Relevance: 0.3,
		Distance:  0.2,
		Review:    0.2,
	},
	MaxResults: 5,
	Questions: []string{
		"Do you provide a tax receipt for donated items?",
		"Do you offer pickup for larger donations?",
	},
}

// Fallback returns a copy of the built-in fallback entry.
func Fallback() models.PolicyEntry {
	return fallbackEntry
}

// Match resolves a scenario against the current matrix snapshot. Among
// compatible entries the lowest priority wins; ties prefer an exact
// category match over a wildcard, then declaration order. Match never
// returns nothing: the built-in fallback entry covers unmapped scenarios.
func (s *Store) Match(scenario models.Scenario) models.PolicyEntry {
	m := s.Matrix()
	if m == nil {
		return fallbackEntry
	}

	best := -1
	for i, e := range m.Entries {
		if !compatible(e.Match, scenario) {
			continue
		}
		if best == -1 || betterThan(e, m.Entries[best]) {
			best = i
		}
	}

	if best == -1 {
		return fallbackEntry
	}
	return m.Entries[best]
}

// betterThan reports whether a should be selected over b.
func betterThan(a, b models.PolicyEntry) bool {
	if a.Priority != b.Priority {
		return a.Priority < b.Priority
	}
	aExact := a.Match.Category != "*"
	bExact := b.Match.Category != "*"
	if aExact != bExact {
		return aExact
	}
	// Declaration order wins; the caller iterates in order and only
	// replaces on strict improvement.
	return false
}

func compatible(p models.MatchPredicate, s models.Scenario) bool {
	if p.Category != "*" && !strings.EqualFold(p.Category, s.Category) {
		return false
	}

	if len(p.ValueBands) > 0 {
		band := s.ValueBand
		if band == "" {
			band = models.ValueBandUnknown
		}
		if !containsFold(p.ValueBands, band) {
			return false
		}
	}

	if p.Bulky != nil && *p.Bulky != s.Bulky {
		return false
	}

	if p.Fragile != nil {
		if s.Fragile == nil || *p.Fragile != *s.Fragile {
			return false
		}
	}

	if len(p.Goals) > 0 && !containsFold(p.Goals, s.Goal) {
		return false
	}

	// Brand-gated entries only apply when the scenario names a matching brand.
	if len(p.Brands) > 0 && !anyBrandMatch(p.Brands, s.BrandHints) {
		return false
	}

	return true
}

func containsFold(list []string, v string) bool {
	for _, item := range list {
		if strings.EqualFold(item, v) {
			return true
		}
	}
	return false
}

func anyBrandMatch(brands, hints []string) bool {
	for _, h := range hints {
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		if containsFold(brands, h) {
			return true
		}
	}
	return false
}
