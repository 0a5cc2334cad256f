// internal/models/partner.go
package models

import (
	"strings"
	"time"
)

// Contact holds the reachable surface of a candidate partner.
type Contact struct {
	Phone   string `json:"phone,omitempty"`
	Website string `json:"website,omitempty"`
	Email   string `json:"email,omitempty"`
	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
	Region  string `json:"region,omitempty"`
}

// Snippets is the unstructured evidence text gathered for a candidate,
// used by the trust gates.
type Snippets struct {
	WebsiteSnippet string `json:"website_snippet,omitempty"`
	PlaceDetails   string `json:"place_details,omitempty"`
	ReviewsSnippet string `json:"reviews_snippet,omitempty"`
}

// Combined returns all snippet text joined for keyword matching.
func (s Snippets) Combined() string {
	return strings.Join([]string{s.WebsiteSnippet, s.PlaceDetails, s.ReviewsSnippet}, " ")
}

// Candidate is a raw, unranked business returned by a search provider.
// Candidates exist only for the duration of one request.
type Candidate struct {
	PartnerID        string   `json:"partnerId"`
	Name             string   `json:"name"`
	PartnerType      string   `json:"partnerType"`
	Contact          Contact  `json:"contact"`
	DistanceMiles    float64  `json:"distanceMiles"`
	Rating           *float64 `json:"rating,omitempty"`
	UserRatingsTotal *int     `json:"userRatingsTotal,omitempty"`
	Snippets         Snippets `json:"sources"`
}

// DedupKey returns the stable identity used to collapse the same business
// returned by different query templates or radius tiers.
func (c Candidate) DedupKey() string {
	name := normalizeToken(c.Name)
	addr := normalizeToken(c.Contact.Address)
	if len(addr) > 24 {
		addr = addr[:24]
	}
	return name + "|" + addr
}

func normalizeToken(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

const (
	GateStatusPassed  = "pass"
	GateStatusFailed  = "fail"
	GateStatusUnknown = "unknown"
)

// GateResult records the outcome of evaluating one trust gate against one
// candidate.
type GateResult struct {
	ID             string  `json:"id"`
	Mode           string  `json:"mode"`   // required|boost
	Status         string  `json:"status"` // pass|fail|unknown
	MatchedKeyword string  `json:"matchedKeyword,omitempty"`
	Negated        bool    `json:"negated,omitempty"`
	Source         string  `json:"source,omitempty"`
	Strength       float64 `json:"strength"`
}

// Trust summarizes a candidate's trust evaluation.
type Trust struct {
	TrustScore float64      `json:"trustScore"`
	ClaimLevel string       `json:"claimLevel"`
	Gates      []GateResult `json:"gates,omitempty"`
}

// Ranking carries the composite score and the reasons behind it.
type Ranking struct {
	Score   float64  `json:"score"`
	Reasons []string `json:"reasons,omitempty"`
}

// RankedPartner is one unit of engine output. A RankedPartner is only ever
// produced for candidates whose required trust gates all passed.
type RankedPartner struct {
	PartnerID        string   `json:"partnerId"`
	Name             string   `json:"name"`
	PartnerType      string   `json:"partnerType"`
	Contact          Contact  `json:"contact"`
	DistanceMiles    float64  `json:"distanceMiles"`
	Rating           *float64 `json:"rating,omitempty"`
	UserRatingsTotal *int     `json:"userRatingsTotal,omitempty"`
	Trust            Trust    `json:"trust"`
	Ranking          Ranking  `json:"ranking"`
	WhyRecommended   string   `json:"whyRecommended"`
	QuestionsToAsk   []string `json:"questionsToAsk,omitempty"`
}

// SearchResponse is the engine's answer to a scenario request. An empty
// Results slice is the explicit "no partners found" outcome, not an error.
type SearchResponse struct {
	SchemaVersion          int             `json:"schemaVersion"`
	GeneratedAt            time.Time       `json:"generatedAt"`
	ScenarioID             string          `json:"scenarioId"`
	PartnerTypes           []string        `json:"partnerTypes"`
	Results                []RankedPartner `json:"results"`
	Disclaimer             string          `json:"disclaimer"`
	RecommendedRefreshDays int             `json:"recommendedRefreshDays"`
}
