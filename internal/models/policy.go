// internal/models/policy.go
package models

// Partner types the disposition matrix can route to.
const (
	PartnerTypeConsignment  = "consignment"
	PartnerTypeEstateSale   = "estate_sale"
	PartnerTypeAuction      = "auction"
	PartnerTypeDonation     = "donation"
	PartnerTypeJunkHaul     = "junk_haul"
	PartnerTypeLuxuryMailin = "luxury_hub_mailin"
)

// Trust gate modes.
const (
	GateModeRequired = "required"
	GateModeBoost    = "boost"
)

// TrustGate is a keyword-evidence rule a candidate must (required) or may
// (boost) satisfy. A negative keyword overrides any positive match.
type TrustGate struct {
	ID               string   `json:"id" mapstructure:"id"`
	Keywords         []string `json:"keywords" mapstructure:"keywords"`
	NegativeKeywords []string `json:"negativeKeywords,omitempty" mapstructure:"negative_keywords"`
	Weight           float64  `json:"weight,omitempty" mapstructure:"weight"`
}

// MatchPredicate decides whether a policy entry applies to a scenario.
// Empty fields mean "any".
type MatchPredicate struct {
	Category   string   `json:"category" mapstructure:"category"` // exact or "*"
	ValueBands []string `json:"valueBands,omitempty" mapstructure:"value_bands"`
	Bulky      *bool    `json:"bulky,omitempty" mapstructure:"bulky"`
	Fragile    *bool    `json:"fragile,omitempty" mapstructure:"fragile"`
	Goals      []string `json:"goals,omitempty" mapstructure:"goals"`
	Brands     []string `json:"brands,omitempty" mapstructure:"brands"`
}

// RankingWeights are the per-policy composite scoring coefficients.
type RankingWeights struct {
	Trust     float64 `json:"trust" mapstructure:"trust"`
	Relevance float64 `json:"relevance" mapstructure:"relevance"`
	Distance  float64 `json:"distance" mapstructure:"distance"`
	Review    float64 `json:"review" mapstructure:"review"`
}

// CuratedPartner is a hand-vetted partner attached directly to a policy
// entry. Curated channels bypass the live search provider entirely.
type CuratedPartner struct {
	Name       string  `json:"name" mapstructure:"name"`
	Website    string  `json:"website" mapstructure:"website"`
	Phone      string  `json:"phone,omitempty" mapstructure:"phone"`
	Notes      string  `json:"notes,omitempty" mapstructure:"notes"`
	TrustScore float64 `json:"trustScore" mapstructure:"trust_score"`
}

// PolicyEntry is one row of the versioned disposition matrix. Entries are
// loaded once into an immutable snapshot and never mutated by the engine.
type PolicyEntry struct {
	ID             string           `json:"id" mapstructure:"id"`
	Priority       int              `json:"priority" mapstructure:"priority"`
	Match          MatchPredicate   `json:"match" mapstructure:"match"`
	PartnerType    string           `json:"partnerType" mapstructure:"partner_type"`
	QueryTemplates []string         `json:"queryTemplates,omitempty" mapstructure:"query_templates"`
	RequiredGates  []TrustGate      `json:"requiredGates,omitempty" mapstructure:"required_gates"`
	BoostGates     []TrustGate      `json:"boostGates,omitempty" mapstructure:"boost_gates"`
	Weights        RankingWeights   `json:"weights" mapstructure:"weights"`
	MaxResults     int              `json:"maxResults,omitempty" mapstructure:"max_results"`
	Curated        []CuratedPartner `json:"curated,omitempty" mapstructure:"curated"`
	Questions      []string         `json:"questions,omitempty" mapstructure:"questions"`
}

// IsCurated reports whether this entry resolves from its curated list
// instead of the live search provider.
func (p PolicyEntry) IsCurated() bool {
	return len(p.Curated) > 0
}
