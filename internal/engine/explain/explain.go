// internal/engine/explain/explain.go

// Package explain turns ranked partners into user-facing guidance: a short
// reason the partner surfaced, and the questions worth asking before
// committing an item to them. It is a pure transform over data already
// computed upstream.
package explain

import (
	"fmt"
	"strings"

	"disposition-engine/internal/models"
)

// gateDescriptions maps gate IDs to reader-friendly phrases. Unmapped
// gates fall back to their ID with underscores spaced out.
var gateDescriptions = map[string]string{
	"offers-pickup":     "advertises pickup service",
	"offers_pickup":     "advertises pickup service",
	"insured":           "mentions insurance coverage",
	"licensed":          "mentions licensing",
	"appraisal":         "offers appraisal services",
	"tax-receipt":       "provides donation tax receipts",
	"tax_receipt":       "provides donation tax receipts",
	"accepts-furniture": "accepts furniture",
	"estate-services":   "handles full estates",
	"same-day":          "offers same-day service",
}

// defaultQuestions per partner type, used when the policy entry carries
// none of its own.
var defaultQuestions = map[string][]string{
	models.PartnerTypeConsignment: {
		"What is your commission split and consignment term?",
		"Do you handle pickup for large pieces?",
		"What happens to items that do not sell?",
	},
	models.PartnerTypeEstateSale: {
		"Are you bonded and insured?",
		"What percentage do you charge and what does it cover?",
		"How do you handle items that do not sell during the sale?",
	},
	models.PartnerTypeAuction: {
		"What are your seller fees and reserve policies?",
		"When would my item be scheduled for auction?",
		"Do you provide a pre-sale estimate in writing?",
	},
	models.PartnerTypeDonation: {
		"Do you provide a tax receipt for donated items?",
		"Do you offer pickup for larger donations?",
		"Which items are you currently unable to accept?",
	},
	models.PartnerTypeJunkHaul: {
		"Is the quote binding once the crew arrives?",
		"Do you donate or recycle usable items?",
		"Are you licensed and insured for in-home removal?",
	},
	models.PartnerTypeLuxuryMailin: {
		"How are items insured during shipping?",
		"What is your authentication process and turnaround?",
		"What commission do you take on the final sale price?",
	},
}

// Enrich fills WhyRecommended and QuestionsToAsk on each ranked partner in
// place. A reason already set upstream (curated notes) is left alone.
func Enrich(entry models.PolicyEntry, partners []models.RankedPartner) {
	for i := range partners {
		if partners[i].WhyRecommended == "" {
			partners[i].WhyRecommended = whyRecommended(partners[i])
		}
		partners[i].QuestionsToAsk = questionsFor(entry, partners[i].PartnerType)
	}
}

// whyRecommended summarizes the strongest evidence behind a partner: passed
// gates first, then proximity and review standing.
func whyRecommended(p models.RankedPartner) string {
	var parts []string

	for _, gate := range p.Trust.Gates {
		if gate.Status != models.GateStatusPassed {
			continue
		}
		parts = append(parts, describeGate(gate.ID))
		if len(parts) == 2 {
			break
		}
	}

	if p.DistanceMiles > 0 {
		parts = append(parts, fmt.Sprintf("about %.0f miles away", p.DistanceMiles))
	}

	if p.Rating != nil && p.UserRatingsTotal != nil && *p.UserRatingsTotal > 0 {
		parts = append(parts, fmt.Sprintf("rated %.1f by %d reviewers", *p.Rating, *p.UserRatingsTotal))
	}

	if len(parts) == 0 {
		return "Matched your scenario's partner profile."
	}

	sentence := strings.Join(parts, ", ")
	return strings.ToUpper(sentence[:1]) + sentence[1:] + "."
}

func describeGate(id string) string {
	if desc, ok := gateDescriptions[id]; ok {
		return desc
	}
	cleaned := strings.NewReplacer("-", " ", "_", " ").Replace(id)
	return "matched " + cleaned
}

func questionsFor(entry models.PolicyEntry, partnerType string) []string {
	if len(entry.Questions) > 0 {
		out := make([]string, len(entry.Questions))
		copy(out, entry.Questions)
		return out
	}
	if qs, ok := defaultQuestions[partnerType]; ok {
		out := make([]string, len(qs))
		copy(out, qs)
		return out
	}
	return []string{"What are your fees and terms for this kind of item?"}
}
