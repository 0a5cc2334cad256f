// internal/engine/provider/stub.go
package provider

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"
	"sync/atomic"

	"disposition-engine/internal/models"
)

// stubFixture is one synthetic business template.
type stubFixture struct {
	name    string
	website string
	snippet string
	details string
	reviews string
	rating  float64
	ratings int
}

// stubPools holds fixture templates keyed by partner type. Snippets carry
// the vocabulary real listings of that kind use, so trust gates behave the
// same against the stub as against live data.
var stubPools = map[string][]stubFixture{
	models.PartnerTypeConsignment: {
		{
			name:    "%s Consignment Gallery",
			website: "https://consignment-gallery.example.com",
			snippet: "Upscale furniture consignment with free local pickup and delivery for large pieces.",
			details: "Family-owned consignment shop. Licensed and insured, accepting furniture and home decor on consignment.",
			reviews: "They picked up our sofa the same week and the payout was fair.",
			rating:  4.6, ratings: 182,
		},
		{
			name:    "Second Act Furnishings of %s",
			website: "https://second-act.example.com",
			snippet: "Consignment furniture showroom. We handle pickup, pricing, and resale of quality furniture.",
			details: "Consignment terms: 50/50 split, 90 day term. Insured pickup crews for bulky items.",
			reviews: "Professional pickup team, item sold within a month.",
			rating:  4.3, ratings: 97,
		},
		{
			name:    "%s Resale Collective",
			website: "https://resale-collective.example.com",
			snippet: "Curated resale of furniture and decor on consignment.",
			details: "Drop-off only location, no pickup service. Consignment intake by appointment.",
			reviews: "Nice selection, drop-off was quick.",
			rating:  4.1, ratings: 54,
		},
	},
	models.PartnerTypeEstateSale: {
		{
			name:    "%s Estate Sale Services",
			website: "https://estate-sales.example.com",
			snippet: "Full service estate sale company. Bonded and insured, on-site sales and cleanouts.",
			details: "Estate liquidation, appraisal, and whole-home sales. Licensed estate sale professionals.",
			reviews: "Handled my mother's estate with care, great communication.",
			rating:  4.8, ratings: 211,
		},
		{
			name:    "Heritage Estate Liquidators %s",
			website: "https://heritage-liquidators.example.com",
			snippet: "Estate sales and buyouts. Insured staff, appraisal services available.",
			details: "Estate sale management and full buyout offers for qualifying homes.",
			reviews: "Fast buyout offer, fair price for the full household.",
			rating:  4.4, ratings: 76,
		},
	},
	models.PartnerTypeAuction: {
		{
			name:    "%s Auction House",
			website: "https://auction-house.example.com",
			snippet: "Licensed auction house for antiques, art, and collectibles. Consignor-friendly terms.",
			details: "Monthly catalog auctions with appraisal and insured transport of consigned lots.",
			reviews: "My painting sold well above estimate.",
			rating:  4.7, ratings: 143,
		},
		{
			name:    "Gavel & Crate Auctions %s",
			website: "https://gavel-crate.example.com",
			snippet: "Online and live auctions. Appraisal, cataloging, and insured storage for consignors.",
			details: "Specialty auctions for jewelry, art, and estate collections.",
			reviews: "Professional cataloging, prompt settlement.",
			rating:  4.5, ratings: 88,
		},
	},
	models.PartnerTypeDonation: {
		{
			name:    "%s Community Thrift",
			website: "https://community-thrift.example.com",
			snippet: "Nonprofit thrift store. Donations accepted daily, tax receipt provided.",
			details: "501(c)(3) charity. Free donation pickup for furniture on scheduled routes.",
			reviews: "Easy drop-off and they emailed a tax receipt.",
			rating:  4.2, ratings: 320,
		},
		{
			name:    "Helping Hands Donation Center %s",
			website: "https://helping-hands.example.com",
			snippet: "Charity donation center with furniture pickup and tax receipt on request.",
			details: "Nonprofit serving local families. Donation pickup for large items, tax-deductible receipts.",
			reviews: "Scheduled a pickup online, crew was on time.",
			rating:  4.0, ratings: 190,
		},
		{
			name:    "%s Restore Outlet",
			website: "https://restore-outlet.example.com",
			snippet: "Donation-funded home improvement outlet. Accepts furniture and appliances.",
			details: "Nonprofit outlet, tax receipt available for donations. Pickup by appointment.",
			reviews: "Good cause and they took everything in one trip.",
			rating:  4.3, ratings: 150,
		},
	},
	models.PartnerTypeJunkHaul: {
		{
			name:    "%s Junk Removal Co",
			website: "https://junk-removal.example.com",
			snippet: "Same-day junk removal and hauling. Licensed and insured crews, upfront pricing.",
			details: "Full-service hauling: furniture, appliances, cleanouts. Eco-friendly disposal and recycling.",
			reviews: "Quoted on the spot and hauled it out in an hour.",
			rating:  4.6, ratings: 402,
		},
		{
			name:    "ClearOut Hauling %s",
			website: "https://clearout-hauling.example.com",
			snippet: "Junk hauling and estate cleanouts. Insured, with donation drop-off of usable items.",
			details: "Volume-based pricing, same-day service in most areas.",
			reviews: "Cheap and fast, exactly what we needed.",
			rating:  4.4, ratings: 266,
		},
	},
}

var defaultPool = stubPools[models.PartnerTypeDonation]

// StubProvider returns deterministic synthetic candidates. The same query
// always produces the same result set, and wider radii surface strictly
// more of the pool, which mirrors how a live POI search behaves.
type StubProvider struct {
	calls atomic.Int64
}

func NewStubProvider() *StubProvider {
	return &StubProvider{}
}

func (p *StubProvider) Name() string {
	return "stub"
}

// Calls reports how many Search invocations the stub has served.
func (p *StubProvider) Calls() int {
	return int(p.calls.Load())
}

func (p *StubProvider) Search(ctx context.Context, q Query) ([]models.Candidate, error) {
	p.calls.Add(1)

	if err := ctx.Err(); err != nil {
		return nil, &Error{Kind: Transient, Provider: p.Name(), Err: err}
	}

	pool := stubPools[q.PartnerType]
	if len(pool) == 0 {
		pool = defaultPool
	}

	h := fnv.New32a()
	h.Write([]byte(strings.ToLower(q.Text)))
	h.Write([]byte(strings.ToLower(q.City)))
	h.Write([]byte(strings.ToLower(q.Region)))
	seed := int(h.Sum32())
	if seed < 0 {
		seed = -seed
	}

	radius := q.RadiusMiles
	if radius <= 0 {
		radius = 25
	}

	// A 25 mile search yields two fixtures, wider tiers expose the rest.
	count := 2 + radius/50
	if count > len(pool) {
		count = len(pool)
	}

	city := q.City
	if city == "" {
		city = "Local"
	}

	out := make([]models.Candidate, 0, count)
	for i := 0; i < count; i++ {
		fx := pool[(seed+i)%len(pool)]
		name := fmt.Sprintf(fx.name, city)
		rating := fx.rating
		ratings := fx.ratings

		dist := float64(3+(seed+i*7)%radius) + 0.5
		if dist > float64(radius) {
			dist = float64(radius)
		}

		out = append(out, models.Candidate{
			PartnerID:   "stub:" + stubID(name),
			Name:        name,
			PartnerType: q.PartnerType,
			Contact: models.Contact{
				Website: fx.website,
				Address: fmt.Sprintf("%d Main St, %s, %s", 100+(seed+i)%899, city, q.Region),
			},
			DistanceMiles:    dist,
			Rating:           &rating,
			UserRatingsTotal: &ratings,
			Snippets: models.Snippets{
				WebsiteSnippet: fx.snippet,
				PlaceDetails:   fx.details,
				ReviewsSnippet: fx.reviews,
			},
		})
	}
	return out, nil
}

func stubID(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('-')
		}
	}
	return b.String()
}
