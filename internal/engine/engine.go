// internal/engine/engine.go

// Package engine orchestrates the disposition search pipeline: policy
// match, candidate resolution, trust gating, ranking, and explanation.
package engine

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	commonerrors "disposition-engine/internal/common/errors"
	"disposition-engine/internal/common/logger"
	"disposition-engine/internal/common/metrics"
	"disposition-engine/internal/common/observability"
	"disposition-engine/internal/engine/discovery"
	"disposition-engine/internal/engine/explain"
	"disposition-engine/internal/engine/policy"
	"disposition-engine/internal/engine/rank"
	"disposition-engine/internal/engine/trust"
	"disposition-engine/internal/models"
)

const (
	schemaVersion = 1

	disclaimer = "Listings are generated from public business data. Verify " +
		"terms, fees, and insurance directly with each partner before " +
		"handing over any item."

	recommendedRefreshDays = 30

	claimCurated = "curated"
)

// Engine runs disposition searches. It is safe for concurrent use.
type Engine struct {
	store    *policy.Store
	resolver *discovery.Resolver
	obs      *observability.Observability
	logger   logger.Logger
}

func New(store *policy.Store, resolver *discovery.Resolver, obs *observability.Observability, log logger.Logger) *Engine {
	return &Engine{
		store:    store,
		resolver: resolver,
		obs:      obs,
		logger:   log,
	}
}

// Search resolves a scenario request to ranked partner recommendations.
// An empty result list is a valid answer; only an unusable request is an
// error.
func (e *Engine) Search(ctx context.Context, req models.ScenarioRequest) (*models.SearchResponse, error) {
	start := time.Now()

	if err := validateRequest(req); err != nil {
		e.recordSearch(ctx, "unknown", "invalid", start)
		return nil, err
	}

	entry := e.store.Match(req.Scenario)
	e.logger.Info("Scenario matched to policy", map[string]interface{}{
		"policy_id":    entry.ID,
		"partner_type": entry.PartnerType,
		"category":     req.Scenario.Category,
		"curated":      entry.IsCurated(),
	})

	var results []models.RankedPartner
	if entry.IsCurated() {
		// Curated channels skip the provider entirely: the partners are
		// pre-vetted, so no live search, gating, or cache round-trip runs.
		results = curatedResults(entry)
	} else {
		resolved, err := e.resolver.Resolve(ctx, entry, req.Scenario, req.Location)
		if err != nil {
			return nil, err
		}

		admitted := make([]rank.Input, 0, len(resolved.Candidates))
		for _, candidate := range resolved.Candidates {
			eval := trust.Evaluate(entry, candidate)
			if !eval.Admitted {
				continue
			}
			admitted = append(admitted, rank.Input{Candidate: candidate, Trust: eval.Trust})
		}

		e.logger.Debug("Trust gating complete", map[string]interface{}{
			"policy_id": entry.ID,
			"resolved":  len(resolved.Candidates),
			"admitted":  len(admitted),
			"degraded":  resolved.Degraded,
		})

		results = rank.Rank(entry, req.Scenario, admitted, resolved.RadiusUsedMiles)
	}

	explain.Enrich(entry, results)

	outcome := "ok"
	if len(results) == 0 {
		outcome = "empty"
	}
	e.recordSearch(ctx, entry.PartnerType, outcome, start)

	return &models.SearchResponse{
		SchemaVersion:          schemaVersion,
		GeneratedAt:            time.Now().UTC(),
		ScenarioID:             uuid.NewString(),
		PartnerTypes:           []string{entry.PartnerType},
		Results:                results,
		Disclaimer:             disclaimer,
		RecommendedRefreshDays: recommendedRefreshDays,
	}, nil
}

// recordSearch reports one finished search to both telemetry pipelines:
// the prometheus histogram and the otel meter.
func (e *Engine) recordSearch(ctx context.Context, partnerType, outcome string, start time.Time) {
	elapsed := time.Since(start)
	metrics.SearchDuration.WithLabelValues(partnerType, outcome).Observe(elapsed.Seconds())
	e.obs.RecordSearch(ctx, outcome)
	e.obs.RecordSearchDuration(ctx, elapsed, outcome)
}

// validateRequest enforces the semantic minimum beyond schema validation.
func validateRequest(req models.ScenarioRequest) error {
	switch {
	case strings.TrimSpace(req.Scenario.Category) == "":
		return commonerrors.NewInvalidScenarioError("scenario.category is required")
	case strings.TrimSpace(req.Location.City) == "":
		return commonerrors.NewInvalidScenarioError("location.city is required")
	case strings.TrimSpace(req.Location.Region) == "":
		return commonerrors.NewInvalidScenarioError("location.region is required")
	}
	return nil
}

// curatedResults materializes an entry's hand-vetted partners as ranked
// output. Ordering follows the curated list; trust scores come from the
// matrix, not from keyword gates.
func curatedResults(entry models.PolicyEntry) []models.RankedPartner {
	out := make([]models.RankedPartner, 0, len(entry.Curated))
	for _, cp := range entry.Curated {
		out = append(out, models.RankedPartner{
			PartnerID:   "curated:" + slug(cp.Name),
			Name:        cp.Name,
			PartnerType: entry.PartnerType,
			Contact: models.Contact{
				Website: cp.Website,
				Phone:   cp.Phone,
			},
			Trust: models.Trust{
				TrustScore: cp.TrustScore,
				ClaimLevel: claimCurated,
			},
			Ranking: models.Ranking{
				Score:   cp.TrustScore,
				Reasons: []string{"curated partner"},
			},
			WhyRecommended: curatedReason(cp),
		})
	}
	return out
}

func curatedReason(cp models.CuratedPartner) string {
	if cp.Notes != "" {
		return cp.Notes
	}
	return "Hand-vetted partner for this category."
}

func slug(name string) string {
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
