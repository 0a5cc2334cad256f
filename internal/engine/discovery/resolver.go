// internal/engine/discovery/resolver.go
package discovery

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"disposition-engine/internal/common/config"
	commonerrors "disposition-engine/internal/common/errors"
	"disposition-engine/internal/common/logger"
	"disposition-engine/internal/common/metrics"
	"disposition-engine/internal/engine/provider"
	"disposition-engine/internal/models"
)

// Result is the outcome of one candidate resolution.
type Result struct {
	Candidates []models.Candidate
	// RadiusUsedMiles is the widest tier actually searched.
	RadiusUsedMiles int
	// Degraded marks a partial result: some provider calls failed or the
	// overall deadline expired before the ladder finished.
	Degraded bool
}

// Resolver turns a matched policy into a deduplicated candidate set. It
// checks the cache first, then walks the radius ladder, fanning out the
// entry's query templates with bounded concurrency at each tier until the
// minimum candidate count is met or the ladder is exhausted.
type Resolver struct {
	provider       provider.Provider
	cache          *CandidateCache
	logger         logger.Logger
	ladder         []int
	minCandidates  int
	maxConcurrency int
	perCallTimeout time.Duration
}

func NewResolver(p provider.Provider, cache *CandidateCache, log logger.Logger, cfg *config.DiscoveryConfig) *Resolver {
	return &Resolver{
		provider:       p,
		cache:          cache,
		logger:         log,
		ladder:         cfg.RadiusLadderMiles,
		minCandidates:  cfg.MinCandidates,
		maxConcurrency: cfg.MaxConcurrency,
		perCallTimeout: time.Duration(cfg.Places.Timeout) * time.Millisecond,
	}
}

// Resolve finds candidates for entry near loc. Exhausting the ladder with
// nothing found is not an error: the caller gets an empty, degraded result
// and decides how to present it.
func (r *Resolver) Resolve(ctx context.Context, entry models.PolicyEntry, scenario models.Scenario, loc models.Location) (*Result, error) {
	grid := LocationGrid(loc)
	ladder := r.effectiveLadder(loc)

	// A set cached at any tier satisfies narrower requests too, so the
	// lookup scans from the widest tier down.
	if r.cache != nil {
		for i := len(ladder) - 1; i >= 0; i-- {
			if cached, ok := r.cache.Get(ctx, CacheKey(entry.ID, grid, ladder[i])); ok {
				r.logger.Debug("Candidate cache hit", map[string]interface{}{
					"policy_id":    entry.ID,
					"grid":         grid,
					"radius_miles": ladder[i],
					"candidates":   len(cached),
				})
				return &Result{Candidates: cached, RadiusUsedMiles: ladder[i]}, nil
			}
		}
	}

	queries := renderTemplates(entry, scenario, loc)

	merged := make([]models.Candidate, 0, r.minCandidates*2)
	seen := make(map[string]bool)
	degraded := false
	radiusUsed := ladder[0]

	for tierIdx, radius := range ladder {
		if tierIdx > 0 {
			metrics.RadiusEscalations.WithLabelValues(strconv.Itoa(radius)).Inc()
			r.logger.Info("Escalating search radius", map[string]interface{}{
				"policy_id":    entry.ID,
				"radius_miles": radius,
				"found_so_far": len(merged),
			})
		}
		radiusUsed = radius

		batch, tierDegraded := r.searchTier(ctx, queries, radius, loc, entry.PartnerType)
		degraded = degraded || tierDegraded

		for _, c := range batch {
			key := c.DedupKey()
			if seen[key] {
				continue
			}
			seen[key] = true
			merged = append(merged, c)
		}

		if ctx.Err() != nil {
			// Deadline expired mid-ladder: hand back what we have.
			return &Result{Candidates: merged, RadiusUsedMiles: radiusUsed, Degraded: true}, nil
		}
		if len(merged) >= r.minCandidates {
			break
		}
	}

	if len(merged) == 0 && degraded {
		// Every query failed at every tier. The search still answers with an
		// empty result; the exhaustion is recorded for operators.
		exhausted := commonerrors.NewProviderExhaustedError(r.provider.Name())
		metrics.ProviderExhaustions.WithLabelValues(r.provider.Name()).Inc()
		r.logger.Warn(exhausted.Message, map[string]interface{}{
			"code":      string(exhausted.Code),
			"policy_id": entry.ID,
			"tiers":     len(ladder),
		})
		return &Result{RadiusUsedMiles: radiusUsed, Degraded: true}, nil
	}

	if r.cache != nil && !degraded {
		r.cache.Set(ctx, CacheKey(entry.ID, grid, radiusUsed), merged)
	}

	return &Result{Candidates: merged, RadiusUsedMiles: radiusUsed, Degraded: degraded}, nil
}

// searchTier fans the rendered queries out against the provider at one
// radius. Failed queries degrade the tier instead of failing it; transient
// retry is the provider's concern.
func (r *Resolver) searchTier(ctx context.Context, queries []string, radius int, loc models.Location, partnerType string) ([]models.Candidate, bool) {
	type queryOutcome struct {
		candidates []models.Candidate
		err        error
	}

	sem := make(chan struct{}, r.maxConcurrency)
	outcomes := make([]queryOutcome, len(queries))
	var wg sync.WaitGroup

	for i, text := range queries {
		wg.Add(1)
		go func(idx int, text string) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				outcomes[idx] = queryOutcome{err: ctx.Err()}
				return
			}

			callCtx, cancel := context.WithTimeout(ctx, r.perCallTimeout)
			defer cancel()

			candidates, err := r.provider.Search(callCtx, provider.Query{
				Text:        text,
				City:        loc.City,
				Region:      loc.Region,
				RadiusMiles: radius,
				PartnerType: partnerType,
				CenterLat:   loc.Latitude,
				CenterLng:   loc.Longitude,
			})
			outcomes[idx] = queryOutcome{candidates: candidates, err: err}
		}(i, text)
	}
	wg.Wait()

	var batch []models.Candidate
	degraded := false
	for i, out := range outcomes {
		if out.err != nil {
			degraded = true
			r.logger.Warn("Provider query failed", map[string]interface{}{
				"query":        queries[i],
				"radius_miles": radius,
				"transient":    provider.IsTransient(out.err),
				"error":        out.err.Error(),
			})
			continue
		}
		batch = append(batch, out.candidates...)
	}
	return batch, degraded
}

// effectiveLadder trims the configured ladder to tiers at least as wide as
// the requested radius. A request wider than every tier searches once at
// its own radius.
func (r *Resolver) effectiveLadder(loc models.Location) []int {
	ladder := r.ladder
	if len(ladder) == 0 {
		ladder = []int{25, 50, 100}
	}
	if loc.RadiusMiles <= 0 {
		return ladder
	}

	var out []int
	for _, tier := range ladder {
		if tier >= loc.RadiusMiles {
			out = append(out, tier)
		}
	}
	if len(out) == 0 {
		out = []int{loc.RadiusMiles}
	}
	return out
}

// renderTemplates substitutes scenario and location placeholders into the
// entry's query templates. Unknown placeholders pass through untouched.
func renderTemplates(entry models.PolicyEntry, scenario models.Scenario, loc models.Location) []string {
	brand := ""
	if len(scenario.BrandHints) > 0 {
		brand = scenario.BrandHints[0]
	}

	condition := scenario.ConditionHint
	if condition == "unknown" {
		condition = ""
	}

	replacer := strings.NewReplacer(
		"{city}", loc.City,
		"{region}", loc.Region,
		"{postal}", loc.PostalCode,
		"{category}", scenario.Category,
		"{brand}", brand,
		"{condition}", condition,
	)

	out := make([]string, 0, len(entry.QueryTemplates))
	for _, tmpl := range entry.QueryTemplates {
		rendered := strings.Join(strings.Fields(replacer.Replace(tmpl)), " ")
		if rendered != "" {
			out = append(out, rendered)
		}
	}
	return out
}
