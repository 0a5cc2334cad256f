// internal/engine/provider/factory.go
package provider

import (
	"context"
	"fmt"
	"time"

	"disposition-engine/internal/common/config"
	"disposition-engine/internal/common/metrics"

	"disposition-engine/internal/models"
)

// New builds the provider selected by configuration, wrapped with request
// metrics. Config validation already constrained the provider name, the
// default branch only guards programmatic construction.
func New(cfg *config.DiscoveryConfig) (Provider, error) {
	switch cfg.Provider {
	case "", "stub":
		return Instrument(NewStubProvider()), nil
	case "google":
		timeout := time.Duration(cfg.Places.Timeout) * time.Millisecond
		return Instrument(NewPlacesProvider(cfg.Places.APIKey, cfg.Places.BaseURL, timeout)), nil
	default:
		return nil, fmt.Errorf("unknown discovery provider %q", cfg.Provider)
	}
}

// instrumented counts provider requests by outcome.
type instrumented struct {
	inner Provider
}

// Instrument wraps a provider with prometheus request counters.
func Instrument(p Provider) Provider {
	return &instrumented{inner: p}
}

func (p *instrumented) Name() string {
	return p.inner.Name()
}

func (p *instrumented) Search(ctx context.Context, q Query) ([]models.Candidate, error) {
	candidates, err := p.inner.Search(ctx, q)

	status := "ok"
	switch {
	case err != nil && IsTransient(err):
		status = "transient_error"
	case err != nil:
		status = "permanent_error"
	}
	metrics.ProviderRequests.WithLabelValues(p.inner.Name(), status).Inc()

	return candidates, err
}
