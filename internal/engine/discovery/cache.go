// internal/engine/discovery/cache.go

// Package discovery resolves provider candidates for a matched policy:
// cached lookup, bounded fan-out over query templates, and radius
// escalation until enough distinct candidates exist.
package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"disposition-engine/internal/common/logger"
	"disposition-engine/internal/common/metrics"
	"disposition-engine/internal/models"
)

const cacheKeyPrefix = "disposition:candidates"

// CandidateCache stores resolved candidate sets in Redis keyed by policy
// identity, location grid, and radius tier. A cache failure is never fatal:
// reads degrade to a miss and writes are dropped.
type CandidateCache struct {
	client *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewCandidateCache(client *redis.Client, ttl time.Duration, log logger.Logger) *CandidateCache {
	return &CandidateCache{
		client: client,
		ttl:    ttl,
		logger: log,
	}
}

// CacheKey builds the storage key for one (policy, grid, tier) cell.
func CacheKey(policyID, grid string, tierMiles int) string {
	return fmt.Sprintf("%s:%s:%s:%d", cacheKeyPrefix, policyID, grid, tierMiles)
}

// LocationGrid buckets a location so nearby requests share cache entries.
// With coordinates the bucket is a 0.1 degree cell (roughly seven miles);
// without, the city and region collapse case-insensitively.
func LocationGrid(loc models.Location) string {
	if loc.HasCoordinates() {
		return fmt.Sprintf("%.1f,%.1f", *loc.Latitude, *loc.Longitude)
	}
	return strings.ToLower(strings.TrimSpace(loc.City)) + "|" + strings.ToLower(strings.TrimSpace(loc.Region))
}

// Get returns the cached candidate set for key, or ok=false on miss. Redis
// failures and corrupt entries count as misses.
func (c *CandidateCache) Get(ctx context.Context, key string) ([]models.Candidate, bool) {
	raw, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		metrics.CacheLookups.WithLabelValues("miss").Inc()
		return nil, false
	}
	if err != nil {
		metrics.CacheLookups.WithLabelValues("error").Inc()
		c.logger.Warn("Candidate cache read failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return nil, false
	}

	var candidates []models.Candidate
	if err := json.Unmarshal([]byte(raw), &candidates); err != nil {
		metrics.CacheLookups.WithLabelValues("error").Inc()
		c.logger.Warn("Candidate cache entry corrupt, treating as miss", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return nil, false
	}

	metrics.CacheLookups.WithLabelValues("hit").Inc()
	return candidates, true
}

// Set stores a candidate set under key for the configured TTL.
func (c *CandidateCache) Set(ctx context.Context, key string, candidates []models.Candidate) {
	payload, err := json.Marshal(candidates)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.logger.Warn("Candidate cache write failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
}
