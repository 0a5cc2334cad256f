// internal/engine/provider/provider.go

// Package provider abstracts the external POI search used for partner
// discovery. Two implementations exist: a deterministic in-memory stub for
// tests and offline development, and a live Google Places backed client.
package provider

import (
	"context"
	"fmt"
	"math"

	"disposition-engine/internal/models"
)

// Query is one search issued against a provider.
type Query struct {
	Text        string
	City        string
	Region      string
	RadiusMiles int
	PartnerType string
	CenterLat   *float64
	CenterLng   *float64
}

// Provider searches a single external POI source. The engine treats every
// provider as untrusted and occasionally unreliable.
type Provider interface {
	Name() string
	Search(ctx context.Context, q Query) ([]models.Candidate, error)
}

// ErrorKind classifies provider failures.
type ErrorKind int

const (
	// Transient failures are eligible for one immediate retry.
	Transient ErrorKind = iota
	// Permanent failures are not retried.
	Permanent
)

// Error wraps a provider failure with its retry classification.
type Error struct {
	Kind     ErrorKind
	Provider string
	Err      error
}

func (e *Error) Error() string {
	kind := "transient"
	if e.Kind == Permanent {
		kind = "permanent"
	}
	return fmt.Sprintf("provider %s: %s failure: %v", e.Provider, kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsTransient reports whether err is a transient provider error.
func IsTransient(err error) bool {
	pe, ok := err.(*Error)
	return ok && pe.Kind == Transient
}

const earthRadiusMiles = 3958.7613

// HaversineMiles returns the great-circle distance between two coordinates.
func HaversineMiles(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := lat1 * math.Pi / 180.0
	phi2 := lat2 * math.Pi / 180.0
	dphi := (lat2 - lat1) * math.Pi / 180.0
	dlambda := (lon2 - lon1) * math.Pi / 180.0

	a := math.Sin(dphi/2.0)*math.Sin(dphi/2.0) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dlambda/2.0)*math.Sin(dlambda/2.0)
	c := 2.0 * math.Atan2(math.Sqrt(a), math.Sqrt(math.Max(0.0, 1.0-a)))
	return earthRadiusMiles * c
}

// milesToMeters converts a search radius for the Places locationBias circle.
func milesToMeters(mi int) float64 {
	if mi < 0 {
		mi = 0
	}
	return float64(mi) * 1609.344
}
