// internal/engine/policy/store.go

// Package policy loads the disposition matrix and resolves scenarios to
// policy entries.
package policy

import (
	"fmt"
	"sync/atomic"

	"github.com/spf13/viper"

	commonerrors "disposition-engine/internal/common/errors"
	"disposition-engine/internal/models"
)

// Matrix is one immutable snapshot of the disposition matrix artifact.
type Matrix struct {
	Version int                  `mapstructure:"version"`
	Entries []models.PolicyEntry `mapstructure:"entries"`
}

// Store holds the current matrix snapshot. Reload swaps the whole snapshot
// atomically; entries are never mutated in place.
type Store struct {
	path     string
	snapshot atomic.Pointer[Matrix]
}

// NewStore loads the matrix from path and returns a ready store.
func NewStore(path string) (*Store, error) {
	s := &Store{path: path}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// NewStoreFromMatrix wraps an already-built matrix. Used by tests and by
// callers that assemble entries programmatically.
func NewStoreFromMatrix(m *Matrix) *Store {
	s := &Store{}
	s.snapshot.Store(m)
	return s
}

// Reload reads the matrix file and swaps in a fresh snapshot. The previous
// snapshot stays valid for searches already in flight.
func (s *Store) Reload() error {
	m, err := loadMatrix(s.path)
	if err != nil {
		return commonerrors.NewMatrixLoadFailedError(s.path, err)
	}
	s.snapshot.Store(m)
	return nil
}

// Matrix returns the current snapshot.
func (s *Store) Matrix() *Matrix {
	return s.snapshot.Load()
}

func loadMatrix(path string) (*Matrix, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read disposition matrix %s: %w", path, err)
	}

	var m Matrix
	if err := v.Unmarshal(&m); err != nil {
		return nil, fmt.Errorf("failed to unmarshal disposition matrix: %w", err)
	}

	if err := validateMatrix(&m); err != nil {
		return nil, fmt.Errorf("invalid disposition matrix: %w", err)
	}

	return &m, nil
}

func validateMatrix(m *Matrix) error {
	seen := make(map[string]bool)
	for i, e := range m.Entries {
		if e.ID == "" {
			return fmt.Errorf("entry %d has no id", i)
		}
		if seen[e.ID] {
			return fmt.Errorf("duplicate entry id %q", e.ID)
		}
		seen[e.ID] = true

		if e.PartnerType == "" {
			return fmt.Errorf("entry %q has no partner_type", e.ID)
		}
		if e.Match.Category == "" {
			return fmt.Errorf("entry %q has no match.category", e.ID)
		}
		if !e.IsCurated() && len(e.QueryTemplates) == 0 {
			return fmt.Errorf("entry %q has neither query_templates nor curated partners", e.ID)
		}
	}
	return nil
}
