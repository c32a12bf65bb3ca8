package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"CycleWatch/internal/domain/models"
	drepo "CycleWatch/internal/domain/repository"
	"CycleWatch/pkg/cache"
)

const latestKey = "snapshot:latest"

// SnapshotCache implements SnapshotStore on top of the layered cache. It only
// holds the last good snapshot so refresh failures can fall back to it; there
// is no snapshot history.
type SnapshotCache struct {
	cache cache.Service
	ttl   time.Duration
}

// NewSnapshotCache creates a snapshot store backed by a cache service.
func NewSnapshotCache(c cache.Service, ttl time.Duration) drepo.SnapshotStore {
	return &SnapshotCache{cache: c, ttl: ttl}
}

// Save replaces the last good snapshot.
func (s *SnapshotCache) Save(ctx context.Context, snap *models.MetricSnapshot) error {
	if err := s.cache.Set(ctx, latestKey, snap, s.ttl); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// Latest returns the last good snapshot, or (nil, nil) when none exists yet.
func (s *SnapshotCache) Latest(ctx context.Context) (*models.MetricSnapshot, error) {
	var snap models.MetricSnapshot
	if err := s.cache.Get(ctx, latestKey, &snap); err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return nil, nil
		}
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	return &snap, nil
}
