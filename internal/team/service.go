package team

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/scoreline/scoreline/internal/metrics"
)

// Service resolves team records through a cache in front of a Source.
type Service struct {
	source  Source
	cache   Cache
	group   singleflight.Group
	metrics *metrics.Metrics
}

// ServiceOption configures the Service.
type ServiceOption func(*Service)

// WithMetrics records lookups and source fetches on m.
func WithMetrics(m *metrics.Metrics) ServiceOption {
	return func(s *Service) {
		s.metrics = m
	}
}

// NewService creates a new Service.
func NewService(source Source, cache Cache, opts ...ServiceOption) *Service {
	s := &Service{
		source: source,
		cache:  cache,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetTeam returns the record for teamID, populating the cache on a miss.
func (s *Service) GetTeam(ctx context.Context, teamID string) (*Record, error) {
	rec, _, err := s.Lookup(ctx, teamID)
	return rec, err
}

// Lookup is GetTeam that also reports whether the record came from the cache.
//
// Concurrent misses for the same id share one source fetch. The cache is only
// written when the fetch succeeds; a source that has nothing for the id still
// produces a cached placeholder.
func (s *Service) Lookup(ctx context.Context, teamID string) (*Record, bool, error) {
	if teamID == "" {
		return nil, false, ErrInvalidTeamID
	}

	if rec, ok := s.cache.Get(teamID); ok {
		s.metrics.ObserveLookup(metrics.LookupHit)
		return rec.Clone(), true, nil
	}

	// The shared fetch must not die with whichever caller started it.
	fetchCtx := context.WithoutCancel(ctx)

	v, err, _ := s.group.Do(teamID, func() (any, error) {
		if rec, ok := s.cache.Peek(teamID); ok {
			return rec, nil
		}
		rec, err := s.fetch(fetchCtx, teamID)
		if err != nil {
			return nil, err
		}
		s.cache.Add(teamID, rec)
		return rec, nil
	})
	if err != nil {
		s.metrics.ObserveLookup(metrics.LookupError)
		return nil, false, err
	}

	s.metrics.ObserveLookup(metrics.LookupMiss)
	return v.(*Record).Clone(), false, nil
}

// Refresh fetches teamID from the source, bypassing the cache. The cached entry
// is replaced only when the source returned a named record.
func (s *Service) Refresh(ctx context.Context, teamID string) (*Record, bool, error) {
	if teamID == "" {
		return nil, false, ErrInvalidTeamID
	}

	rec, err := s.fetch(ctx, teamID)
	if err != nil {
		return nil, false, err
	}
	if rec.IsPlaceholder() {
		return rec.Clone(), false, nil
	}

	s.cache.Add(teamID, rec)
	return rec.Clone(), true, nil
}

// Placeholders returns the ids of cached records that carry no name.
func (s *Service) Placeholders() []string {
	var ids []string
	for _, id := range s.cache.Keys() {
		if rec, ok := s.cache.Peek(id); ok && rec.IsPlaceholder() {
			ids = append(ids, id)
		}
	}
	return ids
}

// Invalidate drops teamID from the cache.
func (s *Service) Invalidate(teamID string) {
	s.cache.Remove(teamID)
}

// Stats returns a snapshot of the cache counters.
func (s *Service) Stats() CacheStats {
	return s.cache.Stats()
}

func (s *Service) fetch(ctx context.Context, teamID string) (*Record, error) {
	start := time.Now()
	rec, err := s.source.Fetch(ctx, teamID)
	elapsed := time.Since(start)

	switch {
	case errors.Is(err, ErrTeamNotFound), err == nil && rec == nil:
		s.metrics.ObserveFetch(metrics.FetchNotFound, elapsed)
		slog.Debug("team not known to source, caching placeholder", "teamId", teamID)
		return NewPlaceholder(teamID), nil
	case err != nil:
		s.metrics.ObserveFetch(metrics.FetchError, elapsed)
		return nil, fmt.Errorf("%w: team %q: %w", ErrUpstreamFetch, teamID, err)
	}

	s.metrics.ObserveFetch(metrics.FetchFound, elapsed)
	return normalize(teamID, rec), nil
}
