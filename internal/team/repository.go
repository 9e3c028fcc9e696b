package team

import (
	"context"
	"errors"
)

// ErrTeamNotFound is returned by a Source that has no data for the requested team.
var ErrTeamNotFound = errors.New("team not found")

// ErrUpstreamFetch wraps any other failure while asking a Source for a team.
var ErrUpstreamFetch = errors.New("upstream fetch failed")

// ErrInvalidTeamID is returned for an empty team identifier.
var ErrInvalidTeamID = errors.New("team id must not be empty")

// Source provides authoritative team data on a cache miss.
type Source interface {
	Fetch(ctx context.Context, teamID string) (*Record, error)
}

// Pinger is implemented by sources that can report backend connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PlaceholderSource knows no teams. Every lookup through it yields a placeholder record.
type PlaceholderSource struct{}

// Fetch always returns ErrTeamNotFound.
func (PlaceholderSource) Fetch(_ context.Context, _ string) (*Record, error) {
	return nil, ErrTeamNotFound
}
