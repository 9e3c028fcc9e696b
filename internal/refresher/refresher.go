package refresher

import (
	"context"
	"log/slog"
	"time"

	"github.com/scoreline/scoreline/internal/team"
)

// TeamService is the part of team.Service the refresher drives.
type TeamService interface {
	Placeholders() []string
	Refresh(ctx context.Context, teamID string) (*team.Record, bool, error)
}

// Refresher periodically retries cached placeholder records against the team
// source so that an empty record is replaced once real data becomes available.
type Refresher struct {
	svc      TeamService
	interval time.Duration
}

// New creates a new Refresher.
func New(svc TeamService, interval time.Duration) *Refresher {
	return &Refresher{
		svc:      svc,
		interval: interval,
	}
}

// Start begins the refresh loop. It blocks until ctx is cancelled.
func (r *Refresher) Start(ctx context.Context) {
	slog.Info("refresher started", "interval", r.interval.String())
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("refresher stopped")
			return
		case <-ticker.C:
			r.RunOnce(ctx)
		}
	}
}

// RunOnce refreshes every placeholder currently cached and returns how many
// were replaced.
func (r *Refresher) RunOnce(ctx context.Context) int {
	replaced := 0
	for _, id := range r.svc.Placeholders() {
		if ctx.Err() != nil {
			return replaced
		}
		if r.refreshOne(ctx, id) {
			replaced++
		}
	}
	return replaced
}

func (r *Refresher) refreshOne(ctx context.Context, teamID string) bool {
	rec, ok, err := r.svc.Refresh(ctx, teamID)
	if err != nil {
		slog.Warn("refresher: failed to refresh team", "teamId", teamID, "error", err)
		return false
	}
	if !ok {
		return false
	}

	slog.Info("refresher: placeholder replaced", "teamId", teamID, "name", rec.Name)
	return true
}
