package handler

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/scoreline/scoreline/internal/api/middleware"
	"github.com/scoreline/scoreline/internal/api/response"
	"github.com/scoreline/scoreline/internal/team"
)

// TeamFetchFailed is the only error message the team routes expose.
const TeamFetchFailed = "Failed to fetch team data"

// TeamLookup resolves team records, reporting cache hits.
type TeamLookup interface {
	Lookup(ctx context.Context, teamID string) (*team.Record, bool, error)
}

type teamResponse struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Translations map[string]string `json:"translations"`
}

func toTeamResponse(rec *team.Record) teamResponse {
	translations := rec.Translations
	if translations == nil {
		translations = map[string]string{}
	}
	return teamResponse{
		ID:           rec.ID,
		Name:         rec.Name,
		Translations: translations,
	}
}

// TeamHandler handles the team endpoints.
type TeamHandler struct {
	teams TeamLookup
}

// NewTeamHandler creates a new TeamHandler.
func NewTeamHandler(teams TeamLookup) *TeamHandler {
	return &TeamHandler{teams: teams}
}

// Get handles GET /teams/{teamId}.
func (h *TeamHandler) Get(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	// chi matches on RawPath when the request has one, leaving the param escaped.
	teamID := chi.URLParam(r, "teamId")
	if r.URL.RawPath != "" {
		if unescaped, err := url.PathUnescape(teamID); err == nil {
			teamID = unescaped
		}
	}

	rec, hit, err := h.teams.Lookup(r.Context(), teamID)
	if err != nil {
		slog.Error("failed to fetch team data", "error", err, "teamId", teamID, "requestId", requestID)
		WriteTeamFailure(w, r)
		return
	}

	if hit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	response.Raw(w, http.StatusOK, toTeamResponse(rec))
}

// WriteTeamFailure writes the 500 body of the team routes.
func WriteTeamFailure(w http.ResponseWriter, _ *http.Request) {
	response.Fail(w, http.StatusInternalServerError, TeamFetchFailed)
}
