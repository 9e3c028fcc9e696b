package api

import (
	_ "embed"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/scoreline/scoreline/internal/api/handler"
	"github.com/scoreline/scoreline/internal/api/middleware"
	"github.com/scoreline/scoreline/internal/team"
)

// OpenAPISpec is the embedded OpenAPI document.
//
//go:embed openapi.yaml
var OpenAPISpec []byte

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	Teams       handler.TeamLookup
	Cache       handler.CacheStatser
	SourceKind  string
	Pinger      team.Pinger
	Version     string
	OpenAPISpec []byte
	Metrics     http.Handler
	// AccessLog enables chi's request logger.
	AccessLog bool
}

// NewRouter creates and configures a Chi router with all middleware and routes.
func NewRouter(deps RouterDeps) (*chi.Mux, error) {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery)
	if deps.AccessLog {
		r.Use(chimiddleware.Logger)
	}

	healthHandler := handler.NewHealthHandler(deps.SourceKind, deps.Pinger, deps.Cache, deps.Version)
	r.Get("/health", healthHandler.ServeHTTP)

	if len(deps.OpenAPISpec) > 0 {
		openapiHandler, err := handler.NewOpenAPIHandler(deps.OpenAPISpec)
		if err != nil {
			return nil, fmt.Errorf("building openapi handler: %w", err)
		}
		r.Get("/openapi.json", openapiHandler.ServeHTTP)
	}

	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics)
	}

	if deps.Teams != nil {
		teamHandler := handler.NewTeamHandler(deps.Teams)
		r.Route("/teams", func(r chi.Router) {
			r.Use(middleware.RecoveryWith(handler.WriteTeamFailure))
			r.Get("/{teamId}", teamHandler.Get)
		})
	}

	return r, nil
}
