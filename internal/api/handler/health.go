package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/scoreline/scoreline/internal/api/middleware"
	"github.com/scoreline/scoreline/internal/api/response"
	"github.com/scoreline/scoreline/internal/team"
)

const pingTimeout = 2 * time.Second

// CacheStatser reports cache counters.
type CacheStatser interface {
	Stats() team.CacheStats
}

// HealthHandler handles the GET /health endpoint.
type HealthHandler struct {
	sourceKind string
	pinger     team.Pinger
	cache      CacheStatser
	version    string
}

// NewHealthHandler creates a new HealthHandler. pinger may be nil for sources
// without a backend.
func NewHealthHandler(sourceKind string, pinger team.Pinger, cache CacheStatser, version string) *HealthHandler {
	return &HealthHandler{
		sourceKind: sourceKind,
		pinger:     pinger,
		cache:      cache,
		version:    version,
	}
}

type sourceStatus struct {
	Kind      string `json:"kind"`
	Connected *bool  `json:"connected"`
}

type healthData struct {
	Status  string           `json:"status"`
	Version string           `json:"version"`
	Source  sourceStatus     `json:"source"`
	Cache   *team.CacheStats `json:"cache"`
}

// ServeHTTP handles the health check request.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	status := "healthy"
	src := sourceStatus{Kind: h.sourceKind}

	if h.pinger != nil {
		ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
		connected := h.pinger.Ping(ctx) == nil
		cancel()

		src.Connected = &connected
		if !connected {
			status = "degraded"
		}
	}

	data := healthData{
		Status:  status,
		Version: h.version,
		Source:  src,
	}
	if h.cache != nil {
		stats := h.cache.Stats()
		data.Cache = &stats
	}

	response.Success(w, http.StatusOK, data, requestID)
}
