package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"sigs.k8s.io/yaml"
)

// OpenAPIHandler serves the OpenAPI document as JSON.
type OpenAPIHandler struct {
	jsonSpec []byte
}

// NewOpenAPIHandler converts the YAML document to JSON once, so a malformed
// document fails at startup instead of on the first request.
func NewOpenAPIHandler(yamlSpec []byte) (*OpenAPIHandler, error) {
	if len(yamlSpec) == 0 {
		return nil, fmt.Errorf("openapi document is empty")
	}
	jsonSpec, err := yaml.YAMLToJSON(yamlSpec)
	if err != nil {
		return nil, fmt.Errorf("converting openapi document to json: %w", err)
	}
	return &OpenAPIHandler{jsonSpec: jsonSpec}, nil
}

// ServeHTTP writes the converted document.
func (h *OpenAPIHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(h.jsonSpec); err != nil {
		slog.Error("failed to write OpenAPI document", "error", err)
	}
}
