// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Threadline Contributors

package graphql

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/graphql-go/graphql"

	"github.com/threadline/threadline/internal/observability"
)

// request is the JSON body of a GraphQL POST.
type request struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName"`
	Variables     map[string]any `json:"variables"`
}

// Handler executes GraphQL requests against a schema.
type Handler struct {
	schema  graphql.Schema
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewHandler creates an HTTP handler for the schema. metrics may be nil.
func NewHandler(schema graphql.Schema, metrics *observability.Metrics, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{schema: schema, metrics: metrics, logger: logger}
}

// ServeHTTP handles a GraphQL POST. Domain errors travel inside the data
// payload; only malformed requests and resolver failures surface as
// transport or GraphQL errors. The response is always 200 once the body
// parses, per GraphQL convention.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	result := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		OperationName:  req.OperationName,
		VariableValues: req.Variables,
		Context:        r.Context(),
	})

	status := "ok"
	if len(result.Errors) > 0 {
		status = "error"
		h.logger.Warn("graphql request failed",
			"operation", req.OperationName,
			"errors", len(result.Errors),
		)
	}
	h.metrics.RecordRequest(req.OperationName, status)

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		h.logger.Error("failed to write graphql response", "error", err)
	}
}

var _ http.Handler = (*Handler)(nil)
