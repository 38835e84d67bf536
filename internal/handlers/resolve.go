package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/vinfox/go_vin/internal/logger"
	"github.com/vinfox/go_vin/internal/models"
	"github.com/vinfox/go_vin/internal/resolver"
)

// ResolveHandler handles single and bulk VIN resolution requests
type ResolveHandler struct {
	resolver *resolver.Resolver
	batch    *resolver.BatchResolver
}

// NewResolveHandler creates a new ResolveHandler
func NewResolveHandler(r *resolver.Resolver, b *resolver.BatchResolver) *ResolveHandler {
	return &ResolveHandler{
		resolver: r,
		batch:    b,
	}
}

// RecallsPayload carries the recall portion of a resolution response. Known
// distinguishes "no open recalls found" (true, empty records) from "recall
// state unknown due to upstream failure" (false, error set).
type RecallsPayload struct {
	Known   bool                  `json:"known"`
	Records []models.RecallRecord `json:"records,omitempty"`
	Error   string                `json:"error,omitempty"`
}

// ResolveResponse is the JSON shape of one VIN's resolution
type ResolveResponse struct {
	VIN           string                    `json:"vin"`
	Status        models.OutcomeStatus      `json:"status"`
	Vehicle       *models.VehicleAttributes `json:"vehicle,omitempty"`
	Recalls       *RecallsPayload           `json:"recalls,omitempty"`
	Error         string                    `json:"error,omitempty"`
	CorrelationID string                    `json:"correlation_id"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error         string `json:"error"`
	CorrelationID string `json:"correlation_id,omitempty"`
}

// HandleResolve handles GET /api/resolve?vin=<raw>
func (h *ResolveHandler) HandleResolve(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()
	ctx, correlationID := withCorrelationID(r.Context())

	raw := r.URL.Query().Get("vin")
	if raw == "" {
		respondError(ctx, w, http.StatusBadRequest, "missing required query parameter: vin")
		return
	}

	outcome := h.resolver.Resolve(ctx, raw)

	response := ResolveResponse{
		VIN:           outcome.VIN.String(),
		Status:        outcome.Status,
		Vehicle:       outcome.Attributes,
		CorrelationID: correlationID,
	}

	switch outcome.Status {
	case models.OutcomeSuccess:
		response.Recalls = &RecallsPayload{
			Known:   true,
			Records: outcome.Recalls,
		}
	case models.OutcomePartial:
		response.Recalls = &RecallsPayload{
			Known: false,
			Error: outcome.RecallErr.Error(),
		}
	case models.OutcomeFailed:
		response.Error = outcome.Err.Error()
	}

	logger.LogSlowOperation(ctx, "resolve_request", time.Since(startTime))
	respondJSON(ctx, w, http.StatusOK, response)
}

// BatchItemResponse is the JSON shape of one bulk-decode item
type BatchItemResponse struct {
	VIN     string                    `json:"vin"`
	Vehicle *models.VehicleAttributes `json:"vehicle,omitempty"`
	Error   string                    `json:"error,omitempty"`
}

// InvalidTokensPayload summarizes the tokens rejected by validation
type InvalidTokensPayload struct {
	Total    int      `json:"total"`
	Examples []string `json:"examples"`
}

// BatchResponse is the JSON shape of one bulk submission's result
type BatchResponse struct {
	Items         []BatchItemResponse   `json:"items"`
	Invalid       *InvalidTokensPayload `json:"invalid,omitempty"`
	TokensSeen    int                   `json:"tokens_seen"`
	Capped        bool                  `json:"capped"`
	CorrelationID string                `json:"correlation_id"`
}

// HandleBatch handles POST /api/batch. The request body is raw text with
// VIN tokens separated by any mixture of commas and newlines.
func (h *ResolveHandler) HandleBatch(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()
	ctx, correlationID := withCorrelationID(r.Context())

	body, err := io.ReadAll(r.Body)
	if err != nil {
		logger.LogError(ctx, "Failed to read request body", err)
		respondError(ctx, w, http.StatusBadRequest, "failed to read request body")
		return
	}
	defer r.Body.Close()

	if len(body) == 0 {
		respondError(ctx, w, http.StatusBadRequest, "empty request body")
		return
	}

	result := h.batch.ResolveBatch(ctx, string(body))

	response := BatchResponse{
		Items:         make([]BatchItemResponse, 0, len(result.Items)),
		TokensSeen:    result.TokensSeen,
		Capped:        result.Capped,
		CorrelationID: correlationID,
	}
	for _, item := range result.Items {
		itemResponse := BatchItemResponse{VIN: item.VIN.String()}
		if item.Err != nil {
			itemResponse.Error = item.Err.Error()
		} else {
			itemResponse.Vehicle = item.Attributes
		}
		response.Items = append(response.Items, itemResponse)
	}
	if result.Invalid != nil {
		response.Invalid = &InvalidTokensPayload{
			Total:    result.Invalid.Total,
			Examples: result.Invalid.Examples,
		}
	}

	logger.LogSlowOperation(ctx, "batch_request", time.Since(startTime))
	respondJSON(ctx, w, http.StatusOK, response)
}

// withCorrelationID ensures the context carries a correlation ID, generating
// one when the middleware has not already done so
func withCorrelationID(ctx context.Context) (context.Context, string) {
	if id, ok := ctx.Value(logger.CorrelationIDKey).(string); ok {
		return ctx, id
	}
	id := uuid.New().String()
	return context.WithValue(ctx, logger.CorrelationIDKey, id), id
}

// respondJSON sends a JSON response
func respondJSON(ctx context.Context, w http.ResponseWriter, statusCode int, data interface{}) {
	if correlationID, ok := ctx.Value(logger.CorrelationIDKey).(string); ok {
		w.Header().Set("X-Correlation-ID", correlationID)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.LogError(ctx, "Failed to encode response", err)
	}
}

// respondError sends an error response
func respondError(ctx context.Context, w http.ResponseWriter, statusCode int, message string) {
	correlationID := ""
	if id, ok := ctx.Value(logger.CorrelationIDKey).(string); ok {
		correlationID = id
	}

	response := ErrorResponse{
		Error:         message,
		CorrelationID: correlationID,
	}
	respondJSON(ctx, w, statusCode, response)
}
