package handlers

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/vinfox/go_vin/internal/logger"
)

// RecallProxyHandler forwards recall queries to the recall upstream and
// relays its HTTP status and JSON body verbatim. It exists so browser-based
// deployments can reach the upstream without CORS trouble; it adds no
// semantics of its own.
type RecallProxyHandler struct {
	upstreamBaseURL string
	httpClient      *http.Client
}

// NewRecallProxyHandler creates a new RecallProxyHandler
func NewRecallProxyHandler(upstreamBaseURL string, timeout time.Duration) *RecallProxyHandler {
	return &RecallProxyHandler{
		upstreamBaseURL: upstreamBaseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// HandleRecalls handles GET /api/recalls?vin=<VIN> or ?make=&model=&year=
func (h *RecallProxyHandler) HandleRecalls(w http.ResponseWriter, r *http.Request) {
	ctx, _ := withCorrelationID(r.Context())

	target, err := h.upstreamURL(r)
	if err != nil {
		respondError(ctx, w, http.StatusBadRequest, err.Error())
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		respondError(ctx, w, http.StatusInternalServerError, "failed to build upstream request")
		return
	}
	req.Header.Set("Accept", "application/json")

	resp, err := h.httpClient.Do(req)
	if err != nil {
		logger.LogError(ctx, "Recall upstream unreachable", err)
		respondError(ctx, w, http.StatusBadGateway, "recall upstream unreachable")
		return
	}
	defer resp.Body.Close()

	// Relay the upstream's exact status and body; consumers depend on the
	// proxy being transparent.
	w.Header().Set("Content-Type", resp.Header.Get("Content-Type"))
	w.WriteHeader(resp.StatusCode)
	if _, err := io.Copy(w, resp.Body); err != nil {
		logger.LogError(ctx, "Failed to relay upstream body", err)
	}
}

// upstreamURL maps the proxy's query parameters onto the upstream's two
// query shapes. The year parameter is renamed to the upstream's modelYear.
func (h *RecallProxyHandler) upstreamURL(r *http.Request) (string, error) {
	params := r.URL.Query()

	if vin := params.Get("vin"); vin != "" {
		query := url.Values{}
		query.Set("vin", strings.ToUpper(strings.TrimSpace(vin)))
		return fmt.Sprintf("%s/recalls/recallsByVin?%s", h.upstreamBaseURL, query.Encode()), nil
	}

	vehicleMake := params.Get("make")
	vehicleModel := params.Get("model")
	year := params.Get("year")
	if vehicleMake != "" && vehicleModel != "" && year != "" {
		query := url.Values{}
		query.Set("make", strings.ToLower(vehicleMake))
		query.Set("model", strings.ToLower(vehicleModel))
		query.Set("modelYear", year)
		return fmt.Sprintf("%s/recalls/recallsByVehicle?%s", h.upstreamBaseURL, query.Encode()), nil
	}

	return "", fmt.Errorf("either vin or make+model+year query parameters are required")
}

// HealthResponse is the body of a health probe
type HealthResponse struct {
	OK bool `json:"ok"`
}

// HandleHealth handles GET /health
func HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"ok":true}`))
}
