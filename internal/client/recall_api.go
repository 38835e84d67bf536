package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/vinfox/go_vin/internal/models"
)

const (
	opRecallByVin = "recall_by_vin"
	opRecallByYMM = "recall_by_ymm"
)

// RecallAPIClient handles communication with the external safety-recall
// service. It supports the specific by-VIN query and the coarser
// year/make/model query used as a fallback.
type RecallAPIClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewRecallAPIClient creates a new recall service client
func NewRecallAPIClient(baseURL string, timeout time.Duration) *RecallAPIClient {
	return &RecallAPIClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// recallResponse is the upstream envelope for both query shapes
type recallResponse struct {
	Results []models.RecallRecord `json:"results"`
}

// ByVin returns the recall campaigns recorded for one VIN.
// An empty (non-nil) slice is a successful "no open recalls" answer and is
// semantically distinct from any returned error.
func (c *RecallAPIClient) ByVin(ctx context.Context, vin models.VinCode) ([]models.RecallRecord, error) {
	query := url.Values{}
	query.Set("vin", vin.String())

	target := fmt.Sprintf("%s/recalls/recallsByVin?%s", c.baseURL, query.Encode())
	return c.fetchRecalls(ctx, opRecallByVin, target)
}

// ByYearMakeModel returns the recall campaigns recorded for a year/make/model
// triple. Make and model are lower-cased before querying; the upstream has
// shown case-sensitivity quirks for these parameters.
func (c *RecallAPIClient) ByYearMakeModel(ctx context.Context, vehicleMake, vehicleModel, modelYear string) ([]models.RecallRecord, error) {
	query := url.Values{}
	query.Set("make", strings.ToLower(vehicleMake))
	query.Set("model", strings.ToLower(vehicleModel))
	query.Set("modelYear", modelYear)

	target := fmt.Sprintf("%s/recalls/recallsByVehicle?%s", c.baseURL, query.Encode())
	return c.fetchRecalls(ctx, opRecallByYMM, target)
}

// fetchRecalls performs one GET against the recall upstream and classifies
// every failure mode into a *models.LookupError
func (c *RecallAPIClient) fetchRecalls(ctx context.Context, op, target string) ([]models.RecallRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, models.NewNetworkError(op, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, models.NewNetworkError(op, err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, models.NewNetworkError(op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, models.NewUpstreamStatusError(op, resp.StatusCode, string(bodyBytes))
	}

	var parsed recallResponse
	if err := json.Unmarshal(bodyBytes, &parsed); err != nil {
		return nil, models.NewMalformedResponseError(op, "response body is not valid JSON", err)
	}

	// A successful call with zero recalls must stay distinguishable from a
	// failed lookup, so the slice is never nil on success.
	if parsed.Results == nil {
		parsed.Results = []models.RecallRecord{}
	}

	return parsed.Results, nil
}
