package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/vinfox/go_vin/internal/models"
)

// opDecode names the decode call in LookupError values
const opDecode = "decode"

// DecodeAPIClient handles communication with the external VIN decode service
type DecodeAPIClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewDecodeAPIClient creates a new decode service client
func NewDecodeAPIClient(baseURL string, timeout time.Duration) *DecodeAPIClient {
	return &DecodeAPIClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// decodeResponse is the upstream envelope: a list of variable/value pairs
// whose composition varies across vehicle types
type decodeResponse struct {
	Results []decodeVariable `json:"Results"`
}

type decodeVariable struct {
	Variable string `json:"Variable"`
	Value    string `json:"Value"`
}

// Decode maps a validated VIN to a flat VehicleAttributes record.
// The VIN is embedded in the request path. Any variable the upstream omits
// or leaves empty resolves to models.UnknownValue rather than failing the
// whole decode, since upstream field sets vary across vehicle types.
// The returned error is a *models.LookupError classifying the failure as
// network, upstream status, or malformed response.
func (c *DecodeAPIClient) Decode(ctx context.Context, vin models.VinCode) (*models.VehicleAttributes, error) {
	url := fmt.Sprintf("%s/vehicles/DecodeVin/%s?format=json", c.baseURL, vin)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, models.NewNetworkError(opDecode, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, models.NewNetworkError(opDecode, err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, models.NewNetworkError(opDecode, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, models.NewUpstreamStatusError(opDecode, resp.StatusCode, string(bodyBytes))
	}

	var parsed decodeResponse
	if err := json.Unmarshal(bodyBytes, &parsed); err != nil {
		return nil, models.NewMalformedResponseError(opDecode, "response body is not valid JSON", err)
	}
	if len(parsed.Results) == 0 {
		return nil, models.NewMalformedResponseError(opDecode, "response contains no Results", nil)
	}

	values := make(map[string]string, len(parsed.Results))
	for _, v := range parsed.Results {
		values[v.Variable] = v.Value
	}

	return &models.VehicleAttributes{
		Make:               valueOrUnknown(values, "Make"),
		Model:              valueOrUnknown(values, "Model"),
		ModelYear:          valueOrUnknown(values, "Model Year"),
		BodyClass:          valueOrUnknown(values, "Body Class"),
		EngineCylinders:    valueOrUnknown(values, "Engine Number of Cylinders"),
		DisplacementLiters: valueOrUnknown(values, "Displacement (in Liters)"),
		FuelTypePrimary:    valueOrUnknown(values, "Fuel Type - Primary"),
		PlantCountry:       valueOrUnknown(values, "Plant Country"),
	}, nil
}

// valueOrUnknown looks up a variable by its exact upstream name, substituting
// the unknown sentinel for missing or empty values
func valueOrUnknown(values map[string]string, variable string) string {
	if v, ok := values[variable]; ok && v != "" {
		return v
	}
	return models.UnknownValue
}
