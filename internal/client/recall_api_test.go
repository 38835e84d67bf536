package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/vinfox/go_vin/internal/models"
)

const recallFixture = `{
	"Count": 2,
	"results": [
		{
			"NHTSACampaignNumber": "04V176000",
			"ReportReceivedDate": "13/04/2004",
			"Component": "SEAT BELTS:FRONT:ANCHORAGE",
			"Summary": "ON CERTAIN PASSENGER VEHICLES...",
			"Consequence": "IN THE EVENT OF A CRASH...",
			"ManufacturerRecallNo": "Q35",
			"RecallInitiator": "MFR"
		},
		{
			"NHTSACampaignNumber": "08V060000",
			"ReportReceivedDate": "08/02/2008",
			"Component": "AIR BAGS",
			"Summary": "HONDA IS RECALLING..."
		}
	]
}`

func TestByVin_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("vin"); got != testVIN.String() {
			t.Errorf("Expected vin query parameter %s, got %q", testVIN, got)
		}

		w.WriteHeader(http.StatusOK)
		w.Write([]byte(recallFixture))
	}))
	defer server.Close()

	client := NewRecallAPIClient(server.URL, 5*time.Second)

	records, err := client.ByVin(context.Background(), testVIN)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("Expected 2 recall records, got %d", len(records))
	}
	if records[0].CampaignNumber != "04V176000" {
		t.Errorf("Expected campaign 04V176000, got %q", records[0].CampaignNumber)
	}
	if records[0].ManufacturerRecallNumber != "Q35" {
		t.Errorf("Expected manufacturer recall number Q35, got %q", records[0].ManufacturerRecallNumber)
	}
	if records[1].Consequence != "" {
		t.Errorf("Expected empty optional consequence, got %q", records[1].Consequence)
	}
}

func TestByVin_EmptyResultsIsSuccess(t *testing.T) {
	// An empty list from a successful call means "no open recalls found";
	// it must never look like a failed lookup
	testCases := []struct {
		name string
		body string
	}{
		{"empty array", `{"Count": 0, "results": []}`},
		{"missing results key", `{"Count": 0}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte(tc.body))
			}))
			defer server.Close()

			client := NewRecallAPIClient(server.URL, 5*time.Second)

			records, err := client.ByVin(context.Background(), testVIN)
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if records == nil {
				t.Fatal("Expected non-nil empty slice on success")
			}
			if len(records) != 0 {
				t.Errorf("Expected 0 records, got %d", len(records))
			}
		})
	}
}

func TestByYearMakeModel_QueryNormalization(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		// Make and model are lower-cased against upstream case quirks
		if got := query.Get("make"); got != "honda" {
			t.Errorf("Expected lower-cased make honda, got %q", got)
		}
		if got := query.Get("model"); got != "accord" {
			t.Errorf("Expected lower-cased model accord, got %q", got)
		}
		if got := query.Get("modelYear"); got != "2003" {
			t.Errorf("Expected modelYear 2003, got %q", got)
		}

		w.WriteHeader(http.StatusOK)
		w.Write([]byte(recallFixture))
	}))
	defer server.Close()

	client := NewRecallAPIClient(server.URL, 5*time.Second)

	records, err := client.ByYearMakeModel(context.Background(), "HONDA", "Accord", "2003")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(records) != 2 {
		t.Errorf("Expected 2 recall records, got %d", len(records))
	}
}

func TestRecallLookup_UpstreamStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": "bad vin"}`))
	}))
	defer server.Close()

	client := NewRecallAPIClient(server.URL, 5*time.Second)

	_, err := client.ByVin(context.Background(), testVIN)
	if err == nil {
		t.Fatal("Expected error for 400 response, got nil")
	}

	lookupErr, ok := err.(*models.LookupError)
	if !ok {
		t.Fatalf("Expected *models.LookupError, got %T", err)
	}
	if lookupErr.Kind != models.LookupKindUpstreamStatus {
		t.Errorf("Expected upstream_status kind, got %s", lookupErr.Kind)
	}
	if lookupErr.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected status code 400, got %d", lookupErr.StatusCode)
	}
	if lookupErr.Op != "recall_by_vin" {
		t.Errorf("Expected op recall_by_vin, got %q", lookupErr.Op)
	}
}

func TestRecallLookup_MalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("<html>service page</html>"))
	}))
	defer server.Close()

	client := NewRecallAPIClient(server.URL, 5*time.Second)

	_, err := client.ByYearMakeModel(context.Background(), "honda", "accord", "2003")
	if err == nil {
		t.Fatal("Expected error for non-JSON body, got nil")
	}

	lookupErr, ok := err.(*models.LookupError)
	if !ok {
		t.Fatalf("Expected *models.LookupError, got %T", err)
	}
	if lookupErr.Kind != models.LookupKindMalformedResponse {
		t.Errorf("Expected malformed_response kind, got %s", lookupErr.Kind)
	}
	if lookupErr.Op != "recall_by_ymm" {
		t.Errorf("Expected op recall_by_ymm, got %q", lookupErr.Op)
	}
}

func TestRecallLookup_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	serverURL := server.URL
	server.Close()

	client := NewRecallAPIClient(serverURL, 2*time.Second)

	_, err := client.ByVin(context.Background(), testVIN)
	if err == nil {
		t.Fatal("Expected network error, got nil")
	}

	lookupErr, ok := err.(*models.LookupError)
	if !ok {
		t.Fatalf("Expected *models.LookupError, got %T", err)
	}
	if lookupErr.Kind != models.LookupKindNetwork {
		t.Errorf("Expected network kind, got %s", lookupErr.Kind)
	}
}
