package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/ivibez/portal/internal/clients/geocoding"
	"github.com/ivibez/portal/internal/modules/feasibility"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingGeocoder struct {
	result *geocoding.Result
	err    error
	calls  int
}

func (g *countingGeocoder) Geocode(address string) (*geocoding.Result, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	return g.result, nil
}

func setupRouter(geo feasibility.Geocoder) *chi.Mux {
	handler := NewHandler(feasibility.NewService(geo, zerolog.Nop()), zerolog.Nop())
	router := chi.NewRouter()
	handler.RegisterRoutes(router)
	return router
}

func postEvaluate(t *testing.T, router http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/evaluate-property", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["error"]
}

const validBody = `{
  "address": "100 Main St, Rockville MD",
  "developmentOptions": {"propertyType": "single-family", "squareFeet": 2000, "units": 1, "stories": 1, "finishQuality": "standard"},
  "strategy": "flip"
}`

func marylandResult() *geocoding.Result {
	return &geocoding.Result{
		FormattedAddress: "100 Main St, Rockville, MD 20850, USA",
		Lat:              39.084,
		Lng:              -77.152,
		State:            "MD",
	}
}

func TestHandleEvaluateProperty_Success(t *testing.T) {
	geo := &countingGeocoder{result: marylandResult()}
	rec := postEvaluate(t, setupRouter(geo), validBody)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, 1, geo.calls)

	var report feasibility.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, 480000.0, report.MarketAnalysis.EstimatedSellPrice)
	assert.Equal(t, 76800.0, report.LandValue)
	require.NotNil(t, report.ExistingProperty)
	assert.Equal(t, 354816.0, report.ExistingProperty.EstimatedValue)
	assert.Equal(t, 90000.0, report.BuildingCosts.Construction)
}

func TestHandleEvaluateProperty_ByteIdenticalResponses(t *testing.T) {
	router := setupRouter(&countingGeocoder{result: marylandResult()})

	first := postEvaluate(t, router, validBody)
	second := postEvaluate(t, router, validBody)

	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, first.Body.Bytes(), second.Body.Bytes())
}

func TestHandleEvaluateProperty_ValidationErrors(t *testing.T) {
	testCases := []struct {
		name    string
		body    string
		message string
	}{
		{"malformed json", `{"address":`, "Invalid request body"},
		{"empty address", `{"address":"","developmentOptions":{"propertyType":"single-family","squareFeet":2000,"stories":1,"finishQuality":"standard"},"strategy":"flip"}`, "Address is required"},
		{"blank address", `{"address":"  ","developmentOptions":{"propertyType":"single-family","squareFeet":2000,"stories":1,"finishQuality":"standard"},"strategy":"flip"}`, "Address is required"},
		{"small building", `{"address":"1 A St","developmentOptions":{"propertyType":"single-family","squareFeet":299,"stories":1,"finishQuality":"standard"},"strategy":"flip"}`, "Square feet must be at least 300"},
		{"missing options", `{"address":"1 A St","strategy":"flip"}`, "Square feet must be at least 300"},
		{"fractional square feet", `{"address":"1 A St","developmentOptions":{"propertyType":"single-family","squareFeet":2000.5,"stories":1,"finishQuality":"standard"},"strategy":"flip"}`, "Invalid request body"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			geo := &countingGeocoder{result: marylandResult()}
			rec := postEvaluate(t, setupRouter(geo), tc.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tc.message, decodeError(t, rec))
			assert.Equal(t, 0, geo.calls, "geocoder must not be called for invalid input")
		})
	}
}

func TestHandleEvaluateProperty_GeocodingFailureIsOpaque(t *testing.T) {
	geo := &countingGeocoder{err: &geocoding.Error{Address: "x", Status: "REQUEST_DENIED", Message: "The provided API key is invalid."}}
	rec := postEvaluate(t, setupRouter(geo), validBody)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Server error", decodeError(t, rec))
	assert.NotContains(t, rec.Body.String(), "REQUEST_DENIED")
	assert.Equal(t, 1, geo.calls)
}

func TestHandleEvaluateProperty_FinancingOverrides(t *testing.T) {
	body := map[string]interface{}{
		"address": "100 Main St, Rockville MD",
		"developmentOptions": map[string]interface{}{
			"propertyType": "single-family", "squareFeet": 2000, "stories": 1, "finishQuality": "standard",
		},
		"strategy":  "flip",
		"financing": map[string]interface{}{"interestRate": 3.0, "holdingMonths": 18},
	}
	encoded, err := json.Marshal(body)
	require.NoError(t, err)

	rec := postEvaluate(t, setupRouter(&countingGeocoder{result: marylandResult()}), string(encoded))
	require.Equal(t, http.StatusOK, rec.Code)

	var report feasibility.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Contains(t, report.Risks, feasibility.RiskLongHold)

	// interest = round(437453 * 0.5 / 12 * 18), rate clamped to 0.5
	expectedInvestment := 546816.0 + 328090 + 8749 + 14400
	assert.Equal(t, expectedInvestment, report.FinancialAnalysis.TotalInvestment)
}

func TestHandleEvaluateProperty_BodyTooLarge(t *testing.T) {
	geo := &countingGeocoder{result: marylandResult()}
	huge := `{"address":"` + strings.Repeat("a", maxBodyBytes+10) + `"}`

	req := httptest.NewRequest(http.MethodPost, "/api/evaluate-property", bytes.NewBufferString(huge))
	rec := httptest.NewRecorder()
	setupRouter(geo).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, geo.calls)
}

func TestRegisterRoutes(t *testing.T) {
	router := setupRouter(&countingGeocoder{result: marylandResult()})

	req := httptest.NewRequest(http.MethodGet, "/api/evaluate-property", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
