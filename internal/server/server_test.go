package server

import (
	"bytes"
	"encoding/json"
	"math"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iwvelando/mortgage-calculator/internal/cache"
	"github.com/iwvelando/mortgage-calculator/pkg/amortization"
	"github.com/iwvelando/mortgage-calculator/pkg/constants"
	"go.uber.org/zap"
)

func newTestHandler(store cache.Repository) http.Handler {
	return NewHandler(zap.NewNop(), Options{
		MaxUploadSize: constants.DefaultMaxUploadSizeBytes,
		Version:       "test",
		Cache:         store,
	})
}

func performJSON(t *testing.T, handler http.Handler, payload interface{}, path string) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func defaultLoanRequest() map[string]interface{} {
	return map[string]interface{}{
		"housePrice":         500000,
		"downPayment":        0,
		"annualInterestRate": 4.5,
		"termYears":          30,
		"taxDeduction":       false,
		"mortgageType":       "annuity",
	}
}

func TestHandleScheduleSuccess(t *testing.T) {
	handler := newTestHandler(nil)

	rr := performJSON(t, handler, defaultLoanRequest(), "/api/schedule")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp scheduleResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.Parameters.MortgageType != amortization.Annuity {
		t.Errorf("expected annuity parameters, got %s", resp.Parameters.MortgageType)
	}
	if len(resp.Yearly) != 30 {
		t.Errorf("expected 30 yearly rows, got %d", len(resp.Yearly))
	}
	if len(resp.Chart.Points) != 30 {
		t.Errorf("expected 30 chart points, got %d", len(resp.Chart.Points))
	}
	if resp.Monthly != nil {
		t.Errorf("expected monthly rows to be omitted, got %d", len(resp.Monthly))
	}
	if math.Abs(resp.Summary.AverageMonthlyPayment-2533.43) > 0.01 {
		t.Errorf("expected average payment ~2533.43, got %.2f", resp.Summary.AverageMonthlyPayment)
	}
	if resp.SummaryLine != "Average monthly payment (gross): €2,533.43" {
		t.Errorf("unexpected summary line %q", resp.SummaryLine)
	}
	if resp.CSV == "" {
		t.Fatal("expected CSV data in response")
	}
	if resp.Duration == "" {
		t.Fatal("expected duration in response")
	}
	if rr.Header().Get(RequestIDHeader) == "" {
		t.Fatal("expected request id header")
	}
}

func TestHandleScheduleIncludeMonthly(t *testing.T) {
	handler := newTestHandler(nil)

	payload := defaultLoanRequest()
	payload["mortgageType"] = "linear"
	payload["taxDeduction"] = true
	payload["includeMonthly"] = true

	rr := performJSON(t, handler, payload, "/api/schedule")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp scheduleResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Monthly) != 360 {
		t.Fatalf("expected 360 monthly rows, got %d", len(resp.Monthly))
	}
	first := resp.Monthly[0]
	if math.Abs(first.Principal-1388.89) > 0.01 {
		t.Errorf("expected linear principal ~1388.89, got %.2f", first.Principal)
	}
	if math.Abs(first.NetInterest-first.Interest*0.63) > 1e-6 {
		t.Errorf("expected net interest at 63%% of interest, got %.4f of %.4f", first.NetInterest, first.Interest)
	}
	if resp.Chart.InterestLabel != "Interest (Net)" {
		t.Errorf("expected net interest chart label, got %s", resp.Chart.InterestLabel)
	}
}

func TestHandleScheduleCached(t *testing.T) {
	store := cache.NewMemoryCache()
	handler := newTestHandler(store)

	first := performJSON(t, handler, defaultLoanRequest(), "/api/schedule")
	if first.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", first.Code, first.Body.String())
	}
	if store.Len() != 1 {
		t.Fatalf("expected one cache entry, got %d", store.Len())
	}

	second := performJSON(t, handler, defaultLoanRequest(), "/api/schedule")
	if second.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", second.Code, second.Body.String())
	}

	var firstResp, secondResp scheduleResponse
	if err := json.Unmarshal(first.Body.Bytes(), &firstResp); err != nil {
		t.Fatalf("failed to decode first response: %v", err)
	}
	if err := json.Unmarshal(second.Body.Bytes(), &secondResp); err != nil {
		t.Fatalf("failed to decode second response: %v", err)
	}
	if firstResp.Cached {
		t.Error("expected first response to be computed")
	}
	if !secondResp.Cached {
		t.Error("expected second response to come from the cache")
	}
	if firstResp.Summary != secondResp.Summary {
		t.Errorf("cached summary differs: %+v vs %+v", firstResp.Summary, secondResp.Summary)
	}
}

func TestHandleScheduleInvalidParameters(t *testing.T) {
	tests := []struct {
		name   string
		modify func(map[string]interface{})
	}{
		{"Zero term", func(p map[string]interface{}) { p["termYears"] = 0 }},
		{"Negative rate", func(p map[string]interface{}) { p["annualInterestRate"] = -1 }},
		{"Down payment above price", func(p map[string]interface{}) { p["downPayment"] = 600000 }},
		{"Unknown mortgage type", func(p map[string]interface{}) { p["mortgageType"] = "balloon" }},
		{"Term above maximum", func(p map[string]interface{}) { p["termYears"] = 10000000 }},
		{"Term just above maximum", func(p map[string]interface{}) { p["termYears"] = constants.MaxTermYears + 1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := defaultLoanRequest()
			tt.modify(payload)

			rr := performJSON(t, newTestHandler(nil), payload, "/api/schedule")
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("expected status 400, got %d: %s", rr.Code, rr.Body.String())
			}

			var resp map[string]string
			if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to decode error response: %v", err)
			}
			if !strings.Contains(resp["error"], "invalid parameter") {
				t.Errorf("expected invalid parameter error, got %q", resp["error"])
			}
		})
	}
}

func TestHandleScheduleMalformedJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/schedule", strings.NewReader("{not json"))
	rr := httptest.NewRecorder()
	newTestHandler(nil).ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}
}

func TestHandleScheduleMethodNotAllowed(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/schedule", nil)
	rr := httptest.NewRecorder()
	newTestHandler(nil).ServeHTTP(rr, req)

	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status 405, got %d", rr.Code)
	}
}

func TestHandleCompare(t *testing.T) {
	rr := performJSON(t, newTestHandler(nil), defaultLoanRequest(), "/api/compare")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp compareResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Annuity.Parameters.MortgageType != amortization.Annuity {
		t.Errorf("expected annuity report, got %s", resp.Annuity.Parameters.MortgageType)
	}
	if resp.Linear.Parameters.MortgageType != amortization.Linear {
		t.Errorf("expected linear report, got %s", resp.Linear.Parameters.MortgageType)
	}
	if resp.Linear.Summary.FirstGrossPayment <= resp.Annuity.Summary.FirstGrossPayment {
		t.Errorf("expected linear first payment above annuity payment")
	}
}

func TestHandleConfigSuccess(t *testing.T) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	configPath := filepath.Join("..", "..", "test", "test_config.yaml")
	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("failed to read test config: %v", err)
	}

	part, err := writer.CreateFormFile("file", "test_config.yaml")
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("failed to write form data: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/config", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rr := httptest.NewRecorder()
	newTestHandler(nil).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp configResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Scenarios) != 3 {
		t.Fatalf("expected 3 active scenarios, got %d", len(resp.Scenarios))
	}
	if resp.Scenarios[1].Name != "linear" {
		t.Errorf("expected second scenario linear, got %s", resp.Scenarios[1].Name)
	}
	if resp.CSV == "" {
		t.Fatal("expected CSV data in response")
	}
}

func TestHandleConfigUploadTooLarge(t *testing.T) {
	handler := NewHandler(zap.NewNop(), Options{MaxUploadSize: 64})

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", "config.yaml")
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := part.Write([]byte(strings.Repeat("a", 128))); err != nil {
		t.Fatalf("failed to write oversized payload: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/config", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected status 413, got %d", rr.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	if !strings.Contains(resp["error"], "upload exceeds limit") {
		t.Fatalf("expected upload limit error message, got %q", resp["error"])
	}
}

func TestHandleConfigMissingFile(t *testing.T) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/config", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rr := httptest.NewRecorder()
	newTestHandler(nil).ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}
}

func TestHandleVersion(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/version", nil)
	rr := httptest.NewRecorder()
	newTestHandler(nil).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["version"] != "test" {
		t.Fatalf("expected version test, got %q", resp["version"])
	}
}

func TestRequestIDReused(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rr := httptest.NewRecorder()
	newTestHandler(nil).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if got := rr.Header().Get(RequestIDHeader); got != "abc-123" {
		t.Fatalf("expected request id to be echoed, got %q", got)
	}
}

func TestWriteJSONUnencodablePayload(t *testing.T) {
	h := &handler{logger: zap.NewNop()}
	rr := httptest.NewRecorder()

	h.writeJSON(rr, http.StatusOK, map[string]float64{"payment": math.Inf(1)})

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rr.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	if resp["error"] == "" {
		t.Fatal("expected error message in response")
	}
}

func TestHandleScheduleTinyRate(t *testing.T) {
	payload := defaultLoanRequest()
	payload["annualInterestRate"] = 1e-13

	rr := performJSON(t, newTestHandler(nil), payload, "/api/schedule")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp scheduleResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if math.Abs(resp.Summary.FirstGrossPayment-500000.0/360) > 0.01 {
		t.Errorf("expected first payment ~%.2f, got %.2f", 500000.0/360, resp.Summary.FirstGrossPayment)
	}
}
