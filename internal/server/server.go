// Package server exposes the mortgage calculator as an HTTP JSON API.
package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/iwvelando/mortgage-calculator/internal/cache"
	"github.com/iwvelando/mortgage-calculator/internal/calculator"
	"github.com/iwvelando/mortgage-calculator/internal/config"
	"github.com/iwvelando/mortgage-calculator/pkg/amortization"
	"github.com/iwvelando/mortgage-calculator/pkg/constants"
	"github.com/iwvelando/mortgage-calculator/pkg/output"
	"go.uber.org/zap"
)

// Options configures the API handler.
type Options struct {
	MaxUploadSize int64
	Version       string
	Cache         cache.Repository
	CacheTTL      time.Duration
}

type handler struct {
	logger        *zap.Logger
	maxUploadSize int64
	version       string
	cache         cache.Repository
	cacheTTL      time.Duration
}

// NewHandler constructs the HTTP handler that serves the mortgage API.
func NewHandler(logger *zap.Logger, opts Options) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if opts.MaxUploadSize <= 0 {
		opts.MaxUploadSize = constants.DefaultMaxUploadSizeBytes
	}
	if opts.Cache == nil {
		opts.Cache = cache.NoopCache{}
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = constants.DefaultCacheTTL
	}

	trimmedVersion := strings.TrimSpace(opts.Version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{
		logger:        logger,
		maxUploadSize: opts.MaxUploadSize,
		version:       trimmedVersion,
		cache:         opts.Cache,
		cacheTTL:      opts.CacheTTL,
	}

	router := mux.NewRouter()
	router.Use(requestIDMiddleware, accessLogMiddleware(logger))

	api := router.PathPrefix("/api").Subrouter()
	// Single loan schedule
	api.HandleFunc("/schedule", h.handleSchedule).Methods(http.MethodPost)
	// Same loan as annuity and linear
	api.HandleFunc("/compare", h.handleCompare).Methods(http.MethodPost)
	// Scenario configuration upload
	api.HandleFunc("/config", h.handleConfig).Methods(http.MethodPost)
	api.HandleFunc("/version", h.handleVersion).Methods(http.MethodGet)

	router.HandleFunc("/healthz", h.handleHealth).Methods(http.MethodGet)

	return router
}

type loanRequest struct {
	HousePrice         float64  `json:"housePrice"`
	DownPayment        float64  `json:"downPayment"`
	AnnualInterestRate float64  `json:"annualInterestRate"`
	TermYears          int      `json:"termYears"`
	TaxDeduction       bool     `json:"taxDeduction"`
	TaxRate            *float64 `json:"taxRate,omitempty"`
	MortgageType       string   `json:"mortgageType,omitempty"`
	IncludeMonthly     bool     `json:"includeMonthly,omitempty"`
}

func (req loanRequest) parameters() (amortization.LoanParameters, error) {
	loan := config.Loan{
		HousePrice:         req.HousePrice,
		DownPayment:        req.DownPayment,
		AnnualInterestRate: req.AnnualInterestRate,
		TermYears:          req.TermYears,
		TaxDeduction:       req.TaxDeduction,
		TaxRate:            req.TaxRate,
		MortgageType:       req.MortgageType,
	}
	return loan.Parameters()
}

type scheduleResponse struct {
	output.ScenarioReport
	Monthly  []amortization.PeriodRecord `json:"monthly,omitempty"`
	CSV      string                      `json:"csv"`
	Cached   bool                        `json:"cached"`
	Duration string                      `json:"duration"`
}

type compareResponse struct {
	Annuity  output.ScenarioReport `json:"annuity"`
	Linear   output.ScenarioReport `json:"linear"`
	Duration string                `json:"duration"`
}

type configResponse struct {
	Scenarios []output.ScenarioReport `json:"scenarios"`
	CSV       string                  `json:"csv"`
	Warnings  []string                `json:"warnings,omitempty"`
	Duration  string                  `json:"duration"`
}

func (h *handler) handleSchedule(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSchedule"
	start := time.Now()

	req, ok := h.decodeLoanRequest(w, r, op)
	if !ok {
		return
	}
	params, err := req.parameters()
	if err != nil {
		h.respondCalculationError(w, err, op)
		return
	}

	key := cache.ScheduleKey(params, req.IncludeMonthly)
	if resp, hit := h.cachedSchedule(r, key, op); hit {
		resp.Cached = true
		resp.Duration = time.Since(start).String()
		h.writeJSON(w, http.StatusOK, resp)
		return
	}

	calc, err := calculator.Calculate(r.Context(), h.logger, params)
	if err != nil {
		h.respondCalculationError(w, err, op)
		return
	}

	resp := scheduleResponse{
		ScenarioReport: output.NewScenarioReport(params.MortgageType.String(), calc),
		CSV:            output.CsvString([]calculator.Result{{Name: params.MortgageType.String(), Calculation: calc}}),
	}
	if req.IncludeMonthly {
		resp.Monthly = calc.Schedule
	}
	h.storeSchedule(r, key, resp, op)

	elapsed := time.Since(start)
	resp.Duration = elapsed.String()

	h.logger.Info("schedule computed",
		zap.String("op", op),
		zap.String("request_id", RequestIDFromContext(r.Context())),
		zap.Stringer("mortgage_type", params.MortgageType),
		zap.Int("periods", len(calc.Schedule)),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, resp)
}

func (h *handler) handleCompare(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCompare"
	start := time.Now()

	req, ok := h.decodeLoanRequest(w, r, op)
	if !ok {
		return
	}
	req.MortgageType = ""
	params, err := req.parameters()
	if err != nil {
		h.respondCalculationError(w, err, op)
		return
	}

	annuity, linear, err := calculator.Compare(r.Context(), h.logger, params)
	if err != nil {
		h.respondCalculationError(w, err, op)
		return
	}

	h.writeJSON(w, http.StatusOK, compareResponse{
		Annuity:  output.NewScenarioReport(amortization.Annuity.String(), annuity),
		Linear:   output.NewScenarioReport(amortization.Linear.String(), linear),
		Duration: time.Since(start).String(),
	})
}

func (h *handler) handleConfig(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleConfig"
	start := time.Now()

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds limit of %d bytes", h.maxUploadSize), op)
			return
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to parse upload: %v", err), op)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, "missing configuration file", op)
		return
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			h.logger.Warn("failed to close uploaded file",
				zap.String("op", op),
				zap.Error(closeErr),
			)
		}
	}()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to read configuration: %v", err), op)
		return
	}

	cfg, err := config.LoadConfigurationFromReader(&buf)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	warnings := cfg.ValidateConfiguration()

	results, err := calculator.GetResults(r.Context(), h.logger, *cfg)
	if err != nil {
		h.respondCalculationError(w, err, op)
		return
	}

	elapsed := time.Since(start)
	h.logger.Info("configuration computed",
		zap.String("op", op),
		zap.String("request_id", RequestIDFromContext(r.Context())),
		zap.Int("scenarios", len(results)),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, configResponse{
		Scenarios: output.Reports(results),
		CSV:       output.CsvString(results),
		Warnings:  warnings,
		Duration:  elapsed.String(),
	})
}

func (h *handler) handleVersion(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) decodeLoanRequest(w http.ResponseWriter, r *http.Request, op string) (loanRequest, bool) {
	var req loanRequest
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode loan request: %v", err), op)
		return loanRequest{}, false
	}
	return req, true
}

func (h *handler) cachedSchedule(r *http.Request, key, op string) (scheduleResponse, bool) {
	data, ok, err := h.cache.Get(r.Context(), key)
	if err != nil {
		h.logger.Warn("cache lookup failed",
			zap.String("op", op),
			zap.String("key", key),
			zap.Error(err),
		)
		return scheduleResponse{}, false
	}
	if !ok {
		return scheduleResponse{}, false
	}

	var resp scheduleResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		h.logger.Warn("discarding undecodable cache entry",
			zap.String("op", op),
			zap.String("key", key),
			zap.Error(err),
		)
		return scheduleResponse{}, false
	}
	return resp, true
}

func (h *handler) storeSchedule(r *http.Request, key string, resp scheduleResponse, op string) {
	data, err := json.Marshal(resp)
	if err != nil {
		h.logger.Warn("failed to encode cache entry",
			zap.String("op", op),
			zap.Error(err),
		)
		return
	}
	if err := h.cache.Set(r.Context(), key, data, h.cacheTTL); err != nil {
		h.logger.Warn("cache store failed",
			zap.String("op", op),
			zap.String("key", key),
			zap.Error(err),
		)
	}
}

func (h *handler) respondCalculationError(w http.ResponseWriter, err error, op string) {
	status := http.StatusInternalServerError
	if errors.Is(err, amortization.ErrInvalidParameter) {
		status = http.StatusBadRequest
	}
	h.respondErrorWithOp(w, status, err.Error(), op)
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

// writeJSON encodes payload before writing the status so an unencodable
// payload is reported as a 500 instead of an empty response.
func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("failed to encode JSON response",
			zap.String("op", "server.writeJSON"),
			zap.Error(err),
		)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"failed to encode response"}` + "\n"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(data, '\n')); err != nil {
		h.logger.Error("failed to write JSON response",
			zap.String("op", "server.writeJSON"),
			zap.Error(err),
		)
	}
}
