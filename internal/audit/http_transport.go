package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Bahjat/seo-check-api/internal/model"
	"github.com/Bahjat/seo-check-api/internal/platform/requestid"
)

const welcomeMessage = "Welcome to the SEO API World."

var errURLsRequired = errors.New("the \"urls\" field is required")

// Transport handles HTTP requests for SEO checks.
type Transport struct {
	service      *Service
	logger       *slog.Logger
	maxBatchURLs int
}

// NewTransport creates an HTTP transport backed by the given service.
// maxBatchURLs caps the number of URLs per request; zero means no cap.
func NewTransport(service *Service, logger *slog.Logger, maxBatchURLs int) *Transport {
	return &Transport{service: service, logger: logger, maxBatchURLs: maxBatchURLs}
}

// RegisterRoutes attaches the transport's handlers to the given router.
func (t *Transport) RegisterRoutes(r chi.Router) {
	r.Get("/", t.handleWelcome)
	r.Get("/healthz", t.handleHealth)
	r.Post("/seo-check", t.handleSEOCheck)
}

// validateRequest rejects a batch with no "urls" field, or one holding more
// than maxURLs entries when maxURLs is positive.
func validateRequest(r model.AnalysisRequest, maxURLs int) error {
	if r.URLs == nil {
		return errURLsRequired
	}
	if maxURLs > 0 && len(r.URLs) > maxURLs {
		return fmt.Errorf("too many urls: got %d, at most %d are allowed per request", len(r.URLs), maxURLs)
	}
	return nil
}

func (t *Transport) handleWelcome(w http.ResponseWriter, _ *http.Request) {
	t.renderJSON(w, http.StatusOK, model.WelcomeResponse{Message: welcomeMessage})
}

func (t *Transport) handleHealth(w http.ResponseWriter, _ *http.Request) {
	t.renderJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (t *Transport) handleSEOCheck(w http.ResponseWriter, r *http.Request) {
	const maxRequestBody = 1 << 20 // 1 MB
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)

	var req model.AnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		t.renderError(w, http.StatusBadRequest, "Invalid request body. Please send a JSON object with a \"urls\" array.")
		return
	}

	if err := validateRequest(req, t.maxBatchURLs); err != nil {
		t.renderError(w, http.StatusBadRequest, err.Error())
		return
	}

	report, err := t.service.Check(r.Context(), req.URLs)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			// The client went away; nobody is left to read a response.
			return
		}
		requestid.Logger(r.Context(), t.logger).Error("seo check failed", "error", err)
		t.renderError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	t.renderJSON(w, http.StatusOK, report)
}

func (t *Transport) renderJSON(w http.ResponseWriter, status int, data any) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false) // messages quote tags like <title>
	if err := enc.Encode(data); err != nil {
		t.logger.Error("failed to encode response", "error", err)
		http.Error(w, `{"error":"Internal Server Error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (t *Transport) renderError(w http.ResponseWriter, status int, message string) {
	t.renderJSON(w, status, model.ErrorResponse{
		Error:      http.StatusText(status),
		StatusCode: status,
		Message:    message,
	})
}
