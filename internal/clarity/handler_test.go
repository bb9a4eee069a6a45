package clarity

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/Bahjat/seo-check-api/internal/model"
)

func serve(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	r := chi.NewRouter()
	NewHandler(path, slog.Default()).RegisterRoutes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/clarity-data", nil))
	return rec
}

func TestHandler_ServesFileVerbatim(t *testing.T) {
	content := "[\n  {\"metricName\": \"Traffic\", \"information\": [{\"totalSessionCount\": \"42\"}]}\n]\n"
	path := filepath.Join(t.TempDir(), "clarity.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	rec := serve(t, path)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", got)
	}
	if rec.Body.String() != content {
		t.Errorf("body = %q, want %q", rec.Body.String(), content)
	}
}

func TestHandler_MissingFile(t *testing.T) {
	rec := serve(t, filepath.Join(t.TempDir(), "absent.json"))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
	var resp model.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode error body: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status_code = %d, want %d", resp.StatusCode, http.StatusNotFound)
	}
}

func TestHandler_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clarity.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}

	rec := serve(t, path)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
}
