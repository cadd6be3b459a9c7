package http

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"incant/internal/core/catalog"
	"incant/internal/core/pipeline"
	phttp "incant/internal/platform/net/http"
	translatesvc "incant/internal/services/translate/service"
)

func newTestRouter(t *testing.T) *chi.Mux {
	t.Helper()
	snap, err := catalog.Load()
	if err != nil {
		t.Fatalf("catalog.Load: %v", err)
	}
	provider := catalog.NewProvider(snap, zerolog.Nop())
	pipe := pipeline.Default(provider, pipeline.Options{}, zerolog.Nop())
	svc := translatesvc.New(pipe, nil, zerolog.Nop())

	mux := chi.NewRouter()
	Register(phttp.AdaptChi(mux), svc)
	return mux
}

func TestTranslateEndpoint(t *testing.T) {
	mux := newTestRouter(t)

	req := httptest.NewRequest("POST", "/translate",
		strings.NewReader(`{"text":"find *.log files bigger than 10MB older than 2 days"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}
	var env phttp.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	data, ok := env.Data.(map[string]any)
	if !ok {
		t.Fatalf("data = %T", env.Data)
	}
	if data["status"] != "success" || data["intent"] != "find" {
		t.Fatalf("data = %v", data)
	}
	cmd, _ := data["command"].(string)
	if !strings.Contains(cmd, "*.log") {
		t.Fatalf("command = %q", cmd)
	}
	if data["id"] == "" || data["id"] == nil {
		t.Fatalf("missing id")
	}
}

func TestTranslateEmptyTextIsRejectionNotError(t *testing.T) {
	mux := newTestRouter(t)

	req := httptest.NewRequest("POST", "/translate", strings.NewReader(`{"text":""}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}
	var env phttp.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	data := env.Data.(map[string]any)
	if data["status"] != "rejected" || data["command"] != "unknown" {
		t.Fatalf("data = %v", data)
	}
}

func TestTranslateRejectsMalformedJSON(t *testing.T) {
	mux := newTestRouter(t)

	req := httptest.NewRequest("POST", "/translate", strings.NewReader(`{"text":`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != 400 {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}
}

func TestHealthz(t *testing.T) {
	mux := newTestRouter(t)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/healthz", nil))
	if rec.Code != 200 {
		t.Fatalf("status = %d", rec.Code)
	}
}
