// Package http provides http transport for translate
package http

import (
	stdhttp "net/http"

	"incant/internal/modkit/httpkit"
	"incant/internal/services/translate/domain"
)

// Register mounts translate endpoints on the given router
func Register(r httpkit.Router, s domain.TranslatorPort) {
	h := &handlers{svc: s}
	httpkit.PostJSON[domain.TranslateInput](r, "/translate", h.translate)
	httpkit.Get(r, "/healthz", h.healthz)
}

type handlers struct{ svc domain.TranslatorPort }

func (h *handlers) translate(r *stdhttp.Request, in domain.TranslateInput) (any, error) {
	return h.svc.Translate(r.Context(), in)
}

func (h *handlers) healthz(*stdhttp.Request) (any, error) {
	return map[string]string{"status": "ok"}, nil
}
