// Package http provides http transport for history
package http

import (
	stdhttp "net/http"
	"strconv"

	"incant/internal/modkit/httpkit"
	"incant/internal/services/history/domain"
	svc "incant/internal/services/history/service"
)

// Register mounts history endpoints on the given router
func Register(r httpkit.Router, s *svc.Service) {
	h := &handlers{svc: s}
	httpkit.Get(r, "/recent", h.recent)
}

type handlers struct{ svc *svc.Service }

func (h *handlers) recent(r *stdhttp.Request) (any, error) {
	q := domain.RecentQuery{Domain: r.URL.Query().Get("domain")}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			q.Limit = n
		}
	}
	return h.svc.Recent(r.Context(), q)
}
