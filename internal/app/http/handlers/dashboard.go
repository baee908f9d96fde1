package handlers

import (
	"net/http"

	"quotations/go_backend/internal/app/http/respond"
)

func (h *Handlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	s, err := h.svc.Dashboard.Summary(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.OK(w, s)
}
