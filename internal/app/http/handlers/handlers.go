package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"quotations/go_backend/internal/domain/catalog"
	"quotations/go_backend/internal/domain/catering"
	"quotations/go_backend/internal/domain/client"
	"quotations/go_backend/internal/domain/dashboard"
	"quotations/go_backend/internal/domain/project"
	"quotations/go_backend/internal/domain/quote"
	"quotations/go_backend/internal/domain/settings"
	"quotations/go_backend/internal/domain/user"
)

// Pinger reports database liveness for /health.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Services struct {
	Users     *user.Service
	Clients   *client.Service
	Sizes     *catalog.SizeService
	Products  *catalog.ProductService
	Projects  *project.Service
	Settings  *settings.Service
	Quotes    *quote.Service
	Catering  *catering.Service
	Dashboard *dashboard.Service
}

type Handlers struct {
	svc Services
	db  Pinger
}

func New(svc Services, db Pinger) *Handlers {
	return &Handlers{svc: svc, db: db}
}

func id(r *http.Request) string {
	return strings.TrimSpace(chi.URLParam(r, "id"))
}

// attachment streams a generated PDF.
func attachment(w http.ResponseWriter, filename string, data []byte) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+strings.ReplaceAll(filename, `"`, "")+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		if err := h.db.Ping(r.Context()); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
