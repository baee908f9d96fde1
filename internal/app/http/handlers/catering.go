package handlers

import (
	"net/http"

	"quotations/go_backend/internal/app/http/respond"
)

func (h *Handlers) ListCatering(w http.ResponseWriter, r *http.Request) {
	list(w, r, h.svc.Catering.List)
}

func (h *Handlers) GetCatering(w http.ResponseWriter, r *http.Request) {
	get(w, r, h.svc.Catering.Get)
}

func (h *Handlers) CreateCatering(w http.ResponseWriter, r *http.Request) {
	create(w, r, "catering quotation", h.svc.Catering.Create)
}

func (h *Handlers) UpdateCatering(w http.ResponseWriter, r *http.Request) {
	update(w, r, h.svc.Catering.Update)
}

func (h *Handlers) DeleteCatering(w http.ResponseWriter, r *http.Request) {
	remove(w, r, "catering quotation", h.svc.Catering.Delete)
}

func (h *Handlers) SetCateringStatus(w http.ResponseWriter, r *http.Request) {
	var in statusRequest
	if err := respond.Decode(r, &in); err != nil {
		respond.Error(w, r, err)
		return
	}
	q, err := h.svc.Catering.SetStatus(r.Context(), id(r), in.Status)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.OK(w, q)
}

func (h *Handlers) CateringPDF(w http.ResponseWriter, r *http.Request) {
	data, filename, err := h.svc.Catering.PDF(r.Context(), id(r))
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	attachment(w, filename, data)
}
