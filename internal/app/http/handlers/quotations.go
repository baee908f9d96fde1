package handlers

import (
	"net/http"

	"quotations/go_backend/internal/app/http/respond"
	"quotations/go_backend/internal/domain/quote"
)

type statusRequest struct {
	Status quote.Status `json:"status"`
}

func (h *Handlers) ListQuotations(w http.ResponseWriter, r *http.Request) {
	list(w, r, h.svc.Quotes.List)
}

func (h *Handlers) GetQuotation(w http.ResponseWriter, r *http.Request) {
	get(w, r, h.svc.Quotes.Get)
}

func (h *Handlers) CreateQuotation(w http.ResponseWriter, r *http.Request) {
	create(w, r, "quotation", h.svc.Quotes.Create)
}

func (h *Handlers) UpdateQuotation(w http.ResponseWriter, r *http.Request) {
	update(w, r, h.svc.Quotes.Update)
}

func (h *Handlers) DeleteQuotation(w http.ResponseWriter, r *http.Request) {
	remove(w, r, "quotation", h.svc.Quotes.Delete)
}

func (h *Handlers) SetQuotationStatus(w http.ResponseWriter, r *http.Request) {
	var in statusRequest
	if err := respond.Decode(r, &in); err != nil {
		respond.Error(w, r, err)
		return
	}
	q, err := h.svc.Quotes.SetStatus(r.Context(), id(r), in.Status)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.OK(w, q)
}

func (h *Handlers) ConvertQuotation(w http.ResponseWriter, r *http.Request) {
	q, err := h.svc.Quotes.Convert(r.Context(), id(r))
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, respond.Envelope{Success: true, Message: "quotation converted to invoice " + q.InvoiceNumber, Data: q})
}

func (h *Handlers) DuplicateQuotation(w http.ResponseWriter, r *http.Request) {
	q, err := h.svc.Quotes.Duplicate(r.Context(), id(r))
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.Created(w, "quotation duplicated", q)
}

func (h *Handlers) QuotationPDF(w http.ResponseWriter, r *http.Request) {
	data, filename, err := h.svc.Quotes.PDF(r.Context(), id(r))
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	attachment(w, filename, data)
}

func (h *Handlers) SendQuotation(w http.ResponseWriter, r *http.Request) {
	q, err := h.svc.Quotes.Send(r.Context(), id(r))
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, respond.Envelope{Success: true, Message: "quotation sent", Data: q})
}
