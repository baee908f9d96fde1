package handlers

import (
	"net/http"

	"quotations/go_backend/internal/app/http/respond"
	"quotations/go_backend/internal/domain/currency"
	"quotations/go_backend/internal/domain/paging"
	"quotations/go_backend/internal/domain/pricing"
	"quotations/go_backend/internal/domain/project"
	"quotations/go_backend/internal/domain/quote"
	"quotations/go_backend/internal/domain/settings"
	"quotations/go_backend/internal/domain/user"
)

type constants struct {
	Roles             []user.Role            `json:"roles"`
	QuotationStatus   []quote.Status         `json:"quotationStatus"`
	ProjectStatus     []project.Status       `json:"projectStatus"`
	DiscountTypes     []pricing.DiscountType `json:"discountTypes"`
	DefaultValidity   int                    `json:"defaultValidityDays"`
	QuotationPrefix   string                 `json:"quotationPrefix"`
	CateringPrefix    string                 `json:"cateringPrefix"`
	InvoicePrefix     string                 `json:"invoicePrefix"`
	DefaultPageSize   int                    `json:"defaultPageSize"`
	MaxPageSize       int                    `json:"maxPageSize"`
	DefaultCurrency   string                 `json:"defaultCurrency"`
	MinPasswordLength int                    `json:"minPasswordLength"`
	MaxLogoBytes      int                    `json:"maxLogoBytes"`
}

func (h *Handlers) Constants(w http.ResponseWriter, r *http.Request) {
	respond.OK(w, constants{
		Roles:             user.Roles,
		QuotationStatus:   quote.Statuses,
		ProjectStatus:     project.Statuses,
		DiscountTypes:     []pricing.DiscountType{pricing.DiscountPercentage, pricing.DiscountFixed},
		DefaultValidity:   settings.DefaultValidityDays,
		QuotationPrefix:   settings.DefaultQuotePrefix,
		CateringPrefix:    settings.DefaultCateringPrefix,
		InvoicePrefix:     settings.DefaultInvoicePrefix,
		DefaultPageSize:   paging.DefaultLimit,
		MaxPageSize:       paging.MaxLimit,
		DefaultCurrency:   currency.DefaultCode,
		MinPasswordLength: user.MinPasswordLength,
		MaxLogoBytes:      settings.MaxLogoBytes,
	})
}

func (h *Handlers) ListCurrencies(w http.ResponseWriter, r *http.Request) {
	respond.OK(w, currency.All())
}

func (h *Handlers) CurrentCurrency(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.svc.Settings.Get(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.OK(w, currency.MustLookup(cfg.Currency))
}
