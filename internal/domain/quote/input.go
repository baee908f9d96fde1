package quote

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"quotations/go_backend/internal/core/errx"
	"quotations/go_backend/internal/domain/calendar"
	"quotations/go_backend/internal/domain/pricing"
)

// Input is the writable part of a quotation. Totals are never accepted
// from callers.
type Input struct {
	ClientID      string               `json:"clientId"`
	ProjectID     string               `json:"projectId"`
	Title         string               `json:"title"`
	IssueDate     calendar.Date        `json:"issueDate"`
	ValidUntil    calendar.Date        `json:"validUntil"`
	Items         []ItemInput          `json:"items"`
	DiscountType  pricing.DiscountType `json:"discountType"`
	DiscountValue decimal.Decimal      `json:"discountValue"`
	// TaxRate nil means "use the configured default".
	TaxRate  *decimal.Decimal `json:"taxRate"`
	Currency string           `json:"currency"`
	Notes    string           `json:"notes"`
	Terms    string           `json:"terms"`
	Status   Status           `json:"status"`
}

type ItemInput struct {
	ProductID   string          `json:"productId"`
	Description string          `json:"description"`
	SizeID      string          `json:"sizeId"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Discount    decimal.Decimal `json:"discount"`
}

func (in *Input) normalize() {
	in.ClientID = strings.TrimSpace(in.ClientID)
	in.ProjectID = strings.TrimSpace(in.ProjectID)
	in.Title = strings.TrimSpace(in.Title)
	in.Currency = strings.ToUpper(strings.TrimSpace(in.Currency))
	if in.DiscountType == "" {
		in.DiscountType = pricing.DiscountPercentage
	}
	for i := range in.Items {
		in.Items[i].ProductID = strings.TrimSpace(in.Items[i].ProductID)
		in.Items[i].Description = strings.TrimSpace(in.Items[i].Description)
		in.Items[i].SizeID = strings.TrimSpace(in.Items[i].SizeID)
	}
}

// validate covers rules that need no lookups.
func (in Input) validate(fields errx.Fields) {
	if in.ClientID == "" {
		fields.Add("clientId", "is required")
	}
	if len(in.Title) > 200 {
		fields.Add("title", "must be at most 200 characters")
	}
	if len(in.Items) == 0 {
		fields.Add("items", "must contain at least one item")
	}
	for i, it := range in.Items {
		prefix := "items[" + strconv.Itoa(i) + "]"
		if it.ProductID == "" {
			fields.Add(prefix+".productId", "is required")
		}
		pricing.ValidateLine(fields, prefix, pricing.Line{Quantity: it.Quantity, UnitPrice: it.UnitPrice, Discount: it.Discount})
	}
	if !in.IssueDate.IsZero() && !in.ValidUntil.IsZero() && in.ValidUntil.Before(in.IssueDate.Time) {
		fields.Add("validUntil", "must not be before issueDate")
	}
	if in.Status != "" && in.Status != StatusDraft && in.Status != StatusSent {
		fields.Add("status", "must be draft or sent when saving")
	}
}
