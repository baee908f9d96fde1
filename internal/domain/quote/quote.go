package quote

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"quotations/go_backend/internal/domain/pricing"
)

type Status string

const (
	StatusDraft    Status = "draft"
	StatusSent     Status = "sent"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
	StatusExpired  Status = "expired"
	StatusInvoiced Status = "invoiced"
)

var Statuses = []Status{StatusDraft, StatusSent, StatusAccepted, StatusRejected, StatusExpired, StatusInvoiced}

var transitions = map[Status][]Status{
	StatusDraft:    {StatusSent, StatusAccepted, StatusRejected},
	StatusSent:     {StatusAccepted, StatusRejected, StatusExpired, StatusDraft},
	StatusAccepted: {StatusInvoiced, StatusRejected},
	StatusRejected: {StatusDraft},
	StatusExpired:  {StatusDraft},
}

func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// Editable reports whether content (items, prices, client) may change.
func (s Status) Editable() bool {
	return s == StatusDraft || s == StatusSent
}

func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Number formats a document number such as QT-2026-0042.
func Number(prefix string, year int, seq int64) string {
	return fmt.Sprintf("%s-%d-%04d", prefix, year, seq)
}

type Item struct {
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName,omitempty"`
	Description string          `json:"description"`
	SizeID      string          `json:"sizeId,omitempty"`
	SizeName    string          `json:"sizeName,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Discount    decimal.Decimal `json:"discount"`
	LineTotal   decimal.Decimal `json:"lineTotal"`
}

func (it Item) Line() pricing.Line {
	return pricing.Line{Quantity: it.Quantity, UnitPrice: it.UnitPrice, Discount: it.Discount}
}

// ClientRef is the client snapshot embedded in reads.
type ClientRef struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Company string `json:"company,omitempty"`
	Address string `json:"address,omitempty"`
}

type Quotation struct {
	ID          string     `json:"id"`
	Number      string     `json:"number"`
	ClientID    string     `json:"clientId"`
	Client      *ClientRef `json:"client,omitempty"`
	ProjectID   string     `json:"projectId,omitempty"`
	ProjectName string     `json:"projectName,omitempty"`
	Title       string     `json:"title"`
	IssueDate   time.Time  `json:"issueDate"`
	ValidUntil  time.Time  `json:"validUntil"`
	Items       []Item     `json:"items"`

	DiscountType  pricing.DiscountType `json:"discountType"`
	DiscountValue decimal.Decimal      `json:"discountValue"`
	TaxRate       decimal.Decimal      `json:"taxRate"`
	pricing.Totals

	Currency      string     `json:"currency"`
	Notes         string     `json:"notes"`
	Terms         string     `json:"terms"`
	Status        Status     `json:"status"`
	InvoiceNumber string     `json:"invoiceNumber,omitempty"`
	InvoicedAt    *time.Time `json:"invoicedAt,omitempty"`
	CreatedBy     string     `json:"createdBy,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

func (q Quotation) Adjustments() pricing.Adjustments {
	return pricing.Adjustments{
		DiscountType:  q.DiscountType,
		DiscountValue: q.DiscountValue,
		TaxRate:       q.TaxRate,
	}
}

// Recalculate refreshes every line total and the document totals.
func (q *Quotation) Recalculate() {
	lines := make([]pricing.Line, len(q.Items))
	for i := range q.Items {
		lines[i] = q.Items[i].Line()
		q.Items[i].LineTotal = lines[i].Total().Round(pricing.StoredPlaces)
	}
	q.Totals = pricing.Compute(pricing.Sum(lines), q.Adjustments())
}
