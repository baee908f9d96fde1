// Package catering prices event quotations by the thaal (one shared
// serving) plus itemised extras and other costs.
package catering

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"quotations/go_backend/internal/core/errx"
	"quotations/go_backend/internal/domain/calendar"
	"quotations/go_backend/internal/domain/pricing"
	"quotations/go_backend/internal/domain/quote"
)

type MenuItem struct {
	Name  string `json:"name"`
	Notes string `json:"notes,omitempty"`
}

type Extra struct {
	Name      string          `json:"name"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Total     decimal.Decimal `json:"total"`
}

type OtherCost struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

type Quotation struct {
	ID          string           `json:"id"`
	Number      string           `json:"number"`
	ClientID    string           `json:"clientId"`
	Client      *quote.ClientRef `json:"client,omitempty"`
	ProjectID   string           `json:"projectId,omitempty"`
	ProjectName string           `json:"projectName,omitempty"`
	EventName   string           `json:"eventName"`
	EventDate   time.Time        `json:"eventDate"`
	Venue       string           `json:"venue"`
	IssueDate   time.Time        `json:"issueDate"`
	ValidUntil  time.Time        `json:"validUntil"`

	ThaalCount    int             `json:"thaalCount"`
	PricePerThaal decimal.Decimal `json:"pricePerThaal"`
	MenuItems     []MenuItem      `json:"menuItems"`
	Extras        []Extra         `json:"extras"`
	OtherCosts    []OtherCost     `json:"otherCosts"`

	ThaalTotal      decimal.Decimal `json:"thaalTotal"`
	ExtrasTotal     decimal.Decimal `json:"extrasTotal"`
	OtherCostsTotal decimal.Decimal `json:"otherCostsTotal"`

	DiscountType  pricing.DiscountType `json:"discountType"`
	DiscountValue decimal.Decimal      `json:"discountValue"`
	TaxRate       decimal.Decimal      `json:"taxRate"`
	pricing.Totals

	Currency  string       `json:"currency"`
	Status    quote.Status `json:"status"`
	Notes     string       `json:"notes"`
	Terms     string       `json:"terms"`
	CreatedBy string       `json:"createdBy,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

func (q Quotation) Adjustments() pricing.Adjustments {
	return pricing.Adjustments{DiscountType: q.DiscountType, DiscountValue: q.DiscountValue, TaxRate: q.TaxRate}
}

// Recalculate derives every total from thaal count, extras and other costs.
func (q *Quotation) Recalculate() {
	thaal := decimal.NewFromInt(int64(q.ThaalCount)).Mul(q.PricePerThaal)
	extras := decimal.Zero
	for i := range q.Extras {
		t := q.Extras[i].Quantity.Mul(q.Extras[i].UnitPrice)
		q.Extras[i].Total = t.Round(pricing.StoredPlaces)
		extras = extras.Add(t)
	}
	other := decimal.Zero
	for _, c := range q.OtherCosts {
		other = other.Add(c.Amount)
	}
	q.ThaalTotal = thaal.Round(pricing.StoredPlaces)
	q.ExtrasTotal = extras.Round(pricing.StoredPlaces)
	q.OtherCostsTotal = other.Round(pricing.StoredPlaces)
	q.Totals = pricing.Compute(thaal.Add(extras).Add(other), q.Adjustments())
}

type Input struct {
	ClientID      string               `json:"clientId"`
	ProjectID     string               `json:"projectId"`
	EventName     string               `json:"eventName"`
	EventDate     calendar.Date        `json:"eventDate"`
	Venue         string               `json:"venue"`
	IssueDate     calendar.Date        `json:"issueDate"`
	ValidUntil    calendar.Date        `json:"validUntil"`
	ThaalCount    int                  `json:"thaalCount"`
	PricePerThaal decimal.Decimal      `json:"pricePerThaal"`
	MenuItems     []MenuItem           `json:"menuItems"`
	Extras        []Extra              `json:"extras"`
	OtherCosts    []OtherCost          `json:"otherCosts"`
	DiscountType  pricing.DiscountType `json:"discountType"`
	DiscountValue decimal.Decimal      `json:"discountValue"`
	TaxRate       *decimal.Decimal     `json:"taxRate"`
	Currency      string               `json:"currency"`
	Notes         string               `json:"notes"`
	Terms         string               `json:"terms"`
	Status        quote.Status         `json:"status"`
}

func (in *Input) normalize() {
	in.ClientID = strings.TrimSpace(in.ClientID)
	in.ProjectID = strings.TrimSpace(in.ProjectID)
	in.EventName = strings.TrimSpace(in.EventName)
	in.Venue = strings.TrimSpace(in.Venue)
	in.Currency = strings.ToUpper(strings.TrimSpace(in.Currency))
	if in.DiscountType == "" {
		in.DiscountType = pricing.DiscountPercentage
	}
	menu := in.MenuItems[:0]
	for _, m := range in.MenuItems {
		m.Name = strings.TrimSpace(m.Name)
		m.Notes = strings.TrimSpace(m.Notes)
		if m.Name != "" {
			menu = append(menu, m)
		}
	}
	in.MenuItems = menu
	for i := range in.Extras {
		in.Extras[i].Name = strings.TrimSpace(in.Extras[i].Name)
	}
	for i := range in.OtherCosts {
		in.OtherCosts[i].Description = strings.TrimSpace(in.OtherCosts[i].Description)
	}
}

func (in Input) validate(fields errx.Fields) {
	if in.ClientID == "" {
		fields.Add("clientId", "is required")
	}
	if in.EventName == "" {
		fields.Add("eventName", "is required")
	}
	if in.ThaalCount <= 0 {
		fields.Add("thaalCount", "must be greater than 0")
	}
	if in.PricePerThaal.IsNegative() {
		fields.Add("pricePerThaal", "must not be negative")
	}
	for i, e := range in.Extras {
		prefix := "extras[" + strconv.Itoa(i) + "]"
		if e.Name == "" {
			fields.Add(prefix+".name", "is required")
		}
		if !e.Quantity.IsPositive() {
			fields.Add(prefix+".quantity", "must be greater than 0")
		}
		if e.UnitPrice.IsNegative() {
			fields.Add(prefix+".unitPrice", "must not be negative")
		}
	}
	for i, c := range in.OtherCosts {
		prefix := "otherCosts[" + strconv.Itoa(i) + "]"
		if c.Description == "" {
			fields.Add(prefix+".description", "is required")
		}
		if c.Amount.IsNegative() {
			fields.Add(prefix+".amount", "must not be negative")
		}
	}
	if in.Status != "" && in.Status != quote.StatusDraft && in.Status != quote.StatusSent {
		fields.Add("status", "must be draft or sent when saving")
	}
}
