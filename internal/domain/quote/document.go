package quote

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"quotations/go_backend/internal/core/errx"
	"quotations/go_backend/internal/domain/currency"
	"quotations/go_backend/internal/domain/pricing"
	"quotations/go_backend/internal/domain/quote/pdf"
	"quotations/go_backend/internal/domain/settings"
	logx "quotations/go_backend/pkg/logger"
)

// Letterhead fills the business, bank and branding parts of doc from cfg.
// Logos the renderer cannot embed (svg, webp) are left out.
func Letterhead(ctx context.Context, doc *pdf.Document, cfg *settings.Configuration, logos Logos) {
	b := cfg.Business
	doc.Business = pdf.Party{Name: b.Name, Lines: nonEmpty(b.Address, b.Phone, b.Email, b.Website, prefixed("Tax No. ", b.TaxNumber))}
	bank := cfg.Bank
	doc.Bank = nonEmpty(
		prefixed("Bank: ", bank.BankName),
		prefixed("Account name: ", bank.AccountName),
		prefixed("Account no.: ", bank.AccountNumber),
		prefixed("IBAN: ", bank.IBAN),
		prefixed("SWIFT: ", bank.SWIFT),
		prefixed("Branch: ", bank.Branch),
	)
	doc.Accent = cfg.Branding.PrimaryColor

	if logos == nil || cfg.Branding.LogoObject == "" {
		return
	}
	data, contentType, err := logos.Get(ctx, cfg.Branding.LogoObject)
	if err != nil {
		logx.Warn().Err(err).Str("object", cfg.Branding.LogoObject).Msg("quote: logo unavailable for pdf")
		return
	}
	switch contentType {
	case "image/png":
		doc.Logo, doc.LogoType = data, "png"
	case "image/jpeg":
		doc.Logo, doc.LogoType = data, "jpg"
	}
}

// SummaryLines renders totals in the document currency.
func SummaryLines(t pricing.Totals, adj pricing.Adjustments, code string) []pdf.SummaryLine {
	lines := []pdf.SummaryLine{{Label: "Subtotal", Value: currency.Format(t.Subtotal, code)}}
	if !t.DiscountAmount.IsZero() {
		label := "Discount"
		if adj.DiscountType == pricing.DiscountPercentage {
			label = fmt.Sprintf("Discount (%s%%)", adj.DiscountValue.String())
		}
		lines = append(lines, pdf.SummaryLine{Label: label, Value: "-" + currency.Format(t.DiscountAmount, code)})
	}
	if !t.TaxAmount.IsZero() {
		lines = append(lines, pdf.SummaryLine{Label: fmt.Sprintf("Tax (%s%%)", adj.TaxRate.String()), Value: currency.Format(t.TaxAmount, code)})
	}
	return append(lines, pdf.SummaryLine{Label: "Total", Value: currency.Format(t.TotalAmount, code), Bold: true})
}

func (s *Service) document(ctx context.Context, q *Quotation) (pdf.Document, error) {
	cfg, err := s.deps.Settings.Get(ctx)
	if err != nil {
		return pdf.Document{}, err
	}
	doc := pdf.Document{
		Title:      "QUOTATION",
		Number:     q.Number,
		IssueDate:  q.IssueDate,
		ValidUntil: q.ValidUntil,
		Notes:      q.Notes,
		Terms:      q.Terms,
		Footer:     "Thank you for your business.",
	}
	if q.Status == StatusInvoiced {
		doc.Title = "INVOICE"
		doc.Number = q.InvoiceNumber
		doc.Reference = "Quotation " + q.Number
		doc.ValidUntil = time.Time{}
	}
	if q.Title != "" {
		doc.Reference = strings.TrimSpace(q.Title + " " + doc.Reference)
	}
	if q.ProjectName != "" {
		doc.Reference = strings.TrimSpace(doc.Reference + " / Project: " + q.ProjectName)
	}
	Letterhead(ctx, &doc, cfg, s.deps.Logos)
	if c := q.Client; c != nil {
		doc.Client = pdf.Party{Name: c.Name, Lines: nonEmpty(c.Company, c.Address, c.Phone, c.Email)}
	}

	rows := make([][]string, 0, len(q.Items))
	for i, it := range q.Items {
		desc := it.Description
		if it.SizeName != "" {
			desc += " (" + it.SizeName + ")"
		}
		rows = append(rows, []string{
			fmt.Sprint(i + 1),
			desc,
			it.Quantity.String(),
			currency.Format(it.UnitPrice, q.Currency),
			percent(it.Discount),
			currency.Format(it.LineTotal, q.Currency),
		})
	}
	doc.Sections = []pdf.Section{{
		Columns: []pdf.Column{
			{Title: "#", Width: 10},
			{Title: "Description", Width: 80},
			{Title: "Qty", Width: 18, Right: true},
			{Title: "Unit price", Width: 30, Right: true},
			{Title: "Disc.", Width: 20, Right: true},
			{Title: "Amount", Width: 32, Right: true},
		},
		Rows: rows,
	}}
	doc.Summary = SummaryLines(q.Totals, q.Adjustments(), q.Currency)
	return doc, nil
}

// PDF renders the quotation (or invoice once converted).
func (s *Service) PDF(ctx context.Context, id string) ([]byte, string, error) {
	q, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, "", err
	}
	doc, err := s.document(ctx, q)
	if err != nil {
		return nil, "", err
	}
	data, err := s.deps.Renderer.Generate(doc)
	if err != nil {
		return nil, "", fmt.Errorf("quote: render pdf: %w", err)
	}
	return data, doc.Number + ".pdf", nil
}

// Send delivers the PDF to the configured Telegram chat and marks a draft as sent.
func (s *Service) Send(ctx context.Context, id string) (*Quotation, error) {
	if s.deps.Notifier == nil {
		return nil, errx.New(nil, http.StatusServiceUnavailable, "notifications are not configured")
	}
	data, filename, err := s.PDF(ctx, id)
	if err != nil {
		return nil, err
	}
	q, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	name := ""
	if q.Client != nil {
		name = q.Client.Name
	}
	caption := fmt.Sprintf("%s for %s: %s", q.Number, name, currency.Format(q.TotalAmount, q.Currency))
	if err := s.deps.Notifier.SendDocument(ctx, filename, data, caption); err != nil {
		return nil, errx.Upstream(err)
	}
	if q.Status == StatusDraft {
		return s.SetStatus(ctx, id, StatusSent)
	}
	return q, nil
}

func percent(d decimal.Decimal) string {
	if d.IsZero() {
		return "-"
	}
	return d.String() + "%"
}

func prefixed(prefix, v string) string {
	if strings.TrimSpace(v) == "" {
		return ""
	}
	return prefix + v
}

func nonEmpty(vals ...string) []string {
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
