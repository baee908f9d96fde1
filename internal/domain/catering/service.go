package catering

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"quotations/go_backend/internal/core/errx"
	"quotations/go_backend/internal/domain/calendar"
	"quotations/go_backend/internal/domain/currency"
	"quotations/go_backend/internal/domain/paging"
	"quotations/go_backend/internal/domain/pricing"
	"quotations/go_backend/internal/domain/quote"
	"quotations/go_backend/internal/domain/quote/pdf"
	"quotations/go_backend/internal/domain/user"
	logx "quotations/go_backend/pkg/logger"
)

type Store interface {
	List(ctx context.Context, p paging.Params) ([]Quotation, int, error)
	Get(ctx context.Context, id string) (*Quotation, error)
	Create(ctx context.Context, q *Quotation) error
	Update(ctx context.Context, q *Quotation) error
	Delete(ctx context.Context, id string) error
}

// Service shares its collaborators with the regular quotation service.
type Service struct {
	store Store
	deps  quote.Deps
	now   func() time.Time
}

func NewService(store Store, deps quote.Deps) *Service {
	return &Service{store: store, deps: deps, now: time.Now}
}

func (s *Service) List(ctx context.Context, p paging.Params) ([]Quotation, int, error) {
	p = p.Normalize()
	if p.Status != "" && !quote.Status(p.Status).Valid() {
		return nil, 0, errx.Validation("status", "is not a valid quotation status")
	}
	return s.store.List(ctx, p)
}

func (s *Service) Get(ctx context.Context, id string) (*Quotation, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, in Input) (*Quotation, error) {
	q := &Quotation{Status: quote.StatusDraft}
	if p, ok := user.FromContext(ctx); ok {
		q.CreatedBy = p.UserID
	}
	prefix, err := s.apply(ctx, q, in)
	if err != nil {
		return nil, err
	}
	seq, err := s.deps.Sequencer.Next(ctx, fmt.Sprintf("%s-%d", prefix, q.IssueDate.Year()))
	if err != nil {
		return nil, err
	}
	q.Number = quote.Number(prefix, q.IssueDate.Year(), seq)
	if err := s.store.Create(ctx, q); err != nil {
		return nil, err
	}
	s.publish(ctx, quote.TopicCreated, q)
	return q, nil
}

func (s *Service) Update(ctx context.Context, id string, in Input) (*Quotation, error) {
	q, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !q.Status.Editable() {
		return nil, errx.Conflict(fmt.Sprintf("catering quotation is %s and can no longer be edited", q.Status))
	}
	if _, err := s.apply(ctx, q, in); err != nil {
		return nil, err
	}
	if err := s.store.Update(ctx, q); err != nil {
		return nil, err
	}
	s.publish(ctx, quote.TopicUpdated, q)
	return q, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	q, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if q.Status == quote.StatusInvoiced {
		return errx.Conflict("invoiced quotations cannot be deleted")
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, quote.TopicDeleted, q)
	return nil
}

func (s *Service) SetStatus(ctx context.Context, id string, to quote.Status) (*Quotation, error) {
	if !to.Valid() || to == quote.StatusInvoiced {
		return nil, errx.Validation("status", "is not a valid catering quotation status")
	}
	q, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if q.Status == to {
		return q, nil
	}
	if !quote.CanTransition(q.Status, to) {
		return nil, errx.Conflict(fmt.Sprintf("cannot change status from %s to %s", q.Status, to))
	}
	q.Status = to
	if err := s.store.Update(ctx, q); err != nil {
		return nil, err
	}
	s.publish(ctx, quote.TopicStatusChanged, q)
	return q, nil
}

// apply validates in and writes it onto q, returning the number prefix.
func (s *Service) apply(ctx context.Context, q *Quotation, in Input) (string, error) {
	in.normalize()
	fields := errx.Fields{}
	in.validate(fields)
	if err := fields.Err(); err != nil {
		return "", err
	}
	cfg, err := s.deps.Settings.Get(ctx)
	if err != nil {
		return "", err
	}

	c, err := s.deps.Clients.Get(ctx, in.ClientID)
	if err != nil {
		return "", lookupErr(err, "clientId")
	}
	q.ClientID = c.ID
	q.Client = &quote.ClientRef{ID: c.ID, Name: c.Name, Email: c.Email, Phone: c.Phone, Company: c.Company, Address: c.Address}
	q.ProjectID, q.ProjectName = "", ""
	if in.ProjectID != "" {
		p, err := s.deps.Projects.Get(ctx, in.ProjectID)
		if err != nil {
			return "", lookupErr(err, "projectId")
		}
		q.ProjectID, q.ProjectName = p.ID, p.Name
	}

	q.EventName = in.EventName
	q.EventDate = in.EventDate.Time
	q.Venue = in.Venue
	q.ThaalCount = in.ThaalCount
	q.PricePerThaal = in.PricePerThaal
	q.MenuItems = append([]MenuItem{}, in.MenuItems...)
	q.Extras = append([]Extra{}, in.Extras...)
	q.OtherCosts = append([]OtherCost{}, in.OtherCosts...)
	q.DiscountType = in.DiscountType
	q.DiscountValue = in.DiscountValue
	q.TaxRate = cfg.TaxRate
	if in.TaxRate != nil {
		q.TaxRate = *in.TaxRate
	}
	q.Currency = in.Currency
	if q.Currency == "" {
		q.Currency = cfg.Currency
	}
	if _, ok := currency.Lookup(q.Currency); !ok {
		return "", errx.Validation("currency", "is not a supported currency")
	}
	q.Notes = in.Notes
	q.Terms = in.Terms
	if q.Terms == "" {
		q.Terms = cfg.Quotation.Terms
	}
	if in.Status != "" {
		q.Status = in.Status
	}
	q.IssueDate = in.IssueDate.Time
	if q.IssueDate.IsZero() {
		q.IssueDate = calendar.Truncate(s.now())
	}
	q.ValidUntil = in.ValidUntil.Time
	if q.ValidUntil.IsZero() {
		q.ValidUntil = cfg.ValidUntil(q.IssueDate)
	}
	if q.ValidUntil.Before(q.IssueDate) {
		return "", errx.Validation("validUntil", "must not be before issueDate")
	}

	q.Recalculate()
	fields = errx.Fields{}
	pricing.ValidateAdjustments(fields, q.Subtotal, q.Adjustments())
	return cfg.Quotation.CateringPrefix, fields.Err()
}

func (s *Service) PDF(ctx context.Context, id string) ([]byte, string, error) {
	q, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, "", err
	}
	cfg, err := s.deps.Settings.Get(ctx)
	if err != nil {
		return nil, "", err
	}
	doc := pdf.Document{
		Title:      "CATERING QUOTATION",
		Number:     q.Number,
		IssueDate:  q.IssueDate,
		ValidUntil: q.ValidUntil,
		Reference:  q.EventName,
		Notes:      q.Notes,
		Terms:      q.Terms,
		Footer:     "Thank you for your business.",
	}
	if !q.EventDate.IsZero() {
		doc.Reference += " on " + q.EventDate.Format("02 Jan 2006")
	}
	if q.Venue != "" {
		doc.Reference += " at " + q.Venue
	}
	quote.Letterhead(ctx, &doc, cfg, s.deps.Logos)
	if c := q.Client; c != nil {
		doc.Client = pdf.Party{Name: c.Name}
		for _, l := range []string{c.Company, c.Address, c.Phone, c.Email} {
			if l != "" {
				doc.Client.Lines = append(doc.Client.Lines, l)
			}
		}
	}
	doc.Sections = s.sections(q)
	doc.Summary = quote.SummaryLines(q.Totals, q.Adjustments(), q.Currency)

	data, err := s.deps.Renderer.Generate(doc)
	if err != nil {
		return nil, "", fmt.Errorf("catering: render pdf: %w", err)
	}
	return data, q.Number + ".pdf", nil
}

func (s *Service) sections(q *Quotation) []pdf.Section {
	cur := q.Currency
	out := []pdf.Section{{
		Title: "Thaal",
		Columns: []pdf.Column{
			{Title: "Description", Width: 100},
			{Title: "Thaals", Width: 25, Right: true},
			{Title: "Price", Width: 30, Right: true},
			{Title: "Amount", Width: 35, Right: true},
		},
		Rows: [][]string{{
			"Thaal service",
			fmt.Sprint(q.ThaalCount),
			currency.Format(q.PricePerThaal, cur),
			currency.Format(q.ThaalTotal, cur),
		}},
	}}
	if len(q.MenuItems) > 0 {
		rows := make([][]string, 0, len(q.MenuItems))
		for _, m := range q.MenuItems {
			rows = append(rows, []string{m.Name, m.Notes})
		}
		out = append(out, pdf.Section{
			Title:   "Menu",
			Columns: []pdf.Column{{Title: "Item", Width: 80}, {Title: "Notes", Width: 110}},
			Rows:    rows,
		})
	}
	if len(q.Extras) > 0 {
		rows := make([][]string, 0, len(q.Extras))
		for _, e := range q.Extras {
			rows = append(rows, []string{e.Name, e.Quantity.String(), currency.Format(e.UnitPrice, cur), currency.Format(e.Total, cur)})
		}
		out = append(out, pdf.Section{
			Title: "Extras",
			Columns: []pdf.Column{
				{Title: "Item", Width: 100},
				{Title: "Qty", Width: 25, Right: true},
				{Title: "Unit price", Width: 30, Right: true},
				{Title: "Amount", Width: 35, Right: true},
			},
			Rows: rows,
		})
	}
	if len(q.OtherCosts) > 0 {
		rows := make([][]string, 0, len(q.OtherCosts))
		for _, c := range q.OtherCosts {
			rows = append(rows, []string{c.Description, currency.Format(c.Amount, cur)})
		}
		out = append(out, pdf.Section{
			Title:   "Other costs",
			Columns: []pdf.Column{{Title: "Description", Width: 155}, {Title: "Amount", Width: 35, Right: true}},
			Rows:    rows,
		})
	}
	return out
}

func (s *Service) publish(ctx context.Context, topic string, q *Quotation) {
	if s.deps.Publisher == nil {
		return
	}
	ev := quote.Event{
		Type:        topic,
		ID:          q.ID,
		Number:      q.Number,
		Kind:        "catering",
		ClientID:    q.ClientID,
		Status:      string(q.Status),
		TotalAmount: q.TotalAmount,
		Currency:    q.Currency,
		At:          s.now().UTC(),
	}
	if err := s.deps.Publisher.Publish(ctx, topic, q.ID, ev); err != nil {
		logx.Warn().Err(err).Str("topic", topic).Str("id", q.ID).Msg("catering: publish failed")
	}
}

func lookupErr(err error, field string) error {
	if errx.StatusOf(err) == http.StatusNotFound {
		return errx.Validation(field, "does not exist")
	}
	return err
}
