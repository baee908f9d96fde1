package quote

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
	"quotations/go_backend/internal/domain/settings"
	"quotations/go_backend/internal/domain/user"
	logx "quotations/go_backend/pkg/logger"
)

type Service struct {
	store Store
	deps  Deps
	now   func() time.Time
}

func NewService(store Store, deps Deps) *Service {
	return &Service{store: store, deps: deps, now: time.Now}
}

func (s *Service) List(ctx context.Context, p paging.Params) ([]Quotation, int, error) {
	p = p.Normalize()
	if p.Status != "" && !Status(p.Status).Valid() {
		return nil, 0, errx.Validation("status", "is not a valid quotation status")
	}
	return s.store.List(ctx, p)
}

func (s *Service) Get(ctx context.Context, id string) (*Quotation, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, in Input) (*Quotation, error) {
	cfg, err := s.deps.Settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	q := &Quotation{Status: StatusDraft}
	if p, ok := user.FromContext(ctx); ok {
		q.CreatedBy = p.UserID
	}
	if err := s.apply(ctx, cfg, q, in); err != nil {
		return nil, err
	}

	seq, err := s.deps.Sequencer.Next(ctx, fmt.Sprintf("%s-%d", cfg.Quotation.Prefix, q.IssueDate.Year()))
	if err != nil {
		return nil, err
	}
	q.Number = Number(cfg.Quotation.Prefix, q.IssueDate.Year(), seq)

	if err := s.store.Create(ctx, q); err != nil {
		return nil, err
	}
	s.publish(ctx, TopicCreated, q)
	return q, nil
}

// Update rewrites the content of an editable quotation and recomputes totals.
func (s *Service) Update(ctx context.Context, id string, in Input) (*Quotation, error) {
	q, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !q.Status.Editable() {
		return nil, errx.Conflict(fmt.Sprintf("quotation is %s and can no longer be edited", q.Status))
	}
	cfg, err := s.deps.Settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, cfg, q, in); err != nil {
		return nil, err
	}
	if err := s.store.Update(ctx, q); err != nil {
		return nil, err
	}
	s.publish(ctx, TopicUpdated, q)
	return q, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	q, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if q.Status == StatusInvoiced {
		return errx.Conflict("invoiced quotations cannot be deleted")
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, TopicDeleted, q)
	return nil
}

// SetStatus moves a quotation along the status graph. Invoicing goes
// through Convert so the invoice number is assigned.
func (s *Service) SetStatus(ctx context.Context, id string, to Status) (*Quotation, error) {
	if !to.Valid() {
		return nil, errx.Validation("status", "is not a valid quotation status")
	}
	if to == StatusInvoiced {
		return nil, errx.Validation("status", "use the convert operation to invoice a quotation")
	}
	q, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if q.Status == to {
		return q, nil
	}
	if !CanTransition(q.Status, to) {
		return nil, errx.Conflict(fmt.Sprintf("cannot change status from %s to %s", q.Status, to))
	}
	q.Status = to
	if err := s.store.Update(ctx, q); err != nil {
		return nil, err
	}
	s.publish(ctx, TopicStatusChanged, q)
	if to == StatusAccepted {
		s.notify(ctx, fmt.Sprintf("Quotation %s accepted: %s", q.Number, currency.Format(q.TotalAmount, q.Currency)))
	}
	return q, nil
}

// Convert turns an accepted quotation into an invoice.
func (s *Service) Convert(ctx context.Context, id string) (*Quotation, error) {
	q, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if q.Status != StatusAccepted {
		return nil, errx.Conflict("only accepted quotations can be converted to invoices")
	}
	cfg, err := s.deps.Settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	seq, err := s.deps.Sequencer.Next(ctx, fmt.Sprintf("%s-%d", cfg.Quotation.InvoicePrefix, now.Year()))
	if err != nil {
		return nil, err
	}
	q.Status = StatusInvoiced
	q.InvoiceNumber = Number(cfg.Quotation.InvoicePrefix, now.Year(), seq)
	q.InvoicedAt = &now
	if err := s.store.Update(ctx, q); err != nil {
		return nil, err
	}
	s.publish(ctx, TopicStatusChanged, q)
	s.notify(ctx, fmt.Sprintf("Quotation %s invoiced as %s: %s", q.Number, q.InvoiceNumber, currency.Format(q.TotalAmount, q.Currency)))
	return q, nil
}

// Duplicate copies a quotation into a fresh draft dated today.
func (s *Service) Duplicate(ctx context.Context, id string) (*Quotation, error) {
	src, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	in := Input{
		ClientID:      src.ClientID,
		ProjectID:     src.ProjectID,
		Title:         src.Title,
		DiscountType:  src.DiscountType,
		DiscountValue: src.DiscountValue,
		TaxRate:       &src.TaxRate,
		Currency:      src.Currency,
		Notes:         src.Notes,
		Terms:         src.Terms,
	}
	for _, it := range src.Items {
		in.Items = append(in.Items, ItemInput{
			ProductID:   it.ProductID,
			Description: it.Description,
			SizeID:      it.SizeID,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Discount:    it.Discount,
		})
	}
	return s.Create(ctx, in)
}

// apply validates in, resolves references and writes everything onto q.
func (s *Service) apply(ctx context.Context, cfg *settings.Configuration, q *Quotation, in Input) error {
	in.normalize()
	fields := errx.Fields{}
	in.validate(fields)
	if err := fields.Err(); err != nil {
		return err
	}

	c, err := s.deps.Clients.Get(ctx, in.ClientID)
	if err != nil {
		return lookupErr(err, "clientId")
	}
	q.ClientID = c.ID
	q.Client = &ClientRef{ID: c.ID, Name: c.Name, Email: c.Email, Phone: c.Phone, Company: c.Company, Address: c.Address}

	q.ProjectID, q.ProjectName = "", ""
	if in.ProjectID != "" {
		p, err := s.deps.Projects.Get(ctx, in.ProjectID)
		if err != nil {
			return lookupErr(err, "projectId")
		}
		q.ProjectID, q.ProjectName = p.ID, p.Name
	}

	items := make([]Item, 0, len(in.Items))
	for i, it := range in.Items {
		prefix := fmt.Sprintf("items[%d]", i)
		prod, err := s.deps.Products.Get(ctx, it.ProductID)
		if err != nil {
			return lookupErr(err, prefix+".productId")
		}
		item := Item{
			ProductID:   prod.ID,
			ProductName: prod.Name,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Discount:    it.Discount,
		}
		if item.Description == "" {
			item.Description = prod.Name
		}
		sizeID := it.SizeID
		if sizeID == "" {
			sizeID = prod.SizeID
		}
		if sizeID != "" {
			size, err := s.deps.Sizes.Get(ctx, sizeID)
			if err != nil {
				return lookupErr(err, prefix+".sizeId")
			}
			item.SizeID, item.SizeName = size.ID, size.Name
		}
		items = append(items, item)
	}

	q.Title = in.Title
	q.Items = items
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
		return errx.Validation("currency", "is not a supported currency")
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
		return errx.Validation("validUntil", "must not be before issueDate")
	}

	q.Recalculate()
	fields = errx.Fields{}
	pricing.ValidateAdjustments(fields, q.Subtotal, q.Adjustments())
	return fields.Err()
}

func (s *Service) publish(ctx context.Context, topic string, q *Quotation) {
	if s.deps.Publisher == nil {
		return
	}
	ev := Event{
		Type:        topic,
		ID:          q.ID,
		Number:      q.Number,
		Kind:        "quotation",
		ClientID:    q.ClientID,
		Status:      string(q.Status),
		TotalAmount: q.TotalAmount,
		Currency:    q.Currency,
		At:          s.now().UTC(),
	}
	if err := s.deps.Publisher.Publish(ctx, topic, q.ID, ev); err != nil {
		logx.Warn().Err(err).Str("topic", topic).Str("id", q.ID).Msg("quote: publish failed")
	}
}

func (s *Service) notify(ctx context.Context, text string) {
	if s.deps.Notifier == nil {
		return
	}
	if err := s.deps.Notifier.SendText(ctx, text); err != nil {
		logx.Warn().Err(err).Msg("quote: notify failed")
	}
}

// lookupErr turns a missing reference into a field error.
func lookupErr(err error, field string) error {
	if errx.StatusOf(err) == http.StatusNotFound {
		return errx.Validation(field, "does not exist")
	}
	return err
}
