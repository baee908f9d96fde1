package dashboard

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"quotations/go_backend/internal/domain/currency"
	"quotations/go_backend/internal/domain/quote"
)

const RecentLimit = 5

type Counts struct {
	Clients            int `json:"clients"`
	Products           int `json:"products"`
	Quotations         int `json:"quotations"`
	CateringQuotations int `json:"cateringQuotations"`
}

// Recent is a compact quotation row for the activity list.
type Recent struct {
	ID          string          `json:"id"`
	Number      string          `json:"number"`
	ClientName  string          `json:"clientName"`
	Status      quote.Status    `json:"status"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Formatted   string          `json:"formattedTotal"`
	Currency    string          `json:"currency"`
	IssueDate   time.Time       `json:"issueDate"`
}

type Summary struct {
	Counts          Counts               `json:"counts"`
	ByStatus        map[quote.Status]int `json:"byStatus"`
	WonValue        decimal.Decimal      `json:"wonValue"`
	MonthValue      decimal.Decimal      `json:"monthValue"`
	Currency        currency.Currency    `json:"currency"`
	FormattedValues map[string]string    `json:"formatted"`
	Recent          []Recent             `json:"recent"`
}

type Store interface {
	Counts(ctx context.Context) (Counts, error)
	CountByStatus(ctx context.Context) (map[quote.Status]int, error)
	// SumTotals adds up totals of quotations priced in currency with a
	// status in statuses and an issue date at or after since (zero since
	// means all time).
	SumTotals(ctx context.Context, currency string, statuses []quote.Status, since time.Time) (decimal.Decimal, error)
	Recent(ctx context.Context, limit int) ([]Recent, error)
}

type Settings interface {
	CurrencyCode(ctx context.Context) (string, error)
}

type Service struct {
	store    Store
	settings Settings
	now      func() time.Time
}

func NewService(store Store, settings Settings) *Service {
	return &Service{store: store, settings: settings, now: time.Now}
}

// Summary runs the dashboard queries concurrently; the first failure
// cancels the rest. Money figures only count quotations in the configured
// currency.
func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	var out Summary
	now := s.now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	code, err := s.settings.CurrencyCode(ctx)
	if err != nil {
		return nil, err
	}
	if code == "" {
		code = currency.DefaultCode
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.Counts, err = s.store.Counts(ctx)
		return err
	})
	g.Go(func() (err error) {
		out.ByStatus, err = s.store.CountByStatus(ctx)
		return err
	})
	g.Go(func() (err error) {
		out.WonValue, err = s.store.SumTotals(ctx, code, []quote.Status{quote.StatusAccepted, quote.StatusInvoiced}, time.Time{})
		return err
	})
	g.Go(func() (err error) {
		out.MonthValue, err = s.store.SumTotals(ctx, code, nil, monthStart)
		return err
	})
	g.Go(func() (err error) {
		out.Recent, err = s.store.Recent(ctx, RecentLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if out.ByStatus == nil {
		out.ByStatus = map[quote.Status]int{}
	}
	for _, st := range quote.Statuses {
		out.ByStatus[st] += 0
	}
	out.Currency = currency.MustLookup(code)
	out.FormattedValues = map[string]string{
		"wonValue":   out.Currency.Format(out.WonValue),
		"monthValue": out.Currency.Format(out.MonthValue),
	}
	for i := range out.Recent {
		r := &out.Recent[i]
		r.Formatted = currency.Format(r.TotalAmount, r.Currency)
	}
	if out.Recent == nil {
		out.Recent = []Recent{}
	}
	return &out, nil
}
