package catering

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quotations/go_backend/internal/core/errx"
	"quotations/go_backend/internal/domain/calendar"
	"quotations/go_backend/internal/domain/client"
	"quotations/go_backend/internal/domain/paging"
	"quotations/go_backend/internal/domain/pricing"
	"quotations/go_backend/internal/domain/project"
	"quotations/go_backend/internal/domain/quote"
	"quotations/go_backend/internal/domain/quote/pdf"
	"quotations/go_backend/internal/domain/settings"
)

type memStore struct{ rows map[string]Quotation }

func (m *memStore) List(ctx context.Context, p paging.Params) ([]Quotation, int, error) {
	return nil, 0, nil
}

func (m *memStore) Get(ctx context.Context, id string) (*Quotation, error) {
	q, ok := m.rows[id]
	if !ok {
		return nil, errx.NotFound("catering quotation")
	}
	return &q, nil
}

func (m *memStore) Create(ctx context.Context, q *Quotation) error {
	q.ID = fmt.Sprintf("cq%d", len(m.rows)+1)
	m.rows[q.ID] = *q
	return nil
}

func (m *memStore) Update(ctx context.Context, q *Quotation) error {
	m.rows[q.ID] = *q
	return nil
}

func (m *memStore) Delete(ctx context.Context, id string) error {
	delete(m.rows, id)
	return nil
}

type memSeq map[string]int64

func (m memSeq) Next(ctx context.Context, key string) (int64, error) {
	m[key]++
	return m[key], nil
}

type clients map[string]client.Client

func (c clients) Get(ctx context.Context, id string) (*client.Client, error) {
	v, ok := c[id]
	if !ok {
		return nil, errx.NotFound("client")
	}
	return &v, nil
}

type projects map[string]project.Project

func (p projects) Get(ctx context.Context, id string) (*project.Project, error) {
	v, ok := p[id]
	if !ok {
		return nil, errx.NotFound("project")
	}
	return &v, nil
}

type fixedSettings struct{ cfg settings.Configuration }

func (f fixedSettings) Get(ctx context.Context) (*settings.Configuration, error) {
	c := f.cfg
	return &c, nil
}

type captureRenderer struct{ doc pdf.Document }

func (r *captureRenderer) Generate(doc pdf.Document) ([]byte, error) {
	r.doc = doc
	return []byte("%PDF"), nil
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newService() (*Service, *memStore, *captureRenderer) {
	cfg := settings.Default()
	cfg.Currency = "KES"
	store := &memStore{rows: map[string]Quotation{}}
	r := &captureRenderer{}
	svc := NewService(store, quote.Deps{
		Sequencer: memSeq{},
		Clients:   clients{"c1": {ID: "c1", Name: "Burhani Hall"}},
		Projects:  projects{},
		Settings:  fixedSettings{cfg: cfg},
		Renderer:  r,
	})
	svc.now = func() time.Time { return time.Date(2026, 5, 2, 12, 0, 0, 0, time.UTC) }
	return svc, store, r
}

func baseInput() Input {
	tax := d("16")
	return Input{
		ClientID:      "c1",
		EventName:     "Nikah dinner",
		EventDate:     calendar.NewDate(time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)),
		Venue:         "Main hall",
		ThaalCount:    20,
		PricePerThaal: d("1500"),
		MenuItems:     []MenuItem{{Name: "Biryani"}, {Name: "  "}, {Name: "Kheer", Notes: "less sugar"}},
		Extras:        []Extra{{Name: "Water", Quantity: d("40"), UnitPrice: d("50")}},
		OtherCosts:    []OtherCost{{Description: "Transport", Amount: d("3000")}},
		DiscountType:  pricing.DiscountFixed,
		DiscountValue: d("1000"),
		TaxRate:       &tax,
	}
}

func TestCreatePricesThaalExtrasAndCosts(t *testing.T) {
	svc, _, _ := newService()
	q, err := svc.Create(context.Background(), baseInput())
	require.NoError(t, err)

	assert.Equal(t, "CQ-2026-0001", q.Number)
	assert.Equal(t, "KES", q.Currency)
	assert.True(t, q.ThaalTotal.Equal(d("30000")))
	assert.True(t, q.ExtrasTotal.Equal(d("2000")))
	assert.True(t, q.Extras[0].Total.Equal(d("2000")))
	assert.True(t, q.OtherCostsTotal.Equal(d("3000")))
	assert.True(t, q.Subtotal.Equal(d("35000")))
	assert.True(t, q.DiscountAmount.Equal(d("1000")))
	assert.True(t, q.TaxAmount.Equal(d("5440")))
	assert.True(t, q.TotalAmount.Equal(d("39440")))
	assert.Len(t, q.MenuItems, 2, "blank menu rows are dropped")
}

func TestCreateValidation(t *testing.T) {
	cases := map[string]struct {
		edit  func(*Input)
		field string
	}{
		"no thaals":        {func(in *Input) { in.ThaalCount = 0 }, "thaalCount"},
		"negative price":   {func(in *Input) { in.PricePerThaal = d("-1") }, "pricePerThaal"},
		"extra qty":        {func(in *Input) { in.Extras[0].Quantity = decimal.Zero }, "extras[0].quantity"},
		"negative cost":    {func(in *Input) { in.OtherCosts[0].Amount = d("-5") }, "otherCosts[0].amount"},
		"missing event":    {func(in *Input) { in.EventName = "" }, "eventName"},
		"unknown client":   {func(in *Input) { in.ClientID = "zz" }, "clientId"},
		"fixed > subtotal": {func(in *Input) { in.DiscountValue = d("40000") }, "discountValue"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			svc, store, _ := newService()
			in := baseInput()
			tc.edit(&in)
			_, err := svc.Create(context.Background(), in)
			var ae *errx.AppError
			require.ErrorAs(t, err, &ae)
			assert.Contains(t, ae.Fields, tc.field)
			assert.Empty(t, store.rows)
		})
	}
}

func TestStatusAndEditing(t *testing.T) {
	svc, _, _ := newService()
	ctx := context.Background()
	q, err := svc.Create(ctx, baseInput())
	require.NoError(t, err)

	_, err = svc.SetStatus(ctx, q.ID, quote.StatusInvoiced)
	assert.Equal(t, http.StatusBadRequest, errx.StatusOf(err))

	_, err = svc.SetStatus(ctx, q.ID, quote.StatusAccepted)
	require.NoError(t, err)
	_, err = svc.Update(ctx, q.ID, baseInput())
	assert.Equal(t, http.StatusConflict, errx.StatusOf(err))

	_, err = svc.SetStatus(ctx, q.ID, quote.StatusDraft)
	assert.Equal(t, http.StatusConflict, errx.StatusOf(err))

	require.NoError(t, svc.Delete(ctx, q.ID))
}

func TestPDFSections(t *testing.T) {
	svc, _, r := newService()
	ctx := context.Background()
	q, err := svc.Create(ctx, baseInput())
	require.NoError(t, err)

	_, name, err := svc.PDF(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, "CQ-2026-0001.pdf", name)
	assert.Equal(t, "Nikah dinner on 01 Jun 2026 at Main hall", r.doc.Reference)

	titles := make([]string, len(r.doc.Sections))
	for i, s := range r.doc.Sections {
		titles[i] = s.Title
	}
	assert.Equal(t, []string{"Thaal", "Menu", "Extras", "Other costs"}, titles)
	assert.Equal(t, "KSh 39,440.00", r.doc.Summary[len(r.doc.Summary)-1].Value)
}
