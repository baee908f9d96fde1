package quote

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quotations/go_backend/internal/core/errx"
	"quotations/go_backend/internal/domain/calendar"
	"quotations/go_backend/internal/domain/paging"
	"quotations/go_backend/internal/domain/pricing"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func scenarioInput() Input {
	tax := d("5")
	return Input{
		ClientID: "c1",
		Title:    "Hall setup",
		Items: []ItemInput{
			{ProductID: "p1", Quantity: d("2"), UnitPrice: d("100")},
			{ProductID: "p2", Quantity: d("1"), UnitPrice: d("50"), Discount: d("10")},
		},
		DiscountType:  pricing.DiscountPercentage,
		DiscountValue: d("10"),
		TaxRate:       &tax,
	}
}

func TestCreateComputesTotals(t *testing.T) {
	f := newFixture()
	q, err := f.svc.Create(context.Background(), scenarioInput())
	require.NoError(t, err)

	assert.Equal(t, "QT-2026-0001", q.Number)
	assert.Equal(t, StatusDraft, q.Status)
	assert.True(t, q.Subtotal.Equal(d("245")), q.Subtotal.String())
	assert.True(t, q.DiscountAmount.Equal(d("24.5")))
	assert.True(t, q.TaxAmount.Equal(d("11.025")))
	assert.True(t, q.TotalAmount.Equal(d("231.525")))
	assert.True(t, q.Items[1].LineTotal.Equal(d("45")))

	assert.Equal(t, "Chair", q.Items[0].Description)
	assert.Equal(t, "Large", q.Items[0].SizeName, "size falls back to the product's")
	assert.Equal(t, "USD", q.Currency)
	assert.Equal(t, "Payment within 14 days", q.Terms)
	assert.Equal(t, calendar.Truncate(fixedNow), q.IssueDate)
	assert.Equal(t, calendar.Truncate(fixedNow).AddDate(0, 0, 30), q.ValidUntil)
	assert.Equal(t, "Jane Doe", q.Client.Name)
	assert.Equal(t, []string{TopicCreated}, f.publisher.topics())
}

func TestCreateNumbersAreSequential(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	a, err := f.svc.Create(ctx, scenarioInput())
	require.NoError(t, err)
	b, err := f.svc.Create(ctx, scenarioInput())
	require.NoError(t, err)
	assert.Equal(t, "QT-2026-0001", a.Number)
	assert.Equal(t, "QT-2026-0002", b.Number)
}

func TestUpdateIsIdempotent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	q, err := f.svc.Create(ctx, scenarioInput())
	require.NoError(t, err)

	again, err := f.svc.Update(ctx, q.ID, scenarioInput())
	require.NoError(t, err)
	if diff := cmp.Diff(q.Totals, again.Totals, cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })); diff != "" {
		t.Fatalf("totals changed on resubmit (-first +second):\n%s", diff)
	}
	assert.Equal(t, q.Number, again.Number)
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	cases := []struct {
		name  string
		edit  func(*Input)
		field string
	}{
		{"zero quantity", func(in *Input) { in.Items[0].Quantity = decimal.Zero }, "items[0].quantity"},
		{"negative quantity", func(in *Input) { in.Items[0].Quantity = d("-1") }, "items[0].quantity"},
		{"negative price", func(in *Input) { in.Items[1].UnitPrice = d("-0.01") }, "items[1].unitPrice"},
		{"item discount over 100", func(in *Input) { in.Items[0].Discount = d("101") }, "items[0].discount"},
		{"no items", func(in *Input) { in.Items = nil }, "items"},
		{"missing client", func(in *Input) { in.ClientID = "" }, "clientId"},
		{"unknown client", func(in *Input) { in.ClientID = "nope" }, "clientId"},
		{"unknown product", func(in *Input) { in.Items[0].ProductID = "nope" }, "items[0].productId"},
		{"unknown project", func(in *Input) { in.ProjectID = "nope" }, "projectId"},
		{"percentage over 100", func(in *Input) { in.DiscountValue = d("150") }, "discountValue"},
		{"fixed over subtotal", func(in *Input) {
			in.DiscountType = pricing.DiscountFixed
			in.DiscountValue = d("300")
		}, "discountValue"},
		{"unknown currency", func(in *Input) { in.Currency = "XXX" }, "currency"},
		{"saving as accepted", func(in *Input) { in.Status = StatusAccepted }, "status"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture()
			in := scenarioInput()
			tc.edit(&in)
			_, err := f.svc.Create(context.Background(), in)
			require.Error(t, err)

			var ae *errx.AppError
			require.ErrorAs(t, err, &ae)
			assert.Equal(t, http.StatusBadRequest, ae.Status)
			assert.Contains(t, ae.Fields, tc.field)
			assert.Empty(t, f.store.rows, "nothing persisted")
		})
	}
}

func TestFixedDiscountAndExplicitZeroTax(t *testing.T) {
	f := newFixture()
	in := scenarioInput()
	zero := decimal.Zero
	in.TaxRate = &zero
	in.DiscountType = pricing.DiscountFixed
	in.DiscountValue = d("45")
	in.ProjectID = "pr1"

	q, err := f.svc.Create(context.Background(), in)
	require.NoError(t, err)
	assert.True(t, q.TotalAmount.Equal(d("200")))
	assert.True(t, q.TaxAmount.IsZero())
	assert.Equal(t, "Wedding", q.ProjectName)
}

func TestStatusTransitions(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	q, err := f.svc.Create(ctx, scenarioInput())
	require.NoError(t, err)

	_, err = f.svc.SetStatus(ctx, q.ID, StatusExpired)
	assert.Equal(t, http.StatusConflict, errx.StatusOf(err), "draft cannot expire")

	_, err = f.svc.SetStatus(ctx, q.ID, StatusInvoiced)
	assert.Equal(t, http.StatusBadRequest, errx.StatusOf(err), "invoicing goes through convert")

	_, err = f.svc.SetStatus(ctx, q.ID, "bogus")
	assert.Equal(t, http.StatusBadRequest, errx.StatusOf(err))

	sent, err := f.svc.SetStatus(ctx, q.ID, StatusSent)
	require.NoError(t, err)
	assert.Equal(t, StatusSent, sent.Status)

	accepted, err := f.svc.SetStatus(ctx, q.ID, StatusAccepted)
	require.NoError(t, err)
	assert.Equal(t, StatusAccepted, accepted.Status)
	assert.Len(t, f.notifier.texts, 1)

	_, err = f.svc.Update(ctx, q.ID, scenarioInput())
	assert.Equal(t, http.StatusConflict, errx.StatusOf(err), "accepted quotations are locked")

	assert.Equal(t, []string{TopicCreated, TopicStatusChanged, TopicStatusChanged}, f.publisher.topics())
}

func TestSentQuotationExpiresOnRequest(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	in := scenarioInput()
	in.IssueDate = calendar.NewDate(time.Date(2019, 12, 1, 0, 0, 0, 0, time.UTC))
	in.ValidUntil = calendar.NewDate(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))
	q, err := f.svc.Create(ctx, in)
	require.NoError(t, err)

	got, err := f.svc.Get(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusDraft, got.Status, "a lapsed validity date alone does not change status")

	_, err = f.svc.SetStatus(ctx, q.ID, StatusSent)
	require.NoError(t, err)
	expired, err := f.svc.SetStatus(ctx, q.ID, StatusExpired)
	require.NoError(t, err)
	assert.Equal(t, StatusExpired, expired.Status)

	reopened, err := f.svc.SetStatus(ctx, q.ID, StatusDraft)
	require.NoError(t, err)
	assert.Equal(t, StatusDraft, reopened.Status)
}

func TestConvertAssignsInvoiceNumber(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	q, err := f.svc.Create(ctx, scenarioInput())
	require.NoError(t, err)

	_, err = f.svc.Convert(ctx, q.ID)
	assert.Equal(t, http.StatusConflict, errx.StatusOf(err))

	_, err = f.svc.SetStatus(ctx, q.ID, StatusAccepted)
	require.NoError(t, err)
	inv, err := f.svc.Convert(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusInvoiced, inv.Status)
	assert.Equal(t, "INV-2026-0001", inv.InvoiceNumber)
	require.NotNil(t, inv.InvoicedAt)
	assert.Equal(t, fixedNow, *inv.InvoicedAt)

	assert.Equal(t, http.StatusConflict, errx.StatusOf(f.svc.Delete(ctx, q.ID)))
	_, err = f.svc.SetStatus(ctx, q.ID, StatusDraft)
	assert.Equal(t, http.StatusConflict, errx.StatusOf(err), "invoiced is terminal")
}

func TestDuplicateCreatesFreshDraft(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	q, err := f.svc.Create(ctx, scenarioInput())
	require.NoError(t, err)
	_, err = f.svc.SetStatus(ctx, q.ID, StatusRejected)
	require.NoError(t, err)

	dup, err := f.svc.Duplicate(ctx, q.ID)
	require.NoError(t, err)
	assert.NotEqual(t, q.ID, dup.ID)
	assert.Equal(t, "QT-2026-0002", dup.Number)
	assert.Equal(t, StatusDraft, dup.Status)
	assert.True(t, dup.TotalAmount.Equal(q.TotalAmount))
	assert.Len(t, dup.Items, 2)
}

func TestDeletePublishes(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	q, err := f.svc.Create(ctx, scenarioInput())
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, q.ID))
	_, err = f.svc.Get(ctx, q.ID)
	assert.Equal(t, http.StatusNotFound, errx.StatusOf(err))
	assert.Equal(t, TopicDeleted, f.publisher.events[1].topic)
	assert.Equal(t, q.ID, f.publisher.events[1].key)
}

func TestPublishFailureDoesNotFailWrite(t *testing.T) {
	f := newFixture()
	f.publisher.fail = true
	_, err := f.svc.Create(context.Background(), scenarioInput())
	require.NoError(t, err)
	assert.Len(t, f.store.rows, 1)
}

func TestListRejectsUnknownStatus(t *testing.T) {
	f := newFixture()
	_, _, err := f.svc.List(context.Background(), paging.Params{Status: "pending"})
	assert.Equal(t, http.StatusBadRequest, errx.StatusOf(err))
}

func TestPDFAndSend(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	q, err := f.svc.Create(ctx, scenarioInput())
	require.NoError(t, err)

	data, name, err := f.svc.PDF(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, "QT-2026-0001.pdf", name)
	assert.NotEmpty(t, data)
	doc := f.renderer.last
	assert.Equal(t, "QUOTATION", doc.Title)
	assert.Equal(t, "Acme Events", doc.Business.Name)
	require.Len(t, doc.Sections, 1)
	assert.Len(t, doc.Sections[0].Rows, 2)
	assert.Equal(t, "Chair (Large)", doc.Sections[0].Rows[0][1])
	assert.Equal(t, "$231.53", doc.Summary[len(doc.Summary)-1].Value)

	sent, err := f.svc.Send(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusSent, sent.Status)
	assert.Equal(t, []string{"QT-2026-0001.pdf"}, f.notifier.docs)
}
