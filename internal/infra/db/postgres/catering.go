package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"quotations/go_backend/internal/core/errx"
	"quotations/go_backend/internal/domain/catering"
	"quotations/go_backend/internal/domain/paging"
	"quotations/go_backend/internal/domain/quote"
)

type CateringStore struct{ db *DB }

func NewCateringStore(db *DB) *CateringStore { return &CateringStore{db: db} }

const cateringColumns = `id, number, client_id, client_snapshot, COALESCE(project_id, ''), project_name, event_name, event_date, venue,
	issue_date, valid_until, thaal_count, price_per_thaal, menu_items, extras, other_costs,
	thaal_total, extras_total, other_costs_total, discount_type, discount_value, tax_rate,
	subtotal, discount_amount, tax_amount, total_amount, currency, status, notes, terms, created_by, created_at, updated_at`

func scanCatering(row pgx.Row) (catering.Quotation, error) {
	var q catering.Quotation
	var snapshot quote.ClientRef
	var eventDate *time.Time
	err := row.Scan(&q.ID, &q.Number, &q.ClientID, &snapshot, &q.ProjectID, &q.ProjectName, &q.EventName, &eventDate, &q.Venue,
		&q.IssueDate, &q.ValidUntil, &q.ThaalCount, &q.PricePerThaal, &q.MenuItems, &q.Extras, &q.OtherCosts,
		&q.ThaalTotal, &q.ExtrasTotal, &q.OtherCostsTotal, &q.DiscountType, &q.DiscountValue, &q.TaxRate,
		&q.Subtotal, &q.DiscountAmount, &q.TaxAmount, &q.TotalAmount, &q.Currency, &q.Status, &q.Notes, &q.Terms,
		&q.CreatedBy, &q.CreatedAt, &q.UpdatedAt)
	if eventDate != nil {
		q.EventDate = *eventDate
	}
	if snapshot.ID != "" {
		q.Client = &snapshot
	}
	return q, err
}

func (s *CateringStore) List(ctx context.Context, p paging.Params) ([]catering.Quotation, int, error) {
	var f filter
	f.search(p.Search, "number", "event_name", "venue", "client_snapshot->>'name'")
	if p.Status != "" {
		f.and("status = " + f.arg(p.Status))
	}
	if p.ClientID != "" {
		f.and("client_id = " + f.arg(p.ClientID))
	}
	var total int
	if err := s.db.Pool.QueryRow(ctx, `SELECT count(*) FROM catering_quotations`+f.where(), f.args...).Scan(&total); err != nil {
		return nil, 0, errx.WrapPostgres(err, "catering quotation")
	}
	rows, err := s.db.Pool.Query(ctx, `SELECT `+cateringColumns+` FROM catering_quotations`+f.where()+` ORDER BY created_at DESC, id`+f.page(p.Limit, p.Offset()), f.args...)
	if err != nil {
		return nil, 0, errx.WrapPostgres(err, "catering quotation")
	}
	out, err := pgx.CollectRows(rows, func(r pgx.CollectableRow) (catering.Quotation, error) { return scanCatering(r) })
	return out, total, errx.WrapPostgres(err, "catering quotation")
}

func (s *CateringStore) Get(ctx context.Context, id string) (*catering.Quotation, error) {
	q, err := scanCatering(s.db.Pool.QueryRow(ctx, `SELECT `+cateringColumns+` FROM catering_quotations WHERE id = $1`, id))
	if err != nil {
		return nil, errx.WrapPostgres(err, "catering quotation")
	}
	return &q, nil
}

func (s *CateringStore) Create(ctx context.Context, q *catering.Quotation) error {
	now := time.Now().UTC()
	q.ID, q.CreatedAt, q.UpdatedAt = uuid.NewString(), now, now
	_, err := s.db.Pool.Exec(ctx, `INSERT INTO catering_quotations (id, number, client_id, client_snapshot, project_id, project_name, event_name, event_date, venue,
		issue_date, valid_until, thaal_count, price_per_thaal, menu_items, extras, other_costs,
		thaal_total, extras_total, other_costs_total, discount_type, discount_value, tax_rate,
		subtotal, discount_amount, tax_amount, total_amount, currency, status, notes, terms, created_by, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25,$26,$27,$28,$29,$30,$31,$32,$33)`,
		q.ID, q.Number, q.ClientID, snapshot(q.Client), nullable(q.ProjectID), q.ProjectName, q.EventName, optionalDate(q.EventDate), q.Venue,
		q.IssueDate, q.ValidUntil, q.ThaalCount, q.PricePerThaal, q.MenuItems, q.Extras, q.OtherCosts,
		q.ThaalTotal, q.ExtrasTotal, q.OtherCostsTotal, q.DiscountType, q.DiscountValue, q.TaxRate,
		q.Subtotal, q.DiscountAmount, q.TaxAmount, q.TotalAmount, q.Currency, q.Status, q.Notes, q.Terms, q.CreatedBy, q.CreatedAt, q.UpdatedAt)
	return errx.WrapPostgres(err, "catering quotation")
}

func (s *CateringStore) Update(ctx context.Context, q *catering.Quotation) error {
	q.UpdatedAt = time.Now().UTC()
	tag, err := s.db.Pool.Exec(ctx, `UPDATE catering_quotations SET client_id=$2, client_snapshot=$3, project_id=$4, project_name=$5, event_name=$6, event_date=$7, venue=$8,
		issue_date=$9, valid_until=$10, thaal_count=$11, price_per_thaal=$12, menu_items=$13, extras=$14, other_costs=$15,
		thaal_total=$16, extras_total=$17, other_costs_total=$18, discount_type=$19, discount_value=$20, tax_rate=$21,
		subtotal=$22, discount_amount=$23, tax_amount=$24, total_amount=$25, currency=$26, status=$27, notes=$28, terms=$29, updated_at=$30
		WHERE id=$1`,
		q.ID, q.ClientID, snapshot(q.Client), nullable(q.ProjectID), q.ProjectName, q.EventName, optionalDate(q.EventDate), q.Venue,
		q.IssueDate, q.ValidUntil, q.ThaalCount, q.PricePerThaal, q.MenuItems, q.Extras, q.OtherCosts,
		q.ThaalTotal, q.ExtrasTotal, q.OtherCostsTotal, q.DiscountType, q.DiscountValue, q.TaxRate,
		q.Subtotal, q.DiscountAmount, q.TaxAmount, q.TotalAmount, q.Currency, q.Status, q.Notes, q.Terms, q.UpdatedAt)
	if err != nil {
		return errx.WrapPostgres(err, "catering quotation")
	}
	if tag.RowsAffected() == 0 {
		return errx.NotFound("catering quotation")
	}
	return nil
}

func (s *CateringStore) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, s.db, "catering_quotations", "catering quotation", id)
}

func optionalDate(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
