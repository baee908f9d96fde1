package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"quotations/go_backend/internal/core/errx"
	"quotations/go_backend/internal/domain/paging"
	"quotations/go_backend/internal/domain/quote"
)

type QuotationStore struct{ db *DB }

func NewQuotationStore(db *DB) *QuotationStore { return &QuotationStore{db: db} }

const quotationColumns = `id, number, client_id, client_snapshot, COALESCE(project_id, ''), project_name, title, issue_date, valid_until,
	discount_type, discount_value, tax_rate, subtotal, discount_amount, tax_amount, total_amount,
	currency, notes, terms, status, COALESCE(invoice_number, ''), invoiced_at, created_by, created_at, updated_at`

func scanQuotation(row pgx.Row) (quote.Quotation, error) {
	var q quote.Quotation
	var snapshot quote.ClientRef
	err := row.Scan(&q.ID, &q.Number, &q.ClientID, &snapshot, &q.ProjectID, &q.ProjectName, &q.Title, &q.IssueDate, &q.ValidUntil,
		&q.DiscountType, &q.DiscountValue, &q.TaxRate, &q.Subtotal, &q.DiscountAmount, &q.TaxAmount, &q.TotalAmount,
		&q.Currency, &q.Notes, &q.Terms, &q.Status, &q.InvoiceNumber, &q.InvoicedAt, &q.CreatedBy, &q.CreatedAt, &q.UpdatedAt)
	if snapshot.ID != "" {
		q.Client = &snapshot
	}
	return q, err
}

func (s *QuotationStore) List(ctx context.Context, p paging.Params) ([]quote.Quotation, int, error) {
	var f filter
	f.search(p.Search, "number", "title", "client_snapshot->>'name'", "client_snapshot->>'company'")
	if p.Status != "" {
		f.and("status = " + f.arg(p.Status))
	}
	if p.ClientID != "" {
		f.and("client_id = " + f.arg(p.ClientID))
	}
	var total int
	if err := s.db.Pool.QueryRow(ctx, `SELECT count(*) FROM quotations`+f.where(), f.args...).Scan(&total); err != nil {
		return nil, 0, errx.WrapPostgres(err, "quotation")
	}
	rows, err := s.db.Pool.Query(ctx, `SELECT `+quotationColumns+` FROM quotations`+f.where()+` ORDER BY created_at DESC, id`+f.page(p.Limit, p.Offset()), f.args...)
	if err != nil {
		return nil, 0, errx.WrapPostgres(err, "quotation")
	}
	out, err := pgx.CollectRows(rows, func(r pgx.CollectableRow) (quote.Quotation, error) { return scanQuotation(r) })
	if err != nil {
		return nil, 0, errx.WrapPostgres(err, "quotation")
	}
	if err := s.loadItems(ctx, out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (s *QuotationStore) Get(ctx context.Context, id string) (*quote.Quotation, error) {
	q, err := scanQuotation(s.db.Pool.QueryRow(ctx, `SELECT `+quotationColumns+` FROM quotations WHERE id = $1`, id))
	if err != nil {
		return nil, errx.WrapPostgres(err, "quotation")
	}
	list := []quote.Quotation{q}
	if err := s.loadItems(ctx, list); err != nil {
		return nil, err
	}
	return &list[0], nil
}

// loadItems fills Items for every quotation in one query.
func (s *QuotationStore) loadItems(ctx context.Context, qs []quote.Quotation) error {
	if len(qs) == 0 {
		return nil
	}
	ids := make([]string, len(qs))
	index := make(map[string]int, len(qs))
	for i, q := range qs {
		ids[i] = q.ID
		index[q.ID] = i
		qs[i].Items = []quote.Item{}
	}
	rows, err := s.db.Pool.Query(ctx, `SELECT quotation_id, product_id, product_name, description, COALESCE(size_id, ''), size_name,
		quantity, unit_price, discount, line_total
		FROM quotation_items WHERE quotation_id = ANY($1) ORDER BY quotation_id, position`, ids)
	if err != nil {
		return errx.WrapPostgres(err, "quotation")
	}
	defer rows.Close()
	for rows.Next() {
		var qid string
		var it quote.Item
		if err := rows.Scan(&qid, &it.ProductID, &it.ProductName, &it.Description, &it.SizeID, &it.SizeName,
			&it.Quantity, &it.UnitPrice, &it.Discount, &it.LineTotal); err != nil {
			return errx.WrapPostgres(err, "quotation")
		}
		i := index[qid]
		qs[i].Items = append(qs[i].Items, it)
	}
	return errx.WrapPostgres(rows.Err(), "quotation")
}

func (s *QuotationStore) Create(ctx context.Context, q *quote.Quotation) error {
	now := time.Now().UTC()
	q.ID, q.CreatedAt, q.UpdatedAt = uuid.NewString(), now, now
	err := pgx.BeginFunc(ctx, s.db.Pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `INSERT INTO quotations (id, number, client_id, client_snapshot, project_id, project_name, title, issue_date, valid_until,
			discount_type, discount_value, tax_rate, subtotal, discount_amount, tax_amount, total_amount,
			currency, notes, terms, status, invoice_number, invoiced_at, created_by, created_at, updated_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25)`,
			q.ID, q.Number, q.ClientID, snapshot(q.Client), nullable(q.ProjectID), q.ProjectName, q.Title, q.IssueDate, q.ValidUntil,
			q.DiscountType, q.DiscountValue, q.TaxRate, q.Subtotal, q.DiscountAmount, q.TaxAmount, q.TotalAmount,
			q.Currency, q.Notes, q.Terms, q.Status, nullable(q.InvoiceNumber), q.InvoicedAt, q.CreatedBy, q.CreatedAt, q.UpdatedAt)
		if err != nil {
			return err
		}
		return insertItems(ctx, tx, q)
	})
	return errx.WrapPostgres(err, "quotation")
}

// Update rewrites the header and replaces the item rows.
func (s *QuotationStore) Update(ctx context.Context, q *quote.Quotation) error {
	q.UpdatedAt = time.Now().UTC()
	err := pgx.BeginFunc(ctx, s.db.Pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `UPDATE quotations SET client_id=$2, client_snapshot=$3, project_id=$4, project_name=$5, title=$6, issue_date=$7, valid_until=$8,
			discount_type=$9, discount_value=$10, tax_rate=$11, subtotal=$12, discount_amount=$13, tax_amount=$14, total_amount=$15,
			currency=$16, notes=$17, terms=$18, status=$19, invoice_number=$20, invoiced_at=$21, updated_at=$22 WHERE id=$1`,
			q.ID, q.ClientID, snapshot(q.Client), nullable(q.ProjectID), q.ProjectName, q.Title, q.IssueDate, q.ValidUntil,
			q.DiscountType, q.DiscountValue, q.TaxRate, q.Subtotal, q.DiscountAmount, q.TaxAmount, q.TotalAmount,
			q.Currency, q.Notes, q.Terms, q.Status, nullable(q.InvoiceNumber), q.InvoicedAt, q.UpdatedAt)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return errx.NotFound("quotation")
		}
		if _, err := tx.Exec(ctx, `DELETE FROM quotation_items WHERE quotation_id = $1`, q.ID); err != nil {
			return err
		}
		return insertItems(ctx, tx, q)
	})
	return errx.WrapPostgres(err, "quotation")
}

func insertItems(ctx context.Context, tx pgx.Tx, q *quote.Quotation) error {
	batch := &pgx.Batch{}
	for i, it := range q.Items {
		batch.Queue(`INSERT INTO quotation_items (quotation_id, position, product_id, product_name, description, size_id, size_name,
			quantity, unit_price, discount, line_total) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
			q.ID, i, it.ProductID, it.ProductName, it.Description, nullable(it.SizeID), it.SizeName,
			it.Quantity, it.UnitPrice, it.Discount, it.LineTotal)
	}
	return tx.SendBatch(ctx, batch).Close()
}

func (s *QuotationStore) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, s.db, "quotations", "quotation", id)
}

func snapshot(c *quote.ClientRef) quote.ClientRef {
	if c == nil {
		return quote.ClientRef{}
	}
	return *c
}
