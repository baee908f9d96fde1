package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"quotations/go_backend/internal/core/errx"
	"quotations/go_backend/internal/domain/dashboard"
	"quotations/go_backend/internal/domain/quote"
)

type DashboardStore struct{ db *DB }

func NewDashboardStore(db *DB) *DashboardStore { return &DashboardStore{db: db} }

func (s *DashboardStore) Counts(ctx context.Context) (dashboard.Counts, error) {
	var c dashboard.Counts
	err := s.db.Pool.QueryRow(ctx, `SELECT
		(SELECT count(*) FROM clients),
		(SELECT count(*) FROM products),
		(SELECT count(*) FROM quotations),
		(SELECT count(*) FROM catering_quotations)`).Scan(&c.Clients, &c.Products, &c.Quotations, &c.CateringQuotations)
	return c, errx.WrapPostgres(err, "dashboard")
}

func (s *DashboardStore) CountByStatus(ctx context.Context) (map[quote.Status]int, error) {
	rows, err := s.db.Pool.Query(ctx, `SELECT status, count(*) FROM quotations GROUP BY status`)
	if err != nil {
		return nil, errx.WrapPostgres(err, "dashboard")
	}
	defer rows.Close()
	out := map[quote.Status]int{}
	for rows.Next() {
		var st quote.Status
		var n int
		if err := rows.Scan(&st, &n); err != nil {
			return nil, errx.WrapPostgres(err, "dashboard")
		}
		out[st] = n
	}
	return out, errx.WrapPostgres(rows.Err(), "dashboard")
}

func (s *DashboardStore) SumTotals(ctx context.Context, currency string, statuses []quote.Status, since time.Time) (decimal.Decimal, error) {
	var f filter
	f.and("currency = " + f.arg(currency))
	if len(statuses) > 0 {
		names := make([]string, len(statuses))
		for i, st := range statuses {
			names[i] = string(st)
		}
		f.and("status = ANY(" + f.arg(names) + ")")
	}
	if !since.IsZero() {
		f.and("issue_date >= " + f.arg(since))
	}
	var sum decimal.Decimal
	err := s.db.Pool.QueryRow(ctx, `SELECT COALESCE(sum(total_amount), 0) FROM quotations`+f.where(), f.args...).Scan(&sum)
	return sum, errx.WrapPostgres(err, "dashboard")
}

func (s *DashboardStore) Recent(ctx context.Context, limit int) ([]dashboard.Recent, error) {
	rows, err := s.db.Pool.Query(ctx, `SELECT id, number, COALESCE(client_snapshot->>'name', ''), status, total_amount, currency, issue_date
		FROM quotations ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, errx.WrapPostgres(err, "dashboard")
	}
	out, err := pgx.CollectRows(rows, func(r pgx.CollectableRow) (dashboard.Recent, error) {
		var rc dashboard.Recent
		err := r.Scan(&rc.ID, &rc.Number, &rc.ClientName, &rc.Status, &rc.TotalAmount, &rc.Currency, &rc.IssueDate)
		return rc, err
	})
	return out, errx.WrapPostgres(err, "dashboard")
}
