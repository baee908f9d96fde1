package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"quotations/go_backend/internal/core/errx"
	"quotations/go_backend/internal/domain/client"
	"quotations/go_backend/internal/domain/paging"
)

type ClientStore struct{ db *DB }

func NewClientStore(db *DB) *ClientStore { return &ClientStore{db: db} }

const clientColumns = `id, name, email, phone, company, address, city, country, tax_number, notes, created_at, updated_at`

func scanClient(row pgx.Row) (client.Client, error) {
	var c client.Client
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Company, &c.Address, &c.City, &c.Country, &c.TaxNumber, &c.Notes, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (s *ClientStore) List(ctx context.Context, p paging.Params) ([]client.Client, int, error) {
	var f filter
	f.search(p.Search, "name", "email", "company", "phone")

	var total int
	if err := s.db.Pool.QueryRow(ctx, `SELECT count(*) FROM clients`+f.where(), f.args...).Scan(&total); err != nil {
		return nil, 0, errx.WrapPostgres(err, "client")
	}
	rows, err := s.db.Pool.Query(ctx, `SELECT `+clientColumns+` FROM clients`+f.where()+` ORDER BY name, id`+f.page(p.Limit, p.Offset()), f.args...)
	if err != nil {
		return nil, 0, errx.WrapPostgres(err, "client")
	}
	out, err := pgx.CollectRows(rows, func(r pgx.CollectableRow) (client.Client, error) { return scanClient(r) })
	if err != nil {
		return nil, 0, errx.WrapPostgres(err, "client")
	}
	return out, total, nil
}

func (s *ClientStore) Get(ctx context.Context, id string) (*client.Client, error) {
	c, err := scanClient(s.db.Pool.QueryRow(ctx, `SELECT `+clientColumns+` FROM clients WHERE id = $1`, id))
	if err != nil {
		return nil, errx.WrapPostgres(err, "client")
	}
	return &c, nil
}

func (s *ClientStore) Create(ctx context.Context, c *client.Client) error {
	now := time.Now().UTC()
	c.ID, c.CreatedAt, c.UpdatedAt = uuid.NewString(), now, now
	_, err := s.db.Pool.Exec(ctx, `INSERT INTO clients (`+clientColumns+`) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		c.ID, c.Name, c.Email, c.Phone, c.Company, c.Address, c.City, c.Country, c.TaxNumber, c.Notes, c.CreatedAt, c.UpdatedAt)
	return errx.WrapPostgres(err, "client")
}

func (s *ClientStore) Update(ctx context.Context, c *client.Client) error {
	c.UpdatedAt = time.Now().UTC()
	tag, err := s.db.Pool.Exec(ctx, `UPDATE clients SET name=$2, email=$3, phone=$4, company=$5, address=$6, city=$7, country=$8, tax_number=$9, notes=$10, updated_at=$11 WHERE id=$1`,
		c.ID, c.Name, c.Email, c.Phone, c.Company, c.Address, c.City, c.Country, c.TaxNumber, c.Notes, c.UpdatedAt)
	if err != nil {
		return errx.WrapPostgres(err, "client")
	}
	if tag.RowsAffected() == 0 {
		return errx.NotFound("client")
	}
	return nil
}

func (s *ClientStore) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, s.db, "clients", "client", id)
}

func (s *ClientStore) InUse(ctx context.Context, id string) (bool, error) {
	var used bool
	err := s.db.Pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM quotations WHERE client_id = $1)
		OR EXISTS (SELECT 1 FROM catering_quotations WHERE client_id = $1)`, id).Scan(&used)
	return used, errx.WrapPostgres(err, "client")
}

// deleteByID removes one row; table is always a constant.
func deleteByID(ctx context.Context, db *DB, table, what, id string) error {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM `+table+` WHERE id = $1`, id)
	if err != nil {
		return errx.WrapPostgres(err, what)
	}
	if tag.RowsAffected() == 0 {
		return errx.NotFound(what)
	}
	return nil
}
