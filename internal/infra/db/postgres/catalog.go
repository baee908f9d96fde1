package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"quotations/go_backend/internal/core/errx"
	"quotations/go_backend/internal/domain/catalog"
	"quotations/go_backend/internal/domain/paging"
)

type SizeStore struct{ db *DB }

func NewSizeStore(db *DB) *SizeStore { return &SizeStore{db: db} }

const sizeColumns = `id, name, description, sort_order, created_at, updated_at`

func scanSize(row pgx.Row) (catalog.Size, error) {
	var s catalog.Size
	err := row.Scan(&s.ID, &s.Name, &s.Description, &s.SortOrder, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

func (s *SizeStore) List(ctx context.Context, p paging.Params) ([]catalog.Size, int, error) {
	var f filter
	f.search(p.Search, "name")
	var total int
	if err := s.db.Pool.QueryRow(ctx, `SELECT count(*) FROM sizes`+f.where(), f.args...).Scan(&total); err != nil {
		return nil, 0, errx.WrapPostgres(err, "size")
	}
	rows, err := s.db.Pool.Query(ctx, `SELECT `+sizeColumns+` FROM sizes`+f.where()+` ORDER BY sort_order, name`+f.page(p.Limit, p.Offset()), f.args...)
	if err != nil {
		return nil, 0, errx.WrapPostgres(err, "size")
	}
	out, err := pgx.CollectRows(rows, func(r pgx.CollectableRow) (catalog.Size, error) { return scanSize(r) })
	return out, total, errx.WrapPostgres(err, "size")
}

func (s *SizeStore) Get(ctx context.Context, id string) (*catalog.Size, error) {
	sz, err := scanSize(s.db.Pool.QueryRow(ctx, `SELECT `+sizeColumns+` FROM sizes WHERE id = $1`, id))
	if err != nil {
		return nil, errx.WrapPostgres(err, "size")
	}
	return &sz, nil
}

func (s *SizeStore) Create(ctx context.Context, sz *catalog.Size) error {
	now := time.Now().UTC()
	sz.ID, sz.CreatedAt, sz.UpdatedAt = uuid.NewString(), now, now
	_, err := s.db.Pool.Exec(ctx, `INSERT INTO sizes (`+sizeColumns+`) VALUES ($1,$2,$3,$4,$5,$6)`,
		sz.ID, sz.Name, sz.Description, sz.SortOrder, sz.CreatedAt, sz.UpdatedAt)
	return errx.WrapPostgres(err, "size")
}

func (s *SizeStore) Update(ctx context.Context, sz *catalog.Size) error {
	sz.UpdatedAt = time.Now().UTC()
	tag, err := s.db.Pool.Exec(ctx, `UPDATE sizes SET name=$2, description=$3, sort_order=$4, updated_at=$5 WHERE id=$1`,
		sz.ID, sz.Name, sz.Description, sz.SortOrder, sz.UpdatedAt)
	if err != nil {
		return errx.WrapPostgres(err, "size")
	}
	if tag.RowsAffected() == 0 {
		return errx.NotFound("size")
	}
	return nil
}

func (s *SizeStore) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, s.db, "sizes", "size", id)
}

func (s *SizeStore) InUse(ctx context.Context, id string) (bool, error) {
	var used bool
	err := s.db.Pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE size_id = $1)`, id).Scan(&used)
	return used, errx.WrapPostgres(err, "size")
}

type ProductStore struct{ db *DB }

func NewProductStore(db *DB) *ProductStore { return &ProductStore{db: db} }

const productSelect = `SELECT p.id, p.name, COALESCE(p.sku, ''), p.description, p.unit, COALESCE(p.size_id, ''), COALESCE(s.name, ''),
	p.selling_price, p.cost_price, p.active, p.created_at, p.updated_at
	FROM products p LEFT JOIN sizes s ON s.id = p.size_id`

func scanProduct(row pgx.Row) (catalog.Product, error) {
	var p catalog.Product
	var active bool
	err := row.Scan(&p.ID, &p.Name, &p.SKU, &p.Description, &p.Unit, &p.SizeID, &p.SizeName,
		&p.SellingPrice, &p.CostPrice, &active, &p.CreatedAt, &p.UpdatedAt)
	p.Active = &active
	return p, err
}

func (s *ProductStore) List(ctx context.Context, p paging.Params) ([]catalog.Product, int, error) {
	var f filter
	f.search(p.Search, "p.name", "p.sku", "p.description")
	if p.Active != nil {
		f.and("p.active = " + f.arg(*p.Active))
	}
	var total int
	if err := s.db.Pool.QueryRow(ctx, `SELECT count(*) FROM products p`+f.where(), f.args...).Scan(&total); err != nil {
		return nil, 0, errx.WrapPostgres(err, "product")
	}
	rows, err := s.db.Pool.Query(ctx, productSelect+f.where()+` ORDER BY p.name, p.id`+f.page(p.Limit, p.Offset()), f.args...)
	if err != nil {
		return nil, 0, errx.WrapPostgres(err, "product")
	}
	out, err := pgx.CollectRows(rows, func(r pgx.CollectableRow) (catalog.Product, error) { return scanProduct(r) })
	return out, total, errx.WrapPostgres(err, "product")
}

func (s *ProductStore) Get(ctx context.Context, id string) (*catalog.Product, error) {
	p, err := scanProduct(s.db.Pool.QueryRow(ctx, productSelect+` WHERE p.id = $1`, id))
	if err != nil {
		return nil, errx.WrapPostgres(err, "product")
	}
	return &p, nil
}

func (s *ProductStore) Create(ctx context.Context, p *catalog.Product) error {
	now := time.Now().UTC()
	p.ID, p.CreatedAt, p.UpdatedAt = uuid.NewString(), now, now
	_, err := s.db.Pool.Exec(ctx, `INSERT INTO products (id, name, sku, description, unit, size_id, selling_price, cost_price, active, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		p.ID, p.Name, nullable(p.SKU), p.Description, p.Unit, nullable(p.SizeID), p.SellingPrice, p.CostPrice, p.IsActive(), p.CreatedAt, p.UpdatedAt)
	return errx.WrapPostgres(err, "product")
}

func (s *ProductStore) Update(ctx context.Context, p *catalog.Product) error {
	p.UpdatedAt = time.Now().UTC()
	tag, err := s.db.Pool.Exec(ctx, `UPDATE products SET name=$2, sku=$3, description=$4, unit=$5, size_id=$6, selling_price=$7, cost_price=$8, active=$9, updated_at=$10 WHERE id=$1`,
		p.ID, p.Name, nullable(p.SKU), p.Description, p.Unit, nullable(p.SizeID), p.SellingPrice, p.CostPrice, p.IsActive(), p.UpdatedAt)
	if err != nil {
		return errx.WrapPostgres(err, "product")
	}
	if tag.RowsAffected() == 0 {
		return errx.NotFound("product")
	}
	return nil
}

func (s *ProductStore) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, s.db, "products", "product", id)
}

func (s *ProductStore) InUse(ctx context.Context, id string) (bool, error) {
	var used bool
	err := s.db.Pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM quotation_items WHERE product_id = $1)`, id).Scan(&used)
	return used, errx.WrapPostgres(err, "product")
}
