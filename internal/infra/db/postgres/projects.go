package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"quotations/go_backend/internal/core/errx"
	"quotations/go_backend/internal/domain/paging"
	"quotations/go_backend/internal/domain/project"
)

type ProjectStore struct{ db *DB }

func NewProjectStore(db *DB) *ProjectStore { return &ProjectStore{db: db} }

const projectSelect = `SELECT p.id, p.name, COALESCE(p.client_id, ''), COALESCE(c.name, ''), p.description, p.status, p.created_at, p.updated_at
	FROM projects p LEFT JOIN clients c ON c.id = p.client_id`

func scanProject(row pgx.Row) (project.Project, error) {
	var p project.Project
	err := row.Scan(&p.ID, &p.Name, &p.ClientID, &p.ClientName, &p.Description, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (s *ProjectStore) List(ctx context.Context, p paging.Params) ([]project.Project, int, error) {
	var f filter
	f.search(p.Search, "p.name", "p.description")
	if p.ClientID != "" {
		f.and("p.client_id = " + f.arg(p.ClientID))
	}
	if p.Status != "" {
		f.and("p.status = " + f.arg(p.Status))
	}
	var total int
	if err := s.db.Pool.QueryRow(ctx, `SELECT count(*) FROM projects p`+f.where(), f.args...).Scan(&total); err != nil {
		return nil, 0, errx.WrapPostgres(err, "project")
	}
	rows, err := s.db.Pool.Query(ctx, projectSelect+f.where()+` ORDER BY p.created_at DESC, p.id`+f.page(p.Limit, p.Offset()), f.args...)
	if err != nil {
		return nil, 0, errx.WrapPostgres(err, "project")
	}
	out, err := pgx.CollectRows(rows, func(r pgx.CollectableRow) (project.Project, error) { return scanProject(r) })
	return out, total, errx.WrapPostgres(err, "project")
}

func (s *ProjectStore) Get(ctx context.Context, id string) (*project.Project, error) {
	p, err := scanProject(s.db.Pool.QueryRow(ctx, projectSelect+` WHERE p.id = $1`, id))
	if err != nil {
		return nil, errx.WrapPostgres(err, "project")
	}
	return &p, nil
}

func (s *ProjectStore) Create(ctx context.Context, p *project.Project) error {
	now := time.Now().UTC()
	p.ID, p.CreatedAt, p.UpdatedAt = uuid.NewString(), now, now
	_, err := s.db.Pool.Exec(ctx, `INSERT INTO projects (id, name, client_id, description, status, created_at, updated_at) VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		p.ID, p.Name, nullable(p.ClientID), p.Description, p.Status, p.CreatedAt, p.UpdatedAt)
	return errx.WrapPostgres(err, "project")
}

func (s *ProjectStore) Update(ctx context.Context, p *project.Project) error {
	p.UpdatedAt = time.Now().UTC()
	tag, err := s.db.Pool.Exec(ctx, `UPDATE projects SET name=$2, client_id=$3, description=$4, status=$5, updated_at=$6 WHERE id=$1`,
		p.ID, p.Name, nullable(p.ClientID), p.Description, p.Status, p.UpdatedAt)
	if err != nil {
		return errx.WrapPostgres(err, "project")
	}
	if tag.RowsAffected() == 0 {
		return errx.NotFound("project")
	}
	return nil
}

func (s *ProjectStore) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, s.db, "projects", "project", id)
}
