package catalog

import (
	"context"
	"strings"
	"time"

	"quotations/go_backend/internal/core/errx"
	"quotations/go_backend/internal/domain/paging"
)

// Size is a named product variant such as "Half thaal" or "XL".
type Size struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	SortOrder   int       `json:"sortOrder"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (s Size) Validate() error {
	fields := errx.Fields{}
	if s.Name == "" {
		fields.Add("name", "is required")
	}
	if len(s.Name) > 100 {
		fields.Add("name", "must be at most 100 characters")
	}
	if s.SortOrder < 0 {
		fields.Add("sortOrder", "must not be negative")
	}
	return fields.Err()
}

type SizeStore interface {
	List(ctx context.Context, p paging.Params) ([]Size, int, error)
	Get(ctx context.Context, id string) (*Size, error)
	Create(ctx context.Context, s *Size) error
	Update(ctx context.Context, s *Size) error
	Delete(ctx context.Context, id string) error
	InUse(ctx context.Context, id string) (bool, error)
}

type SizeService struct {
	store SizeStore
}

func NewSizeService(store SizeStore) *SizeService {
	return &SizeService{store: store}
}

func (s *SizeService) List(ctx context.Context, p paging.Params) ([]Size, int, error) {
	return s.store.List(ctx, p.Normalize())
}

func (s *SizeService) Get(ctx context.Context, id string) (*Size, error) {
	return s.store.Get(ctx, id)
}

func (s *SizeService) Create(ctx context.Context, in Size) (*Size, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, &in); err != nil {
		return nil, err
	}
	return &in, nil
}

func (s *SizeService) Update(ctx context.Context, id string, in Size) (*Size, error) {
	existing, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	in.ID = existing.ID
	in.CreatedAt = existing.CreatedAt
	in.Name = strings.TrimSpace(in.Name)
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.Update(ctx, &in); err != nil {
		return nil, err
	}
	return &in, nil
}

func (s *SizeService) Delete(ctx context.Context, id string) error {
	if _, err := s.store.Get(ctx, id); err != nil {
		return err
	}
	used, err := s.store.InUse(ctx, id)
	if err != nil {
		return err
	}
	if used {
		return errx.Conflict("size is used by products and cannot be deleted")
	}
	return s.store.Delete(ctx, id)
}
