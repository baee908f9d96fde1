package catalog

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"quotations/go_backend/internal/core/errx"
	"quotations/go_backend/internal/domain/paging"
)

type Product struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	SKU          string          `json:"sku"`
	Description  string          `json:"description"`
	Unit         string          `json:"unit"`
	SizeID       string          `json:"sizeId,omitempty"`
	SizeName     string          `json:"sizeName,omitempty"`
	SellingPrice decimal.Decimal `json:"sellingPrice"`
	CostPrice    decimal.Decimal `json:"costPrice"`
	Active       *bool           `json:"active,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

func (p Product) IsActive() bool {
	return p.Active == nil || *p.Active
}

func (p *Product) normalize() {
	p.Name = strings.TrimSpace(p.Name)
	p.SKU = strings.ToUpper(strings.TrimSpace(p.SKU))
	p.Unit = strings.TrimSpace(p.Unit)
	p.SizeID = strings.TrimSpace(p.SizeID)
	if p.Unit == "" {
		p.Unit = "pcs"
	}
	if p.Active == nil {
		active := true
		p.Active = &active
	}
}

func (p Product) Validate() error {
	fields := errx.Fields{}
	if p.Name == "" {
		fields.Add("name", "is required")
	}
	if len(p.Name) > 200 {
		fields.Add("name", "must be at most 200 characters")
	}
	if p.SellingPrice.IsNegative() {
		fields.Add("sellingPrice", "must not be negative")
	}
	if p.CostPrice.IsNegative() {
		fields.Add("costPrice", "must not be negative")
	}
	return fields.Err()
}

type ProductStore interface {
	List(ctx context.Context, p paging.Params) ([]Product, int, error)
	Get(ctx context.Context, id string) (*Product, error)
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id string) error
	InUse(ctx context.Context, id string) (bool, error)
}

type ProductService struct {
	store ProductStore
	sizes SizeStore
}

func NewProductService(store ProductStore, sizes SizeStore) *ProductService {
	return &ProductService{store: store, sizes: sizes}
}

func (s *ProductService) List(ctx context.Context, p paging.Params) ([]Product, int, error) {
	return s.store.List(ctx, p.Normalize())
}

func (s *ProductService) Get(ctx context.Context, id string) (*Product, error) {
	return s.store.Get(ctx, id)
}

func (s *ProductService) Create(ctx context.Context, in Product) (*Product, error) {
	in.normalize()
	if err := s.validate(ctx, &in); err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, &in); err != nil {
		return nil, err
	}
	return &in, nil
}

func (s *ProductService) Update(ctx context.Context, id string, in Product) (*Product, error) {
	existing, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	in.ID = existing.ID
	in.CreatedAt = existing.CreatedAt
	in.normalize()
	if err := s.validate(ctx, &in); err != nil {
		return nil, err
	}
	if err := s.store.Update(ctx, &in); err != nil {
		return nil, err
	}
	return &in, nil
}

func (s *ProductService) Delete(ctx context.Context, id string) error {
	if _, err := s.store.Get(ctx, id); err != nil {
		return err
	}
	used, err := s.store.InUse(ctx, id)
	if err != nil {
		return err
	}
	if used {
		return errx.Conflict("product is used in quotations and cannot be deleted")
	}
	return s.store.Delete(ctx, id)
}

// validate checks field rules and resolves the size name.
func (s *ProductService) validate(ctx context.Context, p *Product) error {
	if err := p.Validate(); err != nil {
		return err
	}
	p.SizeName = ""
	if p.SizeID == "" {
		return nil
	}
	size, err := s.sizes.Get(ctx, p.SizeID)
	if err != nil {
		if errx.StatusOf(err) == http.StatusNotFound {
			return errx.Validation("sizeId", "does not exist")
		}
		return err
	}
	p.SizeName = size.Name
	return nil
}
