package catalog

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quotations/go_backend/internal/core/errx"
	"quotations/go_backend/internal/domain/paging"
)

type memSizes struct {
	rows  map[string]Size
	inUse map[string]bool
}

func (m *memSizes) List(ctx context.Context, p paging.Params) ([]Size, int, error) {
	return nil, 0, nil
}

func (m *memSizes) Get(ctx context.Context, id string) (*Size, error) {
	s, ok := m.rows[id]
	if !ok {
		return nil, errx.NotFound("size")
	}
	return &s, nil
}

func (m *memSizes) Create(ctx context.Context, s *Size) error {
	s.ID = fmt.Sprintf("s%d", len(m.rows)+1)
	m.rows[s.ID] = *s
	return nil
}

func (m *memSizes) Update(ctx context.Context, s *Size) error {
	m.rows[s.ID] = *s
	return nil
}

func (m *memSizes) Delete(ctx context.Context, id string) error {
	delete(m.rows, id)
	return nil
}

func (m *memSizes) InUse(ctx context.Context, id string) (bool, error) {
	return m.inUse[id], nil
}

type memProducts struct {
	rows  map[string]Product
	inUse map[string]bool
}

func (m *memProducts) List(ctx context.Context, p paging.Params) ([]Product, int, error) {
	return nil, 0, nil
}

func (m *memProducts) Get(ctx context.Context, id string) (*Product, error) {
	p, ok := m.rows[id]
	if !ok {
		return nil, errx.NotFound("product")
	}
	return &p, nil
}

func (m *memProducts) Create(ctx context.Context, p *Product) error {
	p.ID = fmt.Sprintf("p%d", len(m.rows)+1)
	m.rows[p.ID] = *p
	return nil
}

func (m *memProducts) Update(ctx context.Context, p *Product) error {
	m.rows[p.ID] = *p
	return nil
}

func (m *memProducts) Delete(ctx context.Context, id string) error {
	delete(m.rows, id)
	return nil
}

func (m *memProducts) InUse(ctx context.Context, id string) (bool, error) {
	return m.inUse[id], nil
}

func newServices() (*SizeService, *ProductService, *memSizes, *memProducts) {
	sizes := &memSizes{rows: map[string]Size{}, inUse: map[string]bool{}}
	products := &memProducts{rows: map[string]Product{}, inUse: map[string]bool{}}
	return NewSizeService(sizes), NewProductService(products, sizes), sizes, products
}

func TestProductCreateResolvesSize(t *testing.T) {
	sizeSvc, productSvc, _, _ := newServices()
	ctx := context.Background()

	size, err := sizeSvc.Create(ctx, Size{Name: " Full thaal "})
	require.NoError(t, err)
	assert.Equal(t, "Full thaal", size.Name)

	p, err := productSvc.Create(ctx, Product{
		Name:         "Biryani",
		SKU:          " bir-01 ",
		SizeID:       size.ID,
		SellingPrice: decimal.NewFromInt(120),
	})
	require.NoError(t, err)
	assert.Equal(t, "BIR-01", p.SKU)
	assert.Equal(t, "Full thaal", p.SizeName)
	assert.Equal(t, "pcs", p.Unit)
	assert.True(t, p.IsActive())
}

func TestProductValidation(t *testing.T) {
	_, productSvc, _, _ := newServices()
	ctx := context.Background()

	_, err := productSvc.Create(ctx, Product{Name: "Tea", SellingPrice: decimal.NewFromInt(-1)})
	require.Error(t, err)
	var ae *errx.AppError
	require.ErrorAs(t, err, &ae)
	assert.Contains(t, ae.Fields, "sellingPrice")

	_, err = productSvc.Create(ctx, Product{Name: "Tea", SizeID: "nope"})
	require.ErrorAs(t, err, &ae)
	assert.Contains(t, ae.Fields, "sizeId")

	p, err := productSvc.Create(ctx, Product{Name: "Water", SellingPrice: decimal.Zero})
	require.NoError(t, err)
	assert.True(t, p.SellingPrice.IsZero())
}

func TestDeleteGuards(t *testing.T) {
	sizeSvc, productSvc, sizes, products := newServices()
	ctx := context.Background()

	size, err := sizeSvc.Create(ctx, Size{Name: "Large"})
	require.NoError(t, err)
	sizes.inUse[size.ID] = true
	assert.Equal(t, http.StatusConflict, errx.StatusOf(sizeSvc.Delete(ctx, size.ID)))

	p, err := productSvc.Create(ctx, Product{Name: "Samosa"})
	require.NoError(t, err)
	products.inUse[p.ID] = true
	assert.Equal(t, http.StatusConflict, errx.StatusOf(productSvc.Delete(ctx, p.ID)))

	products.inUse[p.ID] = false
	assert.NoError(t, productSvc.Delete(ctx, p.ID))
	assert.Equal(t, http.StatusNotFound, errx.StatusOf(productSvc.Delete(ctx, p.ID)))
}
