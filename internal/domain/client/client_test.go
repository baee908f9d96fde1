package client

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quotations/go_backend/internal/core/errx"
	"quotations/go_backend/internal/domain/paging"
)

type memStore struct {
	rows  map[string]Client
	inUse map[string]bool
	seq   int
}

func newMemStore() *memStore {
	return &memStore{rows: map[string]Client{}, inUse: map[string]bool{}}
}

func (m *memStore) List(ctx context.Context, p paging.Params) ([]Client, int, error) {
	out := make([]Client, 0, len(m.rows))
	for _, c := range m.rows {
		out = append(out, c)
	}
	return out, len(out), nil
}

func (m *memStore) Get(ctx context.Context, id string) (*Client, error) {
	c, ok := m.rows[id]
	if !ok {
		return nil, errx.NotFound("client")
	}
	return &c, nil
}

func (m *memStore) Create(ctx context.Context, c *Client) error {
	m.seq++
	c.ID = string(rune('a' + m.seq))
	m.rows[c.ID] = *c
	return nil
}

func (m *memStore) Update(ctx context.Context, c *Client) error {
	m.rows[c.ID] = *c
	return nil
}

func (m *memStore) Delete(ctx context.Context, id string) error {
	delete(m.rows, id)
	return nil
}

func (m *memStore) InUse(ctx context.Context, id string) (bool, error) {
	return m.inUse[id], nil
}

func TestCreateNormalizesAndValidates(t *testing.T) {
	svc := NewService(newMemStore())
	ctx := context.Background()

	_, err := svc.Create(ctx, Client{Name: "   "})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, errx.StatusOf(err))

	_, err = svc.Create(ctx, Client{Name: "Ann", Email: "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, errx.StatusOf(err))

	c, err := svc.Create(ctx, Client{Name: "  Ann Lee ", Email: " Ann@Example.COM "})
	require.NoError(t, err)
	assert.NotEmpty(t, c.ID)
	assert.Equal(t, "Ann Lee", c.Name)
	assert.Equal(t, "ann@example.com", c.Email)
}

func TestUpdateKeepsIdentity(t *testing.T) {
	store := newMemStore()
	svc := NewService(store)
	ctx := context.Background()

	c, err := svc.Create(ctx, Client{Name: "Ann"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, c.ID, Client{ID: "forged", Name: "Ann B"})
	require.NoError(t, err)
	assert.Equal(t, c.ID, updated.ID)
	assert.Equal(t, "Ann B", store.rows[c.ID].Name)

	_, err = svc.Update(ctx, "missing", Client{Name: "x"})
	assert.Equal(t, http.StatusNotFound, errx.StatusOf(err))
}

func TestDeleteRefusesReferencedClient(t *testing.T) {
	store := newMemStore()
	svc := NewService(store)
	ctx := context.Background()

	c, err := svc.Create(ctx, Client{Name: "Ann"})
	require.NoError(t, err)
	store.inUse[c.ID] = true

	err = svc.Delete(ctx, c.ID)
	assert.Equal(t, http.StatusConflict, errx.StatusOf(err))

	store.inUse[c.ID] = false
	require.NoError(t, svc.Delete(ctx, c.ID))
	assert.Empty(t, store.rows)
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Ann", Client{Name: "Ann"}.DisplayName())
	assert.Equal(t, "Ann (Acme)", Client{Name: "Ann", Company: "Acme"}.DisplayName())
}
