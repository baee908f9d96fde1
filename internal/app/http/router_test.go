package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "quotations/go_backend/internal/app/http"
	"quotations/go_backend/internal/app/http/handlers"
	"quotations/go_backend/internal/core/errx"
	"quotations/go_backend/internal/domain/catalog"
	"quotations/go_backend/internal/domain/catering"
	"quotations/go_backend/internal/domain/client"
	"quotations/go_backend/internal/domain/paging"
	"quotations/go_backend/internal/domain/project"
	"quotations/go_backend/internal/domain/quote"
	pdfgen "quotations/go_backend/internal/domain/quote/pdf/gofpdf"
	"quotations/go_backend/internal/domain/settings"
	"quotations/go_backend/internal/domain/user"
)

// table is an in-memory store keyed by the row's ID field.
type table[T any] struct {
	mu    sync.Mutex
	rows  map[string]T
	order []string
	seq   int
	id    func(*T) *string
}

func newTable[T any](id func(*T) *string) *table[T] {
	return &table[T]{rows: map[string]T{}, id: id}
}

func (t *table[T]) List(ctx context.Context, p paging.Params) ([]T, int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]T, 0, len(t.order))
	for _, k := range t.order {
		out = append(out, t.rows[k])
	}
	return out, len(out), nil
}

func (t *table[T]) Get(ctx context.Context, id string) (*T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	v, ok := t.rows[id]
	if !ok {
		return nil, errx.NotFound("record")
	}
	return &v, nil
}

func (t *table[T]) Create(ctx context.Context, v *T) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.seq++
	key := fmt.Sprintf("id-%d", t.seq)
	*t.id(v) = key
	t.rows[key] = *v
	t.order = append(t.order, key)
	return nil
}

func (t *table[T]) Update(ctx context.Context, v *T) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rows[*t.id(v)] = *v
	return nil
}

func (t *table[T]) Delete(ctx context.Context, id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.rows, id)
	for i, k := range t.order {
		if k == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return nil
}

func (t *table[T]) InUse(ctx context.Context, id string) (bool, error) { return false, nil }

type memUsers struct {
	*table[user.User]
}

func (m memUsers) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows), nil
}

func (m memUsers) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.rows {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, errx.NotFound("user")
}

type memSettings struct {
	cfg *settings.Configuration
}

func (m *memSettings) Load(ctx context.Context) (*settings.Configuration, error) {
	if m.cfg == nil {
		return nil, nil
	}
	c := *m.cfg
	return &c, nil
}

func (m *memSettings) Save(ctx context.Context, cfg settings.Configuration) error {
	m.cfg = &cfg
	return nil
}

type memSeq struct {
	mu sync.Mutex
	n  map[string]int64
}

func (m *memSeq) Next(ctx context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.n[key]++
	return m.n[key], nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	tokens := user.NewTokens("test-secret-0123456789", time.Hour)
	users := user.NewService(memUsers{newTable(func(u *user.User) *string { return &u.ID })}, tokens)
	clients := client.NewService(newTable(func(c *client.Client) *string { return &c.ID }))
	sizeStore := newTable(func(s *catalog.Size) *string { return &s.ID })
	sizes := catalog.NewSizeService(sizeStore)
	products := catalog.NewProductService(newTable(func(p *catalog.Product) *string { return &p.ID }), sizeStore)
	projects := project.NewService(newTable(func(p *project.Project) *string { return &p.ID }), clients)
	cfgSvc := settings.NewService(&memSettings{}, nil, nil)

	deps := quote.Deps{
		Sequencer: &memSeq{n: map[string]int64{}},
		Clients:   clients,
		Products:  products,
		Sizes:     sizes,
		Projects:  projects,
		Settings:  cfgSvc,
		Renderer:  pdfgen.New(),
	}

	h := handlers.New(handlers.Services{
		Users:    users,
		Clients:  clients,
		Sizes:    sizes,
		Products: products,
		Projects: projects,
		Settings: cfgSvc,
		Quotes:   quote.NewService(newTable(func(q *quote.Quotation) *string { return &q.ID }), deps),
		Catering: catering.NewService(newTable(func(q *catering.Quotation) *string { return &q.ID }), deps),
	}, nil)

	return apphttp.NewRouter(apphttp.Options{CORSAllowOrigin: "*", Tokens: tokens}, h)
}

type envelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

func call(t *testing.T, h http.Handler, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec, env
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(env.Data, &v), string(env.Data))
	return v
}

func login(t *testing.T, h http.Handler, email, password string) string {
	t.Helper()
	rec, env := call(t, h, http.MethodPost, "/auth/login", "", map[string]string{"email": email, "password": password})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[user.Session](t, env).Token
}

// bootstrapAdmin registers the first account, which is always an admin.
func bootstrapAdmin(t *testing.T, h http.Handler) string {
	t.Helper()
	rec, env := call(t, h, http.MethodPost, "/auth/register", "", user.RegisterInput{
		Name: "Owner", Email: "owner@example.com", Password: "secret-pass",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, user.RoleAdmin, decode[user.User](t, env).Role)
	return login(t, h, "owner@example.com", "secret-pass")
}

func TestHealthAndConstants(t *testing.T) {
	h := newTestRouter(t)

	rec, _ := call(t, h, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	rec, env := call(t, h, http.MethodGet, "/constants", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
	assert.Contains(t, string(env.Data), `"quotationStatus"`)
}

func TestAuthFlow(t *testing.T) {
	h := newTestRouter(t)
	token := bootstrapAdmin(t, h)

	rec, env := call(t, h, http.MethodPost, "/auth/register", "", user.RegisterInput{
		Name: "Intruder", Email: "x@example.com", Password: "secret-pass",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, env.Success)

	rec, env = call(t, h, http.MethodPost, "/auth/register", token, user.RegisterInput{
		Name: "Clerk", Email: "clerk@example.com", Password: "secret-pass",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, user.RoleUser, decode[user.User](t, env).Role)

	rec, _ = call(t, h, http.MethodPost, "/auth/login", "", map[string]string{"email": "clerk@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, env = call(t, h, http.MethodGet, "/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "owner@example.com", decode[user.User](t, env).Email)

	rec, _ = call(t, h, http.MethodGet, "/auth/me", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRoutesRequireToken(t *testing.T) {
	h := newTestRouter(t)
	for _, path := range []string{"/clients", "/quotations", "/catering-quotations", "/configuration", "/currencies"} {
		rec, env := call(t, h, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
		assert.False(t, env.Success, path)
	}
}

func TestQuotationLifecycle(t *testing.T) {
	h := newTestRouter(t)
	token := bootstrapAdmin(t, h)

	rec, env := call(t, h, http.MethodPost, "/clients", token, map[string]string{"name": "Jane Doe", "company": "Doe Ltd"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	clientID := decode[client.Client](t, env).ID

	productID := func(name, price string) string {
		rec, env := call(t, h, http.MethodPost, "/products", token, map[string]any{"name": name, "sellingPrice": price})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		return decode[catalog.Product](t, env).ID
	}
	chair, desk := productID("Chair", "100"), productID("Table", "50")

	body := map[string]any{
		"clientId": clientID,
		"title":    "Hall setup",
		"items": []map[string]any{
			{"productId": chair, "quantity": 2, "unitPrice": 100},
			{"productId": desk, "quantity": 1, "unitPrice": 50, "discount": 10},
		},
		"discountType":  "percentage",
		"discountValue": 10,
		"taxRate":       5,
	}
	rec, env = call(t, h, http.MethodPost, "/quotations", token, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "quotation created", env.Message)
	q := decode[quote.Quotation](t, env)
	assert.True(t, strings.HasPrefix(q.Number, "QT-"), q.Number)
	assert.True(t, q.Subtotal.Equal(decimal.NewFromInt(245)))
	assert.True(t, q.TotalAmount.Equal(decimal.RequireFromString("231.525")), q.TotalAmount.String())

	rec, env = call(t, h, http.MethodGet, "/quotations?page=1&limit=10", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[struct {
		Items      []quote.Quotation `json:"items"`
		Pagination paging.Pagination `json:"pagination"`
	}](t, env)
	require.Len(t, page.Items, 1)
	assert.Equal(t, 1, page.Pagination.Total)
	assert.Equal(t, 1, page.Pagination.Pages)

	rec, _ = call(t, h, http.MethodPost, "/quotations/"+q.ID+"/convert", token, nil)
	assert.Equal(t, http.StatusConflict, rec.Code, "drafts cannot be invoiced")

	rec, env = call(t, h, http.MethodPatch, "/quotations/"+q.ID+"/status", token, map[string]string{"status": "accepted"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, quote.StatusAccepted, decode[quote.Quotation](t, env).Status)

	rec, env = call(t, h, http.MethodPost, "/quotations/"+q.ID+"/convert", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	inv := decode[quote.Quotation](t, env)
	assert.Equal(t, quote.StatusInvoiced, inv.Status)
	assert.True(t, strings.HasPrefix(inv.InvoiceNumber, "INV-"), inv.InvoiceNumber)

	rec, _ = call(t, h, http.MethodGet, "/quotations/"+q.ID+"/pdf", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))

	rec, _ = call(t, h, http.MethodPost, "/quotations/"+q.ID+"/send", token, nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code, "no notifier configured")

	rec, _ = call(t, h, http.MethodDelete, "/quotations/"+q.ID, token, nil)
	assert.Equal(t, http.StatusConflict, rec.Code, "invoices are kept")
}

func TestQuotationValidation(t *testing.T) {
	h := newTestRouter(t)
	token := bootstrapAdmin(t, h)

	rec, env := call(t, h, http.MethodPost, "/quotations", token, map[string]any{
		"items": []map[string]any{{"productId": "p1", "quantity": 0, "unitPrice": -1}},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, env.Success)
	assert.Contains(t, env.Errors, "clientId")
	assert.Contains(t, env.Errors, "items[0].quantity")
	assert.Contains(t, env.Errors, "items[0].unitPrice")

	rec, _ = call(t, h, http.MethodGet, "/quotations/missing", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = call(t, h, http.MethodGet, "/quotations?status=bogus", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestConfigurationRequiresAdmin(t *testing.T) {
	h := newTestRouter(t)
	admin := bootstrapAdmin(t, h)

	rec, _ := call(t, h, http.MethodPost, "/auth/register", admin, user.RegisterInput{
		Name: "Clerk", Email: "clerk@example.com", Password: "secret-pass",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	clerk := login(t, h, "clerk@example.com", "secret-pass")

	rec, _ = call(t, h, http.MethodPut, "/configuration", clerk, map[string]string{"currency": "EUR"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, env := call(t, h, http.MethodPut, "/configuration", admin, map[string]string{"currency": "eur"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "EUR", decode[settings.Configuration](t, env).Currency)

	rec, env = call(t, h, http.MethodGet, "/currencies/current", clerk, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), `"code":"EUR"`)

	rec, env = call(t, h, http.MethodPut, "/configuration", admin, map[string]string{"currency": "XXX"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, env.Errors, "currency")
}
