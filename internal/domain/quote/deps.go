package quote

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"quotations/go_backend/internal/domain/catalog"
	"quotations/go_backend/internal/domain/client"
	"quotations/go_backend/internal/domain/paging"
	"quotations/go_backend/internal/domain/project"
	"quotations/go_backend/internal/domain/quote/pdf"
	"quotations/go_backend/internal/domain/settings"
)

type Store interface {
	List(ctx context.Context, p paging.Params) ([]Quotation, int, error)
	Get(ctx context.Context, id string) (*Quotation, error)
	Create(ctx context.Context, q *Quotation) error
	Update(ctx context.Context, q *Quotation) error
	Delete(ctx context.Context, id string) error
}

// Sequencer hands out gap-tolerant, monotonically increasing numbers per key.
type Sequencer interface {
	Next(ctx context.Context, key string) (int64, error)
}

type Clients interface {
	Get(ctx context.Context, id string) (*client.Client, error)
}

type Products interface {
	Get(ctx context.Context, id string) (*catalog.Product, error)
}

type Sizes interface {
	Get(ctx context.Context, id string) (*catalog.Size, error)
}

type Projects interface {
	Get(ctx context.Context, id string) (*project.Project, error)
}

type Settings interface {
	Get(ctx context.Context) (*settings.Configuration, error)
}

// Logos loads the stored branding image for PDFs.
type Logos interface {
	Get(ctx context.Context, name string) ([]byte, string, error)
}

type Publisher interface {
	Publish(ctx context.Context, topic, key string, payload any) error
}

type Notifier interface {
	SendText(ctx context.Context, text string) error
	SendDocument(ctx context.Context, filename string, data []byte, caption string) error
}

// Event is the payload published on quotation topics.
type Event struct {
	Type        string          `json:"type"`
	ID          string          `json:"id"`
	Number      string          `json:"number"`
	Kind        string          `json:"kind"`
	ClientID    string          `json:"clientId"`
	Status      string          `json:"status"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Currency    string          `json:"currency"`
	At          time.Time       `json:"at"`
}

const (
	TopicCreated       = "quotation.created"
	TopicUpdated       = "quotation.updated"
	TopicStatusChanged = "quotation.status_changed"
	TopicDeleted       = "quotation.deleted"
)

type Deps struct {
	Sequencer Sequencer
	Clients   Clients
	Products  Products
	Sizes     Sizes
	Projects  Projects
	Settings  Settings
	Renderer  pdf.Generator
	Logos     Logos
	Publisher Publisher
	Notifier  Notifier
}
