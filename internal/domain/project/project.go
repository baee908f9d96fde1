package project

import (
	"context"
	"net/http"
	"strings"
	"time"

	"quotations/go_backend/internal/core/errx"
	"quotations/go_backend/internal/domain/client"
	"quotations/go_backend/internal/domain/paging"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusArchived  Status = "archived"
)

var Statuses = []Status{StatusActive, StatusCompleted, StatusArchived}

func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	ClientID    string    `json:"clientId,omitempty"`
	ClientName  string    `json:"clientName,omitempty"`
	Description string    `json:"description"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Store interface {
	List(ctx context.Context, p paging.Params) ([]Project, int, error)
	Get(ctx context.Context, id string) (*Project, error)
	Create(ctx context.Context, p *Project) error
	Update(ctx context.Context, p *Project) error
	Delete(ctx context.Context, id string) error
}

type Clients interface {
	Get(ctx context.Context, id string) (*client.Client, error)
}

type Service struct {
	store   Store
	clients Clients
}

func NewService(store Store, clients Clients) *Service {
	return &Service{store: store, clients: clients}
}

func (s *Service) List(ctx context.Context, p paging.Params) ([]Project, int, error) {
	p = p.Normalize()
	if p.Status != "" && !Status(p.Status).Valid() {
		return nil, 0, errx.Validation("status", "is not a valid project status")
	}
	return s.store.List(ctx, p)
}

func (s *Service) Get(ctx context.Context, id string) (*Project, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, in Project) (*Project, error) {
	if err := s.prepare(ctx, &in); err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, &in); err != nil {
		return nil, err
	}
	return &in, nil
}

func (s *Service) Update(ctx context.Context, id string, in Project) (*Project, error) {
	existing, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	in.ID = existing.ID
	in.CreatedAt = existing.CreatedAt
	if err := s.prepare(ctx, &in); err != nil {
		return nil, err
	}
	if err := s.store.Update(ctx, &in); err != nil {
		return nil, err
	}
	return &in, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.store.Get(ctx, id); err != nil {
		return err
	}
	return s.store.Delete(ctx, id)
}

func (s *Service) prepare(ctx context.Context, p *Project) error {
	p.Name = strings.TrimSpace(p.Name)
	p.ClientID = strings.TrimSpace(p.ClientID)
	if p.Status == "" {
		p.Status = StatusActive
	}

	fields := errx.Fields{}
	if p.Name == "" {
		fields.Add("name", "is required")
	}
	if !p.Status.Valid() {
		fields.Add("status", "must be active, completed or archived")
	}
	if err := fields.Err(); err != nil {
		return err
	}

	p.ClientName = ""
	if p.ClientID == "" {
		return nil
	}
	c, err := s.clients.Get(ctx, p.ClientID)
	if err != nil {
		if errx.StatusOf(err) == http.StatusNotFound {
			return errx.Validation("clientId", "does not exist")
		}
		return err
	}
	p.ClientName = c.Name
	return nil
}
