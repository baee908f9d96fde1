package client

import (
	"context"
	"strings"
	"time"

	"quotations/go_backend/internal/core/errx"
	"quotations/go_backend/internal/domain/paging"
)

type Client struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Company   string    `json:"company"`
	Address   string    `json:"address"`
	City      string    `json:"city"`
	Country   string    `json:"country"`
	TaxNumber string    `json:"taxNumber"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (c *Client) normalize() {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	c.Phone = strings.TrimSpace(c.Phone)
	c.Company = strings.TrimSpace(c.Company)
}

func (c Client) Validate() error {
	fields := errx.Fields{}
	if c.Name == "" {
		fields.Add("name", "is required")
	}
	if len(c.Name) > 200 {
		fields.Add("name", "must be at most 200 characters")
	}
	if c.Email != "" && !strings.Contains(c.Email, "@") {
		fields.Add("email", "is not a valid email")
	}
	return fields.Err()
}

// DisplayName prefers the company when both are set.
func (c Client) DisplayName() string {
	if c.Company != "" && c.Company != c.Name {
		return c.Name + " (" + c.Company + ")"
	}
	return c.Name
}

type Store interface {
	List(ctx context.Context, p paging.Params) ([]Client, int, error)
	Get(ctx context.Context, id string) (*Client, error)
	Create(ctx context.Context, c *Client) error
	Update(ctx context.Context, c *Client) error
	Delete(ctx context.Context, id string) error
	InUse(ctx context.Context, id string) (bool, error)
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) List(ctx context.Context, p paging.Params) ([]Client, int, error) {
	return s.store.List(ctx, p.Normalize())
}

func (s *Service) Get(ctx context.Context, id string) (*Client, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, c Client) (*Client, error) {
	c.normalize()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Service) Update(ctx context.Context, id string, c Client) (*Client, error) {
	existing, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	c.ID = existing.ID
	c.CreatedAt = existing.CreatedAt
	c.normalize()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.Update(ctx, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Delete refuses to remove clients that quotations still point at.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.store.Get(ctx, id); err != nil {
		return err
	}
	used, err := s.store.InUse(ctx, id)
	if err != nil {
		return err
	}
	if used {
		return errx.Conflict("client has quotations and cannot be deleted")
	}
	return s.store.Delete(ctx, id)
}
