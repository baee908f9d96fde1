package user

import (
	"context"
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"quotations/go_backend/internal/core/errx"
)

const MinPasswordLength = 6

type Store interface {
	Count(ctx context.Context) (int, error)
	Get(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, u *User) error
}

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}

type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      User      `json:"user"`
}

type Service struct {
	store  Store
	tokens *Tokens
	cost   int
}

func NewService(store Store, tokens *Tokens) *Service {
	return &Service{store: store, tokens: tokens, cost: bcrypt.DefaultCost}
}

func (s *Service) Tokens() *Tokens {
	return s.tokens
}

// Register creates an account. The very first account is always an admin;
// afterwards only admins may register users.
func (s *Service) Register(ctx context.Context, actor *Principal, in RegisterInput) (*User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	fields := errx.Fields{}
	if in.Name == "" {
		fields.Add("name", "is required")
	}
	if !strings.Contains(in.Email, "@") {
		fields.Add("email", "is not a valid email")
	}
	if len(in.Password) < MinPasswordLength {
		fields.Add("password", "must be at least 6 characters")
	}
	if in.Role != "" && !in.Role.Valid() {
		fields.Add("role", "must be admin or user")
	}
	if err := fields.Err(); err != nil {
		return nil, err
	}

	count, err := s.store.Count(ctx)
	if err != nil {
		return nil, err
	}
	role := in.Role
	switch {
	case count == 0:
		role = RoleAdmin
	case actor == nil:
		return nil, errx.Unauthorized("")
	case !actor.IsAdmin():
		return nil, errx.Forbidden()
	case role == "":
		role = RoleUser
	}

	if _, err := s.store.GetByEmail(ctx, in.Email); err == nil {
		return nil, errx.Conflict("email is already registered")
	} else if errx.StatusOf(err) != http.StatusNotFound {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, err
	}
	u := &User{
		Name:         in.Name,
		Email:        in.Email,
		Role:         role,
		PasswordHash: string(hash),
	}
	if err := s.store.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login checks credentials; unknown emails and wrong passwords are
// indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		if errx.StatusOf(err) == http.StatusNotFound {
			return nil, errx.Unauthorized("invalid email or password")
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, errx.Unauthorized("invalid email or password")
	}
	token, exp, err := s.tokens.Issue(*u)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, ExpiresAt: exp, User: *u}, nil
}

func (s *Service) Get(ctx context.Context, id string) (*User, error) {
	return s.store.Get(ctx, id)
}
