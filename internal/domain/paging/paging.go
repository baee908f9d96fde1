package paging

import (
	"math"
	"net/url"
	"strconv"
	"strings"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
	// MaxPage keeps Offset inside a Postgres integer.
	MaxPage = math.MaxInt32 / MaxLimit
)

// Params are the list filters shared by every collection endpoint.
type Params struct {
	Page     int
	Limit    int
	Search   string
	Status   string
	ClientID string
	// Active filters products; nil means any.
	Active *bool
}

// Parse reads page/limit/search/status/client from a query string.
// Invalid numbers fall back to defaults and limit is clamped to MaxLimit.
func Parse(q url.Values) Params {
	p := Params{
		Page:     atoiDefault(q.Get("page"), DefaultPage),
		Limit:    atoiDefault(q.Get("limit"), DefaultLimit),
		Search:   strings.TrimSpace(q.Get("search")),
		Status:   strings.TrimSpace(q.Get("status")),
		ClientID: strings.TrimSpace(q.Get("client")),
	}
	if raw := strings.TrimSpace(q.Get("active")); raw != "" {
		if b, err := strconv.ParseBool(raw); err == nil {
			p.Active = &b
		}
	}
	return p.Normalize()
}

func (p Params) Normalize() Params {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	if p.Page > MaxPage {
		p.Page = MaxPage
	}
	return p
}

func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Pagination is the block nested in list responses.
type Pagination struct {
	Total int `json:"total"`
	Pages int `json:"pages"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func NewPagination(p Params, total int) Pagination {
	return Pagination{
		Total: total,
		Pages: Pages(total, p.Limit),
		Page:  p.Page,
		Limit: p.Limit,
	}
}

// Pages is ceil(total/limit), 0 for an empty collection.
func Pages(total, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

func atoiDefault(raw string, def int) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
