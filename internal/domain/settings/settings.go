package settings

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"quotations/go_backend/internal/core/errx"
	"quotations/go_backend/internal/domain/currency"
)

const (
	DefaultValidityDays   = 30
	MaxValidityDays       = 365
	DefaultQuotePrefix    = "QT"
	DefaultCateringPrefix = "CQ"
	DefaultInvoicePrefix  = "INV"
)

type Business struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	Website   string `json:"website"`
	TaxNumber string `json:"taxNumber"`
}

type Bank struct {
	BankName      string `json:"bankName"`
	AccountName   string `json:"accountName"`
	AccountNumber string `json:"accountNumber"`
	IBAN          string `json:"iban"`
	SWIFT         string `json:"swift"`
	Branch        string `json:"branch"`
}

type Quotation struct {
	Prefix         string `json:"prefix"`
	CateringPrefix string `json:"cateringPrefix"`
	InvoicePrefix  string `json:"invoicePrefix"`
	ValidityDays   int    `json:"validityDays"`
	Terms          string `json:"terms"`
	Notes          string `json:"notes"`
}

type Branding struct {
	LogoURL      string `json:"logoUrl"`
	LogoObject   string `json:"logoObject,omitempty"`
	PrimaryColor string `json:"primaryColor"`
}

// Configuration is the tenant-wide settings document.
type Configuration struct {
	Business  Business        `json:"business"`
	Bank      Bank            `json:"bank"`
	Currency  string          `json:"currency"`
	TaxRate   decimal.Decimal `json:"taxRate"`
	Quotation Quotation       `json:"quotation"`
	Branding  Branding        `json:"branding"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

func Default() Configuration {
	return Configuration{
		Currency: currency.DefaultCode,
		TaxRate:  decimal.Zero,
		Quotation: Quotation{
			Prefix:         DefaultQuotePrefix,
			CateringPrefix: DefaultCateringPrefix,
			InvoicePrefix:  DefaultInvoicePrefix,
			ValidityDays:   DefaultValidityDays,
		},
		Branding: Branding{PrimaryColor: "#1f2937"},
	}
}

// Normalize fills blanks with defaults and upper-cases codes.
func (c *Configuration) Normalize() {
	def := Default()
	c.Currency = strings.ToUpper(strings.TrimSpace(c.Currency))
	if c.Currency == "" {
		c.Currency = def.Currency
	}
	c.Quotation.Prefix = strings.ToUpper(strings.TrimSpace(c.Quotation.Prefix))
	if c.Quotation.Prefix == "" {
		c.Quotation.Prefix = def.Quotation.Prefix
	}
	c.Quotation.CateringPrefix = strings.ToUpper(strings.TrimSpace(c.Quotation.CateringPrefix))
	if c.Quotation.CateringPrefix == "" {
		c.Quotation.CateringPrefix = def.Quotation.CateringPrefix
	}
	c.Quotation.InvoicePrefix = strings.ToUpper(strings.TrimSpace(c.Quotation.InvoicePrefix))
	if c.Quotation.InvoicePrefix == "" {
		c.Quotation.InvoicePrefix = def.Quotation.InvoicePrefix
	}
	if c.Quotation.ValidityDays == 0 {
		c.Quotation.ValidityDays = def.Quotation.ValidityDays
	}
	c.Business.Email = strings.TrimSpace(c.Business.Email)
}

func (c Configuration) Validate() error {
	fields := errx.Fields{}
	if _, ok := currency.Lookup(c.Currency); !ok {
		fields.Add("currency", "is not a supported currency")
	}
	if c.TaxRate.IsNegative() || c.TaxRate.GreaterThan(decimal.NewFromInt(100)) {
		fields.Add("taxRate", "must be between 0 and 100")
	}
	if c.Quotation.ValidityDays < 1 || c.Quotation.ValidityDays > MaxValidityDays {
		fields.Add("quotation.validityDays", "must be between 1 and 365")
	}
	for field, prefix := range map[string]string{
		"quotation.prefix":         c.Quotation.Prefix,
		"quotation.cateringPrefix": c.Quotation.CateringPrefix,
		"quotation.invoicePrefix":  c.Quotation.InvoicePrefix,
	} {
		if len(prefix) > 10 || strings.ContainsAny(prefix, " /\\") {
			fields.Add(field, "must be at most 10 characters without spaces or slashes")
		}
	}
	if c.Business.Email != "" && !strings.Contains(c.Business.Email, "@") {
		fields.Add("business.email", "is not a valid email")
	}
	if c.Branding.PrimaryColor != "" && !isHexColor(c.Branding.PrimaryColor) {
		fields.Add("branding.primaryColor", "must be a hex color like #1f2937")
	}
	return fields.Err()
}

func isHexColor(s string) bool {
	if len(s) != 7 && len(s) != 4 {
		return false
	}
	if s[0] != '#' {
		return false
	}
	for _, r := range s[1:] {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return false
		}
	}
	return true
}

// ValidUntil returns the default expiry for a document issued on issued.
func (c Configuration) ValidUntil(issued time.Time) time.Time {
	days := c.Quotation.ValidityDays
	if days <= 0 {
		days = DefaultValidityDays
	}
	return issued.AddDate(0, 0, days)
}
