package gofpdf

import (
	"bytes"
	"testing"
	"time"
	"unicode/utf16"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quotations/go_backend/internal/domain/quote/pdf"
)

func TestGenerateProducesPDF(t *testing.T) {
	doc := pdf.Document{
		Title:      "Quotation",
		Number:     "QT-2026-0001",
		IssueDate:  time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC),
		ValidUntil: time.Date(2026, 2, 19, 0, 0, 0, 0, time.UTC),
		Business:   pdf.Party{Name: "Acme Catering", Lines: []string{"1 Main St", "acme@example.com"}},
		Client:     pdf.Party{Name: "Café Zoë", Lines: []string{"Paris"}},
		Accent:     "#0f766e",
		Sections: []pdf.Section{{
			Columns: []pdf.Column{{Title: "Item"}, {Title: "Qty", Width: 20, Right: true}, {Title: "Total", Width: 30, Right: true}},
			Rows: [][]string{
				{"Biryani (full thaal) with raita and salad on the side", "2", "$200.00"},
				{"Samosa", "1", "$45.00"},
			},
		}},
		Summary: []pdf.SummaryLine{{Label: "Subtotal", Value: "$245.00"}, {Label: "Total", Value: "$231.53", Bold: true}},
		Notes:   "Thank you for your business.",
		Bank:    []string{"Bank: First Bank", "IBAN: XX00 0000"},
		Footer:  "Generated automatically",
	}

	out, err := New().Generate(doc)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestGenerateSkipsBrokenLogo(t *testing.T) {
	out, err := New().Generate(pdf.Document{
		Title:    "Invoice",
		Number:   "INV-1",
		Logo:     []byte("definitely not a png"),
		LogoType: "png",
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestHelpers(t *testing.T) {
	r, g, b := hexColor("#0f766e")
	assert.Equal(t, []int{15, 118, 110}, []int{r, g, b})
	r, g, b = hexColor("#fff")
	assert.Equal(t, []int{255, 255, 255}, []int{r, g, b})
	r, _, _ = hexColor("nope")
	assert.Equal(t, 31, r)

	assert.Equal(t, "abc", trim("abc", 5))
	assert.Equal(t, "abc…", trim("abcdef", 4))

	w := columnWidths([]pdf.Column{{Width: 30}, {}, {}})
	assert.InDelta(t, 80.0, w[1], 0.001)
}

// utf16be mirrors how text drawn with a UTF-8 font lands in an
// uncompressed content stream.
func utf16be(s string) []byte {
	var out []byte
	for _, u := range utf16.Encode([]rune(s)) {
		out = append(out, byte(u>>8), byte(u))
	}
	return out
}

func TestGenerateKeepsNonLatinText(t *testing.T) {
	g := &Generator{compress: false}
	out, err := g.Generate(pdf.Document{
		Title:    "Quotation",
		Number:   "QT-2026-0007",
		Business: pdf.Party{Name: "Acme Catering"},
		Client:   pdf.Party{Name: "حسن کرمانی", Lines: []string{"Astana"}},
		Sections: []pdf.Section{{
			Columns: []pdf.Column{{Title: "Item"}, {Title: "Total", Width: 30, Right: true}},
			Rows:    [][]string{{"Beshbarmak", "₸1,234.00"}},
		}},
		Summary: []pdf.SummaryLine{{Label: "Total", Value: "₹1,234.00", Bold: true}},
	})
	require.NoError(t, err)

	for _, text := range []string{"₹1,234.00", "₸1,234.00", "حسن کرمانی"} {
		assert.True(t, bytes.Contains(out, utf16be(text)), "%q missing from content stream", text)
	}
	assert.False(t, bytes.Contains(out, []byte(".1,234.00")))
}
