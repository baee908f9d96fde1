package gofpdf

import (
	"bytes"
	_ "embed"
	"fmt"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"quotations/go_backend/internal/domain/quote/pdf"
	logx "quotations/go_backend/pkg/logger"
)

const (
	pageWidth = 190.0
	font      = "DejaVu"
)

// DejaVu covers Latin, Arabic script and the currency symbols in the
// catalogue (₹, ₸, €...), which the core PDF fonts cannot print.
var (
	//go:embed fonts/DejaVuSansCondensed.ttf
	regularTTF []byte
	//go:embed fonts/DejaVuSansCondensed-Bold.ttf
	boldTTF []byte
)

type Generator struct {
	compress bool
}

func New() *Generator { return &Generator{compress: true} }

func (g *Generator) Generate(doc pdf.Document) ([]byte, error) {
	p := gofpdf.New("P", "mm", "A4", "")
	p.SetCompression(g.compress)
	p.AddUTF8FontFromBytes(font, "", regularTTF)
	p.AddUTF8FontFromBytes(font, "B", boldTTF)
	if err := p.Error(); err != nil {
		logx.Error().Err(err).Msg("pdf: load fonts failed")
		return nil, fmt.Errorf("pdf: load fonts: %w", err)
	}
	p.SetTitle(doc.Title+" "+doc.Number, true)
	p.SetAutoPageBreak(true, 15)
	r, gr, b := hexColor(doc.Accent)

	p.AddPage()

	if len(doc.Logo) > 0 {
		imgType := strings.ToUpper(doc.LogoType)
		opts := gofpdf.ImageOptions{ImageType: imgType, ReadDpi: true}
		p.RegisterImageOptionsReader("logo", opts, bytes.NewReader(doc.Logo))
		if p.Ok() {
			p.ImageOptions("logo", 10, 10, 0, 18, false, opts, 0, "")
		} else {
			logx.Warn().Err(p.Error()).Msg("pdf: logo skipped")
			p.ClearError()
		}
	}

	p.SetFont(font, "B", 18)
	p.SetTextColor(r, gr, b)
	p.CellFormat(0, 10, doc.Title, "", 1, "R", false, 0, "")
	p.SetTextColor(0, 0, 0)
	p.SetFont(font, "", 10)
	p.CellFormat(0, 5, "No. "+doc.Number, "", 1, "R", false, 0, "")
	if !doc.IssueDate.IsZero() {
		p.CellFormat(0, 5, "Date: "+doc.IssueDate.Format("02 Jan 2006"), "", 1, "R", false, 0, "")
	}
	if !doc.ValidUntil.IsZero() {
		p.CellFormat(0, 5, "Valid until: "+doc.ValidUntil.Format("02 Jan 2006"), "", 1, "R", false, 0, "")
	}
	if doc.Reference != "" {
		p.CellFormat(0, 5, doc.Reference, "", 1, "R", false, 0, "")
	}
	p.Ln(6)

	top := p.GetY()
	left := party(p, 10, top, "From", doc.Business)
	right := party(p, 110, top, "Bill to", doc.Client)
	p.SetXY(10, max(left, right))
	p.Ln(4)

	for _, s := range doc.Sections {
		section(p, s, r, gr, b)
	}

	p.Ln(2)
	for _, line := range doc.Summary {
		style := ""
		if line.Bold {
			style = "B"
		}
		p.SetFont(font, style, 10)
		p.CellFormat(pageWidth-40, 6, line.Label, "", 0, "R", false, 0, "")
		p.CellFormat(40, 6, line.Value, "", 1, "R", false, 0, "")
	}

	block(p, "Notes", doc.Notes)
	block(p, "Terms & conditions", doc.Terms)
	if len(doc.Bank) > 0 {
		block(p, "Bank details", strings.Join(doc.Bank, "\n"))
	}

	if doc.Footer != "" {
		p.Ln(6)
		p.SetFont(font, "", 8)
		p.SetTextColor(120, 120, 120)
		p.MultiCell(0, 4, doc.Footer, "", "C", false)
	}

	var buf bytes.Buffer
	if err := p.Output(&buf); err != nil {
		logx.Error().Err(err).Str("number", doc.Number).Msg("pdf: output failed")
		return nil, err
	}
	return buf.Bytes(), nil
}

// party prints a labelled address block and returns the Y below it.
func party(p *gofpdf.Fpdf, x, y float64, label string, pt pdf.Party) float64 {
	p.SetXY(x, y)
	p.SetFont(font, "B", 9)
	p.SetTextColor(120, 120, 120)
	p.CellFormat(90, 5, strings.ToUpper(label), "", 2, "L", false, 0, "")
	p.SetTextColor(0, 0, 0)
	p.SetFont(font, "B", 11)
	p.CellFormat(90, 6, trim(pt.Name, 45), "", 2, "L", false, 0, "")
	p.SetFont(font, "", 9)
	for _, l := range pt.Lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		p.CellFormat(90, 4.5, trim(l, 60), "", 2, "L", false, 0, "")
	}
	return p.GetY()
}

func section(p *gofpdf.Fpdf, s pdf.Section, r, g, b int) {
	p.SetX(10)
	p.Ln(4)
	if s.Title != "" {
		p.SetFont(font, "B", 11)
		p.CellFormat(0, 7, s.Title, "", 1, "L", false, 0, "")
	}
	widths := columnWidths(s.Columns)

	p.SetFont(font, "B", 9)
	p.SetFillColor(r, g, b)
	p.SetTextColor(255, 255, 255)
	for i, c := range s.Columns {
		p.CellFormat(widths[i], 7, c.Title, "", 0, align(c), true, 0, "")
	}
	p.Ln(-1)

	p.SetFont(font, "", 9)
	p.SetTextColor(0, 0, 0)
	p.SetFillColor(245, 245, 245)
	for n, row := range s.Rows {
		for i, c := range s.Columns {
			val := ""
			if i < len(row) {
				val = row[i]
			}
			if !c.Right {
				val = trim(val, int(widths[i]/1.9))
			}
			p.CellFormat(widths[i], 6, val, "B", 0, align(c), n%2 == 1, 0, "")
		}
		p.Ln(-1)
	}
}

func block(p *gofpdf.Fpdf, title, body string) {
	body = strings.TrimSpace(body)
	if body == "" {
		return
	}
	p.Ln(4)
	p.SetFont(font, "B", 10)
	p.CellFormat(0, 6, title, "", 1, "L", false, 0, "")
	p.SetFont(font, "", 9)
	p.MultiCell(0, 4.5, body, "", "L", false)
}

// columnWidths gives zero-width columns an equal share of what is left.
func columnWidths(cols []pdf.Column) []float64 {
	out := make([]float64, len(cols))
	fixed, flex := 0.0, 0
	for i, c := range cols {
		out[i] = c.Width
		if c.Width > 0 {
			fixed += c.Width
		} else {
			flex++
		}
	}
	if flex > 0 {
		share := (pageWidth - fixed) / float64(flex)
		if share < 10 {
			share = 10
		}
		for i := range out {
			if out[i] == 0 {
				out[i] = share
			}
		}
	}
	return out
}

func align(c pdf.Column) string {
	if c.Right {
		return "R"
	}
	return "L"
}

// hexColor parses #rrggbb, falling back to slate grey.
func hexColor(s string) (int, int, int) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 3 {
		s = fmt.Sprintf("%c%c%c%c%c%c", s[0], s[0], s[1], s[1], s[2], s[2])
	}
	if len(s) != 6 {
		return 31, 41, 55
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 31, 41, 55
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)
}

func trim(s string, max int) string {
	if max < 2 {
		return s
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
