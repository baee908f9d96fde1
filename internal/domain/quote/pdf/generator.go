package pdf

import "time"

// Generator renders a priced document to PDF bytes.
type Generator interface {
	Generate(doc Document) ([]byte, error)
}

type Party struct {
	Name  string
	Lines []string
}

type Column struct {
	Title string
	Width float64
	Right bool
}

type Section struct {
	Title   string
	Columns []Column
	Rows    [][]string
}

type SummaryLine struct {
	Label string
	Value string
	Bold  bool
}

// Document is the layout-independent content of a quotation or invoice.
type Document struct {
	Title      string
	Number     string
	IssueDate  time.Time
	ValidUntil time.Time
	Reference  string

	Business Party
	Client   Party
	// Logo is PNG or JPEG bytes; empty means no logo.
	Logo     []byte
	LogoType string
	Accent   string

	Sections []Section
	Summary  []SummaryLine

	Notes  string
	Terms  string
	Bank   []string
	Footer string
}
