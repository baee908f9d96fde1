package postgres

import (
	"strconv"
	"strings"
)

// filter accumulates WHERE conditions with positional arguments.
type filter struct {
	conds []string
	args  []any
}

func (f *filter) arg(v any) string {
	f.args = append(f.args, v)
	return "$" + strconv.Itoa(len(f.args))
}

func (f *filter) and(cond string) {
	f.conds = append(f.conds, cond)
}

// search adds an ILIKE match of term against any of columns.
func (f *filter) search(term string, columns ...string) {
	if term == "" {
		return
	}
	p := f.arg("%" + escapeLike(term) + "%")
	parts := make([]string, len(columns))
	for i, c := range columns {
		parts[i] = c + " ILIKE " + p
	}
	f.and("(" + strings.Join(parts, " OR ") + ")")
}

func (f *filter) where() string {
	if len(f.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(f.conds, " AND ")
}

// page appends LIMIT/OFFSET placeholders.
func (f *filter) page(limit, offset int) string {
	return " LIMIT " + f.arg(limit) + " OFFSET " + f.arg(offset)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// nullable maps "" to SQL NULL for optional references.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
