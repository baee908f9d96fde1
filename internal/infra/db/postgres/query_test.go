package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilter(t *testing.T) {
	var f filter
	assert.Equal(t, "", f.where())

	f.search("50%_off", "name", "email")
	f.and("status = " + f.arg("draft"))
	tail := f.page(10, 20)

	assert.Equal(t, " WHERE (name ILIKE $1 OR email ILIKE $1) AND status = $2", f.where())
	assert.Equal(t, " LIMIT $3 OFFSET $4", tail)
	assert.Equal(t, []any{`%50\%\_off%`, "draft", 10, 20}, f.args)
}

func TestNullable(t *testing.T) {
	assert.Nil(t, nullable(""))
	assert.Equal(t, "x", nullable("x"))
}
