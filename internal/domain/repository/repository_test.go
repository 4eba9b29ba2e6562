package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPaginationClamps(t *testing.T) {
	p := NewPagination(0, 0)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 20, p.PageSize)

	p = NewPagination(-3, 500)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 100, p.PageSize)

	p = NewPagination(3, 25)
	assert.Equal(t, 50, p.Offset())
	assert.Equal(t, 25, p.Limit())
}

func TestNewPagedResult(t *testing.T) {
	items := []string{"a", "b", "c"}

	r := NewPagedResult(items, 7, NewPagination(1, 3))
	assert.Equal(t, int64(7), r.Total)
	assert.Equal(t, 3, r.TotalPages)

	r = NewPagedResult(items, 6, NewPagination(2, 3))
	assert.Equal(t, 2, r.TotalPages)
	assert.Equal(t, 2, r.Page)

	r = NewPagedResult([]string{}, 0, NewPagination(1, 20))
	assert.Equal(t, 0, r.TotalPages)
}
