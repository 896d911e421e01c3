package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	p := Params{Page: 0, Limit: 0}.Normalize(12)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 12, p.Limit)

	p = Params{Page: -3, Limit: 500}.Normalize(12)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 100, p.Limit)
}

func TestOffset(t *testing.T) {
	p := Params{Page: 3, Limit: 12}
	assert.Equal(t, 24, p.Offset())
}

func TestNewMeta(t *testing.T) {
	meta := NewMeta(Params{Page: 2, Limit: 10}, 25)
	assert.Equal(t, int64(25), meta.Total)
	assert.Equal(t, 3, meta.TotalPages)
	assert.True(t, meta.HasNext)
	assert.True(t, meta.HasPrev)

	meta = NewMeta(Params{Page: 1, Limit: 10}, 0)
	assert.Equal(t, 0, meta.TotalPages)
	assert.False(t, meta.HasNext)
	assert.False(t, meta.HasPrev)
}
