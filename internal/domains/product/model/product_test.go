package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTotalStock(t *testing.T) {
	p := &Product{Variants: []Variant{{Stock: 3}, {Stock: 0}, {Stock: 7}}}
	assert.Equal(t, 10, p.TotalStock())
}

func TestFilterNormalize(t *testing.T) {
	f := &Filter{Page: 0, Limit: 500}
	f.Normalize()
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, 20, f.Limit)
	assert.Equal(t, 0, f.Offset())

	f = &Filter{Page: 3, Limit: 10}
	f.Normalize()
	assert.Equal(t, 20, f.Offset())
}
