package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageNormalize(t *testing.T) {
	tests := []struct {
		name string
		page Page
		want Page
	}{
		{"zero value gets defaults", Page{}, Page{Number: 1, Size: 10}},
		{"negative number clamps to first page", Page{Number: -3, Size: 20}, Page{Number: 1, Size: 20}},
		{"oversized page shrinks to the cap", Page{Number: 2, Size: 500}, Page{Number: 2, Size: 100}},
		{"valid request passes through", Page{Number: 3, Size: 25}, Page{Number: 3, Size: 25}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.page.Normalize())
		})
	}
}

func TestPageOffset(t *testing.T) {
	assert.Equal(t, 0, Page{Number: 1, Size: 10}.Offset())
	assert.Equal(t, 20, Page{Number: 3, Size: 10}.Offset())
	assert.Equal(t, 0, Page{}.Offset())
}
