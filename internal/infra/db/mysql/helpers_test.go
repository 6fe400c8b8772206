package mysql

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPageBounds(t *testing.T) {
	tests := []struct {
		page, size        int
		wantLimit, wantOf int
	}{
		{0, 0, 20, 0},
		{1, 10, 10, 0},
		{3, 10, 10, 20},
		{2, 500, 100, 100},
	}
	for _, tt := range tests {
		limit, offset := pageBounds(tt.page, tt.size)
		assert.Equal(t, tt.wantLimit, limit)
		assert.Equal(t, tt.wantOf, offset)
	}
}

func TestDefaults(t *testing.T) {
	assert.Equal(t, "-", stringOrDash("  "))
	assert.Equal(t, "abc", stringOrDash("abc"))
	assert.Equal(t, "[]", jsonOrEmpty(""))
	assert.False(t, nowIfZero(time.Time{}).IsZero())
	fixed := time.Unix(10, 0)
	assert.Equal(t, fixed, nowIfZero(fixed))
}
