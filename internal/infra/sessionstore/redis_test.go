package sessionstore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRedisRemainingAnchorsToCreation(t *testing.T) {
	r := NewRedisStore(nil, time.Hour)

	assert.Equal(t, time.Hour, r.remaining(time.Time{}))

	left := r.remaining(time.Now().Add(-30 * time.Minute))
	assert.InDelta(t, float64(30*time.Minute), float64(left), float64(5*time.Second))

	assert.Equal(t, time.Second, r.remaining(time.Now().Add(-2*time.Hour)))
}

func TestRedisKey(t *testing.T) {
	assert.Equal(t, "uxcritique:session:abc", key("abc"))
}
