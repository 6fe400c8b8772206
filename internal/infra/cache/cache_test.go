package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGateGetSet(t *testing.T) {
	g := NewGate(0, 0)

	_, ok := g.Get("uploads/a.png")
	assert.False(t, ok)

	g.Set("uploads/a.png", true)
	g.Set("uploads/b.png", false)

	v, ok := g.Get("uploads/a.png")
	assert.True(t, ok)
	assert.True(t, v)

	v, ok = g.Get("uploads/b.png")
	assert.True(t, ok)
	assert.False(t, v)
	assert.Equal(t, 2, g.Len())
}

func TestGateEntriesExpire(t *testing.T) {
	g := NewGate(8, 20*time.Millisecond)
	g.Set("uploads/a.png", true)

	assert.Eventually(t, func() bool {
		_, ok := g.Get("uploads/a.png")
		return !ok
	}, time.Second, 10*time.Millisecond)
}

func TestGateEvictsOldest(t *testing.T) {
	g := NewGate(2, time.Minute)
	g.Set("a", true)
	g.Set("b", true)
	g.Set("c", true)

	_, ok := g.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 2, g.Len())
}
