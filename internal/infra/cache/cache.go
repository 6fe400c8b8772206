// Package cache provides the time-bounded caches used by the analysis pipeline.
package cache

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	DefaultGateSize = 1024
	DefaultGateTTL  = 600 * time.Second
)

// Gate remembers UI classification verdicts keyed by image path.
// Entries expire after their TTL; the least recently used entry is evicted when full.
type Gate struct {
	lru *expirable.LRU[string, bool]
}

// NewGate builds a gate cache. Non-positive arguments fall back to the defaults.
func NewGate(size int, ttl time.Duration) *Gate {
	if size <= 0 {
		size = DefaultGateSize
	}
	if ttl <= 0 {
		ttl = DefaultGateTTL
	}
	return &Gate{lru: expirable.NewLRU[string, bool](size, nil, ttl)}
}

func (g *Gate) Get(path string) (bool, bool) {
	return g.lru.Get(path)
}

func (g *Gate) Set(path string, isUI bool) {
	g.lru.Add(path, isUI)
}

func (g *Gate) Len() int {
	return g.lru.Len()
}
