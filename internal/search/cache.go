package search

import (
    "sync"
    "sync/atomic"

    "github.com/jaminalder/tictactoe-ai/internal/domain"
)

// Cache is a transposition table of interior ply scores. It never changes a
// search result, only how often positions are re-expanded. Safe for
// concurrent use.
type Cache struct {
    mu      sync.RWMutex
    entries map[uint32]int8
    hits    atomic.Uint64
    misses  atomic.Uint64
}

// NewCache returns an empty cache.
func NewCache() *Cache {
    return &Cache{entries: make(map[uint32]int8)}
}

// CacheStats is a point-in-time view of cache traffic.
type CacheStats struct {
    Entries int    `json:"entries"`
    Hits    uint64 `json:"hits"`
    Misses  uint64 `json:"misses"`
}

// Stats reports the entry count and hit/miss counters.
func (c *Cache) Stats() CacheStats {
    c.mu.RLock()
    n := len(c.entries)
    c.mu.RUnlock()
    return CacheStats{Entries: n, Hits: c.hits.Load(), Misses: c.misses.Load()}
}

func (c *Cache) get(key uint32) (int, bool) {
    c.mu.RLock()
    v, ok := c.entries[key]
    c.mu.RUnlock()
    if ok {
        c.hits.Add(1)
    } else {
        c.misses.Add(1)
    }
    return int(v), ok
}

func (c *Cache) put(key uint32, score int) {
    c.mu.Lock()
    c.entries[key] = int8(score)
    c.mu.Unlock()
}

// cacheKey packs the board in base 3 (3^9 < 2^15) with the maximizing side
// and whose ply it is in the low bits.
func cacheKey(b domain.Board, maximizing domain.Cell, maxTurn bool) uint32 {
    var code uint32
    for _, c := range b {
        code = code*3 + uint32(c)
    }
    code <<= 2
    if maximizing == domain.O {
        code |= 2
    }
    if maxTurn {
        code |= 1
    }
    return code
}
