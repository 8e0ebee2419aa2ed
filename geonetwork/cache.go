package geonetwork

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/lehigh-university-libraries/metadown/catalog"
)

// LoadFunc loads the category index under an auxiliary base.
type LoadFunc func(ctx context.Context, auxBase string) (*catalog.Index, error)

// IndexCache holds one category index per auxiliary base. Each index is
// loaded by a single caller; once stored it is read without locking.
// A failed load is not stored, so a later caller loads again.
type IndexCache struct {
	load LoadFunc

	mu      sync.Mutex
	entries map[string]*cacheEntry
}

type cacheEntry struct {
	mu  sync.Mutex
	idx atomic.Pointer[catalog.Index]
}

func NewIndexCache(load LoadFunc) *IndexCache {
	return &IndexCache{
		load:    load,
		entries: make(map[string]*cacheEntry),
	}
}

// Get returns the index for auxBase, loading it on first use.
func (c *IndexCache) Get(ctx context.Context, auxBase string) (*catalog.Index, error) {
	e := c.entry(auxBase)
	if idx := e.idx.Load(); idx != nil {
		return idx, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if idx := e.idx.Load(); idx != nil {
		return idx, nil
	}

	idx, err := c.load(ctx, auxBase)
	if err != nil {
		return nil, err
	}
	e.idx.Store(idx)
	return idx, nil
}

// Len reports how many bases have a loaded index.
func (c *IndexCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, e := range c.entries {
		if e.idx.Load() != nil {
			n++
		}
	}
	return n
}

func (c *IndexCache) entry(auxBase string) *cacheEntry {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[auxBase]
	if !ok {
		e = &cacheEntry{}
		c.entries[auxBase] = e
	}
	return e
}
