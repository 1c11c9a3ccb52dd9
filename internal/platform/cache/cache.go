// Package cache provides a content-addressed result cache with TTL and LRU
// eviction. Entries are keyed by (tool id, canonicalized arguments) so two
// invocations with equivalent arguments share one entry. Expiry is checked
// at read time; entries are immutable once written and a refresh always
// writes a new entry.
package cache

import (
	"container/list"
	"crypto/sha256"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Store defines the interface for the result cache.
type Store interface {
	// Get retrieves a value from the cache.
	// Returns the value and true only if the entry exists and is still fresh.
	Get(key string) (interface{}, bool)

	// Put stores a value in the cache with a TTL.
	// If ttl is 0, the item never expires.
	Put(key string, value interface{}, ttl time.Duration)

	// Delete removes a value from the cache.
	Delete(key string)

	// Clear removes all values from the cache.
	Clear()

	// Size returns the current number of items in the cache.
	Size() int
}

// Key derives the cache key for a tool invocation. Argument fields are
// sorted by name, string values are lowercased and whitespace-trimmed, so
// equivalent argument sets always map to the same key.
func Key(toolID string, args map[string]string) string {
	names := make([]string, 0, len(args))
	for name := range args {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(strings.ToLower(strings.TrimSpace(toolID)))
	for _, name := range names {
		b.WriteByte('\x1f')
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(strings.ToLower(strings.TrimSpace(args[name])))
	}

	sum := sha256.Sum256([]byte(b.String()))
	return fmt.Sprintf("%x", sum)
}

// entry represents a cached item with metadata
type entry struct {
	key       string
	value     interface{}
	createdAt time.Time
	expiresAt time.Time
	element   *list.Element // for LRU tracking
}

// MemoryStore implements an in-memory LRU cache with TTL support
type MemoryStore struct {
	mu       sync.Mutex
	capacity int
	items    map[string]*entry
	lruList  *list.List // doubly linked list for LRU tracking
}

// NewMemoryStore creates a new in-memory cache with the specified capacity.
// When the cache reaches capacity, the least recently used item is evicted.
func NewMemoryStore(capacity int) *MemoryStore {
	if capacity <= 0 {
		capacity = 256 // default capacity
	}

	return &MemoryStore{
		capacity: capacity,
		items:    make(map[string]*entry),
		lruList:  list.New(),
	}
}

// Get retrieves a value from the cache.
// If the item exists and hasn't expired, it's marked as recently used.
func (c *MemoryStore) Get(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, exists := c.items[key]
	if !exists {
		return nil, false
	}

	// Expiry is checked here, not by a background sweeper
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		c.deleteEntry(entry)
		return nil, false
	}

	c.lruList.MoveToFront(entry.element)

	return entry.value, true
}

// Put stores a value in the cache with a TTL.
// A put for an existing key replaces the whole entry rather than mutating
// it; concurrent puts for the same key are last-write-wins.
func (c *MemoryStore) Put(key string, value interface{}, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = now.Add(ttl)
	}

	if existing, exists := c.items[key]; exists {
		c.deleteEntry(existing)
	}

	// Evict LRU item if at capacity
	if len(c.items) >= c.capacity {
		c.evictLRU()
	}

	entry := &entry{
		key:       key,
		value:     value,
		createdAt: now,
		expiresAt: expiresAt,
	}
	entry.element = c.lruList.PushFront(entry)
	c.items[key] = entry
}

// Delete removes a value from the cache.
func (c *MemoryStore) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, exists := c.items[key]; exists {
		c.deleteEntry(entry)
	}
}

// Clear removes all values from the cache.
func (c *MemoryStore) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]*entry)
	c.lruList.Init()
}

// Size returns the current number of items in the cache.
func (c *MemoryStore) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Capacity returns the maximum number of items the cache can hold.
func (c *MemoryStore) Capacity() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.capacity
}

// evictLRU removes the least recently used item from the cache.
// Must be called with c.mu held.
func (c *MemoryStore) evictLRU() {
	element := c.lruList.Back()
	if element != nil {
		entry := element.Value.(*entry)
		c.deleteEntry(entry)
	}
}

// deleteEntry removes an entry from the cache.
// Must be called with c.mu held.
func (c *MemoryStore) deleteEntry(entry *entry) {
	delete(c.items, entry.key)
	c.lruList.Remove(entry.element)
}
