package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"reconflow/internal/testutil"
)

func TestKey_Deterministic(t *testing.T) {
	tests := []struct {
		name string
		a    map[string]string
		b    map[string]string
		same bool
	}{
		{
			name: "identical args",
			a:    map[string]string{"domain": "example.com", "ports": "80,443"},
			b:    map[string]string{"domain": "example.com", "ports": "80,443"},
			same: true,
		},
		{
			name: "case and whitespace normalized",
			a:    map[string]string{"domain": "Example.COM "},
			b:    map[string]string{"domain": "example.com"},
			same: true,
		},
		{
			name: "field order irrelevant",
			a:    map[string]string{"x": "1", "y": "2"},
			b:    map[string]string{"y": "2", "x": "1"},
			same: true,
		},
		{
			name: "different values differ",
			a:    map[string]string{"domain": "example.com"},
			b:    map[string]string{"domain": "example.org"},
			same: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ka := Key("dns", tt.a)
			kb := Key("dns", tt.b)
			if tt.same {
				testutil.AssertEqual(t, ka, kb, "keys should match")
			} else {
				testutil.AssertNotEqual(t, ka, kb, "keys should differ")
			}
		})
	}
}

func TestKey_ToolScoped(t *testing.T) {
	args := map[string]string{"domain": "example.com"}
	testutil.AssertNotEqual(t, Key("dns", args), Key("whois", args),
		"same args under different tools should produce different keys")
}

func TestMemoryStore_GetPut(t *testing.T) {
	store := NewMemoryStore(10)

	_, ok := store.Get("missing")
	testutil.AssertFalse(t, ok, "empty store should miss")

	store.Put("k1", "v1", 0)
	v, ok := store.Get("k1")
	testutil.AssertTrue(t, ok, "should hit after put")
	testutil.AssertEqual(t, v, "v1", "value should round-trip")
}

func TestMemoryStore_ExpiryAtReadTime(t *testing.T) {
	store := NewMemoryStore(10)

	store.Put("k1", "v1", 30*time.Millisecond)

	_, ok := store.Get("k1")
	testutil.AssertTrue(t, ok, "should hit before expiry")

	time.Sleep(50 * time.Millisecond)

	_, ok = store.Get("k1")
	testutil.AssertFalse(t, ok, "should miss after expiry")
	testutil.AssertEqual(t, store.Size(), 0, "expired entry should be removed on read")
}

func TestMemoryStore_RefreshReplacesEntry(t *testing.T) {
	store := NewMemoryStore(10)

	store.Put("k1", "old", 0)
	store.Put("k1", "new", 0)

	v, ok := store.Get("k1")
	testutil.AssertTrue(t, ok, "should hit")
	testutil.AssertEqual(t, v, "new", "last write wins")
	testutil.AssertEqual(t, store.Size(), 1, "replacement should not grow the store")
}

func TestMemoryStore_LRUEviction(t *testing.T) {
	store := NewMemoryStore(3)

	store.Put("a", 1, 0)
	store.Put("b", 2, 0)
	store.Put("c", 3, 0)

	// Touch "a" so "b" becomes least recently used
	store.Get("a")

	store.Put("d", 4, 0)

	_, ok := store.Get("b")
	testutil.AssertFalse(t, ok, "LRU entry should be evicted")
	_, ok = store.Get("a")
	testutil.AssertTrue(t, ok, "recently used entry should survive")
	testutil.AssertEqual(t, store.Size(), 3, "size should stay at capacity")
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	store := NewMemoryStore(100)
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := fmt.Sprintf("key-%d", n%10)
			store.Put(key, n, time.Minute)
			store.Get(key)
		}(i)
	}

	wg.Wait()
	testutil.AssertEqual(t, store.Size(), 10, "concurrent puts to 10 keys should leave 10 entries")
}

func TestMemoryStore_Clear(t *testing.T) {
	store := NewMemoryStore(10)
	store.Put("k1", "v1", 0)
	store.Put("k2", "v2", 0)

	store.Clear()

	testutil.AssertEqual(t, store.Size(), 0, "clear should empty the store")
}
