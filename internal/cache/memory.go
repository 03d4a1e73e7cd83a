package cache

import (
	"container/list"
	"sync"
	"time"
)

// MemoryStore is a bounded in-process key-value store with per-entry TTL and
// least-recently-used eviction. It is the fallback tier behind the durable
// cache, so it must keep working when nothing else does.
//
// All methods are safe for concurrent use.
type MemoryStore struct {
	mu       sync.Mutex
	capacity int
	entries  map[string]*list.Element
	order    *list.List // front = most recently used
	now      func() time.Time
}

type memoryEntry struct {
	key    string
	value  []byte
	expiry time.Time
}

// MemoryOption configures a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithClock overrides the time source. Used by tests to drive TTL expiry
// without sleeping.
func WithClock(now func() time.Time) MemoryOption {
	return func(s *MemoryStore) {
		s.now = now
	}
}

func NewMemoryStore(capacity int, opts ...MemoryOption) *MemoryStore {
	if capacity <= 0 {
		capacity = 100
	}

	s := &MemoryStore{
		capacity: capacity,
		entries:  make(map[string]*list.Element),
		order:    list.New(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the value for key, or false if the key is absent or expired.
// Expired entries are evicted on the spot. A hit refreshes recency.
func (s *MemoryStore) Get(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	elem, ok := s.entries[key]
	if !ok {
		return nil, false
	}

	entry := elem.Value.(*memoryEntry)
	if s.now().After(entry.expiry) {
		s.removeElement(elem)
		return nil, false
	}

	s.order.MoveToFront(elem)
	return entry.value, true
}

// Set stores value under key for ttl. Inserting past capacity evicts the
// least-recently-used entry first.
func (s *MemoryStore) Set(key string, value []byte, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiry := s.now().Add(ttl)

	if elem, ok := s.entries[key]; ok {
		entry := elem.Value.(*memoryEntry)
		entry.value = value
		entry.expiry = expiry
		s.order.MoveToFront(elem)
		return
	}

	if s.order.Len() >= s.capacity {
		if oldest := s.order.Back(); oldest != nil {
			s.removeElement(oldest)
		}
	}

	elem := s.order.PushFront(&memoryEntry{key: key, value: value, expiry: expiry})
	s.entries[key] = elem
}

// Len reports the number of live entries, counting expired-but-unevicted ones.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.order.Len()
}

func (s *MemoryStore) removeElement(elem *list.Element) {
	entry := elem.Value.(*memoryEntry)
	delete(s.entries, entry.key)
	s.order.Remove(elem)
}
