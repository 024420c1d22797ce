package util

import (
	"sync"

	"golang.org/x/exp/constraints"
)

// Store[K,V] is a thread safe map holding at most capacity entries. Adding
// to a full store evicts the oldest entry.
type Store[K constraints.Ordered, V any] struct {
	m        map[K]V
	order    []K
	capacity int
	lock     *sync.Mutex
}

// NewStore[K,V] creates an empty Store. A capacity below one is treated as
// one.
func NewStore[K constraints.Ordered, V any](capacity int) *Store[K, V] {
	if capacity < 1 {
		capacity = 1
	}
	return &Store[K, V]{
		m:        make(map[K]V),
		capacity: capacity,
		lock:     new(sync.Mutex),
	}
}

func (s *Store[K, V]) Get(key K) (V, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()
	val, ok := s.m[key]
	return val, ok
}

// Add inserts or replaces the value of key
func (s *Store[K, V]) Add(key K, val V) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if _, ok := s.m[key]; !ok {
		s.order = append(s.order, key)
	}
	s.m[key] = val
	for len(s.order) > s.capacity {
		delete(s.m, s.order[0])
		s.order = s.order[1:]
	}
}

func (s *Store[K, V]) Size() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return len(s.m)
}

// Keys returns the stored keys in ascending order
func (s *Store[K, V]) Keys() []K {
	s.lock.Lock()
	defer s.lock.Unlock()
	return SortedKeys(s.m)
}
