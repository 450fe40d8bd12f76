// Package pending keeps issued, unanswered items until they are taken back
// exactly once.
package pending

import (
	"sync"

	"github.com/google/uuid"
)

const defaultMaxSize = 256

// node is an entry in the insertion-ordered list.
type node[T any] struct {
	id         string
	value      T
	prev, next *node[T]
}

// Registry maps ids to items. Take removes the item, so each id resolves at
// most once. It is safe for concurrent use.
type Registry[T any] struct {
	mu   sync.Mutex
	opts options

	items      map[string]*node[T]
	head, tail *node[T] // head is the oldest
}

// New creates a Registry bounded to 256 entries unless configured otherwise.
func New[T any](opts ...Option) *Registry[T] {
	o := options{maxSize: defaultMaxSize, newID: uuid.NewString}
	for _, opt := range opts {
		opt(&o)
	}
	return &Registry[T]{opts: o, items: make(map[string]*node[T])}
}

// Put stores v under a fresh id and returns the id.
func (r *Registry[T]) Put(v T) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.opts.maxSize > 0 {
		for len(r.items) >= r.opts.maxSize {
			r.evictOldest()
		}
	}

	n := &node[T]{id: r.opts.newID(), value: v, prev: r.tail}
	if r.tail != nil {
		r.tail.next = n
	} else {
		r.head = n
	}
	r.tail = n
	r.items[n.id] = n
	return n.id
}

// Take removes and returns the item stored under id.
func (r *Registry[T]) Take(id string) (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.items[id]
	if !ok {
		var zero T
		return zero, false
	}
	r.unlink(n)
	return n.value, true
}

// Peek returns the item under id without removing it.
func (r *Registry[T]) Peek(id string) (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if n, ok := r.items[id]; ok {
		return n.value, true
	}
	var zero T
	return zero, false
}

// Len is the number of stored items.
func (r *Registry[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

// Each calls fn for every item, oldest first, with the lock held.
func (r *Registry[T]) Each(fn func(id string, v T)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for n := r.head; n != nil; n = n.next {
		fn(n.id, n.value)
	}
}

// evictOldest must be called with r.mu held.
func (r *Registry[T]) evictOldest() {
	n := r.head
	if n == nil {
		return
	}
	r.unlink(n)
	if r.opts.onEvict != nil {
		r.opts.onEvict(n.id, n.value)
	}
}

// unlink must be called with r.mu held.
func (r *Registry[T]) unlink(n *node[T]) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		r.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		r.tail = n.prev
	}
	n.prev, n.next = nil, nil
	delete(r.items, n.id)
}
