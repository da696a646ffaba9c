// Package dedupe tracks scoring-run trigger request IDs for idempotency.
package dedupe

import (
	"context"
	"sync"
	"sync/atomic"
)

// Deduper records seen request IDs so that duplicate run triggers are
// acknowledged without starting a second run.
type Deduper interface {
	// SeenAndRecord atomically checks if id was seen and records it if not.
	// Returns true if id was already seen, false if it was newly recorded.
	// This is the ONLY method for deduplication - thread-safe and atomic.
	SeenAndRecord(ctx context.Context, id string) bool

	// Unrecord removes an ID from the seen set, allowing it to be retried.
	// This should only be used when a request was recorded but the run it
	// asked for failed to start.
	Unrecord(ctx context.Context, id string)

	Size() int64
}

// node is one entry in the doubly linked eviction list.
type node struct {
	id   string
	prev *node
	next *node
}

// reset clears the node state for reuse
func (n *node) reset() {
	n.id = ""
	n.prev = nil
	n.next = nil
}

// inMemoryDeduper keeps request IDs in memory.
// For bounded mode (maxSize > 0): a doubly linked list evicts the oldest
// entry once the registry is full, with sync.Pool reuse for nodes.
// For unbounded mode (maxSize <= 0): a plain map, no eviction.
type inMemoryDeduper struct {
	mu       sync.Mutex
	seen     map[string]*node // id -> node pointer for bounded mode, nil for unbounded
	head     *node            // most recently recorded
	tail     *node            // oldest entry, evicted first
	maxSize  int              // maximum number of IDs to keep in memory (0 or negative = UNBOUNDED)
	size     atomic.Int64     // current number of entries (atomic)
	nodePool sync.Pool        // pool for reusing node objects
}

// NewInMemoryDeduper creates a new in-memory deduper with configuration options.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{
		maxSize: 4096, // default max size
	}

	// Apply all options
	for _, opt := range opts {
		opt(d)
	}

	// Initialize the seen map
	d.seen = make(map[string]*node)

	// Initialize sync.Pool for node reuse in bounded mode
	if d.maxSize > 0 {
		d.nodePool = sync.Pool{
			New: func() interface{} {
				return &node{}
			},
		}
	}

	return d
}

// SeenAndRecord atomically checks if id was seen and records it if not.
// Returns true if id was already seen, false if it was newly recorded.
func (d *inMemoryDeduper) SeenAndRecord(ctx context.Context, id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	// Check if already seen
	if _, exists := d.seen[id]; exists {
		return true // Already seen
	}

	if d.maxSize > 0 {
		// BOUNDED MODE: evict the oldest before adding the new entry
		if len(d.seen) >= d.maxSize {
			d.evictOldest()
		}

		n := d.nodePool.Get().(*node)
		n.id = id
		d.push(n)
		d.seen[id] = n
	} else {
		// UNBOUNDED MODE: just use the map
		d.seen[id] = nil
	}
	d.size.Add(1)
	return false // Newly recorded
}

// Unrecord removes an ID from the seen set, allowing it to be retried.
func (d *inMemoryDeduper) Unrecord(ctx context.Context, id string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	n, exists := d.seen[id]
	if !exists {
		return
	}
	delete(d.seen, id)

	if d.maxSize > 0 && n != nil {
		d.unlink(n)
		n.reset()
		d.nodePool.Put(n)
	}
	d.size.Add(-1)
}

// push links n in as the new head. Must be called with d.mu held.
func (d *inMemoryDeduper) push(n *node) {
	n.next = d.head
	if d.head != nil {
		d.head.prev = n
	}
	d.head = n
	if d.tail == nil {
		d.tail = n
	}
}

// unlink removes n from the list. Must be called with d.mu held.
func (d *inMemoryDeduper) unlink(n *node) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		d.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		d.tail = n.prev
	}
}

// evictOldest drops the tail entry to make room for a new one.
// Must be called with d.mu held.
func (d *inMemoryDeduper) evictOldest() {
	n := d.tail
	if n == nil {
		return
	}
	d.unlink(n)
	delete(d.seen, n.id)
	n.reset()
	d.nodePool.Put(n)
	d.size.Add(-1)
}

// Size returns the current number of entries in the deduper.
func (d *inMemoryDeduper) Size() int64 {
	return d.size.Load()
}
