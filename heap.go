package owned

import "log/slog"

// DefaultSlotChunkSize is the default number of slots per chunk (256).
const DefaultSlotChunkSize = 256

// Heap is the allocator adapter behind every handle in this package. It
// hands out slots from fixed-size chunks and recycles freed slots through
// a free list, so allocation and deallocation are O(1). Each live Box and
// each Rc control block occupies exactly one slot; the slot table is what
// makes deallocation observable (see LiveSlots and Metrics).
//
// A Heap is not goroutine-safe. All handles derived from one Heap must be
// used from a single goroutine.
type Heap struct {
	chunks    [][]any // slot storage; nil entry = free slot
	free      []int   // reclaimed slot ids, reused LIFO
	next      int     // first never-used slot id
	slotChunk int     // slots per chunk
	capacity  int     // max live slots, 0 = unlimited
	live      int
	log       *slog.Logger

	// op counters, see metrics.go
	allocs        uint64
	frees         uint64
	finalizes     uint64
	clones        uint64
	downgrades    uint64
	upgrades      uint64
	upgradeMisses uint64
}

// Option configures a Heap.
type Option func(*Heap)

// WithSlotChunkSize sets the number of slots added per growth step.
// Values <= 0 fall back to DefaultSlotChunkSize.
func WithSlotChunkSize(n int) Option {
	return func(h *Heap) {
		if n > 0 {
			h.slotChunk = n
		}
	}
}

// WithCapacity caps the number of simultaneously live slots. Once the cap
// is reached, creation fails with ErrOutOfMemory until a handle is dropped.
// n <= 0 means unlimited.
func WithCapacity(n int) Option {
	return func(h *Heap) {
		if n > 0 {
			h.capacity = n
		}
	}
}

// WithTrace enables Debug-level tracing of every slot and handle event on
// the given logger. Nil disables tracing (the default).
func WithTrace(l *slog.Logger) Option {
	return func(h *Heap) {
		h.log = l
	}
}

// NewHeap creates a Heap with one pre-grown slot chunk.
func NewHeap(opts ...Option) *Heap {
	h := &Heap{slotChunk: DefaultSlotChunkSize}
	for _, opt := range opts {
		opt(h)
	}
	h.grow()
	return h
}

// Close drops the slot table and makes the heap unusable for allocation.
// Any subsequent creation panics. Dropping handles that are still live is
// permitted after Close; their slot frees become no-ops.
func (h *Heap) Close() {
	h.chunks = nil
	h.free = nil
}

// allocSlot stores v in a free slot and returns its id.
func (h *Heap) allocSlot(v any) (int, error) {
	h.panicIfClosed()
	if h.capacity > 0 && h.live >= h.capacity {
		h.trace("slot alloc rejected", "live", h.live, "capacity", h.capacity)
		return 0, ErrOutOfMemory
	}

	var id int
	if n := len(h.free); n > 0 {
		id = h.free[n-1]
		h.free = h.free[:n-1]
	} else {
		if h.next >= len(h.chunks)*h.slotChunk {
			h.grow()
		}
		id = h.next
		h.next++
	}

	h.chunks[id/h.slotChunk][id%h.slotChunk] = v
	h.live++
	h.allocs++
	h.trace("slot allocated", "slot", id, "live", h.live)
	return id, nil
}

// freeSlot releases a slot for reuse. Freeing after Close is a no-op so
// deferred handle drops stay safe during teardown.
func (h *Heap) freeSlot(id int) {
	if h.chunks == nil {
		return
	}
	h.chunks[id/h.slotChunk][id%h.slotChunk] = nil
	h.free = append(h.free, id)
	h.live--
	h.frees++
	h.trace("slot freed", "slot", id, "live", h.live)
}

// grow appends one slot chunk.
func (h *Heap) grow() {
	h.chunks = append(h.chunks, make([]any, h.slotChunk))
}

// panicIfClosed panics if the heap has been closed.
func (h *Heap) panicIfClosed() {
	if h.chunks == nil {
		panic("owned: heap use after Close()")
	}
}
