package owned

// Box is an exclusive single-owner heap handle. Exactly one valid Box
// exists per allocation: Move transfers ownership and invalidates the
// source, Drop finalizes the payload exactly once. There is no runtime
// borrow check on access because exclusivity is structural — a Box cannot
// be cloned, only moved.
//
// Using a Box after it has been moved or dropped panics.
type Box[T any] struct {
	ptr  *T
	drop func(*T)
	heap *Heap
	slot int
}

// NewBox allocates heap storage for v and returns its exclusive owner.
// Fails only with ErrOutOfMemory.
func NewBox[T any](h *Heap, v T) (*Box[T], error) {
	return NewBoxFunc(h, v, nil)
}

// NewBoxFunc is NewBox with an explicit teardown hook. The hook runs
// exactly once, when the box is dropped. A nil hook falls back to the
// payload's Finalizer implementation, if any.
func NewBoxFunc[T any](h *Heap, v T, drop func(*T)) (*Box[T], error) {
	p := new(T)
	*p = v
	slot, err := h.allocSlot(p)
	if err != nil {
		return nil, err
	}
	return &Box[T]{ptr: p, drop: dropHook(drop), heap: h, slot: slot}, nil
}

// MustNewBox is NewBox for callers that treat allocation failure as fatal.
func MustNewBox[T any](h *Heap, v T) *Box[T] {
	b, err := NewBox(h, v)
	if err != nil {
		panic(err)
	}
	return b
}

// Get returns a pointer to the boxed value.
func (b *Box[T]) Get() *T {
	b.panicIfInvalid()
	return b.ptr
}

// GetMut returns a mutable pointer to the boxed value. It is identical to
// Get — the box's structural exclusivity is what makes mutation safe.
func (b *Box[T]) GetMut() *T {
	b.panicIfInvalid()
	return b.ptr
}

// Move transfers ownership to a new handle and invalidates the receiver.
// The payload is not copied and its teardown hook does not run.
func (b *Box[T]) Move() *Box[T] {
	b.panicIfInvalid()
	moved := &Box[T]{ptr: b.ptr, drop: b.drop, heap: b.heap, slot: b.slot}
	b.ptr = nil
	return moved
}

// Into consumes the box and returns the payload by value. The teardown
// hook does not run; the caller takes over responsibility for the value.
func (b *Box[T]) Into() T {
	b.panicIfInvalid()
	v := *b.ptr
	b.heap.freeSlot(b.slot)
	b.ptr = nil
	return v
}

// Drop finalizes the payload and releases its slot. Dropping an already
// dropped or moved-out box is a no-op, so a deferred Drop composes with
// Move and Into.
func (b *Box[T]) Drop() {
	if b == nil || b.ptr == nil {
		return
	}
	if b.drop != nil {
		b.drop(b.ptr)
	}
	b.heap.finalizes++
	b.heap.freeSlot(b.slot)
	b.ptr = nil
}

// IsValid reports whether the box still owns its payload. False after
// Move, Into, or Drop. Safe to call on a nil box.
func (b *Box[T]) IsValid() bool {
	return b != nil && b.ptr != nil
}

func (b *Box[T]) panicIfInvalid() {
	if b.ptr == nil {
		panic("owned: box use after move or Drop()")
	}
}
