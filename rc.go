package owned

// control is the allocation unit shared by every Rc and Weak that refers
// to the same logical value. The payload is valid exactly while strong > 0;
// the block's slot stays allocated while strong > 0 or weak > 0.
type control[T any] struct {
	value  T
	strong int
	weak   int
	drop   func(*T)
	heap   *Heap
	slot   int
	freed  bool
}

// finalize tears the payload down and marks it absent. Runs exactly once
// per control block, on the strong 1→0 transition.
func (c *control[T]) finalize() {
	if c.drop != nil {
		c.drop(&c.value)
	}
	c.heap.finalizes++
	var zero T
	c.value = zero
}

// releaseStrong decrements the strong count. The decrement, the payload
// teardown and the both-zero slot check happen back to back with no
// suspension point; on the single thread of control that makes the
// sequence indivisible.
func (c *control[T]) releaseStrong() {
	c.strong--
	c.heap.trace("rc dropped", "slot", c.slot, "strong", c.strong, "weak", c.weak)
	if c.strong > 0 {
		return
	}
	c.finalize()
	c.maybeFree()
}

// releaseWeak decrements the weak count and frees the slot once both
// counts are zero.
func (c *control[T]) releaseWeak() {
	c.weak--
	c.heap.trace("weak dropped", "slot", c.slot, "strong", c.strong, "weak", c.weak)
	c.maybeFree()
}

// maybeFree releases the block's slot once both counts are zero. The
// freed flag keeps the release single-shot: a teardown hook that drops a
// weak back-reference to this very block would otherwise free it a second
// time from inside releaseStrong.
func (c *control[T]) maybeFree() {
	if c.freed || c.strong != 0 || c.weak != 0 {
		return
	}
	c.freed = true
	c.heap.freeSlot(c.slot)
}

// Rc is a reference-counted shared owner. Clone hands out additional
// owners in O(1); the payload is torn down when the last owner drops, and
// the control block's slot is released once no weak handles observe it
// either. The longest-lived handle therefore determines deallocation
// timing, deterministically.
//
// An Rc never exposes its payload after teardown: a handle that can reach
// Get is itself keeping strong >= 1.
type Rc[T any] struct {
	ctl *control[T]
}

// NewRc allocates a control block for v with strong = 1, weak = 0.
// Fails only with ErrOutOfMemory.
func NewRc[T any](h *Heap, v T) (*Rc[T], error) {
	return NewRcFunc(h, v, nil)
}

// NewRcFunc is NewRc with an explicit teardown hook, run when the last
// strong owner drops. A nil hook falls back to the payload's Finalizer
// implementation, if any.
func NewRcFunc[T any](h *Heap, v T, drop func(*T)) (*Rc[T], error) {
	c := &control[T]{value: v, strong: 1, drop: dropHook(drop), heap: h}
	slot, err := h.allocSlot(c)
	if err != nil {
		return nil, err
	}
	c.slot = slot
	return &Rc[T]{ctl: c}, nil
}

// MustNewRc is NewRc for callers that treat allocation failure as fatal.
func MustNewRc[T any](h *Heap, v T) *Rc[T] {
	r, err := NewRc(h, v)
	if err != nil {
		panic(err)
	}
	return r
}

// Clone returns a new owning handle to the same control block. O(1), no
// payload copy.
func (r *Rc[T]) Clone() *Rc[T] {
	r.panicIfDropped()
	c := r.ctl
	c.strong++
	c.heap.clones++
	c.heap.trace("rc cloned", "slot", c.slot, "strong", c.strong)
	return &Rc[T]{ctl: c}
}

// Get returns a pointer to the shared value.
func (r *Rc[T]) Get() *T {
	r.panicIfDropped()
	return &r.ctl.value
}

// StrongCount returns the number of live owning handles.
func (r *Rc[T]) StrongCount() int {
	r.panicIfDropped()
	return r.ctl.strong
}

// WeakCount returns the number of live weak handles.
func (r *Rc[T]) WeakCount() int {
	r.panicIfDropped()
	return r.ctl.weak
}

// Downgrade returns a non-owning weak handle to the same control block.
// The payload's lifetime is unaffected.
func (r *Rc[T]) Downgrade() *Weak[T] {
	r.panicIfDropped()
	c := r.ctl
	c.weak++
	c.heap.downgrades++
	c.heap.trace("rc downgraded", "slot", c.slot, "weak", c.weak)
	return &Weak[T]{ctl: c}
}

// Drop releases this owning handle. On the last owner the payload is
// finalized; the slot is freed once the weak count is also zero. Dropping
// an already dropped handle is a no-op so it composes with defer.
func (r *Rc[T]) Drop() {
	if r == nil || r.ctl == nil {
		return
	}
	c := r.ctl
	r.ctl = nil
	c.releaseStrong()
}

// TryUnwrap recovers sole ownership of the payload. It succeeds only when
// the receiver is the single owning handle; the value is returned without
// running the teardown hook and the handle is consumed. Outstanding weak
// handles observe a dead block afterwards.
func (r *Rc[T]) TryUnwrap() (T, bool) {
	r.panicIfDropped()
	c := r.ctl
	if c.strong != 1 {
		var zero T
		return zero, false
	}
	v := c.value
	var zero T
	c.value = zero
	c.strong = 0
	c.maybeFree()
	r.ctl = nil
	return v, true
}

// IsValid reports whether the handle has not been dropped. Safe to call
// on a nil handle.
func (r *Rc[T]) IsValid() bool {
	return r != nil && r.ctl != nil
}

func (r *Rc[T]) panicIfDropped() {
	if r.ctl == nil {
		panic("owned: rc use after Drop()")
	}
}
