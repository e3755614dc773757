package owned

// Weak is a non-owning handle derived from an Rc. It keeps the control
// block's slot allocated but does not keep the payload alive, which is
// what lets back-references exist inside an ownership cycle without
// preventing collection: make at least one edge of any cycle a Weak.
//
// A Weak cannot dereference its target. The only way to the payload is a
// successful Upgrade.
type Weak[T any] struct {
	ctl *control[T]
}

// Upgrade attempts to re-obtain ownership. If the payload is still alive
// it increments the strong count and returns a new owning handle; if the
// last owner has already dropped it returns (nil, false). Both outcomes
// are ordinary results, not errors. The weak count never changes.
//
// The liveness check and the increment run with no suspension point
// between them, so the pair is indivisible on the single thread.
func (w *Weak[T]) Upgrade() (*Rc[T], bool) {
	w.panicIfDropped()
	c := w.ctl
	if c.strong == 0 {
		c.heap.upgradeMisses++
		c.heap.trace("weak upgrade missed", "slot", c.slot)
		return nil, false
	}
	c.strong++
	c.heap.upgrades++
	c.heap.trace("weak upgraded", "slot", c.slot, "strong", c.strong)
	return &Rc[T]{ctl: c}, true
}

// StrongCount returns the number of live owning handles; zero means the
// payload is gone and Upgrade will miss.
func (w *Weak[T]) StrongCount() int {
	w.panicIfDropped()
	return w.ctl.strong
}

// Drop releases this weak handle; the control block's slot is freed once
// both counts are zero. Dropping an already dropped handle is a no-op.
func (w *Weak[T]) Drop() {
	if w == nil || w.ctl == nil {
		return
	}
	c := w.ctl
	w.ctl = nil
	c.releaseWeak()
}

// IsValid reports whether the handle has not been dropped. Safe to call
// on a nil handle.
func (w *Weak[T]) IsValid() bool {
	return w != nil && w.ctl != nil
}

func (w *Weak[T]) panicIfDropped() {
	if w.ctl == nil {
		panic("owned: weak handle use after Drop()")
	}
}
