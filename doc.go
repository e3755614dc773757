// Package owned implements a heap-object ownership runtime for Go:
// single-owner boxes, reference-counted shared handles, cycle-safe weak
// back-references, and a runtime-checked interior-mutability cell.
//
// # Overview
//
// The package reproduces, without compiler assistance, the invariants a
// borrow-checking compiler enforces statically:
//
//   - single-writer / multiple-reader exclusivity (Cell)
//   - deterministic deallocation (Box, Rc, the Heap slot table)
//   - cycle-safe back-references (Weak)
//
// Every handle allocates from a Heap, which tracks live allocations in a
// slot table with O(1) free-list reuse. The slot table is what makes
// deallocation observable: when the last handle to a value drops, its slot
// is freed, and LiveSlots goes back to zero.
//
// # Basic Usage
//
//	h := owned.NewHeap()
//	defer h.Close()
//
//	// Exclusive ownership: one owner, moved not copied.
//	b := owned.MustNewBox(h, 42)
//	*b.GetMut() = 43
//	b.Drop() // teardown runs exactly once
//
//	// Shared ownership: cloned owners, one payload.
//	a := owned.MustNewRc(h, "value")
//	c := a.Clone()        // strong count 2
//	w := a.Downgrade()    // weak count 1, payload lifetime unaffected
//	a.Drop()
//	c.Drop()              // payload torn down here
//	_, ok := w.Upgrade()  // ok == false: payload is gone
//	w.Drop()              // control block slot freed
//
// # Interior Mutability
//
// A Cell grants read or write views of a value reachable through shared
// handles, enforcing at runtime that one writer excludes everything else:
//
//	cell := owned.NewCell(0)
//	r, _ := cell.Borrow()
//	_, err := cell.BorrowMut() // fails: errors.Is(err, owned.ErrBorrowConflict)
//	r.Release()
//	wg, _ := cell.BorrowMut()  // succeeds now
//	*wg.Get() = 7
//	wg.Release()
//
// Borrow conflicts are ordinary recoverable errors. Everything else in
// this package either succeeds or, on contract violations such as use
// after move or a double guard release, panics.
//
// # Breaking Cycles
//
// Two values that own each other through Rc handles never deallocate.
// Express at least one edge of any cycle as a Weak: a parent owning its
// children via Rc while children point back via Weak deallocates fully
// when the external handles drop. The package does not detect cycles; the
// weak/strong split is the contract.
//
// # Thread Safety
//
// The runtime is single-threaded by design: counts and borrow states are
// plain fields, and every operation runs to completion with no suspension
// point, which is what makes its check-then-update sequences indivisible.
// A thread-safe variant (atomic counts, mutex-guarded cells) is a separate
// system, deliberately not provided here.
//
// # Failure Model
//
// Two error kinds exist. ErrOutOfMemory is returned by creation when the
// heap's configured capacity is exhausted; callers usually treat it as
// fatal (MustNewBox, MustNewRc). ErrBorrowConflict and its two wrapped
// conditions are returned by cell borrows and are always recoverable.
//
// # Metrics and Monitoring
//
// The heap keeps allocation, free, teardown, clone and upgrade counters:
//
//	m := h.Metrics()
//	fmt.Printf("live slots: %d\n", m.LiveSlots)
//	fmt.Printf("finalizes:  %d\n", m.Finalizes)
//
// NewCollector adapts a Heap to a prometheus.Collector, and WithTrace
// logs every count transition to a slog.Logger for leak hunting.
package owned
