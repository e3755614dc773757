package owned

// BorrowState is the observable borrow state of a Cell.
type BorrowState int8

const (
	// Unborrowed means no guard is live on the cell.
	Unborrowed BorrowState = iota
	// Shared means one or more read guards are live.
	Shared
	// Exclusive means exactly one write guard is live.
	Exclusive
)

// String returns a human-readable representation of the borrow state.
func (s BorrowState) String() string {
	switch s {
	case Unborrowed:
		return "unborrowed"
	case Shared:
		return "shared"
	case Exclusive:
		return "exclusive"
	default:
		return "?"
	}
}

// state encoding inside Cell: 0 unborrowed, n > 0 reader count, -1 writer.
const stateMut = -1

// Cell grants runtime-checked views of a value reachable through otherwise
// shared handles, typically an Rc payload. It enforces the exclusivity law
// a static checker proves at compile time: either one writer or any number
// of readers, never both. A conflicting borrow is a recoverable error
// wrapping ErrBorrowConflict, never a panic.
//
// The cell cannot distinguish a nested borrow on the same call stack from
// a concurrent one; callers must not hold a guard across another borrow
// attempt on the same cell they intend to satisfy.
type Cell[T any] struct {
	value T
	state int
}

// NewCell wraps v in a cell, initially unborrowed.
func NewCell[T any](v T) *Cell[T] {
	return &Cell[T]{value: v}
}

// Borrow acquires a shared read view. Any number of read guards may be
// live at once. Fails with ErrAlreadyBorrowedMut while a write guard is
// live.
func (c *Cell[T]) Borrow() (*ReadGuard[T], error) {
	if c.state == stateMut {
		return nil, ErrAlreadyBorrowedMut
	}
	c.state++
	return &ReadGuard[T]{cell: c}, nil
}

// BorrowMut acquires the exclusive write view. Fails with
// ErrAlreadyBorrowed while any guard, read or write, is live.
func (c *Cell[T]) BorrowMut() (*WriteGuard[T], error) {
	if c.state != 0 {
		return nil, ErrAlreadyBorrowed
	}
	c.state = stateMut
	return &WriteGuard[T]{cell: c}, nil
}

// Replace stores v in the cell and returns the previous value. It takes
// and releases the write view internally, so it fails under any live
// guard.
func (c *Cell[T]) Replace(v T) (T, error) {
	g, err := c.BorrowMut()
	if err != nil {
		var zero T
		return zero, err
	}
	old := c.value
	c.value = v
	g.Release()
	return old, nil
}

// Take replaces the cell's value with the zero value and returns the old
// value. Same conflict rules as Replace.
func (c *Cell[T]) Take() (T, error) {
	var zero T
	return c.Replace(zero)
}

// BorrowState returns the current borrow state.
func (c *Cell[T]) BorrowState() BorrowState {
	switch {
	case c.state == stateMut:
		return Exclusive
	case c.state > 0:
		return Shared
	default:
		return Unborrowed
	}
}

// Readers returns the number of live read guards.
func (c *Cell[T]) Readers() int {
	if c.state > 0 {
		return c.state
	}
	return 0
}

// ReadGuard is a live shared view of a cell's value. Release it when done;
// the cell returns to unborrowed once the last read guard is released.
type ReadGuard[T any] struct {
	cell     *Cell[T]
	released bool
}

// Get returns a pointer to the guarded value. The view is shared: callers
// must treat it as read-only. Panics after Release.
func (g *ReadGuard[T]) Get() *T {
	if g.released {
		panic("owned: read guard use after Release()")
	}
	return &g.cell.value
}

// Release ends the shared view. Releasing the same guard twice panics;
// releasing a nil guard is a no-op so it composes with defer on failed
// borrows.
func (g *ReadGuard[T]) Release() {
	if g == nil {
		return
	}
	if g.released {
		panic("owned: read guard released twice")
	}
	g.released = true
	g.cell.state--
}

// WriteGuard is the live exclusive view of a cell's value.
type WriteGuard[T any] struct {
	cell     *Cell[T]
	released bool
}

// Get returns a pointer to the guarded value for reading or writing.
// Panics after Release.
func (g *WriteGuard[T]) Get() *T {
	if g.released {
		panic("owned: write guard use after Release()")
	}
	return &g.cell.value
}

// Release ends the exclusive view, returning the cell to unborrowed.
// Releasing the same guard twice panics; releasing a nil guard is a no-op.
func (g *WriteGuard[T]) Release() {
	if g == nil {
		return
	}
	if g.released {
		panic("owned: write guard released twice")
	}
	g.released = true
	g.cell.state = 0
}
