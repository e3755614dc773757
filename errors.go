package owned

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfMemory indicates that the heap's configured slot capacity is
	// exhausted. Creation is the only operation that can return it.
	ErrOutOfMemory = errors.New("owned: heap capacity exhausted")

	// ErrBorrowConflict is the base error for every rejected cell borrow.
	// Use errors.Is(err, ErrBorrowConflict) to match both conditions below.
	// Borrow conflicts are recoverable: retry, queue, or abort the operation.
	ErrBorrowConflict = errors.New("owned: borrow conflict")

	// ErrAlreadyBorrowed indicates that BorrowMut was attempted while the
	// cell is borrowed, shared or exclusively.
	ErrAlreadyBorrowed = fmt.Errorf("%w: cell already borrowed", ErrBorrowConflict)

	// ErrAlreadyBorrowedMut indicates that Borrow was attempted while a
	// write guard is live on the cell.
	ErrAlreadyBorrowedMut = fmt.Errorf("%w: cell already exclusively borrowed", ErrBorrowConflict)
)
