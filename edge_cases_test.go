package owned_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pavanmanishd/owned"
)

func TestChurnReusesSlots(t *testing.T) {
	h := owned.NewHeap(owned.WithSlotChunkSize(16))

	// Thousands of alloc/drop cycles must never grow past one chunk.
	for i := 0; i < 5000; i++ {
		r := owned.MustNewRc(h, i)
		w := r.Downgrade()
		r.Drop()
		w.Drop()
	}

	assert.Equal(t, 0, h.LiveSlots())
	assert.Equal(t, 1, h.NumChunks())
	assert.Equal(t, uint64(5000), h.Metrics().Allocs)
	assert.Equal(t, uint64(5000), h.Metrics().Frees)
}

func TestPayloadShapes(t *testing.T) {
	h := owned.NewHeap()
	defer h.Close()

	t.Run("zero-size struct", func(t *testing.T) {
		b := owned.MustNewBox(h, struct{}{})
		assert.NotNil(t, b.Get())
		b.Drop()
	})

	t.Run("large value", func(t *testing.T) {
		var big [4096]byte
		big[4095] = 0xAA
		r := owned.MustNewRc(h, big)
		c := r.Clone()
		assert.Same(t, r.Get(), c.Get(), "clone must not copy the payload")
		assert.EqualValues(t, 0xAA, r.Get()[4095])
		r.Drop()
		c.Drop()
	})

	t.Run("nil interface payload", func(t *testing.T) {
		b := owned.MustNewBox[error](h, nil)
		assert.Nil(t, *b.Get())
		b.Drop()
	})

	t.Run("map payload through cell", func(t *testing.T) {
		cell := owned.NewCell(map[string]int{"a": 1})
		w, err := cell.BorrowMut()
		require.NoError(t, err)
		(*w.Get())["b"] = 2
		w.Release()

		r, err := cell.Borrow()
		require.NoError(t, err)
		assert.Len(t, *r.Get(), 2)
		r.Release()
	})
}

func TestManyWeakHandlesOneBlock(t *testing.T) {
	h := owned.NewHeap(owned.WithSlotChunkSize(4))

	r := owned.MustNewRc(h, "v")
	weaks := make([]*owned.Weak[string], 100)
	for i := range weaks {
		weaks[i] = r.Downgrade()
	}
	require.Equal(t, 100, r.WeakCount())
	require.Equal(t, 1, h.LiveSlots(), "weak handles share the one block slot")

	r.Drop()
	for _, w := range weaks[:99] {
		w.Drop()
	}
	assert.Equal(t, 1, h.LiveSlots(), "last weak handle still holds the slot")
	weaks[99].Drop()
	assert.Equal(t, 0, h.LiveSlots())
}

func TestRcInsideCellInsideRc(t *testing.T) {
	// The composition from the overview: shared handle to a cell that
	// permits controlled mutation of the shared state.
	h := owned.NewHeap()
	defer h.Close()

	counter := owned.MustNewRc(h, owned.NewCell(0))
	mirror := counter.Clone()

	for i := 0; i < 3; i++ {
		w, err := (*counter.Get()).BorrowMut()
		require.NoError(t, err)
		*w.Get()++
		w.Release()
	}

	r, err := (*mirror.Get()).Borrow()
	require.NoError(t, err)
	assert.Equal(t, 3, *r.Get(), "mutation is visible through every clone")
	r.Release()

	counter.Drop()
	mirror.Drop()
}

func TestCapacityCountsWeakHeldBlocks(t *testing.T) {
	h := owned.NewHeap(owned.WithCapacity(1))

	r := owned.MustNewRc(h, 1)
	w := r.Downgrade()
	r.Drop()

	// Payload is gone but the block slot is weak-held, so the heap is
	// still full.
	_, err := owned.NewRc(h, 2)
	require.ErrorIs(t, err, owned.ErrOutOfMemory)

	w.Drop()
	_, err = owned.NewRc(h, 2)
	assert.NoError(t, err)
}

func TestTraceLogsCountTransitions(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	h := owned.NewHeap(owned.WithTrace(logger))
	r := owned.MustNewRc(h, 1)
	c := r.Clone()
	w := r.Downgrade()
	c.Drop()
	r.Drop()
	_, _ = w.Upgrade()
	w.Drop()

	out := buf.String()
	for _, want := range []string{
		"slot allocated",
		"rc cloned",
		"rc downgraded",
		"rc dropped",
		"weak upgrade missed",
		"weak dropped",
		"slot freed",
	} {
		assert.Contains(t, out, want)
	}
}

func TestDeepOwnershipChain(t *testing.T) {
	// A linked chain where each node strongly owns the next. Dropping
	// the head's handle tears the whole chain down through the hooks.
	type link struct {
		next *owned.Rc[any]
	}
	dropLink := func(p *any) {
		(*p).(*link).next.Drop()
	}

	h := owned.NewHeap()

	var next *owned.Rc[any]
	for i := 0; i < 50; i++ {
		n, err := owned.NewRcFunc[any](h, &link{next: next}, dropLink)
		require.NoError(t, err)
		next = n
	}
	require.Equal(t, 50, h.LiveSlots())

	next.Drop()
	assert.Equal(t, 0, h.LiveSlots(), "teardown cascades through the chain")
	assert.Equal(t, uint64(50), h.Metrics().Finalizes)
}
