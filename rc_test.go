package owned

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRcCloneAndDropCounts(t *testing.T) {
	h := NewHeap()

	a := MustNewRc(h, "shared")
	require.Equal(t, 1, a.StrongCount())
	require.Equal(t, 0, a.WeakCount())

	b := a.Clone()
	assert.Equal(t, 2, a.StrongCount())
	assert.Same(t, a.Get(), b.Get(), "clones share one payload")

	a.Drop()
	assert.Equal(t, 1, b.StrongCount(), "payload still alive under one owner")
	assert.Equal(t, "shared", *b.Get())
	assert.Equal(t, 1, h.LiveSlots())

	b.Drop()
	assert.Equal(t, 0, h.LiveSlots(), "block freed with the last owner")
}

func TestRcStrongCountTracksLiveHandles(t *testing.T) {
	h := NewHeap()

	root := MustNewRc(h, 0)
	handles := []*Rc[int]{root}
	for i := 0; i < 9; i++ {
		handles = append(handles, root.Clone())
	}
	require.Equal(t, 10, root.StrongCount())

	for i, r := range handles[:9] {
		r.Drop()
		assert.Equal(t, 10-i-1, handles[9].StrongCount())
	}
	handles[9].Drop()
	assert.Equal(t, 0, h.LiveSlots())
}

func TestRcFinalizeExactlyOnce(t *testing.T) {
	h := NewHeap()
	var drops []int

	a := MustNewRc(h, &tracked{id: 1, drops: &drops})
	b := a.Clone()
	c := b.Clone()

	a.Drop()
	b.Drop()
	assert.Empty(t, drops, "teardown must wait for the last owner")

	c.Drop()
	assert.Equal(t, []int{1}, drops)

	// Redundant drops of consumed handles change nothing.
	a.Drop()
	c.Drop()
	assert.Equal(t, []int{1}, drops)
	assert.Equal(t, uint64(1), h.Metrics().Finalizes)
}

func TestRcExplicitDropHook(t *testing.T) {
	h := NewHeap()
	var got int

	r, err := NewRcFunc(h, 99, func(p *int) { got = *p })
	require.NoError(t, err)

	r.Drop()
	assert.Equal(t, 99, got, "hook sees the payload before it is cleared")
}

func TestRcUseAfterDropPanics(t *testing.T) {
	h := NewHeap()
	r := MustNewRc(h, 1)
	r.Drop()

	assert.False(t, r.IsValid())
	assert.Panics(t, func() { r.Get() })
	assert.Panics(t, func() { r.Clone() })
	assert.Panics(t, func() { r.StrongCount() })
	assert.Panics(t, func() { r.Downgrade() })
}

func TestRcTryUnwrap(t *testing.T) {
	t.Run("sole owner succeeds", func(t *testing.T) {
		h := NewHeap()
		var drops []int

		r := MustNewRc(h, &tracked{id: 5, drops: &drops})
		v, ok := r.TryUnwrap()
		require.True(t, ok)
		assert.Equal(t, 5, v.id)
		assert.Empty(t, drops, "unwrap hands the value over without finalizing")
		assert.Equal(t, 0, h.LiveSlots())
		assert.False(t, r.IsValid())
	})

	t.Run("shared owner fails", func(t *testing.T) {
		h := NewHeap()

		r := MustNewRc(h, 5)
		other := r.Clone()
		_, ok := r.TryUnwrap()
		assert.False(t, ok)
		assert.Equal(t, 2, r.StrongCount(), "failed unwrap leaves counts untouched")

		r.Drop()
		other.Drop()
	})

	t.Run("weak handles survive unwrap", func(t *testing.T) {
		h := NewHeap()

		r := MustNewRc(h, 5)
		w := r.Downgrade()
		_, ok := r.TryUnwrap()
		require.True(t, ok)

		_, live := w.Upgrade()
		assert.False(t, live, "unwrapped payload is dead to weak handles")
		assert.Equal(t, 1, h.LiveSlots(), "block slot held by the weak handle")

		w.Drop()
		assert.Equal(t, 0, h.LiveSlots())
	})
}
