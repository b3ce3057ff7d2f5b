package jsontree

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func childNames(parent Cursor) []string {
	var names []string
	for it, end := parent.Begin(), parent.End(); it != end; it = it.Next() {
		names = append(names, it.Name())
	}
	return names
}

func TestEmptyBuilder(t *testing.T) {
	b := New()

	assert.True(t, b.Root().IsRoot())
	assert.Equal(t, TypeObject, b.Root().Type())
	assert.Equal(t, 0, b.Count(b.Root()))
	assert.Equal(t, b.Root().End(), b.Root().Begin())
	assert.Equal(t, b.Root(), b.First())
	assert.Zero(t, b.BufferSize())
	require.NoError(t, b.Validate())
}

func TestFirstInsertionCreatesRoot(t *testing.T) {
	b := New()

	c, err := b.AddString(b.Root(), "greeting", "hello")
	require.NoError(t, err)

	assert.Equal(t, uint32(0), b.BufferSize()%4)
	assert.Equal(t, 1, b.Count(b.Root()))
	assert.Equal(t, "greeting", c.Name())
	assert.Equal(t, TypeUtf8, c.Type())
	assert.Equal(t, "hello", c.Str())
	assert.Equal(t, c, b.Root().Begin())
	assert.Equal(t, c, b.First())
}

func TestInsertionOrderFrontAndBack(t *testing.T) {
	b := New()
	root := b.Root()

	_, err := b.AddString(root, "a", "1")
	require.NoError(t, err)
	_, err = b.AddString(root, "b", "2")
	require.NoError(t, err)
	_, err = b.AddValue(true, root, "z", TypeUtf8, []byte("0"))
	require.NoError(t, err)

	assert.Equal(t, []string{"z", "a", "b"}, childNames(root))
	assert.Equal(t, 3, b.Count(root))
}

func TestFrontInsertionIntoEmptyParent(t *testing.T) {
	b := New()
	obj, err := b.AddObject(b.Root(), "obj")
	require.NoError(t, err)

	c, err := b.AddValue(true, obj, "only", TypeNull, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"only"}, childNames(obj))
	assert.Equal(t, c, obj.Begin())
	assert.Equal(t, obj.End(), c.Next())
}

func TestNestedComposites(t *testing.T) {
	b := New()
	root := b.Root()

	obj, err := b.AddObject(root, "obj")
	require.NoError(t, err)
	inner, err := b.AddObject(obj, "inner")
	require.NoError(t, err)
	_, err = b.AddString(inner, "leaf", "v")
	require.NoError(t, err)
	_, err = b.AddString(obj, "tail", "w")
	require.NoError(t, err)
	arr, err := b.AddArray(root, "arr")
	require.NoError(t, err)
	_, err = b.AddInt(arr, "", 7)
	require.NoError(t, err)

	assert.Equal(t, []string{"obj", "arr"}, childNames(root))
	assert.Equal(t, []string{"inner", "tail"}, childNames(obj))
	assert.Equal(t, []string{"leaf"}, childNames(inner))
	assert.Equal(t, 1, b.Count(arr))
	require.NoError(t, b.Validate())
}

func TestAddValueLengthErrors(t *testing.T) {
	b := New()

	_, err := b.AddString(b.Root(), strings.Repeat("n", NameMax+1), "v")
	require.ErrorIs(t, err, ErrLengthExceeded)

	// A failed insertion leaves the tree usable.
	_, err = b.AddString(b.Root(), "ok", "v")
	require.NoError(t, err)
	assert.Equal(t, 1, b.Count(b.Root()))
}

func TestAddValuePanics(t *testing.T) {
	b := New()
	leaf, err := b.AddString(b.Root(), "leaf", "v")
	require.NoError(t, err)

	assert.Panics(t, func() {
		b.AddValue(false, leaf, "child", TypeNull, nil) //nolint:errcheck
	}, "leaf parent")
	assert.Panics(t, func() {
		b.AddValue(false, b.Root(), "x", TypeObject, []byte("data")) //nolint:errcheck
	}, "composite with payload")
	assert.Panics(t, func() {
		b.AddValue(false, b.Root(), "x", TypeHidden, nil) //nolint:errcheck
	}, "hidden type")
	assert.Panics(t, func() {
		b.AddValue(false, b.Root(), "x", Type(210), nil) //nolint:errcheck
	}, "reserved type")

	other := New()
	assert.Panics(t, func() {
		b.AddValue(false, other.Root(), "x", TypeNull, nil) //nolint:errcheck
	}, "cursor from another builder")
}

func TestErase(t *testing.T) {
	b := New()
	root := b.Root()
	_, err := b.AddString(root, "a", "1")
	require.NoError(t, err)
	victim, err := b.AddString(root, "b", "2")
	require.NoError(t, err)
	c, err := b.AddString(root, "c", "3")
	require.NoError(t, err)

	next := b.Erase(victim)
	assert.Equal(t, c, next)
	assert.Equal(t, []string{"a", "c"}, childNames(root))
	assert.Equal(t, 2, b.Count(root))

	// Erasing an already-hidden node has no further effect.
	next = b.Erase(victim)
	assert.Equal(t, c, next)
	assert.Equal(t, 2, b.Count(root))

	assert.Panics(t, func() { b.Erase(b.Root()) })
}

func TestEraseRange(t *testing.T) {
	b := New()
	root := b.Root()
	for _, name := range []string{"a", "b", "c", "d"} {
		_, err := b.AddString(root, name, name)
		require.NoError(t, err)
	}

	begin := root.Begin().Next()
	end := b.EraseRange(begin, root.End())
	assert.Equal(t, root.End(), end)
	assert.Equal(t, []string{"a"}, childNames(root))
}

func TestFindPath(t *testing.T) {
	b := New()
	root := b.Root()
	a1, err := b.AddObject(root, "a1")
	require.NoError(t, err)
	a2, err := b.AddObject(a1, "a2")
	require.NoError(t, err)
	a3, err := b.AddInt(a2, "a3", 0)
	require.NoError(t, err)
	b1, err := b.AddObject(root, "b1")
	require.NoError(t, err)

	assert.Equal(t, a3, b.Find(root, "a1", "a2", "a3"))
	assert.True(t, b.Find(root, "a1", "a2", "x").IsRoot())
	assert.True(t, b.Find(b1, "a2").IsRoot())
	assert.Equal(t, a2, b.Find(a1, "a2"))
}

func TestFindSkipsHiddenChildren(t *testing.T) {
	b := New()
	root := b.Root()
	first, err := b.AddString(root, "dup", "first")
	require.NoError(t, err)
	second, err := b.AddString(root, "dup", "second")
	require.NoError(t, err)

	assert.Equal(t, first, b.Find(root, "dup"))
	b.Erase(first)
	assert.Equal(t, second, b.Find(root, "dup"))
}

func TestSpliceBackMovesSelectedChildren(t *testing.T) {
	b := New()
	src, err := b.AddObject(b.Root(), "src")
	require.NoError(t, err)
	dst, err := b.AddObject(b.Root(), "dst")
	require.NoError(t, err)
	for _, name := range []string{"k1", "x1", "k2", "x2", "k3"} {
		_, err = b.AddString(src, name, "v-"+name)
		require.NoError(t, err)
	}

	b.SpliceBack(src, dst, func(c Cursor) bool {
		return strings.HasPrefix(c.Name(), "x")
	})

	assert.Equal(t, []string{"k1", "k2", "k3"}, childNames(src))
	assert.Equal(t, []string{"x1", "x2"}, childNames(dst))
	assert.Equal(t, "v-x1", b.Find(dst, "x1").Str(), "payloads move untouched")
	require.NoError(t, b.Validate())

	// Further insertion into both parents still lands at the back.
	_, err = b.AddString(src, "k4", "v")
	require.NoError(t, err)
	_, err = b.AddString(dst, "x3", "v")
	require.NoError(t, err)
	assert.Equal(t, []string{"k1", "k2", "k3", "k4"}, childNames(src))
	assert.Equal(t, []string{"x1", "x2", "x3"}, childNames(dst))
}

func TestSpliceFrontMovesAllChildren(t *testing.T) {
	b := New()
	src, err := b.AddObject(b.Root(), "src")
	require.NoError(t, err)
	dst, err := b.AddObject(b.Root(), "dst")
	require.NoError(t, err)
	for _, name := range []string{"a", "b"} {
		_, err = b.AddString(src, name, name)
		require.NoError(t, err)
	}
	_, err = b.AddString(dst, "old", "old")
	require.NoError(t, err)

	b.SpliceFront(src, dst, nil)

	assert.Empty(t, childNames(src))
	assert.Equal(t, []string{"a", "b", "old"}, childNames(dst))
	require.NoError(t, b.Validate())
}

func TestSpliceSameParent(t *testing.T) {
	b := New()
	parent, err := b.AddObject(b.Root(), "p")
	require.NoError(t, err)
	for _, name := range []string{"a", "b", "c"} {
		_, err = b.AddString(parent, name, name)
		require.NoError(t, err)
	}

	// Rotate "a" to the back of its own parent.
	b.SpliceBack(parent, parent, func(c Cursor) bool { return c.Name() == "a" })

	assert.Equal(t, []string{"b", "c", "a"}, childNames(parent))
	assert.Equal(t, 3, b.Count(parent))
	require.NoError(t, b.Validate())
}

func TestSpliceIntoLeafPanics(t *testing.T) {
	b := New()
	src, err := b.AddObject(b.Root(), "src")
	require.NoError(t, err)
	_, err = b.AddString(src, "a", "1")
	require.NoError(t, err)
	leaf, err := b.AddString(b.Root(), "leaf", "v")
	require.NoError(t, err)

	assert.Panics(t, func() { b.SpliceBack(src, leaf, nil) })
}

func TestSnapshotRoundTrip(t *testing.T) {
	b := New()
	obj, err := b.AddObject(b.Root(), "obj")
	require.NoError(t, err)
	_, err = b.AddString(obj, "str", "strval")
	require.NoError(t, err)
	_, err = b.AddUint(obj, "huge", 18446744073709551615)
	require.NoError(t, err)
	arr, err := b.AddArray(b.Root(), "arr")
	require.NoError(t, err)
	_, err = b.AddInt(arr, "", -9223372036854775808)
	require.NoError(t, err)

	snap := b.Snapshot()
	b2, err := NewFromSnapshot(snap, true)
	require.NoError(t, err)

	assert.True(t, b.Equal(b2))
	assert.Equal(t, snap, b2.Snapshot(), "snapshot-adopt-snapshot is byte identical")
	assert.Equal(t, uint64(18446744073709551615), b2.Find(b2.Root(), "obj", "huge").Uint())
}

func TestSnapshotRejectsMisalignedLength(t *testing.T) {
	b := New()
	_, err := b.AddString(b.Root(), "a", "1")
	require.NoError(t, err)

	snap := b.Snapshot()
	_, err = NewFromSnapshot(snap[:len(snap)-1], false)
	require.ErrorIs(t, err, ErrCorruptInput)
}

func TestAliasedPayloadSurvivesReallocation(t *testing.T) {
	b := New()
	src, err := b.AddString(b.Root(), "src", "payload-bytes")
	require.NoError(t, err)

	// Force reallocation on insert while the payload argument aliases
	// the backing buffer.
	// Each fill node occupies exactly 32 bytes, so the loop stops with
	// less free capacity than the final insertion needs.
	for b.BufferCapacity()-b.BufferSize() >= 32 {
		_, err = b.AddString(b.Root(), "fill", "ffffffffffffffff")
		require.NoError(t, err)
	}
	view := src.Payload()
	capBefore := b.BufferCapacity()
	c, err := b.AddValue(false, b.Root(), "copy", TypeUtf8, view)
	require.NoError(t, err)

	assert.Greater(t, b.BufferCapacity(), capBefore, "insertion reallocated")
	assert.Equal(t, "payload-bytes", c.Str())
}

func TestCloneIsIndependent(t *testing.T) {
	b := New()
	_, err := b.AddString(b.Root(), "a", "1")
	require.NoError(t, err)

	c := b.Clone()
	assert.True(t, b.Equal(c))

	_, err = c.AddString(c.Root(), "b", "2")
	require.NoError(t, err)
	assert.Equal(t, 1, b.Count(b.Root()))
	assert.Equal(t, 2, c.Count(c.Root()))
}

func TestSwapAndReset(t *testing.T) {
	a := New()
	_, err := a.AddString(a.Root(), "a", "1")
	require.NoError(t, err)
	b := New()

	a.Swap(b)
	assert.Equal(t, 0, a.Count(a.Root()))
	assert.Equal(t, 1, b.Count(b.Root()))

	b.Reset()
	assert.Equal(t, 0, b.Count(b.Root()))
	assert.Zero(t, b.BufferSize())
	assert.NotZero(t, b.BufferCapacity(), "reset keeps the allocation")
}

func TestBufferReserve(t *testing.T) {
	b, err := NewWithCapacity(1024)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, b.BufferCapacity(), uint32(1024))
	assert.Zero(t, b.BufferSize())

	sizeBefore := b.BufferCapacity()
	require.NoError(t, b.BufferReserve(16))
	assert.Equal(t, sizeBefore, b.BufferCapacity(), "reserve never shrinks")
}

func TestNameBoundaryLengths(t *testing.T) {
	for _, n := range []int{0, 1, 3, 4, 5} {
		name := strings.Repeat("n", n)
		b := New()
		c, err := b.AddString(b.Root(), name, "v")
		require.NoError(t, err)
		assert.Equal(t, name, c.Name())
		assert.Equal(t, "v", c.Str())
		require.NoError(t, b.Validate())
	}
}

func TestMaximumNameLength(t *testing.T) {
	name := strings.Repeat("n", NameMax)
	b := New()
	c, err := b.AddString(b.Root(), name, "v")
	require.NoError(t, err)

	assert.Equal(t, name, c.Name())
	assert.Equal(t, "v", c.Str())
	require.NoError(t, b.Validate())

	b2, err := NewFromSnapshot(b.Snapshot(), true)
	require.NoError(t, err)
	assert.Equal(t, name, b2.Root().Begin().Name())
}

func TestPayloadBoundaryLengths(t *testing.T) {
	for _, n := range []int{0, 1, 3, 4, 5, 8} {
		payload := []byte(strings.Repeat("p", n))
		b := New()
		c, err := b.AddValue(false, b.Root(), "v", TypeUtf8, payload)
		require.NoError(t, err)
		assert.Equal(t, uint32(n), c.PayloadSize())
		assert.Equal(t, payload, append([]byte{}, c.Payload()...))
		require.NoError(t, b.Validate())
	}
}

func TestReducePayloadSize(t *testing.T) {
	b := New()
	c, err := b.AddString(b.Root(), "s", "abcdef")
	require.NoError(t, err)

	c.ReducePayloadSize(3)
	assert.Equal(t, "abc", c.Str())

	assert.Panics(t, func() { c.ReducePayloadSize(4) })
}

func TestUTF16AndLatin1Input(t *testing.T) {
	b := New()

	// "héllo" in UTF-16, and an unpaired surrogate.
	c, err := b.AddStringUTF16(b.Root(), "s16", []uint16{'h', 0xE9, 'l', 'l', 'o'})
	require.NoError(t, err)
	assert.Equal(t, "héllo", c.Str())

	c, err = b.AddStringUTF16(b.Root(), "bad", []uint16{0xD800})
	require.NoError(t, err)
	assert.Equal(t, "�", c.Str())

	c, err = b.AddStringLatin1(b.Root(), "s1", []byte{'c', 0xE9})
	require.NoError(t, err)
	assert.Equal(t, "cé", c.Str())

	c, err = b.AddValueUTF16Name(false, b.Root(), []uint16{'n', 0xE9}, TypeNull, nil)
	require.NoError(t, err)
	assert.Equal(t, "né", c.Name())
}
