package jsontree

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addLeaf(t *testing.T, b *Builder, typ Type, payload []byte) Cursor {
	t.Helper()
	c, err := b.AddValue(false, b.Root(), "v", typ, payload)
	require.NoError(t, err)
	return c
}

func TestIntWidths(t *testing.T) {
	testCases := []struct {
		name     string
		payload  []byte
		expected int64
	}{
		{
			name:     "One byte sign extends",
			payload:  []byte{0xFF},
			expected: -1,
		},
		{
			name:     "Two bytes little endian",
			payload:  []byte{0x00, 0x80},
			expected: -32768,
		},
		{
			name:     "Four bytes little endian",
			payload:  []byte{0xFF, 0xFF, 0xFF, 0x7F},
			expected: 2147483647,
		},
		{
			name:     "Eight bytes most negative",
			payload:  []byte{0, 0, 0, 0, 0, 0, 0, 0x80},
			expected: -9223372036854775808,
		},
		{
			name:     "Invalid width reads as zero",
			payload:  []byte{1, 2, 3},
			expected: 0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			b := New()
			c := addLeaf(t, b, TypeInt, tc.payload)
			assert.Equal(t, tc.expected, c.Int())
		})
	}
}

func TestUintWidths(t *testing.T) {
	testCases := []struct {
		name     string
		payload  []byte
		expected uint64
	}{
		{
			name:     "One byte",
			payload:  []byte{0xFF},
			expected: 255,
		},
		{
			name:     "Two bytes",
			payload:  []byte{0x34, 0x12},
			expected: 0x1234,
		},
		{
			name:     "Four bytes",
			payload:  []byte{0xFF, 0xFF, 0xFF, 0xFF},
			expected: 4294967295,
		},
		{
			name:     "Eight bytes maximum",
			payload:  []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF},
			expected: 18446744073709551615,
		},
		{
			name:     "Invalid width reads as zero",
			payload:  []byte{1, 2, 3, 4, 5},
			expected: 0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			b := New()
			c := addLeaf(t, b, TypeUint, tc.payload)
			assert.Equal(t, tc.expected, c.Uint())
		})
	}
}

func TestScalarRoundTrips(t *testing.T) {
	b := New()
	root := b.Root()
	u := uuid.MustParse("CD8D0A5E-6409-4B8E-9366-B815CEF0E35D")
	ts := FileTimeFromTime(time.Date(2015, 4, 2, 2, 9, 14, 792765200, time.UTC))

	i, err := b.AddInt(root, "i", -42)
	require.NoError(t, err)
	un, err := b.AddUint(root, "u", 42)
	require.NoError(t, err)
	f, err := b.AddFloat(root, "f", 3.5)
	require.NoError(t, err)
	bo, err := b.AddBool(root, "b", true)
	require.NoError(t, err)
	s, err := b.AddString(root, "s", "text")
	require.NoError(t, err)
	tm, err := b.AddTime(root, "t", ts)
	require.NoError(t, err)
	id, err := b.AddUUID(root, "g", u)
	require.NoError(t, err)
	nl, err := b.AddNull(root, "n")
	require.NoError(t, err)

	assert.Equal(t, int64(-42), i.Int())
	assert.Equal(t, uint64(42), un.Uint())
	assert.Equal(t, 3.5, f.Float())
	assert.True(t, bo.Bool())
	assert.Equal(t, "text", s.Str())
	assert.Equal(t, ts, tm.Time())
	assert.Equal(t, u, id.UUID())
	assert.Equal(t, TypeNull, nl.Type())
	assert.Zero(t, nl.PayloadSize())
}

func TestBoolWidths(t *testing.T) {
	b := New()
	assert.True(t, addLeaf(t, b, TypeBool, []byte{0, 0, 1, 0}).Bool())
	assert.False(t, addLeaf(t, b, TypeBool, []byte{0, 0, 0, 0}).Bool())
	assert.False(t, addLeaf(t, b, TypeBool, []byte{1, 1}).Bool(), "invalid width reads as false")
}

func TestConversions(t *testing.T) {
	b := New()
	root := b.Root()
	intNeg, err := b.AddInt(root, "intNeg", -2)
	require.NoError(t, err)
	intPos, err := b.AddInt(root, "intPos", 7)
	require.NoError(t, err)
	uintBig, err := b.AddUint(root, "uintBig", 1<<63)
	require.NoError(t, err)
	uintSmall, err := b.AddUint(root, "uintSmall", 9)
	require.NoError(t, err)
	floatVal, err := b.AddFloat(root, "floatVal", 1.5)
	require.NoError(t, err)
	floatHuge, err := b.AddFloat(root, "floatHuge", 1e300)
	require.NoError(t, err)
	str, err := b.AddString(root, "str", "x")
	require.NoError(t, err)

	t.Run("AsUint", func(t *testing.T) {
		v, ok := uintBig.AsUint()
		assert.True(t, ok)
		assert.Equal(t, uint64(1)<<63, v)

		v, ok = intPos.AsUint()
		assert.True(t, ok)
		assert.Equal(t, uint64(7), v)

		_, ok = intNeg.AsUint()
		assert.False(t, ok, "negative int does not convert")

		v, ok = floatVal.AsUint()
		assert.True(t, ok)
		assert.Equal(t, uint64(1), v, "float truncates toward zero")

		_, ok = floatHuge.AsUint()
		assert.False(t, ok, "float beyond 2^64 does not convert")

		_, ok = str.AsUint()
		assert.False(t, ok)
	})

	t.Run("AsInt", func(t *testing.T) {
		v, ok := intNeg.AsInt()
		assert.True(t, ok)
		assert.Equal(t, int64(-2), v)

		v, ok = uintSmall.AsInt()
		assert.True(t, ok)
		assert.Equal(t, int64(9), v)

		_, ok = uintBig.AsInt()
		assert.False(t, ok, "uint at 2^63 does not convert")

		v, ok = floatVal.AsInt()
		assert.True(t, ok)
		assert.Equal(t, int64(1), v)

		_, ok = floatHuge.AsInt()
		assert.False(t, ok)
	})

	t.Run("AsFloat", func(t *testing.T) {
		v, ok := intNeg.AsFloat()
		assert.True(t, ok)
		assert.Equal(t, -2.0, v)

		v, ok = uintSmall.AsFloat()
		assert.True(t, ok)
		assert.Equal(t, 9.0, v)

		v, ok = floatVal.AsFloat()
		assert.True(t, ok)
		assert.Equal(t, 1.5, v)

		_, ok = str.AsFloat()
		assert.False(t, ok)
	})

	t.Run("AsString", func(t *testing.T) {
		v, ok := str.AsString()
		assert.True(t, ok)
		assert.Equal(t, "x", v)

		_, ok = intPos.AsString()
		assert.False(t, ok)
	})

	t.Run("AsBool", func(t *testing.T) {
		bc, err := b.AddBool(root, "flag", true)
		require.NoError(t, err)
		v, ok := bc.AsBool()
		assert.True(t, ok)
		assert.True(t, v)

		_, ok = intPos.AsBool()
		assert.False(t, ok)
	})

	t.Run("AsTimeAndUUID", func(t *testing.T) {
		ts := FileTimeFromTime(time.Unix(1000, 0))
		tc, err := b.AddTime(root, "when", ts)
		require.NoError(t, err)
		v, ok := tc.AsTime()
		assert.True(t, ok)
		assert.Equal(t, ts, v)

		u := uuid.MustParse("00010203-0405-0607-0809-0A0B0C0D0E0F")
		uc, err := b.AddUUID(root, "id", u)
		require.NoError(t, err)
		g, ok := uc.AsUUID()
		assert.True(t, ok)
		assert.Equal(t, u, g)

		_, ok = str.AsTime()
		assert.False(t, ok)
		_, ok = str.AsUUID()
		assert.False(t, ok)
	})
}

func TestEndCursorPreconditions(t *testing.T) {
	b := New()
	_, err := b.AddString(b.Root(), "a", "1")
	require.NoError(t, err)

	end := b.Root().End()
	assert.Panics(t, func() { _ = end.Name() })
	assert.Panics(t, func() { _ = end.Payload() })
	assert.Panics(t, func() { end.Next() })
}

func TestCompositeHasNoPayload(t *testing.T) {
	b := New()
	obj, err := b.AddObject(b.Root(), "obj")
	require.NoError(t, err)

	assert.Panics(t, func() { _ = obj.Payload() })
	assert.Empty(t, obj.Str(), "unchecked getters degrade to zero values")
	assert.Zero(t, obj.Int())
}

func TestFileTimeConversions(t *testing.T) {
	epoch := time.Unix(0, 0).UTC()
	assert.Equal(t, FileTime(116444736000000000), FileTimeFromTime(epoch))
	assert.Equal(t, epoch, FileTime(116444736000000000).Time())

	withTicks := FileTime(116444736000000000 + 7)
	assert.Equal(t, epoch.Add(700*time.Nanosecond), withTicks.Time())

	before := time.Date(1969, 12, 31, 23, 59, 58, 0, time.UTC)
	assert.Equal(t, before, FileTimeFromTime(before).Time())
}
