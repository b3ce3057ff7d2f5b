// Package arena provides the growable word-aligned byte buffer backing a
// tree. Sizes and capacities are measured in 4-byte storage words; the
// byte view is always exactly size*4 bytes long.
package arena

import (
	"errors"

	"github.com/deploymenttheory/go-jsontree/internal/types"
)

// ErrLengthExceeded is returned when an operation would grow the buffer
// beyond the maximum addressable size.
var ErrLengthExceeded = errors.New("buffer length limit exceeded")

// minCapacityWords is the smallest capacity the growth policy will
// allocate.
const minCapacityWords = 15

// Arena is a growable buffer of storage words.
//
// Growing within existing capacity does not clear the newly exposed
// words unless zero-init is enabled, so content shrunk away may
// reappear. Callers that treat the buffer as sensitive enable zero-init.
type Arena struct {
	buf      []byte
	zeroInit bool
}

// New returns an empty arena.
func New() *Arena {
	return &Arena{}
}

// Adopt returns an arena holding a copy of the given snapshot bytes.
// The length must be a whole number of words.
func Adopt(data []byte) (*Arena, error) {
	if len(data)%types.WordSize != 0 || len(data)/types.WordSize > types.MaxWords {
		return nil, errors.New("snapshot length is not a valid word count")
	}
	a := &Arena{buf: make([]byte, len(data))}
	copy(a.buf, data)
	return a, nil
}

// Words returns the current size in words.
func (a *Arena) Words() uint32 {
	return uint32(len(a.buf) / types.WordSize)
}

// CapacityWords returns how large the arena can grow without
// reallocating, in words.
func (a *Arena) CapacityWords() uint32 {
	return uint32(cap(a.buf) / types.WordSize)
}

// Bytes returns the live byte view of the buffer. The view is
// invalidated by the next resize.
func (a *Arena) Bytes() []byte {
	return a.buf
}

// ZeroInit reports whether newly exposed words are cleared on growth.
func (a *Arena) ZeroInit() bool {
	return a.zeroInit
}

// SetZeroInit controls whether newly exposed words are cleared on
// growth. Freshly allocated memory is always zero regardless.
func (a *Arena) SetZeroInit(on bool) {
	a.zeroInit = on
}

// Resize sets the size to the given word count, growing capacity as
// needed. Shrinking never reallocates.
func (a *Arena) Resize(words uint32) error {
	if words > types.MaxWords {
		return ErrLengthExceeded
	}
	newLen := int(words) * types.WordSize
	switch {
	case newLen <= len(a.buf):
		a.buf = a.buf[:newLen]
	case newLen <= cap(a.buf):
		oldLen := len(a.buf)
		a.buf = a.buf[:newLen]
		if a.zeroInit {
			clear(a.buf[oldLen:])
		}
	default:
		capWords := grownCapacity(uint64(words))
		nb := make([]byte, newLen, int(capWords)*types.WordSize)
		copy(nb, a.buf)
		a.buf = nb
	}
	return nil
}

// Reserve grows capacity to at least the given word count without
// changing the size.
func (a *Arena) Reserve(words uint32) error {
	if words > types.MaxWords {
		return ErrLengthExceeded
	}
	if int(words)*types.WordSize <= cap(a.buf) {
		return nil
	}
	capWords := grownCapacity(uint64(words))
	nb := make([]byte, len(a.buf), int(capWords)*types.WordSize)
	copy(nb, a.buf)
	a.buf = nb
	return nil
}

// Clear resets the size to zero, keeping capacity.
func (a *Arena) Clear() {
	a.buf = a.buf[:0]
}

// Clone returns a deep copy with identical contents and settings.
func (a *Arena) Clone() *Arena {
	c := &Arena{zeroInit: a.zeroInit}
	if len(a.buf) > 0 {
		c.buf = make([]byte, len(a.buf))
		copy(c.buf, a.buf)
	}
	return c
}

// Swap exchanges the contents and settings of two arenas.
func (a *Arena) Swap(other *Arena) {
	a.buf, other.buf = other.buf, a.buf
	a.zeroInit, other.zeroInit = other.zeroInit, a.zeroInit
}

// grownCapacity returns the smallest 2^k-1 capacity that holds the
// requested word count, clamped to the addressable maximum and never
// below the minimum allocation.
func grownCapacity(minWords uint64) uint64 {
	c := uint64(minCapacityWords)
	for c < minWords {
		c = c*2 + 1
	}
	if c > types.MaxWords {
		c = types.MaxWords
	}
	return c
}
