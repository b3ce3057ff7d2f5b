package jsontree

import (
	"encoding/binary"
	"fmt"

	"github.com/deploymenttheory/go-jsontree/internal/types"
)

// Shadow map states, 2 bits per storage word. Head marks the first
// word of a node, Tail the remaining words of its record, Reached a
// head visited by the tree pass.
const (
	valNone    = 0
	valTail    = 1
	valHead    = 2
	valReached = 3

	mapBits    = 2
	mapPerByte = 8 / mapBits
	mapMask    = 1<<mapBits - 1
)

// validator checks an untrusted buffer for structural corruption
// before the builder dereferences any of its offsets.
type validator struct {
	buf   []byte
	words uint32
	m     []byte
}

// Validate checks the tree buffer for corruption: truncated or
// overlapping nodes, cycles, out-of-range offsets, reserved type tags,
// a malformed root, or nodes not reachable from the root. An empty
// buffer is valid. Returns an error wrapping ErrCorruptInput on the
// first defect found.
func (b *Builder) Validate() error {
	words := b.store.Words()
	if words == 0 {
		return nil
	}
	v := &validator{
		buf:   b.store.Bytes(),
		words: words,
		m:     make([]byte, (words+mapPerByte-1)/mapPerByte),
	}
	return v.validate()
}

func (v *validator) validate() error {
	// List pass: walk the global next-list from the root until it
	// returns to 0, marking every record's words. Rejects overlap,
	// cycles and truncation; only validated fields are dereferenced.
	index := uint32(0)
	for {
		if err := v.mark(uint64(index), valNone, valHead); err != nil {
			return err
		}
		if err := v.mark(uint64(index)+1, valNone, valTail); err != nil {
			return err
		}

		tag := types.Tag(v.buf[types.ByteOffset(index)+7])
		if tag.IsReserved() || tag == types.TagBuiltIn || tag == 0 {
			return fmt.Errorf("node %d has reserved type tag %d: %w", index, tag, ErrCorruptInput)
		}
		if !tag.IsHidden() {
			nameLen := binary.LittleEndian.Uint32(v.buf[types.ByteOffset(index)+4:]) & types.NameMax
			nameEnd := types.DataOffset(nameLen)
			for i := uint32(2); i != nameEnd; i++ {
				if err := v.mark(uint64(index)+uint64(i), valNone, valTail); err != nil {
					return err
				}
			}
			if tag.IsLeaf() {
				payloadLen := binary.LittleEndian.Uint32(v.buf[types.ByteOffset(index)+8:])
				if uint64(payloadLen) > types.PayloadMax {
					return fmt.Errorf("node %d payload length %d: %w", index, payloadLen, ErrCorruptInput)
				}
				dataEnd := nameEnd + types.PayloadWords(payloadLen)
				for i := nameEnd; i != dataEnd; i++ {
					if err := v.mark(uint64(index)+uint64(i), valNone, valTail); err != nil {
						return err
					}
				}
			}
		}

		index = binary.LittleEndian.Uint32(v.buf[types.ByteOffset(index):])
		if index == 0 {
			break
		}
	}

	// Root shape.
	if err := v.mark(0, valHead, valReached); err != nil {
		return err
	}
	rootInfo := binary.LittleEndian.Uint32(v.buf[4:])
	if rootInfo&types.NameMax != 0 || types.Tag(rootInfo>>24) != types.TagObject {
		return fmt.Errorf("malformed root node: %w", ErrCorruptInput)
	}

	// Tree pass: every offset followed below was proven to be a node
	// head by the list pass before it is dereferenced.
	if err := v.recurse(0); err != nil {
		return err
	}

	// The tree pass must account for every node the list pass found; a
	// head left unreached is detached from the tree.
	for i := uint32(0); i != v.words; i++ {
		if v.state(i) == valHead {
			return fmt.Errorf("node %d is not reachable from the root: %w", i, ErrCorruptInput)
		}
	}
	return nil
}

// recurse validates the child run of a composite node: the run starts
// at the composite's hidden sentinel and ends at its recorded last
// child. Marking heads Reached rejects child runs shared between
// parents and child/parent cycles.
func (v *validator) recurse(parent uint32) error {
	nameLen := binary.LittleEndian.Uint32(v.buf[types.ByteOffset(parent)+4:]) & types.NameMax
	sentinel := uint64(parent) + uint64(types.DataOffset(nameLen))
	if err := v.mark(sentinel, valHead, valReached); err != nil {
		return err
	}
	child := uint32(sentinel)
	if types.Tag(v.buf[types.ByteOffset(child)+7]) != types.TagHidden {
		return fmt.Errorf("composite %d has no sentinel child: %w", parent, ErrCorruptInput)
	}

	last := binary.LittleEndian.Uint32(v.buf[types.ByteOffset(parent)+8:])
	for child != last {
		child = binary.LittleEndian.Uint32(v.buf[types.ByteOffset(child):])
		if err := v.mark(uint64(child), valHead, valReached); err != nil {
			return err
		}
		if types.Tag(v.buf[types.ByteOffset(child)+7]).IsComposite() {
			if err := v.recurse(child); err != nil {
				return err
			}
		}
	}
	return nil
}

// mark transitions the shadow-map state of a word, rejecting the
// transition if the word is out of range or not in the expected state.
// The index is taken as uint64 so that word sums computed by callers
// cannot wrap before the range check.
func (v *validator) mark(index uint64, expected, state byte) error {
	if index >= uint64(v.words) {
		return fmt.Errorf("offset %d is out of range: %w", index, ErrCorruptInput)
	}
	shift := (index % mapPerByte) * mapBits
	if (v.m[index/mapPerByte]>>shift)&mapMask != expected {
		return fmt.Errorf("overlapping or revisited word at offset %d: %w", index, ErrCorruptInput)
	}
	v.m[index/mapPerByte] |= state << shift
	return nil
}

// state returns the shadow-map state of a word.
func (v *validator) state(index uint32) byte {
	shift := (index % mapPerByte) * mapBits
	return (v.m[index/mapPerByte] >> shift) & mapMask
}
