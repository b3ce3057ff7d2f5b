// Package jsontree implements an in-memory tree of typed, named values
// stored in a single contiguous buffer of 4-byte words.
//
// All nodes live in one arena and reference each other by word offset,
// so a tree can be snapshotted, copied, or adopted from external bytes
// without any pointer fixup. Offset 0 is the root object; the same
// offset doubles as the end cursor for every iteration.
//
// Internally every node is threaded onto a single linked list starting
// at the root. A composite's children form a contiguous run of that
// list, starting just after the composite's hidden sentinel node and
// ending at its recorded last child. Erasure flips a node's tag to
// Hidden; hidden nodes stay in the list and are skipped by cursors.
package jsontree

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/deploymenttheory/go-jsontree/internal/arena"
	"github.com/deploymenttheory/go-jsontree/internal/types"
)

// Type identifies the kind of value stored in a node. Values 1..=200
// are available for application-defined leaf payloads.
type Type = types.Tag

const (
	TypeUtf8   Type = types.TagUtf8
	TypeUint   Type = types.TagUint
	TypeInt    Type = types.TagInt
	TypeFloat  Type = types.TagFloat
	TypeBool   Type = types.TagBool
	TypeTime   Type = types.TagTime
	TypeUUID   Type = types.TagUUID
	TypeNull   Type = types.TagNull
	TypeHidden Type = types.TagHidden
	TypeArray  Type = types.TagArray
	TypeObject Type = types.TagObject
)

// NameMax is the maximum name length in bytes.
const NameMax = types.NameMax

// PayloadMax is the maximum payload length in bytes.
const PayloadMax = types.PayloadMax

// Builder owns a tree and its backing buffer.
//
// The zero value is not usable; call New. A Builder is a
// single-owner value and is not safe for concurrent use.
type Builder struct {
	store *arena.Arena
}

// New returns an empty builder. The root object exists logically but
// is not materialized in the buffer until the first insertion.
func New() *Builder {
	return &Builder{store: arena.New()}
}

// NewWithCapacity returns an empty builder with at least the given
// buffer capacity in bytes preallocated.
func NewWithCapacity(capacityBytes uint32) (*Builder, error) {
	b := New()
	if err := b.BufferReserve(capacityBytes); err != nil {
		return nil, err
	}
	return b, nil
}

// NewFromSnapshot returns a builder over a copy of snapshot bytes
// previously produced by Snapshot. If validate is set, the buffer is
// checked for structural corruption before use; adopting untrusted
// bytes without validation is unsafe.
func NewFromSnapshot(data []byte, validate bool) (*Builder, error) {
	a, err := arena.Adopt(data)
	if err != nil {
		return nil, fmt.Errorf("adopting snapshot: %w", ErrCorruptInput)
	}
	b := &Builder{store: a}
	if validate {
		if err := b.Validate(); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// Root returns the cursor of the root object. The root cursor is also
// the end cursor of every iteration and cannot be dereferenced for a
// name or payload.
func (b *Builder) Root() Cursor {
	return Cursor{b: b, index: 0}
}

// First returns the first visible node in storage order, or the root
// cursor when the tree is empty.
func (b *Builder) First() Cursor {
	if b.store.Words() == 0 {
		return b.Root()
	}
	return Cursor{b: b, index: b.nextVisible(0)}
}

// AddValue creates a node with the given name, type and payload and
// inserts it as the first (front) or last child of parent. Composite
// types must be inserted with an empty payload. Returns the cursor of
// the new node.
//
// Inserting into a leaf node, into a cursor from another builder, or
// with a hidden or reserved type is a programmer error and panics.
func (b *Builder) AddValue(front bool, parent Cursor, name string, typ Type, payload []byte) (Cursor, error) {
	b.validateCursor(parent)
	if typ.IsHidden() || typ.IsReserved() || typ == types.TagBuiltIn || typ == 0 {
		panic("jsontree: invalid value type")
	}
	if typ.IsComposite() && len(payload) != 0 {
		panic("jsontree: composite values cannot carry a payload")
	}
	if len(name) > NameMax {
		return Cursor{}, fmt.Errorf("name is %d bytes: %w", len(name), ErrLengthExceeded)
	}
	if uint64(len(payload)) > PayloadMax {
		return Cursor{}, fmt.Errorf("payload is %d bytes: %w", len(payload), ErrLengthExceeded)
	}

	if b.store.Words() == 0 {
		// The builder is empty, so the only possible parent is the root.
		if parent.index != 0 {
			panic("jsontree: parent must be an array or object")
		}
		if err := b.createRoot(); err != nil {
			return Cursor{}, err
		}
	} else if !b.tag(parent.index).IsComposite() {
		panic("jsontree: parent must be an array or object")
	}

	newIndex := b.store.Words()
	dataIndex := uint64(newIndex) + uint64(types.DataOffset(uint32(len(name))))
	span := uint32(len(payload))
	if typ.IsComposite() {
		span = types.HeaderBaseSize
	}
	newWords := dataIndex + uint64(types.PayloadWords(span))
	if newWords > types.MaxWords {
		return Cursor{}, fmt.Errorf("tree buffer is full: %w", ErrLengthExceeded)
	}

	// The payload slice stays valid across the resize even if it
	// aliases the old buffer, so growth can happen first.
	if err := b.store.Resize(uint32(newWords)); err != nil {
		return Cursor{}, err
	}

	buf := b.store.Bytes()
	nb := int(newIndex) * types.WordSize
	binary.LittleEndian.PutUint32(buf[nb+4:], uint32(len(name))|uint32(typ)<<24)
	copy(buf[nb+types.HeaderSize:], name)

	db := int(dataIndex) * types.WordSize
	if typ.IsComposite() {
		// The new composite's sentinel becomes its first child. Thread
		// the sentinel onto the global list right after the root.
		binary.LittleEndian.PutUint32(buf[nb+8:], uint32(dataIndex))
		rootNext := binary.LittleEndian.Uint32(buf)
		binary.LittleEndian.PutUint32(buf[db:], rootNext)
		binary.LittleEndian.PutUint32(buf[db+4:], uint32(types.TagHidden)<<24)
		binary.LittleEndian.PutUint32(buf, uint32(dataIndex))
	} else {
		binary.LittleEndian.PutUint32(buf[nb+8:], uint32(len(payload)))
		copy(buf[db:], payload)
	}

	// Link the new node into the list after its predecessor and update
	// the parent's last child.
	var prev uint32
	if front {
		prev = b.firstChild(parent.index)
		if prev == b.lastChild(parent.index) {
			b.setLastChild(parent.index, newIndex)
		}
	} else {
		prev = b.lastChild(parent.index)
		b.setLastChild(parent.index, newIndex)
	}
	b.setNext(newIndex, b.next(prev))
	b.setNext(prev, newIndex)

	return Cursor{b: b, index: newIndex}, nil
}

// Erase hides the node at the cursor. The node's storage is not
// reclaimed; it is skipped by all further iteration. Children of an
// erased composite become unreachable. Returns the next visible
// cursor. Erasing an already-hidden node has no further effect.
// Erasing the root panics.
func (b *Builder) Erase(c Cursor) Cursor {
	b.validateCursor(c)
	if c.index == 0 {
		panic("jsontree: cannot erase the root")
	}
	b.setTag(c.index, types.TagHidden)
	return Cursor{b: b, index: b.nextVisible(c.index)}
}

// EraseRange hides every node in [begin, end). Returns end. Panics if
// end is not reachable from begin.
func (b *Builder) EraseRange(begin, end Cursor) Cursor {
	b.validateCursor(begin)
	b.validateCursor(end)
	index := begin.index
	for index != end.index {
		if index == 0 {
			panic("jsontree: erase range end is not reachable from begin")
		}
		b.setTag(index, types.TagHidden)
		index = b.next(index)
	}
	return end
}

// Find navigates from parent through the given names, descending to
// the first visible child with matching name bytes at each level.
// Returns the final cursor, or the root (end) cursor if any name is
// not found.
func (b *Builder) Find(parent Cursor, names ...string) Cursor {
	b.validateCursor(parent)
	index := parent.index
	for _, name := range names {
		index = b.findChild(index, name)
		if index == 0 {
			break
		}
	}
	return Cursor{b: b, index: index}
}

// Count returns the number of visible children of parent. O(children).
func (b *Builder) Count(parent Cursor) int {
	b.validateCursor(parent)
	result := 0
	if !b.canIterateOver(parent.index) {
		return 0
	}
	index := b.firstChild(parent.index)
	last := b.lastChild(parent.index)
	if index == last {
		return 0
	}
	index = b.next(index)
	for {
		if !b.tag(index).IsHidden() {
			result++
		}
		if index == last {
			break
		}
		index = b.next(index)
	}
	return result
}

// SpliceFront moves every visible child of oldParent accepted by pred
// to the front of newParent, preserving relative order. A nil pred
// accepts every child. oldParent and newParent may be the same node.
func (b *Builder) SpliceFront(oldParent, newParent Cursor, pred func(Cursor) bool) {
	b.splice(true, oldParent, newParent, pred)
}

// SpliceBack moves every visible child of oldParent accepted by pred
// to the back of newParent, preserving relative order. A nil pred
// accepts every child. oldParent and newParent may be the same node.
func (b *Builder) SpliceBack(oldParent, newParent Cursor, pred func(Cursor) bool) {
	b.splice(false, oldParent, newParent, pred)
}

func (b *Builder) splice(front bool, oldParent, newParent Cursor, pred func(Cursor) bool) {
	b.validateCursor(oldParent)
	b.validateCursor(newParent)

	if !b.canIterateOver(oldParent.index) {
		return
	}
	if !b.tag(newParent.index).IsComposite() {
		panic("jsontree: parent must be an array or object")
	}

	prev := b.firstChild(oldParent.index)
	last := b.lastChild(oldParent.index)
	if prev == last {
		return
	}

	// Unlink the selected children and chain them into a moved block,
	// keeping their relative order. tail tracks the block's last node.
	var head, tail uint32
	for {
		current := b.next(prev)
		selected := !b.tag(current).IsHidden() &&
			(pred == nil || pred(Cursor{b: b, index: current}))
		if selected {
			b.setNext(prev, b.next(current))
			if head == 0 {
				head = current
			} else {
				b.setNext(tail, current)
			}
			tail = current
			if current == last {
				b.setLastChild(oldParent.index, prev)
				break
			}
		} else {
			if current == last {
				break
			}
			prev = current
		}
	}

	if head == 0 {
		return
	}

	if front {
		prev = b.firstChild(newParent.index)
		if prev == b.lastChild(newParent.index) {
			b.setLastChild(newParent.index, tail)
		}
	} else {
		prev = b.lastChild(newParent.index)
		b.setLastChild(newParent.index, tail)
	}
	b.setNext(tail, b.next(prev))
	b.setNext(prev, head)
}

// Clone returns a deep copy of the builder. Cursors are not portable
// between the original and the clone.
func (b *Builder) Clone() *Builder {
	return &Builder{store: b.store.Clone()}
}

// Swap exchanges the contents of two builders. Cursors captured before
// the swap refer to the builder they were created from and must not be
// used across it.
func (b *Builder) Swap(other *Builder) {
	b.store.Swap(other.store)
}

// Reset discards all nodes, keeping the allocated buffer for reuse.
func (b *Builder) Reset() {
	b.store.Clear()
}

// Equal reports whether two builders hold structurally equal trees:
// the same visible nodes with the same names, types and payloads in
// the same traversal order.
func (b *Builder) Equal(other *Builder) bool {
	return equalChildren(b.Root(), other.Root())
}

func equalChildren(p, q Cursor) bool {
	itP, endP := p.Begin(), p.End()
	itQ, endQ := q.Begin(), q.End()
	for itP != endP && itQ != endQ {
		if itP.Type() != itQ.Type() || itP.Name() != itQ.Name() {
			return false
		}
		if itP.Type().IsComposite() {
			if !equalChildren(itP, itQ) {
				return false
			}
		} else if !bytes.Equal(itP.Payload(), itQ.Payload()) {
			return false
		}
		itP, itQ = itP.Next(), itQ.Next()
	}
	return itP == endP && itQ == endQ
}

// Snapshot returns a copy of the raw buffer, the canonical persisted
// form of the tree. The bytes can be re-adopted with NewFromSnapshot.
func (b *Builder) Snapshot() []byte {
	data := make([]byte, len(b.store.Bytes()))
	copy(data, b.store.Bytes())
	return data
}

// BufferSize returns the used buffer size in bytes, always a multiple
// of the word size.
func (b *Builder) BufferSize() uint32 {
	return b.store.Words() * types.WordSize
}

// BufferCapacity returns how many bytes the buffer can hold before
// reallocating.
func (b *Builder) BufferCapacity() uint32 {
	return b.store.CapacityWords() * types.WordSize
}

// BufferReserve grows the buffer capacity to at least the given byte
// count.
func (b *Builder) BufferReserve(capacityBytes uint32) error {
	words := (uint64(capacityBytes) + types.WordSize - 1) / types.WordSize
	if words > types.MaxWords {
		return fmt.Errorf("requested capacity is too large: %w", ErrLengthExceeded)
	}
	return b.store.Reserve(uint32(words))
}

// SetZeroInit controls whether buffer growth clears newly exposed
// bytes. Off by default; turn it on when snapshots must not carry
// remnants of previously erased content in padding.
func (b *Builder) SetZeroInit(on bool) {
	b.store.SetZeroInit(on)
}

// createRoot materializes the root object and its sentinel.
func (b *Builder) createRoot() error {
	if err := b.store.Resize(types.RootWords); err != nil {
		return err
	}
	buf := b.store.Bytes()
	binary.LittleEndian.PutUint32(buf, types.RootSentinelOffset)
	binary.LittleEndian.PutUint32(buf[4:], uint32(types.TagObject)<<24)
	binary.LittleEndian.PutUint32(buf[8:], types.RootSentinelOffset)

	sb := types.RootSentinelOffset * types.WordSize
	binary.LittleEndian.PutUint32(buf[sb:], 0)
	binary.LittleEndian.PutUint32(buf[sb+4:], uint32(types.TagHidden)<<24)
	return nil
}

// findChild returns the offset of the first visible child of parent
// with the given name, or 0 if there is none.
func (b *Builder) findChild(parent uint32, name string) uint32 {
	if b.store.Words() == 0 || !b.tag(parent).IsComposite() {
		return 0
	}
	index := b.firstChild(parent)
	last := b.lastChild(parent)
	if index == last {
		return 0
	}
	index = b.next(index)
	for {
		if !b.tag(index).IsHidden() && string(b.nameBytes(index)) == name {
			return index
		}
		if index == last {
			return 0
		}
		index = b.next(index)
	}
}

func (b *Builder) validateCursor(c Cursor) {
	if c.b != b {
		panic("jsontree: cursor is from a different builder")
	}
}

func (b *Builder) canIterateOver(index uint32) bool {
	return b.store.Words() != 0 && b.tag(index).IsComposite()
}

// Node field access. All offsets are word offsets into the buffer;
// byte offsets are widened through types.ByteOffset so that buffers
// past 4 GiB address the right words.

func (b *Builder) next(index uint32) uint32 {
	return binary.LittleEndian.Uint32(b.store.Bytes()[types.ByteOffset(index):])
}

func (b *Builder) setNext(index, next uint32) {
	binary.LittleEndian.PutUint32(b.store.Bytes()[types.ByteOffset(index):], next)
}

func (b *Builder) nameLen(index uint32) uint32 {
	return binary.LittleEndian.Uint32(b.store.Bytes()[types.ByteOffset(index)+4:]) & types.NameMax
}

func (b *Builder) tag(index uint32) types.Tag {
	return types.Tag(b.store.Bytes()[types.ByteOffset(index)+7])
}

func (b *Builder) setTag(index uint32, t types.Tag) {
	b.store.Bytes()[types.ByteOffset(index)+7] = byte(t)
}

func (b *Builder) payloadLen(index uint32) uint32 {
	return binary.LittleEndian.Uint32(b.store.Bytes()[types.ByteOffset(index)+8:])
}

func (b *Builder) setPayloadLen(index, n uint32) {
	binary.LittleEndian.PutUint32(b.store.Bytes()[types.ByteOffset(index)+8:], n)
}

func (b *Builder) lastChild(index uint32) uint32 {
	return binary.LittleEndian.Uint32(b.store.Bytes()[types.ByteOffset(index)+8:])
}

func (b *Builder) setLastChild(index, child uint32) {
	binary.LittleEndian.PutUint32(b.store.Bytes()[types.ByteOffset(index)+8:], child)
}

func (b *Builder) nameBytes(index uint32) []byte {
	nb := types.ByteOffset(index) + types.HeaderSize
	return b.store.Bytes()[nb : nb+int(b.nameLen(index))]
}

func (b *Builder) payloadBytes(index uint32) []byte {
	db := types.ByteOffset(index) + types.ByteOffset(types.DataOffset(b.nameLen(index)))
	return b.store.Bytes()[db : db+int(b.payloadLen(index))]
}

// firstChild returns the offset of a composite's sentinel node, which
// heads its child run in the global list.
func (b *Builder) firstChild(index uint32) uint32 {
	return index + types.DataOffset(b.nameLen(index))
}

// nextVisible follows next links until it lands on a non-hidden node.
// The root terminates every walk because its tag is Object.
func (b *Builder) nextVisible(index uint32) uint32 {
	for {
		index = b.next(index)
		if !b.tag(index).IsHidden() {
			return index
		}
	}
}
