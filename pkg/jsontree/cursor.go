package jsontree

import (
	"encoding/binary"
	"math"

	"github.com/google/uuid"
)

// Cursor references a node within a specific builder. Cursors are
// cheap values and compare with ==; two cursors are equal when they
// reference the same node of the same builder.
//
// The root cursor doubles as the end cursor of every iteration:
//
//	for it, end := parent.Begin(), parent.End(); it != end; it = it.Next() {
//		...
//	}
//
// Cursors survive buffer growth but are invalidated by Reset, Swap and
// snapshot adoption.
type Cursor struct {
	b     *Builder
	index uint32
}

// IsRoot reports whether the cursor references the root object. The
// root cursor is also the end cursor.
func (c Cursor) IsRoot() bool {
	return c.index == 0
}

// Type returns the node's type. The root is always an object.
func (c Cursor) Type() Type {
	if c.b.store.Words() == 0 {
		return TypeObject
	}
	return c.b.tag(c.index)
}

// Name returns the node's name. Dereferencing the end cursor panics.
func (c Cursor) Name() string {
	if c.index == 0 {
		panic("jsontree: cannot dereference the end cursor")
	}
	return string(c.b.nameBytes(c.index))
}

// PayloadSize returns the payload length in bytes. Panics unless the
// node is a leaf.
func (c Cursor) PayloadSize() uint32 {
	return uint32(len(c.Payload()))
}

// Payload returns a view of the node's payload bytes, valid until the
// next insertion. Panics unless the node is a leaf; objects, arrays
// and hidden nodes have no payload.
func (c Cursor) Payload() []byte {
	if c.index == 0 || !c.b.tag(c.index).IsLeaf() {
		panic("jsontree: node has no payload")
	}
	return c.b.payloadBytes(c.index)
}

// ReducePayloadSize shrinks the node's payload length. The freed bytes
// remain allocated. Growing the payload panics.
func (c Cursor) ReducePayloadSize(n uint32) {
	if n > c.PayloadSize() {
		panic("jsontree: cannot grow a payload in place")
	}
	c.b.setPayloadLen(c.index, n)
}

// Begin returns a cursor to the node's first visible child, or End()
// for a leaf or childless composite.
func (c Cursor) Begin() Cursor {
	c.b.validateCursor(c)
	index := uint32(0)
	if c.b.canIterateOver(c.index) {
		index = c.b.nextVisible(c.b.firstChild(c.index))
	}
	return Cursor{b: c.b, index: index}
}

// End returns the cursor one past the node's last visible child.
func (c Cursor) End() Cursor {
	c.b.validateCursor(c)
	index := uint32(0)
	if c.b.canIterateOver(c.index) {
		index = c.b.nextVisible(c.b.lastChild(c.index))
	}
	return Cursor{b: c.b, index: index}
}

// Next returns the cursor of the next visible sibling. Advancing the
// end cursor panics.
func (c Cursor) Next() Cursor {
	if c.index == 0 {
		panic("jsontree: cannot advance past the end cursor")
	}
	return Cursor{b: c.b, index: c.b.nextVisible(c.index)}
}

// payloadOrNil is the tolerant payload fetch behind the unchecked
// getters: nil for the end cursor and non-leaf nodes.
func (c Cursor) payloadOrNil() []byte {
	if c.index == 0 || !c.b.tag(c.index).IsLeaf() {
		return nil
	}
	return c.b.payloadBytes(c.index)
}

// Str returns the payload as a string. Intended for Utf8 nodes; no
// type check is performed. Returns "" for non-leaf nodes.
func (c Cursor) Str() string {
	return string(c.payloadOrNil())
}

// Uint decodes the payload as a little-endian unsigned integer.
// Returns 0 unless the payload is 1, 2, 4 or 8 bytes.
func (c Cursor) Uint() uint64 {
	p := c.payloadOrNil()
	switch len(p) {
	case 1:
		return uint64(p[0])
	case 2:
		return uint64(binary.LittleEndian.Uint16(p))
	case 4:
		return uint64(binary.LittleEndian.Uint32(p))
	case 8:
		return binary.LittleEndian.Uint64(p)
	}
	return 0
}

// Int decodes the payload as a little-endian signed integer,
// sign-extended to 64 bits. Returns 0 unless the payload is 1, 2, 4
// or 8 bytes.
func (c Cursor) Int() int64 {
	p := c.payloadOrNil()
	switch len(p) {
	case 1:
		return int64(int8(p[0]))
	case 2:
		return int64(int16(binary.LittleEndian.Uint16(p)))
	case 4:
		return int64(int32(binary.LittleEndian.Uint32(p)))
	case 8:
		return int64(binary.LittleEndian.Uint64(p))
	}
	return 0
}

// Float decodes the payload as a little-endian IEEE-754 value.
// Returns 0 unless the payload is 4 or 8 bytes.
func (c Cursor) Float() float64 {
	p := c.payloadOrNil()
	switch len(p) {
	case 4:
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(p)))
	case 8:
		return math.Float64frombits(binary.LittleEndian.Uint64(p))
	}
	return 0
}

// Bool decodes the payload as a boolean: nonzero is true. Returns
// false unless the payload is 1 or 4 bytes.
func (c Cursor) Bool() bool {
	p := c.payloadOrNil()
	switch len(p) {
	case 1:
		return p[0] != 0
	case 4:
		return binary.LittleEndian.Uint32(p) != 0
	}
	return false
}

// Time decodes the payload as an 8-byte little-endian tick count.
// Returns 0 on size mismatch.
func (c Cursor) Time() FileTime {
	p := c.payloadOrNil()
	if len(p) != 8 {
		return 0
	}
	return FileTime(binary.LittleEndian.Uint64(p))
}

// UUID decodes the payload as a 16-byte big-endian UUID. Returns the
// nil UUID on size mismatch.
func (c Cursor) UUID() uuid.UUID {
	p := c.payloadOrNil()
	if len(p) != 16 {
		return uuid.Nil
	}
	u, err := uuid.FromBytes(p)
	if err != nil {
		return uuid.Nil
	}
	return u
}

const (
	signedHuge   = float64(1 << 63)
	unsignedHuge = float64(1 << 64)
)

// AsUint converts the value to uint64 across numeric types. UInt
// converts directly; Int converts when non-negative; Float converts
// when in [0, 2^64). Reports false without converting otherwise.
func (c Cursor) AsUint() (uint64, bool) {
	switch c.Type() {
	case TypeUint:
		return c.Uint(), true
	case TypeInt:
		if v := c.Int(); v >= 0 {
			return uint64(v), true
		}
	case TypeFloat:
		if f := c.Float(); 0 <= f && f < unsignedHuge {
			return uint64(f), true
		}
	}
	return 0, false
}

// AsInt converts the value to int64 across numeric types. Int converts
// directly; UInt converts when below 2^63; Float converts when in
// [-2^63, 2^63). Reports false without converting otherwise.
func (c Cursor) AsInt() (int64, bool) {
	switch c.Type() {
	case TypeInt:
		return c.Int(), true
	case TypeUint:
		if v := c.Uint(); v < 1<<63 {
			return int64(v), true
		}
	case TypeFloat:
		if f := c.Float(); -signedHuge <= f && f < signedHuge {
			return int64(f), true
		}
	}
	return 0, false
}

// AsFloat converts any numeric value to float64. Large integers may
// lose precision. Reports false for non-numeric types.
func (c Cursor) AsFloat() (float64, bool) {
	switch c.Type() {
	case TypeUint:
		return float64(c.Uint()), true
	case TypeInt:
		return float64(c.Int()), true
	case TypeFloat:
		return c.Float(), true
	}
	return 0, false
}

// AsBool reports the value of a Bool node. Reports false, false for
// any other type.
func (c Cursor) AsBool() (bool, bool) {
	if c.Type() == TypeBool {
		return c.Bool(), true
	}
	return false, false
}

// AsString returns the payload of a Utf8 node.
func (c Cursor) AsString() (string, bool) {
	if c.Type() == TypeUtf8 {
		return c.Str(), true
	}
	return "", false
}

// AsTime returns the tick count of a Time node with a well-formed
// 8-byte payload.
func (c Cursor) AsTime() (FileTime, bool) {
	if c.Type() == TypeTime && len(c.payloadOrNil()) == 8 {
		return c.Time(), true
	}
	return 0, false
}

// AsUUID returns the value of a Uuid node with a well-formed 16-byte
// payload.
func (c Cursor) AsUUID() (uuid.UUID, bool) {
	if c.Type() == TypeUUID && len(c.payloadOrNil()) == 16 {
		return c.UUID(), true
	}
	return uuid.Nil, false
}
