package jsontree

import (
	"encoding/binary"
	"math"
	"unicode/utf16"

	"github.com/google/uuid"
)

// Typed insertion helpers. Each appends a new last child to parent and
// stores the widest wire form of the value. Use AddValue directly for
// front insertion, custom types, or narrower integer widths.

// AddObject appends an empty object.
func (b *Builder) AddObject(parent Cursor, name string) (Cursor, error) {
	return b.AddValue(false, parent, name, TypeObject, nil)
}

// AddArray appends an empty array.
func (b *Builder) AddArray(parent Cursor, name string) (Cursor, error) {
	return b.AddValue(false, parent, name, TypeArray, nil)
}

// AddString appends a Utf8 leaf.
func (b *Builder) AddString(parent Cursor, name, value string) (Cursor, error) {
	return b.AddValue(false, parent, name, TypeUtf8, []byte(value))
}

// AddInt appends an Int leaf with an 8-byte payload.
func (b *Builder) AddInt(parent Cursor, name string, value int64) (Cursor, error) {
	var p [8]byte
	binary.LittleEndian.PutUint64(p[:], uint64(value))
	return b.AddValue(false, parent, name, TypeInt, p[:])
}

// AddUint appends a UInt leaf with an 8-byte payload.
func (b *Builder) AddUint(parent Cursor, name string, value uint64) (Cursor, error) {
	var p [8]byte
	binary.LittleEndian.PutUint64(p[:], value)
	return b.AddValue(false, parent, name, TypeUint, p[:])
}

// AddFloat appends a Float leaf with an 8-byte payload.
func (b *Builder) AddFloat(parent Cursor, name string, value float64) (Cursor, error) {
	var p [8]byte
	binary.LittleEndian.PutUint64(p[:], math.Float64bits(value))
	return b.AddValue(false, parent, name, TypeFloat, p[:])
}

// AddBool appends a Bool leaf with a 1-byte payload.
func (b *Builder) AddBool(parent Cursor, name string, value bool) (Cursor, error) {
	p := []byte{0}
	if value {
		p[0] = 1
	}
	return b.AddValue(false, parent, name, TypeBool, p)
}

// AddNull appends a Null leaf.
func (b *Builder) AddNull(parent Cursor, name string) (Cursor, error) {
	return b.AddValue(false, parent, name, TypeNull, nil)
}

// AddTime appends a Time leaf with the 8-byte tick count payload.
func (b *Builder) AddTime(parent Cursor, name string, value FileTime) (Cursor, error) {
	var p [8]byte
	binary.LittleEndian.PutUint64(p[:], uint64(value))
	return b.AddValue(false, parent, name, TypeTime, p[:])
}

// AddUUID appends a Uuid leaf with the 16-byte big-endian payload.
func (b *Builder) AddUUID(parent Cursor, name string, value uuid.UUID) (Cursor, error) {
	return b.AddValue(false, parent, name, TypeUUID, value[:])
}

// AddStringUTF16 appends a Utf8 leaf, transcoding the value from
// UTF-16 code units. Unpaired surrogates become U+FFFD.
func (b *Builder) AddStringUTF16(parent Cursor, name string, value []uint16) (Cursor, error) {
	return b.AddString(parent, name, DecodeUTF16(value))
}

// AddStringLatin1 appends a Utf8 leaf, transcoding the value from
// Latin-1 bytes.
func (b *Builder) AddStringLatin1(parent Cursor, name string, value []byte) (Cursor, error) {
	return b.AddString(parent, name, DecodeLatin1(value))
}

// AddValueUTF16Name is AddValue with the name given as UTF-16 code
// units, transcoded to UTF-8 at storage time.
func (b *Builder) AddValueUTF16Name(front bool, parent Cursor, name []uint16, typ Type, payload []byte) (Cursor, error) {
	return b.AddValue(front, parent, DecodeUTF16(name), typ, payload)
}

// DecodeUTF16 converts UTF-16 code units to a UTF-8 string. Unpaired
// surrogates become U+FFFD.
func DecodeUTF16(units []uint16) string {
	return string(utf16.Decode(units))
}

// DecodeLatin1 converts Latin-1 bytes to a UTF-8 string.
func DecodeLatin1(data []byte) string {
	runes := make([]rune, len(data))
	for i, c := range data {
		runes[i] = rune(c)
	}
	return string(runes)
}
