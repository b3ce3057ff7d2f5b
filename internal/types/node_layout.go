// Package types defines the packed node record layout shared by the tree
// store, the validator, and the renderer.
//
// The backing buffer is a sequence of 4-byte storage words. Every offset
// exchanged between packages is a word offset into that buffer, never a
// byte offset and never a pointer. A node record is laid out as:
//
//	 0: next        (4 bytes) word offset of the next node in list order
//	 4: nameLen     (3 bytes) name length in bytes
//	 7: tag         (1 byte)  type tag
//	 8: payloadLen  (4 bytes) leaf nodes only
//	 8: lastChild   (4 bytes) composite nodes only (word offset)
//	12: name        (nameLen bytes)
//	xx: padding     (to a word boundary)
//	xx: payload     (payloadLen bytes, leaf nodes only)
//	xx: padding     (to a word boundary)
//
// Hidden nodes (tombstones and child-list sentinels) consist of the first
// 8 bytes only.
package types

// WordSize is the size of one storage word in bytes. All node records
// start and end on a word boundary.
const WordSize = 4

// HeaderBaseSize is the byte size of the fields shared by every node:
// next offset, name length, and type tag. This is also the full size of a
// hidden or sentinel node.
const HeaderBaseSize = 8

// HeaderSize is the byte size of a full node header, including the
// payload-length / last-child word.
const HeaderSize = 12

// NameMax is the maximum name length in bytes (the name length field is
// 24 bits wide).
const NameMax = 0xFFFFFF

// PayloadMax is the maximum payload length in bytes. The cap is below
// the field's 32-bit range; the headroom is inherited from the original
// format definition.
const PayloadMax = 0xF0000000

// MaxWords is the largest valid buffer size in words. Word offsets are
// 32-bit; the top value is reserved so that offset arithmetic cannot
// wrap.
const MaxWords = 0xFFFFFFFE

// RootWords is the buffer size in words after the root object and its
// sentinel have been materialized.
const RootWords = (HeaderSize + HeaderBaseSize) / WordSize

// RootSentinelOffset is the word offset of the root object's sentinel
// child. The root has an empty name, so its data offset is constant.
const RootSentinelOffset = HeaderSize / WordSize

// Tag identifies the kind of value stored in a node. Tags 1..=200 are
// available for application-defined leaf types; 201..=244 are reserved;
// 245..=255 are the built-in types. The relational structure of the
// numbering is load-bearing: tag >= TagHidden means "no payload field",
// tag >= TagArray means "composite".
type Tag uint8

const (
	// TagReservedLo..TagReservedHi is the reserved band. Decoders reject
	// these tags.
	TagReservedLo Tag = 201
	TagReservedHi Tag = 243

	// TagBuiltIn marks the start of the built-in numbering. Not itself a
	// valid node tag.
	TagBuiltIn Tag = 244

	TagUtf8   Tag = 245 // UTF-8 string payload
	TagUint   Tag = 246 // unsigned integer, 1/2/4/8 bytes little-endian
	TagInt    Tag = 247 // signed integer, 1/2/4/8 bytes little-endian
	TagFloat  Tag = 248 // IEEE-754, 4/8 bytes little-endian
	TagBool   Tag = 249 // 1 or 4 bytes, nonzero is true
	TagTime   Tag = 250 // 8 bytes, 100ns ticks since 1601-01-01T00:00:00Z
	TagUUID   Tag = 251 // 16 bytes, network byte order
	TagNull   Tag = 252 // no payload bytes
	TagHidden Tag = 253 // tombstone or sentinel
	TagArray  Tag = 254 // composite, anonymous children
	TagObject Tag = 255 // composite, named children
)

// IsComposite reports whether nodes of this tag carry children instead
// of a payload.
func (t Tag) IsComposite() bool {
	return t >= TagArray
}

// IsHidden reports whether the tag marks a tombstone or sentinel.
func (t Tag) IsHidden() bool {
	return t == TagHidden
}

// IsLeaf reports whether nodes of this tag carry a payload.
func (t Tag) IsLeaf() bool {
	return t < TagHidden
}

// IsCustom reports whether the tag is in the application-defined band.
func (t Tag) IsCustom() bool {
	return t >= 1 && t <= 200
}

// IsReserved reports whether the tag falls in the reserved band that
// decoders must reject.
func (t Tag) IsReserved() bool {
	return t >= TagReservedLo && t <= TagReservedHi
}

// String returns the tag's name for diagnostics.
func (t Tag) String() string {
	switch t {
	case TagUtf8:
		return "Utf8"
	case TagUint:
		return "UInt"
	case TagInt:
		return "Int"
	case TagFloat:
		return "Float"
	case TagBool:
		return "Bool"
	case TagTime:
		return "Time"
	case TagUUID:
		return "Uuid"
	case TagNull:
		return "Null"
	case TagHidden:
		return "Hidden"
	case TagArray:
		return "Array"
	case TagObject:
		return "Object"
	}
	if t.IsCustom() {
		return "Custom"
	}
	return "Reserved"
}

// DataOffset returns the distance in words from a node's offset to its
// data area (the payload for a leaf, the sentinel for a composite). The
// header and inline name are padded up to the next word boundary.
func DataOffset(nameLen uint32) uint32 {
	return (HeaderSize + nameLen + (WordSize - 1)) / WordSize
}

// PayloadWords returns the number of words occupied by a payload of the
// given byte length, including trailing padding.
func PayloadWords(payloadLen uint32) uint32 {
	return (payloadLen + (WordSize - 1)) / WordSize
}

// ByteOffset converts a word offset to a byte offset. The widening to
// int keeps offsets past 4 GiB from wrapping; word offsets up to
// MaxWords stay addressable.
func ByteOffset(words uint32) int {
	return int(words) * WordSize
}
