// Package jsonrender converts trees built by jsontree into UTF-8 JSON
// text. It provides a reusable Renderer for whole trees and subtrees,
// and free-standing allocation-free formatters for single scalars.
package jsonrender

import (
	"math"
	"strconv"

	"github.com/google/uuid"

	"github.com/deploymenttheory/go-jsontree/pkg/jsontree"
)

// Minimum destination buffer sizes for the fixed-buffer formatters,
// including the nul terminator.
const (
	UintBufferSize       = 21
	IntBufferSize        = 21
	FloatBufferSize      = 32
	BoolBufferSize       = 6
	NullBufferSize       = 5
	TimeBufferSize       = 29
	UUIDBufferSize       = 37
	UUIDBracesBufferSize = 39
)

const hexUpper = "0123456789ABCDEF"

func checkSize(dst []byte, size int) {
	if len(dst) < size {
		panic("jsonrender: destination buffer is too small")
	}
}

// FormatUint renders an unsigned decimal integer, e.g. "123". The
// destination must be at least UintBufferSize bytes. Returns the
// number of bytes written, not counting the nul terminator.
func FormatUint(dst []byte, n uint64) int {
	checkSize(dst, UintBufferSize)
	cch := len(strconv.AppendUint(dst[:0], n, 10))
	dst[cch] = 0
	return cch
}

// FormatInt renders a signed decimal integer, e.g. "-123". The
// destination must be at least IntBufferSize bytes. Returns the number
// of bytes written, not counting the nul terminator.
func FormatInt(dst []byte, n int64) int {
	checkSize(dst, IntBufferSize)
	cch := len(strconv.AppendInt(dst[:0], n, 10))
	dst[cch] = 0
	return cch
}

// FormatFloat renders a floating-point value with the shortest decimal
// form that round-trips through a float64, e.g. "-123.1", or "null"
// when the value is not finite. The destination must be at least
// FloatBufferSize bytes. Returns the number of bytes written, not
// counting the nul terminator.
func FormatFloat(dst []byte, n float64) int {
	checkSize(dst, FloatBufferSize)
	if math.IsInf(n, 0) || math.IsNaN(n) {
		return FormatNull(dst)
	}
	cch := len(strconv.AppendFloat(dst[:0], n, 'g', -1, 64))
	dst[cch] = 0
	return cch
}

// FormatBool renders "true" or "false". The destination must be at
// least BoolBufferSize bytes. Returns 4 or 5.
func FormatBool(dst []byte, b bool) int {
	checkSize(dst, BoolBufferSize)
	s := "false"
	if b {
		s = "true"
	}
	cch := copy(dst, s)
	dst[cch] = 0
	return cch
}

// FormatNull renders "null". The destination must be at least
// NullBufferSize bytes. Always returns 4.
func FormatNull(dst []byte) int {
	checkSize(dst, NullBufferSize)
	cch := copy(dst, "null")
	dst[cch] = 0
	return cch
}

// putPaddedUint writes n as exactly cch decimal digits with leading
// zeros.
func putPaddedUint(dst []byte, n uint64, cch int) {
	for i := cch - 1; i >= 0; i-- {
		dst[i] = byte('0' + n%10)
		n /= 10
	}
}

// FormatTime renders a tick count as an ISO 8601 string with 100ns
// precision, e.g. "2015-04-02T02:09:14.7927652Z" (28 bytes), or as
// "FILETIME(0x...)" (also 28 bytes) when the represented year is
// beyond 9999. The destination must be at least TimeBufferSize bytes.
// Returns 28.
func FormatTime(dst []byte, ft jsontree.FileTime) int {
	checkSize(dst, TimeBufferSize)
	t := ft.Time()
	if t.Year() > 9999 {
		cch := copy(dst, "FILETIME(0x")
		for i := 0; i < 16; i++ {
			dst[cch+i] = hexUpper[(uint64(ft)>>(60-4*i))&0xF]
		}
		cch += 16
		dst[cch] = ')'
		cch++
		dst[cch] = 0
		return cch
	}

	putPaddedUint(dst[0:], uint64(t.Year()), 4)
	dst[4] = '-'
	putPaddedUint(dst[5:], uint64(t.Month()), 2)
	dst[7] = '-'
	putPaddedUint(dst[8:], uint64(t.Day()), 2)
	dst[10] = 'T'
	putPaddedUint(dst[11:], uint64(t.Hour()), 2)
	dst[13] = ':'
	putPaddedUint(dst[14:], uint64(t.Minute()), 2)
	dst[16] = ':'
	putPaddedUint(dst[17:], uint64(t.Second()), 2)
	dst[19] = '.'
	putPaddedUint(dst[20:], uint64(ft)%jsontree.TicksPerSecond, 7)
	dst[27] = 'Z'
	dst[28] = 0
	return 28
}

// FormatUUID renders a UUID in uppercase without braces, e.g.
// "CD8D0A5E-6409-4B8E-9366-B815CEF0E35D". The destination must be at
// least UUIDBufferSize bytes. Always returns 36.
func FormatUUID(dst []byte, u uuid.UUID) int {
	checkSize(dst, UUIDBufferSize)
	cch := 0
	for i, b := range u {
		switch i {
		case 4, 6, 8, 10:
			dst[cch] = '-'
			cch++
		}
		dst[cch] = hexUpper[b>>4]
		dst[cch+1] = hexUpper[b&0xF]
		cch += 2
	}
	dst[cch] = 0
	return cch
}

// FormatUUIDWithBraces renders a UUID in uppercase with braces, e.g.
// "{CD8D0A5E-6409-4B8E-9366-B815CEF0E35D}". The destination must be
// at least UUIDBracesBufferSize bytes. Always returns 38.
func FormatUUIDWithBraces(dst []byte, u uuid.UUID) int {
	checkSize(dst, UUIDBracesBufferSize)
	dst[0] = '{'
	cch := 1 + FormatUUID(dst[1:], u)
	dst[cch] = '}'
	cch++
	dst[cch] = 0
	return cch
}
