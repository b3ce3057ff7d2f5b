package jsonrender

import (
	"github.com/deploymenttheory/go-jsontree/pkg/jsontree"
)

// CustomFunc renders a node with an application-defined type tag by
// appending its textual form to dst and returning the extended slice.
type CustomFunc func(dst []byte, c jsontree.Cursor) []byte

// Renderer converts a tree into UTF-8 JSON text. The output buffer is
// reused across calls; a Renderer is cheap to keep around and not safe
// for concurrent use.
type Renderer struct {
	buf          []byte
	newLine      string
	indentSpaces int
	indent       int
	pretty       bool
	custom       CustomFunc
}

// New returns a renderer producing compact output with the default
// pretty-mode settings (newline "\n", two-space indent).
func New() *Renderer {
	return &Renderer{newLine: "\n", indentSpaces: 2}
}

// Pretty reports whether insignificant whitespace is added for
// readability. Off by default.
func (r *Renderer) Pretty() bool {
	return r.pretty
}

// SetPretty controls whether insignificant whitespace (newlines and
// indentation) is added to put each value on its own line.
func (r *Renderer) SetPretty(pretty bool) {
	r.pretty = pretty
}

// NewLine returns the newline sequence used in pretty mode.
func (r *Renderer) NewLine() string {
	return r.newLine
}

// SetNewLine sets the newline sequence used in pretty mode.
func (r *Renderer) SetNewLine(newLine string) {
	r.newLine = newLine
}

// IndentSpaces returns the number of spaces per indent level.
func (r *Renderer) IndentSpaces() int {
	return r.indentSpaces
}

// SetIndentSpaces sets the number of spaces per indent level.
func (r *Renderer) SetIndentSpaces(n int) {
	r.indentSpaces = n
}

// SetCustom installs the hook used for application-defined type tags.
// Without a hook such values render as "Custom#N".
func (r *Renderer) SetCustom(fn CustomFunc) {
	r.custom = fn
}

// Reserve preallocates the output buffer.
func (r *Renderer) Reserve(n int) {
	if cap(r.buf) < n {
		buf := make([]byte, len(r.buf), n)
		copy(buf, r.buf)
		r.buf = buf
	}
}

// Size returns the current output buffer length in bytes.
func (r *Renderer) Size() int {
	return len(r.buf)
}

// Capacity returns the output buffer capacity in bytes.
func (r *Renderer) Capacity() int {
	return cap(r.buf)
}

// RenderTree renders the whole tree starting at the root. The
// returned view is nul-terminated one byte past its length and stays
// valid until the next Render call.
func (r *Renderer) RenderTree(b *jsontree.Builder) []byte {
	return r.RenderSubtree(b.Root())
}

// RenderSubtree renders the value at the cursor and everything below
// it. The returned view is nul-terminated one byte past its length
// and stays valid until the next Render call.
func (r *Renderer) RenderSubtree(c jsontree.Cursor) []byte {
	r.buf = r.buf[:0]
	r.indent = 0
	if c.IsRoot() {
		r.renderStructure(c, true)
	} else {
		r.renderValue(c)
	}
	r.buf = append(r.buf, 0)
	return r.buf[:len(r.buf)-1]
}

// renderValue dispatches on the node's type tag. Never called for the
// root.
func (r *Renderer) renderValue(c jsontree.Cursor) {
	switch c.Type() {
	case jsontree.TypeObject:
		r.renderStructure(c, true)
	case jsontree.TypeArray:
		r.renderStructure(c, false)
	case jsontree.TypeNull:
		r.buf = append(r.buf, "null"...)
	case jsontree.TypeBool:
		if c.Bool() {
			r.buf = append(r.buf, "true"...)
		} else {
			r.buf = append(r.buf, "false"...)
		}
	case jsontree.TypeUtf8:
		r.renderString(c.Str())
	case jsontree.TypeFloat:
		r.appendFixed(FloatBufferSize, func(dst []byte) int { return FormatFloat(dst, c.Float()) })
	case jsontree.TypeInt:
		r.appendFixed(IntBufferSize, func(dst []byte) int { return FormatInt(dst, c.Int()) })
	case jsontree.TypeUint:
		r.appendFixed(UintBufferSize, func(dst []byte) int { return FormatUint(dst, c.Uint()) })
	case jsontree.TypeTime:
		r.buf = append(r.buf, '"')
		r.appendFixed(TimeBufferSize, func(dst []byte) int { return FormatTime(dst, c.Time()) })
		r.buf = append(r.buf, '"')
	case jsontree.TypeUUID:
		r.buf = append(r.buf, '"')
		r.appendFixed(UUIDBufferSize, func(dst []byte) int { return FormatUUID(dst, c.UUID()) })
		r.buf = append(r.buf, '"')
	default:
		r.renderCustom(c)
	}
}

// appendFixed runs a fixed-buffer formatter directly against the tail
// of the output buffer.
func (r *Renderer) appendFixed(size int, format func(dst []byte) int) {
	n := len(r.buf)
	if cap(r.buf)-n < size {
		r.Reserve(2*cap(r.buf) + size)
	}
	r.buf = r.buf[:n+size]
	cch := format(r.buf[n:])
	r.buf = r.buf[:n+cch]
}

// renderStructure renders a composite and its children. showNames
// selects object form; array children render without names. The root
// renders as an object.
func (r *Renderer) renderStructure(parent jsontree.Cursor, showNames bool) {
	opening, closing := byte('{'), byte('}')
	if !showNames {
		opening, closing = '[', ']'
	}
	r.buf = append(r.buf, opening)

	it, end := parent.Begin(), parent.End()
	if it != end {
		r.indent += r.indentSpaces
		for {
			if r.pretty {
				r.renderNewline()
			}
			if showNames {
				r.renderString(it.Name())
				r.buf = append(r.buf, ':')
				if r.pretty {
					r.buf = append(r.buf, ' ')
				}
			}
			r.renderValue(it)

			it = it.Next()
			if it == end {
				break
			}
			r.buf = append(r.buf, ',')
		}
		r.indent -= r.indentSpaces
		if r.pretty {
			r.renderNewline()
		}
	}

	r.buf = append(r.buf, closing)
}

// renderString writes a quoted JSON string, escaping quote, backslash
// and control bytes. All other bytes pass through verbatim.
func (r *Renderer) renderString(s string) {
	r.buf = append(r.buf, '"')
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case ch < 0x20:
			switch ch {
			case '\b':
				r.buf = append(r.buf, '\\', 'b')
			case '\t':
				r.buf = append(r.buf, '\\', 't')
			case '\n':
				r.buf = append(r.buf, '\\', 'n')
			case '\f':
				r.buf = append(r.buf, '\\', 'f')
			case '\r':
				r.buf = append(r.buf, '\\', 'r')
			default:
				r.buf = append(r.buf, '\\', 'u', '0', '0', hexUpper[ch>>4], hexUpper[ch&0xF])
			}
		case ch == '"' || ch == '\\':
			r.buf = append(r.buf, '\\', ch)
		default:
			r.buf = append(r.buf, ch)
		}
	}
	r.buf = append(r.buf, '"')
}

func (r *Renderer) renderCustom(c jsontree.Cursor) {
	if r.custom != nil {
		r.buf = r.custom(r.buf, c)
		return
	}
	r.buf = append(r.buf, `"Custom#`...)
	r.appendFixed(UintBufferSize, func(dst []byte) int { return FormatUint(dst, uint64(c.Type())) })
	r.buf = append(r.buf, '"')
}

// renderNewline writes the newline sequence followed by the current
// indentation.
func (r *Renderer) renderNewline() {
	r.buf = append(r.buf, r.newLine...)
	for i := 0; i < r.indent; i++ {
		r.buf = append(r.buf, ' ')
	}
}
