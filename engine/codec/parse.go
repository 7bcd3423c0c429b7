// Package codec reads and writes the single-line trigger encoding, e.g.
//
//	0xH001234=1_R:0xH001235>d0xH001235S0x 00abcd<=100.5.
//
// Parsing is deliberately permissive: it never fails, it stops at the first
// character it cannot continue from. Callers that care compare the consumed
// length against the input.
package codec

import (
	"github.com/nathoo/triggercore/engine/builder"
	"github.com/nathoo/triggercore/types"
)

// Cursor walks a trigger string one byte at a time.
type Cursor struct {
	input string
	pos   int
}

// NewCursor returns a cursor at the start of input.
func NewCursor(input string) *Cursor {
	return &Cursor{input: input}
}

// NextChar returns the byte under the cursor, or 0 at end of input.
func (c *Cursor) NextChar() byte {
	if c.pos >= len(c.input) {
		return 0
	}
	return c.input[c.pos]
}

// Advance moves past the current byte.
func (c *Cursor) Advance() {
	if c.pos < len(c.input) {
		c.pos++
	}
}

// Match consumes prefix if the input continues with it.
func (c *Cursor) Match(prefix string) bool {
	if len(c.input)-c.pos < len(prefix) || c.input[c.pos:c.pos+len(prefix)] != prefix {
		return false
	}
	c.pos += len(prefix)
	return true
}

// Pos returns the number of bytes consumed.
func (c *Cursor) Pos() int { return c.pos }

// Done reports whether the whole input was consumed.
func (c *Cursor) Done() bool { return c.pos >= len(c.input) }

// Remaining returns the unconsumed input.
func (c *Cursor) Remaining() string { return c.input[c.pos:] }

// sizeCodes maps a size character following "0x" to its field size.
var sizeCodes = map[byte]types.FieldSize{
	'M': types.Bit0,
	'N': types.Bit1,
	'O': types.Bit2,
	'P': types.Bit3,
	'Q': types.Bit4,
	'R': types.Bit5,
	'S': types.Bit6,
	'T': types.Bit7,
	'L': types.LowNibble,
	'U': types.HighNibble,
	'H': types.Byte,
	'X': types.DWord,
}

// Parse reads requirements into b's current group until the input stops
// continuing with '_' (same group) or 'S' (new alt group). Only a group may
// be empty, never the clause after '_': "_S" and a trailing '_' read a
// clause with no operator.
func Parse(c *Cursor, b *builder.Builder) {
	for !c.Done() {
		// An empty group: the core of "S0x..." or an alt of "...SS".
		if c.NextChar() == 'S' {
			c.Advance()
			b.BeginAlt()
			continue
		}

		b.Add(parseRequirement(c))
		for c.NextChar() == '_' {
			c.Advance()
			b.Add(parseRequirement(c))
		}

		if c.NextChar() != 'S' {
			return
		}
		c.Advance()
		b.BeginAlt()
	}
}

// ParseString parses a whole trigger into a new builder and returns the
// number of bytes consumed.
func ParseString(s string) (*builder.Builder, int) {
	b := builder.New()
	c := NewCursor(s)
	Parse(c, b)
	return b, c.Pos()
}

func parseRequirement(c *Cursor) types.Requirement {
	var r types.Requirement

	if c.Match("R:") {
		r.Type = types.ResetIf
	} else if c.Match("P:") {
		r.Type = types.PauseIf
	}

	r.Left = readField(c)
	r.Operator = readOperator(c)
	r.Right = readField(c)

	// Literals take the width of what they are compared against.
	if r.Right.Size == types.SizeNone {
		r.Right.Size = r.Left.Size
	}

	if c.NextChar() == '.' {
		c.Advance()
		r.HitCount = uint16(readNumber(c))
		c.Advance() // closing '.'
	}

	return r
}

// readNumber reads a decimal run. Overflow wraps silently.
func readNumber(c *Cursor) uint32 {
	var v uint32
	for ch := c.NextChar(); ch >= '0' && ch <= '9'; ch = c.NextChar() {
		v = v*10 + uint32(ch-'0')
		c.Advance()
	}
	return v
}

func readField(c *Cursor) types.Field {
	fieldType := types.MemoryAddress
	if c.NextChar() == 'd' {
		fieldType = types.PreviousValue
		c.Advance()
	}

	if !c.Match("0x") {
		return types.Field{Type: types.Value, Value: readNumber(c)}
	}

	size := types.SizeNone
	ch := c.NextChar()
	switch {
	case ch == ' ':
		size = types.Word
		c.Advance()
	case ch >= '0' && ch <= '9':
		size = types.Word
	default:
		if s, ok := sizeCodes[ch]; ok {
			size = s
			c.Advance()
		}
	}

	var address uint32
	for {
		digit, ok := hexDigit(c.NextChar())
		if !ok {
			break
		}
		c.Advance()
		address = address<<4 + digit
	}

	return types.Field{Type: fieldType, Size: size, Value: address}
}

func hexDigit(ch byte) (uint32, bool) {
	switch {
	case ch >= '0' && ch <= '9':
		return uint32(ch - '0'), true
	case ch >= 'a' && ch <= 'f':
		return uint32(ch-'a') + 10, true
	case ch >= 'A' && ch <= 'F':
		return uint32(ch-'A') + 10, true
	}
	return 0, false
}

func readOperator(c *Cursor) types.RequirementOperator {
	switch c.NextChar() {
	case '=':
		c.Advance()
		return types.OpEqual

	case '!':
		c.Advance()
		if c.NextChar() == '=' {
			c.Advance()
			return types.OpNotEqual
		}

	case '<':
		c.Advance()
		if c.NextChar() == '=' {
			c.Advance()
			return types.OpLessThanOrEqual
		}
		return types.OpLessThan

	case '>':
		c.Advance()
		if c.NextChar() == '=' {
			c.Advance()
			return types.OpGreaterThanOrEqual
		}
		return types.OpGreaterThan
	}

	return types.OpNone
}
