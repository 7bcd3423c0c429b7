// Package memory models emulated RAM as seen by a trigger: the bytes of the
// current frame and of the frame before it.
package memory

import "github.com/nathoo/triggercore/types"

// Snapshot holds two consecutive frames of memory. Reads past the end of a
// frame return zero.
type Snapshot struct {
	current  []byte
	previous []byte
}

// New creates a zeroed snapshot of size bytes.
func New(size int) *Snapshot {
	return &Snapshot{
		current:  make([]byte, size),
		previous: make([]byte, size),
	}
}

// FromBytes creates a snapshot whose current and previous frames are both
// a copy of data.
func FromBytes(data []byte) *Snapshot {
	return &Snapshot{
		current:  append([]byte(nil), data...),
		previous: append([]byte(nil), data...),
	}
}

// Poke writes one byte of the current frame. Writes past the end grow it.
func (s *Snapshot) Poke(address uint32, v byte) {
	if n := int(address) + 1; n > len(s.current) {
		s.current = append(s.current, make([]byte, n-len(s.current))...)
	}
	s.current[address] = v
}

// Advance makes the current frame the previous one and installs next.
func (s *Snapshot) Advance(next []byte) {
	s.previous = s.current
	s.current = append([]byte(nil), next...)
}

// Current returns a copy of the current frame.
func (s *Snapshot) Current() []byte {
	return append([]byte(nil), s.current...)
}

// Read resolves a field: literals are returned as-is, memory fields are
// read from the current or previous frame.
func (s *Snapshot) Read(f types.Field) uint32 {
	switch f.Type {
	case types.MemoryAddress:
		return Peek(s.current, f.Value, f.Size)
	case types.PreviousValue:
		return Peek(s.previous, f.Value, f.Size)
	default:
		return f.Value
	}
}

// Peek reads size bits at address from frame. Words are little endian.
func Peek(frame []byte, address uint32, size types.FieldSize) uint32 {
	at := func(offset uint32) uint32 {
		if address+offset >= uint32(len(frame)) {
			return 0
		}
		return uint32(frame[address+offset])
	}

	switch {
	case size.IsBit():
		return (at(0) >> size.BitIndex()) & 1
	case size == types.LowNibble:
		return at(0) & 0x0F
	case size == types.HighNibble:
		return at(0) >> 4
	case size == types.Byte:
		return at(0)
	case size == types.DWord:
		return at(0) | at(1)<<8 | at(2)<<16 | at(3)<<24
	default:
		// Word, and SizeNone which the encoding reads as a word.
		return at(0) | at(1)<<8
	}
}
