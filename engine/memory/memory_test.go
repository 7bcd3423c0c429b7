package memory

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nathoo/triggercore/types"
)

func TestPeek(t *testing.T) {
	frame := []byte{0xA5, 0x34, 0x12, 0x78, 0x56}

	tests := []struct {
		name    string
		address uint32
		size    types.FieldSize
		want    uint32
	}{
		{"bit0 set", 0, types.Bit0, 1},
		{"bit1 clear", 0, types.Bit1, 0},
		{"bit7 set", 0, types.Bit7, 1},
		{"low nibble", 0, types.LowNibble, 0x5},
		{"high nibble", 0, types.HighNibble, 0xA},
		{"byte", 1, types.Byte, 0x34},
		{"word is little endian", 1, types.Word, 0x1234},
		{"dword is little endian", 1, types.DWord, 0x56781234},
		{"size none reads a word", 1, types.SizeNone, 0x1234},
		{"past the end", 9, types.Byte, 0},
		{"word straddling the end", 4, types.Word, 0x56},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Peek(frame, tt.address, tt.size))
		})
	}
}

func TestSnapshot_ReadAndAdvance(t *testing.T) {
	s := FromBytes([]byte{1, 2})
	cur := types.Field{Type: types.MemoryAddress, Size: types.Byte, Value: 1}
	prev := types.Field{Type: types.PreviousValue, Size: types.Byte, Value: 1}
	lit := types.Field{Type: types.Value, Size: types.Byte, Value: 300}

	require.Equal(t, uint32(2), s.Read(cur))
	require.Equal(t, uint32(2), s.Read(prev))
	require.Equal(t, uint32(300), s.Read(lit), "literals are not truncated to the field width")

	s.Advance([]byte{1, 9})
	require.Equal(t, uint32(9), s.Read(cur))
	require.Equal(t, uint32(2), s.Read(prev))
}

func TestSnapshot_Poke(t *testing.T) {
	s := New(2)
	s.Poke(1, 0xFF)
	require.Equal(t, []byte{0, 0xFF}, s.Current())

	s.Poke(4, 7)
	require.Equal(t, []byte{0, 0xFF, 0, 0, 7}, s.Current())

	// The previous frame is untouched by writes to the current one.
	prev := types.Field{Type: types.PreviousValue, Size: types.Byte, Value: 1}
	require.Equal(t, uint32(0), s.Read(prev))
}

func TestSnapshot_PokeFarAddress(t *testing.T) {
	s := New(1)
	s.Poke(0xFFFF, 0x42)

	cur := s.Current()
	require.Len(t, cur, 0x10000)
	require.Equal(t, byte(0x42), cur[0xFFFF])
	require.Equal(t, uint32(0x42), Peek(cur, 0xFFFF, types.Byte))

	// Writing below the end does not resize the frame.
	s.Poke(3, 1)
	require.Len(t, s.Current(), 0x10000)
}

func TestSnapshot_CopiesInput(t *testing.T) {
	data := []byte{5}
	s := FromBytes(data)
	data[0] = 6

	got := s.Current()
	require.Equal(t, []byte{5}, got)
	got[0] = 7
	require.Equal(t, []byte{5}, s.Current())
}
