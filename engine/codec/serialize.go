package codec

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nathoo/triggercore/engine/builder"
	"github.com/nathoo/triggercore/types"
)

// sizeChars is the inverse of sizeCodes. Word is written as a space and
// SizeNone as nothing.
var sizeChars = map[types.FieldSize]string{
	types.Bit0:       "M",
	types.Bit1:       "N",
	types.Bit2:       "O",
	types.Bit3:       "P",
	types.Bit4:       "Q",
	types.Bit5:       "R",
	types.Bit6:       "S",
	types.Bit7:       "T",
	types.LowNibble:  "L",
	types.HighNibble: "U",
	types.Byte:       "H",
	types.Word:       " ",
	types.DWord:      "X",
}

// Serialize writes the core group followed by one 'S'-prefixed section per
// alt group. Requirements within a group are joined with '_'.
func Serialize(core []types.Requirement, alts [][]types.Requirement) string {
	var sb strings.Builder
	writeGroup(&sb, core)
	for _, alt := range alts {
		sb.WriteByte('S')
		writeGroup(&sb, alt)
	}
	return sb.String()
}

// SerializeBuilder serializes the builder's groups.
func SerializeBuilder(b *builder.Builder) string {
	return Serialize(b.Core(), b.Alts())
}

// SerializeAchievement serializes a finalized achievement's groups.
func SerializeAchievement(a types.Achievement) string {
	return Serialize(a.Core, a.Alts)
}

// SerializeRequirement writes a single requirement.
func SerializeRequirement(r types.Requirement) string {
	var sb strings.Builder
	writeRequirement(&sb, r)
	return sb.String()
}

func writeGroup(sb *strings.Builder, reqs []types.Requirement) {
	for i, r := range reqs {
		if i > 0 {
			sb.WriteByte('_')
		}
		writeRequirement(sb, r)
	}
}

func writeRequirement(sb *strings.Builder, r types.Requirement) {
	switch r.Type {
	case types.ResetIf:
		sb.WriteString("R:")
	case types.PauseIf:
		sb.WriteString("P:")
	}

	writeField(sb, r.Left)
	sb.WriteString(r.Operator.String())
	writeField(sb, r.Right)

	if r.HitCount > 0 {
		sb.WriteByte('.')
		sb.WriteString(strconv.FormatUint(uint64(r.HitCount), 10))
		sb.WriteByte('.')
	}
}

func writeField(sb *strings.Builder, f types.Field) {
	if f.Type == types.Value {
		sb.WriteString(strconv.FormatUint(uint64(f.Value), 10))
		return
	}

	if f.Type == types.PreviousValue {
		sb.WriteByte('d')
	}
	sb.WriteString("0x")
	sb.WriteString(sizeChars[f.Size])
	fmt.Fprintf(sb, "%06x", f.Value)
}
