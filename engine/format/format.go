// Package format renders requirements in a readable, script-like form:
//
//	byte(0x001234) == 1 && (never(word(0x000010) > 100) || once(bit3(0x0000ff) == 1))
package format

import (
	"fmt"
	"strings"

	"github.com/nathoo/triggercore/engine/builder"
	"github.com/nathoo/triggercore/types"
)

var sizeNames = map[types.FieldSize]string{
	types.Bit0:       "bit0",
	types.Bit1:       "bit1",
	types.Bit2:       "bit2",
	types.Bit3:       "bit3",
	types.Bit4:       "bit4",
	types.Bit5:       "bit5",
	types.Bit6:       "bit6",
	types.Bit7:       "bit7",
	types.LowNibble:  "low4",
	types.HighNibble: "high4",
	types.Byte:       "byte",
	types.Word:       "word",
	types.DWord:      "dword",
}

var operators = map[types.RequirementOperator]string{
	types.OpEqual:              "==",
	types.OpNotEqual:           "!=",
	types.OpLessThan:           "<",
	types.OpLessThanOrEqual:    "<=",
	types.OpGreaterThan:        ">",
	types.OpGreaterThanOrEqual: ">=",
}

// Field renders one operand.
func Field(f types.Field) string {
	if f.Type == types.Value {
		return fmt.Sprintf("%d", f.Value)
	}

	name, ok := sizeNames[f.Size]
	if !ok {
		name = "mem"
	}
	s := fmt.Sprintf("%s(0x%06x)", name, f.Value)
	if f.Type == types.PreviousValue {
		s = "prev(" + s + ")"
	}
	return s
}

// Requirement renders a clause with its hit count and role.
func Requirement(r types.Requirement) string {
	op, ok := operators[r.Operator]
	if !ok {
		op = "??"
	}
	s := Field(r.Left) + " " + op + " " + Field(r.Right)

	switch {
	case r.HitCount == 1:
		s = "once(" + s + ")"
	case r.HitCount > 1:
		s = fmt.Sprintf("repeated(%d, %s)", r.HitCount, s)
	}

	switch r.Type {
	case types.ResetIf:
		s = "never(" + s + ")"
	case types.PauseIf:
		s = "unless(" + s + ")"
	}
	return s
}

// Group renders requirements joined with &&.
func Group(reqs []types.Requirement) string {
	parts := make([]string, len(reqs))
	for i, r := range reqs {
		parts[i] = Requirement(r)
	}
	return strings.Join(parts, " && ")
}

// Trigger renders a core group and its alternates.
func Trigger(core []types.Requirement, alts [][]types.Requirement) string {
	s := Group(core)
	if len(alts) == 0 {
		return s
	}

	parts := make([]string, len(alts))
	for i, alt := range alts {
		if len(alt) == 0 {
			parts[i] = "always_true()"
			continue
		}
		if len(alts) > 1 && len(alt) > 1 {
			parts[i] = "(" + Group(alt) + ")"
		} else {
			parts[i] = Group(alt)
		}
	}
	alt := strings.Join(parts, " || ")

	if s == "" {
		return alt
	}
	if len(alts) > 1 {
		alt = "(" + alt + ")"
	}
	return s + " && " + alt
}

// Builder renders a builder's groups.
func Builder(b *builder.Builder) string {
	return Trigger(b.Core(), b.Alts())
}

// Achievement renders a finalized achievement's groups.
func Achievement(a types.Achievement) string {
	return Trigger(a.Core, a.Alts)
}
