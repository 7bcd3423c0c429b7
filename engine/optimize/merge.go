package optimize

import (
	"slices"

	"github.com/nathoo/triggercore/types"
)

// bitKey groups mergeable requirements by the memory they read.
type bitKey struct {
	typ     types.FieldType
	address uint32
}

// bitAccumulator tracks which bits of a byte are pinned and to what.
type bitAccumulator struct {
	present  uint8
	values   uint8
	conflict bool
}

func (a *bitAccumulator) constrain(mask, value uint8) {
	if a.present&mask&(a.values^value) != 0 {
		a.conflict = true
	}
	a.present |= mask
	a.values |= value & mask
}

// isMergeable reports whether r pins a memory read to a literal every frame.
func isMergeable(r types.Requirement) bool {
	return r.Operator == types.OpEqual &&
		r.Right.Type == types.Value &&
		r.Left.IsMemory() &&
		r.IsPlain()
}

// MergeBits collapses equality checks on individual bits into nibble or
// byte checks:
//
//	bit0(x) == 1 && ... && bit7(x) == 0  =>  byte(x) == value
//	bit0(x) == 1 && ... && bit3(x) == 0  =>  low4(x) == value
//
// The merged clause takes the position of the earliest clause it replaces.
// Addresses whose clauses contradict each other are left alone.
func MergeBits(reqs []types.Requirement) []types.Requirement {
	var order []bitKey
	accs := map[bitKey]*bitAccumulator{}

	for _, r := range reqs {
		if !isMergeable(r) {
			continue
		}
		key := bitKey{typ: r.Left.Type, address: r.Left.Value}
		acc, ok := accs[key]
		if !ok {
			acc = &bitAccumulator{}
			accs[key] = acc
			order = append(order, key)
		}

		v := r.Right.Value
		size := r.Left.Size
		if v > size.MaxValue() {
			acc.conflict = true
			continue
		}
		switch {
		case size.IsBit():
			mask := uint8(1) << size.BitIndex()
			acc.constrain(mask, uint8(v)<<size.BitIndex())
		case size == types.LowNibble:
			acc.constrain(0x0F, uint8(v))
		case size == types.HighNibble:
			acc.constrain(0xF0, uint8(v)<<4)
		case size == types.Byte:
			acc.constrain(0xFF, uint8(v))
		}
	}

	out := clone(reqs)
	for _, key := range order {
		acc := accs[key]
		if acc.conflict {
			continue
		}
		if acc.present == 0xFF {
			out = mergeInto(out, key, types.Byte, uint32(acc.values))
			continue
		}
		if acc.present&0x0F == 0x0F {
			out = mergeInto(out, key, types.LowNibble, uint32(acc.values&0x0F))
		}
		if acc.present&0xF0 == 0xF0 {
			out = mergeInto(out, key, types.HighNibble, uint32(acc.values>>4))
		}
	}
	return out
}

// mergeInto replaces the finer-grained clauses on key with one clause of
// the given size, or updates an existing clause of that size in place.
func mergeInto(reqs []types.Requirement, key bitKey, size types.FieldSize, value uint32) []types.Requirement {
	insert := true
	insertAt := 0
	for i := len(reqs) - 1; i >= 0; i-- {
		r := reqs[i]
		if !isMergeable(r) || r.Left.Type != key.typ || r.Left.Value != key.address {
			continue
		}

		if r.Left.Size == size {
			if r.Right.Value != value {
				reqs[i].Right = literal(size, value)
			}
			insert = false
			continue
		}

		if subsumes(size, r.Left.Size) {
			reqs = slices.Delete(reqs, i, i+1)
			insertAt = i
		}
	}

	if insert {
		merged := types.Requirement{
			Left:     types.Field{Type: key.typ, Size: size, Value: key.address},
			Operator: types.OpEqual,
			Right:    literal(size, value),
		}
		reqs = slices.Insert(reqs, insertAt, merged)
	}
	return reqs
}

// subsumes reports whether a read of size outer covers a read of size inner.
func subsumes(outer, inner types.FieldSize) bool {
	switch outer {
	case types.Byte:
		return inner.IsBit() || inner == types.LowNibble || inner == types.HighNibble
	case types.LowNibble:
		return inner >= types.Bit0 && inner <= types.Bit3
	case types.HighNibble:
		return inner >= types.Bit4 && inner <= types.Bit7
	}
	return false
}
