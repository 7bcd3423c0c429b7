// Package eval evaluates requirements against memory, either for a single
// frame or frame by frame with hit counters.
package eval

import "github.com/nathoo/triggercore/types"

// Memory resolves a field to its value for the frame being evaluated.
type Memory interface {
	Read(f types.Field) uint32
}

// Compare applies op to two resolved values. OpNone is never true.
func Compare(op types.RequirementOperator, left, right uint32) bool {
	switch op {
	case types.OpEqual:
		return left == right
	case types.OpNotEqual:
		return left != right
	case types.OpLessThan:
		return left < right
	case types.OpLessThanOrEqual:
		return left <= right
	case types.OpGreaterThan:
		return left > right
	case types.OpGreaterThanOrEqual:
		return left >= right
	default:
		return false
	}
}

// Requirement evaluates the comparison of r, ignoring its role and hit count.
func Requirement(r types.Requirement, mem Memory) bool {
	return Compare(r.Operator, mem.Read(r.Left), mem.Read(r.Right))
}

// Group evaluates one frame of a group without hit counters: every plain
// clause must hold, and no ResetIf or PauseIf clause may hold.
// An empty group is vacuously true.
func Group(reqs []types.Requirement, mem Memory) bool {
	for _, r := range reqs {
		ok := Requirement(r, mem)
		if r.Type == types.RoleNone {
			if !ok {
				return false
			}
		} else if ok {
			return false
		}
	}
	return true
}

// Trigger evaluates one frame of core && (alt1 || alt2 || ...) without hit
// counters. With no alts the core alone decides.
func Trigger(core []types.Requirement, alts [][]types.Requirement, mem Memory) bool {
	if !Group(core, mem) {
		return false
	}
	if len(alts) == 0 {
		return true
	}
	for _, alt := range alts {
		if Group(alt, mem) {
			return true
		}
	}
	return false
}
