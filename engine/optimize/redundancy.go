package optimize

import (
	"slices"

	"github.com/nathoo/triggercore/types"
)

// RemoveRedundancies drops range comparisons implied by another comparison
// on the same field, e.g. (x > 3 && x > 5) => (x > 5) and
// (x == 5 && x < 10) => (x == 5). NotEqual is never considered, and
// neither are fields that differ in type or size.
func RemoveRedundancies(reqs []types.Requirement) []types.Requirement {
	out := clone(reqs)
	for i := len(out) - 1; i >= 0; i-- {
		if !isRangeCandidate(out[i]) {
			continue
		}
		for j := range out {
			if j == i || !isRangeCandidate(out[j]) || !out[j].Left.Equal(out[i].Left) {
				continue
			}
			if implies(out[j], out[i]) {
				out = slices.Delete(out, i, i+1)
				break
			}
		}
	}
	return out
}

func isRangeCandidate(r types.Requirement) bool {
	return r.IsPlain() && r.Left.IsMemory() && r.Right.Type == types.Value
}

// implies reports whether check being true forces r to be true.
func implies(check, r types.Requirement) bool {
	c := check.Right.Value
	v := r.Right.Value

	switch check.Operator {
	case types.OpEqual:
		switch r.Operator {
		case types.OpGreaterThan:
			return v < c
		case types.OpGreaterThanOrEqual:
			return v <= c
		case types.OpLessThan:
			return v > c
		case types.OpLessThanOrEqual:
			return v >= c
		}

	case types.OpGreaterThan:
		switch r.Operator {
		case types.OpGreaterThan:
			return v < c
		case types.OpGreaterThanOrEqual:
			return v <= c
		}

	case types.OpGreaterThanOrEqual:
		switch r.Operator {
		case types.OpGreaterThan, types.OpGreaterThanOrEqual:
			return v < c
		}

	case types.OpLessThan:
		switch r.Operator {
		case types.OpLessThan:
			return v > c
		case types.OpLessThanOrEqual:
			return v >= c
		}

	case types.OpLessThanOrEqual:
		switch r.Operator {
		case types.OpLessThan, types.OpLessThanOrEqual:
			return v > c
		}
	}
	return false
}
