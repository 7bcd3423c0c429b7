package optimize

import "github.com/nathoo/triggercore/types"

// NormalizeComparisons rewrites single-bit comparisons against a literal to
// the canonical `bitN == 0` / `bitN == 1` shape:
//
//	bit != 0, bit > 0  ->  bit == 1
//	bit != 1, bit < 1  ->  bit == 0
//	bit >= 0, bit <= 1 ->  always true, dropped
//
// Any non-zero literal other than 1 is first coerced to 1. Always-true
// clauses are only dropped when they are plain; a ResetIf, PauseIf or hit
// counted clause that is always true still has an effect.
func NormalizeComparisons(reqs []types.Requirement) []types.Requirement {
	out := make([]types.Requirement, 0, len(reqs))
	for _, r := range reqs {
		if r.Left.IsMemory() && r.Left.Size.IsBit() && r.Right.Type == types.Value {
			var alwaysTrue bool
			r, alwaysTrue = normalizeBit(r)
			if alwaysTrue && r.IsPlain() {
				continue
			}
		}
		out = append(out, r)
	}
	return out
}

func normalizeBit(r types.Requirement) (types.Requirement, bool) {
	if r.Right.Value == 0 {
		switch r.Operator {
		case types.OpNotEqual, types.OpGreaterThan:
			r.Operator = types.OpEqual
			r.Right = literal(r.Right.Size, 1)
		case types.OpGreaterThanOrEqual:
			return r, true
		}
		return r, false
	}

	if r.Right.Value != 1 {
		r.Right = literal(r.Left.Size, 1)
	}
	switch r.Operator {
	case types.OpNotEqual, types.OpLessThan:
		r.Operator = types.OpEqual
		r.Right = literal(r.Right.Size, 0)
	case types.OpLessThanOrEqual:
		return r, true
	}
	return r, false
}
