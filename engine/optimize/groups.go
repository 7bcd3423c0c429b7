package optimize

import "github.com/nathoo/triggercore/types"

// RemoveDuplicates drops requirements equal to an earlier one in the same
// group. The first occurrence keeps its position.
func RemoveDuplicates(reqs []types.Requirement) []types.Requirement {
	out := make([]types.Requirement, 0, len(reqs))
	for _, r := range reqs {
		if !contains(out, r) {
			out = append(out, r)
		}
	}
	return out
}

// RemoveAltsAlreadyInCore drops alt requirements that the core already has.
//
// When either group can pause, only plain clauses are dropped: a paused
// group stops counting hits and stops checking its ResetIf clauses, so the
// two copies of such a clause can disagree.
func RemoveAltsAlreadyInCore(core, alt []types.Requirement) []types.Requirement {
	paused := pauses(core) || pauses(alt)
	out := make([]types.Requirement, 0, len(alt))
	for _, r := range alt {
		if contains(core, r) && (r.IsPlain() || !paused) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// PromoteCommonAltsToCore moves requirements found in every alt group into
// the core, once. It does nothing with fewer than two alts.
//
// PauseIf clauses stay where they are: in an alt they only freeze that alt.
// When the core or any alt pauses, only plain clauses move, because hit
// counters and ResetIf checks stop while their own group is paused.
func PromoteCommonAltsToCore(core []types.Requirement, alts [][]types.Requirement) ([]types.Requirement, [][]types.Requirement) {
	if len(alts) < 2 {
		return core, alts
	}

	paused := pauses(core)
	for _, alt := range alts {
		paused = paused || pauses(alt)
	}

	var common []types.Requirement
	for _, r := range alts[0] {
		if r.Type == types.PauseIf || (paused && !r.IsPlain()) {
			continue
		}
		if contains(common, r) {
			continue
		}
		inAll := true
		for _, alt := range alts[1:] {
			if !contains(alt, r) {
				inAll = false
				break
			}
		}
		if inAll {
			common = append(common, r)
		}
	}
	if len(common) == 0 {
		return core, alts
	}

	core = clone(core)
	newAlts := make([][]types.Requirement, len(alts))
	for i, alt := range alts {
		kept := make([]types.Requirement, 0, len(alt))
		for _, r := range alt {
			if !contains(common, r) {
				kept = append(kept, r)
			}
		}
		newAlts[i] = kept
	}
	core = append(core, common...)
	return core, newAlts
}
