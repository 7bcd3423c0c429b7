package eval

import "github.com/nathoo/triggercore/types"

// Runtime steps a trigger frame by frame, keeping a hit counter per clause.
//
// Per frame and per group: a true PauseIf freezes the group (no counters
// move, the group is false). A true ResetIf clears every counter in the
// trigger and the trigger is false for that frame. A hit-counted clause is
// true once its counter reaches its target; counters never exceed it.
type Runtime struct {
	core    []types.Requirement
	alts    [][]types.Requirement
	coreHit []uint32
	altHit  [][]uint32
}

// NewRuntime creates a runtime with all counters at zero.
func NewRuntime(core []types.Requirement, alts [][]types.Requirement) *Runtime {
	rt := &Runtime{
		core:    append([]types.Requirement(nil), core...),
		alts:    make([][]types.Requirement, len(alts)),
		coreHit: make([]uint32, len(core)),
		altHit:  make([][]uint32, len(alts)),
	}
	for i, alt := range alts {
		rt.alts[i] = append([]types.Requirement(nil), alt...)
		rt.altHit[i] = make([]uint32, len(alt))
	}
	return rt
}

// Reset clears every hit counter.
func (rt *Runtime) Reset() {
	clear(rt.coreHit)
	for _, hits := range rt.altHit {
		clear(hits)
	}
}

// Hits returns the counter of a core clause (alt = -1) or an alt clause.
func (rt *Runtime) Hits(alt, index int) uint32 {
	if alt < 0 {
		return rt.coreHit[index]
	}
	return rt.altHit[alt][index]
}

// Step evaluates one frame and reports whether the trigger fired.
func (rt *Runtime) Step(mem Memory) bool {
	reset := false

	coreTrue := stepGroup(rt.core, rt.coreHit, mem, &reset)

	// Every alt is stepped so that its counters advance.
	altTrue := len(rt.alts) == 0
	for i, alt := range rt.alts {
		if stepGroup(alt, rt.altHit[i], mem, &reset) {
			altTrue = true
		}
	}

	if reset {
		rt.Reset()
		return false
	}
	return coreTrue && altTrue
}

func stepGroup(reqs []types.Requirement, hits []uint32, mem Memory, reset *bool) bool {
	for i, r := range reqs {
		if r.Type == types.PauseIf && hit(r, i, hits, mem) {
			return false
		}
	}

	result := true
	for i, r := range reqs {
		switch r.Type {
		case types.PauseIf:
			continue
		case types.ResetIf:
			if hit(r, i, hits, mem) {
				*reset = true
			}
		default:
			if !hit(r, i, hits, mem) {
				result = false
			}
		}
	}
	return result
}

// hit evaluates clause i, advancing its counter when it has a target.
func hit(r types.Requirement, i int, hits []uint32, mem Memory) bool {
	ok := Requirement(r, mem)
	if r.HitCount == 0 {
		return ok
	}
	target := uint32(r.HitCount)
	if ok && hits[i] < target {
		hits[i]++
	}
	return hits[i] >= target
}
