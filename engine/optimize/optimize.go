// Package optimize shrinks a trigger's groups without changing what they
// evaluate to. Every pass is a pure function: it copies its input and
// returns the rewritten groups.
package optimize

import (
	"slices"

	"github.com/nathoo/triggercore/types"
)

// PassStat records the total requirement count around one pass application.
type PassStat struct {
	Round  int
	Name   string
	Before int
	After  int
}

// Report describes one Run.
type Report struct {
	Rounds int
	Before int
	After  int
	Passes []PassStat
}

// Changed reports whether any pass removed a requirement.
func (r Report) Changed() bool {
	return r.Before != r.After
}

// groups is the working copy a pipeline round operates on.
type groups struct {
	core []types.Requirement
	alts [][]types.Requirement
}

func (g groups) len() int {
	n := len(g.core)
	for _, alt := range g.alts {
		n += len(alt)
	}
	return n
}

func (g groups) clone() groups {
	c := groups{core: clone(g.core), alts: make([][]types.Requirement, len(g.alts))}
	for i, alt := range g.alts {
		c.alts[i] = clone(alt)
	}
	return c
}

func (g groups) equal(o groups) bool {
	eq := func(a, b types.Requirement) bool { return a.Equal(b) }
	if !slices.EqualFunc(g.core, o.core, eq) || len(g.alts) != len(o.alts) {
		return false
	}
	for i := range g.alts {
		if !slices.EqualFunc(g.alts[i], o.alts[i], eq) {
			return false
		}
	}
	return true
}

// eachGroup applies fn to the core and to every alt.
func (g groups) eachGroup(fn func([]types.Requirement) []types.Requirement) groups {
	g.core = fn(g.core)
	for i := range g.alts {
		g.alts[i] = fn(g.alts[i])
	}
	return g
}

type pass struct {
	name  string
	apply func(groups) groups
}

// pipeline is the fixed pass order.
var pipeline = []pass{
	{"NormalizeComparisons", func(g groups) groups {
		return g.eachGroup(NormalizeComparisons)
	}},
	{"RemoveDuplicates", func(g groups) groups {
		return g.eachGroup(RemoveDuplicates)
	}},
	{"RemoveAltsAlreadyInCore", func(g groups) groups {
		for i := range g.alts {
			g.alts[i] = RemoveAltsAlreadyInCore(g.core, g.alts[i])
		}
		return g
	}},
	{"RemoveRedundancies", func(g groups) groups {
		return g.eachGroup(RemoveRedundancies)
	}},
	{"MergeBits", func(g groups) groups {
		return g.eachGroup(MergeBits)
	}},
	{"PromoteCommonAltsToCore", func(g groups) groups {
		g.core, g.alts = PromoteCommonAltsToCore(g.core, g.alts)
		return g
	}},
}

// PassNames lists the passes in pipeline order.
func PassNames() []string {
	names := make([]string, len(pipeline))
	for i, p := range pipeline {
		names[i] = p.name
	}
	return names
}

// Run applies the pipeline to copies of core and alts until a full round
// leaves them unchanged, so running it again on its output is a no-op.
// The number of alt groups is preserved; an alt may end up empty.
func Run(core []types.Requirement, alts [][]types.Requirement) ([]types.Requirement, [][]types.Requirement, Report) {
	g := groups{core: core, alts: alts}.clone()
	report := Report{Before: g.len()}

	// After the first round every productive round removes a requirement.
	maxRounds := g.len() + 2
	for round := 1; round <= maxRounds; round++ {
		prev := g.clone()
		for _, p := range pipeline {
			before := g.len()
			g = p.apply(g)
			report.Passes = append(report.Passes, PassStat{
				Round:  round,
				Name:   p.name,
				Before: before,
				After:  g.len(),
			})
		}
		report.Rounds = round
		if g.equal(prev) {
			break
		}
	}

	report.After = g.len()
	return g.core, g.alts, report
}

// clone copies reqs. The result is never nil, so an emptied group stays an
// empty group.
func clone(reqs []types.Requirement) []types.Requirement {
	out := make([]types.Requirement, len(reqs))
	copy(out, reqs)
	return out
}

// pauses reports whether any clause in reqs is a PauseIf.
func pauses(reqs []types.Requirement) bool {
	return slices.ContainsFunc(reqs, func(r types.Requirement) bool {
		return r.Type == types.PauseIf
	})
}

func contains(reqs []types.Requirement, r types.Requirement) bool {
	return slices.ContainsFunc(reqs, r.Equal)
}

func literal(size types.FieldSize, value uint32) types.Field {
	return types.Field{Type: types.Value, Size: size, Value: value}
}
