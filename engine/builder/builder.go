// Package builder holds a trigger under construction: one core group plus
// any number of alternate groups, and the group new requirements go into.
package builder

import (
	"github.com/nathoo/triggercore/engine/optimize"
	"github.com/nathoo/triggercore/types"
)

// GroupRef identifies a group owned by a Builder.
type GroupRef int

// CoreGroup refers to the core group.
const CoreGroup GroupRef = -1

// AltGroup refers to the i-th alternate group.
func AltGroup(i int) GroupRef { return GroupRef(i) }

// IsCore reports whether g is the core group.
func (g GroupRef) IsCore() bool { return g < 0 }

// AltIndex returns the alternate index, or -1 for the core group.
func (g GroupRef) AltIndex() int {
	if g.IsCore() {
		return -1
	}
	return int(g)
}

// Builder accumulates requirements for one achievement or trigger.
// A Builder is owned by a single caller and is not safe for concurrent use.
type Builder struct {
	Title       string
	Description string
	Points      int
	ID          int
	BadgeName   string

	core    []types.Requirement
	alts    [][]types.Requirement
	current GroupRef
}

// New returns an empty builder appending to the core group.
func New() *Builder {
	return &Builder{current: CoreGroup}
}

// FromAchievement seeds a builder with a deep copy of an achievement.
// When the achievement has alternates, the last one becomes current.
func FromAchievement(a types.Achievement) *Builder {
	b := New()
	b.Title = a.Title
	b.Description = a.Description
	b.Points = a.Points
	b.ID = a.ID
	b.BadgeName = a.BadgeName

	b.core = append(b.core, a.Core...)
	for _, alt := range a.Alts {
		b.alts = append(b.alts, append([]types.Requirement{}, alt...))
	}
	if len(b.alts) > 0 {
		b.current = AltGroup(len(b.alts) - 1)
	}
	return b
}

// Current returns the group that Add appends to.
func (b *Builder) Current() GroupRef {
	return b.current
}

// BeginAlt starts a new alternate group and makes it current. Leaving the
// core always opens an alt; from an alt, a new one is only opened when the
// current alt already has requirements, so repeated calls are no-ops.
func (b *Builder) BeginAlt() {
	if !b.current.IsCore() && len(b.alts[b.current]) == 0 {
		return
	}
	b.alts = append(b.alts, nil)
	b.current = AltGroup(len(b.alts) - 1)
}

// Add appends a requirement to the current group.
func (b *Builder) Add(r types.Requirement) {
	if b.current.IsCore() {
		b.core = append(b.core, r)
		return
	}
	b.alts[b.current] = append(b.alts[b.current], r)
}

// SetLastHitCount updates the hit count of the most recently added
// requirement in the current group. It returns false if the group is empty.
func (b *Builder) SetLastHitCount(n uint16) bool {
	group := b.group(b.current)
	if len(group) == 0 {
		return false
	}
	group[len(group)-1].HitCount = n
	return true
}

// LastRequirement returns the last requirement in the current group.
func (b *Builder) LastRequirement() (types.Requirement, bool) {
	group := b.group(b.current)
	if len(group) == 0 {
		return types.Requirement{}, false
	}
	return group[len(group)-1], true
}

func (b *Builder) group(g GroupRef) []types.Requirement {
	if g.IsCore() {
		return b.core
	}
	return b.alts[g]
}

// Core returns a copy of the core group.
func (b *Builder) Core() []types.Requirement {
	return append([]types.Requirement{}, b.core...)
}

// Alts returns a copy of the alternate groups.
func (b *Builder) Alts() [][]types.Requirement {
	alts := make([][]types.Requirement, len(b.alts))
	for i, alt := range b.alts {
		alts[i] = append([]types.Requirement{}, alt...)
	}
	return alts
}

// Len returns the total number of requirements across all groups.
func (b *Builder) Len() int {
	n := len(b.core)
	for _, alt := range b.alts {
		n += len(alt)
	}
	return n
}

// ToAchievement finalizes the builder into an independent Achievement.
func (b *Builder) ToAchievement() types.Achievement {
	return types.Achievement{
		ID:          b.ID,
		Title:       b.Title,
		Description: b.Description,
		Points:      b.Points,
		BadgeName:   b.BadgeName,
		Core:        b.Core(),
		Alts:        b.Alts(),
	}
}

// AreRequirementsSame reports whether both builders hold the same
// requirements: the cores match as multisets and each alt matches the alt
// at the same position as a multiset. Logical subsumption is not detected.
func (b *Builder) AreRequirementsSame(other *Builder) bool {
	if !SameRequirements(b.core, other.core) {
		return false
	}
	if len(b.alts) != len(other.alts) {
		return false
	}
	for i := range b.alts {
		if !SameRequirements(b.alts[i], other.alts[i]) {
			return false
		}
	}
	return true
}

// SameRequirements reports whether two groups are equal as multisets.
func SameRequirements(left, right []types.Requirement) bool {
	if len(left) != len(right) {
		return false
	}
	used := make([]bool, len(right))
	for _, l := range left {
		found := false
		for j, r := range right {
			if !used[j] && l.Equal(r) {
				used[j] = true
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Optimize rewrites the groups in place into a smaller equivalent form and
// reports what each pass did. The number of alt groups never changes, so
// the current group stays valid.
func (b *Builder) Optimize() optimize.Report {
	core, alts, report := optimize.Run(b.core, b.alts)
	b.core = core
	b.alts = alts
	return report
}
