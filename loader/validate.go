package loader

import (
	"fmt"
	"strings"

	"github.com/nathoo/triggercore/engine/codec"
	"github.com/nathoo/triggercore/types"
)

// ValidationError collects all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

// validate checks the compiled set for consistency. The returned value is
// never nil; callers inspect Errors and Warnings.
func validate(set *types.AchievementSet) *ValidationError {
	ve := &ValidationError{}

	if set.Title == "" {
		ve.Errors = append(ve.Errors, "Set.title is required")
	}

	// Achievement IDs unique.
	seen := make(map[int]string)
	for _, a := range set.Achievements {
		name := fmt.Sprintf("achievement %d %q", a.ID, a.Title)
		if a.ID != 0 {
			if prev, ok := seen[a.ID]; ok {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"duplicate achievement ID %d (%q and %q)", a.ID, prev, a.Title))
			}
			seen[a.ID] = a.Title
		}
		if a.Title == "" {
			ve.Errors = append(ve.Errors, fmt.Sprintf("%s: title is required", name))
		}
		if len(a.Core) == 0 && len(a.Alts) == 0 {
			ve.Errors = append(ve.Errors, fmt.Sprintf("%s: trigger has no requirements", name))
		}
		validateGroup(name+" core", a.Core, ve)
		for i, alt := range a.Alts {
			if len(alt) == 0 {
				ve.Warnings = append(ve.Warnings, fmt.Sprintf("%s alt %d: empty alt is always true", name, i+1))
			}
			validateGroup(fmt.Sprintf("%s alt %d", name, i+1), alt, ve)
		}
	}

	for _, lb := range set.Leaderboards {
		name := fmt.Sprintf("leaderboard %d %q", lb.ID, lb.Title)
		for _, part := range []struct {
			key, src string
		}{
			{"start", lb.Start},
			{"cancel", lb.Cancel},
			{"submit", lb.Submit},
		} {
			if part.src == "" {
				ve.Errors = append(ve.Errors, fmt.Sprintf("%s: %s trigger is required", name, part.key))
				continue
			}
			b, _ := codec.ParseString(part.src)
			validateGroup(name+" "+part.key, b.Core(), ve)
			for i, alt := range b.Alts() {
				validateGroup(fmt.Sprintf("%s %s alt %d", name, part.key, i+1), alt, ve)
			}
		}
		if lb.Value == "" {
			ve.Warnings = append(ve.Warnings, fmt.Sprintf("%s: no value expression", name))
		}
	}

	return ve
}

func validateGroup(group string, reqs []types.Requirement, ve *ValidationError) {
	for i, r := range reqs {
		if r.Operator == types.OpNone {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"%s requirement %d: missing comparison operator", group, i+1))
			continue
		}
		if r.Left.Type == types.Value && r.Right.Type == types.Value {
			ve.Warnings = append(ve.Warnings, fmt.Sprintf(
				"%s requirement %d: compares two constants (%s)", group, i+1, codec.SerializeRequirement(r)))
		}
		if r.Right.Type == types.Value && r.Left.IsMemory() && r.Right.Value > r.Left.Size.MaxValue() {
			ve.Warnings = append(ve.Warnings, fmt.Sprintf(
				"%s requirement %d: constant %d exceeds the range of the field", group, i+1, r.Right.Value))
		}
	}
}
