package loader

import (
	"testing"

	"github.com/nathoo/triggercore/types"
)

// validSet returns a minimal valid set for testing.
func validSet() *types.AchievementSet {
	return &types.AchievementSet{
		Title: "Test",
		Achievements: []types.Achievement{
			{
				ID:    1,
				Title: "One",
				Core: []types.Requirement{
					{Left: mem(types.Byte, 0x10), Operator: types.OpEqual, Right: lit(types.Byte, 1)},
				},
			},
		},
		Leaderboards: []types.Leaderboard{
			{ID: 1, Title: "LB", Start: "0xH000001=1", Cancel: "0xH000001=0", Submit: "0xH000002=1", Value: "0xH000003"},
		},
	}
}

func TestValidate_ValidSet(t *testing.T) {
	ve := validate(validSet())
	if len(ve.Errors) != 0 || len(ve.Warnings) != 0 {
		t.Fatalf("expected no findings, got errors=%v warnings=%v", ve.Errors, ve.Warnings)
	}
}

func TestValidate_EmptyTitle(t *testing.T) {
	set := validSet()
	set.Title = ""
	assertContains(t, validate(set).Errors, "Set.title")
}

func TestValidate_DuplicateID(t *testing.T) {
	set := validSet()
	dup := set.Achievements[0]
	dup.Title = "Copy"
	set.Achievements = append(set.Achievements, dup)
	assertContains(t, validate(set).Errors, "duplicate achievement ID 1")
}

func TestValidate_MissingOperator(t *testing.T) {
	set := validSet()
	set.Achievements[0].Alts = [][]types.Requirement{
		{{Left: mem(types.Byte, 0x10), Right: lit(types.Byte, 1)}},
	}
	assertContains(t, validate(set).Errors, "alt 1 requirement 1: missing comparison operator")
}

func TestValidate_MissingLeaderboardTrigger(t *testing.T) {
	set := validSet()
	set.Leaderboards[0].Cancel = ""
	assertContains(t, validate(set).Errors, "cancel trigger is required")
}

func TestValidate_MalformedLeaderboardTrigger(t *testing.T) {
	set := validSet()
	set.Leaderboards[0].Submit = "0xH000002"
	assertContains(t, validate(set).Errors, "submit requirement 1: missing comparison operator")
}

func TestValidate_ConstantComparison_Warning(t *testing.T) {
	set := validSet()
	set.Achievements[0].Core = append(set.Achievements[0].Core,
		types.Requirement{Left: lit(types.SizeNone, 1), Operator: types.OpEqual, Right: lit(types.SizeNone, 1)})

	ve := validate(set)
	if len(ve.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", ve.Errors)
	}
	assertContains(t, ve.Warnings, "compares two constants (1=1)")
}

func TestValidate_ConstantOutOfRange_Warning(t *testing.T) {
	set := validSet()
	set.Achievements[0].Core[0].Right = lit(types.Byte, 300)
	assertContains(t, validate(set).Warnings, "constant 300 exceeds the range")
}

func TestValidate_EmptyAlt_Warning(t *testing.T) {
	set := validSet()
	set.Achievements[0].Alts = [][]types.Requirement{{}}
	assertContains(t, validate(set).Warnings, "empty alt is always true")
}

func TestValidationError_Message(t *testing.T) {
	ve := &ValidationError{Errors: []string{"a", "b"}}
	want := "validation failed with 2 error(s):\n  a\n  b"
	if ve.Error() != want {
		t.Errorf("Error() = %q, want %q", ve.Error(), want)
	}
}
