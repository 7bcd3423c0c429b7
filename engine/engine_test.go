package engine_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/nathoo/triggercore/engine"
	"github.com/nathoo/triggercore/engine/codec"
	"github.com/nathoo/triggercore/types"
)

func achievement(t *testing.T, id int, title, trigger string) types.Achievement {
	t.Helper()
	b, n := codec.ParseString(trigger)
	require.Equal(t, len(trigger), n)
	b.ID = id
	b.Title = title
	return b.ToAchievement()
}

func TestCompileTrigger(t *testing.T) {
	eng := engine.New(zaptest.NewLogger(t), engine.DefaultOptions())

	res, err := eng.CompileTrigger("0xM001234=1_0xN001234=0_0xO001234=1_0xP001234=0_0xQ001234=1_0xR001234=0_0xS001234=1_0xT001234=0")
	require.NoError(t, err)
	require.Equal(t, "0xH001234=85", res.Output)
	require.Equal(t, "byte(0x001234) == 85", res.Debug)
	require.Equal(t, 1, res.Core)
	require.Zero(t, res.Alts)
	require.Equal(t, 8, res.Report.Before)
	require.Equal(t, 1, res.Report.After)
}

func TestCompileTrigger_NoOptimize(t *testing.T) {
	eng := engine.New(nil, engine.Options{Strict: true})

	res, err := eng.CompileTrigger("0xH000001=1_0xH000001=1")
	require.NoError(t, err)
	require.Equal(t, "0xH000001=1_0xH000001=1", res.Output)
	require.Zero(t, res.Report.Rounds)
}

func TestCompileTrigger_Strict(t *testing.T) {
	eng := engine.New(nil, engine.DefaultOptions())

	_, err := eng.CompileTrigger("0xH000001=1;junk")
	require.ErrorIs(t, err, engine.ErrTrailingInput)
	require.ErrorContains(t, err, "offset 11")

	_, err = eng.CompileTrigger("0xH000002=1S0xH000001!1")
	require.ErrorIs(t, err, engine.ErrMalformedRequirement)
	require.ErrorContains(t, err, "alt 1 requirement 1")

	for _, s := range []string{"0xH000001=1_S0xH000002=1", "0xH000001=1_"} {
		_, err = eng.CompileTrigger(s)
		require.ErrorIs(t, err, engine.ErrMalformedRequirement, s)
		require.ErrorContains(t, err, "core requirement 2", s)
	}
}

func TestCompileTrigger_Lenient(t *testing.T) {
	eng := engine.New(nil, engine.Options{Optimize: true})

	res, err := eng.CompileTrigger("0xH000001=1_0xH000001=1;junk")
	require.NoError(t, err)
	require.Equal(t, "0xH000001=1", res.Output)
	require.Equal(t, "0xH000001=1_0xH000001=1;junk", res.Input)
}

func TestWithOptions(t *testing.T) {
	eng := engine.New(nil, engine.DefaultOptions())
	lenient := eng.WithOptions(engine.Options{})

	require.Equal(t, engine.DefaultOptions(), eng.Options())
	require.Equal(t, engine.Options{}, lenient.Options())
}

func TestCompileAchievement(t *testing.T) {
	eng := engine.New(nil, engine.DefaultOptions())
	in := achievement(t, 5, "Both", "S0xH000001=1_0xH000002=2S0xH000001=1_0xH000003=3")
	in.Points = 10

	out, err := eng.CompileAchievement(in)
	require.NoError(t, err)
	require.Equal(t, "0xH000001=1S0xH000002=2S0xH000003=3", codec.SerializeAchievement(out))
	require.Equal(t, 5, out.ID)
	require.Equal(t, "Both", out.Title)
	require.Equal(t, 10, out.Points)

	// The input is not modified.
	require.Equal(t, "S0xH000001=1_0xH000002=2S0xH000001=1_0xH000003=3", codec.SerializeAchievement(in))
}

func TestCompileAchievement_Malformed(t *testing.T) {
	in := achievement(t, 9, "Broken", "0xH000001!1")

	_, err := engine.New(nil, engine.DefaultOptions()).CompileAchievement(in)
	require.ErrorIs(t, err, engine.ErrMalformedRequirement)
	require.ErrorContains(t, err, `achievement 9 "Broken"`)

	_, err = engine.New(nil, engine.Options{}).CompileAchievement(in)
	require.NoError(t, err)
}

func TestCompileLeaderboard(t *testing.T) {
	eng := engine.New(nil, engine.DefaultOptions())
	lb := types.Leaderboard{
		ID:     3,
		Title:  "Fastest",
		Start:  "0xH000001=1_0xH000001=1",
		Submit: "0xM000002>0",
		Value:  "0xX000010",
	}

	out, err := eng.CompileLeaderboard(lb)
	require.NoError(t, err)
	require.Equal(t, "0xH000001=1", out.Start)
	require.Empty(t, out.Cancel)
	require.Equal(t, "0xM000002=1", out.Submit)
	require.Equal(t, "0xX000010", out.Value)

	lb.Cancel = "0xH000001=1;"
	_, err = eng.CompileLeaderboard(lb)
	require.ErrorIs(t, err, engine.ErrTrailingInput)
	require.ErrorContains(t, err, `leaderboard 3 "Fastest" cancel`)
}

func TestCompileSet(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	eng := engine.New(zap.New(core), engine.DefaultOptions())

	set := types.AchievementSet{
		Title:  "Sample",
		GameID: 42,
		Achievements: []types.Achievement{
			achievement(t, 1, "One", "0xH000001=1_0xH000001=1"),
			achievement(t, 2, "Two", "0xH000002>3_0xH000002>5"),
		},
		Leaderboards: []types.Leaderboard{{ID: 1, Title: "Board", Start: "0xH000003=1"}},
	}

	out, err := eng.CompileSet(set)
	require.NoError(t, err)
	require.Equal(t, "Sample", out.Title)
	require.Equal(t, 42, out.GameID)
	require.Len(t, out.Achievements, 2)
	require.Equal(t, "0xH000001=1", codec.SerializeAchievement(out.Achievements[0]))
	require.Equal(t, "0xH000002>5", codec.SerializeAchievement(out.Achievements[1]))
	require.Len(t, out.Leaderboards, 1)

	entries := logs.FilterMessage("compiled achievement set").All()
	require.Len(t, entries, 1)
	require.Equal(t, int64(2), entries[0].ContextMap()["achievements"])
}

func TestCompileSet_StopsAtFirstError(t *testing.T) {
	eng := engine.New(nil, engine.DefaultOptions())
	set := types.AchievementSet{
		Title: "Sample",
		Achievements: []types.Achievement{
			achievement(t, 1, "Good", "0xH000001=1"),
			achievement(t, 2, "Bad", "0xH000001!1"),
		},
	}

	_, err := eng.CompileSet(set)
	require.ErrorIs(t, err, engine.ErrMalformedRequirement)
}
