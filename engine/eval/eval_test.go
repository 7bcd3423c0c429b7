package eval_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nathoo/triggercore/engine/codec"
	"github.com/nathoo/triggercore/engine/eval"
	"github.com/nathoo/triggercore/engine/memory"
	"github.com/nathoo/triggercore/types"
)

func parse(t *testing.T, s string) ([]types.Requirement, [][]types.Requirement) {
	t.Helper()
	b, n := codec.ParseString(s)
	require.Equal(t, len(s), n, "trigger %q not fully parsed", s)
	return b.Core(), b.Alts()
}

func TestCompare(t *testing.T) {
	tests := []struct {
		op          types.RequirementOperator
		left, right uint32
		want        bool
	}{
		{types.OpEqual, 3, 3, true},
		{types.OpEqual, 3, 4, false},
		{types.OpNotEqual, 3, 4, true},
		{types.OpLessThan, 3, 4, true},
		{types.OpLessThan, 4, 4, false},
		{types.OpLessThanOrEqual, 4, 4, true},
		{types.OpGreaterThan, 5, 4, true},
		{types.OpGreaterThanOrEqual, 4, 5, false},
		{types.OpNone, 0, 0, false},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, eval.Compare(tt.op, tt.left, tt.right), "%d %v %d", tt.left, tt.op, tt.right)
	}
}

func TestTrigger_SingleFrame(t *testing.T) {
	mem := memory.FromBytes([]byte{1, 2, 3})

	tests := []struct {
		trigger string
		want    bool
	}{
		{"", true},
		{"0xH000000=1", true},
		{"0xH000000=1_0xH000001=3", false},
		{"0xH000000=1S0xH000001=3S0xH000002=3", true},
		{"0xH000000=1S0xH000001=3S0xH000002=4", false},
		{"0xH000000=1S", true},
		{"0xH000000=1_R:0xH000002=3", false},
		{"0xH000000=1_P:0xH000002=4", true},
		{"0xH000000=1_0xH000001=2.50.", true},
		{"0xH000000>d0xH000000", false},
		{"0x 000000=513", true},
	}
	for _, tt := range tests {
		core, alts := parse(t, tt.trigger)
		require.Equal(t, tt.want, eval.Trigger(core, alts, mem), tt.trigger)
	}
}

func TestRuntime_HitCounts(t *testing.T) {
	core, alts := parse(t, "0xH000000=1.3.")
	rt := eval.NewRuntime(core, alts)
	mem := memory.New(1)

	mem.Poke(0, 1)
	require.False(t, rt.Step(mem))
	require.False(t, rt.Step(mem))

	// A false frame does not clear the counter.
	mem.Poke(0, 0)
	require.False(t, rt.Step(mem))
	require.Equal(t, uint32(2), rt.Hits(-1, 0))

	mem.Poke(0, 1)
	require.True(t, rt.Step(mem))

	// Once reached, the target stays met and the counter is capped.
	mem.Poke(0, 0)
	require.True(t, rt.Step(mem))
	require.Equal(t, uint32(3), rt.Hits(-1, 0))
}

func TestRuntime_ResetIf(t *testing.T) {
	core, alts := parse(t, "0xH000000=1.2._R:0xH000001=1")
	rt := eval.NewRuntime(core, alts)
	mem := memory.New(2)

	mem.Poke(0, 1)
	require.False(t, rt.Step(mem))
	require.Equal(t, uint32(1), rt.Hits(-1, 0))

	mem.Poke(1, 1)
	require.False(t, rt.Step(mem))
	require.Equal(t, uint32(0), rt.Hits(-1, 0))

	mem.Poke(1, 0)
	require.False(t, rt.Step(mem))
	require.True(t, rt.Step(mem))
}

func TestRuntime_PauseIfFreezesGroup(t *testing.T) {
	core, alts := parse(t, "0xH000000=1.2._P:0xH000001=1_R:0xH000002=1")
	rt := eval.NewRuntime(core, alts)
	mem := memory.New(3)

	mem.Poke(0, 1)
	require.False(t, rt.Step(mem))

	// While paused neither hits nor resets are counted.
	mem.Poke(1, 1)
	mem.Poke(2, 1)
	require.False(t, rt.Step(mem))
	require.False(t, rt.Step(mem))
	require.Equal(t, uint32(1), rt.Hits(-1, 0))

	mem.Poke(1, 0)
	mem.Poke(2, 0)
	require.True(t, rt.Step(mem))
}

func TestRuntime_AltResetClearsCore(t *testing.T) {
	core, alts := parse(t, "0xH000000=1.2.S0xH000001=0S0xH000001=1_R:0xH000002=1")
	rt := eval.NewRuntime(core, alts)
	mem := memory.New(3)

	mem.Poke(0, 1)
	require.False(t, rt.Step(mem))
	require.Equal(t, uint32(1), rt.Hits(-1, 0))

	mem.Poke(2, 1)
	require.False(t, rt.Step(mem))
	require.Equal(t, uint32(0), rt.Hits(-1, 0))

	rt.Reset()
	mem.Poke(2, 0)
	require.False(t, rt.Step(mem))
	require.True(t, rt.Step(mem))
}
