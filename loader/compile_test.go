package loader

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/triggercore/types"
)

// newTestVM creates a sandboxed Lua VM with the API registered and a fresh collector.
func newTestVM() (*lua.LState, *collector) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibs(L)
	sandbox(L)
	coll := &collector{}
	registerAPI(L, coll)
	return L, coll
}

// evalTable runs src, which must return a table.
func evalTable(t *testing.T, L *lua.LState, src string) *lua.LTable {
	t.Helper()
	require.NoError(t, L.DoString(src))
	return L.CheckTable(-1)
}

func TestCompileCondition_Helpers(t *testing.T) {
	L, _ := newTestVM()
	defer L.Close()

	tests := []struct {
		src  string
		want types.Requirement
	}{
		{
			src:  `return Eq(Byte(0x1234), 1)`,
			want: types.Requirement{Left: mem(types.Byte, 0x1234), Operator: types.OpEqual, Right: lit(types.Byte, 1)},
		},
		{
			src:  `return Ne(Word(0x10), 7)`,
			want: types.Requirement{Left: mem(types.Word, 0x10), Operator: types.OpNotEqual, Right: lit(types.Word, 7)},
		},
		{
			src:  `return Lt(Low4(0x10), 3)`,
			want: types.Requirement{Left: mem(types.LowNibble, 0x10), Operator: types.OpLessThan, Right: lit(types.LowNibble, 3)},
		},
		{
			src:  `return Le(High4(0x10), 3)`,
			want: types.Requirement{Left: mem(types.HighNibble, 0x10), Operator: types.OpLessThanOrEqual, Right: lit(types.HighNibble, 3)},
		},
		{
			src:  `return Gt(DWord(0x10), Prev(DWord(0x10)))`,
			want: types.Requirement{
				Left:     mem(types.DWord, 0x10),
				Operator: types.OpGreaterThan,
				Right:    types.Field{Type: types.PreviousValue, Size: types.DWord, Value: 0x10},
			},
		},
		{
			src:  `return Ge(Bit7(0x10), 1)`,
			want: types.Requirement{Left: mem(types.Bit7, 0x10), Operator: types.OpGreaterThanOrEqual, Right: lit(types.Bit7, 1)},
		},
		{
			src: `return ResetIf(Eq(Byte(0x20), 0))`,
			want: types.Requirement{
				Type: types.ResetIf, Left: mem(types.Byte, 0x20), Operator: types.OpEqual, Right: lit(types.Byte, 0),
			},
		},
		{
			src: `return PauseIf(Hits(3, Eq(Byte(0x20), 0)))`,
			want: types.Requirement{
				Type: types.PauseIf, Left: mem(types.Byte, 0x20), Operator: types.OpEqual, Right: lit(types.Byte, 0), HitCount: 3,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			got, err := compileCondition(evalTable(t, L, tt.src))
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("compileCondition mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestHelpers_DoNotMutateArguments(t *testing.T) {
	L, _ := newTestVM()
	defer L.Close()

	tbl := evalTable(t, L, `
		local c = Eq(Byte(0x10), 1)
		local r = ResetIf(c)
		return { plain = c, reset = r }
	`)
	plain, err := compileCondition(getTable(tbl, "plain"))
	require.NoError(t, err)
	reset, err := compileCondition(getTable(tbl, "reset"))
	require.NoError(t, err)

	if plain.Type != types.RoleNone {
		t.Errorf("ResetIf modified its argument: %v", plain.Type)
	}
	if reset.Type != types.ResetIf {
		t.Errorf("reset.Type = %v, want ResetIf", reset.Type)
	}
}

func TestCompileTrigger_EncodedStringWins(t *testing.T) {
	L, _ := newTestVM()
	defer L.Close()

	tbl := evalTable(t, L, `return { trigger = "0xH000001=1S0xH000002=2", core = { Eq(Byte(9), 9) } }`)
	b, err := compileTrigger(tbl)
	require.NoError(t, err)
	require.Len(t, b.Core(), 1)
	require.Len(t, b.Alts(), 1)
	if b.Core()[0].Left.Value != 1 {
		t.Errorf("core came from the table, not the trigger string")
	}
}

func TestCompileTriggerValue(t *testing.T) {
	L, _ := newTestVM()
	defer L.Close()

	tests := []struct {
		name string
		src  string
		want string
	}{
		{"nil", `return nil`, ""},
		{"string", `return "0xH000010=1"`, "0xH000010=1"},
		{"condition list", `return { Eq(Byte(0x10), 1), Gt(Word(0x12), 2) }`, "0xH000010=1_0x 000012>2"},
		{"groups", `return { core = { Eq(Byte(1), 1) }, alts = { { Eq(Byte(2), 2) } } }`, "0xH000001=1S0xH000002=2"},
		{"alts only", `return { alts = { { Eq(Byte(2), 2) }, { Eq(Byte(3), 3) } } }`, "S0xH000002=2S0xH000003=3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, L.DoString(tt.src))
			v := L.Get(-1)
			L.Pop(1)
			got, err := compileTriggerValue(v)
			require.NoError(t, err)
			if got != tt.want {
				t.Errorf("compileTriggerValue = %q, want %q", got, tt.want)
			}
		})
	}

	_, err := compileTriggerValue(lua.LNumber(3))
	require.Error(t, err)
}

func TestCompile_SourceOrder(t *testing.T) {
	L, coll := newTestVM()
	defer L.Close()

	require.NoError(t, L.DoString(`
		Set { title = "Order", game_id = 9 }
		Achievement { id = 3, title = "c", trigger = "0xH000003=1" }
		Leaderboard { id = 1, title = "lb", start = "0xH000001=1", cancel = "0xH000001=0", submit = "0xH000002=1" }
		Achievement { id = 1, title = "a", trigger = "0xH000001=1" }
	`))
	if coll.order != 3 {
		t.Errorf("order = %d, want 3", coll.order)
	}

	set, err := compile(coll)
	require.NoError(t, err)
	require.Len(t, set.Achievements, 2)
	if set.Achievements[0].ID != 3 || set.Achievements[1].ID != 1 {
		t.Errorf("achievements out of source order: %d, %d", set.Achievements[0].ID, set.Achievements[1].ID)
	}
	if set.GameID != 9 {
		t.Errorf("GameID = %d, want 9", set.GameID)
	}
}
