// Package loader loads achievement sets written in Lua into finalized
// achievements and leaderboards. The Lua VM is discarded after loading.
package loader

import (
	"fmt"
	"math"
	"sort"

	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/triggercore/engine/builder"
	"github.com/nathoo/triggercore/engine/codec"
	"github.com/nathoo/triggercore/types"
)

// rawAchievement holds an achievement table before compilation.
type rawAchievement struct {
	table *lua.LTable
	order int
}

// rawLeaderboard holds a leaderboard table before compilation.
type rawLeaderboard struct {
	table *lua.LTable
	order int
}

var fieldSizes = map[string]types.FieldSize{
	"Bit0":  types.Bit0,
	"Bit1":  types.Bit1,
	"Bit2":  types.Bit2,
	"Bit3":  types.Bit3,
	"Bit4":  types.Bit4,
	"Bit5":  types.Bit5,
	"Bit6":  types.Bit6,
	"Bit7":  types.Bit7,
	"Low4":  types.LowNibble,
	"High4": types.HighNibble,
	"Byte":  types.Byte,
	"Word":  types.Word,
	"DWord": types.DWord,
}

var operatorsByText = map[string]types.RequirementOperator{
	"=":  types.OpEqual,
	"!=": types.OpNotEqual,
	"<":  types.OpLessThan,
	"<=": types.OpLessThanOrEqual,
	">":  types.OpGreaterThan,
	">=": types.OpGreaterThanOrEqual,
}

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	v := tbl.RawGetString(key)
	if s, ok := v.(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getNumber returns a numeric field from a Lua table, or 0 if missing.
func getNumber(tbl *lua.LTable, key string) float64 {
	v := tbl.RawGetString(key)
	if n, ok := v.(lua.LNumber); ok {
		return float64(n)
	}
	return 0
}

// getInt returns an int field from a Lua table, or 0 if missing.
func getInt(tbl *lua.LTable, key string) int {
	return int(getNumber(tbl, key))
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	v := tbl.RawGetString(key)
	if t, ok := v.(*lua.LTable); ok {
		return t
	}
	return nil
}

// arrayTables returns the table elements of tbl's array part, in order.
func arrayTables(tbl *lua.LTable) ([]*lua.LTable, error) {
	var out []*lua.LTable
	for i := 1; i <= tbl.MaxN(); i++ {
		t, ok := tbl.RawGetInt(i).(*lua.LTable)
		if !ok {
			return nil, fmt.Errorf("element %d is a %s, want a table", i, tbl.RawGetInt(i).Type())
		}
		out = append(out, t)
	}
	return out, nil
}

// compile converts all collected Lua data into an achievement set.
func compile(coll *collector) (*types.AchievementSet, error) {
	if coll.set == nil {
		return nil, fmt.Errorf("no Set{} definition found")
	}
	set := &types.AchievementSet{
		Title:  getString(coll.set, "title"),
		GameID: getInt(coll.set, "game_id"),
	}

	sort.SliceStable(coll.achievements, func(i, j int) bool {
		return coll.achievements[i].order < coll.achievements[j].order
	})
	for _, raw := range coll.achievements {
		a, err := compileAchievement(raw)
		if err != nil {
			return nil, fmt.Errorf("compiling achievement %q: %w", getString(raw.table, "title"), err)
		}
		set.Achievements = append(set.Achievements, a)
	}

	for _, raw := range coll.leaderboards {
		lb, err := compileLeaderboard(raw)
		if err != nil {
			return nil, fmt.Errorf("compiling leaderboard %q: %w", getString(raw.table, "title"), err)
		}
		set.Leaderboards = append(set.Leaderboards, lb)
	}

	return set, nil
}

func compileAchievement(raw rawAchievement) (types.Achievement, error) {
	tbl := raw.table
	b, err := compileTrigger(tbl)
	if err != nil {
		return types.Achievement{}, err
	}

	b.ID = getInt(tbl, "id")
	b.Title = getString(tbl, "title")
	b.Description = getString(tbl, "description")
	b.Points = getInt(tbl, "points")
	b.BadgeName = getString(tbl, "badge")
	return b.ToAchievement(), nil
}

func compileLeaderboard(raw rawLeaderboard) (types.Leaderboard, error) {
	tbl := raw.table
	lb := types.Leaderboard{
		ID:          getInt(tbl, "id"),
		Title:       getString(tbl, "title"),
		Description: getString(tbl, "description"),
		Value:       getString(tbl, "value"),
	}

	for _, part := range []struct {
		key string
		dst *string
	}{
		{"start", &lb.Start},
		{"cancel", &lb.Cancel},
		{"submit", &lb.Submit},
	} {
		s, err := compileTriggerValue(tbl.RawGetString(part.key))
		if err != nil {
			return types.Leaderboard{}, fmt.Errorf("%s: %w", part.key, err)
		}
		*part.dst = s
	}
	return lb, nil
}

// compileTriggerValue accepts an encoded trigger string, a list of
// conditions, or a { core = ..., alts = ... } table, and returns the
// encoded trigger.
func compileTriggerValue(v lua.LValue) (string, error) {
	switch val := v.(type) {
	case *lua.LNilType:
		return "", nil
	case lua.LString:
		b, err := parseTrigger(string(val))
		if err != nil {
			return "", err
		}
		return codec.SerializeBuilder(b), nil
	case *lua.LTable:
		if val.RawGetString("core") != lua.LNil || val.RawGetString("alts") != lua.LNil {
			b, err := compileTrigger(val)
			if err != nil {
				return "", err
			}
			return codec.SerializeBuilder(b), nil
		}
		b := builder.New()
		if err := addConditions(b, val); err != nil {
			return "", err
		}
		return codec.SerializeBuilder(b), nil
	default:
		return "", fmt.Errorf("trigger is a %s, want a string or table", v.Type())
	}
}

// compileTrigger reads either trigger = "..." or core/alts tables from tbl.
func compileTrigger(tbl *lua.LTable) (*builder.Builder, error) {
	if s := getString(tbl, "trigger"); s != "" {
		return parseTrigger(s)
	}

	b := builder.New()
	if core := getTable(tbl, "core"); core != nil {
		if err := addConditions(b, core); err != nil {
			return nil, fmt.Errorf("core: %w", err)
		}
	}

	if altsTbl := getTable(tbl, "alts"); altsTbl != nil {
		alts, err := arrayTables(altsTbl)
		if err != nil {
			return nil, fmt.Errorf("alts: %w", err)
		}
		for i, alt := range alts {
			if alt.MaxN() == 0 {
				return nil, fmt.Errorf("alt %d is empty", i+1)
			}
			b.BeginAlt()
			if err := addConditions(b, alt); err != nil {
				return nil, fmt.Errorf("alt %d: %w", i+1, err)
			}
		}
	}
	return b, nil
}

func parseTrigger(s string) (*builder.Builder, error) {
	b, n := codec.ParseString(s)
	if n < len(s) {
		return nil, fmt.Errorf("trigger %q: unparsed input at offset %d", s, n)
	}
	return b, nil
}

func addConditions(b *builder.Builder, tbl *lua.LTable) error {
	conds, err := arrayTables(tbl)
	if err != nil {
		return err
	}
	for i, c := range conds {
		r, err := compileCondition(c)
		if err != nil {
			return fmt.Errorf("condition %d: %w", i+1, err)
		}
		b.Add(r)
	}
	return nil
}

func compileCondition(tbl *lua.LTable) (types.Requirement, error) {
	if kind := getString(tbl, "kind"); kind != "condition" {
		return types.Requirement{}, fmt.Errorf("expected a comparison such as Eq(...), got %q", kind)
	}

	var r types.Requirement
	var ok bool
	if r.Operator, ok = operatorsByText[getString(tbl, "op")]; !ok {
		return types.Requirement{}, fmt.Errorf("unknown operator %q", getString(tbl, "op"))
	}

	var err error
	if r.Left, err = compileOperand(tbl.RawGetString("left")); err != nil {
		return types.Requirement{}, fmt.Errorf("left: %w", err)
	}
	if r.Right, err = compileOperand(tbl.RawGetString("right")); err != nil {
		return types.Requirement{}, fmt.Errorf("right: %w", err)
	}
	if r.Right.Type == types.Value {
		r.Right.Size = r.Left.Size
	}

	switch getString(tbl, "role") {
	case "reset":
		r.Type = types.ResetIf
	case "pause":
		r.Type = types.PauseIf
	}

	hits := getNumber(tbl, "hits")
	if hits < 0 || hits > math.MaxUint16 || hits != math.Trunc(hits) {
		return types.Requirement{}, fmt.Errorf("hit count %v out of range", hits)
	}
	r.HitCount = uint16(hits)
	return r, nil
}

func compileOperand(v lua.LValue) (types.Field, error) {
	switch val := v.(type) {
	case lua.LNumber:
		n := float64(val)
		if n < 0 || n > math.MaxUint32 || n != math.Trunc(n) {
			return types.Field{}, fmt.Errorf("constant %v is not a 32-bit unsigned integer", n)
		}
		return types.Field{Type: types.Value, Value: uint32(n)}, nil

	case *lua.LTable:
		if getString(val, "kind") != "field" {
			return types.Field{}, fmt.Errorf("expected a memory field such as Byte(0x1234)")
		}
		size, ok := fieldSizes[getString(val, "size")]
		if !ok {
			return types.Field{}, fmt.Errorf("unknown field size %q", getString(val, "size"))
		}
		address := getNumber(val, "address")
		if address < 0 || address > math.MaxUint32 || address != math.Trunc(address) {
			return types.Field{}, fmt.Errorf("address %v out of range", address)
		}
		f := types.Field{Type: types.MemoryAddress, Size: size, Value: uint32(address)}
		if getString(val, "source") == "prev" {
			f.Type = types.PreviousValue
		}
		return f, nil

	default:
		return types.Field{}, fmt.Errorf("operand is a %s, want a number or memory field", v.Type())
	}
}

// sortedLuaFiles returns .lua files with set.lua first and the rest sorted
// alphabetically.
func sortedLuaFiles(files []string) []string {
	var setFile string
	var others []string
	for _, f := range files {
		if f == "set.lua" {
			setFile = f
		} else {
			others = append(others, f)
		}
	}
	sort.Strings(others)
	if setFile != "" {
		return append([]string{setFile}, others...)
	}
	return others
}
