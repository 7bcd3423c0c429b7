package loader

import (
	lua "github.com/yuin/gopher-lua"
)

// Field sizes accepted by the field helpers, keyed by helper name.
var fieldHelpers = []string{
	"Bit0", "Bit1", "Bit2", "Bit3", "Bit4", "Bit5", "Bit6", "Bit7",
	"Low4", "High4", "Byte", "Word", "DWord",
}

// Comparison helpers and the operator each one produces.
var comparisonHelpers = map[string]string{
	"Eq": "=",
	"Ne": "!=",
	"Lt": "<",
	"Le": "<=",
	"Gt": ">",
	"Ge": ">=",
}

// registerAPI registers all Lua constructors and helpers as globals.
func registerAPI(L *lua.LState, coll *collector) {
	registerConstructors(L, coll)
	registerFieldHelpers(L)
	registerConditionHelpers(L)
}

func registerConstructors(L *lua.LState, coll *collector) {
	// Set { title = "...", game_id = 1234 }
	L.SetGlobal("Set", L.NewFunction(func(L *lua.LState) int {
		coll.set = L.CheckTable(1)
		return 0
	}))

	// Achievement { id = 1, title = "...", core = {...}, alts = {{...}} }
	L.SetGlobal("Achievement", L.NewFunction(func(L *lua.LState) int {
		tbl := L.CheckTable(1)
		coll.achievements = append(coll.achievements, rawAchievement{
			table: tbl,
			order: coll.nextSourceOrder(),
		})
		return 0
	}))

	// Leaderboard { id = 1, start = "...", cancel = {...}, submit = ..., value = "..." }
	L.SetGlobal("Leaderboard", L.NewFunction(func(L *lua.LState) int {
		tbl := L.CheckTable(1)
		coll.leaderboards = append(coll.leaderboards, rawLeaderboard{
			table: tbl,
			order: coll.nextSourceOrder(),
		})
		return 0
	}))
}

func registerFieldHelpers(L *lua.LState) {
	// Byte(0x1234) etc: a live memory read of the given width.
	for _, name := range fieldHelpers {
		size := name
		L.SetGlobal(name, L.NewFunction(func(L *lua.LState) int {
			address := L.CheckNumber(1)
			tbl := L.NewTable()
			tbl.RawSetString("kind", lua.LString("field"))
			tbl.RawSetString("source", lua.LString("mem"))
			tbl.RawSetString("size", lua.LString(size))
			tbl.RawSetString("address", address)
			L.Push(tbl)
			return 1
		}))
	}

	// Prev(Byte(0x1234)) is the same read, one frame earlier.
	L.SetGlobal("Prev", L.NewFunction(func(L *lua.LState) int {
		field := L.CheckTable(1)
		if getString(field, "kind") != "field" {
			L.ArgError(1, "Prev expects a memory field")
			return 0
		}
		tbl := copyTable(L, field)
		tbl.RawSetString("source", lua.LString("prev"))
		L.Push(tbl)
		return 1
	}))
}

func registerConditionHelpers(L *lua.LState) {
	// Eq(left, right), Ne, Lt, Le, Gt, Ge
	for name, op := range comparisonHelpers {
		op := op
		L.SetGlobal(name, L.NewFunction(func(L *lua.LState) int {
			left := L.CheckAny(1)
			right := L.CheckAny(2)
			tbl := L.NewTable()
			tbl.RawSetString("kind", lua.LString("condition"))
			tbl.RawSetString("op", lua.LString(op))
			tbl.RawSetString("left", left)
			tbl.RawSetString("right", right)
			L.Push(tbl)
			return 1
		}))
	}

	// ResetIf(condition)
	L.SetGlobal("ResetIf", L.NewFunction(func(L *lua.LState) int {
		L.Push(withField(L, L.CheckTable(1), "role", lua.LString("reset")))
		return 1
	}))

	// PauseIf(condition)
	L.SetGlobal("PauseIf", L.NewFunction(func(L *lua.LState) int {
		L.Push(withField(L, L.CheckTable(1), "role", lua.LString("pause")))
		return 1
	}))

	// Hits(n, condition)
	L.SetGlobal("Hits", L.NewFunction(func(L *lua.LState) int {
		n := L.CheckNumber(1)
		L.Push(withField(L, L.CheckTable(2), "hits", n))
		return 1
	}))
}

// withField returns a copy of tbl with key set to v.
func withField(L *lua.LState, tbl *lua.LTable, key string, v lua.LValue) *lua.LTable {
	out := copyTable(L, tbl)
	out.RawSetString(key, v)
	return out
}

// copyTable makes a shallow copy so helpers never mutate shared values.
func copyTable(L *lua.LState, tbl *lua.LTable) *lua.LTable {
	out := L.NewTable()
	tbl.ForEach(func(k, v lua.LValue) {
		out.RawSet(k, v)
	})
	return out
}
