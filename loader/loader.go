package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/nathoo/triggercore/types"
)

// collector accumulates Lua definitions during file execution.
type collector struct {
	set          *lua.LTable
	achievements []rawAchievement
	leaderboards []rawLeaderboard
	order        int
}

func (c *collector) nextSourceOrder() int {
	c.order++
	return c.order
}

// Load reads all .lua files from dir, compiles them into an achievement
// set and validates the triggers. Warnings are logged; errors are returned
// as a *ValidationError. The Lua VM is discarded after loading.
func Load(dir string, log *zap.Logger) (*types.AchievementSet, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading set directory %s: %w", dir, err)
	}

	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".lua") {
			luaFiles = append(luaFiles, e.Name())
		}
	}
	if len(luaFiles) == 0 {
		return nil, fmt.Errorf("no .lua files found in %s", dir)
	}

	// Sort: set.lua first, rest alphabetical.
	luaFiles = sortedLuaFiles(luaFiles)

	sources := make(map[string]string, len(luaFiles))
	for _, f := range luaFiles {
		data, err := os.ReadFile(filepath.Join(dir, f))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", f, err)
		}
		sources[f] = string(data)
	}

	return load(luaFiles, sources, log)
}

// LoadString compiles a single Lua chunk, for tests and one-off scripts.
func LoadString(src string, log *zap.Logger) (*types.AchievementSet, error) {
	return load([]string{"<string>"}, map[string]string{"<string>": src}, log)
}

func load(names []string, sources map[string]string, log *zap.Logger) (*types.AchievementSet, error) {
	if log == nil {
		log = zap.NewNop()
	}

	// Create sandboxed VM.
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()

	openSafeLibs(L)
	sandbox(L)

	coll := &collector{}
	registerAPI(L, coll)

	for _, name := range names {
		if err := L.DoString(sources[name]); err != nil {
			return nil, fmt.Errorf("executing %s: %w", name, err)
		}
	}

	set, err := compile(coll)
	if err != nil {
		return nil, fmt.Errorf("compiling achievement set: %w", err)
	}

	ve := validate(set)
	for _, w := range ve.Warnings {
		log.Warn("achievement set warning", zap.String("set", set.Title), zap.String("warning", w))
	}
	if len(ve.Errors) > 0 {
		return nil, ve
	}

	log.Debug("loaded achievement set",
		zap.String("set", set.Title),
		zap.Int("files", len(names)),
		zap.Int("achievements", len(set.Achievements)),
		zap.Int("leaderboards", len(set.Leaderboards)),
	)
	return set, nil
}

// openSafeLibs opens only the safe subset of Lua standard libraries.
func openSafeLibs(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// sandbox removes globals that reach outside the VM.
func sandbox(L *lua.LState) {
	dangerous := []string{
		"dofile", "loadfile", "load", "loadstring",
		"rawset", "rawget", "rawequal",
		"collectgarbage",
	}
	for _, name := range dangerous {
		L.SetGlobal(name, lua.LNil)
	}
}
