package scripting_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/duelcore/internal/game/dice"
	"github.com/cory-johannsen/duelcore/internal/scripting"
)

func runScript(t testing.TB, mgr *scripting.Manager, luaSrc, hook string, args ...lua.LValue) lua.LValue {
	t.Helper()
	dir := writeTempLua(t, "test.lua", luaSrc)
	require.NoError(t, mgr.Load(dir, 0))
	ret, err := mgr.CallHook(hook, args...)
	require.NoError(t, err)
	return ret
}

func TestEngineLog_AllLevels(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	logger := zap.New(core)
	mgr := scripting.NewManager(dice.NewLoggedRoller(dice.NewCryptoSource(), zap.NewNop()), logger)
	t.Cleanup(mgr.Close)

	runScript(t, mgr, `
		function do_all_logs()
			engine.log.debug("d")
			engine.log.info("i")
			engine.log.warn("w")
			engine.log.error("e")
		end
	`, "do_all_logs")

	levels := map[string]bool{}
	for _, e := range logs.FilterField(zap.String("source", "lua")).All() {
		levels[e.Level.String()] = true
	}
	assert.True(t, levels["debug"], "expected debug log")
	assert.True(t, levels["info"], "expected info log")
	assert.True(t, levels["warn"], "expected warn log")
	assert.True(t, levels["error"], "expected error log")
}

func TestEngineDice_Roll_InRange(t *testing.T) {
	mgr, _ := newTestManager(t)
	dir := writeTempLua(t, "dice.lua", `
		function roll(n) return engine.dice.roll(n) end
	`)
	require.NoError(t, mgr.Load(dir, 0))
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 100).Draw(rt, "n")
		ret, err := mgr.CallHook("roll", lua.LNumber(n))
		if err != nil {
			rt.Fatal(err)
		}
		v, ok := ret.(lua.LNumber)
		if !ok || int(v) < 1 || int(v) > n {
			rt.Fatalf("roll(%d) = %v", n, ret)
		}
	})
}

func TestEngineDice_Roll_InvalidSidesIsRuntimeError(t *testing.T) {
	mgr, logs := newTestManager(t)
	ret := runScript(t, mgr, `
		function bad_roll() return engine.dice.roll(0) end
	`, "bad_roll")
	assert.Equal(t, lua.LNil, ret)
	assert.True(t, hasWarn(logs))
}

func TestEngineDice_ChanceBounds(t *testing.T) {
	mgr, _ := newTestManager(t)
	ret := runScript(t, mgr, `
		function bounds()
			return engine.dice.chance(0) == false and engine.dice.chance(1) == true
		end
	`, "bounds")
	assert.Equal(t, lua.LTrue, ret)
}
