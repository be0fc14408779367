package scripting

import (
	"sort"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/event"
)

// RegisterModules registers all engine.* Lua tables into L.
//
//	engine.log(msg)   logs msg at info level tagged with scope
//	engine.scope      the scope name this VM was loaded for
//
// Precondition: L must be from NewSandboxedState.
// Postcondition: engine global is defined in L.
func (m *Manager) RegisterModules(L *lua.LState, scope string) {
	engine := L.NewTable()
	L.SetField(engine, "scope", lua.LString(scope))
	L.SetField(engine, "log", L.NewFunction(func(L *lua.LState) int {
		m.logger.Info("script",
			zap.String("scope", scope),
			zap.String("msg", L.CheckString(1)),
		)
		return 0
	}))
	L.SetGlobal("engine", engine)
}

// Fields flattens a combat event into the key/value pairs passed to Lua hooks.
// Every result carries "kind".
func Fields(ev event.Event) map[string]interface{} {
	f := map[string]interface{}{"kind": ev.Kind().String()}
	switch e := ev.(type) {
	case combat.ExperienceGained:
		f["session_id"] = e.SessionID
		f["skill"] = e.Skill.String()
		f["amount"] = e.Amount
		f["total"] = e.Total
	case combat.LevelUpEvent:
		f["session_id"] = e.SessionID
		f["skill"] = e.Skill.String()
		f["level"] = e.Level
	case combat.CombatEnded:
		f["session_id"] = e.SessionID
		f["outcome"] = e.Outcome.String()
		f["creature_id"] = e.CreatureID
		f["turns"] = e.Turns
	case combat.PlayerDied:
		f["session_id"] = e.SessionID
		f["creature_id"] = e.CreatureID
	case combat.SlayerTaskCompleted:
		f["session_id"] = e.SessionID
		f["category"] = e.Category
		f["total"] = e.Total
	}
	return f
}

// toTable builds a Lua table from fields in key order.
func toTable(L *lua.LState, fields map[string]interface{}) *lua.LTable {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	t := L.NewTable()
	for _, k := range keys {
		switch v := fields[k].(type) {
		case string:
			L.SetField(t, k, lua.LString(v))
		case int:
			L.SetField(t, k, lua.LNumber(v))
		case bool:
			L.SetField(t, k, lua.LBool(v))
		}
	}
	return t
}
