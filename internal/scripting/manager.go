package scripting

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/event"
)

// GlobalScope is the reserved scope for shared scripts loaded via LoadGlobal.
// CallHook falls back to this VM when no VM exists for the requested scope.
const GlobalScope = "__global__"

// vm is one sandboxed LState. An LState is single-threaded, so every use holds mu.
type vm struct {
	mu    sync.Mutex
	L     *lua.LState
	limit int
}

// Manager owns one sandboxed LState per scope and dispatches hooks to them.
// A scope is either GlobalScope or a creature ID.
//
// Manager is safe for concurrent use. Calls into the same scope are serialized;
// different scopes run concurrently.
type Manager struct {
	mu     sync.RWMutex
	vms    map[string]*vm
	logger *zap.Logger
}

// NewManager creates a Manager.
//
// Precondition: logger must be non-nil.
// Postcondition: Returns a non-nil Manager with no scopes loaded.
func NewManager(logger *zap.Logger) *Manager {
	if logger == nil {
		panic("scripting: NewManager called with nil logger")
	}
	return &Manager{
		vms:    make(map[string]*vm),
		logger: logger,
	}
}

// LoadScope creates a sandboxed VM for scope, registers the engine.* modules,
// then executes every *.lua file in scriptDir in lexicographic order. A scope
// that was already loaded is replaced.
//
// Precondition: scope must be non-empty; scriptDir must be a readable directory.
// Postcondition: Scope VM is registered; returns error on Lua load failure.
func (m *Manager) LoadScope(scope, scriptDir string, instLimit int) error {
	if scope == "" {
		return errors.New("scripting: scope must not be empty")
	}
	entries, err := os.ReadDir(scriptDir)
	if err != nil {
		return fmt.Errorf("scripting: reading script dir %q for %q: %w", scriptDir, scope, err)
	}

	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			luaFiles = append(luaFiles, filepath.Join(scriptDir, e.Name()))
		}
	}
	sort.Strings(luaFiles)

	L := NewSandboxedState(instLimit)
	m.RegisterModules(L, scope)
	for _, path := range luaFiles {
		cancel := ResetBudget(L, instLimit)
		err := L.DoFile(path)
		cancel()
		if err != nil {
			L.Close()
			return fmt.Errorf("scripting: loading %q for %q: %w", path, scope, err)
		}
	}

	m.mu.Lock()
	old := m.vms[scope]
	m.vms[scope] = &vm{L: L, limit: instLimit}
	m.mu.Unlock()
	if old != nil {
		old.mu.Lock()
		old.L.Close()
		old.mu.Unlock()
	}
	m.logger.Debug("scripts loaded",
		zap.String("scope", scope),
		zap.Int("files", len(luaFiles)),
	)
	return nil
}

// LoadGlobal loads scriptDir into the GlobalScope VM.
//
// Precondition: scriptDir must be a readable directory.
// Postcondition: Global VM is registered; returns error on Lua load failure.
func (m *Manager) LoadGlobal(scriptDir string, instLimit int) error {
	return m.LoadScope(GlobalScope, scriptDir, instLimit)
}

// LoadTree loads root's *.lua files as the global scope and each immediate
// subdirectory as the scope named after it.
//
// Precondition: root must be a readable directory.
func (m *Manager) LoadTree(root string, instLimit int) error {
	if err := m.LoadGlobal(root, instLimit); err != nil {
		return err
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		return fmt.Errorf("scripting: reading script root %q: %w", root, err)
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if err := m.LoadScope(e.Name(), filepath.Join(root, e.Name()), instLimit); err != nil {
			return err
		}
	}
	return nil
}

// Scopes returns the loaded scope names in sorted order.
func (m *Manager) Scopes() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.vms))
	for k := range m.vms {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// CallHook calls the named Lua global function in scope's VM. If the scope has
// no VM, the GlobalScope VM is tried as a fallback. Returns (LNil, nil) if the
// hook is not defined or no VM exists. Lua runtime errors are logged at Warn
// level and never propagated.
//
// Precondition: args must be valid lua.LValue instances.
// Postcondition: Returns the first return value of the hook, or LNil.
func (m *Manager) CallHook(scope, hook string, args ...lua.LValue) (lua.LValue, error) {
	return m.callHook(scope, hook, func(*lua.LState) []lua.LValue { return args })
}

// callHook resolves the VM and builds arguments inside the VM lock, since
// tables must be created by the LState that consumes them.
func (m *Manager) callHook(scope, hook string, build func(L *lua.LState) []lua.LValue) (lua.LValue, error) {
	m.mu.RLock()
	v, ok := m.vms[scope]
	if !ok {
		v = m.vms[GlobalScope]
	}
	m.mu.RUnlock()

	if v == nil {
		m.logger.Debug("scripting: no VM for scope",
			zap.String("scope", scope),
			zap.String("hook", hook),
		)
		return lua.LNil, nil
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	L := v.L
	fn := L.GetGlobal(hook)
	if fn == lua.LNil {
		return lua.LNil, nil
	}

	cancel := ResetBudget(L, v.limit)
	defer cancel()
	if err := L.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, build(L)...); err != nil {
		m.logger.Warn("scripting: Lua runtime error",
			zap.String("scope", scope),
			zap.String("hook", hook),
			zap.Error(err),
		)
		return lua.LNil, nil
	}

	ret := L.Get(-1)
	L.Pop(1)
	return ret, nil
}

// HookName returns the Lua function name invoked for events of kind k.
func HookName(k event.Kind) string {
	return "on_" + k.String()
}

// Handle dispatches ev to the hook named HookName(ev.Kind()) with a table of
// the event's fields. Events tied to a creature run in that creature's scope.
// It satisfies event.Handler and never fails; script errors are logged.
func (m *Manager) Handle(ev event.Event) error {
	fields := Fields(ev)
	scope := GlobalScope
	if id, ok := fields["creature_id"].(string); ok && id != "" {
		scope = id
	}
	_, err := m.callHook(scope, HookName(ev.Kind()), func(L *lua.LState) []lua.LValue {
		return []lua.LValue{toTable(L, fields)}
	})
	return err
}

// Close releases every VM.
//
// Postcondition: No scopes remain; CallHook returns LNil until scripts are reloaded.
func (m *Manager) Close() {
	m.mu.Lock()
	vms := m.vms
	m.vms = make(map[string]*vm)
	m.mu.Unlock()
	for _, v := range vms {
		v.mu.Lock()
		v.L.Close()
		v.mu.Unlock()
	}
}
