// Package scripting binds NPC interaction hooks to Lua functions.
package scripting

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/Auriosi/AuriNPC/internal/model"
	"github.com/Auriosi/AuriNPC/internal/npc"
)

// APIVersion is exposed to scripts as the API_VERSION global.
const APIVersion = 1

// ErrFunctionNotFound is returned when a Lua global is missing or not a function.
var ErrFunctionNotFound = errors.New("lua function not found")

// Engine wraps a single gopher-lua VM. LState is not goroutine-safe, so every
// call into the VM holds mu.
type Engine struct {
	mu sync.Mutex
	vm *lua.LState

	calls  uint64
	errors uint64
}

// NewEngine creates a Lua engine and loads every .lua file in dir.
// A missing directory is not an error.
func NewEngine(dir string) (*Engine, error) {
	vm := lua.NewState()
	vm.SetGlobal("API_VERSION", lua.LNumber(APIVersion))

	e := &Engine{vm: vm}
	vm.SetGlobal("log", vm.NewFunction(e.luaLog))

	if dir != "" {
		if err := e.loadDir(dir); err != nil {
			vm.Close()
			return nil, fmt.Errorf("load scripts: %w", err)
		}
	}
	return e, nil
}

// loadDir loads all .lua files in a directory in name order.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Warn("scripts directory not found", "dir", dir)
			return nil
		}
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		slog.Debug("loaded lua script", "file", path)
	}
	return nil
}

// LoadString executes a chunk of Lua source.
func (e *Engine) LoadString(src string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.vm.DoString(src); err != nil {
		return fmt.Errorf("lua load: %w", err)
	}
	return nil
}

// HasFunction reports whether a global Lua function named fn exists.
func (e *Engine) HasFunction(fn string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.vm.GetGlobal(fn).(*lua.LFunction)
	return ok
}

// Handler returns an interaction hook calling the Lua global fn with an
// event table. The function must exist when Handler is called. Script
// errors are logged and never reach the caller.
func (e *Engine) Handler(fn string) (npc.InteractFunc, error) {
	if !e.HasFunction(fn) {
		return nil, fmt.Errorf("%w: %s", ErrFunctionNotFound, fn)
	}

	return func(n *npc.NPC, ev model.InteractEvent) {
		if err := e.call(fn, n, ev); err != nil {
			slog.Error("lua interact handler failed", "function", fn, "npc", ev.TargetID, "error", err)
		}
	}, nil
}

func (e *Engine) call(fn string, n *npc.NPC, ev model.InteractEvent) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.calls++

	f, ok := e.vm.GetGlobal(fn).(*lua.LFunction)
	if !ok {
		e.errors++
		return fmt.Errorf("%w: %s", ErrFunctionNotFound, fn)
	}

	if err := e.vm.CallByParam(lua.P{
		Fn:      f,
		NRet:    0,
		Protect: true,
	}, e.eventTable(n, ev)); err != nil {
		e.errors++
		return err
	}
	return nil
}

// eventTable builds {npc, player, action, hand, sneaking}. The npc table
// carries a snapshot plus a few bound mutators.
func (e *Engine) eventTable(n *npc.NPC, ev model.InteractEvent) *lua.LTable {
	L := e.vm

	t := L.NewTable()
	t.RawSetString("player", lua.LString(ev.PlayerID.String()))
	t.RawSetString("action", lua.LString(ev.Action.String()))
	t.RawSetString("hand", lua.LString(ev.Hand.String()))
	t.RawSetString("sneaking", lua.LBool(ev.Sneaking))

	if n == nil {
		t.RawSetString("npc", lua.LString(ev.TargetID.String()))
		return t
	}

	nt := L.NewTable()
	nt.RawSetString("id", lua.LString(n.ID().String()))
	nt.RawSetString("name", lua.LString(n.CustomName()))
	nt.RawSetString("profile", lua.LString(n.Profile().String()))
	nt.RawSetString("health", lua.LNumber(n.Health()))
	nt.RawSetString("max_health", lua.LNumber(n.MaxHealth()))
	if shard := n.Shard(); shard != nil {
		nt.RawSetString("shard", lua.LString(shard.Name()))
	}
	pos := n.Position()
	nt.RawSetString("x", lua.LNumber(pos.X()))
	nt.RawSetString("y", lua.LNumber(pos.Y()))
	nt.RawSetString("z", lua.LNumber(pos.Z()))

	nt.RawSetString("set_name", L.NewFunction(func(L *lua.LState) int {
		n.SetCustomName(L.CheckString(1))
		return 0
	}))
	nt.RawSetString("set_listed", L.NewFunction(func(L *lua.LState) int {
		n.SetListed(L.ToBool(1))
		return 0
	}))
	nt.RawSetString("set_skin", L.NewFunction(func(L *lua.LState) int {
		n.SetSkinRaw(L.CheckString(1), L.OptString(2, ""))
		return 0
	}))
	nt.RawSetString("damage", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LBool(n.Damage(float32(L.CheckNumber(1)))))
		return 1
	}))
	nt.RawSetString("kill", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LBool(n.Kill()))
		return 1
	}))

	t.RawSetString("npc", nt)
	return t
}

// luaLog implements log(msg) for scripts.
func (e *Engine) luaLog(L *lua.LState) int {
	slog.Info("lua", "msg", L.CheckString(1))
	return 0
}

// Stats returns how many handler calls ran and how many failed.
func (e *Engine) Stats() (calls, failures uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls, e.errors
}

// Close shuts down the VM.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.vm.Close()
}
