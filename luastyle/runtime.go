// Package luastyle lets hosts express style functions as Lua scripts. A
// script defines vec2globe.style_feature(feature, resolution) and returns
// one style table (or a list of them); the runtime exposes it as a
// feature.StyleFunc.
package luastyle

import (
	"fmt"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/wegman-software/vec2globe-go/feature"
	"github.com/wegman-software/vec2globe-go/style"
)

// Runtime manages the Lua interpreter and the vec2globe scripting API.
// Style evaluation is serialized internally; a single runtime must not be
// shared across concurrent layer conversions anyway, matching the
// conversion context's ownership rules.
type Runtime struct {
	L   *lua.LState
	mu  sync.Mutex
	fn  lua.LValue
	log *zap.Logger
}

// New creates a Lua runtime with the vec2globe API registered.
func New(log *zap.Logger) *Runtime {
	if log == nil {
		log = zap.NewNop()
	}
	L := lua.NewState()

	r := &Runtime{L: L, log: log}
	r.registerAPI()
	return r
}

// Close releases Lua resources.
func (r *Runtime) Close() {
	r.L.Close()
}

// registerAPI installs the vec2globe module table.
func (r *Runtime) registerAPI() {
	mod := r.L.NewTable()
	mod.RawSetString("version", lua.LString("1.0.0"))
	r.L.SetGlobal("vec2globe", mod)
}

// LoadFile loads and executes a Lua style script.
func (r *Runtime) LoadFile(path string) error {
	if err := r.L.DoFile(path); err != nil {
		return fmt.Errorf("failed to load Lua file: %w", err)
	}
	return r.extractCallback()
}

// LoadString loads and executes Lua code from a string.
func (r *Runtime) LoadString(code string) error {
	if err := r.L.DoString(code); err != nil {
		return fmt.Errorf("failed to load Lua code: %w", err)
	}
	return r.extractCallback()
}

func (r *Runtime) extractCallback() error {
	mod := r.L.GetGlobal("vec2globe")
	if mod.Type() != lua.LTTable {
		return fmt.Errorf("vec2globe module table was removed by the script")
	}
	fn := mod.(*lua.LTable).RawGetString("style_feature")
	if fn.Type() != lua.LTFunction {
		return fmt.Errorf("script defines no vec2globe.style_feature function")
	}
	r.fn = fn
	return nil
}

// Func returns the script's style function in the converter's shape. Lua
// evaluation errors and malformed style tables resolve to "do not render".
func (r *Runtime) Func() feature.StyleFunc {
	return func(f *feature.Feature, resolution float64) []style.Style {
		r.mu.Lock()
		defer r.mu.Unlock()

		if r.fn == nil {
			return nil
		}

		if err := r.L.CallByParam(lua.P{Fn: r.fn, NRet: 1, Protect: true},
			r.featureTable(f), lua.LNumber(resolution)); err != nil {
			r.log.Warn("Lua style function failed", zap.String("feature", f.ID), zap.Error(err))
			return nil
		}

		ret := r.L.Get(-1)
		r.L.Pop(1)

		styles, err := parseStyles(ret)
		if err != nil {
			r.log.Warn("Lua style table malformed", zap.String("feature", f.ID), zap.Error(err))
			return nil
		}
		return styles
	}
}

// featureTable builds the read-only Lua view of a feature.
func (r *Runtime) featureTable(f *feature.Feature) *lua.LTable {
	tbl := r.L.NewTable()
	tbl.RawSetString("id", lua.LString(f.ID))
	if f.Geometry != nil {
		tbl.RawSetString("geometry_type", lua.LString(f.Geometry.Kind().String()))
	}

	attrs := r.L.NewTable()
	for k, v := range f.Attributes {
		attrs.RawSetString(k, toLua(r.L, v))
	}
	tbl.RawSetString("attrs", attrs)
	return tbl
}

func toLua(L *lua.LState, v any) lua.LValue {
	switch v := v.(type) {
	case nil:
		return lua.LNil
	case bool:
		return lua.LBool(v)
	case int:
		return lua.LNumber(v)
	case int64:
		return lua.LNumber(v)
	case float64:
		return lua.LNumber(v)
	case string:
		return lua.LString(v)
	default:
		return lua.LString(fmt.Sprintf("%v", v))
	}
}
