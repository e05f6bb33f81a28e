package plugin

import (
	"fmt"
	"os"

	"go.starlark.net/starlark"

	"github.com/deicod/dtl/nodes"
	"github.com/deicod/dtl/value"
)

// LoadStarlarkLibrary executes the Starlark script at path and adapts its
// top-level `FILTERS = {...}` mapping into a *nodes.Library (SPEC_FULL.md
// §4.7.3's "scripted libraries"): each entry must be a Starlark callable
// taking (value, arg, auto_escape) and returning the filtered value. This
// is the concrete analogue of the reference engine's QML "scriptable tags"
// library (`ScriptableTagLibrary`, original_source engine.cpp) — Starlark
// in place of a browser-engine scripting runtime, since that is the
// sandboxed-scripting library available in this ecosystem. Grounded on the
// Thread/ExecFile/value-conversion idiom in neurodesk-builder's
// pkg/starlark package.
//
// Scripted *tags* (`def get_node(token, parser): ...`) are intentionally
// not bridged: doing so would require exposing the compile-time TagParser
// as a callable Starlark value, and Starlark's single-threaded evaluation
// model has no way to suspend a script mid-call to let it drive further
// token consumption the way a Go NodeFactory does. Only FILTERS is
// implemented; see DESIGN.md.
func LoadStarlarkLibrary(path string) (*nodes.Library, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	thread := &starlark.Thread{Name: path}
	globals, err := starlark.ExecFile(thread, path, src, nil)
	if err != nil {
		return nil, fmt.Errorf("plugin: executing %s: %w", path, err)
	}

	lib := nodes.NewLibrary()
	raw, ok := globals["FILTERS"]
	if !ok {
		return lib, nil
	}
	dict, ok := raw.(*starlark.Dict)
	if !ok {
		return nil, fmt.Errorf("plugin: %s's FILTERS is %T, not a dict", path, raw)
	}
	for _, item := range dict.Items() {
		key, ok := item[0].(starlark.String)
		if !ok {
			continue
		}
		fn, ok := item[1].(starlark.Callable)
		if !ok {
			continue
		}
		lib.AddFilter(string(key), starlarkFilter(thread, fn))
	}
	return lib, nil
}

// starlarkFilter adapts a Starlark callable to the nodes.Filter contract,
// round-tripping input/arg through the Value domain (SPEC_FULL.md §3).
func starlarkFilter(thread *starlark.Thread, fn starlark.Callable) nodes.Filter {
	return func(input value.Value, arg value.Value, autoEscape bool) (value.Value, error) {
		args := starlark.Tuple{toStarlark(input), toStarlark(arg), starlark.Bool(autoEscape)}
		result, err := starlark.Call(thread, fn, args, nil)
		if err != nil {
			return nil, fmt.Errorf("plugin: filter %s: %w", fn.Name(), err)
		}
		return fromStarlark(result), nil
	}
}

// toStarlark converts a Value domain value (SPEC_FULL.md §3) into its
// Starlark equivalent.
func toStarlark(v value.Value) starlark.Value {
	switch vv := v.(type) {
	case nil:
		return starlark.None
	case bool:
		return starlark.Bool(vv)
	case int64:
		return starlark.MakeInt64(vv)
	case float64:
		return starlark.Float(vv)
	case string:
		return starlark.String(vv)
	case value.SafeString:
		return starlark.String(vv.S)
	case []value.Value:
		items := make([]starlark.Value, len(vv))
		for i, item := range vv {
			items[i] = toStarlark(item)
		}
		return starlark.NewList(items)
	case map[string]value.Value:
		d := starlark.NewDict(len(vv))
		for k, item := range vv {
			d.SetKey(starlark.String(k), toStarlark(item))
		}
		return d
	default:
		return starlark.String(value.ToString(v))
	}
}

// fromStarlark converts a Starlark value back into the Value domain.
func fromStarlark(v starlark.Value) value.Value {
	switch vv := v.(type) {
	case starlark.NoneType:
		return nil
	case starlark.Bool:
		return bool(vv)
	case starlark.Int:
		if i, ok := vv.Int64(); ok {
			return i
		}
		return vv.String()
	case starlark.Float:
		return float64(vv)
	case starlark.String:
		return string(vv)
	case *starlark.List:
		items := make([]value.Value, vv.Len())
		for i := 0; i < vv.Len(); i++ {
			items[i] = fromStarlark(vv.Index(i))
		}
		return items
	case *starlark.Dict:
		out := make(map[string]value.Value, vv.Len())
		for _, item := range vv.Items() {
			k, _ := item[0].(starlark.String)
			out[string(k)] = fromStarlark(item[1])
		}
		return out
	default:
		return v.String()
	}
}
