package eval

import (
	"fmt"

	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"

	"github.com/starvals/starvals/pkg/container"
)

// Predeclared builds the Starlark environment shared by the evaluator and
// the REPL: the container constructor, the struct constructor, and the
// caller's input values.
func Predeclared(input map[string]interface{}) (starlark.StringDict, error) {
	predeclared := starlark.StringDict{
		"container": container.Builtin(),
		"struct":    starlark.NewBuiltin("struct", starlarkstruct.Make),
	}
	for key, val := range input {
		v, err := ToValue(val)
		if err != nil {
			return nil, fmt.Errorf("failed to convert input %s: %w", key, err)
		}
		predeclared[key] = v
	}
	return predeclared, nil
}

// Args is the Go form of a container value produced by FromValue.
type Args struct {
	Positional []interface{}
	Keywords   map[string]interface{}
}

// ToValue converts a Go value to a Starlark value. Values that already
// implement starlark.Value pass through unchanged.
func ToValue(v interface{}) (starlark.Value, error) {
	if v == nil {
		return starlark.None, nil
	}

	switch val := v.(type) {
	case starlark.Value:
		return val, nil
	case bool:
		return starlark.Bool(val), nil
	case int:
		return starlark.MakeInt(val), nil
	case int64:
		return starlark.MakeInt64(val), nil
	case float64:
		return starlark.Float(val), nil
	case string:
		return starlark.String(val), nil
	case []interface{}:
		list := make([]starlark.Value, len(val))
		for i, item := range val {
			elem, err := ToValue(item)
			if err != nil {
				return nil, err
			}
			list[i] = elem
		}
		return starlark.NewList(list), nil
	case map[string]interface{}:
		dict := starlark.NewDict(len(val))
		for k, item := range val {
			elem, err := ToValue(item)
			if err != nil {
				return nil, err
			}
			if err := dict.SetKey(starlark.String(k), elem); err != nil {
				return nil, err
			}
		}
		return dict, nil
	default:
		return nil, fmt.Errorf("unsupported type: %T", v)
	}
}

// FromValue converts a Starlark value to a Go value. Containers convert to
// Args; tuples and lists to slices; dicts and structs to string-keyed maps.
func FromValue(v starlark.Value) (interface{}, error) {
	switch val := v.(type) {
	case starlark.NoneType:
		return nil, nil
	case starlark.Bool:
		return bool(val), nil
	case starlark.Int:
		i, ok := val.Int64()
		if !ok {
			return nil, fmt.Errorf("integer too large")
		}
		return i, nil
	case starlark.Float:
		return float64(val), nil
	case starlark.String:
		return string(val), nil
	case *starlark.List:
		list := make([]interface{}, val.Len())
		for i := 0; i < val.Len(); i++ {
			item, err := FromValue(val.Index(i))
			if err != nil {
				return nil, err
			}
			list[i] = item
		}
		return list, nil
	case starlark.Tuple:
		list := make([]interface{}, len(val))
		for i, item := range val {
			elem, err := FromValue(item)
			if err != nil {
				return nil, err
			}
			list[i] = elem
		}
		return list, nil
	case *starlark.Dict:
		return mapFromItems(val.Items())
	case *container.Container:
		positional, err := FromValue(val.Positional())
		if err != nil {
			return nil, err
		}
		keywords, err := mapFromItems(val.Keywords())
		if err != nil {
			return nil, err
		}
		return Args{Positional: positional.([]interface{}), Keywords: keywords}, nil
	case *starlarkstruct.Struct:
		out := make(map[string]interface{})
		for _, name := range val.AttrNames() {
			attr, err := val.Attr(name)
			if err != nil {
				continue
			}
			item, err := FromValue(attr)
			if err != nil {
				return nil, err
			}
			out[name] = item
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported starlark type: %s", v.Type())
	}
}

func mapFromItems(items []starlark.Tuple) (map[string]interface{}, error) {
	out := make(map[string]interface{}, len(items))
	for _, item := range items {
		key, ok := item[0].(starlark.String)
		if !ok {
			return nil, fmt.Errorf("mapping key must be string, got %s", item[0].Type())
		}
		value, err := FromValue(item[1])
		if err != nil {
			return nil, err
		}
		out[string(key)] = value
	}
	return out, nil
}
