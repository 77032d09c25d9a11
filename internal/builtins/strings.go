package builtins

import (
	"strconv"
	"strings"

	"github.com/chazu/scriptrunner/internal/environment"
	"github.com/chazu/scriptrunner/internal/value"
)

func registerStrings(env *environment.Environment) {
	define(env, "Length", func(args []value.Value) (value.Value, error) {
		if err := arity("Length", args, 1); err != nil {
			return value.Nil, err
		}
		switch {
		case args[0].IsString():
			return value.Int(int64(len(args[0].Str()))), nil
		case args[0].IsArray():
			return value.Int(int64(len(args[0].ArrayVal().Elements))), nil
		default:
			return value.Nil, argTypeErrorf("Length", 0, "string or array", args[0].Kind().String())
		}
	})

	define(env, "Count", func(args []value.Value) (value.Value, error) {
		if err := arity("Count", args, 2); err != nil {
			return value.Nil, err
		}
		if !args[0].IsString() || !args[1].IsString() {
			return value.Nil, argTypeErrorf("Count", 0, "string", args[0].Kind().String())
		}
		return value.Int(int64(strings.Count(args[0].Str(), args[1].Str()))), nil
	})

	define(env, "Substring", func(args []value.Value) (value.Value, error) {
		if err := arity("Substring", args, 3); err != nil {
			return value.Nil, err
		}
		if !args[0].IsString() || !args[1].IsInt() || !args[2].IsInt() {
			return value.Nil, argTypeErrorf("Substring", 0, "string, int, int", "mismatched types")
		}
		s := args[0].Str()
		start, end := args[1].Int(), args[2].Int()
		if start < 0 || end > int64(len(s)) || start > end {
			return value.Nil, valueRangeErrorf("Substring", start, end, len(s))
		}
		return value.String(s[start:end]), nil
	})

	define(env, "ToUpper", func(args []value.Value) (value.Value, error) {
		if err := arity("ToUpper", args, 1); err != nil {
			return value.Nil, err
		}
		return value.String(strings.ToUpper(args[0].String())), nil
	})

	define(env, "ToLower", func(args []value.Value) (value.Value, error) {
		if err := arity("ToLower", args, 1); err != nil {
			return value.Nil, err
		}
		return value.String(strings.ToLower(args[0].String())), nil
	})

	define(env, "Contains", func(args []value.Value) (value.Value, error) {
		if err := arity("Contains", args, 2); err != nil {
			return value.Nil, err
		}
		if args[0].IsArray() {
			for _, elem := range args[0].ArrayVal().Elements {
				if elem.Equal(args[1]) {
					return value.Bool(true), nil
				}
			}
			return value.Bool(false), nil
		}
		return value.Bool(strings.Contains(args[0].String(), args[1].String())), nil
	})

	define(env, "Replace", func(args []value.Value) (value.Value, error) {
		if err := arity("Replace", args, 3); err != nil {
			return value.Nil, err
		}
		return value.String(strings.ReplaceAll(args[0].String(), args[1].String(), args[2].String())), nil
	})

	define(env, "Join", func(args []value.Value) (value.Value, error) {
		if err := arity("Join", args, 2); err != nil {
			return value.Nil, err
		}
		if !args[0].IsArray() {
			return value.Nil, argTypeErrorf("Join", 0, "array", args[0].Kind().String())
		}
		parts := make([]string, len(args[0].ArrayVal().Elements))
		for i, e := range args[0].ArrayVal().Elements {
			parts[i] = e.String()
		}
		return value.String(strings.Join(parts, args[1].String())), nil
	})

	define(env, "ToString", func(args []value.Value) (value.Value, error) {
		if err := arity("ToString", args, 1); err != nil {
			return value.Nil, err
		}
		return value.String(args[0].String()), nil
	})

	define(env, "ToInt", func(args []value.Value) (value.Value, error) {
		if err := arity("ToInt", args, 1); err != nil {
			return value.Nil, err
		}
		switch {
		case args[0].IsInt():
			return args[0], nil
		case args[0].IsFloat():
			return value.Int(int64(args[0].Float())), nil
		case args[0].IsString():
			n, err := strconv.ParseInt(strings.TrimSpace(args[0].Str()), 10, 64)
			if err != nil {
				return value.Nil, conversionErrorf("ToInt", args[0].Str())
			}
			return value.Int(n), nil
		default:
			return value.Nil, argTypeErrorf("ToInt", 0, "number or numeric string", args[0].Kind().String())
		}
	})

	define(env, "ToFloat", func(args []value.Value) (value.Value, error) {
		if err := arity("ToFloat", args, 1); err != nil {
			return value.Nil, err
		}
		switch {
		case args[0].IsNumber():
			return value.Float(args[0].AsFloat()), nil
		case args[0].IsString():
			f, err := strconv.ParseFloat(strings.TrimSpace(args[0].Str()), 64)
			if err != nil {
				return value.Nil, conversionErrorf("ToFloat", args[0].Str())
			}
			return value.Float(f), nil
		default:
			return value.Nil, argTypeErrorf("ToFloat", 0, "number or numeric string", args[0].Kind().String())
		}
	})
}
