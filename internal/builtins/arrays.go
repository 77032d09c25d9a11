package builtins

import (
	"github.com/chazu/scriptrunner/internal/environment"
	"github.com/chazu/scriptrunner/internal/value"
)

func registerArrays(env *environment.Environment) {
	define(env, "Push", func(args []value.Value) (value.Value, error) {
		if err := arity("Push", args, 2); err != nil {
			return value.Nil, err
		}
		if !args[0].IsArray() {
			return value.Nil, argTypeErrorf("Push", 0, "array", args[0].Kind().String())
		}
		arr := args[0].ArrayVal()
		arr.Elements = append(arr.Elements, args[1])
		return args[0], nil
	})

	define(env, "Pop", func(args []value.Value) (value.Value, error) {
		if err := arity("Pop", args, 1); err != nil {
			return value.Nil, err
		}
		if !args[0].IsArray() {
			return value.Nil, argTypeErrorf("Pop", 0, "array", args[0].Kind().String())
		}
		arr := args[0].ArrayVal()
		n := len(arr.Elements)
		if n == 0 {
			return value.Nil, valueRangeErrorf("Pop", 0, 0, 0)
		}
		last := arr.Elements[n-1]
		arr.Elements = arr.Elements[:n-1]
		return last, nil
	})
}
