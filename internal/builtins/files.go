package builtins

import (
	"os"

	"github.com/chazu/scriptrunner/internal/environment"
	"github.com/chazu/scriptrunner/internal/value"
)

func registerFiles(env *environment.Environment) {
	define(env, "FileExists", func(args []value.Value) (value.Value, error) {
		if err := arity("FileExists", args, 1); err != nil {
			return value.Nil, err
		}
		if !args[0].IsString() {
			return value.Nil, argTypeErrorf("FileExists", 0, "string", args[0].Kind().String())
		}
		_, err := os.Stat(args[0].Str())
		return value.Bool(err == nil), nil
	})

	define(env, "ReadFile", func(args []value.Value) (value.Value, error) {
		if err := arity("ReadFile", args, 1); err != nil {
			return value.Nil, err
		}
		if !args[0].IsString() {
			return value.Nil, argTypeErrorf("ReadFile", 0, "string", args[0].Kind().String())
		}
		data, err := os.ReadFile(args[0].Str())
		if err != nil {
			return value.Nil, err
		}
		return value.String(string(data)), nil
	})

	define(env, "WriteFile", func(args []value.Value) (value.Value, error) {
		if err := arity("WriteFile", args, 2); err != nil {
			return value.Nil, err
		}
		if !args[0].IsString() || !args[1].IsString() {
			return value.Nil, argTypeErrorf("WriteFile", 0, "string, string", "mismatched types")
		}
		if err := os.WriteFile(args[0].Str(), []byte(args[1].Str()), 0644); err != nil {
			return value.Nil, err
		}
		return value.Nil, nil
	})
}
