// Package builtins registers the Script language's native callables
// into an Environment. The registration functions that need host
// context (core, device) take the *host.Host explicitly — there is no
// package-level state,
// mirroring gowrap's own RegisterPrimitives(v) convention for wiring a
// category of native functions into a VM at startup, generalized from
// "one call per wrapped Go package" to "one call per builtin category."
package builtins

import (
	"github.com/chazu/scriptrunner/internal/environment"
	"github.com/chazu/scriptrunner/internal/host"
	"github.com/chazu/scriptrunner/internal/value"
)

// RegisterAll binds every builtin category into env.
func RegisterAll(env *environment.Environment, h *host.Host) {
	registerCore(env, h)
	registerStrings(env)
	registerArrays(env)
	registerFiles(env)
	registerDevice(env, h)
}

func define(env *environment.Environment, name string, fn func(args []value.Value) (value.Value, error)) {
	env.Define(name, value.NewNativeFunction(&value.NativeFunction{Name: name, Fn: fn}))
}

// arity reports a consistent error when a native function receives the
// wrong number of arguments.
func arity(name string, args []value.Value, want int) error {
	if len(args) != want {
		return argCountErrorf(name, want, len(args))
	}
	return nil
}
