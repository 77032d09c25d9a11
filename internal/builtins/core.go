package builtins

import (
	"fmt"
	"strings"
	"time"

	"github.com/tliron/commonlog"

	"github.com/chazu/scriptrunner/internal/environment"
	"github.com/chazu/scriptrunner/internal/host"
	"github.com/chazu/scriptrunner/internal/value"
)

func joinArgs(args []value.Value) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.String()
	}
	return strings.Join(parts, " ")
}

func registerCore(env *environment.Environment, h *host.Host) {
	define(env, "Print", func(args []value.Value) (value.Value, error) {
		parts := make([]interface{}, len(args))
		for i, a := range args {
			parts[i] = a.String()
		}
		fmt.Println(parts...)
		return value.Nil, nil
	})

	define(env, "Log", func(args []value.Value) (value.Value, error) {
		commonlog.NewInfoMessage(0, joinArgs(args))
		return value.Nil, nil
	})

	define(env, "LogError", func(args []value.Value) (value.Value, error) {
		commonlog.NewErrorMessage(0, joinArgs(args))
		return value.Nil, nil
	})

	define(env, "Sleep", func(args []value.Value) (value.Value, error) {
		if err := arity("Sleep", args, 1); err != nil {
			return value.Nil, err
		}
		if !args[0].IsNumber() {
			return value.Nil, argTypeErrorf("Sleep", 0, "number", args[0].Kind().String())
		}
		time.Sleep(time.Duration(args[0].AsFloat() * float64(time.Millisecond)))
		return value.Nil, nil
	})

	define(env, "Assert", func(args []value.Value) (value.Value, error) {
		if len(args) != 1 && len(args) != 2 {
			return value.Nil, fmt.Errorf("Assert expects 1 or 2 argument(s), got %d", len(args))
		}
		if args[0].Truthy() {
			return value.Nil, nil
		}
		msg := "Assertion failed"
		if len(args) == 2 {
			msg = "Assertion failed: " + args[1].String()
		}
		return value.Nil, fmt.Errorf("%s", msg)
	})
}
