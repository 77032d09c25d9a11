package eval

import (
	"github.com/chazu/scriptrunner/internal/ast"
	"github.com/chazu/scriptrunner/internal/environment"
	"github.com/chazu/scriptrunner/internal/token"
	"github.com/chazu/scriptrunner/internal/value"
)

// evalCall evaluates a call expression against either a NativeFunction
// or a UserFunction closure.
func (e *Evaluator) evalCall(n *ast.Call, env *environment.Environment) (value.Value, error) {
	callee, err := e.eval(n.Callee, env)
	if err != nil {
		return value.Nil, err
	}
	args := make([]value.Value, len(n.Args))
	for i, a := range n.Args {
		v, err := e.eval(a, env)
		if err != nil {
			return value.Nil, err
		}
		args[i] = v
	}

	switch callee.Kind() {
	case value.NativeFunctionKind:
		native := callee.NativeFunc()
		result, err := native.Fn(args)
		if err != nil {
			return value.Nil, newRuntimeError(NativeError, n.Pos(), err)
		}
		return result, nil

	case value.UserFunctionKind:
		return e.callUserFunction(callee.UserFunc(), args, n.Pos())

	default:
		return value.Nil, runtimeErrorf(TypeError, n.Pos(), "%s is not callable", callee.Kind())
	}
}

func (e *Evaluator) callUserFunction(fn *value.UserFunction, args []value.Value, pos token.Position) (value.Value, error) {
	if len(args) != len(fn.Params) {
		return value.Nil, runtimeErrorf(TypeError, pos, "function %s expects %d argument(s), got %d", fn.Name, len(fn.Params), len(args))
	}
	captured, ok := fn.Captured.(*environment.Environment)
	if !ok {
		return value.Nil, runtimeErrorf(TypeError, pos, "function %s has no captured environment", fn.Name)
	}
	body, ok := fn.Body.(*ast.Block)
	if !ok {
		return value.Nil, runtimeErrorf(TypeError, pos, "function %s has no body", fn.Name)
	}

	callEnv := environment.NewChild(captured)
	for i, param := range fn.Params {
		callEnv.Define(param, args[i])
	}

	for _, stmt := range body.Stmts {
		sig, err := e.execStmt(stmt, callEnv)
		if err != nil {
			return value.Nil, err
		}
		switch sig.kind {
		case signalReturn:
			return sig.value, nil
		case signalBreak:
			return value.Nil, runtimeErrorf(ControlFlowError, pos, "break outside loop")
		case signalContinue:
			return value.Nil, runtimeErrorf(ControlFlowError, pos, "continue outside loop")
		}
	}
	return value.Nil, nil
}
