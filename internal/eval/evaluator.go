// Package eval implements the tree-walking evaluator that drives the
// Script language's AST.
package eval

import (
	"github.com/chazu/scriptrunner/internal/ast"
	"github.com/chazu/scriptrunner/internal/environment"
	"github.com/chazu/scriptrunner/internal/token"
	"github.com/chazu/scriptrunner/internal/value"
)

// Evaluator walks the AST, using an Environment chain for name
// resolution. One Evaluator instance corresponds to one script run.
type Evaluator struct {
	global *environment.Environment
	errors []*RuntimeError
}

// New creates an Evaluator whose global scope is env (already populated
// with native-function bindings by the builtins bridge).
func New(env *environment.Environment) *Evaluator {
	return &Evaluator{global: env}
}

// Errors returns the runtime errors recorded across top-level statement
// boundaries.
func (e *Evaluator) Errors() []*RuntimeError {
	return e.errors
}

// Run executes each top-level statement in source order. A runtime error
// raised within one statement is recorded and does not prevent
// subsequent top-level statements from executing. An uncaught
// Return/Break/Continue reaching the top level is recorded as a
// ControlFlow error.
func (e *Evaluator) Run(stmts []ast.Stmt) {
	for _, stmt := range stmts {
		sig, err := e.execStmt(stmt, e.global)
		if err != nil {
			e.errors = append(e.errors, e.wrap(err, stmt.Pos()))
			continue
		}
		switch sig.kind {
		case signalReturn:
			e.errors = append(e.errors, runtimeErrorf(ControlFlowError, stmt.Pos(), "Return outside function"))
		case signalBreak:
			e.errors = append(e.errors, runtimeErrorf(ControlFlowError, stmt.Pos(), "Break outside loop"))
		case signalContinue:
			e.errors = append(e.errors, runtimeErrorf(ControlFlowError, stmt.Pos(), "Continue outside loop"))
		}
	}
}

func (e *Evaluator) wrap(err error, pos token.Position) *RuntimeError {
	if re, ok := err.(*RuntimeError); ok {
		return re
	}
	return newRuntimeError(TypeError, pos, err)
}

// ---------------------------------------------------------------------------
// Statements
// ---------------------------------------------------------------------------

func (e *Evaluator) execStmt(stmt ast.Stmt, env *environment.Environment) (signal, error) {
	switch s := stmt.(type) {
	case *ast.ExpressionStmt:
		_, err := e.eval(s.Expr, env)
		return noSignal, err

	case *ast.AssignmentStmt:
		v, err := e.eval(s.Value, env)
		if err != nil {
			return noSignal, err
		}
		env.Assign(s.Name, v)
		return noSignal, nil

	case *ast.Block:
		child := environment.NewChild(env)
		for _, child_stmt := range s.Stmts {
			sig, err := e.execStmt(child_stmt, child)
			if err != nil || sig.kind != signalNone {
				return sig, err
			}
		}
		return noSignal, nil

	case *ast.If:
		cond, err := e.eval(s.Cond, env)
		if err != nil {
			return noSignal, err
		}
		if cond.Truthy() {
			return e.execStmt(s.Then, env)
		}
		if s.Else != nil {
			return e.execStmt(s.Else, env)
		}
		return noSignal, nil

	case *ast.While:
		for {
			cond, err := e.eval(s.Cond, env)
			if err != nil {
				return noSignal, err
			}
			if !cond.Truthy() {
				return noSignal, nil
			}
			sig, err := e.execStmt(s.Body, env)
			if err != nil {
				return noSignal, err
			}
			switch sig.kind {
			case signalBreak:
				return noSignal, nil
			case signalReturn:
				return sig, nil
			}
			// signalContinue or signalNone: restart the condition.
		}

	case *ast.For:
		loopEnv := environment.NewChild(env)
		if s.Init != nil {
			if _, err := e.execStmt(s.Init, loopEnv); err != nil {
				return noSignal, err
			}
		}
		for {
			if s.Cond != nil {
				cond, err := e.eval(s.Cond, loopEnv)
				if err != nil {
					return noSignal, err
				}
				if !cond.Truthy() {
					return noSignal, nil
				}
			}
			sig, err := e.execStmt(s.Body, loopEnv)
			if err != nil {
				return noSignal, err
			}
			if sig.kind == signalBreak {
				return noSignal, nil
			}
			if sig.kind == signalReturn {
				return sig, nil
			}
			// signalContinue still runs Step, same as falling through.
			if s.Step != nil {
				if _, err := e.execStmt(s.Step, loopEnv); err != nil {
					return noSignal, err
				}
			}
		}

	case *ast.ForEach:
		iterable, err := e.eval(s.Iterable, env)
		if err != nil {
			return noSignal, err
		}
		if !iterable.IsArray() {
			return noSignal, runtimeErrorf(TypeError, s.Pos(), "foreach requires an array, got %s", iterable.Kind())
		}
		for _, elem := range iterable.ArrayVal().Elements {
			iterEnv := environment.NewChild(env)
			iterEnv.Define(s.Var, elem)
			sig, err := e.execStmt(s.Body, iterEnv)
			if err != nil {
				return noSignal, err
			}
			if sig.kind == signalBreak {
				return noSignal, nil
			}
			if sig.kind == signalReturn {
				return sig, nil
			}
		}
		return noSignal, nil

	case *ast.Function:
		fn := value.NewUserFunction(&value.UserFunction{
			Name:     s.Name,
			Params:   s.Params,
			Body:     s.Body,
			Captured: env,
		})
		env.Define(s.Name, fn)
		return noSignal, nil

	case *ast.Return:
		if s.Value == nil {
			return signal{kind: signalReturn, value: value.Nil}, nil
		}
		v, err := e.eval(s.Value, env)
		if err != nil {
			return noSignal, err
		}
		return signal{kind: signalReturn, value: v}, nil

	case *ast.Break:
		return signal{kind: signalBreak}, nil

	case *ast.Continue:
		return signal{kind: signalContinue}, nil

	default:
		return noSignal, runtimeErrorf(TypeError, stmt.Pos(), "unknown statement type %T", stmt)
	}
}

// ---------------------------------------------------------------------------
// Expressions
// ---------------------------------------------------------------------------

func (e *Evaluator) eval(expr ast.Expr, env *environment.Environment) (value.Value, error) {
	switch n := expr.(type) {
	case *ast.Literal:
		return e.evalLiteral(n)

	case *ast.Variable:
		v, err := env.Get(n.Name)
		if err != nil {
			return value.Nil, newRuntimeError(NameResolutionError, n.Pos(), err)
		}
		return v, nil

	case *ast.Binary:
		return e.evalBinary(n, env)

	case *ast.Unary:
		return e.evalUnary(n, env)

	case *ast.Array:
		elems := make([]value.Value, len(n.Elements))
		for i, el := range n.Elements {
			v, err := e.eval(el, env)
			if err != nil {
				return value.Nil, err
			}
			elems[i] = v
		}
		return value.NewArray(elems), nil

	case *ast.Call:
		return e.evalCall(n, env)

	case *ast.Member:
		obj, err := e.eval(n.Object, env)
		if err != nil {
			return value.Nil, err
		}
		v, err := value.Member(obj, n.Name)
		if err != nil {
			return value.Nil, e.wrapOpErr(err, n.Pos())
		}
		return v, nil

	case *ast.Index:
		obj, err := e.eval(n.Object, env)
		if err != nil {
			return value.Nil, err
		}
		idx, err := e.eval(n.Index, env)
		if err != nil {
			return value.Nil, err
		}
		v, err := value.Index(obj, idx)
		if err != nil {
			return value.Nil, e.wrapOpErr(err, n.Pos())
		}
		return v, nil

	default:
		return value.Nil, runtimeErrorf(TypeError, expr.Pos(), "unknown expression type %T", expr)
	}
}

func (e *Evaluator) evalLiteral(n *ast.Literal) (value.Value, error) {
	switch n.Token.Kind {
	case token.Int:
		return value.Int(n.Token.IntVal), nil
	case token.Float:
		return value.Float(n.Token.FloatVal), nil
	case token.String:
		return value.String(n.Token.Lexeme), nil
	case token.True:
		return value.Bool(true), nil
	case token.False:
		return value.Bool(false), nil
	case token.Null:
		return value.Nil, nil
	default:
		return value.Nil, runtimeErrorf(TypeError, n.Pos(), "unevaluable literal token %s", n.Token.Kind)
	}
}

func (e *Evaluator) wrapOpErr(err error, pos token.Position) error {
	if opErr, ok := err.(*value.OpError); ok {
		kind := TypeError
		if opErr.Kind == value.ValueError {
			kind = ValueError
		}
		return newRuntimeError(kind, pos, opErr)
	}
	return newRuntimeError(TypeError, pos, err)
}
