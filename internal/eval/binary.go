package eval

import (
	"github.com/chazu/scriptrunner/internal/ast"
	"github.com/chazu/scriptrunner/internal/environment"
	"github.com/chazu/scriptrunner/internal/token"
	"github.com/chazu/scriptrunner/internal/value"
)

// evalBinary evaluates a binary expression. && and || always evaluate
// both operands, then combine on truthiness — no short-circuit, so a
// right operand with a side effect always runs.
func (e *Evaluator) evalBinary(n *ast.Binary, env *environment.Environment) (value.Value, error) {
	if n.Op == token.And || n.Op == token.Or {
		left, err := e.eval(n.Left, env)
		if err != nil {
			return value.Nil, err
		}
		right, err := e.eval(n.Right, env)
		if err != nil {
			return value.Nil, err
		}
		if n.Op == token.And {
			return value.Bool(left.Truthy() && right.Truthy()), nil
		}
		return value.Bool(left.Truthy() || right.Truthy()), nil
	}

	left, err := e.eval(n.Left, env)
	if err != nil {
		return value.Nil, err
	}
	right, err := e.eval(n.Right, env)
	if err != nil {
		return value.Nil, err
	}

	switch n.Op {
	case token.Plus:
		v, err := value.Add(left, right)
		return e.opResult(v, err, n.Pos())
	case token.Minus:
		v, err := value.Sub(left, right)
		return e.opResult(v, err, n.Pos())
	case token.Star:
		v, err := value.Mul(left, right)
		return e.opResult(v, err, n.Pos())
	case token.Slash:
		v, err := value.Div(left, right)
		return e.opResult(v, err, n.Pos())
	case token.Percent:
		v, err := value.Mod(left, right)
		return e.opResult(v, err, n.Pos())
	case token.Eq:
		return value.Bool(left.Equal(right)), nil
	case token.NotEq:
		return value.Bool(!left.Equal(right)), nil
	case token.Lt, token.LtEq, token.Gt, token.GtEq:
		cmp, err := value.Compare(left, right)
		if err != nil {
			return value.Nil, e.wrapOpErr(err, n.Pos())
		}
		return value.Bool(compareHolds(n.Op, cmp)), nil
	default:
		return value.Nil, runtimeErrorf(TypeError, n.Pos(), "unknown binary operator %s", n.Op)
	}
}

func compareHolds(op token.Kind, cmp int) bool {
	switch op {
	case token.Lt:
		return cmp < 0
	case token.LtEq:
		return cmp <= 0
	case token.Gt:
		return cmp > 0
	case token.GtEq:
		return cmp >= 0
	default:
		return false
	}
}

func (e *Evaluator) evalUnary(n *ast.Unary, env *environment.Environment) (value.Value, error) {
	operand, err := e.eval(n.Operand, env)
	if err != nil {
		return value.Nil, err
	}
	switch n.Op {
	case token.Minus:
		v, err := value.Negate(operand)
		return e.opResult(v, err, n.Pos())
	case token.Bang:
		return value.Not(operand), nil
	default:
		return value.Nil, runtimeErrorf(TypeError, n.Pos(), "unknown unary operator %s", n.Op)
	}
}

// opResult turns the (Value, error) pair returned by a value package
// operator into an evaluator result, attaching pos to any OpError.
func (e *Evaluator) opResult(v value.Value, err error, pos token.Position) (value.Value, error) {
	if err != nil {
		return value.Nil, e.wrapOpErr(err, pos)
	}
	return v, nil
}
