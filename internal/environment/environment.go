// Package environment implements the Script language's lexically-scoped
// name→value chain.
package environment

import (
	"fmt"

	"github.com/chazu/scriptrunner/internal/value"
)

// Environment is an ordered mapping from name to Value with an optional
// parent link. Child environments hold a shared reference to their
// parent; a UserFunction's captured Environment extends that scope's
// lifetime for as long as the closure itself is reachable.
type Environment struct {
	vars   map[string]value.Value
	parent *Environment
}

// New creates a root environment with no parent.
func New() *Environment {
	return &Environment{vars: make(map[string]value.Value)}
}

// NewChild creates an environment whose parent is env.
func NewChild(parent *Environment) *Environment {
	return &Environment{vars: make(map[string]value.Value), parent: parent}
}

// UndefinedVariableError reports a name-resolution failure.
type UndefinedVariableError struct {
	Name string
}

func (e *UndefinedVariableError) Error() string {
	return fmt.Sprintf("undefined variable %q", e.Name)
}

// Define writes into the local scope unconditionally, shadowing any
// binding of the same name in an outer scope.
func (e *Environment) Define(name string, v value.Value) {
	e.vars[name] = v
}

// Get walks the parent chain looking for name.
func (e *Environment) Get(name string) (value.Value, error) {
	for scope := e; scope != nil; scope = scope.parent {
		if v, ok := scope.vars[name]; ok {
			return v, nil
		}
	}
	return value.Nil, &UndefinedVariableError{Name: name}
}

// Exists reports whether name is bound anywhere in the parent chain.
func (e *Environment) Exists(name string) bool {
	for scope := e; scope != nil; scope = scope.parent {
		if _, ok := scope.vars[name]; ok {
			return true
		}
	}
	return false
}

// Assign walks the parent chain and overwrites the nearest existing
// binding. If name is bound nowhere in the chain, it is implicitly
// declared in the innermost (this) scope — the only path by which new
// locals are introduced.
func (e *Environment) Assign(name string, v value.Value) {
	for scope := e; scope != nil; scope = scope.parent {
		if _, ok := scope.vars[name]; ok {
			scope.vars[name] = v
			return
		}
	}
	e.vars[name] = v
}

// Parent returns the enclosing scope, or nil for a root environment.
func (e *Environment) Parent() *Environment {
	return e.parent
}
