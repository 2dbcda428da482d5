package interpreter

import (
	"fmt"

	"github.com/FreePlacki/Klox/internal/loxerrors"
	"github.com/FreePlacki/Klox/internal/token"
)

// environment is one link in the lexical scope chain: a map of names to
// values, plus a pointer to the scope it's nested inside.
type environment struct {
	enclosing *environment
	values    map[string]any
}

func NewEnvironment() *environment {
	return &environment{}
}

func (e *environment) Define(name string, value any) {
	if e.values == nil {
		e.values = make(map[string]any)
	}
	e.values[name] = value
}

func (e *environment) Get(name *token.Token) (any, error) {
	if value, ok := e.values[name.Lexeme]; ok {
		return value, nil
	}

	if e.enclosing != nil {
		return e.enclosing.Get(name)
	}

	return nil, e.undefinedVariable(name)
}

func (e *environment) Assign(name *token.Token, value any) error {
	if _, ok := e.values[name.Lexeme]; ok {
		e.values[name.Lexeme] = value
		return nil
	}

	if e.enclosing != nil {
		return e.enclosing.Assign(name, value)
	}

	return e.undefinedVariable(name)
}

// GetAt and AssignAt bypass the chain walk Get/Assign do: the Resolver has
// already computed how many scopes out the binding lives, so the
// Interpreter can jump straight to it.
func (e *environment) GetAt(distance int, name string) (any, error) {
	scope := e.ancestor(distance)
	if value, ok := scope.values[name]; ok {
		return value, nil
	}

	return nil, fmt.Errorf("%w '%s'.", loxerrors.ErrRuntimeUndefinedVariable, name)
}

func (e *environment) AssignAt(distance int, name *token.Token, value any) (any, error) {
	scope := e.ancestor(distance)
	scope.Define(name.Lexeme, value)
	return value, nil
}

// Nest returns a new scope enclosed by e.
func (e *environment) Nest() *environment {
	env := NewEnvironment()
	env.enclosing = e
	return env
}

func (e *environment) Enclosing() *environment {
	return e.enclosing
}

func (e *environment) ancestor(distance int) *environment {
	self := e
	for distance > 0 {
		self = self.enclosing
		distance--
	}

	return self
}

func (e *environment) undefinedVariable(name *token.Token) error {
	err := fmt.Errorf("%w '%s'.", loxerrors.ErrRuntimeUndefinedVariable, name.Lexeme)
	return loxerrors.NewRuntimeError(name, err)
}

func (e *environment) String() string {
	w := ""

	for self := e; self != nil; self = self.enclosing {
		w += "{"
		for k, v := range self.values {
			w += fmt.Sprintf("%s=%v,", k, v)
		}
		w += "}"
		if self.enclosing != nil {
			w += " -> "
		}
	}

	return w
}

var _ fmt.Stringer = (*environment)(nil)
