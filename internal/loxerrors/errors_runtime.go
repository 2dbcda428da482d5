package loxerrors

import (
	"errors"
	"fmt"

	"github.com/FreePlacki/Klox/internal/token"
)

var (
	ErrRuntimeOperandMustBeNumber            = errors.New("Operand must be a number.")
	ErrRuntimeOperandsMustBeNumbers           = errors.New("Operands must be numbers.")
	ErrRuntimeOperandsMustBeStringsOrNumbers  = errors.New("Operands must be two strings or two numbers.")
	ErrRuntimeUndefinedVariable               = errors.New("Undefined variable")
	ErrRuntimeCalleeMustBeCallable            = errors.New("Can only call functions and classes.")
	ErrRuntimeDivisionByZero                  = errors.New("It looks like you tried division by 0. Yeah better don't try this at home.")
)

func ErrRuntimeCalleeArityError(expectedArity, actualArity int) error {
	return fmt.Errorf("Expected %d arguments but got %d.", expectedArity, actualArity) //nolint:stylecheck
}

// NewRuntimeError wraps a runtime error with the token whose line is reported.
func NewRuntimeError(tok *token.Token, cause error) error {
	return &RuntimeError{tok, cause}
}

type RuntimeError struct {
	tok   *token.Token
	cause error
}

// Error implements error.
func (r *RuntimeError) Error() string {
	return fmt.Sprintf("[line %d] %s", r.tok.Line, r.cause)
}

func (r *RuntimeError) Unwrap() error {
	return r.cause
}

var _ error = (*RuntimeError)(nil)
var _ unwrapInterface = (*RuntimeError)(nil)
