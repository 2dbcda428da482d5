package interpreter

import (
	"context"
	"errors"
	"fmt"

	"github.com/FreePlacki/Klox/internal/parser"
)

// LoxFunction is a user-defined function. Closure is the environment active
// at the point the function was declared, not the environment of the call
// site -- that's what makes a closure captured a variable's binding, not its
// value at call time (see the "closures" end-to-end scenario).
type LoxFunction struct {
	Declaration *parser.StmtFunction
	Closure     *environment
}

func NewLoxFunction(declaration *parser.StmtFunction, closure *environment) *LoxFunction {
	return &LoxFunction{Declaration: declaration, Closure: closure}
}

// Arity implements Callable.
func (l *LoxFunction) Arity() int {
	return len(l.Declaration.Parameters)
}

// Call implements Callable.
func (l *LoxFunction) Call(ctx context.Context, interp *interpreter, arguments []any) (any, error) {
	env := l.Closure.Nest()

	for idx, param := range l.Declaration.Parameters {
		env.Define(param.Lexeme, arguments[idx])
	}

	_, err := interp.executeBlock(env, l.Declaration.Body)
	if err != nil {
		return l.unwrapReturn(err)
	}
	return nil, nil
}

func (l *LoxFunction) unwrapReturn(err error) (any, error) {
	var ret *returnSignal
	if errors.As(err, &ret) {
		return ret.value, nil
	}
	return nil, err
}

// String implements fmt.Stringer.
func (l *LoxFunction) String() string {
	return fmt.Sprintf("<fn %s>", l.Declaration.Name.Lexeme)
}

// GoString implements fmt.GoStringer.
func (l *LoxFunction) GoString() string { return l.String() }

var _ Callable = (*LoxFunction)(nil)
var _ fmt.Stringer = (*LoxFunction)(nil)
var _ fmt.GoStringer = (*LoxFunction)(nil)

// returnSignal, breakSignal and continueSignal carry non-local control
// transfer up through the Go call stack as errors. They never reach an
// ErrReporter: each is caught at the point that can legally absorb it
// (returnSignal at the enclosing LoxFunction.Call, break/continueSignal at
// the enclosing loop) before bubbling any further.
type returnSignal struct {
	value any
}

func (r *returnSignal) Error() string {
	return fmt.Sprintf("return %v outside function", r.value)
}

type breakSignal struct{}

func (b *breakSignal) Error() string { return "break outside loop" }

type continueSignal struct{}

func (c *continueSignal) Error() string { return "continue outside loop" }

var (
	errBreak    error = &breakSignal{}
	errContinue error = &continueSignal{}
)
