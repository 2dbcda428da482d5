package interpreter

import (
	"context"
	"fmt"
)

// Callable is anything that can appear on the left of a call expression:
// a user-defined LoxFunction or a NativeFunction.
type Callable interface {
	Arity() int
	Call(ctx context.Context, interp *interpreter, arguments []any) (any, error)
}

// NativeFunction wraps a Go function as a builtin. Klox only ships one
// builtin (clock), so unlike the teacher's five-arity NativeFunctionN
// family, a single variadic shape is enough here.
type NativeFunction struct {
	name  string
	arity int
	fn    func(ctx context.Context, interp *interpreter, arguments []any) (any, error)
}

func NewNativeFunction(name string, arity int, fn func(ctx context.Context, interp *interpreter, arguments []any) (any, error)) *NativeFunction {
	return &NativeFunction{name: name, arity: arity, fn: fn}
}

// Arity implements Callable.
func (n *NativeFunction) Arity() int { return n.arity }

// Call implements Callable.
func (n *NativeFunction) Call(ctx context.Context, interp *interpreter, arguments []any) (any, error) {
	return n.fn(ctx, interp, arguments)
}

// String implements fmt.Stringer.
func (n *NativeFunction) String() string { return "<native fn>" }

// GoString implements fmt.GoStringer.
func (n *NativeFunction) GoString() string { return n.String() }

var _ Callable = (*NativeFunction)(nil)
var _ fmt.Stringer = (*NativeFunction)(nil)
var _ fmt.GoStringer = (*NativeFunction)(nil)
