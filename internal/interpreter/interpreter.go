package interpreter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/FreePlacki/Klox/internal/loxerrors"
	"github.com/FreePlacki/Klox/internal/parser"
	"github.com/FreePlacki/Klox/internal/token"
)

// Interpreter walks a resolved statement list and executes it directly,
// without compiling to any intermediate form.
type Interpreter interface {
	// Interpret runs statements in order. The returned bool reports whether
	// the run ended on a top-level Expression statement -- the only case
	// the REPL auto-prints (spec §4.3: "Expression: evaluate, discard. REPL
	// mode additionally prints the stringified result."). When it's false,
	// the string is always empty and must not be printed; when it's true,
	// the string is that expression's stringified value, which may itself
	// be the literal text "nil".
	Interpret(ctx context.Context, statements []parser.Stmt) (string, bool, error)

	// Evaluate evaluates a single expression in the interpreter's global
	// scope, independent of any statement list.
	Evaluate(ctx context.Context, expr parser.Expr) (any, error)
}

type interpreter struct {
	globals *environment
	env     *environment
	locals  map[int64]int
	ctx     context.Context

	stdin    io.Reader
	stdout   io.Writer
	stderr   io.Writer
	reporter loxerrors.ErrReporter
}

func NewInterpreter(options ...InterpreterOption) Interpreter {
	opts := newInterpreterOpts(options...)

	interp := &interpreter{
		globals:  opts.globals,
		env:      opts.globals,
		locals:   make(map[int64]int),
		ctx:      context.Background(),
		stdin:    opts.stdin,
		stdout:   opts.stdout,
		stderr:   opts.stderr,
		reporter: opts.reporter,
	}

	interp.globals.Define("clock", NewNativeFunction("clock", 0, stdClock))

	return interp
}

// Interpret implements Interpreter.
func (i *interpreter) Interpret(ctx context.Context, statements []parser.Stmt) (string, bool, error) {
	i.ctx = ctx

	var last any
	var hasLast bool

	for _, stmt := range statements {
		value, err := i.execute(stmt)
		if err != nil {
			return "", false, err
		}

		if _, ok := stmt.(*parser.StmtExpression); ok {
			last, hasLast = value, true
		} else {
			hasLast = false
		}
	}

	if !hasLast {
		return "", false, nil
	}
	return i.stringify(last), true, nil
}

// Evaluate implements Interpreter.
func (i *interpreter) Evaluate(ctx context.Context, expr parser.Expr) (any, error) {
	i.ctx = ctx
	return i.evaluate(expr)
}

// resolve is called by the Resolver to record how many enclosing scopes lie
// between expr and the scope that declares the name it refers to.
func (i *interpreter) resolve(expr parser.Expr, depth int) {
	i.locals[expr.ID()] = depth
}

func (i *interpreter) execute(stmt parser.Stmt) (any, error) {
	return stmt.Accept(i)
}

func (i *interpreter) evaluate(expr parser.Expr) (any, error) {
	return expr.Accept(i)
}

func (i *interpreter) executeBlock(env *environment, statements []parser.Stmt) (any, error) {
	enclosing := i.env
	i.env = env
	defer func() { i.env = enclosing }()

	var last any
	for _, stmt := range statements {
		value, err := i.execute(stmt)
		if err != nil {
			return nil, err
		}
		last = value
	}
	return last, nil
}

// ========  Statements  ========

// VisitStmtBlock implements parser.StmtVisitor.
func (i *interpreter) VisitStmtBlock(stmt *parser.StmtBlock) (any, error) {
	return i.executeBlock(i.env.Nest(), stmt.Statements)
}

// VisitStmtBreak implements parser.StmtVisitor.
func (i *interpreter) VisitStmtBreak(stmt *parser.StmtBreak) (any, error) {
	return nil, errBreak
}

// VisitStmtContinue implements parser.StmtVisitor.
func (i *interpreter) VisitStmtContinue(stmt *parser.StmtContinue) (any, error) {
	return nil, errContinue
}

// VisitStmtExpression implements parser.StmtVisitor.
func (i *interpreter) VisitStmtExpression(stmt *parser.StmtExpression) (any, error) {
	return i.evaluate(stmt.Expression)
}

// VisitStmtFunction implements parser.StmtVisitor.
func (i *interpreter) VisitStmtFunction(stmt *parser.StmtFunction) (any, error) {
	fn := NewLoxFunction(stmt, i.env)
	i.env.Define(stmt.Name.Lexeme, fn)
	return nil, nil
}

// VisitStmtIf implements parser.StmtVisitor.
func (i *interpreter) VisitStmtIf(stmt *parser.StmtIf) (any, error) {
	condition, err := i.evaluate(stmt.Condition)
	if err != nil {
		return nil, err
	}

	if i.isTruthy(condition) {
		return i.execute(stmt.ThenBranch)
	}
	if stmt.ElseBranch != nil {
		return i.execute(stmt.ElseBranch)
	}
	return nil, nil
}

// VisitStmtPrint implements parser.StmtVisitor.
func (i *interpreter) VisitStmtPrint(stmt *parser.StmtPrint) (any, error) {
	value, err := i.evaluate(stmt.Expression)
	if err != nil {
		return nil, err
	}
	fmt.Fprintln(i.stdout, i.stringify(value))
	return nil, nil
}

// VisitStmtReturn implements parser.StmtVisitor.
func (i *interpreter) VisitStmtReturn(stmt *parser.StmtReturn) (any, error) {
	var value any
	if stmt.Value != nil {
		v, err := i.evaluate(stmt.Value)
		if err != nil {
			return nil, err
		}
		value = v
	}
	return nil, &returnSignal{value: value}
}

// VisitStmtVar implements parser.StmtVisitor.
func (i *interpreter) VisitStmtVar(stmt *parser.StmtVar) (any, error) {
	var value any
	if stmt.Initializer != nil {
		v, err := i.evaluate(stmt.Initializer)
		if err != nil {
			return nil, err
		}
		value = v
	}
	i.env.Define(stmt.Name.Lexeme, value)
	return nil, nil
}

// VisitStmtWhile implements parser.StmtVisitor.
func (i *interpreter) VisitStmtWhile(stmt *parser.StmtWhile) (any, error) {
	for {
		if err := i.ctx.Err(); err != nil {
			return nil, err
		}

		condition, err := i.evaluate(stmt.Condition)
		if err != nil {
			return nil, err
		}
		if !i.isTruthy(condition) {
			return nil, nil
		}

		_, err = i.execute(stmt.Body)
		if err != nil {
			switch {
			case errors.Is(err, errBreak):
				return nil, nil
			case errors.Is(err, errContinue):
				continue
			default:
				return nil, err
			}
		}
	}
}

// ========  Expressions  ========

// VisitExprAssign implements parser.ExprVisitor.
func (i *interpreter) VisitExprAssign(expr *parser.ExprAssign) (any, error) {
	value, err := i.evaluate(expr.Value)
	if err != nil {
		return nil, err
	}

	if depth, ok := i.locals[expr.ID()]; ok {
		if _, err := i.env.AssignAt(depth, expr.Name, value); err != nil {
			return nil, err
		}
		return value, nil
	}

	if err := i.globals.Assign(expr.Name, value); err != nil {
		return nil, err
	}
	return value, nil
}

// VisitExprBinary implements parser.ExprVisitor.
func (i *interpreter) VisitExprBinary(expr *parser.ExprBinary) (any, error) {
	left, err := i.evaluate(expr.Left)
	if err != nil {
		return nil, err
	}
	right, err := i.evaluate(expr.Right)
	if err != nil {
		return nil, err
	}

	switch expr.Operator.Type {
	case token.GREATER:
		l, r, err := i.checkNumberOperands(expr.Operator, left, right)
		if err != nil {
			return nil, err
		}
		return l > r, nil
	case token.GREATER_EQUAL:
		l, r, err := i.checkNumberOperands(expr.Operator, left, right)
		if err != nil {
			return nil, err
		}
		return l >= r, nil
	case token.LESS:
		l, r, err := i.checkNumberOperands(expr.Operator, left, right)
		if err != nil {
			return nil, err
		}
		return l < r, nil
	case token.LESS_EQUAL:
		l, r, err := i.checkNumberOperands(expr.Operator, left, right)
		if err != nil {
			return nil, err
		}
		return l <= r, nil
	case token.BANG_EQUAL:
		return !i.isEqual(left, right), nil
	case token.EQUAL_EQUAL:
		return i.isEqual(left, right), nil
	case token.MINUS:
		l, r, err := i.checkNumberOperands(expr.Operator, left, right)
		if err != nil {
			return nil, err
		}
		return l - r, nil
	case token.PLUS:
		return i.evalPlus(expr.Operator, left, right)
	case token.SLASH:
		l, r, err := i.checkNumberOperands(expr.Operator, left, right)
		if err != nil {
			return nil, err
		}
		if r == 0 {
			return nil, loxerrors.NewRuntimeError(expr.Operator, loxerrors.ErrRuntimeDivisionByZero)
		}
		return l / r, nil
	case token.STAR:
		l, r, err := i.checkNumberOperands(expr.Operator, left, right)
		if err != nil {
			return nil, err
		}
		return l * r, nil
	}

	panic("unreachable binary operator " + expr.Operator.Type.String())
}

// evalPlus implements Klox's asymmetric `+`: two numbers add, two strings
// concatenate, and a string followed by a number concatenates the number's
// stringified form -- but a number followed by a string is a type error.
func (i *interpreter) evalPlus(operator *token.Token, left, right any) (any, error) {
	if l, ok := left.(string); ok {
		switch r := right.(type) {
		case string:
			return l + r, nil
		case float64:
			return l + i.stringify(r), nil
		}
		return nil, loxerrors.NewRuntimeError(operator, loxerrors.ErrRuntimeOperandsMustBeStringsOrNumbers)
	}

	if l, ok := left.(float64); ok {
		if r, ok := right.(float64); ok {
			return l + r, nil
		}
	}

	return nil, loxerrors.NewRuntimeError(operator, loxerrors.ErrRuntimeOperandsMustBeStringsOrNumbers)
}

// VisitExprCall implements parser.ExprVisitor.
func (i *interpreter) VisitExprCall(expr *parser.ExprCall) (any, error) {
	callee, err := i.evaluate(expr.Callee)
	if err != nil {
		return nil, err
	}

	arguments := make([]any, len(expr.Arguments))
	for idx, argExpr := range expr.Arguments {
		value, err := i.evaluate(argExpr)
		if err != nil {
			return nil, err
		}
		arguments[idx] = value
	}

	callable, ok := callee.(Callable)
	if !ok {
		return nil, loxerrors.NewRuntimeError(expr.Paren, loxerrors.ErrRuntimeCalleeMustBeCallable)
	}

	if len(arguments) != callable.Arity() {
		return nil, loxerrors.NewRuntimeError(expr.Paren, loxerrors.ErrRuntimeCalleeArityError(callable.Arity(), len(arguments)))
	}

	return callable.Call(i.ctx, i, arguments)
}

// VisitExprGrouping implements parser.ExprVisitor.
func (i *interpreter) VisitExprGrouping(expr *parser.ExprGrouping) (any, error) {
	return i.evaluate(expr.Expression)
}

// VisitExprLiteral implements parser.ExprVisitor.
func (i *interpreter) VisitExprLiteral(expr *parser.ExprLiteral) (any, error) {
	return expr.Value, nil
}

// VisitExprLogical implements parser.ExprVisitor.
func (i *interpreter) VisitExprLogical(expr *parser.ExprLogical) (any, error) {
	left, err := i.evaluate(expr.Left)
	if err != nil {
		return nil, err
	}

	if expr.Operator.Type == token.OR {
		if i.isTruthy(left) {
			return left, nil
		}
	} else {
		if !i.isTruthy(left) {
			return left, nil
		}
	}

	return i.evaluate(expr.Right)
}

// VisitExprTernary implements parser.ExprVisitor.
func (i *interpreter) VisitExprTernary(expr *parser.ExprTernary) (any, error) {
	condition, err := i.evaluate(expr.Condition)
	if err != nil {
		return nil, err
	}

	if i.isTruthy(condition) {
		return i.evaluate(expr.Then)
	}
	return i.evaluate(expr.Else)
}

// VisitExprUnary implements parser.ExprVisitor.
func (i *interpreter) VisitExprUnary(expr *parser.ExprUnary) (any, error) {
	right, err := i.evaluate(expr.Right)
	if err != nil {
		return nil, err
	}

	switch expr.Operator.Type {
	case token.MINUS:
		num, err := i.checkNumberOperand(expr.Operator, right)
		if err != nil {
			return nil, err
		}
		return -num, nil
	case token.BANG:
		return !i.isTruthy(right), nil
	}

	panic("unreachable unary operator " + expr.Operator.Type.String())
}

// VisitExprVariable implements parser.ExprVisitor.
func (i *interpreter) VisitExprVariable(expr *parser.ExprVariable) (any, error) {
	if depth, ok := i.locals[expr.ID()]; ok {
		return i.env.GetAt(depth, expr.Name.Lexeme)
	}
	return i.globals.Get(expr.Name)
}

// ========  Helpers  ========

func (i *interpreter) isTruthy(value any) bool {
	if value == nil {
		return false
	}
	if b, ok := value.(bool); ok {
		return b
	}
	return true
}

func (i *interpreter) isEqual(left, right any) bool {
	if left == nil && right == nil {
		return true
	}
	if left == nil || right == nil {
		return false
	}
	return left == right
}

// stringify renders a Klox runtime value exactly the way `print` and the
// REPL display it: numbers drop a trailing ".0" (FormatFloat with -1
// precision naturally strips it), strings are verbatim, callables defer to
// their own String(), and booleans print as true/false.
func (i *interpreter) stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return "nil"
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

func (i *interpreter) checkNumberOperand(tok *token.Token, value any) (float64, error) {
	if num, ok := value.(float64); ok {
		return num, nil
	}
	return 0, loxerrors.NewRuntimeError(tok, loxerrors.ErrRuntimeOperandMustBeNumber)
}

func (i *interpreter) checkNumberOperands(tok *token.Token, left, right any) (float64, float64, error) {
	l, ok := left.(float64)
	if !ok {
		return 0, 0, loxerrors.NewRuntimeError(tok, loxerrors.ErrRuntimeOperandsMustBeNumbers)
	}
	r, ok := right.(float64)
	if !ok {
		return 0, 0, loxerrors.NewRuntimeError(tok, loxerrors.ErrRuntimeOperandsMustBeNumbers)
	}
	return l, r, nil
}

var (
	_ parser.ExprVisitor = (*interpreter)(nil)
	_ parser.StmtVisitor = (*interpreter)(nil)
	_ Interpreter        = (*interpreter)(nil)
)
