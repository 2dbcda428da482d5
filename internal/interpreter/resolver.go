package interpreter

import (
	"container/list"
	"errors"
	"fmt"
	"strings"

	"github.com/FreePlacki/Klox/internal/loxerrors"
	"github.com/FreePlacki/Klox/internal/parser"
	"github.com/FreePlacki/Klox/internal/token"
	"golang.org/x/exp/maps"
)

// Resolver walks the AST once, before any statement runs, annotating every
// variable reference with the number of scopes between it and the scope
// that declares it. The Interpreter consults that side table at runtime
// instead of searching the environment chain, so closures over shadowed
// names resolve to the binding visible where they're written.
type Resolver interface {
	Resolve(statements []parser.Stmt) error
	// DumpScopes renders the scope stack as it stood when resolution
	// finished, for the --dump-scopes CLI flag.
	DumpScopes() string
}

type FunctionType int

const (
	FnTypeNone FunctionType = iota
	FnTypeFunction
)

type resolver struct {
	interpreter     *interpreter
	scopes          *list.List
	errs            []error
	currentFunction FunctionType
	insideLoop      bool
}

func NewResolver(interp Interpreter) Resolver {
	interpreterPtr, ok := interp.(*interpreter)
	if !ok {
		panic("failed to cast interpreter to struct *interpreter")
	}

	return &resolver{
		interpreter:     interpreterPtr,
		scopes:          list.New(),
		currentFunction: FnTypeNone,
	}
}

// Resolve implements Resolver.
func (r *resolver) Resolve(statements []parser.Stmt) error {
	r.errs = nil
	r.resolveStmts(statements)
	return errors.Join(r.errs...)
}

// DumpScopes implements Resolver.
func (r *resolver) DumpScopes() string {
	w := new(strings.Builder)

	depth := 0
	for el := r.scopes.Front(); el != nil; el = el.Next() {
		scope := r.scopeFromListElem(el)
		names := maps.Keys(scope)
		fmt.Fprintf(w, "%d: %v\n", depth, names)
		depth++
	}

	return w.String()
}

// VisitStmtBlock implements parser.StmtVisitor.
func (r *resolver) VisitStmtBlock(stmt *parser.StmtBlock) (any, error) {
	r.beginScope()
	defer r.endScope()
	r.resolveStmts(stmt.Statements)
	return nil, nil
}

// VisitStmtBreak implements parser.StmtVisitor.
func (r *resolver) VisitStmtBreak(stmt *parser.StmtBreak) (any, error) {
	if !r.insideLoop {
		r.reportError(stmt.Keyword, loxerrors.ErrParseBreakOutsideLoop)
	}
	return nil, nil
}

// VisitStmtContinue implements parser.StmtVisitor.
func (r *resolver) VisitStmtContinue(stmt *parser.StmtContinue) (any, error) {
	if !r.insideLoop {
		r.reportError(stmt.Keyword, loxerrors.ErrParseContinueOutsideLoop)
	}
	return nil, nil
}

// VisitStmtExpression implements parser.StmtVisitor.
func (r *resolver) VisitStmtExpression(stmt *parser.StmtExpression) (any, error) {
	r.resolveExpr(stmt.Expression)
	return nil, nil
}

// VisitStmtFunction implements parser.StmtVisitor.
func (r *resolver) VisitStmtFunction(stmt *parser.StmtFunction) (any, error) {
	r.declare(stmt.Name)
	r.define(stmt.Name)

	r.resolveFunction(stmt)
	return nil, nil
}

// VisitStmtIf implements parser.StmtVisitor.
func (r *resolver) VisitStmtIf(stmt *parser.StmtIf) (any, error) {
	r.resolveExpr(stmt.Condition)
	r.resolveStmt(stmt.ThenBranch)
	if stmt.ElseBranch != nil {
		r.resolveStmt(stmt.ElseBranch)
	}
	return nil, nil
}

// VisitStmtPrint implements parser.StmtVisitor.
func (r *resolver) VisitStmtPrint(stmt *parser.StmtPrint) (any, error) {
	r.resolveExpr(stmt.Expression)
	return nil, nil
}

// VisitStmtReturn implements parser.StmtVisitor.
func (r *resolver) VisitStmtReturn(stmt *parser.StmtReturn) (any, error) {
	if r.currentFunction == FnTypeNone {
		r.reportError(stmt.Keyword, loxerrors.ErrParseCantReturnFromTopLevel)
	}
	if stmt.Value != nil {
		r.resolveExpr(stmt.Value)
	}
	return nil, nil
}

// VisitStmtVar implements parser.StmtVisitor.
func (r *resolver) VisitStmtVar(stmt *parser.StmtVar) (any, error) {
	r.declare(stmt.Name)
	if stmt.Initializer != nil {
		r.resolveExpr(stmt.Initializer)
	}
	r.define(stmt.Name)
	return nil, nil
}

// VisitStmtWhile implements parser.StmtVisitor.
func (r *resolver) VisitStmtWhile(stmt *parser.StmtWhile) (any, error) {
	r.resolveExpr(stmt.Condition)

	enclosingLoop := r.insideLoop
	r.insideLoop = true
	r.resolveStmt(stmt.Body)
	r.insideLoop = enclosingLoop

	return nil, nil
}

// VisitExprAssign implements parser.ExprVisitor.
func (r *resolver) VisitExprAssign(expr *parser.ExprAssign) (any, error) {
	r.resolveExpr(expr.Value)
	r.resolveLocal(expr, expr.Name)
	return nil, nil
}

// VisitExprBinary implements parser.ExprVisitor.
func (r *resolver) VisitExprBinary(expr *parser.ExprBinary) (any, error) {
	r.resolveExpr(expr.Left)
	r.resolveExpr(expr.Right)
	return nil, nil
}

// VisitExprCall implements parser.ExprVisitor.
func (r *resolver) VisitExprCall(expr *parser.ExprCall) (any, error) {
	r.resolveExpr(expr.Callee)
	for _, arg := range expr.Arguments {
		r.resolveExpr(arg)
	}
	return nil, nil
}

// VisitExprGrouping implements parser.ExprVisitor.
func (r *resolver) VisitExprGrouping(expr *parser.ExprGrouping) (any, error) {
	r.resolveExpr(expr.Expression)
	return nil, nil
}

// VisitExprLiteral implements parser.ExprVisitor.
func (r *resolver) VisitExprLiteral(expr *parser.ExprLiteral) (any, error) {
	return nil, nil
}

// VisitExprLogical implements parser.ExprVisitor.
func (r *resolver) VisitExprLogical(expr *parser.ExprLogical) (any, error) {
	r.resolveExpr(expr.Left)
	r.resolveExpr(expr.Right)
	return nil, nil
}

// VisitExprTernary implements parser.ExprVisitor.
func (r *resolver) VisitExprTernary(expr *parser.ExprTernary) (any, error) {
	r.resolveExpr(expr.Condition)
	r.resolveExpr(expr.Then)
	r.resolveExpr(expr.Else)
	return nil, nil
}

// VisitExprUnary implements parser.ExprVisitor.
func (r *resolver) VisitExprUnary(expr *parser.ExprUnary) (any, error) {
	r.resolveExpr(expr.Right)
	return nil, nil
}

// VisitExprVariable implements parser.ExprVisitor.
func (r *resolver) VisitExprVariable(expr *parser.ExprVariable) (any, error) {
	if declared, ok := r.peekScopeVar(expr.Name.Lexeme); ok && !declared {
		r.reportError(expr.Name, loxerrors.ErrParseCantReadVariableInOwnInitializer)
	}
	r.resolveLocal(expr, expr.Name)
	return nil, nil
}

func (r *resolver) beginScope() {
	r.scopes.PushBack(map[string]bool{})
}

func (r *resolver) endScope() {
	r.scopes.Remove(r.scopes.Back())
}

func (r *resolver) resolveStmts(stmts []parser.Stmt) {
	for _, stmt := range stmts {
		r.resolveStmt(stmt)
	}
}

func (r *resolver) resolveStmt(stmt parser.Stmt) {
	_, _ = stmt.Accept(r)
}

func (r *resolver) resolveExpr(expr parser.Expr) {
	_, _ = expr.Accept(r)
}

func (r *resolver) resolveFunction(stmt *parser.StmtFunction) {
	enclosingFunction := r.currentFunction
	enclosingLoop := r.insideLoop
	r.currentFunction = FnTypeFunction
	r.insideLoop = false

	r.beginScope()
	defer r.endScope()
	defer func() {
		r.currentFunction = enclosingFunction
		r.insideLoop = enclosingLoop
	}()

	for _, param := range stmt.Parameters {
		r.declare(param)
		r.define(param)
	}

	r.resolveStmts(stmt.Body)
}

func (r *resolver) resolveLocal(expr parser.Expr, name *token.Token) {
	depth := 0
	for el := r.scopes.Back(); el != nil; el = el.Prev() {
		scope := r.scopeFromListElem(el)
		if _, ok := scope[name.Lexeme]; ok {
			r.interpreter.resolve(expr, depth)
			return
		}
		depth++
	}
	// Not found in any scope: treated as global, looked up by name at runtime.
}

func (r *resolver) declare(tok *token.Token) {
	scope, ok := r.peekScope()
	if !ok {
		return
	}
	if _, ok := scope[tok.Lexeme]; ok {
		r.reportError(tok, loxerrors.ErrParseLocalVariableAlreadyExistsInScope)
	}
	scope[tok.Lexeme] = false
}

func (r *resolver) define(tok *token.Token) {
	if scope, ok := r.peekScope(); ok {
		scope[tok.Lexeme] = true
	}
}

func (r *resolver) peekScope() (map[string]bool, bool) {
	if r.scopes.Len() == 0 {
		return nil, false
	}
	return r.scopeFromListElem(r.scopes.Back()), true
}

func (r *resolver) peekScopeVar(name string) (bool, bool) {
	if scope, ok := r.peekScope(); ok {
		declared, ok := scope[name]
		return declared, ok
	}
	return false, false
}

func (r *resolver) scopeFromListElem(el *list.Element) map[string]bool {
	return el.Value.(map[string]bool)
}

func (r *resolver) reportError(tok *token.Token, err error) {
	r.errs = append(r.errs, loxerrors.NewParseError(tok, err))
}

var (
	_ parser.ExprVisitor = (*resolver)(nil)
	_ parser.StmtVisitor = (*resolver)(nil)
	_ Resolver           = (*resolver)(nil)
)
