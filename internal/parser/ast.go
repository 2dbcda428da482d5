package parser

import (
	"sync/atomic"

	"github.com/FreePlacki/Klox/internal/token"
)

// nextNodeID hands out the stable numeric identity every Expr carries. The
// Resolver's scope-depth side table is keyed by this id rather than by Go
// pointer identity, so it stays valid even if a node were ever copied.
var nextNodeID atomic.Int64

func newNodeID() int64 {
	return nextNodeID.Add(1)
}

// Expr is the sum type of every expression node.
type Expr interface {
	Accept(v ExprVisitor) (any, error)
	ID() int64
}

// Stmt is the sum type of every statement node.
type Stmt interface {
	Accept(v StmtVisitor) (any, error)
}

type ExprVisitor interface {
	VisitExprAssign(expr *ExprAssign) (any, error)
	VisitExprBinary(expr *ExprBinary) (any, error)
	VisitExprCall(expr *ExprCall) (any, error)
	VisitExprGrouping(expr *ExprGrouping) (any, error)
	VisitExprLiteral(expr *ExprLiteral) (any, error)
	VisitExprLogical(expr *ExprLogical) (any, error)
	VisitExprTernary(expr *ExprTernary) (any, error)
	VisitExprUnary(expr *ExprUnary) (any, error)
	VisitExprVariable(expr *ExprVariable) (any, error)
}

type StmtVisitor interface {
	VisitStmtBlock(stmt *StmtBlock) (any, error)
	VisitStmtBreak(stmt *StmtBreak) (any, error)
	VisitStmtContinue(stmt *StmtContinue) (any, error)
	VisitStmtExpression(stmt *StmtExpression) (any, error)
	VisitStmtFunction(stmt *StmtFunction) (any, error)
	VisitStmtIf(stmt *StmtIf) (any, error)
	VisitStmtPrint(stmt *StmtPrint) (any, error)
	VisitStmtReturn(stmt *StmtReturn) (any, error)
	VisitStmtVar(stmt *StmtVar) (any, error)
	VisitStmtWhile(stmt *StmtWhile) (any, error)
}

type exprBase struct {
	id int64
}

func (e exprBase) ID() int64 { return e.id }

// ========  Expressions  ========

type ExprAssign struct {
	exprBase
	Name  *token.Token
	Value Expr
}

func NewExprAssign(name *token.Token, value Expr) *ExprAssign {
	return &ExprAssign{exprBase: exprBase{id: newNodeID()}, Name: name, Value: value}
}

func (e *ExprAssign) Accept(v ExprVisitor) (any, error) { return v.VisitExprAssign(e) }

type ExprBinary struct {
	exprBase
	Left     Expr
	Operator *token.Token
	Right    Expr
}

func NewExprBinary(left Expr, operator *token.Token, right Expr) *ExprBinary {
	return &ExprBinary{exprBase: exprBase{id: newNodeID()}, Left: left, Operator: operator, Right: right}
}

func (e *ExprBinary) Accept(v ExprVisitor) (any, error) { return v.VisitExprBinary(e) }

type ExprCall struct {
	exprBase
	Callee    Expr
	Paren     *token.Token
	Arguments []Expr
}

func NewExprCall(callee Expr, paren *token.Token, arguments []Expr) *ExprCall {
	return &ExprCall{exprBase: exprBase{id: newNodeID()}, Callee: callee, Paren: paren, Arguments: arguments}
}

func (e *ExprCall) Accept(v ExprVisitor) (any, error) { return v.VisitExprCall(e) }

type ExprGrouping struct {
	exprBase
	Expression Expr
}

func NewExprGrouping(expression Expr) *ExprGrouping {
	return &ExprGrouping{exprBase: exprBase{id: newNodeID()}, Expression: expression}
}

func (e *ExprGrouping) Accept(v ExprVisitor) (any, error) { return v.VisitExprGrouping(e) }

type ExprLiteral struct {
	exprBase
	Value any
}

func NewExprLiteral(value any) *ExprLiteral {
	return &ExprLiteral{exprBase: exprBase{id: newNodeID()}, Value: value}
}

func (e *ExprLiteral) Accept(v ExprVisitor) (any, error) { return v.VisitExprLiteral(e) }

type ExprLogical struct {
	exprBase
	Left     Expr
	Operator *token.Token
	Right    Expr
}

func NewExprLogical(left Expr, operator *token.Token, right Expr) *ExprLogical {
	return &ExprLogical{exprBase: exprBase{id: newNodeID()}, Left: left, Operator: operator, Right: right}
}

func (e *ExprLogical) Accept(v ExprVisitor) (any, error) { return v.VisitExprLogical(e) }

type ExprTernary struct {
	exprBase
	Condition Expr
	Then      Expr
	Else      Expr
}

func NewExprTernary(condition, then, elseBranch Expr) *ExprTernary {
	return &ExprTernary{exprBase: exprBase{id: newNodeID()}, Condition: condition, Then: then, Else: elseBranch}
}

func (e *ExprTernary) Accept(v ExprVisitor) (any, error) { return v.VisitExprTernary(e) }

type ExprUnary struct {
	exprBase
	Operator *token.Token
	Right    Expr
}

func NewExprUnary(operator *token.Token, right Expr) *ExprUnary {
	return &ExprUnary{exprBase: exprBase{id: newNodeID()}, Operator: operator, Right: right}
}

func (e *ExprUnary) Accept(v ExprVisitor) (any, error) { return v.VisitExprUnary(e) }

type ExprVariable struct {
	exprBase
	Name *token.Token
}

func NewExprVariable(name *token.Token) *ExprVariable {
	return &ExprVariable{exprBase: exprBase{id: newNodeID()}, Name: name}
}

func (e *ExprVariable) Accept(v ExprVisitor) (any, error) { return v.VisitExprVariable(e) }

// ========  Statements  ========

type StmtBlock struct {
	Statements []Stmt
}

func NewStmtBlock(statements []Stmt) *StmtBlock { return &StmtBlock{Statements: statements} }

func (s *StmtBlock) Accept(v StmtVisitor) (any, error) { return v.VisitStmtBlock(s) }

type StmtBreak struct {
	Keyword *token.Token
}

func NewStmtBreak(keyword *token.Token) *StmtBreak { return &StmtBreak{Keyword: keyword} }

func (s *StmtBreak) Accept(v StmtVisitor) (any, error) { return v.VisitStmtBreak(s) }

type StmtContinue struct {
	Keyword *token.Token
}

func NewStmtContinue(keyword *token.Token) *StmtContinue { return &StmtContinue{Keyword: keyword} }

func (s *StmtContinue) Accept(v StmtVisitor) (any, error) { return v.VisitStmtContinue(s) }

type StmtExpression struct {
	Expression Expr
}

func NewStmtExpression(expression Expr) *StmtExpression {
	return &StmtExpression{Expression: expression}
}

func (s *StmtExpression) Accept(v StmtVisitor) (any, error) { return v.VisitStmtExpression(s) }

type StmtFunction struct {
	Name       *token.Token
	Parameters []*token.Token
	Body       []Stmt
}

func NewStmtFunction(name *token.Token, parameters []*token.Token, body []Stmt) *StmtFunction {
	return &StmtFunction{Name: name, Parameters: parameters, Body: body}
}

func (s *StmtFunction) Accept(v StmtVisitor) (any, error) { return v.VisitStmtFunction(s) }

type StmtIf struct {
	Condition  Expr
	ThenBranch Stmt
	ElseBranch Stmt
}

func NewStmtIf(condition Expr, thenBranch, elseBranch Stmt) *StmtIf {
	return &StmtIf{Condition: condition, ThenBranch: thenBranch, ElseBranch: elseBranch}
}

func (s *StmtIf) Accept(v StmtVisitor) (any, error) { return v.VisitStmtIf(s) }

type StmtPrint struct {
	Expression Expr
}

func NewStmtPrint(expression Expr) *StmtPrint { return &StmtPrint{Expression: expression} }

func (s *StmtPrint) Accept(v StmtVisitor) (any, error) { return v.VisitStmtPrint(s) }

type StmtReturn struct {
	Keyword *token.Token
	Value   Expr
}

func NewStmtReturn(keyword *token.Token, value Expr) *StmtReturn {
	return &StmtReturn{Keyword: keyword, Value: value}
}

func (s *StmtReturn) Accept(v StmtVisitor) (any, error) { return v.VisitStmtReturn(s) }

type StmtVar struct {
	Name        *token.Token
	Initializer Expr
}

func NewStmtVar(name *token.Token, initializer Expr) *StmtVar {
	return &StmtVar{Name: name, Initializer: initializer}
}

func (s *StmtVar) Accept(v StmtVisitor) (any, error) { return v.VisitStmtVar(s) }

type StmtWhile struct {
	Condition Expr
	Body      Stmt
}

func NewStmtWhile(condition Expr, body Stmt) *StmtWhile {
	return &StmtWhile{Condition: condition, Body: body}
}

func (s *StmtWhile) Accept(v StmtVisitor) (any, error) { return v.VisitStmtWhile(s) }
