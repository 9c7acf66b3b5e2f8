// Package ast defines the types used to represent the Abstract Syntax Tree (AST)
package ast

import (
	"github.com/funlang/gfc/pkg/token"
)

// NodeType defines the kind of a node in the AST
type NodeType int

// Node types enum
const (
	// Expressions
	Number NodeType = iota
	Ident
	BinaryOp
	FuncCall
	Group

	// Statements
	Assign
	Return

	// Declarations
	ConstDecl
	FuncDecl
	Program
)

// Node represents a node in the Abstract Syntax Tree
type Node struct {
	Type   NodeType
	Tok    token.Token
	Parent *Node
	Data   interface{}
}

// --- Node Data Structs ---

// NumberNode keeps the literal's raw decimal text so the data section can
// reproduce it byte for byte.
type NumberNode struct{ Text string }
type IdentNode struct{ Name string }
type BinaryOpNode struct {
	Op          token.Type
	Left, Right *Node
}
type FuncCallNode struct {
	Name string
	Args []*Node
}
type GroupNode struct{ Expr *Node }
type AssignNode struct {
	Name  string
	Value *Node
}
type ReturnNode struct{ Expr *Node }
type ConstDeclNode struct {
	Name  string
	Value string // raw literal text
}
type FuncDeclNode struct {
	Name   string
	Params []string
	Body   []*Node // Assign and Return statements in source order
}
type ProgramNode struct {
	Consts []*Node
	Funcs  []*Node
}

// --- Node Constructors ---

func newNode(tok token.Token, nodeType NodeType, data interface{}, children ...*Node) *Node {
	node := &Node{Type: nodeType, Tok: tok, Data: data}
	for _, child := range children {
		if child != nil {
			child.Parent = node
		}
	}
	return node
}

func NewNumber(tok token.Token, text string) *Node {
	return newNode(tok, Number, NumberNode{Text: text})
}

func NewIdent(tok token.Token, name string) *Node {
	return newNode(tok, Ident, IdentNode{Name: name})
}

func NewBinaryOp(tok token.Token, op token.Type, left, right *Node) *Node {
	return newNode(tok, BinaryOp, BinaryOpNode{Op: op, Left: left, Right: right}, left, right)
}

func NewFuncCall(tok token.Token, name string, args []*Node) *Node {
	node := newNode(tok, FuncCall, FuncCallNode{Name: name, Args: args})
	for _, arg := range args {
		arg.Parent = node
	}
	return node
}

func NewGroup(tok token.Token, expr *Node) *Node {
	return newNode(tok, Group, GroupNode{Expr: expr}, expr)
}

func NewAssign(tok token.Token, name string, value *Node) *Node {
	return newNode(tok, Assign, AssignNode{Name: name, Value: value}, value)
}

func NewReturn(tok token.Token, expr *Node) *Node {
	return newNode(tok, Return, ReturnNode{Expr: expr}, expr)
}

func NewConstDecl(tok token.Token, name, value string) *Node {
	return newNode(tok, ConstDecl, ConstDeclNode{Name: name, Value: value})
}

func NewFuncDecl(tok token.Token, name string, params []string, body []*Node) *Node {
	node := newNode(tok, FuncDecl, FuncDeclNode{Name: name, Params: params, Body: body})
	for _, stmt := range body {
		stmt.Parent = node
	}
	return node
}

func NewProgram(tok token.Token, consts, funcs []*Node) *Node {
	node := newNode(tok, Program, ProgramNode{Consts: consts, Funcs: funcs})
	for _, c := range consts {
		c.Parent = node
	}
	for _, f := range funcs {
		f.Parent = node
	}
	return node
}

// Unwrap strips Group nodes; parentheses only matter while parsing.
func Unwrap(node *Node) *Node {
	for node != nil && node.Type == Group {
		node = node.Data.(GroupNode).Expr
	}
	return node
}
