// Package validator performs name resolution and namespace-collision
// checking over a parsed program. It is fail-fast: the first violation in
// pass order aborts the whole compilation.
package validator

import (
	"github.com/funlang/gfc/pkg/ast"
	"github.com/funlang/gfc/pkg/config"
	"github.com/funlang/gfc/pkg/ir"
)

// Role classifies a name inside a function scope.
type Role int

const (
	RoleParam Role = iota
	RoleLocal
)

// maxParams is the number of SSE argument registers.
const maxParams = 16

// Scope is the per-function symbol table, built incrementally while the
// body is walked so a local only resolves in later statements.
type Scope struct {
	Names map[string]Role
}

func newScope() *Scope { return &Scope{Names: make(map[string]Role)} }

// Symbols is the read-only result of a successful validation.
type Symbols struct {
	Consts map[string]string // constant name -> literal text
	Funcs  map[string]int    // function name -> arity
	Scopes map[string]*Scope // function name -> parameter/local roles
}

type Validator struct {
	syms *Symbols
	cfg  *config.Config
}

func New(cfg *config.Config) *Validator {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return &Validator{
		syms: &Symbols{
			Consts: make(map[string]string),
			Funcs:  make(map[string]int),
			Scopes: make(map[string]*Scope),
		},
		cfg: cfg,
	}
}

// Check runs all validation passes over the program in the fixed order:
// global constants, global functions, parameters, the main arity rule, then
// every function body. The first violation wins; a main with parameters is
// rejected regardless of what its body contains.
func (v *Validator) Check(root *ast.Node) (*Symbols, error) {
	prog := root.Data.(ast.ProgramNode)

	if err := v.checkConstants(prog.Consts); err != nil {
		return nil, err
	}
	if err := v.checkFunctions(prog.Funcs); err != nil {
		return nil, err
	}
	if err := v.checkParameters(prog.Funcs); err != nil {
		return nil, err
	}
	if arity, ok := v.syms.Funcs["main"]; ok && arity > 0 {
		return nil, newError(MainHasArguments, "main function cant have any arguments")
	}
	for _, fn := range prog.Funcs {
		if err := v.checkBody(fn); err != nil {
			return nil, err
		}
	}
	return v.syms, nil
}

func (v *Validator) checkConstants(consts []*ast.Node) error {
	for _, node := range consts {
		decl := node.Data.(ast.ConstDeclNode)
		if _, exists := v.syms.Consts[decl.Name]; exists {
			return newError(DuplicateConstant, "constant '%s' is defined twice", decl.Name)
		}
		if ir.IsPoolName(decl.Name) {
			return newError(ReservedConstantName, "cant define constant '%s' (do not define it manually)", decl.Name)
		}
		v.syms.Consts[decl.Name] = decl.Value
	}
	return nil
}

func (v *Validator) checkFunctions(funcs []*ast.Node) error {
	for _, node := range funcs {
		decl := node.Data.(ast.FuncDeclNode)
		if _, exists := v.syms.Funcs[decl.Name]; exists {
			return newError(DuplicateFunction, "function '%s' is defined twice", decl.Name)
		}
		if _, exists := v.syms.Consts[decl.Name]; exists {
			return newError(FunctionCollidesWithConstant, "cant define function '%s': there is constant with that name", decl.Name)
		}
		v.syms.Funcs[decl.Name] = len(decl.Params)
	}
	return nil
}

func (v *Validator) checkParameters(funcs []*ast.Node) error {
	for _, node := range funcs {
		decl := node.Data.(ast.FuncDeclNode)
		// Each parameter gets its own SSE register; there are sixteen.
		if len(decl.Params) > maxParams {
			return newError(TooManyParameters, "function '%s' has too many parameters: %d (max %d)", decl.Name, len(decl.Params), maxParams)
		}
		scope := newScope()
		v.syms.Scopes[decl.Name] = scope
		for _, param := range decl.Params {
			if _, dup := scope.Names[param]; dup {
				return newError(DuplicateArgument, "redefinition of argument '%s' in function '%s'", param, decl.Name)
			}
			if _, exists := v.syms.Consts[param]; exists {
				return newError(ArgCollidesWithConstant, "cant create argument for '%s' with name '%s': there is constant with that name", decl.Name, param)
			}
			if _, exists := v.syms.Funcs[param]; exists {
				return newError(ArgCollidesWithFunction, "cant create argument for '%s' with name '%s': there is function with that name", decl.Name, param)
			}
			scope.Names[param] = RoleParam
		}
	}
	return nil
}

func (v *Validator) checkBody(fn *ast.Node) error {
	decl := fn.Data.(ast.FuncDeclNode)
	scope := v.syms.Scopes[decl.Name]

	for _, stmt := range decl.Body {
		switch stmt.Type {
		case ast.Assign:
			assign := stmt.Data.(ast.AssignNode)
			if _, exists := v.syms.Consts[assign.Name]; exists {
				return newError(LocalCollidesWithConstant, "cant create local variable with name '%s': there is constant with that name", assign.Name)
			}
			if _, exists := v.syms.Funcs[assign.Name]; exists {
				return newError(LocalCollidesWithFunction, "cant create local variable with name '%s': there is function with that name", assign.Name)
			}
			// The RHS resolves against locals registered so far; the
			// assigned name only becomes visible to later statements.
			if err := v.checkExpr(assign.Value, decl.Name, scope); err != nil {
				return err
			}
			if _, exists := scope.Names[assign.Name]; !exists {
				scope.Names[assign.Name] = RoleLocal
			}
		case ast.Return:
			ret := stmt.Data.(ast.ReturnNode)
			if err := v.checkExpr(ret.Expr, decl.Name, scope); err != nil {
				return err
			}
		}
	}
	return nil
}

// checkExpr resolves identifier references (locals and parameters first,
// then global constants) and checks call targets and arities.
func (v *Validator) checkExpr(expr *ast.Node, fnName string, scope *Scope) error {
	switch expr.Type {
	case ast.Number:
		return nil
	case ast.Ident:
		name := expr.Data.(ast.IdentNode).Name
		if _, ok := scope.Names[name]; ok {
			return nil
		}
		if _, ok := v.syms.Consts[name]; ok {
			return nil
		}
		return newError(UnknownVariable, "unknown variable '%s' in function '%s'", name, fnName)
	case ast.BinaryOp:
		op := expr.Data.(ast.BinaryOpNode)
		if err := v.checkExpr(op.Left, fnName, scope); err != nil {
			return err
		}
		return v.checkExpr(op.Right, fnName, scope)
	case ast.Group:
		return v.checkExpr(expr.Data.(ast.GroupNode).Expr, fnName, scope)
	case ast.FuncCall:
		call := expr.Data.(ast.FuncCallNode)
		arity, ok := v.syms.Funcs[call.Name]
		if !ok {
			return newError(UnknownFunctionCall, "unknown function call '%s' in '%s'", call.Name, fnName)
		}
		if len(call.Args) != arity {
			return newError(ArityMismatch,
				"invalid arguments count for function call '%s': expected %d, but got %d (in function '%s')",
				call.Name, arity, len(call.Args), fnName)
		}
		for _, arg := range call.Args {
			if err := v.checkExpr(arg, fnName, scope); err != nil {
				return err
			}
		}
		return nil
	}
	return nil
}
