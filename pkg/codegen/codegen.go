// Package codegen lowers a validated program to an ir.Program: one
// instruction list per function plus the data entries for user constants
// and the per-function literal pools. Lowering cannot fail; every input it
// accepts has already passed the validator.
package codegen

import (
	"fmt"

	"github.com/funlang/gfc/pkg/ast"
	"github.com/funlang/gfc/pkg/config"
	"github.com/funlang/gfc/pkg/ir"
	"github.com/funlang/gfc/pkg/token"
	"github.com/funlang/gfc/pkg/util"
	"github.com/funlang/gfc/pkg/validator"
)

const slotSize = 8

type Context struct {
	prog *ir.Program
	syms *validator.Symbols
	cfg  *config.Config

	// per-function state
	fn        *ir.Func
	fnName    string
	offsets   map[string]int64 // frame-slot distance below %rbp
	poolIndex int
}

func NewContext(cfg *config.Config, syms *validator.Symbols) *Context {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return &Context{prog: &ir.Program{}, syms: syms, cfg: cfg}
}

// GenerateIR lowers the whole program. Functions are emitted in declaration
// order; the data entries are collected here and sorted by the backend.
func (ctx *Context) GenerateIR(root *ast.Node) *ir.Program {
	prog := root.Data.(ast.ProgramNode)
	for _, fn := range prog.Funcs {
		ctx.genFunc(fn)
	}
	for _, c := range prog.Consts {
		name := c.Data.(ast.ConstDeclNode).Name
		ctx.prog.AddData(name, ctx.syms.Consts[name])
	}
	return ctx.prog
}

func (ctx *Context) genFunc(node *ast.Node) {
	decl := node.Data.(ast.FuncDeclNode)
	ctx.fn = &ir.Func{Name: decl.Name}
	ctx.fnName = decl.Name
	ctx.offsets = make(map[string]int64)
	ctx.poolIndex = 0
	ctx.prog.Funcs = append(ctx.prog.Funcs, ctx.fn)

	referenced := referencedNames(decl.Body)

	// Parameters always occupy the leading frame slots. A local gets a slot
	// only when some expression reads it back; assignments to never-read
	// locals are elided entirely (their literals still enter the pool).
	var slots int64
	for _, param := range decl.Params {
		slots++
		ctx.offsets[param] = slots * slotSize
	}
	for _, stmt := range decl.Body {
		if stmt.Type != ast.Assign {
			continue
		}
		name := stmt.Data.(ast.AssignNode).Name
		if _, have := ctx.offsets[name]; have || !referenced[name] {
			continue
		}
		slots++
		ctx.offsets[name] = slots * slotSize
	}

	ctx.fn.Add(ir.OpPush, "%rbp")
	ctx.fn.Add(ir.OpMov, "%rsp", "%rbp")
	if slots > 0 {
		frame := util.AlignUp(slots*slotSize, int64(ctx.cfg.StackAlignment))
		ctx.fn.Add(ir.OpSub, immediate(frame), "%rsp")
		for i, param := range decl.Params {
			ctx.fn.Add(ir.OpMovsd, xmmReg(i), frameRef(ctx.offsets[param]))
		}
	}

	sawReturn := false
	for _, stmt := range decl.Body {
		switch stmt.Type {
		case ast.Assign:
			assign := stmt.Data.(ast.AssignNode)
			if !referenced[assign.Name] {
				util.Warn(ctx.cfg, config.WarnUnusedLocal, stmt.Tok,
					"local variable '%s' in function '%s' is assigned but never used", assign.Name, decl.Name)
				ctx.poolExpr(assign.Value)
				continue
			}
			ctx.genExpr(assign.Value)
			ctx.fn.Add(ir.OpMovsd, "%xmm0", frameRef(ctx.offsets[assign.Name]))
		case ast.Return:
			sawReturn = true
			ctx.genExpr(stmt.Data.(ast.ReturnNode).Expr)
		}
	}
	if !sawReturn {
		util.Warn(ctx.cfg, config.WarnNoReturn, node.Tok,
			"function '%s' does not return a value", decl.Name)
	}

	ctx.fn.Add(ir.OpLeave)
	ctx.fn.Add(ir.OpRet)
}

// genExpr evaluates expr into the %xmm0 accumulator. Binary operations
// spill the left operand to a scratch stack slot around the evaluation of
// the right one; the frame itself is never used for scratch space.
func (ctx *Context) genExpr(expr *ast.Node) {
	switch expr.Type {
	case ast.Number:
		name := ctx.addPoolEntry(expr.Data.(ast.NumberNode).Text)
		ctx.fn.Add(ir.OpMovsd, ripRef(name), "%xmm0")
	case ast.Ident:
		name := expr.Data.(ast.IdentNode).Name
		if off, ok := ctx.offsets[name]; ok {
			ctx.fn.Add(ir.OpMovsd, frameRef(off), "%xmm0")
		} else {
			ctx.fn.Add(ir.OpMovsd, ripRef(name), "%xmm0")
		}
	case ast.Group:
		ctx.genExpr(expr.Data.(ast.GroupNode).Expr)
	case ast.BinaryOp:
		op := expr.Data.(ast.BinaryOpNode)
		ctx.genExpr(op.Left)
		ctx.spill()
		ctx.genExpr(op.Right)
		ctx.fn.Add(ir.OpMovaps, "%xmm0", "%xmm1")
		ctx.reload()
		ctx.fn.Add(arithOp(op.Op), "%xmm1", "%xmm0")
	case ast.FuncCall:
		call := expr.Data.(ast.FuncCallNode)
		for _, arg := range call.Args {
			ctx.genExpr(arg)
			ctx.spill()
		}
		// The last-spilled argument sits on top of the stack, so popping
		// in reverse lands argument i in %xmm<i>.
		for i := len(call.Args) - 1; i >= 0; i-- {
			ctx.fn.Add(ir.OpMovsd, "(%rsp)", xmmReg(i))
			ctx.fn.Add(ir.OpAdd, immediate(int64(ctx.cfg.StackAlignment)), "%rsp")
		}
		ctx.fn.Add(ir.OpCall, call.Name)
	}
}

func (ctx *Context) spill() {
	ctx.fn.Add(ir.OpSub, immediate(int64(ctx.cfg.StackAlignment)), "%rsp")
	ctx.fn.Add(ir.OpMovsd, "%xmm0", "(%rsp)")
}

func (ctx *Context) reload() {
	ctx.fn.Add(ir.OpMovsd, "(%rsp)", "%xmm0")
	ctx.fn.Add(ir.OpAdd, immediate(int64(ctx.cfg.StackAlignment)), "%rsp")
}

// poolExpr registers the literals of an elided statement without emitting
// instructions, keeping pool indices identical whether or not the
// assignment survives.
func (ctx *Context) poolExpr(expr *ast.Node) {
	switch expr.Type {
	case ast.Number:
		ctx.addPoolEntry(expr.Data.(ast.NumberNode).Text)
	case ast.Group:
		ctx.poolExpr(expr.Data.(ast.GroupNode).Expr)
	case ast.BinaryOp:
		op := expr.Data.(ast.BinaryOpNode)
		ctx.poolExpr(op.Left)
		ctx.poolExpr(op.Right)
	case ast.FuncCall:
		for _, arg := range expr.Data.(ast.FuncCallNode).Args {
			ctx.poolExpr(arg)
		}
	}
}

func (ctx *Context) addPoolEntry(text string) string {
	name := ir.PoolEntryName(ctx.fnName, ctx.poolIndex)
	ctx.poolIndex++
	ctx.prog.AddData(name, text)
	return name
}

// referencedNames collects every identifier read inside the body's
// expressions. Constants resolve through the same syntax, but a name that
// reaches an assignment was already checked against the global namespaces,
// so local slots and constant loads cannot be confused.
func referencedNames(body []*ast.Node) map[string]bool {
	referenced := make(map[string]bool)
	var walk func(expr *ast.Node)
	walk = func(expr *ast.Node) {
		switch expr.Type {
		case ast.Ident:
			referenced[expr.Data.(ast.IdentNode).Name] = true
		case ast.Group:
			walk(expr.Data.(ast.GroupNode).Expr)
		case ast.BinaryOp:
			op := expr.Data.(ast.BinaryOpNode)
			walk(op.Left)
			walk(op.Right)
		case ast.FuncCall:
			for _, arg := range expr.Data.(ast.FuncCallNode).Args {
				walk(arg)
			}
		}
	}
	for _, stmt := range body {
		switch stmt.Type {
		case ast.Assign:
			walk(stmt.Data.(ast.AssignNode).Value)
		case ast.Return:
			walk(stmt.Data.(ast.ReturnNode).Expr)
		}
	}
	return referenced
}

func arithOp(op token.Type) ir.Op {
	switch op {
	case token.Plus:
		return ir.OpAddsd
	case token.Minus:
		return ir.OpSubsd
	case token.Star:
		return ir.OpMulsd
	default:
		return ir.OpDivsd
	}
}

func immediate(n int64) string { return fmt.Sprintf("$0x%x", n) }

func frameRef(off int64) string { return fmt.Sprintf("-0x%x(%%rbp)", off) }

func ripRef(name string) string { return name + "(%rip)" }

func xmmReg(i int) string { return fmt.Sprintf("%%xmm%d", i) }
