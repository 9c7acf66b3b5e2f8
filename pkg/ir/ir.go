// Package ir holds the machine-level representation the code generator
// builds and a backend serializes: per-function instruction lists plus the
// named .double data entries of the constant pool and the user constants.
package ir

import (
	"fmt"
	"strings"
)

// PoolPrefix starts every auto-generated constant-pool entry name. The
// validator rejects user constants in this namespace, which is why the
// scheme lives here rather than in codegen.
const PoolPrefix = "_c_const_"

// PoolEntryName derives the data-section name for the idx-th literal
// occurrence inside fn.
func PoolEntryName(fn string, idx int) string {
	return fmt.Sprintf("%s%s_%d", PoolPrefix, fn, idx)
}

// IsPoolName reports whether name belongs to the reserved pool namespace.
func IsPoolName(name string) bool {
	return strings.HasPrefix(name, PoolPrefix)
}

type Op int

const (
	OpPush Op = iota
	OpMov
	OpMovsd
	OpMovaps
	OpAdd
	OpSub
	OpAddsd
	OpSubsd
	OpMulsd
	OpDivsd
	OpCall
	OpLeave
	OpRet
)

type Instruction struct {
	Op   Op
	Args []string // pre-formatted AT&T operands, destination last
}

func NewInstruction(op Op, args ...string) *Instruction {
	return &Instruction{Op: op, Args: args}
}

type Func struct {
	Name         string
	Instructions []*Instruction
}

func (f *Func) Add(op Op, args ...string) {
	f.Instructions = append(f.Instructions, NewInstruction(op, args...))
}

// Data is one .double entry: a user constant or a pool entry. Value keeps
// the source literal's exact decimal text.
type Data struct {
	Name  string
	Value string
}

type Program struct {
	Funcs []*Func
	Data  []*Data
}

func (p *Program) AddData(name, value string) {
	p.Data = append(p.Data, &Data{Name: name, Value: value})
}

func (p *Program) FindFunc(name string) *Func {
	for _, f := range p.Funcs {
		if f.Name == name {
			return f
		}
	}
	return nil
}
