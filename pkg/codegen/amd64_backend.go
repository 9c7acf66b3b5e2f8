package codegen

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/funlang/gfc/pkg/config"
	"github.com/funlang/gfc/pkg/ir"
)

var opMnemonics = map[ir.Op]string{
	ir.OpPush:   "push",
	ir.OpMov:    "mov",
	ir.OpMovsd:  "movsd",
	ir.OpMovaps: "movaps",
	ir.OpAdd:    "add",
	ir.OpSub:    "sub",
	ir.OpAddsd:  "addsd",
	ir.OpSubsd:  "subsd",
	ir.OpMulsd:  "mulsd",
	ir.OpDivsd:  "divsd",
	ir.OpCall:   "call",
	ir.OpLeave:  "leaveq",
	ir.OpRet:    "retq",
}

type amd64Backend struct {
	out *strings.Builder
}

func NewAmd64Backend() Backend { return &amd64Backend{} }

// Generate serializes the program as AT&T-syntax text: a fixed text-section
// header, one labeled block per function in declaration order, and the data
// entries sorted by name. Function blocks are separated by a single blank
// line; the data section is preceded by two.
func (b *amd64Backend) Generate(prog *ir.Program, cfg *config.Config) (*bytes.Buffer, error) {
	var out strings.Builder
	b.out = &out

	out.WriteString(".section .text\n.globl main\n")
	for _, fn := range prog.Funcs {
		out.WriteString("\n")
		b.genFunc(fn)
	}
	if len(prog.Data) > 0 {
		out.WriteString("\n\n")
		b.genData(prog.Data)
	}

	return bytes.NewBufferString(out.String()), nil
}

func (b *amd64Backend) genFunc(fn *ir.Func) {
	fmt.Fprintf(b.out, "%s:\n", fn.Name)
	for _, ins := range fn.Instructions {
		mnemonic := opMnemonics[ins.Op]
		if len(ins.Args) == 0 {
			fmt.Fprintf(b.out, "    %s\n", mnemonic)
			continue
		}
		fmt.Fprintf(b.out, "    %-8s%s\n", mnemonic, strings.Join(ins.Args, ","))
	}
}

func (b *amd64Backend) genData(data []*ir.Data) {
	sorted := make([]*ir.Data, len(data))
	copy(sorted, data)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
	for _, d := range sorted {
		fmt.Fprintf(b.out, "%s: .double %s\n", d.Name, d.Value)
	}
}
