// Package driver wires the frontend and backend passes into a single
// compilation pipeline and renders the intermediate forms the CLI prints
// under each pass's section header.
package driver

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/pkg/errors"

	"tinyc/internal/ast"
	"tinyc/internal/backend"
	"tinyc/internal/ir"
	"tinyc/internal/lexer"
	"tinyc/internal/parser"
	"tinyc/internal/pragma"
	"tinyc/internal/reporter"
	"tinyc/internal/types"
	"tinyc/internal/x86"
)

// Options controls how much of the pipeline's intermediate state Run
// echoes to its trace writer.
type Options struct {
	Trace io.Writer // section-headered dumps of each pass's output; nil to suppress
}

// Run compiles source (named path, for diagnostics) end to end and returns
// the final AT&T assembly text.
func Run(path, source string, opts Options) (string, error) {
	rep := reporter.New(path, source)

	directives := pragma.Scan(source)
	if pragma.TraceRequested(directives) && opts.Trace == nil {
		opts.Trace = os.Stderr
	}

	toks := lexer.New(source, rep).Scan()
	stmts := parser.New(toks, rep).Parse()
	if rep.Failed {
		return "", errors.New("parsing failed")
	}

	checker := types.New(rep)
	checker.Check(stmts)
	if rep.Failed {
		return "", errors.New("type checking failed")
	}

	shrunk := backend.Shrink(stmts)
	trace(opts, "Shrink", dumpStmts(shrunk))

	rco := backend.NewRCO().Stmts(shrunk)
	trace(opts, "RCO", dumpStmts(rco))

	program := backend.NewExplicateControl(rep).Program(rco)
	if rep.Failed {
		return "", errors.Wrap(errors.New("internal invariant violation"), "explicate-control")
	}
	trace(opts, "Explicate Control", dumpProgram(program))

	blocks := backend.NewSelectInstructions(rep).SelectProgram(program)
	if rep.Failed {
		return "", errors.Wrap(errors.New("internal invariant violation"), "select-instructions")
	}
	trace(opts, "Select Instructions", dumpInstrMap(blocks))

	// Liveness and interference run over the program flattened into one
	// linear sequence (block order: entry first, then labels sorted), per
	// the spec's "backward dataflow over the linear instruction sequence".
	flat := flattenBlocks(blocks, program.Start)
	live := backend.UncoverLive(flat)
	trace(opts, "Liveness", dumpLiveness(flat, live))

	graph, moves := backend.BuildInterference(live)

	var allocOpts []backend.AllocatorOption
	if n, ok := pragma.MaxRegisters(directives); ok {
		allocOpts = append(allocOpts, backend.WithRegisters(backend.FirstNRegisters(n)))
	}
	allocator := backend.NewAllocator(graph, moves, allocOpts...)
	mapping, frame := allocator.ColorGraph()
	trace(opts, "Allocate", fmt.Sprintf("%d spill slot(s)\n", frame.SpillSlots()))

	assigned := make(map[string][]x86.Instr, len(blocks))
	for label, instrs := range blocks {
		assigned[label] = backend.AssignHomes(instrs, mapping)
	}
	trace(opts, "Assign Homes", dumpInstrMap(assigned))

	patched := make(map[string][]x86.Instr, len(assigned))
	for label, instrs := range assigned {
		patched[label] = backend.PatchInstructions(instrs)
	}
	trace(opts, "Patch Instructions", dumpInstrMap(patched))

	asm := backend.NewCodeGen(frame).Generate(patched, program.Start)
	trace(opts, "Assembly", asm)

	return asm, nil
}

// Check runs only the frontend (scan, parse, type-check) and returns every
// diagnostic gathered, without lowering to assembly. It never returns an
// error itself — a source file with diagnostics is not a driver failure,
// it's exactly what the LSP server needs to report back to the editor.
func Check(path, source string) []reporter.Diagnostic {
	rep := reporter.New(path, source)
	toks := lexer.New(source, rep).Scan()
	stmts := parser.New(toks, rep).Parse()
	if !rep.Failed {
		types.New(rep).Check(stmts)
	}
	return rep.Diagnostics
}

// flattenBlocks orders every block (entry first, then labels sorted) and
// concatenates their instructions into one sequence.
func flattenBlocks(blocks map[string][]x86.Instr, start string) []x86.Instr {
	var labels []string
	for label := range blocks {
		if label != start {
			labels = append(labels, label)
		}
	}
	sort.Strings(labels)
	order := append([]string{start}, labels...)

	var flat []x86.Instr
	for _, label := range order {
		flat = append(flat, blocks[label]...)
	}
	return flat
}

func trace(opts Options, title, body string) {
	if opts.Trace == nil {
		return
	}
	fmt.Fprintf(opts.Trace, "============%s============\n", title)
	fmt.Fprintln(opts.Trace, body)
}

func dumpStmts(stmts []*ast.Stmt) string {
	var out string
	for _, s := range stmts {
		out += stmtString(s) + "\n"
	}
	return out
}

func stmtString(s *ast.Stmt) string {
	switch d := s.Data.(type) {
	case ast.ExprStmt:
		return d.Expr.String()
	case ast.Assign:
		return fmt.Sprintf("%s = %s", d.Name.Lexeme, d.Value)
	case ast.If:
		return fmt.Sprintf("if %s { %d stmt(s) } else { %d stmt(s) }", d.Cond, len(d.Then), len(d.Else))
	default:
		return "<stmt>"
	}
}

func dumpProgram(p *ir.Program) string {
	out := fmt.Sprintf("start: %s\n", p.Start)
	for label, stmts := range p.Blocks {
		out += fmt.Sprintf("%s: %d statement(s)\n", label, len(stmts))
	}
	return out
}

func dumpInstrMap(blocks map[string][]x86.Instr) string {
	var out string
	for label, instrs := range blocks {
		out += label + ":\n"
		for _, i := range instrs {
			out += "\t" + i.String() + "\n"
		}
	}
	return out
}

func dumpLiveness(flat []x86.Instr, live []backend.InstrLive) string {
	var out string
	for i, il := range live {
		out += fmt.Sprintf("\t%s  live-after=%d\n", flat[i], len(il.LiveAfter))
	}
	return out
}
