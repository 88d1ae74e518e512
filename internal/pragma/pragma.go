// Package pragma parses the "// tinyc: ..." directive comments a source
// file may use to steer the compiler without a command-line flag: turning
// on the pass-by-pass trace for just one file, or pinning the allocator's
// register budget down to force a reproducible spill.
package pragma

import (
	"regexp"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Directive is one parsed "// tinyc: ..." line.
type Directive struct {
	Trace        *traceDirective        `@@`
	MaxRegisters *maxRegistersDirective `| @@`
}

type traceDirective struct {
	Keyword string `"trace"`
}

type maxRegistersDirective struct {
	Keyword string `"max" "-" "registers"`
	N       int    `@Int`
}

var pragmaLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Ident", Pattern: `[a-zA-Z]+`},
	{Name: "Punct", Pattern: `-`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var parser = participle.MustBuild[Directive](
	participle.Lexer(pragmaLexer),
	participle.Elide("Whitespace"),
	participle.UseLookahead(2),
)

var lineRe = regexp.MustCompile(`//\s*tinyc:\s*(.*)$`)

// Scan extracts every pragma directive from source, one per matching
// comment line. Malformed directive bodies are skipped rather than
// surfaced as compilation errors — a pragma is an opt-in nicety, not part
// of the language surface spec.md defines.
func Scan(source string) []Directive {
	var out []Directive
	for _, line := range strings.Split(source, "\n") {
		m := lineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		d, err := parser.ParseString("", m[1])
		if err != nil {
			continue
		}
		out = append(out, *d)
	}
	return out
}

// TraceRequested reports whether any directive turns tracing on.
func TraceRequested(directives []Directive) bool {
	for _, d := range directives {
		if d.Trace != nil {
			return true
		}
	}
	return false
}

// MaxRegisters returns the smallest "max-registers N" directive found, and
// whether any was present at all.
func MaxRegisters(directives []Directive) (int, bool) {
	found := false
	best := 0
	for _, d := range directives {
		if d.MaxRegisters == nil {
			continue
		}
		n := d.MaxRegisters.N
		if !found || n < best {
			best = n
			found = true
		}
	}
	return best, found
}

