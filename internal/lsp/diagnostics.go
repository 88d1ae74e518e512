package lsp

import (
	protocol "github.com/tliron/glsp/protocol_3_16"

	"tinyc/internal/reporter"
)

// ConvertDiagnostics turns the reporter's structured diagnostics, gathered
// during a single compilation attempt, into LSP protocol diagnostics.
func ConvertDiagnostics(diags []reporter.Diagnostic) []protocol.Diagnostic {
	out := make([]protocol.Diagnostic, 0, len(diags))
	for _, d := range diags {
		length := d.Length
		if length <= 0 {
			length = 1
		}
		out = append(out, protocol.Diagnostic{
			Range: protocol.Range{
				Start: protocol.Position{Line: uint32(d.Line - 1), Character: uint32(d.Col)},
				End:   protocol.Position{Line: uint32(d.Line - 1), Character: uint32(d.Col + length)},
			},
			Severity: ptrSeverity(protocol.DiagnosticSeverityError),
			Source:   ptrString("tinyc"),
			Message:  d.Message,
		})
	}
	return out
}

func ptrSeverity(s protocol.DiagnosticSeverity) *protocol.DiagnosticSeverity { return &s }
func ptrString(s string) *string                                           { return &s }
