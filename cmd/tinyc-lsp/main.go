// Command tinyc-lsp runs tinyc's frontend as a Language Server Protocol
// server over stdio, the standard transport editors use to launch a
// language server as a child process.
package main

import (
	"os"

	"github.com/tliron/commonlog"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"tinyc/internal/lsp"
)

const serverName = "tinyc"

func main() {
	commonlog.Configure(1, nil)

	handler := lsp.NewHandler()
	proto := protocol.Handler{
		Initialize:            handler.Initialize,
		Initialized:           handler.Initialized,
		Shutdown:              handler.Shutdown,
		TextDocumentDidOpen:   handler.TextDocumentDidOpen,
		TextDocumentDidChange: handler.TextDocumentDidChange,
		TextDocumentDidClose:  handler.TextDocumentDidClose,
	}

	s := server.NewServer(&proto, serverName, false)
	if err := s.RunStdio(); err != nil {
		os.Exit(1)
	}
}
