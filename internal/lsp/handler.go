// Package lsp implements a minimal Language Server Protocol front end over
// the same frontend the CLI uses: on every open/change notification it
// re-runs scan+parse+type-check and republishes whatever diagnostics the
// reporter collected.
package lsp

import (
	"fmt"
	"net/url"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/segmentio/ksuid"
	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"tinyc/internal/driver"
)

var log = commonlog.GetLogger("tinyc-lsp")

// Handler implements the subset of the LSP textDocument lifecycle tinyc
// needs to surface compiler diagnostics in an editor.
type Handler struct {
	mu      sync.RWMutex
	content map[string]string
}

func NewHandler() *Handler {
	return &Handler{content: make(map[string]string)}
}

func (h *Handler) Initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	log.Info("initialize")
	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: ptrBoolVal(true),
				Change:    ptrSyncKind(protocol.TextDocumentSyncKindFull),
			},
		},
	}, nil
}

func (h *Handler) Initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	return nil
}

func (h *Handler) Shutdown(ctx *glsp.Context) error {
	log.Info("shutdown")
	return nil
}

func (h *Handler) TextDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	return h.check(ctx, params.TextDocument.URI, params.TextDocument.Text)
}

func (h *Handler) TextDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	// TextDocumentSyncKindFull means the only change event carries the
	// entire new document text in its first content change.
	if len(params.ContentChanges) == 0 {
		return nil
	}
	full, ok := params.ContentChanges[0].(protocol.TextDocumentContentChangeEventWhole)
	if !ok {
		return nil
	}
	return h.check(ctx, params.TextDocument.URI, full.Text)
}

func (h *Handler) TextDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return err
	}
	h.mu.Lock()
	delete(h.content, path)
	h.mu.Unlock()
	return nil
}

func (h *Handler) check(ctx *glsp.Context, uri protocol.DocumentUri, text string) error {
	requestID := ksuid.New().String()
	path, err := uriToPath(uri)
	if err != nil {
		return fmt.Errorf("tinyc-lsp[%s]: %w", requestID, err)
	}

	h.mu.Lock()
	h.content[path] = text
	h.mu.Unlock()

	diags := driver.Check(path, text)
	log.Debugf("tinyc-lsp[%s]: %s produced %d diagnostic(s)", requestID, path, len(diags))

	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: ConvertDiagnostics(diags),
	})
	return nil
}

func uriToPath(raw protocol.DocumentUri) (string, error) {
	u, err := url.Parse(string(raw))
	if err != nil {
		return "", fmt.Errorf("invalid URI %s: %w", raw, err)
	}
	path := u.Path
	if runtime.GOOS == "windows" && strings.HasPrefix(path, "/") && len(path) > 2 && path[2] == ':' {
		path = path[1:]
	}
	return filepath.FromSlash(path), nil
}

func ptrBoolVal(b bool) *bool { return &b }
func ptrSyncKind(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind { return &k }
