// Package lsp serves parse diagnostics over the Language Server Protocol.
package lsp

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/parsley/ebnf/cst"
	"github.com/dhamidi/parsley/lex"
	"github.com/dhamidi/parsley/parse"
)

const lsName = "parsley"

// Server checks every open document against one production of a compiled
// grammar and publishes the outcome as diagnostics.
type Server struct {
	grammar *cst.Grammar
	start   string
	version string
	handler protocol.Handler
	server  *server.Server
	log     commonlog.Logger

	mu        sync.Mutex
	documents map[protocol.DocumentUri]string
}

func NewServer(grammar *cst.Grammar, start, version string) *Server {
	ls := &Server{
		grammar:   grammar,
		start:     start,
		version:   version,
		log:       commonlog.GetLogger("parsley.lsp"),
		documents: make(map[protocol.DocumentUri]string),
	}

	ls.handler = protocol.Handler{
		Initialize:            ls.initialize,
		Initialized:           ls.initialized,
		Shutdown:              ls.shutdown,
		SetTrace:              ls.setTrace,
		TextDocumentDidOpen:   ls.textDocumentDidOpen,
		TextDocumentDidChange: ls.textDocumentDidChange,
		TextDocumentDidClose:  ls.textDocumentDidClose,
		TextDocumentDidSave:   ls.textDocumentDidSave,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

func (ls *Server) RunStdio() error {
	return ls.server.RunStdio()
}

// Diagnose parses text and returns its diagnostics. A document that parses
// has none.
func (ls *Server) Diagnose(text string) []protocol.Diagnostic {
	_, err := ls.grammar.Parse(ls.start, text)
	if err == nil {
		return []protocol.Diagnostic{}
	}
	return []protocol.Diagnostic{diagnostic(err)}
}

func diagnostic(err error) protocol.Diagnostic {
	severity := protocol.DiagnosticSeverityError
	source := lsName
	d := protocol.Diagnostic{
		Severity: &severity,
		Source:   &source,
		Message:  err.Error(),
	}

	var syntax *parse.SyntaxError
	var unrecognized *lex.UnrecognizedError
	var loop *parse.InfiniteLoopError
	switch {
	case errors.As(err, &syntax):
		d.Message = syntax.Errors.String()
		if d.Message == "" {
			d.Message = "Parse error."
		}
		d.Range = tokenRange(syntax.Position, syntax.Unparsed.Literal)
	case errors.As(err, &unrecognized):
		d.Message = fmt.Sprintf("unrecognized character %q", unrecognized.Char)
		d.Range = tokenRange(unrecognized.Position, string(unrecognized.Char))
	case errors.As(err, &loop):
		d.Range = tokenRange(loop.Position, "")
	}
	return d
}

// tokenRange spans literal starting at pos. A literal running over
// several lines is cut at the first newline.
func tokenRange(pos lex.Position, literal string) protocol.Range {
	if i := strings.IndexByte(literal, '\n'); i >= 0 {
		literal = literal[:i]
	}
	start := protocol.Position{Line: uint32(max(pos.Line-1, 0)), Character: uint32(max(pos.Column-1, 0))}
	end := start
	end.Character += uint32(utf8.RuneCountInString(literal))
	return protocol.Range{Start: start, End: end}
}

func (ls *Server) publish(ctx *glsp.Context, uri protocol.DocumentUri, text string) {
	diagnostics := ls.Diagnose(text)
	ls.log.Debugf("%s: %d diagnostics", uri, len(diagnostics))
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

func (ls *Server) update(ctx *glsp.Context, uri protocol.DocumentUri, text string) {
	ls.mu.Lock()
	ls.documents[uri] = text
	ls.mu.Unlock()
	ls.publish(ctx, uri, text)
}

func (ls *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    intPtr(int(protocol.TextDocumentSyncKindFull)),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	ls.log.Infof("checking documents as %s", ls.start)
	return nil
}

func (ls *Server) shutdown(ctx *glsp.Context) error {
	protocol.SetTraceValue(protocol.TraceValueOff)
	return nil
}

func (ls *Server) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	ls.update(ctx, params.TextDocument.URI, params.TextDocument.Text)
	return nil
}

func (ls *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	if len(params.ContentChanges) > 0 {
		change := params.ContentChanges[len(params.ContentChanges)-1]
		if textChange, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			ls.update(ctx, params.TextDocument.URI, textChange.Text)
		}
	}
	return nil
}

func (ls *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	ls.mu.Lock()
	delete(ls.documents, params.TextDocument.URI)
	ls.mu.Unlock()
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         params.TextDocument.URI,
		Diagnostics: []protocol.Diagnostic{},
	})
	return nil
}

func (ls *Server) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	if params.Text != nil {
		ls.update(ctx, params.TextDocument.URI, *params.Text)
		return nil
	}
	ls.mu.Lock()
	text, ok := ls.documents[params.TextDocument.URI]
	ls.mu.Unlock()
	if ok {
		ls.publish(ctx, params.TextDocument.URI, text)
	} else if path, err := uriToPath(params.TextDocument.URI); err == nil {
		ls.log.Warningf("saved document %s was never opened", path)
	}
	return nil
}

func uriToPath(uri string) (string, error) {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err != nil {
			return "", err
		}
		return filepath.Clean(parsed.Path), nil
	}
	return uri, nil
}

func boolPtr(b bool) *bool {
	return &b
}

func intPtr(i int) *protocol.TextDocumentSyncKind {
	v := protocol.TextDocumentSyncKind(i)
	return &v
}
