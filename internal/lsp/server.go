package lsp

import (
	"context"
	"sync"
	"time"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	// backend for commonlog
	_ "github.com/tliron/commonlog/simple"

	"gocst/internal/driver"
)

const serverName = "gocst"

// ServerOptions configures the language server.
type ServerOptions struct {
	// Debounce delays re-parsing after an edit; 0 parses synchronously.
	Debounce time.Duration
	// MaxDiagnostics bounds diagnostics published per document; 0 means no limit.
	MaxDiagnostics int
	Version        string
	Debug          bool
}

// Server parses open documents and publishes their syntax diagnostics,
// folding ranges and document symbols.
type Server struct {
	handler protocol.Handler
	server  *server.Server
	log     commonlog.Logger
	opts    ServerOptions

	baseCtx context.Context
	cancel  context.CancelFunc

	mu            sync.Mutex
	docs          map[string]*document
	workspaceRoot string
	notify        func(method string, params any)
}

// NewServer builds a server; call RunStdio to serve.
func NewServer(opts ServerOptions) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		log:     commonlog.GetLogger("gocst.lsp"),
		opts:    opts,
		baseCtx: ctx,
		cancel:  cancel,
		docs:    make(map[string]*document),
	}
	s.handler = protocol.Handler{
		Initialize:                 s.initialize,
		Initialized:                s.initialized,
		Shutdown:                   s.shutdown,
		SetTrace:                   s.setTrace,
		TextDocumentDidOpen:        s.didOpen,
		TextDocumentDidChange:      s.didChange,
		TextDocumentDidClose:       s.didClose,
		TextDocumentDidSave:        s.didSave,
		TextDocumentFoldingRange:   s.foldingRange,
		TextDocumentDocumentSymbol: s.documentSymbol,
	}
	s.server = server.NewServer(&s.handler, serverName, opts.Debug)
	return s
}

// RunStdio serves until the client closes the connection.
func (s *Server) RunStdio() error {
	defer s.cancel()
	return s.server.RunStdio()
}

func (s *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	root := ""
	switch {
	case params.RootURI != nil && *params.RootURI != "":
		root = uriToPath(*params.RootURI)
	case params.RootPath != nil && *params.RootPath != "":
		root = *params.RootPath
	case len(params.WorkspaceFolders) > 0:
		root = uriToPath(params.WorkspaceFolders[0].URI)
	}
	s.mu.Lock()
	s.workspaceRoot = root
	s.notify = ctx.Notify
	s.mu.Unlock()
	s.log.Infof("initialize: workspace %q", root)

	capabilities := s.handler.CreateServerCapabilities()
	openClose := true
	includeText := true
	syncKind := protocol.TextDocumentSyncKindIncremental
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: &openClose,
		Change:    &syncKind,
		Save:      &protocol.SaveOptions{IncludeText: &includeText},
	}
	capabilities.FoldingRangeProvider = true
	capabilities.DocumentSymbolProvider = true

	version := s.opts.Version
	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    serverName,
			Version: &version,
		},
	}, nil
}

func (s *Server) initialized(_ *glsp.Context, _ *protocol.InitializedParams) error {
	return nil
}

func (s *Server) shutdown(_ *glsp.Context) error {
	s.mu.Lock()
	for _, doc := range s.docs {
		if doc.timer != nil {
			doc.timer.Stop()
		}
	}
	s.mu.Unlock()
	s.cancel()
	return nil
}

func (s *Server) setTrace(_ *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (s *Server) didOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	s.bindNotify(ctx)
	doc := params.TextDocument
	s.openDocument(doc.URI, doc.Version, doc.Text)
	s.schedule(doc.URI)
	return nil
}

func (s *Server) didChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	s.bindNotify(ctx)
	uri := params.TextDocument.URI
	if !s.updateDocument(uri, params.TextDocument.Version, params.ContentChanges) {
		s.log.Warningf("didChange for unopened document %s", uri)
		return nil
	}
	s.schedule(uri)
	return nil
}

func (s *Server) didClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	s.bindNotify(ctx)
	uri := params.TextDocument.URI
	s.closeDocument(uri)
	s.publish(uri, []protocol.Diagnostic{})
	return nil
}

func (s *Server) didSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	s.bindNotify(ctx)
	uri := params.TextDocument.URI
	if params.Text != nil && !s.replaceDocumentText(uri, *params.Text) {
		return nil
	}
	// конфиг мог поменяться на диске
	s.schedule(uri)
	return nil
}

func (s *Server) foldingRange(_ *glsp.Context, params *protocol.FoldingRangeParams) ([]protocol.FoldingRange, error) {
	res := s.resultFor(params.TextDocument.URI)
	if res == nil {
		return []protocol.FoldingRange{}, nil
	}
	return buildFoldingRanges(res.File, res.Root), nil
}

func (s *Server) documentSymbol(_ *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	res := s.resultFor(params.TextDocument.URI)
	if res == nil {
		return []protocol.DocumentSymbol{}, nil
	}
	return buildDocumentSymbols(res.File, res.Root), nil
}

func (s *Server) bindNotify(ctx *glsp.Context) {
	if ctx == nil || ctx.Notify == nil {
		return
	}
	s.mu.Lock()
	s.notify = ctx.Notify
	s.mu.Unlock()
}

// schedule re-parses uri after the debounce delay. A newer edit restarts the
// timer, so only the latest version gets published.
func (s *Server) schedule(uri string) {
	if s.opts.Debounce <= 0 {
		s.refresh(uri)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[uri]
	if !ok {
		return
	}
	if doc.timer != nil {
		doc.timer.Stop()
	}
	doc.timer = time.AfterFunc(s.opts.Debounce, func() { s.refresh(uri) })
}

// resultFor returns an analysis of the current text, parsing on demand when
// the debounced refresh has not run yet.
func (s *Server) resultFor(uri string) *driver.ParseResult {
	if res := s.currentResult(uri); res != nil {
		return res
	}
	res, _ := s.analyze(uri)
	return res
}

// refresh parses uri and publishes its diagnostics. Results for a version
// that was superseded while parsing are dropped.
func (s *Server) refresh(uri string) {
	res, ok := s.analyze(uri)
	if res == nil || !ok {
		return
	}
	s.publish(uri, toLSPDiagnostics(uri, res.File, res.Bag.Items()))
}

func (s *Server) analyze(uri string) (*driver.ParseResult, bool) {
	text, version, ok := s.snapshot(uri)
	if !ok {
		return nil, false
	}
	opts := s.optionsFor(uri)
	res, err := driver.ParseSource(s.baseCtx, documentName(uri), []byte(text), opts)
	if err != nil {
		s.log.Debugf("parse %s: %v", uri, err)
		return nil, false
	}
	return res, s.storeResult(uri, version, res)
}

func (s *Server) optionsFor(uri string) driver.Options {
	s.mu.Lock()
	root := s.workspaceRoot
	s.mu.Unlock()
	cfg, path, err := resolveConfig(root, uriToPath(uri))
	if err != nil {
		s.log.Warningf("%v; using defaults", err)
	} else if path != "" {
		s.log.Debugf("%s: using %s", uri, path)
	}
	return driver.OptionsFromConfig(cfg.Parse, s.opts.MaxDiagnostics)
}

func (s *Server) publish(uri string, diagnostics []protocol.Diagnostic) {
	s.mu.Lock()
	notify := s.notify
	s.mu.Unlock()
	if notify == nil {
		return
	}
	notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}
