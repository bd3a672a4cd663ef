// Copyright 2025 Notedown Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package server implements the bracketls request/notification handlers,
// wiring the scanner, indices, document store, completion/diagnostics
// engines, and rename planner behind the protocol.LanguageServer interface.
package server

import (
	"context"
	"sync"

	"github.com/bracketnotes/bracketls/internal/completion"
	"github.com/bracketnotes/bracketls/internal/diagnostics"
	"github.com/bracketnotes/bracketls/internal/document"
	"github.com/bracketnotes/bracketls/internal/index"
	"github.com/bracketnotes/bracketls/internal/rename"
	"github.com/bracketnotes/bracketls/internal/watcher"
	"github.com/bracketnotes/bracketls/pkg/log"
	"github.com/bracketnotes/bracketls/pkg/protocol"
)

// Server implements protocol.LanguageServer for the wikilink/tag notes
// corpus: initialize walks the workspace and populates the indices, then
// every request is answered from the in-memory index/document state.
type Server struct {
	version string
	logger  *log.Logger

	mu    sync.RWMutex
	roots []string

	files *index.FileIndex
	tags  *index.TagIndex
	graph *index.LinkGraph
	docs  *document.Store

	completion  *completion.Engine
	diagnostics *diagnostics.Engine
	rename      *rename.Planner

	mux *protocol.Mux

	cancelWatch context.CancelFunc
}

func NewServer(version string, logger *log.Logger) *Server {
	scoped := logger.WithScope("server")
	s := &Server{
		version: version,
		logger:  scoped,
		files:   index.NewFileIndex(),
		tags:    index.NewTagIndex(),
		graph:   index.NewLinkGraph(),
		docs:    document.NewStore(),
	}
	s.completion = completion.NewEngine(s.files, s.tags)
	s.diagnostics = diagnostics.NewEngine(s.files)
	s.rename = rename.NewPlanner(s)
	return s
}

// Initialize walks every workspace root (from WorkspaceFolders, falling back
// to RootURI), populates the indices synchronously — request handlers that
// fire right after initialize must see a populated index, not an empty one
// a background scan hasn't caught up to yet — and starts the watcher.
func (s *Server) Initialize(params protocol.InitializeParams) (protocol.InitializeResult, error) {
	clientName := "unknown"
	if params.ClientInfo != nil {
		clientName = params.ClientInfo.Name
	}
	s.logger.Info("client initialized", "client", clientName, "server_version", s.version)

	s.mu.Lock()
	s.roots = rootsFromParams(params)
	s.mu.Unlock()

	if err := s.scanWorkspace(); err != nil {
		s.logger.Error("initial workspace scan failed", "error", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancelWatch = cancel
	watchRoot := ""
	if roots := s.currentRoots(); len(roots) > 0 {
		watchRoot = roots[0]
	}
	if watchRoot != "" {
		w := watcher.New(s, watchRoot, s.onWorkspaceRebuilt, s.logger.WithScope("watcher"))
		go w.Run(ctx)
	}

	renameOpts := protocol.RenameOptions{PrepareProvider: true}
	result := protocol.InitializeResult{
		ServerInfo: &protocol.ServerInfo{Name: "bracketls", Version: s.version},
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: protocol.TextDocumentSyncOptions{
				OpenClose: true,
				Change:    protocol.TextDocumentSyncKindFull,
				Save:      &protocol.SaveOptions{IncludeText: true},
			},
			CompletionProvider: &protocol.CompletionOptions{
				TriggerCharacters: []string{"[", ","},
			},
			HoverProvider:          true,
			DefinitionProvider:     true,
			ReferencesProvider:     true,
			DocumentSymbolProvider: true,
			RenameProvider:         &renameOpts,
		},
	}
	return result, nil
}

// RegisterHandlers wires every request/notification this server answers.
func (s *Server) RegisterHandlers(mux *protocol.Mux) error {
	s.mux = mux

	mux.RegisterNotification(protocol.MethodTextDocumentDidOpen, s.handleDidOpen)
	mux.RegisterNotification(protocol.MethodTextDocumentDidChange, s.handleDidChange)
	mux.RegisterNotification(protocol.MethodTextDocumentDidClose, s.handleDidClose)
	mux.RegisterNotification(protocol.MethodTextDocumentDidSave, s.handleDidSave)
	mux.RegisterNotification(protocol.MethodWorkspaceDidChangeWatchedFiles, s.handleDidChangeWatchedFiles)

	mux.RegisterMethod(protocol.MethodTextDocumentCompletion, s.handleCompletion)
	mux.RegisterMethod(protocol.MethodTextDocumentHover, s.handleHover)
	mux.RegisterMethod(protocol.MethodTextDocumentDefinition, s.handleDefinition)
	mux.RegisterMethod(protocol.MethodTextDocumentReferences, s.handleReferences)
	mux.RegisterMethod(protocol.MethodTextDocumentDocumentSymbol, s.handleDocumentSymbol)
	mux.RegisterMethod(protocol.MethodTextDocumentPrepareRename, s.handlePrepareRename)
	mux.RegisterMethod(protocol.MethodTextDocumentRename, s.handleRename)

	s.logger.Debug("registered document lifecycle, completion, navigation, and rename handlers")
	return nil
}

func (s *Server) Shutdown() error {
	s.logger.Info("shutting down bracketls", "version", s.version)
	if s.cancelWatch != nil {
		s.cancelWatch()
	}
	return nil
}

func (s *Server) currentRoots() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.roots))
	copy(out, s.roots)
	return out
}

func rootsFromParams(params protocol.InitializeParams) []string {
	var roots []string
	for _, folder := range params.WorkspaceFolders {
		if path, ok := uriToPath(folder.URI); ok {
			roots = append(roots, path)
		}
	}
	if len(roots) == 0 && params.RootURI != nil {
		if path, ok := uriToPath(*params.RootURI); ok {
			roots = append(roots, path)
		}
	}
	return roots
}
