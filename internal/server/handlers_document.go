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

package server

import (
	"encoding/json"

	"github.com/bracketnotes/bracketls/internal/scanner"
	"github.com/bracketnotes/bracketls/pkg/protocol"
)

func (s *Server) handleDidOpen(params json.RawMessage) error {
	var p protocol.DidOpenTextDocumentParams
	if err := json.Unmarshal(params, &p); err != nil {
		s.logger.Error("failed to unmarshal didOpen params", "error", err)
		return err
	}
	s.docs.DidOpen(p.TextDocument.URI, p.TextDocument.Text, p.TextDocument.Version)
	s.reindexAndPublish(p.TextDocument.URI, p.TextDocument.Text, p.TextDocument.Version)
	s.logger.Info("document opened", "uri", p.TextDocument.URI)
	return nil
}

func (s *Server) handleDidChange(params json.RawMessage) error {
	var p protocol.DidChangeTextDocumentParams
	if err := json.Unmarshal(params, &p); err != nil {
		s.logger.Error("failed to unmarshal didChange params", "error", err)
		return err
	}
	if len(p.ContentChanges) == 0 {
		return nil
	}
	// TextDocumentSyncKindFull: the last change carries the whole buffer.
	text := p.ContentChanges[len(p.ContentChanges)-1].Text
	uri := p.TextDocument.URI
	version := p.TextDocument.Version
	s.docs.DidChange(uri, text, version)
	s.reindexAndPublish(uri, text, version)
	return nil
}

func (s *Server) handleDidClose(params json.RawMessage) error {
	var p protocol.DidCloseTextDocumentParams
	if err := json.Unmarshal(params, &p); err != nil {
		s.logger.Error("failed to unmarshal didClose params", "error", err)
		return err
	}
	s.docs.DidClose(p.TextDocument.URI)
	s.logger.Info("document closed", "uri", p.TextDocument.URI)
	return nil
}

func (s *Server) handleDidSave(params json.RawMessage) error {
	var p protocol.DidSaveTextDocumentParams
	if err := json.Unmarshal(params, &p); err != nil {
		s.logger.Error("failed to unmarshal didSave params", "error", err)
		return err
	}
	if doc, ok := s.docs.Get(p.TextDocument.URI); ok {
		s.reindexAndPublish(doc.URI, doc.Content, doc.Version)
	}
	return nil
}

func (s *Server) handleDidChangeWatchedFiles(params json.RawMessage) error {
	var p protocol.DidChangeWatchedFilesParams
	if err := json.Unmarshal(params, &p); err != nil {
		s.logger.Error("failed to unmarshal didChangeWatchedFiles params", "error", err)
		return err
	}
	// The poll/fsnotify watcher is the rebuild authority; a client-reported
	// change just nudges an immediate rescan rather than waiting on the
	// next poll tick.
	s.onWorkspaceRebuilt(nil)
	return nil
}

// reindexAndPublish re-derives one file's tags and wikilinks into the Tag
// Index and Link Graph, then republishes its diagnostics. Used on every
// open/change/save so the indices never go stale while a file is being
// edited, not just when the workspace rescans.
func (s *Server) reindexAndPublish(uri, text string, version int) {
	path, ok := uriToPath(uri)
	if ok {
		s.mu.Lock()
		s.graph.ClearFile(path)
		s.indexFileContent(path, text, s.files, s.tags, s.graph)
		s.mu.Unlock()
	}
	s.publishDiagnosticsFor(uri, text, version)
}

func (s *Server) publishDiagnosticsFor(uri, text string, version int) {
	if s.mux == nil {
		return
	}
	clear, publish := s.diagnosticsEngine().PublishParamsFor(uri, text, version)
	if err := s.mux.PublishNotification(string(protocol.MethodTextDocumentPublishDiagnostics), clear); err != nil {
		s.logger.Error("failed to publish diagnostics clear", "uri", uri, "error", err)
	}
	if err := s.mux.PublishNotification(string(protocol.MethodTextDocumentPublishDiagnostics), publish); err != nil {
		s.logger.Error("failed to publish diagnostics", "uri", uri, "error", err)
	}
}

func toScannerPosition(p protocol.Position) scanner.Position {
	return scanner.Position{Line: p.Line, Character: p.Character}
}
