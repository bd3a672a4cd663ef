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

// Package diagnostics detects broken wikilinks in open documents and builds
// the publishDiagnostics payload for them.
package diagnostics

import (
	"fmt"

	"github.com/bracketnotes/bracketls/internal/index"
	"github.com/bracketnotes/bracketls/internal/scanner"
	"github.com/bracketnotes/bracketls/pkg/protocol"
)

// Source identifies this server as the origin of a diagnostic, per the LSP
// Diagnostic.source convention.
const Source = "bracketls"

// Engine flags wikilinks whose target does not resolve in the File Index.
type Engine struct {
	files *index.FileIndex
}

func NewEngine(files *index.FileIndex) *Engine {
	return &Engine{files: files}
}

// Diagnose returns one error diagnostic per broken wikilink in text, in
// source order.
func (e *Engine) Diagnose(text string) []protocol.Diagnostic {
	wikilinks := scanner.ParseWikilinks(text)
	diags := make([]protocol.Diagnostic, 0, len(wikilinks))
	for _, wl := range wikilinks {
		if _, ok := e.files.Resolve(wl.Target); ok {
			continue
		}
		diags = append(diags, protocol.Diagnostic{
			Range: protocol.Range{
				Start: protocol.Position{Line: wl.Range.Start.Line, Character: wl.Range.Start.Character},
				End:   protocol.Position{Line: wl.Range.End.Line, Character: wl.Range.End.Character},
			},
			Severity: protocol.DiagnosticSeverityError,
			Source:   Source,
			Message:  fmt.Sprintf("Broken wikilink: target file '%s' not found", wl.Target),
		})
	}
	return diags
}

// PublishParamsFor builds the clear-then-publish pair for uri: an empty-array
// clear followed by the current diagnostic set, so a client that applies
// them in order never shows a stale diagnostic left over from a prior
// version of the document.
func (e *Engine) PublishParamsFor(uri, text string, version int) (clear, publish protocol.PublishDiagnosticsParams) {
	v := version
	clear = protocol.PublishDiagnosticsParams{URI: uri, Version: &v, Diagnostics: []protocol.Diagnostic{}}
	publish = protocol.PublishDiagnosticsParams{URI: uri, Version: &v, Diagnostics: e.Diagnose(text)}
	return clear, publish
}
