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
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bracketnotes/bracketls/internal/outline"
	"github.com/bracketnotes/bracketls/internal/scanner"
	"github.com/bracketnotes/bracketls/pkg/protocol"
)

// hoverPreviewBytes caps how much of a linked file's raw content hover shows.
const hoverPreviewBytes = 1024

// textAndPath returns the document's current text (preferring the open
// shadow buffer over disk) and its resolved path, if the URI resolves.
func (s *Server) textAndPath(uri string) (text, path string, ok bool) {
	path, hasPath := uriToPath(uri)
	if doc, open := s.docs.Get(uri); open {
		return doc.Content, path, true
	}
	if !hasPath {
		return "", "", false
	}
	text, read := s.ReadFile(path)
	if !read {
		return "", "", false
	}
	return text, path, true
}

func (s *Server) handleCompletion(params json.RawMessage) (any, error) {
	var p protocol.CompletionParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, err
	}
	text, path, ok := s.textAndPath(p.TextDocument.URI)
	if !ok {
		return protocol.CompletionList{IsIncomplete: false, Items: []protocol.CompletionItem{}}, nil
	}
	list := s.completionEngine().Complete(text, toScannerPosition(p.Position), path)
	return list, nil
}

func (s *Server) handleHover(params json.RawMessage) (any, error) {
	var p protocol.HoverParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, err
	}
	text, _, ok := s.textAndPath(p.TextDocument.URI)
	if !ok {
		return nil, nil
	}
	wl, found := wikilinkAt(text, toScannerPosition(p.Position))
	if !found {
		return nil, nil
	}
	targetPath, resolved := s.Files().Resolve(wl.Target)
	if !resolved {
		return protocol.Hover{
			Contents: protocol.MarkupContent{
				Kind:  protocol.MarkupKindMarkdown,
				Value: fmt.Sprintf("**%s**\n\nNo matching file.", wl.Target),
			},
		}, nil
	}
	targetText, _ := s.ReadFile(targetPath)
	title := firstHeadingOrBasename(targetText, targetPath)
	return protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: renderHoverContent(title, targetText),
		},
	}, nil
}

// renderHoverContent builds the hover markdown: a boldened title, a
// byte-count hint when the preview below is truncated, a horizontal rule,
// then up to hoverPreviewBytes of the target file's raw content.
func renderHoverContent(title, content string) string {
	var b strings.Builder
	b.WriteString("**")
	b.WriteString(title)
	b.WriteString("**\n\n")

	preview := content
	if len(content) > hoverPreviewBytes {
		preview = content[:hoverPreviewBytes]
		b.WriteString(fmt.Sprintf("*(showing first %d of %d bytes)*\n\n", hoverPreviewBytes, len(content)))
	}

	b.WriteString("---\n\n")
	b.WriteString(preview)
	return b.String()
}

func firstHeadingOrBasename(text, path string) string {
	symbols := outline.Build(text)
	if len(symbols) > 0 {
		return symbols[0].Name
	}
	base := filepath.Base(path)
	return base[:len(base)-len(filepath.Ext(base))]
}

// handleDefinition resolves the wikilink under the cursor to its target
// file's location. An unresolved target returns a null result — this
// server never creates a file as a side effect of navigation.
func (s *Server) handleDefinition(params json.RawMessage) (any, error) {
	var p protocol.DefinitionParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, err
	}
	text, _, ok := s.textAndPath(p.TextDocument.URI)
	if !ok {
		return nil, nil
	}
	wl, found := wikilinkAt(text, toScannerPosition(p.Position))
	if !found {
		return nil, nil
	}
	targetPath, resolved := s.Files().Resolve(wl.Target)
	if !resolved {
		return nil, nil
	}
	return protocol.Location{
		URI:   s.URIForPath(targetPath),
		Range: protocol.Range{},
	}, nil
}

// handleReferences finds backlinks to whatever is under the cursor: a
// wikilink target's referencing files, a tag's member files, or, when the
// cursor is on neither, the files that link to the current document itself.
func (s *Server) handleReferences(params json.RawMessage) (any, error) {
	var p protocol.ReferenceParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, err
	}
	text, path, ok := s.textAndPath(p.TextDocument.URI)
	if !ok {
		return []protocol.Location{}, nil
	}
	pos := toScannerPosition(p.Position)

	if wl, found := wikilinkAt(text, pos); found {
		if targetPath, resolved := s.Files().Resolve(wl.Target); resolved {
			return locationsForFiles(s, s.Graph().FilesReferencingFile(targetPath)), nil
		}
	}
	if tag, found := tagAt(text, pos); found {
		return locationsForFiles(s, s.Graph().FilesReferencingTag(tag)), nil
	}
	if path != "" {
		return locationsForFiles(s, s.Graph().FilesReferencingFile(path)), nil
	}
	return []protocol.Location{}, nil
}

func locationsForFiles(s *Server, paths []string) []protocol.Location {
	locs := make([]protocol.Location, 0, len(paths))
	for _, p := range paths {
		locs = append(locs, protocol.Location{URI: s.URIForPath(p), Range: protocol.Range{}})
	}
	return locs
}

func (s *Server) handleDocumentSymbol(params json.RawMessage) (any, error) {
	var p protocol.DocumentSymbolParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, err
	}
	text, _, ok := s.textAndPath(p.TextDocument.URI)
	if !ok {
		return []protocol.DocumentSymbol{}, nil
	}
	return outline.Build(text), nil
}

func (s *Server) handlePrepareRename(params json.RawMessage) (any, error) {
	var p protocol.PrepareRenameParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, err
	}
	text, _, ok := s.textAndPath(p.TextDocument.URI)
	if !ok {
		return nil, fmt.Errorf("document not available")
	}
	pos := toScannerPosition(p.Position)
	if wl, found := wikilinkAt(text, pos); found {
		return protocol.PrepareRenameResult{
			Range:       toProtocolRange(wl.TargetRange),
			Placeholder: wl.Target,
		}, nil
	}
	if tag, found := tagRangeAt(text, pos); found {
		return protocol.PrepareRenameResult{
			Range:       toProtocolRange(tag.Range),
			Placeholder: tag.Name,
		}, nil
	}
	return nil, fmt.Errorf("nothing renameable at this position")
}

func (s *Server) handleRename(params json.RawMessage) (any, error) {
	var p protocol.RenameParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, err
	}
	if strings.TrimSpace(p.NewName) == "" {
		return nil, fmt.Errorf("new name must not be empty")
	}
	text, _, ok := s.textAndPath(p.TextDocument.URI)
	if !ok {
		return nil, fmt.Errorf("document not available")
	}
	pos := toScannerPosition(p.Position)
	if wl, found := wikilinkAt(text, pos); found {
		edit := s.rename.WikilinkRename(wl.Target, p.NewName)
		return edit, nil
	}
	if tag, found := tagRangeAt(text, pos); found {
		edit := s.rename.TagRename(s.Tags(), tag.Name, p.NewName)
		return edit, nil
	}
	return nil, fmt.Errorf("nothing renameable at this position")
}

func wikilinkAt(text string, pos scanner.Position) (scanner.Wikilink, bool) {
	for _, wl := range scanner.ParseWikilinks(text) {
		if wl.Range.Contains(pos) {
			return wl, true
		}
	}
	return scanner.Wikilink{}, false
}

func tagRangeAt(text string, pos scanner.Position) (scanner.Tag, bool) {
	for _, tag := range scanner.ParseTags(text) {
		if tag.Range.Contains(pos) {
			return tag, true
		}
	}
	return scanner.Tag{}, false
}

func tagAt(text string, pos scanner.Position) (string, bool) {
	tag, ok := tagRangeAt(text, pos)
	if !ok {
		return "", false
	}
	return tag.Name, true
}

func toProtocolRange(r scanner.Range) protocol.Range {
	return protocol.Range{
		Start: protocol.Position{Line: r.Start.Line, Character: r.Start.Character},
		End:   protocol.Position{Line: r.End.Line, Character: r.End.Character},
	}
}
