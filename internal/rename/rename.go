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

// Package rename builds the atomic workspace-edit descriptors for tag
// renames and wikilink renames (the latter paired with a file-move resource
// operation). The server applies neither kind itself — the editor applies
// the returned WorkspaceEdit as a single undo unit.
package rename

import (
	"path/filepath"
	"strings"

	"github.com/bracketnotes/bracketls/internal/index"
	"github.com/bracketnotes/bracketls/internal/scanner"
	"github.com/bracketnotes/bracketls/pkg/protocol"
)

// Corpus reads a file's current text and lists every indexed file, so the
// planner can walk the whole workspace without owning file I/O itself.
type Corpus interface {
	Files() *index.FileIndex
	ReadFile(path string) (string, bool)
	URIForPath(path string) string
}

// Planner builds rename WorkspaceEdits.
type Planner struct {
	corpus Corpus
}

func NewPlanner(corpus Corpus) *Planner {
	return &Planner{corpus: corpus}
}

// TagRename replaces every occurrence of oldTag with newTag across every
// file the Tag Index says carries it. It is text-edit-only: no file ever
// moves for a tag rename.
func (p *Planner) TagRename(tags *index.TagIndex, oldTag, newTag string) protocol.WorkspaceEdit {
	changes := make(map[string][]protocol.TextEdit)
	for _, path := range tags.FilesFor(oldTag) {
		text, ok := p.corpus.ReadFile(path)
		if !ok {
			continue
		}
		var edits []protocol.TextEdit
		for _, tag := range scanner.ParseTags(text) {
			if tag.Name != oldTag {
				continue
			}
			edits = append(edits, protocol.TextEdit{
				Range:   toProtocolRange(tag.Range),
				NewText: newTag,
			})
		}
		if len(edits) > 0 {
			changes[p.corpus.URIForPath(path)] = edits
		}
	}
	return protocol.WorkspaceEdit{Changes: changes}
}

// WikilinkRename retargets every wikilink pointing at oldTarget to
// newTarget, moving the resolved file alongside the text edits when
// oldTarget resolves in the File Index. If it doesn't resolve, only the
// text references are edited — there is no file to move.
func (p *Planner) WikilinkRename(oldTarget, newTarget string) protocol.WorkspaceEdit {
	files := p.corpus.Files()
	oldPath, resolved := files.Resolve(oldTarget)

	var documentChanges []any
	if resolved {
		newPath := renamedPath(oldPath, newTarget)
		documentChanges = append(documentChanges, protocol.NewRenameFile(
			p.corpus.URIForPath(oldPath), p.corpus.URIForPath(newPath),
		))
	}

	for _, rec := range files.All() {
		text, ok := p.corpus.ReadFile(rec.Path)
		if !ok {
			continue
		}
		var edits []protocol.TextEdit
		for _, wl := range scanner.ParseWikilinks(text) {
			if wl.Target != oldTarget {
				continue
			}
			edits = append(edits, protocol.TextEdit{
				Range:   toProtocolRange(wl.TargetRange),
				NewText: retargetedText(wl.Target, newTarget),
			})
		}
		if len(edits) > 0 {
			documentChanges = append(documentChanges, protocol.TextDocumentEdit{
				TextDocument: protocol.VersionedTextDocumentIdentifier{URI: p.corpus.URIForPath(rec.Path)},
				Edits:        edits,
			})
		}
	}

	if resolved {
		files.Rename(oldPath, renamedPath(oldPath, newTarget))
	}

	return protocol.WorkspaceEdit{DocumentChanges: documentChanges}
}

// renamedPath keeps the old directory and derives the filename from
// newTarget: a newTarget that already carries an extension is used
// verbatim, otherwise the old file's extension is appended.
func renamedPath(oldPath, newTarget string) string {
	dir := filepath.Dir(oldPath)
	oldExt := filepath.Ext(oldPath)
	name := newTarget
	if filepath.Ext(newTarget) == "" {
		name += oldExt
	}
	return filepath.Join(dir, name)
}

// retargetedText computes the replacement target string per the
// has-extension/bare-name matrix: old-has-ext + new-has-ext -> new verbatim;
// old-has-ext + new-bare -> new + old's extension; old-bare + new-has-ext ->
// stem of new; both bare -> new verbatim.
func retargetedText(oldTarget, newTarget string) string {
	oldExt := filepath.Ext(oldTarget)
	newExt := filepath.Ext(newTarget)
	switch {
	case oldExt != "" && newExt != "":
		return newTarget
	case oldExt != "" && newExt == "":
		return newTarget + oldExt
	case oldExt == "" && newExt != "":
		return strings.TrimSuffix(newTarget, newExt)
	default:
		return newTarget
	}
}

func toProtocolRange(r scanner.Range) protocol.Range {
	return protocol.Range{
		Start: protocol.Position{Line: r.Start.Line, Character: r.Start.Character},
		End:   protocol.Position{Line: r.End.Line, Character: r.End.Character},
	}
}
