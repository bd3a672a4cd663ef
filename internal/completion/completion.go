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

// Package completion builds ranked wikilink and tag completion lists,
// routed through the fuzzy matcher and the workspace indices.
package completion

import (
	"fmt"
	"path/filepath"

	"github.com/bracketnotes/bracketls/internal/discriminator"
	"github.com/bracketnotes/bracketls/internal/fuzzy"
	"github.com/bracketnotes/bracketls/internal/index"
	"github.com/bracketnotes/bracketls/internal/scanner"
	"github.com/bracketnotes/bracketls/pkg/protocol"
)

const maxItems = 20

// Engine answers completion requests by classifying the cursor with the
// discriminator and then ranking either file basenames or tag names.
type Engine struct {
	files *index.FileIndex
	tags  *index.TagIndex
}

func NewEngine(files *index.FileIndex, tags *index.TagIndex) *Engine {
	return &Engine{files: files, tags: tags}
}

// Complete returns the completion list for text/cursor in the document
// identified by currentPath — currentPath is the document's canonical path
// (if known), excluded from wikilink candidates so a file never links to
// itself.
func (e *Engine) Complete(text string, cursor scanner.Position, currentPath string) protocol.CompletionList {
	ctx := discriminator.Classify(text, cursor)
	switch ctx.Kind {
	case discriminator.Wikilink:
		return e.wikilinkCompletions(ctx, currentPath)
	case discriminator.Tag:
		return e.tagCompletions(ctx)
	default:
		return protocol.CompletionList{IsIncomplete: false, Items: []protocol.CompletionItem{}}
	}
}

func (e *Engine) wikilinkCompletions(ctx discriminator.Context, currentPath string) protocol.CompletionList {
	records := e.files.All()
	basenames := make([]string, 0, len(records))
	byBasename := make(map[string]string, len(records))
	for _, rec := range records {
		if rec.Path == currentPath {
			continue
		}
		display := filepath.Base(rec.Path)
		if _, dup := byBasename[display]; dup {
			continue // dedupe by basename, first occurrence wins
		}
		byBasename[display] = rec.Path
		basenames = append(basenames, display)
	}

	ranked := fuzzy.Rank(ctx.Query, basenames, maxItems)
	items := make([]protocol.CompletionItem, 0, len(ranked))
	for _, m := range ranked {
		items = append(items, protocol.CompletionItem{
			Label:      m.Candidate,
			Kind:       protocol.CompletionItemKindFile,
			Detail:     fmt.Sprintf("Link to %s", byBasename[m.Candidate]),
			FilterText: m.Candidate,
			TextEdit: &protocol.TextEdit{
				Range:   toProtocolRange(ctx.Range),
				NewText: m.Candidate + "]]",
			},
		})
	}
	return protocol.CompletionList{IsIncomplete: false, Items: items}
}

func (e *Engine) tagCompletions(ctx discriminator.Context) protocol.CompletionList {
	all := e.tags.AllTags()
	ranked := fuzzy.Rank(ctx.Query, all, maxItems)

	items := make([]protocol.CompletionItem, 0, len(ranked))
	for _, m := range ranked {
		items = append(items, protocol.CompletionItem{
			Label:      m.Candidate,
			Kind:       protocol.CompletionItemKindKeyword,
			Detail:     fmt.Sprintf("Used in %d files", e.tags.TagCount(m.Candidate)),
			FilterText: m.Candidate,
			TextEdit: &protocol.TextEdit{
				Range:   toProtocolRange(ctx.Range),
				NewText: m.Candidate,
			},
		})
	}
	return protocol.CompletionList{IsIncomplete: false, Items: items}
}

func toProtocolRange(r scanner.Range) protocol.Range {
	return protocol.Range{
		Start: protocol.Position{Line: r.Start.Line, Character: r.Start.Character},
		End:   protocol.Position{Line: r.End.Line, Character: r.End.Character},
	}
}
