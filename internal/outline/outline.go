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

// Package outline builds a document's heading outline by walking the
// goldmark AST, nesting headings by level the way a Markdown table of
// contents does.
package outline

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/bracketnotes/bracketls/internal/scanner"
	"github.com/bracketnotes/bracketls/pkg/protocol"
)

var md = goldmark.New()

// Build parses content and returns its headings as a nested
// DocumentSymbol tree, each heading's children being every subsequent
// heading of greater depth up to the next heading of equal or lesser depth.
// Frontmatter lines are blanked first (keeping line numbers), so a closing
// `---` is never read as a setext underline.
func Build(content string) []protocol.DocumentSymbol {
	if fm, ok := scanner.ParseFrontmatter(content); ok {
		lines := strings.SplitAfter(content, "\n")
		for i := 0; i <= fm.EndLine && i < len(lines); i++ {
			lines[i] = "\n"
		}
		content = strings.Join(lines, "")
	}
	source := []byte(content)
	doc := md.Parser().Parse(text.NewReader(source))

	var flat []headingEntry
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		flat = append(flat, headingEntry{
			level: h.Level,
			title: string(h.Text(source)),
			line:  lineOf(source, h),
		})
		return ast.WalkSkipChildren, nil
	})
	if err != nil {
		return nil
	}

	return nest(flat, 0, len(flat), 1)
}

type headingEntry struct {
	level int
	title string
	line  int
}

// nest groups entries[start:end] into a tree: each entry starts a new
// symbol, and every following entry with a greater level than it becomes one
// of its children, until an entry at its level or shallower ends the group.
// minLevel is not consulted.
func nest(entries []headingEntry, start, end, minLevel int) []protocol.DocumentSymbol {
	var out []protocol.DocumentSymbol
	i := start
	for i < end {
		e := entries[i]
		childStart := i + 1
		childEnd := childStart
		for childEnd < end && entries[childEnd].level > e.level {
			childEnd++
		}
		rng := protocol.Range{
			Start: protocol.Position{Line: e.line, Character: 0},
			End:   protocol.Position{Line: e.line, Character: len(e.title)},
		}
		out = append(out, protocol.DocumentSymbol{
			Name:           e.title,
			Kind:           protocol.SymbolKindString,
			Range:          rng,
			SelectionRange: rng,
			Children:       nest(entries, childStart, childEnd, e.level+1),
		})
		i = childEnd
	}
	return out
}

// lineOf finds a heading's zero-based line number from its first text
// segment's byte offset into source.
func lineOf(source []byte, h *ast.Heading) int {
	lines := h.Lines()
	if lines.Len() == 0 {
		return 0
	}
	offset := lines.At(0).Start
	return bytes.Count(source[:offset], []byte("\n"))
}
