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

// Package discriminator classifies a (document, cursor) pair into a
// completion/rename context: inside a wikilink, inside a frontmatter tag
// array, or neither.
package discriminator

import (
	"strings"

	"github.com/bracketnotes/bracketls/internal/scanner"
)

// Kind identifies the classified cursor context.
type Kind int

const (
	None Kind = iota
	Wikilink
	Tag
)

// Context is the discriminator's result. Query is the partial text already
// typed at the cursor (wikilink target or tag prefix); Range is the span
// that a completion's textEdit should replace.
type Context struct {
	Kind  Kind
	Query string
	Range scanner.Range
}

// Classify inspects line cursor.Line of text and decides what the cursor is
// "inside of". Wikilink takes precedence over tag, since a tags array line
// can never legally also contain an open wikilink bracket, but checking
// wikilink first keeps the precedence explicit rather than incidental.
func Classify(text string, cursor scanner.Position) Context {
	if ctx, ok := classifyWikilink(text, cursor); ok {
		return ctx
	}
	if ctx, ok := classifyTag(text, cursor); ok {
		return ctx
	}
	return Context{Kind: None}
}

// classifyWikilink scans backward from the cursor on its own line for an
// unmatched "[[". If found with no intervening "]]", the cursor is inside an
// open wikilink; the query is the text between "[[" (or "|") and the cursor.
func classifyWikilink(text string, cursor scanner.Position) (Context, bool) {
	lines := splitLines(text)
	if cursor.Line < 0 || cursor.Line >= len(lines) {
		return Context{}, false
	}
	line := lines[cursor.Line]
	if cursor.Character < 0 || cursor.Character > len(line) {
		return Context{}, false
	}
	before := line[:cursor.Character]

	openIdx := strings.LastIndex(before, "[[")
	if openIdx == -1 {
		return Context{}, false
	}
	between := before[openIdx+2:]
	if strings.Contains(between, "]]") {
		return Context{}, false
	}

	query := between
	queryStart := openIdx + 2
	if pipeIdx := strings.LastIndex(between, "|"); pipeIdx != -1 {
		query = between[pipeIdx+1:]
		queryStart = openIdx + 2 + pipeIdx + 1
	}

	return Context{
		Kind:  Wikilink,
		Query: query,
		Range: scanner.Range{
			Start: scanner.Position{Line: cursor.Line, Character: queryStart},
			End:   cursor,
		},
	}, true
}

// classifyTag uses scanner.FindTagsLineInfo to locate a `tags: [...]` array
// on the cursor's line, then finds the prefix since the last "," or "[".
func classifyTag(text string, cursor scanner.Position) (Context, bool) {
	info, ok := scanner.FindTagsLineInfo(text, cursor)
	if !ok {
		return Context{}, false
	}
	before := info.LineContent[:cursor.Character]

	start := strings.LastIndexAny(before, ",[")
	if start == -1 {
		start = info.TagsArrayStartColumn
	} else {
		start++
	}
	prefix := strings.TrimSpace(before[start:])
	queryStart := start + (len(before[start:]) - len(strings.TrimLeft(before[start:], " \t")))

	return Context{
		Kind:  Tag,
		Query: prefix,
		Range: scanner.Range{
			Start: scanner.Position{Line: cursor.Line, Character: queryStart},
			End:   cursor,
		},
	}, true
}

func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
