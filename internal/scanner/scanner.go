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

// Package scanner locates wikilinks, frontmatter, and frontmatter tags in a
// document's raw text with precise line/character ranges. It is a
// single-pass, line-tracking scan — not a general Markdown parser — because
// the only constructs this server cares about are `[[target]]`/
// `[[target|alias]]` wikilinks and a YAML-ish `tags: [...]` array inside a
// leading `---`-delimited frontmatter block.
package scanner

import (
	"regexp"
	"strings"
)

type Position struct {
	Line      int
	Character int
}

type Range struct {
	Start Position
	End   Position
}

// Contains reports whether pos falls within r, inclusive of both endpoints.
func (r Range) Contains(pos Position) bool {
	if pos.Line < r.Start.Line || pos.Line > r.End.Line {
		return false
	}
	if pos.Line == r.Start.Line && pos.Character < r.Start.Character {
		return false
	}
	if pos.Line == r.End.Line && pos.Character > r.End.Character {
		return false
	}
	return true
}

// Wikilink is one `[[target]]` or `[[target|alias]]` occurrence. Range spans
// the entire construct including both bracket pairs; TargetRange covers only
// the target token, which a rename needs to replace without touching an
// alias or the surrounding brackets.
type Wikilink struct {
	Target      string
	Alias       string
	Range       Range
	TargetRange Range
}

// Tag is one token inside a frontmatter `tags: [...]` array. Range covers
// only the token itself, not surrounding punctuation or whitespace.
type Tag struct {
	Name  string
	Range Range
}

// Frontmatter is the leading `---`-delimited metadata block. EndLine is the
// zero-based index of the closing `---` line; content after it is the
// document body.
type Frontmatter struct {
	EndLine int
	Tags    []Tag
}

// ParseWikilinks runs the bracket state machine over every line of text.
// States are Text, SawOpen, Inside, SawClose, though in practice the scan is
// expressed as a left-to-right bracket search per line: a `[[` opens a
// pending match, the first subsequent `]]` on the same line closes it and
// emits a record, and reaching end-of-line while a match is pending discards
// it (a newline inside Inside abandons the construct — wikilinks never span
// lines). An unmatched `[[` with no later `]]` on that line is silently
// skipped; nested `[[` is not supported, so the first `[[` always pairs with
// the first `]]` that follows it.
func ParseWikilinks(text string) []Wikilink {
	var links []Wikilink
	for lineNum, line := range splitLines(text) {
		i := 0
		for i < len(line)-1 {
			if line[i] != '[' || line[i+1] != '[' {
				i++
				continue
			}
			start := i
			closePos := -1
			for j := i + 2; j < len(line)-1; j++ {
				if line[j] == ']' && line[j+1] == ']' {
					closePos = j
					break
				}
			}
			if closePos == -1 {
				i++
				continue
			}
			content := line[start+2 : closePos]
			rawTarget := content
			alias := ""
			if pipe := strings.IndexByte(content, '|'); pipe != -1 {
				rawTarget = content[:pipe]
				alias = strings.TrimSpace(content[pipe+1:])
			}
			target := strings.TrimSpace(rawTarget)
			if target != "" {
				targetStart := start + 2 + (len(rawTarget) - len(strings.TrimLeft(rawTarget, " \t")))
				links = append(links, Wikilink{
					Target: target,
					Alias:  alias,
					Range: Range{
						Start: Position{Line: lineNum, Character: start},
						End:   Position{Line: lineNum, Character: closePos + 2},
					},
					TargetRange: Range{
						Start: Position{Line: lineNum, Character: targetStart},
						End:   Position{Line: lineNum, Character: targetStart + len(target)},
					},
				})
			}
			i = closePos + 2
		}
	}
	return links
}

var frontmatterDelim = regexp.MustCompile(`^---\s*$`)

// ParseFrontmatter reports the frontmatter block, if one is present: the
// document's first line must be `---` and a later line must also be `---`
// (trailing whitespace allowed on both). Returns ok=false when either
// delimiter is missing.
func ParseFrontmatter(text string) (fm Frontmatter, ok bool) {
	lines := splitLines(text)
	if len(lines) == 0 || !frontmatterDelim.MatchString(lines[0]) {
		return Frontmatter{}, false
	}
	for i := 1; i < len(lines); i++ {
		if frontmatterDelim.MatchString(lines[i]) {
			fm.EndLine = i
			fm.Tags = parseTagsInRange(lines, 1, i)
			return fm, true
		}
	}
	return Frontmatter{}, false
}

// ParseTags returns the tags array entries from the document's frontmatter,
// or an empty slice when there is no frontmatter or no `tags:` key.
func ParseTags(text string) []Tag {
	fm, ok := ParseFrontmatter(text)
	if !ok {
		return nil
	}
	return fm.Tags
}

var tagsKeyPattern = regexp.MustCompile(`^\s*tags\s*:\s*\[`)

// parseTagsInRange locates the first line matching `tags: [` within
// [start,end) and splits its bracket interior by comma. Ties among
// duplicate `tags:` keys are broken in favor of the first occurrence.
func parseTagsInRange(lines []string, start, end int) []Tag {
	for lineNum := start; lineNum < end; lineNum++ {
		line := lines[lineNum]
		loc := tagsKeyPattern.FindStringIndex(line)
		if loc == nil {
			continue
		}
		bracketStart := loc[1] - 1 // position of '['
		bracketEnd := strings.IndexByte(line[bracketStart:], ']')
		if bracketEnd == -1 {
			return nil
		}
		bracketEnd += bracketStart
		return splitTagTokens(line, lineNum, bracketStart+1, bracketEnd)
	}
	return nil
}

// splitTagTokens splits line[from:to] on commas into trimmed tag tokens,
// each carrying the precise column range of its non-whitespace content.
// Empty tokens (consecutive commas, trailing comma) are skipped.
func splitTagTokens(line string, lineNum, from, to int) []Tag {
	var tags []Tag
	interior := line[from:to]
	pos := from
	for _, raw := range strings.Split(interior, ",") {
		tokenStart := pos
		pos += len(raw) + 1 // +1 accounts for the comma consumed by Split
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			continue
		}
		leadingSpace := strings.IndexFunc(raw, func(r rune) bool { return r != ' ' && r != '\t' })
		if leadingSpace < 0 {
			leadingSpace = 0
		}
		tagStart := tokenStart + leadingSpace
		tags = append(tags, Tag{
			Name: trimmed,
			Range: Range{
				Start: Position{Line: lineNum, Character: tagStart},
				End:   Position{Line: lineNum, Character: tagStart + len(trimmed)},
			},
		})
	}
	return tags
}

// TagsLineInfo describes the cursor's position relative to a `tags: [...]`
// array found on its own line, independent of whether that line happens to
// fall inside an actual frontmatter block — the context discriminator only
// needs to know "is this line shaped like a tags array, and is the cursor
// inside its brackets".
type TagsLineInfo struct {
	LineContent          string
	TagsArrayStartColumn int
}

// FindTagsLineInfo reports whether cursor sits on a line shaped like
// `tags: [...]` and, if so, whether the cursor falls within the bracket
// span (inclusive of both brackets, so the cursor can sit right after `[`
// or right before `]`). An array with no closing `]` runs to the end of the
// line, so the cursor may sit at the line's end.
func FindTagsLineInfo(text string, cursor Position) (TagsLineInfo, bool) {
	lines := splitLines(text)
	if cursor.Line < 0 || cursor.Line >= len(lines) {
		return TagsLineInfo{}, false
	}
	line := lines[cursor.Line]
	loc := tagsKeyPattern.FindStringIndex(line)
	if loc == nil {
		return TagsLineInfo{}, false
	}
	bracketStart := loc[1] - 1
	bracketEnd := strings.IndexByte(line[bracketStart:], ']')
	if bracketEnd == -1 {
		bracketEnd = len(line)
	} else {
		bracketEnd += bracketStart
	}
	if cursor.Character < bracketStart || cursor.Character > bracketEnd {
		return TagsLineInfo{}, false
	}
	return TagsLineInfo{LineContent: line, TagsArrayStartColumn: bracketStart}, true
}

// splitLines splits on \n and strips a trailing \r from each line, so
// CRLF-terminated files scan identically to LF-terminated ones.
func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
