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

package discriminator

import (
	"testing"

	"github.com/bracketnotes/bracketls/internal/scanner"
)

func TestClassify_WikilinkInteriorWithQuery(t *testing.T) {
	text := "prefix [[tar"
	ctx := Classify(text, scanner.Position{Line: 0, Character: len(text)})

	if ctx.Kind != Wikilink {
		t.Fatalf("Kind = %v, want Wikilink", ctx.Kind)
	}
	if ctx.Query != "tar" {
		t.Errorf("Query = %q, want %q", ctx.Query, "tar")
	}
	if ctx.Range.Start.Character != 9 {
		t.Errorf("Range.Start.Character = %d, want 9", ctx.Range.Start.Character)
	}
}

func TestClassify_WikilinkImmediatelyAfterOpenBracketsIsEmptyQuery(t *testing.T) {
	text := "See [["
	ctx := Classify(text, scanner.Position{Line: 0, Character: len(text)})

	if ctx.Kind != Wikilink {
		t.Fatalf("Kind = %v, want Wikilink", ctx.Kind)
	}
	if ctx.Query != "" {
		t.Errorf("Query = %q, want empty", ctx.Query)
	}
}

func TestClassify_WikilinkQueryTruncatesAtPipe(t *testing.T) {
	text := "[[target|al"
	ctx := Classify(text, scanner.Position{Line: 0, Character: len(text)})

	if ctx.Kind != Wikilink {
		t.Fatalf("Kind = %v, want Wikilink", ctx.Kind)
	}
	if ctx.Query != "al" {
		t.Errorf("Query = %q, want %q", ctx.Query, "al")
	}
	if ctx.Range.Start.Character != 9 {
		t.Errorf("Range.Start.Character = %d, want 9", ctx.Range.Start.Character)
	}
}

func TestClassify_ClosedWikilinkIsNotInteriorPastIt(t *testing.T) {
	text := "[[target]] more"
	ctx := Classify(text, scanner.Position{Line: 0, Character: len(text)})

	if ctx.Kind != None {
		t.Errorf("Kind = %v, want None once past a closed wikilink", ctx.Kind)
	}
}

func TestClassify_TagInteriorWithPrefix(t *testing.T) {
	text := "tags: [proj, wor]"
	ctx := Classify(text, scanner.Position{Line: 0, Character: 16})

	if ctx.Kind != Tag {
		t.Fatalf("Kind = %v, want Tag", ctx.Kind)
	}
	if ctx.Query != "wor" {
		t.Errorf("Query = %q, want %q", ctx.Query, "wor")
	}
}

func TestClassify_TagInteriorEmptyPrefixAfterOpenBracket(t *testing.T) {
	text := "tags: []"
	ctx := Classify(text, scanner.Position{Line: 0, Character: 7})

	if ctx.Kind != Tag {
		t.Fatalf("Kind = %v, want Tag", ctx.Kind)
	}
	if ctx.Query != "" {
		t.Errorf("Query = %q, want empty", ctx.Query)
	}
}

func TestClassify_TagInteriorEmptyPrefixAfterComma(t *testing.T) {
	text := "tags: [proj, ]"
	ctx := Classify(text, scanner.Position{Line: 0, Character: 13})

	if ctx.Kind != Tag {
		t.Fatalf("Kind = %v, want Tag", ctx.Kind)
	}
	if ctx.Query != "" {
		t.Errorf("Query = %q, want empty", ctx.Query)
	}
}

func TestClassify_NoneOutsideAnyBracket(t *testing.T) {
	text := "just plain prose"
	ctx := Classify(text, scanner.Position{Line: 0, Character: 5})

	if ctx.Kind != None {
		t.Errorf("Kind = %v, want None", ctx.Kind)
	}
}
