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

package rename

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bracketnotes/bracketls/internal/index"
	"github.com/bracketnotes/bracketls/pkg/protocol"
)

// fakeCorpus backs Corpus with an in-memory file table, so tests never touch
// the real filesystem beyond what index.FileIndex.Add needs to stat.
type fakeCorpus struct {
	files   *index.FileIndex
	content map[string]string
}

func newFakeCorpus(t *testing.T) *fakeCorpus {
	t.Helper()
	return &fakeCorpus{files: index.NewFileIndex(), content: make(map[string]string)}
}

func (f *fakeCorpus) addFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	f.files.Add(path)
	f.content[path] = content
	return path
}

func (f *fakeCorpus) Files() *index.FileIndex { return f.files }

func (f *fakeCorpus) ReadFile(path string) (string, bool) {
	text, ok := f.content[path]
	return text, ok
}

func (f *fakeCorpus) URIForPath(path string) string {
	return "file://" + path
}

func TestPlanner_TagRenameEmitsEditPerOccurrence(t *testing.T) {
	dir := t.TempDir()
	corpus := newFakeCorpus(t)
	pathA := corpus.addFile(t, dir, "a.md", "---\ntags: [project]\n---\nbody")
	pathB := corpus.addFile(t, dir, "b.md", "---\ntags: [project, personal]\n---\nbody")

	tags := index.NewTagIndex()
	tags.UpsertTagsForFile(pathA, []string{"project"})
	tags.UpsertTagsForFile(pathB, []string{"project", "personal"})

	p := NewPlanner(corpus)
	edit := p.TagRename(tags, "project", "work")

	if len(edit.Changes) != 2 {
		t.Fatalf("Changes = %+v, want edits for 2 files", edit.Changes)
	}
	uriA := corpus.URIForPath(pathA)
	if len(edit.Changes[uriA]) != 1 || edit.Changes[uriA][0].NewText != "work" {
		t.Errorf("Changes[a.md] = %+v, want one edit to 'work'", edit.Changes[uriA])
	}
}

func TestPlanner_WikilinkRenameEmitsFileRenameAndTextEdits(t *testing.T) {
	dir := t.TempDir()
	corpus := newFakeCorpus(t)
	target := corpus.addFile(t, dir, "old.md", "content")
	referrer := corpus.addFile(t, dir, "ref.md", "See [[old]] again")

	p := NewPlanner(corpus)
	edit := p.WikilinkRename("old", "new")

	if len(edit.DocumentChanges) != 2 {
		t.Fatalf("DocumentChanges = %+v, want 2 entries (rename + text edit)", edit.DocumentChanges)
	}

	rf, ok := edit.DocumentChanges[0].(protocol.RenameFile)
	if !ok {
		t.Fatalf("DocumentChanges[0] = %+v, want a RenameFile", edit.DocumentChanges[0])
	}
	if rf.OldURI != corpus.URIForPath(target) {
		t.Errorf("RenameFile.OldURI = %q, want %q", rf.OldURI, corpus.URIForPath(target))
	}

	tde, ok := edit.DocumentChanges[1].(protocol.TextDocumentEdit)
	if !ok {
		t.Fatalf("DocumentChanges[1] = %+v, want a TextDocumentEdit", edit.DocumentChanges[1])
	}
	if tde.TextDocument.URI != corpus.URIForPath(referrer) {
		t.Errorf("TextDocumentEdit.TextDocument.URI = %q, want %q", tde.TextDocument.URI, corpus.URIForPath(referrer))
	}
	if len(tde.Edits) != 1 || tde.Edits[0].NewText != "new" {
		t.Errorf("Edits = %+v, want one edit retargeting to 'new'", tde.Edits)
	}

	_, resolvedAfter := corpus.Files().Resolve("new")
	if !resolvedAfter {
		t.Errorf("Resolve(new) = not found after rename, want resolved")
	}
	_, stillOld := corpus.Files().Resolve("old")
	if stillOld {
		t.Errorf("Resolve(old) = found after rename, want gone")
	}
}

func TestPlanner_WikilinkRenamePreservesExtensionForm(t *testing.T) {
	dir := t.TempDir()
	corpus := newFakeCorpus(t)
	corpus.addFile(t, dir, "old.md", "content")
	corpus.addFile(t, dir, "ref.md", "See [[old.md]] again")

	p := NewPlanner(corpus)
	edit := p.WikilinkRename("old.md", "new")

	tde, ok := edit.DocumentChanges[1].(protocol.TextDocumentEdit)
	if !ok {
		t.Fatalf("DocumentChanges[1] = %+v, want a TextDocumentEdit", edit.DocumentChanges[1])
	}
	// old target had an extension and new is bare, so the old extension carries over.
	if len(tde.Edits) != 1 || tde.Edits[0].NewText != "new.md" {
		t.Errorf("Edits = %+v, want retarget to 'new.md'", tde.Edits)
	}
}

func TestPlanner_WikilinkRenameUnresolvedTargetEditsTextOnly(t *testing.T) {
	dir := t.TempDir()
	corpus := newFakeCorpus(t)
	corpus.addFile(t, dir, "ref.md", "See [[ghost]] again")

	p := NewPlanner(corpus)
	edit := p.WikilinkRename("ghost", "renamed")

	if len(edit.DocumentChanges) != 1 {
		t.Fatalf("DocumentChanges = %+v, want exactly 1 text edit, no file rename", edit.DocumentChanges)
	}
	if _, ok := edit.DocumentChanges[0].(protocol.RenameFile); ok {
		t.Errorf("DocumentChanges[0] is a RenameFile, want none for an unresolved target")
	}
}
