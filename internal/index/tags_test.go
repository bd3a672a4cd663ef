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

package index

import (
	"reflect"
	"testing"
)

func TestTagIndex_BidirectionalConsistency(t *testing.T) {
	ti := NewTagIndex()
	ti.UpsertTagsForFile("a.md", []string{"project", "work"})
	ti.UpsertTagsForFile("b.md", []string{"project"})

	if got := ti.FilesFor("project"); !reflect.DeepEqual(got, []string{"a.md", "b.md"}) {
		t.Errorf("FilesFor(project) = %v, want [a.md b.md]", got)
	}
	if got := ti.TagCount("work"); got != 1 {
		t.Errorf("TagCount(work) = %d, want 1", got)
	}
}

func TestTagIndex_RemoveFilePurgesBothHalves(t *testing.T) {
	ti := NewTagIndex()
	ti.UpsertTagsForFile("a.md", []string{"project"})
	ti.RemoveFile("a.md")

	if got := ti.FilesFor("project"); len(got) != 0 {
		t.Errorf("FilesFor(project) = %v, want empty", got)
	}
	if tags := ti.AllTags(); len(tags) != 0 {
		t.Errorf("AllTags() = %v, want empty", tags)
	}
}

func TestTagIndex_UpsertReplacesPreviousSet(t *testing.T) {
	ti := NewTagIndex()
	ti.UpsertTagsForFile("a.md", []string{"old"})
	ti.UpsertTagsForFile("a.md", []string{"new"})

	if got := ti.FilesFor("old"); len(got) != 0 {
		t.Errorf("FilesFor(old) = %v, want empty after replace", got)
	}
	if got := ti.FilesFor("new"); !reflect.DeepEqual(got, []string{"a.md"}) {
		t.Errorf("FilesFor(new) = %v, want [a.md]", got)
	}
}

func TestTagIndex_RenameScenarioFromSpec(t *testing.T) {
	// Mirrors spec.md's tag-rename end-to-end scenario: a.md and b.md both
	// tagged "project"; rename project -> work.
	ti := NewTagIndex()
	ti.UpsertTagsForFile("a.md", []string{"project"})
	ti.UpsertTagsForFile("b.md", []string{"project"})

	ti.UpsertTagsForFile("a.md", []string{"work"})
	ti.UpsertTagsForFile("b.md", []string{"work"})

	if got := ti.FilesFor("project"); len(got) != 0 {
		t.Errorf("FilesFor(project) = %v, want empty", got)
	}
	if got := ti.FilesFor("work"); !reflect.DeepEqual(got, []string{"a.md", "b.md"}) {
		t.Errorf("FilesFor(work) = %v, want [a.md b.md]", got)
	}
}

func TestTagIndex_TagsWithPrefix(t *testing.T) {
	ti := NewTagIndex()
	ti.UpsertTagsForFile("a.md", []string{"project/alpha", "project/beta", "personal"})

	got := ti.TagsWithPrefix("project/")
	if !reflect.DeepEqual(got, []string{"project/alpha", "project/beta"}) {
		t.Errorf("TagsWithPrefix(project/) = %v, want [project/alpha project/beta]", got)
	}
}
