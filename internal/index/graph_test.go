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

func TestLinkGraph_BacklinksAndForwardLinks(t *testing.T) {
	g := NewLinkGraph()
	g.AddLink("a.md", "b.md")
	g.AddLink("c.md", "b.md")

	if got := g.FilesReferencingFile("b.md"); !reflect.DeepEqual(got, []string{"a.md", "c.md"}) {
		t.Errorf("FilesReferencingFile(b.md) = %v, want [a.md c.md]", got)
	}
	if got := g.FilesReferencedBy("a.md"); !reflect.DeepEqual(got, []string{"b.md"}) {
		t.Errorf("FilesReferencedBy(a.md) = %v, want [b.md]", got)
	}
}

func TestLinkGraph_ClearFileDropsAllEdges(t *testing.T) {
	g := NewLinkGraph()
	g.AddLink("a.md", "b.md")
	g.AddLink("b.md", "c.md")
	g.AddTagUsage("a.md", "project")

	g.ClearFile("a.md")

	if got := g.FilesReferencingFile("b.md"); len(got) != 0 {
		t.Errorf("FilesReferencingFile(b.md) = %v, want empty after clearing a.md", got)
	}
	if got := g.FilesReferencedBy("a.md"); len(got) != 0 {
		t.Errorf("FilesReferencedBy(a.md) = %v, want empty after clearing a.md", got)
	}
	if got := g.FilesReferencingTag("project"); len(got) != 0 {
		t.Errorf("FilesReferencingTag(project) = %v, want empty after clearing a.md", got)
	}
	// b.md -> c.md edge must survive; ClearFile only touches a.md's edges.
	if got := g.FilesReferencedBy("b.md"); !reflect.DeepEqual(got, []string{"c.md"}) {
		t.Errorf("FilesReferencedBy(b.md) = %v, want [c.md]", got)
	}
}

func TestLinkGraph_TagUsage(t *testing.T) {
	g := NewLinkGraph()
	g.AddTagUsage("a.md", "project")
	g.AddTagUsage("b.md", "project")

	if got := g.FilesReferencingTag("project"); !reflect.DeepEqual(got, []string{"a.md", "b.md"}) {
		t.Errorf("FilesReferencingTag(project) = %v, want [a.md b.md]", got)
	}
}
