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

package diagnostics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bracketnotes/bracketls/internal/index"
	"github.com/bracketnotes/bracketls/pkg/protocol"
)

func TestEngine_DiagnoseFlagsUnresolvedTarget(t *testing.T) {
	e := NewEngine(index.NewFileIndex())
	diags := e.Diagnose("See [[missing]] for more")

	if len(diags) != 1 {
		t.Fatalf("Diagnose() = %+v, want 1 diagnostic", diags)
	}
	d := diags[0]
	if d.Severity != protocol.DiagnosticSeverityError {
		t.Errorf("Severity = %v, want Error", d.Severity)
	}
	if d.Source != Source {
		t.Errorf("Source = %q, want %q", d.Source, Source)
	}
	want := "Broken wikilink: target file 'missing' not found"
	if d.Message != want {
		t.Errorf("Message = %q, want %q", d.Message, want)
	}
}

func TestEngine_DiagnoseSkipsResolvedTarget(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "note.md")
	if err := os.WriteFile(path, []byte("content"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	files := index.NewFileIndex()
	files.Add(path)

	e := NewEngine(files)
	diags := e.Diagnose("See [[note]]")

	if len(diags) != 0 {
		t.Errorf("Diagnose() = %+v, want no diagnostics for a resolved target", diags)
	}
}

func TestEngine_PublishParamsForClearsBeforePublishing(t *testing.T) {
	e := NewEngine(index.NewFileIndex())
	clear, publish := e.PublishParamsFor("file:///a.md", "See [[missing]]", 3)

	if len(clear.Diagnostics) != 0 {
		t.Errorf("clear.Diagnostics = %+v, want empty", clear.Diagnostics)
	}
	if len(publish.Diagnostics) != 1 {
		t.Errorf("publish.Diagnostics = %+v, want 1", publish.Diagnostics)
	}
	if clear.Version == nil || *clear.Version != 3 || publish.Version == nil || *publish.Version != 3 {
		t.Errorf("Version mismatch: clear=%v publish=%v, want both 3", clear.Version, publish.Version)
	}
}
