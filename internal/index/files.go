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
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/cases"
)

var fold = cases.Fold()

// FileRecord is one indexed workspace file.
type FileRecord struct {
	Path            string // canonical on-disk path
	Basename        string // display basename, extension stripped
	FoldedBasename  string // case-folded Basename, used as the lookup key
	ModTime         time.Time
}

// FileIndex maps a stem (basename, case/extension-insensitive) to its
// canonical path. Basename collisions are resolved last-writer-wins on the
// folded key, but every record stays reachable by its canonical path.
type FileIndex struct {
	mu       sync.RWMutex
	byPath   map[string]*FileRecord
	byFolded map[string]*FileRecord
}

func NewFileIndex() *FileIndex {
	return &FileIndex{
		byPath:   make(map[string]*FileRecord),
		byFolded: make(map[string]*FileRecord),
	}
}

// Add stats path and inserts it into both maps. A missing-file stat error is
// swallowed — the file is simply omitted from the index, matching the
// scanner's "never throws" posture for filesystem churn mid-scan.
func (fi *FileIndex) Add(path string) {
	info, err := os.Stat(path)
	if err != nil {
		return
	}
	base := filepath.Base(path)
	basename := strings.TrimSuffix(base, filepath.Ext(base))
	record := &FileRecord{
		Path:           path,
		Basename:       basename,
		FoldedBasename: fold.String(basename),
		ModTime:        info.ModTime(),
	}

	fi.mu.Lock()
	defer fi.mu.Unlock()
	fi.byPath[path] = record
	fi.byFolded[record.FoldedBasename] = record // last writer wins
}

// Resolve looks up a wikilink target string: a trailing .md is stripped,
// then the remainder is folded and matched against the basename map.
func (fi *FileIndex) Resolve(target string) (string, bool) {
	stripped := strings.TrimSuffix(target, ".md")
	stripped = strings.TrimSuffix(stripped, ".MD")
	key := fold.String(stripped)

	fi.mu.RLock()
	defer fi.mu.RUnlock()
	record, ok := fi.byFolded[key]
	if !ok {
		return "", false
	}
	return record.Path, true
}

// Remove purges path from both maps. If path's folded-basename entry was
// the one being removed, that key disappears; any other file that folds to
// the same basename is not re-promoted (the caller must re-Add it, as a
// rebuild does).
func (fi *FileIndex) Remove(path string) {
	fi.mu.Lock()
	defer fi.mu.Unlock()
	record, ok := fi.byPath[path]
	if !ok {
		return
	}
	delete(fi.byPath, path)
	if fi.byFolded[record.FoldedBasename] == record {
		delete(fi.byFolded, record.FoldedBasename)
	}
}

// Rename removes the old path and adds the new one. A new path that is not
// on disk yet (the editor has not applied the rename) is still indexed by
// name, with a zero ModTime. Not atomic — readers between the two steps
// could momentarily see neither.
func (fi *FileIndex) Rename(oldPath, newPath string) {
	fi.Remove(oldPath)
	fi.Add(newPath)

	fi.mu.Lock()
	defer fi.mu.Unlock()
	if _, ok := fi.byPath[newPath]; ok {
		return
	}
	base := filepath.Base(newPath)
	basename := strings.TrimSuffix(base, filepath.Ext(base))
	record := &FileRecord{Path: newPath, Basename: basename, FoldedBasename: fold.String(basename)}
	fi.byPath[newPath] = record
	fi.byFolded[record.FoldedBasename] = record
}

// All returns a snapshot of every indexed file, for workspace-wide scans
// such as the rename planner's wikilink rewrite pass.
func (fi *FileIndex) All() []FileRecord {
	fi.mu.RLock()
	defer fi.mu.RUnlock()
	out := make([]FileRecord, 0, len(fi.byPath))
	for _, r := range fi.byPath {
		out = append(out, *r)
	}
	return out
}

func (fi *FileIndex) Len() int {
	fi.mu.RLock()
	defer fi.mu.RUnlock()
	return len(fi.byPath)
}
