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

package server

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/bracketnotes/bracketls/internal/completion"
	"github.com/bracketnotes/bracketls/internal/diagnostics"
	"github.com/bracketnotes/bracketls/internal/index"
	"github.com/bracketnotes/bracketls/internal/scanner"
)

// excludedDirs mirrors the teacher's workspace scan ignore list: directories
// that commonly sit in a notes vault but are never themselves notes.
var excludedDirs = []string{
	".git", ".obsidian", ".vscode", ".idea", "node_modules", ".trash",
}

func isExcludedDir(path string) bool {
	name := filepath.Base(path)
	for _, ex := range excludedDirs {
		if name == ex {
			return true
		}
	}
	return false
}

func isMarkdownFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".md" || ext == ".markdown"
}

// Discover implements watcher.Discoverer: a recursive walk of every root
// collecting Markdown file paths, with no indexing side effect — the
// watcher only needs the count and the list to decide whether to rebuild.
func (s *Server) Discover() ([]string, error) {
	var files []string
	for _, root := range s.currentRoots() {
		err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if d.IsDir() {
				if path != root && isExcludedDir(path) {
					return filepath.SkipDir
				}
				return nil
			}
			if isMarkdownFile(path) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}

// scanWorkspace rebuilds the File Index, Tag Index, and Link Graph from
// scratch. File Index population happens first in its own pass so wikilink
// targets discovered in the second pass resolve against the complete set of
// files, not whatever had been added so far.
func (s *Server) scanWorkspace() error {
	files, err := s.Discover()
	if err != nil {
		return err
	}

	newFiles := index.NewFileIndex()
	for _, path := range files {
		newFiles.Add(path)
	}

	newTags := index.NewTagIndex()
	newGraph := index.NewLinkGraph()
	for _, path := range files {
		text, err := os.ReadFile(path)
		if err != nil {
			s.logger.Warn("failed to read file during scan", "path", path, "error", err)
			continue
		}
		s.indexFileContent(path, string(text), newFiles, newTags, newGraph)
	}

	newCompletion := completion.NewEngine(newFiles, newTags)
	newDiagnostics := diagnostics.NewEngine(newFiles)

	s.mu.Lock()
	s.files = newFiles
	s.tags = newTags
	s.graph = newGraph
	s.completion = newCompletion
	s.diagnostics = newDiagnostics
	s.mu.Unlock()

	s.logger.Info("workspace scan complete", "files", len(files))
	return nil
}

func (s *Server) indexFileContent(path, text string, files *index.FileIndex, tags *index.TagIndex, graph *index.LinkGraph) {
	fileTags := scanner.ParseTags(text)
	names := make([]string, 0, len(fileTags))
	for _, t := range fileTags {
		names = append(names, t.Name)
		graph.AddTagUsage(path, t.Name)
	}
	tags.UpsertTagsForFile(path, names)

	for _, wl := range scanner.ParseWikilinks(text) {
		if target, ok := files.Resolve(wl.Target); ok {
			graph.AddLink(path, target)
		}
	}
}

// onWorkspaceRebuilt is the watcher's rebuild callback: rescan, then
// revalidate every open document and republish its diagnostics.
func (s *Server) onWorkspaceRebuilt(_ []string) {
	if err := s.scanWorkspace(); err != nil {
		s.logger.Error("workspace rescan failed", "error", err)
		return
	}
	for _, doc := range s.docs.All() {
		s.publishDiagnosticsFor(doc.URI, doc.Content, doc.Version)
	}
}

// rename.Corpus implementation — Server mediates file reads through the
// open-document shadow buffer first, falling back to disk, so a rename
// operating on an unsaved edit sees the edit rather than the stale file.

func (s *Server) Files() *index.FileIndex {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.files
}

func (s *Server) Tags() *index.TagIndex {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tags
}

func (s *Server) Graph() *index.LinkGraph {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.graph
}

func (s *Server) completionEngine() *completion.Engine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.completion
}

func (s *Server) diagnosticsEngine() *diagnostics.Engine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.diagnostics
}

func (s *Server) ReadFile(path string) (string, bool) {
	uri := index.PathToURI(path)
	if doc, ok := s.docs.Get(uri); ok {
		return doc.Content, true
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	return string(data), true
}

func (s *Server) URIForPath(path string) string {
	return index.PathToURI(path)
}

func uriToPath(uri string) (string, bool) {
	return index.URIToPath(uri)
}
