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

// Package document holds the shadow buffer of open editor documents: the
// Document Store keyed by URI, kept in sync via didOpen/didChange/didClose.
package document

import (
	"sync"

	"github.com/bracketnotes/bracketls/internal/scanner"
)

// Document is one open editor buffer plus its parsed wikilinks.
type Document struct {
	URI       string
	Content   string
	Version   int
	Wikilinks []scanner.Wikilink
}

// Store is the shadow copy of every open document. Full-text replacement
// only — range-based partial edits are out of scope (spec.md Non-goals),
// so DidChange always reparses the whole buffer.
type Store struct {
	mu   sync.RWMutex
	docs map[string]*Document
}

func NewStore() *Store {
	return &Store{docs: make(map[string]*Document)}
}

func (s *Store) DidOpen(uri, text string, version int) {
	doc := &Document{
		URI:       uri,
		Content:   text,
		Version:   version,
		Wikilinks: scanner.ParseWikilinks(text),
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[uri] = doc
}

func (s *Store) DidChange(uri, text string, version int) {
	doc := &Document{
		URI:       uri,
		Content:   text,
		Version:   version,
		Wikilinks: scanner.ParseWikilinks(text),
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[uri] = doc
}

func (s *Store) DidClose(uri string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, uri)
}

// Get returns the document for uri, if open.
func (s *Store) Get(uri string) (*Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[uri]
	return doc, ok
}

// WikilinkAt returns the wikilink whose range contains pos, via a linear
// scan of the document's wikilink array — these arrays are small (one
// document's worth of links), so a range-tree is not worth the complexity.
func (s *Store) WikilinkAt(uri string, pos scanner.Position) (scanner.Wikilink, bool) {
	doc, ok := s.Get(uri)
	if !ok {
		return scanner.Wikilink{}, false
	}
	for _, wl := range doc.Wikilinks {
		if wl.Range.Contains(pos) {
			return wl, true
		}
	}
	return scanner.Wikilink{}, false
}

// All returns every open document, for workspace-wide revalidation (e.g.
// after a watcher rebuild republishes diagnostics for every open buffer).
func (s *Store) All() []*Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Document, 0, len(s.docs))
	for _, d := range s.docs {
		out = append(out, d)
	}
	return out
}
