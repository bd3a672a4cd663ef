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

package watcher

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/bracketnotes/bracketls/pkg/log"
)

type stubDiscoverer struct {
	mu    sync.Mutex
	files []string
}

func (s *stubDiscoverer) Discover() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.files))
	copy(out, s.files)
	return out, nil
}

func (s *stubDiscoverer) setFiles(files []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files = files
}

func TestWatcher_CheckAndRebuildSkipsWhenCountUnchanged(t *testing.T) {
	d := &stubDiscoverer{files: []string{"a.md"}}
	var rebuilds int
	w := New(d, t.TempDir(), func(files []string) { rebuilds++ }, log.NewNop())

	w.checkAndRebuild()
	w.checkAndRebuild()

	if rebuilds != 1 {
		t.Errorf("rebuilds = %d, want 1 (second call sees an unchanged count)", rebuilds)
	}
}

func TestWatcher_CheckAndRebuildFiresOnCountChange(t *testing.T) {
	d := &stubDiscoverer{files: []string{"a.md"}}
	var rebuilds int
	w := New(d, t.TempDir(), func(files []string) { rebuilds++ }, log.NewNop())

	w.checkAndRebuild()
	d.setFiles([]string{"a.md", "b.md"})
	w.checkAndRebuild()

	if rebuilds != 2 {
		t.Errorf("rebuilds = %d, want 2", rebuilds)
	}
}

func TestWatcher_RunStopsOnContextCancel(t *testing.T) {
	d := &stubDiscoverer{}
	w := New(d, t.TempDir(), func(files []string) {}, log.NewNop())
	w.interval = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after context cancellation")
	}
}
