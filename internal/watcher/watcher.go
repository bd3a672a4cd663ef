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

// Package watcher runs the poll-based workspace change detector: every
// interval it rediscovers the workspace's Markdown files and, when the file
// count differs from the last known count, signals a rebuild. A recursive
// fsnotify watch layers underneath as an accelerant that wakes the poller
// early; the poll-and-compare contract remains the sole authority on
// whether a rebuild actually happens, so correctness never depends on
// fsnotify delivering every event.
package watcher

import (
	"context"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"

	notedownfsnotify "github.com/bracketnotes/bracketls/internal/fsnotify"
	"github.com/bracketnotes/bracketls/pkg/log"
)

// MinInterval is the poll period, and also the rate limit on
// fsnotify-triggered early checks. The ticker and the limiter are
// independent, so an early check can land shortly after a ticker check.
const MinInterval = 2 * time.Second

// Discoverer walks the workspace and returns every Markdown file found, so
// Watcher can compare counts without owning the walk itself.
type Discoverer interface {
	Discover() ([]string, error)
}

// Watcher polls Discoverer on a fixed interval, accelerated by fsnotify
// events on watchRoot, and invokes onRebuild whenever the discovered file
// count changes.
type Watcher struct {
	discoverer Discoverer
	watchRoot  string
	interval   time.Duration
	onRebuild  func(files []string)
	logger     *log.Logger

	limiter *rate.Limiter
	lastN   int
}

func New(discoverer Discoverer, watchRoot string, onRebuild func(files []string), logger *log.Logger) *Watcher {
	return &Watcher{
		discoverer: discoverer,
		watchRoot:  watchRoot,
		interval:   MinInterval,
		onRebuild:  onRebuild,
		logger:     logger,
		// Collapses a burst of fsnotify events (e.g. a git checkout
		// touching thousands of files) into at most one early rebuild
		// check every MinInterval, matching the poll floor.
		limiter: rate.NewLimiter(rate.Every(MinInterval), 1),
		lastN:   -1,
	}
}

// Run blocks until ctx is cancelled, polling on w.interval and waking early
// on fsnotify write/create/remove events under watchRoot.
func (w *Watcher) Run(ctx context.Context) {
	rw, err := notedownfsnotify.NewRecursiveWatcher(w.watchRoot)
	if err != nil {
		w.logger.Warn("fsnotify accelerant unavailable, falling back to pure polling", "error", err)
		rw = nil
	}
	if rw != nil {
		defer rw.Close()
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.checkAndRebuild()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.checkAndRebuild()
		case <-fsnotifyEvents(rw):
			if w.limiter.Allow() {
				w.checkAndRebuild()
			}
		}
	}
}

// fsnotifyEvents returns rw's event channel, or nil if rw is nil — a nil
// channel blocks forever in a select, which is exactly "this case never
// fires" when the accelerant failed to start.
func fsnotifyEvents(rw *notedownfsnotify.RecursiveWatcher) <-chan fsnotify.Event {
	if rw == nil {
		return nil
	}
	return rw.Events()
}

func (w *Watcher) checkAndRebuild() {
	files, err := w.discoverer.Discover()
	if err != nil {
		w.logger.Error("workspace rediscovery failed", "error", err)
		return
	}
	if len(files) == w.lastN {
		return
	}
	w.logger.Info("file count changed, rebuilding index", "previous", w.lastN, "current", len(files))
	w.lastN = len(files)
	w.onRebuild(files)
}
