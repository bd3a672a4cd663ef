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

// Package index holds the three workspace-wide lookup structures: the File
// Index (stem to canonical path), the Tag Index (bidirectional tag/file
// membership), and the Link Graph (bidirectional file/file and file/tag
// reference edges).
package index

import (
	"net/url"
	"path/filepath"
)

// PathToURI converts an absolute filesystem path to a file:// URI.
func PathToURI(path string) string {
	abs, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		abs = path
	}
	return "file://" + filepath.ToSlash(abs)
}

// URIToPath converts a file:// URI back to a filesystem path. Non-file
// schemes return ok=false; the caller's spec treats those as out of scope.
func URIToPath(uri string) (string, bool) {
	parsed, err := url.Parse(uri)
	if err != nil || parsed.Scheme != "file" {
		return "", false
	}
	return parsed.Path, true
}
