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

package protocol

type WorkspaceFolder struct {
	URI  string `json:"uri"`
	Name string `json:"name"`
}

type FileChangeType int

const (
	FileChangeTypeCreated FileChangeType = 1
	FileChangeTypeChanged FileChangeType = 2
	FileChangeTypeDeleted FileChangeType = 3
)

type FileEvent struct {
	URI  string         `json:"uri"`
	Type FileChangeType `json:"type"`
}

type DidChangeWatchedFilesParams struct {
	Changes []FileEvent `json:"changes"`
}

// TextDocumentEdit edits one versioned document; it is one of the concrete
// entries a WorkspaceEdit.DocumentChanges array may hold.
type TextDocumentEdit struct {
	TextDocument VersionedTextDocumentIdentifier `json:"textDocument"`
	Edits        []TextEdit                      `json:"edits"`
}

// RenameFile is a resource operation moving oldUri to newUri. It carries a
// Kind discriminator so the client can tell document edits and resource
// operations apart inside the polymorphic DocumentChanges array.
type RenameFile struct {
	Kind    string `json:"kind"` // always "rename"
	OldURI  string `json:"oldUri"`
	NewURI  string `json:"newUri"`
}

func NewRenameFile(oldURI, newURI string) RenameFile {
	return RenameFile{Kind: "rename", OldURI: oldURI, NewURI: newURI}
}

// WorkspaceEdit bundles text edits and, at most for this server's rename
// planner, a single file-rename resource operation. The wikilink rename path
// always uses DocumentChanges so the rename operation serializes in order
// with the text edits it depends on; the tag rename path, which never moves
// a file, uses Changes instead.
type WorkspaceEdit struct {
	Changes         map[string][]TextEdit `json:"changes,omitempty"`
	DocumentChanges []any                 `json:"documentChanges,omitempty"`
}

type ApplyWorkspaceEditParams struct {
	Label *string       `json:"label,omitempty"`
	Edit  WorkspaceEdit `json:"edit"`
}

type RenameParams struct {
	TextDocumentPositionParams
	NewName string `json:"newName"`
}

type PrepareRenameParams struct {
	TextDocumentPositionParams
}

// PrepareRenameResult echoes back the range of the identifier under the
// cursor so the client can seed its rename input box.
type PrepareRenameResult struct {
	Range       Range  `json:"range"`
	Placeholder string `json:"placeholder"`
}
