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

type TextDocumentSyncKind int

const (
	TextDocumentSyncKindNone        TextDocumentSyncKind = 0
	TextDocumentSyncKindFull        TextDocumentSyncKind = 1
	TextDocumentSyncKindIncremental TextDocumentSyncKind = 2
)

type SaveOptions struct {
	IncludeText bool `json:"includeText,omitempty"`
}

type TextDocumentSyncOptions struct {
	OpenClose bool                 `json:"openClose"`
	Change    TextDocumentSyncKind `json:"change"`
	Save      *SaveOptions         `json:"save,omitempty"`
}

type CompletionOptions struct {
	TriggerCharacters []string `json:"triggerCharacters,omitempty"`
	ResolveProvider   bool     `json:"resolveProvider"`
}

// RenameOptions with PrepareProvider set advertises textDocument/prepareRename
// support alongside textDocument/rename.
type RenameOptions struct {
	PrepareProvider bool `json:"prepareProvider"`
}

// ServerCapabilities is pruned to exactly the capabilities this server
// advertises. The full LSP capability set has dozens of optional fields this
// server never sets; carrying them as unused placeholder types would just be
// dead weight borrowed from a protocol implementation with a much larger
// surface than this one exercises.
type ServerCapabilities struct {
	TextDocumentSync    TextDocumentSyncOptions `json:"textDocumentSync"`
	CompletionProvider  *CompletionOptions      `json:"completionProvider,omitempty"`
	HoverProvider       bool                    `json:"hoverProvider,omitempty"`
	DefinitionProvider  bool                    `json:"definitionProvider,omitempty"`
	ReferencesProvider  bool                    `json:"referencesProvider,omitempty"`
	DocumentSymbolProvider bool                 `json:"documentSymbolProvider,omitempty"`
	RenameProvider      *RenameOptions          `json:"renameProvider,omitempty"`
}
