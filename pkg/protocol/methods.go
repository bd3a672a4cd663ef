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

// Method is a JSON-RPC method name.
type Method string

func (m Method) String() string { return string(m) }

// JSON-RPC 2.0 and Language Server Protocol (LSP) 3.17 methods this server
// handles or emits. Reference:
// https://microsoft.github.io/language-server-protocol/specifications/lsp/3.17/specification/
const (
	MethodInitialize  Method = "initialize"
	MethodInitialized Method = "initialized"
	MethodShutdown    Method = "shutdown"
	MethodExit        Method = "exit"

	MethodWindowLogMessage      Method = "window/logMessage"
	MethodWindowShowMessage     Method = "window/showMessage"
	MethodWorkspaceApplyEdit    Method = "workspace/applyEdit"
	MethodWorkspaceDidChangeWatchedFiles Method = "workspace/didChangeWatchedFiles"

	MethodTextDocumentDidOpen   Method = "textDocument/didOpen"
	MethodTextDocumentDidChange Method = "textDocument/didChange"
	MethodTextDocumentDidClose  Method = "textDocument/didClose"
	MethodTextDocumentDidSave   Method = "textDocument/didSave"

	MethodTextDocumentCompletion     Method = "textDocument/completion"
	MethodTextDocumentHover          Method = "textDocument/hover"
	MethodTextDocumentDefinition     Method = "textDocument/definition"
	MethodTextDocumentReferences     Method = "textDocument/references"
	MethodTextDocumentDocumentSymbol Method = "textDocument/documentSymbol"
	MethodTextDocumentPrepareRename  Method = "textDocument/prepareRename"
	MethodTextDocumentRename         Method = "textDocument/rename"

	MethodTextDocumentPublishDiagnostics Method = "textDocument/publishDiagnostics"

	MethodCancelRequest Method = "$/cancelRequest"
)
