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

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/bracketnotes/bracketls/pkg/jsonrpc"
	"github.com/bracketnotes/bracketls/pkg/log"
)

type NotificationHandler func(params json.RawMessage) error
type MethodHandler func(params json.RawMessage) (any, error)

// LanguageServer is the interface a server core satisfies to be driven by a
// Mux: initialize once, register its method/notification handlers, and clean
// up on shutdown.
type LanguageServer interface {
	Initialize(params InitializeParams) (InitializeResult, error)
	RegisterHandlers(mux *Mux) error
	Shutdown() error
}

func formatRequestID(id *json.RawMessage) string {
	if id == nil {
		return "null"
	}
	return string(*id)
}

// Mux reads JSON-RPC frames off a reader and dispatches each to a registered
// handler synchronously, on the same goroutine that read it, writing the
// response (or error) back through a single shared writer before the next
// frame is read. This is what makes "responses are emitted in
// request-arrival order" a guarantee rather than a usual case: there is
// only ever one request in flight.
type Mux struct {
	reader               *bufio.Reader
	writer               *bufio.Writer
	notificationHandlers map[Method]NotificationHandler
	methodHandlers       map[Method]MethodHandler
	writeMutex           *sync.Mutex

	version string
	logger  *log.Logger
	server  LanguageServer
}

func NewMux(reader *bufio.Reader, writer *bufio.Writer, version string, logger *log.Logger) *Mux {
	return &Mux{
		reader:               reader,
		writer:               writer,
		notificationHandlers: make(map[Method]NotificationHandler),
		methodHandlers:       make(map[Method]MethodHandler),
		writeMutex:           &sync.Mutex{},
		version:              version,
		logger:               logger.WithScope("protocol"),
	}
}

func (m *Mux) RegisterNotification(method Method, handler NotificationHandler) {
	m.notificationHandlers[method] = handler
}

func (m *Mux) RegisterMethod(method Method, handler MethodHandler) {
	m.methodHandlers[method] = handler
}

func (m *Mux) SetServer(server LanguageServer) {
	m.server = server
}

func (m *Mux) write(response jsonrpc.Message) error {
	m.writeMutex.Lock()
	defer m.writeMutex.Unlock()
	return jsonrpc.Write(m.writer, response)
}

// PublishNotification sends a notification to the client, e.g. publishing
// diagnostics after a reindex.
func (m *Mux) PublishNotification(method string, params any) error {
	notification := jsonrpc.NewNotification(method, params)
	return m.write(notification)
}

// callNotificationHandler recovers a panicking handler so one malformed
// request can never bring down the whole server process.
func (m *Mux) callNotificationHandler(handler NotificationHandler, params json.RawMessage) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("notification handler panicked: %v", r)
		}
	}()
	return handler(params)
}

func (m *Mux) callMethodHandler(handler MethodHandler, params json.RawMessage) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			result, err = nil, fmt.Errorf("method handler panicked: %v", r)
		}
	}()
	return handler(params)
}

func (m *Mux) process() error {
	request, err := jsonrpc.Read(m.reader)
	if err != nil {
		m.logger.Error("failed to read JSON-RPC request", "error", err)
		return err
	}

	if request.IsNotification() {
		m.logger.Debug("processing notification", "method", request.Method)
		if handler, ok := m.notificationHandlers[Method(request.Method)]; ok {
			if err := m.callNotificationHandler(handler, request.Params); err != nil {
				m.logger.Error("notification handler failed", "method", request.Method, "error", err)
			}
		} else {
			m.logger.Warn("no handler for notification", "method", request.Method)
		}
		return nil
	}

	m.logger.Debug("processing request", "method", request.Method, "id", formatRequestID(request.ID))
	handler, ok := m.methodHandlers[Method(request.Method)]
	if !ok {
		m.logger.Warn("method not found", "method", request.Method, "id", formatRequestID(request.ID))
		if err := m.write(jsonrpc.NewMethodNotFoundError(request.ID, request.Method)); err != nil {
			m.logger.Error("failed to write method not found error", "error", err)
		}
		return nil
	}
	result, err := m.callMethodHandler(handler, request.Params)
	if err != nil {
		m.logger.Error("method handler failed", "method", request.Method, "id", formatRequestID(request.ID), "error", err)
		response := jsonrpc.NewInternalError(request.ID, err)
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
			response = jsonrpc.NewInvalidParamsError(request.ID, err)
		}
		if writeErr := m.write(response); writeErr != nil {
			m.logger.Error("failed to write internal error", "error", writeErr)
		}
		return nil
	}
	m.logger.Debug("method completed successfully", "method", request.Method, "id", formatRequestID(request.ID))
	if err := m.write(jsonrpc.NewResponse(request.ID, result)); err != nil {
		m.logger.Error("failed to write response", "error", err)
	}
	return nil
}

func (m *Mux) Run() error {
	if m.server == nil {
		m.logger.Error("no language server set")
		return fmt.Errorf("no language server set")
	}

	m.RegisterMethod(MethodInitialize, func(params json.RawMessage) (any, error) {
		var initParams InitializeParams
		if err := json.Unmarshal(params, &initParams); err != nil {
			m.logger.Error("failed to unmarshal initialize params", "error", err)
			return nil, err
		}

		result, err := m.server.Initialize(initParams)
		if err != nil {
			m.logger.Error("server initialization failed", "error", err)
			return nil, err
		}

		if err := m.server.RegisterHandlers(m); err != nil {
			m.logger.Error("failed to register server handlers", "error", err)
			return nil, err
		}

		return result, nil
	})

	shutdownReceived := false
	m.RegisterMethod(MethodShutdown, func(params json.RawMessage) (any, error) {
		shutdownReceived = true
		return nil, m.server.Shutdown()
	})
	m.RegisterNotification(MethodExit, func(params json.RawMessage) error {
		if shutdownReceived {
			os.Exit(0)
		}
		os.Exit(1)
		return nil
	})

	m.logger.Info("starting message processing loop")
	for {
		if err := m.process(); err != nil {
			m.logger.Error("processing error", "error", err)
			return err
		}
	}
}

// SendRequest sends a server-initiated request to the client. Nothing in
// this server's handled-request set (see spec) needs to block on the
// client's reply, so this does not correlate a response; it exists for
// completeness alongside PublishNotification.
func (m *Mux) SendRequest(method string, params any) error {
	req, err := jsonrpc.NewRequest(method, params)
	if err != nil {
		m.logger.Error("failed to build request", "method", method, "error", err)
		return err
	}
	if err := m.write(req); err != nil {
		m.logger.Error("failed to send request", "method", method, "error", err)
		return err
	}
	m.logger.Debug("sent request to client", "method", method)
	return nil
}
