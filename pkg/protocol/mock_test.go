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

import "github.com/stretchr/testify/mock"

type MockServer struct {
	mock.Mock
}

func (m *MockServer) Initialize(params InitializeParams) (InitializeResult, error) {
	args := m.Called(params)
	return args.Get(0).(InitializeResult), args.Error(1)
}

func (m *MockServer) RegisterHandlers(mux *Mux) error {
	args := m.Called(mux)
	return args.Error(0)
}

func (m *MockServer) Shutdown() error {
	args := m.Called()
	return args.Error(0)
}
