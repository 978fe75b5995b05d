// Copyright 2020-2025 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package reporter

import (
	"errors"
	"fmt"
	"sync"

	"github.com/bufbuild/textpb/source"
)

// ErrorReporter is notified of the error that aborts an operation. It cannot
// change the outcome; any failure aborts the whole call.
type ErrorReporter func(err ErrorWithPos)

// Handler records the first error of an operation. Later errors are
// dropped, so the error a caller sees is always the first one encountered.
type Handler struct {
	reporter ErrorReporter

	mu  sync.Mutex
	err error
}

// NewHandler returns a handler that notifies rep, which may be nil, of the
// first error.
func NewHandler(rep ErrorReporter) *Handler {
	return &Handler{reporter: rep}
}

// HandleErrorf records a positioned error built from the given code and
// message, and returns the first error handled so far.
func (h *Handler) HandleErrorf(pos source.Pos, code Code, format string, args ...any) error {
	return h.HandleError(Errorf(pos, code, format, args...))
}

// HandleError records err, and returns the first error handled so far.
// Errors without a position are recorded as-is.
func (h *Handler) HandleError(err error) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.err != nil {
		return h.err
	}
	h.err = err
	var ewp ErrorWithPos
	if h.reporter != nil && errors.As(err, &ewp) {
		h.reporter(ewp)
	}
	return err
}

// Error returns the first error handled, or nil.
func (h *Handler) Error() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.err
}

// Result returns the failure Result for the first error handled. It panics
// if no error was handled.
func (h *Handler) Result() Result {
	err := h.Error()
	if err == nil {
		panic(fmt.Sprintf("reporter: %T.Result called without an error", h))
	}
	return Failure(err)
}
