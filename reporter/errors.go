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

// Package reporter contains the error taxonomy of the codec, positioned
// errors, and the [Result] returned by every top-level operation.
package reporter

import (
	"errors"
	"fmt"

	"github.com/bufbuild/textpb/source"
)

// Code identifies a kind of failure. The zero value, [OK], means success;
// every other code is positive.
type Code int

const (
	OK Code = iota
	LexError
	SyntaxError
	UnknownField
	TypeMismatch
	DuplicateOneofSet
	DuplicateField
	// MissingRequiredField is never the code of a failed call. It is only
	// used to describe incomplete results.
	MissingRequiredField
	AllocationFailure
	IOError
	DepthExceeded
	InternalError
)

var codeNames = [...]string{
	OK:                   "ok",
	LexError:             "lex error",
	SyntaxError:          "syntax error",
	UnknownField:         "unknown field",
	TypeMismatch:         "type mismatch",
	DuplicateOneofSet:    "duplicate oneof set",
	DuplicateField:       "duplicate field",
	MissingRequiredField: "missing required field",
	AllocationFailure:    "allocation failure",
	IOError:              "i/o error",
	DepthExceeded:        "depth exceeded",
	InternalError:        "internal error",
}

// String implements [fmt.Stringer].
func (c Code) String() string {
	if c < 0 || int(c) >= len(codeNames) {
		return fmt.Sprintf("code(%d)", int(c))
	}
	return codeNames[c]
}

// Sentinel errors, one per failing [Code]. Errors produced by this module
// match exactly one of them under [errors.Is].
var (
	ErrLex               = errors.New(LexError.String())
	ErrSyntax            = errors.New(SyntaxError.String())
	ErrUnknownField      = errors.New(UnknownField.String())
	ErrTypeMismatch      = errors.New(TypeMismatch.String())
	ErrDuplicateOneofSet = errors.New(DuplicateOneofSet.String())
	ErrDuplicateField    = errors.New(DuplicateField.String())
	ErrMissingRequired   = errors.New(MissingRequiredField.String())
	ErrAllocation        = errors.New(AllocationFailure.String())
	ErrIO                = errors.New(IOError.String())
	ErrDepthExceeded     = errors.New(DepthExceeded.String())
	ErrInternal          = errors.New(InternalError.String())
)

var sentinels = [...]error{
	LexError:             ErrLex,
	SyntaxError:          ErrSyntax,
	UnknownField:         ErrUnknownField,
	TypeMismatch:         ErrTypeMismatch,
	DuplicateOneofSet:    ErrDuplicateOneofSet,
	DuplicateField:       ErrDuplicateField,
	MissingRequiredField: ErrMissingRequired,
	AllocationFailure:    ErrAllocation,
	IOError:              ErrIO,
	DepthExceeded:        ErrDepthExceeded,
	InternalError:        ErrInternal,
}

// Err returns the sentinel error for c, or nil for [OK].
func (c Code) Err() error {
	if c <= OK || int(c) >= len(sentinels) {
		return nil
	}
	return sentinels[c]
}

// CodeOf classifies err. A nil error is [OK]; an error that matches none of
// the sentinels is an [InternalError].
func CodeOf(err error) Code {
	if err == nil {
		return OK
	}
	var ewp ErrorWithPos
	if errors.As(err, &ewp) {
		return ewp.GetCode()
	}
	for c, sentinel := range sentinels {
		if sentinel != nil && errors.Is(err, sentinel) {
			return Code(c)
		}
	}
	return InternalError
}

// ErrorWithPos is an error about a text input that includes information
// about the location in the input that caused the error.
//
// The value of Error() will contain both the position and Underlying error.
// The value of Unwrap() will only be the Underlying error. errors.Is also
// matches the sentinel of the error's code.
type ErrorWithPos interface {
	error
	GetPosition() source.Pos
	GetCode() Code
	Unwrap() error
}

// Error wraps err with a position and a code.
func Error(pos source.Pos, code Code, err error) ErrorWithPos {
	return errorWithPos{pos: pos, code: code, underlying: err}
}

// Errorf is like [Error], but formats the underlying error.
func Errorf(pos source.Pos, code Code, format string, args ...any) ErrorWithPos {
	return errorWithPos{pos: pos, code: code, underlying: fmt.Errorf(format, args...)}
}

type errorWithPos struct {
	underlying error
	pos        source.Pos
	code       Code
}

func (e errorWithPos) Error() string {
	return fmt.Sprintf("%s: %v", e.pos, e.underlying)
}

// GetPosition implements the ErrorWithPos interface.
func (e errorWithPos) GetPosition() source.Pos {
	return e.pos
}

// GetCode implements the ErrorWithPos interface.
func (e errorWithPos) GetCode() Code {
	return e.code
}

// Unwrap implements the ErrorWithPos interface, supplying the underlying
// error. This error will not include location information.
func (e errorWithPos) Unwrap() error {
	return e.underlying
}

// Is matches the sentinel error of e's code.
func (e errorWithPos) Is(target error) bool {
	sentinel := e.code.Err()
	return sentinel != nil && target == sentinel
}

var _ ErrorWithPos = errorWithPos{}
