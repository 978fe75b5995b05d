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

	"github.com/bufbuild/textpb/source"
)

// Completeness says whether every required field of a message tree is set.
type Completeness int

const (
	// Unsupported means the descriptors do not expose which fields are
	// required, so nothing is claimed.
	Unsupported Completeness = iota - 1
	// Incomplete means at least one required field is unset somewhere in
	// the tree.
	Incomplete
	// Complete means every required field of every message in the tree is
	// set.
	Complete
)

// String implements [fmt.Stringer].
func (c Completeness) String() string {
	switch c {
	case Unsupported:
		return "unsupported"
	case Incomplete:
		return "incomplete"
	case Complete:
		return "complete"
	default:
		return "unknown"
	}
}

// Result is the diagnostic returned by every top-level operation. It is
// built once per call.
type Result struct {
	// Code is zero on success.
	Code Code
	// Text is a human-readable description of the failure, empty on success.
	Text string
	// Completeness of the produced tree. Only meaningful on success of a
	// parse.
	Completeness Completeness
	// Missing lists the paths of unset required fields, such as "a.b[2].c",
	// when Completeness is Incomplete.
	Missing []string

	// Pos is the position of the failure, if known.
	Pos source.Pos
	// Err is the error that caused the failure.
	Err error
}

// OK returns whether the call succeeded.
func (r Result) OK() bool {
	return r.Code == OK
}

// Failure builds the Result for a failed call.
func Failure(err error) Result {
	r := Result{
		Code:         CodeOf(err),
		Text:         err.Error(),
		Completeness: Unsupported,
		Err:          err,
	}
	var ewp ErrorWithPos
	if errors.As(err, &ewp) {
		r.Pos = ewp.GetPosition()
	}
	return r
}

// Success builds the Result for a successful call.
func Success(completeness Completeness, missing []string) Result {
	return Result{Completeness: completeness, Missing: missing}
}
