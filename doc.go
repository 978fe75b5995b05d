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

// Package textpb reads and writes protobuf messages in the text format,
// driven entirely by descriptors.
//
// No generated code is involved. A schema is described by a [walk.Message]
// (usually obtained with [walk.FromFiles] from descriptors produced by a
// compiler), and message instances are generic [message.Message] trees.
// The same engine therefore handles every schema.
//
// # Operations
//
// There are three operations, each available as a function using default
// options and as a method of [Options]:
//
//   - [FromString] parses a complete text unit into a new tree.
//   - [FromFile] reads a stream fully and then parses it.
//   - [ToString] renders a tree, in declaration order.
//
// Every operation returns a [reporter.Result]. On failure its Code is
// non-zero, Text locates the problem as "file:line:col: message", and no
// memory obtained from the allocator remains outstanding. On success of a
// parse, Completeness reports whether every required field, recursively,
// is set.
//
// # Memory
//
// Trees and rendered text are built from memory obtained from an
// [alloc.Allocator] passed to each call; nil means the Go heap. A tree is
// released with [message.Free], and rendered text with [FreeString],
// through the allocator that produced it. Mixing allocators within one
// tree is the caller's error and is not detected.
//
// # Concurrency
//
// Calls are synchronous and share nothing except descriptors, which are
// immutable. Independent calls may run concurrently provided each uses
// its own allocator, or one that is safe for concurrent use such as
// [alloc.Heap] or [alloc.Budget].
package textpb
