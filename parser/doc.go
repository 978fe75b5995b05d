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

// Package parser contains the logic for parsing protobuf text format into a
// [message.Message] tree.
//
// Parsing is driven entirely by a [walk.Message] descriptor: the same code
// decodes every message type. The grammar is the usual text format one:
//
//	message    := field*
//	field      := field_name [':'] value
//	            | field_name [':'] ('{' message '}' | '<' message '>')
//	field_name := identifier | '[' qualified_name ']'
//	value      := scalar | '[' [ scalar (',' scalar)* ] ']'
//	scalar     := number | string+ | identifier
//
// Comments start with '#' and run to the end of the line. Any error aborts
// the whole parse; the first error is reported along with its position and
// nothing allocated by the failed parse survives.
package parser
