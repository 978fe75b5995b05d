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

package message

import (
	"bytes"
	"math"

	"github.com/bufbuild/textpb/walk"
)

// Equal reports whether two messages have the same type and the same set
// fields with equal values.
//
// Enum values compare by number only, since a symbol may or may not have
// been recorded. Floating point values compare bitwise, except that all
// NaNs are equal to each other.
func Equal(x, y *Message) bool {
	if x == nil || y == nil {
		return x == y
	}
	if x.desc != y.desc || x.Len() != y.Len() {
		return false
	}

	for f := range x.Fields() {
		if !y.Has(f) {
			return false
		}
		if f.IsRepeated() {
			xs, ys := x.List(f), y.List(f)
			if len(xs) != len(ys) {
				return false
			}
			for i := range xs {
				if !EqualValues(xs[i], ys[i]) {
					return false
				}
			}
			continue
		}

		xv, _ := x.Get(f)
		yv, _ := y.Get(f)
		if !EqualValues(xv, yv) {
			return false
		}
	}
	return true
}

// EqualValues reports whether two values are equal, following the rules of
// [Equal].
func EqualValues(x, y Value) bool {
	if x.kind != y.kind {
		return false
	}

	switch x.kind {
	case walk.StringKind, walk.BytesKind:
		return bytes.Equal(x.block, y.block)
	case walk.MessageKind:
		return Equal(x.msg, y.msg)
	case walk.FloatKind, walk.DoubleKind:
		if math.IsNaN(x.Float()) && math.IsNaN(y.Float()) {
			return true
		}
		return x.bits == y.bits
	default:
		return x.bits == y.bits
	}
}
