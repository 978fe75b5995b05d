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

package parser

import (
	"fmt"
	"unsafe"

	"golang.org/x/exp/constraints"
)

// toSigned converts an integer literal to T, failing if it is not an
// integer or does not fit.
func toSigned[T constraints.Signed](n NumberLit) (T, error) {
	if n.Float {
		return 0, fmt.Errorf("%s is not an integer", n)
	}
	u, err := n.Uint()
	if err != nil {
		return 0, err
	}

	bits := unsafe.Sizeof(T(0)) * 8
	limit := uint64(1) << (bits - 1)
	if n.Neg {
		if u > limit {
			return 0, fmt.Errorf("value out of range for int%d: %s", bits, n)
		}
		return T(-int64(u)), nil
	}
	if u >= limit {
		return 0, fmt.Errorf("value out of range for int%d: %s", bits, n)
	}
	return T(u), nil
}

// toUnsigned converts an integer literal to T, failing if it is not an
// integer, is negative, or does not fit.
func toUnsigned[T constraints.Unsigned](n NumberLit) (T, error) {
	if n.Float {
		return 0, fmt.Errorf("%s is not an integer", n)
	}
	u, err := n.Uint()
	if err != nil {
		return 0, err
	}

	bits := unsafe.Sizeof(T(0)) * 8
	if n.Neg && u != 0 {
		return 0, fmt.Errorf("value out of range for uint%d: %s", bits, n)
	}
	if u > uint64(^T(0)) {
		return 0, fmt.Errorf("value out of range for uint%d: %s", bits, n)
	}
	return T(u), nil
}
