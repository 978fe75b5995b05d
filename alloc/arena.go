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

package alloc

import (
	"fmt"
	"strings"
)

// arenaMinLenShift is the log2 of the size of the smallest chunk in an
// Arena.
const (
	arenaMinLenShift = 10
	arenaMinLen      = 1 << arenaMinLenShift
)

// Arena is a bump allocator. Blocks are carved out of a table of chunks
// whose sizes double, mimicking the growth of an ordinary slice, except that
// chunks are never moved: every block handed out stays valid until Reset.
//
// Free is a no-op; memory is only reclaimed by Reset, which releases every
// tree built from the arena at once.
//
// A zero Arena is empty and ready to use. Arena is not safe for concurrent
// use.
type Arena struct {
	// Invariants:
	// 1. cap(table[n]) >= arenaMinLen << n.
	// 2. Only the last chunk has spare capacity that Alloc will use.
	table [][]byte

	used int
}

var _ Allocator = (*Arena)(nil)

// Alloc implements [Allocator].
func (a *Arena) Alloc(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("alloc: negative size %d", n)
	}
	if a.table == nil {
		a.table = [][]byte{make([]byte, 0, max(arenaMinLen, n))}
	}

	last := &a.table[len(a.table)-1]
	if cap(*last)-len(*last) < n {
		// If the last chunk is full, grow by doubling the size of the next
		// chunk, or more if a single block needs it.
		size := max(2*cap(*last), n)
		a.table = append(a.table, make([]byte, 0, size))
		last = &a.table[len(a.table)-1]
	}

	start := len(*last)
	*last = (*last)[:start+n]
	a.used += n
	// Clip capacity so that appends to a block never stomp on its
	// neighbors.
	return (*last)[start : start+n : start+n], nil
}

// Free implements [Allocator]. It is a no-op.
func (*Arena) Free([]byte) {}

// Reset releases every block allocated so far. Blocks handed out before
// Reset must not be used afterwards.
//
// The first chunk is retained so that a reused arena does not need to
// allocate again for small workloads.
func (a *Arena) Reset() {
	if len(a.table) == 0 {
		return
	}
	first := a.table[0][:0]
	clear(first[:cap(first)])
	a.table = [][]byte{first}
	a.used = 0
}

// Used returns the number of bytes handed out since the last Reset.
func (a *Arena) Used() int {
	return a.used
}

// String implements [fmt.Stringer], showing the chunk boundaries.
func (a *Arena) String() string {
	var b strings.Builder
	b.WriteRune('[')
	for i, chunk := range a.table {
		if i != 0 {
			b.WriteRune('|')
		}
		fmt.Fprintf(&b, "%d/%d", len(chunk), cap(chunk))
	}
	b.WriteRune(']')
	return b.String()
}
