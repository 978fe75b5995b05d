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

package alloc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bufbuild/textpb/alloc"
)

func TestHeap(t *testing.T) {
	t.Parallel()

	b, err := alloc.Heap{}.Alloc(16)
	require.NoError(t, err)
	assert.Len(t, b, 16)

	_, err = alloc.Heap{}.Alloc(-1)
	require.Error(t, err)

	assert.Equal(t, alloc.Heap{}, alloc.Or(nil))
}

func TestBudget(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	budget := &alloc.Budget{MaxBytes: 100}
	a, err := budget.Alloc(60)
	require.NoError(t, err)
	_, err = budget.Alloc(60)
	require.ErrorIs(t, err, alloc.ErrExhausted)

	b, err := budget.Alloc(40)
	require.NoError(t, err)
	bytes, blocks := budget.Outstanding()
	assert.Equal(100, bytes)
	assert.Equal(2, blocks)

	budget.Free(a)
	budget.Free(b)
	budget.Free(nil)
	bytes, blocks = budget.Outstanding()
	assert.Zero(bytes)
	assert.Zero(blocks)
	assert.Equal(100, budget.Peak())
	assert.Equal(2, budget.Allocs())
}

func TestBudgetMaxAllocs(t *testing.T) {
	t.Parallel()

	budget := &alloc.Budget{MaxAllocs: 2}
	for range 2 {
		_, err := budget.Alloc(1)
		require.NoError(t, err)
	}
	_, err := budget.Alloc(1)
	require.ErrorIs(t, err, alloc.ErrExhausted)
}

func TestArena(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	var a alloc.Arena
	x, err := a.Alloc(8)
	require.NoError(t, err)
	copy(x, "abcdefgh")

	y, err := a.Alloc(4000)
	require.NoError(t, err)
	assert.Len(y, 4000)
	assert.Equal("abcdefgh", string(x), "earlier blocks must not move")
	assert.Equal(4008, a.Used())
	assert.Equal("[8/1024|4000/4000]", a.String())

	// Appending to a block must not clobber its neighbor.
	z, err := a.Alloc(2)
	require.NoError(t, err)
	w, err := a.Alloc(2)
	require.NoError(t, err)
	copy(w, "ww")
	_ = append(z, 'q')
	assert.Equal("ww", string(w))

	a.Reset()
	assert.Zero(a.Used())
	assert.Equal("[0/1024]", a.String())
}
