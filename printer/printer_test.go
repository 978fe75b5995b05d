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

package printer_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bufbuild/textpb/alloc"
	"github.com/bufbuild/textpb/internal/prototest"
	"github.com/bufbuild/textpb/message"
	"github.com/bufbuild/textpb/parser"
	"github.com/bufbuild/textpb/printer"
	"github.com/bufbuild/textpb/reporter"
)

func TestPrintDeclarationOrder(t *testing.T) {
	t.Parallel()

	md := prototest.Message(t, "Ponycopter")
	m, err := message.New(alloc.Heap{}, md)
	require.NoError(t, err)
	require.NoError(t, m.Set(md.FieldByName("rotors"), message.Uint32(4)))
	s, err := message.NewString(alloc.Heap{}, "pink")
	require.NoError(t, err)
	require.NoError(t, m.Set(md.FieldByName("hair_colour"), s))

	out, err := printer.Print(m, nil, printer.Options{})
	require.NoError(t, err)
	assert.Equal(t, "hair_colour: \"pink\"\nrotors: 4\n", string(out))
}

func TestPrint(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		message string
		in      string
		want    string
		compact string
	}{
		{
			name:    "empty",
			message: "Ponycopter",
		},
		{
			name:    "scalars",
			message: "Scalars",
			in: `colour: 2 by: "\x00\x7f\xff a" s: "tab\there \"q\" 'a' \\ é \x01"
				b: t db: 0.1 fl: 0.1 sf64: -9223372036854775808 u64: 18446744073709551615 i32: -3`,
			want: `i32: -3
u64: 18446744073709551615
sf64: -9223372036854775808
fl: 0.1
db: 0.1
b: true
s: "tab\there \"q\" \'a\' \\ é \001"
by: "\000\177\377 a"
colour: BLUE
`,
			compact: `i32: -3 u64: 18446744073709551615 sf64: -9223372036854775808 fl: 0.1 db: 0.1 b: true s: "tab\there \"q\" \'a\' \\ é \001" by: "\000\177\377 a" colour: BLUE`,
		},
		{
			name:    "special floats",
			message: "Scalars",
			in:      "fl: -inf db: nan",
			want:    "fl: -inf\ndb: nan\n",
		},
		{
			name:    "large and small floats",
			message: "Repeated",
			in:      "ratios: [1e100, 1.5e-7, -0, 100, 123456789012345678]",
			want: `ratios: 1e+100
ratios: 1.5e-07
ratios: -0
ratios: 100
ratios: 1.2345678901234568e+17
`,
		},
		{
			name:    "nested",
			message: "Repeated",
			in:      `ponies < rotors: 1 > nums: [3, 1] ponies {} colours: [0, 7] names: "a\nb"`,
			want: `nums: 3
nums: 1
names: "a\nb"
ponies {
  rotors: 1
}
ponies {}
colours: RED
colours: 7
`,
			compact: `nums: 3 nums: 1 names: "a\nb" ponies { rotors: 1 } ponies {} colours: RED colours: 7`,
		},
		{
			name:    "deep",
			message: "Node",
			in:      "next { next { value: 3 } value: 2 }",
			want: `next {
  value: 2
  next {
    value: 3
  }
}
`,
			compact: "next { value: 2 next { value: 3 } }",
		},
		{
			name:    "extensions",
			message: "Required",
			in:      `[textpb.test.pony] { hair_colour: "x" } [textpb.test.tag]: "t" id: "i"`,
			want: `id: "i"
[textpb.test.tag]: "t"
[textpb.test.pony] {
  hair_colour: "x"
}
`,
		},
		{
			name:    "oneof",
			message: "Choice",
			in:      `note: "n" pony { }`,
			want:    "pony {}\nnote: \"n\"\n",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			md := prototest.Message(t, tc.message)
			m, res := parser.Parse("", []byte(tc.in), md, nil, parser.Options{})
			require.True(t, res.OK(), res.Text)

			out, err := printer.Print(m, nil, printer.Options{})
			require.NoError(t, err)
			assert.Equal(t, tc.want, string(out))

			if tc.compact != "" {
				out, err := printer.Print(m, nil, printer.Options{Compact: true})
				require.NoError(t, err)
				assert.Equal(t, tc.compact, string(out))
			}

			// The output reads back as the same tree.
			back, res := parser.Parse("", out, md, nil, parser.Options{})
			require.True(t, res.OK(), res.Text)
			assert.True(t, message.Equal(m, back))
		})
	}
}

func TestPrintIndent(t *testing.T) {
	t.Parallel()

	md := prototest.Message(t, "Node")
	m, res := parser.Parse("", []byte("next { next { value: 3 } }"), md, nil, parser.Options{})
	require.True(t, res.OK(), res.Text)

	out, err := printer.Print(m, nil, printer.Options{Indent: "\t"})
	require.NoError(t, err)
	assert.Equal(t, "next {\n\tnext {\n\t\tvalue: 3\n\t}\n}\n", string(out))
}

func TestPrintFloatRoundTrip(t *testing.T) {
	t.Parallel()

	md := prototest.Message(t, "Scalars")
	fl, db := md.FieldByName("fl"), md.FieldByName("db")
	values := []float64{
		0, math.Copysign(0, -1), 1, -1, 0.1, 1.0 / 3, math.Pi, math.MaxFloat64,
		math.SmallestNonzeroFloat64, 5e-324, 1e21, 123456.789e-300,
		math.MaxFloat32, -math.MaxFloat32, math.SmallestNonzeroFloat32,
	}
	for _, f := range values {
		m, err := message.New(alloc.Heap{}, md)
		require.NoError(t, err)
		require.NoError(t, m.Set(db, message.Double(f)))
		require.NoError(t, m.Set(fl, message.Float(float32(f))))

		out, err := printer.Print(m, nil, printer.Options{Compact: true})
		require.NoError(t, err)
		back, res := parser.Parse("", out, md, nil, parser.Options{})
		require.True(t, res.OK(), "%s: %s", out, res.Text)

		v, _ := back.Get(db)
		assert.Equal(t, math.Float64bits(f), math.Float64bits(v.Float()), "%s", out)
		v, _ = back.Get(fl)
		assert.Equal(t, math.Float32bits(float32(f)), math.Float32bits(float32(v.Float())), "%s", out)
	}
}

func TestPrintAllocator(t *testing.T) {
	t.Parallel()

	md := prototest.Message(t, "Ponycopter")
	m, res := parser.Parse("", []byte(`hair_colour: "pink" rotors: 4`), md, nil, parser.Options{})
	require.True(t, res.OK(), res.Text)

	b := &alloc.Budget{}
	out, err := printer.Print(m, b, printer.Options{})
	require.NoError(t, err)
	bytes, blocks := b.Outstanding()
	assert.Equal(t, len(out), bytes)
	assert.Equal(t, 1, blocks)
	b.Free(out)

	_, err = printer.Print(m, &alloc.Budget{MaxBytes: 4}, printer.Options{})
	require.ErrorIs(t, err, reporter.ErrAllocation)
	require.ErrorIs(t, err, alloc.ErrExhausted)
	assert.Equal(t, reporter.AllocationFailure, reporter.CodeOf(err))

	_, err = printer.Print(nil, nil, printer.Options{})
	assert.ErrorIs(t, err, reporter.ErrInternal)
}
