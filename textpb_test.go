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

package textpb_test

import (
	"errors"
	"path"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bufbuild/textpb"
	"github.com/bufbuild/textpb/alloc"
	"github.com/bufbuild/textpb/internal/golden"
	"github.com/bufbuild/textpb/internal/prototest"
	"github.com/bufbuild/textpb/message"
	"github.com/bufbuild/textpb/reporter"
	"github.com/bufbuild/textpb/source"
)

func TestGolden(t *testing.T) {
	t.Parallel()

	corpus := golden.Corpus{
		Root:      "testdata/golden",
		Refresh:   "TEXTPB_REFRESH",
		Extension: "txtpb",
		Outputs: []golden.Output{
			{Extension: "out"},
			{Extension: "err"},
			{Extension: "tree"},
			{Extension: "missing"},
		},
		Test: func(t *testing.T, c *golden.Case) []string {
			var config struct {
				Message  string `yaml:"message"`
				MaxDepth int    `yaml:"max_depth"`
			}
			require.NoError(t, c.Config(&config))
			md := prototest.Message(t, config.Message)

			opts := textpb.Options{Filename: path.Base(c.Name), MaxDepth: config.MaxDepth}
			b := &alloc.Budget{}
			m, res := opts.FromString(md, c.Text, b)
			if !res.OK() {
				bytes, blocks := b.Outstanding()
				assert.Zero(t, bytes)
				assert.Zero(t, blocks)
				file := source.NewFile(opts.Filename, []byte(c.Text))
				return []string{"", reporter.Render(file, res.Err), "", ""}
			}
			defer message.Free(b, m)

			text, printed := opts.ToString(m, b)
			require.True(t, printed.OK(), printed.Text)
			out := strings.Clone(text)
			textpb.FreeString(b, text)

			// Printing what was printed changes nothing.
			again, res2 := opts.FromString(md, out, nil)
			require.True(t, res2.OK(), res2.Text)
			assert.True(t, message.Equal(m, again))
			text2, _ := opts.ToString(again, nil)
			assert.Equal(t, out, text2)

			tree := prototest.ToYAML(m, prototest.ToYAMLOptions{})
			if tree != "" && !strings.HasSuffix(tree, "\n") {
				tree += "\n"
			}
			var missing string
			if len(res.Missing) > 0 {
				missing = strings.Join(res.Missing, "\n") + "\n"
			}
			return []string{out, "", tree, missing}
		},
	}
	corpus.Run(t)
}

func TestFromString(t *testing.T) {
	t.Parallel()

	md := prototest.Message(t, "Ponycopter")
	m, res := textpb.FromString(md, "hair_colour: \"pink\"\nrotors: 4\nawesomeness: 11\n", nil)
	require.True(t, res.OK(), res.Text)
	assert.Equal(t, reporter.Complete, res.Completeness)
	assert.Equal(t, 3, m.Len())

	m, res = textpb.FromString(md, `rotors: "four"`, nil)
	assert.Nil(t, m)
	assert.Equal(t, reporter.TypeMismatch, res.Code)
	assert.Equal(t, `<input>:1:9: invalid value for uint32 field rotors: string "four"`, res.Text)

	m, res = textpb.FromString(md, "rotors: 4\nrotors: 5\n", nil)
	assert.Nil(t, m)
	assert.Equal(t, reporter.DuplicateField, res.Code)

	_, res = textpb.FromString(nil, "", nil)
	assert.Equal(t, reporter.InternalError, res.Code)
}

func TestToString(t *testing.T) {
	t.Parallel()

	md := prototest.Message(t, "Ponycopter")
	m, res := textpb.FromString(md, "awesomeness: 11 hair_colour: 'pink'", nil)
	require.True(t, res.OK(), res.Text)

	text, res := textpb.ToString(m, nil)
	require.True(t, res.OK(), res.Text)
	assert.Equal(t, "hair_colour: \"pink\"\nawesomeness: 11\n", text)
	assert.Equal(t, reporter.Complete, res.Completeness)

	compact, res := textpb.Options{Compact: true}.ToString(m, nil)
	require.True(t, res.OK(), res.Text)
	assert.Equal(t, `hair_colour: "pink" awesomeness: 11`, compact)

	empty, err := message.New(alloc.Heap{}, md)
	require.NoError(t, err)
	text, res = textpb.ToString(empty, nil)
	require.True(t, res.OK(), res.Text)
	assert.Empty(t, text)

	_, res = textpb.ToString(m, &alloc.Budget{MaxBytes: 1})
	assert.Equal(t, reporter.AllocationFailure, res.Code)
	assert.ErrorIs(t, res.Err, alloc.ErrExhausted)

	// Completeness is reported for rendered trees too.
	req := prototest.Message(t, "Required")
	m, res = textpb.FromString(req, "extra: 1", nil)
	require.True(t, res.OK(), res.Text)
	assert.Equal(t, reporter.Incomplete, res.Completeness)
	_, res = textpb.ToString(m, nil)
	assert.Equal(t, reporter.Incomplete, res.Completeness)
	assert.Equal(t, []string{"id"}, res.Missing)
}

func TestFromFile(t *testing.T) {
	t.Parallel()

	md := prototest.Message(t, "Ponycopter")
	opts := textpb.Options{Filename: "pony.txtpb"}
	m, res := opts.FromFile(md, strings.NewReader("rotors: 4"), nil)
	require.True(t, res.OK(), res.Text)
	assert.Equal(t, 1, m.Len())

	_, res = opts.FromFile(md, strings.NewReader("\nbogus: 4"), nil)
	assert.Equal(t, reporter.UnknownField, res.Code)
	assert.Equal(t, "pony.txtpb", res.Pos.Filename)
	assert.Equal(t, 2, res.Pos.Line)

	boom := errors.New("boom")
	m, res = opts.FromFile(md, iotest.ErrReader(boom), nil)
	assert.Nil(t, m)
	assert.Equal(t, reporter.IOError, res.Code)
	assert.ErrorIs(t, res.Err, boom)
	assert.ErrorIs(t, res.Err, reporter.ErrIO)
	assert.Equal(t, "pony.txtpb: cannot read input: boom", res.Text)

	m, res = textpb.FromFile(md, iotest.HalfReader(strings.NewReader("rotors: 4 awesomeness: 1")), nil)
	require.True(t, res.OK(), res.Text)
	assert.Equal(t, 2, m.Len())
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		message string
		text    string
	}{
		{"Scalars", `i32: -1 i64: 9223372036854775807 u32: 0xffffffff u64: 0 s32: 5 s64: -5
			f32: 1 f64: 2 sf32: -3 sf64: -4 fl: 1.5e38 db: -1e-310 b: f s: "é\x01\"" by: "\x80\n" colour: RED`},
		{"Repeated", `ratios: [inf, -inf, 0.25] names: ['', "x"] ponies: [{}, {awesomeness: 2}]`},
		{"Choice", `name: "only" note: "and me"`},
		{"Required", `id: "a" children { id: "b" } [textpb.test.pony] { rotors: 9 } [textpb.test.tag]: ""`},
		{"WithMap", `counts { key: "k" value: -1 } counts { key: "k" value: 2 }`},
	}
	for _, tc := range testCases {
		t.Run(tc.message, func(t *testing.T) {
			t.Parallel()
			md := prototest.Message(t, tc.message)
			m, res := textpb.FromString(md, tc.text, nil)
			require.True(t, res.OK(), res.Text)

			for _, opts := range []textpb.Options{{}, {Compact: true}, {Indent: "    "}} {
				text, res := opts.ToString(m, nil)
				require.True(t, res.OK(), res.Text)
				back, res := textpb.FromString(md, text, nil)
				require.True(t, res.OK(), "%s\n%s", res.Text, text)
				assert.True(t, message.Equal(m, back), text)

				again, _ := opts.ToString(back, nil)
				assert.Equal(t, text, again)
			}
		})
	}
}

func TestOptionsMaxDepth(t *testing.T) {
	t.Parallel()

	md := prototest.Message(t, "Node")
	var reported reporter.ErrorWithPos
	opts := textpb.Options{
		MaxDepth: 1,
		Reporter: func(err reporter.ErrorWithPos) { reported = err },
	}
	_, res := opts.FromString(md, "next { next {} }", nil)
	assert.Equal(t, reporter.DepthExceeded, res.Code)
	require.NotNil(t, reported)
	assert.Equal(t, reporter.DepthExceeded, reported.GetCode())
}
