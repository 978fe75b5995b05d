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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bufbuild/textpb/reporter"
	"github.com/bufbuild/textpb/source"
)

func TestLexer(t *testing.T) {
	t.Parallel()

	l := newTestLexer(`# comment
hair_colour: "pink" 'it\'s' "\x41\101\né"
rotors: 4, awesomeness: -11;
[textpb.test.tag] < >
f: 1.5e3 -2.5f .5 0x1F 017 -inf nan 1f
`)

	expected := []struct {
		kind      TokenKind
		raw       string
		line, col int
		v         string
		num       NumberLit
	}{
		{kind: Ident, raw: "hair_colour", line: 2, col: 1},
		{kind: Punct, raw: ":", line: 2, col: 12},
		{kind: String, raw: `"pink"`, line: 2, col: 14, v: "pink"},
		{kind: String, raw: `'it\'s'`, line: 2, col: 21, v: "it's"},
		{kind: String, raw: `"\x41\101\né"`, line: 2, col: 29, v: "AA\né"},
		{kind: Ident, raw: "rotors", line: 3, col: 1},
		{kind: Punct, raw: ":", line: 3, col: 7},
		{kind: Number, raw: "4", line: 3, col: 9, num: NumberLit{Base: 10, Digits: "4"}},
		{kind: Punct, raw: ",", line: 3, col: 10},
		{kind: Ident, raw: "awesomeness", line: 3, col: 12},
		{kind: Punct, raw: ":", line: 3, col: 23},
		{kind: Number, raw: "-11", line: 3, col: 25, num: NumberLit{Neg: true, Base: 10, Digits: "11"}},
		{kind: Punct, raw: ";", line: 3, col: 28},
		{kind: Punct, raw: "[", line: 4, col: 1},
		{kind: Ident, raw: "textpb", line: 4, col: 2},
		{kind: Punct, raw: ".", line: 4, col: 8},
		{kind: Ident, raw: "test", line: 4, col: 9},
		{kind: Punct, raw: ".", line: 4, col: 13},
		{kind: Ident, raw: "tag", line: 4, col: 14},
		{kind: Punct, raw: "]", line: 4, col: 17},
		{kind: Punct, raw: "<", line: 4, col: 19},
		{kind: Punct, raw: ">", line: 4, col: 21},
		{kind: Ident, raw: "f", line: 5, col: 1},
		{kind: Punct, raw: ":", line: 5, col: 2},
		{kind: Number, raw: "1.5e3", line: 5, col: 4, num: NumberLit{Float: true, Digits: "1.5e3"}},
		{kind: Number, raw: "-2.5f", line: 5, col: 10, num: NumberLit{Neg: true, Float: true, Digits: "2.5"}},
		{kind: Number, raw: ".5", line: 5, col: 16, num: NumberLit{Float: true, Digits: ".5"}},
		{kind: Number, raw: "0x1F", line: 5, col: 19, num: NumberLit{Base: 16, Digits: "1F"}},
		{kind: Number, raw: "017", line: 5, col: 24, num: NumberLit{Base: 8, Digits: "017"}},
		{kind: Number, raw: "-inf", line: 5, col: 28, num: NumberLit{Neg: true, Float: true, Special: "inf"}},
		{kind: Ident, raw: "nan", line: 5, col: 33},
		{kind: Number, raw: "1f", line: 5, col: 37, num: NumberLit{Float: true, Digits: "1"}},
	}

	for i, exp := range expected {
		tok, err := l.Next()
		require.NoError(t, err, "case %d", i)
		if !assert.Equal(t, exp.kind, tok.Kind, "case %d: wrong token kind for %q", i, tok.Raw) {
			break
		}
		assert.Equal(t, exp.raw, tok.Raw, "case %d: wrong raw text", i)
		pos := l.File().Pos(tok.Offset)
		assert.Equal(t, exp.line, pos.Line, "case %d: wrong line number", i)
		assert.Equal(t, exp.col, pos.Col, "case %d: wrong column number (on line %d)", i, exp.line)
		if exp.v != "" {
			assert.Equal(t, exp.v, tok.Value, "case %d: wrong value", i)
		} else {
			assert.Equal(t, tok.Raw, tok.Value, "case %d: wrong value", i)
		}
		if tok.Kind == Number {
			assert.Equal(t, exp.num, tok.Num, "case %d: wrong number classification", i)
		}
	}

	tok, err := l.Next()
	require.NoError(t, err)
	assert.Equal(t, EOF, tok.Kind)
	assert.Equal(t, source.Pos{Filename: "test.txtpb", Offset: tok.Offset, Line: 6, Col: 1}, l.File().Pos(tok.Offset))

	// EOF is sticky.
	tok, err = l.Next()
	require.NoError(t, err)
	assert.Equal(t, EOF, tok.Kind)
}

func TestLexerRestart(t *testing.T) {
	t.Parallel()

	l := newTestLexer("\xEF\xBB\xBFa: 1\nb: 'x'\n")
	collect := func() []string {
		var raws []string
		for tok, err := range l.Tokens() {
			require.NoError(t, err)
			raws = append(raws, tok.Kind.String()+" "+tok.Raw)
		}
		return raws
	}

	first := collect()
	assert.Equal(t, []string{
		"identifier a", "punctuation :", "number 1",
		"identifier b", "punctuation :", "string 'x'",
		"end of input ",
	}, first)
	assert.Equal(t, first, collect())

	// A partially consumed lexer starts over too.
	l.Reset()
	_, _ = l.Next()
	assert.Equal(t, first, collect())
}

func TestLexerErrors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		str    string
		errMsg string
		col    int
	}{
		{str: `"foobar`, errMsg: "unterminated string literal", col: 1},
		{str: `"foobar\J"`, errMsg: "invalid escape sequence", col: 8},
		{str: `"foobar\xgfoo"`, errMsg: "invalid hex escape", col: 8},
		{str: `"foobar\u09gafoo"`, errMsg: "invalid unicode escape", col: 8},
		{str: `"foobar\U0010005zfoo"`, errMsg: "invalid unicode escape", col: 8},
		{str: `"foobar\U00110000foo"`, errMsg: "unicode escape is out of range", col: 8},
		{str: `"\400"`, errMsg: "octal escape is out range", col: 2},
		{str: "'foobar\nbaz'", errMsg: "encountered end-of-line", col: 8},
		{str: "'foobar\000baz'", errMsg: "null character ('\\0') not allowed", col: 8},
		{str: `1.543g12`, errMsg: "invalid syntax in float value", col: 1},
		{str: `0.1234.5678.`, errMsg: "invalid syntax in float value", col: 1},
		{str: `0x987.345aaf`, errMsg: "invalid syntax in hexadecimal integer value", col: 1},
		{str: `0.987e34e-20`, errMsg: "invalid syntax in float value", col: 1},
		{str: `.987to123`, errMsg: "invalid syntax in float value", col: 1},
		{str: `012389`, errMsg: "invalid syntax in octal integer value", col: 1},
		{str: `12abc`, errMsg: "invalid number", col: 1},
		{str: `1ff`, errMsg: "invalid syntax in float value", col: 1},
		{str: `x: - 5`, errMsg: "'-' must be followed by a number", col: 4},
		{str: `x: -foo`, errMsg: "invalid number: -foo", col: 4},
		{str: `x @`, errMsg: "invalid character '@'", col: 3},
		{str: "x\xff", errMsg: "invalid UTF-8", col: 2},
		{str: "x: é", errMsg: "invalid character 'é'", col: 4},
	}
	for i, tc := range testCases {
		l := newTestLexer(tc.str)
		var err error
		for err == nil {
			var tok Token
			tok, err = l.Next()
			if tok.Kind == EOF && err == nil {
				break
			}
		}
		if !assert.Error(t, err, "case %d: %q", i, tc.str) {
			continue
		}
		assert.Contains(t, err.Error(), tc.errMsg, "case %d", i)
		assert.ErrorIs(t, err, reporter.ErrLex, "case %d", i)

		var ewp reporter.ErrorWithPos
		if assert.ErrorAs(t, err, &ewp, "case %d", i) {
			assert.Equal(t, 1, ewp.GetPosition().Line, "case %d", i)
			assert.Equal(t, tc.col, ewp.GetPosition().Col, "case %d: %v", i, err)
		}

		// Errors are sticky.
		_, again := l.Next()
		assert.Equal(t, err, again, "case %d", i)
	}
}

func TestLexerStringBytes(t *testing.T) {
	t.Parallel()

	// Bytes that are not valid UTF-8 are kept as-is inside string literals.
	l := newTestLexer("'\xff\xfe'")
	tok, err := l.Next()
	require.NoError(t, err)
	assert.Equal(t, String, tok.Kind)
	assert.Equal(t, "\xff\xfe", tok.Value)
}

func newTestLexer(text string) *Lexer {
	return NewLexer(source.NewFile("test.txtpb", []byte(text)))
}
