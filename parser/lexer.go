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
	"bytes"
	"errors"
	"fmt"
	"io"
	"iter"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/bufbuild/textpb/reporter"
	"github.com/bufbuild/textpb/source"
)

// TokenKind is the kind of a [Token].
type TokenKind int

const (
	EOF TokenKind = iota
	Ident
	String
	Number
	Punct
)

// String implements [fmt.Stringer].
func (k TokenKind) String() string {
	switch k {
	case EOF:
		return "end of input"
	case Ident:
		return "identifier"
	case String:
		return "string"
	case Number:
		return "number"
	case Punct:
		return "punctuation"
	default:
		return fmt.Sprintf("TokenKind(%d)", int(k))
	}
}

// Token is a single lexical element.
type Token struct {
	Kind TokenKind
	// Raw is the token exactly as it appears in the input.
	Raw string
	// Offset is the byte offset of the first byte of the token.
	Offset int

	// Value is the decoded contents of a String token. For every other
	// kind it equals Raw.
	Value string
	// Num is the classification of a Number token.
	Num NumberLit
}

// Is returns whether t is the given punctuation or identifier.
func (t Token) Is(s string) bool {
	return (t.Kind == Punct || t.Kind == Ident) && t.Raw == s
}

// describe renders t for use in an error message.
func (t Token) describe() string {
	switch t.Kind {
	case EOF:
		return "end of input"
	case String:
		return "string " + t.Raw
	default:
		return strconv.Quote(t.Raw)
	}
}

var utf8Bom = []byte{0xEF, 0xBB, 0xBF}

// Lexer splits text format input into tokens.
//
// A Lexer can be restarted from the beginning with Reset, but cannot resume
// from an arbitrary point.
type Lexer struct {
	file  *source.File
	input runeReader
	start int
	err   error
}

// NewLexer returns a lexer over the contents of file. A leading UTF-8 byte
// order mark is skipped.
func NewLexer(file *source.File) *Lexer {
	l := &Lexer{file: file}
	if bytes.HasPrefix(file.Data(), utf8Bom) {
		l.start = len(utf8Bom)
	}
	l.Reset()
	return l
}

// File returns the input this lexer reads.
func (l *Lexer) File() *source.File {
	return l.file
}

// Reset restarts the lexer at the beginning of the input.
func (l *Lexer) Reset() {
	l.input = runeReader{data: l.file.Data(), pos: l.start, mark: l.start}
	l.err = nil
}

// Tokens restarts the lexer and returns an iterator over all of its tokens,
// ending with the EOF token or with the first error.
func (l *Lexer) Tokens() iter.Seq2[Token, error] {
	return func(yield func(Token, error) bool) {
		l.Reset()
		for {
			tok, err := l.Next()
			if !yield(tok, err) || err != nil || tok.Kind == EOF {
				return
			}
		}
	}
}

// Next returns the next token. At the end of the input it returns an EOF
// token, repeatedly.
//
// Errors are [reporter.ErrorWithPos] values with the [reporter.LexError]
// code. Once an error occurs, Next keeps returning it.
func (l *Lexer) Next() (Token, error) {
	if l.err != nil {
		return Token{}, l.err
	}
	tok, err := l.next()
	if err != nil {
		l.err = err
		return Token{}, err
	}
	return tok, nil
}

func (l *Lexer) next() (Token, error) {
	for {
		l.input.setMark()

		c, _, err := l.input.readRune()
		if err == io.EOF {
			return Token{Kind: EOF, Offset: l.input.offset()}, nil
		} else if err != nil {
			return Token{}, l.errorAt(l.input.offset(), err)
		}

		if strings.ContainsRune("\n\r\t\f\v ", c) {
			l.maybeNewLine(c)
			continue
		}

		switch {
		case c == '#':
			l.skipToEndOfLineComment()
			continue

		case c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z'):
			l.readIdentifier()
			return l.token(Ident), nil

		case c >= '0' && c <= '9':
			l.readNumber()
			return l.number()

		case c == '-':
			cn, szn, err := l.input.readRune()
			switch {
			case err != nil:
				return Token{}, l.errorAt(l.input.mark, errors.New("unexpected '-' at end of input"))
			case cn >= '0' && cn <= '9' || cn == '.':
				l.readNumber()
				return l.number()
			case cn == '_' || (cn >= 'a' && cn <= 'z') || (cn >= 'A' && cn <= 'Z'):
				l.readIdentifier()
				return l.number()
			default:
				l.input.unreadRune(szn)
				return Token{}, l.errorAt(l.input.mark, errors.New("'-' must be followed by a number"))
			}

		case c == '.':
			// Decimal literals could start with a dot.
			cn, szn, err := l.input.readRune()
			if err == nil && cn >= '0' && cn <= '9' {
				l.readNumber()
				return l.number()
			}
			if err == nil {
				l.input.unreadRune(szn)
			}
			return l.token(Punct), nil

		case c == '\'' || c == '"':
			str, err := l.readStringLiteral(c)
			if err != nil {
				return Token{}, err
			}
			tok := l.token(String)
			tok.Value = str
			return tok, nil

		case strings.ContainsRune("{}[]<>:,;/", c):
			return l.token(Punct), nil
		}

		return Token{}, l.errorAt(l.input.mark, fmt.Errorf("invalid character %q", c))
	}
}

func (l *Lexer) token(kind TokenKind) Token {
	raw := l.input.getMark()
	return Token{Kind: kind, Raw: raw, Value: raw, Offset: l.input.mark}
}

func (l *Lexer) number() (Token, error) {
	tok := l.token(Number)
	num, err := classifyNumber(tok.Raw)
	if err != nil {
		return Token{}, l.errorAt(tok.Offset, err)
	}
	tok.Num = num
	return tok, nil
}

func (l *Lexer) maybeNewLine(r rune) {
	if r == '\n' {
		l.file.AddLine(l.input.offset())
	}
}

func (l *Lexer) errorAt(offset int, err error) error {
	return reporter.Error(l.file.Pos(offset), reporter.LexError, err)
}

func (l *Lexer) readIdentifier() {
	for {
		c, sz, err := l.input.readRune()
		if err != nil {
			break
		}
		if c != '_' && (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') && (c < '0' || c > '9') {
			l.input.unreadRune(sz)
			break
		}
	}
}

func (l *Lexer) readNumber() {
	allowExpSign := false
	for {
		c, sz, err := l.input.readRune()
		if err != nil {
			break
		}
		if (c == '-' || c == '+') && !allowExpSign {
			l.input.unreadRune(sz)
			break
		}
		allowExpSign = false
		if c != '.' && c != '_' && (c < '0' || c > '9') &&
			(c < 'a' || c > 'z') && (c < 'A' || c > 'Z') &&
			c != '-' && c != '+' {
			// No more chars in the number token.
			l.input.unreadRune(sz)
			break
		}
		if c == 'e' || c == 'E' {
			// Scientific notation char can be followed by an exponent sign.
			allowExpSign = true
		}
	}
}

func (l *Lexer) readStringLiteral(quote rune) (string, error) {
	var buf bytes.Buffer
	for {
		at := l.input.offset()
		c, _, err := l.input.readRune()
		if err == io.EOF {
			return "", l.errorAt(l.input.mark, errors.New("unterminated string literal"))
		} else if err != nil {
			// String literals may carry arbitrary bytes.
			buf.WriteByte(l.input.data[at])
			l.input.skipByte()
			continue
		}
		if c == '\n' {
			return "", l.errorAt(at, errors.New("encountered end-of-line before end of string literal"))
		}
		if c == quote {
			break
		}
		if c == 0 {
			return "", l.errorAt(at, errors.New("null character ('\\0') not allowed in string literal"))
		}
		if c != '\\' {
			buf.WriteRune(c)
			continue
		}

		if err := l.readEscape(&buf); err != nil {
			return "", l.errorAt(at, err)
		}
	}
	return buf.String(), nil
}

func (l *Lexer) readEscape(buf *bytes.Buffer) error {
	c, _, err := l.input.readRune()
	if err != nil {
		return errors.New("unterminated escape sequence")
	}

	switch {
	case c == 'x' || c == 'X':
		hex := l.readDigits(2, isHexDigit)
		if hex == "" {
			return fmt.Errorf("invalid hex escape: \\%c", c)
		}
		i, _ := strconv.ParseUint(hex, 16, 8)
		buf.WriteByte(byte(i))

	case c >= '0' && c <= '7':
		l.input.unreadRune(1)
		octal := l.readDigits(3, isOctalDigit)
		i, _ := strconv.ParseUint(octal, 8, 16)
		if i > 0xff {
			return fmt.Errorf("octal escape is out range, must be between 0 and 377: \\%s", octal)
		}
		buf.WriteByte(byte(i))

	case c == 'u' || c == 'U':
		n := 4
		if c == 'U' {
			n = 8
		}
		hex := l.readDigits(n, isHexDigit)
		if len(hex) != n {
			return fmt.Errorf("invalid unicode escape: \\%c%s", c, hex)
		}
		i, _ := strconv.ParseUint(hex, 16, 32)
		if i > utf8.MaxRune || (i >= 0xd800 && i < 0xe000) {
			return fmt.Errorf("unicode escape is out of range: \\%c%s", c, hex)
		}
		buf.WriteRune(rune(i))

	case c == 'a':
		buf.WriteByte('\a')
	case c == 'b':
		buf.WriteByte('\b')
	case c == 'f':
		buf.WriteByte('\f')
	case c == 'n':
		buf.WriteByte('\n')
	case c == 'r':
		buf.WriteByte('\r')
	case c == 't':
		buf.WriteByte('\t')
	case c == 'v':
		buf.WriteByte('\v')
	case c == '\\', c == '\'', c == '"', c == '?':
		buf.WriteByte(byte(c))

	default:
		return fmt.Errorf("invalid escape sequence: %q", "\\"+string(c))
	}
	return nil
}

// readDigits reads up to n characters that satisfy ok.
func (l *Lexer) readDigits(n int, ok func(rune) bool) string {
	start := l.input.offset()
	for range n {
		c, sz, err := l.input.readRune()
		if err != nil {
			break
		}
		if !ok(c) {
			l.input.unreadRune(sz)
			break
		}
	}
	return string(l.input.data[start:l.input.offset()])
}

func (l *Lexer) skipToEndOfLineComment() {
	for {
		c, _, err := l.input.readRune()
		if err != nil {
			return
		}
		if c == '\n' {
			l.file.AddLine(l.input.offset())
			return
		}
	}
}

func isHexDigit(c rune) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isOctalDigit(c rune) bool {
	return c >= '0' && c <= '7'
}

type runeReader struct {
	data []byte
	pos  int
	err  error
	mark int
}

func (rr *runeReader) readRune() (r rune, size int, err error) {
	if rr.err != nil {
		return 0, 0, rr.err
	}
	if rr.pos == len(rr.data) {
		rr.err = io.EOF
		return 0, 0, rr.err
	}
	r, sz := utf8.DecodeRune(rr.data[rr.pos:])
	if r == utf8.RuneError && sz <= 1 {
		rr.err = fmt.Errorf("invalid UTF-8 at offset %d: %x", rr.pos, rr.data[rr.pos])
		return 0, 0, rr.err
	}
	rr.pos += sz
	return r, sz, nil
}

// skipByte steps over a byte that readRune rejected.
func (rr *runeReader) skipByte() {
	rr.err = nil
	rr.pos++
}

func (rr *runeReader) offset() int {
	return rr.pos
}

func (rr *runeReader) unreadRune(sz int) {
	newPos := rr.pos - sz
	if newPos < rr.mark {
		panic("unread past mark")
	}
	rr.pos = newPos
}

func (rr *runeReader) setMark() {
	rr.mark = rr.pos
}

func (rr *runeReader) getMark() string {
	return string(rr.data[rr.mark:rr.pos])
}
