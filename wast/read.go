// Copyright 2018 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wast

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/pgavlin/wasm-opt/wasm"
)

// SyntaxError describes a malformed text module.
type SyntaxError struct {
	Line, Col int
	Message   string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("wast: %d:%d: %s", e.Line, e.Col, e.Message)
}

// DecodeModule reads a `(module binary "...")` form from r and decodes the
// bytes carried by its string literals.
func DecodeModule(r io.Reader) (*wasm.Module, error) {
	s := &scanner{br: bufio.NewReader(r), line: 1, col: 0}

	if err := s.expectByte('('); err != nil {
		return nil, err
	}
	if err := s.expectKeyword("module"); err != nil {
		return nil, err
	}

	kw, err := s.keyword()
	if err != nil {
		return nil, err
	}
	if strings.HasPrefix(kw, "$") {
		// Optional module identifier.
		if kw, err = s.keyword(); err != nil {
			return nil, err
		}
	}
	if kw != "binary" {
		return nil, s.errorf("expected 'binary', found '%s'", kw)
	}

	var bin bytes.Buffer
	for {
		c, err := s.next()
		if err != nil {
			return nil, err
		}
		if c == ')' {
			break
		}
		if c != '"' {
			return nil, s.errorf("expected a string or ')', found %q", c)
		}
		if err := s.scanString(&bin); err != nil {
			return nil, err
		}
	}

	return wasm.DecodeModule(&bin)
}

type scanner struct {
	br        *bufio.Reader
	line, col int
}

func (s *scanner) errorf(format string, args ...interface{}) error {
	return &SyntaxError{Line: s.line, Col: s.col, Message: fmt.Sprintf(format, args...)}
}

func (s *scanner) chomp() (byte, error) {
	c, err := s.br.ReadByte()
	if err == io.EOF {
		return 0, s.errorf("unexpected end of input")
	} else if err != nil {
		return 0, err
	}
	if c == '\n' {
		s.line, s.col = s.line+1, 0
	} else {
		s.col++
	}
	return c, nil
}

// next returns the first byte of the next token, consuming whitespace and
// comments.
func (s *scanner) next() (byte, error) {
	for {
		c, err := s.chomp()
		if err != nil {
			return 0, err
		}
		switch c {
		case ' ', '\t', '\r', '\n':
			continue
		case ';':
			c, err = s.chomp()
			if err != nil {
				return 0, err
			}
			if c != ';' {
				return 0, s.errorf("expected ';;'")
			}
			if err := s.skipLineComment(); err != nil {
				return 0, err
			}
		case '(':
			peek, err := s.br.Peek(1)
			if err == nil && peek[0] == ';' {
				s.chomp()
				if err := s.skipBlockComment(); err != nil {
					return 0, err
				}
				continue
			}
			return c, nil
		default:
			return c, nil
		}
	}
}

func (s *scanner) skipLineComment() error {
	for {
		c, err := s.br.ReadByte()
		if err == io.EOF {
			return nil
		} else if err != nil {
			return err
		}
		if c == '\n' {
			s.line, s.col = s.line+1, 0
			return nil
		}
		s.col++
	}
}

func (s *scanner) skipBlockComment() error {
	// Already positioned after "(;". Block comments nest.
	depth := 1
	for depth > 0 {
		c, err := s.chomp()
		if err != nil {
			return err
		}
		switch c {
		case '(':
			if c, err = s.chomp(); err != nil {
				return err
			}
			if c == ';' {
				depth++
			}
		case ';':
			if c, err = s.chomp(); err != nil {
				return err
			}
			if c == ')' {
				depth--
			}
		}
	}
	return nil
}

func (s *scanner) keyword() (string, error) {
	c, err := s.next()
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteByte(c)
	for {
		peek, err := s.br.Peek(1)
		if err != nil {
			break
		}
		c = peek[0]
		if !isLetter(c) && !isDigit(c) && c != '_' && c != '.' && c != '-' {
			break
		}
		s.chomp()
		b.WriteByte(c)
	}
	return b.String(), nil
}

func (s *scanner) expectByte(want byte) error {
	c, err := s.next()
	if err != nil {
		return err
	}
	if c != want {
		return s.errorf("expected %q, found %q", want, c)
	}
	return nil
}

func (s *scanner) expectKeyword(want string) error {
	kw, err := s.keyword()
	if err != nil {
		return err
	}
	if kw != want {
		return s.errorf("expected '%s', found '%s'", want, kw)
	}
	return nil
}

// scanString consumes a string literal's contents into buf. The opening '"'
// has already been consumed.
func (s *scanner) scanString(buf *bytes.Buffer) error {
	for {
		c, err := s.chomp()
		if err != nil {
			return err
		}
		if c == '"' {
			return nil
		}
		if c != '\\' {
			buf.WriteByte(c)
			continue
		}

		c, err = s.chomp()
		if err != nil {
			return err
		}
		switch c {
		case 'n':
			buf.WriteByte('\n')
		case 'r':
			buf.WriteByte('\r')
		case 't':
			buf.WriteByte('\t')
		case '\\', '\'', '"':
			buf.WriteByte(c)
		case 'u':
			r, err := s.scanUnicodeEscape()
			if err != nil {
				return err
			}
			var enc [utf8.UTFMax]byte
			buf.Write(enc[:utf8.EncodeRune(enc[:], r)])
		default:
			if !isHexDigit(c) {
				return s.errorf("unknown escape '\\%c'", c)
			}
			lo, err := s.chomp()
			if err != nil {
				return err
			}
			if !isHexDigit(lo) {
				return s.errorf("malformed hex escape")
			}
			buf.WriteByte(hexNibble(c)<<4 | hexNibble(lo))
		}
	}
}

func (s *scanner) scanUnicodeEscape() (rune, error) {
	if err := s.expectByte('{'); err != nil {
		return 0, err
	}
	var r rune
	for {
		c, err := s.chomp()
		if err != nil {
			return 0, err
		}
		if c == '}' {
			return r, nil
		}
		if !isHexDigit(c) {
			return 0, s.errorf("malformed unicode escape")
		}
		r = r<<4 | rune(hexNibble(c))
	}
}

func isLetter(c byte) bool   { return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' }
func isDigit(c byte) bool    { return c >= '0' && c <= '9' }
func isHexDigit(c byte) bool { return isDigit(c) || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F' }

func hexNibble(c byte) byte {
	switch {
	case c >= 'a':
		return c - 'a' + 10
	case c >= 'A':
		return c - 'A' + 10
	default:
		return c - '0'
	}
}
