package salvage

import "connlint/internal/ir"

type tokenKind int

const (
	tokLBrace tokenKind = iota
	tokRBrace
	tokLabel // identifier declared as a hash key: `name:` or `:name =>`
	tokOther
)

type token struct {
	kind tokenKind
	text string
	loc  ir.Loc
}

// scanner is a minimal single-pass tokenizer over connector source.
// It understands just enough of the dialect to skip comments and string
// literals and to recognize hash-key labels and braces.
type scanner struct {
	src   []byte
	pos   int
	line  int
	col   int
	depth int
}

func (s *scanner) next() (token, bool) {
	for s.pos < len(s.src) {
		c := s.src[s.pos]

		switch {
		case c == '\n':
			s.advance()
			s.line++
			s.col = 0
		case c == ' ' || c == '\t' || c == '\r':
			s.advance()
		case c == '#':
			s.skipToEOL()
		case c == '\'' || c == '"':
			s.skipString(c)
		case c == '{':
			tok := s.tokenAt(tokLBrace, "{")
			s.advance()
			return tok, true
		case c == '}':
			tok := s.tokenAt(tokRBrace, "}")
			s.advance()
			return tok, true
		case c == ':' && s.peekIdentStart(1):
			// Symbol form: `:name`. A label if followed by `=>`.
			start := s.pos
			loc := s.loc()
			s.advance()
			name := s.readIdent()
			if s.peekArrow() {
				loc.EndByte = s.pos
				return token{kind: tokLabel, text: name, loc: loc}, true
			}
			loc.StartByte = start
			loc.EndByte = s.pos
			return token{kind: tokOther, text: name, loc: loc}, true
		case isIdentStart(c):
			loc := s.loc()
			name := s.readIdent()
			if s.pos < len(s.src) && s.src[s.pos] == ':' && !s.peekAt(s.pos+1, ':') {
				// Modern label form: `name:`.
				s.advance()
				loc.EndByte = s.pos
				return token{kind: tokLabel, text: name, loc: loc}, true
			}
			loc.EndByte = s.pos
			return token{kind: tokOther, text: name, loc: loc}, true
		default:
			s.advance()
		}
	}
	return token{}, false
}

func (s *scanner) advance() {
	s.pos++
	s.col++
}

func (s *scanner) loc() ir.Loc {
	return ir.Loc{Line: s.line, Col: s.col, StartByte: s.pos, EndByte: s.pos}
}

func (s *scanner) tokenAt(kind tokenKind, text string) token {
	loc := s.loc()
	loc.EndByte = s.pos + len(text)
	return token{kind: kind, text: text, loc: loc}
}

func (s *scanner) skipToEOL() {
	for s.pos < len(s.src) && s.src[s.pos] != '\n' {
		s.advance()
	}
}

// skipString consumes a quoted literal, honoring backslash escapes.
// An unterminated string consumes the rest of the input, which is the
// safe degradation for a salvage pass.
func (s *scanner) skipString(quote byte) {
	s.advance() // opening quote
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		if c == '\\' {
			s.advance()
			if s.pos < len(s.src) {
				if s.src[s.pos] == '\n' {
					s.line++
					s.col = 0
				}
				s.advance()
			}
			continue
		}
		if c == '\n' {
			s.advance()
			s.line++
			s.col = 0
			continue
		}
		s.advance()
		if c == quote {
			return
		}
	}
}

func (s *scanner) readIdent() string {
	start := s.pos
	for s.pos < len(s.src) && isIdentPart(s.src[s.pos]) {
		s.advance()
	}
	return string(s.src[start:s.pos])
}

// peekArrow reports whether the next non-space characters are `=>`.
func (s *scanner) peekArrow() bool {
	i := s.pos
	for i < len(s.src) && (s.src[i] == ' ' || s.src[i] == '\t') {
		i++
	}
	return i+1 < len(s.src) && s.src[i] == '=' && s.src[i+1] == '>'
}

func (s *scanner) peekIdentStart(offset int) bool {
	i := s.pos + offset
	return i < len(s.src) && isIdentStart(s.src[i])
}

func (s *scanner) peekAt(i int, c byte) bool {
	return i < len(s.src) && s.src[i] == c
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}
