// Package tsx implements the syntax layer for the transform pipeline: a
// JSX-aware lexer, a tagged-union AST, a recursive-descent parser, and a
// deterministic printer.
//
// The AST deliberately covers the TypeScript/JSX subset that UI component
// kits are written in (imports/exports, type aliases, interfaces, functions,
// JSX trees, the usual expression grammar). Parse trees are replaced, never
// mutated in place, by the rewrite passes in internal/transform.
package tsx

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// SyntaxError reports a lexical or grammatical error with its position.
type SyntaxError struct {
	Line int
	Col  int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Col, e.Msg)
}

// Lexer produces tokens from TSX source. The parser drives mode switches
// explicitly: Next for ordinary code, NextJSXTag inside an element tag,
// NextJSXChild between tags, ScanRegExp and RescanTemplateToken for the two
// context-sensitive rescans.
type Lexer struct {
	source    string
	pos       int
	start     int // byte offset of the current token
	line      int
	lineStart int
	Token     Token
	comments  []string
	err       *SyntaxError
}

func NewLexer(source string) *Lexer {
	l := &Lexer{source: source, line: 1}
	l.Next()
	return l
}

// TakeComments returns and clears the comments collected since the last call.
func (l *Lexer) TakeComments() []string {
	c := l.comments
	l.comments = nil
	return c
}

// Err returns the first lexical error encountered, if any.
func (l *Lexer) Err() *SyntaxError {
	return l.err
}

// Snapshot captures the full lexer state for speculative parsing.
func (l *Lexer) Snapshot() Lexer {
	return *l
}

// Restore rewinds to a previously captured state.
func (l *Lexer) Restore(s Lexer) {
	*l = s
}

func (l *Lexer) fail(msg string) {
	if l.err == nil {
		l.err = &SyntaxError{Line: l.line, Col: l.start - l.lineStart + 1, Msg: msg}
	}
	l.Token = Token{Kind: TEndOfFile, Line: l.line, Col: l.start - l.lineStart + 1}
}

func (l *Lexer) peek() byte {
	if l.pos < len(l.source) {
		return l.source[l.pos]
	}
	return 0
}

func (l *Lexer) peekAt(n int) byte {
	if l.pos+n < len(l.source) {
		return l.source[l.pos+n]
	}
	return 0
}

func (l *Lexer) skipSpaceAndComments() {
	for l.pos < len(l.source) {
		c := l.source[l.pos]
		switch c {
		case ' ', '\t', '\r':
			l.pos++
		case '\n':
			l.pos++
			l.line++
			l.lineStart = l.pos
		case '/':
			if l.peekAt(1) == '/' {
				start := l.pos
				for l.pos < len(l.source) && l.source[l.pos] != '\n' {
					l.pos++
				}
				l.comments = append(l.comments, l.source[start:l.pos])
			} else if l.peekAt(1) == '*' {
				start := l.pos
				l.pos += 2
				for l.pos < len(l.source) {
					if l.source[l.pos] == '*' && l.peekAt(1) == '/' {
						l.pos += 2
						break
					}
					if l.source[l.pos] == '\n' {
						l.line++
						l.lineStart = l.pos + 1
					}
					l.pos++
				}
				l.comments = append(l.comments, l.source[start:l.pos])
			} else {
				return
			}
		default:
			return
		}
	}
}

func isIdentStart(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func (l *Lexer) setToken(kind T, text string) {
	l.Token = Token{Kind: kind, Text: text, Line: l.line, Col: l.start - l.lineStart + 1}
}

// Next scans the next token in ordinary (non-JSX) mode.
func (l *Lexer) Next() {
	l.nextInternal(false)
}

// NextJSXTag scans the next token inside a JSX tag, where identifiers may
// contain dashes (data-slot, aria-hidden) and attribute strings keep their
// raw contents.
func (l *Lexer) NextJSXTag() {
	l.nextInternal(true)
}

func (l *Lexer) nextInternal(jsxTag bool) {
	l.skipSpaceAndComments()
	l.start = l.pos
	if l.pos >= len(l.source) {
		l.setToken(TEndOfFile, "")
		return
	}
	c := l.source[l.pos]
	switch c {
	case '(':
		l.pos++
		l.setToken(TOpenParen, "(")
	case ')':
		l.pos++
		l.setToken(TCloseParen, ")")
	case '{':
		l.pos++
		l.setToken(TOpenBrace, "{")
	case '}':
		l.pos++
		l.setToken(TCloseBrace, "}")
	case '[':
		l.pos++
		l.setToken(TOpenBracket, "[")
	case ']':
		l.pos++
		l.setToken(TCloseBracket, "]")
	case ',':
		l.pos++
		l.setToken(TComma, ",")
	case ';':
		l.pos++
		l.setToken(TSemicolon, ";")
	case ':':
		l.pos++
		l.setToken(TColon, ":")
	case '~':
		l.pos++
		l.setToken(TPunct, "~")
	case '@':
		l.pos++
		l.setToken(TPunct, "@")
	case '?':
		if l.peekAt(1) == '.' {
			l.pos += 2
			l.setToken(TQuestionDot, "?.")
		} else if l.peekAt(1) == '?' {
			if l.peekAt(2) == '=' {
				l.pos += 3
				l.setToken(TPunct, "??=")
			} else {
				l.pos += 2
				l.setToken(TPunct, "??")
			}
		} else {
			l.pos++
			l.setToken(TQuestion, "?")
		}
	case '.':
		if l.peekAt(1) == '.' && l.peekAt(2) == '.' {
			l.pos += 3
			l.setToken(TDotDotDot, "...")
		} else {
			l.pos++
			l.setToken(TDot, ".")
		}
	case '=':
		if l.peekAt(1) == '>' {
			l.pos += 2
			l.setToken(TArrow, "=>")
		} else if l.peekAt(1) == '=' {
			if l.peekAt(2) == '=' {
				l.pos += 3
				l.setToken(TPunct, "===")
			} else {
				l.pos += 2
				l.setToken(TPunct, "==")
			}
		} else {
			l.pos++
			l.setToken(TEquals, "=")
		}
	case '<':
		if !jsxTag && l.peekAt(1) == '=' {
			l.pos += 2
			l.setToken(TPunct, "<=")
		} else {
			l.pos++
			l.setToken(TLessThan, "<")
		}
	case '>':
		// Always a single token so nested generics close cleanly; the
		// parser merges shift and comparison forms on demand.
		l.pos++
		l.setToken(TGreaterThan, ">")
	case '!':
		if l.peekAt(1) == '=' {
			if l.peekAt(2) == '=' {
				l.pos += 3
				l.setToken(TPunct, "!==")
			} else {
				l.pos += 2
				l.setToken(TPunct, "!=")
			}
		} else {
			l.pos++
			l.setToken(TPunct, "!")
		}
	case '+', '-', '*', '%', '&', '|', '^':
		l.scanOperator(c)
	case '/':
		if l.peekAt(1) == '=' {
			l.pos += 2
			l.setToken(TPunct, "/=")
		} else {
			l.pos++
			l.setToken(TPunct, "/")
		}
	case '\'', '"':
		l.scanString(c, jsxTag)
	case '`':
		l.pos++
		l.scanTemplate()
	default:
		r, size := utf8.DecodeRuneInString(l.source[l.pos:])
		if c >= '0' && c <= '9' {
			l.scanNumber()
			return
		}
		if isIdentStart(r) {
			l.pos += size
			for l.pos < len(l.source) {
				r2, s2 := utf8.DecodeRuneInString(l.source[l.pos:])
				if isIdentPart(r2) || (jsxTag && r2 == '-') {
					l.pos += s2
					continue
				}
				break
			}
			l.setToken(TIdent, l.source[l.start:l.pos])
			return
		}
		l.fail(fmt.Sprintf("unexpected character %q", r))
	}
}

func (l *Lexer) scanOperator(c byte) {
	two := string(c) + "="
	switch {
	case c == '*' && l.peekAt(1) == '*':
		if l.peekAt(2) == '=' {
			l.pos += 3
			l.setToken(TPunct, "**=")
		} else {
			l.pos += 2
			l.setToken(TPunct, "**")
		}
	case (c == '+' || c == '-') && l.peekAt(1) == c:
		l.pos += 2
		l.setToken(TPunct, string(c)+string(c))
	case (c == '&' || c == '|') && l.peekAt(1) == c:
		if l.peekAt(2) == '=' {
			l.pos += 3
			l.setToken(TPunct, string(c)+string(c)+"=")
		} else {
			l.pos += 2
			l.setToken(TPunct, string(c)+string(c))
		}
	case l.peekAt(1) == '=':
		l.pos += 2
		l.setToken(TPunct, two)
	default:
		l.pos++
		l.setToken(TPunct, string(c))
	}
}

func (l *Lexer) scanNumber() {
	for l.pos < len(l.source) {
		c := l.source[l.pos]
		if (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') ||
			c == '.' || c == '_' {
			l.pos++
			continue
		}
		break
	}
	l.setToken(TNumericLiteral, l.source[l.start:l.pos])
}

func (l *Lexer) scanString(quote byte, raw bool) {
	l.pos++
	var sb strings.Builder
	for {
		if l.pos >= len(l.source) {
			l.fail("unterminated string literal")
			return
		}
		c := l.source[l.pos]
		if c == quote {
			l.pos++
			break
		}
		if c == '\n' {
			l.fail("unterminated string literal")
			return
		}
		if c == '\\' && !raw {
			l.pos++
			sb.WriteString(l.decodeEscape())
			continue
		}
		sb.WriteByte(c)
		l.pos++
	}
	l.setToken(TStringLiteral, l.source[l.start:l.pos])
	l.Token.StringValue = sb.String()
}

func (l *Lexer) decodeEscape() string {
	if l.pos >= len(l.source) {
		return ""
	}
	c := l.source[l.pos]
	l.pos++
	switch c {
	case 'n':
		return "\n"
	case 't':
		return "\t"
	case 'r':
		return "\r"
	case 'b':
		return "\b"
	case 'f':
		return "\f"
	case 'v':
		return "\v"
	case '0':
		return "\x00"
	case 'x':
		if l.pos+2 <= len(l.source) {
			var v rune
			if _, err := fmt.Sscanf(l.source[l.pos:l.pos+2], "%02x", &v); err == nil {
				l.pos += 2
				return string(v)
			}
		}
		return "x"
	case 'u':
		if l.peek() == '{' {
			end := strings.IndexByte(l.source[l.pos:], '}')
			if end > 0 {
				var v rune
				if _, err := fmt.Sscanf(l.source[l.pos+1:l.pos+end], "%x", &v); err == nil {
					l.pos += end + 1
					return string(v)
				}
			}
		} else if l.pos+4 <= len(l.source) {
			var v rune
			if _, err := fmt.Sscanf(l.source[l.pos:l.pos+4], "%04x", &v); err == nil {
				l.pos += 4
				return string(v)
			}
		}
		return "u"
	default:
		return string(c)
	}
}

// scanTemplate scans from just after a backtick or a substitution close
// brace, producing one of the four template token kinds. The token text is
// the raw chunk without delimiters.
func (l *Lexer) scanTemplate() {
	chunkStart := l.pos
	head := l.source[l.start] == '`'
	for {
		if l.pos >= len(l.source) {
			l.fail("unterminated template literal")
			return
		}
		c := l.source[l.pos]
		if c == '`' {
			text := l.source[chunkStart:l.pos]
			l.pos++
			if head {
				l.setToken(TNoSubstitutionTemplate, text)
			} else {
				l.setToken(TTemplateTail, text)
			}
			return
		}
		if c == '$' && l.peekAt(1) == '{' {
			text := l.source[chunkStart:l.pos]
			l.pos += 2
			if head {
				l.setToken(TTemplateHead, text)
			} else {
				l.setToken(TTemplateMiddle, text)
			}
			return
		}
		if c == '\\' {
			l.pos++
		}
		if l.pos < len(l.source) && l.source[l.pos] == '\n' {
			l.line++
			l.lineStart = l.pos + 1
		}
		l.pos++
	}
}

// RescanTemplateToken reinterprets the current close brace as the resumption
// of an enclosing template literal.
func (l *Lexer) RescanTemplateToken() {
	l.pos = l.start + 1
	l.scanTemplate()
}

// ScanRegExp reinterprets the current "/" or "/=" token as the start of a
// regular expression literal. The token text includes delimiters and flags.
func (l *Lexer) ScanRegExp() {
	l.pos = l.start + 1
	inClass := false
	for {
		if l.pos >= len(l.source) || l.source[l.pos] == '\n' {
			l.fail("unterminated regular expression")
			return
		}
		c := l.source[l.pos]
		if c == '\\' {
			l.pos += 2
			continue
		}
		if c == '[' {
			inClass = true
		} else if c == ']' {
			inClass = false
		} else if c == '/' && !inClass {
			l.pos++
			break
		}
		l.pos++
	}
	for l.pos < len(l.source) {
		r, size := utf8.DecodeRuneInString(l.source[l.pos:])
		if !isIdentPart(r) {
			break
		}
		l.pos += size
	}
	l.setToken(TRegExpLiteral, l.source[l.start:l.pos])
}

// NextJSXChild scans JSX child content: raw text up to the next "<" or "{",
// or the delimiter itself when text is empty.
func (l *Lexer) NextJSXChild() {
	l.start = l.pos
	if l.pos >= len(l.source) {
		l.setToken(TEndOfFile, "")
		return
	}
	c := l.source[l.pos]
	if c == '<' {
		l.pos++
		l.setToken(TLessThan, "<")
		return
	}
	if c == '{' {
		l.pos++
		l.setToken(TOpenBrace, "{")
		return
	}
	for l.pos < len(l.source) {
		c := l.source[l.pos]
		if c == '<' || c == '{' {
			break
		}
		if c == '\n' {
			l.line++
			l.lineStart = l.pos + 1
		}
		l.pos++
	}
	l.setToken(TJSXText, l.source[l.start:l.pos])
}

// MergeGreater extends the current ">" token with immediately adjacent ">"
// and "=" characters, returning the merged operator. Used only where the
// parser knows it wants a binary operator rather than a generic close.
func (l *Lexer) MergeGreater() string {
	op := ">"
	for l.pos < len(l.source) {
		c := l.source[l.pos]
		if c == '>' && !strings.HasSuffix(op, "=") {
			op += ">"
			l.pos++
		} else if c == '=' {
			op += "="
			l.pos++
		} else {
			break
		}
	}
	if op != ">" {
		l.setToken(TPunct, op)
	}
	return op
}
