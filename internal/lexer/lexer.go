// Package lexer provides AWK source code tokenization.
package lexer

import (
	"unicode/utf8"

	"github.com/aiawk/aiawk/internal/token"
)

// Lexer tokenizes AWK source code. It produces a restartable lazy stream
// of tokens via Scan; the parser drives it one token at a time.
type Lexer struct {
	src     []byte         // Source code
	ch      byte           // Current character (0 at EOF)
	offset  int            // Current byte offset
	pos     token.Position // Current position
	nextPos token.Position // Position of next character

	hadSpace bool        // Was there whitespace before current token?
	lastTok  token.Token // Previous token (for regex detection)
}

// New creates a new Lexer for the given source code.
func New(src []byte) *Lexer {
	l := &Lexer{
		src: src,
		nextPos: token.Position{
			Line:   1,
			Column: 1,
		},
	}
	l.next()
	return l
}

// NewFromString creates a new Lexer from a string.
func NewFromString(src string) *Lexer {
	return New([]byte(src))
}

// Token represents a scanned token with its position and value.
type Token struct {
	Type  token.Token
	Pos   token.Position
	Value string
}

// Scan scans and returns the next token.
func (l *Lexer) Scan() Token {
	tok := l.scan()
	l.lastTok = tok.Type
	return tok
}

// HadSpace returns true if there was whitespace before the current token.
// Used by the parser to tell a function call from concatenation with a
// parenthesized expression.
func (l *Lexer) HadSpace() bool {
	return l.hadSpace
}

func (l *Lexer) scan() Token {
	l.skipWhitespace()

	if l.ch == '#' {
		l.skipComment()
	}

	pos := l.pos

	if l.ch == 0 {
		return Token{Type: token.EOF, Pos: pos}
	}

	switch l.ch {
	case '\n':
		l.next()
		return Token{Type: token.NEWLINE, Pos: pos}

	case '+':
		return l.switch3(pos, token.ADD, '=', token.ADD_ASSIGN, '+', token.INCR)
	case '-':
		return l.switch3(pos, token.SUB, '=', token.SUB_ASSIGN, '-', token.DECR)
	case '*':
		return l.switch2(pos, token.MUL, token.MUL_ASSIGN)
	case '%':
		return l.switch2(pos, token.MOD, token.MOD_ASSIGN)
	case '^':
		return l.switch2(pos, token.POW, token.POW_ASSIGN)
	case '=':
		return l.switch2(pos, token.ASSIGN, token.EQUALS)

	case '/':
		// Division or the start of a regex literal, depending on what
		// the previous token was.
		if l.canBeRegex() {
			return l.scanRegex(pos)
		}
		return l.switch2(pos, token.DIV, token.DIV_ASSIGN)

	case '!':
		return l.switch3(pos, token.NOT, '=', token.NOT_EQUALS, '~', token.NOT_MATCH)
	case '<':
		return l.switch2(pos, token.LESS, token.LTE)
	case '>':
		return l.switch3(pos, token.GREATER, '=', token.GTE, '>', token.APPEND)

	case '&':
		l.next()
		if l.ch == '&' {
			l.next()
			return Token{Type: token.AND, Pos: pos, Value: "&&"}
		}
		return Token{Type: token.ILLEGAL, Pos: pos, Value: "unexpected '&'"}

	case '|':
		l.next()
		if l.ch == '|' {
			l.next()
			return Token{Type: token.OR, Pos: pos, Value: "||"}
		}
		return Token{Type: token.ILLEGAL, Pos: pos, Value: "pipes are not supported"}

	case '~':
		l.next()
		return Token{Type: token.MATCH, Pos: pos, Value: "~"}

	case '\\':
		l.next()
		return Token{Type: token.ILLEGAL, Pos: pos, Value: `unexpected '\'`}

	case '(':
		return l.single(pos, token.LPAREN)
	case ')':
		return l.single(pos, token.RPAREN)
	case '{':
		return l.single(pos, token.LBRACE)
	case '}':
		return l.single(pos, token.RBRACE)
	case '[':
		return l.single(pos, token.LBRACKET)
	case ']':
		return l.single(pos, token.RBRACKET)
	case ',':
		return l.single(pos, token.COMMA)
	case ';':
		return l.single(pos, token.SEMICOLON)
	case ':':
		return l.single(pos, token.COLON)
	case '?':
		return l.single(pos, token.QUESTION)
	case '$':
		return l.single(pos, token.DOLLAR)

	case '"':
		return l.scanString(pos)

	default:
		if isDigit(l.ch) || (l.ch == '.' && l.offset < len(l.src) && isDigit(l.src[l.offset])) {
			return l.scanNumber(pos)
		}
		if isIdentStart(l.ch) {
			return l.scanIdent(pos)
		}
		ch := l.ch
		l.next()
		return Token{Type: token.ILLEGAL, Pos: pos, Value: string(ch)}
	}
}

// single consumes one character and returns tok.
func (l *Lexer) single(pos token.Position, tok token.Token) Token {
	ch := l.ch
	l.next()
	return Token{Type: tok, Pos: pos, Value: string(ch)}
}

// switch2 handles "X" vs "X=" operators.
func (l *Lexer) switch2(pos token.Position, tok, eqTok token.Token) Token {
	ch := l.ch
	l.next()
	if l.ch == '=' {
		l.next()
		return Token{Type: eqTok, Pos: pos, Value: string(ch) + "="}
	}
	return Token{Type: tok, Pos: pos, Value: string(ch)}
}

// switch3 handles "X", "X<a>", and "X<b>" operators (e.g. + += ++).
func (l *Lexer) switch3(pos token.Position, tok token.Token, a byte, aTok token.Token, b byte, bTok token.Token) Token {
	ch := l.ch
	l.next()
	switch l.ch {
	case a:
		l.next()
		return Token{Type: aTok, Pos: pos, Value: string(ch) + string(a)}
	case b:
		l.next()
		return Token{Type: bTok, Pos: pos, Value: string(ch) + string(b)}
	}
	return Token{Type: tok, Pos: pos, Value: string(ch)}
}

// ScanRegex scans a regex token. Called by the parser when it knows a
// regex must follow (e.g. after ~ or as a split/sub argument).
func (l *Lexer) ScanRegex() Token {
	l.skipWhitespace()
	pos := l.pos
	if l.ch == '/' {
		return l.scanRegex(pos)
	}
	return Token{Type: token.ILLEGAL, Pos: pos, Value: "expected regex"}
}

func (l *Lexer) scanRegex(pos token.Position) Token {
	l.next() // consume opening /
	start := l.pos.Offset

	for l.ch != 0 && l.ch != '/' && l.ch != '\n' {
		if l.ch == '\\' {
			l.next()
			if l.ch != 0 && l.ch != '\n' {
				l.next()
			}
		} else {
			l.next()
		}
	}

	if l.ch != '/' {
		return Token{Type: token.ILLEGAL, Pos: pos, Value: "unterminated regex"}
	}

	value := string(l.src[start:l.pos.Offset])
	l.next() // consume closing /
	return Token{Type: token.REGEX, Pos: pos, Value: value}
}

func (l *Lexer) scanString(pos token.Position) Token {
	l.next() // consume opening quote

	var sb []byte
	for l.ch != 0 && l.ch != '"' && l.ch != '\n' {
		if l.ch == '\\' {
			l.next()
			switch l.ch {
			case 'n':
				sb = append(sb, '\n')
			case 't':
				sb = append(sb, '\t')
			case 'r':
				sb = append(sb, '\r')
			case 'b':
				sb = append(sb, '\b')
			case 'f':
				sb = append(sb, '\f')
			case 'a':
				sb = append(sb, '\a')
			case 'v':
				sb = append(sb, '\v')
			case '\\':
				sb = append(sb, '\\')
			case '"':
				sb = append(sb, '"')
			case '/':
				sb = append(sb, '/')
			case '0', '1', '2', '3', '4', '5', '6', '7':
				n := int(l.ch - '0')
				l.next()
				for i := 0; i < 2 && l.ch >= '0' && l.ch <= '7'; i++ {
					n = n*8 + int(l.ch-'0')
					l.next()
				}
				sb = append(sb, byte(n))
				continue
			default:
				sb = append(sb, l.ch)
			}
			l.next()
		} else {
			sb = append(sb, l.ch)
			l.next()
		}
	}

	if l.ch != '"' {
		return Token{Type: token.ILLEGAL, Pos: pos, Value: "unterminated string"}
	}
	l.next() // consume closing quote

	return Token{Type: token.STRING, Pos: pos, Value: string(sb)}
}

func (l *Lexer) scanNumber(pos token.Position) Token {
	start := pos.Offset

	// Hex literal
	if l.ch == '0' && l.offset < len(l.src) && (l.src[l.offset] == 'x' || l.src[l.offset] == 'X') {
		l.next() // 0
		l.next() // x
		for isHexDigit(l.ch) {
			l.next()
		}
		return Token{Type: token.NUMBER, Pos: pos, Value: string(l.src[start:l.endOffset()])}
	}

	for isDigit(l.ch) {
		l.next()
	}
	if l.ch == '.' {
		l.next()
		for isDigit(l.ch) {
			l.next()
		}
	}
	// Only consume e/E when a valid exponent follows, so "1e+a" lexes as
	// the number 1 followed by the name e.
	if (l.ch == 'e' || l.ch == 'E') && l.hasValidExponent() {
		l.next()
		if l.ch == '+' || l.ch == '-' {
			l.next()
		}
		for isDigit(l.ch) {
			l.next()
		}
	}

	return Token{Type: token.NUMBER, Pos: pos, Value: string(l.src[start:l.endOffset()])}
}

func (l *Lexer) scanIdent(pos token.Position) Token {
	start := pos.Offset
	for isIdentContinue(l.ch) {
		l.next()
	}
	name := string(l.src[start:l.endOffset()])
	return Token{Type: token.LookupIdent(name), Pos: pos, Value: name}
}

// endOffset returns the correct end offset for slicing l.src. At EOF
// l.pos is not updated, so use len(l.src).
func (l *Lexer) endOffset() int {
	if l.ch == 0 {
		return len(l.src)
	}
	return l.pos.Offset
}

// hasValidExponent looks ahead past the current e/E without consuming:
// true if the next char is a digit, or a sign followed by a digit.
func (l *Lexer) hasValidExponent() bool {
	idx := l.offset
	if idx >= len(l.src) {
		return false
	}
	ch := l.src[idx]
	if isDigit(ch) {
		return true
	}
	if ch == '+' || ch == '-' {
		idx++
		return idx < len(l.src) && isDigit(l.src[idx])
	}
	return false
}

func (l *Lexer) skipWhitespace() {
	l.hadSpace = false
	for {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\r':
			l.hadSpace = true
			l.next()
		case l.ch == '\\' && l.newlineFollows():
			// Line continuation
			l.hadSpace = true
			l.next()
			if l.ch == '\r' {
				l.next()
			}
			l.next()
		default:
			// A backslash with no newline after it is left for scan to
			// report as an illegal token.
			return
		}
	}
}

// newlineFollows reports whether the character after the current one is
// a newline, allowing a \r in between.
func (l *Lexer) newlineFollows() bool {
	idx := l.offset
	if idx < len(l.src) && l.src[idx] == '\r' {
		idx++
	}
	return idx < len(l.src) && l.src[idx] == '\n'
}

func (l *Lexer) skipComment() {
	for l.ch != 0 && l.ch != '\n' {
		l.next()
	}
}

func (l *Lexer) next() {
	if l.offset >= len(l.src) {
		l.ch = 0
		return
	}

	l.pos = l.nextPos

	// Multi-byte runes are reduced to a single byte; AWK source structure
	// is ASCII and non-ASCII bytes only appear inside strings and regexes,
	// which are sliced from the source directly.
	if l.src[l.offset] >= utf8.RuneSelf {
		r, size := utf8.DecodeRune(l.src[l.offset:])
		l.offset += size
		l.nextPos.Column += size
		l.nextPos.Offset = l.offset
		if r == '\n' {
			l.nextPos.Line++
			l.nextPos.Column = 1
		}
		l.ch = byte(r)
		return
	}

	l.ch = l.src[l.offset]
	l.offset++
	l.nextPos.Column++
	l.nextPos.Offset = l.offset

	if l.ch == '\n' {
		l.nextPos.Line++
		l.nextPos.Column = 1
	}
}

// canBeRegex returns true if a / in the current position starts a regex
// literal rather than a division operator.
func (l *Lexer) canBeRegex() bool {
	switch l.lastTok {
	// RBRACE is a regex context: a new rule's pattern may start on the
	// same line right after the previous rule's closing brace, and a /
	// can never validly be division there.
	case token.ILLEGAL, token.EOF, token.NEWLINE,
		token.LPAREN, token.LBRACE, token.RBRACE, token.LBRACKET,
		token.COMMA, token.SEMICOLON, token.COLON, token.QUESTION,
		token.AND, token.OR, token.NOT, token.MATCH, token.NOT_MATCH,
		token.ADD, token.SUB, token.MUL, token.DIV, token.MOD, token.POW,
		token.ASSIGN, token.ADD_ASSIGN, token.SUB_ASSIGN, token.MUL_ASSIGN,
		token.DIV_ASSIGN, token.MOD_ASSIGN, token.POW_ASSIGN,
		token.EQUALS, token.NOT_EQUALS, token.LESS, token.LTE, token.GREATER, token.GTE,
		token.PRINT, token.PRINTF, token.IF, token.WHILE, token.FOR, token.DO,
		token.RETURN, token.GETLINE, token.IN:
		return true
	default:
		return false
	}
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func isIdentStart(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}

func isIdentContinue(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}
