// Package lexer turns Bop source text into a token stream (spec §4.2):
// comments, numeric/string literals with escape sequences, string
// interpolation, and automatic statement-terminator insertion.
package lexer

import (
	"strings"
	"unicode/utf8"

	bopErrors "github.com/stevepryde/bop-lang/internal/errors"
	"github.com/stevepryde/bop-lang/pkg/token"
)

// terminatorTrigger reports whether a token of this type warrants an
// automatic terminator when followed by a newline (spec §4.2): identifier,
// any literal, break/continue/return, or a closing bracket/paren/brace.
func terminatorTrigger(t token.Type) bool {
	switch t {
	case token.IDENT, token.NUMBER, token.STRING,
		token.TRUE, token.FALSE, token.NONE,
		token.BREAK, token.CONTINUE, token.RETURN,
		token.RPAREN, token.RBRACK, token.RBRACE:
		return true
	default:
		return false
	}
}

// Lexer is a single-pass, hand-written scanner over Bop source text.
// It has no lookahead buffer of its own. The parser holds the one- and
// two-token lookahead it needs (curToken/peekToken), the classic shape
// for a recursive-descent front end.
type Lexer struct {
	input string

	position     int // index of ch
	readPosition int // index of next rune to read
	ch           rune

	line int

	insertTerm bool // true if the previous token warrants an auto-terminator
}

// New creates a Lexer over the given source text.
func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = l.readPosition
		return
	}
	r, size := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.ch = r
	l.position = l.readPosition
	l.readPosition += size
}

func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

// NextToken scans and returns the next token, or a *bopErrors.Error of kind
// Syntax if the source cannot be tokenized any further.
func (l *Lexer) NextToken() (token.Token, error) {
	for {
		switch l.ch {
		case ' ', '\t', '\r':
			l.readChar()
			continue
		case '\n':
			l.line++
			l.readChar()
			if l.insertTerm {
				l.insertTerm = false
				// Report the terminator on the line it lands on, not the
				// line of the token before the newline, so a syntax error
				// pointing at this token names the line the next real
				// token (e.g. "{") actually sits on.
				return token.New(token.TERMINATOR, "\n", l.line), nil
			}
			continue
		case '/':
			if l.peekChar() == '/' {
				l.skipLineComment()
				continue
			}
		}
		break
	}

	line := l.line

	if l.ch == 0 {
		return token.New(token.EOF, "", line), nil
	}

	tok, err := l.scan(line)
	if err != nil {
		l.insertTerm = false
		return tok, err
	}
	l.insertTerm = terminatorTrigger(tok.Type)
	return tok, nil
}

func (l *Lexer) skipLineComment() {
	for l.ch != '\n' && l.ch != 0 {
		l.readChar()
	}
}

// scan dispatches on the current character to produce exactly one token.
func (l *Lexer) scan(line int) (token.Token, error) {
	switch {
	case l.ch == ';':
		l.readChar()
		return token.New(token.TERMINATOR, ";", line), nil
	case l.ch == '(':
		l.readChar()
		return token.New(token.LPAREN, "(", line), nil
	case l.ch == ')':
		l.readChar()
		return token.New(token.RPAREN, ")", line), nil
	case l.ch == '[':
		l.readChar()
		return token.New(token.LBRACK, "[", line), nil
	case l.ch == ']':
		l.readChar()
		return token.New(token.RBRACK, "]", line), nil
	case l.ch == '{':
		l.readChar()
		return token.New(token.LBRACE, "{", line), nil
	case l.ch == '}':
		l.readChar()
		return token.New(token.RBRACE, "}", line), nil
	case l.ch == ',':
		l.readChar()
		return token.New(token.COMMA, ",", line), nil
	case l.ch == '.':
		l.readChar()
		return token.New(token.DOT, ".", line), nil
	case l.ch == ':':
		l.readChar()
		return token.New(token.COLON, ":", line), nil
	case l.ch == '+':
		return l.choice(line, '=', token.PLUS_ASSIGN, "+=", token.PLUS, "+"), nil
	case l.ch == '-':
		return l.choice(line, '=', token.MINUS_ASSIGN, "-=", token.MINUS, "-"), nil
	case l.ch == '*':
		return l.choice(line, '=', token.STAR_ASSIGN, "*=", token.STAR, "*"), nil
	case l.ch == '/':
		return l.choice(line, '=', token.SLASH_ASSIGN, "/=", token.SLASH, "/"), nil
	case l.ch == '%':
		return l.choice(line, '=', token.PERCENT_ASSIGN, "%=", token.PERCENT, "%"), nil
	case l.ch == '=':
		return l.choice(line, '=', token.EQ, "==", token.ASSIGN, "="), nil
	case l.ch == '!':
		return l.choice(line, '=', token.NOT_EQ, "!=", token.BANG, "!"), nil
	case l.ch == '<':
		return l.choice(line, '=', token.LT_EQ, "<=", token.LT, "<"), nil
	case l.ch == '>':
		return l.choice(line, '=', token.GT_EQ, ">=", token.GT, ">"), nil
	case l.ch == '&':
		if l.peekChar() == '&' {
			l.readChar()
			l.readChar()
			return token.New(token.AND, "&&", line), nil
		}
		ch := l.ch
		l.readChar()
		return token.Token{}, bopErrors.New(bopErrors.Syntax, line, "illegal character: %q", ch)
	case l.ch == '|':
		if l.peekChar() == '|' {
			l.readChar()
			l.readChar()
			return token.New(token.OR, "||", line), nil
		}
		ch := l.ch
		l.readChar()
		return token.Token{}, bopErrors.New(bopErrors.Syntax, line, "illegal character: %q", ch)
	case l.ch == '"':
		return l.readString(line)
	case isDigit(l.ch):
		return l.readNumber(line), nil
	case isIdentStart(l.ch):
		return l.readIdentifier(line), nil
	default:
		ch := l.ch
		l.readChar()
		return token.Token{}, bopErrors.New(bopErrors.Syntax, line, "illegal character: %q", ch)
	}
}

// choice reads a one- or two-character operator: if the next rune is
// `second`, consumes it and returns twoTok/twoLit; otherwise returns just
// oneTok/oneLit.
func (l *Lexer) choice(line int, second rune, twoType token.Type, twoLit string, oneType token.Type, oneLit string) token.Token {
	l.readChar() // consume the first character
	if l.ch == second {
		l.readChar()
		return token.New(twoType, twoLit, line)
	}
	return token.New(oneType, oneLit, line)
}

func (l *Lexer) readIdentifier(line int) token.Token {
	start := l.position
	for isIdentStart(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	literal := l.input[start:l.position]
	return token.New(token.LookupIdent(literal), literal, line)
}

func (l *Lexer) readNumber(line int) token.Token {
	start := l.position
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	return token.New(token.NUMBER, l.input[start:l.position], line)
}

// readString scans a double-quoted string literal, resolving escape
// sequences and splitting `{ident}` interpolations into Segments (spec
// §4.2). Unterminated strings, unknown escapes, and malformed
// interpolations are Syntax errors.
func (l *Lexer) readString(line int) (token.Token, error) {
	startLine := line
	l.readChar() // consume opening quote

	var segments []token.Segment
	var literal strings.Builder

	flushLiteral := func() {
		if literal.Len() > 0 {
			segments = append(segments, token.Segment{Text: literal.String()})
			literal.Reset()
		}
	}

	for {
		switch l.ch {
		case 0, '\n':
			return token.Token{}, bopErrors.New(bopErrors.Syntax, startLine, "unterminated string literal")
		case '"':
			l.readChar()
			flushLiteral()
			if len(segments) == 0 {
				segments = []token.Segment{{Text: ""}}
			}
			return token.Token{Type: token.STRING, Literal: renderSegments(segments), Segments: segments, Line: startLine}, nil
		case '\\':
			l.readChar()
			r, err := l.readEscape(startLine)
			if err != nil {
				return token.Token{}, err
			}
			literal.WriteRune(r)
		case '{':
			l.readChar()
			name, err := l.readInterpolationName(startLine)
			if err != nil {
				return token.Token{}, err
			}
			flushLiteral()
			segments = append(segments, token.Segment{Text: name, Ident: true})
		default:
			literal.WriteRune(l.ch)
			l.readChar()
		}
	}
}

func (l *Lexer) readEscape(line int) (rune, error) {
	switch l.ch {
	case '"':
		l.readChar()
		return '"', nil
	case '\\':
		l.readChar()
		return '\\', nil
	case 'n':
		l.readChar()
		return '\n', nil
	case 't':
		l.readChar()
		return '\t', nil
	case '{':
		l.readChar()
		return '{', nil
	case '}':
		l.readChar()
		return '}', nil
	default:
		bad := l.ch
		return 0, bopErrors.New(bopErrors.Syntax, line, "invalid escape sequence: \\%c", bad)
	}
}

// readInterpolationName reads the identifier inside `{...}` after the
// opening brace has already been consumed. The run must be a single
// identifier followed immediately by '}'; anything else, including an
// empty `{}`, is a syntax error.
func (l *Lexer) readInterpolationName(line int) (string, error) {
	start := l.position
	for isIdentStart(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	name := l.input[start:l.position]
	if name == "" {
		return "", bopErrors.New(bopErrors.Syntax, line, "empty interpolation: {}")
	}
	if l.ch != '}' {
		return "", bopErrors.New(bopErrors.Syntax, line, "malformed interpolation: expected '}' after '{%s'", name)
	}
	l.readChar() // consume '}'
	return name, nil
}

// renderSegments joins a STRING token's segments back into a literal form
// suitable for diagnostics (e.g. the lexer-idempotence property in spec §8);
// interpolation references render as `{name}`.
func renderSegments(segments []token.Segment) string {
	var sb strings.Builder
	for _, seg := range segments {
		if seg.Ident {
			sb.WriteByte('{')
			sb.WriteString(seg.Text)
			sb.WriteByte('}')
		} else {
			sb.WriteString(seg.Text)
		}
	}
	return sb.String()
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentStart(ch rune) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}
