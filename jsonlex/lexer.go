package jsonlex

import (
	"strconv"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/lattice-substrate/json-codec/jsonerr"
)

// Lexer scans a byte slice into Tokens, one at a time, with one-byte
// lookahead. It is not safe for concurrent use; each call site should own
// its own Lexer.
type Lexer struct {
	data []byte
	pos  int
	line int
	col  int
}

// New returns a Lexer positioned at the start of data.
func New(data []byte) *Lexer {
	return &Lexer{data: data, line: 1, col: 1}
}

func (l *Lexer) peekByte() (byte, bool) {
	if l.pos >= len(l.data) {
		return 0, false
	}
	return l.data[l.pos], true
}

func (l *Lexer) advance() byte {
	b := l.data[l.pos]
	l.pos++
	switch b {
	case '\n':
		l.line++
		l.col = 1
	case '\r':
		// whitespace only; does not itself move the cursor to a new line
	default:
		l.col++
	}
	return b
}

func (l *Lexer) skipWhitespace() {
	for {
		b, ok := l.peekByte()
		if !ok {
			return
		}
		switch b {
		case ' ', '\t', '\n', '\r':
			l.advance()
		default:
			return
		}
	}
}

// Next returns the next token in the stream, or an EOF token once the
// input is exhausted.
func (l *Lexer) Next() (Token, error) {
	l.skipWhitespace()

	startLine, startCol := l.line, l.col
	b, ok := l.peekByte()
	if !ok {
		return Token{Kind: EOF, Line: startLine, Col: startCol}, nil
	}

	switch b {
	case '{':
		l.advance()
		return Token{Kind: LBRACE, Line: startLine, Col: startCol}, nil
	case '}':
		l.advance()
		return Token{Kind: RBRACE, Line: startLine, Col: startCol}, nil
	case '[':
		l.advance()
		return Token{Kind: LBRACKET, Line: startLine, Col: startCol}, nil
	case ']':
		l.advance()
		return Token{Kind: RBRACKET, Line: startLine, Col: startCol}, nil
	case ',':
		l.advance()
		return Token{Kind: COMMA, Line: startLine, Col: startCol}, nil
	case ':':
		l.advance()
		return Token{Kind: COLON, Line: startLine, Col: startCol}, nil
	case '"':
		return l.lexString(startLine, startCol)
	case 't':
		return l.lexLiteral("true", TRUE, startLine, startCol)
	case 'f':
		return l.lexLiteral("false", FALSE, startLine, startCol)
	case 'n':
		return l.lexLiteral("null", NULL, startLine, startCol)
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		return l.lexNumber(startLine, startCol)
	default:
		r, _ := utf8.DecodeRune(l.data[l.pos:])
		return Token{}, jsonerr.At(startLine, startCol, "Unexpected character: '%c'", r)
	}
}

func (l *Lexer) lexLiteral(lit string, kind Kind, startLine, startCol int) (Token, error) {
	matched := 0
	for matched < len(lit) {
		b, ok := l.peekByte()
		if !ok || b != lit[matched] {
			return Token{}, jsonerr.At(startLine, startCol+matched, "Invalid literal, expected '%s'", lit)
		}
		l.advance()
		matched++
	}
	return Token{Kind: kind, Line: startLine, Col: startCol, Text: lit}, nil
}

func (l *Lexer) lexNumber(startLine, startCol int) (Token, error) {
	start := l.pos

	if b, ok := l.peekByte(); ok && b == '-' {
		l.advance()
	}

	if err := l.lexDigitRun(startLine, startCol); err != nil {
		return Token{}, err
	}

	if b, ok := l.peekByte(); ok && b == '.' {
		l.advance()
		if err := l.lexRequiredDigits(startLine, startCol); err != nil {
			return Token{}, err
		}
	}

	if b, ok := l.peekByte(); ok && (b == 'e' || b == 'E') {
		l.advance()
		if b, ok := l.peekByte(); ok && (b == '+' || b == '-') {
			l.advance()
			_ = b
		}
		if err := l.lexRequiredDigits(startLine, startCol); err != nil {
			return Token{}, err
		}
	}

	return Token{Kind: NUMBER, Line: startLine, Col: startCol, Text: string(l.data[start:l.pos])}, nil
}

// lexDigitRun consumes the integer part: "0" or [1-9][0-9]*.
func (l *Lexer) lexDigitRun(startLine, startCol int) error {
	b, ok := l.peekByte()
	if !ok || !isDigit(b) {
		return jsonerr.At(startLine, startCol, "Invalid number literal")
	}
	if b == '0' {
		l.advance()
		return nil
	}
	for {
		b, ok := l.peekByte()
		if !ok || !isDigit(b) {
			return nil
		}
		l.advance()
	}
}

func (l *Lexer) lexRequiredDigits(startLine, startCol int) error {
	b, ok := l.peekByte()
	if !ok || !isDigit(b) {
		return jsonerr.At(startLine, startCol, "Invalid number literal")
	}
	for {
		b, ok := l.peekByte()
		if !ok || !isDigit(b) {
			return nil
		}
		l.advance()
	}
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func (l *Lexer) lexString(startLine, startCol int) (Token, error) {
	l.advance() // consume opening quote
	var buf []byte
	for {
		b, ok := l.peekByte()
		if !ok {
			return Token{}, jsonerr.At(startLine, startCol, "Unterminated string")
		}
		if b == '"' {
			l.advance()
			return Token{Kind: STRING, Line: startLine, Col: startCol, Text: string(buf)}, nil
		}
		if b == '\\' {
			l.advance()
			r, err := l.lexEscape(startLine, startCol)
			if err != nil {
				return Token{}, err
			}
			var tmp [4]byte
			n := utf8.EncodeRune(tmp[:], r)
			buf = append(buf, tmp[:n]...)
			continue
		}
		if b < 0x20 {
			return Token{}, jsonerr.At(startLine, startCol, "Unterminated string")
		}
		r, size := utf8.DecodeRune(l.data[l.pos:])
		if r == utf8.RuneError && size <= 1 {
			// Not valid JSON per RFC 8259, but treat as opaque bytes rather
			// than raising a separate malformed-UTF-8 diagnostic class that
			// the distilled spec does not define.
			buf = append(buf, b)
			l.advance()
			continue
		}
		for i := 0; i < size; i++ {
			l.advance()
		}
		buf = append(buf, l.data[l.pos-size:l.pos]...)
	}
}

func (l *Lexer) lexEscape(startLine, startCol int) (rune, error) {
	b, ok := l.peekByte()
	if !ok {
		return 0, jsonerr.At(startLine, startCol, "Unterminated string")
	}
	l.advance()

	switch b {
	case '"':
		return '"', nil
	case '\\':
		return '\\', nil
	case '/':
		return '/', nil
	case 'b':
		return '\b', nil
	case 'f':
		return '\f', nil
	case 'n':
		return '\n', nil
	case 'r':
		return '\r', nil
	case 't':
		return '\t', nil
	case 'u':
		return l.lexUnicodeEscape(startLine, startCol)
	default:
		return 0, jsonerr.At(startLine, startCol, "Invalid escape character '\\%c'", b)
	}
}

func (l *Lexer) lexUnicodeEscape(startLine, startCol int) (rune, error) {
	r1, err := l.readHex4(startLine, startCol)
	if err != nil {
		return 0, err
	}
	if !utf16.IsSurrogate(r1) {
		return r1, nil
	}
	if r1 >= 0xDC00 {
		// Lone low surrogate: pass through as the replacement character
		// since the distilled spec defines no separate diagnostic for it.
		return utf8.RuneError, nil
	}
	if b1, ok1 := l.peekByte(); !ok1 || b1 != '\\' {
		return utf8.RuneError, nil
	}
	save := l.pos
	l.advance()
	b2, ok2 := l.peekByte()
	if !ok2 || b2 != 'u' {
		l.pos = save
		return utf8.RuneError, nil
	}
	l.advance()
	r2, err := l.readHex4(startLine, startCol)
	if err != nil {
		return 0, err
	}
	if r2 < 0xDC00 || r2 > 0xDFFF {
		return utf8.RuneError, nil
	}
	return utf16.DecodeRune(r1, r2), nil
}

func (l *Lexer) readHex4(startLine, startCol int) (rune, error) {
	if l.pos+4 > len(l.data) {
		return 0, jsonerr.At(startLine, startCol, "Unterminated string")
	}
	hex := string(l.data[l.pos : l.pos+4])
	for i := 0; i < 4; i++ {
		l.advance()
	}
	val, err := strconv.ParseUint(hex, 16, 16)
	if err != nil {
		return 0, jsonerr.At(startLine, startCol, "Invalid \\u escape: %q", hex)
	}
	return rune(val), nil
}
