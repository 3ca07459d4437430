// Package lexer turns raw source bytes into tokens.
package lexer

import (
	"fmt"
	"strconv"

	"gaut/internal/diag"
	"gaut/internal/source"
	"gaut/internal/token"
)

// Lexer scans one file. It reports malformed input through the reporter and
// keeps going, so the parser always sees a terminated token stream.
type Lexer struct {
	file     *source.File
	reporter diag.Reporter
	pos      uint32
}

// New creates a lexer over file, reporting errors to reporter.
func New(file *source.File, reporter diag.Reporter) *Lexer {
	if reporter == nil {
		reporter = diag.NopReporter{}
	}
	return &Lexer{file: file, reporter: reporter}
}

// Tokenize scans the whole file, ending with an EOF token.
func (lx *Lexer) Tokenize() []token.Token {
	toks := make([]token.Token, 0, len(lx.file.Content)/4+1)
	for {
		tok := lx.Next()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			return toks
		}
	}
}

// Next returns the next token, skipping whitespace and comments.
func (lx *Lexer) Next() token.Token {
	lx.skipTrivia()
	start := lx.pos
	c, ok := lx.peek()
	if !ok {
		return token.Token{Kind: token.EOF, Span: lx.span(start)}
	}

	switch {
	case isIdentStart(c):
		return lx.scanIdent()
	case c >= '0' && c <= '9':
		return lx.scanNumber()
	case c == '"':
		return lx.scanString()
	}

	lx.pos++
	switch c {
	case '{':
		return lx.tok(token.LBrace, start)
	case '}':
		return lx.tok(token.RBrace, start)
	case '(':
		return lx.tok(token.LParen, start)
	case ')':
		return lx.tok(token.RParen, start)
	case ':':
		return lx.tok(token.Colon, start)
	case ',':
		return lx.tok(token.Comma, start)
	case '.':
		return lx.tok(token.Dot, start)
	case '+':
		return lx.tok(token.Plus, start)
	case '*':
		return lx.tok(token.Star, start)
	case '/':
		return lx.tok(token.Slash, start)
	case '<':
		return lx.tok(token.Lt, start)
	case '!':
		return lx.tok(token.Bang, start)
	case '-':
		if lx.eat('>') {
			return lx.tok(token.Arrow, start)
		}
		return lx.tok(token.Minus, start)
	case '=':
		if lx.eat('=') {
			return lx.tok(token.EqEq, start)
		}
		return lx.tok(token.Assign, start)
	case '&':
		if lx.eat('&') {
			return lx.tok(token.AndAnd, start)
		}
		return lx.tok(token.Amp, start)
	case '|':
		if lx.eat('|') {
			return lx.tok(token.OrOr, start)
		}
	}

	lx.reporter.Report(diag.NewError(diag.LexUnknownChar, lx.span(start),
		fmt.Sprintf("unknown character %q", c)))
	return token.Token{Kind: token.Invalid, Span: lx.span(start)}
}

func (lx *Lexer) scanIdent() token.Token {
	start := lx.pos
	for {
		c, ok := lx.peek()
		if !ok || !isIdentPart(c) {
			break
		}
		lx.pos++
	}
	text := string(lx.file.Content[start:lx.pos])
	if kind, ok := token.LookupKeyword(text); ok {
		return token.Token{Kind: kind, Span: lx.span(start), Text: text}
	}
	return token.Token{Kind: token.Ident, Span: lx.span(start), Text: text}
}

func (lx *Lexer) scanNumber() token.Token {
	start := lx.pos
	for {
		c, ok := lx.peek()
		if !ok || c < '0' || c > '9' {
			break
		}
		lx.pos++
	}
	text := string(lx.file.Content[start:lx.pos])
	value, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		lx.reporter.Report(diag.NewError(diag.LexBadNumber, lx.span(start),
			fmt.Sprintf("invalid number literal %q", text)))
		return token.Token{Kind: token.Invalid, Span: lx.span(start), Text: text}
	}
	return token.Token{Kind: token.IntLit, Span: lx.span(start), Text: text, Int: value}
}

func (lx *Lexer) scanString() token.Token {
	start := lx.pos
	lx.pos++ // opening quote
	var out []byte
	for {
		c, ok := lx.peek()
		if !ok || c == '\n' {
			lx.reporter.Report(diag.NewError(diag.LexUnterminatedString, lx.span(start),
				"unterminated string literal"))
			return token.Token{Kind: token.Invalid, Span: lx.span(start)}
		}
		lx.pos++
		if c == '"' {
			return token.Token{Kind: token.StringLit, Span: lx.span(start), Text: string(out)}
		}
		if c == '\\' {
			esc, ok := lx.peek()
			if !ok {
				continue
			}
			lx.pos++
			switch esc {
			case 'n':
				out = append(out, '\n')
			case 't':
				out = append(out, '\t')
			case '\\':
				out = append(out, '\\')
			case '"':
				out = append(out, '"')
			default:
				out = append(out, esc)
			}
			continue
		}
		out = append(out, c)
	}
}

func (lx *Lexer) skipTrivia() {
	for {
		c, ok := lx.peek()
		if !ok {
			return
		}
		if c == ' ' || c == '\t' || c == '\r' || c == '\n' {
			lx.pos++
			continue
		}
		// line comments: # to end of line
		if c == '#' {
			for {
				c, ok := lx.peek()
				if !ok || c == '\n' {
					break
				}
				_ = c
				lx.pos++
			}
			continue
		}
		return
	}
}

func (lx *Lexer) peek() (byte, bool) {
	if int(lx.pos) >= len(lx.file.Content) {
		return 0, false
	}
	return lx.file.Content[lx.pos], true
}

func (lx *Lexer) eat(c byte) bool {
	got, ok := lx.peek()
	if ok && got == c {
		lx.pos++
		return true
	}
	return false
}

func (lx *Lexer) span(start uint32) source.Span {
	return source.Span{File: lx.file.ID, Start: start, End: lx.pos}
}

func (lx *Lexer) tok(kind token.Kind, start uint32) token.Token {
	sp := lx.span(start)
	return token.Token{Kind: kind, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}
