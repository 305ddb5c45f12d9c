// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package hdl implements the lexer and parser for I/O specs and part
// connection strings.
//
package hdl

import (
	"strconv"
	"unicode"
	"unicode/utf8"
)

// Type is the type of a lexed item.
//
type Type int

// Tokens
const (
	EOF Type = iota
	Raw
	Ident
	BracketOpen
	BracketClose
	Comma
	Int
	Range
	Equal
)

// Item is a lexed token.
//
type Item struct {
	Type  Type
	Pos   int
	Value interface{}
}

func (i Item) String() string {
	switch i.Type {
	case EOF:
		return "end of input"
	case Ident:
		return "identifier " + i.Value.(string)
	case Int:
		return "integer " + strconv.Itoa(i.Value.(int))
	case Raw:
		return strconv.QuoteRune(i.Value.(rune))
	}
	return strconv.Quote(i.Value.(string))
}

// stateFn is a lexer state. A nil return value resets the lexer to its
// initial state.
//
type stateFn func(l *Lexer) stateFn

// Lexer splits its input into Items.
//
type Lexer struct {
	input string
	pos   int // next rune
	start int // start of current rune
	cur   rune
	state stateFn
	items []Item
}

// NewLexer returns a new lexer for i/o specs and connection descriptions.
//
func NewLexer(input string) *Lexer {
	return &Lexer{input: input}
}

// Lex returns the next item.
//
func (l *Lexer) Lex() Item {
	for len(l.items) == 0 {
		if l.state == nil {
			l.state = lexInit
		}
		l.state = l.state(l)
	}
	i := l.items[0]
	l.items = l.items[1:]
	return i
}

const eof = -1

func (l *Lexer) next() rune {
	l.start = l.pos
	if l.pos >= len(l.input) {
		l.cur = eof
		return eof
	}
	r, sz := utf8.DecodeRuneInString(l.input[l.pos:])
	l.pos += sz
	l.cur = r
	return r
}

func (l *Lexer) backup() {
	l.pos = l.start
}

func (l *Lexer) emit(t Type, v interface{}) {
	l.items = append(l.items, Item{Type: t, Pos: l.start, Value: v})
}

func (l *Lexer) emitAt(t Type, pos int, v interface{}) {
	l.items = append(l.items, Item{Type: t, Pos: pos, Value: v})
}

func lexInit(l *Lexer) stateFn {
	r := l.next()
	switch {
	case r == eof:
		return lexEOF
	case unicode.IsSpace(r):
		for unicode.IsSpace(r) {
			r = l.next()
		}
		l.backup()
	case unicode.IsLetter(r) || r == '_':
		return lexIdent
	case r == '[':
		l.emit(BracketOpen, "[")
	case r == ']':
		l.emit(BracketClose, "]")
	case r == ',':
		l.emit(Comma, ",")
	case '0' <= r && r <= '9':
		return lexNumber
	case r == '=':
		l.emit(Equal, "=")
	case r == '.':
		pos := l.start
		if l.next() == '.' {
			l.emitAt(Range, pos, "..")
			break
		}
		l.emitAt(Raw, pos, '.')
		return lexEOF
	default:
		l.emit(Raw, r)
		return lexEOF
	}
	return nil
}

func lexNumber(l *Lexer) stateFn {
	pos := l.start
	i := int(l.cur - '0')
	r := l.next()
	for '0' <= r && r <= '9' {
		// saturate above MaxIndex
		if i <= MaxIndex {
			i = i*10 + int(r-'0')
		}
		r = l.next()
	}
	l.backup()
	l.emitAt(Int, pos, i)
	return nil
}

func lexIdent(l *Lexer) stateFn {
	pos := l.start
	r := l.next()
	for unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
		r = l.next()
	}
	l.backup()
	l.emitAt(Ident, pos, l.input[pos:l.pos])
	return nil
}

// lexEOF places the lexer in End-Of-File state.
// Once in this state, the lexer will only emit EOF.
//
func lexEOF(l *Lexer) stateFn {
	l.emitAt(EOF, len(l.input), "end of input")
	return lexEOF
}
