// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hdl

import (
	"github.com/pkg/errors"
)

// Pin is a plain pin reference: name.
//
type Pin struct {
	Name string
	Pos  int // offset of the name in the input string
}

// PinIndex is a single bus pin reference: name[index].
// In I/O specs, Index is the bus width.
//
type PinIndex struct {
	Pin
	Index int
}

// PinRange is a bus slice reference: name[start..end], bounds included.
//
type PinRange struct {
	Pin
	Start int
	End   int
}

// PinAssignment connects a part pin (LHS) to a chip wire (RHS).
// Both sides are one of Pin, PinIndex or PinRange.
//
type PinAssignment struct {
	LHS interface{}
	RHS interface{}
}

// MaxIndex is the largest bus index or bus size accepted by the parser.
const MaxIndex = 1<<16 - 1

type parser struct {
	input string
	l     *Lexer
	tok   Item
}

// Parse parses a comma separated list of pin references. If conns is true,
// each reference may be followed by "=ref", yielding a PinAssignment.
// An empty or blank input yields an empty list.
//
func Parse(input string, conns bool) ([]interface{}, error) {
	p := &parser{input: input, l: NewLexer(input)}
	p.next()
	if p.tok.Type == EOF {
		return nil, nil
	}
	var list []interface{}
	for {
		e, err := p.element(conns)
		if err != nil {
			return nil, err
		}
		list = append(list, e)
		switch p.tok.Type {
		case EOF:
			return list, nil
		case Comma:
			p.next()
		default:
			return nil, p.errorf("unexpected %s", p.tok)
		}
	}
}

func (p *parser) next() { p.tok = p.l.Lex() }

func (p *parser) errorf(format string, args ...interface{}) error {
	return errors.Errorf("in %q at pos %d: "+format, append([]interface{}{p.input, p.tok.Pos + 1}, args...)...)
}

// index returns the value of the current Int item and advances.
func (p *parser) index() (int, error) {
	v := p.tok.Value.(int)
	if v > MaxIndex {
		return 0, p.errorf("integer value out of range (max %d)", MaxIndex)
	}
	p.next()
	return v, nil
}

func (p *parser) element(conns bool) (interface{}, error) {
	lhs, err := p.ref()
	if err != nil || !conns || p.tok.Type != Equal {
		return lhs, err
	}
	p.next()
	rhs, err := p.ref()
	if err != nil {
		return nil, err
	}
	return PinAssignment{LHS: lhs, RHS: rhs}, nil
}

// ref parses name, name[n] or name[n..m].
//
func (p *parser) ref() (interface{}, error) {
	if p.tok.Type != Ident {
		return nil, p.errorf("expected pin name")
	}
	pin := Pin{Name: p.tok.Value.(string), Pos: p.tok.Pos}
	if p.next(); p.tok.Type != BracketOpen {
		return pin, nil
	}
	if p.next(); p.tok.Type != Int {
		return nil, p.errorf("integer value expected after '['")
	}
	start, err := p.index()
	if err != nil {
		return nil, err
	}
	if p.tok.Type != Range {
		if p.tok.Type != BracketClose {
			return nil, p.errorf("closing ']' expected after index or range")
		}
		p.next()
		return PinIndex{Pin: pin, Index: start}, nil
	}
	if p.next(); p.tok.Type != Int {
		return nil, p.errorf("integer value expected after '..'")
	}
	end, err := p.index()
	if err != nil {
		return nil, err
	}
	if p.tok.Type != BracketClose {
		return nil, p.errorf("closing ']' expected after index or range")
	}
	p.next()
	return PinRange{Pin: pin, Start: start, End: end}, nil
}
