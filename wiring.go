// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package dutsim

import (
	"sort"

	"github.com/pkg/errors"
)

const (
	typeInternal = iota
	typeInput
	typeOutput
	typeConstant
)

// a net is a named wire in a chip.
type net struct {
	name    string
	typ     int
	driver  string // name of the part pin driving the net
	readers int
}

// wiring tracks the nets of a chip while its parts are being connected.
type wiring struct {
	nets map[string]*net
}

func newWiring(ins Inputs, outs Outputs) (*wiring, error) {
	wr := &wiring{nets: make(map[string]*net, len(ins)+len(outs)+cstCount)}
	for _, n := range []string{False, True, Clk} {
		wr.nets[n] = &net{name: n, typ: typeConstant}
	}
	for _, n := range ins {
		if err := wr.declare(n, typeInput); err != nil {
			return nil, err
		}
	}
	for _, n := range outs {
		if err := wr.declare(n, typeOutput); err != nil {
			return nil, err
		}
	}
	return wr, nil
}

func (wr *wiring) declare(name string, typ int) error {
	if isConstant(name) {
		return errors.New("reserved pin name " + name + " used as chip input or output")
	}
	if _, ok := wr.nets[name]; ok {
		return errors.New("duplicate pin name " + name)
	}
	wr.nets[name] = &net{name: name, typ: typ}
	return nil
}

func (wr *wiring) get(name string) *net {
	n := wr.nets[name]
	if n == nil {
		n = &net{name: name, typ: typeInternal}
		wr.nets[name] = n
	}
	return n
}

// addInput connects part input pin pin to wire w.
//
func (wr *wiring) addInput(w string) {
	wr.get(w).readers++
}

// addOutput connects part output pin pin to wires ws.
//
func (wr *wiring) addOutput(pin string, ws []string) error {
	var chipOut string
	for _, w := range ws {
		n := wr.get(w)
		switch n.typ {
		case typeConstant:
			if w == Clk {
				return errors.Wrap(errors.New("output pin connected to clock signal"), pin+":"+w)
			}
			return errors.Wrap(errors.New("output pin connected to constant "+w+" input"), pin+":"+w)
		case typeInput:
			return errors.Wrap(errors.New("chip input pin used as output"), pin+":"+w)
		case typeOutput:
			if chipOut != "" {
				return errors.Wrap(errors.New("output pin already drives chip output "+chipOut), pin+":"+w)
			}
			chipOut = w
		}
		if n.driver != "" {
			return errors.Wrap(errors.New("output pin already used as output"), pin+":"+w)
		}
		n.driver = pin
	}
	return nil
}

// check checks that every net read is driven and that every driven internal
// net is read.
//
func (wr *wiring) check() error {
	names := make([]string, 0, len(wr.nets))
	for k := range wr.nets {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		n := wr.nets[k]
		switch n.typ {
		case typeConstant, typeInput:
			continue
		case typeOutput:
			// undriven chip outputs are allowed
			continue
		}
		if n.readers > 0 && n.driver == "" {
			return errors.New("pin " + n.name + " not connected to any output")
		}
		if n.readers == 0 && n.driver != "" {
			return errors.New("pin " + n.name + " not connected to any input")
		}
	}
	return nil
}
