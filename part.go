// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package dutsim

import (
	"github.com/db47h/dutsim/internal/hdl"
	"github.com/pkg/errors"
)

// Inputs is a list of input pin names.
//
type Inputs []string

// Outputs is a list of output pin names.
//
type Outputs []string

// A MountFn mounts a part into socket s. MountFn's should query
// the socket for assigned pin numbers and return closures around
// these pin numbers.
//
// For example, a Not gate can be defined like this:
//
//	not := &PartSpec{
//		Name: "Not",
//		Inputs: In("in"),
//		Outputs: Out("out"),
//		Mount: func (s *Socket) []Component {
//			in, out := s.Pin("in"), s.Pin("out")
//			return []Component{
//				func (c *Circuit) { c.Set(out, !c.Get(in)) }
//			}
//		}}
//
// A MountFn may panic if the part cannot be mounted into s (e.g. its
// parameters do not fit the circuit resolution). NewCircuit reports such
// panics as errors.
//
type MountFn func(s *Socket) []Component

// A PartSpec wraps a part specification (its blueprint).
//
// Custom parts are implemented by creating a PartSpec, then using its NewPart
// method as a NewPartFn:
//
//	var notGate = notSpec.NewPart
//
//	c, _ := Chip("dummy", "a, b", "c, d",
//		notGate("in=a, out=c"),
//		notGate("in=b, out=d"),
//	)
//
type PartSpec struct {
	// Part name.
	Name string
	// Input pin names. Must be distinct pin names.
	// Use the In() function to expand an input description like
	// "a, b, bus[2]" to []string{"a", "b", "bus[0]", "bus[1]"}
	Inputs Inputs
	// Output pin name. Must be distinct pin names.
	// Use the Out() function to expand an output description string.
	Outputs Outputs

	// Mount function (see MountFn).
	Mount MountFn
}

// A Connection connects a part pin (PP) to one or more wires in the host
// chip (CP). Only output pins can be connected to several wires.
//
type Connection struct {
	PP string
	CP []string
}

// A NewPartFn is a function that takes a connection configuration and returns a
// new Part.
//
// The connection configuration is a comma separated list of partPin=chipWire
// assignments. Either side can be a single pin, an indexed bus pin like
// "bus[3]" or a bus range like "bus[0..3]". A bus pin name without index on
// the left hand side selects the whole bus.
//
type NewPartFn func(c string) Part

// A Part wraps a part specification together with its connections within a host
// chip.
//
type Part struct {
	*PartSpec
	Conns []Connection

	err error
}

// Parts is a convenience wrapper for []Part.
//
type Parts []Part

// NewPart is a NewPartFn that wraps p with the given connections into a Part.
// Connection errors are reported when the part is used in Chip or NewCircuit.
//
func (p *PartSpec) NewPart(connections string) Part {
	conns, err := p.connect(connections)
	return Part{PartSpec: p, Conns: conns, err: err}
}

// Err returns the connection error for p, if any.
//
func (p Part) Err() error {
	return p.err
}

func (p Part) wires(pin string) []string {
	for i := range p.Conns {
		if p.Conns[i].PP == pin {
			return p.Conns[i].CP
		}
	}
	return nil
}

func (p *PartSpec) connect(connections string) ([]Connection, error) {
	as, err := parseConnections(connections)
	if err != nil {
		return nil, err
	}
	pins := make(map[string]bool, len(p.Inputs)+len(p.Outputs))
	for _, n := range p.Inputs {
		pins[n] = true
	}
	for _, n := range p.Outputs {
		pins[n] = false
	}

	var conns []Connection
	idx := make(map[string]int)
	for _, a := range as {
		lhs, isBus, err := p.expandPin(pins, a.LHS)
		if err != nil {
			return nil, err
		}
		rhs, err := expandWire(a.RHS, len(lhs), isBus)
		if err != nil {
			return nil, err
		}
		var pairs [][2]string
		switch {
		case len(lhs) == len(rhs):
			for i := range lhs {
				pairs = append(pairs, [2]string{lhs[i], rhs[i]})
			}
		case len(rhs) == 1:
			// many to one
			for _, l := range lhs {
				pairs = append(pairs, [2]string{l, rhs[0]})
			}
		case len(lhs) == 1:
			// one to many
			for _, r := range rhs {
				pairs = append(pairs, [2]string{lhs[0], r})
			}
		default:
			return nil, errors.Errorf("pin count mismatch in pin mapping %s=%s", pinRefName(a.LHS), pinRefName(a.RHS))
		}
		for _, pr := range pairs {
			i, ok := idx[pr[0]]
			if !ok {
				idx[pr[0]] = len(conns)
				conns = append(conns, Connection{PP: pr[0], CP: []string{pr[1]}})
				continue
			}
			if pins[pr[0]] {
				return nil, errors.New("input pin " + pr[0] + " connected to more than one wire")
			}
			conns[i].CP = append(conns[i].CP, pr[1])
		}
	}
	return conns, nil
}

// expandPin expands a part pin reference to individual pin names. isBus
// reports whether ref selects a bus or bus slice rather than a single pin.
//
func (p *PartSpec) expandPin(pins map[string]bool, ref interface{}) (names []string, isBus bool, err error) {
	switch v := ref.(type) {
	case hdl.Pin:
		if _, ok := pins[v.Name]; ok {
			return []string{v.Name}, false, nil
		}
		isBus = true
		for i := 0; ; i++ {
			n := BusPinName(v.Name, i)
			if _, ok := pins[n]; !ok {
				break
			}
			names = append(names, n)
		}
	case hdl.PinIndex:
		names = []string{BusPinName(v.Name, v.Index)}
	case hdl.PinRange:
		if v.End < v.Start {
			return nil, false, errors.New("invalid bus range " + pinRefName(v))
		}
		isBus = true
		for i := v.Start; i <= v.End; i++ {
			names = append(names, BusPinName(v.Name, i))
		}
	}
	if len(names) == 0 {
		return nil, false, errors.New("invalid pin name " + pinRefName(ref) + " for part " + p.Name)
	}
	for _, n := range names {
		if _, ok := pins[n]; !ok {
			return nil, false, errors.New("invalid pin name " + n + " for part " + p.Name)
		}
	}
	return names, isBus, nil
}

// expandWire expands a chip wire reference. If bus is set, plain wire names
// are expanded to a bus of the given width, even a one bit wide one.
// Constants are never expanded.
//
func expandWire(ref interface{}, width int, bus bool) ([]string, error) {
	switch v := ref.(type) {
	case hdl.Pin:
		if !bus || isConstant(v.Name) {
			return []string{v.Name}, nil
		}
		names := make([]string, width)
		for i := range names {
			names[i] = BusPinName(v.Name, i)
		}
		return names, nil
	case hdl.PinIndex:
		return []string{BusPinName(v.Name, v.Index)}, nil
	case hdl.PinRange:
		if v.End < v.Start {
			return nil, errors.New("invalid bus range " + pinRefName(v))
		}
		names := make([]string, 0, v.End-v.Start+1)
		for i := v.Start; i <= v.End; i++ {
			names = append(names, BusPinName(v.Name, i))
		}
		return names, nil
	}
	return nil, errors.New("invalid wire " + pinRefName(ref))
}
