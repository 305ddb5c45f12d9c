// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package dutsim

import (
	"strconv"

	"github.com/db47h/dutsim/internal/hdl"
	"github.com/pkg/errors"
)

// ParseIOSpec parses the pin specification string and returns individual pin
// names in a slice, also expanding bus declarations to individual pin names.
// For example:
//
//	ParseIOSpec("in[2], sel") // returns []string{"in[0]", "in[1]", "sel"}
//
func ParseIOSpec(names string) ([]string, error) {
	refs, err := hdl.Parse(names, false)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, r := range refs {
		switch v := r.(type) {
		case hdl.Pin:
			out = append(out, v.Name)
		case hdl.PinIndex:
			if v.Index <= 0 {
				return nil, errors.Errorf("in %q at pos %d: invalid bus size %d", names, v.Pos+1, v.Index)
			}
			for n := 0; n < v.Index; n++ {
				out = append(out, BusPinName(v.Name, n))
			}
		case hdl.PinRange:
			return nil, errors.Errorf("in %q at pos %d: bus ranges are not allowed in I/O specs", names, v.Pos+1)
		}
	}
	return out, nil
}

// In parses an input pin specification string and returns individual pin names.
//
// The input is a comma separated list of pin names and buses, e.g. "a, b,
// bus[8]". In panics if the input string is not valid.
//
func In(names string) Inputs {
	pins, err := ParseIOSpec(names)
	if err != nil {
		panic(err)
	}
	return pins
}

// Out parses an output pin specification string and returns individual pin
// names. See In.
//
func Out(names string) Outputs {
	pins, err := ParseIOSpec(names)
	if err != nil {
		panic(err)
	}
	return pins
}

// parseConnections parses a connection configuration like "partPinX=chipPinY, ..."
// into a slice of pin assignments. Expansion of buses is left to the caller since
// it depends on the part's pinout.
//
func parseConnections(c string) ([]hdl.PinAssignment, error) {
	refs, err := hdl.Parse(c, true)
	if err != nil {
		return nil, err
	}
	out := make([]hdl.PinAssignment, 0, len(refs))
	for _, r := range refs {
		a, ok := r.(hdl.PinAssignment)
		if !ok {
			return nil, errors.Errorf("in %q: pin %s not assigned", c, pinRefName(r))
		}
		out = append(out, a)
	}
	return out, nil
}

func pinRefName(r interface{}) string {
	switch v := r.(type) {
	case hdl.Pin:
		return v.Name
	case hdl.PinIndex:
		return BusPinName(v.Name, v.Index)
	case hdl.PinRange:
		return v.Name + "[" + strconv.Itoa(v.Start) + ".." + strconv.Itoa(v.End) + "]"
	}
	return "?"
}
