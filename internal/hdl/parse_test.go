package hdl_test

import (
	"reflect"
	"testing"

	"github.com/db47h/dutsim/internal/hdl"
)

func TestParse(t *testing.T) {
	td := []struct {
		in    string
		conns bool
		res   []interface{}
		err   string
	}{
		{"", false, nil, ""},
		{"   ", true, nil, ""},
		{"a, b", false, []interface{}{hdl.Pin{"a", 0}, hdl.Pin{"b", 3}}, ""},
		{"bus[4], sel", false, []interface{}{hdl.PinIndex{hdl.Pin{"bus", 0}, 4}, hdl.Pin{"sel", 8}}, ""},
		{"a=b", true, []interface{}{hdl.PinAssignment{hdl.Pin{"a", 0}, hdl.Pin{"b", 2}}}, ""},
		{"out[0..3]=w[4..7], c=true", true, []interface{}{
			hdl.PinAssignment{hdl.PinRange{hdl.Pin{"out", 0}, 0, 3}, hdl.PinRange{hdl.Pin{"w", 10}, 4, 7}},
			hdl.PinAssignment{hdl.Pin{"c", 19}, hdl.Pin{"true", 21}},
		}, ""},
		{"a=b", false, nil, `in "a=b" at pos 2: unexpected "="`},
		{"a,", false, nil, `in "a," at pos 3: expected pin name`},
		{"a[", false, nil, `in "a[" at pos 3: integer value expected after '['`},
		{"a[1..]", false, nil, `in "a[1..]" at pos 6: integer value expected after '..'`},
		{"a[1", false, nil, `in "a[1" at pos 4: closing ']' expected after index or range`},
		{"a b", false, nil, `in "a b" at pos 3: unexpected identifier b`},
		{"a=b c", true, nil, `in "a=b c" at pos 5: unexpected identifier c`},
		{"a.b", true, nil, `in "a.b" at pos 2: unexpected '.'`},
		{"a[65535]", false, []interface{}{hdl.PinIndex{hdl.Pin{"a", 0}, 65535}}, ""},
		{"a[65536]", false, nil, `in "a[65536]" at pos 3: integer value out of range (max 65535)`},
		{"a[0..99999999999999999999999]", true, nil, `in "a[0..99999999999999999999999]" at pos 6: integer value out of range (max 65535)`},
	}
	for _, d := range td {
		t.Run(d.in, func(t *testing.T) {
			res, err := hdl.Parse(d.in, d.conns)
			if err != nil {
				if err.Error() != d.err {
					t.Fatalf("got error %q, expected %q", err, d.err)
				}
				return
			}
			if d.err != "" {
				t.Fatalf("expected error %q", d.err)
			}
			if !reflect.DeepEqual(res, d.res) {
				t.Fatalf("got %v, expected %v", res, d.res)
			}
		})
	}
}
