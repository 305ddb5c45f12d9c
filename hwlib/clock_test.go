package hwlib_test

import (
	"strings"
	"testing"
	"time"

	hw "github.com/db47h/dutsim"
	hl "github.com/db47h/dutsim/hwlib"
)

func clockTrace(t *testing.T, spec hl.ClockSpec, res time.Duration, steps int) []bool {
	t.Helper()
	clk, err := hl.Clock(spec)
	if err != nil {
		t.Fatal(err)
	}
	var trace []bool
	c, err := hw.NewCircuit(hw.Parts{
		clk("out=clock"),
		hl.Output(func(v bool) { trace = append(trace, v) })("in=clock"),
	}, hw.WithResolution(res))
	if err != nil {
		t.Fatal(err)
	}
	defer c.Dispose()
	for i := 0; i < steps; i++ {
		c.Step()
	}
	return trace
}

func TestClock(t *testing.T) {
	const (
		T = true
		F = false
	)
	td := []struct {
		name string
		spec hl.ClockSpec
		res  time.Duration
		exp  []bool
	}{
		// the first value is the initial wire state, before the clock drives it.
		{"default", hl.ClockSpec{Period: 4 * time.Nanosecond}, time.Nanosecond, []bool{F, T, T, F, F, T, T, F, F, T}},
		{"negedge_first", hl.ClockSpec{Period: 4 * time.Nanosecond, NegedgeFirst: true}, time.Nanosecond, []bool{F, F, F, T, T, F, F, T, T, F}},
		{"duty_25", hl.ClockSpec{Period: 4 * time.Nanosecond, DutyCycle: 0.25}, time.Nanosecond, []bool{F, T, F, F, F, T, F, F, F, T}},
		{"coarse_resolution", hl.ClockSpec{Period: 10 * time.Nanosecond}, 5 * time.Nanosecond, []bool{F, T, F, T, F, T}},
	}
	for _, d := range td {
		t.Run(d.name, func(t *testing.T) {
			trace := clockTrace(t, d.spec, d.res, len(d.exp))
			if len(trace) != len(d.exp) {
				t.Fatalf("got %d samples, expected %d", len(trace), len(d.exp))
			}
			for i := range trace {
				if trace[i] != d.exp[i] {
					t.Fatalf("step %d: expected %v, got %v (trace %v)", i, d.exp[i], trace[i], trace)
				}
			}
		})
	}
}

func TestClock_errors(t *testing.T) {
	if _, err := hl.Clock(hl.ClockSpec{}); err == nil {
		t.Fatal("expected error for zero period")
	}
	if _, err := hl.Clock(hl.ClockSpec{Period: time.Nanosecond, DutyCycle: 1.5}); err == nil {
		t.Fatal("expected error for duty cycle out of range")
	}

	clk, err := hl.Clock(hl.ClockSpec{Name: "clock", Period: 3 * time.Nanosecond})
	if err != nil {
		t.Fatal(err)
	}
	_, err = hw.NewCircuit(hw.Parts{
		clk("out=clock"),
		hl.Output(func(bool) {})("in=clock"),
	}, hw.WithResolution(2*time.Nanosecond))
	if err == nil {
		t.Fatal("expected mount error")
	}
	if !strings.Contains(err.Error(), "clock: period 3ns does not fit resolution 2ns") {
		t.Fatalf("unexpected error %q", err)
	}
}
