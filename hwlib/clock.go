// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import (
	"math"
	"time"

	"github.com/db47h/dutsim"
	"github.com/pkg/errors"
)

// ClockSpec describes a clock generator.
//
type ClockSpec struct {
	// Name of the clock part. Defaults to "CLOCK".
	Name string
	// Clock period in simulated time. Must be a multiple of the circuit
	// resolution and last at least two steps.
	Period time.Duration
	// Fraction of the period during which the clock is high. Defaults to 0.5.
	DutyCycle float64
	// If set, the clock starts with its low phase.
	NegedgeFirst bool
}

// Clock returns a clock generator that is independent of the circuit's
// intrinsic clock.
//
//	Outputs: out
//	Function: out = high during the first DutyCycle fraction of every Period
//
// As with any part, the output lags by one step: the first rising edge is seen
// by other parts at step 1.
//
func Clock(spec ClockSpec) (dutsim.NewPartFn, error) {
	if spec.Name == "" {
		spec.Name = "CLOCK"
	}
	if spec.Period <= 0 {
		return nil, errors.Errorf("%s: invalid clock period %v", spec.Name, spec.Period)
	}
	if spec.DutyCycle == 0 {
		spec.DutyCycle = 0.5
	}
	if spec.DutyCycle <= 0 || spec.DutyCycle >= 1 {
		return nil, errors.Errorf("%s: duty cycle %v out of range (0, 1)", spec.Name, spec.DutyCycle)
	}
	return (&dutsim.PartSpec{
		Name:    spec.Name,
		Outputs: dutsim.Outputs{pOut},
		Mount: func(s *dutsim.Socket) []dutsim.Component {
			res := s.Resolution()
			if spec.Period%res != 0 || spec.Period/res < 2 {
				panic(errors.Errorf("%s: period %v does not fit resolution %v", spec.Name, spec.Period, res))
			}
			period := uint(spec.Period / res)
			high := uint(math.Round(float64(period) * spec.DutyCycle))
			if high < 1 {
				high = 1
			} else if high >= period {
				high = period - 1
			}
			out := s.Pin(pOut)
			negFirst := spec.NegedgeFirst
			return []dutsim.Component{
				func(c *dutsim.Circuit) {
					phase := c.Steps() % period
					if negFirst {
						c.Set(out, phase >= period-high)
					} else {
						c.Set(out, phase < high)
					}
				}}
		}}).NewPart, nil
}
