// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package dutsim

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// A Component is a component in a circuit that can Get and Set states.
//
type Component func(c *Circuit)

// An Observer is notified after every simulation step.
//
type Observer interface {
	ObserveStep(steps uint, now time.Duration)
}

// An Option configures a Circuit.
//
type Option func(c *Circuit)

// WithWorkers sets the number of goroutines used to update the state of the
// Circuit each step of the simulation. If less or equal to 0, the value of
// GOMAXPROCS will be used.
//
func WithWorkers(n int) Option {
	return func(c *Circuit) { c.workers = n }
}

// WithStepsPerCycle sets how many simulation steps to run per cycle of the
// intrinsic Clk signal. The value is rounded up to the next power of two,
// with a minimum of 2.
//
func WithStepsPerCycle(n uint) Option {
	return func(c *Circuit) { c.tpc = n }
}

// WithResolution sets the simulated time of a single step.
//
func WithResolution(d time.Duration) Option {
	return func(c *Circuit) { c.res = d }
}

// WithLogger sets the circuit logger.
//
func WithLogger(l *zap.Logger) Option {
	return func(c *Circuit) { c.log = l }
}

// WithObserver registers an observer for simulation steps.
//
func WithObserver(o Observer) Option {
	return func(c *Circuit) { c.obs = o }
}

// Circuit is a runnable circuit simulation.
//
type Circuit struct {
	s0      []bool // wire states frame #0
	s1      []bool // wire states frame #1
	cs      []Component
	count   int  // wire count
	tpc     uint // ticks per clock cycle
	tick    uint
	res     time.Duration
	workers int
	log     *zap.Logger
	obs     Observer

	mu  sync.Mutex
	err error

	wc      []chan struct{}
	wg      sync.WaitGroup
	dispose sync.Once
}

// NewCircuit builds a new circuit based on the given parts.
//
// Callers must make sure to call Dispose() once the circuit is no longer needed
// in order to release allocated resources.
//
func NewCircuit(parts Parts, opts ...Option) (*Circuit, error) {
	if len(parts) == 0 {
		return nil, errors.New("empty part list")
	}

	// new circuit with room for constant value pins.
	cc := &Circuit{count: cstCount, tpc: 2, res: time.Nanosecond}
	for _, o := range opts {
		o(cc)
	}
	if cc.log == nil {
		cc.log = zap.NewNop()
	}
	if cc.res <= 0 {
		return nil, errors.Errorf("invalid resolution %v", cc.res)
	}
	cc.tpc = roundSPC(cc.tpc)

	wrap, err := Chip("CIRCUIT", "", "", parts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create chip wrapper")
	}
	ups, err := mount(wrap(""), newSocket(cc))
	if err != nil {
		return nil, err
	}
	ups = append(ups, updClock)
	cc.cs = ups
	cc.s0 = make([]bool, cc.count)
	cc.s1 = make([]bool, cc.count)
	// init constant pins
	cc.s0[cstClk] = true
	cc.s0[cstTrue] = true
	cc.s1[cstTrue] = true

	workers := cc.workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(-1)
	}
	if workers <= 0 {
		workers = 1
	}
	size := len(ups) / workers
	if size*workers < len(ups) {
		size++
	}
	for len(ups) > 0 {
		if size > len(ups) {
			size = len(ups)
		}
		wc := make(chan struct{}, 1)
		cc.wc = append(cc.wc, wc)
		go worker(cc, ups[:size], wc)
		ups = ups[size:]
	}

	cc.log.Debug("circuit built",
		zap.Int("components", len(cc.cs)),
		zap.Int("wires", cc.count),
		zap.Int("workers", len(cc.wc)),
		zap.Uint("stepsPerCycle", cc.tpc),
		zap.Duration("resolution", cc.res))

	return cc, nil
}

func roundSPC(n uint) uint {
	if n < 2 {
		n = 2
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	n++
	return n
}

// mount mounts p and converts panics raised by MountFns into errors.
//
func mount(p Part, s *Socket) (cs []Component, err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = errors.Wrap(e, "mount failed")
				return
			}
			err = errors.Errorf("mount failed: %v", r)
		}
	}()
	return p.Mount(s), nil
}

func updClock(c *Circuit) {
	if c.s0[cstFalse] || !c.s0[cstTrue] {
		panic("true or false constants have been overwritten")
	}

	// update clock signal
	tick := c.tick + 1
	if tick&(c.tpc-1) == 0 {
		c.s1[cstClk] = true
	} else if tick&(c.tpc/2-1) == 0 {
		c.s1[cstClk] = false
	} else {
		c.s1[cstClk] = c.s0[cstClk]
	}
}

// Dispose releases all resources allocated for a circuit and stops
// worker goroutines.
//
func (c *Circuit) Dispose() {
	c.dispose.Do(func() {
		c.wg.Add(len(c.wc))
		for _, wc := range c.wc {
			close(wc)
		}
		c.wg.Wait()
		c.log.Debug("circuit disposed", zap.Uint("steps", c.tick), zap.Duration("now", c.Now()))
	})
}

func worker(c *Circuit, cs []Component, wc <-chan struct{}) {
	for {
		_, ok := <-wc
		if !ok {
			c.wg.Done()
			return
		}
		for _, f := range cs {
			f(c)
		}
		c.wg.Done()
	}
}

// allocPin allocates a pin and returns its number.
//
func (c *Circuit) allocPin() int {
	cnt := c.count
	c.count++
	return cnt
}

// Steps returns the value of the step counter.
//
func (c *Circuit) Steps() uint {
	return c.tick
}

// SPC returns the stepsPerCycle value.
//
func (c *Circuit) SPC() uint {
	return c.tpc
}

// Resolution returns the simulated time of a single step.
//
func (c *Circuit) Resolution() time.Duration {
	return c.res
}

// Now returns the current simulation time.
//
func (c *Circuit) Now() time.Duration {
	return time.Duration(c.tick) * c.res
}

// AtTick returns true if the current step is at the beginning of a clock cycle
// (raising edge of Clk).
//
func (c *Circuit) AtTick() bool {
	return c.Steps()&(c.SPC()-1) == 0
}

// AtTock returns true if the current step is at the beginning of the second
// half of a clock cycle (falling edge of Clk).
//
func (c *Circuit) AtTock() bool {
	return (c.Steps()+c.SPC()/2)&(c.SPC()-1) == 0
}

// Get returns the state of pin n. The value of n should be obtained in a
// MountFn by a call to one of the Socket methods.
//
func (c *Circuit) Get(n int) bool {
	return c.s0[n]
}

// Set sets the state s of pin n. The value of n should be obtained in a
// MountFn by a call to one of the Socket methods.
//
func (c *Circuit) Set(n int, s bool) {
	c.s1[n] = s
}

// Toggle toggles the state of pin n. The value of n should be obtained in a
// MountFn by a call to one of the Socket methods.
//
func (c *Circuit) Toggle(n int) {
	c.s1[n] = !c.s0[n]
}

// Fail records a component failure. Only the first failure is kept.
// It is safe to call Fail from within components.
//
func (c *Circuit) Fail(err error) {
	if err == nil {
		return
	}
	c.mu.Lock()
	if c.err == nil {
		c.err = err
	}
	c.mu.Unlock()
}

// Err returns the first failure recorded by Fail, if any.
//
func (c *Circuit) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Step advances the simulation by one step.
//
func (c *Circuit) Step() {
	c.wg.Add(len(c.wc))
	for _, wc := range c.wc {
		wc <- struct{}{}
	}

	c.wg.Wait()
	c.tick++
	c.s0, c.s1 = c.s1, c.s0
	if c.obs != nil {
		c.obs.ObserveStep(c.tick, c.Now())
	}
}

// Tick runs the simulation until the beginning of the next half clock cycle.
//
func (c *Circuit) Tick() {
	for c.Get(cstClk) {
		c.Step()
	}
}

// Tock runs the simulation until the beginning of the next clock cycle.
// Once Tock returns, the output of clocked components should have stabilized.
//
func (c *Circuit) Tock() {
	for !c.Get(cstClk) {
		c.Step()
	}
}

// TickTock runs the simulation for a whole clock cycle.
//
func (c *Circuit) TickTock() {
	c.Tick()
	c.Tock()
}

// RunFor runs the simulation until the simulated time has advanced by d.
//
// The context is checked once per clock cycle. RunFor stops early and returns
// the failure if a component calls Fail.
//
func (c *Circuit) RunFor(ctx context.Context, d time.Duration) error {
	end := c.Now() + d
	for n := uint(0); c.Now() < end; n++ {
		if n&(c.tpc-1) == 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
		}
		c.Step()
		if err := c.Err(); err != nil {
			return err
		}
	}
	return c.Err()
}

// Size returns the component count in the circuit.
//
func (c *Circuit) Size() int { return len(c.cs) }
