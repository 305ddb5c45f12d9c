// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package dut

import (
	"sync"
	"time"
)

// Result is a value computed by the processing block on a clock edge.
//
type Result struct {
	Cycle uint64        // clock edge count, starting at 0
	Time  time.Duration // simulation time of the clock edge
	Value uint64
}

// ResultBuffer is a bounded buffer that keeps the most recent results.
// It is safe for concurrent use.
//
type ResultBuffer struct {
	mu    sync.Mutex
	buf   []Result
	start int
	n     int
	total uint64
}

// NewResultBuffer returns a new buffer holding up to depth results.
//
func NewResultBuffer(depth int) *ResultBuffer {
	if depth < 1 {
		depth = 1
	}
	return &ResultBuffer{buf: make([]Result, depth)}
}

// Push appends r to the buffer, dropping the oldest result if the buffer is
// full.
//
func (b *ResultBuffer) Push(r Result) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.total++
	if b.n < len(b.buf) {
		b.buf[(b.start+b.n)%len(b.buf)] = r
		b.n++
		return
	}
	b.buf[b.start] = r
	b.start = (b.start + 1) % len(b.buf)
}

// Results returns the buffered results, oldest first.
//
func (b *ResultBuffer) Results() []Result {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Result, b.n)
	for i := range out {
		out[i] = b.buf[(b.start+i)%len(b.buf)]
	}
	return out
}

// Last returns the most recent result.
//
func (b *ResultBuffer) Last() (Result, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.n == 0 {
		return Result{}, false
	}
	return b.buf[(b.start+b.n-1)%len(b.buf)], true
}

// Len returns the number of buffered results.
//
func (b *ResultBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.n
}

// Total returns the number of results pushed since the buffer was created,
// including dropped ones.
//
func (b *ResultBuffer) Total() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.total
}
