// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package metrics exports simulation metrics to Prometheus.
//
package metrics

import (
	"time"

	"github.com/db47h/dutsim/dut"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics collects simulation and Dut metrics. It implements dutsim.Observer.
//
type Metrics struct {
	steps       prometheus.Counter
	simTime     prometheus.Gauge
	results     prometheus.Counter
	resultValue prometheus.Gauge
	failures    prometheus.Counter
	runDuration prometheus.Histogram
}

// New creates the collectors for the named Dut and registers them with reg.
//
func New(reg prometheus.Registerer, dutName string) *Metrics {
	labels := prometheus.Labels{"dut": dutName}
	m := &Metrics{
		steps: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "dutsim_steps_total",
			Help:        "Total simulation steps run.",
			ConstLabels: labels,
		}),
		simTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "dutsim_sim_time_seconds",
			Help:        "Current simulated time.",
			ConstLabels: labels,
		}),
		results: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "dutsim_results_total",
			Help:        "Total results computed by the processing block.",
			ConstLabels: labels,
		}),
		resultValue: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "dutsim_result_value",
			Help:        "Last result computed by the processing block.",
			ConstLabels: labels,
		}),
		failures: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "dutsim_run_failures_total",
			Help:        "Simulation runs that ended with an error.",
			ConstLabels: labels,
		}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:        "dutsim_run_duration_seconds",
			Help:        "Wall clock duration of simulation runs.",
			ConstLabels: labels,
			Buckets:     prometheus.ExponentialBuckets(0.001, 2, 12),
		}),
	}
	reg.MustRegister(m.steps, m.simTime, m.results, m.resultValue, m.failures, m.runDuration)
	return m
}

// ObserveStep implements dutsim.Observer.
//
func (m *Metrics) ObserveStep(steps uint, now time.Duration) {
	m.steps.Inc()
	m.simTime.Set(now.Seconds())
}

// ObserveResult records a Dut result. It can be used as a dut.Config OnResult
// hook.
//
func (m *Metrics) ObserveResult(r dut.Result) {
	m.results.Inc()
	m.resultValue.Set(float64(r.Value))
}

// ObserveRun records the outcome of a simulation run.
//
func (m *Metrics) ObserveRun(elapsed time.Duration, err error) {
	m.runDuration.Observe(elapsed.Seconds())
	if err != nil {
		m.failures.Inc()
	}
}
