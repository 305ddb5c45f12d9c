// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Command dutsim elaborates and simulates a Dut described by a YAML
// configuration file.
//
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/db47h/dutsim"
	"github.com/db47h/dutsim/dut"
	"github.com/db47h/dutsim/internal/config"
	"github.com/db47h/dutsim/internal/metrics"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("dutsim: .env: %v", err)
	}
	if len(os.Args) < 2 {
		printUsage(os.Stderr)
		os.Exit(1)
	}

	cmd := os.Args[1]
	var err error

	switch cmd {
	case "run":
		err = runCommand(os.Args[2:])
	case "validate":
		err = validateCommand(os.Args[2:])
	case "help", "-h", "--help":
		printUsage(os.Stdout)
		return
	default:
		printUsage(os.Stderr)
		err = errors.Errorf("unknown command %q", cmd)
	}

	if err != nil {
		log.Fatalf("dutsim %s: %v", cmd, err)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "usage: dutsim <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "commands:")
	fmt.Fprintln(w, "  run       elaborate the Dut and run the simulation")
	fmt.Fprintln(w, "  validate  check the configuration and elaborate the Dut")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "The default config path is read from %s.\n", config.EnvPath)
}

// loadConfig loads the config at path, or returns the default configuration
// if path is empty.
//
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func runCommand(args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	cfgPath := fs.String("config", os.Getenv(config.EnvPath), "Path to configuration file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		return errors.Wrap(err, "load config")
	}
	lg, err := cfg.NewLogger()
	if err != nil {
		return err
	}
	defer lg.Sync() // nolint: errcheck
	lg = lg.With(zap.String("run_id", uuid.New().String()))

	reg := prometheus.NewRegistry()
	if cfg.Metrics.Addr != "" {
		srv := &http.Server{
			Addr:              cfg.Metrics.Addr,
			Handler:           promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				lg.Error("metrics server failed", zap.Error(err))
			}
		}()
		defer srv.Close()
		lg.Info("serving metrics", zap.String("addr", cfg.Metrics.Addr))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return run(ctx, cfg, os.Stdout, reg, lg)
}

// run elaborates the Dut described by cfg, runs the simulation and prints the
// results to w. Metrics are registered with reg.
//
func run(ctx context.Context, cfg *config.Config, w io.Writer, reg prometheus.Registerer, lg *zap.Logger) error {
	m := metrics.New(reg, cfg.Dut.Name)

	dc := cfg.DutConfig(lg)
	dc.OnResult = m.ObserveResult
	mod, err := dut.New(dc)
	if err != nil {
		return err
	}
	opts := append(cfg.CircuitOptions(), dutsim.WithLogger(lg), dutsim.WithObserver(m))
	b, err := dut.NewBench(mod, cfg.Stimulus, opts...)
	if err != nil {
		return err
	}
	defer b.Close()

	lg.Info("simulation started", zap.Duration("run_for", cfg.Sim.RunFor))
	start := time.Now()
	err = b.Run(ctx, cfg.Sim.RunFor)
	elapsed := time.Since(start)
	m.ObserveRun(elapsed, err)
	if err != nil {
		lg.Error("simulation failed", zap.Duration("now", b.Circuit().Now()), zap.Error(err))
		return err
	}
	lg.Info("simulation done",
		zap.Uint("steps", b.Circuit().Steps()),
		zap.Duration("now", b.Circuit().Now()),
		zap.Duration("elapsed", elapsed),
		zap.Uint64("results", mod.Buffer().Total()))

	return printResults(w, mod, b.Output())
}

func printResults(w io.Writer, mod *dut.Module, out uint64) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "CYCLE\tTIME\tVALUE")
	for _, r := range mod.Results() {
		fmt.Fprintf(tw, "%d\t%v\t%d\n", r.Cycle, r.Time, r.Value)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%s.out = %d\n", mod.Name(), out)
	return err
}

func validateCommand(args []string) error {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	cfgPath := fs.String("config", os.Getenv(config.EnvPath), "Path to configuration file to validate")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		return err
	}
	mod, err := dut.New(cfg.DutConfig(nil))
	if err != nil {
		return err
	}
	// mount once to catch clock and resolution mismatches
	b, err := dut.NewBench(mod, cfg.Stimulus, cfg.CircuitOptions()...)
	if err != nil {
		return err
	}
	b.Close()
	fmt.Printf("config %s looks good: %s, %d bits, clock %v\n", *cfgPath, mod.Name(), mod.Width(), mod.ClockPeriod())
	return nil
}
