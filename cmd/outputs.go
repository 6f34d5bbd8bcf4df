package cmd

import (
	"bufio"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/inference-sim/belief-sim/sim"
	"github.com/inference-sim/belief-sim/sim/trace"
)

// attachCollectors registers loop collectors on a fresh registry when a
// metrics export is requested. Returns nil registry otherwise.
func attachCollectors(s *sim.Simulator, metricsOut string) (*prometheus.Registry, error) {
	if metricsOut == "" {
		return nil, nil
	}
	reg := prometheus.NewRegistry()
	c, err := sim.NewCollectors(reg)
	if err != nil {
		return nil, fmt.Errorf("registering collectors: %w", err)
	}
	s.SetCollectors(c)
	return reg, nil
}

// writeMetrics dumps every family gathered from reg in the Prometheus text
// exposition format.
func writeMetrics(path string, reg prometheus.Gatherer) error {
	families, err := reg.Gather()
	if err != nil {
		return fmt.Errorf("gathering metrics: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating metrics file: %w", err)
	}
	defer func() { _ = f.Close() }()

	w := bufio.NewWriter(f)
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("encoding %s: %w", mf.GetName(), err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("writing metrics file: %w", err)
	}
	return f.Close()
}

func writeTraceCSV(path string, st *trace.SimulationTrace) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating trace file: %w", err)
	}
	defer func() { _ = f.Close() }()
	if err := trace.WriteCSV(f, st); err != nil {
		return err
	}
	return f.Close()
}
