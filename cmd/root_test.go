package cmd

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunSimulation_WritesReportAndArtifacts(t *testing.T) {
	// GIVEN the default walk with every output enabled
	dir := t.TempDir()
	out := runOutputs{
		Markers: filepath.Join(dir, "markers.jsonl"),
		Trace:   filepath.Join(dir, "trace.csv"),
		Plot:    filepath.Join(dir, "trajectory.png"),
		Metrics: filepath.Join(dir, "metrics.prom"),
	}
	var stdout bytes.Buffer

	// WHEN the simulation runs
	require.NoError(t, runSimulation(DefaultRunConfig(), out, &stdout))

	// THEN the metrics report is printed
	report := stdout.String()
	assert.Contains(t, report, "=== Simulation Metrics ===")
	assert.Contains(t, report, "Terminal             : true")
	assert.Contains(t, report, "Mean Reward per Tick : -1.0000")

	// AND the trace has a header plus one row per tick
	f, err := os.Open(out.Trace)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Greater(t, len(rows), 1)
	assert.Equal(t, "tick", rows[0][0])
	assert.Equal(t, "0", rows[1][0])
	assert.Equal(t, "true", rows[1][1], "tick 0 is always a sensing tick")

	// AND the marker stream has a transform and a marker per published tick
	mf, err := os.Open(out.Markers)
	require.NoError(t, err)
	defer func() { _ = mf.Close() }()
	lines := 0
	sc := bufio.NewScanner(mf)
	for sc.Scan() {
		lines++
	}
	assert.Equal(t, 2*(len(rows)-1), lines)

	// AND the metrics file is Prometheus text
	prom, err := os.ReadFile(out.Metrics)
	require.NoError(t, err)
	assert.Contains(t, string(prom), "# TYPE belief_sim_ticks_total counter")
	assert.Contains(t, string(prom), "belief_sim_phase_duration_seconds_bucket")

	// AND the plot was saved
	info, err := os.Stat(out.Plot)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestRunSimulation_NoOutputs_OnlyReport(t *testing.T) {
	// GIVEN a zero tick budget and no outputs
	cfg := DefaultRunConfig()
	cfg.Simulation.MaxTicks = 0
	var stdout bytes.Buffer

	// WHEN the simulation runs
	require.NoError(t, runSimulation(cfg, runOutputs{}, &stdout))

	// THEN nothing ran and no trace summary is printed
	assert.Contains(t, stdout.String(), "Ticks                : 0")
	assert.NotContains(t, stdout.String(), "Mean Reward per Tick")
}

func TestRunSimulation_InvalidConfig_Errors(t *testing.T) {
	cfg := DefaultRunConfig()
	cfg.Simulation.SensingInterval = -2
	err := runSimulation(cfg, runOutputs{}, &bytes.Buffer{})
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "invalid run config"))
}

func TestApplyFlagOverrides_OnlyChangedFlags(t *testing.T) {
	// GIVEN a config file value and a flag the user set explicitly
	t.Cleanup(func() {
		runCmd.Flags().Lookup("max-ticks").Changed = false
		maxTicks = 100
	})
	require.NoError(t, runCmd.Flags().Set("max-ticks", "9"))
	cfg := DefaultRunConfig()
	cfg.Simulation.SensingInterval = 4

	// WHEN overrides are applied
	applyFlagOverrides(runCmd, &cfg)

	// THEN the set flag wins and the unset flag keeps the file value
	assert.Equal(t, 9, cfg.Simulation.MaxTicks)
	assert.Equal(t, 4, cfg.Simulation.SensingInterval)
}
