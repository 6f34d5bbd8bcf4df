// Tracks run-level results and phase timing for reporting and export.

package sim

import (
	"fmt"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics aggregates statistics about one simulation run for final
// reporting. Phase averages are taken over executed sensing ticks.
type Metrics struct {
	RunID                 string
	Ticks                 int     // ticks executed
	SensingTicks          int     // sensing ticks executed
	CandidateSensingTicks int     // legacy (n+1)/(interval+1) count, for comparison
	CumulativeReward      float64 // sum of per-tick rewards
	Terminal              bool    // run ended on the model's terminal predicate

	PhaseAverages map[Phase]time.Duration
}

// Print displays aggregated metrics at the end of the simulation.
func (m *Metrics) Print(w io.Writer) {
	fmt.Fprintln(w, "=== Simulation Metrics ===")
	fmt.Fprintf(w, "Run ID               : %s\n", m.RunID)
	fmt.Fprintf(w, "Ticks                : %d\n", m.Ticks)
	fmt.Fprintf(w, "Sensing Ticks        : %d\n", m.SensingTicks)
	fmt.Fprintf(w, "Terminal             : %t\n", m.Terminal)
	fmt.Fprintf(w, "Cumulative Reward    : %.4f\n", m.CumulativeReward)
	for _, p := range Phases() {
		fmt.Fprintf(w, "avg %-22s: %.9f s\n", p.String(), m.PhaseAverages[p].Seconds())
	}
}

// Collectors exports loop activity to Prometheus.
type Collectors struct {
	PhaseDuration    *prometheus.HistogramVec
	Ticks            *prometheus.CounterVec
	CumulativeReward prometheus.Gauge
}

// Tick kinds used as the "kind" label of Collectors.Ticks.
const (
	TickKindSensing = "sensing"
	TickKindPlain   = "plain"
)

// NewCollectors creates the collectors and registers them on reg.
func NewCollectors(reg prometheus.Registerer) (*Collectors, error) {
	c := &Collectors{
		PhaseDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "belief_sim_phase_duration_seconds",
			Help:    "Wall-clock duration of each timed phase of a sensing tick",
			Buckets: []float64{0.000001, 0.00001, 0.0001, 0.001, 0.01, 0.1, 1},
		}, []string{"phase"}),
		Ticks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "belief_sim_ticks_total",
			Help: "Simulation ticks executed",
		}, []string{"kind"}),
		CumulativeReward: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "belief_sim_cumulative_reward",
			Help: "Cumulative reward of the current run",
		}),
	}
	for _, col := range []prometheus.Collector{c.PhaseDuration, c.Ticks, c.CumulativeReward} {
		if err := reg.Register(col); err != nil {
			return nil, fmt.Errorf("registering collector: %w", err)
		}
	}
	return c, nil
}

func (c *Collectors) observePhase(p Phase, d time.Duration) {
	c.PhaseDuration.WithLabelValues(p.String()).Observe(d.Seconds())
}
