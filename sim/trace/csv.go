package trace

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var csvHeader = []string{
	"tick", "sensed", "sensing_action", "observation",
	"belief_state", "task_action", "state", "reward",
}

// WriteCSV writes one row per tick record. Vectors are encoded as
// space-separated components; sensing columns are "n/a" on non-sensing ticks.
func WriteCSV(w io.Writer, st *SimulationTrace) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing trace header: %w", err)
	}
	if st != nil {
		for _, r := range st.Ticks {
			action, obs := "n/a", "n/a"
			if r.Sensed {
				action = strconv.FormatUint(uint64(r.SensingAction), 10)
				obs = joinFloats(r.Observation)
			}
			row := []string{
				strconv.Itoa(r.Tick),
				strconv.FormatBool(r.Sensed),
				action,
				obs,
				joinFloats(r.BeliefState),
				joinFloats(r.TaskAction),
				joinFloats(r.State),
				strconv.FormatFloat(r.Reward, 'g', -1, 64),
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("writing trace row %d: %w", r.Tick, err)
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

func joinFloats(v []float64) string {
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = strconv.FormatFloat(x, 'g', -1, 64)
	}
	return strings.Join(parts, " ")
}
