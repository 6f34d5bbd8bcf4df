// Package report renders simulation results for offline analysis.
package report

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/inference-sim/belief-sim/sim"
)

// TrajectoryPlot draws one line per state dimension against the tick index
// and marks the ticks on which sensing occurred. A tick's point is the state
// at the start of that tick, so point n is states[n].
func TrajectoryPlot(states []*mat.VecDense, sensingInterval int) (*plot.Plot, error) {
	if len(states) == 0 {
		return nil, fmt.Errorf("no states to plot")
	}
	p := plot.New()
	p.Title.Text = "True State Trajectory"
	p.X.Label.Text = "Tick"
	p.Y.Label.Text = "State"

	dim := states[0].Len()
	for d := 0; d < dim; d++ {
		pts := make(plotter.XYs, len(states))
		for n, s := range states {
			pts[n] = plotter.XY{X: float64(n), Y: s.AtVec(d)}
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("dimension %d: %w", d, err)
		}
		line.Color = plotutil.Color(d)
		line.Width = vg.Points(1)
		p.Add(line)
		p.Legend.Add(fmt.Sprintf("x[%d]", d), line)
	}

	if sensed := sensingPoints(states, sensingInterval); len(sensed) > 0 {
		sc, err := plotter.NewScatter(sensed)
		if err != nil {
			return nil, fmt.Errorf("sensing ticks: %w", err)
		}
		sc.GlyphStyle.Shape = draw.CircleGlyph{}
		sc.GlyphStyle.Radius = vg.Points(2.5)
		p.Add(sc)
		p.Legend.Add("sensing tick", sc)
	}

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10
	return p, nil
}

// sensingPoints returns the first state component at every sensing tick.
// Ticks executed = len(states)-1; the last state has no tick of its own.
func sensingPoints(states []*mat.VecDense, sensingInterval int) plotter.XYs {
	var pts plotter.XYs
	for n := 0; n < len(states)-1; n++ {
		if sim.IsSensingTick(n, sensingInterval) {
			pts = append(pts, plotter.XY{X: float64(n), Y: states[n].AtVec(0)})
		}
	}
	return pts
}

// SaveTrajectoryPlot writes the trajectory plot to path. The image format
// follows the file extension (.png, .svg, .pdf, ...).
func SaveTrajectoryPlot(path string, states []*mat.VecDense, sensingInterval int) error {
	p, err := TrajectoryPlot(states, sensingInterval)
	if err != nil {
		return err
	}
	if err := p.Save(10*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("saving plot %s: %w", path, err)
	}
	return nil
}
