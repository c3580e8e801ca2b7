// Package monitor records footprint pipeline output over a run and renders
// diagnostic plots for offline tuning. It is tooling around the core, not
// part of the per-frame path, and holds no influence over pipeline results.
package monitor

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"sync"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/mudlark-sim/contact.report/internal/contact"
)

// FrameRecord is one frame's captured pipeline output.
type FrameRecord struct {
	FrameIdx int
	Result   contact.FrameResult
}

// FootprintPlotter accumulates FrameResults and renders them after a run:
// a per-frame footprint scatter with the fitted box outline, plus time
// series of the fit angle and point counts across the whole run.
type FootprintPlotter struct {
	mu        sync.Mutex
	enabled   bool
	outputDir string
	bodyLabel string

	frames []FrameRecord
}

// NewFootprintPlotter creates a plotter labelled with the body it records.
func NewFootprintPlotter(bodyLabel string) *FootprintPlotter {
	return &FootprintPlotter{bodyLabel: bodyLabel}
}

// Start initialises the plotter for a new run, creating outputDir.
func (fp *FootprintPlotter) Start(outputDir string) error {
	fp.mu.Lock()
	defer fp.mu.Unlock()

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	fp.outputDir = outputDir
	fp.enabled = true
	fp.frames = nil
	return nil
}

// Stop disables recording. Call GeneratePlots to produce output files.
func (fp *FootprintPlotter) Stop() {
	fp.mu.Lock()
	defer fp.mu.Unlock()
	fp.enabled = false
}

// Record captures one frame's result. Call once per frame.
func (fp *FootprintPlotter) Record(result contact.FrameResult) {
	fp.mu.Lock()
	defer fp.mu.Unlock()

	if !fp.enabled {
		return
	}
	fp.frames = append(fp.frames, FrameRecord{FrameIdx: len(fp.frames), Result: result})
}

// GeneratePlots writes the run's diagnostic plots to the output directory:
// theta and point-count time series, and a footprint snapshot for every
// snapshotEvery-th frame (0 disables snapshots).
func (fp *FootprintPlotter) GeneratePlots(snapshotEvery int) error {
	fp.mu.Lock()
	defer fp.mu.Unlock()

	if len(fp.frames) == 0 {
		return fmt.Errorf("no frames recorded")
	}

	if err := fp.plotTimeSeries(); err != nil {
		return err
	}
	if snapshotEvery > 0 {
		for _, fr := range fp.frames {
			if fr.FrameIdx%snapshotEvery != 0 {
				continue
			}
			if err := fp.plotSnapshot(fr); err != nil {
				return err
			}
		}
	}
	return nil
}

func (fp *FootprintPlotter) plotTimeSeries() error {
	pTheta := plot.New()
	pTheta.Title.Text = fmt.Sprintf("%s: stabilised theta", fp.bodyLabel)
	pTheta.X.Label.Text = "frame"
	pTheta.Y.Label.Text = "theta (deg)"

	pCounts := plot.New()
	pCounts.Title.Text = fmt.Sprintf("%s: point counts", fp.bodyLabel)
	pCounts.X.Label.Text = "frame"
	pCounts.Y.Label.Text = "points"

	thetaPts := make(plotter.XYs, 0, len(fp.frames))
	rawPts := make(plotter.XYs, 0, len(fp.frames))
	filteredPts := make(plotter.XYs, 0, len(fp.frames))

	for _, fr := range fp.frames {
		x := float64(fr.FrameIdx)
		if fr.Result.HasBox {
			thetaPts = append(thetaPts, plotter.XY{X: x, Y: fr.Result.Box.Theta * 180 / math.Pi})
		}
		d := fr.Result.Sample.Diagnostics
		rawPts = append(rawPts, plotter.XY{X: x, Y: float64(d.RawCount)})
		filteredPts = append(filteredPts, plotter.XY{X: x, Y: float64(d.FilteredCount)})
	}

	thetaLine, err := plotter.NewLine(thetaPts)
	if err != nil {
		return err
	}
	thetaLine.Width = vg.Points(1)
	pTheta.Add(thetaLine)

	rawLine, err := plotter.NewLine(rawPts)
	if err != nil {
		return err
	}
	rawLine.Width = vg.Points(1)
	rawLine.Color = color.RGBA{R: 200, A: 255}
	pCounts.Add(rawLine)
	pCounts.Legend.Add("raw", rawLine)

	filteredLine, err := plotter.NewLine(filteredPts)
	if err != nil {
		return err
	}
	filteredLine.Width = vg.Points(1)
	filteredLine.Color = color.RGBA{B: 200, A: 255}
	pCounts.Add(filteredLine)
	pCounts.Legend.Add("filtered", filteredLine)

	thetaFile := filepath.Join(fp.outputDir, "theta.png")
	if err := pTheta.Save(14*vg.Inch, 6*vg.Inch, thetaFile); err != nil {
		return fmt.Errorf("failed to save %s: %w", thetaFile, err)
	}
	countsFile := filepath.Join(fp.outputDir, "counts.png")
	if err := pCounts.Save(14*vg.Inch, 6*vg.Inch, countsFile); err != nil {
		return fmt.Errorf("failed to save %s: %w", countsFile, err)
	}
	return nil
}

// plotSnapshot renders one frame's footprint: real points, synthetic
// points, and the fitted box outline projected into the XZ plane.
func (fp *FootprintPlotter) plotSnapshot(fr FrameRecord) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s: frame %d", fp.bodyLabel, fr.FrameIdx)
	p.X.Label.Text = "x"
	p.Y.Label.Text = "z"

	var realPts, synthPts plotter.XYs
	for _, pt := range fr.Result.Sample.Points {
		xy := plotter.XY{X: pt.X, Y: pt.Z}
		if pt.Synthetic {
			synthPts = append(synthPts, xy)
		} else {
			realPts = append(realPts, xy)
		}
	}

	if len(realPts) > 0 {
		s, err := plotter.NewScatter(realPts)
		if err != nil {
			return err
		}
		s.Color = color.RGBA{B: 200, A: 255}
		p.Add(s)
		p.Legend.Add("contacts", s)
	}
	if len(synthPts) > 0 {
		s, err := plotter.NewScatter(synthPts)
		if err != nil {
			return err
		}
		s.Color = color.RGBA{R: 200, G: 120, A: 255}
		p.Add(s)
		p.Legend.Add("synthetic", s)
	}

	if fr.Result.HasBox {
		outline, err := plotter.NewLine(boxOutline(fr.Result.Box))
		if err != nil {
			return err
		}
		outline.Width = vg.Points(1.5)
		p.Add(outline)
		p.Legend.Add("footprint box", outline)
	}

	file := filepath.Join(fp.outputDir, fmt.Sprintf("frame_%04d.png", fr.FrameIdx))
	if err := p.Save(8*vg.Inch, 8*vg.Inch, file); err != nil {
		return fmt.Errorf("failed to save %s: %w", file, err)
	}
	return nil
}

// boxOutline returns the closed XZ outline of a footprint box.
func boxOutline(b contact.OBB) plotter.XYs {
	cos, sin := math.Cos(b.Theta), math.Sin(b.Theta)
	hw, hh := b.Width/2, b.Height/2

	corners := [][2]float64{{-hw, -hh}, {hw, -hh}, {hw, hh}, {-hw, hh}, {-hw, -hh}}
	out := make(plotter.XYs, 0, len(corners))
	for _, c := range corners {
		out = append(out, plotter.XY{
			X: b.Center.X + c[0]*cos - c[1]*sin,
			Y: b.Center.Z + c[0]*sin + c[1]*cos,
		})
	}
	return out
}
