// Command traj-plot renders the generated goal trajectories to PNG so
// path shapes and direction variants can be eyeballed before a run.
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/pushenv/internal/push"
)

var (
	outDir   = flag.String("out", "plots", "Output directory for PNG files")
	nPoints  = flag.Int("points", 10, "Waypoints per trajectory")
	spacing  = flag.Float64("spacing", 0.025, "Waypoint spacing (m)")
	variants = flag.Int("variants", 4, "Direction/curvature variants to plot per shape")
)

func main() {
	flag.Parse()
	if err := run(); err != nil {
		log.Fatalf("traj-plot: %v", err)
	}
}

func run() error {
	if err := os.MkdirAll(*outDir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	cfg := push.TrajConfig{Points: *nPoints, Spacing: *spacing}
	for _, shape := range []push.TrajShape{push.TrajStraight, push.TrajCurve, push.TrajSinusoid} {
		if err := plotShape(shape, cfg); err != nil {
			return err
		}
	}
	return nil
}

func plotShape(shape push.TrajShape, cfg push.TrajConfig) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Goal trajectory: %s", shape)
	p.X.Label.Text = "forward (m)"
	p.Y.Label.Text = "lateral (m)"

	for variant := 0; variant < *variants; variant++ {
		// Episodes come in pairs per variant; episode 2*variant selects it.
		traj, err := push.GenerateTrajectory(shape, 2*variant, cfg)
		if err != nil {
			return err
		}

		pts := make(plotter.XYs, 0, traj.Len())
		for _, pos := range traj.Positions() {
			pts = append(pts, plotter.XY{X: pos[0], Y: pos[1]})
		}

		line, scatter, err := plotter.NewLinePoints(pts)
		if err != nil {
			return fmt.Errorf("build series for %s variant %d: %w", shape, variant, err)
		}
		line.Width = vg.Points(1)
		line.Color = plotutilColor(variant)
		scatter.Color = plotutilColor(variant)
		p.Add(line, scatter)
		p.Legend.Add(fmt.Sprintf("variant %d", variant), line)
	}

	file := filepath.Join(*outDir, fmt.Sprintf("traj_%s.png", shape))
	if err := p.Save(8*vg.Inch, 6*vg.Inch, file); err != nil {
		return fmt.Errorf("save %s: %w", file, err)
	}
	log.Printf("wrote %s", file)
	return nil
}

// plotutilColor cycles a small fixed palette per variant.
func plotutilColor(i int) color.Color {
	palette := []color.RGBA{
		{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff},
		{R: 0xff, G: 0x7f, B: 0x0e, A: 0xff},
		{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff},
		{R: 0xd6, G: 0x27, B: 0x28, A: 0xff},
	}
	return palette[i%len(palette)]
}
