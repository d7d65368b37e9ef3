// Command session-report renders a recorded push session as an HTML
// chart: the fused base-frame marker path plotted over the commanded
// goal trajectories. Point it at a session database produced by the
// pushenv command.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	_ "modernc.org/sqlite"

	"github.com/banshee-data/pushenv/internal/fusion"
)

var (
	dbPath    = flag.String("db", "push_sessions.db", "Path to session database")
	sessionID = flag.String("session", "", "Session id to report (defaults to most recent)")
	outFile   = flag.String("out", "session_report.html", "Output HTML file")
)

func main() {
	flag.Parse()
	if err := run(); err != nil {
		log.Fatalf("session-report: %v", err)
	}
}

func run() error {
	store, err := fusion.OpenSessionStore(*dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	id := *sessionID
	if id == "" {
		ids, err := store.Sessions()
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			return fmt.Errorf("no sessions in %s", *dbPath)
		}
		id = ids[0]
	}

	trajectories, err := store.Trajectories(id)
	if err != nil {
		return err
	}
	centroids, err := store.BaseCentroids(id)
	if err != nil {
		return err
	}
	if len(trajectories) == 0 && len(centroids) == 0 {
		return fmt.Errorf("session %s has no recorded data", id)
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Push Session Report", Width: "900px", Height: "900px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Fused marker path vs commanded trajectory",
			Subtitle: fmt.Sprintf("session=%s fused_points=%d", id, len(centroids)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "X (m)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Y (m)", NameLocation: "middle", NameGap: 30}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)

	for variant, points := range trajectories {
		data := make([]opts.ScatterData, 0, len(points))
		for _, p := range points {
			data = append(data, opts.ScatterData{Value: []interface{}{p[0], p[1]}})
		}
		scatter.AddSeries(fmt.Sprintf("commanded v%d", variant), data,
			charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 8}))
	}

	fused := make([]opts.ScatterData, 0, len(centroids))
	for _, c := range centroids {
		fused = append(fused, opts.ScatterData{Value: []interface{}{c[0], c[1]}})
	}
	scatter.AddSeries("fused marker", fused,
		charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 4}))

	f, err := os.Create(*outFile)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}
	defer f.Close()

	if err := scatter.Render(f); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	log.Printf("wrote %s", *outFile)
	return nil
}
