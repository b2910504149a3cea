package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"

	"github.com/harborgrid-justin/lexiflow-premium-sub012/config"
	"github.com/harborgrid-justin/lexiflow-premium-sub012/ingest"
	"github.com/harborgrid-justin/lexiflow-premium-sub012/layout"
	"github.com/harborgrid-justin/lexiflow-premium-sub012/models"
	"github.com/harborgrid-justin/lexiflow-premium-sub012/store"
)

// Configuration represents all the settings for the layout run.
type Configuration struct {
	DataFile   string
	LinksFile  string
	ConfigFile string
	OutputFile string
	Width      float64
	Height     float64
	Mode       string
	MaxFrames  int
	Seed       int64
	DebugMode  bool
}

func main() {
	if err := run(parseConfig()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func parseConfig() *Configuration {
	c := &Configuration{}
	flag.StringVar(&c.DataFile, "data", "", "graph file (.json, or nodes .csv)")
	flag.StringVar(&c.LinksFile, "links", "", "links CSV file (with -data nodes.csv)")
	flag.StringVar(&c.ConfigFile, "config", "", "engine config YAML (optional)")
	flag.StringVar(&c.OutputFile, "out", "-", "positions output file, - for stdout")
	flag.Float64Var(&c.Width, "width", 0, "viewport width (0 = config default)")
	flag.Float64Var(&c.Height, "height", 0, "viewport height (0 = config default)")
	flag.StringVar(&c.Mode, "mode", "", "compute mode override: worker, inline or static")
	flag.IntVar(&c.MaxFrames, "max-frames", 0, "frame cap, 0 for unlimited")
	flag.Int64Var(&c.Seed, "seed", 0, "placement seed, 0 for time-based")
	flag.BoolVar(&c.DebugMode, "debug", false, "debug logging and frame telemetry")
	flag.Parse()
	return c
}

func run(c *Configuration) error {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           log.InfoLevel,
	})
	if c.DebugMode {
		logger.SetLevel(log.DebugLevel)
	}

	if c.DataFile == "" {
		return fmt.Errorf("no graph file given (use -data)")
	}

	cfg, err := config.Load(c.ConfigFile)
	if err != nil {
		return err
	}
	if c.Mode != "" {
		cfg.Compute.Mode = c.Mode
	}
	if c.DebugMode {
		cfg.Telemetry.Enabled = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	nodes, links, err := ingest.LoadFile(c.DataFile, c.LinksFile)
	if err != nil {
		return err
	}
	logger.Debug("graph loaded", "nodes", len(nodes), "links", len(links))

	vp := models.Viewport{Width: float32(c.Width), Height: float32(c.Height)}

	opts := []layout.Option{layout.WithLogger(logger)}
	if c.Seed != 0 {
		opts = append(opts, layout.WithSeed(c.Seed))
	}
	l, err := layout.New(cfg, nodes, links, vp, opts...)
	if err != nil {
		return err
	}
	defer l.Close()

	// Cancel the run on SIGINT/SIGTERM; whatever layout has been reached
	// by then is still written out.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := l.Run(ctx, c.MaxFrames); err != nil && ctx.Err() == nil {
		return err
	}

	if c.DebugMode {
		s := l.Stats()
		logger.Debug("frame telemetry",
			"frames", s.Frames,
			"avg_frame", s.AvgFrame,
			"mean_displacement", fmt.Sprintf("%.3f", s.MeanDisplacement),
			"std_displacement", fmt.Sprintf("%.3f", s.StdDisplacement),
		)
	}

	return writeOutput(c.OutputFile, l)
}

// positionRow is one node in the output document.
type positionRow struct {
	ID    string          `json:"id"`
	Label string          `json:"label"`
	Type  models.NodeType `json:"type"`
	X     float32         `json:"x"`
	Y     float32         `json:"y"`
}

func writeOutput(path string, l *layout.Layout) error {
	buf, ok := l.Positions()
	if !ok {
		return fmt.Errorf("position buffer unavailable")
	}

	meta := l.Meta()
	rows := make([]positionRow, len(meta))
	for i, m := range meta {
		base := i * store.Stride
		rows[i] = positionRow{
			ID:    m.ID,
			Label: m.Label,
			Type:  m.Type,
			X:     buf[base+store.OffX],
			Y:     buf[base+store.OffY],
		}
	}

	out := os.Stdout
	if path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}
