// pulsetool inspects GlobalPulse news, marker layout and rotation without
// opening a window.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"time"

	"github.com/Faultbox/globalpulse/internal/config"
	"github.com/Faultbox/globalpulse/internal/globe/marker"
	"github.com/Faultbox/globalpulse/internal/globe/rotation"
	"github.com/Faultbox/globalpulse/internal/logger"
	"github.com/Faultbox/globalpulse/internal/news"
)

var errUsage = errors.New("usage")

func main() {
	if len(os.Args) < 2 {
		printUsage(os.Stderr)
		os.Exit(1)
	}

	level := os.Getenv("PULSETOOL_LOG")
	if level == "" {
		level = "warn"
	}
	logger.InitStderr(level)
	defer logger.Sync()

	if err := run(os.Args[1], os.Args[2:], os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			printUsage(os.Stderr)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(command string, args []string, out io.Writer) error {
	switch command {
	case "fetch":
		return cmdFetch(args, out)
	case "markers":
		return cmdMarkers(args, out)
	case "rotation":
		return cmdRotation(args, out)
	case "help", "-h", "--help":
		printUsage(out)
		return nil
	default:
		return fmt.Errorf("unknown command %q: %w", command, errUsage)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `pulsetool - GlobalPulse inspection utility

Usage:
  pulsetool <command> [options]

Commands:
  fetch    [-config file] [-offline] [-timeout d]   Print fetched news as JSON
  markers  [-config file] [-offline] [-seed N] [-radius R]
                                                  Print callout geometry per marker
  rotation [-until T] [-step S]                    Print the auto-rotation speed curve

Examples:
  pulsetool fetch -offline
  pulsetool markers -offline -seed 42
  pulsetool rotation -until 10 -step 0.5`)
}

func loadNews(ctx context.Context, path string, offline bool, timeout time.Duration) ([]news.Item, error) {
	cfg, err := config.LoadFile(path)
	if err != nil {
		return nil, err
	}
	if offline {
		cfg.News.Offline = true
	}

	src, err := news.NewSource(ctx, cfg.News)
	if errors.Is(err, news.ErrNoAPIKey) {
		logger.Warn("no API key configured, using sample events")
	} else if err != nil {
		return nil, err
	}

	if timeout <= 0 {
		timeout = cfg.News.FetchTimeout
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return src.Fetch(ctx)
}

func cmdFetch(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("fetch", flag.ContinueOnError)
	path := fs.String("config", "", "Path to config file")
	offline := fs.Bool("offline", false, "Use the built-in sample news")
	timeout := fs.Duration("timeout", 0, "Fetch timeout (0 = config value)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	items, err := loadNews(context.Background(), *path, *offline, *timeout)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(items)
}

type markerOut struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Category       string     `json:"category"`
	Color          string     `json:"color"`
	Lat            float64    `json:"lat"`
	Lon            float64    `json:"lon"`
	AltitudeFactor float32    `json:"altitudeFactor"`
	ArmLength      float32    `json:"armLength"`
	Surface        [3]float32 `json:"surface"`
	Knee           [3]float32 `json:"knee"`
	Anchor         [3]float32 `json:"anchor"`
}

func cmdMarkers(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("markers", flag.ContinueOnError)
	path := fs.String("config", "", "Path to config file")
	offline := fs.Bool("offline", false, "Use the built-in sample news")
	seed := fs.Uint64("seed", 1, "Seed for callout parameters")
	radius := fs.Float64("radius", 0, "Globe radius (0 = config value)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.LoadFile(*path)
	if err != nil {
		return err
	}
	r := cfg.Globe.Radius
	if *radius != 0 {
		r = float32(*radius)
	}

	items, err := loadNews(context.Background(), *path, *offline, 0)
	if err != nil {
		return err
	}

	reg, err := marker.NewRegistry(r, cfg.Callout, rand.New(rand.NewPCG(*seed, *seed)))
	if err != nil {
		return err
	}
	stats := reg.Sync(items)
	logger.Sugar.Debugf("sync: %+v", stats)

	return writeMarkers(out, reg.Markers())
}

func writeMarkers(out io.Writer, markers []*marker.Marker) error {
	rows := make([]markerOut, 0, len(markers))
	for _, m := range markers {
		g := m.Geometry
		rows = append(rows, markerOut{
			ID:             m.ID(),
			Title:          m.Item.Title,
			Category:       string(m.Item.Category),
			Color:          fmt.Sprintf("#%06x", m.Color),
			Lat:            m.Item.Coordinates.Lat,
			Lon:            m.Item.Coordinates.Lon,
			AltitudeFactor: m.Params.AltitudeFactor,
			ArmLength:      m.Params.ArmLength,
			Surface:        g.Surface.Array(),
			Knee:           g.Knee.Array(),
			Anchor:         g.Anchor.Array(),
		})
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

func cmdRotation(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("rotation", flag.ContinueOnError)
	until := fs.Float64("until", 8, "Last time to print, seconds")
	step := fs.Float64("step", 0.5, "Time step, seconds")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *step <= 0 || *until < 0 {
		return fmt.Errorf("step must be positive and until non-negative: %w", errUsage)
	}

	p := rotation.DefaultProfile()
	fmt.Fprintf(out, "%8s  %9s  %s\n", "t", "speed", "phase")
	n := int(*until / *step)
	for i := 0; i <= n; i++ {
		t := float64(i) * *step
		fmt.Fprintf(out, "%8.2f  %9.4f  %s\n", t, rotation.Speed(t, p), rotation.PhaseAt(t, p, false))
	}
	return nil
}
