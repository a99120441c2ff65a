package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math"
	"os"
	"os/signal"

	"graphpaper/app"
	"graphpaper/hal"
	"graphpaper/internal/buildinfo"
)

func main() {
	cfg := app.DefaultConfig()
	var hcfg hal.HeadlessConfig
	var scale int
	var demo bool
	flag.IntVar(&cfg.Geometry.Width, "width", cfg.Geometry.Width, "Canvas width in pixels.")
	flag.IntVar(&cfg.Geometry.Height, "height", cfg.Geometry.Height, "Canvas height in pixels.")
	flag.IntVar(&cfg.Geometry.AxisMin, "axis-min", cfg.Geometry.AxisMin, "Lowest labelled axis unit.")
	flag.IntVar(&cfg.Geometry.AxisMax, "axis-max", cfg.Geometry.AxisMax, "Highest labelled axis unit.")
	flag.IntVar(&scale, "scale", 1, "Window scale factor.")
	flag.BoolVar(&hcfg.Enabled, "headless", false, "Run without a window.")
	flag.IntVar(&hcfg.Hz, "hz", 60, "Tick rate in headless mode.")
	flag.Uint64Var(&hcfg.Ticks, "ticks", 0, "Stop after N ticks in headless mode (0 = run forever).")
	flag.BoolVar(&demo, "demo", false, "Draw a unit circle in headless mode.")
	flag.Parse()

	if err := cfg.Geometry.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	w, h := app.FramebufferSize(cfg.Geometry)
	newApp := func(h hal.HAL) (func() error, error) {
		a, err := app.New(h, cfg)
		if err != nil {
			return nil, err
		}
		return a.Step, nil
	}

	if hcfg.Enabled {
		hcfg.Width, hcfg.Height = w, h
		if demo {
			hcfg.Script = circleScript(cfg)
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if err := hal.RunHeadless(ctx, newApp, hcfg); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	wcfg := hal.WindowConfig{
		Width:  w,
		Height: h,
		Title:  "Graph Paper (" + buildinfo.Short() + ")",
		Scale:  scale,
	}
	if err := hal.RunWindow(wcfg, newApp); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// circleScript traces the unit circle as one stroke.
func circleScript(cfg app.Config) []hal.PointerEvent {
	g := cfg.Geometry
	const steps = 64
	pt := func(i int) (int, int) {
		a := 2 * math.Pi * float64(i) / steps
		px, py := g.LogicalToPixel(math.Cos(a), math.Sin(a))
		return int(math.Round(px)), int(math.Round(py))
	}

	x, y := pt(0)
	script := []hal.PointerEvent{{Kind: hal.PointerDown, X: x, Y: y}}
	for i := 1; i <= steps; i++ {
		x, y = pt(i)
		script = append(script, hal.PointerEvent{Kind: hal.PointerDrag, X: x, Y: y})
	}
	return append(script, hal.PointerEvent{Kind: hal.PointerUp, X: x, Y: y})
}
