// Command terraforge is the terrain engine's command line front: it
// generates and erodes heightmaps, exports them into the studio's
// interchange formats and serves the HTTP job API.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/terraforge/engine/terra"
	"github.com/terraforge/engine/terra/export"
	"github.com/terraforge/engine/terra/service"
	"github.com/terraforge/engine/terra/terrain"
)

func main() {
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	slog.SetDefault(log)

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	var err error
	switch os.Args[1] {
	case "generate":
		err = generate(log, os.Args[2:])
	case "erode":
		err = erode(log, os.Args[2:])
	case "serve":
		err = serve(log, os.Args[2:])
	case "presets":
		err = listPresets(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		log.Error("command failed", "err", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: terraforge <command> [flags]

commands:
  generate   generate a heightmap and export it to a file
  erode      run erosion passes over a raw32 heightmap file
  serve      serve the HTTP job API
  presets    list the presets in a preset file`)
}

func generate(log *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	var (
		preset      = fs.String("preset", "", "preset name to start from")
		presetsPath = fs.String("presets", "", "preset file path")
		storePath   = fs.String("store", "", "heightmap cache path (empty: in-memory)")
		out         = fs.String("o", "terrain.png", "output file")
		formatName  = fs.String("format", "png16", "export format: png16, tiff or raw32")
		bbox        = fs.String("bbox", "", "map selection minX,minY,maxX,maxY in metres")
		cellSize    = fs.Float64("cell", 30, "cell size in metres, used with -bbox")
	)
	p := terra.Params{}
	fs.IntVar(&p.Width, "width", 512, "grid width in cells")
	fs.IntVar(&p.Height, "height", 512, "grid height in cells")
	fs.Int64Var(&p.Seed, "seed", 0, "generation seed")
	fs.StringVar(&p.Source, "source", "", "noise source: perlin or simplex")
	fs.Float64Var(&p.Scale, "scale", 0, "coordinate scale")
	fs.IntVar(&p.Octaves, "octaves", 0, "fractal octaves")
	fs.Float64Var(&p.Persistence, "persistence", 0, "per-octave amplitude decay")
	fs.Float64Var(&p.Lacunarity, "lacunarity", 0, "per-octave frequency growth")
	fs.Float64Var(&p.HeightMultiplier, "multiplier", 0, "elevation multiplier")
	fs.IntVar(&p.Droplets, "droplets", 0, "hydraulic erosion iterations")
	fs.IntVar(&p.ThermalPasses, "thermal", 0, "thermal erosion iterations")
	if err := fs.Parse(args); err != nil {
		return err
	}

	format, err := export.ParseFormat(*formatName)
	if err != nil {
		return err
	}

	conf := terra.Config{Log: log, StorePath: *storePath, PresetsPath: *presetsPath, Parallel: true}
	engine, err := conf.New()
	if err != nil {
		return err
	}
	defer engine.Close()

	if *preset != "" {
		presets := engine.Presets()
		if presets == nil {
			return fmt.Errorf("-preset requires -presets")
		}
		base, ok := presets.Get(*preset)
		if !ok {
			return fmt.Errorf("unknown preset %q", *preset)
		}
		seed := p.Seed
		p = base
		p.Seed = seed
	}
	if *bbox != "" {
		var minX, minY, maxX, maxY float64
		if _, err := fmt.Sscanf(*bbox, "%f,%f,%f,%f", &minX, &minY, &maxX, &maxY); err != nil {
			return fmt.Errorf("parsing -bbox: %w", err)
		}
		p.Width, p.Height, err = terra.NewRegion(minX, minY, maxX, maxY).Grid(*cellSize)
		if err != nil {
			return err
		}
	}

	m, width, height, err := engine.Generate(p)
	if err != nil {
		return err
	}
	return writeExport(log, *out, format, m, width, height)
}

func erode(log *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("erode", flag.ExitOnError)
	var (
		in         = fs.String("in", "", "raw32 heightmap to erode")
		out        = fs.String("o", "eroded.raw", "output file")
		formatName = fs.String("format", "raw32", "export format: png16, tiff or raw32")
		width      = fs.Int("width", 0, "grid width of the input")
		height     = fs.Int("height", 0, "grid height of the input")
		seed       = fs.Int64("seed", 0, "droplet placement seed")
		droplets   = fs.Int("droplets", terrain.DefaultDroplets, "hydraulic erosion iterations")
		thermal    = fs.Int("thermal", 0, "thermal erosion iterations")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" {
		return fmt.Errorf("erode requires -in")
	}
	format, err := export.ParseFormat(*formatName)
	if err != nil {
		return err
	}

	f, err := os.Open(*in)
	if err != nil {
		return err
	}
	m, err := export.DecodeRaw32(f, *width, *height)
	f.Close()
	if err != nil {
		return err
	}

	g := terrain.New(*seed)
	if *droplets > 0 {
		if err := g.ApplyErosion(m, *width, *height, *droplets); err != nil {
			return err
		}
	}
	if *thermal > 0 {
		if err := g.ApplyThermalErosion(m, *width, *height, *thermal); err != nil {
			return err
		}
	}
	return writeExport(log, *out, format, m, *width, *height)
}

func serve(log *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	var (
		addr        = fs.String("addr", ":8473", "listen address")
		storePath   = fs.String("store", "terraforge.db", "heightmap cache path")
		presetsPath = fs.String("presets", "presets.toml", "preset file path")
		workers     = fs.Int("workers", 0, "generation workers (0: CPU count)")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	engine, err := terra.Config{
		Log:         log,
		StorePath:   *storePath,
		PresetsPath: *presetsPath,
		Workers:     *workers,
		Parallel:    true,
	}.New()
	if err != nil {
		return err
	}
	defer engine.Close()

	return service.Config{Log: log, Engine: engine, Addr: *addr}.New().Listen()
}

func listPresets(args []string) error {
	fs := flag.NewFlagSet("presets", flag.ExitOnError)
	presetsPath := fs.String("presets", "presets.toml", "preset file path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	presets, err := terra.LoadPresets(*presetsPath)
	if err != nil {
		return err
	}
	for _, name := range presets.Names() {
		p, _ := presets.Get(name)
		fmt.Printf("%-12s %dx%d seed=%d source=%s droplets=%d thermal=%d\n",
			name, p.Width, p.Height, p.Seed, p.WithDefaults().Source, p.Droplets, p.ThermalPasses)
	}
	return nil
}

func writeExport(log *slog.Logger, path string, format export.Format, m terrain.Heightmap, width, height int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := export.Encode(f, format, m, width, height); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	min, max := m.MinMax()
	log.Info("exported heightmap", "file", path, "format", format,
		"size", fmt.Sprintf("%dx%d", width, height),
		"range", fmt.Sprintf("[%.2f, %.2f]", min, max))
	return nil
}
