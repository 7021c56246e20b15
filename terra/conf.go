package terra

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/terraforge/engine/terra/job"
	"github.com/terraforge/engine/terra/rng"
	"github.com/terraforge/engine/terra/store"
	"github.com/terraforge/engine/terra/terrain"
)

// Config contains options for assembling an Engine. The zero value is usable:
// it produces an engine with an in-memory cache, default worker counts and no
// preset file.
type Config struct {
	// Log is the Logger the engine and its subsystems report to. If nil, Log
	// is set to slog.Default().
	Log *slog.Logger
	// StorePath is the path of the heightmap cache database. If empty, the
	// cache lives in memory and is discarded when the engine closes.
	StorePath string
	// PresetsPath is the path of the TOML preset collection. If empty, no
	// presets are loaded and Presets returns nil.
	PresetsPath string
	// Workers is the number of concurrent generation jobs. If zero, it
	// defaults to the CPU count.
	Workers int
	// QueueSize bounds the number of generation jobs waiting to run.
	QueueSize int
	// Parallel enables the multi-core row fill inside a single generation.
	Parallel bool
}

// New assembles an Engine from the configuration.
func (c Config) New() (*Engine, error) {
	if c.Log == nil {
		c.Log = slog.Default()
	}
	s, err := store.Open(c.StorePath, c.Log)
	if err != nil {
		return nil, err
	}
	var presets *Presets
	if c.PresetsPath != "" {
		presets, err = LoadPresets(c.PresetsPath)
		if err != nil {
			_ = s.Close()
			return nil, err
		}
	}
	return &Engine{
		log:      c.Log.With("component", "engine"),
		store:    s,
		presets:  presets,
		parallel: c.Parallel,
		queue:    job.New(job.Config{Log: c.Log, Workers: c.Workers, QueueSize: c.QueueSize}),
	}, nil
}

// Engine is the façade over generation, caching and the job queue. One
// Engine serves a whole process; all methods are safe for concurrent use.
type Engine struct {
	log      *slog.Logger
	store    *store.Store
	presets  *Presets
	queue    *job.Queue
	parallel bool
}

// Generate produces the heightmap for the parameters, synchronously. A cached
// result is returned without recomputation; a fresh result is stored before
// it is returned.
func (e *Engine) Generate(p Params) (terrain.Heightmap, int, int, error) {
	p = p.WithDefaults()
	if err := p.Validate(); err != nil {
		return nil, 0, 0, err
	}
	key := p.Key()
	if m, w, h, err := e.store.Get(key); err == nil {
		e.log.Debug("cache hit", "key", fmt.Sprintf("%016x", key))
		return m, w, h, nil
	}

	g := terrain.NewWithSource(p.noiseSource(), rng.NewLCG(p.Seed))
	m, err := g.Heightmap(p.Width, p.Height, terrain.Options{
		Scale:            p.Scale,
		Octaves:          p.Octaves,
		Persistence:      p.Persistence,
		Lacunarity:       p.Lacunarity,
		HeightMultiplier: p.HeightMultiplier,
		Parallel:         e.parallel,
	})
	if err != nil {
		return nil, 0, 0, err
	}
	if p.Droplets > 0 {
		if err := g.ApplyErosion(m, p.Width, p.Height, p.Droplets); err != nil {
			return nil, 0, 0, err
		}
	}
	if p.ThermalPasses > 0 {
		if err := g.ApplyThermalErosion(m, p.Width, p.Height, p.ThermalPasses); err != nil {
			return nil, 0, 0, err
		}
	}
	if err := e.store.Put(key, m, p.Width, p.Height); err != nil {
		return nil, 0, 0, err
	}
	e.log.Info("generated heightmap",
		"key", fmt.Sprintf("%016x", key),
		"size", fmt.Sprintf("%dx%d", p.Width, p.Height),
		"source", p.Source, "droplets", p.Droplets, "thermal", p.ThermalPasses)
	return m, p.Width, p.Height, nil
}

// Submit queues an asynchronous generation job for the parameters and returns
// its job ID. Parameters are validated before the job is accepted.
func (e *Engine) Submit(p Params) (uuid.UUID, error) {
	p = p.WithDefaults()
	if err := p.Validate(); err != nil {
		return uuid.Nil, err
	}
	return e.queue.Submit(func(ctx context.Context) (uint64, error) {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		_, _, _, err := e.Generate(p)
		return p.Key(), err
	})
}

// Job returns the snapshot of a submitted job.
func (e *Engine) Job(id uuid.UUID) (job.Snapshot, bool) {
	return e.queue.Job(id)
}

// Jobs returns snapshots of all jobs known to the engine.
func (e *Engine) Jobs() []job.Snapshot {
	return e.queue.Jobs()
}

// Result loads a finished heightmap by its content key.
func (e *Engine) Result(key uint64) (terrain.Heightmap, int, int, error) {
	return e.store.Get(key)
}

// Presets returns the preset collection, or nil if none was configured.
func (e *Engine) Presets() *Presets {
	return e.presets
}

// Store exposes the result cache, used by tooling to tag results for
// sharing.
func (e *Engine) Store() *store.Store {
	return e.store
}

// Close drains the job queue and closes the cache.
func (e *Engine) Close() error {
	e.queue.Close()
	return e.store.Close()
}
