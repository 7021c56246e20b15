// Package terra assembles the TerraForge terrain engine: generation
// parameters, presets, the result cache and the job queue behind one facade.
package terra

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/cespare/xxhash/v2"

	"github.com/terraforge/engine/terra/noise"
	"github.com/terraforge/engine/terra/terrain"
)

// Noise source names accepted in Params.Source.
const (
	SourcePerlin  = "perlin"
	SourceSimplex = "simplex"
)

// Params describes one terrain generation request end to end: grid size,
// noise configuration and erosion passes. Its canonical digest doubles as
// the result cache key, so two requests with equal Params always resolve to
// the same stored heightmap.
type Params struct {
	Width  int   `toml:"width" json:"width"`
	Height int   `toml:"height" json:"height"`
	Seed   int64 `toml:"seed" json:"seed"`

	// Source selects the base noise: "perlin" (default) or "simplex".
	Source string `toml:"source,omitempty" json:"source,omitempty"`

	Scale            float64 `toml:"scale,omitempty" json:"scale,omitempty"`
	Octaves          int     `toml:"octaves,omitempty" json:"octaves,omitempty"`
	Persistence      float64 `toml:"persistence,omitempty" json:"persistence,omitempty"`
	Lacunarity       float64 `toml:"lacunarity,omitempty" json:"lacunarity,omitempty"`
	HeightMultiplier float64 `toml:"height_multiplier,omitempty" json:"heightMultiplier,omitempty"`

	// Droplets is the hydraulic erosion iteration count. 0 skips the pass.
	Droplets int `toml:"droplets,omitempty" json:"droplets,omitempty"`
	// ThermalPasses is the thermal erosion iteration count. 0 skips the pass.
	ThermalPasses int `toml:"thermal_passes,omitempty" json:"thermalPasses,omitempty"`
}

// WithDefaults returns a copy with unset generation fields replaced by the
// engine defaults. Width, Height and Seed are left untouched.
func (p Params) WithDefaults() Params {
	if p.Source == "" {
		p.Source = SourcePerlin
	}
	if p.Scale == 0 {
		p.Scale = 100
	}
	if p.Octaves == 0 {
		p.Octaves = noise.DefaultOctaves
	}
	if p.Persistence == 0 {
		p.Persistence = noise.DefaultPersistence
	}
	if p.Lacunarity == 0 {
		p.Lacunarity = noise.DefaultLacunarity
	}
	if p.HeightMultiplier == 0 {
		p.HeightMultiplier = 100
	}
	return p
}

// Validate reports the first problem that would make the request
// unsatisfiable.
func (p Params) Validate() error {
	if p.Width <= 0 || p.Height <= 0 {
		return terrain.ErrInvalidDimensions
	}
	switch p.Source {
	case "", SourcePerlin, SourceSimplex:
	default:
		return fmt.Errorf("terra: unknown noise source %q", p.Source)
	}
	if p.Octaves < 0 {
		return fmt.Errorf("terra: octave count must not be negative")
	}
	if p.Droplets < 0 || p.ThermalPasses < 0 {
		return fmt.Errorf("terra: erosion iteration counts must not be negative")
	}
	return nil
}

// Key returns the canonical content digest of the parameters. Defaults are
// applied first, so explicit and implicit default values share a key.
func (p Params) Key() uint64 {
	p = p.WithDefaults()
	d := xxhash.New()
	var buf [8]byte
	writeInt := func(v int64) {
		binary.LittleEndian.PutUint64(buf[:], uint64(v))
		_, _ = d.Write(buf[:])
	}
	writeFloat := func(v float64) {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		_, _ = d.Write(buf[:])
	}
	writeInt(int64(p.Width))
	writeInt(int64(p.Height))
	writeInt(p.Seed)
	_, _ = d.WriteString(p.Source)
	writeFloat(p.Scale)
	writeInt(int64(p.Octaves))
	writeFloat(p.Persistence)
	writeFloat(p.Lacunarity)
	writeFloat(p.HeightMultiplier)
	writeInt(int64(p.Droplets))
	writeInt(int64(p.ThermalPasses))
	return d.Sum64()
}

// noiseSource builds the configured base noise source. Params must have been
// validated.
func (p Params) noiseSource() noise.Source {
	if p.Source == SourceSimplex {
		return noise.NewSimplex(p.Seed)
	}
	return noise.NewPerlin(p.Seed)
}
