package terra

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"sync"

	"github.com/pelletier/go-toml"
)

// Presets is a named collection of generation parameter sets persisted in a
// TOML file. The studio's export dialogs present these as one-click
// configurations.
type Presets struct {
	mu      sync.RWMutex
	path    string
	entries map[string]Params
}

type presetsFile struct {
	Presets map[string]Params `toml:"presets"`
}

// builtinPresets seeds a fresh presets file.
func builtinPresets() map[string]Params {
	return map[string]Params{
		"default": {
			Width: 512, Height: 512,
		},
		"alpine": {
			Width: 512, Height: 512,
			Octaves: 6, Persistence: 0.55, HeightMultiplier: 400,
			Droplets: 20000, ThermalPasses: 10,
		},
		"islands": {
			Width: 512, Height: 512,
			Source: SourceSimplex, Scale: 180, HeightMultiplier: 80,
			Droplets: 5000,
		},
	}
}

// LoadPresets loads the preset collection stored at the path passed. If the
// file does not exist yet it is created with the built-in presets.
func LoadPresets(path string) (*Presets, error) {
	if path == "" {
		return nil, errors.New("terra: presets path must not be empty")
	}
	p := &Presets{path: path, entries: make(map[string]Params)}
	if err := p.reloadFromDisk(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Presets) reloadFromDisk() error {
	data, err := os.ReadFile(p.path)
	if errors.Is(err, fs.ErrNotExist) {
		p.entries = builtinPresets()
		return p.save()
	}
	if err != nil {
		return fmt.Errorf("terra: reading presets: %w", err)
	}
	var file presetsFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("terra: parsing presets: %w", err)
	}
	entries := make(map[string]Params, len(file.Presets))
	for name, params := range file.Presets {
		entries[name] = params
	}
	p.mu.Lock()
	p.entries = entries
	p.mu.Unlock()
	return nil
}

func (p *Presets) save() error {
	p.mu.RLock()
	file := presetsFile{Presets: make(map[string]Params, len(p.entries))}
	for name, params := range p.entries {
		file.Presets[name] = params
	}
	p.mu.RUnlock()

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("terra: encoding presets: %w", err)
	}
	if err := os.WriteFile(p.path, data, 0644); err != nil {
		return fmt.Errorf("terra: writing presets: %w", err)
	}
	return nil
}

// Get returns the preset with the name passed.
func (p *Presets) Get(name string) (Params, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	params, ok := p.entries[name]
	return params, ok
}

// Set stores a preset under the name passed and persists the collection.
func (p *Presets) Set(name string, params Params) error {
	if name == "" {
		return errors.New("terra: preset name must not be empty")
	}
	if err := params.Validate(); err != nil {
		return err
	}
	p.mu.Lock()
	p.entries[name] = params
	p.mu.Unlock()
	return p.save()
}

// Names returns the preset names in sorted order.
func (p *Presets) Names() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	names := make([]string, 0, len(p.entries))
	for name := range p.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
