package config

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"isomesh/internal/field"
	"isomesh/internal/meshing"

	"github.com/pelletier/go-toml/v2"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("config: invalid generation settings")

// Generation configures a mesh generation run.
type Generation struct {
	// Field is a preset name from field.Names.
	Field string `toml:"field"`
	Seed  int64  `toml:"seed"`
	// Resolution is the number of cubes along each chunk axis.
	Resolution  uint32 `toml:"resolution"`
	Compression uint32 `toml:"compression"`
	// Workers > 1 extracts meshlets in parallel.
	Workers int `toml:"workers"`
	// ColorPolicy is "hard" or "blend".
	ColorPolicy string `toml:"color_policy"`
	// CachePath is the sqlite chunk cache. Empty disables it.
	CachePath string `toml:"cache_path"`
	// CacheSize bounds the in-memory chunk cache. Zero disables it.
	CacheSize int `toml:"cache_size"`
}

// Default returns the settings used when no file is given. Compression and
// workers come from the process settings.
func Default() Generation {
	return Generation{
		Field:       "rock",
		Seed:        0,
		Resolution:  64,
		Compression: GetCompression(),
		Workers:     GetWorkers(),
		ColorPolicy: "hard",
		CacheSize:   256,
	}
}

// Validate checks every field.
func (g Generation) Validate() error {
	if !slices.Contains(field.Names(), g.Field) {
		return fmt.Errorf("%w: unknown field %q (have %v)", ErrInvalid, g.Field, field.Names())
	}
	if err := meshing.ValidateResolution(g.Resolution, g.Compression); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if g.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative", ErrInvalid)
	}
	if _, err := meshing.ParseColorPolicy(g.ColorPolicy); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if g.CacheSize < 0 {
		return fmt.Errorf("%w: cache_size must not be negative", ErrInvalid)
	}
	return nil
}

// Colors returns the parsed color policy.
func (g Generation) Colors() meshing.ColorPolicy {
	p, _ := meshing.ParseColorPolicy(g.ColorPolicy)
	return p
}

// Parse decodes TOML on top of Default and validates the result.
func Parse(data []byte) (Generation, error) {
	g := Default()
	if err := toml.Unmarshal(data, &g); err != nil {
		return Generation{}, fmt.Errorf("config: parse: %w", err)
	}
	if err := g.Validate(); err != nil {
		return Generation{}, err
	}
	return g, nil
}

// Load reads and validates a TOML file.
func Load(path string) (Generation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Generation{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	g, err := Parse(data)
	if err != nil {
		return Generation{}, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// Marshal encodes g as TOML.
func (g Generation) Marshal() ([]byte, error) {
	return toml.Marshal(g)
}
