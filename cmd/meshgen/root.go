package main

import (
	"fmt"
	"log"
	"math"
	"strings"

	"isomesh/internal/config"
	"isomesh/internal/field"
	"isomesh/internal/store"
	"isomesh/internal/world"

	"github.com/spf13/cobra"
)

// flags shared by every command
type settings struct {
	configPath  string
	field       string
	seed        int64
	resolution  uint32
	compression uint32
	workers     int
	colors      string
	cachePath   string
	cacheSize   int

	chunk  []int
	radius int32
	lod    int
}

func newRootCmd() *cobra.Command {
	s := &settings{}
	root := &cobra.Command{
		Use:           "meshgen",
		Short:         "Extract marching-cubes chunk meshes from procedural density fields",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	f := root.PersistentFlags()
	f.StringVar(&s.configPath, "config", "", "TOML generation settings")
	f.StringVar(&s.field, "field", "", "density field preset ("+strings.Join(field.Names(), ", ")+")")
	f.Int64Var(&s.seed, "seed", 0, "field seed")
	f.Uint32Var(&s.resolution, "resolution", 0, "cubes per chunk axis")
	f.Uint32Var(&s.compression, "compression", 0, "meshlet edge length in cubes")
	f.IntVar(&s.workers, "workers", 0, "meshlet workers per chunk")
	f.StringVar(&s.colors, "colors", "", "edge color policy (hard, blend)")
	f.StringVar(&s.cachePath, "cache", "", "sqlite chunk cache path")
	f.IntVar(&s.cacheSize, "cache-size", 0, "in-memory chunk cache size")
	f.IntSliceVar(&s.chunk, "chunk", []int{0, 0, 0}, "center chunk x,y,z")
	f.Int32Var(&s.radius, "radius", 0, "chunks around the center, Chebyshev distance")
	f.IntVar(&s.lod, "lod", -1, "level of detail; overrides --resolution and sets the cube scale")

	root.AddCommand(newGenerateCmd(s), newStatsCmd(s), newExportCmd(s))
	return root
}

// generation merges the config file, process settings and flags.
func (s *settings) generation(cmd *cobra.Command) (config.Generation, error) {
	flags := cmd.Flags()
	if flags.Changed("compression") {
		config.SetCompression(s.compression)
	}
	if flags.Changed("workers") {
		config.SetWorkers(s.workers)
	}

	g := config.Default()
	if s.configPath != "" {
		var err error
		if g, err = config.Load(s.configPath); err != nil {
			return config.Generation{}, err
		}
	}

	if flags.Changed("field") {
		g.Field = s.field
	}
	if flags.Changed("seed") {
		g.Seed = s.seed
	}
	if flags.Changed("resolution") {
		g.Resolution = s.resolution
	}
	if flags.Changed("compression") {
		g.Compression = config.GetCompression()
	}
	if flags.Changed("workers") {
		g.Workers = config.GetWorkers()
	}
	if flags.Changed("colors") {
		g.ColorPolicy = s.colors
	}
	if flags.Changed("cache") {
		g.CachePath = s.cachePath
	}
	if flags.Changed("cache-size") {
		g.CacheSize = s.cacheSize
	}
	if s.lod < -1 || s.lod > world.MaxLOD {
		return config.Generation{}, fmt.Errorf("%w: --lod %d outside -1..%d", config.ErrInvalid, s.lod, world.MaxLOD)
	}
	if s.lod >= 0 {
		g.Resolution, _ = world.ForLOD(uint32(s.lod), g.Compression)
	}
	if err := g.Validate(); err != nil {
		return config.Generation{}, err
	}
	return g, nil
}

// center is the request named by --chunk and --lod.
func (s *settings) center(g config.Generation) (world.Request, error) {
	if len(s.chunk) != 3 {
		return world.Request{}, fmt.Errorf("--chunk wants x,y,z, got %v", s.chunk)
	}
	for _, v := range s.chunk {
		if v < math.MinInt32 || v > math.MaxInt32 {
			return world.Request{}, fmt.Errorf("--chunk coordinate %d out of int32 range", v)
		}
	}
	r := world.Request{
		X:          int32(s.chunk[0]),
		Y:          int32(s.chunk[1]),
		Z:          int32(s.chunk[2]),
		Resolution: g.Resolution,
		Scale:      1,
	}
	if s.lod >= 0 {
		r = world.LODRequest(r.X, r.Y, r.Z, uint32(s.lod), g.Compression)
	}
	return r, nil
}

// generator builds a world.Generator, opening the chunk store if configured.
// The returned function releases both.
func (s *settings) generator(g config.Generation) (*world.Generator, func(), error) {
	var st *store.Store
	if g.CachePath != "" {
		var err error
		if st, err = store.Open(g.CachePath); err != nil {
			return nil, nil, err
		}
	}
	gen, err := world.NewGenerator(world.OptionsFromConfig(g, st))
	if err != nil {
		if st != nil {
			_ = st.Close()
		}
		return nil, nil, err
	}
	log.Printf("meshgen: field=%s seed=%d resolution=%d compression=%d workers=%d colors=%s",
		g.Field, g.Seed, g.Resolution, g.Compression, g.Workers, g.ColorPolicy)

	return gen, func() {
		gen.Close()
		if st != nil {
			if err := st.Close(); err != nil {
				log.Printf("meshgen: close cache: %v", err)
			}
		}
	}, nil
}
