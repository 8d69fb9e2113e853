package main

import (
	"fmt"
	"time"

	"isomesh/internal/meshing"
	"isomesh/internal/profiling"
	"isomesh/internal/world"

	"github.com/spf13/cobra"
)

func newStatsCmd(s *settings) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print buffer sizes and stage timings for the chunks around --chunk",
		RunE: func(cmd *cobra.Command, _ []string) error {
			g, err := s.generation(cmd)
			if err != nil {
				return err
			}
			center, err := s.center(g)
			if err != nil {
				return err
			}
			gen, done, err := s.generator(g)
			if err != nil {
				return err
			}
			defer done()

			profiling.Reset()
			reqs := world.Ring(center, s.radius)
			start := time.Now()
			chunks, err := gen.GenerateMany(cmd.Context(), reqs)
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			var (
				sizes    meshing.BufferSizes
				vertices int
				meshlets int
				occupied int
			)
			for _, c := range chunks {
				b := c.BufferSizes()
				sizes.Vertices += b.Vertices
				sizes.Normals += b.Normals
				sizes.Colors += b.Colors
				sizes.MaterialColors += b.MaterialColors
				sizes.Commands += b.Commands
				sizes.Densities += b.Densities
				sizes.VertexCounts += b.VertexCounts
				vertices += c.VertexCount()
				meshlets += c.MeshletCount()
				for _, n := range c.VertexCounts() {
					if n > 0 {
						occupied++
					}
				}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "chunks:    %d (%v)\n", len(chunks), elapsed.Round(time.Millisecond))
			fmt.Fprintf(out, "triangles: %d\n", vertices/3)
			fmt.Fprintf(out, "meshlets:  %d (%d non-empty)\n", meshlets, occupied)
			fmt.Fprintf(out, "bytes:     vertices=%d normals=%d colors=%d material=%d commands=%d densities=%d counts=%d total=%d\n",
				sizes.Vertices, sizes.Normals, sizes.Colors, sizes.MaterialColors,
				sizes.Commands, sizes.Densities, sizes.VertexCounts, sizes.Total())
			fmt.Fprintf(out, "stages:    %s\n", profiling.TopN(5))
			return nil
		},
	}
}
