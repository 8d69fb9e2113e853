package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"isomesh/internal/meshing"
	"isomesh/internal/world"

	"github.com/spf13/cobra"
)

func newGenerateCmd(s *settings) *cobra.Command {
	var (
		outDir string
		jobs   int
		queue  int
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Mesh every chunk within --radius of --chunk on a worker pool",
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

			if outDir != "" {
				if err := os.MkdirAll(outDir, 0o755); err != nil {
					return err
				}
			}

			reqs := world.Ring(center, s.radius)
			pool := world.NewWorkerPool(gen, jobs, queue)
			defer pool.Shutdown()

			start := time.Now()
			results, err := pool.Collect(cmd.Context(), reqs)
			if err != nil {
				return err
			}

			var vertices, failed int
			for _, res := range results {
				if res.Err != nil {
					failed++
					continue
				}
				vertices += res.Chunk.VertexCount()
				if outDir != "" {
					if err := writeChunk(outDir, res.Request, res.Chunk); err != nil {
						return err
					}
				}
			}
			log.Printf("meshgen: %d chunks (%d failed), %d vertices in %v",
				len(results), failed, vertices, time.Since(start).Round(time.Millisecond))
			if failed > 0 {
				return fmt.Errorf("%d chunks failed", failed)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&outDir, "out", "", "directory for raw chunk buffers")
	cmd.Flags().IntVar(&jobs, "jobs", runtime.NumCPU(), "chunks meshed concurrently")
	cmd.Flags().IntVar(&queue, "queue", 64, "worker pool queue size")
	return cmd
}

func writeChunk(dir string, r world.Request, c *meshing.Chunk) error {
	name := filepath.Join(dir, fmt.Sprintf("chunk_%d_%d_%d_r%d.isom", r.X, r.Y, r.Z, r.Resolution))
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := c.WriteBuffers(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	return f.Close()
}
