package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"isomesh/internal/meshing"

	"github.com/spf13/cobra"
)

func newExportCmd(s *settings) *cobra.Command {
	var (
		format string
		output string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Mesh the chunk at --chunk and write it as OBJ or raw buffers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var write func(*meshing.Chunk, io.Writer) error
			switch format {
			case "obj":
				write = (*meshing.Chunk).WriteOBJ
			case "raw":
				write = (*meshing.Chunk).WriteBuffers
			default:
				return fmt.Errorf("unknown format %q (obj, raw)", format)
			}

			g, err := s.generation(cmd)
			if err != nil {
				return err
			}
			r, err := s.center(g)
			if err != nil {
				return err
			}
			gen, done, err := s.generator(g)
			if err != nil {
				return err
			}
			defer done()

			c, err := gen.Generate(cmd.Context(), r)
			if err != nil {
				return err
			}

			if output == "" || output == "-" {
				return write(c, cmd.OutOrStdout())
			}
			f, err := os.Create(output)
			if err != nil {
				return err
			}
			if err := write(c, f); err != nil {
				f.Close()
				return err
			}
			log.Printf("meshgen: wrote %v (%d vertices) to %s", r, c.VertexCount(), output)
			return f.Close()
		},
	}
	cmd.Flags().StringVar(&format, "format", "obj", "output format (obj, raw)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, - for stdout")
	return cmd
}
