// Command hemesh builds a half-edge mesh from a primitive shape, validates
// it and prints a summary. With -eval it also runs a Lisp query against the
// mesh, e.g.
//
//	hemesh -shape octa -eval '(face-verts 0)'
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/chazu/hemesh/pkg/build"
	"github.com/chazu/hemesh/pkg/engine"
	"github.com/chazu/hemesh/pkg/halfedge"
	"github.com/chazu/hemesh/pkg/kernel"
	"github.com/chazu/hemesh/pkg/kernel/sdfx"
	"go.uber.org/zap"
)

var errUsage = errors.New("usage")

type config struct {
	shape   string
	size    float64
	cells   int
	eval    string
	verbose bool
}

func parseFlags(args []string, stderr io.Writer) (config, error) {
	var cfg config
	fs := flag.NewFlagSet("hemesh", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cfg.shape, "shape", "tetra", "shape to build (box, sphere, cylinder, tetra, octa)")
	fs.Float64Var(&cfg.size, "size", 2, "overall size of the shape")
	fs.IntVar(&cfg.cells, "cells", sdfx.DefaultMeshCells, "marching cubes resolution for box, sphere and cylinder")
	fs.StringVar(&cfg.eval, "eval", "", "Lisp query to run against the mesh")
	fs.BoolVar(&cfg.verbose, "v", false, "debug logging")
	if err := fs.Parse(args); err != nil {
		return cfg, fmt.Errorf("%w: %w", errUsage, err)
	}
	if fs.NArg() > 0 {
		return cfg, fmt.Errorf("%w: unexpected arguments %v", errUsage, fs.Args())
	}
	if cfg.size <= 0 {
		return cfg, fmt.Errorf("%w: -size must be positive", errUsage)
	}
	return cfg, nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// kernelMesh produces the triangle soup for a shape. Polyhedra come from
// the fixtures, smooth shapes from the sdfx kernel.
func kernelMesh(cfg config) (*kernel.Mesh, error) {
	var km *kernel.Mesh
	switch cfg.shape {
	case "tetra":
		km = kernel.Tetrahedron()
	case "octa":
		km = kernel.Octahedron()
	case "box", "sphere", "cylinder":
		k := sdfx.New(cfg.cells)
		var s kernel.Solid
		switch cfg.shape {
		case "box":
			s = k.Box(cfg.size, cfg.size, cfg.size)
		case "sphere":
			s = k.Sphere(cfg.size / 2)
		default:
			s = k.Cylinder(cfg.size, cfg.size/2)
		}
		m, err := k.ToMesh(s)
		if err != nil {
			return nil, err
		}
		m.Name = cfg.shape
		return m, nil
	default:
		return nil, fmt.Errorf("%w: unknown shape %q", errUsage, cfg.shape)
	}
	// Fixtures span [-1, 1].
	for i := range km.Positions {
		km.Positions[i] = km.Positions[i].MulScalar(cfg.size / 2)
	}
	return km, nil
}

func run(args []string, stdout, stderr io.Writer) error {
	cfg, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	log, err := newLogger(cfg.verbose)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	km, err := kernelMesh(cfg)
	if err != nil {
		return err
	}
	m, err := build.FromKernelMesh(km, build.Options{Logger: log})
	if err != nil {
		return err
	}

	res := halfedge.ValidateAll(m)
	printSummary(stdout, km.Name, m, res)
	if !res.OK() {
		return fmt.Errorf("mesh %q has %d validation errors", km.Name, len(res.Errors))
	}

	if cfg.eval == "" {
		return nil
	}
	value, evalErrs, err := engine.NewEngine(m, engine.WithLogger(log)).Evaluate(cfg.eval)
	if err != nil {
		return err
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			fmt.Fprintln(stderr, e.Error())
		}
		return fmt.Errorf("query failed")
	}
	fmt.Fprintln(stdout, value)
	return nil
}

func printSummary(w io.Writer, name string, m *halfedge.Mesh, res halfedge.ValidationResult) {
	boundary := 0
	for _, e := range m.Edges() {
		if m.IsBoundary(e) {
			boundary++
		}
	}
	// Interior edges are two half-edges, boundary edges one.
	euler := m.NumVerts() - (m.NumEdges()+boundary)/2 + m.NumFaces()

	fmt.Fprintf(w, "%s: %d vertices, %d half-edges, %d faces\n", name, m.NumVerts(), m.NumEdges(), m.NumFaces())
	fmt.Fprintf(w, "boundary edges: %d, euler characteristic: %d\n", boundary, euler)
	for _, e := range res.Errors {
		fmt.Fprintln(w, e.Error())
	}
	for _, e := range res.Warnings {
		fmt.Fprintln(w, e.Error())
	}
	fmt.Fprintf(w, "validation: %d errors, %d warnings\n", len(res.Errors), len(res.Warnings))
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, "hemesh:", err)
		}
		os.Exit(1)
	}
}
