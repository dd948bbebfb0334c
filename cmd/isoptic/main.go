// Command isoptic computes the isoptic surface of a polyhedral solid and
// writes it as a triangle mesh.
//
// Usage:
//
//	isoptic [flags] <input.obj> [scaling] [res] [alpha]
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/soypat/isoptic"
	"github.com/soypat/isoptic/config"
	"github.com/soypat/isoptic/internal/d3"
	"github.com/soypat/isoptic/meshio"
	"github.com/soypat/isoptic/profile"
	"github.com/soypat/isoptic/render"
	"gonum.org/v1/gonum/spatial/r3"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("isoptic: ")
	job, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		usage()
		os.Exit(1)
	}
	if err := run(job); err != nil {
		log.Fatal(err)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [flags] <input.obj> [scaling] [res] [alpha]\n", filepath.Base(os.Args[0]))
	flag.PrintDefaults()
}

// parseArgs builds the job from an optional configuration file, flags and
// positional arguments, in increasing order of precedence.
func parseArgs(args []string) (config.Job, error) {
	def := config.Default()
	flag.Usage = usage
	var (
		cfgPath   = flag.String("config", "", "YAML job file")
		output    = flag.String("o", def.Output, "output mesh path (.obj or .stl)")
		mode      = flag.String("mode", def.Mode, "field: convex (solid angle) or concave (silhouette extent)")
		extractor = flag.String("extractor", def.Extractor, "isosurface extractor: grid or sdfx")
		workers   = flag.Int("workers", def.Workers, "goroutines sampling the field")
		refine    = flag.Int("refine", def.Refine, "bisection steps placing surface vertices (grid extractor)")
		deg       = flag.Bool("deg", false, "alpha is given in degrees")
		preview   = flag.String("png", "", "write a PNG preview of the surface")
		plotPath  = flag.String("profile", "", "write a plot of the field along the x axis")
	)
	if err := flag.CommandLine.Parse(args); err != nil {
		return config.Job{}, err
	}
	job := def
	if *cfgPath != "" {
		var err error
		job, err = config.Load(*cfgPath)
		if err != nil {
			return config.Job{}, err
		}
	}
	// Flags given explicitly override the configuration file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "o":
			job.Output = *output
		case "mode":
			job.Mode = *mode
		case "extractor":
			job.Extractor = *extractor
		case "workers":
			job.Workers = *workers
		case "refine":
			job.Refine = *refine
		case "png":
			job.Preview = *preview
		case "profile":
			job.Profile = *plotPath
		}
	})

	pos := flag.Args()
	minArgs := 1
	if job.Input != "" {
		minArgs = 0
	}
	if len(pos) < minArgs || len(pos) > 4 {
		return config.Job{}, fmt.Errorf("got %d positional arguments, want 1 to 4", len(pos))
	}
	var err error
	if len(pos) >= 1 {
		job.Input = pos[0]
	}
	if len(pos) >= 2 {
		if job.Scaling, err = strconv.ParseFloat(pos[1], 64); err != nil {
			return config.Job{}, fmt.Errorf("scaling: %w", err)
		}
	}
	if len(pos) >= 3 {
		if job.Resolution, err = strconv.Atoi(pos[2]); err != nil {
			return config.Job{}, fmt.Errorf("res: %w", err)
		}
	}
	if len(pos) >= 4 {
		if job.Angle, err = strconv.ParseFloat(pos[3], 64); err != nil {
			return config.Job{}, fmt.Errorf("alpha: %w", err)
		}
		if *deg {
			job.Angle = isoptic.DtoR(job.Angle)
		}
	}
	return job, job.Validate()
}

func run(job config.Job) error {
	start := time.Now()
	mesh, err := meshio.Load(job.Input)
	if err != nil {
		return err
	}
	log.Printf("loaded %s: %d vertices, %d triangles", job.Input, len(mesh.Points), len(mesh.Triangles))
	opts, err := job.Options()
	if err != nil {
		return err
	}
	iso, err := isoptic.New(mesh, opts)
	if err != nil {
		return fmt.Errorf("%s: %w", job.Input, err)
	}
	bb := iso.Bounds()
	log.Printf("%s field, angle %.4g rad (%.4g°), box %v to %v, %d samples per axis",
		opts.Mode, iso.Level, isoptic.RtoD(iso.Level), bb.Min, bb.Max, job.Resolution)

	r, err := newRenderer(job, iso)
	if err != nil {
		return err
	}
	model, err := render.RenderAll(r)
	if err != nil {
		return err
	}
	if g, ok := r.(*render.GridRenderer); ok && len(g.Discontinuities()) > 0 {
		log.Printf("%d surface vertices lie on field discontinuities", len(g.Discontinuities()))
	}
	if len(model) == 0 {
		return fmt.Errorf("no surface at angle %g inside the sampling box, try a larger scaling or angle", iso.Level)
	}
	if err = meshio.Save(job.Output, model); err != nil {
		return err
	}
	log.Printf("wrote %d triangles to %s in %s", len(model), job.Output, time.Since(start).Round(time.Millisecond))

	if job.Preview != "" {
		if err = writePreview(job, model); err != nil {
			return err
		}
		log.Printf("wrote preview %s", job.Preview)
	}
	if job.Profile != "" {
		center := d3.Box(bb).Center()
		length := bb.Max.X - center.X
		err = profile.Save(job.Profile, iso, center, r3.Vec{X: 1}, length, 256, iso.Level)
		if err != nil {
			return err
		}
		log.Printf("wrote field profile %s", job.Profile)
	}
	return nil
}

// newRenderer returns the extractor selected by job. Resolution counts
// samples per axis, sdfx is given the matching number of cells.
func newRenderer(job config.Job, iso isoptic.Isoptic) (render.Renderer, error) {
	if job.Extractor == config.ExtractorSDFX {
		return render.NewSDFXRenderer(iso, iso.Level, job.Resolution-1)
	}
	g, err := render.NewGridRenderer(iso, iso.Level, iso.Resolution)
	if err != nil {
		return nil, err
	}
	g.Workers = job.Workers
	g.RefineSteps = job.Refine
	return g, nil
}

// writePreview renders the output surface to a PNG. fauxgl reads STL files
// so OBJ output is first written to a temporary STL.
func writePreview(job config.Job, model []render.Triangle3) error {
	stlPath := job.Output
	if !strings.EqualFold(filepath.Ext(stlPath), ".stl") {
		fp, err := os.CreateTemp("", "isoptic-*.stl")
		if err != nil {
			return err
		}
		stlPath = fp.Name()
		defer os.Remove(stlPath)
		err = render.WriteSTL(fp, model)
		fp.Close()
		if err != nil {
			return err
		}
	}
	return render.STLToPNG(stlPath, job.Preview, render.DefaultView())
}
