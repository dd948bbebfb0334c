// Package config loads isoptic surface jobs from YAML files.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"runtime"

	"github.com/soypat/isoptic"
	"github.com/soypat/isoptic/render"
	"gopkg.in/yaml.v3"
)

// Extractors known to Job.
const (
	ExtractorGrid = "grid"
	ExtractorSDFX = "sdfx"
)

// Job describes the computation of one isoptic surface.
type Job struct {
	// Input mesh path, .obj or .stl.
	Input string `yaml:"input"`
	// Output mesh path, .obj or .stl.
	Output string `yaml:"output,omitempty"`
	// Scaling of the mesh bounding box yielding the sampling box.
	Scaling float64 `yaml:"scaling,omitempty"`
	// Resolution is the number of samples per axis. The sdfx extractor
	// uses Resolution-1 cells along the longest axis.
	Resolution int `yaml:"resolution,omitempty"`
	// Angle is the visual angle in radians. AngleDeg takes precedence when set.
	Angle    float64 `yaml:"angle,omitempty"`
	AngleDeg float64 `yaml:"angle_deg,omitempty"`
	// Mode is convex (solid angle) or concave (silhouette extent).
	Mode string `yaml:"mode,omitempty"`
	// Extractor is grid (marching tetrahedra) or sdfx (marching cubes).
	Extractor string `yaml:"extractor,omitempty"`
	Workers   int    `yaml:"workers,omitempty"`
	// Refine is the number of bisection steps placing grid extractor vertices.
	Refine int `yaml:"refine,omitempty"`
	// Preview is an optional PNG path for a rendering of the output.
	Preview string `yaml:"preview,omitempty"`
	// Profile is an optional image path for a plot of the field along the x axis.
	Profile string `yaml:"profile,omitempty"`
}

// Default returns the job settings used when no configuration is given.
func Default() Job {
	return Job{
		Output:     "output.obj",
		Scaling:    isoptic.DefaultScaling,
		Resolution: isoptic.DefaultResolution,
		Angle:      isoptic.DefaultAngle,
		Mode:       isoptic.Convex.String(),
		Extractor:  ExtractorGrid,
		Workers:    runtime.NumCPU(),
		Refine:     render.DefaultRefineSteps,
	}
}

// Load reads the job at path. Settings absent from the file keep their
// Default values.
func Load(path string) (Job, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Job{}, err
	}
	job, err := Parse(b)
	if err != nil {
		return Job{}, fmt.Errorf("%s: %w", path, err)
	}
	return job, nil
}

// Parse decodes a YAML job document on top of the Default job.
func Parse(b []byte) (Job, error) {
	job := Default()
	if err := yaml.Unmarshal(b, &job); err != nil {
		return Job{}, err
	}
	if job.AngleDeg != 0 {
		job.Angle = isoptic.DtoR(job.AngleDeg)
		job.AngleDeg = 0
	}
	return job, nil
}

// Validate checks the job settings are usable.
func (j Job) Validate() error {
	switch {
	case j.Input == "":
		return errors.New("missing input mesh path")
	case j.Output == "":
		return errors.New("missing output mesh path")
	case !(j.Scaling > 0) || math.IsInf(j.Scaling, 0):
		return fmt.Errorf("scaling must be positive, got %g", j.Scaling)
	case j.Resolution < 2:
		return fmt.Errorf("resolution must be 2 or larger, got %d", j.Resolution)
	case !(j.Angle > 0) || j.Angle > 4*math.Pi:
		return fmt.Errorf("angle must be in (0, 4π], got %g", j.Angle)
	case j.Refine < 0:
		return fmt.Errorf("negative refine steps %d", j.Refine)
	case j.Extractor != ExtractorGrid && j.Extractor != ExtractorSDFX:
		return fmt.Errorf("unknown extractor %q", j.Extractor)
	}
	_, err := isoptic.ParseMode(j.Mode)
	return err
}

// Options returns the isoptic options of the job.
func (j Job) Options() (isoptic.Options, error) {
	mode, err := isoptic.ParseMode(j.Mode)
	if err != nil {
		return isoptic.Options{}, err
	}
	return isoptic.Options{
		Mode:       mode,
		Scaling:    j.Scaling,
		Resolution: j.Resolution,
		Angle:      j.Angle,
	}, nil
}
