package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/soypat/isoptic"
)

func TestParseDefaults(t *testing.T) {
	job, err := Parse([]byte("input: part.obj\n"))
	if err != nil {
		t.Fatal(err)
	}
	want := Default()
	want.Input = "part.obj"
	if job != want {
		t.Errorf("got %+v, want %+v", job, want)
	}
	if err := job.Validate(); err != nil {
		t.Error(err)
	}
	opts, err := job.Options()
	if err != nil {
		t.Fatal(err)
	}
	if opts != isoptic.DefaultOptions() {
		t.Errorf("got options %+v, want defaults", opts)
	}
}

func TestParseJob(t *testing.T) {
	const doc = `
input: bunny.stl
output: bunny_isoptic.stl
scaling: 3
resolution: 50
angle_deg: 60
mode: concave
extractor: sdfx
workers: 2
refine: 8
preview: bunny.png
profile: bunny_profile.svg
`
	job, err := Parse([]byte(doc))
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(job.Angle-math.Pi/3) > 1e-15 || job.AngleDeg != 0 {
		t.Errorf("angle_deg not converted: %g", job.Angle)
	}
	if job.Scaling != 3 || job.Resolution != 50 || job.Workers != 2 || job.Refine != 8 {
		t.Errorf("unexpected job %+v", job)
	}
	if job.Extractor != ExtractorSDFX || job.Preview != "bunny.png" || job.Profile != "bunny_profile.svg" {
		t.Errorf("unexpected job %+v", job)
	}
	opts, err := job.Options()
	if err != nil {
		t.Fatal(err)
	}
	if opts.Mode != isoptic.Concave {
		t.Errorf("got mode %v", opts.Mode)
	}
}

func TestParseMalformed(t *testing.T) {
	if _, err := Parse([]byte("resolution: [1, 2\n")); err == nil {
		t.Error("expected YAML syntax error")
	}
	if _, err := Parse([]byte("resolution: many\n")); err == nil {
		t.Error("expected type error")
	}
}

func TestValidate(t *testing.T) {
	valid := Default()
	valid.Input = "in.obj"
	for _, test := range []struct {
		name   string
		modify func(*Job)
	}{
		{"no input", func(j *Job) { j.Input = "" }},
		{"no output", func(j *Job) { j.Output = "" }},
		{"zero scaling", func(j *Job) { j.Scaling = 0 }},
		{"NaN scaling", func(j *Job) { j.Scaling = math.NaN() }},
		{"low resolution", func(j *Job) { j.Resolution = 1 }},
		{"negative angle", func(j *Job) { j.Angle = -1 }},
		{"angle above sphere", func(j *Job) { j.Angle = 13 }},
		{"negative refine", func(j *Job) { j.Refine = -1 }},
		{"unknown extractor", func(j *Job) { j.Extractor = "dual" }},
		{"unknown mode", func(j *Job) { j.Mode = "hull" }},
	} {
		job := valid
		test.modify(&job)
		if err := job.Validate(); err == nil {
			t.Errorf("%s: expected error", test.name)
		}
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "job.yaml")
	if err := os.WriteFile(path, []byte("input: a.obj\nmode: silhouette\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	job, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if job.Input != "a.obj" || job.Mode != "silhouette" {
		t.Errorf("unexpected job %+v", job)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
