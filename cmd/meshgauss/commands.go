package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/meshgauss/internal/logger"
	"github.com/Faultbox/meshgauss/internal/pipeline"
	"github.com/Faultbox/meshgauss/pkg/ellipsoid"
	"github.com/Faultbox/meshgauss/pkg/formats"
	"github.com/Faultbox/meshgauss/pkg/geometry"
	"github.com/Faultbox/meshgauss/pkg/math"
	"github.com/Faultbox/meshgauss/pkg/mesh"
)

func (c *command) options() pipeline.Options {
	return pipeline.Options{
		Samples:    c.cfg.Sampling.Samples,
		Components: c.cfg.Mixture.Components,
		Scale:      c.cfg.Packing.Scale,
		WithColor:  c.cfg.Sampling.WithColor,
		Noise:      c.cfg.Sampling.Noise,
		Workers:    c.cfg.Packing.Workers,
		Filter:     c.filter(),
	}
}

func cmdInfo(args []string) {
	c := newCommand("info")
	c.parse(args, 1, "info <mesh.yaml>")

	m, err := formats.LoadMesh(c.fs.Arg(0))
	if err != nil {
		fail(err)
	}

	areas, _, err := geometry.ComputeAreaAndNormals(context.Background(), m.Faces, m.Vertices, c.cfg.Packing.Workers)
	if err != nil {
		fail(err)
	}

	fmt.Printf("Mesh:     %s\n", c.fs.Arg(0))
	fmt.Printf("Vertices: %d\n", len(m.Vertices))
	fmt.Printf("Faces:    %d\n", len(m.Faces))
	fmt.Printf("Area:     %.6g\n", geometry.TotalArea(areas))
	fmt.Printf("Visual:   %s\n", mesh.KindOf(m.Visual))

	var degenerate int
	for _, a := range areas {
		if !(a > 0) {
			degenerate++
		}
	}
	if degenerate > 0 {
		fmt.Printf("Degenerate faces: %d\n", degenerate)
	}

	if tv, ok := m.Visual.(*mesh.TextureVisual); ok && tv.Material != nil {
		if img := tv.Material.Image; img != nil {
			fmt.Printf("Texture:  %s (%dx%d, %s)\n", tv.Material.Name, img.Rect.Dx(), img.Rect.Dy(), tv.Material.Filter)
		} else {
			d := tv.Material.Diffuse
			fmt.Printf("Diffuse:  %d,%d,%d,%d\n", d.R, d.G, d.B, d.A)
		}
	}
}

func cmdSample(args []string) {
	c := newCommand("sample")
	output := c.fs.String("o", "samples.yaml", "Output sample document")
	noColor := c.fs.Bool("no-color", false, "Skip texture color lookups")
	c.parse(args, 1, "sample [-o samples.yaml] [-no-color] <mesh.yaml>")

	m, err := formats.LoadMesh(c.fs.Arg(0))
	if err != nil {
		fail(err)
	}

	opts := c.options()
	if *noColor {
		opts.WithColor = false
	}

	ctx, cancel := c.context()
	defer cancel()

	key := c.key()
	samples, seeds, err := pipeline.Sample(ctx, key, m, opts)
	if err != nil {
		fail(err)
	}

	doc := formats.SamplesToDocument(samples, seeds)
	doc.Seed = key.String()
	if err := formats.SaveSamples(*output, doc); err != nil {
		fail(err)
	}
	fmt.Printf("Wrote %d samples and %d seed means to %s\n", samples.Len(), len(seeds), *output)
}

func cmdPack(args []string) {
	c := newCommand("pack")
	output := c.fs.String("o", "gaussians.yaml", "Output gaussian document")
	c.parse(args, 2, "pack [-o gaussians.yaml] <samples.yaml> <mixture.yaml>")

	sdoc, err := formats.LoadSamples(c.fs.Arg(0))
	if err != nil {
		fail(err)
	}
	samples, err := sdoc.SampleSet()
	if err != nil {
		fail(err)
	}
	mdoc, err := formats.LoadMixture(c.fs.Arg(1))
	if err != nil {
		fail(err)
	}

	mix := &pipeline.Mixture{
		Means:       mdoc.MeanVectors(),
		Covariances: mdoc.CovarianceMatrices(),
		Labels:      mdoc.Labels,
	}
	if err := mix.Validate(samples.Len()); err != nil {
		fail(err)
	}

	ctx, cancel := c.context()
	defer cancel()

	gs, err := pipeline.Assemble(ctx, mix, samples.Colors, c.cfg.Packing.Scale, c.cfg.Packing.Workers)
	if err != nil {
		fail(err)
	}
	writeGaussians(*output, gs, c.cfg.Packing.Scale, sdoc.Seed)
}

func cmdRun(args []string) {
	c := newCommand("run")
	output := c.fs.String("o", "gaussians.yaml", "Output gaussian document")
	reg := c.fs.Float64("reg", 1e-6, "Covariance regularization")
	c.parse(args, 1, "run [-o gaussians.yaml] <mesh.yaml>")

	m, err := formats.LoadMesh(c.fs.Arg(0))
	if err != nil {
		fail(err)
	}

	ctx, cancel := c.context()
	defer cancel()

	key := c.key()
	res, err := pipeline.Run(ctx, key, m, pipeline.NearestSeedFitter{Reg: *reg}, c.options())
	if err != nil {
		fail(err)
	}
	writeGaussians(*output, res.Gaussians, c.cfg.Packing.Scale, key.String())
}

func writeGaussians(path string, gs []pipeline.Gaussian, scale float64, seed string) {
	if err := formats.SaveGaussians(path, pipeline.ToDocument(gs, scale, seed)); err != nil {
		fail(err)
	}

	var empty int
	for _, g := range gs {
		if g.Count == 0 {
			empty++
		}
	}
	logger.Info("wrote gaussians", zap.String("path", path), zap.Int("count", len(gs)), zap.Int("empty", empty))
	fmt.Printf("Wrote %d gaussians to %s", len(gs), path)
	if empty > 0 {
		fmt.Printf(" (%d without samples)", empty)
	}
	fmt.Println()
}

func cmdEllipsoid(args []string) {
	c := newCommand("ellipsoid")
	output := c.fs.String("o", "ellipsoid.yaml", "Output mesh document")
	covFlag := c.fs.String("cov", "1,0,0,0,1,0,0,0,1", "Covariance, 9 comma-separated values in row order")
	points := c.fs.Int("points", 0, "Grid resolution per angle (0 = config)")
	c.parse(args, 0, "ellipsoid [-cov a,b,c,d,e,f,g,h,i] [-points N] [-scale S] [-o ellipsoid.yaml]")

	cov, err := parseMat3(*covFlag)
	if err != nil {
		fail(err)
	}

	n := c.cfg.Ellipsoid.NumPoints
	if *points > 0 {
		n = *points
	}
	scale := c.cfg.Ellipsoid.Scale
	if c.flags.IsSet("scale") {
		scale = c.flags.Scale
	}

	m, err := ellipsoid.CreateEllipsoidMesh(cov, n, scale)
	if err != nil {
		fail(err)
	}
	if err := formats.SaveMesh(*output, m); err != nil {
		fail(err)
	}
	fmt.Printf("Wrote ellipsoid mesh (%d vertices, %d faces) to %s\n", len(m.Vertices), len(m.Faces), *output)
}

func cmdBake(args []string) {
	c := newCommand("bake")
	output := c.fs.String("o", "", "Output WebP texture (default: <mesh>.webp)")
	c.parse(args, 1, "bake [-o texture.webp] <mesh.yaml>")

	m, err := formats.LoadMesh(c.fs.Arg(0))
	if err != nil {
		fail(err)
	}
	patched, err := mesh.Patch(m)
	if err != nil {
		fail(err)
	}
	tv, err := patched.Texture()
	if err != nil {
		fail(err)
	}
	if tv.Material.Image == nil {
		fail(fmt.Errorf("%s: material has no texture image", c.fs.Arg(0)))
	}

	path := *output
	if path == "" {
		in := c.fs.Arg(0)
		path = strings.TrimSuffix(in, filepath.Ext(in)) + ".webp"
	}
	if err := formats.WriteTexture(path, tv.Material.Image); err != nil {
		fail(err)
	}
	b := tv.Material.Image.Rect
	fmt.Printf("Wrote %dx%d texture to %s\n", b.Dx(), b.Dy(), path)
}

func cmdConfig(args []string) {
	c := newCommand("config")
	output := c.fs.String("o", "", "Output path (default: user config dir)")
	c.parse(args, 0, "config [-o path]")

	var err error
	if *output == "" {
		err = c.cfg.Save()
	} else {
		err = c.cfg.SaveTo(*output)
	}
	if err != nil {
		fail(err)
	}
	fmt.Fprintln(os.Stderr, "Config written")
}

// parseMat3 parses nine comma-separated numbers in row order.
func parseMat3(s string) (math.Mat3, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 9 {
		return math.Mat3{}, fmt.Errorf("covariance needs 9 values, got %d", len(parts))
	}
	var m math.Mat3
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return math.Mat3{}, fmt.Errorf("covariance value %d: %w", i, err)
		}
		m[i] = v
	}
	return m, nil
}
