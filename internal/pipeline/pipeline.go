// Package pipeline drives the mesh to Gaussian mixture conversion end to end:
// patch the mesh, sample its surface, hand the samples to a mixture fitter,
// then pack every fitted component into a transform and a mean color.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/Faultbox/meshgauss/internal/logger"
	"github.com/Faultbox/meshgauss/pkg/cluster"
	"github.com/Faultbox/meshgauss/pkg/ellipsoid"
	"github.com/Faultbox/meshgauss/pkg/formats"
	"github.com/Faultbox/meshgauss/pkg/math"
	"github.com/Faultbox/meshgauss/pkg/mesh"
	"github.com/Faultbox/meshgauss/pkg/prng"
	"github.com/Faultbox/meshgauss/pkg/sampling"
)

// Pipeline errors.
var (
	ErrNoFitter = errors.New("no mixture fitter")
	ErrBadFit   = errors.New("mixture fitter returned inconsistent output")
)

// Mixture is the output of a mixture fitter.
type Mixture struct {
	Means       []math.Vec3
	Covariances []math.Mat3
	Labels      []int // One component per fitted point
}

// Validate checks the mixture against the number of points it was fit to.
func (m *Mixture) Validate(numPoints int) error {
	if len(m.Means) != len(m.Covariances) {
		return fmt.Errorf("%d means, %d covariances: %w", len(m.Means), len(m.Covariances), ErrBadFit)
	}
	if len(m.Labels) != numPoints {
		return fmt.Errorf("%d labels for %d points: %w", len(m.Labels), numPoints, ErrBadFit)
	}
	return nil
}

// MixtureFitter fits a Gaussian mixture with full covariances to points.
// initMeans may seed the component means; implementations can ignore it.
type MixtureFitter interface {
	Fit(ctx context.Context, points []math.Vec3, components int, initMeans []math.Vec3) (*Mixture, error)
}

// Options control a pipeline run.
type Options struct {
	Samples    int
	Components int
	Scale      float64
	WithColor  bool
	Noise      float64      // Std dev of Gaussian jitter added to the fit input
	Workers    int          // 0 uses GOMAXPROCS
	Filter     *mesh.Filter // Overrides the texture filter when set
}

// Gaussian is one packed mixture component.
type Gaussian struct {
	Mean       math.Vec3
	Covariance math.Mat3
	Transform  math.Mat4
	Color      sampling.Color
	Count      int
}

// Result holds everything a run produced.
type Result struct {
	Samples   *sampling.SampleSet
	SeedMeans []math.Vec3
	Mixture   *Mixture
	Gaussians []Gaussian
}

// Run converts m into packed Gaussians. Every random draw derives from key.
func Run(ctx context.Context, key prng.Key, m *mesh.Mesh, fitter MixtureFitter, opts Options) (*Result, error) {
	if fitter == nil {
		return nil, ErrNoFitter
	}
	log := logger.Named("pipeline")
	start := time.Now()

	samples, seeds, err := Sample(ctx, key, m, opts)
	if err != nil {
		return nil, err
	}

	points := samples.Points
	if opts.Noise > 0 {
		points = Jitter(prng.FoldIn(key, noiseStream), points, opts.Noise)
		log.Debug("jittered fit input", zap.Float64("noise", opts.Noise))
	}

	fitStart := time.Now()
	mix, err := fitter.Fit(ctx, points, opts.Components, seeds)
	if err != nil {
		return nil, fmt.Errorf("fitting mixture: %w", err)
	}
	if err := mix.Validate(len(points)); err != nil {
		return nil, err
	}
	log.Info("fitted mixture", zap.Int("components", len(mix.Means)), zap.Duration("took", time.Since(fitStart)))

	gs, err := Assemble(ctx, mix, samples.Colors, opts.Scale, opts.Workers)
	if err != nil {
		return nil, err
	}

	log.Info("packed gaussians", zap.Int("count", len(gs)), zap.Duration("took", time.Since(start)))
	return &Result{
		Samples:   samples,
		SeedMeans: seeds,
		Mixture:   mix,
		Gaussians: gs,
	}, nil
}

// noiseStream labels the key used for fit input jitter.
const noiseStream = 1

// Sample patches m and draws the fit input: opts.Samples surface samples
// (with colors when opts.WithColor is set) and opts.Components seed means.
// The two draws use successive keys after key.
func Sample(ctx context.Context, key prng.Key, m *mesh.Mesh, opts Options) (*sampling.SampleSet, []math.Vec3, error) {
	log := logger.Named("pipeline")

	patched, err := mesh.Patch(m)
	if err != nil {
		return nil, nil, fmt.Errorf("patching mesh: %w", err)
	}
	if opts.Filter != nil {
		if tv, err := patched.Texture(); err == nil {
			tv.Material.Filter = *opts.Filter
		}
	}
	log.Debug("mesh patched",
		zap.Int("vertices", len(patched.Vertices)),
		zap.Int("faces", len(patched.Faces)),
		zap.Stringer("visual", mesh.KindOf(m.Visual)))

	key = prng.Next(key)
	samples, err := sampling.UniformlySampleFromMesh(ctx, key, opts.Samples, patched, opts.WithColor)
	if err != nil {
		return nil, nil, fmt.Errorf("sampling surface: %w", err)
	}
	log.Info("sampled surface", zap.Int("samples", samples.Len()), zap.Bool("color", opts.WithColor))

	key = prng.Next(key)
	seeds, err := sampling.UniformlySampleFromMesh(ctx, key, opts.Components, patched, false)
	if err != nil {
		return nil, nil, fmt.Errorf("sampling seed means: %w", err)
	}
	return samples, seeds.Points, nil
}

// Jitter returns a copy of points with independent N(0, sigma) noise on
// every coordinate.
func Jitter(key prng.Key, points []math.Vec3, sigma float64) []math.Vec3 {
	normal := distuv.Normal{Mu: 0, Sigma: sigma, Src: key.Source()}
	out := make([]math.Vec3, len(points))
	for i, p := range points {
		out[i] = math.Vec3{
			X: p.X + normal.Rand(),
			Y: p.Y + normal.Rand(),
			Z: p.Z + normal.Rand(),
		}
	}
	return out
}

// Assemble packs a fitted mixture: one transform per component plus the
// mean color and sample count of the samples labeled with it.
func Assemble(ctx context.Context, mix *Mixture, colors []sampling.Color, scale float64, workers int) ([]Gaussian, error) {
	transforms, err := ellipsoid.TransformsFromGaussians(ctx, mix.Means, mix.Covariances, scale, workers)
	if err != nil {
		return nil, fmt.Errorf("packing transforms: %w", err)
	}
	means, counts, err := cluster.MeanColors(colors, len(mix.Means), mix.Labels)
	if err != nil {
		return nil, fmt.Errorf("aggregating colors: %w", err)
	}
	if empty := cluster.Empty(counts); len(empty) > 0 {
		logger.Named("pipeline").Warn("components without samples", zap.Ints("components", empty))
	}

	gs := make([]Gaussian, len(mix.Means))
	for i := range gs {
		gs[i] = Gaussian{
			Mean:       mix.Means[i],
			Covariance: mix.Covariances[i],
			Transform:  transforms[i],
			Color:      means[i],
			Count:      counts[i],
		}
	}
	return gs, nil
}

// ToDocument converts packed Gaussians to their on-disk form. seed labels
// the random stream the samples came from and may be empty.
func ToDocument(gs []Gaussian, scale float64, seed string) *formats.GaussianDocument {
	doc := &formats.GaussianDocument{
		Seed:      seed,
		Scale:     scale,
		Gaussians: make([]formats.GaussianRecord, len(gs)),
	}
	for i, g := range gs {
		doc.Gaussians[i] = formats.NewGaussianRecord(g.Mean, g.Covariance, g.Transform, g.Color, g.Count)
	}
	return doc
}
