// Package ellipsoid turns Gaussian components into ellipsoid embeddings and
// packed 4x4 affine transforms.
package ellipsoid

import (
	"context"
	"errors"
	"fmt"
	gomath "math"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	"github.com/Faultbox/meshgauss/pkg/math"
)

// Ellipsoid errors.
var (
	ErrFactorize   = errors.New("eigendecomposition failed")
	ErrNotFinite   = errors.New("covariance has non-finite entries")
	ErrGridSize    = errors.New("ellipsoid grid needs at least 2 points per axis")
	ErrBatchLength = errors.New("means and covariances differ in length")
)

// Eigen returns the eigenvalues of a symmetric 3x3 matrix in ascending order
// and the matching orthonormal eigenvectors as the columns of a row-major Mat3.
// Only the average of cov and its transpose is used.
func Eigen(cov math.Mat3) ([3]float64, math.Mat3, error) {
	if !cov.IsFinite() {
		return [3]float64{}, math.Mat3{}, ErrNotFinite
	}

	sym := mat.NewSymDense(3, nil)
	for i := 0; i < 3; i++ {
		for j := i; j < 3; j++ {
			sym.SetSym(i, j, (cov.At(i, j)+cov.At(j, i))/2)
		}
	}

	var es mat.EigenSym
	if ok := es.Factorize(sym, true); !ok {
		return [3]float64{}, math.Mat3{}, ErrFactorize
	}

	var vals [3]float64
	es.Values(vals[:])

	var vecs mat.Dense
	es.VectorsTo(&vecs)
	var u math.Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			u[i*3+j] = vecs.At(i, j)
		}
	}
	return vals, u, nil
}

// Embedding returns a matrix A with A * Aᵀ = cov.
//
// With cov = U Σ Uᵀ, A = U sqrt(Σ) Uᵀ, the symmetric square root. U is
// orthonormal so Uᵀ stands in for U⁻¹. Negative eigenvalues, which only
// appear through round-off on positive-semidefinite input, are clamped to 0.
func Embedding(cov math.Mat3) (math.Mat3, error) {
	vals, u, err := Eigen(cov)
	if err != nil {
		return math.Mat3{}, err
	}
	var d [3]float64
	for i, v := range vals {
		d[i] = gomath.Sqrt(gomath.Max(v, 0))
	}

	var a math.Mat3
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			var s float64
			for k := 0; k < 3; k++ {
				s += u[r*3+k] * d[k] * u[c*3+k]
			}
			a[r*3+c] = s
		}
	}
	return a, nil
}

// PackTransform packs an embedding a, scaled by scale, and a translation x
// into an affine transform. The linear part is scale * a, the translation
// column is x and the bottom row is (0, 0, 0, 1). Applied to the unit sphere
// the transform yields the scale-sigma ellipsoid around x.
//
// The matrix is stored column-major, so its flat element order is
// a00 a10 a20 0, a01 a11 a21 0, a02 a12 a22 0, x y z 1.
func PackTransform(x math.Vec3, a math.Mat3, scale float64) math.Mat4 {
	return math.FromMat3Translation(a.Scale(scale), x)
}

// TransformFromGaussian returns the packed transform of a Gaussian.
func TransformFromGaussian(mean math.Vec3, cov math.Mat3, scale float64) (math.Mat4, error) {
	a, err := Embedding(cov)
	if err != nil {
		return math.Mat4{}, err
	}
	return PackTransform(mean, a, scale), nil
}

// Embeddings computes Embedding for every covariance in parallel.
func Embeddings(ctx context.Context, covs []math.Mat3, workers int) ([]math.Mat3, error) {
	out := make([]math.Mat3, len(covs))
	err := parallel(ctx, len(covs), workers, func(i int) error {
		a, err := Embedding(covs[i])
		if err != nil {
			return fmt.Errorf("component %d: %w", i, err)
		}
		out[i] = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// TransformsFromGaussians computes TransformFromGaussian for every component in parallel.
func TransformsFromGaussians(ctx context.Context, means []math.Vec3, covs []math.Mat3, scale float64, workers int) ([]math.Mat4, error) {
	if len(means) != len(covs) {
		return nil, fmt.Errorf("%d means, %d covariances: %w", len(means), len(covs), ErrBatchLength)
	}
	out := make([]math.Mat4, len(covs))
	err := parallel(ctx, len(covs), workers, func(i int) error {
		m, err := TransformFromGaussian(means[i], covs[i], scale)
		if err != nil {
			return fmt.Errorf("component %d: %w", i, err)
		}
		out[i] = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// parallel runs fn for every index in [0, n) on up to workers goroutines.
func parallel(ctx context.Context, n, workers int, fn func(i int) error) error {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return fn(i)
		})
	}
	return g.Wait()
}
