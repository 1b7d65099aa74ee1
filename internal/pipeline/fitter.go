package pipeline

import (
	"context"
	"fmt"
	gomath "math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/Faultbox/meshgauss/pkg/math"
)

// NearestSeedFitter is a single-pass hard-assignment fitter: every point
// goes to its nearest initial mean and each component takes the sample
// mean and covariance of its points. It gives a coarse mixture without an
// external EM implementation.
type NearestSeedFitter struct {
	// Reg is added to every covariance diagonal. Components with fewer
	// than two points get Reg times the identity.
	Reg float64
}

// Fit implements MixtureFitter. initMeans must hold one mean per component.
func (f NearestSeedFitter) Fit(ctx context.Context, points []math.Vec3, components int, initMeans []math.Vec3) (*Mixture, error) {
	if len(initMeans) != components {
		return nil, fmt.Errorf("%d initial means for %d components: %w", len(initMeans), components, ErrBadFit)
	}

	labels := make([]int, len(points))
	members := make([][]int, components)
	for i, p := range points {
		if i%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		best, bestDist := -1, gomath.Inf(1)
		for k, m := range initMeans {
			if d := p.Sub(m).Dot(p.Sub(m)); d < bestDist {
				best, bestDist = k, d
			}
		}
		labels[i] = best
		if best >= 0 {
			members[best] = append(members[best], i)
		}
	}

	mix := &Mixture{
		Means:       make([]math.Vec3, components),
		Covariances: make([]math.Mat3, components),
		Labels:      labels,
	}
	for k, idx := range members {
		if len(idx) < 2 {
			mix.Means[k] = initMeans[k]
			if len(idx) == 1 {
				mix.Means[k] = points[idx[0]]
			}
			mix.Covariances[k] = math.Mat3Diag(f.Reg, f.Reg, f.Reg)
			continue
		}
		mix.Means[k], mix.Covariances[k] = f.moments(points, idx)
	}
	return mix, nil
}

// moments returns the mean and regularized covariance of points[idx].
func (f NearestSeedFitter) moments(points []math.Vec3, idx []int) (math.Vec3, math.Mat3) {
	x := mat.NewDense(len(idx), 3, nil)
	for r, i := range idx {
		row := points[i].Array()
		x.SetRow(r, row[:])
	}

	var mean [3]float64
	for c := 0; c < 3; c++ {
		mean[c] = stat.Mean(mat.Col(nil, c, x), nil)
	}

	var cov mat.SymDense
	stat.CovarianceMatrix(&cov, x, nil)

	var out math.Mat3
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			out[r*3+c] = cov.At(r, c)
		}
		out[r*3+r] += f.Reg
	}
	return math.Vec3FromArray(mean), out
}
