package ellipsoid

import (
	"context"
	"errors"
	gomath "math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/meshgauss/pkg/math"
	"github.com/Faultbox/meshgauss/pkg/prng"
)

// randomSPD returns B Bᵀ + 0.1 I for a random B.
func randomSPD(key prng.Key) math.Mat3 {
	r := key.Rand()
	var b math.Mat3
	for i := range b {
		b[i] = r.NormFloat64()
	}
	c := b.Mul(b.Transpose())
	for i := 0; i < 3; i++ {
		c[i*3+i] += 0.1
	}
	return c
}

func assertMat3InDelta(t *testing.T, want, got math.Mat3, delta float64) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], delta, "element %d", i)
	}
}

func TestEmbedding_SquareRoot(t *testing.T) {
	_, keys := prng.Split(prng.NewKey(0), 25)
	for _, k := range keys {
		c := randomSPD(k)
		a, err := Embedding(c)
		require.NoError(t, err)

		assertMat3InDelta(t, c, a.Mul(a.Transpose()), 1e-9)
		// The square root is symmetric.
		assert.True(t, a.IsSymmetric(1e-9), "embedding should be symmetric: %v", a)
	}
}

func TestEmbedding_Diagonal(t *testing.T) {
	a, err := Embedding(math.Mat3Diag(4, 9, 16))
	require.NoError(t, err)
	assertMat3InDelta(t, math.Mat3Diag(2, 3, 4), a, 1e-12)
}

func TestEmbedding_ClampsNegativeEigenvalues(t *testing.T) {
	a, err := Embedding(math.Mat3Diag(1, 1, -1e-12))
	require.NoError(t, err)
	assert.True(t, a.IsFinite())
	assertMat3InDelta(t, math.Mat3Diag(1, 1, 0), a, 1e-12)
}

func TestEmbedding_NotFinite(t *testing.T) {
	c := math.Mat3Identity()
	c[4] = gomath.NaN()
	_, err := Embedding(c)
	assert.True(t, errors.Is(err, ErrNotFinite), "got %v", err)
}

func TestEigen_Ascending(t *testing.T) {
	vals, u, err := Eigen(math.Mat3{
		2, 1, 0,
		1, 2, 0,
		0, 0, 5,
	})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, vals[0], 1e-12)
	assert.InDelta(t, 3.0, vals[1], 1e-12)
	assert.InDelta(t, 5.0, vals[2], 1e-12)
	// Orthonormal columns.
	assertMat3InDelta(t, math.Mat3Identity(), u.Transpose().Mul(u), 1e-12)
}

func TestTransformFromGaussian_Identity(t *testing.T) {
	m, err := TransformFromGaussian(math.Vec3{X: 1, Y: 2, Z: 3}, math.Mat3Identity(), 1.0)
	require.NoError(t, err)

	assertMat3InDelta(t, math.Mat3Identity(), m.Mat3(), 1e-12)
	assert.Equal(t, math.Vec3{X: 1, Y: 2, Z: 3}, m.Translation())
	assert.Equal(t, [4]float64{0, 0, 0, 1}, m.Row(3))

	// Flat element order matches the transposed row-major packing.
	assert.InDelta(t, 1.0, m[12], 0)
	assert.InDelta(t, 2.0, m[13], 0)
	assert.InDelta(t, 3.0, m[14], 0)
	assert.InDelta(t, 1.0, m[15], 0)
	assert.InDelta(t, 0.0, m[3], 0)
}

func TestPackTransform_Layout(t *testing.T) {
	a := math.Mat3{
		1, 2, 3,
		4, 5, 6,
		7, 8, 9,
	}
	m := PackTransform(math.Vec3{X: 10, Y: 11, Z: 12}, a, 2)

	want := math.Mat4{
		2, 8, 14, 0,
		4, 10, 16, 0,
		6, 12, 18, 0,
		10, 11, 12, 1,
	}
	assert.Equal(t, want, m)
}

func TestTransformFromGaussian_MapsUnitSphere(t *testing.T) {
	cov := randomSPD(prng.NewKey(8))
	mean := math.Vec3{X: -1, Y: 0.5, Z: 2}
	const scale = 2.0

	m, err := TransformFromGaussian(mean, cov, scale)
	require.NoError(t, err)

	// A unit vector maps to a point on the scale-sigma ellipsoid:
	// (y-mean)ᵀ (scale² C)⁻¹ (y-mean) = 1. With a symmetric root A,
	// y - mean = scale*A*p, so (y-mean)ᵀ(scale² A A)⁻¹(y-mean) = pᵀp.
	p := math.Vec3{X: 0.6, Y: 0, Z: 0.8}
	y := m.TransformPoint(p)
	d := y.Sub(mean)
	a, _ := Embedding(cov)
	assert.InDelta(t, 0.0, d.Sub(a.MulVec3(p).Scale(scale)).Length(), 1e-12)
}

func TestTransformsFromGaussians(t *testing.T) {
	_, keys := prng.Split(prng.NewKey(2), 40)
	means := make([]math.Vec3, len(keys))
	covs := make([]math.Mat3, len(keys))
	for i, k := range keys {
		means[i] = math.Vec3{X: float64(i)}
		covs[i] = randomSPD(k)
	}

	ms, err := TransformsFromGaussians(context.Background(), means, covs, 1.5, 4)
	require.NoError(t, err)
	require.Len(t, ms, len(keys))
	for i := range ms {
		single, err := TransformFromGaussian(means[i], covs[i], 1.5)
		require.NoError(t, err)
		assert.Equal(t, single, ms[i])
	}

	as, err := Embeddings(context.Background(), covs, 0)
	require.NoError(t, err)
	assert.Len(t, as, len(covs))
}

func TestTransformsFromGaussians_Errors(t *testing.T) {
	_, err := TransformsFromGaussians(context.Background(), make([]math.Vec3, 2), make([]math.Mat3, 3), 1, 1)
	assert.True(t, errors.Is(err, ErrBatchLength), "got %v", err)

	covs := []math.Mat3{math.Mat3Identity(), {gomath.Inf(1)}}
	_, err = Embeddings(context.Background(), covs, 1)
	assert.True(t, errors.Is(err, ErrNotFinite), "got %v", err)
}
