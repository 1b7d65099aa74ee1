package ellipsoid

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/meshgauss/pkg/math"
)

func TestCreateEllipsoidMesh(t *testing.T) {
	const n = 10
	const scale = 0.5
	m, err := CreateEllipsoidMesh(math.Mat3Diag(4, 1, 9), n, scale)
	require.NoError(t, err)

	assert.Len(t, m.Vertices, n*n)
	assert.Len(t, m.Faces, 2*(n-1)*(n-1))
	require.NoError(t, m.Validate())

	// Every vertex lies on the ellipsoid with semi-axes scale*(2, 1, 3).
	for i, v := range m.Vertices {
		x := v.X / (scale * 2)
		y := v.Y / (scale * 1)
		z := v.Z / (scale * 3)
		assert.InDelta(t, 1.0, x*x+y*y+z*z, 1e-9, "vertex %d", i)
	}

	// Fixed winding of the first cell.
	assert.Equal(t, [3]int{0, 1, n}, m.Faces[0])
	assert.Equal(t, [3]int{1, n + 1, n}, m.Faces[1])

	// Poles: j = 0 is the north pole for every longitude.
	assert.InDelta(t, scale*3, m.Vertices[0].Z, 1e-12)
	assert.InDelta(t, -scale*3, m.Vertices[n-1].Z, 1e-12)
}

func TestCreateEllipsoidMesh_Deterministic(t *testing.T) {
	cov := math.Mat3{2, 0.5, 0, 0.5, 1, 0.1, 0, 0.1, 3}
	a, err := CreateEllipsoidMesh(cov, 6, 1)
	require.NoError(t, err)
	b, err := CreateEllipsoidMesh(cov, 6, 1)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestCreateEllipsoidMesh_GridSize(t *testing.T) {
	_, err := CreateEllipsoidMesh(math.Mat3Identity(), 1, 1)
	if !errors.Is(err, ErrGridSize) {
		t.Errorf("expected ErrGridSize, got %v", err)
	}
}
