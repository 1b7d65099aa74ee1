package geometry

import (
	"context"
	"errors"
	gomath "math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/meshgauss/pkg/math"
)

func TestAreaOfTriangle_RightTriangle(t *testing.T) {
	a := math.Vec3{X: 0, Y: 0, Z: 0}
	b := math.Vec3{X: 3, Y: 0, Z: 0}
	c := math.Vec3{X: 0, Y: 4, Z: 0}

	if got := AreaOfTriangle(a, b, c); got != 6.0 {
		t.Errorf("AreaOfTriangle() = %v, want 6", got)
	}
}

func TestAreaOfTriangle_Permutations(t *testing.T) {
	a := math.Vec3{X: 0.5, Y: -1, Z: 2}
	b := math.Vec3{X: 3, Y: 1, Z: 0}
	c := math.Vec3{X: -2, Y: 4, Z: 1}
	want := 0.5 * b.Sub(a).Cross(c.Sub(a)).Length()

	perms := [][3]math.Vec3{
		{a, b, c}, {b, c, a}, {c, a, b},
		{a, c, b}, {c, b, a}, {b, a, c},
	}
	for _, p := range perms {
		assert.InDelta(t, want, AreaOfTriangle(p[0], p[1], p[2]), 1e-9)
	}
}

func TestAreaOfTriangle_Degenerate(t *testing.T) {
	p := math.Vec3{X: 1, Y: 1, Z: 1}
	got := AreaOfTriangle(p, math.Vec3{X: 2, Y: 0, Z: 0}, p)
	if !gomath.IsNaN(got) {
		t.Errorf("zero-length edge should yield NaN, got %v", got)
	}
}

func TestAreaOfTriangleOrigin(t *testing.T) {
	got := AreaOfTriangleOrigin(math.Vec3{X: 2}, math.Vec3{Y: 2})
	if got != 2 {
		t.Errorf("AreaOfTriangleOrigin() = %v, want 2", got)
	}
}

func TestComputeAreaAndNormals(t *testing.T) {
	vertices := []math.Vec3{
		{X: 0, Y: 0, Z: 0},
		{X: 3, Y: 0, Z: 0},
		{X: 0, Y: 4, Z: 0},
		{X: 0, Y: 0, Z: 2},
	}
	faces := [][3]int{{0, 1, 2}, {0, 2, 1}, {0, 1, 3}}

	areas, normals, err := ComputeAreaAndNormals(context.Background(), faces, vertices, 2)
	require.NoError(t, err)
	require.Len(t, areas, 3)

	assert.InDelta(t, 6.0, areas[0], 1e-12)
	assert.InDelta(t, 6.0, areas[1], 1e-12)
	assert.InDelta(t, 3.0, areas[2], 1e-12)

	assert.Equal(t, math.Vec3{X: 0, Y: 0, Z: 12}, normals[0])
	assert.Equal(t, math.Vec3{X: 0, Y: 0, Z: -12}, normals[1])

	// Area is consistent with half the normal's length.
	for i := range faces {
		assert.InDelta(t, normals[i].Length()/2, areas[i], 1e-9)
	}
}

func TestComputeAreaAndNormals_WorkerIndependence(t *testing.T) {
	var vertices []math.Vec3
	var faces [][3]int
	for i := 0; i < 3*chunkSize+17; i++ {
		base := len(vertices)
		fi := float64(i)
		vertices = append(vertices,
			math.Vec3{X: fi, Y: 0, Z: 0},
			math.Vec3{X: fi + 1, Y: 0.5 * fi, Z: 0},
			math.Vec3{X: fi, Y: 1, Z: 0.1 * fi},
		)
		faces = append(faces, [3]int{base, base + 1, base + 2})
	}

	a1, n1, err := ComputeAreaAndNormals(context.Background(), faces, vertices, 1)
	require.NoError(t, err)
	a8, n8, err := ComputeAreaAndNormals(context.Background(), faces, vertices, 8)
	require.NoError(t, err)

	assert.Equal(t, a1, a8)
	assert.Equal(t, n1, n8)
}

func TestComputeAreaAndNormals_BadIndex(t *testing.T) {
	vertices := []math.Vec3{{}, {X: 1}, {Y: 1}}
	_, _, err := ComputeAreaAndNormals(context.Background(), [][3]int{{0, 1, 3}}, vertices, 0)
	if !errors.Is(err, ErrFaceIndex) {
		t.Errorf("expected ErrFaceIndex, got %v", err)
	}
}

func TestComputeAreaAndNormals_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	vertices := []math.Vec3{{}, {X: 1}, {Y: 1}}
	_, _, err := ComputeAreaAndNormals(ctx, [][3]int{{0, 1, 2}}, vertices, 1)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestTotalArea(t *testing.T) {
	if got := TotalArea([]float64{1, 2.5, 0.5}); got != 4 {
		t.Errorf("TotalArea() = %v, want 4", got)
	}
}
