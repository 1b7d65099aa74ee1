package ellipsoid

import (
	"fmt"
	gomath "math"

	"github.com/Faultbox/meshgauss/pkg/math"
	"github.com/Faultbox/meshgauss/pkg/mesh"
)

// CreateEllipsoidMesh builds a triangle mesh of the ellipsoid of cov for
// inspection. A numPoints x numPoints longitude/latitude grid on the unit
// sphere is mapped through the embedding of cov and scaled by scale.
// Vertex (i, j) sits at index i*numPoints+j, and each grid cell becomes the
// two triangles (v1, v2, v3) and (v2, v4, v3).
func CreateEllipsoidMesh(cov math.Mat3, numPoints int, scale float64) (*mesh.Mesh, error) {
	if numPoints < 2 {
		return nil, fmt.Errorf("%d points: %w", numPoints, ErrGridSize)
	}
	a, err := Embedding(cov)
	if err != nil {
		return nil, err
	}
	a = a.Scale(scale)

	n := numPoints
	step := 1 / float64(n-1)
	vertices := make([]math.Vec3, 0, n*n)
	for i := 0; i < n; i++ {
		u := 2 * gomath.Pi * float64(i) * step
		for j := 0; j < n; j++ {
			v := gomath.Pi * float64(j) * step
			p := math.Vec3{
				X: gomath.Cos(u) * gomath.Sin(v),
				Y: gomath.Sin(u) * gomath.Sin(v),
				Z: gomath.Cos(v),
			}
			vertices = append(vertices, a.MulVec3(p))
		}
	}

	faces := make([][3]int, 0, 2*(n-1)*(n-1))
	for i := 0; i < n-1; i++ {
		for j := 0; j < n-1; j++ {
			v1 := i*n + j
			v2 := v1 + 1
			v3 := (i+1)*n + j
			v4 := v3 + 1
			faces = append(faces, [3]int{v1, v2, v3}, [3]int{v2, v4, v3})
		}
	}

	return &mesh.Mesh{Vertices: vertices, Faces: faces}, nil
}
