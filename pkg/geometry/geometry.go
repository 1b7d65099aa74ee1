// Package geometry provides per-triangle area and normal computation.
package geometry

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/meshgauss/pkg/math"
)

// ErrFaceIndex is returned when a face references a vertex that does not exist.
var ErrFaceIndex = errors.New("face references vertex out of range")

// chunkSize is the number of faces handled per worker task.
const chunkSize = 4096

// AreaOfTriangle returns the area of the triangle spanned by a, b and c.
//
// The area is computed as half base times height, with the height taken from
// projecting (b - c) orthogonally onto (a - c). A zero-length edge a - c
// divides by zero and yields NaN; callers must not pass degenerate triangles.
func AreaOfTriangle(a, b, c math.Vec3) float64 {
	x := a.Sub(c)
	y := b.Sub(c)
	w := x.Length()
	h := y.Sub(x.Scale(x.Dot(y) / (w * w))).Length()
	return w * h / 2
}

// AreaOfTriangleOrigin returns the area of the triangle spanned by a, b and the origin.
func AreaOfTriangleOrigin(a, b math.Vec3) float64 {
	return AreaOfTriangle(a, b, math.Vec3{})
}

// AreaAndNormal returns the area and the unnormalized normal of a single face.
func AreaAndNormal(face [3]int, vertices []math.Vec3) (float64, math.Vec3) {
	a := vertices[face[1]].Sub(vertices[face[0]])
	b := vertices[face[2]].Sub(vertices[face[0]])
	return AreaOfTriangleOrigin(a, b), a.Cross(b)
}

// ComputeAreaAndNormals returns the area and unnormalized normal of every face.
//
// Faces are independent, so they are split into chunks and processed by up to
// workers goroutines (GOMAXPROCS when workers <= 0). The result does not
// depend on the number of workers.
func ComputeAreaAndNormals(ctx context.Context, faces [][3]int, vertices []math.Vec3, workers int) ([]float64, []math.Vec3, error) {
	if err := checkFaces(faces, len(vertices)); err != nil {
		return nil, nil, err
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	areas := make([]float64, len(faces))
	normals := make([]math.Vec3, len(faces))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for start := 0; start < len(faces); start += chunkSize {
		end := min(start+chunkSize, len(faces))
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			for i := start; i < end; i++ {
				areas[i], normals[i] = AreaAndNormal(faces[i], vertices)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return areas, normals, nil
}

// TotalArea sums the given face areas.
func TotalArea(areas []float64) float64 {
	var total float64
	for _, a := range areas {
		total += a
	}
	return total
}

func checkFaces(faces [][3]int, numVertices int) error {
	for i, f := range faces {
		for _, idx := range f {
			if idx < 0 || idx >= numVertices {
				return fmt.Errorf("face %d: index %d with %d vertices: %w", i, idx, numVertices, ErrFaceIndex)
			}
		}
	}
	return nil
}
