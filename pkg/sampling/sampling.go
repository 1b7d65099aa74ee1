// Package sampling draws area-uniform random points from a mesh surface.
package sampling

import (
	"context"
	"errors"
	"fmt"
	gomath "math"

	"gonum.org/v1/gonum/stat/distmv"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/Faultbox/meshgauss/pkg/geometry"
	"github.com/Faultbox/meshgauss/pkg/math"
	"github.com/Faultbox/meshgauss/pkg/mesh"
	"github.com/Faultbox/meshgauss/pkg/prng"
)

// Sampling errors.
var (
	ErrEmptyMesh   = errors.New("mesh has no faces")
	ErrZeroArea    = errors.New("mesh has zero total area")
	ErrInvalidArea = errors.New("mesh has a face with invalid area")
	ErrNegativeN   = errors.New("negative sample count")
)

// Color is an RGBA color with channels in [0, 1].
type Color [4]float64

// Gray is the placeholder color used when colors are not resolved.
var Gray = Color{0.5, 0.5, 0.5, 1}

// SampleSet holds parallel per-sample slices. It is not modified after creation.
type SampleSet struct {
	Points       []math.Vec3 // World-space positions
	Barycentrics []math.Vec3 // Barycentric coordinates on the source face
	Faces        []int       // Source face indices
	Colors       []Color     // Colors (Gray when not resolved)
}

// Len returns the number of samples.
func (s *SampleSet) Len() int {
	return len(s.Points)
}

// dirichlet returns a symmetric Dirichlet(1, 1, 1), uniform over the 2-simplex.
func dirichlet(key prng.Key) *distmv.Dirichlet {
	return distmv.NewDirichlet([]float64{1, 1, 1}, key.Source())
}

// SampleFromFace draws n points uniformly from face i and returns their
// world positions and barycentric coordinates.
func SampleFromFace(key prng.Key, n, i int, m *mesh.Mesh) ([]math.Vec3, []math.Vec3) {
	_, keys := prng.Split(key, 1)
	d := dirichlet(keys[0])

	xs := make([]math.Vec3, n)
	ps := make([]math.Vec3, n)
	buf := make([]float64, 3)
	for j := range n {
		d.Rand(buf)
		ps[j] = math.Vec3{X: buf[0], Y: buf[1], Z: buf[2]}
		xs[j] = m.BarycentricToMesh(ps[j], i)
	}
	return xs, ps
}

// SampleFromMesh draws n points from the surface of m, uniform by area.
//
// Faces are chosen independently with probability proportional to their
// area, then a barycentric coordinate is drawn uniformly on each chosen
// face. The key is split into separate streams for the two steps, so the
// result depends only on key and n.
func SampleFromMesh(ctx context.Context, key prng.Key, n int, m *mesh.Mesh) (*SampleSet, error) {
	if n < 0 {
		return nil, fmt.Errorf("sample count %d: %w", n, ErrNegativeN)
	}
	if len(m.Faces) == 0 {
		return nil, ErrEmptyMesh
	}

	areas, _, err := geometry.ComputeAreaAndNormals(ctx, m.Faces, m.Vertices, 0)
	if err != nil {
		return nil, fmt.Errorf("computing face areas: %w", err)
	}
	if err := checkAreas(areas); err != nil {
		return nil, err
	}

	_, keys := prng.Split(key, 2)
	faces := distuv.NewCategorical(areas, keys[0].Source())
	bary := dirichlet(keys[1])

	set := &SampleSet{
		Points:       make([]math.Vec3, n),
		Barycentrics: make([]math.Vec3, n),
		Faces:        make([]int, n),
	}
	for j := range n {
		set.Faces[j] = int(faces.Rand())
	}
	buf := make([]float64, 3)
	for j := range n {
		bary.Rand(buf)
		p := math.Vec3{X: buf[0], Y: buf[1], Z: buf[2]}
		set.Barycentrics[j] = p
		set.Points[j] = m.BarycentricToMesh(p, set.Faces[j])
	}
	return set, nil
}

// GetColorsFromMesh resolves the texture color of each sample. The uv of a
// sample is the barycentric blend of its face's uv corners. Colors are
// scaled from [0, 255] to [0, 1]. The mesh must have been patched.
func GetColorsFromMesh(ps []math.Vec3, fs []int, m *mesh.Mesh) ([]Color, error) {
	if len(ps) != len(fs) {
		return nil, fmt.Errorf("%d barycentrics for %d faces", len(ps), len(fs))
	}
	tv, err := m.Texture()
	if err != nil {
		return nil, err
	}

	cs := make([]Color, len(ps))
	for j, p := range ps {
		b := tv.UVBasis(m.Faces[fs[j]])
		uv := b[0].Scale(p.X).Add(b[1].Scale(p.Y)).Add(b[2].Scale(p.Z))
		c := tv.Material.ToColor(uv)
		cs[j] = Color{c[0] / 255, c[1] / 255, c[2] / 255, c[3] / 255}
	}
	return cs, nil
}

// UniformlySampleFromMesh draws n points from m and, when withColor is set,
// their texture colors. Without color every sample gets Gray, which skips
// the texture lookups.
func UniformlySampleFromMesh(ctx context.Context, key prng.Key, n int, m *mesh.Mesh, withColor bool) (*SampleSet, error) {
	set, err := SampleFromMesh(ctx, key, n, m)
	if err != nil {
		return nil, err
	}

	if withColor {
		set.Colors, err = GetColorsFromMesh(set.Barycentrics, set.Faces, m)
		if err != nil {
			return nil, fmt.Errorf("resolving colors: %w", err)
		}
		return set, nil
	}

	set.Colors = make([]Color, n)
	for j := range set.Colors {
		set.Colors[j] = Gray
	}
	return set, nil
}

func checkAreas(areas []float64) error {
	var total float64
	for i, a := range areas {
		if gomath.IsNaN(a) || gomath.IsInf(a, 0) || a < 0 {
			return fmt.Errorf("face %d area %v: %w", i, a, ErrInvalidArea)
		}
		total += a
	}
	if total == 0 {
		return ErrZeroArea
	}
	return nil
}
