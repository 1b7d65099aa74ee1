// Package mesh defines triangle meshes with vertex-color or texture visuals
// and normalizes them to a texture-backed form for color lookup.
package mesh

import (
	"errors"
	"fmt"

	"github.com/Faultbox/meshgauss/pkg/math"
)

// Mesh errors.
var (
	ErrUnsupportedVisual = errors.New("unsupported mesh visual")
	ErrNoTexture         = errors.New("mesh has no texture visual")
	ErrFaceIndex         = errors.New("face index out of range")
	ErrUVCount           = errors.New("uv count does not match vertex count")
	ErrColorCount        = errors.New("vertex color count does not match vertex count")
)

// Mesh is a triangle mesh with an optional visual.
type Mesh struct {
	Vertices []math.Vec3 // Vertex positions
	Faces    [][3]int    // Vertex indices per triangle
	Visual   Visual      // Color representation (nil for none)
}

// Clone returns a deep copy of the mesh, including its visual.
func (m *Mesh) Clone() *Mesh {
	out := &Mesh{
		Vertices: append([]math.Vec3(nil), m.Vertices...),
		Faces:    append([][3]int(nil), m.Faces...),
	}
	if m.Visual != nil {
		out.Visual = m.Visual.clone()
	}
	return out
}

// Validate checks that every face references an existing vertex and that the
// visual carries one entry per vertex.
func (m *Mesh) Validate() error {
	n := len(m.Vertices)
	for i, f := range m.Faces {
		for _, idx := range f {
			if idx < 0 || idx >= n {
				return fmt.Errorf("face %d references vertex %d of %d: %w", i, idx, n, ErrFaceIndex)
			}
		}
	}
	switch v := m.Visual.(type) {
	case *TextureVisual:
		if len(v.UV) != n {
			return fmt.Errorf("%d uvs for %d vertices: %w", len(v.UV), n, ErrUVCount)
		}
	case *ColorVisual:
		if len(v.VertexColors) != n {
			return fmt.Errorf("%d colors for %d vertices: %w", len(v.VertexColors), n, ErrColorCount)
		}
	}
	return nil
}

// Corners returns the three vertex positions of face i.
func (m *Mesh) Corners(i int) [3]math.Vec3 {
	f := m.Faces[i]
	return [3]math.Vec3{m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]}
}

// BarycentricToMesh converts barycentric coordinates p on face i to a point on the mesh.
func (m *Mesh) BarycentricToMesh(p math.Vec3, i int) math.Vec3 {
	c := m.Corners(i)
	return c[0].Scale(p.X).Add(c[1].Scale(p.Y)).Add(c[2].Scale(p.Z))
}

// Texture returns the texture visual of a patched mesh.
func (m *Mesh) Texture() (*TextureVisual, error) {
	tv, ok := m.Visual.(*TextureVisual)
	if !ok {
		return nil, ErrNoTexture
	}
	return tv, nil
}

// TextureUVBasis returns the three uv coordinates spanning face i in texture space.
func (m *Mesh) TextureUVBasis(i int) ([3]math.Vec2, error) {
	tv, err := m.Texture()
	if err != nil {
		return [3]math.Vec2{}, err
	}
	return tv.UVBasis(m.Faces[i]), nil
}

// UVToColor returns the RGBA color, in [0, 255], at a texture coordinate.
func (m *Mesh) UVToColor(uv math.Vec2) ([4]float64, error) {
	tv, err := m.Texture()
	if err != nil {
		return [4]float64{}, err
	}
	return tv.Material.ToColor(uv), nil
}

// Patch returns a copy of m that is guaranteed to carry a texture visual.
//
// A vertex-color visual is converted to an equivalent texture, a texture
// visual is copied unchanged. Any other visual is rejected.
func Patch(m *Mesh) (*Mesh, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	patched := m.Clone()
	switch v := patched.Visual.(type) {
	case *ColorVisual:
		patched.Visual = v.ToTexture()
	case *TextureVisual:
		if v.Material == nil {
			v.Material = &Material{}
		}
	default:
		return nil, fmt.Errorf("visual %T: %w", m.Visual, ErrUnsupportedVisual)
	}
	return patched, nil
}
