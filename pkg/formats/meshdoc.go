package formats

import (
	"fmt"
	"image/color"
	"path/filepath"
	"strings"

	"github.com/Faultbox/meshgauss/pkg/math"
	"github.com/Faultbox/meshgauss/pkg/mesh"
)

// MeshDocument is the on-disk form of a mesh. It carries either
// per-vertex colors or uv coordinates with a texture reference.
type MeshDocument struct {
	Vertices     []Triple `yaml:"vertices"`
	Faces        []Index3 `yaml:"faces"`
	VertexColors []Color8 `yaml:"vertex_colors,omitempty"`
	UV           []Pair   `yaml:"uv,omitempty"`
	Texture      string   `yaml:"texture,omitempty"` // Relative to the document
	Diffuse      *Color8  `yaml:"diffuse,omitempty"`
	Filter       string   `yaml:"filter,omitempty"`
}

// LoadMesh reads a mesh document and resolves its texture.
func LoadMesh(path string) (*mesh.Mesh, error) {
	var doc MeshDocument
	if err := readYAML(path, &doc); err != nil {
		return nil, err
	}
	m, err := doc.ToMesh(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// SaveMesh writes m as a mesh document. A textured mesh also gets its
// image written next to the document as WebP.
func SaveMesh(path string, m *mesh.Mesh) error {
	doc := MeshToDocument(m)
	if tv, ok := m.Visual.(*mesh.TextureVisual); ok && tv.Material != nil && tv.Material.Image != nil {
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)) + ".webp"
		if err := WriteTexture(filepath.Join(filepath.Dir(path), name), tv.Material.Image); err != nil {
			return err
		}
		doc.Texture = name
	}
	return writeYAML(path, doc)
}

// MeshToDocument converts m to its document form. The texture path is
// left empty.
func MeshToDocument(m *mesh.Mesh) *MeshDocument {
	doc := &MeshDocument{
		Vertices: make([]Triple, len(m.Vertices)),
		Faces:    make([]Index3, len(m.Faces)),
	}
	for i, v := range m.Vertices {
		doc.Vertices[i] = Triple(v.Array())
	}
	for i, f := range m.Faces {
		doc.Faces[i] = Index3(f)
	}

	switch v := m.Visual.(type) {
	case *mesh.ColorVisual:
		doc.VertexColors = make([]Color8, len(v.VertexColors))
		for i, c := range v.VertexColors {
			doc.VertexColors[i] = Color8{c.R, c.G, c.B, c.A}
		}
	case *mesh.TextureVisual:
		doc.UV = make([]Pair, len(v.UV))
		for i, uv := range v.UV {
			doc.UV[i] = Pair{uv.X, uv.Y}
		}
		if v.Material != nil {
			d := v.Material.Diffuse
			doc.Diffuse = &Color8{d.R, d.G, d.B, d.A}
			doc.Filter = v.Material.Filter.String()
		}
	}
	return doc
}

// ToMesh builds a mesh from the document. Texture paths are resolved
// against dir.
func (d *MeshDocument) ToMesh(dir string) (*mesh.Mesh, error) {
	if len(d.VertexColors) > 0 && len(d.UV) > 0 {
		return nil, fmt.Errorf("both vertex_colors and uv given: %w", ErrInvalidDocument)
	}

	m := &mesh.Mesh{
		Vertices: make([]math.Vec3, len(d.Vertices)),
		Faces:    make([][3]int, len(d.Faces)),
	}
	for i, v := range d.Vertices {
		m.Vertices[i] = math.Vec3FromArray(v)
	}
	for i, f := range d.Faces {
		m.Faces[i] = [3]int(f)
	}

	switch {
	case len(d.VertexColors) > 0:
		cv := &mesh.ColorVisual{VertexColors: make([]color.NRGBA, len(d.VertexColors))}
		for i, c := range d.VertexColors {
			cv.VertexColors[i] = color.NRGBA{R: c[0], G: c[1], B: c[2], A: c[3]}
		}
		m.Visual = cv

	case len(d.UV) > 0 || d.Texture != "":
		tv := &mesh.TextureVisual{UV: make([]math.Vec2, len(d.UV))}
		for i, uv := range d.UV {
			tv.UV[i] = math.Vec2{X: uv[0], Y: uv[1]}
		}
		mat, err := d.material(dir)
		if err != nil {
			return nil, err
		}
		tv.Material = mat
		m.Visual = tv
	}

	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	return m, nil
}

func (d *MeshDocument) material(dir string) (*mesh.Material, error) {
	mat := &mesh.Material{Diffuse: color.NRGBA{R: 255, G: 255, B: 255, A: 255}}
	if d.Diffuse != nil {
		mat.Diffuse = color.NRGBA{R: d.Diffuse[0], G: d.Diffuse[1], B: d.Diffuse[2], A: d.Diffuse[3]}
	}
	if d.Filter != "" {
		f, err := mesh.ParseFilter(d.Filter)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
		}
		mat.Filter = f
	}
	if d.Texture != "" {
		path := d.Texture
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		img, err := DecodeTexture(path)
		if err != nil {
			return nil, err
		}
		mat.Name = filepath.Base(path)
		mat.Image = img
	}
	return mat, nil
}
