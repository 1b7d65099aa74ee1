package mesh

import (
	"image"
	"image/color"
	gomath "math"

	"github.com/Faultbox/meshgauss/pkg/math"
)

// VisualKind identifies how a mesh stores color.
type VisualKind int

const (
	VisualNone    VisualKind = iota // No color information
	VisualColor                     // Per-vertex colors
	VisualTexture                   // UV coordinates and a material
)

// String returns a human-readable visual kind.
func (k VisualKind) String() string {
	switch k {
	case VisualNone:
		return "None"
	case VisualColor:
		return "VertexColor"
	case VisualTexture:
		return "Texture"
	default:
		return "Unknown"
	}
}

// KindOf returns the kind of a visual, VisualNone for nil.
func KindOf(v Visual) VisualKind {
	if v == nil {
		return VisualNone
	}
	return v.Kind()
}

// Visual is the color representation of a mesh. It is either a
// *ColorVisual or a *TextureVisual.
type Visual interface {
	Kind() VisualKind
	clone() Visual
}

// ColorVisual stores one RGBA color per vertex.
type ColorVisual struct {
	VertexColors []color.NRGBA
}

// Kind implements Visual.
func (v *ColorVisual) Kind() VisualKind { return VisualColor }

func (v *ColorVisual) clone() Visual {
	return &ColorVisual{VertexColors: append([]color.NRGBA(nil), v.VertexColors...)}
}

// ToTexture converts vertex colors into an equivalent texture.
//
// Unique colors are laid out row by row on a square image and each vertex
// gets the uv of its color's pixel center, so a nearest-pixel lookup at a
// vertex uv returns exactly that vertex's color.
func (v *ColorVisual) ToTexture() *TextureVisual {
	index := make(map[color.NRGBA]int)
	var palette []color.NRGBA
	pixel := make([]int, len(v.VertexColors))
	for i, c := range v.VertexColors {
		p, ok := index[c]
		if !ok {
			p = len(palette)
			index[c] = p
			palette = append(palette, c)
		}
		pixel[i] = p
	}

	side := int(gomath.Ceil(gomath.Sqrt(float64(len(palette)))))
	if side < 1 {
		side = 1
	}
	img := image.NewNRGBA(image.Rect(0, 0, side, side))
	for p, c := range palette {
		img.SetNRGBA(p%side, p/side, c)
	}

	uv := make([]math.Vec2, len(pixel))
	for i, p := range pixel {
		x, y := p%side, p/side
		uv[i] = math.Vec2{
			X: (float64(x) + 0.5) / float64(side),
			Y: 1 - (float64(y)+0.5)/float64(side),
		}
	}

	return &TextureVisual{
		UV:       uv,
		Material: &Material{Name: "vertex_colors", Image: img, Filter: FilterNearest},
	}
}

// TextureVisual stores one uv coordinate per vertex and the material they index.
type TextureVisual struct {
	UV       []math.Vec2
	Material *Material
}

// Kind implements Visual.
func (v *TextureVisual) Kind() VisualKind { return VisualTexture }

func (v *TextureVisual) clone() Visual {
	out := &TextureVisual{UV: append([]math.Vec2(nil), v.UV...)}
	if v.Material != nil {
		out.Material = v.Material.Clone()
	}
	return out
}

// UVBasis returns the uv coordinates of a face's three corners.
func (v *TextureVisual) UVBasis(face [3]int) [3]math.Vec2 {
	return [3]math.Vec2{v.UV[face[0]], v.UV[face[1]], v.UV[face[2]]}
}
