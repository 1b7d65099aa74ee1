package mesh

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/Faultbox/meshgauss/pkg/math"
)

func quadMesh() *Mesh {
	return &Mesh{
		Vertices: []math.Vec3{
			{X: 0, Y: 0, Z: 0},
			{X: 1, Y: 0, Z: 0},
			{X: 1, Y: 1, Z: 0},
			{X: 0, Y: 1, Z: 0},
		},
		Faces: [][3]int{{0, 1, 2}, {0, 2, 3}},
	}
}

func TestPatch_VertexColorsLossless(t *testing.T) {
	m := quadMesh()
	colors := []color.NRGBA{
		{255, 0, 0, 255},
		{0, 255, 0, 255},
		{255, 0, 0, 255}, // duplicate of vertex 0
		{10, 20, 30, 40},
	}
	m.Visual = &ColorVisual{VertexColors: colors}

	patched, err := Patch(m)
	if err != nil {
		t.Fatalf("Patch() error: %v", err)
	}
	if KindOf(patched.Visual) != VisualTexture {
		t.Fatalf("patched visual kind = %v, want Texture", KindOf(patched.Visual))
	}

	tv, err := patched.Texture()
	if err != nil {
		t.Fatalf("Texture() error: %v", err)
	}
	if len(tv.UV) != len(m.Vertices) {
		t.Fatalf("got %d uvs, want %d", len(tv.UV), len(m.Vertices))
	}
	// 3 unique colors fit on a 2x2 image.
	if tv.Material.Image.Rect.Dx() != 2 || tv.Material.Image.Rect.Dy() != 2 {
		t.Errorf("texture size = %v, want 2x2", tv.Material.Image.Rect)
	}

	for i, c := range colors {
		got, err := patched.UVToColor(tv.UV[i])
		if err != nil {
			t.Fatalf("UVToColor() error: %v", err)
		}
		want := [4]float64{float64(c.R), float64(c.G), float64(c.B), float64(c.A)}
		if got != want {
			t.Errorf("vertex %d: color = %v, want %v", i, got, want)
		}
	}

	// Input is untouched.
	if KindOf(m.Visual) != VisualColor {
		t.Error("Patch modified the input mesh")
	}
}

func TestPatch_LargePalette(t *testing.T) {
	m := &Mesh{}
	var colors []color.NRGBA
	for i := 0; i < 50; i++ {
		m.Vertices = append(m.Vertices, math.Vec3{X: float64(i)})
		colors = append(colors, color.NRGBA{uint8(i), uint8(2 * i), uint8(3 * i), 255})
	}
	m.Visual = &ColorVisual{VertexColors: colors}

	patched, err := Patch(m)
	if err != nil {
		t.Fatalf("Patch() error: %v", err)
	}
	tv, _ := patched.Texture()
	for i, c := range colors {
		got := tv.Material.ToColor(tv.UV[i])
		if got[0] != float64(c.R) || got[1] != float64(c.G) || got[2] != float64(c.B) {
			t.Errorf("vertex %d: color = %v, want %v", i, got, c)
		}
	}
}

func TestPatch_TexturePassThrough(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.SetNRGBA(0, 0, color.NRGBA{1, 2, 3, 255})
	m := quadMesh()
	m.Visual = &TextureVisual{
		UV:       []math.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}},
		Material: &Material{Image: img},
	}

	patched, err := Patch(m)
	if err != nil {
		t.Fatalf("Patch() error: %v", err)
	}
	tv, _ := patched.Texture()
	orig := m.Visual.(*TextureVisual)
	if &tv.UV[0] == &orig.UV[0] {
		t.Error("Patch should deep-copy uvs")
	}
	if tv.Material.Image == orig.Material.Image {
		t.Error("Patch should deep-copy the texture image")
	}
	if tv.UV[2] != orig.UV[2] {
		t.Errorf("uv changed: %v vs %v", tv.UV[2], orig.UV[2])
	}

	// v = 1 is the top image row.
	got := tv.Material.ToColor(math.Vec2{X: 0, Y: 1})
	if got != [4]float64{1, 2, 3, 255} {
		t.Errorf("top-left texel = %v", got)
	}
}

func TestPatch_Unsupported(t *testing.T) {
	_, err := Patch(quadMesh())
	if !errors.Is(err, ErrUnsupportedVisual) {
		t.Errorf("expected ErrUnsupportedVisual, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(m *Mesh)
		wantErr error
	}{
		{"valid", func(m *Mesh) {}, nil},
		{"bad face", func(m *Mesh) { m.Faces[1][2] = 4 }, ErrFaceIndex},
		{"negative face", func(m *Mesh) { m.Faces[0][0] = -1 }, ErrFaceIndex},
		{"uv count", func(m *Mesh) { m.Visual = &TextureVisual{UV: make([]math.Vec2, 3)} }, ErrUVCount},
		{"color count", func(m *Mesh) { m.Visual = &ColorVisual{VertexColors: make([]color.NRGBA, 5)} }, ErrColorCount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := quadMesh()
			tt.mutate(m)
			err := m.Validate()
			if tt.wantErr == nil && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestBarycentricToMesh(t *testing.T) {
	m := quadMesh()
	p := m.BarycentricToMesh(math.Vec3{X: 0.2, Y: 0.3, Z: 0.5}, 1)
	// Face 1 is (0,0,0), (1,1,0), (0,1,0).
	want := math.Vec3{X: 0.3, Y: 0.8, Z: 0}
	if p.Distance(want) > 1e-12 {
		t.Errorf("BarycentricToMesh() = %v, want %v", p, want)
	}

	corner := m.BarycentricToMesh(math.Vec3{X: 0, Y: 1, Z: 0}, 0)
	if corner != m.Vertices[1] {
		t.Errorf("unit barycentric should return the corner, got %v", corner)
	}
}

func TestTextureUVBasis(t *testing.T) {
	m := quadMesh()
	if _, err := m.TextureUVBasis(0); !errors.Is(err, ErrNoTexture) {
		t.Errorf("expected ErrNoTexture, got %v", err)
	}
	if _, err := m.UVToColor(math.Vec2{}); !errors.Is(err, ErrNoTexture) {
		t.Errorf("expected ErrNoTexture, got %v", err)
	}

	uv := []math.Vec2{{X: 0, Y: 0}, {X: 0.1, Y: 0}, {X: 0.2, Y: 0.3}, {X: 0.4, Y: 0.5}}
	m.Visual = &TextureVisual{UV: uv, Material: &Material{}}
	basis, err := m.TextureUVBasis(1)
	if err != nil {
		t.Fatalf("TextureUVBasis() error: %v", err)
	}
	if basis != [3]math.Vec2{uv[0], uv[2], uv[3]} {
		t.Errorf("TextureUVBasis() = %v", basis)
	}
}

func TestClone(t *testing.T) {
	m := quadMesh()
	m.Visual = &ColorVisual{VertexColors: make([]color.NRGBA, 4)}
	c := m.Clone()
	c.Vertices[0].X = 42
	c.Faces[0][0] = 3
	c.Visual.(*ColorVisual).VertexColors[0].R = 9

	if m.Vertices[0].X != 0 || m.Faces[0][0] != 0 || m.Visual.(*ColorVisual).VertexColors[0].R != 0 {
		t.Error("Clone shares memory with the original")
	}
}

func TestVisualKindString(t *testing.T) {
	if VisualTexture.String() != "Texture" || VisualColor.String() != "VertexColor" || VisualNone.String() != "None" {
		t.Error("unexpected VisualKind names")
	}
}
