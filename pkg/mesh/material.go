package mesh

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	gomath "math"
	"strings"

	"github.com/Faultbox/meshgauss/pkg/math"
)

// Filter selects how texels are looked up.
type Filter int

const (
	FilterNearest  Filter = iota // Nearest texel, uv wrapped
	FilterBilinear               // Bilinear blend of four texels, uv wrapped
)

// String returns the filter name.
func (f Filter) String() string {
	switch f {
	case FilterNearest:
		return "nearest"
	case FilterBilinear:
		return "bilinear"
	default:
		return fmt.Sprintf("Unknown(%d)", int(f))
	}
}

// ParseFilter converts a filter name to a Filter.
func ParseFilter(s string) (Filter, error) {
	switch strings.ToLower(s) {
	case "", "nearest":
		return FilterNearest, nil
	case "bilinear":
		return FilterBilinear, nil
	default:
		return 0, fmt.Errorf("unknown texture filter %q", s)
	}
}

// Material maps texture coordinates to colors.
type Material struct {
	Name    string
	Image   *image.NRGBA // Texture image (nil uses Diffuse)
	Diffuse color.NRGBA  // Flat color when there is no image
	Filter  Filter
}

// Clone returns a deep copy of the material.
func (m *Material) Clone() *Material {
	out := *m
	if m.Image != nil {
		img := image.NewNRGBA(m.Image.Rect)
		copy(img.Pix, m.Image.Pix)
		out.Image = img
	}
	return &out
}

// ToColor returns the RGBA color at uv with channels in [0, 255].
// The v axis points up, so v = 1 is the first image row.
func (m *Material) ToColor(uv math.Vec2) [4]float64 {
	if m.Image == nil || m.Image.Rect.Empty() {
		d := m.Diffuse
		return [4]float64{float64(d.R), float64(d.G), float64(d.B), float64(d.A)}
	}
	if m.Filter == FilterBilinear {
		return sampleBilinear(m.Image, uv)
	}
	return sampleNearest(m.Image, uv)
}

// ToNRGBA converts any image to NRGBA format.
func ToNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok {
		return n
	}
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Rect, src, b.Min, draw.Src)
	return dst
}

func sampleNearest(img *image.NRGBA, uv math.Vec2) [4]float64 {
	w := img.Rect.Dx()
	h := img.Rect.Dy()
	x := wrap(int(gomath.Round(uv.X*float64(w-1))), w)
	y := wrap(int(gomath.Round((1-uv.Y)*float64(h-1))), h)
	i := img.PixOffset(img.Rect.Min.X+x, img.Rect.Min.Y+y)
	p := img.Pix
	return [4]float64{float64(p[i]), float64(p[i+1]), float64(p[i+2]), float64(p[i+3])}
}

func sampleBilinear(img *image.NRGBA, uv math.Vec2) [4]float64 {
	w := img.Rect.Dx()
	h := img.Rect.Dy()

	// Wrap UVs
	u := uv.X - gomath.Floor(uv.X)
	v := (1 - uv.Y) - gomath.Floor(1-uv.Y)

	fx := u * float64(w-1)
	fy := v * float64(h-1)
	x0 := int(fx)
	y0 := int(fy)
	x1 := (x0 + 1) % w
	y1 := (y0 + 1) % h
	dx := fx - float64(x0)
	dy := fy - float64(y0)

	i00 := img.PixOffset(img.Rect.Min.X+x0, img.Rect.Min.Y+y0)
	i10 := img.PixOffset(img.Rect.Min.X+x1, img.Rect.Min.Y+y0)
	i01 := img.PixOffset(img.Rect.Min.X+x0, img.Rect.Min.Y+y1)
	i11 := img.PixOffset(img.Rect.Min.X+x1, img.Rect.Min.Y+y1)

	w00 := (1 - dx) * (1 - dy)
	w10 := dx * (1 - dy)
	w01 := (1 - dx) * dy
	w11 := dx * dy

	pix := img.Pix
	var out [4]float64
	for c := 0; c < 4; c++ {
		out[c] = float64(pix[i00+c])*w00 + float64(pix[i10+c])*w10 +
			float64(pix[i01+c])*w01 + float64(pix[i11+c])*w11
	}
	return out
}

func wrap(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}
