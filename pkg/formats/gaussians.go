package formats

import (
	gomath "math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/Faultbox/meshgauss/pkg/math"
	"github.com/Faultbox/meshgauss/pkg/sampling"
)

// GaussianRecord is one packed mixture component.
type GaussianRecord struct {
	Mean       Triple    `yaml:"mean"`
	Covariance [3]Triple `yaml:"covariance"`
	Transform  []float64 `yaml:"transform,flow"` // 16 entries, column-major
	Color      Quad      `yaml:"color"`
	Hex        string    `yaml:"hex"`
	Count      int       `yaml:"count"`
}

// GaussianDocument is the pipeline output.
type GaussianDocument struct {
	Seed      string           `yaml:"seed,omitempty"`
	Scale     float64          `yaml:"scale"`
	Gaussians []GaussianRecord `yaml:"gaussians"`
}

// NewGaussianRecord packs one component.
func NewGaussianRecord(mean math.Vec3, cov math.Mat3, transform math.Mat4, c sampling.Color, count int) GaussianRecord {
	r := cov.Rows()
	return GaussianRecord{
		Mean:       Triple(mean.Array()),
		Covariance: [3]Triple{r[0], r[1], r[2]},
		Transform:  append([]float64(nil), transform[:]...),
		Color:      Quad(c),
		Hex:        HexColor(c),
		Count:      count,
	}
}

// Matrix returns the packed transform.
func (g GaussianRecord) Matrix() math.Mat4 {
	var m math.Mat4
	copy(m[:], g.Transform)
	return m
}

// HexColor formats the RGB channels of c (in [0, 1]) as #rrggbb.
func HexColor(c sampling.Color) string {
	return colorful.Color{R: clamp01(c[0]), G: clamp01(c[1]), B: clamp01(c[2])}.Hex()
}

func clamp01(x float64) float64 {
	if gomath.IsNaN(x) {
		return 0
	}
	return gomath.Max(0, gomath.Min(1, x))
}

// LoadGaussians reads a gaussian document.
func LoadGaussians(path string) (*GaussianDocument, error) {
	var doc GaussianDocument
	if err := readYAML(path, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// SaveGaussians writes a gaussian document.
func SaveGaussians(path string, doc *GaussianDocument) error {
	return writeYAML(path, doc)
}
