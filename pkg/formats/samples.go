package formats

import (
	"fmt"

	"github.com/Faultbox/meshgauss/pkg/math"
	"github.com/Faultbox/meshgauss/pkg/sampling"
)

// SampleDocument is the on-disk form of a sample set, optionally with
// the seed means drawn for mixture initialization.
type SampleDocument struct {
	Seed         string   `yaml:"seed,omitempty"`
	Points       []Triple `yaml:"points"`
	Barycentrics []Triple `yaml:"barycentrics"`
	Faces        []int    `yaml:"faces,flow"`
	Colors       []Quad   `yaml:"colors"`
	SeedMeans    []Triple `yaml:"seed_means,omitempty"`
}

// SamplesToDocument converts a sample set and optional seed means.
func SamplesToDocument(s *sampling.SampleSet, seedMeans []math.Vec3) *SampleDocument {
	n := s.Len()
	doc := &SampleDocument{
		Points:       make([]Triple, n),
		Barycentrics: make([]Triple, n),
		Faces:        append([]int(nil), s.Faces...),
		Colors:       make([]Quad, n),
	}
	for i := 0; i < n; i++ {
		doc.Points[i] = Triple(s.Points[i].Array())
		doc.Barycentrics[i] = Triple(s.Barycentrics[i].Array())
		doc.Colors[i] = Quad(s.Colors[i])
	}
	if len(seedMeans) > 0 {
		doc.SeedMeans = triples(seedMeans)
	}
	return doc
}

// SampleSet rebuilds the sample set. All per-sample lists must agree in length.
func (d *SampleDocument) SampleSet() (*sampling.SampleSet, error) {
	n := len(d.Points)
	if len(d.Barycentrics) != n || len(d.Faces) != n || len(d.Colors) != n {
		return nil, fmt.Errorf("samples: %d points, %d barycentrics, %d faces, %d colors: %w",
			n, len(d.Barycentrics), len(d.Faces), len(d.Colors), ErrInvalidDocument)
	}
	s := &sampling.SampleSet{
		Points:       vecs(d.Points),
		Barycentrics: vecs(d.Barycentrics),
		Faces:        append([]int(nil), d.Faces...),
		Colors:       make([]sampling.Color, n),
	}
	for i, c := range d.Colors {
		s.Colors[i] = sampling.Color(c)
	}
	return s, nil
}

// Means returns the seed means.
func (d *SampleDocument) Means() []math.Vec3 {
	return vecs(d.SeedMeans)
}

// LoadSamples reads a sample document.
func LoadSamples(path string) (*SampleDocument, error) {
	var doc SampleDocument
	if err := readYAML(path, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// SaveSamples writes a sample document.
func SaveSamples(path string, doc *SampleDocument) error {
	return writeYAML(path, doc)
}

func triples(vs []math.Vec3) []Triple {
	out := make([]Triple, len(vs))
	for i, v := range vs {
		out[i] = Triple(v.Array())
	}
	return out
}

func vecs(ts []Triple) []math.Vec3 {
	out := make([]math.Vec3, len(ts))
	for i, t := range ts {
		out[i] = math.Vec3FromArray(t)
	}
	return out
}
