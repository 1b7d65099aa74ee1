package formats

import (
	"fmt"

	"github.com/Faultbox/meshgauss/pkg/math"
)

// MixtureDocument holds a fitted Gaussian mixture: per-component means
// and covariances plus one component label per sample.
type MixtureDocument struct {
	Means       []Triple    `yaml:"means"`
	Covariances [][3]Triple `yaml:"covariances"`
	Labels      []int       `yaml:"labels,flow"`
}

// NewMixtureDocument builds a document from component parameters.
func NewMixtureDocument(means []math.Vec3, covs []math.Mat3, labels []int) *MixtureDocument {
	doc := &MixtureDocument{
		Means:       triples(means),
		Covariances: make([][3]Triple, len(covs)),
		Labels:      append([]int(nil), labels...),
	}
	for i, c := range covs {
		r := c.Rows()
		doc.Covariances[i] = [3]Triple{r[0], r[1], r[2]}
	}
	return doc
}

// Validate checks that means and covariances agree in count.
func (d *MixtureDocument) Validate() error {
	if len(d.Means) != len(d.Covariances) {
		return fmt.Errorf("mixture: %d means, %d covariances: %w",
			len(d.Means), len(d.Covariances), ErrInvalidDocument)
	}
	return nil
}

// Components returns the number of mixture components.
func (d *MixtureDocument) Components() int {
	return len(d.Means)
}

// MeanVectors returns the component means.
func (d *MixtureDocument) MeanVectors() []math.Vec3 {
	return vecs(d.Means)
}

// CovarianceMatrices returns the component covariances.
func (d *MixtureDocument) CovarianceMatrices() []math.Mat3 {
	out := make([]math.Mat3, len(d.Covariances))
	for i, c := range d.Covariances {
		out[i] = math.Mat3FromRows([3][3]float64{c[0], c[1], c[2]})
	}
	return out
}

// LoadMixture reads and validates a mixture document.
func LoadMixture(path string) (*MixtureDocument, error) {
	var doc MixtureDocument
	if err := readYAML(path, &doc); err != nil {
		return nil, err
	}
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &doc, nil
}

// SaveMixture writes a mixture document.
func SaveMixture(path string, doc *MixtureDocument) error {
	return writeYAML(path, doc)
}
